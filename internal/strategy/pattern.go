package strategy

// patternAlphabet maps a position character to a roster index: digits for
// the first nine players, then letters.
const patternAlphabet = "123456789ABCDEFG"

const (
	MinPatternPlayers = 5
	MaxPatternPlayers = 16
)

// patterns holds the precomputed rotations. Each code names four roster
// positions; the first two are team 1, the last two team 2. For every n each
// player appears in exactly four games and no partnership repeats. For court
// counts from 2 up to n/4, consecutive blocks of that many games never share a
// player.
var patterns = map[int][]string{
	5:  {"2314", "4235", "1245", "1543", "1352"},
	6:  {"5132", "2146", "5361", "2534", "5614", "2436"},
	7:  {"2713", "6154", "5723", "3614", "7425", "4637", "5612"},
	8:  {"4617", "5832", "8672", "5431", "3721", "8465", "5367", "1482"},
	9:  {"4953", "8672", "6134", "2895", "7619", "8342", "7941", "5836", "7125"},
	10: {"9387", "25A1", "467A", "8915", "2934", "7685", "3641", "A279", "A481", "3265"},
	11: {"9A81", "453B", "B791", "4A52", "6783", "9BA2", "5762", "8934", "1A36", "875B", "6142"},
	12: {"7684", "9CA5", "213B", "7859", "3A6B", "C214", "8BC4", "52A6", "1379", "2B85", "AC73", "4691"},
	13: {"D2B5", "A369", "481C", "6795", "1B3C", "248A", "9B51", "783D", "624C", "A583", "2716", "49BD", "CA7D"},
	14: {"3E8D", "6A9C", "12B4", "C875", "A914", "B2ED", "4985", "2E63", "B1C7", "54E6", "2DCA", "B793", "18D6", "5A73"},
	15: {"541A", "8C96", "BF23", "6CDE", "1297", "3FA8", "94E7", "B5D8", "C1FA", "D783", "B1E6", "425C", "A7BD", "5F9E", "2643"},
	16: {"18GC", "FE94", "5A6D", "27B3", "ADCF", "8E61", "9B3G", "7524", "1CF6", "2D8G", "7BEA", "9345", "DCE7", "9F6B", "53G1", "A428"},
}

// Pattern returns the fixed rotation for n players as roster positions, or
// false when n is outside the table.
func Pattern(n int) ([][4]int, bool) {
	codes, ok := patterns[n]
	if !ok {
		return nil, false
	}
	out := make([][4]int, len(codes))
	for i, code := range codes {
		for j := 0; j < 4; j++ {
			out[i][j] = positionOf(code[j])
		}
	}
	return out, true
}

func positionOf(c byte) int {
	for i := 0; i < len(patternAlphabet); i++ {
		if patternAlphabet[i] == c {
			return i
		}
	}
	return -1
}
