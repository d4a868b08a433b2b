package schedule

import (
	"github.com/jokerbb83/tennis-matching-app-sub000/internal/roster"
)

const maxRepairIterations = 200

// SwapRule limits which player may replace which in a finished game.
type SwapRule struct {
	SameGender bool
	SameGroup  bool
}

func (r SwapRule) compatible(a, b roster.Player) bool {
	if r.SameGender && a.Gender != b.Gender {
		return false
	}
	if r.SameGroup && a.Group != b.Group {
		return false
	}
	return true
}

// Repair moves appearances from the most-played player to the least-played
// one until everyone reaches minimum. It only rewrites team membership; game
// count, courts, rounds and types are untouched. It stops at the first
// under-served player it cannot help and returns the number of swaps made.
func Repair(games []Game, players []roster.Player, minimum int, rule SwapRule) int {
	if minimum <= 0 || len(players) == 0 {
		return 0
	}

	swaps := 0
	for iter := 0; iter < maxRepairIterations; iter++ {
		counts := Counts(games)

		need := players[0]
		for _, p := range players[1:] {
			if counts[p.Name] < counts[need.Name] {
				need = p
			}
		}
		if counts[need.Name] >= minimum {
			break
		}

		give, ok := mostPlayed(players, counts, need, minimum, rule)
		if !ok {
			break
		}

		target := -1
		for i, g := range games {
			if g.Has(give.Name) && !g.Has(need.Name) && !busyInRound(games, g.Round, i, need.Name) {
				target = i
				break
			}
		}
		if target < 0 {
			break
		}
		games[target].substitute(give.Name, need.Name)
		swaps++
	}
	return swaps
}

// mostPlayed finds the player who can best spare a game for need.
func mostPlayed(players []roster.Player, counts map[string]int, need roster.Player, minimum int, rule SwapRule) (roster.Player, bool) {
	var give roster.Player
	found := false
	for _, p := range players {
		c := counts[p.Name]
		if p.Name == need.Name || c <= minimum || c <= counts[need.Name]+1 {
			continue
		}
		if !rule.compatible(p, need) {
			continue
		}
		if !found || c > counts[give.Name] {
			give, found = p, true
		}
	}
	return give, found
}
