package schedule

import (
	"math"
	"math/rand"

	"github.com/jokerbb83/tennis-matching-app-sub000/internal/roster"
)

// mixedTries is how many (2 men, 2 women) samples are scored per court.
const mixedTries = 180

// buildMixed is the strict mixed-doubles constructor: every team is one man
// and one woman.
func buildMixed(players []roster.Player, p plan, rng *rand.Rand) []Game {
	men, women := 0, 0
	for _, pl := range players {
		if pl.Gender == roster.Female {
			women++
		} else {
			men++
		}
	}
	if men < 2 || women < 2 {
		return nil
	}

	b := newBuilder(players, p, rng)
	b.place = b.placeMixed
	b.canForm = func(eligible []string) bool {
		m, w := b.splitGenders(eligible)
		return len(m) >= 2 && len(w) >= 2
	}
	return b.run()
}

func (b *builder) splitGenders(names []string) (men, women []string) {
	for _, n := range names {
		if b.byName[n].Gender == roster.Female {
			women = append(women, n)
		} else {
			men = append(men, n)
		}
	}
	return men, women
}

func (b *builder) placeMixed(avail []string, _ int) (Game, bool) {
	men, women := b.splitGenders(avail)
	if len(men) < 2 || len(women) < 2 {
		return Game{}, false
	}

	var best Game
	bestCost := math.MaxFloat64
	found := false
	for try := 0; try < mixedTries; try++ {
		i, j := pickTwo(b.rng, len(men))
		k, l := pickTwo(b.rng, len(women))
		m1, m2, f1, f2 := men[i], men[j], women[k], women[l]

		for _, g := range []Game{
			{Type: Doubles, Team1: Pair(m1, f1), Team2: Pair(m2, f2)},
			{Type: Doubles, Team1: Pair(m1, f2), Team2: Pair(m2, f1)},
		} {
			if !b.allowed(g) {
				continue
			}
			cost := b.plan.weights.mixedCost(b.state, g, b.skill, b.rng)
			if cost < bestCost {
				best, bestCost, found = g, cost, true
			}
		}
	}
	return best, found
}

// pickTwo returns two distinct indices below n (n >= 2).
func pickTwo(rng *rand.Rand, n int) (int, int) {
	i := rng.Intn(n)
	j := rng.Intn(n - 1)
	if j >= i {
		j++
	}
	return i, j
}
