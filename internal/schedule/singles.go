package schedule

import (
	"math"
	"math/rand"
	"sort"

	"github.com/jokerbb83/tennis-matching-app-sub000/internal/roster"
)

// buildSingles runs the round loop with a per-pair pick: lowest prior
// opponent count first, then fewest games, then the most rested pair.
func buildSingles(players []roster.Player, p plan, rng *rand.Rand) []Game {
	if len(players) < 2 {
		return nil
	}
	needed := int(math.Round(float64(len(players)*p.target) / 2))

	b := newBuilder(players, p, rng)
	b.place = b.placeSingles
	b.done = func() bool { return len(b.games) >= needed }
	return b.run()
}

type singlesKey struct {
	opponents int
	played    int
	tired     int
	gap       float64
}

func (k singlesKey) less(o singlesKey) bool {
	if k.opponents != o.opponents {
		return k.opponents < o.opponents
	}
	if k.played != o.played {
		return k.played < o.played
	}
	if k.tired != o.tired {
		return k.tired < o.tired
	}
	return k.gap < o.gap
}

func (b *builder) placeSingles(avail []string, round int) (Game, bool) {
	if len(avail) < 2 {
		return Game{}, false
	}
	order := b.shuffled(avail)
	if b.skill != nil {
		sort.SliceStable(order, func(i, j int) bool {
			return b.skill[order[i]] < b.skill[order[j]]
		})
	}

	var best Game
	var bestKey singlesKey
	found := false
	for i := 0; i < len(order); i++ {
		for j := i + 1; j < len(order); j++ {
			a, c := order[i], order[j]
			g := Game{Type: Singles, Team1: Solo(a), Team2: Solo(c)}
			if !b.allowed(g) {
				continue
			}
			key := singlesKey{
				opponents: b.state.opponentCount(a, c),
				played:    b.state.Games[a] + b.state.Games[c],
			}
			for _, p := range []string{a, c} {
				if last := b.state.LastRound[p]; last > 0 && last == round-1 {
					key.tired++
				}
			}
			if b.skill != nil {
				key.gap = math.Abs(b.skill[a] - b.skill[c])
			}
			if !found || key.less(bestKey) {
				best, bestKey, found = g, key, true
			}
		}
	}
	return best, found
}
