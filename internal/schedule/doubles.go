package schedule

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat/combin"

	"github.com/jokerbb83/tennis-matching-app-sub000/internal/roster"
)

const (
	// poolLimit keeps the 4-subset enumeration tractable.
	poolLimit = 18
	// exhaustiveLimit is the largest available set searched in full when the
	// trimmed pool has no valid candidate.
	exhaustiveLimit = 22
)

// splits are the three ways to divide four players into two pairs.
var splits = [3][4]int{
	{0, 1, 2, 3},
	{0, 2, 1, 3},
	{0, 3, 1, 2},
}

// buildDoubles is the round-based greedy constructor for random and
// same-gender doubles.
func buildDoubles(players []roster.Player, p plan, rng *rand.Rand) []Game {
	if len(players) < 4 {
		return nil
	}
	b := newBuilder(players, p, rng)
	b.place = b.placeDoubles
	return b.run()
}

func (b *builder) placeDoubles(avail []string, round int) (Game, bool) {
	if len(avail) < 4 {
		return Game{}, false
	}
	pool := b.byFewestGames(avail)
	if len(pool) > poolLimit {
		pool = pool[:poolLimit]
	}
	g, ok := b.bestDoubles(pool, round)
	if !ok && len(avail) > len(pool) && len(avail) <= exhaustiveLimit {
		g, ok = b.bestDoubles(b.shuffled(avail), round)
	}
	return g, ok
}

// bestDoubles scores every split of every 4-subset of pool.
func (b *builder) bestDoubles(pool []string, round int) (Game, bool) {
	ctx := b.context(round)
	var best Game
	bestCost := math.MaxFloat64
	found := false

	for _, idx := range combin.Combinations(len(pool), 4) {
		q := [4]string{pool[idx[0]], pool[idx[1]], pool[idx[2]], pool[idx[3]]}
		for _, s := range splits {
			g := Game{
				Type:  Doubles,
				Team1: Pair(q[s[0]], q[s[1]]),
				Team2: Pair(q[s[2]], q[s[3]]),
			}
			if !b.allowed(g) {
				continue
			}
			cost := b.plan.weights.roundCost(b.state, g, ctx)
			if cost < bestCost {
				best, bestCost, found = g, cost, true
			}
		}
	}
	return best, found
}
