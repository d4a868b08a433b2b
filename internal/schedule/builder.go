package schedule

import (
	"math/rand"
	"sort"

	"github.com/jokerbb83/tennis-matching-app-sub000/internal/roster"
	"github.com/jokerbb83/tennis-matching-app-sub000/internal/strategy"
)

const maxNoProgress = 2

// plan is the resolved session for one pool of players.
type plan struct {
	mode         strategy.Mode
	courts       int
	target       int
	roundLimit   int // 0 when the session is sized by target games
	groupOnly    bool
	skillBalance bool
	weights      Weights
}

// courtsInUse is how many courts the pool can fill at once.
func (p plan) courtsInUse(players int) int {
	return max(1, min(p.courts, players/p.mode.PlayersPerGame()))
}

// estimatedRounds is the pace reference for the round cost.
func (p plan) estimatedRounds(players int) int {
	if p.roundLimit > 0 {
		return p.roundLimit
	}
	per := p.mode.PlayersPerGame() * p.courtsInUse(players)
	return max(1, (players*p.target+per-1)/per)
}

// maxRounds bounds the round loop. Every productive round consumes at least
// one game and at most one unproductive round separates two productive ones.
func (p plan) maxRounds(players int) int {
	if p.roundLimit > 0 {
		return p.roundLimit
	}
	return players*p.target + maxNoProgress
}

// builder runs the round/court loop shared by every search-based constructor.
type builder struct {
	plan    plan
	rng     *rand.Rand
	state   *BuildState
	players []roster.Player
	byName  map[string]roster.Player
	skill   map[string]float64 // nil unless skill balancing
	games   []Game

	place   func(avail []string, round int) (Game, bool)
	canForm func(eligible []string) bool
	done    func() bool
}

func newBuilder(players []roster.Player, p plan, rng *rand.Rand) *builder {
	b := &builder{
		plan:    p,
		rng:     rng,
		state:   newBuildState(),
		players: players,
		byName:  make(map[string]roster.Player, len(players)),
	}
	for _, pl := range players {
		b.byName[pl.Name] = pl
	}
	if p.skillBalance {
		b.skill = make(map[string]float64, len(players))
		for _, pl := range players {
			b.skill[pl.Name] = pl.Rating()
		}
	}
	b.canForm = func(eligible []string) bool {
		return len(eligible) >= p.mode.PlayersPerGame()
	}
	return b
}

func (b *builder) run() []Game {
	noProgress := 0
	maxRounds := b.plan.maxRounds(len(b.players))

	for round := 1; round <= maxRounds; round++ {
		if b.done != nil && b.done() {
			break
		}
		eligible := b.eligible()
		if !b.canForm(eligible) {
			break
		}

		used := make(map[string]bool)
		placed := 0
		for court := 1; court <= b.plan.courts; court++ {
			var avail []string
			for _, name := range eligible {
				if !used[name] {
					avail = append(avail, name)
				}
			}
			g, ok := b.place(avail, round)
			if !ok {
				continue
			}
			g.Court = court
			g.Round = round
			for _, p := range g.Players() {
				used[p] = true
			}
			b.state.record(g)
			b.games = append(b.games, g)
			placed++
			if b.done != nil && b.done() {
				break
			}
		}

		if placed == 0 {
			noProgress++
			if noProgress >= maxNoProgress {
				break
			}
		} else {
			noProgress = 0
		}
	}
	return b.games
}

// eligible lists players still under target, in roster order.
func (b *builder) eligible() []string {
	var out []string
	for _, p := range b.players {
		if b.state.Games[p.Name] < b.plan.target {
			out = append(out, p.Name)
		}
	}
	return out
}

func (b *builder) context(round int) roundContext {
	return roundContext{
		round:     round,
		estRounds: b.plan.estimatedRounds(len(b.players)),
		target:    b.plan.target,
		skill:     b.skill,
	}
}

// byFewestGames orders names by games played, ties in random order.
func (b *builder) byFewestGames(names []string) []string {
	out := b.shuffled(names)
	sort.SliceStable(out, func(i, j int) bool {
		return b.state.Games[out[i]] < b.state.Games[out[j]]
	})
	return out
}

func (b *builder) shuffled(names []string) []string {
	out := make([]string, len(names))
	copy(out, names)
	b.rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// allowed applies the hard filters: group-only and the mode's gender rule.
func (b *builder) allowed(g Game) bool {
	if b.plan.groupOnly {
		players := g.Players()
		group := b.byName[players[0]].Group
		for _, p := range players[1:] {
			if b.byName[p].Group != group {
				return false
			}
		}
	}
	genders := make(map[string]roster.Gender, 4)
	for _, p := range g.Players() {
		genders[p] = b.byName[p].Gender
	}
	return ruleViolations(g, b.plan.mode.Rule(), genders) == 0
}
