package schedule

import (
	"math/rand"

	"github.com/google/uuid"

	"github.com/jokerbb83/tennis-matching-app-sub000/internal/config"
	"github.com/jokerbb83/tennis-matching-app-sub000/internal/logger"
	"github.com/jokerbb83/tennis-matching-app-sub000/internal/roster"
	"github.com/jokerbb83/tennis-matching-app-sub000/internal/strategy"
)

// Options controls a generation run. Zero values fall back to a source seeded
// from the session, a no-op logger and DefaultWeights.
type Options struct {
	Rand    *rand.Rand
	Log     logger.Logger
	Weights *Weights
}

// Result is the output of the scheduling process. An empty or short schedule
// is a valid result: Warnings and PlayerMetrics say who fell short.
type Result struct {
	ID            string
	Games         []Game
	Evaluation    Evaluation
	Attempts      int
	Target        int
	Warnings      []string
	PlayerMetrics map[string]*PlayerMetrics
	Summary       Summary
}

type generator struct {
	session config.Session
	mode    strategy.Mode
	players []roster.Player
	weights Weights
	log     logger.Logger

	// pools is the A and B side under split scheduling, each player's Group
	// set to the side it plays on.
	pools []pool
}

type pool struct {
	players []roster.Player
	courts  []int
}

// Generate builds a schedule for the configured session. Search modes run up
// to Session.Attempts full constructions and keep the best evaluated one.
func Generate(cfg *config.Config, opts Options) *Result {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(cfg.Session.Seed))
	}
	log := opts.Log
	if log == nil {
		log = logger.NopLogger{}
	}
	weights := DefaultWeights()
	if opts.Weights != nil {
		weights = *opts.Weights
	}

	g := &generator{
		session: cfg.Session,
		mode:    cfg.Mode(),
		players: cfg.Roster().Players(),
		weights: weights,
		log:     log,
	}
	if g.session.SplitGroups {
		g.pools = splitPools(g.players, g.session.Courts)
	}
	target := g.planFor(len(g.players), cfg.Session.Courts).target

	attempts := max(1, cfg.Session.Attempts)
	if g.mode == strategy.Fixed {
		attempts = 1
	}

	var best []Game
	var bestEval Evaluation
	found := false
	run := 0
	for attempt := 0; attempt < attempts; attempt++ {
		run = attempt + 1
		games := g.buildOnce(rng)
		eval := g.evaluate(games, target)
		log.Debugf("attempt %d: %d games, penalty %.0f (below minimum %d, deviation %d)",
			run, len(games), eval.Penalty, eval.BelowMinimum, eval.Deviation)

		if !found || eval.Penalty < bestEval.Penalty {
			best, bestEval, found = games, eval, true
		}
		if len(games) > 0 && eval.Perfect() {
			break
		}
	}
	log.Infof("kept %d games after %d attempts (penalty %.0f)", len(best), run, bestEval.Penalty)

	result := &Result{
		ID:         scheduleID(rng),
		Games:      best,
		Evaluation: bestEval,
		Attempts:   run,
		Target:     target,
	}
	result.Warnings, result.PlayerMetrics, result.Summary = Analyze(best, g.players, g.mode, cfg.Session.MinGames)
	return result
}

func scheduleID(rng *rand.Rand) string {
	id, err := uuid.NewRandomFromReader(rng)
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// planFor resolves the session for a pool of n players on the given number
// of courts. Under a rounds basis the per-player target is derived from the
// slots those rounds offer.
func (g *generator) planFor(n, courts int) plan {
	p := plan{
		mode:         g.mode,
		courts:       max(1, courts),
		target:       g.session.TargetGames,
		roundLimit:   g.session.TotalRounds,
		groupOnly:    g.session.GroupOnly,
		skillBalance: g.session.SkillBalance,
		weights:      g.weights,
	}
	if g.session.RoundsBasis() && n > 0 {
		slots := g.session.TotalRounds * p.courtsInUse(n) * g.mode.PlayersPerGame()
		p.target = (slots + n - 1) / n
	}
	return p
}

func (g *generator) buildOnce(rng *rand.Rand) []Game {
	var games []Game
	if g.session.SplitGroups {
		games = g.buildSplit(rng)
	} else {
		games = g.buildPool(g.players, courtRange(g.session.Courts), rng)
	}

	players := g.sidedPlayers()
	if g.session.MinGames > 0 {
		Repair(games, players, g.session.MinGames, g.swapRule())
	}
	if g.mode == strategy.MixedDoubles && g.session.RebalanceGenders {
		Rebalance(games, players, g.swapRule())
	}
	return games
}

// sidedPlayers is the roster in order, with split-side groups applied.
func (g *generator) sidedPlayers() []roster.Player {
	if g.pools == nil {
		return g.players
	}
	side := make(map[string]roster.Group, len(g.players))
	for _, pl := range g.pools {
		for _, p := range pl.players {
			side[p.Name] = p.Group
		}
	}
	out := make([]roster.Player, len(g.players))
	for i, p := range g.players {
		p.Group = side[p.Name]
		out[i] = p
	}
	return out
}

// evaluate scores a schedule. Split pools are scored against their own
// targets and the results combined.
func (g *generator) evaluate(games []Game, target int) Evaluation {
	if g.pools == nil {
		return Evaluate(games, g.players, g.mode, target, g.session.MinGames)
	}
	var evals []Evaluation
	for _, pl := range g.pools {
		if len(pl.players) == 0 {
			continue
		}
		in := make(map[string]bool, len(pl.players))
		for _, p := range pl.players {
			in[p.Name] = true
		}
		var own []Game
		for _, gm := range games {
			if in[gm.Team1.First] {
				own = append(own, gm)
			}
		}
		t := g.planFor(len(pl.players), len(pl.courts)).target
		evals = append(evals, Evaluate(own, pl.players, g.mode, t, g.session.MinGames))
	}
	return combine(evals)
}

func (g *generator) swapRule() SwapRule {
	return SwapRule{
		SameGender: g.mode.Rule() != strategy.AnyGender,
		SameGroup:  g.session.GroupOnly || g.session.SplitGroups,
	}
}

// buildPool runs the mode's constructor for players and maps its court
// numbers 1..len(courts) onto courts.
func (g *generator) buildPool(players []roster.Player, courts []int, rng *rand.Rand) []Game {
	p := g.planFor(len(players), len(courts))

	var games []Game
	switch {
	case g.mode == strategy.Fixed:
		games = buildFixed(players, len(courts))
	case g.mode == strategy.MixedDoubles:
		games = buildMixed(players, p, rng)
	case g.mode.Singles():
		games = buildSingles(players, p, rng)
	default:
		games = buildDoubles(players, p, rng)
	}

	for i := range games {
		games[i].Court = courts[games[i].Court-1]
	}
	return games
}

// splitPools divides the roster into the A and B sides. A plays on odd
// courts and B on even courts; with a single court both share court 1.
func splitPools(players []roster.Player, courts int) []pool {
	a, b := roster.New(players).SplitGroups()
	side := func(ps []roster.Player, group roster.Group) []roster.Player {
		out := make([]roster.Player, len(ps))
		for i, p := range ps {
			p.Group = group
			out[i] = p
		}
		return out
	}
	pa := pool{players: side(a, roster.GroupA)}
	pb := pool{players: side(b, roster.GroupB)}

	if courts <= 1 {
		pa.courts, pb.courts = []int{1}, []int{1}
		return []pool{pa, pb}
	}
	for c := 1; c <= courts; c++ {
		if c%2 == 1 {
			pa.courts = append(pa.courts, c)
		} else {
			pb.courts = append(pb.courts, c)
		}
	}
	return []pool{pa, pb}
}

// buildSplit builds each side on its own courts and merges the two by round.
// With a single court the sides take turns.
func (g *generator) buildSplit(rng *rand.Rand) []Game {
	a, b := g.pools[0], g.pools[1]
	ga := g.buildPool(a.players, a.courts, rng)
	gb := g.buildPool(b.players, b.courts, rng)
	return interleave(ga, gb, g.session.Courts <= 1)
}

// interleave merges two schedules round by round and renumbers the rounds.
// With alternate set each source round becomes its own combined round.
func interleave(a, b []Game, alternate bool) []Game {
	ra, rb := byRound(a), byRound(b)
	out := make([]Game, 0, len(a)+len(b))
	round := 0
	add := func(games []Game) {
		for _, g := range games {
			g.Round = round
			out = append(out, g)
		}
	}

	for i := 0; i < max(len(ra), len(rb)); i++ {
		if alternate {
			if i < len(ra) {
				round++
				add(ra[i])
			}
			if i < len(rb) {
				round++
				add(rb[i])
			}
			continue
		}
		round++
		if i < len(ra) {
			add(ra[i])
		}
		if i < len(rb) {
			add(rb[i])
		}
	}
	return out
}

// byRound groups consecutive games that share a round number.
func byRound(games []Game) [][]Game {
	var rounds [][]Game
	for i, g := range games {
		if i == 0 || g.Round != games[i-1].Round {
			rounds = append(rounds, nil)
		}
		rounds[len(rounds)-1] = append(rounds[len(rounds)-1], g)
	}
	return rounds
}

func courtRange(n int) []int {
	courts := make([]int, max(1, n))
	for i := range courts {
		courts[i] = i + 1
	}
	return courts
}
