package schedule

import (
	"math"
	"math/rand"

	"github.com/jokerbb83/tennis-matching-app-sub000/internal/roster"
	"github.com/jokerbb83/tennis-matching-app-sub000/internal/strategy"
)

// Weights tunes the candidate costs. Every cost is a penalty: lower is better.
type Weights struct {
	Partner            float64 // times prior partner count squared
	BackToBackPartner  float64 // same partner as the previous round
	Opponent           float64 // times prior opponent count squared, per cross pair
	BackToBackOpponent float64 // same opponent as the previous round
	NoRest             float64 // played the previous round
	ShortRest          float64 // played two rounds ago
	Pace               float64 // per game ahead of the expected pace
	PaceTolerance      float64
	Spread             float64 // per game of max-min among the candidates
	Skill              float64 // per point of team average difference

	MixedPartner  float64 // per prior partnership
	MixedOpponent float64 // per prior meeting, per cross pair
	MixedPlayed   float64 // per game already played
	Jitter        float64
}

// DefaultWeights returns the tuned defaults. A single back-to-back partner
// repeat costs more than a first partner repeat.
func DefaultWeights() Weights {
	return Weights{
		Partner:            100,
		BackToBackPartner:  250,
		Opponent:           20,
		BackToBackOpponent: 30,
		NoRest:             40,
		ShortRest:          10,
		Pace:               25,
		PaceTolerance:      0.6,
		Spread:             15,
		Skill:              10,

		MixedPartner:  80,
		MixedOpponent: 15,
		MixedPlayed:   40,
		Jitter:        0.01,
	}
}

// roundContext is what a candidate is scored against beyond the build state.
type roundContext struct {
	round     int
	estRounds int
	target    int
	skill     map[string]float64 // nil when skill balancing is off
}

// roundCost scores a 2v2 or 1v1 candidate for the given round.
func (w Weights) roundCost(s *BuildState, g Game, ctx roundContext) float64 {
	cost := 0.0
	prev := ctx.round - 1

	for _, t := range []Team{g.Team1, g.Team2} {
		if t.Size() != 2 {
			continue
		}
		n := float64(s.partnerCount(t.First, t.Second))
		cost += w.Partner * n * n
		if s.LastPartner[t.First] == t.Second && s.LastRound[t.First] == prev {
			cost += w.BackToBackPartner
		}
	}

	for _, a := range g.Team1.Players() {
		for _, b := range g.Team2.Players() {
			n := float64(s.opponentCount(a, b))
			cost += w.Opponent * n * n
			if s.LastOpponents[a][b] && s.LastRound[a] == prev {
				cost += w.BackToBackOpponent
			}
		}
	}

	expected := 0.0
	if ctx.estRounds > 0 {
		expected = float64(ctx.target) * float64(ctx.round) / float64(ctx.estRounds)
	}
	lo, hi := math.MaxInt, 0
	for _, p := range g.Players() {
		last := s.LastRound[p]
		switch {
		case last > 0 && last == prev:
			cost += w.NoRest
		case last > 0 && last == prev-1:
			cost += w.ShortRest
		}

		played := s.Games[p]
		if excess := float64(played+1) - expected - w.PaceTolerance; excess > 0 {
			cost += w.Pace * excess
		}
		lo = min(lo, played)
		hi = max(hi, played)
	}
	cost += w.Spread * float64(hi-lo)

	if ctx.skill != nil {
		cost += w.Skill * skillGap(g, ctx.skill)
	}
	return cost
}

// mixedCost is the lighter cost used by the sampling mixed-doubles builder.
func (w Weights) mixedCost(s *BuildState, g Game, skill map[string]float64, rng *rand.Rand) float64 {
	cost := 0.0
	for _, t := range []Team{g.Team1, g.Team2} {
		cost += w.MixedPartner * float64(s.partnerCount(t.First, t.Second))
	}
	for _, a := range g.Team1.Players() {
		for _, b := range g.Team2.Players() {
			cost += w.MixedOpponent * float64(s.opponentCount(a, b))
		}
	}
	for _, p := range g.Players() {
		cost += w.MixedPlayed * float64(s.Games[p])
	}
	if skill != nil {
		cost += w.Skill * skillGap(g, skill)
	}
	return cost + rng.Float64()*w.Jitter
}

func skillGap(g Game, skill map[string]float64) float64 {
	return math.Abs(teamAverage(g.Team1, skill) - teamAverage(g.Team2, skill))
}

func teamAverage(t Team, skill map[string]float64) float64 {
	total := 0.0
	for _, p := range t.Players() {
		total += skill[p]
	}
	return total / float64(t.Size())
}

// Evaluation tiers, each heavy enough to dominate everything below it for
// realistic roster sizes.
const (
	ruleViolationPenalty = 1e9
	belowMinimumPenalty  = 1e6
	deviationPenalty     = 1e3
	spreadPenalty        = 10
	minimumCredit        = 10
)

// Evaluation summarizes how good a whole schedule is.
type Evaluation struct {
	Penalty        float64 // lower is better
	RuleViolations int     // teams breaking the mode's gender rule
	BelowMinimum   int     // players under the minimum guarantee
	Deviation      int     // total |games - target| over the roster
	Min, Max       int     // per-player game counts
}

// Perfect reports whether nothing could be improved tier-wise.
func (e Evaluation) Perfect() bool {
	return e.RuleViolations == 0 && e.BelowMinimum == 0 && e.Deviation == 0
}

// Evaluate scores a finished schedule for the roster.
func Evaluate(games []Game, players []roster.Player, mode strategy.Mode, target, minimum int) Evaluation {
	var e Evaluation
	counts := Counts(games)
	genders := make(map[string]roster.Gender, len(players))

	e.Min = math.MaxInt
	for _, p := range players {
		genders[p.Name] = p.Gender
		c := counts[p.Name]
		if c < minimum {
			e.BelowMinimum++
		}
		if c > target {
			e.Deviation += c - target
		} else {
			e.Deviation += target - c
		}
		e.Min = min(e.Min, c)
		e.Max = max(e.Max, c)
	}
	if len(players) == 0 {
		e.Min = 0
	}

	for _, g := range games {
		e.RuleViolations += ruleViolations(g, mode.Rule(), genders)
	}

	e.price()
	return e
}

func (e *Evaluation) price() {
	e.Penalty = ruleViolationPenalty*float64(e.RuleViolations) +
		belowMinimumPenalty*float64(e.BelowMinimum) +
		deviationPenalty*float64(e.Deviation) +
		spreadPenalty*float64(e.Max-e.Min) -
		minimumCredit*float64(e.Min)
}

// combine merges evaluations of disjoint player pools into one.
func combine(evals []Evaluation) Evaluation {
	var out Evaluation
	for i, e := range evals {
		out.RuleViolations += e.RuleViolations
		out.BelowMinimum += e.BelowMinimum
		out.Deviation += e.Deviation
		if i == 0 || e.Min < out.Min {
			out.Min = e.Min
		}
		out.Max = max(out.Max, e.Max)
	}
	out.price()
	return out
}

// ruleViolations counts teams (or, in singles, games) that break rule.
func ruleViolations(g Game, rule strategy.GenderRule, genders map[string]roster.Gender) int {
	if rule == strategy.AnyGender {
		return 0
	}
	if g.Type == Singles {
		same := genders[g.Team1.First] == genders[g.Team2.First]
		if (rule == strategy.SameGender) != same {
			return 1
		}
		return 0
	}
	n := 0
	for _, t := range []Team{g.Team1, g.Team2} {
		same := genders[t.First] == genders[t.Second]
		if (rule == strategy.SameGender) != same {
			n++
		}
	}
	return n
}
