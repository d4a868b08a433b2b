package schedule

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/jokerbb83/tennis-matching-app-sub000/internal/roster"
	"github.com/jokerbb83/tennis-matching-app-sub000/internal/strategy"
)

// PlayerMetrics holds per-player schedule statistics.
type PlayerMetrics struct {
	Games          int
	Partners       int // distinct partners
	Opponents      int // distinct opponents
	RepeatPartners int // partnerships beyond the first with the same partner
	Violations     []string
}

// Summary describes the spread of games per player.
type Summary struct {
	Mean   float64
	StdDev float64
	Min    int
	Max    int
}

// Analyze computes per-player statistics and the warnings a schedule deserves.
func Analyze(games []Game, players []roster.Player, mode strategy.Mode, minimum int) ([]string, map[string]*PlayerMetrics, Summary) {
	var warnings []string
	metrics := make(map[string]*PlayerMetrics, len(players))

	partners := make(map[string]map[string]int)
	opponents := make(map[string]map[string]bool)
	for _, p := range players {
		metrics[p.Name] = &PlayerMetrics{}
		partners[p.Name] = make(map[string]int)
		opponents[p.Name] = make(map[string]bool)
	}

	for _, g := range games {
		for _, p := range g.Players() {
			if m, ok := metrics[p]; ok {
				m.Games++
			}
		}
		for _, t := range []Team{g.Team1, g.Team2} {
			if t.Size() == 2 {
				bump(partners, t.First, t.Second)
				bump(partners, t.Second, t.First)
			}
		}
		for _, a := range g.Team1.Players() {
			for _, b := range g.Team2.Players() {
				mark(opponents, a, b)
				mark(opponents, b, a)
			}
		}
	}

	if len(games) == 0 {
		warnings = append(warnings, fmt.Sprintf(
			"no games could be scheduled for %d players in %s mode", len(players), mode))
	}

	counts := make([]float64, len(players))
	var summary Summary
	for i, p := range players {
		m := metrics[p.Name]
		m.Partners = len(partners[p.Name])
		m.Opponents = len(opponents[p.Name])
		counts[i] = float64(m.Games)
		if i == 0 || m.Games < summary.Min {
			summary.Min = m.Games
		}
		if m.Games > summary.Max {
			summary.Max = m.Games
		}

		if m.Games < minimum {
			w := fmt.Sprintf("%s plays %d games, below the minimum of %d", p.Name, m.Games, minimum)
			warnings = append(warnings, w)
			m.Violations = append(m.Violations, w)
		}

		names := make([]string, 0, len(partners[p.Name]))
		for name := range partners[p.Name] {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, partner := range names {
			n := partners[p.Name][partner]
			if n < 2 {
				continue
			}
			m.RepeatPartners += n - 1
			w := fmt.Sprintf("%s and %s partner %d times", p.Name, partner, n)
			m.Violations = append(m.Violations, w)
			// Report each pair once.
			if p.Name < partner {
				warnings = append(warnings, w)
			}
		}
	}
	if len(players) > 0 {
		summary.Mean, summary.StdDev = stat.MeanStdDev(counts, nil)
	}

	if summary.Max-summary.Min > 1 {
		warnings = append(warnings, fmt.Sprintf(
			"game count imbalance: min %d, max %d across players", summary.Min, summary.Max))
	}

	return warnings, metrics, summary
}

func bump(m map[string]map[string]int, a, b string) {
	if _, ok := m[a]; !ok {
		m[a] = make(map[string]int)
	}
	m[a][b]++
}

func mark(m map[string]map[string]bool, a, b string) {
	if _, ok := m[a]; !ok {
		m[a] = make(map[string]bool)
	}
	m[a][b] = true
}
