package validator

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/jokerbb83/tennis-matching-app-sub000/internal/config"
	"github.com/jokerbb83/tennis-matching-app-sub000/internal/excel"
	"github.com/jokerbb83/tennis-matching-app-sub000/internal/roster"
	"github.com/jokerbb83/tennis-matching-app-sub000/internal/schedule"
	"github.com/jokerbb83/tennis-matching-app-sub000/internal/strategy"
)

// Violation represents a rule or guideline violation found during validation.
type Violation struct {
	Row     int    // sheet row, 0 when not tied to one game
	Type    string // "error" or "warning"
	Message string
	Count   int // for repeated partners: times together
}

// Validate reads a schedule workbook and checks it against the session.
func Validate(cfg *config.Config, path string) ([]Violation, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	rows, err := excel.ReadSchedule(f)
	if err != nil {
		return nil, fmt.Errorf("reading schedule: %w", err)
	}
	return Check(cfg, rows), nil
}

// Check runs every check over already-parsed schedule rows.
func Check(cfg *config.Config, rows []excel.ScheduleRow) []Violation {
	r := cfg.Roster()
	var violations []Violation

	// Rules
	violations = append(violations, checkKnownPlayers(r, rows)...)
	violations = append(violations, checkArity(rows)...)
	violations = append(violations, checkDuplicatesInGame(rows)...)
	violations = append(violations, checkRoundConflicts(rows)...)
	violations = append(violations, checkCourts(cfg, rows)...)
	violations = append(violations, checkGenderRule(cfg.Mode(), r, rows)...)
	violations = append(violations, checkGroups(cfg.Session, r, rows)...)

	// Guidelines
	violations = append(violations, checkMinimum(cfg.Session.MinGames, r, rows)...)
	violations = append(violations, checkSpread(r, rows)...)
	violations = append(violations, checkRepeatedPartners(rows)...)

	return violations
}

func players(row excel.ScheduleRow) []string {
	return append(append([]string(nil), row.Team1...), row.Team2...)
}

func checkKnownPlayers(r *roster.Roster, rows []excel.ScheduleRow) []Violation {
	var violations []Violation
	for _, row := range rows {
		for _, name := range players(row) {
			if _, ok := r.Get(name); !ok {
				violations = append(violations, Violation{
					Row:     row.Row,
					Type:    "error",
					Message: fmt.Sprintf("game %d: %s is not on the roster", row.Number, name),
				})
			}
		}
	}
	return violations
}

func checkArity(rows []excel.ScheduleRow) []Violation {
	var violations []Violation
	for _, row := range rows {
		t, ok := schedule.ParseGameType(row.Type)
		if !ok {
			violations = append(violations, Violation{
				Row:     row.Row,
				Type:    "error",
				Message: fmt.Sprintf("game %d: unknown game type %q", row.Number, row.Type),
			})
			continue
		}
		want := 2
		if t == schedule.Singles {
			want = 1
		}
		if len(row.Team1) != want || len(row.Team2) != want {
			violations = append(violations, Violation{
				Row:  row.Row,
				Type: "error",
				Message: fmt.Sprintf("game %d: %s needs %d per side, got %d and %d",
					row.Number, t, want, len(row.Team1), len(row.Team2)),
			})
		}
	}
	return violations
}

func checkDuplicatesInGame(rows []excel.ScheduleRow) []Violation {
	var violations []Violation
	for _, row := range rows {
		seen := make(map[string]bool)
		for _, name := range players(row) {
			if seen[name] {
				violations = append(violations, Violation{
					Row:     row.Row,
					Type:    "error",
					Message: fmt.Sprintf("game %d: %s appears twice", row.Number, name),
				})
			}
			seen[name] = true
		}
	}
	return violations
}

func checkRoundConflicts(rows []excel.ScheduleRow) []Violation {
	type playerRound struct {
		name  string
		round int
	}
	first := make(map[playerRound]int)
	var violations []Violation
	for _, row := range rows {
		for _, name := range players(row) {
			k := playerRound{name, row.Round}
			if game, ok := first[k]; ok && game != row.Number {
				violations = append(violations, Violation{
					Row:  row.Row,
					Type: "error",
					Message: fmt.Sprintf("%s plays games %d and %d in round %d",
						name, game, row.Number, row.Round),
				})
				continue
			}
			first[k] = row.Number
		}
	}
	return violations
}

func checkCourts(cfg *config.Config, rows []excel.ScheduleRow) []Violation {
	type roundCourt struct{ round, court int }
	used := make(map[roundCourt]int)
	var violations []Violation
	for _, row := range rows {
		if row.Court < 1 || row.Court > cfg.Session.Courts {
			violations = append(violations, Violation{
				Row:     row.Row,
				Type:    "error",
				Message: fmt.Sprintf("game %d: court %d is outside 1..%d", row.Number, row.Court, cfg.Session.Courts),
			})
		}
		k := roundCourt{row.Round, row.Court}
		if game, ok := used[k]; ok {
			violations = append(violations, Violation{
				Row:  row.Row,
				Type: "error",
				Message: fmt.Sprintf("games %d and %d share court %d in round %d",
					game, row.Number, row.Court, row.Round),
			})
			continue
		}
		used[k] = row.Number
	}
	return violations
}

func checkGenderRule(mode strategy.Mode, r *roster.Roster, rows []excel.ScheduleRow) []Violation {
	rule := mode.Rule()
	if rule == strategy.AnyGender {
		return nil
	}
	gender := func(name string) roster.Gender {
		p, _ := r.Get(name)
		return p.Gender
	}
	broken := func(a, b string) bool {
		same := gender(a) == gender(b)
		return (rule == strategy.SameGender) != same
	}

	var violations []Violation
	for _, row := range rows {
		var sides [][]string
		if len(row.Team1) == 1 && len(row.Team2) == 1 {
			sides = [][]string{{row.Team1[0], row.Team2[0]}}
		} else {
			sides = [][]string{row.Team1, row.Team2}
		}
		for _, side := range sides {
			if len(side) == 2 && broken(side[0], side[1]) {
				violations = append(violations, Violation{
					Row:  row.Row,
					Type: "error",
					Message: fmt.Sprintf("game %d: %s and %s break the %s gender rule",
						row.Number, side[0], side[1], mode),
				})
			}
		}
	}
	return violations
}

func checkGroups(s config.Session, r *roster.Roster, rows []excel.ScheduleRow) []Violation {
	if !s.GroupOnly && !s.SplitGroups {
		return nil
	}
	group := make(map[string]roster.Group, r.Len())
	for _, p := range r.Players() {
		group[p.Name] = p.Group
	}
	if s.SplitGroups {
		a, b := r.SplitGroups()
		for _, p := range a {
			group[p.Name] = roster.GroupA
		}
		for _, p := range b {
			group[p.Name] = roster.GroupB
		}
	}

	var violations []Violation
	for _, row := range rows {
		names := players(row)
		if len(names) < 2 {
			continue
		}
		for _, name := range names[1:] {
			if group[name] != group[names[0]] {
				violations = append(violations, Violation{
					Row:     row.Row,
					Type:    "error",
					Message: fmt.Sprintf("game %d mixes groups: %s and %s", row.Number, names[0], name),
				})
				break
			}
		}
	}
	return violations
}

func counts(r *roster.Roster, rows []excel.ScheduleRow) map[string]int {
	c := make(map[string]int, r.Len())
	for _, name := range r.Names() {
		c[name] = 0
	}
	for _, row := range rows {
		for _, name := range players(row) {
			c[name]++
		}
	}
	return c
}

func checkMinimum(minimum int, r *roster.Roster, rows []excel.ScheduleRow) []Violation {
	if minimum <= 0 {
		return nil
	}
	c := counts(r, rows)
	var violations []Violation
	for _, name := range r.Names() {
		if c[name] < minimum {
			violations = append(violations, Violation{
				Type:    "warning",
				Message: fmt.Sprintf("%s plays %d games, below the minimum of %d", name, c[name], minimum),
			})
		}
	}
	return violations
}

func checkSpread(r *roster.Roster, rows []excel.ScheduleRow) []Violation {
	if r.Len() == 0 {
		return nil
	}
	c := counts(r, rows)
	names := r.Names()
	lo, hi := c[names[0]], c[names[0]]
	for _, name := range names[1:] {
		lo = min(lo, c[name])
		hi = max(hi, c[name])
	}
	if hi-lo > 1 {
		return []Violation{{
			Type:    "warning",
			Message: fmt.Sprintf("game count imbalance: min %d, max %d across players", lo, hi),
		}}
	}
	return nil
}

func checkRepeatedPartners(rows []excel.ScheduleRow) []Violation {
	type pair struct{ a, b string }
	together := make(map[pair]int)
	for _, row := range rows {
		for _, team := range [][]string{row.Team1, row.Team2} {
			if len(team) != 2 {
				continue
			}
			a, b := team[0], team[1]
			if a > b {
				a, b = b, a
			}
			together[pair{a, b}]++
		}
	}

	var violations []Violation
	for p, n := range together {
		if n > 1 {
			violations = append(violations, Violation{
				Type:    "warning",
				Count:   n,
				Message: fmt.Sprintf("%s and %s partner %d times", p.a, p.b, n),
			})
		}
	}
	// Most repeated first.
	sort.Slice(violations, func(i, j int) bool {
		if violations[i].Count != violations[j].Count {
			return violations[i].Count > violations[j].Count
		}
		return violations[i].Message < violations[j].Message
	})
	return violations
}
