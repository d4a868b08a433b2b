package excel

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jokerbb83/tennis-matching-app-sub000/internal/schedule"
)

// ScheduleRow is one game row read back from the schedule sheet. Teams are
// kept as raw name lists so malformed hand edits can be reported.
type ScheduleRow struct {
	Row    int // 1-based sheet row
	Number int
	Round  int
	Court  int
	Type   string
	Team1  []string
	Team2  []string
}

// Game converts the row into a schedule.Game when its type and team sizes
// agree.
func (r ScheduleRow) Game() (schedule.Game, bool) {
	t, ok := schedule.ParseGameType(r.Type)
	if !ok {
		return schedule.Game{}, false
	}
	g := schedule.Game{Type: t, Round: r.Round, Court: r.Court}
	switch {
	case t == schedule.Singles && len(r.Team1) == 1 && len(r.Team2) == 1:
		g.Team1, g.Team2 = schedule.Solo(r.Team1[0]), schedule.Solo(r.Team2[0])
	case t == schedule.Doubles && len(r.Team1) == 2 && len(r.Team2) == 2:
		g.Team1, g.Team2 = schedule.Pair(r.Team1[0], r.Team1[1]), schedule.Pair(r.Team2[0], r.Team2[1])
	default:
		return schedule.Game{}, false
	}
	return g, true
}

// ReadSchedule parses the schedule sheet. Columns are located by header so
// reordered sheets still read; blank rows are skipped.
func ReadSchedule(f *excelize.File) ([]ScheduleRow, error) {
	rows, err := f.GetRows(ScheduleSheet)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", ScheduleSheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s is empty", ScheduleSheet)
	}

	cols := make(map[string]int)
	for i, h := range rows[0] {
		cols[strings.TrimSpace(h)] = i
	}
	for _, h := range scheduleHeaders[:6] {
		if _, ok := cols[h]; !ok {
			return nil, fmt.Errorf("%s is missing the %q column", ScheduleSheet, h)
		}
	}
	cell := func(row []string, name string) string {
		i := cols[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var out []ScheduleRow
	for i, row := range rows[1:] {
		if strings.TrimSpace(strings.Join(row, "")) == "" {
			continue
		}
		r := ScheduleRow{
			Row:   i + 2,
			Type:  cell(row, "Type"),
			Team1: splitTeam(cell(row, "Team 1")),
			Team2: splitTeam(cell(row, "Team 2")),
		}
		for _, field := range []struct {
			name string
			dst  *int
		}{{"Game", &r.Number}, {"Round", &r.Round}, {"Court", &r.Court}} {
			v, err := strconv.Atoi(cell(row, field.name))
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid %s %q", r.Row, strings.ToLower(field.name), cell(row, field.name))
			}
			*field.dst = v
		}
		out = append(out, r)
	}
	return out, nil
}

// splitTeam parses "A / B" or "A".
func splitTeam(cell string) []string {
	if cell == "" {
		return nil
	}
	var names []string
	for _, part := range strings.Split(cell, "/") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}
