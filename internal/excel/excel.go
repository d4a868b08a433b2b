package excel

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jokerbb83/tennis-matching-app-sub000/internal/config"
	"github.com/jokerbb83/tennis-matching-app-sub000/internal/roster"
	"github.com/jokerbb83/tennis-matching-app-sub000/internal/schedule"
)

const (
	ScheduleSheet = "Schedule"
	PlayersSheet  = "Players"
)

var scheduleHeaders = []string{"Game", "Round", "Court", "Type", "Team 1", "Team 2", "Team 1 Score", "Team 2 Score"}

// Generate creates a workbook with the score-entry schedule, a player
// summary and one sheet per player.
func Generate(cfg *config.Config, result *schedule.Result) (*excelize.File, error) {
	f := excelize.NewFile()
	f.SetDefaultFont("Arial")

	if err := f.SetDocProps(&excelize.DocProperties{
		Title:      "Match schedule",
		Identifier: result.ID,
		Subject:    string(cfg.Mode()),
	}); err != nil {
		return nil, fmt.Errorf("setting properties: %w", err)
	}

	if err := writeScheduleSheet(f, result.Games); err != nil {
		return nil, fmt.Errorf("writing schedule sheet: %w", err)
	}
	if err := writePlayerSheets(f, cfg, result.Games); err != nil {
		return nil, fmt.Errorf("writing player sheets: %w", err)
	}

	f.DeleteSheet("Sheet1")
	return f, nil
}

// UpdatePlayerSheets regenerates the Players sheet and the per-player sheets
// of a saved workbook from its (possibly hand-edited) schedule sheet.
func UpdatePlayerSheets(path string, cfg *config.Config) error {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	rows, err := ReadSchedule(f)
	if err != nil {
		return fmt.Errorf("reading schedule: %w", err)
	}
	var games []schedule.Game
	for _, r := range rows {
		if g, ok := r.Game(); ok {
			games = append(games, g)
		}
	}

	for _, name := range f.GetSheetList() {
		if name != ScheduleSheet {
			if err := f.DeleteSheet(name); err != nil {
				return fmt.Errorf("removing sheet %q: %w", name, err)
			}
		}
	}
	if err := writePlayerSheets(f, cfg, games); err != nil {
		return fmt.Errorf("writing player sheets: %w", err)
	}
	return f.Save()
}

func writeScheduleSheet(f *excelize.File, games []schedule.Game) error {
	sheet := ScheduleSheet
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	writeHeaders(f, sheet, scheduleHeaders)
	cellStyle := bodyStyle(f)

	for i, g := range games {
		row := i + 2
		values := []any{i + 1, g.Round, g.Court, g.Type.String(), g.Team1.String(), g.Team2.String()}
		for col, v := range values {
			f.SetCellValue(sheet, cellRef(col+1, row), v)
		}
		if cellStyle != 0 {
			f.SetCellStyle(sheet, cellRef(1, row), cellRef(len(scheduleHeaders), row), cellStyle)
		}
	}

	widths := map[string]float64{"A": 8, "B": 8, "C": 8, "D": 10, "E": 28, "F": 28, "G": 14, "H": 14}
	for col, w := range widths {
		f.SetColWidth(sheet, col, col, w)
	}

	if len(games) == 0 {
		return nil
	}
	lastRow := len(games) + 1

	// Scores are whole numbers.
	dv := excelize.NewDataValidation(true)
	dv.Sqref = fmt.Sprintf("G2:H%d", lastRow)
	if err := dv.SetRange(0, 99, excelize.DataValidationTypeWhole, excelize.DataValidationOperatorBetween); err != nil {
		return err
	}
	if err := f.AddDataValidation(sheet, dv); err != nil {
		return err
	}

	// Winners turn green once both scores are in.
	winFill, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#C6EFCE"}},
		Font: &excelize.Font{Size: 12, Family: "Arial"},
	})
	for _, side := range []struct{ col, own, other string }{{"E", "G", "H"}, {"F", "H", "G"}} {
		formula := fmt.Sprintf(`AND(ISNUMBER($%s2),ISNUMBER($%s2),$%s2>$%s2)`, side.own, side.other, side.own, side.other)
		err := f.SetConditionalFormat(sheet, fmt.Sprintf("%s2:%s%d", side.col, side.col, lastRow), []excelize.ConditionalFormatOptions{
			{Type: "formula", Criteria: formula, Format: &winFill},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func writePlayerSheets(f *excelize.File, cfg *config.Config, games []schedule.Game) error {
	players := cfg.Roster().Players()
	_, metrics, _ := schedule.Analyze(games, players, cfg.Mode(), cfg.Session.MinGames)

	sheet := PlayersSheet
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	headers := []string{"Name", "Gender", "Group", "Skill", "Games", "Partners", "Opponents"}
	writeHeaders(f, sheet, headers)
	cellStyle := bodyStyle(f)

	for i, p := range players {
		row := i + 2
		m := metrics[p.Name]
		skill := ""
		if p.Skill != nil {
			skill = fmt.Sprintf("%.1f", *p.Skill)
		}
		values := []any{p.Name, string(p.Gender), string(p.Group), skill, m.Games, m.Partners, m.Opponents}
		for col, v := range values {
			f.SetCellValue(sheet, cellRef(col+1, row), v)
		}
		if cellStyle != 0 {
			f.SetCellStyle(sheet, cellRef(1, row), cellRef(len(headers), row), cellStyle)
		}
	}
	f.SetColWidth(sheet, "A", "A", 22)
	f.SetColWidth(sheet, "B", "G", 12)

	names := playerSheetNames(players)
	for _, p := range players {
		if err := writePlayerSheet(f, names[p.Name], p.Name, games, cellStyle); err != nil {
			return fmt.Errorf("sheet for %s: %w", p.Name, err)
		}
	}
	return nil
}

func writePlayerSheet(f *excelize.File, sheet, player string, games []schedule.Game, cellStyle int) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	headers := []string{"Game", "Round", "Court", "Partner", "Opponents"}
	writeHeaders(f, sheet, headers)

	row := 2
	for i, g := range games {
		if !g.Has(player) {
			continue
		}
		own, other := g.Team1, g.Team2
		if g.Team2.Has(player) {
			own, other = g.Team2, g.Team1
		}
		partner := ""
		for _, p := range own.Players() {
			if p != player {
				partner = p
			}
		}
		values := []any{i + 1, g.Round, g.Court, partner, other.String()}
		for col, v := range values {
			f.SetCellValue(sheet, cellRef(col+1, row), v)
		}
		if cellStyle != 0 {
			f.SetCellStyle(sheet, cellRef(1, row), cellRef(len(headers), row), cellStyle)
		}
		row++
	}

	widths := map[string]float64{"A": 8, "B": 8, "C": 8, "D": 22, "E": 28}
	for col, w := range widths {
		f.SetColWidth(sheet, col, col, w)
	}
	return nil
}

// playerSheetNames maps player names to unique, legal sheet names. Sheet
// names are case-insensitive, at most 31 characters and may not contain
// : \ / ? * [ ].
func playerSheetNames(players []roster.Player) map[string]string {
	taken := map[string]bool{
		strings.ToLower(ScheduleSheet): true,
		strings.ToLower(PlayersSheet):  true,
	}
	names := make(map[string]string, len(players))
	for _, p := range players {
		base := strings.Map(func(r rune) rune {
			if strings.ContainsRune(`:\/?*[]`, r) {
				return '_'
			}
			return r
		}, p.Name)
		base = truncate(base, 31)

		name := base
		for n := 2; taken[strings.ToLower(name)]; n++ {
			suffix := fmt.Sprintf(" (%d)", n)
			name = truncate(base, 31-len(suffix)) + suffix
		}
		taken[strings.ToLower(name)] = true
		names[p.Name] = name
	}
	return names
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func writeHeaders(f *excelize.File, sheet string, headers []string) {
	for i, h := range headers {
		f.SetCellValue(sheet, cellRef(i+1, 1), h)
	}
	style, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 12, Family: "Arial"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#4472C4"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if style != 0 {
		f.SetCellStyle(sheet, cellRef(1, 1), cellRef(len(headers), 1), style)
	}
	f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

func bodyStyle(f *excelize.File) int {
	style, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 12, Family: "Arial"},
	})
	return style
}

func cellRef(col, row int) string {
	return fmt.Sprintf("%s%d", colLetter(col), row)
}

func colLetter(col int) string {
	result := ""
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}
