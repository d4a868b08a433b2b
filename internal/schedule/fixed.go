package schedule

import (
	"github.com/jokerbb83/tennis-matching-app-sub000/internal/roster"
	"github.com/jokerbb83/tennis-matching-app-sub000/internal/strategy"
)

// buildFixed lays the precomputed rotation over the roster order. Courts
// rotate over the game index and never exceed players/4, the widest block
// the rotation keeps player-disjoint.
func buildFixed(players []roster.Player, courts int) []Game {
	rows, ok := strategy.Pattern(len(players))
	if !ok {
		return nil
	}
	courts = max(1, min(courts, len(players)/4))
	games := make([]Game, len(rows))
	for i, r := range rows {
		games[i] = Game{
			Type:  Doubles,
			Team1: Pair(players[r[0]].Name, players[r[1]].Name),
			Team2: Pair(players[r[2]].Name, players[r[3]].Name),
			Court: i%courts + 1,
			Round: i/courts + 1,
		}
	}
	return games
}
