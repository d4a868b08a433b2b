package schedule

import "strings"

// GameType distinguishes 1v1 from 2v2 games.
type GameType int

const (
	Singles GameType = iota + 1
	Doubles
)

func (t GameType) String() string {
	switch t {
	case Singles:
		return "Singles"
	case Doubles:
		return "Doubles"
	default:
		return "Unknown"
	}
}

// ParseGameType is the inverse of GameType.String.
func ParseGameType(s string) (GameType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "singles":
		return Singles, true
	case "doubles":
		return Doubles, true
	default:
		return 0, false
	}
}

// Team is one side of a game: a single player, or two partners.
type Team struct {
	First  string
	Second string // empty for singles
}

// Solo returns a singles team.
func Solo(a string) Team { return Team{First: a} }

// Pair returns a doubles team.
func Pair(a, b string) Team { return Team{First: a, Second: b} }

// Size is 1 for singles and 2 for doubles.
func (t Team) Size() int {
	if t.Second == "" {
		return 1
	}
	return 2
}

// Players lists the team members.
func (t Team) Players() []string {
	if t.Second == "" {
		return []string{t.First}
	}
	return []string{t.First, t.Second}
}

// Has reports whether name plays on this team.
func (t Team) Has(name string) bool {
	return t.First == name || (t.Second != "" && t.Second == name)
}

func (t Team) String() string {
	return strings.Join(t.Players(), " / ")
}

func (t *Team) replace(out, in string) {
	switch {
	case t.First == out:
		t.First = in
	case t.Second == out:
		t.Second = in
	}
}

// Game is one match on one court in one round. A game's 1-based position in
// its schedule is the key scores are attached to.
type Game struct {
	Type  GameType
	Team1 Team
	Team2 Team
	Court int
	Round int
}

// Players lists everyone in the game, team 1 first.
func (g Game) Players() []string {
	return append(g.Team1.Players(), g.Team2.Players()...)
}

// Has reports whether name plays in the game.
func (g Game) Has(name string) bool {
	return g.Team1.Has(name) || g.Team2.Has(name)
}

// Valid checks the per-game invariants: team arity matches the type and no
// player appears twice.
func (g Game) Valid() bool {
	want := 2
	if g.Type == Singles {
		want = 1
	}
	if g.Team1.Size() != want || g.Team2.Size() != want {
		return false
	}
	seen := make(map[string]bool, 4)
	for _, p := range g.Players() {
		if p == "" || seen[p] {
			return false
		}
		seen[p] = true
	}
	return true
}

// substitute swaps in for out wherever out plays in the game.
func (g *Game) substitute(out, in string) {
	g.Team1.replace(out, in)
	g.Team2.replace(out, in)
}

// Counts returns games played per player.
func Counts(games []Game) map[string]int {
	counts := make(map[string]int)
	for _, g := range games {
		for _, p := range g.Players() {
			counts[p]++
		}
	}
	return counts
}

// busyInRound reports whether name plays in some game of round other than
// games[skip]. Round 0 means the game is not part of a round.
func busyInRound(games []Game, round, skip int, name string) bool {
	if round == 0 {
		return false
	}
	for i, g := range games {
		if i != skip && g.Round == round && g.Has(name) {
			return true
		}
	}
	return false
}
