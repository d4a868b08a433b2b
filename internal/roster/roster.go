package roster

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// NeutralSkill stands in for a player whose rating is unknown.
const NeutralSkill = 5.0

// Gender is M or F.
type Gender string

const (
	Male   Gender = "M"
	Female Gender = "F"
)

// ParseGender normalizes common spellings. Anything unrecognized becomes Male
// so a roster with missing data still schedules.
func ParseGender(s string) Gender {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "f", "female", "woman", "w", "여", "여자":
		return Female
	default:
		return Male
	}
}

func (g *Gender) UnmarshalYAML(value *yaml.Node) error {
	*g = ParseGender(value.Value)
	return nil
}

// Group is a skill group. The zero value means unassigned.
type Group string

const (
	Unassigned Group = ""
	GroupA     Group = "A"
	GroupB     Group = "B"
)

// ParseGroup maps "a"/"b" in any case to a group; everything else is unassigned.
func ParseGroup(s string) Group {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A":
		return GroupA
	case "B":
		return GroupB
	default:
		return Unassigned
	}
}

func (g *Group) UnmarshalYAML(value *yaml.Node) error {
	*g = ParseGroup(value.Value)
	return nil
}

// Player is one roster entry. Name doubles as the player's id.
type Player struct {
	Name   string   `yaml:"name"`
	Gender Gender   `yaml:"gender"`
	Skill  *float64 `yaml:"skill"`
	Group  Group    `yaml:"group"`
}

// Rating returns the skill rating, or NeutralSkill when it is unknown.
func (p Player) Rating() float64 {
	if p.Skill == nil {
		return NeutralSkill
	}
	return *p.Skill
}

// Roster is an ordered player list with lookup by name.
type Roster struct {
	players []Player
	index   map[string]int
}

// New builds a Roster. Later duplicates of a name are dropped.
func New(players []Player) *Roster {
	r := &Roster{index: make(map[string]int, len(players))}
	for _, p := range players {
		if _, ok := r.index[p.Name]; ok {
			continue
		}
		if p.Gender == "" {
			p.Gender = Male
		}
		r.index[p.Name] = len(r.players)
		r.players = append(r.players, p)
	}
	return r
}

// Players returns the players in roster order.
func (r *Roster) Players() []Player {
	out := make([]Player, len(r.players))
	copy(out, r.players)
	return out
}

// Names returns player names in roster order.
func (r *Roster) Names() []string {
	names := make([]string, len(r.players))
	for i, p := range r.players {
		names[i] = p.Name
	}
	return names
}

func (r *Roster) Len() int { return len(r.players) }

// Get looks a player up by name.
func (r *Roster) Get(name string) (Player, bool) {
	i, ok := r.index[name]
	if !ok {
		return Player{}, false
	}
	return r.players[i], true
}

// ByGender returns the players of one gender in roster order.
func (r *Roster) ByGender(g Gender) []Player {
	var out []Player
	for _, p := range r.players {
		if p.Gender == g {
			out = append(out, p)
		}
	}
	return out
}

// SplitGroups divides the roster into the A side and the B side. Unassigned
// players join whichever side is smaller at the time, A on ties.
func (r *Roster) SplitGroups() (a, b []Player) {
	var loose []Player
	for _, p := range r.players {
		switch p.Group {
		case GroupA:
			a = append(a, p)
		case GroupB:
			b = append(b, p)
		default:
			loose = append(loose, p)
		}
	}
	for _, p := range loose {
		if len(a) <= len(b) {
			a = append(a, p)
		} else {
			b = append(b, p)
		}
	}
	return a, b
}
