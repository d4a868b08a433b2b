package strategy

import (
	"fmt"
	"sort"
)

// Mode selects how a session's games are constructed.
type Mode string

const (
	Fixed             Mode = "fixed"
	DoublesRandom     Mode = "doubles_random"
	DoublesSameGender Mode = "doubles_same_gender"
	MixedDoubles      Mode = "mixed_doubles"
	SinglesRandom     Mode = "singles_random"
	SinglesSameGender Mode = "singles_same_gender"
	SinglesMixed      Mode = "singles_mixed"
)

// GenderRule is the composition constraint a mode enforces.
type GenderRule int

const (
	// AnyGender places no constraint.
	AnyGender GenderRule = iota
	// SameGender requires both members of a doubles team, or both sides of a
	// singles game, to share gender.
	SameGender
	// OneOfEach requires one man and one woman per doubles team, or a man
	// against a woman in singles.
	OneOfEach
)

var modes = map[Mode]struct {
	singles bool
	rule    GenderRule
}{
	Fixed:             {false, AnyGender},
	DoublesRandom:     {false, AnyGender},
	DoublesSameGender: {false, SameGender},
	MixedDoubles:      {false, OneOfEach},
	SinglesRandom:     {true, AnyGender},
	SinglesSameGender: {true, SameGender},
	SinglesMixed:      {true, OneOfEach},
}

// Parse returns a Mode by name.
func Parse(name string) (Mode, error) {
	m := Mode(name)
	if _, ok := modes[m]; !ok {
		return "", fmt.Errorf("unknown mode: %q (known: %v)", name, Names())
	}
	return m, nil
}

// Names lists the known mode names in sorted order.
func Names() []string {
	names := make([]string, 0, len(modes))
	for m := range modes {
		names = append(names, string(m))
	}
	sort.Strings(names)
	return names
}

// Singles reports whether the mode produces 1v1 games.
func (m Mode) Singles() bool { return modes[m].singles }

// PlayersPerGame is 2 for singles and 4 for doubles.
func (m Mode) PlayersPerGame() int {
	if m.Singles() {
		return 2
	}
	return 4
}

// Rule returns the gender composition rule of the mode.
func (m Mode) Rule() GenderRule { return modes[m].rule }
