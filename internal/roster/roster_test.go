package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func skill(v float64) *float64 { return &v }

func TestParseGender(t *testing.T) {
	cases := map[string]Gender{
		"M": Male, "m": Male, "male": Male, "F": Female, "female": Female,
		" Woman ": Female, "": Male, "x": Male,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseGender(in), "ParseGender(%q)", in)
	}
}

func TestPlayerYAML(t *testing.T) {
	data := []byte(`
- name: Kim
  gender: female
  skill: 4.5
  group: a
- name: Lee
  gender: M
- name: Park
  group: z
`)
	var players []Player
	require.NoError(t, yaml.Unmarshal(data, &players))
	require.Len(t, players, 3)

	t.Run("normalizes gender and group", func(t *testing.T) {
		assert.Equal(t, Female, players[0].Gender)
		assert.Equal(t, GroupA, players[0].Group)
		assert.Equal(t, Male, players[1].Gender)
		assert.Equal(t, Unassigned, players[2].Group)
	})

	t.Run("unknown skill reads as neutral", func(t *testing.T) {
		assert.Equal(t, 4.5, players[0].Rating())
		assert.Equal(t, NeutralSkill, players[1].Rating())
	})

	t.Run("missing gender defaults to male in a roster", func(t *testing.T) {
		r := New(players)
		p, ok := r.Get("Park")
		require.True(t, ok)
		assert.Equal(t, Male, p.Gender)
	})
}

func TestRoster(t *testing.T) {
	r := New([]Player{
		{Name: "A1", Gender: Male, Group: GroupA},
		{Name: "B1", Gender: Female, Group: GroupB},
		{Name: "U1", Gender: Female},
		{Name: "U2", Gender: Male, Skill: skill(3)},
		{Name: "A1", Gender: Female},
	})

	t.Run("drops duplicate names", func(t *testing.T) {
		assert.Equal(t, 4, r.Len())
		assert.Equal(t, []string{"A1", "B1", "U1", "U2"}, r.Names())
		p, _ := r.Get("A1")
		assert.Equal(t, Male, p.Gender)
	})

	t.Run("lookup misses", func(t *testing.T) {
		_, ok := r.Get("nobody")
		assert.False(t, ok)
	})

	t.Run("by gender", func(t *testing.T) {
		assert.Len(t, r.ByGender(Female), 2)
		assert.Len(t, r.ByGender(Male), 2)
	})

	t.Run("split puts unassigned on the smaller side", func(t *testing.T) {
		a, b := r.SplitGroups()
		assert.Len(t, a, 2)
		assert.Len(t, b, 2)
		assert.Equal(t, "U1", a[1].Name)
		assert.Equal(t, "U2", b[1].Name)
	})
}
