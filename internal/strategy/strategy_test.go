package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("known modes", func(t *testing.T) {
		for _, name := range Names() {
			m, err := Parse(name)
			require.NoError(t, err)
			assert.Equal(t, Mode(name), m)
		}
	})

	t.Run("unknown mode", func(t *testing.T) {
		_, err := Parse("round_robin")
		assert.Error(t, err)
	})

	t.Run("mode properties", func(t *testing.T) {
		assert.Equal(t, 4, MixedDoubles.PlayersPerGame())
		assert.Equal(t, 2, SinglesMixed.PlayersPerGame())
		assert.Equal(t, OneOfEach, MixedDoubles.Rule())
		assert.Equal(t, SameGender, SinglesSameGender.Rule())
		assert.Equal(t, AnyGender, Fixed.Rule())
		assert.False(t, Fixed.Singles())
	})
}

func TestPatternTable(t *testing.T) {
	for n := MinPatternPlayers; n <= MaxPatternPlayers; n++ {
		games, ok := Pattern(n)
		require.True(t, ok, "n=%d", n)

		t.Run("one game per player", func(t *testing.T) {
			assert.Len(t, games, n)
		})

		t.Run("every player appears exactly four times", func(t *testing.T) {
			counts := make([]int, n)
			for _, g := range games {
				seen := make(map[int]bool)
				for _, p := range g {
					require.True(t, p >= 0 && p < n, "n=%d position %d out of range", n, p)
					assert.False(t, seen[p], "n=%d duplicate position in game %v", n, g)
					seen[p] = true
					counts[p]++
				}
			}
			for p, c := range counts {
				assert.Equal(t, 4, c, "n=%d position %d", n, p)
			}
		})

		t.Run("no partnership repeats", func(t *testing.T) {
			type pair struct{ a, b int }
			seen := make(map[pair]bool)
			for _, g := range games {
				for _, pr := range [][2]int{{g[0], g[1]}, {g[2], g[3]}} {
					a, b := pr[0], pr[1]
					if a > b {
						a, b = b, a
					}
					assert.False(t, seen[pair{a, b}], "n=%d partners %d,%d repeat", n, a, b)
					seen[pair{a, b}] = true
				}
			}
		})

		t.Run("court blocks are disjoint", func(t *testing.T) {
			for courts := 2; courts <= n/4; courts++ {
				for start := 0; start < len(games); start += courts {
					seen := make(map[int]bool)
					for i := start; i < start+courts && i < len(games); i++ {
						for _, p := range games[i] {
							assert.False(t, seen[p], "n=%d courts=%d block at %d", n, courts, start)
							seen[p] = true
						}
					}
				}
			}
		})
	}
}

func TestPatternOutOfRange(t *testing.T) {
	for _, n := range []int{0, 4, 17, 40} {
		_, ok := Pattern(n)
		assert.False(t, ok, "n=%d", n)
	}
}
