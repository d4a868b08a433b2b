package schedule

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jokerbb83/tennis-matching-app-sub000/internal/config"
	"github.com/jokerbb83/tennis-matching-app-sub000/internal/roster"
	"github.com/jokerbb83/tennis-matching-app-sub000/internal/strategy"
)

func players(men, women int) []roster.Player {
	var out []roster.Player
	for i := 1; i <= men; i++ {
		out = append(out, roster.Player{Name: fmt.Sprintf("M%d", i), Gender: roster.Male})
	}
	for i := 1; i <= women; i++ {
		out = append(out, roster.Player{Name: fmt.Sprintf("W%d", i), Gender: roster.Female})
	}
	return out
}

func sessionConfig(mode strategy.Mode, courts, target int, ps []roster.Player) *config.Config {
	return &config.Config{
		Session: config.Session{
			Mode:        string(mode),
			Courts:      courts,
			TargetGames: target,
			Attempts:    config.DefaultAttempts,
			Seed:        7,
		},
		Players: ps,
	}
}

func generate(cfg *config.Config) *Result {
	return Generate(cfg, Options{Rand: rand.New(rand.NewSource(cfg.Session.Seed))})
}

// assertRounds checks the structural invariants every schedule must hold.
func assertRounds(t *testing.T, games []Game, courts int) {
	t.Helper()
	type courtKey struct{ round, court int }
	inRound := make(map[int]map[string]bool)
	usedCourt := make(map[courtKey]bool)
	for i, g := range games {
		require.Truef(t, g.Valid(), "game %d is malformed: %+v", i+1, g)
		assert.GreaterOrEqual(t, g.Court, 1)
		assert.LessOrEqual(t, g.Court, courts)
		assert.GreaterOrEqual(t, g.Round, 1)

		k := courtKey{g.Round, g.Court}
		assert.Falsef(t, usedCourt[k], "court %d used twice in round %d", g.Court, g.Round)
		usedCourt[k] = true

		if inRound[g.Round] == nil {
			inRound[g.Round] = make(map[string]bool)
		}
		for _, p := range g.Players() {
			assert.Falsef(t, inRound[g.Round][p], "%s plays twice in round %d", p, g.Round)
			inRound[g.Round][p] = true
		}
	}
}

func TestGenerateDoublesFillsEveryCourt(t *testing.T) {
	cfg := sessionConfig(strategy.DoublesRandom, 2, 4, players(4, 4))
	res := generate(cfg)

	require.Len(t, res.Games, 8)
	assertRounds(t, res.Games, 2)
	for name, n := range Counts(res.Games) {
		assert.Equalf(t, 4, n, "games for %s", name)
	}
	assert.True(t, res.Evaluation.Perfect())
	assert.Equal(t, 1, res.Attempts, "a perfect first attempt stops the search")
	assert.NotEmpty(t, res.ID)
}

func TestGenerateMixedDoubles(t *testing.T) {
	cfg := sessionConfig(strategy.MixedDoubles, 4, 4, players(5, 3))
	cfg.Session.RebalanceGenders = true
	res := generate(cfg)

	require.NotEmpty(t, res.Games)
	assertRounds(t, res.Games, 4)

	genders := map[string]roster.Gender{}
	for _, p := range cfg.Players {
		genders[p.Name] = p.Gender
	}
	for _, g := range res.Games {
		for _, team := range []Team{g.Team1, g.Team2} {
			assert.NotEqualf(t, genders[team.First], genders[team.Second], "team %s is not mixed", team)
		}
	}

	counts := Counts(res.Games)
	lo, hi := counts["W1"], counts["W1"]
	for _, w := range []string{"W2", "W3"} {
		lo = min(lo, counts[w])
		hi = max(hi, counts[w])
	}
	assert.LessOrEqual(t, hi-lo, 1, "women counts %v", counts)
}

func TestGenerateSingles(t *testing.T) {
	cfg := sessionConfig(strategy.SinglesRandom, 3, 3, players(3, 3))
	res := generate(cfg)

	require.Len(t, res.Games, 9)
	assertRounds(t, res.Games, 3)
	for _, g := range res.Games {
		assert.Equal(t, Singles, g.Type)
		assert.NotEqual(t, g.Team1.First, g.Team2.First)
	}
}

func TestGenerateFixed(t *testing.T) {
	t.Run("supported size", func(t *testing.T) {
		cfg := sessionConfig(strategy.Fixed, 2, 4, players(8, 0))
		res := generate(cfg)

		require.Len(t, res.Games, 8)
		assert.Equal(t, 1, res.Attempts)
		for name, n := range Counts(res.Games) {
			assert.Equalf(t, 4, n, "games for %s", name)
		}
		for i, g := range res.Games {
			assert.Equal(t, i%2+1, g.Court)
			assert.Equal(t, i/2+1, g.Round)
		}
	})

	for _, n := range []int{4, 17} {
		t.Run(fmt.Sprintf("%d players", n), func(t *testing.T) {
			cfg := sessionConfig(strategy.Fixed, 2, 4, players(n, 0))
			res := generate(cfg)

			assert.Empty(t, res.Games)
			assert.NotEmpty(t, res.Warnings)
		})
	}
}

func TestGenerateSameGender(t *testing.T) {
	cfg := sessionConfig(strategy.DoublesSameGender, 2, 4, players(4, 4))
	res := generate(cfg)

	require.NotEmpty(t, res.Games)
	assertRounds(t, res.Games, 2)
	assert.Zero(t, res.Evaluation.RuleViolations)
	for _, g := range res.Games {
		for _, team := range []Team{g.Team1, g.Team2} {
			assert.Equalf(t, team.First[0], team.Second[0], "team %s mixes genders", team)
		}
	}
}

func TestGenerateInfeasible(t *testing.T) {
	tests := []struct {
		name    string
		mode    strategy.Mode
		players []roster.Player
	}{
		{"too few for doubles", strategy.DoublesRandom, players(3, 0)},
		{"no mixed teams possible", strategy.MixedDoubles, players(4, 1)},
		{"no same gender pair", strategy.SinglesSameGender, players(1, 1)},
		{"single player singles", strategy.SinglesRandom, players(1, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := generate(sessionConfig(tt.mode, 2, 4, tt.players))
			assert.Empty(t, res.Games)
			assert.NotEmpty(t, res.Warnings)
		})
	}
}

func TestGenerateGroups(t *testing.T) {
	grouped := func(nA, nB int) []roster.Player {
		var ps []roster.Player
		for i := 1; i <= nA; i++ {
			ps = append(ps, roster.Player{Name: fmt.Sprintf("A%d", i), Gender: roster.Male, Group: roster.GroupA})
		}
		for i := 1; i <= nB; i++ {
			ps = append(ps, roster.Player{Name: fmt.Sprintf("B%d", i), Gender: roster.Male, Group: roster.GroupB})
		}
		return ps
	}
	groupOf := func(g Game) byte {
		ps := g.Players()
		for _, p := range ps[1:] {
			if p[0] != ps[0][0] {
				return '?'
			}
		}
		return ps[0][0]
	}

	t.Run("group only", func(t *testing.T) {
		cfg := sessionConfig(strategy.DoublesRandom, 2, 4, grouped(4, 4))
		cfg.Session.GroupOnly = true
		res := generate(cfg)

		require.NotEmpty(t, res.Games)
		for _, g := range res.Games {
			assert.NotEqual(t, byte('?'), groupOf(g))
		}
	})

	t.Run("split across courts", func(t *testing.T) {
		cfg := sessionConfig(strategy.DoublesRandom, 4, 4, grouped(8, 8))
		cfg.Session.SplitGroups = true
		res := generate(cfg)

		require.Len(t, res.Games, 16)
		assertRounds(t, res.Games, 4)
		for _, g := range res.Games {
			switch groupOf(g) {
			case 'A':
				assert.Equal(t, 1, g.Court%2, "group A plays on odd courts")
			case 'B':
				assert.Equal(t, 0, g.Court%2, "group B plays on even courts")
			default:
				t.Errorf("game mixes groups: %+v", g)
			}
		}
	})

	t.Run("split on one court", func(t *testing.T) {
		cfg := sessionConfig(strategy.DoublesRandom, 1, 2, grouped(4, 4))
		cfg.Session.SplitGroups = true
		res := generate(cfg)

		require.Len(t, res.Games, 4)
		assertRounds(t, res.Games, 1)
		want := []byte{'A', 'B', 'A', 'B'}
		for i, g := range res.Games {
			assert.Equal(t, i+1, g.Round)
			assert.Equal(t, want[i], groupOf(g))
		}
	})
}

func TestGenerateRoundsBasis(t *testing.T) {
	cfg := sessionConfig(strategy.DoublesRandom, 2, 0, players(8, 0))
	cfg.Session.TotalRounds = 3
	res := generate(cfg)

	assert.Equal(t, 3, res.Target)
	require.Len(t, res.Games, 6)
	for _, g := range res.Games {
		assert.LessOrEqual(t, g.Round, 3)
	}
}

func TestGenerateMinimumGames(t *testing.T) {
	// Five players on one court can never all play every round.
	cfg := sessionConfig(strategy.DoublesRandom, 1, 0, players(5, 0))
	cfg.Session.TotalRounds = 5
	cfg.Session.MinGames = 4
	res := generate(cfg)

	require.Len(t, res.Games, 5)
	assertRounds(t, res.Games, 1)
	for name, n := range Counts(res.Games) {
		assert.GreaterOrEqualf(t, n, 4, "games for %s", name)
	}
	assert.Zero(t, res.Evaluation.BelowMinimum)
}

func TestGenerateDeterministic(t *testing.T) {
	cfg := sessionConfig(strategy.DoublesRandom, 3, 5, players(7, 6))
	cfg.Session.SkillBalance = true

	first := generate(cfg)
	second := generate(cfg)
	assert.Equal(t, first.Games, second.Games)
	assert.Equal(t, first.ID, second.ID)

	cfg.Session.Seed = 8
	third := generate(cfg)
	assert.NotEqual(t, first.Games, third.Games)
}

func TestInterleave(t *testing.T) {
	a := []Game{{Court: 1, Round: 1}, {Court: 3, Round: 1}, {Court: 1, Round: 3}}
	b := []Game{{Court: 2, Round: 1}}

	merged := interleave(a, b, false)
	require.Len(t, merged, 4)
	assert.Equal(t, []int{1, 1, 1, 2}, []int{merged[0].Round, merged[1].Round, merged[2].Round, merged[3].Round})

	alt := interleave(a, b, true)
	assert.Equal(t, []int{1, 1, 2, 3}, []int{alt[0].Round, alt[1].Round, alt[2].Round, alt[3].Round})
}

func TestGenerateFixedCapsCourts(t *testing.T) {
	cfg := sessionConfig(strategy.Fixed, 4, 4, players(9, 0))
	res := generate(cfg)

	require.Len(t, res.Games, 9)
	assertRounds(t, res.Games, 2)
}

func TestGenerateMixedRebalanceKeepsGroups(t *testing.T) {
	var ps []roster.Player
	add := func(prefix string, n int, g roster.Gender, group roster.Group) {
		for i := 1; i <= n; i++ {
			ps = append(ps, roster.Player{Name: fmt.Sprintf("%s%d", prefix, i), Gender: g, Group: group})
		}
	}
	add("AM", 5, roster.Male, roster.GroupA)
	add("AW", 2, roster.Female, roster.GroupA)
	add("BM", 2, roster.Male, roster.GroupB)
	add("BW", 3, roster.Female, roster.GroupB)

	for _, split := range []bool{false, true} {
		for seed := int64(1); seed <= 10; seed++ {
			t.Run(fmt.Sprintf("split=%v seed=%d", split, seed), func(t *testing.T) {
				cfg := sessionConfig(strategy.MixedDoubles, 2, 4, ps)
				cfg.Session.RebalanceGenders = true
				cfg.Session.GroupOnly = !split
				cfg.Session.SplitGroups = split
				cfg.Session.Seed = seed
				res := generate(cfg)

				require.NotEmpty(t, res.Games)
				assertRounds(t, res.Games, 2)
				for i, g := range res.Games {
					names := g.Players()
					for _, p := range names[1:] {
						assert.Equalf(t, names[0][0], p[0], "game %d mixes groups: %v", i+1, names)
					}
					if split {
						want := 1
						if names[0][0] == 'B' {
							want = 0
						}
						assert.Equalf(t, want, g.Court%2, "game %d on court %d", i+1, g.Court)
					}
				}
			})
		}
	}
}

func TestGenerateSplitTargetsPerSide(t *testing.T) {
	var ps []roster.Player
	for i := 1; i <= 8; i++ {
		ps = append(ps, roster.Player{Name: fmt.Sprintf("A%d", i), Gender: roster.Male, Group: roster.GroupA})
	}
	for i := 1; i <= 4; i++ {
		ps = append(ps, roster.Player{Name: fmt.Sprintf("B%d", i), Gender: roster.Male, Group: roster.GroupB})
	}
	cfg := sessionConfig(strategy.DoublesRandom, 2, 0, ps)
	cfg.Session.TotalRounds = 2
	cfg.Session.SplitGroups = true
	res := generate(cfg)

	// Side A gets one game each on its single court, side B two.
	require.Len(t, res.Games, 4)
	counts := Counts(res.Games)
	for _, p := range ps {
		want := 1
		if p.Group == roster.GroupB {
			want = 2
		}
		assert.Equalf(t, want, counts[p.Name], "games for %s", p.Name)
	}
	assert.True(t, res.Evaluation.Perfect(), "%+v", res.Evaluation)
	assert.Equal(t, 1, res.Attempts)
}
