package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jokerbb83/tennis-matching-app-sub000/internal/roster"
	"github.com/jokerbb83/tennis-matching-app-sub000/internal/strategy"
)

const (
	DefaultTargetGames = 4
	DefaultAttempts    = 80
	DefaultSeed        = 42
)

// Session holds the rules for one club session.
type Session struct {
	Mode   string `yaml:"mode"`
	Courts int    `yaml:"courts"`

	// Exactly one of TargetGames and TotalRounds drives the session length.
	TargetGames int `yaml:"target_games"`
	TotalRounds int `yaml:"total_rounds"`

	GroupOnly        bool `yaml:"group_only"`
	SplitGroups      bool `yaml:"split_groups"`
	SkillBalance     bool `yaml:"skill_balance"`
	MinGames         int  `yaml:"min_games"`
	RebalanceGenders bool `yaml:"rebalance_genders"`

	Attempts int   `yaml:"attempts"`
	Seed     int64 `yaml:"seed"`
}

type Config struct {
	Session Session         `yaml:"session"`
	Players []roster.Player `yaml:"players"`
}

// Mode returns the parsed session mode. Configs that went through Load are
// guaranteed to carry a known mode.
func (c *Config) Mode() strategy.Mode {
	m, err := strategy.Parse(c.Session.Mode)
	if err != nil {
		return strategy.DoublesRandom
	}
	return m
}

// Roster returns the players as a Roster.
func (c *Config) Roster() *roster.Roster {
	return roster.New(c.Players)
}

// RoundsBasis reports whether the session length is given in rounds.
func (s Session) RoundsBasis() bool {
	return s.TotalRounds > 0
}

// LoadFromBytes parses YAML bytes into a Config and validates it.
func LoadFromBytes(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromFile reads and parses a YAML config file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromBytes(data)
}

func (c *Config) applyDefaults() {
	if c.Session.Mode == "" {
		c.Session.Mode = string(strategy.DoublesRandom)
	}
	if c.Session.TargetGames == 0 && c.Session.TotalRounds == 0 {
		c.Session.TargetGames = DefaultTargetGames
	}
	if c.Session.Attempts == 0 {
		c.Session.Attempts = DefaultAttempts
	}
	if c.Session.Seed == 0 {
		c.Session.Seed = DefaultSeed
	}
	for i := range c.Players {
		c.Players[i].Name = strings.TrimSpace(c.Players[i].Name)
		if c.Players[i].Gender == "" {
			c.Players[i].Gender = roster.Male
		}
	}
}

func (c *Config) validate() error {
	if _, err := strategy.Parse(c.Session.Mode); err != nil {
		return err
	}

	if c.Session.Courts < 1 {
		return fmt.Errorf("at least one court is required")
	}

	if c.Session.TargetGames > 0 && c.Session.TotalRounds > 0 {
		return fmt.Errorf("target_games and total_rounds are mutually exclusive; set only one")
	}
	if c.Session.TargetGames < 0 || c.Session.TotalRounds < 0 {
		return fmt.Errorf("target_games and total_rounds must not be negative")
	}
	if c.Session.MinGames < 0 {
		return fmt.Errorf("min_games must not be negative")
	}
	if c.Session.Attempts < 0 {
		return fmt.Errorf("attempts must not be negative")
	}

	if len(c.Players) == 0 {
		return fmt.Errorf("at least one player is required")
	}

	seen := make(map[string]bool)
	for i, p := range c.Players {
		if p.Name == "" {
			return fmt.Errorf("player %d has no name", i+1)
		}
		// Team cells in the workbook are written as "A / B".
		if strings.Contains(p.Name, "/") {
			return fmt.Errorf("player name %q must not contain '/'", p.Name)
		}
		if seen[p.Name] {
			return fmt.Errorf("player %q appears more than once", p.Name)
		}
		seen[p.Name] = true
	}

	return nil
}
