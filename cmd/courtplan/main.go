package main

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/spf13/cobra"

	"github.com/jokerbb83/tennis-matching-app-sub000/internal/config"
	"github.com/jokerbb83/tennis-matching-app-sub000/internal/excel"
	"github.com/jokerbb83/tennis-matching-app-sub000/internal/logger"
	"github.com/jokerbb83/tennis-matching-app-sub000/internal/schedule"
	"github.com/jokerbb83/tennis-matching-app-sub000/internal/validator"
)

const defaultConfigFile = "config.yaml"

func resolveConfigPath(configFlag string) (string, error) {
	if configFlag != "" {
		return configFlag, nil
	}
	if _, err := os.Stat(defaultConfigFile); err == nil {
		return defaultConfigFile, nil
	}
	return "", fmt.Errorf("no config file found. Either create %s in the current directory or pass --config", defaultConfigFile)
}

type generateOptions struct {
	output  string
	seed    int64
	seedSet bool
	verbose bool
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "courtplan",
		Short: "Club session match schedule generator",
	}

	var initOutputPath string
	initCmd := &cobra.Command{
		Use:          "init",
		Short:        "Create a starter config.yaml in the current directory",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(initOutputPath)
		},
	}
	initCmd.Flags().StringVarP(&initOutputPath, "output", "o", defaultConfigFile, "Output path for the config file")

	scheduleCmd := &cobra.Command{
		Use:   "schedule",
		Short: "Generate and validate schedules",
	}

	var configFile string
	scheduleCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file (default: config.yaml in current directory)")

	var genOpts generateOptions
	generateCmd := &cobra.Command{
		Use:          "generate",
		Short:        "Generate a schedule from a config file",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := resolveConfigPath(configFile)
			if err != nil {
				return err
			}
			genOpts.seedSet = cmd.Flags().Changed("seed")
			return runGenerate(configPath, genOpts)
		},
	}
	generateCmd.Flags().StringVarP(&genOpts.output, "output", "o", "schedule.xlsx", "Output Excel file path")
	generateCmd.Flags().Int64Var(&genOpts.seed, "seed", 0, "Random seed (default: session.seed)")
	generateCmd.Flags().BoolVarP(&genOpts.verbose, "verbose", "v", false, "Log every attempt")

	validateCmd := &cobra.Command{
		Use:          "validate <schedule.xlsx>",
		Short:        "Validate a schedule against the session rules",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := resolveConfigPath(configFile)
			if err != nil {
				return err
			}
			return runValidate(configPath, args[0])
		},
	}

	scheduleCmd.AddCommand(generateCmd, validateCmd)
	rootCmd.AddCommand(initCmd, scheduleCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runInit(outputPath string) error {
	if _, err := os.Stat(outputPath); err == nil {
		return fmt.Errorf("%s already exists; remove it first or use -o to write elsewhere", outputPath)
	}

	if err := os.WriteFile(outputPath, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("✓ Created %s\n", outputPath)
	return nil
}

const configTemplate = `# Club Session Configuration
# ==========================
# This file describes one session: the courts, how games are formed and
# who is playing.

session:
  # How games are formed:
  #   fixed               precomputed rotation, 5-16 players, 4 games each
  #   doubles_random      2v2, any composition
  #   doubles_same_gender 2v2, both partners share gender
  #   mixed_doubles       2v2, every team is one man and one woman
  #   singles_random      1v1, any pairing
  #   singles_same_gender 1v1 between players of the same gender
  #   singles_mixed       1v1 between a man and a woman
  mode: doubles_random

  courts: 2

  # Session length: set target_games (games per player) OR total_rounds,
  # never both. With neither set every player targets 4 games.
  target_games: 4
  # total_rounds: 6

  group_only: false        # never mix group A and group B in one game
  split_groups: false      # A plays on odd courts, B on even courts
  skill_balance: false     # prefer teams of similar average skill
  min_games: 0             # every player gets at least this many games
  rebalance_genders: false # mixed_doubles: even out games inside the larger gender

  attempts: 80             # full constructions tried; the best one is kept
  seed: 42                 # same seed, same schedule

# Players. Gender is M or F (anything else reads as M). Skill is optional;
# unrated players count as 5.0. Group is A, B or empty.
players:
  - {name: Kim, gender: M, skill: 4.0, group: A}
  - {name: Lee, gender: F, skill: 3.5, group: A}
  - {name: Park, gender: M, group: B}
  - {name: Choi, gender: F, group: B}
  - {name: Jung, gender: M}
  - {name: Kang, gender: F}
  - {name: Yoon, gender: M}
  - {name: Han, gender: F}
`

func runGenerate(configPath string, opts generateOptions) error {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if opts.seedSet {
		cfg.Session.Seed = opts.seed
	}

	log := logger.New("courtplan", opts.verbose)
	fmt.Printf("Scheduling %d players on %d court(s) in %s mode...\n", len(cfg.Players), cfg.Session.Courts, cfg.Mode())

	result := schedule.Generate(cfg, schedule.Options{
		Rand: rand.New(rand.NewSource(cfg.Session.Seed)),
		Log:  log,
	})

	rounds := 0
	for _, g := range result.Games {
		rounds = max(rounds, g.Round)
	}
	fmt.Printf("✓ %d games over %d rounds (best of %d attempts)\n", len(result.Games), rounds, result.Attempts)

	fmt.Println("\nPer Player Metrics:")
	fmt.Printf("  %-15s %6s %9s %10s\n", "Player", "Games", "Partners", "Opponents")
	for _, p := range cfg.Roster().Players() {
		m := result.PlayerMetrics[p.Name]
		fmt.Printf("  %-15s %6d %9d %10d\n", p.Name, m.Games, m.Partners, m.Opponents)
	}
	fmt.Printf("  games per player: mean %.2f, stddev %.2f, range %d-%d\n",
		result.Summary.Mean, result.Summary.StdDev, result.Summary.Min, result.Summary.Max)

	if len(result.Warnings) > 0 {
		fmt.Printf("\nWarnings (%d):\n", len(result.Warnings))
		for _, w := range result.Warnings {
			fmt.Printf("  ⚠ %s\n", w)
		}
	} else {
		fmt.Println("\n✓ No warnings")
	}

	f, err := excel.Generate(cfg, result)
	if err != nil {
		return fmt.Errorf("generating Excel: %w", err)
	}

	if err := f.SaveAs(opts.output); err != nil {
		return fmt.Errorf("saving file: %w", err)
	}

	fmt.Printf("\n✓ Schedule saved to %s\n", opts.output)
	if result.Evaluation.BelowMinimum > 0 {
		return fmt.Errorf("%d player(s) below the minimum of %d games", result.Evaluation.BelowMinimum, cfg.Session.MinGames)
	}
	return nil
}

func runValidate(configPath, schedulePath string) error {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	violations, err := validator.Validate(cfg, schedulePath)
	if err != nil {
		return fmt.Errorf("validating: %w", err)
	}

	errors := 0
	warnings := 0
	for _, v := range violations {
		switch v.Type {
		case "error":
			errors++
			fmt.Printf("✗ Rule violation: %s\n", v.Message)
		case "warning":
			warnings++
			fmt.Printf("⚠ Guideline violation: %s\n", v.Message)
		}
	}

	fmt.Printf("\nValidation complete: %d rule violations, %d guideline violations\n", errors, warnings)

	// Regenerate player sheets from the schedule sheet
	if err := excel.UpdatePlayerSheets(schedulePath, cfg); err != nil {
		return fmt.Errorf("updating player sheets: %w", err)
	}
	fmt.Printf("✓ Player sheets updated in %s\n", schedulePath)

	if errors > 0 {
		return fmt.Errorf("%d rule violations found", errors)
	}
	return nil
}
