package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"nbdiff/internal/recommend"
	"nbdiff/internal/worker"
)

var scanRulesPath string

var scanCmd = &cobra.Command{
	Use:   "scan <snapshot.json>",
	Short: "Scan a notebook snapshot for recommendation patterns",
	Long: `Scan the leading lines of a snapshot's code cells against the
recommendation ruleset and report whether any pattern matched.

Examples:
  nbdiff scan notebook.json
  nbdiff scan notebook.json --rules RECOMMEND.toml`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVar(&scanRulesPath, "rules", "", "Path to a RECOMMEND.toml ruleset")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := newLogger(cfg)

	rulesPath := scanRulesPath
	if rulesPath == "" && cfg.Scan.RulesPath != "" {
		rulesPath = filepath.Join(rootFlag, cfg.Scan.RulesPath)
	}
	rules := recommend.DefaultRuleset()
	if rulesPath != "" {
		rules, err = recommend.ParseRulesetFile(rulesPath)
		if err != nil {
			return fmt.Errorf("failed to load recommendation ruleset: %w", err)
		}
	}

	snap, err := loadSnapshotFile(args[0])
	if err != nil {
		return err
	}

	w := worker.New(cfg, rules, nil, logger)
	if err := w.AcceptNewModel(args[0], snap.Cells, snap.Metadata); err != nil {
		return err
	}

	fmt.Println(w.CanPromptRecommendation(args[0]))
	return nil
}
