package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"nbdiff/internal/recommend"
	"nbdiff/internal/server"
	"nbdiff/internal/store"
	"nbdiff/internal/version"
	"nbdiff/internal/worker"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the JSON-RPC stdio worker",
	Long: `Run the diff worker as a line-delimited JSON-RPC 2.0 server on
stdin/stdout. The host editor owns the transport and serializes requests.

Methods: notebook/open, notebook/change, notebook/close, notebook/diff,
notebook/canPromptRecommendation, notebook/cellTextDiff, shutdown.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := newLogger(cfg)

	rules := recommend.DefaultRuleset()
	if cfg.Scan.RulesPath != "" {
		rules, err = recommend.ParseRulesetFile(filepath.Join(rootFlag, cfg.Scan.RulesPath))
		if err != nil {
			return fmt.Errorf("failed to load recommendation ruleset: %w", err)
		}
	}

	var db *store.DB
	if cfg.Store.Enabled {
		db, err = store.Open(filepath.Join(rootFlag, cfg.Store.Path), logger)
		if err != nil {
			return fmt.Errorf("failed to open snapshot store: %w", err)
		}
		defer func() { _ = db.Close() }()
	}

	w := worker.New(cfg, rules, db, logger)
	return server.New(version.Info(), w, logger).Start()
}
