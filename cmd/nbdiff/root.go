package main

import (
	"nbdiff/internal/config"
	"nbdiff/internal/logging"
	"nbdiff/internal/version"

	"github.com/spf13/cobra"
)

var (
	// rootFlag is the workspace root holding .nbdiff/config.json
	rootFlag string
)

var rootCmd = &cobra.Command{
	Use:   "nbdiff",
	Short: "nbdiff - notebook cell diff worker",
	Long: `nbdiff mirrors cell-structured (notebook) documents, fingerprints their
cells, and computes cell-level edit scripts between two documents. It runs
either as a JSON-RPC stdio worker for an editor host (nbdiff serve) or as a
one-shot CLI over snapshot files.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("nbdiff version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", ".",
		"Workspace root containing the .nbdiff directory")
}

// loadConfig loads the workspace config and validates it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(rootFlag)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds a logger from the loaded config.
func newLogger(cfg *config.Config) *logging.Logger {
	return logging.NewLogger(logging.Config{
		Format: logging.Format(cfg.Logging.Format),
		Level:  logging.LogLevel(cfg.Logging.Level),
	})
}
