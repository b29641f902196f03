package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"nbdiff/internal/notebook"
	"nbdiff/internal/worker"
)

var diffFormat string

var diffCmd = &cobra.Command{
	Use:   "diff <original.json> <modified.json>",
	Short: "Diff two notebook snapshot files",
	Long: `Compute the cell-level edit script between two notebook snapshot files.

A snapshot file is the JSON payload of a notebook/open request:
  {"cells": [{"handle": 0, "source": "...", "language": "python",
              "cellKind": 2, "outputs": []}], "metadata": {}}

Examples:
  nbdiff diff before.json after.json
  nbdiff diff before.json after.json --format yaml`,
	Args: cobra.ExactArgs(2),
	RunE: runDiff,
}

func init() {
	diffCmd.Flags().StringVar(&diffFormat, "format", "json", "Output format: json or yaml")
	rootCmd.AddCommand(diffCmd)
}

// snapshotFile is the on-disk shape consumed by diff and scan.
type snapshotFile struct {
	Cells    []notebook.CellDto     `json:"cells"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

func loadSnapshotFile(path string) (*snapshotFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}
	var snap snapshotFile
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot %s: %w", path, err)
	}
	return &snap, nil
}

func runDiff(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := newLogger(cfg)

	original, err := loadSnapshotFile(args[0])
	if err != nil {
		return err
	}
	modified, err := loadSnapshotFile(args[1])
	if err != nil {
		return err
	}

	w := worker.New(cfg, nil, nil, logger)
	if err := w.AcceptNewModel(args[0], original.Cells, original.Metadata); err != nil {
		return err
	}
	if err := w.AcceptNewModel(args[1], modified.Cells, modified.Metadata); err != nil {
		return err
	}

	result, err := w.ComputeDiff(args[0], args[1])
	if err != nil {
		return err
	}

	switch diffFormat {
	case "yaml":
		out, err := yaml.Marshal(result)
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		fmt.Print(string(out))
	case "json":
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		fmt.Println(string(out))
	default:
		return fmt.Errorf("unknown format %q (valid: json, yaml)", diffFormat)
	}
	return nil
}
