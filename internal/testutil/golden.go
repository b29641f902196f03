// Package testutil provides golden-file helpers for tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"testing"
)

// updateGolden controls whether golden files should be updated.
// Use: go test ./... -update
var updateGolden = flag.Bool("update", false, "update golden files")

// ShouldUpdate returns true if golden files should be updated.
func ShouldUpdate() bool {
	return *updateGolden
}

// MarshalJSON renders got as indented JSON with a trailing newline, the
// canonical golden-file encoding.
func MarshalJSON(t *testing.T, got any) []byte {
	t.Helper()

	data, err := json.MarshalIndent(got, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal golden data: %v", err)
	}
	return append(data, '\n')
}

// CompareGolden compares got against the golden file at path, failing with
// both payloads on mismatch. If -update is set, rewrites the golden file
// instead of comparing.
func CompareGolden(t *testing.T, path string, got []byte) {
	t.Helper()

	if *updateGolden {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("Failed to create golden directory: %v", err)
		}
		if err := os.WriteFile(path, got, 0o644); err != nil {
			t.Fatalf("Failed to write golden file: %v", err)
		}
		t.Logf("Updated golden: %s", path)
		return
	}

	expected, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("Golden file missing: %s\n\nGot:\n%s\n\nRun with -update to create:\n  go test ./... -run %s -update",
				path, string(got), t.Name())
		}
		t.Fatalf("Failed to read golden file: %v", err)
	}

	if !bytes.Equal(got, expected) {
		t.Fatalf("Golden mismatch for %s:\n--- expected\n%s\n+++ got\n%s\n\nRun with -update to refresh:\n  go test ./... -run %s -update",
			path, string(expected), string(got), t.Name())
	}
}

// CompareGoldenJSON marshals got and compares it against the golden file.
func CompareGoldenJSON(t *testing.T, path string, got any) {
	t.Helper()
	CompareGolden(t, path, MarshalJSON(t, got))
}
