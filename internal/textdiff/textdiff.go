// Package textdiff produces line-level unified diffs for a single cell's
// text. The cell-level engine compares whole-cell fingerprints only; when a
// caller wants detail inside one changed cell it asks here instead.
// It uses github.com/pmezard/go-difflib/difflib to produce classic unified
// patches (---/+++ headers, @@ hunks, lines prefixed with ' ', '-', '+').
package textdiff

import (
	"strings"

	difflib "github.com/pmezard/go-difflib/difflib"
)

// Options controls patch generation behavior.
type Options struct {
	// Context controls the number of context lines in unified hunks.
	// If 0, default to 3.
	Context int
}

// Unified produces a unified patch transforming text a into text b.
// Identical inputs yield an empty patch.
func Unified(aName, bName, a, b string, opt Options) (string, error) {
	ctx := opt.Context
	if ctx <= 0 {
		ctx = 3
	}

	u := difflib.UnifiedDiff{
		A:        splitLinesKeepNL(a),
		B:        splitLinesKeepNL(b),
		FromFile: aName,
		ToFile:   bName,
		Context:  ctx,
	}
	return difflib.GetUnifiedDiffString(u)
}

// splitLinesKeepNL splits into lines and keeps newline characters,
// which produces better unified hunks.
func splitLinesKeepNL(s string) []string {
	if s == "" {
		return []string{}
	}
	// SplitAfter keeps the "\n" at the end of each element. A final chunk
	// without "\n" is fine for unified output.
	return strings.SplitAfter(s, "\n")
}
