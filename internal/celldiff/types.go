// Package celldiff computes cell-level edit scripts between two mirrored
// notebook documents. The engine aligns comparison fingerprints with a
// classic longest-common-subsequence pass and reports the changed regions
// plus any relocated-but-unchanged runs it can pair up as moves.
//
// Fingerprint comparison is deliberately coarse: character-level diffing of
// an individual cell's text is a separate concern (see internal/textdiff).
package celldiff

import "nbdiff/internal/notebook"

// Sequence is the abstract view the engine aligns: one comparison
// fingerprint per cell, in document order.
type Sequence []uint64

// FromDocument adapts a document mirror to a Sequence. The result is stable
// for as long as the mirror is unmodified, so repeated calls during one
// diff computation agree.
func FromDocument(d *notebook.Document) Sequence {
	return d.ComparisonFingerprints()
}

// Span is a contiguous run of cells.
type Span struct {
	Start  int `json:"start" yaml:"start"`
	Length int `json:"length" yaml:"length"`
}

// ChangeSpan describes one changed region: a contiguous run in the original
// sequence and the run that replaces it in the modified sequence. A zero
// OriginalLength denotes pure insertion, a zero ModifiedLength pure
// deletion; retained runs between spans are implied, not listed.
type ChangeSpan struct {
	OriginalStart  int `json:"originalStart" yaml:"originalStart"`
	OriginalLength int `json:"originalLength" yaml:"originalLength"`
	ModifiedStart  int `json:"modifiedStart" yaml:"modifiedStart"`
	ModifiedLength int `json:"modifiedLength" yaml:"modifiedLength"`
}

// Move pairs a deleted run with an inserted run carrying identical
// fingerprints: content relocated without change.
type Move struct {
	Original Span `json:"original" yaml:"original"`
	Modified Span `json:"modified" yaml:"modified"`
}

// Result is the ordered edit script between two sequences.
type Result struct {
	Changes []ChangeSpan `json:"changes" yaml:"changes"`
	Moves   []Move       `json:"moves,omitempty" yaml:"moves,omitempty"`
}

// IsEmpty reports whether the sequences were identical.
func (r *Result) IsEmpty() bool {
	return len(r.Changes) == 0
}
