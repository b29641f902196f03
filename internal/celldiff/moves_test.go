package celldiff

import (
	"testing"
)

func TestDetectMoves_RunMove(t *testing.T) {
	// [a b c d e] -> [a d e b c]: the alignment keeps [a b c] and reports
	// the run [d e] as relocated intact, internal order preserved.
	result := Compute(seq("a", "b", "c", "d", "e"), seq("a", "d", "e", "b", "c"))

	if len(result.Moves) != 1 {
		t.Fatalf("Moves = %+v, want exactly 1", result.Moves)
	}
	move := result.Moves[0]
	if move.Original != (Span{Start: 3, Length: 2}) {
		t.Errorf("Original = %+v, want {Start:3 Length:2}", move.Original)
	}
	if move.Modified != (Span{Start: 1, Length: 2}) {
		t.Errorf("Modified = %+v, want {Start:1 Length:2}", move.Modified)
	}
}

func TestDetectMoves_NoPairForEditedContent(t *testing.T) {
	// The deleted run and the inserted run carry different fingerprints,
	// so no move may be reported even though the shapes line up.
	changes := []ChangeSpan{
		{OriginalStart: 0, OriginalLength: 1, ModifiedStart: 0, ModifiedLength: 0},
		{OriginalStart: 3, OriginalLength: 0, ModifiedStart: 2, ModifiedLength: 1},
	}
	original := seq("x", "a", "b")
	modified := seq("a", "b", "y")

	if moves := detectMoves(original, modified, changes); moves != nil {
		t.Errorf("detectMoves = %+v, want nil", moves)
	}
}

func TestDetectMoves_LengthMismatch(t *testing.T) {
	// A two-cell deletion never pairs with a one-cell insertion, even when
	// the shorter run is a prefix of the longer.
	changes := []ChangeSpan{
		{OriginalStart: 0, OriginalLength: 2, ModifiedStart: 0, ModifiedLength: 0},
		{OriginalStart: 4, OriginalLength: 0, ModifiedStart: 2, ModifiedLength: 1},
	}
	original := seq("a", "b", "c", "d")
	modified := seq("c", "d", "a")

	if moves := detectMoves(original, modified, changes); moves != nil {
		t.Errorf("detectMoves = %+v, want nil", moves)
	}
}

func TestDetectMoves_MixedSpanExcluded(t *testing.T) {
	// A span that both deletes and inserts is an edit, not a move candidate.
	changes := []ChangeSpan{
		{OriginalStart: 0, OriginalLength: 1, ModifiedStart: 0, ModifiedLength: 1},
	}
	if moves := detectMoves(seq("a"), seq("a"), changes); moves != nil {
		t.Errorf("detectMoves = %+v, want nil", moves)
	}
}

func TestDetectMoves_EachInsertionUsedOnce(t *testing.T) {
	// Two identical deleted runs, one matching insertion: only the first
	// deletion (in document order) claims it.
	changes := []ChangeSpan{
		{OriginalStart: 0, OriginalLength: 1, ModifiedStart: 0, ModifiedLength: 0},
		{OriginalStart: 2, OriginalLength: 1, ModifiedStart: 1, ModifiedLength: 0},
		{OriginalStart: 4, OriginalLength: 0, ModifiedStart: 2, ModifiedLength: 1},
	}
	original := seq("a", "x", "a", "y")
	modified := seq("x", "y", "a")

	moves := detectMoves(original, modified, changes)
	if len(moves) != 1 {
		t.Fatalf("moves = %+v, want exactly 1", moves)
	}
	if moves[0].Original.Start != 0 {
		t.Errorf("move claimed by deletion at %d, want 0", moves[0].Original.Start)
	}
}
