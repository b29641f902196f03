package celldiff

// detectMoves pairs pure-deletion spans with pure-insertion spans whose
// fingerprint runs are identical: the run was relocated, not edited.
// Pairing is first-match in document order and each span participates in at
// most one move, which keeps the output deterministic.
func detectMoves(original, modified Sequence, changes []ChangeSpan) []Move {
	var deletions, insertions []int
	for idx, ch := range changes {
		switch {
		case ch.ModifiedLength == 0 && ch.OriginalLength > 0:
			deletions = append(deletions, idx)
		case ch.OriginalLength == 0 && ch.ModifiedLength > 0:
			insertions = append(insertions, idx)
		}
	}
	if len(deletions) == 0 || len(insertions) == 0 {
		return nil
	}

	var moves []Move
	usedInsert := make(map[int]bool, len(insertions))
	for _, di := range deletions {
		del := changes[di]
		for _, ii := range insertions {
			if usedInsert[ii] {
				continue
			}
			ins := changes[ii]
			if ins.ModifiedLength != del.OriginalLength {
				continue
			}
			if !runsEqual(original, del.OriginalStart, modified, ins.ModifiedStart, del.OriginalLength) {
				continue
			}
			usedInsert[ii] = true
			moves = append(moves, Move{
				Original: Span{Start: del.OriginalStart, Length: del.OriginalLength},
				Modified: Span{Start: ins.ModifiedStart, Length: ins.ModifiedLength},
			})
			break
		}
	}
	return moves
}

func runsEqual(a Sequence, aStart int, b Sequence, bStart, length int) bool {
	for k := 0; k < length; k++ {
		if a[aStart+k] != b[bStart+k] {
			return false
		}
	}
	return true
}
