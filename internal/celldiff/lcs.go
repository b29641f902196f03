package celldiff

// Compute returns the minimal edit script transforming original into
// modified, aligning on fingerprint equality rather than position.
//
// The alignment is the textbook O(n·m) longest-common-subsequence dynamic
// program. The back-trace is fully deterministic: when a deletion and an
// insertion are equally good, the deletion is consumed first
// (dp[i-1][j] >= dp[i][j-1]), the conventional back-trace order. Golden
// tests pin this tie-break; do not change it without refreshing them.
func Compute(original, modified Sequence) *Result {
	n, m := len(original), len(modified)

	// dp[i][j] = LCS length of original[:i] and modified[:j], flattened.
	width := m + 1
	dp := make([]int, (n+1)*width)
	for i := 1; i <= n; i++ {
		row := i * width
		prev := (i - 1) * width
		for j := 1; j <= m; j++ {
			if original[i-1] == modified[j-1] {
				dp[row+j] = dp[prev+j-1] + 1
			} else if dp[prev+j] >= dp[row+j-1] {
				dp[row+j] = dp[prev+j]
			} else {
				dp[row+j] = dp[row+j-1]
			}
		}
	}

	// Back-trace from (n, m), emitting ops in reverse.
	type op byte
	const (
		opRetain op = iota
		opDelete
		opInsert
	)
	ops := make([]op, 0, n+m)
	i, j := n, m
	for i > 0 || j > 0 {
		switch {
		case i > 0 && j > 0 && original[i-1] == modified[j-1]:
			ops = append(ops, opRetain)
			i--
			j--
		case i > 0 && (j == 0 || dp[(i-1)*width+j] >= dp[i*width+j-1]):
			ops = append(ops, opDelete)
			i--
		default:
			ops = append(ops, opInsert)
			j--
		}
	}

	// Walk the ops forward (they are reversed), coalescing adjacent
	// deletions and insertions into change spans.
	result := &Result{Changes: []ChangeSpan{}}
	oi, mi := 0, 0
	var current *ChangeSpan
	for k := len(ops) - 1; k >= 0; k-- {
		switch ops[k] {
		case opRetain:
			current = nil
			oi++
			mi++
		case opDelete:
			if current == nil {
				result.Changes = append(result.Changes, ChangeSpan{
					OriginalStart: oi,
					ModifiedStart: mi,
				})
				current = &result.Changes[len(result.Changes)-1]
			}
			current.OriginalLength++
			oi++
		case opInsert:
			if current == nil {
				result.Changes = append(result.Changes, ChangeSpan{
					OriginalStart: oi,
					ModifiedStart: mi,
				})
				current = &result.Changes[len(result.Changes)-1]
			}
			current.ModifiedLength++
			mi++
		}
	}

	result.Moves = detectMoves(original, modified, result.Changes)
	return result
}
