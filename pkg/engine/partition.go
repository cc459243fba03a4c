package engine

// Part is one output batch: a 1-based ordinal, an ordered non-empty member
// list and the accumulated token total. A part is sealed once the partitioner
// moves on to the next one.
type Part struct {
	Index      int
	Files      []Candidate
	TokenTotal int
}

// Partition splits the ledger's ordered file list into sequential parts
// bounded by splitTokens, never dividing a file's content across parts.
// splitTokens from budget.SplitTokens == 0 produces a single part holding
// everything.
//
// A part that would overflow is sealed and a new one opened, but the first
// file appended to an open part is always admitted even when its own
// contribution exceeds the limit. Forward progress takes priority over strict
// bound adherence: no part is ever empty and packing never stalls, so a
// single oversized file becomes a one-member part exceeding the nominal
// limit. This rule is independent of the selector's overflow tolerance; the
// overshoot here is unbounded for a single large file.
func Partition(ledger *Ledger, budget Budget) []Part {
	if len(ledger.Files) == 0 {
		return nil
	}

	if budget.SplitTokens <= 0 {
		files := make([]Candidate, len(ledger.Files))
		copy(files, ledger.Files)
		return []Part{{Index: 1, Files: files, TokenTotal: ledger.TotalTokens}}
	}

	var parts []Part
	current := Part{Index: 1}
	for _, f := range ledger.Files {
		contribution := budget.Contribution(f.EstimatedTokens())
		if len(current.Files) > 0 && current.TokenTotal+contribution > budget.SplitTokens {
			parts = append(parts, current)
			current = Part{Index: len(parts) + 1}
		}
		current.Files = append(current.Files, f)
		current.TokenTotal += contribution
	}
	parts = append(parts, current)
	return parts
}
