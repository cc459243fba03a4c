package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctxpack/ctxpack/pkg/logging"
)

func candidateSized(rel string, sizeBytes int64) Candidate {
	return Candidate{Path: "/src/" + rel, RelPath: rel, SizeBytes: sizeBytes}
}

func TestSelectGreedyWithOverflow(t *testing.T) {
	// A=400 bytes (100 tok), B=4000 bytes (1000 tok), C=200 bytes (50 tok),
	// budget 120, tolerance 50. B overshoots past the tolerance and is
	// skipped; C still fits inside the tolerance afterwards.
	candidates := []Candidate{
		candidateSized("a.ts", 400),
		candidateSized("b.ts", 4000),
		candidateSized("c.ts", 200),
	}
	selector := NewSelector(Budget{MaxTotalTokens: 120, OverflowTolerance: 50}, logging.NewDisabledLogger())

	ledger, err := selector.Select(candidates)
	require.NoError(t, err)

	require.Len(t, ledger.Files, 2)
	assert.Equal(t, "a.ts", ledger.Files[0].RelPath)
	assert.Equal(t, "c.ts", ledger.Files[1].RelPath)
	assert.Equal(t, 150, ledger.TotalTokens)
	assert.Equal(t, 1, ledger.Skipped)
}

func TestSelectUnlimitedBudgetAdmitsEverything(t *testing.T) {
	candidates := []Candidate{
		candidateSized("a.ts", 400),
		candidateSized("b.ts", 4000),
		candidateSized("c.ts", 200),
	}
	selector := NewSelector(Budget{MaxTotalTokens: 0}, logging.NewDisabledLogger())

	ledger, err := selector.Select(candidates)
	require.NoError(t, err)

	require.Len(t, ledger.Files, 3)
	for i, c := range candidates {
		assert.Equal(t, c.RelPath, ledger.Files[i].RelPath)
	}
	assert.Equal(t, 0, ledger.Skipped)
	assert.Equal(t, 1150, ledger.TotalTokens)
}

func TestSelectRejectionIsNotTerminal(t *testing.T) {
	// An oversized file near the front must not block smaller files later.
	candidates := []Candidate{
		candidateSized("huge.ts", 100000),
		candidateSized("small1.ts", 40),
		candidateSized("small2.ts", 40),
	}
	selector := NewSelector(Budget{MaxTotalTokens: 100, OverflowTolerance: 0}, logging.NewDisabledLogger())

	ledger, err := selector.Select(candidates)
	require.NoError(t, err)

	require.Len(t, ledger.Files, 2)
	assert.Equal(t, "small1.ts", ledger.Files[0].RelPath)
	assert.Equal(t, "small2.ts", ledger.Files[1].RelPath)
	assert.Equal(t, 1, ledger.Skipped)
}

func TestSelectAdmissionNeverExceedsBudgetPlusTolerance(t *testing.T) {
	sizes := []int64{4000, 120, 999, 4, 443, 2000, 1200, 88, 3999, 401}
	var candidates []Candidate
	for i, s := range sizes {
		candidates = append(candidates, candidateSized(string(rune('a'+i))+".ts", s))
	}

	budget := Budget{MaxTotalTokens: 800, OverflowTolerance: 100}
	selector := NewSelector(budget, logging.NewDisabledLogger())

	ledger, err := selector.Select(candidates)
	require.NoError(t, err)

	// Replay the admissions and check the running total at each decision.
	total := 0
	for _, f := range ledger.Files {
		total += budget.Contribution(f.EstimatedTokens())
		assert.LessOrEqual(t, total, budget.MaxTotalTokens+budget.OverflowTolerance)
	}
	assert.Equal(t, total, ledger.TotalTokens)
}

func TestSelectUsesCappedContribution(t *testing.T) {
	// 8000 bytes is 2000 tokens raw, but the per-file cap of 50 makes its
	// contribution 50, so both files fit a 120 token budget.
	candidates := []Candidate{
		candidateSized("big1.ts", 8000),
		candidateSized("big2.ts", 8000),
	}
	selector := NewSelector(Budget{MaxTotalTokens: 120, MaxFileTokens: 50}, logging.NewDisabledLogger())

	ledger, err := selector.Select(candidates)
	require.NoError(t, err)

	assert.Len(t, ledger.Files, 2)
	assert.Equal(t, 100, ledger.TotalTokens)
	assert.Equal(t, 0, ledger.Skipped)
}

func TestSelectEmptyInput(t *testing.T) {
	selector := NewSelector(Budget{MaxTotalTokens: 100}, logging.NewDisabledLogger())

	_, err := selector.Select(nil)
	assert.True(t, errors.Is(err, ErrEmptySelection))
}

func TestSelectEverythingRejected(t *testing.T) {
	candidates := []Candidate{
		candidateSized("a.ts", 100000),
		candidateSized("b.ts", 100000),
	}
	selector := NewSelector(Budget{MaxTotalTokens: 10, OverflowTolerance: 5}, logging.NewDisabledLogger())

	_, err := selector.Select(candidates)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptySelection))
	// Fatal conditions name the values involved.
	assert.Contains(t, err.Error(), "10")
	assert.Contains(t, err.Error(), "2 candidates")
}
