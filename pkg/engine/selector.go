package engine

import (
	"fmt"

	"github.com/ctxpack/ctxpack/pkg/logging"
)

// Ledger is the selector's result for one run: the ordered admitted files,
// the running token total and how many candidates were skipped.
type Ledger struct {
	Files       []Candidate
	TotalTokens int
	Skipped     int
}

// Selector greedily admits candidates under the total token budget with a
// bounded overshoot tolerance.
//
// The scan deliberately keeps going after a rejection: a single oversized
// file near the front must not block smaller files later in the sequence, so
// rejection is per-candidate, never terminal for the scan. That favors
// breadth of inclusion over strict budget adherence and makes the result
// order-dependent, which is accepted; the rule is deterministic and
// explainable, not optimal.
type Selector struct {
	budget Budget
	log    logging.Logger
}

// NewSelector creates a selector for the given budget.
func NewSelector(budget Budget, log logging.Logger) *Selector {
	return &Selector{budget: budget, log: log}
}

// Select scans the candidates once, in order, and returns the ledger.
// With MaxTotalTokens == 0 every candidate is admitted unconditionally and
// no budget math runs. An empty ledger after a full scan returns
// ErrEmptySelection wrapped with the values involved.
func (s *Selector) Select(candidates []Candidate) (*Ledger, error) {
	ledger := &Ledger{}

	for _, c := range candidates {
		contribution := s.budget.Contribution(c.EstimatedTokens())

		if s.budget.MaxTotalTokens <= 0 {
			ledger.Files = append(ledger.Files, c)
			ledger.TotalTokens += contribution
			continue
		}

		projected := ledger.TotalTokens + contribution
		switch {
		case projected <= s.budget.MaxTotalTokens:
			ledger.Files = append(ledger.Files, c)
			ledger.TotalTokens = projected
		case projected <= s.budget.MaxTotalTokens+s.budget.OverflowTolerance:
			s.log.Debug("overshoot tolerated",
				"path", c.RelPath,
				"projected", projected,
				"budget", s.budget.MaxTotalTokens,
				"tolerance", s.budget.OverflowTolerance)
			ledger.Files = append(ledger.Files, c)
			ledger.TotalTokens = projected
		default:
			s.log.Debug("candidate skipped, over budget",
				"path", c.RelPath,
				"contribution", contribution,
				"total", ledger.TotalTokens,
				"budget", s.budget.MaxTotalTokens)
			ledger.Skipped++
		}
	}

	if len(ledger.Files) == 0 {
		return nil, fmt.Errorf("%w: scanned %d candidates against a budget of %d tokens (tolerance %d)",
			ErrEmptySelection, len(candidates), s.budget.MaxTotalTokens, s.budget.OverflowTolerance)
	}
	return ledger, nil
}
