package engine

// DefaultOverflowTolerance is the slack allowed beyond MaxTotalTokens for a
// single admission decision when the caller does not set one.
const DefaultOverflowTolerance = 3000

// Budget holds the token constraints for one run. Zero means unlimited for
// MaxTotalTokens and MaxFileTokens, and "single part" for SplitTokens.
type Budget struct {
	MaxTotalTokens    int
	MaxFileTokens     int
	SplitTokens       int
	OverflowTolerance int
}

// Contribution returns the candidate's token cost as counted toward any
// budget sum: the raw estimate, capped at MaxFileTokens when a cap is set.
func (b Budget) Contribution(estimatedTokens int) int {
	if b.MaxFileTokens > 0 && estimatedTokens > b.MaxFileTokens {
		return b.MaxFileTokens
	}
	return estimatedTokens
}
