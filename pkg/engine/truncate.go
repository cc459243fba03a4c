package engine

import (
	"fmt"
	"regexp"
	"strconv"
)

// truncationMarkerRe recognizes content this package has already truncated,
// so re-truncating at the same cap is a no-op.
var truncationMarkerRe = regexp.MustCompile(`\n\n\[truncated: capped at (\d+) tokens, original estimate \d+ tokens\]\n$`)

// Truncate cuts content that exceeds the per-file token cap and appends a
// marker naming the cap and the original estimate. It runs at emission time,
// not during selection: selection counts a capped contribution, and the cut
// here makes the emitted bytes match what was counted. With cap == 0, or
// content within the cap, the content passes through unchanged.
//
// The returned flag reports whether the result is truncated content.
func Truncate(content string, maxFileTokens int) (string, bool) {
	if maxFileTokens <= 0 {
		return content, false
	}

	if m := truncationMarkerRe.FindStringSubmatch(content); m != nil {
		if prior, err := strconv.Atoi(m[1]); err == nil && prior == maxFileTokens {
			return content, true
		}
	}

	estimate := EstimateTokens(content)
	if estimate <= maxFileTokens {
		return content, false
	}

	cut := content[:maxFileTokens*BytesPerToken]
	marker := fmt.Sprintf("\n\n[truncated: capped at %d tokens, original estimate %d tokens]\n",
		maxFileTokens, estimate)
	return cut + marker, true
}
