package engine

// BytesPerToken is the fixed character-to-token ratio used as the unit of
// account throughout the pipeline. Keeping the estimate a pure function of
// byte count keeps every downstream decision deterministic.
const BytesPerToken = 4

// EstimateBytes returns ceil(n / BytesPerToken) for a byte count.
// Slightly overestimates for English text, which leaves headroom rather
// than overflowing a real model window.
func EstimateBytes(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + BytesPerToken - 1) / BytesPerToken
}

// EstimateTokens estimates tokens for a string from its byte length.
func EstimateTokens(content string) int {
	return EstimateBytes(len(content))
}
