// Package engine implements the token-budgeted selection and packing pipeline:
// priority classification, import augmentation, budget selection, truncation
// and partitioning of candidate files into bounded output parts.
package engine

import "time"

// Origin records how a candidate entered the working set. Set once, never
// reclassified.
type Origin int

const (
	// OriginDirect means the candidate came straight from the scanner.
	OriginDirect Origin = iota
	// OriginBoosted means the candidate matched a boost pattern.
	OriginBoosted
	// OriginImport means the candidate was discovered by following an
	// import reference in an already-selected file.
	OriginImport
)

func (o Origin) String() string {
	switch o {
	case OriginBoosted:
		return "boosted"
	case OriginImport:
		return "import"
	default:
		return "direct"
	}
}

// Candidate is one discovered file under consideration. Path and metadata are
// provided by the scanner and immutable for the run; only Origin is tagged as
// the candidate moves through the pipeline.
type Candidate struct {
	Path      string // absolute
	RelPath   string // relative to the scanned root, slash-separated
	SizeBytes int64
	ModTime   time.Time
	Origin    Origin
}

// EstimatedTokens returns the candidate's token estimate, recomputed from its
// byte size on every call.
func (c Candidate) EstimatedTokens() int {
	return EstimateBytes(int(c.SizeBytes))
}
