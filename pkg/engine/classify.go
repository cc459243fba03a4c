package engine

import (
	"fmt"
	"path"

	"github.com/bmatcuk/doublestar/v4"
)

// BoostMatcher compiles a set of glob-style boost patterns once per run and
// applies them as a pure predicate against a candidate's basename or full
// relative path. Matching is case-sensitive.
type BoostMatcher struct {
	patterns []string
}

// NewBoostMatcher validates each pattern and returns a matcher. An empty
// pattern list yields a matcher that never matches.
func NewBoostMatcher(patterns []string) (*BoostMatcher, error) {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid boost pattern %q", p)
		}
	}
	return &BoostMatcher{patterns: patterns}, nil
}

// Match reports whether the candidate matches any boost pattern.
func (m *BoostMatcher) Match(c Candidate) bool {
	base := path.Base(c.RelPath)
	for _, p := range m.patterns {
		if ok, _ := doublestar.Match(p, base); ok {
			return true
		}
		if ok, _ := doublestar.Match(p, c.RelPath); ok {
			return true
		}
	}
	return false
}

// Classify stably partitions candidates into boosted-first order: all
// pattern-matching candidates move to the front tagged OriginBoosted, and the
// relative order inside each of the two groups is preserved. No candidate is
// duplicated or dropped.
func Classify(candidates []Candidate, matcher *BoostMatcher) []Candidate {
	if matcher == nil || len(matcher.patterns) == 0 {
		out := make([]Candidate, len(candidates))
		copy(out, candidates)
		return out
	}

	boosted := make([]Candidate, 0, len(candidates))
	normal := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if matcher.Match(c) {
			c.Origin = OriginBoosted
			boosted = append(boosted, c)
		} else {
			normal = append(normal, c)
		}
	}
	return append(boosted, normal...)
}
