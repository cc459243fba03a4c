// Package redact scrubs secret-shaped values from file content before it is
// rendered into an output pack.
package redact

import (
	"fmt"
	"regexp"
)

// Rule pairs a name with a compiled pattern. The whole match is replaced.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
}

// DefaultRules covers the common credential shapes worth catching in source
// trees. The generic assignment rule is deliberately loose; a false positive
// costs a placeholder, a false negative ships a secret.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "aws-access-key", Pattern: regexp.MustCompile(`\bAKIA[0-9A-Z]{16}\b`)},
		{Name: "github-token", Pattern: regexp.MustCompile(`\bgh[pousr]_[A-Za-z0-9]{36,}\b`)},
		{Name: "slack-token", Pattern: regexp.MustCompile(`\bxox[baprs]-[A-Za-z0-9-]{10,}\b`)},
		{Name: "private-key", Pattern: regexp.MustCompile(`-----BEGIN [A-Z ]*PRIVATE KEY-----(?s:.*?)-----END [A-Z ]*PRIVATE KEY-----`)},
		{Name: "bearer-token", Pattern: regexp.MustCompile(`(?i)\bbearer\s+[A-Za-z0-9._~+/-]{20,}=*`)},
		{Name: "assignment", Pattern: regexp.MustCompile(`(?i)\b(api[_-]?key|secret|token|password|passwd)\b\s*[:=]\s*["'][^"']{8,}["']`)},
	}
}

// Scanner applies a fixed rule set to content.
type Scanner struct {
	rules []Rule
}

// NewScanner creates a scanner with the given rules; nil means DefaultRules.
func NewScanner(rules []Rule) *Scanner {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Scanner{rules: rules}
}

// Apply replaces every rule match with a [REDACTED:<rule>] placeholder and
// returns the scrubbed content plus the number of replacements made.
func (s *Scanner) Apply(content string) (string, int) {
	total := 0
	for _, rule := range s.rules {
		content = rule.Pattern.ReplaceAllStringFunc(content, func(string) string {
			total++
			return fmt.Sprintf("[REDACTED:%s]", rule.Name)
		})
	}
	return content, total
}
