// Package filename holds the pure name-handling logic: deciding whether a
// stored name looks scanner-generated, and cleaning model output into a
// filesystem-safe candidate name.
package filename

import "strings"

// IsGeneric reports whether name matches any of the configured generic-name
// patterns. Matching is a case-insensitive substring test. An empty pattern
// set means no file is ever eligible; that is a valid configuration.
func IsGeneric(name string, patterns []string) bool {
	lower := strings.ToLower(name)
	for _, p := range patterns {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
