package middleware

import "github.com/routemark/routemark/pkg/route"

// unmatchedLabel is the telemetry label for paths no pattern matches.
const unmatchedLabel = "unmatched"

// matchPattern returns the first pattern that matches path, or
// unmatchedLabel when none does. Undecodable paths count as unmatched.
func matchPattern(patterns []string, path string) string {
	for _, pattern := range patterns {
		m, err := route.Match(pattern, path)
		if err != nil {
			return unmatchedLabel
		}
		if m != nil {
			return pattern
		}
	}
	return unmatchedLabel
}
