// Package strings holds the list helpers used when reason codes, warnings
// and signals are folded into emitted payloads. Emitted lists are never nil
// so they serialize as [] rather than null.
package strings

import (
	"strings"
)

// DedupeAndTrim trims each element and drops empties and repeats, keeping
// first-seen order. The result is never nil.
func DedupeAndTrim(values []string) []string {
	result := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		result = append(result, trimmed)
	}
	return result
}

// NonNil returns values, or an empty slice when values is nil.
func NonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

// Head returns at most the first n elements. A non-positive n keeps all.
func Head(values []string, n int) []string {
	if n <= 0 || len(values) <= n {
		return NonNil(values)
	}
	return values[:n]
}
