// Package strings carries small helpers for cleaning up delimited
// configuration values.
package strings

import (
	"slices"
	"strings"
)

// DedupeAndTrim trims whitespace from every element, drops empties and
// duplicates, and preserves first-seen order. Splitting a comma-separated
// env value ("a, b,,a") yields exactly {"a", "b"}. Inputs are config-sized;
// the quadratic scan is fine.
func DedupeAndTrim(values []string) []string {
	if len(values) == 0 {
		return values
	}

	result := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || slices.Contains(result, v) {
			continue
		}
		result = append(result, v)
	}
	return result
}
