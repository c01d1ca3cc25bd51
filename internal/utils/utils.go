// Package utils contains general helper functions used across the codecontext tool.
package utils

import (
	"strings"
)

// DeduplicatePatterns removes duplicate patterns from a slice while preserving order.
// The first occurrence of each unique pattern is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if _, exists := encounteredPatterns[pattern]; !exists {
			encounteredPatterns[pattern] = struct{}{}
			result = append(result, pattern)
		}
	}
	return result
}

// ShouldIgnoreName reports whether an item name is excluded by the rules.
// DependencyDirectoryName always matches. A rule matches when it equals the name,
// or when it has the form "*<suffix>" with a non-empty suffix the name ends with.
func ShouldIgnoreName(itemName string, rules []string) bool {
	if itemName == DependencyDirectoryName {
		return true
	}
	for _, rule := range rules {
		if rule == itemName {
			return true
		}
		suffix, isWildcard := strings.CutPrefix(rule, wildcardPrefix)
		if isWildcard && suffix != EmptyString && strings.HasSuffix(itemName, suffix) {
			return true
		}
	}
	return false
}
