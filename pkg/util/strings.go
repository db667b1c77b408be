package util

import (
	"strconv"
	"strings"
)

// ParseIntDefault parses string to int or returns default if empty/invalid.
func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

// FirstNonEmpty returns the first non-empty string.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// DedupStrings removes duplicates preserving first-seen order.
func DedupStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// JoinMax joins at most n values with ", ".
func JoinMax(values []string, n int) string {
	return strings.Join(CapStrings(values, n), ", ")
}

// CapStrings truncates a slice to at most n elements.
func CapStrings(values []string, n int) []string {
	if len(values) <= n {
		return values
	}
	return values[:n]
}
