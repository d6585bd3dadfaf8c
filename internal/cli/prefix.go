// Package cli provides CLI infrastructure for mkt.
package cli

import (
	"fmt"
	"strings"
)

// MatchResource resolves what the user typed to one of names.
// An exact match wins, then a singular form ("product" for "products"),
// then a unique prefix ("prod"). Matching is case-insensitive.
func MatchResource(input string, names []string) (string, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return "", &ValidationError{Field: "resource", Message: "must not be empty"}
	}

	for _, n := range names {
		if strings.ToLower(n) == input {
			return n, nil
		}
	}
	for _, n := range names {
		if singular(strings.ToLower(n)) == input {
			return n, nil
		}
	}

	var matches []string
	for _, n := range names {
		if strings.HasPrefix(strings.ToLower(n), input) {
			matches = append(matches, n)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("unknown resource %q (choose from: %s)", input, strings.Join(names, ", "))
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("ambiguous resource %q matches: %s", input, strings.Join(matches, ", "))
	}
}

func singular(s string) string {
	switch {
	case strings.HasSuffix(s, "xes"):
		return strings.TrimSuffix(s, "es")
	case strings.HasSuffix(s, "s"):
		return strings.TrimSuffix(s, "s")
	default:
		return s
	}
}
