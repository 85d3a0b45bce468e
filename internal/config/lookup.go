package config

import (
	"sort"
	"strings"
	"unicode"
)

// LookupCategory finds the table entry for a scenario category. An exact
// (case-insensitive) key wins; otherwise the key whose tokens appear as a
// whole run of the category's tokens is used, longest first, so
// "payment_checkout" resolves to "checkout" while "build" does not match "ui".
func LookupCategory[T any](table map[string]T, category string) (T, bool) {
	var zero T
	cat := strings.ToLower(strings.TrimSpace(category))
	if cat == "" {
		return zero, false
	}
	if v, ok := table[cat]; ok {
		return v, true
	}

	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	// longest first, then alphabetical for a stable pick
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	tokens := tokenize(cat)
	for _, k := range keys {
		if containsRun(tokens, tokenize(k)) {
			return table[k], true
		}
	}
	return zero, false
}

// MatchesAny reports whether any keyword appears as a whole token run of
// the category.
func MatchesAny(category string, keywords []string) bool {
	tokens := tokenize(category)
	for _, kw := range keywords {
		if containsRun(tokens, tokenize(kw)) {
			return true
		}
	}
	return false
}

// tokenize lower-cases s and splits it on anything that is not a letter or
// digit.
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// containsRun reports whether needle occurs as a contiguous run in tokens.
// An empty needle never matches.
func containsRun(tokens, needle []string) bool {
	if len(needle) == 0 || len(needle) > len(tokens) {
		return false
	}
	for i := 0; i+len(needle) <= len(tokens); i++ {
		match := true
		for j, n := range needle {
			if tokens[i+j] != n {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
