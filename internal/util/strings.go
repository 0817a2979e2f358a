package util

import (
	"sort"
	"strings"
)

// JoinOrNone joins strings with ", " or returns "(none)" for empty slices.
// This is useful for displaying lists of hosts, tags, or other items where
// an empty list should show a placeholder rather than nothing.
func JoinOrNone(items []string) string {
	return JoinOrDefault(items, "(none)")
}

// JoinOrDefault joins strings with ", " or returns the default value for empty slices.
func JoinOrDefault(items []string, def string) string {
	if len(items) == 0 {
		return def
	}
	return strings.Join(items, ", ")
}

// Pluralize returns singular if count is 1, otherwise plural.
func Pluralize(count int, singular, plural string) string {
	if count == 1 {
		return singular
	}
	return plural
}

// LevenshteinDistance returns the number of single-character edits needed
// to turn a into b.
func LevenshteinDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}

// maxSuggestDistance is the largest edit distance still offered as a "did you mean".
const maxSuggestDistance = 2

// SuggestSimilar returns up to limit candidates close to input, nearest first.
// Comparison is case-insensitive. Returns nil when nothing is close enough.
func SuggestSimilar(input string, candidates []string, limit int) []string {
	if input == "" || len(candidates) == 0 {
		return nil
	}

	type match struct {
		name string
		dist int
	}

	needle := strings.ToLower(input)
	var matches []match
	for _, c := range candidates {
		d := LevenshteinDistance(needle, strings.ToLower(c))
		if d <= maxSuggestDistance {
			matches = append(matches, match{name: c, dist: d})
		}
	}
	if len(matches) == 0 {
		return nil
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].dist < matches[j].dist
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.name
	}
	return out
}
