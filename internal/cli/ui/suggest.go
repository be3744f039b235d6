package ui

import (
	"sort"
	"strings"
)

// MaxSuggestions bounds the result of Suggest.
const MaxSuggestions = 3

// Suggest returns up to MaxSuggestions candidates within an edit distance of
// a third of target's length (at least 2), closest first. Matching ignores
// case.
func Suggest(target string, candidates []string) []string {
	limit := len(target) / 3
	if limit < 2 {
		limit = 2
	}

	type match struct {
		name string
		dist int
	}
	var matches []match
	lower := strings.ToLower(target)
	for _, c := range candidates {
		if d := Distance(lower, strings.ToLower(c)); d <= limit {
			matches = append(matches, match{c, d})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].dist < matches[j].dist })

	out := []string{}
	for i := 0; i < len(matches) && i < MaxSuggestions; i++ {
		out = append(out, matches[i].name)
	}
	return out
}

// Distance is the Levenshtein distance of a and b over runes.
func Distance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	row := make([]int, len(rb)+1)
	for j := range row {
		row[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		diag := row[0]
		row[0] = i
		for j := 1; j <= len(rb); j++ {
			next := row[j]
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			row[j] = minOf(row[j]+1, row[j-1]+1, diag+cost)
			diag = next
		}
	}
	return row[len(rb)]
}

func minOf(values ...int) int {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
