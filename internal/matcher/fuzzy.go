package matcher

import (
	"strings"
	"unicode/utf8"
)

// Tokens shorter than this only match exactly.
const minFuzzyTokenLen = 4

// tokenDistance reports whether every token of query has a counterpart in name,
// either identical or within maxEdit edits, and returns the summed edit distance.
func tokenDistance(query, name string, maxEdit int) (int, bool) {
	queryTokens := strings.Fields(query)
	nameTokens := strings.Fields(name)
	if len(queryTokens) == 0 || len(nameTokens) == 0 {
		return 0, false
	}

	total := 0
	for _, qt := range queryTokens {
		best := -1
		for _, nt := range nameTokens {
			if d, ok := fuzzyTokenMatch(qt, nt, maxEdit); ok && (best < 0 || d < best) {
				best = d
				if d == 0 {
					break
				}
			}
		}
		if best < 0 {
			return 0, false
		}
		total += best
	}

	return total, true
}

func fuzzyTokenMatch(a, b string, maxEdit int) (int, bool) {
	if a == b {
		return 0, true
	}

	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	if la < minFuzzyTokenLen || lb < minFuzzyTokenLen {
		return 0, false
	}
	if abs(la-lb) > maxEdit {
		return 0, false
	}

	d := levenshtein(a, b)
	return d, d <= maxEdit
}

// levenshtein computes the rune-wise edit distance using two rows.
func levenshtein(s1, s2 string) int {
	r1, r2 := []rune(s1), []rune(s2)
	if len(r1) == 0 {
		return len(r2)
	}
	if len(r2) == 0 {
		return len(r1)
	}

	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(r2)]
}
