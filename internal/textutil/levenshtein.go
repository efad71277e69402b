package textutil

import (
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// Distance computes the Levenshtein edit distance between a and b:
// the minimum number of single-rune insertions, deletions, and
// substitutions needed to transform one into the other.
func Distance(a, b string) int {
	if a == b {
		return 0
	}
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}
	// Keep the shorter string in the inner dimension so the two DP rows
	// stay small.
	if len(ra) < len(rb) {
		ra, rb = rb, ra
	}

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
			curr[j] = minInt(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// NormalizedDistance returns Distance scaled by the longer rune length,
// yielding a value in [0, 1]. Two empty strings have distance 0.
func NormalizedDistance(a, b string) float64 {
	longer := maxInt(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longer == 0 {
		return 0
	}
	return float64(Distance(a, b)) / float64(longer)
}

// Ratio returns a similarity score in [0, 1] derived from the edit
// distance; 1.0 means identical.
func Ratio(a, b string) float64 {
	return 1 - NormalizedDistance(a, b)
}

// Fold returns s case-folded for caseless comparison.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// QueryTokens splits query on whitespace and returns the distinct
// lowercased words longer than three runes, sorted for deterministic
// iteration. Short words carry too little signal to anchor a corpus
// region, so they are dropped. Lowercasing is per-rune rather than a
// full case fold so tokens line up with a corpus lowered the same way;
// folding can change rune counts (ß becomes ss) and such tokens would
// never match.
func QueryTokens(query string) []string {
	seen := make(map[string]struct{})
	for _, word := range strings.Fields(strings.ToLower(query)) {
		if utf8.RuneCountInString(word) <= 3 {
			continue
		}
		seen[word] = struct{}{}
	}
	tokens := make([]string, 0, len(seen))
	for word := range seen {
		tokens = append(tokens, word)
	}
	sort.Strings(tokens)
	return tokens
}

func minInt(values ...int) int {
	out := values[0]
	for _, v := range values[1:] {
		if v < out {
			out = v
		}
	}
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
