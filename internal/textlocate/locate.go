package textlocate

import (
	"fmt"
	"sort"
	"unicode"
)

// Strategy identifies which search phase produced a Result.
type Strategy int

const (
	// StrategyNone marks the sentinel result for degenerate input.
	StrategyNone Strategy = iota
	// StrategyQuick marks a result from the word-occurrence quick phase.
	StrategyQuick
	// StrategyThorough marks a result from the full-scan fallback phase.
	StrategyThorough
)

// String returns the lowercase strategy name.
func (s Strategy) String() string {
	switch s {
	case StrategyQuick:
		return "quick"
	case StrategyThorough:
		return "thorough"
	default:
		return "none"
	}
}

// Options controls a Locate call.
type Options struct {
	// CaseSensitive applies to the thorough phase only; the quick phase
	// always case-folds when estimating the candidate region.
	CaseSensitive bool
	// StepFactor controls the resolution of the thorough phase's n-gram
	// ladder: lengths decrease by max(len(query)/StepFactor, 1) per rung.
	// Higher values try more lengths at the cost of runtime. Must be >= 1.
	StepFactor int
	// Workers bounds the scoring parallelism. 0 uses the available CPU
	// count; 1 is sequential. Must not be negative.
	Workers int
}

// DefaultOptions returns the options used by the migration commands.
func DefaultOptions() Options {
	return Options{CaseSensitive: true, StepFactor: 500}
}

func (o Options) validate() error {
	if o.StepFactor < 1 {
		return fmt.Errorf("textlocate: step factor must be >= 1, got %d", o.StepFactor)
	}
	if o.Workers < 0 {
		return fmt.Errorf("textlocate: workers must not be negative, got %d", o.Workers)
	}
	return nil
}

// Result holds the best approximate matches for a query within a corpus.
type Result struct {
	// Matches are the deduplicated best-matching substrings of the corpus,
	// sorted lexicographically for deterministic iteration.
	Matches []string
	// Ratio is the similarity of the closest match, 1.0 meaning identical.
	Ratio float64
	// Distance is the normalized edit distance of the closest match in
	// [0, 1]; 1.0 is the no-match sentinel.
	Distance float64
	// Strategy records which phase produced the result.
	Strategy Strategy
}

// Locate returns the substring(s) of corpus closest to query under edit
// distance. Empty query or corpus yields the sentinel Result with
// StrategyNone; invalid options fail fast with an error.
func Locate(query, corpus string, opts Options) (Result, error) {
	if err := opts.validate(); err != nil {
		return Result{}, err
	}
	if query == "" || corpus == "" {
		return sentinelResult(), nil
	}

	queryRunes := []rune(query)
	corpusRunes := []rune(corpus)

	if res, ok := locateQuick(queryRunes, corpusRunes, opts.Workers); ok {
		return res, nil
	}
	return locateThorough(queryRunes, corpusRunes, opts), nil
}

func sentinelResult() Result {
	return Result{Ratio: 0, Distance: 1, Strategy: StrategyNone}
}

// dedupeSorted collapses duplicate matches and sorts the survivors so the
// result set is independent of discovery order.
func dedupeSorted(matches []string) []string {
	seen := make(map[string]struct{}, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// lowerRunes lowercases rune-by-rune so indices stay aligned with the
// original text, unlike full case folding which may change lengths.
func lowerRunes(rs []rune) []rune {
	out := make([]rune, len(rs))
	for i, r := range rs {
		out[i] = unicode.ToLower(r)
	}
	return out
}

// indexRunes returns the first index of needle in haystack at or after
// from, or -1 when absent.
func indexRunes(haystack, needle []rune, from int) int {
	if len(needle) == 0 || from < 0 {
		return -1
	}
	for i := from; i+len(needle) <= len(haystack); i++ {
		matched := true
		for j, r := range needle {
			if haystack[i+j] != r {
				matched = false
				break
			}
		}
		if matched {
			return i
		}
	}
	return -1
}

func isBlank(rs []rune) bool {
	for _, r := range rs {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
