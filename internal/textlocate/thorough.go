package textlocate

import (
	"bookferry/internal/parallel"
	"bookferry/internal/textutil"
)

// locateThorough scans the whole corpus in stepped windows, narrows to a
// sub-corpus around the best window, and walks a descending ladder of
// n-gram lengths inside it. Unlike the quick phase it always produces a
// result, though possibly a poor one.
func locateThorough(query, corpus []rune, opts Options) Result {
	compareQuery := query
	compareCorpus := corpus
	if !opts.CaseSensitive {
		compareQuery = lowerRunes(query)
		compareCorpus = lowerRunes(corpus)
	}
	queryStr := string(compareQuery)

	lq := len(query)
	lc := len(corpus)
	step := lq / 2
	if step < 1 {
		step = 1
	}
	ladderStep := lq / opts.StepFactor
	if ladderStep < 1 {
		ladderStep = 1
	}

	// Coarse scan: query-length windows stepped by half the query length.
	// A corpus shorter than the query is a single whole-corpus window.
	windowLen := lq
	if lc < lq {
		windowLen = lc
	}
	var starts []int
	for i := 0; i+windowLen <= lc; i += step {
		starts = append(starts, i)
	}
	if len(starts) == 0 {
		starts = []int{0}
	}
	windowDists := parallel.Map(opts.Workers, starts, func(start int) float64 {
		return textutil.NormalizedDistance(string(compareCorpus[start:start+windowLen]), queryStr)
	})
	minDist := windowDists[0]
	bestWindow := 0
	for i, d := range windowDists {
		if d < minDist {
			minDist = d
			bestWindow = i
		}
	}
	bestStart := starts[bestWindow]

	coarseFallback := func() Result {
		end := bestStart + windowLen
		match := corpus[bestStart:end]
		return Result{
			Matches:  []string{string(match)},
			Ratio:    matchRatio(string(match), queryStr, opts.CaseSensitive),
			Distance: minDist,
			Strategy: StrategyThorough,
		}
	}

	// Narrow to a sub-corpus centered on the best coarse window.
	left := bestStart - step - 1
	if left < 0 {
		left = 0
	}
	right := bestStart + windowLen - 1 + step + 2
	if right > lc {
		right = lc
	}
	narrowCompare := compareCorpus[left:right]
	narrowOriginal := corpus[left:right]
	narrowLen := len(narrowCompare)
	if narrowLen == 0 {
		return coarseFallback()
	}

	// N-gram length ladder: from the sub-corpus length down to half the
	// query length, decremented by the step-factor resolution. At least
	// one length is always tried.
	var lengths []int
	for l := narrowLen; l >= step; l -= ladderStep {
		if l > 0 {
			lengths = append(lengths, l)
		}
	}
	if len(lengths) == 0 {
		if l := minWindow(lq, narrowLen); l > 0 {
			lengths = append(lengths, l)
		}
	}

	// The coarse minimum seeds the reduction so the thorough phase can
	// only improve on it, never regress.
	var matches []string
	for _, l := range lengths {
		if l > narrowLen {
			continue
		}
		var grams []int
		for i := 0; i+l <= narrowLen; i++ {
			grams = append(grams, i)
		}
		gramDists := parallel.Map(opts.Workers, grams, func(start int) float64 {
			return textutil.NormalizedDistance(string(narrowCompare[start:start+l]), queryStr)
		})
		for i, d := range gramDists {
			switch {
			case d < minDist:
				minDist = d
				matches = []string{string(narrowOriginal[grams[i] : grams[i]+l])}
			case d == minDist:
				matches = append(matches, string(narrowOriginal[grams[i]:grams[i]+l]))
			}
		}
	}

	if len(matches) == 0 {
		return coarseFallback()
	}
	matches = dedupeSorted(matches)

	bestRatio := 0.0
	for _, m := range matches {
		if r := matchRatio(m, queryStr, opts.CaseSensitive); r > bestRatio {
			bestRatio = r
		}
	}
	return Result{
		Matches:  matches,
		Ratio:    bestRatio,
		Distance: minDist,
		Strategy: StrategyThorough,
	}
}

// matchRatio scores an original-case match against the already-normalized
// query, lowering the match first when the search is case-insensitive.
func matchRatio(match, normalizedQuery string, caseSensitive bool) float64 {
	if !caseSensitive {
		match = string(lowerRunes([]rune(match)))
	}
	return textutil.Ratio(match, normalizedQuery)
}

func minWindow(a, b int) int {
	if a < b {
		return a
	}
	return b
}
