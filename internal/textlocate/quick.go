package textlocate

import (
	"math"

	"bookferry/internal/parallel"
	"bookferry/internal/textutil"
)

// maxTokenOccurrences caps the occurrence scan per query word. A word that
// exceeds the cap is too common to anchor a region estimate and is dropped.
const maxTokenOccurrences = 20

// regionPadFactor expands the estimated word region on each side, in
// multiples of the query length.
const regionPadFactor = 1.2

type scorePair struct {
	ratio float64
	dist  float64
}

// locateQuick estimates the corpus region containing the query from word
// occurrences, then refines within it. Returns ok=false when no query word
// anchors a region or the refinement produces no candidates, in which case
// the caller falls through to the thorough phase.
func locateQuick(query, corpus []rune, workers int) (Result, bool) {
	lq := len(query)
	lc := len(corpus)
	queryStr := string(query)

	// Region finding always case-folds; it only locates candidate areas,
	// so the caller's case sensitivity does not apply here.
	lowCorpus := lowerRunes(corpus)

	var occLists [][]int
	for _, token := range textutil.QueryTokens(queryStr) {
		tokenRunes := []rune(token)
		var occ []int
		tooCommon := false
		for from := 0; ; {
			idx := indexRunes(lowCorpus, tokenRunes, from)
			if idx < 0 {
				break
			}
			if len(occ) == maxTokenOccurrences {
				tooCommon = true
				break
			}
			occ = append(occ, idx)
			from = idx + 1
		}
		if tooCommon || len(occ) == 0 {
			continue
		}
		occLists = append(occLists, occ)
	}
	if len(occLists) == 0 {
		return Result{}, false
	}

	// The coarse region spans the mean first and mean last occurrence of
	// the retained words, padded on both sides.
	var sumMin, sumMax int
	for _, occ := range occLists {
		sumMin += occ[0]
		sumMax += occ[len(occ)-1]
	}
	pad := int(regionPadFactor * float64(lq))
	lo := sumMin/len(occLists) - pad
	if lo < 0 {
		lo = 0
	}
	hi := sumMax/len(occLists) + pad
	if hi > lc {
		hi = lc
	}
	end := hi + 1
	if end > lc {
		end = lc
	}
	mini := corpus[lo:end]

	// Partition the mini-corpus into query-length blocks and find the
	// block(s) with the best ratio against the query.
	blocks := partitionBlocks(mini, lq)
	if len(blocks) == 0 {
		return Result{}, false
	}
	blockRatios := parallel.Map(workers, blocks, func(b []rune) float64 {
		return textutil.Ratio(queryStr, string(b))
	})
	maxRatio := math.Inf(-1)
	for _, r := range blockRatios {
		if r > maxRatio {
			maxRatio = r
		}
	}

	bestRatio := math.Inf(-1)
	bestDist := math.Inf(1)
	var bestMatches []string

	for blockIdx, r := range blockRatios {
		if r != maxRatio {
			continue
		}
		area, ok := refinementArea(mini, blocks, blockIdx, lq)
		if !ok {
			continue
		}
		candidates := areaCandidates(area, lq)
		if len(candidates) == 0 {
			continue
		}
		scores := parallel.Map(workers, candidates, func(c []rune) scorePair {
			cs := string(c)
			return scorePair{
				ratio: textutil.Ratio(queryStr, cs),
				dist:  textutil.NormalizedDistance(queryStr, cs),
			}
		})

		areaMaxRatio := math.Inf(-1)
		areaMinDist := math.Inf(1)
		firstBest := -1
		for i, s := range scores {
			if s.ratio > areaMaxRatio {
				areaMaxRatio = s.ratio
				firstBest = i
			}
			if s.dist < areaMinDist {
				areaMinDist = s.dist
			}
		}
		if firstBest < 0 {
			continue
		}

		// A candidate area updates the global best only when it is at
		// least as good on ratio and at least as close on distance; an
		// exact tie on both accumulates rather than replaces.
		if areaMaxRatio >= bestRatio && areaMinDist <= bestDist {
			candidate := string(candidates[firstBest])
			if areaMaxRatio == bestRatio && areaMinDist == bestDist {
				bestMatches = append(bestMatches, candidate)
			} else {
				bestRatio = areaMaxRatio
				bestDist = areaMinDist
				bestMatches = []string{candidate}
			}
		}
	}

	if len(bestMatches) == 0 {
		return Result{}, false
	}
	return Result{
		Matches:  dedupeSorted(bestMatches),
		Ratio:    bestRatio,
		Distance: bestDist,
		Strategy: StrategyQuick,
	}, true
}

// partitionBlocks slices region into contiguous non-overlapping blocks of
// blockLen runes, dropping blocks that are blank after trimming.
func partitionBlocks(region []rune, blockLen int) [][]rune {
	var blocks [][]rune
	for start := 0; start < len(region); start += blockLen {
		end := start + blockLen
		if end > len(region) {
			end = len(region)
		}
		block := region[start:end]
		if isBlank(block) {
			continue
		}
		blocks = append(blocks, block)
	}
	return blocks
}

// refinementArea anchors a window of 3x the query length at the position of
// the given block (concatenated with its left neighbor) inside the
// mini-corpus. Blank filtering during partitioning means block index and
// region offset can disagree, so the anchor is re-located by content.
func refinementArea(mini []rune, blocks [][]rune, blockIdx, lq int) ([]rune, bool) {
	startSlice := blockIdx - 1
	if startSlice < 0 {
		startSlice = 0
	}
	var marker []rune
	for _, b := range blocks[startSlice : blockIdx+1] {
		marker = append(marker, b...)
	}
	anchor := indexRunes(mini, marker, 0)
	if anchor < 0 {
		anchor = indexRunes(mini, blocks[blockIdx], 0)
		if anchor < 0 {
			return nil, false
		}
	}
	end := anchor + 3*lq
	if end > len(mini) {
		end = len(mini)
	}
	area := mini[anchor:end]
	if isBlank(area) {
		return nil, false
	}
	return area, true
}

// areaCandidates generates every query-length substring at one-character
// offsets, plus the shorter trailing suffixes that catch matches running
// past the area boundary.
func areaCandidates(area []rune, lq int) [][]rune {
	var candidates [][]rune
	for i := 0; i+lq <= len(area); i++ {
		candidates = append(candidates, area[i:i+lq])
	}
	for k := 1; k < lq; k++ {
		start := len(area) - lq + k
		if start >= 0 && start < len(area) {
			candidates = append(candidates, area[start:])
		}
	}
	return candidates
}
