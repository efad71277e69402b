package bookmarkmatch

import (
	"fmt"
	"sort"

	"bookferry/internal/textutil"
)

// DefaultDuplicateThreshold is the cosine similarity above which two
// candidate titles are reported as likely duplicates.
const DefaultDuplicateThreshold = 0.92

// DuplicatePair reports two candidates whose titles look like the same
// item saved twice.
type DuplicatePair struct {
	A          Candidate
	B          Candidate
	Similarity float64
}

// Duplicates compares every candidate title pair by term-frequency
// fingerprint and returns the pairs at or above the similarity threshold,
// ordered from most to least similar. A threshold of 0 uses
// DefaultDuplicateThreshold.
func Duplicates(candidates []Candidate, threshold float64) ([]DuplicatePair, error) {
	if threshold == 0 {
		threshold = DefaultDuplicateThreshold
	}
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("bookmarkmatch: duplicate threshold must be in (0, 1], got %v", threshold)
	}

	type entry struct {
		candidate Candidate
		print     *textutil.Fingerprint
	}
	entries := make([]entry, 0, len(candidates))
	for _, c := range candidates {
		title := c.Content.Title
		if title == "" {
			title = c.RecordTitle
		}
		if fp := textutil.NewFingerprint(title); fp != nil {
			entries = append(entries, entry{candidate: c, print: fp})
		}
	}

	var pairs []DuplicatePair
	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			sim := textutil.CosineSimilarity(entries[i].print, entries[j].print)
			if sim >= threshold {
				pairs = append(pairs, DuplicatePair{
					A:          entries[i].candidate,
					B:          entries[j].candidate,
					Similarity: sim,
				})
			}
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].Similarity > pairs[j].Similarity })
	return pairs, nil
}
