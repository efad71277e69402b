package bookmarkmatch

import (
	"fmt"
	"strings"

	"bookferry/internal/textutil"
)

// DefaultFuzzyThreshold is the inclusive similarity ratio a fuzzy title
// match must reach to be accepted.
const DefaultFuzzyThreshold = 0.95

// DefaultSelfURLPrefixes lists URL prefixes that denote locally stored
// assets on the export service rather than real source addresses.
var DefaultSelfURLPrefixes = []string{"https://omnivore.app"}

// Confidence ranks how a candidate was matched.
type Confidence int

const (
	// ConfidenceNone marks the no-match decision.
	ConfidenceNone Confidence = iota
	// ConfidenceFuzzyTitle marks a fuzzy title ratio at or above threshold.
	ConfidenceFuzzyTitle
	// ConfidenceExactTitle marks a case-insensitive exact title match.
	ConfidenceExactTitle
	// ConfidenceExactURL marks an authoritative canonical URL match.
	ConfidenceExactURL
)

// String returns a short confidence label for reports and logs.
func (c Confidence) String() string {
	switch c {
	case ConfidenceExactURL:
		return "exact-url"
	case ConfidenceExactTitle:
		return "exact-title"
	case ConfidenceFuzzyTitle:
		return "fuzzy-title"
	default:
		return "no-match"
	}
}

// Decision is the outcome of matching one source record against a
// candidate set. Decisions are computed fresh per call and must not be
// cached: candidate sets mutate as records are processed.
type Decision struct {
	Candidate  *Candidate
	Confidence Confidence
	// Ratio carries the fuzzy title similarity when Confidence is
	// ConfidenceFuzzyTitle; it is 1.0 for exact matches and 0 otherwise.
	Ratio float64
}

// Matched reports whether the decision selected a candidate.
func (d Decision) Matched() bool {
	return d.Confidence != ConfidenceNone && d.Candidate != nil
}

// Matcher pairs foreign export records with target-store candidates.
type Matcher struct {
	threshold       float64
	selfURLPrefixes []string
}

// NewMatcher builds a matcher. A threshold of 0 uses
// DefaultFuzzyThreshold; out-of-range thresholds fail fast.
func NewMatcher(threshold float64, selfURLPrefixes []string) (*Matcher, error) {
	if threshold == 0 {
		threshold = DefaultFuzzyThreshold
	}
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("bookmarkmatch: fuzzy threshold must be in (0, 1], got %v", threshold)
	}
	if selfURLPrefixes == nil {
		selfURLPrefixes = DefaultSelfURLPrefixes
	}
	return &Matcher{threshold: threshold, selfURLPrefixes: selfURLPrefixes}, nil
}

// Match scans every candidate and returns the best decision. URL equality
// stops the scan because it is authoritative; title tiers keep scanning
// since a later candidate could still win on URL.
func (m *Matcher) Match(source SourceRecord, candidates []Candidate) Decision {
	sourceURL := strings.TrimSpace(source.URL)
	sourceTitle := strings.TrimSpace(source.Title)
	foldedTitle := textutil.Fold(sourceTitle)

	best := Decision{}
	for i := range candidates {
		candidate := &candidates[i]

		if sourceURL != "" {
			if url := m.canonicalURL(candidate.Content.MatchURL()); url != "" && url == sourceURL {
				return Decision{Candidate: candidate, Confidence: ConfidenceExactURL, Ratio: 1}
			}
		}
		if sourceTitle == "" {
			continue
		}

		for _, title := range candidateTitles(candidate) {
			if textutil.Fold(title) == foldedTitle {
				if best.Confidence < ConfidenceExactTitle {
					best = Decision{Candidate: candidate, Confidence: ConfidenceExactTitle, Ratio: 1}
				}
				continue
			}
			ratio := textutil.Ratio(strings.ToLower(sourceTitle), strings.ToLower(title))
			if best.Confidence < ConfidenceFuzzyTitle ||
				(best.Confidence == ConfidenceFuzzyTitle && ratio > best.Ratio) {
				best = Decision{Candidate: candidate, Confidence: ConfidenceFuzzyTitle, Ratio: ratio}
			}
		}
	}

	if best.Confidence == ConfidenceFuzzyTitle && best.Ratio < m.threshold {
		return Decision{}
	}
	return best
}

// canonicalURL treats candidate URLs under a self-referential export
// prefix as absent: they denote locally stored assets without a real
// source URL.
func (m *Matcher) canonicalURL(url string) string {
	url = strings.TrimSpace(url)
	if url == "" {
		return ""
	}
	for _, prefix := range m.selfURLPrefixes {
		if strings.HasPrefix(url, prefix) {
			return ""
		}
	}
	return url
}

func candidateTitles(candidate *Candidate) []string {
	titles := make([]string, 0, 2)
	if t := strings.TrimSpace(candidate.Content.Title); t != "" {
		titles = append(titles, t)
	}
	if t := strings.TrimSpace(candidate.RecordTitle); t != "" {
		titles = append(titles, t)
	}
	return titles
}
