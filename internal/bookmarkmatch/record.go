package bookmarkmatch

import "strings"

// State describes the archival state carried by a foreign export record.
type State int

const (
	StateUnknown State = iota
	StateActive
	StateArchived
)

// ParseState maps an export state label to its State value. Unrecognized
// labels map to StateUnknown.
func ParseState(label string) State {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "active":
		return StateActive
	case "archived":
		return StateArchived
	default:
		return StateUnknown
	}
}

// String returns the export-facing state label.
func (s State) String() string {
	switch s {
	case StateActive:
		return "Active"
	case StateArchived:
		return "Archived"
	default:
		return "Unknown"
	}
}

// SourceRecord is one bookmark from a foreign export, projected to the
// fields matching needs. Records are immutable and consumed once per
// migration pass.
type SourceRecord struct {
	URL             string
	Title           string
	State           State
	ReadingProgress int
	Slug            string
}

// ContentKind discriminates the bookmark content variants the target
// store serves.
type ContentKind int

const (
	ContentLink ContentKind = iota
	ContentText
	ContentAsset
)

// Content is the tagged union over bookmark content variants. Link
// content carries a URL and title; text and asset content carry only the
// source URL they were captured from.
type Content struct {
	Kind      ContentKind
	URL       string
	Title     string
	SourceURL string
}

// MatchURL returns the URL used for identity comparison: the link URL for
// link content, the capture source URL otherwise.
func (c Content) MatchURL() string {
	if c.Kind == ContentLink {
		return c.URL
	}
	return c.SourceURL
}

// Candidate is a target-store bookmark projected to the fields needed for
// matching.
type Candidate struct {
	ID          string
	RecordTitle string
	Archived    bool
	Content     Content
}
