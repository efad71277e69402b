package karakeep

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Content type discriminators used by the API.
const (
	ContentTypeLink  = "link"
	ContentTypeText  = "text"
	ContentTypeAsset = "asset"
)

// Content is the tagged union carried by every bookmark. The populated
// fields depend on Type.
type Content struct {
	Type string
	// Link fields.
	URL         string
	Title       string
	HTMLContent string
	// Text fields. SourceURL is shared with asset content.
	Text      string
	SourceURL string
	// Asset fields.
	AssetType string
	AssetID   string
}

type contentJSON struct {
	Type        string `json:"type"`
	URL         string `json:"url,omitempty"`
	Title       string `json:"title,omitempty"`
	HTMLContent string `json:"htmlContent,omitempty"`
	Text        string `json:"text,omitempty"`
	SourceURL   string `json:"sourceUrl,omitempty"`
	AssetType   string `json:"assetType,omitempty"`
	AssetID     string `json:"assetId,omitempty"`
}

// UnmarshalJSON decodes the content union, rejecting unknown type tags.
func (c *Content) UnmarshalJSON(data []byte) error {
	var raw contentJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw.Type {
	case ContentTypeLink, ContentTypeText, ContentTypeAsset, "unknown", "":
	default:
		return fmt.Errorf("unsupported content type %q", raw.Type)
	}
	*c = Content{
		Type:        raw.Type,
		URL:         raw.URL,
		Title:       raw.Title,
		HTMLContent: raw.HTMLContent,
		Text:        raw.Text,
		SourceURL:   raw.SourceURL,
		AssetType:   raw.AssetType,
		AssetID:     raw.AssetID,
	}
	return nil
}

// MarshalJSON encodes the content union with only the fields relevant to
// its type.
func (c Content) MarshalJSON() ([]byte, error) {
	raw := contentJSON{Type: c.Type}
	switch c.Type {
	case ContentTypeLink:
		raw.URL = c.URL
		raw.Title = c.Title
		raw.HTMLContent = c.HTMLContent
	case ContentTypeText:
		raw.Text = c.Text
		raw.SourceURL = c.SourceURL
	case ContentTypeAsset:
		raw.AssetType = c.AssetType
		raw.AssetID = c.AssetID
		raw.SourceURL = c.SourceURL
	}
	return json.Marshal(raw)
}

// BookmarkTag is a tag as attached to a bookmark.
type BookmarkTag struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	AttachedBy string `json:"attachedBy,omitempty"`
}

// Bookmark is a single Karakeep bookmark.
type Bookmark struct {
	ID         string        `json:"id"`
	CreatedAt  string        `json:"createdAt"`
	Title      string        `json:"title,omitempty"`
	Archived   bool          `json:"archived"`
	Favourited bool          `json:"favourited"`
	Note       string        `json:"note,omitempty"`
	Summary    string        `json:"summary,omitempty"`
	Tags       []BookmarkTag `json:"tags,omitempty"`
	Content    Content       `json:"content"`
}

// DisplayTitle returns the bookmark title, falling back to the content
// title for link bookmarks that were never renamed.
func (b Bookmark) DisplayTitle() string {
	if title := strings.TrimSpace(b.Title); title != "" {
		return title
	}
	return strings.TrimSpace(b.Content.Title)
}

// CreatedTime parses the bookmark creation timestamp. The API emits
// RFC 3339 with fractional seconds.
func (b Bookmark) CreatedTime() (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05.000Z"} {
		if ts, err := time.Parse(layout, b.CreatedAt); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse createdAt %q", b.CreatedAt)
}

// HasTag reports whether the bookmark carries the named tag.
func (b Bookmark) HasTag(name string) bool {
	for _, tag := range b.Tags {
		if tag.Name == name {
			return true
		}
	}
	return false
}

// BookmarkPage is one page of a paginated bookmark listing.
type BookmarkPage struct {
	Bookmarks  []Bookmark `json:"bookmarks"`
	NextCursor *string    `json:"nextCursor"`
}

// BookmarkPatch describes a partial bookmark update. Nil fields are left
// untouched.
type BookmarkPatch struct {
	Title    *string `json:"title,omitempty"`
	Archived *bool   `json:"archived,omitempty"`
	Note     *string `json:"note,omitempty"`
	Summary  *string `json:"summary,omitempty"`
}

// TagCounts breaks down tag attachments by origin.
type TagCounts struct {
	AI    int `json:"ai"`
	Human int `json:"human"`
}

// Tag is a tag with its attachment statistics.
type Tag struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	CountByOrigin TagCounts `json:"numBookmarksByAttachedType"`
}

// List is a Karakeep bookmark list.
type List struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
}

// Highlight is a text highlight anchored to a bookmark.
type Highlight struct {
	ID          string `json:"id"`
	BookmarkID  string `json:"bookmarkId"`
	StartOffset int    `json:"startOffset"`
	EndOffset   int    `json:"endOffset"`
	Color       string `json:"color,omitempty"`
	Text        string `json:"text,omitempty"`
	Note        string `json:"note,omitempty"`
}

// HighlightRequest is the payload for creating a highlight.
type HighlightRequest struct {
	BookmarkID  string `json:"bookmarkId"`
	StartOffset int    `json:"startOffset"`
	EndOffset   int    `json:"endOffset"`
	Color       string `json:"color,omitempty"`
	Text        string `json:"text,omitempty"`
	Note        string `json:"note,omitempty"`
}

// UserStats summarizes the authenticated user's data.
type UserStats struct {
	NumBookmarks  int `json:"numBookmarks"`
	NumFavorites  int `json:"numFavorites"`
	NumArchived   int `json:"numArchived"`
	NumTags       int `json:"numTags"`
	NumLists      int `json:"numLists"`
	NumHighlights int `json:"numHighlights"`
}
