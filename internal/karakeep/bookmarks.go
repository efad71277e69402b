package karakeep

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// ListBookmarksOptions filters a bookmark listing.
type ListBookmarksOptions struct {
	Archived *bool
	// Limit is clamped to MaxPageSize; zero requests the maximum.
	Limit          int
	Cursor         string
	IncludeContent bool
}

// ListBookmarks fetches one page of bookmarks. Use the returned
// NextCursor to continue.
func (c *Client) ListBookmarks(ctx context.Context, opts ListBookmarksOptions) (*BookmarkPage, error) {
	limit := opts.Limit
	if limit <= 0 || limit > MaxPageSize {
		limit = MaxPageSize
	}
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("includeContent", strconv.FormatBool(opts.IncludeContent))
	if opts.Archived != nil {
		params.Set("archived", strconv.FormatBool(*opts.Archived))
	}
	if opts.Cursor != "" {
		params.Set("cursor", opts.Cursor)
	}

	var page BookmarkPage
	if err := c.do(ctx, http.MethodGet, "bookmarks", params, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetBookmark fetches a single bookmark by ID.
func (c *Client) GetBookmark(ctx context.Context, id string) (*Bookmark, error) {
	if id == "" {
		return nil, fmt.Errorf("bookmark id required")
	}
	var bookmark Bookmark
	if err := c.do(ctx, http.MethodGet, "bookmarks/"+id, nil, nil, &bookmark); err != nil {
		return nil, err
	}
	return &bookmark, nil
}

// UpdateBookmark applies a partial update and returns the updated record.
func (c *Client) UpdateBookmark(ctx context.Context, id string, patch BookmarkPatch) (*Bookmark, error) {
	if id == "" {
		return nil, fmt.Errorf("bookmark id required")
	}
	var bookmark Bookmark
	if err := c.do(ctx, http.MethodPatch, "bookmarks/"+id, nil, patch, &bookmark); err != nil {
		return nil, err
	}
	return &bookmark, nil
}

type tagRef struct {
	TagID   string `json:"tagId,omitempty"`
	TagName string `json:"tagName,omitempty"`
}

type tagRefs struct {
	Tags []tagRef `json:"tags"`
}

func tagRefsByName(names []string) tagRefs {
	refs := tagRefs{Tags: make([]tagRef, 0, len(names))}
	for _, name := range names {
		refs.Tags = append(refs.Tags, tagRef{TagName: name})
	}
	return refs
}

// AttachTags attaches the named tags to a bookmark, creating tags that
// do not exist yet.
func (c *Client) AttachTags(ctx context.Context, bookmarkID string, names []string) error {
	if len(names) == 0 {
		return nil
	}
	return c.do(ctx, http.MethodPost, "bookmarks/"+bookmarkID+"/tags", nil, tagRefsByName(names), nil)
}

// DetachTags removes the named tags from a bookmark.
func (c *Client) DetachTags(ctx context.Context, bookmarkID string, names []string) error {
	if len(names) == 0 {
		return nil
	}
	return c.do(ctx, http.MethodDelete, "bookmarks/"+bookmarkID+"/tags", nil, tagRefsByName(names), nil)
}
