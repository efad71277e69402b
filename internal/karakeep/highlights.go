package karakeep

import (
	"context"
	"fmt"
	"net/http"
)

// CreateHighlight creates a highlight on a bookmark.
func (c *Client) CreateHighlight(ctx context.Context, req HighlightRequest) (*Highlight, error) {
	if req.BookmarkID == "" {
		return nil, fmt.Errorf("bookmark id required")
	}
	if req.EndOffset < req.StartOffset {
		return nil, fmt.Errorf("highlight end offset %d before start offset %d", req.EndOffset, req.StartOffset)
	}
	var highlight Highlight
	if err := c.do(ctx, http.MethodPost, "highlights", nil, req, &highlight); err != nil {
		return nil, err
	}
	return &highlight, nil
}

// ListHighlights fetches the highlights attached to a bookmark.
func (c *Client) ListHighlights(ctx context.Context, bookmarkID string) ([]Highlight, error) {
	if bookmarkID == "" {
		return nil, fmt.Errorf("bookmark id required")
	}
	var response struct {
		Highlights []Highlight `json:"highlights"`
	}
	if err := c.do(ctx, http.MethodGet, "bookmarks/"+bookmarkID+"/highlights", nil, nil, &response); err != nil {
		return nil, err
	}
	return response.Highlights, nil
}
