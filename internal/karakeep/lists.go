package karakeep

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// ListLists fetches all bookmark lists.
func (c *Client) ListLists(ctx context.Context) ([]List, error) {
	var response struct {
		Lists []List `json:"lists"`
	}
	if err := c.do(ctx, http.MethodGet, "lists", nil, nil, &response); err != nil {
		return nil, err
	}
	return response.Lists, nil
}

// ListBookmarksInList fetches one page of bookmarks from a list.
func (c *Client) ListBookmarksInList(ctx context.Context, listID, cursor string) (*BookmarkPage, error) {
	if listID == "" {
		return nil, fmt.Errorf("list id required")
	}
	params := url.Values{}
	params.Set("limit", strconv.Itoa(MaxPageSize))
	if cursor != "" {
		params.Set("cursor", cursor)
	}
	var page BookmarkPage
	if err := c.do(ctx, http.MethodGet, "lists/"+listID+"/bookmarks", params, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}
