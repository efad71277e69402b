package karakeep

import (
	"context"
	"fmt"
	"net/http"
)

// ListTags fetches all tags with their attachment statistics.
func (c *Client) ListTags(ctx context.Context) ([]Tag, error) {
	var response struct {
		Tags []Tag `json:"tags"`
	}
	if err := c.do(ctx, http.MethodGet, "tags", nil, nil, &response); err != nil {
		return nil, err
	}
	return response.Tags, nil
}

// DeleteTag removes a tag entirely.
func (c *Client) DeleteTag(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("tag id required")
	}
	return c.do(ctx, http.MethodDelete, "tags/"+id, nil, nil, nil)
}
