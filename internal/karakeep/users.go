package karakeep

import (
	"context"
	"net/http"
)

// UserInfo identifies the authenticated user.
type UserInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CurrentUser fetches the authenticated user's identity. Useful as a
// connectivity and credential check.
func (c *Client) CurrentUser(ctx context.Context) (*UserInfo, error) {
	var info UserInfo
	if err := c.do(ctx, http.MethodGet, "users/me", nil, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// CurrentUserStats fetches aggregate counts for the authenticated user.
func (c *Client) CurrentUserStats(ctx context.Context) (*UserStats, error) {
	var stats UserStats
	if err := c.do(ctx, http.MethodGet, "users/me/stats", nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
