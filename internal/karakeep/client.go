package karakeep

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultRateInterval is the minimum spacing between API requests.
	DefaultRateInterval = time.Second
	// DefaultRetries is the number of attempts for transport failures.
	DefaultRetries = 3
	// MaxPageSize is the largest page the API accepts without falling
	// over on small instances.
	MaxPageSize = 100
)

// APIError describes a non-2xx response from the Karakeep API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("karakeep api returned %d", e.StatusCode)
	}
	return fmt.Sprintf("karakeep api returned %d: %s", e.StatusCode, e.Message)
}

// AuthenticationError indicates the API key was rejected.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return "karakeep authentication failed: " + e.Message
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Client provides access to a Karakeep instance.
type Client struct {
	baseURL      string
	apiKey       string
	httpClient   *http.Client
	rateInterval time.Duration
	retries      int
	sleep        func(time.Duration)

	mu          sync.Mutex
	lastRequest time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRateInterval overrides the minimum spacing between requests.
// Zero disables rate limiting.
func WithRateInterval(interval time.Duration) Option {
	return func(c *Client) {
		if interval >= 0 {
			c.rateInterval = interval
		}
	}
}

// WithRetries overrides the number of attempts for transport failures.
func WithRetries(retries int) Option {
	return func(c *Client) {
		if retries > 0 {
			c.retries = retries
		}
	}
}

// New creates a Karakeep client.
func New(baseURL, apiKey string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("karakeep base url required")
	}
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("karakeep api key required")
	}
	client := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		apiKey:       apiKey,
		httpClient:   &http.Client{Timeout: 60 * time.Second},
		rateInterval: DefaultRateInterval,
		retries:      DefaultRetries,
		sleep:        time.Sleep,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// waitTurn blocks until the rate interval since the previous request has
// elapsed.
func (c *Client) waitTurn() {
	if c.rateInterval <= 0 {
		return
	}
	c.mu.Lock()
	wait := c.rateInterval - time.Since(c.lastRequest)
	if wait > 0 {
		c.mu.Unlock()
		c.sleep(wait)
		c.mu.Lock()
	}
	c.lastRequest = time.Now()
	c.mu.Unlock()
}

// do executes an API request and decodes the JSON response into out when
// out is non-nil. Transport failures are retried; HTTP error statuses are
// not.
func (c *Client) do(ctx context.Context, method, path string, params url.Values, body any, out any) error {
	endpoint := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var payload []byte
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		payload = encoded
	}

	var resp *http.Response
	for trial := 1; ; trial++ {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		c.waitTurn()
		resp, err = c.httpClient.Do(req)
		if err == nil {
			break
		}
		if trial >= c.retries || ctx.Err() != nil {
			return fmt.Errorf("execute %s %s: %w", method, path, err)
		}
		c.sleep(time.Duration(trial) * 2 * time.Second)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return &AuthenticationError{Message: errorMessage(resp.Body)}
	}
	if resp.StatusCode >= 400 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(resp.Body)}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

// errorMessage extracts the "message" field from an error body, falling
// back to a snippet of the raw text.
func errorMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(data) == 0 {
		return ""
	}
	var decoded struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &decoded); err == nil {
		if decoded.Message != "" {
			return decoded.Message
		}
		if decoded.Error != "" {
			return decoded.Error
		}
	}
	text := strings.TrimSpace(string(data))
	if len(text) > 200 {
		text = text[:200]
	}
	return text
}
