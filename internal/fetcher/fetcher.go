package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Client performs GET requests against the upstream map and data servers.
type Client struct {
	httpClient *http.Client
	userAgent  string
	retries    uint64
}

type Option func(*Client)

// WithRetries allows n additional attempts after the first one fails with a
// transport error or a 5xx status. The default is a single attempt.
func WithRetries(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.retries = uint64(n)
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func New(userAgent string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StatusError is returned for non-200 responses.
type StatusError struct {
	URL     string
	Code    int
	Snippet string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned HTTP %d: %s", e.URL, e.Code, e.Snippet)
}

// Get fetches url and returns the response body.
func (c *Client) Get(ctx context.Context, url, accept string) ([]byte, error) {
	var b backoff.BackOff = backoff.NewExponentialBackOff()
	b = backoff.WithContext(backoff.WithMaxRetries(b, c.retries), ctx)

	return backoff.RetryWithData(func() ([]byte, error) {
		return c.get(ctx, url, accept)
	}, b)
}

func (c *Client) get(ctx context.Context, url, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP GET failed: %w", err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("read body failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		snip := body
		if len(snip) > 200 {
			snip = snip[:200]
		}
		serr := &StatusError{URL: url, Code: resp.StatusCode, Snippet: string(snip)}
		if resp.StatusCode < 500 {
			return nil, backoff.Permanent(serr)
		}
		return nil, serr
	}

	return body, nil
}
