// Package http provides a small HTTP client for fetching thumbnail bytes
// with built-in retry logic and Retry-After handling.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"ytmanifest/retry"
)

// Client wraps an HTTP client with retry logic and rate limit awareness.
type Client struct {
	base   *http.Client
	config *Config
}

// Config holds HTTP client configuration.
type Config struct {
	// Timeout for individual HTTP requests
	Timeout time.Duration

	// Retry configuration
	Retry retry.Config

	// User agent for HTTP requests
	UserAgent string

	// MaxBodyBytes caps how much of a response body is read. 0 means no cap.
	MaxBodyBytes int64
}

// DefaultConfig returns sensible defaults for HTTP client configuration.
func DefaultConfig() *Config {
	return &Config{
		Timeout:      30 * time.Second,
		Retry:        retry.DefaultConfig(),
		UserAgent:    "ytmanifest/1.0",
		MaxBodyBytes: 20 << 20, // thumbnails are small; 20 MiB is generous
	}
}

// New creates a new HTTP client with the given configuration.
func New(cfg *Config) *Client {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	base := &http.Client{
		Timeout: cfg.Timeout,
	}

	return &Client{
		base:   base,
		config: cfg,
	}
}

// Response represents an HTTP response with status code and body.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Get performs a GET request with retry logic.
func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	return c.Do(ctx, http.MethodGet, url, nil)
}

// Do performs an HTTP request with retry logic. Transient failures and
// rate-limit responses are retried with backoff; the Retry-After header,
// when present, is surfaced on the returned RateLimitError.
func (c *Client) Do(ctx context.Context, method, urlStr string, headers map[string]string) (*Response, error) {
	var out *Response

	err := retry.Do(ctx, c.config.Retry, c.isRetryableHTTPError, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, method, urlStr, nil)
		if err != nil {
			return err
		}

		if req.Header.Get("User-Agent") == "" {
			req.Header.Set("User-Agent", c.config.UserAgent)
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := c.base.Do(req)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrRequestFailed, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests ||
			resp.StatusCode == http.StatusServiceUnavailable {
			return &RateLimitError{
				StatusCode: resp.StatusCode,
				RetryAfter: parseRetryAfter(resp.Header),
			}
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			return &HTTPError{
				StatusCode: resp.StatusCode,
				Body:       bodyBytes,
			}
		}

		reader := io.Reader(resp.Body)
		if c.config.MaxBodyBytes > 0 {
			reader = io.LimitReader(resp.Body, c.config.MaxBodyBytes)
		}
		body, err := io.ReadAll(reader)
		if err != nil {
			return fmt.Errorf("read response body: %w", err)
		}

		out = &Response{
			StatusCode: resp.StatusCode,
			Header:     resp.Header,
			Body:       body,
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, ErrNoResponse
	}
	return out, nil
}

// isRetryableHTTPError determines if an HTTP error is retryable.
func (c *Client) isRetryableHTTPError(err error) bool {
	if !retry.IsRetryable(err) {
		return false
	}

	// Rate limit errors are retryable
	if _, ok := err.(*RateLimitError); ok {
		return true
	}

	// HTTP errors are retryable only for 5xx
	if httpErr, ok := err.(*HTTPError); ok {
		return httpErr.StatusCode >= 500
	}

	return true
}

// parseRetryAfter extracts the Retry-After header value.
// Returns the duration to wait, or 0 if not present.
func parseRetryAfter(header http.Header) time.Duration {
	retryAfter := header.Get("Retry-After")
	if retryAfter == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(retryAfter); err == nil {
		return time.Duration(seconds) * time.Second
	}

	if t, err := http.ParseTime(retryAfter); err == nil {
		return time.Until(t)
	}

	return 0
}

// Close closes the HTTP client connections and releases all resources.
func (c *Client) Close() error {
	if c.base != nil {
		c.base.CloseIdleConnections()
	}
	return nil
}
