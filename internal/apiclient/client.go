// Package apiclient is the single HTTP client of the library backend. Every
// call is one attempt: the response envelope is normalized into a decoded
// value or a *RequestError, and nothing is retried.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/librarydb/library-web/internal/ratelimit"
)

const (
	defaultTimeout = 10 * time.Second
	defaultRPS     = 20.0
	defaultBurst   = 40

	// Error bodies past this size are not worth parsing.
	maxErrorBody = 64 << 10

	userAgent = "library-web/1.0"
)

// Config describes how to reach the backend.
type Config struct {
	BaseURL string
	Timeout time.Duration
	RPS     float64
	Burst   int
}

// Client is a rate-limited client of the library backend API.
type Client struct {
	baseURL string
	host    string
	http    *http.Client
	limiter *ratelimit.KeyedRateLimiter
	logger  *slog.Logger
}

// New creates a new backend client.
func New(cfg Config, logger *slog.Logger) (*Client, error) {
	base := strings.TrimSuffix(cfg.BaseURL, "/")
	u, err := url.Parse(base)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid backend url %q", cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	rps, burst := cfg.RPS, cfg.Burst
	if rps <= 0 {
		rps = defaultRPS
	}
	if burst <= 0 {
		burst = defaultBurst
	}

	return &Client{
		baseURL: base,
		host:    u.Host,
		http: &http.Client{
			Timeout: timeout,
		},
		limiter: ratelimit.New(rps, burst),
		logger:  logger,
	}, nil
}

// Close releases resources held by the client.
func (c *Client) Close() {
	c.limiter.Stop()
}

// BaseURL returns the backend base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Request issues one call to the backend. A non-nil body is sent as JSON.
// On a 2xx response the body is decoded into out (when out is non-nil);
// any other status fails with *RequestError.
func (c *Client) Request(ctx context.Context, method, path string, body, out any) error {
	if err := c.limiter.Wait(ctx, c.host); err != nil {
		return transportError(fmt.Errorf("rate limit wait: %w", err))
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		req.Header.Set(middleware.RequestIDHeader, reqID)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "backend request failed",
			"method", method,
			"path", path,
			"error", err,
		)
		return transportError(err)
	}
	defer resp.Body.Close()

	c.logger.DebugContext(ctx, "backend request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseRequestError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return nil
}

// errorEnvelope is the failure body of the backend. Some routes report
// failures under "message", so it is read when "error" is empty.
type errorEnvelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func parseRequestError(resp *http.Response) *RequestError {
	reqErr := &RequestError{Status: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return reqErr
	}

	var env errorEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return reqErr
	}
	reqErr.Message = strings.TrimSpace(env.Error)
	if reqErr.Message == "" {
		reqErr.Message = strings.TrimSpace(env.Message)
	}
	return reqErr
}
