// Package directions resolves free-text start and end locations into a
// decoded route with human-readable distance and travel time.
package directions

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/NERVsystems/routemcp/pkg/metrics"
	"github.com/NERVsystems/routemcp/pkg/version"
)

// DefaultUserAgent is sent with every request; Nominatim's usage policy
// requires an identifying agent.
var DefaultUserAgent = version.UserAgent()

// maxErrorBody bounds how much of a failed response is kept for messages.
const maxErrorBody = 512

// Client performs rate-limited JSON GETs against the external services.
type Client struct {
	http      *http.Client
	limiter   *RateLimiter
	userAgent string
	logger    *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the pooled HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// WithRateLimiter replaces the default per-service limiter.
func WithRateLimiter(rl *RateLimiter) ClientOption {
	return func(c *Client) { c.limiter = rl }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithLogger sets the logger for the client
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) { c.logger = logger }
}

// NewHTTPClient returns an HTTP client with connection pooling.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
		Timeout: timeout,
	}
}

// NewClient creates a client with pooled connections, default limits and
// the default User-Agent.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		http:      NewHTTPClient(30 * time.Second),
		limiter:   NewRateLimiter(DefaultLimits()),
		userAgent: DefaultUserAgent,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetJSON waits for the service's rate limit, performs a GET and decodes
// a 200 response into out.
func (c *Client) GetJSON(ctx context.Context, service, displayName, reqURL string, out any) error {
	if err := c.limiter.Wait(ctx, service); err != nil {
		return fmt.Errorf("%w: waiting for %s rate limit: %w", ErrNetwork, service, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("create %s request: %w", service, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("failed to execute request", "service", service, "error", err)
		return fmt.Errorf("%w: %s: %w", ErrNetwork, displayName, err)
	}
	defer resp.Body.Close()

	metrics.UpstreamRequests.WithLabelValues(service, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Error("service returned error", "service", service, "status", resp.StatusCode)
		msg := http.StatusText(resp.StatusCode)
		if len(body) > 0 {
			msg = string(body)
		}
		return NewAPIError(displayName, resp.StatusCode, msg, "")
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.Error("failed to decode response", "service", service, "error", err)
		return fmt.Errorf("%w: %s: %w", ErrBadResponse, displayName, err)
	}
	return nil
}
