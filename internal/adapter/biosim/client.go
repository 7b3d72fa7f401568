package biosim

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/couchcryptid/biosim-climate-client/internal/domain"
	"github.com/couchcryptid/biosim-climate-client/internal/observability"
	"github.com/sony/gobreaker"
)

// maxLineSize bounds a single reply line; model outputs for large batches
// can exceed bufio's 64 KiB default.
const maxLineSize = 16 << 20

// BreakerSettings configures the optional circuit breaker on the primary endpoint.
type BreakerSettings struct {
	Failures uint32        // consecutive failures that open the breaker
	Timeout  time.Duration // how long the breaker stays open before probing
}

// Client implements domain.Fetcher against the BioSIM web API with a single
// primary-to-secondary failover hop.
type Client struct {
	primaryURL   string
	secondaryURL string
	httpClient   *http.Client
	breaker      *gobreaker.CircuitBreaker
	metrics      *observability.Metrics
	logger       *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBreaker guards the primary endpoint with a circuit breaker. While the
// breaker is open, requests go straight to the secondary endpoint.
func WithBreaker(s BreakerSettings) Option {
	return func(c *Client) {
		c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "biosim-primary",
			MaxRequests: 1,
			Timeout:     s.Timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= s.Failures
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				c.logger.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
			},
		})
	}
}

// NewClient creates a BioSIM transport. A zero timeout leaves requests unbounded.
func NewClient(primaryURL, secondaryURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		primaryURL:   ensureSlash(primaryURL),
		secondaryURL: ensureSlash(secondaryURL),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger.With("component", "biosim-transport"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch issues GET <base><api>[?query] against the primary endpoint and,
// if that fails, once against the secondary.
func (c *Client) Fetch(ctx context.Context, api, query string) (string, error) {
	start := time.Now()
	defer func() {
		c.metrics.RequestDuration.WithLabelValues(api).Observe(time.Since(start).Seconds())
	}()

	body, err := c.fetchPrimary(ctx, api, query)
	if err == nil {
		c.metrics.Requests.WithLabelValues(api, "primary", "success").Inc()
		return body, nil
	}
	c.metrics.Requests.WithLabelValues(api, "primary", "error").Inc()
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	c.metrics.Failovers.WithLabelValues(api).Inc()
	c.logger.Warn("primary endpoint failed, trying secondary", "api", api, "error", err)

	body, err = c.get(ctx, c.secondaryURL, api, query, acceptSecondary)
	if err != nil {
		c.metrics.Requests.WithLabelValues(api, "secondary", "error").Inc()
		c.logger.Error("secondary endpoint failed", "api", api, "error", err)
		return "", fmt.Errorf("%w: %v", domain.ErrConnectivity, err)
	}
	c.metrics.Requests.WithLabelValues(api, "secondary", "success").Inc()
	return body, nil
}

func (c *Client) fetchPrimary(ctx context.Context, api, query string) (string, error) {
	if c.breaker == nil {
		return c.get(ctx, c.primaryURL, api, query, acceptPrimary)
	}
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.get(ctx, c.primaryURL, api, query, acceptPrimary)
	})
	if err != nil {
		return "", err
	}
	body, ok := result.(string)
	if !ok {
		return "", errors.New("unexpected result type from circuit breaker")
	}
	return body, nil
}

// The primary accepts 200 OK through 202 Accepted; the secondary only 200.
func acceptPrimary(status int) bool   { return status >= http.StatusOK && status <= http.StatusAccepted }
func acceptSecondary(status int) bool { return status == http.StatusOK }

func (c *Client) get(ctx context.Context, baseURL, api, query string, accept func(int) bool) (string, error) {
	fullURL := baseURL + api
	if query != "" {
		fullURL += "?" + query
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s request: %w", api, err)
	}
	defer resp.Body.Close()

	if !accept(resp.StatusCode) {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("%s: unexpected status %d from %s", api, resp.StatusCode, baseURL)
	}

	body, err := readLines(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read %s reply: %w", api, err)
	}
	return body, nil
}

// readLines returns the body's lines joined by "\n" without a trailing newline.
func readLines(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var b strings.Builder
	first := true
	for scanner.Scan() {
		if !first {
			b.WriteByte('\n')
		}
		b.WriteString(scanner.Text())
		first = false
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return b.String(), nil
}

func ensureSlash(u string) string {
	if strings.HasSuffix(u, "/") {
		return u
	}
	return u + "/"
}
