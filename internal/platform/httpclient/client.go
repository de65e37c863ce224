// Package httpclient is the outbound HTTP stack that import tasks fetch
// their sources through. Each call to Client.Do passes through, in order:
//
//	circuit breaker → rate limiter → header propagation → client span → retry → transport
//
// Construction:
//
//	client := httpclient.New(&cfg.Client, "image-source",
//		httpclient.WithMetrics(metrics),
//		httpclient.WithLogger(logger),
//	)
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/clictest/clictest/internal/platform/config"
	"github.com/clictest/clictest/internal/platform/telemetry"
)

// Client is safe for concurrent use by the worker pool.
type Client struct {
	http    *http.Client
	baseURL string
	peer    string
	breaker *gobreaker.CircuitBreaker[*http.Response]
	limiter *rate.Limiter
	policy  retryPolicy
	metrics *telemetry.Metrics
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithMetrics records client request metrics. Without it none are recorded.
func WithMetrics(metrics *telemetry.Metrics) Option {
	return func(c *Client) {
		c.metrics = metrics
	}
}

// WithLogger sets the logger for breaker state changes and retries.
// A nil logger is ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTransport replaces the underlying round tripper.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.http.Transport = rt
	}
}

// New builds a Client for the downstream named peer. The peer name labels
// spans, metrics and the health check.
func New(cfg *config.ClientConfig, peer string, opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.BaseURL,
		peer:    peer,
		policy:  newRetryPolicy(cfg.Retry),
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}

	maxFailures := cfg.CircuitBreaker.MaxFailures
	c.breaker = gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        peer,
		MaxRequests: clampUint32(cfg.CircuitBreaker.HalfOpenLimit),
		Timeout:     cfg.CircuitBreaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return int(counts.ConsecutiveFailures) >= maxFailures
		},
		// A caller giving up says nothing about the peer's health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("circuit breaker state change",
				slog.String("peer_service", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})

	if rps := cfg.RateLimit.RequestsPerSecond; rps > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(rps), max(cfg.RateLimit.BurstSize, 1))
	}
	return c
}

// Do sends req through the client pipeline.
//
// On success resp carries an open body the caller must close. When retries
// are exhausted on a retryable status both resp and err are non-nil so the
// caller can inspect the final response; it must still close the body. A
// rejected breaker, a rate limiter wait cut short, or a transport failure
// returns a nil resp.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	cl := c.newCall(req)

	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("%s: rate limit wait: %w", c.peer, err)
			}
		}

		ctx, span := cl.trace(ctx)
		defer span.End()

		out := propagate(ctx, req.Clone(ctx))
		resp, err := c.retry(ctx, out)
		endSpan(span, resp, err)
		return resp, err
	})

	cl.measure(ctx, c.metrics, resp, err)
	return resp, err
}

// BaseURL returns the configured base URL, possibly empty.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Name returns the peer name. With HealthCheck it satisfies
// ports.HealthChecker.
func (c *Client) Name() string {
	return c.peer
}

// HealthCheck maps the breaker state to a health result without touching the
// network: closed is healthy, half-open is degraded, open is failing.
func (c *Client) HealthCheck(context.Context) error {
	switch state := c.breaker.State(); state {
	case gobreaker.StateClosed:
		return nil
	case gobreaker.StateHalfOpen:
		return fmt.Errorf("%s: degraded (circuit breaker half-open)", c.peer)
	case gobreaker.StateOpen:
		return fmt.Errorf("%s: failing (circuit breaker open)", c.peer)
	default:
		return fmt.Errorf("%s: unknown circuit breaker state %v", c.peer, state)
	}
}

func clampUint32(v int) uint32 {
	switch {
	case v <= 0:
		return 0
	case v > math.MaxUint32:
		return math.MaxUint32
	default:
		return uint32(v)
	}
}
