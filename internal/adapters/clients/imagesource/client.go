// Package imagesource implements ports.ImageSource over the instrumented
// httpclient. Import tasks name an http(s) location; the client streams the
// body once, recording its size and SHA-256 without buffering it.
package imagesource

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/clictest/clictest/internal/domain"
	"github.com/clictest/clictest/internal/platform/httpclient"
	"github.com/clictest/clictest/internal/ports"
)

// ServiceName identifies the image source in traces, metrics and health
// checks.
const ServiceName = "image-source"

// Compile-time interface checks.
var (
	_ ports.ImageSource   = (*Client)(nil)
	_ ports.HealthChecker = (*Client)(nil)
)

// Client is the outbound adapter that reads image data for import tasks.
//
// The underlying [httpclient.Client] provides circuit breaking, retry with
// exponential backoff, rate limiting and OpenTelemetry tracing for every
// fetch. Non-2xx responses become a [*FetchError].
type Client struct {
	http   *httpclient.Client
	logger *slog.Logger
}

// New creates a Client. Relative locations are resolved against the
// httpclient's base URL when one is configured.
func New(client *httpclient.Client, logger *slog.Logger) *Client {
	return &Client{http: client, logger: logger}
}

// Fetch downloads the image at location and returns its content type, size
// and checksum. Returns domain.ErrValidation for locations that are not
// http(s) URLs.
func (c *Client) Fetch(ctx context.Context, location string) (*ports.ImageInfo, error) {
	target, err := c.resolve(location)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating GET request for %s: %w", target, err)
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		// Retries exhausted on a retryable status still carry the response.
		if resp != nil {
			defer c.closeBody(ctx, resp)
			return nil, newFetchError(target, resp)
		}
		c.logger.ErrorContext(ctx, "image fetch failed",
			slog.String("location", target),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("fetching %s: %w: %w", target, domain.ErrUnavailable, err)
	}
	defer c.closeBody(ctx, resp)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.logger.ErrorContext(ctx, "unexpected status",
			slog.String("location", target),
			slog.Int("status", resp.StatusCode),
		)
		return nil, newFetchError(target, resp)
	}

	h := sha256.New()
	size, err := io.Copy(h, resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w: %w", target, domain.ErrUnavailable, err)
	}

	return &ports.ImageInfo{
		ContentType: resp.Header.Get("Content-Type"),
		Size:        size,
		Checksum:    hex.EncodeToString(h.Sum(nil)),
	}, nil
}

// Name returns the identifier used when this component is registered with a
// health registry.
func (c *Client) Name() string {
	return ServiceName
}

// HealthCheck reports the image source's availability from the circuit
// breaker state. No network call is made.
func (c *Client) HealthCheck(ctx context.Context) error {
	return c.http.HealthCheck(ctx)
}

func (c *Client) resolve(location string) (string, error) {
	if location == "" {
		return "", &domain.ValidationError{Fields: map[string]string{"import_from": domain.MsgRequired}}
	}

	u, err := url.Parse(location)
	if err != nil {
		return "", &domain.ValidationError{Fields: map[string]string{"import_from": "is not a valid URL"}}
	}

	if !u.IsAbs() {
		base, err := url.Parse(c.http.BaseURL())
		if err != nil || c.http.BaseURL() == "" {
			return "", &domain.ValidationError{Fields: map[string]string{"import_from": "must be an absolute URL"}}
		}
		u = base.ResolveReference(u)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return "", &domain.ValidationError{Fields: map[string]string{"import_from": "scheme must be http or https"}}
	}
	return u.String(), nil
}

// closeBody closes an HTTP response body and logs on failure.
func (c *Client) closeBody(ctx context.Context, resp *http.Response) {
	if err := resp.Body.Close(); err != nil {
		c.logger.WarnContext(ctx, "failed to close response body",
			slog.String("error", err.Error()),
		)
	}
}
