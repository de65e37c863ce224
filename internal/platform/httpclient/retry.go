package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/clictest/clictest/internal/platform/config"
	"github.com/clictest/clictest/internal/platform/logging"
)

// jitter is the randomization factor applied to each backoff interval.
const jitter = 0.25

// maxRetryAfter caps how long a peer's Retry-After header can stall a worker.
const maxRetryAfter = time.Minute

// retryPolicy is the subset of config.RetryConfig the retry loop needs.
type retryPolicy struct {
	attempts   uint
	initial    time.Duration
	maxDelay   time.Duration
	multiplier float64
}

func newRetryPolicy(cfg config.RetryConfig) retryPolicy {
	return retryPolicy{
		attempts:   uint(max(cfg.MaxAttempts, 1)),
		initial:    cfg.InitialInterval,
		maxDelay:   cfg.MaxInterval,
		multiplier: cfg.Multiplier,
	}
}

func (p retryPolicy) backOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.initial
	b.MaxInterval = p.maxDelay
	b.Multiplier = p.multiplier
	b.RandomizationFactor = jitter
	return b
}

// StatusError reports a retryable status that survived every attempt.
type StatusError struct {
	Peer       string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: HTTP %d", e.Peer, e.StatusCode)
}

// retry sends req until it gets a non-retryable answer or the policy gives
// up. A retryable status on the final attempt is returned together with its
// response so the caller can read the body.
func (c *Client) retry(ctx context.Context, req *http.Request) (*http.Response, error) {
	if err := rewindable(req); err != nil {
		return nil, err
	}

	var attempt uint
	op := func() (*http.Response, error) {
		attempt++
		if err := rewind(req); err != nil {
			return nil, backoff.Permanent(err)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			if !retryable(err) {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}
		if !retryableStatus(resp.StatusCode) {
			return resp, nil
		}

		statusErr := &StatusError{Peer: c.peer, StatusCode: resp.StatusCode}
		if attempt >= c.policy.attempts {
			return resp, statusErr
		}
		wait := retryAfter(resp.Header)
		discard(resp)
		if secs := int(wait / time.Second); secs > 0 {
			return nil, errors.Join(statusErr, backoff.RetryAfter(secs))
		}
		return nil, statusErr
	}

	resp, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(c.policy.backOff()),
		backoff.WithMaxTries(c.policy.attempts),
		backoff.WithNotify(func(err error, next time.Duration) {
			logging.FromContext(ctx).WarnContext(ctx, "retrying HTTP request",
				slog.String("operation", "httpclient.Do"),
				slog.String("method", req.Method),
				slog.String("url", req.URL.Redacted()),
				slog.String("peer_service", c.peer),
				slog.Uint64("attempt", uint64(attempt)+1),
				slog.Uint64("max_attempts", uint64(c.policy.attempts)),
				slog.Duration("backoff", next),
				slog.Any("error", err),
			)
		}),
	)

	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		err = perm.Unwrap()
	}
	return resp, err
}

// rewindable makes sure req.GetBody can replay the body on every attempt.
func rewindable(req *http.Request) error {
	if req.Body == nil || req.Body == http.NoBody || req.GetBody != nil {
		return nil
	}

	body, err := io.ReadAll(req.Body)
	_ = req.Body.Close()
	if err != nil {
		return fmt.Errorf("reading request body: %w", err)
	}
	req.ContentLength = int64(len(body))
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(body)), nil
	}
	return nil
}

func rewind(req *http.Request) error {
	if req.GetBody == nil {
		return nil
	}
	body, err := req.GetBody()
	if err != nil {
		return fmt.Errorf("rewinding request body: %w", err)
	}
	req.Body = body
	return nil
}

// discard drains resp so the connection can be reused by the next attempt.
func discard(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

// retryable reports whether a transport error is worth another attempt.
// Cancellation and deadlines are final; everything else, network errors
// included, is retried.
func retryable(err error) bool {
	return err != nil &&
		!errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded)
}

// retryableStatus reports whether the peer asked us to come back later.
func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

// retryAfter parses a Retry-After header given in seconds or as an HTTP date.
// It returns zero when the header is absent or unparseable.
func retryAfter(h http.Header) time.Duration {
	v := h.Get("Retry-After")
	if v == "" {
		return 0
	}

	var wait time.Duration
	if secs, err := strconv.Atoi(v); err == nil {
		wait = time.Duration(secs) * time.Second
	} else if at, err := http.ParseTime(v); err == nil {
		wait = time.Until(at)
	}
	return min(max(wait, 0), maxRetryAfter)
}
