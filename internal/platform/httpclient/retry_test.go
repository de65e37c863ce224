package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clictest/clictest/internal/platform/config"
)

func TestNewRetryPolicy(t *testing.T) {
	t.Parallel()

	p := newRetryPolicy(config.RetryConfig{MaxAttempts: 0, InitialInterval: time.Second, MaxInterval: 4 * time.Second, Multiplier: 3})
	assert.Equal(t, uint(1), p.attempts, "at least one attempt")
	assert.Equal(t, time.Second, p.initial)
	assert.Equal(t, 4*time.Second, p.maxDelay)
	assert.InDelta(t, 3.0, p.multiplier, 0)
}

func TestRetryPolicy_BackOffGrowsWithJitterAndCap(t *testing.T) {
	t.Parallel()

	p := retryPolicy{attempts: 5, initial: 100 * time.Millisecond, maxDelay: 300 * time.Millisecond, multiplier: 2}

	within := func(d, base time.Duration) bool {
		lo := time.Duration(float64(base) * (1 - jitter))
		hi := time.Duration(float64(base)*(1+jitter)) + time.Nanosecond
		return d >= lo && d <= hi
	}

	for range 200 {
		b := p.backOff()
		for i, base := range []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 300 * time.Millisecond, 300 * time.Millisecond} {
			d := b.NextBackOff()
			require.Truef(t, within(d, base), "interval %d = %v, want %v ±%.0f%%", i+1, d, base, jitter*100)
		}
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

var _ net.Error = timeoutErr{}

func TestRetryable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"canceled", context.Canceled, false},
		{"wrapped deadline", fmt.Errorf("get: %w", context.DeadlineExceeded), false},
		{"net timeout", timeoutErr{}, true},
		{"dial refused", &net.OpError{Op: "dial", Err: errors.New("connection refused")}, true},
		{"unknown", errors.New("unexpected EOF"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, retryable(tt.err))
		})
	}
}

func TestRetryableStatus(t *testing.T) {
	t.Parallel()

	for code, want := range map[int]bool{
		http.StatusOK:                  false,
		http.StatusPartialContent:      false,
		http.StatusMovedPermanently:    false,
		http.StatusForbidden:           false,
		http.StatusNotFound:            false,
		http.StatusTooManyRequests:     true,
		http.StatusInternalServerError: true,
		http.StatusBadGateway:          true,
		http.StatusServiceUnavailable:  true,
		http.StatusGatewayTimeout:      true,
	} {
		assert.Equalf(t, want, retryableStatus(code), "retryableStatus(%d)", code)
	}
}

func TestRetryAfter(t *testing.T) {
	t.Parallel()

	future := time.Now().Add(30 * time.Second).UTC().Format(http.TimeFormat)
	past := time.Now().Add(-time.Hour).UTC().Format(http.TimeFormat)

	tests := []struct {
		name   string
		header string
		lo, hi time.Duration
	}{
		{"absent", "", 0, 0},
		{"seconds", "7", 7 * time.Second, 7 * time.Second},
		{"capped", "86400", maxRetryAfter, maxRetryAfter},
		{"negative", "-5", 0, 0},
		{"http date", future, 28 * time.Second, 30 * time.Second},
		{"date in past", past, 0, 0},
		{"garbage", "soon", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := http.Header{}
			if tt.header != "" {
				h.Set("Retry-After", tt.header)
			}
			got := retryAfter(h)
			assert.GreaterOrEqual(t, got, tt.lo)
			assert.LessOrEqual(t, got, tt.hi)
		})
	}
}

func TestStatusError(t *testing.T) {
	t.Parallel()

	err := &StatusError{Peer: "image-source", StatusCode: http.StatusBadGateway}
	assert.Equal(t, "image-source: HTTP 502", err.Error())
}

func TestClampUint32(t *testing.T) {
	t.Parallel()

	assert.Equal(t, uint32(0), clampUint32(-1))
	assert.Equal(t, uint32(0), clampUint32(0))
	assert.Equal(t, uint32(7), clampUint32(7))
}
