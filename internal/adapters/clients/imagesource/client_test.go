package imagesource

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/clictest/clictest/internal/domain"
	"github.com/clictest/clictest/internal/platform/config"
	"github.com/clictest/clictest/internal/platform/httpclient"
)

// newTestClient creates a Client pointing at baseURL with circuit breaker and
// retry configured for fast test execution.
func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()

	cfg := &config.ClientConfig{
		BaseURL: baseURL,
		Timeout: 5 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     1,
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     10 * time.Millisecond,
			Multiplier:      1,
		},
		CircuitBreaker: config.CircuitBreakerConfig{
			MaxFailures:   5,
			Timeout:       30 * time.Second,
			HalfOpenLimit: 1,
		},
	}
	logger := slog.New(slog.DiscardHandler)

	return New(httpclient.New(cfg, ServiceName+"-test", httpclient.WithLogger(logger)), logger)
}

func TestClient_Fetch(t *testing.T) {
	t.Parallel()

	payload := []byte("qcow2-image-bytes")
	sum := sha256.Sum256(payload)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/images/a.qcow2" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write(payload)
	}))
	defer ts.Close()

	client := newTestClient(t, "")
	info, err := client.Fetch(context.Background(), ts.URL+"/images/a.qcow2")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if info.Size != int64(len(payload)) {
		t.Errorf("Size = %d, want %d", info.Size, len(payload))
	}
	if info.Checksum != hex.EncodeToString(sum[:]) {
		t.Errorf("Checksum = %q, want %q", info.Checksum, hex.EncodeToString(sum[:]))
	}
	if info.ContentType != "application/octet-stream" {
		t.Errorf("ContentType = %q, want application/octet-stream", info.ContentType)
	}
}

func TestClient_FetchResolvesRelativeLocation(t *testing.T) {
	t.Parallel()

	var gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte("x"))
	}))
	defer ts.Close()

	client := newTestClient(t, ts.URL+"/mirror/")
	if _, err := client.Fetch(context.Background(), "b.raw"); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if gotPath != "/mirror/b.raw" {
		t.Errorf("request path = %q, want %q", gotPath, "/mirror/b.raw")
	}
}

func TestClient_FetchRejectsLocation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		baseURL  string
		location string
	}{
		{name: "empty", location: ""},
		{name: "relative without base", location: "a.qcow2"},
		{name: "unsupported scheme", location: "ftp://example.com/a.qcow2"},
		{name: "file scheme", location: "file:///etc/passwd"},
		{name: "unparseable", location: "http://[::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := newTestClient(t, tt.baseURL).Fetch(context.Background(), tt.location)

			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Fetch(%q) error = %v, want *ValidationError", tt.location, err)
			}
			if _, ok := verr.Fields["import_from"]; !ok {
				t.Errorf("Fields = %v, want key import_from", verr.Fields)
			}
		})
	}
}

func TestClient_FetchStatusErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{name: "not found", status: http.StatusNotFound, wantErr: domain.ErrNotFound},
		{name: "forbidden", status: http.StatusForbidden, wantErr: domain.ErrForbidden},
		{name: "server error", status: http.StatusBadGateway, wantErr: domain.ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "text/plain")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("mirror says no"))
			}))
			defer ts.Close()

			_, err := newTestClient(t, "").Fetch(context.Background(), ts.URL+"/a.qcow2")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Fetch() error = %v, want %v", err, tt.wantErr)
			}
			var ferr *FetchError
			if !errors.As(err, &ferr) || ferr.StatusCode != tt.status || ferr.Reason != "mirror says no" {
				t.Errorf("Fetch() error = %#v, want *FetchError with status %d", err, tt.status)
			}
		})
	}
}

func TestClient_FetchConnectionRefused(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	_, err := newTestClient(t, "").Fetch(context.Background(), url+"/a.qcow2")
	if !errors.Is(err, domain.ErrUnavailable) {
		t.Errorf("Fetch() error = %v, want ErrUnavailable", err)
	}
}

func TestClient_HealthCheck(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, "")
	if client.Name() != ServiceName {
		t.Errorf("Name() = %q, want %q", client.Name(), ServiceName)
	}
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() = %v, want nil with closed breaker", err)
	}
}
