package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func TestStatusRecorder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		serve       func(w http.ResponseWriter)
		wantStatus  int
		wantBytes   int64
		wantStarted bool
	}{
		{
			name:       "untouched response reports 200",
			serve:      func(http.ResponseWriter) {},
			wantStatus: http.StatusOK,
		},
		{
			name:        "explicit status",
			serve:       func(w http.ResponseWriter) { w.WriteHeader(http.StatusAccepted) },
			wantStatus:  http.StatusAccepted,
			wantStarted: true,
		},
		{
			name: "later status ignored",
			serve: func(w http.ResponseWriter) {
				w.WriteHeader(http.StatusCreated)
				w.WriteHeader(http.StatusNotFound)
			},
			wantStatus:  http.StatusCreated,
			wantStarted: true,
		},
		{
			name: "bytes accumulate",
			serve: func(w http.ResponseWriter) {
				_, _ = w.Write([]byte(`{"tasks":[],`))
				_, _ = w.Write([]byte(`"count":0}`))
			},
			wantStatus:  http.StatusOK,
			wantBytes:   22,
			wantStarted: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			sr := record(rec)
			tt.serve(sr)

			assert.Equal(t, tt.wantStatus, sr.status)
			assert.Equal(t, tt.wantBytes, sr.bytes)
			assert.Equal(t, tt.wantStarted, sr.started)
			if tt.wantStarted {
				assert.Equal(t, tt.wantStatus, rec.Code)
			}
		})
	}
}

func TestRecord_ReusesOuterRecorder(t *testing.T) {
	t.Parallel()

	outer := record(httptest.NewRecorder())
	assert.Same(t, outer, record(outer))

	inner := record(outer)
	inner.WriteHeader(http.StatusTeapot)
	assert.Equal(t, http.StatusTeapot, outer.status)
}

func TestStatusRecorder_Unwrap(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	assert.Same(t, http.ResponseWriter(rec), record(rec).Unwrap())
}

func TestCompletionLevel(t *testing.T) {
	t.Parallel()

	for status, want := range map[int]slog.Level{
		http.StatusOK:                  slog.LevelInfo,
		http.StatusNoContent:           slog.LevelInfo,
		http.StatusFound:               slog.LevelInfo,
		http.StatusNotFound:            slog.LevelWarn,
		http.StatusConflict:            slog.LevelWarn,
		http.StatusBadGateway:          slog.LevelError,
		http.StatusInternalServerError: slog.LevelError,
	} {
		assert.Equal(t, want, completionLevel(status), "status %d", status)
	}
}

func TestRoutePattern(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/api/v1/tasks/t1", http.NoBody)
	assert.Equal(t, "/api/v1/tasks/t1", routePattern(r), "falls back to the path outside chi")

	rctx := chi.NewRouteContext()
	rctx.RoutePatterns = []string{"/api/v1/tasks/{id}"}
	r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	assert.Equal(t, "/api/v1/tasks/{id}", routePattern(r))
}
