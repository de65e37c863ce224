package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clictest/clictest/internal/domain/task"
)

var testTime = time.Date(2026, 2, 12, 15, 4, 5, 0, time.UTC)

// withChiParams attaches URL parameters the way the router would.
func withChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func validParams() task.Params {
	return task.Params{
		ID:        "t-1",
		Type:      task.TypeImport,
		Status:    task.StatusPending,
		Owner:     "tenant-a",
		CreatedAt: testTime,
		UpdatedAt: testTime,
		Input:     map[string]any{"import_from": "http://example.com/a.qcow2"},
	}
}

func validTask(t *testing.T) *task.Task {
	t.Helper()
	tk, err := task.NewFactory(time.Hour).Restore(validParams())
	require.NoError(t, err)
	return tk
}

func validStub() task.Stub {
	p := validParams()
	return task.Stub{ID: p.ID, Type: p.Type, Status: p.Status, Owner: p.Owner, CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt}
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(v))
	return &buf
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body = %s", rec.Body.String())
	return out
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	assert.Equal(t, want, rec.Code, "body = %s", rec.Body.String())
}
