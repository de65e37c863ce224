package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/clictest/clictest/internal/adapters/http/middleware"
	"github.com/clictest/clictest/internal/platform/telemetry"
)

// Tracing tests install a global TracerProvider and must not run in parallel.

// traceOne serves req through h and returns the single span it produced.
func traceOne(t *testing.T, h http.Handler, req *http.Request) tracetest.SpanStub {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { _ = tp.Shutdown(t.Context()) })

	h.ServeHTTP(httptest.NewRecorder(), req)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	return spans[0]
}

func attrsOf(span tracetest.SpanStub) map[string]any {
	out := make(map[string]any, len(span.Attributes))
	for _, a := range span.Attributes {
		out[string(a.Key)] = a.Value.AsInterface()
	}
	return out
}

func replying(status int) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(status) }
}

func TestOpenTelemetry_Span(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		target     string
		status     int
		wantName   string
		wantStatus codes.Code
	}{
		{"unrouted list", http.MethodGet, "/api/v1/tasks", http.StatusOK, "HTTP GET /api/v1/tasks", codes.Unset},
		{"client error", http.MethodPost, "/api/v1/tasks/42", http.StatusNotFound, "HTTP POST /api/v1/tasks/42", codes.Unset},
		{"server error", http.MethodGet, "/api/v1/tasks/boom", http.StatusInternalServerError, "HTTP GET /api/v1/tasks/boom", codes.Error},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, http.NoBody)
			span := traceOne(t, middleware.OpenTelemetry(nil)(replying(tt.status)), req)

			assert.Equal(t, tt.wantName, span.Name)
			assert.Equal(t, tt.wantStatus, span.Status.Code)
			attrs := attrsOf(span)
			assert.Equal(t, tt.method, attrs["http.method"])
			assert.Equal(t, int64(tt.status), attrs["http.status_code"])
		})
	}
}

func TestOpenTelemetry_ContinuesIncomingTrace(t *testing.T) {
	const traceID = "4bf92f3577b34da6a3ce929d0e0e4736"

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", http.NoBody)
	req.Header.Set("traceparent", "00-"+traceID+"-00f067aa0ba902b7-01")

	span := traceOne(t, middleware.OpenTelemetry(nil)(replying(http.StatusOK)), req)

	assert.Equal(t, traceID, span.SpanContext.TraceID().String())
	assert.True(t, span.Parent.IsRemote())
}

func TestOpenTelemetry_NamesSpanAfterRoute(t *testing.T) {
	r := chi.NewRouter()
	r.Use(middleware.Tenant(), middleware.OpenTelemetry(nil))
	r.Get("/api/v1/tasks/{id}", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("task"))
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks/abc-123", http.NoBody)
	req.Header.Set("X-Tenant-ID", "tenant-a")
	span := traceOne(t, r, req)

	assert.Equal(t, "HTTP GET /api/v1/tasks/{id}", span.Name)
	attrs := attrsOf(span)
	assert.Equal(t, "/api/v1/tasks/{id}", attrs["http.route"])
	assert.Equal(t, "tenant-a", attrs["tenant.id"])
	assert.Equal(t, int64(4), attrs["http.response.body.size"])
}

func TestOpenTelemetry_NilMetrics(t *testing.T) {
	t.Parallel()

	rec := serveTasks(middleware.OpenTelemetry(nil)(replying(http.StatusOK)))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOpenTelemetry_RecordsServerMetrics(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	metrics, err := telemetry.NewMetrics(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)), "middleware-test")
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(middleware.OpenTelemetry(metrics))
	r.Delete("/api/v1/tasks/{id}", replying(http.StatusNotFound))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/api/v1/tasks/t1", http.NoBody))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(t.Context(), &rm))

	var points []metricdata.DataPoint[int64]
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "http.server.request.total" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "metric data = %T", m.Data)
			points = append(points, sum.DataPoints...)
		}
	}

	require.Len(t, points, 1)
	assert.Equal(t, int64(1), points[0].Value)
	route, _ := points[0].Attributes.Value(telemetry.AttrHTTPRoute)
	result, _ := points[0].Attributes.Value(telemetry.AttrResult)
	assert.Equal(t, "/api/v1/tasks/{id}", route.AsString())
	assert.Equal(t, "error", result.AsString())
}
