package middleware

import (
	"context"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/clictest/clictest/internal/platform/telemetry"
)

const instrumentationScope = "github.com/clictest/clictest/internal/adapters/http/middleware"

// OpenTelemetry returns middleware that traces each request as a server span
// and records the server request metrics. Incoming W3C trace context is
// continued. The span starts as "HTTP <method>" and is renamed to the matched
// route template afterwards, so every task ID shares one span name. Metrics
// are skipped when metrics is nil.
func OpenTelemetry(metrics *telemetry.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx, span := startServerSpan(r)
			defer span.End()

			rec := record(w)
			next.ServeHTTP(rec, r.WithContext(ctx))

			route := routePattern(r)
			endServerSpan(span, r.Method, route, rec)
			recordRequest(ctx, metrics, requestOutcome{
				method:  r.Method,
				route:   route,
				status:  rec.status,
				elapsed: time.Since(start),
			})
		})
	}
}

func startServerSpan(r *http.Request) (context.Context, trace.Span) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	attrs := []attribute.KeyValue{
		telemetry.AttrHTTPMethod.String(r.Method),
		attribute.String("http.url", r.URL.String()),
	}
	if tenant := TenantIDFromContext(ctx); tenant != "" {
		attrs = append(attrs, attribute.String("tenant.id", tenant))
	}

	return otel.Tracer(instrumentationScope).Start(ctx, "HTTP "+r.Method,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(attrs...),
	)
}

func endServerSpan(span trace.Span, method, route string, rec *statusRecorder) {
	span.SetName("HTTP " + method + " " + route)
	span.SetAttributes(
		telemetry.AttrHTTPRoute.String(route),
		attribute.Int("http.status_code", rec.status),
		attribute.Int64("http.response.body.size", rec.bytes),
	)
	if rec.status >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, http.StatusText(rec.status))
	}
}

type requestOutcome struct {
	method  string
	route   string
	status  int
	elapsed time.Duration
}

// result buckets the status for the result metric attribute.
func (o requestOutcome) result() string {
	if o.status >= http.StatusBadRequest {
		return "error"
	}
	return "success"
}

func recordRequest(ctx context.Context, metrics *telemetry.Metrics, o requestOutcome) {
	if metrics == nil {
		return
	}

	attrs := metric.WithAttributes(
		telemetry.AttrHTTPMethod.String(o.method),
		telemetry.AttrHTTPRoute.String(o.route),
		telemetry.AttrHTTPStatus.Int(o.status),
		telemetry.AttrResult.String(o.result()),
	)
	metrics.ServerRequestDuration.Record(ctx, o.elapsed.Seconds(), attrs)
	metrics.ServerRequestTotal.Add(ctx, 1, attrs)
}
