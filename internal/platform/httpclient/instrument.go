package httpclient

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/clictest/clictest/internal/platform/telemetry"
)

const instrumentationScope = "github.com/clictest/clictest/internal/platform/httpclient"

// call tracks one Client.Do invocation for spans and metrics.
type call struct {
	peer   string
	method string
	url    string
	start  time.Time
}

func (c *Client) newCall(req *http.Request) call {
	return call{
		peer:   c.peer,
		method: req.Method,
		url:    req.URL.Redacted(),
		start:  time.Now(),
	}
}

// trace opens the client span, named after the peer rather than the URL so
// every source fetch shares one name.
func (cl call) trace(ctx context.Context) (context.Context, trace.Span) {
	return otel.Tracer(instrumentationScope).Start(ctx, "HTTP "+cl.method+" "+cl.peer,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			telemetry.AttrHTTPMethod.String(cl.method),
			attribute.String("http.url", cl.url),
			telemetry.AttrPeerService.String(cl.peer),
		),
	)
}

func endSpan(span trace.Span, resp *http.Response, err error) {
	if resp != nil {
		span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// result labels a finished call: success, error, canceled or circuit_open.
func result(resp *http.Response, err error) string {
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "circuit_open"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case err == nil && resp != nil && resp.StatusCode < http.StatusBadRequest:
		return "success"
	}
	return "error"
}

// measure records the call. It runs outside the breaker so rejected calls
// are counted too.
func (cl call) measure(ctx context.Context, metrics *telemetry.Metrics, resp *http.Response, err error) {
	if metrics == nil {
		return
	}

	var status int
	if resp != nil {
		status = resp.StatusCode
	}
	attrs := metric.WithAttributes(
		telemetry.AttrHTTPMethod.String(cl.method),
		telemetry.AttrHTTPStatus.Int(status),
		telemetry.AttrPeerService.String(cl.peer),
		telemetry.AttrResult.String(result(resp, err)),
	)
	metrics.ClientRequestDuration.Record(ctx, time.Since(cl.start).Seconds(), attrs)
	metrics.ClientRequestTotal.Add(ctx, 1, attrs)
}
