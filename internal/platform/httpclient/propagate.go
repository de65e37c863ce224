package httpclient

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	correlationIDKey
)

// WithRequestID stores the inbound request ID for outbound X-Request-ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// WithCorrelationID stores the inbound correlation ID for outbound
// X-Correlation-ID.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

// propagate copies request metadata and W3C trace context from ctx onto req.
func propagate(ctx context.Context, req *http.Request) *http.Request {
	for key, header := range map[ctxKey]string{
		requestIDKey:     "X-Request-ID",
		correlationIDKey: "X-Correlation-ID",
	} {
		if id, ok := ctx.Value(key).(string); ok && id != "" {
			req.Header.Set(header, id)
		}
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
	return req
}
