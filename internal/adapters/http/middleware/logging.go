package middleware

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/clictest/clictest/internal/platform/logging"
)

const redactedValue = "[REDACTED]"

// headerAttrs renders h as sorted log attributes, masking sensitive values.
func headerAttrs(h http.Header) []any {
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	slices.Sort(names)

	attrs := make([]any, 0, len(names))
	for _, name := range names {
		value := strings.Join(h.Values(name), ", ")
		if logging.IsSensitiveHeader(name) {
			value = redactedValue
		}
		attrs = append(attrs, slog.String(name, value))
	}
	return attrs
}

// routePattern returns the chi route template that matched r, such as
// /api/v1/tasks/{id}, or the raw path when routing has not happened. It is
// only complete once the handler chain has returned.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}

// completionLevel maps a response status to the level of the completion line.
func completionLevel(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// Logging returns middleware that logs the start and completion of each
// request. The child logger carries request_id, correlation_id and tenant_id
// and is stored with logging.WithLogger so that services and task decorators
// log under the same IDs. Completion is logged at WARN for 4xx and ERROR for
// 5xx, with the matched route template rather than the raw path so task IDs
// do not explode log cardinality.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx := r.Context()

			child := logger.With(
				slog.String("request_id", RequestIDFromContext(ctx)),
				slog.String("correlation_id", CorrelationIDFromContext(ctx)),
			)
			if tenant := TenantIDFromContext(ctx); tenant != "" {
				child = child.With(slog.String("tenant_id", tenant))
			}
			ctx = logging.WithLogger(ctx, child)

			child.InfoContext(ctx, "request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)
			if child.Enabled(ctx, slog.LevelDebug) {
				child.DebugContext(ctx, "request headers", headerAttrs(r.Header)...)
			}

			rec := record(w)
			next.ServeHTTP(rec, r.WithContext(ctx))

			child.Log(ctx, completionLevel(rec.status), "request completed",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("route", routePattern(r)),
				slog.Int("status", rec.status),
				slog.Int64("bytes", rec.bytes),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}
