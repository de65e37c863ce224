package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/clictest/clictest/internal/adapters/http/dto"
)

// Recovery returns middleware that turns a panic in a downstream handler into
// an RFC 9457 500 response whose detail reveals nothing; the panic value and
// stack go to the log. It runs outermost, so the request ID is read from
// the response header that RequestID sets rather than from the context. If
// the handler already started the response only the log entry is written.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := record(w)

			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if v == http.ErrAbortHandler {
					panic(v)
				}

				logger.ErrorContext(r.Context(), "panic recovered",
					slog.String("panic", fmt.Sprint(v)),
					slog.String("stack", string(debug.Stack())),
					slog.String("request_id", rec.Header().Get(headerRequestID)),
					slog.String("method", r.Method),
					slog.String("route", routePattern(r)),
				)

				if !rec.started {
					dto.WriteStatusResponse(rec, r, http.StatusInternalServerError, "internal error")
				}
			}()

			next.ServeHTTP(rec, r)
		})
	}
}
