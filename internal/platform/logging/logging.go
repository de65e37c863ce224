// Package logging builds the service's slog loggers and carries them through
// contexts.
//
//	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
//	ctx = logging.WithLogger(ctx, logger)
//	ctx = logging.With(ctx, slog.String("task_id", id))
//	logging.FromContext(ctx).InfoContext(ctx, "task finished")
//
// Error logs carry the operation name, the IDs involved and the whole error
// chain:
//
//	logger.ErrorContext(ctx, "failed to save task",
//	    slog.String("operation", "TaskService.CreateTask"),
//	    slog.String("task_id", id),
//	    slog.Any("error", err),
//	)
//
// Every handler built by New masks credentials before they are written; see
// redact.go.
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

type ctxKey struct{}

// New returns a logger writing to w. level is one of debug, info, warn or
// error, case-insensitive, and falls back to info. format "text" selects the
// logfmt-style handler; anything else writes JSON. Debug loggers also record
// the source location.
func New(level, format string, w io.Writer) *slog.Logger {
	lvl := ParseLevel(level)
	opts := &slog.HandlerOptions{
		Level:       lvl,
		AddSource:   lvl <= slog.LevelDebug,
		ReplaceAttr: redactor(),
	}

	if strings.EqualFold(format, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// ParseLevel maps a configured level name to a slog.Level. Unknown names
// yield info.
func ParseLevel(level string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// WithLogger stores logger in ctx.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// With stores the context's logger extended with args, so code further down
// the call chain logs them without being handed a logger.
func With(ctx context.Context, args ...any) context.Context {
	return WithLogger(ctx, FromContext(ctx).With(args...))
}

// FromContext returns the logger stored in ctx, or slog.Default.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
