// Package steps runs an ordered list of side-effecting operations with
// compensation: when one step fails, the steps that already succeeded are
// undone in reverse order.
//
//	err := steps.Run(ctx, logger,
//		steps.Step{Name: "add task", Do: add, Undo: remove},
//		steps.Step{Name: "run task", Do: run},
//	)
package steps

import (
	"context"
	"fmt"
	"log/slog"
)

// Step is a single operation. Undo is optional and only called if Do
// returned nil.
type Step struct {
	Name string
	Do   func(ctx context.Context) error
	Undo func(ctx context.Context) error
}

// Run executes steps in order. If a step fails, completed steps are undone
// in reverse order and the failing step's error is returned wrapped with its
// name. Undo errors are logged and do not replace the original error.
func Run(ctx context.Context, logger *slog.Logger, steps ...Step) error {
	for i, s := range steps {
		logger.DebugContext(ctx, "executing step",
			slog.String("operation", "steps.Run"),
			slog.Int("step", i+1),
			slog.Int("total", len(steps)),
			slog.String("name", s.Name),
		)

		if err := s.Do(ctx); err != nil {
			logger.ErrorContext(ctx, "step failed, undoing completed steps",
				slog.String("operation", "steps.Run"),
				slog.Int("failed_step", i+1),
				slog.String("name", s.Name),
				slog.Any("error", err),
			)
			undo(ctx, steps[:i], logger)
			return fmt.Errorf("%s: %w", s.Name, err)
		}
	}
	return nil
}

// undo compensates done in reverse order. Undo errors are logged at ERROR
// level and do not stop the remaining compensations.
func undo(ctx context.Context, done []Step, logger *slog.Logger) {
	for i := len(done) - 1; i >= 0; i-- {
		s := done[i]
		if s.Undo == nil {
			continue
		}

		logger.InfoContext(ctx, "undoing step",
			slog.String("operation", "steps.Run"),
			slog.Int("step", i+1),
			slog.String("name", s.Name),
		)

		if err := s.Undo(ctx); err != nil {
			logger.ErrorContext(ctx, "undo failed",
				slog.String("operation", "steps.Run"),
				slog.Int("step", i+1),
				slog.String("name", s.Name),
				slog.Any("error", err),
			)
		}
	}
}
