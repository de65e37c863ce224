package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"

	"github.com/clictest/clictest/internal/domain"
	"github.com/clictest/clictest/internal/domain/task"
	"github.com/clictest/clictest/internal/ports"
)

// ErrPurgeIncomplete is returned when some expired tasks could not be removed.
var ErrPurgeIncomplete = errors.New("purge finished with errors")

// TasksListAction prints the stored tasks matching the flags as a table.
func TasksListAction(ctx context.Context, cmd *cli.Command) error {
	filter, err := filterFromFlags(cmd)
	if err != nil {
		return err
	}

	ac, err := NewAppContext(ctx, cmd)
	if err != nil {
		return err
	}
	defer ac.Close()

	return listTasks(ctx, ac.Service, filter, cmd.Root().Writer)
}

// TasksPurgeExpiredAction removes every task whose expiry is before the
// --before instant (now when unset).
func TasksPurgeExpiredAction(ctx context.Context, cmd *cli.Command) error {
	now := time.Now().UTC()
	if v := cmd.String("before"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return &domain.ValidationError{Fields: map[string]string{"before": "must be an RFC 3339 timestamp"}}
		}
		now = parsed
	}

	ac, err := NewAppContext(ctx, cmd)
	if err != nil {
		return err
	}
	defer ac.Close()

	return purgeExpired(ctx, ac.Service, now, cmd.Root().Writer, ac.Logger)
}

func filterFromFlags(cmd *cli.Command) (task.Filter, error) {
	f := task.Filter{
		Owner: cmd.String("owner"),
		Limit: cmd.Int("limit"),
	}
	fields := make(map[string]string)

	if v := cmd.String("status"); v != "" {
		f.Status = task.Status(v)
		if !f.Status.IsValid() {
			fields["status"] = fmt.Sprintf("invalid: %q", v)
		}
	}
	if v := cmd.String("type"); v != "" {
		f.Type = task.Type(v)
		if !f.Type.IsValid() {
			fields["type"] = fmt.Sprintf("invalid: %q", v)
		}
	}
	if f.Limit < 0 {
		fields["limit"] = "must not be negative"
	}

	if len(fields) > 0 {
		return task.Filter{}, &domain.ValidationError{Fields: fields}
	}
	return f, nil
}

func listTasks(ctx context.Context, svc ports.TaskService, filter task.Filter, w io.Writer) error {
	stubs, err := svc.ListTasks(ctx, filter)
	if err != nil {
		return fmt.Errorf("listing tasks: %w", err)
	}

	if len(stubs) == 0 {
		_, err := fmt.Fprintln(w, "no tasks found")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header("ID", "Type", "Status", "Owner", "Updated At", "Expires At")
	for _, s := range stubs {
		expires := "-"
		if s.ExpiresAt != nil {
			expires = s.ExpiresAt.Format(time.RFC3339)
		}
		if err := table.Append(
			s.ID,
			s.Type.String(),
			s.Status.String(),
			s.Owner,
			s.UpdatedAt.Format(time.RFC3339),
			expires,
		); err != nil {
			return err
		}
	}
	return table.Render()
}

func purgeExpired(ctx context.Context, svc ports.TaskService, now time.Time, w io.Writer, logger *slog.Logger) error {
	res, err := svc.PurgeExpired(ctx, now)
	if err != nil {
		return fmt.Errorf("purging expired tasks: %w", err)
	}

	for _, perr := range res.Errors {
		logger.ErrorContext(ctx, "failed to remove expired task",
			slog.String("operation", "tasks.purge-expired"),
			slog.String("task_id", perr.TaskID),
			slog.Any("error", perr.Err),
		)
	}

	if _, err := fmt.Fprintf(w, "removed %d expired task(s) before %s\n", len(res.Removed), now.Format(time.RFC3339)); err != nil {
		return err
	}
	if len(res.Errors) > 0 {
		return fmt.Errorf("%w: %d task(s) not removed", ErrPurgeIncomplete, len(res.Errors))
	}
	return nil
}
