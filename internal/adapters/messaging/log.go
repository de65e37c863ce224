package messaging

import (
	"context"
	"log/slog"

	"github.com/clictest/clictest/internal/ports"
)

var _ ports.NotificationTransport = (*Log)(nil)

// Log writes notifications to a structured logger instead of a message bus.
type Log struct {
	logger *slog.Logger
}

// NewLog creates a Log transport.
func NewLog(logger *slog.Logger) *Log {
	return &Log{logger: logger}
}

// Publish logs n at the level matching its priority.
func (t *Log) Publish(ctx context.Context, n ports.Notification) error {
	t.logger.Log(ctx, level(n.Priority), "notification",
		slog.String("message_id", n.MessageID),
		slog.String("publisher_id", n.PublisherID),
		slog.String("event_type", n.EventType),
		slog.Any("payload", n.Payload),
	)
	return nil
}

func level(priority string) slog.Level {
	switch priority {
	case ports.PriorityWarn:
		return slog.LevelWarn
	case ports.PriorityError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Noop discards every notification.
type Noop struct{}

// Publish does nothing.
func (Noop) Publish(context.Context, ports.Notification) error { return nil }
