// Package notifier publishes task lifecycle events. A Notifier turns an event
// into a ports.Notification envelope and hands it to a transport; the proxies
// in this package decorate task entities, repositories and factories so that
// every successful state change emits the matching event.
package notifier

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"

	"github.com/clictest/clictest/internal/platform/telemetry"
	"github.com/clictest/clictest/internal/ports"
)

// DefaultPublisherID tags notifications when no publisher ID is configured.
const DefaultPublisherID = "image.localhost"

// Outcomes recorded on the notifications counter.
const (
	resultPublished  = "published"
	resultSuppressed = "suppressed"
	resultFailed     = "failed"
)

// Notifier sends events at a severity to a NotificationTransport.
type Notifier struct {
	transport   ports.NotificationTransport
	publisherID string
	disabled    Filter
	now         func() time.Time
	newID       func() string
	metrics     *telemetry.Metrics
	logger      *slog.Logger
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithPublisherID sets the publisher identity on every envelope.
func WithPublisherID(id string) Option {
	return func(n *Notifier) {
		if id != "" {
			n.publisherID = id
		}
	}
}

// WithDisabled suppresses the listed event types and event groups.
func WithDisabled(events []string) Option {
	return func(n *Notifier) {
		n.disabled = NewFilter(events)
	}
}

// WithClock overrides time.Now for envelope timestamps and deleted_at.
func WithClock(now func() time.Time) Option {
	return func(n *Notifier) {
		n.now = now
	}
}

// WithIDGenerator overrides the UUID v4 message ID generator.
func WithIDGenerator(newID func() string) Option {
	return func(n *Notifier) {
		n.newID = newID
	}
}

// WithMetrics records publish outcomes. A nil value disables recording.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(n *Notifier) {
		n.metrics = m
	}
}

// WithLogger sets the logger for delivery failures. A nil logger is ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Notifier) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// New creates a Notifier publishing to transport.
func New(transport ports.NotificationTransport, opts ...Option) *Notifier {
	n := &Notifier{
		transport:   transport,
		publisherID: DefaultPublisherID,
		now:         func() time.Time { return time.Now().UTC() },
		newID:       uuid.NewString,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// PublisherID returns the identity notifications are tagged with.
func (n *Notifier) PublisherID() string {
	return n.publisherID
}

// Enabled reports whether eventType passes the disabled-notifications filter.
func (n *Notifier) Enabled(eventType string) bool {
	return n.disabled.Enabled(eventType)
}

// Info publishes eventType at INFO priority.
func (n *Notifier) Info(ctx context.Context, eventType string, payload map[string]any) error {
	return n.publish(ctx, ports.PriorityInfo, eventType, payload)
}

// Warn publishes eventType at WARN priority.
func (n *Notifier) Warn(ctx context.Context, eventType string, payload map[string]any) error {
	return n.publish(ctx, ports.PriorityWarn, eventType, payload)
}

// Error publishes eventType at ERROR priority.
func (n *Notifier) Error(ctx context.Context, eventType string, payload map[string]any) error {
	return n.publish(ctx, ports.PriorityError, eventType, payload)
}

func (n *Notifier) publish(ctx context.Context, priority, eventType string, payload map[string]any) error {
	err := n.transport.Publish(ctx, ports.Notification{
		MessageID:   n.newID(),
		PublisherID: n.publisherID,
		EventType:   eventType,
		Priority:    priority,
		Payload:     payload,
		Timestamp:   n.now(),
	})
	if err != nil {
		n.record(ctx, eventType, resultFailed)
		return err
	}
	n.record(ctx, eventType, resultPublished)
	return nil
}

// send merges extra into payload and publishes it at INFO priority if the
// event is enabled. Delivery errors are logged, never returned: the state
// change that triggered the event has already been applied.
func (n *Notifier) send(ctx context.Context, eventType string, payload, extra map[string]any) {
	if !n.Enabled(eventType) {
		n.record(ctx, eventType, resultSuppressed)
		return
	}
	for k, v := range extra {
		payload[k] = v
	}
	if err := n.Info(ctx, eventType, payload); err != nil {
		n.logger.ErrorContext(ctx, "failed to publish notification",
			slog.String("event_type", eventType),
			slog.String("publisher_id", n.publisherID),
			slog.Any("error", err),
		)
	}
}

func (n *Notifier) record(ctx context.Context, eventType, result string) {
	if n.metrics == nil {
		return
	}
	n.metrics.NotificationsPublished.Add(ctx, 1, metric.WithAttributes(
		telemetry.AttrEventType.String(eventType),
		telemetry.AttrResult.String(result),
	))
}

// Filter holds the disabled event types and event groups. The zero value
// enables everything.
type Filter struct {
	disabled map[string]struct{}
}

// NewFilter builds a Filter from a list of event types ("task.create") and
// groups ("task"). Blank entries are ignored.
func NewFilter(events []string) Filter {
	f := Filter{disabled: make(map[string]struct{}, len(events))}
	for _, e := range events {
		if e = strings.TrimSpace(e); e != "" {
			f.disabled[e] = struct{}{}
		}
	}
	return f
}

// Enabled reports whether neither eventType nor its group is disabled. The
// group is the text before the first '.'.
func (f Filter) Enabled(eventType string) bool {
	if _, ok := f.disabled[eventType]; ok {
		return false
	}
	group, _, _ := strings.Cut(eventType, ".")
	_, ok := f.disabled[group]
	return !ok
}
