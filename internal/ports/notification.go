package ports

import (
	"context"
	"time"
)

// Priority levels a notification can be emitted at.
const (
	PriorityInfo  = "INFO"
	PriorityWarn  = "WARN"
	PriorityError = "ERROR"
)

// Notification is the envelope handed to a NotificationTransport.
type Notification struct {
	MessageID   string         `cbor:"message_id" json:"message_id"`
	PublisherID string         `cbor:"publisher_id" json:"publisher_id"`
	EventType   string         `cbor:"event_type" json:"event_type"`
	Priority    string         `cbor:"priority" json:"priority"`
	Payload     map[string]any `cbor:"payload" json:"payload"`
	Timestamp   time.Time      `cbor:"timestamp" json:"timestamp"`
}

// NotificationTransport delivers notifications to the message bus.
// Implementations must be safe for concurrent use.
type NotificationTransport interface {
	Publish(ctx context.Context, n Notification) error
}
