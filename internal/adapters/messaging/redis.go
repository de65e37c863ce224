package messaging

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/clictest/clictest/internal/ports"
)

// Stream entry field names.
const (
	fieldMessageID = "message_id"
	fieldEventType = "event_type"
	fieldPriority  = "priority"
	fieldBody      = "body"
)

var _ ports.NotificationTransport = (*RedisStream)(nil)

// RedisStream appends notifications to a Redis stream. Each entry carries the
// routing fields in clear and the CBOR-encoded envelope in "body".
type RedisStream struct {
	client *redis.Client
	stream string
	maxLen int64
}

// NewRedisStream creates a transport writing to stream. When maxLen is
// positive the stream is trimmed to that many entries on every append.
func NewRedisStream(client *redis.Client, stream string, maxLen int64) *RedisStream {
	return &RedisStream{client: client, stream: stream, maxLen: maxLen}
}

// Publish appends n to the stream.
func (t *RedisStream) Publish(ctx context.Context, n ports.Notification) error {
	body, err := Encode(n)
	if err != nil {
		return err
	}

	args := &redis.XAddArgs{
		Stream: t.stream,
		Values: map[string]any{
			fieldMessageID: n.MessageID,
			fieldEventType: n.EventType,
			fieldPriority:  n.Priority,
			fieldBody:      body,
		},
	}
	if t.maxLen > 0 {
		args.MaxLen = t.maxLen
	}

	if err := t.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("publishing %s to stream %s: %w", n.EventType, t.stream, err)
	}
	return nil
}

// Read returns up to count entries from the start of the stream, decoded.
// Used by the admin CLI and tests to inspect what was published.
func (t *RedisStream) Read(ctx context.Context, count int64) ([]ports.Notification, error) {
	msgs, err := t.client.XRangeN(ctx, t.stream, "-", "+", count).Result()
	if err != nil {
		return nil, fmt.Errorf("reading stream %s: %w", t.stream, err)
	}

	out := make([]ports.Notification, 0, len(msgs))
	for _, msg := range msgs {
		raw, ok := msg.Values[fieldBody].(string)
		if !ok {
			return nil, fmt.Errorf("stream entry %s has no body", msg.ID)
		}
		n, err := Decode([]byte(raw))
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
