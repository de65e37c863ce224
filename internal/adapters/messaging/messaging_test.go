package messaging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clictest/clictest/internal/platform/config"
	"github.com/clictest/clictest/internal/ports"
)

func testNotification(id string) ports.Notification {
	return ports.Notification{
		MessageID:   id,
		PublisherID: "image.localhost",
		EventType:   "task.create",
		Priority:    ports.PriorityInfo,
		Payload: map[string]any{
			"id":         "t1",
			"status":     "pending",
			"expires_at": nil,
			"deleted":    true,
		},
		Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 123456789, time.UTC),
	}
}

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestCodec_RoundTrip(t *testing.T) {
	t.Parallel()

	in := testNotification("m1")
	data, err := Encode(in)
	require.NoError(t, err)

	again, err := Encode(in)
	require.NoError(t, err)
	assert.Equal(t, data, again, "encoding must be deterministic")

	out, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, in.MessageID, out.MessageID)
	assert.Equal(t, in.EventType, out.EventType)
	assert.True(t, in.Timestamp.Equal(out.Timestamp), "timestamp %v, want %v", out.Timestamp, in.Timestamp)
	assert.Equal(t, "t1", out.Payload["id"])
	assert.Equal(t, true, out.Payload["deleted"])
	assert.Nil(t, out.Payload["expires_at"])
}

func TestCodec_DecodeGarbage(t *testing.T) {
	t.Parallel()

	_, err := Decode([]byte{0xff, 0x00})
	assert.Error(t, err)
}

func TestRedisStream_PublishAndRead(t *testing.T) {
	client := setupRedis(t)
	tr := NewRedisStream(client, "clictest:notifications", 0)
	ctx := context.Background()

	require.NoError(t, tr.Publish(ctx, testNotification("m1")))
	require.NoError(t, tr.Publish(ctx, testNotification("m2")))

	msgs, err := client.XRange(ctx, "clictest:notifications", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "task.create", msgs[0].Values[fieldEventType])
	assert.Equal(t, "m1", msgs[0].Values[fieldMessageID])

	got, err := tr.Read(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "m2", got[1].MessageID)
	assert.Equal(t, "image.localhost", got[1].PublisherID)
}

func TestRedisStream_MaxLen(t *testing.T) {
	client := setupRedis(t)
	tr := NewRedisStream(client, "s", 2)
	ctx := context.Background()

	for _, id := range []string{"m1", "m2", "m3"} {
		require.NoError(t, tr.Publish(ctx, testNotification(id)))
	}

	got, err := tr.Read(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "m2", got[0].MessageID)
}

func TestRedisStream_PublishError(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	err := NewRedisStream(client, "s", 0).Publish(context.Background(), testNotification("m1"))
	assert.Error(t, err)
}

func TestLog_Publish(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	tr := NewLog(slog.New(slog.NewJSONHandler(&buf, nil)))

	n := testNotification("m1")
	n.Priority = ports.PriorityWarn
	require.NoError(t, tr.Publish(context.Background(), n))

	out := buf.String()
	assert.True(t, strings.Contains(out, `"level":"WARN"`), out)
	assert.True(t, strings.Contains(out, `"event_type":"task.create"`), out)
	assert.True(t, strings.Contains(out, `"message_id":"m1"`), out)
}

func TestNew_SelectsDriver(t *testing.T) {
	client := setupRedis(t)
	logger := slog.New(slog.DiscardHandler)

	tests := []struct {
		driver  string
		client  *redis.Client
		want    any
		wantErr bool
	}{
		{driver: "redis", client: client, want: &RedisStream{}},
		{driver: "redis", client: nil, wantErr: true},
		{driver: "log", want: &Log{}},
		{driver: "noop", want: Noop{}},
		{driver: "kafka", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			tr, err := New(&config.NotificationsConfig{Driver: tt.driver, Stream: "s"}, tt.client, logger)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, tr)
		})
	}
}
