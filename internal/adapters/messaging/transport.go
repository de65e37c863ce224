// Package messaging implements ports.NotificationTransport: a Redis stream
// transport with a CBOR envelope, a structured-log transport and a no-op.
package messaging

import (
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/clictest/clictest/internal/platform/config"
	"github.com/clictest/clictest/internal/ports"
)

// New selects the transport named by cfg.Driver. client is only used by the
// redis driver and may be nil otherwise.
func New(cfg *config.NotificationsConfig, client *redis.Client, logger *slog.Logger) (ports.NotificationTransport, error) {
	switch cfg.Driver {
	case "redis":
		if client == nil {
			return nil, fmt.Errorf("notifications driver redis needs a redis client")
		}
		return NewRedisStream(client, cfg.Stream, cfg.MaxLen), nil
	case "log":
		return NewLog(logger), nil
	case "noop":
		return Noop{}, nil
	default:
		return nil, fmt.Errorf("unknown notifications driver %q", cfg.Driver)
	}
}
