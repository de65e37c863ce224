package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Validate reports every invalid setting at once, one error per setting.
func (c *Config) Validate() error {
	var p problems

	c.Server.validate(&p)
	c.Log.validate(&p)
	c.Client.validate(&p)
	c.Telemetry.validate(&p)
	c.Task.validate(&p)
	c.Notifications.validate(&p)
	c.Storage.validate(&p)
	c.Executor.validate(&p)

	p.require(!c.UsesRedis() || c.Redis.Addr != "",
		"redis.addr must not be empty when a redis driver is selected")

	return errors.Join(p...)
}

// UsesRedis reports whether any component is configured to talk to Redis.
func (c *Config) UsesRedis() bool {
	return c.Executor.Driver == "redis" || c.Notifications.Driver == "redis"
}

// problems collects validation failures.
type problems []error

// require records the formatted message unless ok holds.
func (p *problems) require(ok bool, format string, args ...any) {
	if !ok {
		*p = append(*p, fmt.Errorf(format, args...))
	}
}

// oneOf records a failure unless got is one of allowed.
func (p *problems) oneOf(key, got string, allowed ...string) {
	p.require(slices.Contains(allowed, got),
		"%s must be one of: %s; got %q", key, strings.Join(allowed, ", "), got)
}

func (s *ServerConfig) validate(p *problems) {
	p.require(s.Port >= 1 && s.Port <= 65535, "server.port must be between 1 and 65535, got %d", s.Port)
	p.require(s.ReadTimeout > 0, "server.read_timeout must be positive")
	p.require(s.WriteTimeout > 0, "server.write_timeout must be positive")
}

func (l *LogConfig) validate(p *problems) {
	p.oneOf("log.level", l.Level, "debug", "info", "warn", "error")
	p.oneOf("log.format", l.Format, "json", "text")
}

func (cl *ClientConfig) validate(p *problems) {
	p.require(cl.Timeout > 0, "client.timeout must be positive")
	p.require(cl.Retry.MaxAttempts >= 1, "client.retry.max_attempts must be >= 1, got %d", cl.Retry.MaxAttempts)
	p.require(cl.Retry.Multiplier > 0, "client.retry.multiplier must be positive, got %g", cl.Retry.Multiplier)
	p.require(cl.CircuitBreaker.MaxFailures >= 1,
		"client.circuit_breaker.max_failures must be >= 1, got %d", cl.CircuitBreaker.MaxFailures)

	rl := cl.RateLimit
	p.require(rl.RequestsPerSecond >= 0,
		"client.rate_limit.requests_per_second must not be negative, got %g", rl.RequestsPerSecond)
	p.require(rl.RequestsPerSecond <= 0 || rl.BurstSize >= 1,
		"client.rate_limit.burst_size must be >= 1 when rate limiting is on, got %d", rl.BurstSize)
}

func (t *TelemetryConfig) validate(p *problems) {
	if !t.Enabled {
		return
	}
	p.oneOf("telemetry.exporter", t.Exporter, "stdout", "otlp")
	p.require(t.Exporter != "otlp" || t.Endpoint != "",
		"telemetry.endpoint must not be empty when exporter is otlp")
}

func (t *TaskConfig) validate(p *problems) {
	p.require(t.TimeToLiveHours >= 1, "task.time_to_live must be >= 1 hour, got %d", t.TimeToLiveHours)
}

func (n *NotificationsConfig) validate(p *problems) {
	p.oneOf("notifications.driver", n.Driver, "redis", "log", "noop")
	p.require(n.Driver != "redis" || n.Stream != "",
		"notifications.stream must not be empty when driver is redis")
	p.require(n.MaxLen >= 0, "notifications.max_len must not be negative, got %d", n.MaxLen)
	for _, name := range n.Disabled {
		p.require(strings.TrimSpace(name) != "", "notifications.disabled must not contain empty names")
	}
}

func (s *StorageConfig) validate(p *problems) {
	p.oneOf("storage.driver", s.Driver, "memory", "postgres")
	if s.Driver == "postgres" {
		p.require(s.DSN != "", "storage.dsn must not be empty when driver is postgres")
		p.require(s.MaxConns >= 1, "storage.max_conns must be >= 1, got %d", s.MaxConns)
	}
}

func (e *ExecutorConfig) validate(p *problems) {
	p.oneOf("executor.driver", e.Driver, "memory", "redis")
	switch e.Driver {
	case "memory":
		p.require(e.QueueSize >= 1, "executor.queue_size must be >= 1, got %d", e.QueueSize)
	case "redis":
		p.require(e.QueueKey != "", "executor.queue_key must not be empty when driver is redis")
	}
	p.require(e.Workers >= 0, "executor.workers must not be negative, got %d", e.Workers)
	p.require(e.PopWait > 0, "executor.pop_wait must be positive")
}
