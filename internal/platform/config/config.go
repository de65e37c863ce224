// Package config loads the settings shared by the server and the admin CLI.
// Layers are merged in order: built-in defaults, configs/base.yaml,
// configs/<profile>.yaml, then CLICTEST_* environment variables. Load
// validates the result and reports every problem at once.
package config

import "time"

// Config is the merged configuration tree.
type Config struct {
	Server        ServerConfig        `koanf:"server"`
	Log           LogConfig           `koanf:"log"`
	Client        ClientConfig        `koanf:"client"`
	Telemetry     TelemetryConfig     `koanf:"telemetry"`
	Task          TaskConfig          `koanf:"task"`
	Notifications NotificationsConfig `koanf:"notifications"`
	Storage       StorageConfig       `koanf:"storage"`
	Redis         RedisConfig         `koanf:"redis"`
	Executor      ExecutorConfig      `koanf:"executor"`
}

// ServerConfig is the HTTP listener. ReadTimeout also bounds header reads.
type ServerConfig struct {
	Host         string        `koanf:"host"`
	Port         int           `koanf:"port"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"`
}

// LogConfig selects the slog level (debug, info, warn, error) and format
// (json or text).
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// ClientConfig holds settings for the HTTP client that import tasks fetch
// images through.
type ClientConfig struct {
	// BaseURL resolves relative import locations. Optional.
	BaseURL        string               `koanf:"base_url"`
	Timeout        time.Duration        `koanf:"timeout"`
	Retry          RetryConfig          `koanf:"retry"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker"`
	RateLimit      RateLimitConfig      `koanf:"rate_limit"`
}

// RetryConfig shapes the exponential backoff between fetch attempts.
// MaxAttempts counts the first try.
type RetryConfig struct {
	MaxAttempts     int           `koanf:"max_attempts"`
	InitialInterval time.Duration `koanf:"initial_interval"`
	MaxInterval     time.Duration `koanf:"max_interval"`
	Multiplier      float64       `koanf:"multiplier"`
}

// CircuitBreakerConfig trips the breaker after MaxFailures consecutive
// failures and probes again after Timeout.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"`
	Timeout       time.Duration `koanf:"timeout"`
	HalfOpenLimit int           `koanf:"half_open_limit"`
}

// RateLimitConfig holds outbound rate limiting settings. A zero
// RequestsPerSecond disables limiting.
type RateLimitConfig struct {
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	BurstSize         int     `koanf:"burst_size"`
}

// TelemetryConfig controls tracing and metrics export. Exporter is stdout
// or otlp; Endpoint is required for otlp.
type TelemetryConfig struct {
	Enabled     bool   `koanf:"enabled"`
	Exporter    string `koanf:"exporter"`
	Endpoint    string `koanf:"endpoint"`
	ServiceName string `koanf:"service_name"`
}

type TaskConfig struct {
	// TimeToLiveHours is how long a task is kept after it reaches success
	// or failure.
	TimeToLiveHours int `koanf:"time_to_live"`
}

// TimeToLive returns TimeToLiveHours as a duration.
func (t TaskConfig) TimeToLive() time.Duration {
	return time.Duration(t.TimeToLiveHours) * time.Hour
}

// NotificationsConfig controls how lifecycle events are emitted.
type NotificationsConfig struct {
	// Driver selects the transport: redis, log or noop.
	Driver      string   `koanf:"driver"`
	PublisherID string   `koanf:"publisher_id"`
	Disabled    []string `koanf:"disabled"`

	// Stream is the Redis stream notifications are appended to.
	Stream string `koanf:"stream"`

	// MaxLen trims the stream to exactly this many entries. 0 keeps all.
	MaxLen int64 `koanf:"max_len"`
}

// StorageConfig selects where tasks live.
type StorageConfig struct {
	// Driver selects the store: memory or postgres.
	Driver         string `koanf:"driver"`
	DSN            string `koanf:"dsn"`
	MaxConns       int32  `koanf:"max_conns"`
	MigrateOnStart bool   `koanf:"migrate_on_start"`
}

// RedisConfig holds Redis connection settings shared by the queue and the
// notification transport.
type RedisConfig struct {
	Addr        string        `koanf:"addr"`
	Password    string        `koanf:"password"`
	DB          int           `koanf:"db"`
	DialTimeout time.Duration `koanf:"dial_timeout"`
}

// ExecutorConfig sizes the queue and the worker pool that drains it.
type ExecutorConfig struct {
	// Driver selects the queue: memory or redis.
	Driver    string        `koanf:"driver"`
	QueueKey  string        `koanf:"queue_key"`
	QueueSize int           `koanf:"queue_size"`
	Workers   int           `koanf:"workers"`
	PopWait   time.Duration `koanf:"pop_wait"`
}
