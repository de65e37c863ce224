package config

// section is one top-level block of the defaults tree.
type section = map[string]any

// defaults is the bottom configuration layer. base.yaml, the profile file
// and CLICTEST_ variables are merged over it in that order, so every key a
// deployment may set has a value here.
func defaults() map[string]any {
	return map[string]any{
		"server": section{
			"host":          "0.0.0.0",
			"port":          8080,
			"read_timeout":  "5s",
			"write_timeout": "10s",
			"idle_timeout":  "120s",
		},
		"log": section{
			"level":  "info",
			"format": "json",
		},
		"client": section{
			"base_url": "",
			"timeout":  "30s",
			"retry": section{
				"max_attempts":     3,
				"initial_interval": "100ms",
				"max_interval":     "10s",
				"multiplier":       2.0,
			},
			"circuit_breaker": section{
				"max_failures":    5,
				"timeout":         "30s",
				"half_open_limit": 1,
			},
			// Zero requests per second leaves fetches unthrottled.
			"rate_limit": section{
				"requests_per_second": 0,
				"burst_size":          0,
			},
		},
		"telemetry": section{
			"enabled":      false,
			"exporter":     "stdout",
			"endpoint":     "",
			"service_name": "clictest",
		},
		"task": section{
			"time_to_live": 48,
		},
		"notifications": section{
			"driver":       "log",
			"publisher_id": "image.localhost",
			"disabled":     []string{},
			"stream":       "clictest:notifications",
			"max_len":      0,
		},
		"storage": section{
			"driver":           "memory",
			"dsn":              "",
			"max_conns":        10,
			"migrate_on_start": false,
		},
		"redis": section{
			"addr":         "localhost:6379",
			"password":     "",
			"db":           0,
			"dial_timeout": "5s",
		},
		"executor": section{
			"driver":     "memory",
			"queue_key":  "clictest:tasks:pending",
			"queue_size": 1024,
			"workers":    4,
			"pop_wait":   "2s",
		},
	}
}
