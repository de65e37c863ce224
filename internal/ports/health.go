package ports

import "context"

// HealthChecker is a dependency the readiness probe consults: the task
// store, the Redis client, the image source.
type HealthChecker interface {
	// Name keys the checker's result in the readiness body, e.g. "postgres".
	Name() string

	// HealthCheck returns nil when the dependency can serve requests. It must
	// give up when ctx is done.
	HealthCheck(ctx context.Context) error
}

// HealthRegistry fans a readiness probe out to every registered checker.
type HealthRegistry interface {
	// Register adds checker, replacing any earlier one with the same name.
	Register(checker HealthChecker)

	// CheckAll runs every checker and returns each result by name; nil
	// means healthy.
	CheckAll(ctx context.Context) map[string]error
}
