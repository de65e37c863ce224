// Package main is the entry point for the service. It wires all dependencies
// using samber/do v2, starts the HTTP server and the task workers, and handles
// graceful shutdown on SIGINT/SIGTERM.
package main

import (
	"context"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do/v2"

	adapthttp "github.com/clictest/clictest/internal/adapters/http"
	"github.com/clictest/clictest/internal/adapters/http/handlers"
	"github.com/clictest/clictest/internal/adapters/http/middleware"

	"github.com/clictest/clictest/internal/adapters/clients/imagesource"
	"github.com/clictest/clictest/internal/adapters/messaging"
	"github.com/clictest/clictest/internal/adapters/queue"
	"github.com/clictest/clictest/internal/adapters/store/memory"
	"github.com/clictest/clictest/internal/adapters/store/postgres"
	"github.com/clictest/clictest/internal/app"
	"github.com/clictest/clictest/internal/app/worker"
	"github.com/clictest/clictest/internal/domain/task"
	"github.com/clictest/clictest/internal/notifier"
	"github.com/clictest/clictest/internal/platform/config"
	"github.com/clictest/clictest/internal/platform/health"
	"github.com/clictest/clictest/internal/platform/httpclient"
	"github.com/clictest/clictest/internal/platform/logging"
	"github.com/clictest/clictest/internal/platform/redisclient"
	"github.com/clictest/clictest/internal/platform/telemetry"
	"github.com/clictest/clictest/internal/ports"
)

const (
	serverShutdownTimeout = 15 * time.Second
	otelShutdownTimeout   = 5 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	profile := os.Getenv(config.ProfileEnv)
	if profile == "" {
		return fmt.Errorf("%s environment variable is required (e.g. local, dev, qa, prod)", config.ProfileEnv)
	}

	// Bootstrap: config, logger, telemetry.
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	ctx := context.Background()
	otel, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	// DI container.
	injector := do.New()

	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, logger)
	do.ProvideValue(injector, otel.Metrics)

	registerDependencies(ctx, injector, cfg, logger)

	// Resolve the server and the workers (eagerly wires the full graph).
	server, err := do.Invoke[*adapthttp.Server](injector)
	if err != nil {
		return fmt.Errorf("resolving server: %w", err)
	}
	pool, err := do.Invoke[*worker.Pool](injector)
	if err != nil {
		return fmt.Errorf("resolving workers: %w", err)
	}

	registerHealthCheckers(injector, cfg)

	if err := server.Listen(); err != nil {
		closeBackends(injector, cfg, logger)
		return err
	}

	workerCtx, stopWorkers := context.WithCancel(logging.WithLogger(ctx, logger))
	defer stopWorkers()
	pool.Start(workerCtx)

	// Start server in background.
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	// Wait for shutdown signal or server error.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	case err := <-serverErr:
		stopWorkers()
		pool.Wait()
		closeBackends(injector, cfg, logger)
		return fmt.Errorf("server failed: %w", err)
	}

	// Graceful shutdown: drain HTTP requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
	}

	// Wait for Start() goroutine to return.
	<-serverErr

	// Let in-flight tasks finish, then release stores and clients.
	stopWorkers()
	pool.Wait()

	closeBackends(injector, cfg, logger)

	// Flush telemetry.
	otelCtx, otelCancel := context.WithTimeout(context.Background(), otelShutdownTimeout)
	defer otelCancel()

	if err := otel.Shutdown(otelCtx); err != nil {
		logger.Error("telemetry shutdown error", slog.Any("error", err))
	}

	logger.Info("shutdown complete")
	return nil
}

// registerHealthCheckers adds a checker for every backing service the
// configuration selected. Called after the graph is wired.
func registerHealthCheckers(injector do.Injector, cfg *config.Config) {
	registry := do.MustInvoke[ports.HealthRegistry](injector)
	registry.Register(do.MustInvoke[*httpclient.Client](injector))

	if cfg.Storage.Driver == "postgres" {
		registry.Register(postgres.NewChecker(do.MustInvoke[*pgxpool.Pool](injector)))
	}
	if cfg.UsesRedis() {
		registry.Register(redisclient.NewChecker(do.MustInvoke[*redis.Client](injector)))
	}
}

// closeBackends releases the connection pools opened for the configured
// drivers.
func closeBackends(injector do.Injector, cfg *config.Config, logger *slog.Logger) {
	if cfg.Storage.Driver == "postgres" {
		do.MustInvoke[*pgxpool.Pool](injector).Close()
	}
	if cfg.UsesRedis() {
		if err := do.MustInvoke[*redis.Client](injector).Close(); err != nil {
			logger.Error("redis close error", slog.Any("error", err))
		}
	}
}

func registerDependencies(ctx context.Context, injector *do.RootScope, cfg *config.Config, logger *slog.Logger) {
	registerInfrastructure(ctx, injector, cfg, logger)
	registerDomain(injector, cfg, logger)
	registerHTTP(injector, cfg, logger)
}

func registerInfrastructure(ctx context.Context, injector *do.RootScope, cfg *config.Config, logger *slog.Logger) {
	do.Provide(injector, func(_ do.Injector) (*redis.Client, error) {
		return redisclient.New(ctx, &cfg.Redis)
	})

	do.Provide(injector, func(_ do.Injector) (*pgxpool.Pool, error) {
		pool, err := postgres.Open(ctx, &cfg.Storage)
		if err != nil {
			return nil, err
		}
		if cfg.Storage.MigrateOnStart {
			if err := postgres.Migrate(ctx, pool); err != nil {
				pool.Close()
				return nil, err
			}
			logger.Info("database schema migrated")
		}
		return pool, nil
	})

	do.Provide(injector, func(i do.Injector) (*httpclient.Client, error) {
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		return httpclient.New(&cfg.Client, imagesource.ServiceName,
			httpclient.WithMetrics(metrics),
			httpclient.WithLogger(logger),
		), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.ImageSource, error) {
		client := do.MustInvoke[*httpclient.Client](i)
		return imagesource.New(client, logger), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.NotificationTransport, error) {
		var client *redis.Client
		if cfg.Notifications.Driver == "redis" {
			client = do.MustInvoke[*redis.Client](i)
		}
		return messaging.New(&cfg.Notifications, client, logger)
	})

	do.Provide(injector, func(i do.Injector) (ports.TaskQueue, error) {
		switch cfg.Executor.Driver {
		case "redis":
			client := do.MustInvoke[*redis.Client](i)
			return queue.NewRedis(client, cfg.Executor.QueueKey, cfg.Executor.PopWait), nil
		default:
			return queue.NewMemory(cfg.Executor.QueueSize, cfg.Executor.PopWait), nil
		}
	})

	do.Provide(injector, func(_ do.Injector) (ports.HealthRegistry, error) {
		return health.New(), nil
	})
}

func registerDomain(injector *do.RootScope, cfg *config.Config, logger *slog.Logger) {
	do.Provide(injector, func(_ do.Injector) (*task.Factory, error) {
		return task.NewFactory(cfg.Task.TimeToLive(), task.WithLogger(logger)), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.TaskStore, error) {
		factory := do.MustInvoke[*task.Factory](i)
		if cfg.Storage.Driver == "postgres" {
			return postgres.NewTaskStore(do.MustInvoke[*pgxpool.Pool](i), factory), nil
		}
		return memory.New(factory), nil
	})

	do.Provide(injector, func(i do.Injector) (*notifier.Notifier, error) {
		transport := do.MustInvoke[ports.NotificationTransport](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		return notifier.New(transport,
			notifier.WithPublisherID(cfg.Notifications.PublisherID),
			notifier.WithDisabled(cfg.Notifications.Disabled),
			notifier.WithMetrics(metrics),
			notifier.WithLogger(logger),
		), nil
	})

	// The service and the workers only see the notifying decorators.
	do.Provide(injector, func(i do.Injector) (ports.TaskRepo, error) {
		store := do.MustInvoke[ports.TaskStore](i)
		return notifier.NewTaskRepoProxy(store, do.MustInvoke[*notifier.Notifier](i)), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.TaskStubRepo, error) {
		store := do.MustInvoke[ports.TaskStore](i)
		return notifier.NewTaskStubRepoProxy(store, do.MustInvoke[*notifier.Notifier](i)), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.TaskFactory, error) {
		factory := do.MustInvoke[*task.Factory](i)
		return notifier.NewTaskFactoryProxy(factory, do.MustInvoke[*notifier.Notifier](i)), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.TaskService, error) {
		return app.NewTaskService(
			do.MustInvoke[ports.TaskRepo](i),
			do.MustInvoke[ports.TaskStubRepo](i),
			do.MustInvoke[ports.TaskFactory](i),
			do.MustInvoke[ports.TaskQueue](i),
			logger,
		), nil
	})

	do.Provide(injector, func(i do.Injector) (*worker.Pool, error) {
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		pool := worker.NewPool(
			do.MustInvoke[ports.TaskQueue](i),
			do.MustInvoke[ports.TaskRepo](i),
			cfg.Executor.Workers,
			logger,
			worker.WithMetrics(metrics),
		)
		pool.Register(task.TypeImport, worker.NewImportRunner(do.MustInvoke[ports.ImageSource](i)))
		return pool, nil
	})
}

func registerHTTP(injector *do.RootScope, cfg *config.Config, logger *slog.Logger) {
	do.Provide(injector, func(i do.Injector) (*handlers.TaskHandler, error) {
		svc := do.MustInvoke[ports.TaskService](i)
		return handlers.NewTaskHandler(svc), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.HealthHandler, error) {
		registry := do.MustInvoke[ports.HealthRegistry](i)
		return handlers.NewHealthHandler(registry), nil
	})

	do.Provide(injector, func(i do.Injector) (nethttp.Handler, error) {
		taskH := do.MustInvoke[*handlers.TaskHandler](i)
		healthH := do.MustInvoke[*handlers.HealthHandler](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)

		return adapthttp.NewRouter(taskH, healthH,
			middleware.Recovery(logger),
			middleware.RequestID(),
			middleware.CorrelationID(),
			middleware.Tenant(),
			middleware.OpenTelemetry(metrics),
			middleware.Logging(logger),
			middleware.Timeout(cfg.Server.WriteTimeout),
		), nil
	})

	do.Provide(injector, func(i do.Injector) (*adapthttp.Server, error) {
		handler := do.MustInvoke[nethttp.Handler](i)
		return adapthttp.NewServer(cfg.Server, handler, logger), nil
	})
}
