// Package commands implements the actions of the clictest-manage CLI.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v3"

	"github.com/clictest/clictest/internal/adapters/messaging"
	"github.com/clictest/clictest/internal/adapters/queue"
	"github.com/clictest/clictest/internal/adapters/store/postgres"
	"github.com/clictest/clictest/internal/app"
	"github.com/clictest/clictest/internal/domain/task"
	"github.com/clictest/clictest/internal/notifier"
	"github.com/clictest/clictest/internal/platform/config"
	"github.com/clictest/clictest/internal/platform/logging"
	"github.com/clictest/clictest/internal/platform/redisclient"
	"github.com/clictest/clictest/internal/ports"
)

// ErrNoDatabase is returned by commands that need the postgres store when
// the memory driver is configured.
var ErrNoDatabase = errors.New("storage.driver is not postgres; the memory store lives only inside the server")

// loadConfig loads envFile (a missing file is not an error) and then the
// layered configuration for profile.
func loadConfig(envFile, profile, configDir string) (*config.Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading env file %s: %w", envFile, err)
		}
	}
	// The env file may set the profile itself.
	if profile == "" {
		profile = os.Getenv(config.ProfileEnv)
	}

	cfg, err := config.Load(profile, config.WithConfigDir(configDir))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// AppContext holds what a command needs: configuration, the logger and the
// task service wired over the postgres store.
type AppContext struct {
	Config  *config.Config
	Logger  *slog.Logger
	Pool    *pgxpool.Pool
	Service ports.TaskService

	redis *redis.Client
}

// NewAppContext reads the root flags, loads configuration and opens the
// database. Tasks are served through the notifying decorators so deletions
// made here are published like those made by the server.
func NewAppContext(ctx context.Context, cmd *cli.Command) (*AppContext, error) {
	root := cmd.Root()
	cfg, err := loadConfig(root.String("env"), root.String("profile"), root.String("config-dir"))
	if err != nil {
		return nil, err
	}
	if cfg.Storage.Driver != "postgres" {
		return nil, ErrNoDatabase
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	ac := &AppContext{Config: cfg, Logger: logger}

	ac.Pool, err = postgres.Open(ctx, &cfg.Storage)
	if err != nil {
		return nil, err
	}

	if cfg.UsesRedis() {
		ac.redis, err = redisclient.New(ctx, &cfg.Redis)
		if err != nil {
			ac.Close()
			return nil, err
		}
	}

	transport, err := messaging.New(&cfg.Notifications, ac.redis, logger)
	if err != nil {
		ac.Close()
		return nil, err
	}

	var executor ports.Executor
	if cfg.Executor.Driver == "redis" {
		executor = queue.NewRedis(ac.redis, cfg.Executor.QueueKey, cfg.Executor.PopWait)
	} else {
		executor = queue.NewMemory(cfg.Executor.QueueSize, cfg.Executor.PopWait)
	}

	factory := task.NewFactory(cfg.Task.TimeToLive(), task.WithLogger(logger))
	store := postgres.NewTaskStore(ac.Pool, factory)
	n := notifier.New(transport,
		notifier.WithPublisherID(cfg.Notifications.PublisherID),
		notifier.WithDisabled(cfg.Notifications.Disabled),
		notifier.WithLogger(logger),
	)

	ac.Service = app.NewTaskService(
		notifier.NewTaskRepoProxy(store, n),
		notifier.NewTaskStubRepoProxy(store, n),
		notifier.NewTaskFactoryProxy(factory, n),
		executor,
		logger,
	)
	return ac, nil
}

// Close releases the database pool and the Redis client.
func (ac *AppContext) Close() {
	if ac.Pool != nil {
		ac.Pool.Close()
	}
	if ac.redis != nil {
		_ = ac.redis.Close()
	}
}
