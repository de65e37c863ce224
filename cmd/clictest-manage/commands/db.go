package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/clictest/clictest/internal/adapters/store/postgres"
)

// DBMigrateAction applies the embedded schema to the configured database.
func DBMigrateAction(ctx context.Context, cmd *cli.Command) error {
	root := cmd.Root()
	cfg, err := loadConfig(root.String("env"), root.String("profile"), root.String("config-dir"))
	if err != nil {
		return err
	}
	if cfg.Storage.Driver != "postgres" {
		return ErrNoDatabase
	}

	pool, err := postgres.Open(ctx, &cfg.Storage)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		return err
	}

	_, err = fmt.Fprintln(root.Writer, "schema is up to date")
	return err
}
