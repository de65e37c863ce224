// Package main is the admin CLI. It runs schema migrations and inspects or
// purges stored tasks outside the server process.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/clictest/clictest/cmd/clictest-manage/commands"
	"github.com/clictest/clictest/internal/platform/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.Command{
		Name:      "clictest-manage",
		Usage:     "administer the clictest task store",
		Writer:    os.Stdout,
		ErrWriter: os.Stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env",
				Usage: "dotenv file loaded before the configuration",
				Value: ".env",
			},
			&cli.StringFlag{
				Name:    "profile",
				Usage:   "configuration profile (local, dev, qa, prod)",
				Sources: cli.EnvVars(config.ProfileEnv),
			},
			&cli.StringFlag{
				Name:  "config-dir",
				Usage: "directory holding base.yaml and the profile files",
				Value: "configs",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "db",
				Usage: "database schema commands",
				Commands: []*cli.Command{
					{
						Name:   "migrate",
						Usage:  "create or update the tasks schema",
						Action: commands.DBMigrateAction,
					},
				},
			},
			{
				Name:  "tasks",
				Usage: "task inspection and maintenance",
				Commands: []*cli.Command{
					{
						Name:  "list",
						Usage: "list stored tasks",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "owner",
								Usage: "only tasks of this tenant",
							},
							&cli.StringFlag{
								Name:  "status",
								Usage: "filter by status (pending/processing/success/failure)",
							},
							&cli.StringFlag{
								Name:  "type",
								Usage: "filter by task type (import)",
							},
							&cli.IntFlag{
								Name:  "limit",
								Usage: "maximum number of tasks shown (0 for all)",
							},
						},
						Action: commands.TasksListAction,
					},
					{
						Name:  "purge-expired",
						Usage: "delete tasks whose expiry has passed",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "before",
								Usage: "RFC 3339 instant to compare expiries against (default: now)",
							},
						},
						Action: commands.TasksPurgeExpiredAction,
					},
				},
			},
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
