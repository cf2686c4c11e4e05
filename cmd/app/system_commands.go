package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/passvault/cmd/app/commands"
	"github.com/allisson/passvault/internal/app"
	"github.com/allisson/passvault/internal/config"
	cryptoDomain "github.com/allisson/passvault/internal/crypto/domain"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "worker",
			Usage: "Start the breach scheduler and the metrics server",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunWorker(ctx, version)
			},
		},
		{
			Name:  "migrate",
			Usage: "Run database migrations",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunMigrations(container.Logger(), cfg.DBDriver, cfg.DBConnectionString)
			},
		},
		{
			Name:  "create-salt",
			Usage: "Generate a random base64 salt",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:    "length",
					Aliases: []string{"l"},
					Value:   cryptoDomain.DefaultSaltLength,
					Usage:   "Salt length in bytes",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunCreateSalt(commands.DefaultIO().Writer, int(cmd.Int("length")))
			},
		},
	}
}
