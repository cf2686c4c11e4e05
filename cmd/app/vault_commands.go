package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/passvault/cmd/app/commands"
	"github.com/allisson/passvault/internal/app"
	"github.com/allisson/passvault/internal/config"
)

func getVaultCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "check-breaches",
			Usage: "Match vault entries against the breach corpus and record new alerts",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "user-id",
					Aliases: []string{"u"},
					Usage:   "User ID (UUID); omit to check every user",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				breachUseCase, err := container.BreachUseCase()
				if err != nil {
					return err
				}

				return commands.RunCheckBreaches(
					ctx,
					breachUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("user-id"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "security-score",
			Usage: "Compute the security score of a user's vault",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "user-id",
					Aliases:  []string{"u"},
					Required: true,
					Usage:    "User ID (UUID)",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				scoreUseCase, err := container.ScoreUseCase()
				if err != nil {
					return err
				}

				return commands.RunSecurityScore(
					ctx,
					scoreUseCase,
					container.ScoreOptions(),
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("user-id"),
					cmd.String("format"),
				)
			},
		},
	}
}
