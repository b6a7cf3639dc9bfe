package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/meditrack/trustcore/cmd/app/commands"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "worker",
			Usage: "Start the background worker (session sweeper and metrics server)",
			Flags: []cli.Flag{
				passphraseFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunWorker(ctx, version, cmd.String("passphrase"))
			},
		},
		{
			Name:  "migrate",
			Usage: "Run database migrations",
			Flags: []cli.Flag{
				passphraseFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := newContainer(cmd.String("passphrase"))
				defer func() { _ = container.Shutdown(ctx) }()

				cfg := container.Config()
				connectionString := cfg.DBConnectionString
				if connectionString == "" {
					settings, err := container.Settings()
					if err != nil {
						return err
					}
					connectionString = settings.Database.ConnectionURL()
				}

				return commands.RunMigrations(container.Logger(), cfg.DBDriver, connectionString)
			},
		},
		{
			Name:  "sweep-sessions",
			Usage: "Delete sessions past their absolute expiry",
			Flags: []cli.Flag{
				passphraseFlag(),
				formatFlag(),
				&cli.BoolFlag{
					Name:    "dry-run",
					Aliases: []string{"n"},
					Value:   false,
					Usage:   "Show how many sessions would be deleted without deleting",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := newContainer(cmd.String("passphrase"))
				defer func() { _ = container.Shutdown(ctx) }()

				sessionUseCase, err := container.SessionUseCase()
				if err != nil {
					return err
				}

				return commands.RunSweepSessions(
					ctx,
					sessionUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.Bool("dry-run"),
					cmd.String("format"),
				)
			},
		},
	}
}
