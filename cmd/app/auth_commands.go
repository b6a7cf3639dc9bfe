package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/meditrack/trustcore/cmd/app/commands"
)

func getAuthCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "issue-token",
			Usage: "Mint a signed token for a staff member",
			Flags: []cli.Flag{
				passphraseFlag(),
				&cli.StringFlag{
					Name:     "staff-id",
					Aliases:  []string{"s"},
					Required: true,
					Usage:    "Staff ID (UUID)",
				},
				&cli.StringFlag{
					Name:     "email",
					Aliases:  []string{"e"},
					Required: true,
					Usage:    "Staff email address",
				},
				&cli.StringFlag{
					Name:     "role",
					Aliases:  []string{"r"},
					Required: true,
					Usage:    "Staff role (e.g. admin, pharmacist, nurse)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := newContainer(cmd.String("passphrase"))
				defer func() { _ = container.Shutdown(ctx) }()

				claimsService, err := container.ClaimsService()
				if err != nil {
					return err
				}

				return commands.RunIssueToken(
					claimsService,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("staff-id"),
					cmd.String("email"),
					cmd.String("role"),
				)
			},
		},
		{
			Name:  "verify-token",
			Usage: "Verify a signed token and print its claims",
			Flags: []cli.Flag{
				passphraseFlag(),
				formatFlag(),
				&cli.StringFlag{
					Name:     "token",
					Aliases:  []string{"t"},
					Required: true,
					Usage:    "Token to verify",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := newContainer(cmd.String("passphrase"))
				defer func() { _ = container.Shutdown(ctx) }()

				claimsService, err := container.ClaimsService()
				if err != nil {
					return err
				}

				return commands.RunVerifyToken(
					claimsService,
					commands.DefaultIO().Writer,
					cmd.String("token"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "refresh-token",
			Usage: "Exchange a valid token for a fresh one with a renewed expiry",
			Flags: []cli.Flag{
				passphraseFlag(),
				&cli.StringFlag{
					Name:     "token",
					Aliases:  []string{"t"},
					Required: true,
					Usage:    "Token to refresh",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := newContainer(cmd.String("passphrase"))
				defer func() { _ = container.Shutdown(ctx) }()

				claimsService, err := container.ClaimsService()
				if err != nil {
					return err
				}

				return commands.RunRefreshToken(
					claimsService,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("token"),
				)
			},
		},
		{
			Name:  "list-sessions",
			Usage: "List the active sessions for a staff member",
			Flags: []cli.Flag{
				passphraseFlag(),
				formatFlag(),
				&cli.StringFlag{
					Name:     "staff-id",
					Aliases:  []string{"s"},
					Required: true,
					Usage:    "Staff ID (UUID)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := newContainer(cmd.String("passphrase"))
				defer func() { _ = container.Shutdown(ctx) }()

				sessionUseCase, err := container.SessionUseCase()
				if err != nil {
					return err
				}

				return commands.RunListSessions(
					ctx,
					sessionUseCase,
					commands.DefaultIO().Writer,
					cmd.String("staff-id"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "revoke-sessions",
			Usage: "Delete every session for a staff member",
			Flags: []cli.Flag{
				passphraseFlag(),
				&cli.StringFlag{
					Name:     "staff-id",
					Aliases:  []string{"s"},
					Required: true,
					Usage:    "Staff ID (UUID)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := newContainer(cmd.String("passphrase"))
				defer func() { _ = container.Shutdown(ctx) }()

				sessionUseCase, err := container.SessionUseCase()
				if err != nil {
					return err
				}

				return commands.RunRevokeSessions(
					ctx,
					sessionUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("staff-id"),
				)
			},
		},
	}
}
