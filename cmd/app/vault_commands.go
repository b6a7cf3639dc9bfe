package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/meditrack/trustcore/cmd/app/commands"
)

func getVaultCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "settings-init",
			Usage: "Create the encrypted settings file with default values",
			Flags: []cli.Flag{
				passphraseFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := newContainer(cmd.String("passphrase"))
				defer func() { _ = container.Shutdown(ctx) }()

				store, err := container.VaultStore()
				if err != nil {
					return err
				}

				return commands.RunSettingsInit(ctx, store, container.Logger(), commands.DefaultIO().Writer)
			},
		},
		{
			Name:  "settings-show",
			Usage: "Print the decrypted settings without secret material",
			Flags: []cli.Flag{
				passphraseFlag(),
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := newContainer(cmd.String("passphrase"))
				defer func() { _ = container.Shutdown(ctx) }()

				store, err := container.VaultStore()
				if err != nil {
					return err
				}

				return commands.RunSettingsShow(ctx, store, commands.DefaultIO().Writer, cmd.String("format"))
			},
		},
		{
			Name:  "settings-export",
			Usage: "Decrypt the settings and write them as plaintext JSON",
			Flags: []cli.Flag{
				passphraseFlag(),
				&cli.StringFlag{
					Name:     "output",
					Aliases:  []string{"o"},
					Required: true,
					Usage:    "Destination path for the plaintext JSON file",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := newContainer(cmd.String("passphrase"))
				defer func() { _ = container.Shutdown(ctx) }()

				store, err := container.VaultStore()
				if err != nil {
					return err
				}

				return commands.RunSettingsExport(
					ctx,
					store,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("output"),
				)
			},
		},
		{
			Name:  "settings-import",
			Usage: "Read a plaintext JSON settings file and persist it encrypted",
			Flags: []cli.Flag{
				passphraseFlag(),
				&cli.StringFlag{
					Name:     "input",
					Aliases:  []string{"i"},
					Required: true,
					Usage:    "Path of the plaintext JSON file to import",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := newContainer(cmd.String("passphrase"))
				defer func() { _ = container.Shutdown(ctx) }()

				store, err := container.VaultStore()
				if err != nil {
					return err
				}

				return commands.RunSettingsImport(
					ctx,
					store,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("input"),
				)
			},
		},
		{
			Name:  "settings-delete",
			Usage: "Delete the encrypted settings file",
			Flags: []cli.Flag{
				passphraseFlag(),
				&cli.BoolFlag{
					Name:  "force",
					Value: false,
					Usage: "Confirm deletion of the settings file",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := newContainer(cmd.String("passphrase"))
				defer func() { _ = container.Shutdown(ctx) }()

				store, err := container.VaultStore()
				if err != nil {
					return err
				}

				return commands.RunSettingsDelete(
					ctx,
					store,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.Bool("force"),
				)
			},
		},
	}
}
