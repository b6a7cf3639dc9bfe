package main

import (
	"github.com/urfave/cli/v3"

	"github.com/meditrack/trustcore/internal/app"
	"github.com/meditrack/trustcore/internal/config"
)

func getCommands(version string) []*cli.Command {
	cmds := []*cli.Command{}
	cmds = append(cmds, getSystemCommands(version)...)
	cmds = append(cmds, getVaultCommands()...)
	cmds = append(cmds, getAuthCommands()...)
	return cmds
}

// newContainer builds the DI container from the environment, forwarding the
// vault passphrase when one was given.
func newContainer(passphrase string) *app.Container {
	cfg := config.Load()
	container := app.NewContainer(cfg)
	if passphrase != "" {
		container.SetPassphrase(passphrase)
	}
	return container
}

// passphraseFlag unlocks the vault when VAULT_MODE is "passphrase".
func passphraseFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "passphrase",
		Aliases: []string{"p"},
		Usage:   "Vault passphrase (only used when VAULT_MODE is 'passphrase')",
		Sources: cli.EnvVars("VAULT_PASSPHRASE"),
	}
}

// formatFlag selects the command output format.
func formatFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   "text",
		Usage:   "Output format: 'text' or 'json'",
	}
}
