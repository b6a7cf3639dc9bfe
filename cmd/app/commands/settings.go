package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	vaultDomain "github.com/meditrack/trustcore/internal/vault/domain"
	vaultService "github.com/meditrack/trustcore/internal/vault/service"
)

// RunSettingsInit creates the encrypted settings file with compiled-in
// defaults. It refuses to overwrite an existing file.
func RunSettingsInit(
	ctx context.Context,
	store *vaultService.Store,
	logger *slog.Logger,
	writer io.Writer,
) error {
	path, err := store.Path()
	if err != nil {
		return fmt.Errorf("failed to resolve settings path: %w", err)
	}

	if store.Exists() {
		fmt.Fprintf(writer, "Settings file already exists at %s\n", path)
		return nil
	}

	settings := vaultDomain.DefaultSettings()
	if err := store.Save(ctx, settings); err != nil {
		return fmt.Errorf("failed to save default settings: %w", err)
	}

	logger.Info("settings file created", slog.String("path", path))
	fmt.Fprintf(writer, "Settings file created at %s\n", path)
	fmt.Fprintln(writer, "Warning: the token signing secret is still the shipped default, rotate it before production use")
	return nil
}

// RunSettingsShow prints the decrypted settings without secret material.
func RunSettingsShow(
	ctx context.Context,
	store *vaultService.Store,
	writer io.Writer,
	format string,
) error {
	settings, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	if format == "json" {
		return writeJSON(writer, map[string]any{
			"database": map[string]any{
				"host":            settings.Database.Host,
				"port":            settings.Database.Port,
				"database":        settings.Database.Database,
				"username":        settings.Database.Username,
				"max_connections": settings.Database.MaxConnections,
				"min_connections": settings.Database.MinConnections,
				"connect_timeout": settings.Database.ConnectTimeout,
				"idle_timeout":    settings.Database.IdleTimeout,
			},
			"jwt": map[string]any{
				"issuer":           settings.JWT.Issuer,
				"audience":         settings.JWT.Audience,
				"expiration_hours": settings.JWT.ExpirationHours,
				"default_secret":   settings.JWT.IsDefaultSecret(),
			},
		})
	}

	fmt.Fprintf(writer, "Database: %s\n", settings.Database.SafeRepr())
	fmt.Fprintf(writer, "Token issuer: %s\n", settings.JWT.Issuer)
	fmt.Fprintf(writer, "Token audience: %s\n", settings.JWT.Audience)
	fmt.Fprintf(writer, "Token expiration: %dh\n", settings.JWT.ExpirationHours)
	if settings.JWT.IsDefaultSecret() {
		fmt.Fprintln(writer, "Warning: the token signing secret is still the shipped default")
	}
	return nil
}

// RunSettingsExport decrypts the settings and writes them as plaintext JSON to
// the given path for backup or migration to another machine.
func RunSettingsExport(
	ctx context.Context,
	store *vaultService.Store,
	logger *slog.Logger,
	writer io.Writer,
	path string,
) error {
	if path == "" {
		return fmt.Errorf("export path is required")
	}

	if err := store.ExportPlain(ctx, path); err != nil {
		return fmt.Errorf("failed to export settings: %w", err)
	}

	logger.Info("settings exported", slog.String("path", path))
	fmt.Fprintf(writer, "Settings exported to %s\n", path)
	fmt.Fprintln(writer, "Warning: the exported file contains plaintext secrets, delete it after use")
	return nil
}

// RunSettingsImport reads a plaintext JSON settings file and persists it
// encrypted under the current vault cipher.
func RunSettingsImport(
	ctx context.Context,
	store *vaultService.Store,
	logger *slog.Logger,
	writer io.Writer,
	path string,
) error {
	if path == "" {
		return fmt.Errorf("import path is required")
	}

	settings, err := store.Import(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to import settings: %w", err)
	}

	logger.Info("settings imported", slog.String("database", settings.Database.SafeRepr()))
	fmt.Fprintf(writer, "Settings imported, database target: %s\n", settings.Database.SafeRepr())
	return nil
}

// RunSettingsDelete removes the encrypted settings file. The force flag is
// required to avoid accidental deletion.
func RunSettingsDelete(
	ctx context.Context,
	store *vaultService.Store,
	logger *slog.Logger,
	writer io.Writer,
	force bool,
) error {
	if !force {
		return fmt.Errorf("refusing to delete settings without --force")
	}

	path, err := store.Path()
	if err != nil {
		return fmt.Errorf("failed to resolve settings path: %w", err)
	}

	if err := store.Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete settings: %w", err)
	}

	logger.Info("settings file deleted", slog.String("path", path))
	fmt.Fprintf(writer, "Settings file deleted at %s\n", path)
	return nil
}
