package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	authUsecase "github.com/meditrack/trustcore/internal/auth/usecase"
)

// RunSweepSessions deletes sessions past their absolute expiry. Supports
// dry-run mode to preview the deletion count and both text/JSON output formats.
//
// Requirements: Database must be migrated and accessible.
func RunSweepSessions(
	ctx context.Context,
	sessionUseCase authUsecase.SessionUseCase,
	logger *slog.Logger,
	writer io.Writer,
	dryRun bool,
	format string,
) error {
	logger.Info("sweeping expired sessions", slog.Bool("dry_run", dryRun))

	count, err := sessionUseCase.SweepExpired(ctx, dryRun)
	if err != nil {
		return fmt.Errorf("failed to sweep expired sessions: %w", err)
	}

	if format == "json" {
		if err := writeJSON(writer, map[string]any{
			"count":   count,
			"dry_run": dryRun,
		}); err != nil {
			return err
		}
	} else {
		if dryRun {
			fmt.Fprintf(writer, "Dry-run mode: Would delete %d expired session(s)\n", count)
		} else {
			fmt.Fprintf(writer, "Successfully deleted %d expired session(s)\n", count)
		}
	}

	logger.Info("sweep completed",
		slog.Int64("count", count),
		slog.Bool("dry_run", dryRun),
	)

	return nil
}
