package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	authUsecase "github.com/meditrack/trustcore/internal/auth/usecase"
)

// RunListSessions prints the active sessions for a staff member. Supports both
// text/JSON output formats.
//
// Requirements: Database must be migrated and accessible.
func RunListSessions(
	ctx context.Context,
	sessionUseCase authUsecase.SessionUseCase,
	writer io.Writer,
	staffID string,
	format string,
) error {
	id, err := uuid.Parse(staffID)
	if err != nil {
		return fmt.Errorf("invalid staff id: %w", err)
	}

	sessions, err := sessionUseCase.ListActive(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	if format == "json" {
		items := make([]map[string]any, 0, len(sessions))
		for _, session := range sessions {
			items = append(items, map[string]any{
				"id":               session.ID,
				"created_at":       session.CreatedAt.Format(time.RFC3339),
				"last_activity_at": session.LastActivityAt.Format(time.RFC3339),
				"expires_at":       session.ExpiresAt.Format(time.RFC3339),
				"ip_address":       session.IPAddress,
				"user_agent":       session.UserAgent,
			})
		}
		return writeJSON(writer, map[string]any{
			"staff_id": staffID,
			"count":    len(sessions),
			"sessions": items,
		})
	}

	fmt.Fprintf(writer, "%d active session(s) for staff %s\n", len(sessions), staffID)
	for _, session := range sessions {
		fmt.Fprintf(
			writer,
			"- %s created=%s last_activity=%s expires=%s\n",
			session.ID,
			session.CreatedAt.Format(time.RFC3339),
			session.LastActivityAt.Format(time.RFC3339),
			session.ExpiresAt.Format(time.RFC3339),
		)
	}
	return nil
}

// RunRevokeSessions deletes every session for a staff member, forcing a fresh
// login on all their devices.
//
// Requirements: Database must be migrated and accessible.
func RunRevokeSessions(
	ctx context.Context,
	sessionUseCase authUsecase.SessionUseCase,
	logger *slog.Logger,
	writer io.Writer,
	staffID string,
) error {
	id, err := uuid.Parse(staffID)
	if err != nil {
		return fmt.Errorf("invalid staff id: %w", err)
	}

	count, err := sessionUseCase.DeleteAllForStaff(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}

	logger.Info("sessions revoked",
		slog.String("staff_id", staffID),
		slog.Int64("count", count),
	)
	fmt.Fprintf(writer, "Revoked %d session(s) for staff %s\n", count, staffID)
	return nil
}
