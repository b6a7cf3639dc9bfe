package commands

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	authService "github.com/meditrack/trustcore/internal/auth/service"
)

// RunIssueToken mints a signed token for the given staff member and writes it
// to the writer.
func RunIssueToken(
	claimsService authService.ClaimsService,
	logger *slog.Logger,
	writer io.Writer,
	staffID string,
	email string,
	role string,
) error {
	id, err := uuid.Parse(staffID)
	if err != nil {
		return fmt.Errorf("invalid staff id: %w", err)
	}

	token, err := claimsService.Issue(id, email, role)
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}

	logger.Info("token issued", slog.String("staff_id", staffID), slog.String("role", role))
	fmt.Fprintln(writer, token)
	return nil
}

// RunVerifyToken verifies a signed token and prints its claims. Supports both
// text/JSON output formats.
func RunVerifyToken(
	claimsService authService.ClaimsService,
	writer io.Writer,
	token string,
	format string,
) error {
	claims, err := claimsService.Verify(token)
	if err != nil {
		return fmt.Errorf("token verification failed: %w", err)
	}

	if format == "json" {
		return writeJSON(writer, map[string]any{
			"staff_id":   claims.StaffID(),
			"email":      claims.Email,
			"role":       claims.Role,
			"issued_at":  claims.IssuedAt,
			"expires_at": claims.ExpiresAt,
		})
	}

	fmt.Fprintf(writer, "Staff ID: %s\n", claims.StaffID())
	fmt.Fprintf(writer, "Email: %s\n", claims.Email)
	fmt.Fprintf(writer, "Role: %s\n", claims.Role)
	fmt.Fprintf(writer, "Expires at: %s\n", claims.ExpiresAt)
	return nil
}

// RunRefreshToken exchanges a valid token for a fresh one with a renewed
// expiry and writes it to the writer.
func RunRefreshToken(
	claimsService authService.ClaimsService,
	logger *slog.Logger,
	writer io.Writer,
	token string,
) error {
	refreshed, err := claimsService.Refresh(token)
	if err != nil {
		return fmt.Errorf("failed to refresh token: %w", err)
	}

	logger.Info("token refreshed")
	fmt.Fprintln(writer, refreshed)
	return nil
}
