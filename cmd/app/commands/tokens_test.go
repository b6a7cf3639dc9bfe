package commands

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	authService "github.com/meditrack/trustcore/internal/auth/service"
)

func TestTokenCommands(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	claimsService := authService.NewClaimsService(
		"command-test-signing-secret",
		"meditrack",
		"meditrack-app",
		time.Hour,
	)
	staffID := uuid.New()

	t.Run("issue-and-verify", func(t *testing.T) {
		var issued bytes.Buffer
		err := RunIssueToken(claimsService, logger, &issued, staffID.String(), "nurse@clinic.test", "nurse")
		require.NoError(t, err)

		token := strings.TrimSpace(issued.String())
		require.NotEmpty(t, token)

		var verified bytes.Buffer
		err = RunVerifyToken(claimsService, &verified, token, "text")
		require.NoError(t, err)
		require.Contains(t, verified.String(), staffID.String())
		require.Contains(t, verified.String(), "nurse@clinic.test")
	})

	t.Run("verify-json-output", func(t *testing.T) {
		var issued bytes.Buffer
		require.NoError(t, RunIssueToken(claimsService, logger, &issued, staffID.String(), "admin@clinic.test", "admin"))

		var verified bytes.Buffer
		err := RunVerifyToken(claimsService, &verified, strings.TrimSpace(issued.String()), "json")
		require.NoError(t, err)
		require.Contains(t, verified.String(), `"role": "admin"`)
	})

	t.Run("refresh", func(t *testing.T) {
		var issued bytes.Buffer
		require.NoError(t, RunIssueToken(claimsService, logger, &issued, staffID.String(), "nurse@clinic.test", "nurse"))

		var refreshed bytes.Buffer
		err := RunRefreshToken(claimsService, logger, &refreshed, strings.TrimSpace(issued.String()))
		require.NoError(t, err)

		var verified bytes.Buffer
		err = RunVerifyToken(claimsService, &verified, strings.TrimSpace(refreshed.String()), "text")
		require.NoError(t, err)
		require.Contains(t, verified.String(), staffID.String())
	})

	t.Run("invalid-staff-id", func(t *testing.T) {
		err := RunIssueToken(claimsService, logger, &bytes.Buffer{}, "not-a-uuid", "nurse@clinic.test", "nurse")
		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid staff id")
	})

	t.Run("verify-garbage", func(t *testing.T) {
		err := RunVerifyToken(claimsService, &bytes.Buffer{}, "not.a.token", "text")
		require.Error(t, err)
		require.Contains(t, err.Error(), "token verification failed")
	})
}
