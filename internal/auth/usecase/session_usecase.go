package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/meditrack/trustcore/internal/auth/domain"
	authService "github.com/meditrack/trustcore/internal/auth/service"
)

// sessionUseCase implements SessionUseCase for server-side login sessions.
type sessionUseCase struct {
	sessionRepo   SessionRepository
	bearerService authService.BearerService
	logger        *slog.Logger
}

// Create opens a new session for a staff member.
//
// Generates a fresh high-entropy bearer token, sets the absolute expiry to
// now plus the fixed session duration and starts the idle clock at now.
func (s *sessionUseCase) Create(
	ctx context.Context,
	staffID uuid.UUID,
	ipAddress *string,
	userAgent *string,
) (*authDomain.Session, error) {
	token, err := s.bearerService.GenerateToken()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	session := &authDomain.Session{
		ID:             uuid.Must(uuid.NewV7()),
		StaffID:        staffID,
		Token:          token,
		IPAddress:      ipAddress,
		UserAgent:      userAgent,
		ExpiresAt:      now.Add(authDomain.SessionDuration),
		LastActivityAt: now,
		CreatedAt:      now,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// Validate checks a bearer token and bumps the session's activity clock.
//
// An unknown token fails with ErrSessionInvalid. A session past its absolute
// expiry or idle timeout is deleted on sight and fails with ErrSessionExpired
// or ErrSessionIdleTimeout. The activity bump is a single-field update; if it
// affects zero rows the session was revoked concurrently (for example by a
// logout-everywhere on the same staff member) and the call fails with
// ErrSessionInvalid rather than a hard error.
func (s *sessionUseCase) Validate(ctx context.Context, token string) (*authDomain.Session, error) {
	session, err := s.sessionRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, authDomain.ErrSessionNotFound) {
			return nil, authDomain.ErrSessionInvalid
		}
		return nil, err
	}

	now := time.Now().UTC()

	if session.HardExpired(now) {
		if err := s.sessionRepo.DeleteByToken(ctx, token); err != nil {
			return nil, err
		}
		return nil, authDomain.ErrSessionExpired
	}

	if session.IdleExpired(now) {
		if err := s.sessionRepo.DeleteByToken(ctx, token); err != nil {
			return nil, err
		}
		return nil, authDomain.ErrSessionIdleTimeout
	}

	affected, err := s.sessionRepo.UpdateLastActivity(ctx, token, now)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, authDomain.ErrSessionInvalid
	}

	session.LastActivityAt = now
	return session, nil
}

// Get retrieves a session by token without touching it. Returns
// ErrSessionNotFound if no session exists; time bounds are not checked.
func (s *sessionUseCase) Get(ctx context.Context, token string) (*authDomain.Session, error) {
	return s.sessionRepo.GetByToken(ctx, token)
}

// Delete revokes a single session. Revoking an already-gone session succeeds.
func (s *sessionUseCase) Delete(ctx context.Context, token string) error {
	return s.sessionRepo.DeleteByToken(ctx, token)
}

// DeleteAllForStaff revokes every session for a staff member.
func (s *sessionUseCase) DeleteAllForStaff(ctx context.Context, staffID uuid.UUID) (int64, error) {
	count, err := s.sessionRepo.DeleteByStaff(ctx, staffID)
	if err != nil {
		return 0, err
	}

	s.logger.Info(
		"revoked staff sessions",
		slog.String("staff_id", staffID.String()),
		slog.Int64("count", count),
	)
	return count, nil
}

// SweepExpired bulk-deletes sessions past their absolute expiry so abandoned
// sessions do not accumulate even without being probed. With dryRun it only
// reports how many would be deleted.
func (s *sessionUseCase) SweepExpired(ctx context.Context, dryRun bool) (int64, error) {
	now := time.Now().UTC()

	if dryRun {
		return s.sessionRepo.CountExpired(ctx, now)
	}

	count, err := s.sessionRepo.DeleteExpired(ctx, now)
	if err != nil {
		return 0, err
	}

	if count > 0 {
		s.logger.Info("swept expired sessions", slog.Int64("count", count))
	}
	return count, nil
}

// ListActive lists a staff member's unexpired sessions, newest first.
// Idle-expired sessions still appear until a validate or sweep removes them.
func (s *sessionUseCase) ListActive(ctx context.Context, staffID uuid.UUID) ([]*authDomain.Session, error) {
	return s.sessionRepo.ListActiveByStaff(ctx, staffID, time.Now().UTC())
}

// NewSessionUseCase creates a new SessionUseCase with the provided dependencies.
func NewSessionUseCase(
	sessionRepo SessionRepository,
	bearerService authService.BearerService,
	logger *slog.Logger,
) SessionUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &sessionUseCase{
		sessionRepo:   sessionRepo,
		bearerService: bearerService,
		logger:        logger,
	}
}
