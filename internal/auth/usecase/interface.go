// Package usecase defines business logic interfaces for staff authentication.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/meditrack/trustcore/internal/auth/domain"
)

// SessionRepository defines persistence operations for login sessions.
// Implementations must support transaction-aware operations via context propagation.
type SessionRepository interface {
	// Create stores a new session in the repository.
	Create(ctx context.Context, session *authDomain.Session) error

	// GetByToken retrieves a session by its bearer token. Returns
	// ErrSessionNotFound if not found.
	GetByToken(ctx context.Context, token string) (*authDomain.Session, error)

	// UpdateLastActivity bumps last_activity_at for the session with the
	// given token, returning the number of rows affected.
	UpdateLastActivity(ctx context.Context, token string, at time.Time) (int64, error)

	// DeleteByToken removes the session with the given token.
	DeleteByToken(ctx context.Context, token string) error

	// DeleteByStaff removes every session for a staff member.
	DeleteByStaff(ctx context.Context, staffID uuid.UUID) (int64, error)

	// DeleteExpired removes every session past its absolute expiry.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)

	// CountExpired counts sessions past their absolute expiry.
	CountExpired(ctx context.Context, now time.Time) (int64, error)

	// ListActiveByStaff lists a staff member's unexpired sessions.
	ListActiveByStaff(ctx context.Context, staffID uuid.UUID, now time.Time) ([]*authDomain.Session, error)
}

// StaffDirectory looks up staff records for login. The directory is owned by
// the surrounding application; this module only reads from it.
type StaffDirectory interface {
	// GetByEmail retrieves a staff record by email. Returns ErrStaffNotFound
	// if no record exists.
	GetByEmail(ctx context.Context, email string) (*authDomain.Staff, error)
}

// SessionUseCase defines business logic operations for login sessions.
type SessionUseCase interface {
	// Create opens a new session for a staff member with a fresh bearer token.
	Create(ctx context.Context, staffID uuid.UUID, ipAddress *string, userAgent *string) (*authDomain.Session, error)

	// Validate checks a bearer token against the registry. Expired and idle
	// sessions are deleted on sight; a live session gets its activity bumped.
	Validate(ctx context.Context, token string) (*authDomain.Session, error)

	// Get retrieves a session without validating or touching it.
	Get(ctx context.Context, token string) (*authDomain.Session, error)

	// Delete revokes a single session (logout).
	Delete(ctx context.Context, token string) error

	// DeleteAllForStaff revokes every session for a staff member
	// (logout everywhere). Returns how many were revoked.
	DeleteAllForStaff(ctx context.Context, staffID uuid.UUID) (int64, error)

	// SweepExpired bulk-deletes sessions past their absolute expiry. With
	// dryRun it only counts them.
	SweepExpired(ctx context.Context, dryRun bool) (int64, error)

	// ListActive lists a staff member's unexpired sessions, newest first.
	ListActive(ctx context.Context, staffID uuid.UUID) ([]*authDomain.Session, error)
}

// LoginUseCase defines the interactive login flow.
type LoginUseCase interface {
	// Login authenticates a staff member by email and password, returning a
	// signed claims token and a fresh session.
	Login(ctx context.Context, email string, password string, ipAddress *string, userAgent *string) (*authDomain.LoginOutput, error)

	// Logout revokes the session with the given bearer token.
	Logout(ctx context.Context, token string) error

	// LogoutEverywhere revokes every session for a staff member.
	LogoutEverywhere(ctx context.Context, staffID uuid.UUID) (int64, error)
}
