package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session is a server-side login session identified by an opaque bearer token.
// The token is stored verbatim; it carries no claims and is only meaningful
// while this row exists.
type Session struct {
	ID             uuid.UUID
	StaffID        uuid.UUID
	Token          string
	IPAddress      *string
	UserAgent      *string
	ExpiresAt      time.Time
	LastActivityAt time.Time
	CreatedAt      time.Time
}

// HardExpired reports whether the absolute lifetime has elapsed at the given
// instant.
func (s *Session) HardExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// IdleExpired reports whether the session has been inactive past the idle
// timeout at the given instant.
func (s *Session) IdleExpired(now time.Time) bool {
	return now.Sub(s.LastActivityAt) > SessionIdleTimeout
}
