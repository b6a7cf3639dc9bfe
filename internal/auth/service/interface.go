package service

import (
	"github.com/google/uuid"

	authDomain "github.com/meditrack/trustcore/internal/auth/domain"
)

// ClaimsService issues and verifies signed staff tokens.
type ClaimsService interface {
	// Issue mints a signed token for the given staff identity.
	Issue(staffID uuid.UUID, email string, role string) (string, error)

	// Verify checks signature, time bounds and issuer/audience, returning the
	// decoded claims on success.
	Verify(tokenString string) (*authDomain.Claims, error)

	// Refresh verifies a still-valid token and mints a fresh one with the same
	// subject, email and role.
	Refresh(tokenString string) (string, error)

	// DecodeUnverified parses claims without checking signature or time
	// bounds. Unsafe for authorization decisions; diagnostics only.
	DecodeUnverified(tokenString string) (*authDomain.Claims, error)
}

// BearerService generates opaque session bearer tokens.
type BearerService interface {
	GenerateToken() (string, error)
}

// CredentialService hashes and verifies staff passwords.
type CredentialService interface {
	HashPassword(plainPassword string) (string, error)
	ComparePassword(plainPassword string, hashedPassword string) bool
}
