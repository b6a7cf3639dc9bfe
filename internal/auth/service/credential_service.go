package service

import (
	"github.com/allisson/go-pwdhash"

	apperrors "github.com/meditrack/trustcore/internal/errors"
)

// credentialService implements CredentialService using Argon2id for staff
// password hashing.
type credentialService struct {
	hasher *pwdhash.PasswordHasher
}

// HashPassword hashes a plain text password using Argon2id.
func (c *credentialService) HashPassword(plainPassword string) (string, error) {
	hashedPassword, err := c.hasher.Hash([]byte(plainPassword))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash password")
	}
	return hashedPassword, nil
}

// ComparePassword performs a constant-time comparison between a plain
// password and its hash.
func (c *credentialService) ComparePassword(plainPassword string, hashedPassword string) bool {
	ok, err := c.hasher.Verify([]byte(plainPassword), hashedPassword)
	if err != nil {
		return false
	}
	return ok
}

// NewCredentialService creates a new CredentialService instance using
// Argon2id hashing with the Moderate policy.
func NewCredentialService() CredentialService {
	hasher, err := pwdhash.New(
		pwdhash.WithPolicy(pwdhash.PolicyModerate),
	)
	if err != nil {
		// This should never happen with valid policy
		panic(err)
	}

	return &credentialService{
		hasher: hasher,
	}
}
