package domain

import (
	"github.com/meditrack/trustcore/internal/errors"
)

// Vault error definitions.
//
// These domain-specific errors wrap standard errors from internal/errors so
// callers can match on the broad kind (errors.ErrNotFound, errors.ErrDecryption)
// while still getting vault context in messages.
var (
	// ErrSettingsNotFound indicates no settings file exists at the vault path.
	// This is a recoverable condition: the caller is expected to fall back to
	// compiled-in defaults rather than treat it as a failure.
	ErrSettingsNotFound = errors.Wrap(errors.ErrNotFound, "settings not found")

	// ErrVaultDirNotSet indicates the vault was constructed without a directory.
	ErrVaultDirNotSet = errors.Wrap(errors.ErrInvalidConfig, "vault directory not provided")

	// ErrCiphertextTooShort indicates the encrypted blob is shorter than the
	// nonce and cannot possibly decrypt. Treated as tampering.
	ErrCiphertextTooShort = errors.Wrap(errors.ErrDecryption, "ciphertext too short")
)
