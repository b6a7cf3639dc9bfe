package domain

import (
	"github.com/meditrack/trustcore/internal/errors"
)

// Authentication errors.
var (
	// ErrTokenExpired indicates a signed token past its expiry claim.
	ErrTokenExpired = errors.Wrap(errors.ErrUnauthorized, "token expired")

	// ErrTokenNotYetValid indicates a signed token used before its nbf claim.
	ErrTokenNotYetValid = errors.Wrap(errors.ErrUnauthorized, "token not yet valid")

	// ErrTokenInvalid indicates a malformed, tampered or otherwise unusable token.
	ErrTokenInvalid = errors.Wrap(errors.ErrUnauthorized, "token invalid")

	// ErrSessionNotFound indicates no session exists for the given token or ID.
	ErrSessionNotFound = errors.Wrap(errors.ErrNotFound, "session not found")

	// ErrStaffNotFound indicates no staff directory record for the given email.
	ErrStaffNotFound = errors.Wrap(errors.ErrNotFound, "staff not found")

	// ErrSessionInvalid indicates a bearer token with no matching live session.
	ErrSessionInvalid = errors.Wrap(errors.ErrUnauthorized, "session invalid")

	// ErrSessionExpired indicates a session past its absolute lifetime.
	ErrSessionExpired = errors.Wrap(errors.ErrUnauthorized, "session expired")

	// ErrSessionIdleTimeout indicates a session invalidated by inactivity.
	ErrSessionIdleTimeout = errors.Wrap(errors.ErrUnauthorized, "session idle timeout")

	// ErrInvalidCredentials indicates a failed login. Deliberately covers both
	// unknown staff and wrong password so callers cannot tell them apart.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")

	// ErrLoginLocked indicates too many failed login attempts for a staff member.
	ErrLoginLocked = errors.Wrap(errors.ErrUnauthorized, "too many failed login attempts")
)
