// Package domain defines authentication domain models for staff access.
// Covers signed JWT claims for API calls and server-side sessions with
// absolute and idle expiry.
package domain

import "time"

const (
	// TokenIssuer identifies tokens minted by this application.
	TokenIssuer = "meditrack"

	// TokenAudience is the audience claim stamped on every token.
	TokenAudience = "meditrack-app"

	// TokenDuration is the default validity window for signed tokens.
	TokenDuration = 24 * time.Hour

	// SessionTokenLength is the length of the opaque bearer string.
	SessionTokenLength = 64

	// SessionDuration is the absolute lifetime of a session.
	SessionDuration = 8 * time.Hour

	// SessionIdleTimeout invalidates a session with no activity for this long,
	// even if the absolute lifetime has not elapsed.
	SessionIdleTimeout = 30 * time.Minute
)
