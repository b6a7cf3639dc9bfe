// Package service provides authentication services for staff access: signed
// token issuance and verification, session bearer generation and Argon2id
// password hashing.
package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	authDomain "github.com/meditrack/trustcore/internal/auth/domain"
	apperrors "github.com/meditrack/trustcore/internal/errors"
	vaultService "github.com/meditrack/trustcore/internal/vault/service"
)

// claimsService implements ClaimsService using HMAC-SHA256 signed tokens.
// The signing key is derived from the configured secret at construction time
// and held only in memory, so it is reproducible across restarts without
// being persisted separately.
type claimsService struct {
	signingKey []byte
	issuer     string
	audience   string
	duration   time.Duration
}

// Issue mints a signed token for the given staff identity.
// Sets iat and nbf to now, exp to now plus the configured duration, and a
// fresh jti so every token is distinguishable even for the same subject.
func (c *claimsService) Issue(staffID uuid.UUID, email string, role string) (string, error) {
	now := time.Now().UTC()

	claims := &authDomain.Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   staffID.String(),
			Issuer:    c.issuer,
			Audience:  jwt.ClaimStrings{c.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.duration)),
			ID:        uuid.Must(uuid.NewV7()).String(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.signingKey)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to sign token")
	}

	return signed, nil
}

// Verify validates a token and returns its claims.
//
// Checks the signature first, then expiry, then not-before, then
// issuer/audience. Only expiry and not-before surface as their own errors;
// every other failure collapses to ErrTokenInvalid so callers cannot probe
// why signature validation failed.
func (c *claimsService) Verify(tokenString string) (*authDomain.Claims, error) {
	claims := &authDomain.Claims{}

	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(*jwt.Token) (any, error) { return c.signingKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithAudience(c.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, authDomain.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, authDomain.ErrTokenNotYetValid
		default:
			return nil, authDomain.ErrTokenInvalid
		}
	}

	return claims, nil
}

// Refresh verifies a still-valid token and mints a fresh one for the same
// subject, email and role. The new token gets fresh timestamps and a new jti.
// Refreshing an expired token fails the same way Verify would.
func (c *claimsService) Refresh(tokenString string) (string, error) {
	claims, err := c.Verify(tokenString)
	if err != nil {
		return "", err
	}

	staffID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return "", authDomain.ErrTokenInvalid
	}

	return c.Issue(staffID, claims.Email, claims.Role)
}

// DecodeUnverified parses a token's claims without checking signature or time
// bounds. Never use the result for authorization decisions.
func (c *claimsService) DecodeUnverified(tokenString string) (*authDomain.Claims, error) {
	claims := &authDomain.Claims{}

	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, authDomain.ErrTokenInvalid
	}

	return claims, nil
}

// NewClaimsService creates a ClaimsService signing with a key derived from
// the given secret. The same secret always produces the same signing key, so
// tokens survive process restarts.
func NewClaimsService(secret string, issuer string, audience string, duration time.Duration) ClaimsService {
	return &claimsService{
		signingKey: vaultService.DeriveFromPassphrase(secret),
		issuer:     issuer,
		audience:   audience,
		duration:   duration,
	}
}
