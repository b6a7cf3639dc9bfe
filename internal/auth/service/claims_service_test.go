package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/meditrack/trustcore/internal/auth/domain"
	apperrors "github.com/meditrack/trustcore/internal/errors"
)

const testSecret = "unit-test-signing-secret-with-enough-length"

func testClaimsService(duration time.Duration) ClaimsService {
	return NewClaimsService(testSecret, authDomain.TokenIssuer, authDomain.TokenAudience, duration)
}

func TestClaimsService_IssueAndVerify(t *testing.T) {
	svc := testClaimsService(authDomain.TokenDuration)
	staffID := uuid.Must(uuid.NewV7())

	tokenString, err := svc.Issue(staffID, "alice@pharmacy.test", "pharmacist")
	require.NoError(t, err)

	claims, err := svc.Verify(tokenString)
	require.NoError(t, err)

	assert.Equal(t, staffID.String(), claims.Subject)
	assert.Equal(t, staffID.String(), claims.StaffID())
	assert.Equal(t, "alice@pharmacy.test", claims.Email)
	assert.Equal(t, "pharmacist", claims.Role)
	assert.Equal(t, authDomain.TokenIssuer, claims.Issuer)
	assert.Contains(t, claims.Audience, authDomain.TokenAudience)
	assert.NotEmpty(t, claims.ID)

	// exp sits one configured duration after iat.
	assert.Equal(
		t,
		claims.IssuedAt.Time.Add(authDomain.TokenDuration),
		claims.ExpiresAt.Time,
	)
}

func TestClaimsService_VerifyExpired(t *testing.T) {
	svc := testClaimsService(-time.Hour)

	tokenString, err := svc.Issue(uuid.Must(uuid.NewV7()), "alice@pharmacy.test", "pharmacist")
	require.NoError(t, err)

	_, err = svc.Verify(tokenString)
	require.Error(t, err)
	assert.ErrorIs(t, err, authDomain.ErrTokenExpired)
	assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))
}

func TestClaimsService_VerifyNotYetValid(t *testing.T) {
	svc := testClaimsService(authDomain.TokenDuration).(*claimsService)
	future := time.Now().UTC().Add(time.Hour)

	// Hand-built token with nbf in the future, signed with the service key.
	claims := &authDomain.Claims{
		Email: "alice@pharmacy.test",
		Role:  "pharmacist",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.Must(uuid.NewV7()).String(),
			Issuer:    authDomain.TokenIssuer,
			Audience:  jwt.ClaimStrings{authDomain.TokenAudience},
			IssuedAt:  jwt.NewNumericDate(future),
			NotBefore: jwt.NewNumericDate(future),
			ExpiresAt: jwt.NewNumericDate(future.Add(time.Hour)),
			ID:        uuid.Must(uuid.NewV7()).String(),
		},
	}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(svc.signingKey)
	require.NoError(t, err)

	_, err = svc.Verify(tokenString)
	require.Error(t, err)
	assert.ErrorIs(t, err, authDomain.ErrTokenNotYetValid)
}

func TestClaimsService_VerifyInvalid(t *testing.T) {
	svc := testClaimsService(authDomain.TokenDuration)

	tokenString, err := svc.Issue(uuid.Must(uuid.NewV7()), "alice@pharmacy.test", "pharmacist")
	require.NoError(t, err)

	t.Run("TamperedPayload", func(t *testing.T) {
		tampered := []byte(tokenString)
		mid := len(tampered) / 2
		if tampered[mid] == 'A' {
			tampered[mid] = 'B'
		} else {
			tampered[mid] = 'A'
		}

		_, err := svc.Verify(string(tampered))
		assert.ErrorIs(t, err, authDomain.ErrTokenInvalid)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		other := NewClaimsService(
			"a-completely-different-signing-secret",
			authDomain.TokenIssuer,
			authDomain.TokenAudience,
			authDomain.TokenDuration,
		)

		_, err := other.Verify(tokenString)
		assert.ErrorIs(t, err, authDomain.ErrTokenInvalid)
	})

	t.Run("WrongIssuer", func(t *testing.T) {
		other := NewClaimsService(testSecret, "someone-else", authDomain.TokenAudience, authDomain.TokenDuration)

		_, err := other.Verify(tokenString)
		assert.ErrorIs(t, err, authDomain.ErrTokenInvalid)
	})

	t.Run("WrongAudience", func(t *testing.T) {
		other := NewClaimsService(testSecret, authDomain.TokenIssuer, "another-app", authDomain.TokenDuration)

		_, err := other.Verify(tokenString)
		assert.ErrorIs(t, err, authDomain.ErrTokenInvalid)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := svc.Verify("not.a.token")
		assert.ErrorIs(t, err, authDomain.ErrTokenInvalid)
	})
}

func TestClaimsService_Refresh(t *testing.T) {
	svc := testClaimsService(authDomain.TokenDuration)
	staffID := uuid.Must(uuid.NewV7())

	original, err := svc.Issue(staffID, "alice@pharmacy.test", "pharmacist")
	require.NoError(t, err)
	originalClaims, err := svc.Verify(original)
	require.NoError(t, err)

	refreshed, err := svc.Refresh(original)
	require.NoError(t, err)
	assert.NotEqual(t, original, refreshed)

	refreshedClaims, err := svc.Verify(refreshed)
	require.NoError(t, err)

	// Same identity, fresh token id and timestamps.
	assert.Equal(t, originalClaims.Subject, refreshedClaims.Subject)
	assert.Equal(t, originalClaims.Email, refreshedClaims.Email)
	assert.Equal(t, originalClaims.Role, refreshedClaims.Role)
	assert.NotEqual(t, originalClaims.ID, refreshedClaims.ID)
	assert.GreaterOrEqual(
		t,
		refreshedClaims.IssuedAt.Time.Unix(),
		originalClaims.IssuedAt.Time.Unix(),
	)
}

func TestClaimsService_RefreshExpired(t *testing.T) {
	svc := testClaimsService(-time.Hour)

	tokenString, err := svc.Issue(uuid.Must(uuid.NewV7()), "alice@pharmacy.test", "pharmacist")
	require.NoError(t, err)

	_, err = svc.Refresh(tokenString)
	assert.ErrorIs(t, err, authDomain.ErrTokenExpired)
}

func TestClaimsService_DecodeUnverified(t *testing.T) {
	svc := testClaimsService(-time.Hour)
	staffID := uuid.Must(uuid.NewV7())

	tokenString, err := svc.Issue(staffID, "alice@pharmacy.test", "pharmacist")
	require.NoError(t, err)

	// Expired tokens still decode; no time bounds are checked.
	claims, err := svc.DecodeUnverified(tokenString)
	require.NoError(t, err)
	assert.Equal(t, staffID.String(), claims.Subject)
	assert.Equal(t, "alice@pharmacy.test", claims.Email)

	// Tokens signed with another key still decode; no signature is checked.
	other := NewClaimsService(
		"a-completely-different-signing-secret",
		authDomain.TokenIssuer,
		authDomain.TokenAudience,
		authDomain.TokenDuration,
	)
	otherToken, err := other.Issue(staffID, "alice@pharmacy.test", "pharmacist")
	require.NoError(t, err)
	_, err = svc.DecodeUnverified(otherToken)
	assert.NoError(t, err)

	_, err = svc.DecodeUnverified("garbage")
	assert.ErrorIs(t, err, authDomain.ErrTokenInvalid)
}

func TestNewClaimsService_DeterministicSigningKey(t *testing.T) {
	first := testClaimsService(authDomain.TokenDuration)
	second := testClaimsService(authDomain.TokenDuration)

	// A token issued by one instance verifies in a freshly built one, as it
	// must across process restarts.
	tokenString, err := first.Issue(uuid.Must(uuid.NewV7()), "alice@pharmacy.test", "pharmacist")
	require.NoError(t, err)

	_, err = second.Verify(tokenString)
	assert.NoError(t, err)
}
