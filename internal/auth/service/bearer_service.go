package service

import (
	"crypto/rand"
	"math/big"

	authDomain "github.com/meditrack/trustcore/internal/auth/domain"
	apperrors "github.com/meditrack/trustcore/internal/errors"
)

const bearerChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// bearerService implements BearerService using [A-Za-z0-9] characters drawn
// from a cryptographically secure random source.
type bearerService struct{}

// GenerateToken creates a fixed-length random alphanumeric bearer string.
// Each character is drawn independently with rand.Int to avoid modulo bias.
func (b *bearerService) GenerateToken() (string, error) {
	token := make([]byte, authDomain.SessionTokenLength)
	charsLen := big.NewInt(int64(len(bearerChars)))

	for i := range token {
		n, err := rand.Int(rand.Reader, charsLen)
		if err != nil {
			return "", apperrors.Wrap(err, "failed to generate random character")
		}
		token[i] = bearerChars[n.Int64()]
	}

	return string(token), nil
}

// NewBearerService creates a new session bearer token generator.
func NewBearerService() BearerService {
	return &bearerService{}
}
