package domain

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload carried by signed staff tokens. Embeds the registered
// claim set (sub, iss, aud, iat, nbf, exp, jti) and adds the staff identity
// fields the application reads on every request.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// StaffID returns the subject claim, the staff member's identifier.
func (c *Claims) StaffID() string {
	return c.Subject
}
