// Package domain defines the settings document persisted by the vault and
// its validation rules. The settings document is the only structured payload
// the vault encrypts; collaborators read its plain fields after load and never
// reach into vault internals.
package domain

import (
	"fmt"
	"time"

	validation "github.com/jellydator/validation"

	apperrors "github.com/meditrack/trustcore/internal/errors"
)

// DefaultJWTSecret ships with fresh installs and must be rotated before the
// application is used with real data. Validation flags it, the vault does not.
const DefaultJWTSecret = "change-this-in-production-meditrack-secret-key"

// DatabaseSettings holds the connection parameters for the application database.
type DatabaseSettings struct {
	Host           string `json:"host"`
	Port           int    `json:"port"`
	Database       string `json:"database"`
	Username       string `json:"username"`
	Password       string `json:"password"`
	MaxConnections int    `json:"max_connections"`
	MinConnections int    `json:"min_connections"`
	// ConnectTimeout is the connection timeout in seconds.
	ConnectTimeout int `json:"connect_timeout"`
	// IdleTimeout is the pool idle timeout in seconds.
	IdleTimeout int `json:"idle_timeout"`
}

// ConnectionURL builds a PostgreSQL connection URL from the settings.
func (d DatabaseSettings) ConnectionURL() string {
	return fmt.Sprintf(
		"postgresql://%s:%s@%s:%d/%s",
		d.Username, d.Password, d.Host, d.Port, d.Database,
	)
}

// IdleTimeoutDuration returns the pool idle timeout as a duration.
func (d DatabaseSettings) IdleTimeoutDuration() time.Duration {
	return time.Duration(d.IdleTimeout) * time.Second
}

// SafeRepr returns a loggable representation without the password.
func (d DatabaseSettings) SafeRepr() string {
	return fmt.Sprintf("PostgreSQL: %s@%s:%d/%s", d.Username, d.Host, d.Port, d.Database)
}

// Validate checks the database settings.
func (d DatabaseSettings) Validate() error {
	err := validation.ValidateStruct(&d,
		validation.Field(&d.Host, validation.Required),
		validation.Field(&d.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&d.Database, validation.Required),
		validation.Field(&d.Username, validation.Required),
		validation.Field(&d.MaxConnections, validation.Min(1)),
		validation.Field(&d.MinConnections, validation.Min(0)),
	)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
	}
	if d.MinConnections > d.MaxConnections {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "min_connections exceeds max_connections")
	}
	return nil
}

// TokenSettings holds the signed-token parameters consumed by the claims service.
type TokenSettings struct {
	Secret          string `json:"secret"`
	Issuer          string `json:"issuer"`
	Audience        string `json:"audience"`
	ExpirationHours int    `json:"expiration_hours"`
}

// Validate checks the token settings.
func (t TokenSettings) Validate() error {
	err := validation.ValidateStruct(&t,
		validation.Field(&t.Secret, validation.Required, validation.Length(16, 0)),
		validation.Field(&t.Issuer, validation.Required),
		validation.Field(&t.Audience, validation.Required),
		validation.Field(&t.ExpirationHours, validation.Required, validation.Min(1)),
	)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
	}
	return nil
}

// IsDefaultSecret reports whether the shipped placeholder secret is still in use.
func (t TokenSettings) IsDefaultSecret() bool {
	return t.Secret == DefaultJWTSecret
}

// Settings is the structured configuration document persisted by the vault.
// It is created with compiled-in defaults, loaded at startup, mutated only
// through explicit update-and-save operations and never partially written.
type Settings struct {
	Database DatabaseSettings `json:"database"`
	JWT      TokenSettings    `json:"jwt"`
}

// Validate checks the whole settings document.
func (s Settings) Validate() error {
	if err := s.Database.Validate(); err != nil {
		return err
	}
	return s.JWT.Validate()
}

// DefaultSettings returns the compiled-in defaults used when no settings file
// exists yet.
func DefaultSettings() *Settings {
	return &Settings{
		Database: DatabaseSettings{
			Host:           "localhost",
			Port:           5432,
			Database:       "meditrack",
			Username:       "meditrack",
			Password:       "meditrack_dev_password",
			MaxConnections: 10,
			MinConnections: 2,
			ConnectTimeout: 30,
			IdleTimeout:    600,
		},
		JWT: TokenSettings{
			Secret:          DefaultJWTSecret,
			Issuer:          "meditrack",
			Audience:        "meditrack-app",
			ExpirationHours: 24,
		},
	}
}
