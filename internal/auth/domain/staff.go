package domain

import (
	"github.com/google/uuid"
)

// Staff is the slice of a staff directory record this module needs to
// authenticate a login. The directory itself (staff CRUD, roles, profile
// data) lives outside this module.
type Staff struct {
	ID           uuid.UUID
	Email        string
	Role         string
	PasswordHash string
	IsActive     bool
}

// LoginOutput carries the credentials handed back after a successful login: a
// signed claims token for API calls and a server-side session for the
// interactive desktop client.
type LoginOutput struct {
	Token   string
	Session *Session
}
