package repository

import "errors"

var (
	// ErrDuplicateUsername and ErrDuplicateEmail map the Postgres unique
	// violations on the users table to typed errors the service layer can
	// translate into conflict responses.
	ErrDuplicateUsername = errors.New("username already exists")
	ErrDuplicateEmail    = errors.New("email already exists")
)
