// Package common defines shared constants and sentinel errors used across
// the bookstore server, its repositories and the admin CLI. Callers should
// use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Uniqueness violations reported by the credential store.
	ErrDuplicateUsername = errors.New("username already exists")
	ErrDuplicateEmail    = errors.New("email already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// ErrInvalidCredentials is returned for both an unknown username and a
	// wrong password so callers cannot tell the two apart.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrValidation marks malformed input rejected before it reaches storage.
	ErrValidation = errors.New("validation error")
)
