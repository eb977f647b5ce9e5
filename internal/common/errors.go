// Package common defines shared constants and sentinel errors used across
// the server and client sides of studiogate. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound     = errors.New("not found")
	ErrCorruptStore = errors.New("corrupt credential store")

	// Service-level errors.
	ErrInternal           = errors.New("internal error")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("invalid data")
	ErrUserExists         = errors.New("user exists")
	ErrForbidden          = errors.New("forbidden")

	// Integration errors.
	ErrNotConfigured = errors.New("integration not configured")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
