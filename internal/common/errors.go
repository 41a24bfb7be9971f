// Package common defines shared constants and sentinel errors used across
// the server and client layers of csvdrop. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Request errors, mapped to HTTP statuses at the REST boundary.
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict")
	ErrAuth       = errors.New("unauthorized")
	ErrStorage    = errors.New("storage error")

	// Service-level errors (generic/internal flow control).
	ErrInternal = errors.New("internal error")

	// Session token errors. Both are reported to callers as ErrAuth.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Upload mode switched off in configuration.
	ErrDisabled = errors.New("disabled")
)
