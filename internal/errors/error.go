// Package errors provides sentinel errors shared across the service layers.
// Transport handlers match on them with errors.Is to pick status codes.
package errors

import "errors"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrMissingFields   = errors.New("name, price, and category are required")

	ErrSearchDisabled = errors.New("search index is not configured")

	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidOTP         = errors.New("invalid or expired OTP")
)
