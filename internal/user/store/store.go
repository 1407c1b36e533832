// Package store provides relational persistence for user accounts.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// User is the account record. PasswordHash and the OTP fields never leave
// the service layer.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Role         string
	OTP          string
	OTPExpiresAt *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserStore is an interface for user storage operations.
type UserStore interface {
	// FindByEmail retrieves a user by email.
	// Returns ErrUserNotFound if no such account exists.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// Create adds a new account with the default User role.
	// Returns ErrEmailTaken if the email is already registered.
	Create(ctx context.Context, name, email, passwordHash string) (*User, error)

	// List returns all accounts.
	List(ctx context.Context) ([]User, error)

	// SetOTP stores a one-time password and its expiry on the account.
	SetOTP(ctx context.Context, id uuid.UUID, otp string, expiresAt time.Time) error

	// FindByEmailOTP retrieves the account matching email and an unexpired
	// OTP. Returns ErrInvalidOTP otherwise.
	FindByEmailOTP(ctx context.Context, email, otp string) (*User, error)

	// ResetPassword replaces the password hash and clears any OTP.
	ResetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}
