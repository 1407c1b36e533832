package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	gserrors "github.com/tvmanh/goshop/internal/errors"
)

const userColumns = `id, name, email, password_hash, role, otp, otp_expires_at, created_at, updated_at`

// uniqueViolation is the PostgreSQL error code for a unique constraint breach.
const uniqueViolation = "23505"

// PgStore implements UserStore using PostgreSQL as the data store.
type PgStore struct {
	db *pgxpool.Pool
}

// NewPgStore creates a new instance of UserStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{db: dbp}
}

// FindByEmail retrieves a user by email.
// Returns ErrUserNotFound if no such account exists.
func (p *PgStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	row := p.db.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM users WHERE email = lower($1)`, userColumns), email)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, gserrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return user, nil
}

// Create adds a new account with the default User role.
// Returns ErrEmailTaken if the email is already registered.
func (p *PgStore) Create(ctx context.Context, name, email, passwordHash string) (*User, error) {
	row := p.db.QueryRow(ctx, fmt.Sprintf(`
		INSERT INTO users (name, email, password_hash)
		VALUES ($1, lower($2), $3)
		RETURNING %s`, userColumns),
		name, email, passwordHash)
	user, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, gserrors.ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// List returns all accounts, newest first.
func (p *PgStore) List(ctx context.Context) ([]User, error) {
	rows, err := p.db.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM users ORDER BY created_at DESC`, userColumns))
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read users: %w", err)
	}
	return users, nil
}

// SetOTP stores a one-time password and its expiry on the account.
func (p *PgStore) SetOTP(ctx context.Context, id uuid.UUID, otp string, expiresAt time.Time) error {
	tag, err := p.db.Exec(ctx,
		`UPDATE users SET otp = $2, otp_expires_at = $3, updated_at = now() WHERE id = $1`,
		id, otp, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to store OTP: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return gserrors.ErrUserNotFound
	}
	return nil
}

// FindByEmailOTP retrieves the account matching email and an unexpired OTP.
// Returns ErrInvalidOTP otherwise.
func (p *PgStore) FindByEmailOTP(ctx context.Context, email, otp string) (*User, error) {
	row := p.db.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM users
		WHERE email = lower($1) AND otp <> '' AND otp = $2 AND otp_expires_at > now()`, userColumns),
		email, otp)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, gserrors.ErrInvalidOTP
		}
		return nil, fmt.Errorf("failed to verify OTP: %w", err)
	}
	return user, nil
}

// ResetPassword replaces the password hash and clears any OTP.
func (p *PgStore) ResetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	tag, err := p.db.Exec(ctx, `
		UPDATE users
		SET password_hash = $2, otp = '', otp_expires_at = NULL, updated_at = now()
		WHERE id = $1`,
		id, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return gserrors.ErrUserNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role,
		&u.OTP, &u.OTPExpiresAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
