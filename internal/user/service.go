package user

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"

	gserrors "github.com/tvmanh/goshop/internal/errors"
	"github.com/tvmanh/goshop/internal/mail"
	"github.com/tvmanh/goshop/internal/user/store"
)

const (
	bcryptCost = 10
	otpTTL     = 5 * time.Minute
)

// RegisterDto is the payload for creating a new account.
type RegisterDto struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginDto is the payload for authenticating an account.
type LoginDto struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ResetPasswordDto is the payload for setting a new password with an OTP.
type ResetPasswordDto struct {
	Email    string `json:"email" validate:"required,email"`
	OTP      string `json:"otp" validate:"required,len=6"`
	Password string `json:"password" validate:"required,min=6"`
}

// UserDto is the account representation returned by the API. It never
// carries the password hash or OTP state.
type UserDto struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// LoginResult carries the access token together with the account it was
// issued for.
type LoginResult struct {
	AccessToken string  `json:"access_token"`
	User        UserDto `json:"user"`
}

// UserService defines the operations for account management.
type UserService interface {
	Register(ctx context.Context, dto RegisterDto) (*UserDto, error)
	Login(ctx context.Context, dto LoginDto) (*LoginResult, error)
	List(ctx context.Context) ([]UserDto, error)
	ForgotPassword(ctx context.Context, email string) error
	CheckOTP(ctx context.Context, email, otp string) error
	ResetPassword(ctx context.Context, dto ResetPasswordDto) error
}

// Service implements UserService on top of a UserStore.
type Service struct {
	repository store.UserStore
	tokens     *TokenIssuer
	mailer     mail.Mailer
	logger     *slog.Logger
}

func NewService(repo store.UserStore, tokens *TokenIssuer, mailer mail.Mailer, logger *slog.Logger) *Service {
	return &Service{
		repository: repo,
		tokens:     tokens,
		mailer:     mailer,
		logger:     logger.With("component", "user_service"),
	}
}

// Register creates a new account with a bcrypt password hash.
func (s *Service) Register(ctx context.Context, dto RegisterDto) (*UserDto, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user, err := s.repository.Create(ctx, dto.Name, dto.Email, string(hash))
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "user registered", "id", user.ID, "email", user.Email)
	return toDto(user), nil
}

// Login verifies credentials and issues an access token.
// Returns ErrInvalidCredentials when the email is unknown or the password
// does not match, without distinguishing the two cases.
func (s *Service) Login(ctx context.Context, dto LoginDto) (*LoginResult, error) {
	user, err := s.repository.FindByEmail(ctx, dto.Email)
	if err != nil {
		if errors.Is(err, gserrors.ErrUserNotFound) {
			return nil, gserrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(dto.Password)); err != nil {
		return nil, gserrors.ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{AccessToken: token, User: *toDto(user)}, nil
}

// List returns all accounts without credential material.
func (s *Service) List(ctx context.Context) ([]UserDto, error) {
	users, err := s.repository.List(ctx)
	if err != nil {
		return nil, err
	}
	dtos := make([]UserDto, 0, len(users))
	for i := range users {
		dtos = append(dtos, *toDto(&users[i]))
	}
	return dtos, nil
}

// ForgotPassword generates a 6-digit OTP, stores it on the account and
// emails it to the address on record.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.repository.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	otp, err := generateOTP()
	if err != nil {
		return fmt.Errorf("failed to generate OTP: %w", err)
	}
	if err := s.repository.SetOTP(ctx, user.ID, otp, time.Now().Add(otpTTL)); err != nil {
		return err
	}
	body := fmt.Sprintf(
		"<p>Hello %s,</p><p>Your password reset code is <b>%s</b>. It expires in 5 minutes.</p>",
		user.Name, otp)
	if err := s.mailer.Send(ctx, user.Email, "Password reset code", body); err != nil {
		return fmt.Errorf("failed to send OTP mail: %w", err)
	}
	s.logger.InfoContext(ctx, "password reset OTP issued", "id", user.ID)
	return nil
}

// CheckOTP verifies that the OTP matches the account and has not expired.
func (s *Service) CheckOTP(ctx context.Context, email, otp string) error {
	_, err := s.repository.FindByEmailOTP(ctx, email, otp)
	return err
}

// ResetPassword sets a new password after OTP verification and invalidates
// the OTP.
func (s *Service) ResetPassword(ctx context.Context, dto ResetPasswordDto) error {
	user, err := s.repository.FindByEmailOTP(ctx, dto.Email, dto.OTP)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.repository.ResetPassword(ctx, user.ID, string(hash)); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "password reset completed", "id", user.ID)
	return nil
}

func toDto(u *store.User) *UserDto {
	return &UserDto{
		ID:    u.ID.String(),
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}

// generateOTP returns a uniformly random 6-digit code.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
