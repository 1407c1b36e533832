package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	gserrors "github.com/tvmanh/goshop/internal/errors"
	"github.com/tvmanh/goshop/internal/user"
	"github.com/tvmanh/goshop/pkg/web"
)

// UserHandler serves registration, login and password-reset endpoints.
type UserHandler struct {
	service  user.UserService
	validate *validator.Validate
	logger   *slog.Logger
}

func NewUserHandler(service user.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger.With("component", "rest"),
	}
}

// RegisterRoutes mounts the public account routes and the token-protected
// ones behind the provided auth middleware.
func (h *UserHandler) RegisterRoutes(r chi.Router, auth func(http.Handler) http.Handler) {
	r.Route("/v1/api", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/forgot-password", h.ForgotPassword)
		r.Post("/check-otp", h.CheckOTP)
		r.Post("/reset-password", h.ResetPassword)

		r.Group(func(r chi.Router) {
			r.Use(auth)
			r.Get("/user", h.List)
			r.Get("/account", h.Account)
		})
	})
}

// Register creates a new account.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var dto user.RegisterDto
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		web.RespondError(w, mLogger, http.StatusBadRequest, web.CodeDomain, "Invalid request body")
		return
	}
	if err := h.validate.Struct(dto); err != nil {
		mLogger.WarnContext(r.Context(), "Registration validation failed", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, web.CodeDomain,
			"Name, email, and password are required")
		return
	}
	created, err := h.service.Register(r.Context(), dto)
	if err != nil {
		if errors.Is(err, gserrors.ErrEmailTaken) {
			web.RespondError(w, mLogger, http.StatusConflict, web.CodeDomain, "Email already registered")
			return
		}
		mLogger.ErrorContext(r.Context(), "Error registering user", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, web.CodeServer, "Failed to register user")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusCreated, web.Envelope{EC: web.CodeOK, Data: created})
}

// Login verifies credentials and returns an access token.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var dto user.LoginDto
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		web.RespondError(w, mLogger, http.StatusBadRequest, web.CodeDomain, "Invalid request body")
		return
	}
	if err := h.validate.Struct(dto); err != nil {
		web.RespondError(w, mLogger, http.StatusBadRequest, web.CodeDomain, "Email and password are required")
		return
	}
	result, err := h.service.Login(r.Context(), dto)
	if err != nil {
		if errors.Is(err, gserrors.ErrInvalidCredentials) {
			web.RespondError(w, mLogger, http.StatusUnauthorized, web.CodeDomain, "Invalid email or password")
			return
		}
		mLogger.ErrorContext(r.Context(), "Error logging in", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, web.CodeServer, "Failed to log in")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, web.Envelope{EC: web.CodeOK, Data: result})
}

// List returns all accounts. Requires a valid token.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	users, err := h.service.List(r.Context())
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error listing users", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, web.CodeServer, "Failed to fetch users")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, web.Envelope{EC: web.CodeOK, Data: users})
}

// Account echoes the identity carried by the verified token.
func (h *UserHandler) Account(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		web.RespondError(w, mLogger, http.StatusUnauthorized, web.CodeDomain, "Invalid or expired token")
		return
	}
	account := user.UserDto{
		ID:    claims.Subject,
		Name:  claims.Name,
		Email: claims.Email,
		Role:  claims.Role,
	}
	web.RespondJSON(w, mLogger, http.StatusOK, web.Envelope{EC: web.CodeOK, Data: account})
}

// ForgotPassword issues an OTP to the given email. An unknown email is
// reported as not found so the SPA can tell the user to check the address.
func (h *UserHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var dto struct {
		Email string `json:"email" validate:"required,email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		web.RespondError(w, mLogger, http.StatusBadRequest, web.CodeDomain, "Invalid request body")
		return
	}
	if err := h.validate.Struct(dto); err != nil {
		web.RespondError(w, mLogger, http.StatusBadRequest, web.CodeDomain, "Email is required")
		return
	}
	if err := h.service.ForgotPassword(r.Context(), dto.Email); err != nil {
		if errors.Is(err, gserrors.ErrUserNotFound) {
			web.RespondError(w, mLogger, http.StatusNotFound, web.CodeDomain, "Email not registered")
			return
		}
		mLogger.ErrorContext(r.Context(), "Error issuing password reset code", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, web.CodeServer, "Failed to send reset code")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, web.Envelope{EC: web.CodeOK, EM: "Reset code sent"})
}

// CheckOTP verifies a reset code without consuming it.
func (h *UserHandler) CheckOTP(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var dto struct {
		Email string `json:"email" validate:"required,email"`
		OTP   string `json:"otp" validate:"required,len=6"`
	}
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		web.RespondError(w, mLogger, http.StatusBadRequest, web.CodeDomain, "Invalid request body")
		return
	}
	if err := h.validate.Struct(dto); err != nil {
		web.RespondError(w, mLogger, http.StatusBadRequest, web.CodeDomain, "Email and OTP are required")
		return
	}
	if err := h.service.CheckOTP(r.Context(), dto.Email, dto.OTP); err != nil {
		if errors.Is(err, gserrors.ErrInvalidOTP) {
			web.RespondError(w, mLogger, http.StatusBadRequest, web.CodeDomain, "Invalid or expired OTP")
			return
		}
		mLogger.ErrorContext(r.Context(), "Error checking OTP", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, web.CodeServer, "Failed to verify OTP")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, web.Envelope{EC: web.CodeOK, EM: "OTP is valid"})
}

// ResetPassword sets a new password after OTP verification.
func (h *UserHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var dto user.ResetPasswordDto
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		web.RespondError(w, mLogger, http.StatusBadRequest, web.CodeDomain, "Invalid request body")
		return
	}
	if err := h.validate.Struct(dto); err != nil {
		web.RespondError(w, mLogger, http.StatusBadRequest, web.CodeDomain,
			"Email, OTP, and new password are required")
		return
	}
	if err := h.service.ResetPassword(r.Context(), dto); err != nil {
		if errors.Is(err, gserrors.ErrInvalidOTP) {
			web.RespondError(w, mLogger, http.StatusBadRequest, web.CodeDomain, "Invalid or expired OTP")
			return
		}
		mLogger.ErrorContext(r.Context(), "Error resetting password", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, web.CodeServer, "Failed to reset password")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, web.Envelope{EC: web.CodeOK, EM: "Password updated"})
}

func (h *UserHandler) loggerWithReqID(r *http.Request) *slog.Logger {
	reqID := middleware.GetReqID(r.Context())
	return h.logger.With("request_id", reqID)
}
