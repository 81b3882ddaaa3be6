package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/coursetrack/coursetrack-go/internal/crypto"
	"github.com/coursetrack/coursetrack-go/internal/mailer"
	"github.com/coursetrack/coursetrack-go/internal/model"
	"github.com/coursetrack/coursetrack-go/internal/repository"
)

var (
	ErrUsernameRequired   = errors.New("username is required")
	ErrEmailRequired      = errors.New("email is required")
	ErrInvalidPassword    = errors.New("invalid password format")
	ErrEmailTaken         = errors.New("email already available")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidResetToken  = errors.New("invalid or expired token")
	ErrMailTransport      = errors.New("failed to send reset email")
)

const minPasswordLength = 8

// UserStore is the credential persistence surface the auth service needs.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

// AuthService handles registration, login and the password reset flow.
type AuthService struct {
	users         UserStore
	mailer        mailer.Mailer
	jwtSecret     string
	sessionExpiry time.Duration
	resetExpiry   time.Duration
	appBaseURL    string
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, m mailer.Mailer, secret string, sessionExpiry, resetExpiry time.Duration, appBaseURL string) *AuthService {
	return &AuthService{
		users:         users,
		mailer:        m,
		jwtSecret:     secret,
		sessionExpiry: sessionExpiry,
		resetExpiry:   resetExpiry,
		appBaseURL:    appBaseURL,
	}
}

// Register creates a new user account.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) error {
	if req.Username == "" {
		return ErrUsernameRequired
	}
	if req.Email == "" {
		return ErrEmailRequired
	}
	if len(req.Password) < minPasswordLength {
		return ErrInvalidPassword
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return err
	}

	user := &model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	}

	// The unique index is the authority here; the repository maps the
	// constraint violation, so concurrent registrations cannot both pass.
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return ErrEmailTaken
		}
		return err
	}

	return nil
}

// Login authenticates a user and returns a session token.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.LoginResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.LoginResponse{}, ErrUserNotFound
		}
		return model.LoginResponse{}, err
	}

	match, err := crypto.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return model.LoginResponse{}, err
	}
	if !match {
		return model.LoginResponse{}, ErrInvalidCredentials
	}

	token, err := crypto.GenerateSessionToken(user.ID, s.jwtSecret, s.sessionExpiry)
	if err != nil {
		return model.LoginResponse{}, err
	}

	return model.LoginResponse{Token: token, UserID: user.ID}, nil
}

// GetUser retrieves a user by ID and returns safe user data.
func (s *AuthService) GetUser(ctx context.Context, userID int64) (model.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.UserResponse{}, ErrUserNotFound
		}
		return model.UserResponse{}, err
	}

	return model.UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}, nil
}

// ForgotPassword issues a short-lived reset token and mails the reset link.
// Token issuance succeeds and is logged even when mail delivery fails; the
// transport failure is reported distinctly from an unknown email.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	token, err := crypto.GenerateResetToken(user.ID, user.PasswordHash, s.jwtSecret, s.resetExpiry)
	if err != nil {
		return err
	}

	slog.Info("password reset token issued", "user_id", user.ID, "expiry", s.resetExpiry)

	link := fmt.Sprintf("%s/reset-password?token=%s", s.appBaseURL, url.QueryEscape(token))
	if err := s.mailer.SendPasswordReset(ctx, user.Email, link); err != nil {
		slog.Error("reset mail delivery failed", "user_id", user.ID, "error", err)
		return ErrMailTransport
	}

	return nil
}

// ResetPassword validates a reset token and replaces the user's password.
// The token carries a fingerprint of the hash it was issued against, so a
// token that already changed the password cannot be replayed.
func (s *AuthService) ResetPassword(ctx context.Context, req model.ResetPasswordRequest) error {
	if len(req.Password) < minPasswordLength {
		return ErrInvalidPassword
	}

	claims, err := crypto.ValidateToken(req.Token, s.jwtSecret, crypto.PurposeReset)
	if err != nil {
		return ErrInvalidResetToken
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if claims.PasswordFP != crypto.HashFingerprint(user.PasswordHash) {
		return ErrInvalidResetToken
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return err
	}

	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}

	slog.Info("password reset completed", "user_id", user.ID)
	return nil
}
