package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bookhollow/bookhollow-server/internal/auth"
	"github.com/bookhollow/bookhollow-server/internal/domain"
	domainerrors "github.com/bookhollow/bookhollow-server/internal/errors"
	"github.com/bookhollow/bookhollow-server/internal/id"
	"github.com/bookhollow/bookhollow-server/internal/store"
)

// AuthService handles registration, login and token verification.
type AuthService struct {
	store        *store.Store
	tokenService *auth.TokenService
	logger       *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(s *store.Store, tokenService *auth.TokenService, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:        s,
		tokenService: tokenService,
		logger:       logger,
	}
}

// RegisterRequest contains user registration data. The user ID is the
// registrant-chosen username and doubles as the login identifier.
type RegisterRequest struct {
	UserID      string `json:"user_id" validate:"required,min=3,max=64"`
	Password    string `json:"password" validate:"required,min=8,max=1024"`
	DisplayName string `json:"display_name" validate:"required,max=128"`
	Email       string `json:"email" validate:"required,email"`
}

// RegisterResponse contains the result of a registration request.
type RegisterResponse struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

// LoginRequest contains user credentials.
type LoginRequest struct {
	UserID   string `json:"user_id" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse contains the issued access token.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Register creates a new user account.
// Returns a conflict error if the username is already taken.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	// Usernames end up in URLs and store keys, so hold them to the same
	// shape as generated identifiers.
	if !id.Valid(req.UserID) {
		return nil, domainerrors.Validation("user_id may only contain letters, digits, '-' and '_'")
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Record:       domain.Record{ID: req.UserID},
		PasswordHash: passwordHash,
		DisplayName:  req.DisplayName,
		Email:        req.Email,
		Starred:      []string{},
	}
	user.InitTimestamps()

	if err := s.store.CreateUser(ctx, user); err != nil {
		if domainerrors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("username already exists")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("User registered", "user_id", user.ID)
	}

	return &RegisterResponse{
		UserID:  user.ID,
		Message: "User registered successfully",
	}, nil
}

// Login verifies credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	user, err := s.store.GetUser(ctx, req.UserID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			// Don't leak whether the username exists
			return nil, domainerrors.InvalidCredentials("invalid username or password")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	valid, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return nil, domainerrors.InvalidCredentials("invalid username or password")
	}

	token, err := s.tokenService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("User logged in", "user_id", user.ID)
	}

	return &AuthResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(s.tokenService.AccessTokenDuration()),
	}, nil
}

// VerifyAccessToken verifies a bearer token and returns the user it binds.
// Any decode or validation failure reads as unauthorized.
func (s *AuthService) VerifyAccessToken(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokenService.VerifyAccessToken(token)
	if err != nil {
		return nil, domainerrors.Unauthorized("invalid or expired token")
	}

	user, err := s.store.GetUser(ctx, claims.UserID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.Unauthorized("user no longer exists")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return user, nil
}
