package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bookhollow/bookhollow-server/internal/service"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "register",
		Method:        http.MethodPost,
		Path:          "/register",
		Summary:       "Register new user",
		Description:   "Creates a new account under the chosen username.",
		Tags:          []string{"Authentication"},
		DefaultStatus: http.StatusCreated,
	}, s.handleRegister)

	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/login",
		Summary:     "User login",
		Description: "Authenticates a user and returns an access token.",
		Tags:        []string{"Authentication"},
	}, s.handleLogin)
}

// === DTOs ===

// RegisterRequest is the request body for user registration.
type RegisterRequest struct {
	UserID      string `json:"user_id" validate:"required,min=3,max=64" doc:"Chosen username, doubles as the account ID"`
	Password    string `json:"password" validate:"required,min=8,max=1024" doc:"User password"`
	DisplayName string `json:"display_name" validate:"required,max=128" doc:"Public display name"`
	Email       string `json:"email" validate:"required,email,max=254" doc:"User email address"`
}

// RegisterInput wraps the register request for Huma.
type RegisterInput struct {
	Body RegisterRequest
}

// RegisterResponse contains the result of a registration.
type RegisterResponse struct {
	UserID  string `json:"user_id" doc:"Created user ID"`
	Message string `json:"message" doc:"Status message"`
}

// RegisterOutput wraps the register response for Huma.
type RegisterOutput struct {
	Body RegisterResponse
}

// LoginRequest is the request body for user login.
type LoginRequest struct {
	UserID   string `json:"user_id" validate:"required" doc:"Username"`
	Password string `json:"password" validate:"required,max=1024" doc:"User password"`
}

// LoginInput wraps the login request for Huma.
type LoginInput struct {
	Body LoginRequest
}

// AuthResponse contains the issued access token.
type AuthResponse struct {
	Token     string    `json:"token" doc:"PASETO access token"`
	TokenType string    `json:"token_type" doc:"Token type (Bearer)"`
	ExpiresAt time.Time `json:"expires_at" doc:"Token expiry time"`
}

// AuthOutput wraps the auth response for Huma.
type AuthOutput struct {
	Body AuthResponse
}

// === Handlers ===

func (s *Server) handleRegister(ctx context.Context, input *RegisterInput) (*RegisterOutput, error) {
	resp, err := s.services.Auth.Register(ctx, service.RegisterRequest{
		UserID:      input.Body.UserID,
		Password:    input.Body.Password,
		DisplayName: input.Body.DisplayName,
		Email:       input.Body.Email,
	})
	if err != nil {
		return nil, err
	}

	return &RegisterOutput{
		Body: RegisterResponse{
			UserID:  resp.UserID,
			Message: resp.Message,
		},
	}, nil
}

func (s *Server) handleLogin(ctx context.Context, input *LoginInput) (*AuthOutput, error) {
	resp, err := s.services.Auth.Login(ctx, service.LoginRequest{
		UserID:   input.Body.UserID,
		Password: input.Body.Password,
	})
	if err != nil {
		return nil, err
	}

	return &AuthOutput{
		Body: AuthResponse{
			Token:     resp.Token,
			TokenType: "Bearer",
			ExpiresAt: resp.ExpiresAt,
		},
	}, nil
}
