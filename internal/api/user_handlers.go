package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bookhollow/bookhollow-server/internal/service"
)

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-profile",
		Method:      http.MethodGet,
		Path:        "/api/user",
		Summary:     "Get own profile",
		Description: "Returns the caller's account with the starred set hydrated into books.",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "star-book",
		Method:      http.MethodPost,
		Path:        "/api/user/star",
		Summary:     "Star a book",
		Description: "Adds a book to the caller's starred set. Idempotent.",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleStarBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "unstar-book",
		Method:      http.MethodDelete,
		Path:        "/api/user/star",
		Summary:     "Unstar a book",
		Description: "Removes a book from the caller's starred set. Idempotent.",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUnstarBook)
}

// === DTOs ===

// ProfileOutput wraps the profile response for Huma.
type ProfileOutput struct {
	Body service.Profile
}

// StarRequest names the book to star or unstar.
type StarRequest struct {
	BookID string `json:"book_id" validate:"required,max=64" doc:"Book ID"`
}

// StarInput wraps the star request for Huma.
type StarInput struct {
	Body StarRequest
}

// === Handlers ===

func (s *Server) handleGetProfile(ctx context.Context, _ *struct{}) (*ProfileOutput, error) {
	user, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	profile, err := s.services.User.GetProfile(ctx, user)
	if err != nil {
		return nil, err
	}
	return &ProfileOutput{Body: *profile}, nil
}

func (s *Server) handleStarBook(ctx context.Context, input *StarInput) (*MessageOutput, error) {
	user, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.User.Star(ctx, user, input.Body.BookID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Book starred"}}, nil
}

func (s *Server) handleUnstarBook(ctx context.Context, input *StarInput) (*MessageOutput, error) {
	user, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.User.Unstar(ctx, user, input.Body.BookID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Book unstarred"}}, nil
}
