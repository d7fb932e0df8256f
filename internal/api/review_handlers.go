package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bookhollow/bookhollow-server/internal/domain"
	"github.com/bookhollow/bookhollow-server/internal/service"
)

func (s *Server) registerReviewRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "create-review",
		Method:        http.MethodPost,
		Path:          "/api/showbooks/{id}/comments",
		Summary:       "Review a book",
		Description:   "Appends a review to the book and refreshes its average score.",
		Tags:          []string{"Reviews"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateReview)

	huma.Register(s.api, huma.Operation{
		OperationID: "edit-review",
		Method:      http.MethodPut,
		Path:        "/api/user/comments/{id}",
		Summary:     "Edit own review",
		Description: "Updates score, summary or text of a review the caller authored.",
		Tags:        []string{"Reviews"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleEditReview)

	huma.Register(s.api, huma.Operation{
		OperationID: "delete-review",
		Method:      http.MethodDelete,
		Path:        "/api/user/comments/{id}",
		Summary:     "Delete own review",
		Tags:        []string{"Reviews"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteReview)

	huma.Register(s.api, huma.Operation{
		OperationID: "list-own-reviews",
		Method:      http.MethodGet,
		Path:        "/api/user/comments",
		Summary:     "List own reviews",
		Description: "Returns every review the caller has authored, across all books.",
		Tags:        []string{"Reviews"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListOwnReviews)
}

// === DTOs ===

// CreateReviewInput wraps the review creation request for Huma.
type CreateReviewInput struct {
	ID   string `path:"id" maxLength:"64" doc:"Book ID"`
	Body service.CreateReviewRequest
}

// CreateReviewOutput wraps the review creation response for Huma.
type CreateReviewOutput struct {
	Body service.CreateReviewResponse
}

// EditReviewInput wraps the review edit request for Huma.
type EditReviewInput struct {
	ID   string `path:"id" maxLength:"64" doc:"Review ID"`
	Body service.EditReviewRequest
}

// DeleteReviewInput identifies the review to delete.
type DeleteReviewInput struct {
	ID string `path:"id" maxLength:"64" doc:"Review ID"`
}

// MessageResponse contains a simple message.
type MessageResponse struct {
	Message string `json:"message" doc:"Success message"`
}

// MessageOutput wraps the message response for Huma.
type MessageOutput struct {
	Body MessageResponse
}

// ReviewListResponse holds the caller's reviews.
type ReviewListResponse struct {
	Reviews []domain.Review `json:"reviews"`
}

// ReviewListOutput wraps the review list for Huma.
type ReviewListOutput struct {
	Body ReviewListResponse
}

// === Handlers ===

func (s *Server) handleCreateReview(ctx context.Context, input *CreateReviewInput) (*CreateReviewOutput, error) {
	user, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := s.services.Review.Create(ctx, user, input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &CreateReviewOutput{Body: *resp}, nil
}

func (s *Server) handleEditReview(ctx context.Context, input *EditReviewInput) (*MessageOutput, error) {
	user, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Review.Edit(ctx, user, input.ID, input.Body); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Review updated"}}, nil
}

func (s *Server) handleDeleteReview(ctx context.Context, input *DeleteReviewInput) (*MessageOutput, error) {
	user, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Review.Delete(ctx, user, input.ID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Review deleted"}}, nil
}

func (s *Server) handleListOwnReviews(ctx context.Context, _ *struct{}) (*ReviewListOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	reviews, err := s.services.Review.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ReviewListOutput{Body: ReviewListResponse{Reviews: reviews}}, nil
}
