package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bookhollow/bookhollow-server/internal/domain"
	domainerrors "github.com/bookhollow/bookhollow-server/internal/errors"
	"github.com/bookhollow/bookhollow-server/internal/id"
	"github.com/bookhollow/bookhollow-server/internal/store"
)

// ReviewService handles review creation, editing and deletion. Every mutation
// runs through the store's per-book update cycle, so the cached score is never
// left stale.
type ReviewService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(s *store.Store, logger *slog.Logger) *ReviewService {
	return &ReviewService{store: s, logger: logger}
}

// CreateReviewRequest contains the caller-supplied review fields. Identifier,
// timestamp and denormalized names are always server-set.
type CreateReviewRequest struct {
	Score   float64 `json:"score" validate:"required,min=1,max=5"`
	Summary string  `json:"summary,omitempty" validate:"max=256"`
	Text    string  `json:"text,omitempty" validate:"max=8192"`
}

// EditReviewRequest carries the editable review fields. Nil fields are left
// unchanged; everything else about a review is immutable.
type EditReviewRequest struct {
	Score   *float64 `json:"score,omitempty" validate:"omitempty,min=1,max=5"`
	Summary *string  `json:"summary,omitempty" validate:"omitempty,max=256"`
	Text    *string  `json:"text,omitempty" validate:"omitempty,max=8192"`
}

// CreateReviewResponse reports the new review and the book's refreshed score.
type CreateReviewResponse struct {
	ReviewID     string  `json:"review_id"`
	AverageScore float64 `json:"averageScore"`
}

// Create appends a new review to the book on behalf of the user.
// Returns not found if the book is absent.
func (s *ReviewService) Create(ctx context.Context, user *domain.User, bookID string, req CreateReviewRequest) (*CreateReviewResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}
	if !id.Valid(bookID) {
		return nil, domainerrors.Validation("malformed book ID")
	}

	reviewID, err := id.Generate("rev")
	if err != nil {
		return nil, fmt.Errorf("generate review ID: %w", err)
	}

	review := domain.Review{
		ID:       reviewID,
		UserID:   user.ID,
		UserName: user.DisplayName,
		Score:    req.Score,
		Time:     time.Now(),
		Summary:  req.Summary,
		Text:     req.Text,
	}

	book, err := s.store.AddReview(ctx, bookID, review)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("book %s not found", bookID)
		}
		return nil, fmt.Errorf("add review: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Review created", "review_id", reviewID, "book_id", bookID, "user_id", user.ID)
	}

	return &CreateReviewResponse{
		ReviewID:     reviewID,
		AverageScore: book.AverageScore,
	}, nil
}

// Edit applies a partial update to the user's own review. The review is
// resolved globally by its ID; only score, summary and text may change, and
// the timestamp is reset to the edit time.
func (s *ReviewService) Edit(ctx context.Context, user *domain.User, reviewID string, req EditReviewRequest) error {
	if err := validate.Struct(req); err != nil {
		return formatValidationError(err)
	}

	book, err := s.findOwnedReview(ctx, user, reviewID)
	if err != nil {
		return err
	}

	_, err = s.store.UpdateReview(ctx, book.ID, reviewID, func(r *domain.Review) {
		if req.Score != nil {
			r.Score = *req.Score
		}
		if req.Summary != nil {
			r.Summary = *req.Summary
		}
		if req.Text != nil {
			r.Text = *req.Text
		}
		r.Time = time.Now()
	})
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFoundf("review %s not found", reviewID)
		}
		return fmt.Errorf("update review: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Review updated", "review_id", reviewID, "user_id", user.ID)
	}
	return nil
}

// Delete removes the user's own review. Absence anywhere in the store is not
// found; presence under another user is forbidden.
func (s *ReviewService) Delete(ctx context.Context, user *domain.User, reviewID string) error {
	book, err := s.findOwnedReview(ctx, user, reviewID)
	if err != nil {
		return err
	}

	if _, err := s.store.RemoveReview(ctx, book.ID, reviewID); err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFoundf("review %s not found", reviewID)
		}
		return fmt.Errorf("remove review: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Review deleted", "review_id", reviewID, "user_id", user.ID)
	}
	return nil
}

// ListByUser returns every review the user has authored, flattened across
// books.
func (s *ReviewService) ListByUser(ctx context.Context, userID string) ([]domain.Review, error) {
	reviews, err := s.store.ListReviewsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	return reviews, nil
}

// findOwnedReview resolves the review's owning book and verifies the user
// authored the review. Ownership never changes after creation, so the check
// stays valid through the subsequent locked mutation.
func (s *ReviewService) findOwnedReview(ctx context.Context, user *domain.User, reviewID string) (*domain.Book, error) {
	if !id.Valid(reviewID) {
		return nil, domainerrors.Validation("malformed review ID")
	}

	book, err := s.store.GetBookByReviewID(ctx, reviewID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("review %s not found", reviewID)
		}
		return nil, fmt.Errorf("resolve review: %w", err)
	}

	i := book.ReviewIndex(reviewID)
	if i < 0 {
		return nil, domainerrors.NotFoundf("review %s not found", reviewID)
	}
	if book.Reviews[i].UserID != user.ID {
		return nil, domainerrors.Forbidden("you do not own this review")
	}
	return book, nil
}
