package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bookhollow/bookhollow-server/internal/color"
	"github.com/bookhollow/bookhollow-server/internal/domain"
	domainerrors "github.com/bookhollow/bookhollow-server/internal/errors"
	"github.com/bookhollow/bookhollow-server/internal/id"
	"github.com/bookhollow/bookhollow-server/internal/store"
)

// UserService serves profile reads and starred-set mutations.
type UserService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(s *store.Store, logger *slog.Logger) *UserService {
	return &UserService{store: s, logger: logger}
}

// Profile is the current user with credentials stripped and the starred set
// hydrated into full book documents.
type Profile struct {
	User         domain.User   `json:"user"`
	AvatarColor  string        `json:"avatar_color"`
	StarredBooks []domain.Book `json:"starred_books"`
}

// GetProfile returns the user's profile. Starred book IDs that no longer
// resolve are skipped rather than failing the whole read.
func (s *UserService) GetProfile(ctx context.Context, user *domain.User) (*Profile, error) {
	starred := make([]domain.Book, 0, len(user.Starred))
	for _, bookID := range user.Starred {
		book, err := s.store.GetBook(ctx, bookID)
		if err != nil {
			if domainerrors.Is(err, store.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("hydrate starred book %s: %w", bookID, err)
		}
		starred = append(starred, *book)
	}

	return &Profile{
		User:         user.Sanitized(),
		AvatarColor:  color.ForUser(user.ID),
		StarredBooks: starred,
	}, nil
}

// Star adds a book ID to the user's starred set. Idempotent: starring an
// already-starred book succeeds without change.
func (s *UserService) Star(ctx context.Context, user *domain.User, bookID string) error {
	if !id.Valid(bookID) {
		return domainerrors.Validation("malformed book ID")
	}

	_, err := s.store.MutateUser(ctx, user.ID, func(u *domain.User) error {
		u.Star(bookID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("star book: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Book starred", "user_id", user.ID, "book_id", bookID)
	}
	return nil
}

// Unstar removes a book ID from the user's starred set. Idempotent: removing
// an absent book succeeds without change.
func (s *UserService) Unstar(ctx context.Context, user *domain.User, bookID string) error {
	if !id.Valid(bookID) {
		return domainerrors.Validation("malformed book ID")
	}

	_, err := s.store.MutateUser(ctx, user.ID, func(u *domain.User) error {
		u.Unstar(bookID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("unstar book: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Book unstarred", "user_id", user.ID, "book_id", bookID)
	}
	return nil
}
