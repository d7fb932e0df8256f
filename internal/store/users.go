package store

import (
	"context"
	"fmt"

	"github.com/bookhollow/bookhollow-server/internal/domain"
)

// CreateUser stores a new user document. Returns ErrAlreadyExists if the
// username is taken.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		return fmt.Errorf("user ID must be set")
	}
	if user.CreatedAt.IsZero() {
		user.InitTimestamps()
	}
	return s.Users.Create(ctx, user.ID, user)
}

// GetUser retrieves a user by username. Returns ErrNotFound if absent.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.Users.Get(ctx, id)
}

// MutateUser runs fn against the user's current document under the per-user
// lock and persists the result. Serializes concurrent starred-set updates for
// the same user.
func (s *Store) MutateUser(ctx context.Context, userID string, fn func(*domain.User) error) (*domain.User, error) {
	unlock := s.lock(s.Users.Key(userID))
	defer unlock()

	user, err := s.Users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := fn(user); err != nil {
		return nil, err
	}

	user.Touch()

	if err := s.Users.Update(ctx, userID, user); err != nil {
		return nil, fmt.Errorf("persist user %s: %w", userID, err)
	}
	return user, nil
}
