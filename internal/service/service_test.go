package service_test

import (
	"context"
	"crypto/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookhollow/bookhollow-server/internal/auth"
	"github.com/bookhollow/bookhollow-server/internal/domain"
	domainerrors "github.com/bookhollow/bookhollow-server/internal/errors"
	"github.com/bookhollow/bookhollow-server/internal/service"
	"github.com/bookhollow/bookhollow-server/internal/store"
)

type testEnv struct {
	store   *store.Store
	auth    *service.AuthService
	catalog *service.CatalogService
	reviews *service.ReviewService
	users   *service.UserService
}

func setupServices(t *testing.T) *testEnv {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "service-test-*")
	require.NoError(t, err)

	s, err := store.New(filepath.Join(tmpDir, "test.db"), nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = s.Close()
		_ = os.RemoveAll(tmpDir)
	})

	key := make([]byte, 32)
	_, err = rand.Read(key)
	require.NoError(t, err)
	tokens, err := auth.NewTokenService(key, time.Hour)
	require.NoError(t, err)

	return &testEnv{
		store:   s,
		auth:    service.NewAuthService(s, tokens, nil),
		catalog: service.NewCatalogService(s, nil),
		reviews: service.NewReviewService(s, nil),
		users:   service.NewUserService(s, nil),
	}
}

func (e *testEnv) registerUser(t *testing.T, userID string) *domain.User {
	t.Helper()
	_, err := e.auth.Register(context.Background(), service.RegisterRequest{
		UserID:      userID,
		Password:    "hunter2hunter2",
		DisplayName: "Test " + userID,
		Email:       userID + "@example.com",
	})
	require.NoError(t, err)

	user, err := e.store.GetUser(context.Background(), userID)
	require.NoError(t, err)
	return user
}

func (e *testEnv) seedBook(t *testing.T, bookID, title string) {
	t.Helper()
	book := &domain.Book{
		Record:     domain.Record{ID: bookID},
		Title:      title,
		Authors:    []string{"Author"},
		Categories: []string{"Fiction"},
	}
	require.NoError(t, e.store.CreateBook(context.Background(), book))
}

func TestRegister_DuplicateUsername(t *testing.T) {
	env := setupServices(t)
	env.registerUser(t, "frodo")

	_, err := env.auth.Register(context.Background(), service.RegisterRequest{
		UserID:      "frodo",
		Password:    "differentpassword",
		DisplayName: "Impostor",
		Email:       "impostor@example.com",
	})
	assert.ErrorIs(t, err, domainerrors.ErrConflict)

	// The existing record must be untouched.
	user, getErr := env.store.GetUser(context.Background(), "frodo")
	require.NoError(t, getErr)
	assert.Equal(t, "Test frodo", user.DisplayName)
}

func TestRegister_StoresHashedPassword(t *testing.T) {
	env := setupServices(t)
	user := env.registerUser(t, "frodo")

	assert.NotEqual(t, "hunter2hunter2", user.PasswordHash)
	assert.Contains(t, user.PasswordHash, "$argon2id$")
}

func TestRegister_InvalidUsernameShape(t *testing.T) {
	env := setupServices(t)

	_, err := env.auth.Register(context.Background(), service.RegisterRequest{
		UserID:      "has spaces",
		Password:    "hunter2hunter2",
		DisplayName: "X",
		Email:       "x@example.com",
	})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestLogin(t *testing.T) {
	env := setupServices(t)
	env.registerUser(t, "frodo")

	resp, err := env.auth.Login(context.Background(), service.LoginRequest{
		UserID:   "frodo",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), resp.ExpiresAt, time.Minute)

	// The token must verify back to the same user.
	user, err := env.auth.VerifyAccessToken(context.Background(), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "frodo", user.ID)
}

func TestLogin_WrongPassword(t *testing.T) {
	env := setupServices(t)
	env.registerUser(t, "frodo")

	_, err := env.auth.Login(context.Background(), service.LoginRequest{
		UserID:   "frodo",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestLogin_UnknownUser(t *testing.T) {
	env := setupServices(t)

	_, err := env.auth.Login(context.Background(), service.LoginRequest{
		UserID:   "nobody",
		Password: "whatever",
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestVerifyAccessToken_Garbage(t *testing.T) {
	env := setupServices(t)

	_, err := env.auth.VerifyAccessToken(context.Background(), "v4.local.not-a-token")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestCreateReview_RefreshesScore(t *testing.T) {
	env := setupServices(t)
	user := env.registerUser(t, "frodo")
	env.seedBook(t, "book-1", "Dune")

	resp, err := env.reviews.Create(context.Background(), user, "book-1", service.CreateReviewRequest{
		Score:   4,
		Summary: "Great",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ReviewID)
	assert.Equal(t, 4.0, resp.AverageScore)

	// Round-trip: the stored book carries the recomputed score and the
	// denormalized display fields.
	book, err := env.store.GetBook(context.Background(), "book-1")
	require.NoError(t, err)
	require.Len(t, book.Reviews, 1)
	assert.Equal(t, 4.0, book.AverageScore)
	assert.Equal(t, "Dune", book.Reviews[0].BookTitle)
	assert.Equal(t, "Test frodo", book.Reviews[0].UserName)
	assert.False(t, book.Reviews[0].Time.IsZero())
}

func TestCreateReview_ScoreOutOfRange(t *testing.T) {
	env := setupServices(t)
	user := env.registerUser(t, "frodo")
	env.seedBook(t, "book-1", "Dune")

	for _, score := range []float64{0, 6, -1} {
		_, err := env.reviews.Create(context.Background(), user, "book-1", service.CreateReviewRequest{Score: score})
		assert.ErrorIs(t, err, domainerrors.ErrValidation, "score %v must be rejected", score)
	}
}

func TestCreateReview_BookAbsent(t *testing.T) {
	env := setupServices(t)
	user := env.registerUser(t, "frodo")

	_, err := env.reviews.Create(context.Background(), user, "book-missing", service.CreateReviewRequest{Score: 3})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestEditReview_OwnerOnly(t *testing.T) {
	env := setupServices(t)
	owner := env.registerUser(t, "frodo")
	other := env.registerUser(t, "sam")
	env.seedBook(t, "book-1", "Dune")

	created, err := env.reviews.Create(context.Background(), owner, "book-1", service.CreateReviewRequest{Score: 2})
	require.NoError(t, err)

	newScore := 5.0
	err = env.reviews.Edit(context.Background(), other, created.ReviewID, service.EditReviewRequest{Score: &newScore})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	// Neither the review nor the cached score may have changed.
	book, err := env.store.GetBook(context.Background(), "book-1")
	require.NoError(t, err)
	assert.Equal(t, 2.0, book.Reviews[0].Score)
	assert.Equal(t, 2.0, book.AverageScore)
}

func TestEditReview_AppliesAllowListAndResetsTime(t *testing.T) {
	env := setupServices(t)
	owner := env.registerUser(t, "frodo")
	env.seedBook(t, "book-1", "Dune")

	created, err := env.reviews.Create(context.Background(), owner, "book-1", service.CreateReviewRequest{
		Score:   2,
		Summary: "Meh",
	})
	require.NoError(t, err)

	before, err := env.store.GetBook(context.Background(), "book-1")
	require.NoError(t, err)
	originalTime := before.Reviews[0].Time

	newScore := 5.0
	newSummary := "Actually great"
	err = env.reviews.Edit(context.Background(), owner, created.ReviewID, service.EditReviewRequest{
		Score:   &newScore,
		Summary: &newSummary,
	})
	require.NoError(t, err)

	book, err := env.store.GetBook(context.Background(), "book-1")
	require.NoError(t, err)
	r := book.Reviews[0]
	assert.Equal(t, 5.0, r.Score)
	assert.Equal(t, "Actually great", r.Summary)
	assert.Equal(t, "frodo", r.UserID, "authoring user is immutable")
	assert.False(t, r.Time.Before(originalTime), "timestamp must be reset to edit time")
	assert.Equal(t, 5.0, book.AverageScore)
}

func TestEditReview_NotFound(t *testing.T) {
	env := setupServices(t)
	user := env.registerUser(t, "frodo")

	newScore := 3.0
	err := env.reviews.Edit(context.Background(), user, "rev-missing", service.EditReviewRequest{Score: &newScore})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestDeleteReview(t *testing.T) {
	env := setupServices(t)
	owner := env.registerUser(t, "frodo")
	other := env.registerUser(t, "sam")
	env.seedBook(t, "book-1", "Dune")

	created, err := env.reviews.Create(context.Background(), owner, "book-1", service.CreateReviewRequest{Score: 5})
	require.NoError(t, err)

	// A non-owner is forbidden, not told the review is missing.
	err = env.reviews.Delete(context.Background(), other, created.ReviewID)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	require.NoError(t, env.reviews.Delete(context.Background(), owner, created.ReviewID))

	// Deleting the only review resets the cached score.
	book, err := env.store.GetBook(context.Background(), "book-1")
	require.NoError(t, err)
	assert.Empty(t, book.Reviews)
	assert.Equal(t, 0.0, book.AverageScore)

	// A second delete reads as not found.
	err = env.reviews.Delete(context.Background(), owner, created.ReviewID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestListByUser_FlattensAcrossBooks(t *testing.T) {
	env := setupServices(t)
	user := env.registerUser(t, "frodo")
	env.seedBook(t, "book-1", "Dune")
	env.seedBook(t, "book-2", "Hyperion")

	_, err := env.reviews.Create(context.Background(), user, "book-1", service.CreateReviewRequest{Score: 4})
	require.NoError(t, err)
	_, err = env.reviews.Create(context.Background(), user, "book-2", service.CreateReviewRequest{Score: 5})
	require.NoError(t, err)

	reviews, err := env.reviews.ListByUser(context.Background(), "frodo")
	require.NoError(t, err)
	assert.Len(t, reviews, 2)
}

func TestGetBook_MalformedID(t *testing.T) {
	env := setupServices(t)

	_, err := env.catalog.GetBook(context.Background(), "not;valid")
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestGetBook_NotFound(t *testing.T) {
	env := setupServices(t)

	_, err := env.catalog.GetBook(context.Background(), "book-missing")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestStarUnstar_Idempotent(t *testing.T) {
	env := setupServices(t)
	user := env.registerUser(t, "frodo")
	env.seedBook(t, "book-1", "Dune")

	require.NoError(t, env.users.Star(context.Background(), user, "book-1"))
	require.NoError(t, env.users.Star(context.Background(), user, "book-1"))

	stored, err := env.store.GetUser(context.Background(), "frodo")
	require.NoError(t, err)
	assert.Equal(t, []string{"book-1"}, stored.Starred)

	require.NoError(t, env.users.Unstar(context.Background(), user, "book-1"))
	require.NoError(t, env.users.Unstar(context.Background(), user, "book-1"))

	stored, err = env.store.GetUser(context.Background(), "frodo")
	require.NoError(t, err)
	assert.Empty(t, stored.Starred)
}

func TestGetProfile_StripsPasswordAndHydratesStars(t *testing.T) {
	env := setupServices(t)
	env.registerUser(t, "frodo")
	env.seedBook(t, "book-1", "Dune")

	user, err := env.store.GetUser(context.Background(), "frodo")
	require.NoError(t, err)
	require.NoError(t, env.users.Star(context.Background(), user, "book-1"))
	// A starred ID that no longer resolves is skipped, not fatal.
	require.NoError(t, env.users.Star(context.Background(), user, "book-gone"))

	user, err = env.store.GetUser(context.Background(), "frodo")
	require.NoError(t, err)

	profile, err := env.users.GetProfile(context.Background(), user)
	require.NoError(t, err)
	assert.Empty(t, profile.User.PasswordHash)
	require.Len(t, profile.StarredBooks, 1)
	assert.Equal(t, "Dune", profile.StarredBooks[0].Title)
}
