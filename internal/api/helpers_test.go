package api

import (
	"context"
	"crypto/rand"
	"encoding/json/v2"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/bookhollow/bookhollow-server/internal/auth"
	"github.com/bookhollow/bookhollow-server/internal/domain"
	"github.com/bookhollow/bookhollow-server/internal/service"
	"github.com/bookhollow/bookhollow-server/internal/store"
)

// testEnvelope mirrors the response envelope for decoding in tests.
type testEnvelope[T any] struct {
	V       int    `json:"v"`
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// testServer wraps the API server for handler tests.
type testServer struct {
	*Server
	api humatest.TestAPI
}

// setupTestServer assembles a server against a throwaway store, with a rate
// limiter loose enough that tests never trip it.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "bookhollow-api-test-*")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(tmpDir) })

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	st, err := store.New(filepath.Join(tmpDir, "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	key := make([]byte, 32)
	_, err = rand.Read(key)
	require.NoError(t, err)

	tokenService, err := auth.NewTokenService(key, time.Hour)
	require.NoError(t, err)

	services := &Services{
		Auth:    service.NewAuthService(st, tokenService, logger),
		Catalog: service.NewCatalogService(st, logger),
		Review:  service.NewReviewService(st, logger),
		User:    service.NewUserService(st, logger),
	}

	router := chi.NewRouter()
	router.Use(authMiddleware(services.Auth))

	humaConfig := huma.DefaultConfig("BookHollow API Test", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	api := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		store:           st,
		services:        services,
		router:          router,
		api:             api,
		logger:          logger,
		authRateLimiter: NewRateLimiter(1000, time.Minute, 500),
	}
	t.Cleanup(s.Close)

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerCatalogRoutes()
	s.registerReviewRoutes()
	s.registerUserRoutes()

	return &testServer{Server: s, api: humatest.Wrap(t, api)}
}

// registerTestUser creates an account and returns a bearer token for it.
func (ts *testServer) registerTestUser(t *testing.T, userID string) string {
	t.Helper()

	resp := ts.api.Post("/register", map[string]any{
		"user_id":      userID,
		"password":     "correct-horse-battery",
		"display_name": "Reader " + userID,
		"email":        userID + "@example.com",
	})
	require.Equal(t, http.StatusCreated, resp.Code, "Register failed: %s", resp.Body.String())

	resp = ts.api.Post("/login", map[string]any{
		"user_id":  userID,
		"password": "correct-horse-battery",
	})
	require.Equal(t, http.StatusOK, resp.Code, "Login failed: %s", resp.Body.String())

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Data.Token)

	return envelope.Data.Token
}

// seedTestBook inserts a book directly through the store.
func (ts *testServer) seedTestBook(t *testing.T, bookID, title string, categories ...string) {
	t.Helper()

	book := &domain.Book{
		Record:     domain.Record{ID: bookID},
		Title:      title,
		Authors:    []string{"Test Author"},
		Categories: categories,
	}
	require.NoError(t, ts.store.CreateBook(context.Background(), book))
}

// bearer formats an Authorization header argument for humatest calls.
func bearer(token string) string {
	return "Authorization: Bearer " + token
}
