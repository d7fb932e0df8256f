package api

import (
	"encoding/json/v2"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookhollow/bookhollow-server/internal/service"
)

func TestGetProfile(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.registerTestUser(t, "alice")

	resp := ts.api.Get("/api/user", bearer(token))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[service.Profile]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "alice", envelope.Data.User.ID)
	assert.Equal(t, "Reader alice", envelope.Data.User.DisplayName)
	assert.Empty(t, envelope.Data.User.PasswordHash)
	assert.NotEmpty(t, envelope.Data.AvatarColor)
	assert.Empty(t, envelope.Data.StarredBooks)

	// The raw body must never leak credential material.
	assert.NotContains(t, resp.Body.String(), "password_hash")
}

func TestStarBook(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.registerTestUser(t, "alice")
	ts.seedTestBook(t, "book-1", "First")

	resp := ts.api.Post("/api/user/star", map[string]any{"book_id": "book-1"}, bearer(token))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	// Starring again is a no-op, not an error.
	resp = ts.api.Post("/api/user/star", map[string]any{"book_id": "book-1"}, bearer(token))
	require.Equal(t, http.StatusOK, resp.Code)

	profileResp := ts.api.Get("/api/user", bearer(token))
	var envelope testEnvelope[service.Profile]
	require.NoError(t, json.Unmarshal(profileResp.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.StarredBooks, 1)
	assert.Equal(t, "First", envelope.Data.StarredBooks[0].Title)
}

func TestUnstarBook(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.registerTestUser(t, "alice")
	ts.seedTestBook(t, "book-1", "First")

	resp := ts.api.Post("/api/user/star", map[string]any{"book_id": "book-1"}, bearer(token))
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Delete("/api/user/star", map[string]any{"book_id": "book-1"}, bearer(token))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	// Unstarring a book that is not starred still succeeds.
	resp = ts.api.Delete("/api/user/star", map[string]any{"book_id": "book-1"}, bearer(token))
	require.Equal(t, http.StatusOK, resp.Code)

	profileResp := ts.api.Get("/api/user", bearer(token))
	var envelope testEnvelope[service.Profile]
	require.NoError(t, json.Unmarshal(profileResp.Body.Bytes(), &envelope))
	assert.Empty(t, envelope.Data.StarredBooks)
}

func TestStarBook_NoExistenceCheck(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.registerTestUser(t, "alice")

	// Stars are plain references; a dangling one is dropped at read time.
	resp := ts.api.Post("/api/user/star", map[string]any{"book_id": "book-vanished"}, bearer(token))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	profileResp := ts.api.Get("/api/user", bearer(token))
	var envelope testEnvelope[service.Profile]
	require.NoError(t, json.Unmarshal(profileResp.Body.Bytes(), &envelope))
	assert.Empty(t, envelope.Data.StarredBooks)
}
