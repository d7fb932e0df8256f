package api

import (
	"encoding/json/v2"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookhollow/bookhollow-server/internal/domain"
	"github.com/bookhollow/bookhollow-server/internal/service"
)

// postReview creates a review through the API and returns its ID.
func (ts *testServer) postReview(t *testing.T, token, bookID string, score float64) string {
	t.Helper()

	resp := ts.api.Post("/api/showbooks/"+bookID+"/comments",
		map[string]any{"score": score, "summary": "fine"},
		bearer(token))
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var envelope testEnvelope[service.CreateReviewResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Data.ReviewID)
	return envelope.Data.ReviewID
}

func TestCreateReview(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.registerTestUser(t, "alice")
	ts.seedTestBook(t, "book-1", "First")

	resp := ts.api.Post("/api/showbooks/book-1/comments",
		map[string]any{"score": 4, "summary": "solid", "text": "A solid read."},
		bearer(token))
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var envelope testEnvelope[service.CreateReviewResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, 4.0, envelope.Data.AverageScore)

	// The review lands on the book with the reviewer's display name.
	bookResp := ts.api.Get("/api/showbooks/book-1")
	require.Equal(t, http.StatusOK, bookResp.Code)

	var bookEnvelope testEnvelope[domain.Book]
	require.NoError(t, json.Unmarshal(bookResp.Body.Bytes(), &bookEnvelope))
	require.Len(t, bookEnvelope.Data.Reviews, 1)
	assert.Equal(t, "alice", bookEnvelope.Data.Reviews[0].UserID)
	assert.Equal(t, "Reader alice", bookEnvelope.Data.Reviews[0].UserName)
	assert.Equal(t, "First", bookEnvelope.Data.Reviews[0].BookTitle)
}

func TestCreateReview_ScoreOnly(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.registerTestUser(t, "alice")
	ts.seedTestBook(t, "book-1", "First")

	// Summary and text are optional; a bare score must pass request
	// validation and create the review.
	resp := ts.api.Post("/api/showbooks/book-1/comments",
		map[string]any{"score": 3},
		bearer(token))
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	bookResp := ts.api.Get("/api/showbooks/book-1")
	var bookEnvelope testEnvelope[domain.Book]
	require.NoError(t, json.Unmarshal(bookResp.Body.Bytes(), &bookEnvelope))
	require.Len(t, bookEnvelope.Data.Reviews, 1)
	assert.Empty(t, bookEnvelope.Data.Reviews[0].Summary)
	assert.Empty(t, bookEnvelope.Data.Reviews[0].Text)
	assert.Equal(t, 3.0, bookEnvelope.Data.AverageScore)
}

func TestCreateReview_Unauthenticated(t *testing.T) {
	ts := setupTestServer(t)
	ts.seedTestBook(t, "book-1", "First")

	resp := ts.api.Post("/api/showbooks/book-1/comments",
		map[string]any{"score": 4})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestCreateReview_UnknownBook(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.registerTestUser(t, "alice")

	resp := ts.api.Post("/api/showbooks/book-missing/comments",
		map[string]any{"score": 4},
		bearer(token))
	assert.Equal(t, http.StatusNotFound, resp.Code, resp.Body.String())
}

func TestCreateReview_ScoreOutOfRange(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.registerTestUser(t, "alice")
	ts.seedTestBook(t, "book-1", "First")

	resp := ts.api.Post("/api/showbooks/book-1/comments",
		map[string]any{"score": 6},
		bearer(token))
	assert.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())
}

func TestEditReview(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.registerTestUser(t, "alice")
	ts.seedTestBook(t, "book-1", "First")
	reviewID := ts.postReview(t, token, "book-1", 2)

	resp := ts.api.Put("/api/user/comments/"+reviewID,
		map[string]any{"score": 5, "text": "Changed my mind."},
		bearer(token))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	// Score change is reflected in the cached average.
	bookResp := ts.api.Get("/api/showbooks/book-1")
	var bookEnvelope testEnvelope[domain.Book]
	require.NoError(t, json.Unmarshal(bookResp.Body.Bytes(), &bookEnvelope))
	assert.Equal(t, 5.0, bookEnvelope.Data.AverageScore)
	require.Len(t, bookEnvelope.Data.Reviews, 1)
	assert.Equal(t, "Changed my mind.", bookEnvelope.Data.Reviews[0].Text)
	// Untouched fields survive a partial edit.
	assert.Equal(t, "fine", bookEnvelope.Data.Reviews[0].Summary)
}

func TestEditReview_NotOwner(t *testing.T) {
	ts := setupTestServer(t)
	aliceToken := ts.registerTestUser(t, "alice")
	bobToken := ts.registerTestUser(t, "bob")
	ts.seedTestBook(t, "book-1", "First")
	reviewID := ts.postReview(t, aliceToken, "book-1", 3)

	resp := ts.api.Put("/api/user/comments/"+reviewID,
		map[string]any{"score": 1},
		bearer(bobToken))
	assert.Equal(t, http.StatusForbidden, resp.Code, resp.Body.String())
}

func TestDeleteReview(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.registerTestUser(t, "alice")
	ts.seedTestBook(t, "book-1", "First")
	reviewID := ts.postReview(t, token, "book-1", 4)

	resp := ts.api.Delete("/api/user/comments/"+reviewID, bearer(token))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	// Deleting the only review resets the cached score.
	bookResp := ts.api.Get("/api/showbooks/book-1")
	var bookEnvelope testEnvelope[domain.Book]
	require.NoError(t, json.Unmarshal(bookResp.Body.Bytes(), &bookEnvelope))
	assert.Empty(t, bookEnvelope.Data.Reviews)
	assert.Equal(t, 0.0, bookEnvelope.Data.AverageScore)

	// A second delete reads as gone, not forbidden.
	resp = ts.api.Delete("/api/user/comments/"+reviewID, bearer(token))
	assert.Equal(t, http.StatusNotFound, resp.Code, resp.Body.String())
}

func TestListOwnReviews(t *testing.T) {
	ts := setupTestServer(t)
	aliceToken := ts.registerTestUser(t, "alice")
	bobToken := ts.registerTestUser(t, "bob")
	ts.seedTestBook(t, "book-1", "First")
	ts.seedTestBook(t, "book-2", "Second")
	ts.postReview(t, aliceToken, "book-1", 4)
	ts.postReview(t, aliceToken, "book-2", 2)
	ts.postReview(t, bobToken, "book-1", 5)

	resp := ts.api.Get("/api/user/comments", bearer(aliceToken))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[ReviewListResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.Reviews, 2)
	for _, r := range envelope.Data.Reviews {
		assert.Equal(t, "alice", r.UserID)
	}
}
