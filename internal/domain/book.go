package domain

import (
	"strings"
	"time"
)

// Book represents a catalog entry with metadata and an embedded review list.
//
// AverageScore is a cache derived from Reviews. The store recomputes it inside
// the same transaction as every review mutation, so a persisted book never
// carries a stale score.
type Book struct {
	Record
	Title        string   `json:"title"`
	Authors      []string `json:"authors"`
	Categories   []string `json:"categories"`
	Description  string   `json:"description,omitempty"`
	Publisher    string   `json:"publisher,omitempty"`
	Reviews      []Review `json:"reviews"`
	AverageScore float64  `json:"averageScore"`
}

// Review is a single user-authored rating attached to a book. Reviews are
// embedded in exactly one book; BookTitle and UserName are denormalized
// display copies, not references.
type Review struct {
	ID        string    `json:"id"`
	BookTitle string    `json:"book_title"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Score     float64   `json:"score"`
	Time      time.Time `json:"time"`
	Summary   string    `json:"summary,omitempty"`
	Text      string    `json:"text,omitempty"`
}

// Scores returns the scores of all reviews, in list order.
func (b *Book) Scores() []float64 {
	if len(b.Reviews) == 0 {
		return nil
	}
	scores := make([]float64, len(b.Reviews))
	for i, r := range b.Reviews {
		scores[i] = r.Score
	}
	return scores
}

// ReviewIndex returns the position of the review with the given ID,
// or -1 if the book has no such review.
func (b *Book) ReviewIndex(reviewID string) int {
	for i, r := range b.Reviews {
		if r.ID == reviewID {
			return i
		}
	}
	return -1
}

// HasAnyCategory reports whether the book carries at least one of the given
// categories. Matching is case-insensitive. An empty filter matches everything.
func (b *Book) HasAnyCategory(categories []string) bool {
	if len(categories) == 0 {
		return true
	}
	for _, want := range categories {
		for _, have := range b.Categories {
			if strings.EqualFold(want, have) {
				return true
			}
		}
	}
	return false
}

// MatchesTitle reports whether the book title contains the given substring,
// case-insensitively. An empty query matches everything.
func (b *Book) MatchesTitle(query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(b.Title), strings.ToLower(query))
}

// MatchesAuthor reports whether any author name contains the given substring,
// case-insensitively. An empty query matches everything.
func (b *Book) MatchesAuthor(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	for _, a := range b.Authors {
		if strings.Contains(strings.ToLower(a), q) {
			return true
		}
	}
	return false
}
