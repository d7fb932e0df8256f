package store

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sort"

	"github.com/bookhollow/bookhollow-server/internal/domain"
	"github.com/bookhollow/bookhollow-server/internal/rating"
)

// SearchQuery describes a catalog search. Empty fields match everything.
type SearchQuery struct {
	Title      string   // case-insensitive title substring
	Author     string   // case-insensitive author substring
	Categories []string // any-match category filter
	SortAsc    bool     // sort by cached score ascending; default is descending
	Page       Page
}

// CategoryCount is a category name with its frequency across the catalog.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// CreateBook stores a new book document. The cached score is recomputed from
// the embedded reviews so imported documents can never start out stale.
func (s *Store) CreateBook(ctx context.Context, book *domain.Book) error {
	if book.ID == "" {
		return fmt.Errorf("book ID must be set")
	}
	if book.CreatedAt.IsZero() {
		book.InitTimestamps()
	}
	book.AverageScore = rating.Compute(book.Scores())
	return s.Books.Create(ctx, book.ID, book)
}

// GetBook retrieves a single book by ID. Returns ErrNotFound if absent.
func (s *Store) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	return s.Books.Get(ctx, id)
}

// GetBookByReviewID resolves the book owning the given review via the review
// index. Returns ErrNotFound if no book carries the review.
func (s *Store) GetBookByReviewID(ctx context.Context, reviewID string) (*domain.Book, error) {
	return s.Books.GetByIndex(ctx, "review", reviewID)
}

// SearchBooks filters the catalog by title, author and categories, sorts by
// the cached score and returns the requested page plus the total match count.
func (s *Store) SearchBooks(ctx context.Context, q SearchQuery) ([]domain.Book, int, error) {
	var matches []domain.Book
	for book, err := range s.Books.List(ctx) {
		if err != nil {
			return nil, 0, fmt.Errorf("search books: %w", err)
		}
		if book.MatchesTitle(q.Title) && book.MatchesAuthor(q.Author) && book.HasAnyCategory(q.Categories) {
			matches = append(matches, *book)
		}
	}

	slices.SortStableFunc(matches, func(a, b domain.Book) int {
		if q.SortAsc {
			return cmp.Compare(a.AverageScore, b.AverageScore)
		}
		return cmp.Compare(b.AverageScore, a.AverageScore)
	})

	page, total := SlicePage(matches, q.Page)
	return page, total, nil
}

// ListBooks returns a page of the catalog, optionally filtered by category,
// plus the total count of matching books.
func (s *Store) ListBooks(ctx context.Context, categories []string, p Page) ([]domain.Book, int, error) {
	var matches []domain.Book
	for book, err := range s.Books.List(ctx) {
		if err != nil {
			return nil, 0, fmt.Errorf("list books: %w", err)
		}
		if book.HasAnyCategory(categories) {
			matches = append(matches, *book)
		}
	}

	page, total := SlicePage(matches, p)
	return page, total, nil
}

// PopularCategories returns the top-N categories by frequency across all
// books. Ties break alphabetically so the result is deterministic.
func (s *Store) PopularCategories(ctx context.Context, limit int) ([]CategoryCount, error) {
	counts := make(map[string]int)
	for book, err := range s.Books.List(ctx) {
		if err != nil {
			return nil, fmt.Errorf("count categories: %w", err)
		}
		for _, c := range book.Categories {
			counts[c]++
		}
	}

	result := make([]CategoryCount, 0, len(counts))
	for name, count := range counts {
		result = append(result, CategoryCount{Name: name, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Name < result[j].Name
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// ListReviewsByUser returns every review authored by the user, flattened
// across all books in catalog order.
func (s *Store) ListReviewsByUser(ctx context.Context, userID string) ([]domain.Review, error) {
	var reviews []domain.Review
	for book, err := range s.Books.List(ctx) {
		if err != nil {
			return nil, fmt.Errorf("list reviews: %w", err)
		}
		for _, r := range book.Reviews {
			if r.UserID == userID {
				reviews = append(reviews, r)
			}
		}
	}
	return reviews, nil
}

// mutateBook runs fn against the book's current document under the per-book
// lock, then recomputes the cached score from the post-mutation review list
// and persists book and review index together. Concurrent mutations against
// the same book serialize here; different books proceed independently.
func (s *Store) mutateBook(ctx context.Context, bookID string, fn func(*domain.Book) error) (*domain.Book, error) {
	unlock := s.lock(s.Books.Key(bookID))
	defer unlock()

	book, err := s.Books.Get(ctx, bookID)
	if err != nil {
		return nil, err
	}

	if err := fn(book); err != nil {
		return nil, err
	}

	book.AverageScore = rating.Compute(book.Scores())
	book.Touch()

	if err := s.Books.Update(ctx, bookID, book); err != nil {
		return nil, fmt.Errorf("persist book %s: %w", bookID, err)
	}
	return book, nil
}

// AddReview appends the review to the book's list and refreshes the cached
// score. The denormalized book title is filled in from the current document.
// Returns the updated book, or ErrNotFound if the book is absent.
func (s *Store) AddReview(ctx context.Context, bookID string, review domain.Review) (*domain.Book, error) {
	return s.mutateBook(ctx, bookID, func(b *domain.Book) error {
		review.BookTitle = b.Title
		b.Reviews = append(b.Reviews, review)
		return nil
	})
}

// UpdateReview applies fn to the identified review inside the book's mutation
// cycle. Returns ErrNotFound if the book no longer carries the review.
func (s *Store) UpdateReview(ctx context.Context, bookID, reviewID string, fn func(*domain.Review)) (*domain.Book, error) {
	return s.mutateBook(ctx, bookID, func(b *domain.Book) error {
		i := b.ReviewIndex(reviewID)
		if i < 0 {
			return ErrNotFound
		}
		fn(&b.Reviews[i])
		return nil
	})
}

// RemoveReview deletes the identified review from the book's list and
// refreshes the cached score. Returns ErrNotFound if the review is absent.
func (s *Store) RemoveReview(ctx context.Context, bookID, reviewID string) (*domain.Book, error) {
	return s.mutateBook(ctx, bookID, func(b *domain.Book) error {
		i := b.ReviewIndex(reviewID)
		if i < 0 {
			return ErrNotFound
		}
		b.Reviews = slices.Delete(b.Reviews, i, i+1)
		return nil
	})
}
