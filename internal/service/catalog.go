package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bookhollow/bookhollow-server/internal/domain"
	domainerrors "github.com/bookhollow/bookhollow-server/internal/errors"
	"github.com/bookhollow/bookhollow-server/internal/id"
	"github.com/bookhollow/bookhollow-server/internal/store"
)

// Page size defaults mirror the public API: search pages are grid-sized,
// listing pages are list-sized.
const (
	defaultSearchPageSize  = 12
	defaultListPageSize    = 10
	defaultCategoriesLimit = 10
)

// CatalogService serves read-only catalog queries.
type CatalogService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(s *store.Store, logger *slog.Logger) *CatalogService {
	return &CatalogService{store: s, logger: logger}
}

// SearchRequest describes a catalog search. All filters are optional.
type SearchRequest struct {
	Title      string
	Author     string
	Categories []string
	Sort       string // "asc" or "desc" by cached score; default desc
	Page       int
	PerPage    int
}

// BookList is a page of books plus the total match count.
type BookList struct {
	Books []domain.Book `json:"books"`
	Total int           `json:"total"`
}

// Search filters the catalog and returns a page of matches sorted by score.
func (s *CatalogService) Search(ctx context.Context, req SearchRequest) (*BookList, error) {
	books, total, err := s.store.SearchBooks(ctx, store.SearchQuery{
		Title:      req.Title,
		Author:     req.Author,
		Categories: req.Categories,
		SortAsc:    req.Sort == "asc",
		Page:       store.NewPage(req.Page, req.PerPage, defaultSearchPageSize),
	})
	if err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}
	return &BookList{Books: books, Total: total}, nil
}

// List returns a page of the catalog, optionally filtered by category.
func (s *CatalogService) List(ctx context.Context, categories []string, page, perPage int) (*BookList, error) {
	books, total, err := s.store.ListBooks(ctx, categories, store.NewPage(page, perPage, defaultListPageSize))
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return &BookList{Books: books, Total: total}, nil
}

// GetBook returns a single book by ID. A malformed identifier is a validation
// error; a well-formed but unknown identifier is not found.
func (s *CatalogService) GetBook(ctx context.Context, bookID string) (*domain.Book, error) {
	if !id.Valid(bookID) {
		return nil, domainerrors.Validation("malformed book ID")
	}

	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("book %s not found", bookID)
		}
		return nil, fmt.Errorf("get book: %w", err)
	}
	return book, nil
}

// PopularCategories returns the top-N categories by frequency.
// A non-positive limit falls back to the default.
func (s *CatalogService) PopularCategories(ctx context.Context, limit int) ([]store.CategoryCount, error) {
	if limit <= 0 {
		limit = defaultCategoriesLimit
	}
	categories, err := s.store.PopularCategories(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("popular categories: %w", err)
	}
	return categories, nil
}
