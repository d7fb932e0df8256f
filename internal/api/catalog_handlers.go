package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bookhollow/bookhollow-server/internal/domain"
	"github.com/bookhollow/bookhollow-server/internal/service"
	"github.com/bookhollow/bookhollow-server/internal/store"
)

func (s *Server) registerCatalogRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "search-books",
		Method:      http.MethodGet,
		Path:        "/api/searchbooks",
		Summary:     "Search the catalog",
		Description: "Filters books by title, author and categories, sorted by average score.",
		Tags:        []string{"Catalog"},
	}, s.handleSearchBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "popular-categories",
		Method:      http.MethodGet,
		Path:        "/api/popular_categories",
		Summary:     "Most frequent categories",
		Tags:        []string{"Catalog"},
	}, s.handlePopularCategories)

	huma.Register(s.api, huma.Operation{
		OperationID: "list-books",
		Method:      http.MethodGet,
		Path:        "/api/showbooks",
		Summary:     "List books",
		Description: "Returns a page of the catalog, optionally filtered by category.",
		Tags:        []string{"Catalog"},
	}, s.handleListBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-book",
		Method:      http.MethodGet,
		Path:        "/api/showbooks/{id}",
		Summary:     "Get a single book",
		Tags:        []string{"Catalog"},
	}, s.handleGetBook)
}

// === DTOs ===

// SearchBooksInput holds the search filters.
type SearchBooksInput struct {
	Title      string `query:"title" doc:"Case-insensitive title substring"`
	Author     string `query:"author" doc:"Case-insensitive author substring"`
	Categories string `query:"categories" doc:"Comma-separated category names"`
	Sort       string `query:"sort" enum:"asc,desc" doc:"Score sort order, descending by default"`
	Page       int    `query:"page" minimum:"0" doc:"1-based page number"`
	PerPage    int    `query:"per_page" minimum:"0" maximum:"100" doc:"Page size"`
}

// BookListOutput wraps a page of books for Huma.
type BookListOutput struct {
	Body service.BookList
}

// ListBooksInput holds the listing filters.
type ListBooksInput struct {
	Categories string `query:"categories" doc:"Comma-separated category names"`
	Page       int    `query:"page" minimum:"0" doc:"1-based page number"`
	PerPage    int    `query:"per_page" minimum:"0" maximum:"100" doc:"Page size"`
}

// GetBookInput identifies a single book.
type GetBookInput struct {
	ID string `path:"id" maxLength:"64" doc:"Book ID"`
}

// BookOutput wraps a single book for Huma.
type BookOutput struct {
	Body domain.Book
}

// PopularCategoriesInput bounds the category ranking.
type PopularCategoriesInput struct {
	Limit int `query:"limit" minimum:"0" maximum:"100" doc:"Maximum number of categories"`
}

// PopularCategoriesResponse lists categories by descending frequency.
type PopularCategoriesResponse struct {
	Categories []store.CategoryCount `json:"categories"`
}

// PopularCategoriesOutput wraps the category ranking for Huma.
type PopularCategoriesOutput struct {
	Body PopularCategoriesResponse
}

// === Handlers ===

func (s *Server) handleSearchBooks(ctx context.Context, input *SearchBooksInput) (*BookListOutput, error) {
	result, err := s.services.Catalog.Search(ctx, service.SearchRequest{
		Title:      input.Title,
		Author:     input.Author,
		Categories: parseCategories(input.Categories),
		Sort:       input.Sort,
		Page:       input.Page,
		PerPage:    input.PerPage,
	})
	if err != nil {
		return nil, err
	}
	return &BookListOutput{Body: *result}, nil
}

func (s *Server) handleListBooks(ctx context.Context, input *ListBooksInput) (*BookListOutput, error) {
	result, err := s.services.Catalog.List(ctx, parseCategories(input.Categories), input.Page, input.PerPage)
	if err != nil {
		return nil, err
	}
	return &BookListOutput{Body: *result}, nil
}

func (s *Server) handleGetBook(ctx context.Context, input *GetBookInput) (*BookOutput, error) {
	book, err := s.services.Catalog.GetBook(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: *book}, nil
}

func (s *Server) handlePopularCategories(ctx context.Context, input *PopularCategoriesInput) (*PopularCategoriesOutput, error) {
	categories, err := s.services.Catalog.PopularCategories(ctx, input.Limit)
	if err != nil {
		return nil, err
	}
	return &PopularCategoriesOutput{Body: PopularCategoriesResponse{Categories: categories}}, nil
}

// parseCategories splits a comma-separated category parameter, dropping empty
// segments so trailing commas do not filter everything out.
func parseCategories(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	categories := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			categories = append(categories, p)
		}
	}
	return categories
}
