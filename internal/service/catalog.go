package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/librarydb/library-web/internal/domain"
	"github.com/librarydb/library-web/internal/errors"
)

// Variant selects how the book list is presented.
type Variant string

// List variants.
const (
	// VariantSimple lists titles as links to the book page.
	VariantSimple Variant = "simple"
	// VariantTable lists every book with its year, genre and authors.
	VariantTable Variant = "table"
)

// CatalogService loads books for display.
type CatalogService struct {
	api    LibraryAPI
	logger *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(api LibraryAPI, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		api:    api,
		logger: logger,
	}
}

// List returns every book in the representation the variant needs.
func (s *CatalogService) List(ctx context.Context, variant Variant) ([]domain.Book, error) {
	var (
		books []domain.Book
		err   error
	)
	switch variant {
	case VariantSimple:
		books, err = s.api.ListBooks(ctx)
	case VariantTable:
		books, err = s.api.ListBooksWithAuthors(ctx)
	default:
		return nil, errors.Internal(fmt.Sprintf("unknown list variant %q", variant))
	}
	if err != nil {
		s.logger.WarnContext(ctx, "load book list failed",
			slog.String("variant", string(variant)),
			slog.String("error", err.Error()))
		return nil, err
	}
	return books, nil
}

// ListError is the inline message shown in place of the list when List fails.
func ListError(variant Variant, err error) string {
	if variant == VariantTable {
		return "Error loading books with authors."
	}
	return "Error loading books: " + Reason(err)
}

// ParseBookID parses the trailing path segment of a book page.
func ParseBookID(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, errors.Validationf("Invalid book ID %q.", raw)
	}
	return id, nil
}

// Get loads one book by the raw identifier taken from the page path.
// A malformed identifier fails locally without calling the backend.
func (s *CatalogService) Get(ctx context.Context, rawID string) (*domain.Book, error) {
	id, err := ParseBookID(rawID)
	if err != nil {
		return nil, err
	}

	book, err := s.api.GetBook(ctx, id)
	if err != nil {
		s.logger.WarnContext(ctx, "load book failed",
			slog.Int("book_id", id),
			slog.String("error", err.Error()))
		return nil, err
	}
	return book, nil
}

// DetailError is the inline message shown in place of the book details when Get fails.
func DetailError(err error) string {
	return "Error loading book details: " + Reason(err)
}
