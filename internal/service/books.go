package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/librarydb/library-web/internal/domain"
	"github.com/librarydb/library-web/internal/errors"
	"github.com/librarydb/library-web/internal/normalize"
	"github.com/librarydb/library-web/internal/notify"
	"github.com/librarydb/library-web/internal/validation"
)

// MsgBookAdded is shown when the backend confirms without a message of its own.
const MsgBookAdded = "Book added successfully!"

// BookForm is the add-book form as submitted. Authors keep their row order.
type BookForm struct {
	Title           string
	PublicationYear string
	Genre           string
	Authors         []domain.Author
}

// AddAuthorRow returns the form with one more, empty author row.
func (f BookForm) AddAuthorRow() BookForm {
	f.Authors = append(append([]domain.Author(nil), f.Authors...), domain.Author{})
	return f
}

// BookService creates books.
type BookService struct {
	api       LibraryAPI
	validator *validation.Validator
	notifier  notify.Notifier
	logger    *slog.Logger
}

// NewBookService creates a new book service.
func NewBookService(api LibraryAPI, validator *validation.Validator, notifier notify.Notifier, logger *slog.Logger) *BookService {
	return &BookService{
		api:       api,
		validator: validator,
		notifier:  notifier,
		logger:    logger,
	}
}

// Add validates the form, submits it as one document and notifies the outcome.
func (s *BookService) Add(ctx context.Context, form BookForm) (*domain.AddBookResult, error) {
	book, err := s.prepare(form)
	if err != nil {
		s.notifier.Notify(ctx, Describe(err, FallbackAddBook), notify.SeverityError)
		return nil, err
	}

	result, err := s.api.AddBook(ctx, book)
	if err != nil {
		s.logger.WarnContext(ctx, "add book failed", slog.String("error", err.Error()))
		s.notifier.Notify(ctx, Describe(err, FallbackAddBook), notify.SeverityError)
		return nil, err
	}

	msg := result.Message
	if msg == "" {
		msg = MsgBookAdded
	}
	s.notifier.Notify(ctx, msg, notify.SeveritySuccess)

	s.logger.InfoContext(ctx, "book added",
		slog.Int("book_id", result.BookID),
		slog.Int("authors", len(book.Authors)))
	return result, nil
}

func (s *BookService) prepare(form BookForm) (domain.NewBook, error) {
	title := normalize.Field(form.Title)
	genre := normalize.Spaces(normalize.Field(form.Genre))
	rawYear := normalize.Field(form.PublicationYear)

	rules := []validation.Rule{
		{Field: "title", Value: title, Tag: "required,max=255", Messages: map[string]string{
			"required": "Title is required.",
			"max":      "Title must not exceed 255 characters.",
		}},
		{Field: "publication_year", Value: rawYear, Tag: "required,number", Messages: map[string]string{
			"required": "Publication year is required.",
			"number":   "Publication year must be a whole number.",
		}},
		{Field: "genre", Value: genre, Tag: "required,max=100", Messages: map[string]string{
			"required": "Genre is required.",
			"max":      "Genre must not exceed 100 characters.",
		}},
	}

	authors := make([]domain.Author, 0, len(form.Authors))
	for i, a := range form.Authors {
		a.FirstName = normalize.Field(a.FirstName)
		a.LastName = normalize.Field(a.LastName)
		authors = append(authors, a)

		n := i + 1
		rules = append(rules,
			validation.Rule{Field: fmt.Sprintf("authors[%d][first_name]", i), Value: a.FirstName, Tag: "required", Messages: map[string]string{
				"required": fmt.Sprintf("First name of author %d is required.", n),
			}},
			validation.Rule{Field: fmt.Sprintf("authors[%d][last_name]", i), Value: a.LastName, Tag: "required", Messages: map[string]string{
				"required": fmt.Sprintf("Last name of author %d is required.", n),
			}},
		)
	}

	if err := s.validator.First(rules...); err != nil {
		return domain.NewBook{}, err
	}

	year, err := strconv.Atoi(rawYear)
	if err != nil {
		return domain.NewBook{}, errors.Validation("Publication year must be a whole number.")
	}

	book := domain.NewBook{
		Title:           title,
		PublicationYear: year,
		Genre:           genre,
		Authors:         authors,
	}
	if err := s.validator.Validate(book); err != nil {
		return domain.NewBook{}, err
	}
	return book, nil
}
