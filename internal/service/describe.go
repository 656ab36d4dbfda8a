// Package service implements the page workflows of the library front end:
// validate input, call the backend, interpret the outcome and notify the user.
package service

import (
	"context"

	"github.com/librarydb/library-web/internal/apiclient"
	"github.com/librarydb/library-web/internal/domain"
	"github.com/librarydb/library-web/internal/errors"
)

// User-facing fallback messages.
const (
	MsgUnexpected   = "An unexpected error occurred. Please try again."
	FallbackAddBook = "Failed to add book."
	FallbackLoan    = "Failed to loan book."
	FallbackSignup  = "Failed to register reader."
)

// LibraryAPI is the backend surface used by the services.
type LibraryAPI interface {
	ListBooks(ctx context.Context) ([]domain.Book, error)
	ListBooksWithAuthors(ctx context.Context) ([]domain.Book, error)
	GetBook(ctx context.Context, id int) (*domain.Book, error)
	AddBook(ctx context.Context, book domain.NewBook) (*domain.AddBookResult, error)
	LoanBook(ctx context.Context, loan domain.LoanRequest) (*domain.LoanResult, error)
	SignupReader(ctx context.Context, reader domain.Reader) (*domain.SignupResult, error)
}

// Describe turns err into the message shown to the user:
//   - local validation failures show their own message
//   - a backend error with a message shows that message verbatim
//   - a backend error without a message shows fallback
//   - anything else (transport, malformed responses) shows MsgUnexpected
func Describe(err error, fallback string) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, errors.ErrValidation) {
		return errors.UserMessage(err, MsgUnexpected)
	}

	var reqErr *apiclient.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.HasMessage() {
			return reqErr.Message
		}
		return fallback
	}

	return MsgUnexpected
}

// Reason is the short failure cause embedded in inline load errors.
func Reason(err error) string {
	if errors.Is(err, errors.ErrValidation) {
		return errors.UserMessage(err, "")
	}

	var reqErr *apiclient.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Error()
	}

	if errors.Is(err, apiclient.ErrTransport) {
		return "the library service is unreachable"
	}
	return "unexpected response from the library service"
}
