package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/librarydb/library-web/internal/domain"
)

// Backend paths.
const (
	PathBooks            = "/books"
	PathBooksWithAuthors = "/books-with-authors"
	PathBookData         = "/book-data/"
	PathAddBook          = "/add-book"
	PathLoanBook         = "/loan-book"
	PathSignupReader     = "/signup-reader"
)

// ListBooks returns the plain book list.
func (c *Client) ListBooks(ctx context.Context) ([]domain.Book, error) {
	var books []domain.Book
	if err := c.Request(ctx, http.MethodGet, PathBooks, nil, &books); err != nil {
		return nil, wrapError("listBooks", PathBooks, err)
	}
	return books, nil
}

// ListBooksWithAuthors returns the book list with the authors field populated.
func (c *Client) ListBooksWithAuthors(ctx context.Context) ([]domain.Book, error) {
	var books []domain.Book
	if err := c.Request(ctx, http.MethodGet, PathBooksWithAuthors, nil, &books); err != nil {
		return nil, wrapError("listBooksWithAuthors", PathBooksWithAuthors, err)
	}
	return books, nil
}

// GetBook returns one book.
func (c *Client) GetBook(ctx context.Context, id int) (*domain.Book, error) {
	path := PathBookData + url.PathEscape(strconv.Itoa(id))

	var book domain.Book
	if err := c.Request(ctx, http.MethodGet, path, nil, &book); err != nil {
		return nil, wrapError("getBook", path, err)
	}
	return &book, nil
}

// AddBook creates a book with its ordered authors.
func (c *Client) AddBook(ctx context.Context, book domain.NewBook) (*domain.AddBookResult, error) {
	if book.Authors == nil {
		book.Authors = []domain.Author{}
	}

	var result domain.AddBookResult
	if err := c.Request(ctx, http.MethodPost, PathAddBook, book, &result); err != nil {
		return nil, wrapError("addBook", PathAddBook, err)
	}
	return &result, nil
}

// LoanBook records a loan, either for a registered reader or a guest.
func (c *Client) LoanBook(ctx context.Context, loan domain.LoanRequest) (*domain.LoanResult, error) {
	var result domain.LoanResult
	if err := c.Request(ctx, http.MethodPost, PathLoanBook, loan, &result); err != nil {
		return nil, wrapError("loanBook", PathLoanBook, err)
	}
	return &result, nil
}

// SignupReader registers a reader and returns the issued reader id.
func (c *Client) SignupReader(ctx context.Context, reader domain.Reader) (*domain.SignupResult, error) {
	reader.ReaderID = 0

	var result domain.SignupResult
	if err := c.Request(ctx, http.MethodPost, PathSignupReader, reader, &result); err != nil {
		return nil, wrapError("signupReader", PathSignupReader, err)
	}
	return &result, nil
}
