package apiclient_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/librarydb/library-web/internal/apiclient"
	"github.com/librarydb/library-web/internal/apiclient/apitest"
	"github.com/librarydb/library-web/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, baseURL string) *apiclient.Client {
	t.Helper()
	client, err := apiclient.New(apiclient.Config{BaseURL: baseURL, Timeout: 2 * time.Second}, discardLogger())
	require.NoError(t, err)
	t.Cleanup(client.Close)
	return client
}

func newHandlerClient(t *testing.T, handler http.HandlerFunc) *apiclient.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return newTestClient(t, server.URL)
}

func TestNew_RejectsRelativeURL(t *testing.T) {
	_, err := apiclient.New(apiclient.Config{BaseURL: "/api"}, discardLogger())
	assert.Error(t, err)
}

func TestRequest_SendsJSON(t *testing.T) {
	var gotMethod, gotContentType, gotAccept string
	var gotBody map[string]any

	client := newHandlerClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		gotAccept = r.Header.Get("Accept")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"message": "ok"}`))
	})

	var out struct {
		Message string `json:"message"`
	}
	err := client.Request(context.Background(), http.MethodPost, "/add-book", map[string]any{"title": "Dune"}, &out)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "application/json", gotAccept)
	assert.Equal(t, "Dune", gotBody["title"])
	assert.Equal(t, "ok", out.Message)
}

func TestRequest_GetHasNoBody(t *testing.T) {
	var contentType string
	var length int64

	client := newHandlerClient(t, func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		length = r.ContentLength
		w.Write([]byte(`[]`))
	})

	var out []domain.Book
	require.NoError(t, client.Request(context.Background(), http.MethodGet, "/books", nil, &out))
	assert.Empty(t, contentType)
	assert.Zero(t, length)
}

func TestRequest_ErrorEnvelope(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
		wantText    string
	}{
		{
			name:        "server message surfaced verbatim",
			status:      http.StatusBadRequest,
			body:        `{"error": "Invalid input"}`,
			wantMessage: "Invalid input",
			wantText:    "Invalid input",
		},
		{
			name:     "unparseable body",
			status:   http.StatusInternalServerError,
			body:     `<html>boom</html>`,
			wantText: "HTTP Error 500",
		},
		{
			name:     "envelope without message",
			status:   http.StatusNotFound,
			body:     `{"detail": "nope"}`,
			wantText: "HTTP Error 404",
		},
		{
			name:     "empty body",
			status:   http.StatusServiceUnavailable,
			wantText: "HTTP Error 503",
		},
		{
			name:        "message key when error is absent",
			status:      http.StatusConflict,
			body:        `{"message": "Book is already on loan"}`,
			wantMessage: "Book is already on loan",
			wantText:    "Book is already on loan",
		},
		{
			name:        "error key wins over message",
			status:      http.StatusBadRequest,
			body:        `{"error": "Invalid input", "message": "ignored"}`,
			wantMessage: "Invalid input",
			wantText:    "Invalid input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			client := newHandlerClient(t, func(w http.ResponseWriter, _ *http.Request) {
				calls++
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			err := client.Request(context.Background(), http.MethodPost, "/loan-book", map[string]int{"book_id": 1}, nil)
			require.Error(t, err)

			var reqErr *apiclient.RequestError
			require.True(t, errors.As(err, &reqErr))
			assert.Equal(t, tt.status, reqErr.Status)
			assert.Equal(t, tt.wantMessage, reqErr.Message)
			assert.Equal(t, tt.wantText, reqErr.Error())
			assert.Equal(t, 1, calls, "never retried")
		})
	}
}

func TestRequest_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := newTestClient(t, url)
	err := client.Request(context.Background(), http.MethodGet, "/books", nil, nil)
	require.Error(t, err)

	assert.True(t, errors.Is(err, apiclient.ErrTransport))
	var reqErr *apiclient.RequestError
	assert.False(t, errors.As(err, &reqErr))
}

func TestRequest_CanceledContext(t *testing.T) {
	client := newHandlerClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`[]`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := client.Request(ctx, http.MethodGet, "/books", nil, nil)
	assert.True(t, errors.Is(err, apiclient.ErrTransport))
}

func TestRequest_MalformedSuccessBody(t *testing.T) {
	client := newHandlerClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"book_id": `))
	})

	var book domain.Book
	err := client.Request(context.Background(), http.MethodGet, "/book-data/1", nil, &book)
	assert.True(t, errors.Is(err, apiclient.ErrDecode))
}

func TestRequest_ForwardsRequestID(t *testing.T) {
	backend := apitest.New(t)
	client := newTestClient(t, backend.URL())

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-42")
	_, err := client.ListBooks(ctx)
	require.NoError(t, err)

	reqs := backend.RequestsTo(apiclient.PathBooks)
	require.Len(t, reqs, 1)
	assert.Equal(t, "req-42", reqs[0].RequestID)
}

func TestClient_ListBooks(t *testing.T) {
	backend := apitest.New(t)
	backend.SeedBook("War and Peace", 1869, "Novel", "Leo Tolstoy")
	backend.SeedBook("Beowulf", 1000, "Epic")
	client := newTestClient(t, backend.URL())

	books, err := client.ListBooksWithAuthors(context.Background())
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "Leo Tolstoy", books[0].AuthorsDisplay())
	assert.Equal(t, domain.UnknownAuthor, books[1].AuthorsDisplay())

	plain, err := client.ListBooks(context.Background())
	require.NoError(t, err)
	require.Len(t, plain, 2)
	assert.True(t, plain[0].Authors.Empty())
}

func TestClient_GetBook(t *testing.T) {
	backend := apitest.New(t)
	id := backend.SeedBook("Dune", 1965, "Science fiction", "Frank Herbert")
	client := newTestClient(t, backend.URL())

	book, err := client.GetBook(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Dune", book.Title)
	assert.Equal(t, 1965, book.PublicationYear)

	_, err = client.GetBook(context.Background(), 999)
	var reqErr *apiclient.RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, http.StatusNotFound, reqErr.Status)
	assert.Equal(t, "Book not found", reqErr.Message)

	var opErr *apiclient.Error
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, "getBook", opErr.Op)
	assert.Equal(t, "/book-data/999", opErr.Path)
}

func TestClient_AddBookSendsEmptyAuthorList(t *testing.T) {
	backend := apitest.New(t)
	client := newTestClient(t, backend.URL())

	result, err := client.AddBook(context.Background(), domain.NewBook{Title: "Anonymous Poems", PublicationYear: 1900, Genre: "Poetry"})
	require.NoError(t, err)
	assert.Equal(t, "Book added successfully", result.Message)
	assert.Equal(t, 1, result.BookID)

	reqs := backend.RequestsTo(apiclient.PathAddBook)
	require.Len(t, reqs, 1)
	assert.JSONEq(t, `{"title":"Anonymous Poems","publication_year":1900,"genre":"Poetry","authors":[]}`, string(reqs[0].Body))
}

func TestClient_LoanBook(t *testing.T) {
	backend := apitest.New(t)
	bookID := backend.SeedBook("Dune", 1965, "Science fiction")
	readerID := backend.SeedReader(domain.Reader{FirstName: "Anna", LastName: "K", Email: "anna@example.com"})
	client := newTestClient(t, backend.URL())

	result, err := client.LoanBook(context.Background(), domain.ReaderLoanRequest(bookID, readerID))
	require.NoError(t, err)
	assert.Equal(t, 1, result.LoanID)
	assert.Equal(t, "Book loaned successfully", result.Message)

	_, err = client.LoanBook(context.Background(), domain.ReaderLoanRequest(bookID, 404))
	var reqErr *apiclient.RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, "Reader not found", reqErr.Message)
}

func TestClient_SignupReader(t *testing.T) {
	backend := apitest.New(t)
	client := newTestClient(t, backend.URL())

	result, err := client.SignupReader(context.Background(), domain.Reader{
		ReaderID:    77,
		FirstName:   "Anna",
		LastName:    "Karenina",
		PhoneNumber: "+375291234567",
		Email:       "anna@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.ReaderID)

	reqs := backend.RequestsTo(apiclient.PathSignupReader)
	require.Len(t, reqs, 1)
	assert.NotContains(t, string(reqs[0].Body), "reader_id")
}
