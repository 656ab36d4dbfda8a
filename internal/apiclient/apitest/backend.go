// Package apitest provides an in-memory library backend for tests.
package apitest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/librarydb/library-web/internal/domain"
)

// Request is one call received by the Backend.
type Request struct {
	Method    string
	Path      string
	Body      []byte
	RequestID string
}

// Failure is a canned response returned instead of the normal handler.
type Failure struct {
	Status int
	Body   string
}

// Backend is a fake library API served by httptest.
type Backend struct {
	Server *httptest.Server

	mu         sync.Mutex
	books      map[int]domain.Book
	order      []int
	readers    map[int]domain.Reader
	loans      []domain.LoanRequest
	failures   map[string]Failure
	requests   []Request
	nextBook   int
	nextReader int
}

// New starts a Backend that is closed when the test ends.
func New(t testing.TB) *Backend {
	t.Helper()

	b := &Backend{
		books:      make(map[int]domain.Book),
		readers:    make(map[int]domain.Reader),
		failures:   make(map[string]Failure),
		nextBook:   1,
		nextReader: 1,
	}

	r := chi.NewRouter()
	r.Use(b.record)
	r.Get("/books", b.handleBooks(false))
	r.Get("/books-with-authors", b.handleBooks(true))
	r.Get("/book-data/{id}", b.handleBookData)
	r.Post("/add-book", b.handleAddBook)
	r.Post("/loan-book", b.handleLoanBook)
	r.Post("/signup-reader", b.handleSignup)

	b.Server = httptest.NewServer(r)
	t.Cleanup(b.Server.Close)
	return b
}

// URL returns the base URL of the backend.
func (b *Backend) URL() string {
	return b.Server.URL
}

// SeedBook stores a book and returns its id. Authors are kept as display names.
func (b *Backend) SeedBook(title string, year int, genre string, authors ...string) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextBook
	b.nextBook++
	b.books[id] = domain.Book{
		ID:              id,
		Title:           title,
		PublicationYear: year,
		Genre:           genre,
		Authors:         domain.Authors{Names: authors},
	}
	b.order = append(b.order, id)
	return id
}

// SeedReader stores a reader and returns its id.
func (b *Backend) SeedReader(r domain.Reader) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.addReaderLocked(r)
}

// Fail makes every request to path answer with status and a raw body.
func (b *Backend) Fail(path string, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[path] = Failure{Status: status, Body: body}
}

// FailWithError makes every request to path answer with status and an error envelope.
func (b *Backend) FailWithError(path string, status int, message string) {
	data, _ := json.Marshal(map[string]string{"error": message})
	b.Fail(path, status, string(data))
}

// Requests returns the calls received so far.
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.requests...)
}

// RequestsTo returns the calls received for one path.
func (b *Backend) RequestsTo(path string) []Request {
	var out []Request
	for _, req := range b.Requests() {
		if req.Path == path {
			out = append(out, req)
		}
	}
	return out
}

// Loans returns the loans recorded so far.
func (b *Backend) Loans() []domain.LoanRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.LoanRequest(nil), b.loans...)
}

// Book returns a stored book.
func (b *Backend) Book(id int) (domain.Book, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	book, ok := b.books[id]
	return book, ok
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewReader(body))
		}

		b.mu.Lock()
		b.requests = append(b.requests, Request{
			Method:    r.Method,
			Path:      r.URL.Path,
			Body:      body,
			RequestID: r.Header.Get("X-Request-Id"),
		})
		failure, failing := b.failures[r.URL.Path]
		b.mu.Unlock()

		if failing {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(failure.Status)
			_, _ = w.Write([]byte(failure.Body))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) handleBooks(withAuthors bool) http.HandlerFunc {
	type listed struct {
		ID              int     `json:"book_id"`
		Title           string  `json:"title"`
		PublicationYear int     `json:"publication_year"`
		Genre           string  `json:"genre"`
		Authors         *string `json:"authors,omitempty"`
	}

	return func(w http.ResponseWriter, _ *http.Request) {
		b.mu.Lock()
		out := make([]listed, 0, len(b.order))
		for _, id := range b.order {
			book := b.books[id]
			item := listed{ID: id, Title: book.Title, PublicationYear: book.PublicationYear, Genre: book.Genre}
			if withAuthors {
				// The backend aggregates names into one string, or null when there are none.
				if names := book.Authors.String(); names != "" {
					item.Authors = &names
				}
			}
			out = append(out, item)
		}
		b.mu.Unlock()

		writeJSON(w, http.StatusOK, out)
	}
}

func (b *Backend) handleBookData(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid book ID")
		return
	}

	b.mu.Lock()
	book, ok := b.books[id]
	b.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "Book not found")
		return
	}
	writeJSON(w, http.StatusOK, book)
}

func (b *Backend) handleAddBook(w http.ResponseWriter, r *http.Request) {
	var nb domain.NewBook
	if err := json.NewDecoder(r.Body).Decode(&nb); err != nil || nb.Title == "" {
		writeError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	b.mu.Lock()
	id := b.nextBook
	b.nextBook++
	b.books[id] = domain.Book{
		ID:              id,
		Title:           nb.Title,
		PublicationYear: nb.PublicationYear,
		Genre:           nb.Genre,
		Authors:         domain.Authors{List: nb.Authors},
	}
	b.order = append(b.order, id)
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"message": "Book added successfully", "book_id": id})
}

func (b *Backend) handleLoanBook(w http.ResponseWriter, r *http.Request) {
	var req domain.LoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.books[req.BookID]; !ok {
		writeError(w, http.StatusNotFound, "Book not found")
		return
	}
	if req.ReaderID != 0 {
		if _, ok := b.readers[req.ReaderID]; !ok {
			writeError(w, http.StatusNotFound, "Reader not found")
			return
		}
	} else {
		if req.FirstName == "" || req.LastName == "" || req.Email == "" {
			writeError(w, http.StatusBadRequest, "Invalid input")
			return
		}
		req.ReaderID = b.addReaderLocked(domain.Reader{
			FirstName:   req.FirstName,
			LastName:    req.LastName,
			PhoneNumber: req.PhoneNumber,
			Email:       req.Email,
		})
	}

	b.loans = append(b.loans, req)
	writeJSON(w, http.StatusOK, map[string]any{"message": "Book loaned successfully", "loan_id": len(b.loans)})
}

func (b *Backend) handleSignup(w http.ResponseWriter, r *http.Request) {
	var reader domain.Reader
	if err := json.NewDecoder(r.Body).Decode(&reader); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	b.mu.Lock()
	id := b.addReaderLocked(reader)
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"reader_id": id})
}

func (b *Backend) addReaderLocked(r domain.Reader) int {
	id := b.nextReader
	b.nextReader++
	r.ReaderID = id
	b.readers[id] = r
	return id
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
