package main

import (
	"bytes"
	"errors"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/librarydb/library-web/internal/apiclient"
	"github.com/librarydb/library-web/internal/apiclient/apitest"
	"github.com/librarydb/library-web/internal/domain"
)

type result struct {
	out    string
	errOut string
	err    error
}

func run(t *testing.T, backend *apitest.Backend, stdin string, args ...string) result {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := newRootCmd(strings.NewReader(stdin), &out, &errOut)
	cmd.SetArgs(append(args,
		"--backend-url", backend.URL(),
		"--env-file", filepath.Join(t.TempDir(), "missing.env"),
		"--log-level", "error",
	))

	err := cmd.Execute()
	return result{out: out.String(), errOut: errOut.String(), err: err}
}

func TestBooks_Simple(t *testing.T) {
	backend := apitest.New(t)
	backend.SeedBook("Dune", 1965, "Science Fiction", "Frank Herbert")
	backend.SeedBook("Beowulf", 1000, "Epic")

	res := run(t, backend, "", "books")
	require.NoError(t, res.err)
	assert.Equal(t, "1\tDune\n2\tBeowulf\n", res.out)
	assert.Len(t, backend.RequestsTo(apiclient.PathBooks), 1)
}

func TestBooks_Table(t *testing.T) {
	backend := apitest.New(t)
	backend.SeedBook("Good Omens", 1990, "Fantasy", "Terry Pratchett", "Neil Gaiman")
	backend.SeedBook("Beowulf", 1000, "Epic")

	res := run(t, backend, "", "books", "--table")
	require.NoError(t, res.err)

	for _, want := range []string{"Publication Year", "Good Omens", "1990", "Terry Pratchett, Neil Gaiman", "Author unknown"} {
		assert.Contains(t, res.out, want)
	}
	assert.Len(t, backend.RequestsTo(apiclient.PathBooksWithAuthors), 1)
}

func TestBooks_FailureIsReported(t *testing.T) {
	backend := apitest.New(t)
	backend.FailWithError(apiclient.PathBooksWithAuthors, 500, "database down")

	res := run(t, backend, "", "books", "-t")
	require.Error(t, res.err)
	assert.True(t, errors.Is(res.err, errReported))
	assert.Equal(t, "Error loading books with authors.\n", res.errOut)
}

func TestBook_Details(t *testing.T) {
	backend := apitest.New(t)
	id := backend.SeedBook("Dune", 1965, "Science Fiction", "Frank Herbert")

	res := run(t, backend, "", "book", itoa(id))
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Dune")
	assert.Contains(t, res.out, "Frank Herbert")

	res = run(t, backend, "", "book", "42")
	require.Error(t, res.err)
	assert.Equal(t, "Error loading book details: Book not found\n", res.errOut)
}

func TestAddBook(t *testing.T) {
	backend := apitest.New(t)

	res := run(t, backend, "", "add-book",
		"--title", "Good Omens", "--year", "1990", "--genre", "Fantasy",
		"--author", "Terry Pratchett", "--author", "Gaiman, Neil")
	require.NoError(t, res.err)
	assert.Equal(t, "Book added successfully\n", res.out)

	book, ok := backend.Book(1)
	require.True(t, ok)
	assert.Equal(t, []domain.Author{
		{FirstName: "Terry", LastName: "Pratchett"},
		{FirstName: "Neil", LastName: "Gaiman"},
	}, book.Authors.List)
}

func TestAddBook_ValidationFailure(t *testing.T) {
	backend := apitest.New(t)

	res := run(t, backend, "", "add-book", "--title", "Good Omens", "--year", "1990", "--genre", "Fantasy", "--author", "Homer")
	require.Error(t, res.err)
	assert.Equal(t, "error: Last name of author 1 is required.\n", res.out)
	assert.Empty(t, backend.RequestsTo(apiclient.PathAddBook))
}

func TestSignup(t *testing.T) {
	backend := apitest.New(t)

	res := run(t, backend, "", "signup",
		"--first-name", "Anna", "--last-name", "Ivanova", "--phone", "+375291234567", "--email", "anna@example.com")
	require.NoError(t, res.err)
	assert.Equal(t, "Reader registered successfully. Your reader ID is 1.\n", res.out)

	res = run(t, backend, "", "signup", "--first-name", "Anna")
	require.Error(t, res.err)
	assert.Equal(t, "error: All fields are required.\n", res.out)
}

func TestLoan(t *testing.T) {
	tests := []struct {
		name      string
		stdin     string
		args      []string
		wantErr   bool
		wantOut   string
		wantLoans int
	}{
		{
			name:      "reader id flag",
			args:      []string{"--reader-id", "1"},
			wantOut:   "Book loaned successfully. Loan ID: 1\n",
			wantLoans: 1,
		},
		{
			name:      "prompted reader id",
			stdin:     "1\n",
			wantOut:   "Enter your reader ID: Book loaned successfully. Loan ID: 1\n",
			wantLoans: 1,
		},
		{
			name:    "canceled prompt",
			stdin:   "",
			wantOut: "Enter your reader ID: \n",
		},
		{
			name:    "invalid reader id",
			stdin:   "abc\n",
			wantErr: true,
			wantOut: "Enter your reader ID: error: Please enter a valid reader ID.\n",
		},
		{
			name:    "unknown reader",
			args:    []string{"--reader-id", "7"},
			wantErr: true,
			wantOut: "error: Reader not found\n",
		},
		{
			name:      "guest",
			args:      []string{"--first-name", "Ivan", "--last-name", "Petrov", "--email", "ivan@example.com"},
			wantOut:   "Book loaned successfully\n",
			wantLoans: 1,
		},
		{
			name:    "guest with bad email",
			args:    []string{"--first-name", "Ivan", "--last-name", "Petrov", "--email", "ivan"},
			wantErr: true,
			wantOut: "error: Please enter a valid email address.\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := apitest.New(t)
			bookID := backend.SeedBook("Dune", 1965, "Science Fiction")
			backend.SeedReader(domain.Reader{FirstName: "Anna", LastName: "Ivanova", Email: "anna@example.com"})

			res := run(t, backend, tt.stdin, append([]string{"loan", itoa(bookID)}, tt.args...)...)
			if tt.wantErr {
				assert.Error(t, res.err)
			} else {
				assert.NoError(t, res.err)
			}
			assert.Equal(t, tt.wantOut, res.out)
			assert.Len(t, backend.Loans(), tt.wantLoans)
		})
	}
}

func TestLoan_ReaderIDExcludesGuestFlags(t *testing.T) {
	for _, flag := range []string{"--first-name", "--last-name", "--phone", "--email"} {
		t.Run(flag, func(t *testing.T) {
			backend := apitest.New(t)
			id := backend.SeedBook("Dune", 1965, "Science Fiction")

			res := run(t, backend, "", "loan", itoa(id), "--reader-id", "5", flag, "x")
			require.Error(t, res.err)
			assert.Contains(t, res.err.Error(), "reader-id")
			assert.Empty(t, backend.Requests())
		})
	}
}

func TestLoan_InvalidBookID(t *testing.T) {
	backend := apitest.New(t)

	res := run(t, backend, "", "loan", "abc", "--reader-id", "1")
	require.Error(t, res.err)
	assert.Equal(t, "Error loading book details: Invalid book ID \"abc\".\n", res.errOut)
	assert.Empty(t, backend.Requests())
}

func TestParseAuthor(t *testing.T) {
	tests := []struct {
		in   string
		want domain.Author
	}{
		{"Terry Pratchett", domain.Author{FirstName: "Terry", LastName: "Pratchett"}},
		{"Ursula K. Le", domain.Author{FirstName: "Ursula K.", LastName: "Le"}},
		{"Le Guin, Ursula K.", domain.Author{FirstName: "Ursula K.", LastName: "Le Guin"}},
		{"Homer", domain.Author{FirstName: "Homer"}},
		{"  ", domain.Author{}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseAuthor(tt.in))
		})
	}
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
