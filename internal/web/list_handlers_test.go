package web

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/librarydb/library-web/internal/apiclient"
)

func tableRows(t *testing.T, site *testSite) [][]string {
	t.Helper()

	resp, doc := site.get(t, "/")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rows [][]string
	for _, tbody := range byTag(doc, "tbody") {
		for _, tr := range byTag(tbody, "tr") {
			var cells []string
			for _, td := range byTag(tr, "td") {
				cells = append(cells, text(td))
			}
			rows = append(rows, cells)
		}
	}
	return rows
}

func TestListTable_RendersBooksWithAuthors(t *testing.T) {
	site := newTestSite(t)
	site.backend.SeedBook("Dune", 1965, "Science Fiction", "Frank Herbert")
	site.backend.SeedBook("Good Omens", 1990, "Fantasy", "Terry Pratchett", "Neil Gaiman")
	site.backend.SeedBook("Beowulf", 1000, "Epic")

	rows := tableRows(t, site)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"Dune", "1965", "Science Fiction", "Frank Herbert", "Loan"}, rows[0])
	assert.Equal(t, "Terry Pratchett, Neil Gaiman", rows[1][3])
	assert.Equal(t, "Author unknown", rows[2][3])

	assert.Len(t, site.backend.RequestsTo(apiclient.PathBooksWithAuthors), 1)
}

func TestListTable_Empty(t *testing.T) {
	site := newTestSite(t)

	resp, doc := site.get(t, "/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, byTag(doc, "table"))
	assert.Len(t, byClass(doc, "empty"), 1)
}

func TestListTable_BackendFailure(t *testing.T) {
	site := newTestSite(t)
	site.backend.FailWithError(apiclient.PathBooksWithAuthors, http.StatusInternalServerError, "database down")

	resp, doc := site.get(t, "/")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	errs := byClass(byID(doc, "books-list"), "error")
	require.Len(t, errs, 1)
	assert.Equal(t, "Error loading books with authors.", text(errs[0]))
}

func TestListSimple_LinksToBookPages(t *testing.T) {
	site := newTestSite(t)
	id := site.backend.SeedBook("Dune", 1965, "Science Fiction", "Frank Herbert")

	resp, doc := site.get(t, "/books")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	links := byClass(doc, "book-link")
	require.Len(t, links, 1)
	assert.Equal(t, "Dune", text(links[0]))
	assert.Equal(t, "/book/"+itoa(id), attr(links[0], "href"))
	assert.Len(t, site.backend.RequestsTo(apiclient.PathBooks), 1)
}

func TestListSimple_BackendFailureShowsReason(t *testing.T) {
	site := newTestSite(t)
	site.backend.FailWithError(apiclient.PathBooks, http.StatusServiceUnavailable, "maintenance")

	_, doc := site.get(t, "/books")

	errs := byClass(byID(doc, "books-list"), "error")
	require.Len(t, errs, 1)
	assert.Equal(t, "Error loading books: maintenance", text(errs[0]))
}
