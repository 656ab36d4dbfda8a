package web

import (
	"net/http"
	"regexp"
	"slices"
	"strconv"

	"github.com/librarydb/library-web/internal/domain"
	"github.com/librarydb/library-web/internal/service"
)

const actionAddAuthor = "add-author"

var authorFieldPattern = regexp.MustCompile(`^authors\[(\d+)\]\[(first_name|last_name)\]$`)

type addBookPage struct {
	Form service.BookForm
}

// handleAddBookForm renders an empty book form with one author row.
func (s *Server) handleAddBookForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, pageAddBook, "Add a book", addBookPage{
		Form: service.BookForm{}.AddAuthorRow(),
	})
}

// handleAddBookSubmit either appends an author row or submits the book.
func (s *Server) handleAddBookSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.render(w, r, http.StatusBadRequest, pageAddBook, "Add a book", addBookPage{
			Form: service.BookForm{}.AddAuthorRow(),
		})
		return
	}

	form := parseBookForm(r)
	if r.PostForm.Get("action") == actionAddAuthor {
		s.render(w, r, http.StatusOK, pageAddBook, "Add a book", addBookPage{Form: form.AddAuthorRow()})
		return
	}

	if _, err := s.services.Books.Add(r.Context(), form); err != nil {
		if len(form.Authors) == 0 {
			form = form.AddAuthorRow()
		}
		s.render(w, r, formStatus(err), pageAddBook, "Add a book", addBookPage{Form: form})
		return
	}

	redirect(w, r, "/")
}

// parseBookForm reads the book fields and the authors[N][first_name] style
// author rows, ordered by N.
func parseBookForm(r *http.Request) service.BookForm {
	form := service.BookForm{
		Title:           r.PostForm.Get("title"),
		PublicationYear: r.PostForm.Get("publication_year"),
		Genre:           r.PostForm.Get("genre"),
	}

	rows := make(map[int]*domain.Author)
	for key, values := range r.PostForm {
		m := authorFieldPattern.FindStringSubmatch(key)
		if m == nil || len(values) == 0 {
			continue
		}
		idx, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		row, ok := rows[idx]
		if !ok {
			row = &domain.Author{}
			rows[idx] = row
		}
		if m[2] == "first_name" {
			row.FirstName = values[0]
		} else {
			row.LastName = values[0]
		}
	}

	indexes := make([]int, 0, len(rows))
	for idx := range rows {
		indexes = append(indexes, idx)
	}
	slices.Sort(indexes)

	for _, idx := range indexes {
		form.Authors = append(form.Authors, *rows[idx])
	}
	return form
}
