package web

import (
	"net/http"

	"github.com/librarydb/library-web/internal/domain"
	"github.com/librarydb/library-web/internal/service"
)

type listPage struct {
	Books []domain.Book
	Error string
}

// handleListTable renders every book with its year, genre and authors.
func (s *Server) handleListTable(w http.ResponseWriter, r *http.Request) {
	s.renderList(w, r, service.VariantTable, pageListTable, "Books")
}

// handleListSimple renders book titles linking to their pages.
func (s *Server) handleListSimple(w http.ResponseWriter, r *http.Request) {
	s.renderList(w, r, service.VariantSimple, pageListSimple, "Titles")
}

func (s *Server) renderList(w http.ResponseWriter, r *http.Request, variant service.Variant, page, title string) {
	books, err := s.services.Catalog.List(r.Context(), variant)
	if err != nil {
		s.render(w, r, http.StatusBadGateway, page, title, listPage{Error: service.ListError(variant, err)})
		return
	}
	s.render(w, r, http.StatusOK, page, title, listPage{Books: books})
}
