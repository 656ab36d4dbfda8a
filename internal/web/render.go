package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/librarydb/library-web/internal/notify"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Page templates, each rendered inside the shared layout.
const (
	pageListTable  = "list_table.html"
	pageListSimple = "list_simple.html"
	pageBookDetail = "book_detail.html"
	pageLoanPrompt = "loan_prompt.html"
	pageAddBook    = "add_book.html"
	pageSignup     = "signup.html"
	pageError      = "error.html"
)

// pageData is what the layout template renders.
type pageData struct {
	Title       string
	Path        string
	Notices     []notify.Notice
	NoticeTTLMs int64
	Content     any
}

type errorPage struct {
	ErrorID string
}

// renderer holds one parsed template set per page.
type renderer struct {
	pages map[string]*template.Template
}

func newRenderer() (*renderer, error) {
	r := &renderer{pages: make(map[string]*template.Template)}
	for _, page := range []string{pageListTable, pageListSimple, pageBookDetail, pageLoanPrompt, pageAddBook, pageSignup, pageError} {
		tmpl, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		r.pages[page] = tmpl
	}
	return r, nil
}

func staticFiles() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// The directory is embedded at build time.
		panic(err)
	}
	return http.FS(sub)
}

// render writes page with status. Active notices of the session are always included.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page, title string, content any) {
	tmpl, ok := s.renderer.pages[page]
	if !ok {
		s.renderError(w, r, fmt.Errorf("unknown page %q", page))
		return
	}

	data := pageData{
		Title:       title,
		Path:        r.URL.Path,
		Notices:     s.notices.Active(notify.SessionID(r.Context())),
		NoticeTTLMs: s.notices.TTL().Milliseconds(),
		Content:     content,
	}

	// Render into a buffer so a template failure can still become an error page.
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		s.renderError(w, r, fmt.Errorf("execute template %s: %w", page, err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// renderError logs err under a fresh error id and shows that id to the user.
func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	errorID := uuid.NewString()
	s.logger.Error("page failed",
		slog.String("error_id", errorID),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()))

	var buf bytes.Buffer
	data := pageData{Title: "Error", Path: r.URL.Path, Content: errorPage{ErrorID: errorID}}
	if tmpl, ok := s.renderer.pages[pageError]; ok && tmpl.ExecuteTemplate(&buf, "layout", data) == nil {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = buf.WriteTo(w)
		return
	}

	http.Error(w, "Internal Server Error (error id "+errorID+")", http.StatusInternalServerError)
}
