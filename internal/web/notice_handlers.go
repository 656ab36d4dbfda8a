package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/librarydb/library-web/internal/http/response"
	"github.com/librarydb/library-web/internal/notify"
)

// handleListNotices returns the active notices of the caller's session.
func (s *Server) handleListNotices(w http.ResponseWriter, r *http.Request) {
	response.Success(w, s.notices.Active(notify.SessionID(r.Context())), s.logger)
}

// handleDismissNotice removes a notice before it expires. Form posts carry a
// return path and are redirected back to it.
func (s *Server) handleDismissNotice(w http.ResponseWriter, r *http.Request) {
	noticeID := chi.URLParam(r, "id")
	dismissed := s.notices.Dismiss(notify.SessionID(r.Context()), noticeID)

	if back := localPath(r.PostFormValue("return"), ""); back != "" {
		redirect(w, r, back)
		return
	}

	if !dismissed {
		response.NotFound(w, "Notice not found", s.logger)
		return
	}
	response.Message(w, "Notice dismissed", s.logger)
}
