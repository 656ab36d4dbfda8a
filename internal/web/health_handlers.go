package web

import (
	"net/http"

	"github.com/librarydb/library-web/internal/http/response"
)

// handleHealthCheck reports that the front end is serving.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]any{
		"status":         "healthy",
		"active_notices": s.notices.Len(),
		"notice_streams": s.sseHandler.Stats(),
	}, s.logger)
}
