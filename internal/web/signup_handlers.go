package web

import (
	"net/http"

	"github.com/librarydb/library-web/internal/domain"
)

type signupPage struct {
	ReaderID int
	Reader   domain.Reader
}

// handleSignupForm renders the reader registration form.
func (s *Server) handleSignupForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, pageSignup, "Sign up", signupPage{})
}

// handleSignupSubmit registers a reader. On success the form is cleared and
// the issued reader id shown; on failure the entered values stay.
func (s *Server) handleSignupSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.render(w, r, http.StatusBadRequest, pageSignup, "Sign up", signupPage{})
		return
	}

	reader := domain.Reader{
		FirstName:   r.PostForm.Get("first_name"),
		LastName:    r.PostForm.Get("last_name"),
		PhoneNumber: r.PostForm.Get("phone_number"),
		Email:       r.PostForm.Get("email"),
	}

	result, err := s.services.Readers.Signup(r.Context(), reader)
	if err != nil {
		s.render(w, r, formStatus(err), pageSignup, "Sign up", signupPage{Reader: reader})
		return
	}

	s.render(w, r, http.StatusOK, pageSignup, "Sign up", signupPage{ReaderID: result.ReaderID})
}
