package web

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/librarydb/library-web/internal/domain"
	"github.com/librarydb/library-web/internal/errors"
	"github.com/librarydb/library-web/internal/service"
	"github.com/librarydb/library-web/internal/ui"
)

type bookDetailPage struct {
	Book        *domain.Book
	Error       string
	LoanForm    ui.LoanForm
	Guest       domain.GuestLoan
	OpenURL     string
	CloseURL    string
	BackdropURL string
}

type loanPromptPage struct {
	BookID   string
	Question string
	Answer   string
	Return   string
}

// handleBookDetail renders one book. The loan sub-form state travels in the
// query string together with the element that was clicked to get here.
func (s *Server) handleBookDetail(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	state := ui.ParseLoanForm(q.Get(ui.ParamLoan))
	if click := q.Get(ui.ParamClick); click != "" {
		state = s.dispatcher.Dispatch(state, ui.Event{Type: ui.EventClick, Target: click})
	}

	s.renderBook(w, r, http.StatusOK, state, domain.GuestLoan{})
}

// handleLoanSubmit loans the book to the reader described by the sub-form.
func (s *Server) handleLoanSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.render(w, r, http.StatusBadRequest, pageBookDetail, "Book", bookDetailPage{Error: "Invalid form submission."})
		return
	}

	guest := domain.GuestLoan{
		FirstName:   r.PostForm.Get("first_name"),
		LastName:    r.PostForm.Get("last_name"),
		PhoneNumber: r.PostForm.Get("phone_number"),
		Email:       r.PostForm.Get("email"),
	}

	rawID := chi.URLParam(r, "id")
	bookID, err := service.ParseBookID(rawID)
	if err != nil {
		s.render(w, r, loadStatus(err), pageBookDetail, "Book", bookDetailPage{Error: service.DetailError(err)})
		return
	}

	if _, err := s.services.Loans.LoanAsGuest(r.Context(), bookID, guest); err != nil {
		s.renderBook(w, r, formStatus(err), ui.LoanForm{Visible: true}, guest)
		return
	}

	redirect(w, r, "/book/"+rawID)
}

// renderBook loads the book named in the path and renders its page.
func (s *Server) renderBook(w http.ResponseWriter, r *http.Request, status int, state ui.LoanForm, guest domain.GuestLoan) {
	rawID := chi.URLParam(r, "id")
	path := "/book/" + rawID

	book, err := s.services.Catalog.Get(r.Context(), rawID)
	if err != nil {
		if status == http.StatusOK {
			status = loadStatus(err)
		}
		s.render(w, r, status, pageBookDetail, "Book", bookDetailPage{Error: service.DetailError(err)})
		return
	}

	s.render(w, r, status, pageBookDetail, book.Title, bookDetailPage{
		Book:        book,
		LoanForm:    state,
		Guest:       guest,
		OpenURL:     ui.ClickURL(path, state, ui.OpenLoanButtonID),
		CloseURL:    ui.ClickURL(path, state, ui.CloseLoanButtonID),
		BackdropURL: ui.ClickURL(path, state, ui.LoanBackdropID),
	})
}

// handleLoanPrompt asks for the reader id a book is loaned to.
func (s *Server) handleLoanPrompt(w http.ResponseWriter, r *http.Request) {
	rawID := chi.URLParam(r, "id")
	if _, err := service.ParseBookID(rawID); err != nil {
		s.render(w, r, loadStatus(err), pageBookDetail, "Book", bookDetailPage{Error: service.DetailError(err)})
		return
	}

	s.render(w, r, http.StatusOK, pageLoanPrompt, "Loan book", loanPromptPage{
		BookID:   rawID,
		Question: service.PromptReaderID,
		Return:   localPath(r.URL.Query().Get("return"), "/book/"+rawID),
	})
}

// handleLoanPromptSubmit loans the book to the reader id answered in the prompt.
// Cancel returns without loaning or notifying.
func (s *Server) handleLoanPromptSubmit(w http.ResponseWriter, r *http.Request) {
	rawID := chi.URLParam(r, "id")
	bookID, err := service.ParseBookID(rawID)
	if err != nil {
		s.render(w, r, loadStatus(err), pageBookDetail, "Book", bookDetailPage{Error: service.DetailError(err)})
		return
	}
	if err := r.ParseForm(); err != nil {
		redirect(w, r, "/book/"+rawID+"/prompt")
		return
	}

	back := localPath(r.PostForm.Get("return"), "/book/"+rawID)
	answer := r.PostForm.Get("reader_id")

	var prompter service.Prompter = service.Answer(answer)
	if r.PostForm.Get("action") == "cancel" {
		prompter = service.PrompterFunc(func(_ context.Context, _ string) (string, error) {
			return "", service.ErrPromptCanceled
		})
	}

	_, err = s.services.Loans.LoanByPrompt(r.Context(), bookID, prompter)
	switch {
	case err == nil, errors.Is(err, service.ErrPromptCanceled):
		redirect(w, r, back)
	default:
		s.logger.Debug("loan by reader id failed", slog.String("book_id", rawID), slog.String("error", err.Error()))
		s.render(w, r, formStatus(err), pageLoanPrompt, "Loan book", loanPromptPage{
			BookID:   rawID,
			Question: service.PromptReaderID,
			Answer:   answer,
			Return:   back,
		})
	}
}
