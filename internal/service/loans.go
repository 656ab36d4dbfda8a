package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/librarydb/library-web/internal/domain"
	"github.com/librarydb/library-web/internal/errors"
	"github.com/librarydb/library-web/internal/normalize"
	"github.com/librarydb/library-web/internal/notify"
	"github.com/librarydb/library-web/internal/validation"
)

// Loan messages.
const (
	MsgBookLoaned    = "Book loaned successfully!"
	MsgInvalidReader = "Please enter a valid reader ID."
	PromptReaderID   = "Enter your reader ID:"

	msgLoanedWithID  = "Book loaned successfully. Loan ID: %d"
	msgFirstRequired = "First name is required."
	msgFirstTooLong  = "First name must not exceed 31 characters."
	msgLastRequired  = "Last name is required."
	msgLastTooLong   = "Last name must not exceed 31 characters."
	msgPhoneFormat   = "Phone number must match the format +375XXXXXXXXX."
	msgEmailRequired = "Email is required."
	msgEmailFormat   = "Please enter a valid email address."
)

// Names longer than this are rejected by the backend schema.
const nameRuleTag = "required,max=31"

// ErrPromptCanceled is returned by a Prompter when the user dismissed the prompt.
var ErrPromptCanceled = errors.New("prompt canceled")

// Prompter asks the user one question and blocks until it is answered.
type Prompter interface {
	Prompt(ctx context.Context, question string) (string, error)
}

// PrompterFunc adapts a function to Prompter.
type PrompterFunc func(ctx context.Context, question string) (string, error)

// Prompt implements Prompter.
func (f PrompterFunc) Prompt(ctx context.Context, question string) (string, error) {
	return f(ctx, question)
}

// Answer is a Prompter that already holds the answer, as when a prompt form was submitted.
type Answer string

// Prompt implements Prompter.
func (a Answer) Prompt(context.Context, string) (string, error) {
	return string(a), nil
}

// LoanService records loans.
type LoanService struct {
	api       LibraryAPI
	validator *validation.Validator
	notifier  notify.Notifier
	logger    *slog.Logger
}

// NewLoanService creates a new loan service.
func NewLoanService(api LibraryAPI, validator *validation.Validator, notifier notify.Notifier, logger *slog.Logger) *LoanService {
	return &LoanService{
		api:       api,
		validator: validator,
		notifier:  notifier,
		logger:    logger,
	}
}

// NormalizeGuest trims and normalizes the loan sub-form fields.
func NormalizeGuest(g domain.GuestLoan) domain.GuestLoan {
	normalize.Fields(&g.FirstName, &g.LastName, &g.PhoneNumber, &g.Email)
	return g
}

// ValidateGuest checks the loan sub-form in field order and reports the first failure.
func (s *LoanService) ValidateGuest(g domain.GuestLoan) error {
	return s.validator.First(
		validation.Rule{Field: "first_name", Value: g.FirstName, Tag: nameRuleTag, Messages: map[string]string{
			"required": msgFirstRequired,
			"max":      msgFirstTooLong,
		}},
		validation.Rule{Field: "last_name", Value: g.LastName, Tag: nameRuleTag, Messages: map[string]string{
			"required": msgLastRequired,
			"max":      msgLastTooLong,
		}},
		validation.Rule{Field: "phone_number", Value: g.PhoneNumber, Tag: "omitempty," + validation.TagPhone, Messages: map[string]string{
			validation.TagPhone: msgPhoneFormat,
		}},
		validation.Rule{Field: "email", Value: g.Email, Tag: "required," + validation.TagEmail, Messages: map[string]string{
			"required":          msgEmailRequired,
			validation.TagEmail: msgEmailFormat,
		}},
	)
}

// LoanAsGuest loans bookID to a reader described by the loan sub-form.
// Nothing is sent when the form fails validation.
func (s *LoanService) LoanAsGuest(ctx context.Context, bookID int, guest domain.GuestLoan) (*domain.LoanResult, error) {
	guest = NormalizeGuest(guest)
	if err := s.ValidateGuest(guest); err != nil {
		s.notifier.Notify(ctx, Describe(err, FallbackLoan), notify.SeverityError)
		return nil, err
	}

	result, err := s.api.LoanBook(ctx, domain.GuestLoanRequest(bookID, guest))
	if err != nil {
		s.logger.WarnContext(ctx, "guest loan failed",
			slog.Int("book_id", bookID),
			slog.String("error", err.Error()))
		s.notifier.Notify(ctx, Describe(err, FallbackLoan), notify.SeverityError)
		return nil, err
	}

	msg := result.Message
	if msg == "" {
		msg = MsgBookLoaned
	}
	s.notifier.Notify(ctx, msg, notify.SeveritySuccess)

	s.logger.InfoContext(ctx, "book loaned",
		slog.Int("book_id", bookID),
		slog.Int("loan_id", result.LoanID))
	return result, nil
}

// ParseReaderID parses a prompt answer as a reader id.
func ParseReaderID(answer string) (int, error) {
	id, err := strconv.Atoi(normalize.Field(answer))
	if err != nil || id <= 0 {
		return 0, errors.Validation(MsgInvalidReader)
	}
	return id, nil
}

// LoanByPrompt asks for a reader id and loans bookID to that reader. A
// canceled prompt ends the operation silently.
func (s *LoanService) LoanByPrompt(ctx context.Context, bookID int, prompter Prompter) (*domain.LoanResult, error) {
	answer, err := prompter.Prompt(ctx, PromptReaderID)
	if err != nil {
		if errors.Is(err, ErrPromptCanceled) {
			return nil, err
		}
		return nil, fmt.Errorf("prompt reader id: %w", err)
	}

	readerID, err := ParseReaderID(answer)
	if err != nil {
		s.notifier.Notify(ctx, Describe(err, FallbackLoan), notify.SeverityError)
		return nil, err
	}

	result, err := s.api.LoanBook(ctx, domain.ReaderLoanRequest(bookID, readerID))
	if err != nil {
		s.logger.WarnContext(ctx, "reader loan failed",
			slog.Int("book_id", bookID),
			slog.Int("reader_id", readerID),
			slog.String("error", err.Error()))
		s.notifier.Notify(ctx, Describe(err, FallbackLoan), notify.SeverityError)
		return nil, err
	}

	s.notifier.Notify(ctx, loanedMessage(result), notify.SeveritySuccess)
	return result, nil
}

func loanedMessage(result *domain.LoanResult) string {
	switch {
	case result.LoanID != 0:
		return fmt.Sprintf(msgLoanedWithID, result.LoanID)
	case result.Message != "":
		return result.Message
	default:
		return MsgBookLoaned
	}
}
