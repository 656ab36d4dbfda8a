package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/librarydb/library-web/internal/domain"
	"github.com/librarydb/library-web/internal/errors"
	"github.com/librarydb/library-web/internal/normalize"
	"github.com/librarydb/library-web/internal/notify"
	"github.com/librarydb/library-web/internal/validation"
)

// Signup messages.
const (
	MsgAllFieldsRequired = "All fields are required."
	msgReaderRegistered  = "Reader registered successfully. Your reader ID is %d."
)

// ReaderService registers readers.
type ReaderService struct {
	api       LibraryAPI
	validator *validation.Validator
	notifier  notify.Notifier
	logger    *slog.Logger
}

// NewReaderService creates a new reader service.
func NewReaderService(api LibraryAPI, validator *validation.Validator, notifier notify.Notifier, logger *slog.Logger) *ReaderService {
	return &ReaderService{
		api:       api,
		validator: validator,
		notifier:  notifier,
		logger:    logger,
	}
}

// NormalizeReader trims and normalizes the signup fields.
func NormalizeReader(r domain.Reader) domain.Reader {
	normalize.Fields(&r.FirstName, &r.LastName, &r.PhoneNumber, &r.Email)
	return r
}

// ValidateReader rejects a signup with any empty field using one combined
// message, then checks the phone and email shapes.
func (s *ReaderService) ValidateReader(r domain.Reader) error {
	if r.FirstName == "" || r.LastName == "" || r.PhoneNumber == "" || r.Email == "" {
		return errors.Validation(MsgAllFieldsRequired)
	}
	return s.validator.First(
		validation.Rule{Field: "phone_number", Value: r.PhoneNumber, Tag: validation.TagPhone, Messages: map[string]string{
			validation.TagPhone: msgPhoneFormat,
		}},
		validation.Rule{Field: "email", Value: r.Email, Tag: validation.TagEmail, Messages: map[string]string{
			validation.TagEmail: msgEmailFormat,
		}},
	)
}

// Signup registers a reader and notifies the issued reader id.
func (s *ReaderService) Signup(ctx context.Context, reader domain.Reader) (*domain.SignupResult, error) {
	reader = NormalizeReader(reader)
	if err := s.ValidateReader(reader); err != nil {
		s.notifier.Notify(ctx, Describe(err, FallbackSignup), notify.SeverityError)
		return nil, err
	}

	result, err := s.api.SignupReader(ctx, reader)
	if err != nil {
		s.logger.WarnContext(ctx, "reader signup failed", slog.String("error", err.Error()))
		s.notifier.Notify(ctx, Describe(err, FallbackSignup), notify.SeverityError)
		return nil, err
	}

	s.notifier.Notify(ctx, SignupMessage(result), notify.SeveritySuccess)
	s.logger.InfoContext(ctx, "reader registered", slog.Int("reader_id", result.ReaderID))
	return result, nil
}

// SignupMessage is the confirmation shown after a successful signup.
func SignupMessage(result *domain.SignupResult) string {
	return fmt.Sprintf(msgReaderRegistered, result.ReaderID)
}
