package validation_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/librarydb/library-web/internal/domain"
	"github.com/librarydb/library-web/internal/errors"
	"github.com/librarydb/library-web/internal/validation"
)

type TestRequest struct {
	Email string `json:"email" validate:"required,simple_email"`
	Phone string `json:"phone_number" validate:"omitempty,by_phone"`
	Name  string `json:"name" validate:"required,max=31"`
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()

	err := v.Validate(TestRequest{Email: "reader@example.com", Phone: "+375291234567", Name: "Anna"})
	assert.NoError(t, err)

	err = v.Validate(TestRequest{Email: "reader@example.com", Name: "Anna"})
	assert.NoError(t, err, "phone is optional")
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name      string
		req       TestRequest
		wantField string
	}{
		{
			name:      "missing required field",
			req:       TestRequest{Email: "reader@example.com"},
			wantField: "name",
		},
		{
			name:      "invalid email",
			req:       TestRequest{Email: "not-an-email", Name: "Anna"},
			wantField: "email",
		},
		{
			name:      "invalid phone",
			req:       TestRequest{Email: "reader@example.com", Phone: "80291234567", Name: "Anna"},
			wantField: "phone_number",
		},
		{
			name:      "name too long",
			req:       TestRequest{Email: "reader@example.com", Name: strings.Repeat("a", 32)},
			wantField: "name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			require.Error(t, err)

			var domainErr *errors.Error
			if assert.True(t, errors.As(err, &domainErr)) {
				assert.Equal(t, errors.CodeValidation, domainErr.Code)
				assert.Contains(t, domainErr.Message, tt.wantField)
				assert.Contains(t, domainErr.Details, tt.wantField)
			}
		})
	}
}

func TestValidator_JSONFieldNames(t *testing.T) {
	v := validation.New()

	err := v.Validate(TestRequest{Name: "Anna"})
	require.Error(t, err)

	// JSON tag name, not the struct field name
	assert.Contains(t, err.Error(), "email")
	assert.NotContains(t, err.Error(), "Email")
}

func TestValidator_DivesIntoAuthors(t *testing.T) {
	v := validation.New()

	book := domain.NewBook{
		Title:   "Dead Souls",
		Genre:   "Novel",
		Authors: []domain.Author{{FirstName: "Nikolai", LastName: "Gogol"}, {FirstName: "Nobody"}},
	}
	err := v.Validate(book)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrValidation))
	assert.Contains(t, err.Error(), "last_name")

	book.Authors[1].LastName = "Else"
	assert.NoError(t, v.Validate(book))
}

func TestIsPhone(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"+375291234567", true},
		{"+375001234567", true},
		{"+37529123456", false},
		{"+3752912345678", false},
		{"375291234567", false},
		{"+375 29 123 45 67", false},
		{"+7291234567", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, validation.IsPhone(tt.in), tt.in)
	}
}

func TestIsEmail(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"a@b.c", true},
		{"reader.one@library.example.org", true},
		{"a@b", false},
		{"a b@c.d", false},
		{"@b.c", false},
		{"a@.c", false},
		{"a@b.", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, validation.IsEmail(tt.in), tt.in)
	}
}

func loanRules(first, last, phone, email string) []validation.Rule {
	return []validation.Rule{
		{Field: "first_name", Value: first, Tag: "required,max=31", Messages: map[string]string{
			"required": "First name is required.",
			"max":      "First name must not exceed 31 characters.",
		}},
		{Field: "last_name", Value: last, Tag: "required,max=31", Messages: map[string]string{
			"required": "Last name is required.",
			"max":      "Last name must not exceed 31 characters.",
		}},
		{Field: "phone_number", Value: phone, Tag: "omitempty," + validation.TagPhone, Messages: map[string]string{
			validation.TagPhone: "Phone number must match the format +375XXXXXXXXX.",
		}},
		{Field: "email", Value: email, Tag: "required," + validation.TagEmail, Messages: map[string]string{
			"required":          "Email is required.",
			validation.TagEmail: "Please enter a valid email address.",
		}},
	}
}

func TestValidator_FirstStopsAtFirstFailure(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name                      string
		first, last, phone, email string
		want                      string
	}{
		{"all invalid reports first name", "", "", "123", "bad", "First name is required."},
		{"first name too long", strings.Repeat("x", 32), "", "", "", "First name must not exceed 31 characters."},
		{"first name at limit passes", strings.Repeat("x", 31), "", "", "", "Last name is required."},
		{"phone before email", "Anna", "Karenina", "123", "", "Phone number must match the format +375XXXXXXXXX."},
		{"empty phone skipped", "Anna", "Karenina", "", "", "Email is required."},
		{"bad email", "Anna", "Karenina", "+375291234567", "anna@", "Please enter a valid email address."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.First(loanRules(tt.first, tt.last, tt.phone, tt.email)...)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrValidation))
			assert.Equal(t, tt.want, errors.UserMessage(err, "fallback"))
		})
	}
}

func TestValidator_FirstPasses(t *testing.T) {
	v := validation.New()
	assert.NoError(t, v.First(loanRules("Anna", "Karenina", "+375291234567", "anna@example.com")...))
}

func TestValidator_FirstFallsBackToGenericMessage(t *testing.T) {
	v := validation.New()

	err := v.First(validation.Rule{Field: "title", Value: "", Tag: "required"})
	require.Error(t, err)
	assert.Equal(t, "title is required", errors.UserMessage(err, "fallback"))
}
