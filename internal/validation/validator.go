// Package validation provides form validation utilities using the validator/v10 library.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	domainerrors "github.com/librarydb/library-web/internal/errors"
)

// Custom tags registered on every Validator.
const (
	TagPhone = "by_phone"
	TagEmail = "simple_email"
)

var (
	phonePattern = regexp.MustCompile(`^\+375[0-9]{9}$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// IsPhone reports whether s is a Belarusian number in +375XXXXXXXXX form.
func IsPhone(s string) bool {
	return phonePattern.MatchString(s)
}

// IsEmail reports whether s has the local@domain.tld shape.
func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// Validator wraps go-playground/validator with domain error conversion.
type Validator struct {
	v *validator.Validate
}

// New creates a validator configured for the library forms.
func New() *Validator {
	v := validator.New()

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation(TagPhone, func(fl validator.FieldLevel) bool {
		return IsPhone(fl.Field().String())
	})
	_ = v.RegisterValidation(TagEmail, func(fl validator.FieldLevel) bool {
		return IsEmail(fl.Field().String())
	})

	return &Validator{v: v}
}

// Validate validates a struct and returns a domain validation error listing every failing field.
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(err)
	}
	return nil
}

// Rule checks one form value against a validator tag expression.
// Messages maps the failing tag to the text shown to the user.
type Rule struct {
	Field    string
	Value    string
	Tag      string
	Messages map[string]string
}

// First runs the rules in order and stops at the first failure, which is
// returned as a validation error carrying that rule's message.
func (v *Validator) First(rules ...Rule) error {
	for _, rule := range rules {
		err := v.v.Var(rule.Value, rule.Tag)
		if err == nil {
			continue
		}

		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
			return fmt.Errorf("validate %s: %w", rule.Field, err)
		}

		tag := fieldErrs[0].Tag()
		if msg, ok := rule.Messages[tag]; ok {
			return domainerrors.Validation(msg).WithDetails(map[string]string{rule.Field: tag})
		}
		return domainerrors.Validation(rule.Field + " " + v.friendlyMessage(fieldErrs[0])).
			WithDetails(map[string]string{rule.Field: tag})
	}
	return nil
}

// formatError converts validator errors to domain errors.
func (v *Validator) formatError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	fieldErrors := make(map[string]string, len(validationErrs))
	names := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		fieldErrors[e.Field()] = v.friendlyMessage(e)
		names = append(names, e.Field())
	}

	return domainerrors.Validation("invalid " + strings.Join(names, ", ")).WithDetails(fieldErrors)
}

func (v *Validator) friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case TagEmail, "email":
		return "must be a valid email address"
	case TagPhone:
		return "must match +375XXXXXXXXX"
	case "min":
		return fmt.Sprintf("must be at least %s", e.Param())
	case "max":
		return fmt.Sprintf("must not exceed %s characters", e.Param())
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	case "number", "numeric":
		return "must be a number"
	case "dive":
		return "is invalid"
	default:
		return "is invalid"
	}
}
