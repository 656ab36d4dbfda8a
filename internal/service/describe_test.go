package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/librarydb/library-web/internal/apiclient"
	"github.com/librarydb/library-web/internal/errors"
)

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"validation", errors.Validation("Email is required."), "Email is required."},
		{"wrapped validation", fmt.Errorf("loan: %w", errors.Validation("Email is required.")), "Email is required."},
		{"server message", &apiclient.Error{Op: "loanBook", Err: &apiclient.RequestError{Status: 400, Message: "Reader not found"}}, "Reader not found"},
		{"server without message", &apiclient.RequestError{Status: 500}, "Failed to loan book."},
		{"transport", fmt.Errorf("%w: connection refused", apiclient.ErrTransport), MsgUnexpected},
		{"decode", apiclient.ErrDecode, MsgUnexpected},
		{"other", errors.New("boom"), MsgUnexpected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Describe(tt.err, FallbackLoan))
		})
	}
}

func TestReason(t *testing.T) {
	assert.Equal(t, "HTTP Error 502", Reason(&apiclient.RequestError{Status: 502}))
	assert.Equal(t, "Book not found", Reason(&apiclient.RequestError{Status: 404, Message: "Book not found"}))
	assert.Equal(t, "Invalid book ID \"x\".", Reason(errors.Validation("Invalid book ID \"x\".")))
	assert.Equal(t, "the library service is unreachable", Reason(fmt.Errorf("%w: refused", apiclient.ErrTransport)))
	assert.Equal(t, "unexpected response from the library service", Reason(apiclient.ErrDecode))
}
