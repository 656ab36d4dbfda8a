// Package notify delivers transient notices: short messages shown to the
// user for a few seconds after an action succeeds or fails.
package notify

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

// Severity selects the styling of a notice.
type Severity string

// Severities.
const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// ParseSeverity maps s to a Severity, defaulting to SeverityInfo.
func ParseSeverity(s string) Severity {
	switch Severity(s) {
	case SeveritySuccess:
		return SeveritySuccess
	case SeverityError:
		return SeverityError
	default:
		return SeverityInfo
	}
}

// Notice is one transient message.
type Notice struct {
	ID        string    `json:"id"`
	SessionID string    `json:"-"`
	Message   string    `json:"message"`
	Severity  Severity  `json:"severity"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Notifier shows a message to whoever triggered the current operation.
// Notify never blocks and never fails.
type Notifier interface {
	Notify(ctx context.Context, message string, severity Severity)
}

type sessionKey struct{}

// WithSession returns a context carrying the browser session id.
func WithSession(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionKey{}, sessionID)
}

// SessionID returns the session id stored in ctx, or "".
func SessionID(ctx context.Context) string {
	s, _ := ctx.Value(sessionKey{}).(string)
	return s
}

// WriterNotifier prints notices to a terminal.
type WriterNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterNotifier creates a notifier writing to w.
func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

// Notify implements Notifier.
func (n *WriterNotifier) Notify(_ context.Context, message string, severity Severity) {
	n.mu.Lock()
	defer n.mu.Unlock()

	switch severity {
	case SeverityError:
		fmt.Fprintf(n.w, "error: %s\n", message)
	default:
		fmt.Fprintln(n.w, message)
	}
}
