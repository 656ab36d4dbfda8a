package notify

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/librarydb/library-web/internal/id"
)

// DefaultTTL is how long a notice stays visible.
const DefaultTTL = 5 * time.Second

// Publisher receives notice lifecycle events, typically to push them to open pages.
type Publisher interface {
	NoticeCreated(n Notice)
	NoticeDismissed(n Notice)
}

type entry struct {
	notice Notice
	seq    uint64
	timer  *time.Timer
}

// Center keeps the active notices of every browser session. Each notice is
// removed after the TTL or when dismissed, whichever comes first.
type Center struct {
	mu        sync.Mutex
	notices   map[string]*entry
	ttl       time.Duration
	publisher Publisher
	logger    *slog.Logger
	now       func() time.Time
	seq       uint64
	closed    bool
}

// NewCenter creates a Center. A nil publisher disables live delivery.
func NewCenter(ttl time.Duration, publisher Publisher, logger *slog.Logger) *Center {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Center{
		notices:   make(map[string]*entry),
		ttl:       ttl,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// TTL returns the lifetime of a notice.
func (c *Center) TTL() time.Duration {
	return c.ttl
}

// Notify implements Notifier. The notice belongs to the session in ctx.
func (c *Center) Notify(ctx context.Context, message string, severity Severity) {
	c.Post(SessionID(ctx), message, severity)
}

// Post adds a notice for sessionID and returns it.
func (c *Center) Post(sessionID, message string, severity Severity) Notice {
	now := c.now()
	n := Notice{
		ID:        id.MustGenerate(id.PrefixNotice),
		SessionID: sessionID,
		Message:   message,
		Severity:  ParseSeverity(string(severity)),
		CreatedAt: now,
		ExpiresAt: now.Add(c.ttl),
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return n
	}
	c.seq++
	e := &entry{notice: n, seq: c.seq}
	e.timer = time.AfterFunc(c.ttl, func() { c.expire(n.ID) })
	c.notices[n.ID] = e
	c.mu.Unlock()

	c.logger.Debug("notice posted",
		slog.String("notice_id", n.ID),
		slog.String("severity", string(n.Severity)))

	if c.publisher != nil {
		c.publisher.NoticeCreated(n)
	}
	return n
}

// Dismiss removes a notice of sessionID before it expires.
// It reports whether the notice existed.
func (c *Center) Dismiss(sessionID, noticeID string) bool {
	c.mu.Lock()
	e, ok := c.notices[noticeID]
	if !ok || e.notice.SessionID != sessionID {
		c.mu.Unlock()
		return false
	}
	e.timer.Stop()
	delete(c.notices, noticeID)
	c.mu.Unlock()

	if c.publisher != nil {
		c.publisher.NoticeDismissed(e.notice)
	}
	return true
}

// Active returns the notices of sessionID, oldest first.
func (c *Center) Active(sessionID string) []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()

	var matched []*entry
	for _, e := range c.notices {
		if e.notice.SessionID == sessionID {
			matched = append(matched, e)
		}
	}
	slices.SortFunc(matched, func(a, b *entry) int {
		return cmp.Compare(a.seq, b.seq)
	})

	out := make([]Notice, 0, len(matched))
	for _, e := range matched {
		out = append(out, e.notice)
	}
	return out
}

// Len returns the number of active notices across all sessions.
func (c *Center) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.notices)
}

// Shutdown stops every pending expiry timer and drops all notices.
func (c *Center) Shutdown() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	for noticeID, e := range c.notices {
		e.timer.Stop()
		delete(c.notices, noticeID)
	}
	return nil
}

func (c *Center) expire(noticeID string) {
	c.mu.Lock()
	e, ok := c.notices[noticeID]
	if ok {
		delete(c.notices, noticeID)
	}
	c.mu.Unlock()

	if ok && c.publisher != nil {
		c.publisher.NoticeDismissed(e.notice)
	}
}
