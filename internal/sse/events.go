// Package sse implements Server-Sent Events for live notice delivery to open pages.
package sse

import (
	"time"

	"github.com/librarydb/library-web/internal/notify"
)

// EventType represents the type of SSE Event.
type EventType string

const (
	// EventConnected is the first event of every stream.
	EventConnected EventType = "connected"
	// EventNoticeCreated represents a new notice.
	EventNoticeCreated EventType = "notice.created"
	// EventNoticeDismissed represents a notice that expired or was dismissed.
	EventNoticeDismissed EventType = "notice.dismissed"
	// EventHeartbeat represents a connection keepalive event.
	EventHeartbeat EventType = "heartbeat"
)

// Event represents an SSE event to be sent to clients.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Type      EventType `json:"type"`

	// SessionID limits delivery to the streams of one browser session.
	// Empty means broadcast to all.
	SessionID string `json:"-"`
}

// NoticeEventData is the data payload for notice events.
type NoticeEventData struct {
	Notice notify.Notice `json:"notice"`
}

// NoticeDismissedEventData is the data payload for notice.dismissed events.
type NoticeDismissedEventData struct {
	NoticeID string `json:"notice_id"`
}

// HeartbeatEventData is the data payload for heartbeat events.
type HeartbeatEventData struct {
	ServerTime time.Time `json:"server_time"`
}

// NewNoticeCreatedEvent creates a notice.created event for the notice's session.
func NewNoticeCreatedEvent(n notify.Notice) Event {
	return Event{
		Type:      EventNoticeCreated,
		Data:      NoticeEventData{Notice: n},
		Timestamp: time.Now(),
		SessionID: n.SessionID,
	}
}

// NewNoticeDismissedEvent creates a notice.dismissed event for the notice's session.
func NewNoticeDismissedEvent(n notify.Notice) Event {
	return Event{
		Type:      EventNoticeDismissed,
		Data:      NoticeDismissedEventData{NoticeID: n.ID},
		Timestamp: time.Now(),
		SessionID: n.SessionID,
	}
}

// NewHeartbeatEvent creates a heartbeat event.
func NewHeartbeatEvent() Event {
	return Event{
		Type: EventHeartbeat,
		Data: HeartbeatEventData{
			ServerTime: time.Now(),
		},
		Timestamp: time.Now(),
	}
}
