package sse

import (
	"context"
	"errors"
	"iter"
	"log/slog"
	"sync"
	"time"

	"github.com/librarydb/library-web/internal/id"
	"github.com/librarydb/library-web/internal/notify"
)

// DefaultMaxStreamsPerSession bounds the open tabs of one browser session.
const DefaultMaxStreamsPerSession = 8

// ErrTooManyStreams is returned by Connect when a session already holds the maximum number of streams.
var ErrTooManyStreams = errors.New("too many notice streams for session")

// Client represents one open notice stream.
type Client struct {
	ConnectedAt time.Time
	EventChan   chan Event
	Done        chan struct{}
	ID          string
	SessionID   string
}

func (c *Client) close() {
	close(c.Done)
	close(c.EventChan)
}

// Manager routes notice events to the open streams of their session.
// Events without a session go to every stream.
type Manager struct {
	// sessions maps session id → client id → client.
	sessions  map[string]map[string]*Client
	maxPerSes int
	events    chan Event
	logger    *slog.Logger
	wg        sync.WaitGroup
	mu        sync.RWMutex

	// closing guards events against sends after Shutdown closed it.
	closingMu sync.RWMutex
	closing   bool
}

// NewManager creates a new SSE Manager.
func NewManager(logger *slog.Logger) *Manager {
	return &Manager{
		sessions:  make(map[string]map[string]*Client),
		maxPerSes: DefaultMaxStreamsPerSession,
		events:    make(chan Event, 256),
		logger:    logger,
	}
}

// Start launches the delivery loop, which runs until ctx is canceled or
// Shutdown is called. It returns immediately.
func (m *Manager) Start(ctx context.Context) {
	m.wg.Add(1)
	go m.run(ctx)
}

func (m *Manager) run(ctx context.Context) {
	defer m.wg.Done()

	m.logger.Info("notice stream manager starting")

	for {
		select {
		case event, ok := <-m.events:
			if !ok {
				return
			}
			m.deliver(event)

		case <-ctx.Done():
			m.logger.Info("notice stream manager stopping")
			m.closeAll()
			return
		}
	}
}

// Shutdown stops accepting events, delivers the queued ones until ctx
// expires and closes every stream. Calling it again does nothing.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.closingMu.Lock()
	if m.closing {
		m.closingMu.Unlock()
		return nil
	}
	m.closing = true
	close(m.events)
	m.closingMu.Unlock()

	drained := make(chan struct{})
	go func() {
		for event := range m.events {
			m.deliver(event)
		}
		close(drained)
	}()

	select {
	case <-drained:
	case <-ctx.Done():
		m.logger.Warn("notice stream drain timed out, queued notices dropped")
	}

	m.wg.Wait()
	m.closeAll()

	m.logger.Info("notice stream manager stopped")
	return nil
}

// targets returns the streams event goes to.
func (m *Manager) targets(event Event) []*Client {
	if event.SessionID != "" {
		streams := m.sessions[event.SessionID]
		out := make([]*Client, 0, len(streams))
		for _, c := range streams {
			out = append(out, c)
		}
		return out
	}

	var out []*Client
	for _, streams := range m.sessions {
		for _, c := range streams {
			out = append(out, c)
		}
	}
	return out
}

func (m *Manager) deliver(event Event) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var delivered, dropped int
	for _, c := range m.targets(event) {
		// A stuck stream loses the event rather than stalling the others.
		select {
		case c.EventChan <- event:
			delivered++
		default:
			dropped++
			m.logger.Warn("dropped event for slow stream",
				slog.String("client_id", c.ID),
				slog.String("event_type", string(event.Type)))
		}
	}

	if event.Type != EventHeartbeat {
		m.logger.Debug("event delivered",
			slog.String("event_type", string(event.Type)),
			slog.Bool("broadcast", event.SessionID == ""),
			slog.Int("delivered", delivered),
			slog.Int("dropped", dropped))
	}
}

// Connect opens a stream for sessionID.
func (m *Manager) Connect(sessionID string) (*Client, error) {
	clientID, err := id.Generate(id.PrefixClient)
	if err != nil {
		return nil, err
	}

	client := &Client{
		ID:          clientID,
		SessionID:   sessionID,
		EventChan:   make(chan Event, 32),
		Done:        make(chan struct{}),
		ConnectedAt: time.Now(),
	}

	m.mu.Lock()
	streams, ok := m.sessions[sessionID]
	if !ok {
		streams = make(map[string]*Client)
		m.sessions[sessionID] = streams
	}
	if len(streams) >= m.maxPerSes {
		m.mu.Unlock()
		return nil, ErrTooManyStreams
	}
	streams[clientID] = client
	open := len(streams)
	m.mu.Unlock()

	m.logger.Info("notice stream opened",
		slog.String("client_id", clientID),
		slog.Int("session_streams", open))
	return client, nil
}

// Disconnect closes the stream clientID. Unknown ids are ignored.
func (m *Manager) Disconnect(clientID string) {
	m.mu.Lock()
	var client *Client
	for sessionID, streams := range m.sessions {
		if c, ok := streams[clientID]; ok {
			client = c
			delete(streams, clientID)
			if len(streams) == 0 {
				delete(m.sessions, sessionID)
			}
			break
		}
	}
	m.mu.Unlock()

	if client == nil {
		return
	}
	client.close()

	m.logger.Info("notice stream closed",
		slog.String("client_id", clientID),
		slog.Duration("duration", time.Since(client.ConnectedAt)))
}

// Emit queues an event. Events emitted after Shutdown are dropped.
func (m *Manager) Emit(event Event) {
	// The read lock is held across the send so Shutdown cannot close the channel under it.
	m.closingMu.RLock()
	defer m.closingMu.RUnlock()

	if m.closing {
		return
	}

	select {
	case m.events <- event:
	default:
		m.logger.Error("notice event queue full, dropping event",
			slog.String("event_type", string(event.Type)))
	}
}

// NoticeCreated implements notify.Publisher.
func (m *Manager) NoticeCreated(n notify.Notice) {
	m.Emit(NewNoticeCreatedEvent(n))
}

// NoticeDismissed implements notify.Publisher.
func (m *Manager) NoticeDismissed(n notify.Notice) {
	m.Emit(NewNoticeDismissedEvent(n))
}

// clients iterates over the open streams of sessionID.
func (m *Manager) clients(sessionID string) iter.Seq[*Client] {
	return func(yield func(*Client) bool) {
		m.mu.RLock()
		defer m.mu.RUnlock()

		for _, c := range m.sessions[sessionID] {
			if !yield(c) {
				return
			}
		}
	}
}

// ClientCount returns the number of open streams.
func (m *Manager) ClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, streams := range m.sessions {
		n += len(streams)
	}
	return n
}

// SessionCount returns the number of sessions with at least one open stream.
func (m *Manager) SessionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) closeAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, streams := range m.sessions {
		for _, c := range streams {
			c.close()
		}
	}
	m.sessions = make(map[string]map[string]*Client)
}
