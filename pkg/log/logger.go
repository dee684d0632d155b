package log

import "time"

// Logger is the interface applications implement to receive protocol log events.
// Pass nil or NoopLogger to disable logging.
type Logger interface {
	// Log records a protocol event. Implementations must be thread-safe.
	// The event should be processed quickly or queued; blocking affects performance.
	Log(event Event)
}

// NoopLogger discards all events. Use when logging is disabled.
// NoopLogger is safe for concurrent use and usable as a zero value.
type NoopLogger struct{}

// Log discards the event.
func (NoopLogger) Log(Event) {}

// SessionLogger stamps events with a session ID, device model and timestamp
// before passing them on. Fields already set on an event are kept.
type SessionLogger struct {
	next      Logger
	sessionID string
	model     string
	now       func() time.Time
}

// NewSessionLogger wraps next. A nil next discards events.
func NewSessionLogger(next Logger, sessionID, model string) *SessionLogger {
	if next == nil {
		next = NoopLogger{}
	}
	return &SessionLogger{
		next:      next,
		sessionID: sessionID,
		model:     model,
		now:       time.Now,
	}
}

// SessionID returns the ID stamped on events.
func (s *SessionLogger) SessionID() string {
	return s.sessionID
}

// Log stamps and forwards the event.
func (s *SessionLogger) Log(event Event) {
	if event.SessionID == "" {
		event.SessionID = s.sessionID
	}
	if event.Model == "" {
		event.Model = s.model
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	s.next.Log(event)
}

// Compile-time interface satisfaction checks.
var (
	_ Logger = NoopLogger{}
	_ Logger = (*SessionLogger)(nil)
)
