package session

import "github.com/nao1215/telespotter/internal/model"

// EventSink receives session events in commit order.
//
// SessionEvent is called with the orchestrator's state lock held so
// that event order matches state commit order. Implementations must be
// fast and non-blocking; anything slow (network delivery, fan-out to
// subscribers) belongs behind a buffered channel.
type EventSink interface {
	SessionEvent(sessionID string, event model.Event)
}

// NopSink discards all events.
type NopSink struct{}

// SessionEvent implements EventSink.
func (NopSink) SessionEvent(string, model.Event) {}

// SinkFunc adapts a function to the EventSink interface.
type SinkFunc func(sessionID string, event model.Event)

// SessionEvent implements EventSink.
func (f SinkFunc) SessionEvent(sessionID string, event model.Event) {
	f(sessionID, event)
}

// MultiSink fans each event out to every sink in order.
type MultiSink []EventSink

// SessionEvent implements EventSink.
func (m MultiSink) SessionEvent(sessionID string, event model.Event) {
	for _, s := range m {
		s.SessionEvent(sessionID, event)
	}
}
