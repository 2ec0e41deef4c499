package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/nao1215/telespotter/internal/model"
	"github.com/nao1215/telespotter/internal/session"
)

// subscriberBuffer bounds the per-subscriber event queue. A session
// emits a few events per task plus one per correlated entity, so the
// buffer is sized well past any realistic session.
const subscriberBuffer = 256

// Broker fans session events out to SSE subscribers. It implements
// session.EventSink.
//
// Design decision: SessionEvent is called while the orchestrator holds
// its state lock, so delivery must never block. Each subscriber gets a
// buffered channel and events are dropped for subscribers that fall
// behind; the stream is a progress feed, not a durable log, and the
// final state is always available from the status endpoint.
type Broker struct {
	mu   sync.Mutex
	subs map[string]map[chan model.Event]struct{}
}

// NewBroker creates an empty broker.
func NewBroker() *Broker {
	return &Broker{subs: make(map[string]map[chan model.Event]struct{})}
}

// SessionEvent delivers an event to every subscriber of the session.
// Never blocks.
func (b *Broker) SessionEvent(sessionID string, event model.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs[sessionID] {
		select {
		case ch <- event:
		default:
		}
	}
}

// Subscribe registers a subscriber for one session's events. The
// returned cancel function must be called when the subscriber is done.
func (b *Broker) Subscribe(sessionID string) (<-chan model.Event, func()) {
	ch := make(chan model.Event, subscriberBuffer)

	b.mu.Lock()
	if b.subs[sessionID] == nil {
		b.subs[sessionID] = make(map[chan model.Event]struct{})
	}
	b.subs[sessionID][ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if set, ok := b.subs[sessionID]; ok {
			delete(set, ch)
			if len(set) == 0 {
				delete(b.subs, sessionID)
			}
		}
	}
	return ch, cancel
}

// SubscriberCount returns the number of subscribers for a session.
func (b *Broker) SubscriberCount(sessionID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[sessionID])
}

// handleEvents streams session events as server-sent events.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	orch, err := s.registry.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	// Subscribe before snapshotting so no event between the snapshot
	// and the first read is lost.
	events, cancel := s.broker.Subscribe(id)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	state := orch.Status()
	if state.Terminal {
		writeSSE(w, model.NewCompleteEvent(state.Summarize()))
		flusher.Flush()
		return
	}
	writeSSE(w, model.NewProgressEvent(state.Progress, "subscribed"))
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case event := <-events:
			if err := writeSSE(w, event); err != nil {
				return
			}
			flusher.Flush()
			if event.Type == model.EventComplete {
				return
			}
		case <-orch.Done():
			// The session terminated, but a subscriber that fell behind
			// may have had its complete event dropped. Drain what is
			// queued and make sure the stream still ends with one.
			drainEvents(w, flusher, events, orch)
			return
		}
	}
}

// drainEvents flushes queued events after session termination. Done is
// closed only after the complete event was published, so anything still
// owed to this subscriber is already in the channel; if the complete
// event itself was dropped, one is synthesized from the final state.
func drainEvents(w http.ResponseWriter, flusher http.Flusher, events <-chan model.Event, orch *session.Orchestrator) {
	for {
		select {
		case event := <-events:
			if err := writeSSE(w, event); err != nil {
				return
			}
			flusher.Flush()
			if event.Type == model.EventComplete {
				return
			}
		default:
			writeSSE(w, model.NewCompleteEvent(orch.Status().Summarize()))
			flusher.Flush()
			return
		}
	}
}

// writeSSE writes one event in SSE wire format.
func writeSSE(w http.ResponseWriter, event model.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, data)
	return err
}
