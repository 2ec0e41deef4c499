package model

// EventType discriminates the session event algebra.
type EventType string

const (
	// EventProgress reports a progress percentage change or a
	// task-status transition.
	EventProgress EventType = "progress"
	// EventEntity reports a new or updated correlated entity.
	EventEntity EventType = "entity"
	// EventComplete reports session completion with a summary.
	EventComplete EventType = "complete"
)

// Event is one session event published to subscribers.
//
// Design decision: we use a single struct with a type tag and optional
// payload pointers rather than an interface because events cross a
// serialization boundary (SSE, JSON logs) where a closed set of fields
// is easier to encode and to consume than a type switch.
type Event struct {
	// Type discriminates the payload.
	Type EventType `json:"type"`
	// Percent is the session progress in [0,100] (progress events).
	Percent int `json:"percent,omitempty"`
	// Message is a human-readable progress description.
	Message string `json:"message,omitempty"`
	// Entity is the correlated entity (entity events). Always a deep
	// copy; subscribers may retain it.
	Entity *CorrelatedEntity `json:"entity,omitempty"`
	// Summary is the session wrap-up (complete events).
	Summary *Summary `json:"summary,omitempty"`
}

// NewProgressEvent builds a progress event.
func NewProgressEvent(percent int, message string) Event {
	return Event{Type: EventProgress, Percent: percent, Message: message}
}

// NewEntityEvent builds an entity event. The entity is cloned so the
// event never aliases orchestrator-owned state.
func NewEntityEvent(entity *CorrelatedEntity) Event {
	return Event{Type: EventEntity, Entity: entity.Clone()}
}

// NewCompleteEvent builds a completion event.
func NewCompleteEvent(summary *Summary) Event {
	return Event{Type: EventComplete, Percent: 100, Message: "search complete", Summary: summary}
}
