package model

import (
	"sort"
	"time"
)

// TaskStatus is the lifecycle state of one source task.
// Transitions: Pending -> Running -> {Succeeded, Failed, TimedOut}.
// Cancelled is reachable from Pending or Running when the owning session
// is cancelled before the task settles.
type TaskStatus int

const (
	// TaskPending means the task has not started executing yet.
	TaskPending TaskStatus = iota
	// TaskRunning means the task is executing its fetch.
	TaskRunning
	// TaskSucceeded means the fetch completed and produced a raw result.
	TaskSucceeded
	// TaskFailed means the fetch failed terminally (after any retries).
	TaskFailed
	// TaskTimedOut means the task exceeded its wall-clock deadline.
	TaskTimedOut
	// TaskCancelled means the owning session was cancelled first.
	TaskCancelled
)

// String returns the status name.
func (s TaskStatus) String() string {
	switch s {
	case TaskPending:
		return "pending"
	case TaskRunning:
		return "running"
	case TaskSucceeded:
		return "succeeded"
	case TaskFailed:
		return "failed"
	case TaskTimedOut:
		return "timed_out"
	case TaskCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether the status is final.
func (s TaskStatus) Terminal() bool {
	switch s {
	case TaskSucceeded, TaskFailed, TaskTimedOut, TaskCancelled:
		return true
	default:
		return false
	}
}

// TaskState is the observable state of one (session, source) task.
type TaskState struct {
	// Source is the provider this task queries.
	Source Source `json:"source"`
	// Status is the current lifecycle state.
	Status TaskStatus `json:"-"`
	// StatusText is the string form of Status for serialization.
	StatusText string `json:"status"`
	// Attempts counts fetch attempts including retries.
	Attempts int `json:"attempts"`
	// Reason describes the failure for terminal non-success states.
	Reason string `json:"reason,omitempty"`
}

// RawResult is the unstructured text a source task returns on success.
// It is transient: the orchestrator feeds it to the extractor and drops
// it, never storing it on the session.
type RawResult struct {
	// Source is the provider that produced the text.
	Source Source
	// Texts holds the raw text blobs (result titles, snippets, page
	// text) in the order they were harvested.
	Texts []string
}

// Combined returns all text blobs joined into one blob.
func (r *RawResult) Combined() string {
	switch len(r.Texts) {
	case 0:
		return ""
	case 1:
		return r.Texts[0]
	}
	n := 0
	for _, t := range r.Texts {
		n += len(t) + 1
	}
	buf := make([]byte, 0, n)
	for i, t := range r.Texts {
		if i > 0 {
			buf = append(buf, '\n')
		}
		buf = append(buf, t...)
	}
	return string(buf)
}

// SessionState holds everything known about one search session.
// It is mutated only by the owning orchestrator (single writer); all
// other readers receive deep copies via Snapshot.
type SessionState struct {
	// ID is the opaque session identifier.
	ID string `json:"session_id"`
	// Phone is the validated query number.
	Phone PhoneNumber `json:"-"`
	// PhoneDisplay is the display form of Phone for serialization.
	PhoneDisplay string `json:"phone_number"`
	// StartedAt is when Start accepted the session.
	StartedAt time.Time `json:"started_at"`
	// CompletedAt is when the session reached its terminal state.
	CompletedAt time.Time `json:"completed_at,omitzero"`
	// Tasks maps each enabled source to its task state.
	Tasks map[Source]TaskState `json:"tasks"`
	// Entities maps correlation keys to aggregated entities.
	Entities map[EntityKey]*CorrelatedEntity `json:"-"`
	// Progress is the percentage of tasks that reached a terminal
	// status, in [0,100]. Monotonically non-decreasing.
	Progress int `json:"progress"`
	// Terminal is set exactly once, when every task has settled.
	Terminal bool `json:"terminal"`
	// Cancelled records whether Cancel was requested.
	Cancelled bool `json:"cancelled"`
}

// NewSessionState creates the state for a fresh session with all tasks
// pending.
func NewSessionState(id string, phone PhoneNumber, sources []Source) *SessionState {
	tasks := make(map[Source]TaskState, len(sources))
	for _, src := range sources {
		tasks[src] = TaskState{
			Source:     src,
			Status:     TaskPending,
			StatusText: TaskPending.String(),
		}
	}
	return &SessionState{
		ID:           id,
		Phone:        phone,
		PhoneDisplay: phone.Display(),
		StartedAt:    time.Now(),
		Tasks:        tasks,
		Entities:     make(map[EntityKey]*CorrelatedEntity),
	}
}

// TerminalTaskCount returns how many tasks have settled.
func (s *SessionState) TerminalTaskCount() int {
	n := 0
	for _, t := range s.Tasks {
		if t.Status.Terminal() {
			n++
		}
	}
	return n
}

// AllTasksTerminal reports whether every task has settled.
func (s *SessionState) AllTasksTerminal() bool {
	return s.TerminalTaskCount() == len(s.Tasks)
}

// Snapshot returns a deep copy of the state. The copy shares nothing
// mutable with the original, so readers never observe a partially
// updated session.
func (s *SessionState) Snapshot() *SessionState {
	cp := *s
	cp.Tasks = make(map[Source]TaskState, len(s.Tasks))
	for k, v := range s.Tasks {
		cp.Tasks[k] = v
	}
	cp.Entities = make(map[EntityKey]*CorrelatedEntity, len(s.Entities))
	for k, v := range s.Entities {
		cp.Entities[k] = v.Clone()
	}
	return &cp
}

// SortedEntities returns the session's entities ordered by type (report
// display order), then descending confidence, then first-seen order.
func (s *SessionState) SortedEntities() []*CorrelatedEntity {
	out := make([]*CorrelatedEntity, 0, len(s.Entities))
	for _, e := range s.Entities {
		out = append(out, e)
	}
	typeRank := make(map[EntityType]int, len(entityTypeOrder))
	for i, t := range entityTypeOrder {
		typeRank[t] = i
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if typeRank[a.Type] != typeRank[b.Type] {
			return typeRank[a.Type] < typeRank[b.Type]
		}
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		return a.FirstSeen < b.FirstSeen
	})
	return out
}

// Summary is the wrap-up attached to the Complete event and reports.
type Summary struct {
	// SessionID is the session this summary belongs to.
	SessionID string `json:"session_id"`
	// PhoneNumber is the display form of the query number.
	PhoneNumber string `json:"phone_number"`
	// EntityCounts maps entity types to the number of distinct
	// correlated entities found.
	EntityCounts map[EntityType]int `json:"entity_counts"`
	// SourcesSucceeded counts tasks that produced a result.
	SourcesSucceeded int `json:"sources_succeeded"`
	// SourcesFailed counts tasks that ended Failed or TimedOut.
	SourcesFailed int `json:"sources_failed"`
	// SourcesCancelled counts tasks that were cancelled.
	SourcesCancelled int `json:"sources_cancelled"`
	// Elapsed is the wall-clock session duration.
	Elapsed time.Duration `json:"elapsed_ns"`
}

// Summarize builds a Summary from the current state.
func (s *SessionState) Summarize() *Summary {
	sum := &Summary{
		SessionID:    s.ID,
		PhoneNumber:  s.PhoneDisplay,
		EntityCounts: make(map[EntityType]int),
	}
	for _, e := range s.Entities {
		sum.EntityCounts[e.Type]++
	}
	for _, t := range s.Tasks {
		switch t.Status {
		case TaskSucceeded:
			sum.SourcesSucceeded++
		case TaskFailed, TaskTimedOut:
			sum.SourcesFailed++
		case TaskCancelled:
			sum.SourcesCancelled++
		}
	}
	end := s.CompletedAt
	if end.IsZero() {
		end = time.Now()
	}
	sum.Elapsed = end.Sub(s.StartedAt)
	return sum
}

// TotalEntities returns the total distinct entity count.
func (sum *Summary) TotalEntities() int {
	n := 0
	for _, c := range sum.EntityCounts {
		n += c
	}
	return n
}
