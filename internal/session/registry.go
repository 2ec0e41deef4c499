package session

import (
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrSessionNotFound is returned when a session ID is unknown or its
// retention window has passed.
var ErrSessionNotFound = errors.New("session not found")

// Registry defaults.
const (
	// defaultRetention is how long a finished session stays queryable.
	defaultRetention = 30 * time.Minute
	// defaultSweepInterval is how often the background sweeper runs.
	defaultSweepInterval = time.Minute
)

// Registry holds the live and recently finished sessions of one
// process. Finished sessions stay for the retention window so late
// status polls and exports still resolve, then the sweeper drops them.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Orchestrator

	retention time.Duration
	logger    *slog.Logger

	stopOnce sync.Once
	stop     chan struct{}
	wg       sync.WaitGroup
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithRetention sets how long finished sessions stay queryable.
func WithRetention(d time.Duration) RegistryOption {
	return func(r *Registry) {
		if d > 0 {
			r.retention = d
		}
	}
}

// WithRegistryLogger sets the logger.
func WithRegistryLogger(logger *slog.Logger) RegistryOption {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRegistry creates an empty session registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		sessions:  make(map[string]*Orchestrator),
		retention: defaultRetention,
		logger:    slog.Default(),
		stop:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Put registers a session under its ID.
func (r *Registry) Put(o *Orchestrator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[o.ID()] = o
}

// Get returns the session with the given ID.
func (r *Registry) Get(id string) (*Orchestrator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return o, nil
}

// Remove drops a session immediately, cancelling it if still running.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	o, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if ok {
		o.Cancel()
	}
}

// Len returns the number of registered sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// SweepExpired removes finished sessions whose retention window ended
// before now, and returns how many were dropped. Running sessions are
// never swept.
func (r *Registry) SweepExpired(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	dropped := 0
	for id, o := range r.sessions {
		state := o.Status()
		if state.Terminal && now.Sub(state.CompletedAt) > r.retention {
			delete(r.sessions, id)
			dropped++
		}
	}
	if dropped > 0 {
		r.logger.Info("swept expired sessions", "count", dropped, "remaining", len(r.sessions))
	}
	return dropped
}

// StartSweeper runs SweepExpired on the given interval until Close.
func (r *Registry) StartSweeper(interval time.Duration) {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				r.SweepExpired(time.Now())
			case <-r.stop:
				return
			}
		}
	}()
}

// Close stops the sweeper and cancels every running session.
func (r *Registry) Close() {
	r.stopOnce.Do(func() {
		close(r.stop)
	})
	r.wg.Wait()

	r.mu.Lock()
	sessions := make([]*Orchestrator, 0, len(r.sessions))
	for _, o := range r.sessions {
		sessions = append(sessions, o)
	}
	r.mu.Unlock()
	for _, o := range sessions {
		o.Cancel()
	}
}
