package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nao1215/telespotter/internal/client"
	"github.com/nao1215/telespotter/internal/correlate"
	"github.com/nao1215/telespotter/internal/extract"
	"github.com/nao1215/telespotter/internal/model"
	"golang.org/x/sync/errgroup"
)

// Orchestration errors.
var (
	// ErrNoSources is returned when a session is created without any
	// enabled source.
	ErrNoSources = errors.New("no sources enabled")
	// ErrAlreadyStarted is returned when Start is called twice.
	ErrAlreadyStarted = errors.New("session already started")
)

// defaultConcurrency bounds how many source tasks run at once.
const defaultConcurrency = 4

// Orchestrator drives one search session end to end.
//
// Design decision: the orchestrator owns its session state outright and
// serializes every mutation behind one mutex rather than sharing state
// with per-task goroutines because:
//  1. Tasks settle in arbitrary order; a single writer keeps progress
//     monotone and event order equal to commit order
//  2. Readers get deep snapshots and can never watch a task flip status
//     mid-read
//  3. Correlation merges are idempotent, so replaying a commit is safe
type Orchestrator struct {
	mu    sync.Mutex
	state *model.SessionState

	clients    []client.Client
	correlator *correlate.Correlator
	engine     *extract.Engine
	sink       EventSink
	logger     *slog.Logger

	concurrency int
	taskTimeout time.Duration
	maxRetries  int
	backoff     time.Duration

	started bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithSink sets the event sink. Defaults to NopSink.
func WithSink(sink EventSink) Option {
	return func(o *Orchestrator) {
		if sink != nil {
			o.sink = sink
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithConcurrency bounds how many source tasks run simultaneously.
func WithConcurrency(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithTaskTimeout sets the per-attempt fetch timeout.
func WithTaskTimeout(timeout time.Duration) Option {
	return func(o *Orchestrator) {
		if timeout > 0 {
			o.taskTimeout = timeout
		}
	}
}

// WithMaxRetries sets how many extra attempts a transient failure gets.
func WithMaxRetries(n int) Option {
	return func(o *Orchestrator) {
		if n >= 0 {
			o.maxRetries = n
		}
	}
}

// WithRetryBackoff sets the pause between attempts.
func WithRetryBackoff(backoff time.Duration) Option {
	return func(o *Orchestrator) {
		if backoff >= 0 {
			o.backoff = backoff
		}
	}
}

// New creates an orchestrator for one session. The clients define the
// enabled sources; an empty client list is rejected before any event is
// emitted.
func New(id string, phone model.PhoneNumber, clients []client.Client, opts ...Option) (*Orchestrator, error) {
	if len(clients) == 0 {
		return nil, ErrNoSources
	}

	// Keep the first client per source; a duplicate would double-count
	// progress.
	seen := make(map[model.Source]bool, len(clients))
	deduped := make([]client.Client, 0, len(clients))
	sources := make([]model.Source, 0, len(clients))
	for _, c := range clients {
		if seen[c.Source()] {
			continue
		}
		seen[c.Source()] = true
		deduped = append(deduped, c)
		sources = append(sources, c.Source())
	}

	o := &Orchestrator{
		state:       model.NewSessionState(id, phone, sources),
		clients:     deduped,
		correlator:  correlate.NewCorrelator(),
		engine:      extract.NewEngine(phone),
		sink:        NopSink{},
		logger:      slog.Default(),
		concurrency: defaultConcurrency,
		taskTimeout: defaultTaskTimeout,
		maxRetries:  defaultMaxRetries,
		backoff:     defaultRetryBackoff,
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(o)
	}
	// The session's entity map is the correlator's live map; snapshots
	// deep-copy it before leaving the lock.
	o.state.Entities = o.correlator.Entities()
	return o, nil
}

// ID returns the session identifier.
func (o *Orchestrator) ID() string {
	return o.state.ID
}

// Start launches the session's source tasks in the background and
// returns immediately. The session always terminates: every task either
// settles on its own or is cancelled.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.mu.Lock()
	if o.started {
		o.mu.Unlock()
		return ErrAlreadyStarted
	}
	o.started = true
	runCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel
	if o.state.Cancelled {
		// Cancel beat Start; tasks settle as Cancelled without fetching.
		cancel()
	}
	o.emit(model.NewProgressEvent(0, "search started"))
	o.mu.Unlock()

	o.logger.Info("session started",
		"session_id", o.state.ID,
		"sources", len(o.clients),
		"concurrency", o.concurrency,
	)

	go o.run(runCtx)
	return nil
}

// run executes all source tasks under the concurrency bound and then
// finalizes the session.
func (o *Orchestrator) run(ctx context.Context) {
	defer close(o.done)

	// A plain errgroup, not WithContext: one source failing must not
	// cancel its siblings. Only Cancel tears the whole session down.
	g := new(errgroup.Group)
	g.SetLimit(o.concurrency)

	for _, c := range o.clients {
		c := c
		g.Go(func() error {
			o.markRunning(c.Source())

			runner := &taskRunner{
				client:     c,
				timeout:    o.taskTimeout,
				maxRetries: o.maxRetries,
				backoff:    o.backoff,
			}
			outcome := runner.run(ctx, o.state.Phone)

			// Extraction is pure and can run outside the lock; whether
			// the result still counts is decided at commit time.
			var entities []model.ExtractedEntity
			if outcome.status == model.TaskSucceeded {
				entities = o.engine.ExtractResult(outcome.raw)
			}
			o.commit(c.Source(), outcome, entities)
			return nil
		})
	}

	g.Wait() //nolint:errcheck // tasks never return errors
	o.finish()
}

// markRunning flips a task to Running unless cancellation already won.
func (o *Orchestrator) markRunning(src model.Source) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state.Cancelled {
		return
	}
	task := o.state.Tasks[src]
	task.Status = model.TaskRunning
	task.StatusText = task.Status.String()
	o.state.Tasks[src] = task
}

// commit applies one settled task to the session: status transition,
// correlation of any extracted entities, progress recomputation, and
// events, all atomically.
func (o *Orchestrator) commit(src model.Source, outcome taskOutcome, entities []model.ExtractedEntity) {
	o.mu.Lock()
	defer o.mu.Unlock()

	task := o.state.Tasks[src]
	if task.Status.Terminal() {
		return
	}

	status := outcome.status
	reason := outcome.reason
	// A result that arrives after Cancel is discarded: the task settles
	// as Cancelled and its entities never reach the session.
	if o.state.Cancelled {
		status = model.TaskCancelled
		reason = "session cancelled"
		entities = nil
	}

	task.Status = status
	task.StatusText = status.String()
	task.Attempts = outcome.attempts
	task.Reason = reason
	o.state.Tasks[src] = task

	for _, changed := range o.correlator.IngestAll(entities) {
		o.emit(model.NewEntityEvent(changed))
	}

	progress := 100 * o.state.TerminalTaskCount() / len(o.state.Tasks)
	if progress > o.state.Progress {
		o.state.Progress = progress
	}
	o.emit(model.NewProgressEvent(o.state.Progress, fmt.Sprintf("%s %s", src, status)))

	o.logger.Info("task settled",
		"session_id", o.state.ID,
		"source", string(src),
		"status", status.String(),
		"attempts", outcome.attempts,
		"entities", len(entities),
	)
}

// finish marks the session terminal and emits the completion event.
func (o *Orchestrator) finish() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.state.CompletedAt = time.Now()
	o.state.Terminal = true
	o.state.Progress = 100
	summary := o.state.Summarize()
	o.emit(model.NewCompleteEvent(summary))

	o.logger.Info("session complete",
		"session_id", o.state.ID,
		"entities", summary.TotalEntities(),
		"succeeded", summary.SourcesSucceeded,
		"failed", summary.SourcesFailed,
		"cancelled", summary.SourcesCancelled,
		"elapsed", summary.Elapsed,
	)
}

// Cancel requests cancellation. Pending and running tasks settle as
// Cancelled; already-settled tasks keep their status. Cancel is
// idempotent and safe before Start.
func (o *Orchestrator) Cancel() {
	o.mu.Lock()
	if o.state.Terminal || o.state.Cancelled {
		o.mu.Unlock()
		return
	}
	o.state.Cancelled = true
	cancel := o.cancel
	o.emit(model.NewProgressEvent(o.state.Progress, "cancel requested"))
	o.mu.Unlock()

	o.logger.Info("session cancel requested", "session_id", o.state.ID)
	if cancel != nil {
		cancel()
	}
}

// Status returns a deep snapshot of the session state.
func (o *Orchestrator) Status() *model.SessionState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state.Snapshot()
}

// Done is closed when the session reaches its terminal state.
func (o *Orchestrator) Done() <-chan struct{} {
	return o.done
}

// emit publishes one event. Callers hold the state lock, so event order
// equals commit order.
func (o *Orchestrator) emit(event model.Event) {
	o.sink.SessionEvent(o.state.ID, event)
}
