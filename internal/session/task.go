package session

import (
	"context"
	"errors"
	"time"

	"github.com/nao1215/telespotter/internal/client"
	"github.com/nao1215/telespotter/internal/model"
)

// Task execution defaults.
const (
	// defaultTaskTimeout bounds one fetch attempt.
	defaultTaskTimeout = 20 * time.Second
	// defaultMaxRetries is how many extra attempts a transient failure
	// earns. Non-transient failures never retry.
	defaultMaxRetries = 2
	// defaultRetryBackoff is the pause between attempts.
	defaultRetryBackoff = 500 * time.Millisecond
)

// taskRunner executes one source task: fetch with a per-attempt
// timeout, retry transient failures up to the budget, and report the
// terminal status.
type taskRunner struct {
	client     client.Client
	timeout    time.Duration
	maxRetries int
	backoff    time.Duration
}

// taskOutcome is what one task run settles to.
type taskOutcome struct {
	// raw is the fetched text on success, nil otherwise.
	raw *model.RawResult
	// status is the terminal status: Succeeded, Failed, TimedOut or
	// Cancelled. Never Pending or Running.
	status model.TaskStatus
	// reason describes the failure for non-success statuses.
	reason string
	// attempts counts fetch attempts actually made.
	attempts int
}

// run executes the task until it settles. Cancellation of ctx settles
// the task as Cancelled no matter what the fetch was doing.
func (r *taskRunner) run(ctx context.Context, phone model.PhoneNumber) taskOutcome {
	var lastErr error
	attempts := 0

	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return taskOutcome{status: model.TaskCancelled, reason: "session cancelled", attempts: attempts}
		}

		attempts++
		attemptCtx, cancel := context.WithTimeout(ctx, r.timeout)
		raw, err := r.client.Fetch(attemptCtx, phone)
		cancel()

		if err == nil {
			return taskOutcome{raw: raw, status: model.TaskSucceeded, attempts: attempts}
		}
		if ctx.Err() != nil {
			return taskOutcome{status: model.TaskCancelled, reason: "session cancelled", attempts: attempts}
		}
		lastErr = err
		if !client.Transient(err) {
			break
		}
		if attempt < r.maxRetries {
			select {
			case <-time.After(r.backoff):
			case <-ctx.Done():
				return taskOutcome{status: model.TaskCancelled, reason: "session cancelled", attempts: attempts}
			}
		}
	}

	status := model.TaskFailed
	var fe *client.FetchError
	if errors.As(lastErr, &fe) && fe.Kind == client.KindTimeout {
		status = model.TaskTimedOut
	}
	reason := "fetch failed"
	if lastErr != nil {
		reason = lastErr.Error()
	}
	return taskOutcome{status: status, reason: reason, attempts: attempts}
}
