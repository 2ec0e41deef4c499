package config

import "errors"

// Configuration validation errors.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to
// use errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrInvalidConcurrency is returned when the concurrency bound is
	// not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidTimeout is returned when the task timeout is not
	// positive. A zero timeout would fail every fetch immediately.
	ErrInvalidTimeout = errors.New("invalid task timeout: must be positive")

	// ErrInvalidRetries is returned when the retry budget is negative.
	// Use 0 to disable retries.
	ErrInvalidRetries = errors.New("invalid max retries: must be non-negative")

	// ErrInvalidBackoff is returned when the retry backoff is negative.
	ErrInvalidBackoff = errors.New("invalid retry backoff: must be non-negative")

	// ErrInvalidRetention is returned when the session retention window
	// is not positive.
	ErrInvalidRetention = errors.New("invalid retention: must be positive")

	// ErrInvalidRate is returned when the outbound request rate is not
	// positive.
	ErrInvalidRate = errors.New("invalid request rate: must be positive")

	// ErrInvalidMaxBodySize is returned when the max body size is
	// negative. Use 0 for the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrConflictingReportFormats is returned when more than one of
	// --json, --markdown and --csv is specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: choose one of --json, --markdown, --csv")
)
