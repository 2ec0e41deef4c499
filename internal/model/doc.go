// Package model defines the core data types used throughout TeleSpotter.
//
// This package contains:
//   - PhoneNumber: validated, normalized phone number value object
//   - Source: identifiers for the external data sources queried per session
//   - ExtractedEntity / CorrelatedEntity: typed facts pulled from raw text
//   - SessionState: the mutable state of one search session
//   - Event: the progress/result event algebra published to subscribers
//
// Types in this package are plain data with no I/O. Concurrency control
// over SessionState belongs to the session package, which is its single
// writer; everything handed across goroutine boundaries is deep-copied
// via Snapshot.
package model
