// Package session orchestrates one search session: it fans the query
// out to the enabled sources under a concurrency bound, runs extraction
// and correlation over whatever comes back, and publishes progress,
// entity, and completion events to subscribers.
//
// The orchestrator is the single writer of its session state. Every
// other reader gets a deep snapshot, so no caller can observe a
// half-applied update. Events for one session are emitted in commit
// order.
//
// The Registry keeps finished sessions around for a retention window so
// late status polls and exports still work, then sweeps them out.
package session
