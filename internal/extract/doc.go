// Package extract turns the raw text a source returns into candidate
// typed entities (names, emails, addresses, usernames, social profiles,
// associated phone numbers).
//
// Each entity type has its own matcher implementing the Extractor
// interface, so matchers stay unit-testable in isolation from session
// and network concerns. All matchers are pure: no I/O, no shared mutable
// state, safe to invoke concurrently from many source tasks.
//
// Extraction never fails. Malformed fragments are skipped locally and
// empty input yields an empty result; one bad fragment never drops the
// rest of a blob's matches.
//
// Confidence scores are tuning parameters, not correctness guarantees.
// Each matcher documents its score and why it sits where it does
// relative to the others (pattern precision drives the ordering: social
// URLs > addresses > emails > usernames > phones > names).
package extract
