// Package server exposes the search session API over HTTP.
//
// The server owns a session registry and an SSE broker. Sessions are
// started by POST /api/search and run detached from the request that
// created them; clients observe progress through polling or the
// per-session event stream.
package server
