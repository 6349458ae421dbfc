// Package repositories implements SQLite persistence for the dashboard's local state.
//
// The analysis data itself is read over REST and never stored here; the only locally persisted
// entity is the browser session created by the password gate.
//
// Key Implementations:
//   - [SessionRepository] : session rows keyed by the cookie value, with sliding expiry and cleanup
//
// Sequence numbers provide stable, human-readable ordering (e.g., session #42) independent of UUIDs and creation timestamps.
// Counters live in single-row <table>_sequence tables and advance in the same transaction as the insert.
package repositories
