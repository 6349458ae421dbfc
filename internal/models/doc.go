// Package models defines the entities the dashboard reads and the few it persists.
//
// The package contains two categories of types:
//
// 1. Read-only rows: data owned by the hosted analysis database
//   - [Record] : a single row from a table, view or RPC result with typed accessors
//
// 2. Persistent Entities: local, database-backed models with full lifecycle management
//   - [Session] : a signed-in browser session with a sliding idle expiry
//
// [Role] is the access level a session carries. The Repository[T] interface defines standard CRUD
// operations for the local store.
package models
