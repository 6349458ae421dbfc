// Package services reads the call-analysis database through its PostgREST interface.
//
// # Client
//
// [Client] issues read-only requests: [Client.Select] for rows, [Client.Count] for exact counts
// (HEAD with "Prefer: count=exact"), [Client.RPC] for database functions and
// [Client.DistinctValues] for filter options. The API key is sent both as the apikey header and as
// a bearer token through an [oauth2.Transport]. All callers share one [rate.Limiter].
//
// Results are cached by encoded query when a [cache.Cache] is configured. Every failure wraps
// [shared.ErrDataAccess] so pages can show a single banner.
//
// # Queries
//
// [Query] and [Filter] build PostgREST parameters (col=op.value, or=(...), order, limit, offset).
// [Queries] holds the named queries behind each dashboard page and implements [DataSource].
// Free-text terms are escaped with [EscapeSearchTerm] before they enter an ilike pattern.
//
// # Transcript Search
//
// Full-text search sits behind [TranscriptSearcher] and is served by the search_transcripts function.
package services
