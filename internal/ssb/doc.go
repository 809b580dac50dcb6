// Package ssb provides an HTTP client for Statbank Norway's tabular
// data API (api/v0).
//
// # Overview
//
// The package covers the three endpoints a fetch needs:
//
//   - GET {base}/{lang}/table/?query={phrase}: free-text table search
//   - GET {base}/{lang}/table/{id}: per-table variable metadata
//   - POST {base}/{lang}/table/{id}: json-stat data query
//
// Table identifiers are normalized to the provider's fixed-width form
// before any request: 4-digit ids gain a leading zero, and input that
// is not an integer fails with InvalidTableIDError without touching
// the network.
//
// # Resolved tables
//
// Resolve returns a Table value carrying the id, title, metadata URL
// and variable list together. Later steps (the selection surface,
// query building, the data fetch) take the Table explicitly instead of
// reading it back out of client state. Resolutions are cached per
// client, keyed by padded id; the data endpoint is the same URL the
// metadata came from, so reusing the cached URL is required for the
// fetch to hit the right table, not just a saved round-trip.
//
// # Query documents
//
// BuildQuery emits one entry per table variable, in table order, with
// filter "item" and the selected machine values. Variables the user
// left empty are still present with an empty values list; what an
// empty selection means is the provider's call, not this package's.
// ParseQuery is the strict inverse for callers that edit the textual
// form: plain JSON only, unknown fields rejected.
//
// # Error handling
//
// Failure modes are distinct types so callers can react to each:
//
//   - ErrNoResults: a search matched nothing (not a failure)
//   - InvalidTableIDError: unparseable table id, raised pre-network
//   - IncompleteSelectionError: a mandatory variable (elimination
//     false) has no values; the query is never submitted
//   - TransportError: network failures and 5xx responses, cause kept
//   - ErrSelectionRequired: the provider rejected the query (4xx),
//     with the provider's detail preserved in the message
//
// Requests carry a bounded timeout (default 15s) and honor context
// cancellation. Nothing is retried; every failure is terminal for
// that call.
package ssb
