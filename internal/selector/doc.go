// Package selector picks ranked, de-duplicated tracks for a mood.
//
// # Strategy Merge
//
// [Selector.Select] runs a fixed list of retrieval strategies against the
// catalog: personal seeds (top-played tracks feeding catalog recommendations),
// curated keyword searches, and curated playlist pulls. Every strategy runs
// inside a failure boundary: a failing strategy is logged and skipped, it
// never aborts the selection.
//
// Gathered tracks are merged, de-duplicated by catalog ID (first occurrence
// wins), filtered against the per-(user, mood) recency cache, ranked by
// popularity with bounded random jitter, and truncated to the display limit.
// The returned IDs are appended to the recency cache, which the store bounds
// to the most recent entries.
//
// # Determinism
//
// The jitter keeps repeated selections from freezing into one ordering. The
// randomness source is seedable through [Options.Seed] so tests can fix it.
package selector
