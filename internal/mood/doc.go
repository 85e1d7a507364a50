// Package mood implements the mood model driving track selection.
//
// # Mood Labels
//
// [Label] is a closed enumeration of five moods: happy, energetic, chill, sad, calm.
// [Labels] returns them in a fixed enumeration order that also serves as the
// tie-break order for the resolver.
//
// # Profiles
//
// Each label maps to an immutable [Profile] of audio-feature targets and bounds
// (valence, energy, danceability, acousticness, tempo, popularity floor) plus the
// curated search queries used by the keyword-search and curated-playlist
// selection strategies. Profiles are defined once at package init and never
// mutated.
//
// # Resolution
//
// [Resolve] maps user input to a Label. An explicit selection always wins.
// Free text is scored against per-mood keyword sets (2 points per matching
// token) with small bonuses for multi-word phrases (+1). Ties and all-zero
// scores fall back to happy, the first label in enumeration order; the
// fall-back is deterministic but arbitrary, not meaningful.
//
// Resolve performs no I/O and is deterministic for given inputs.
package mood
