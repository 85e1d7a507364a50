// Package services defines the [Catalog] interface for the remote music catalog and implements it for Spotify.
//
// # Catalog Interface
//
// The selection and materialization layers consume the catalog through a
// capability set: top-played tracks, track search, playlist search, catalog
// recommendations, playlist creation and track insertion. The interface keeps
// those layers independent of the provider wire format and makes them
// testable with in-memory doubles.
//
// # Spotify Implementation
//
// [SpotifyService] uses OAuth2 (authorization-code flow) for authentication
// with automatic token refresh via the [oauth2.Client] token source. Requests
// go through a rate-limited doRequest helper that converts provider JSON into
// models DTOs.
//
// # Error Handling
//
// Services use typed errors from the shared package:
//   - [shared.ErrNotAuthenticated] : missing/rejected token, reauthorization needed
//   - [shared.ErrRateLimited] : provider returned 429
//   - [shared.ErrCatalogUnavailable] : network failure or provider 5xx
//
// Callers treat ErrCatalogUnavailable as non-fatal per selection strategy;
// authentication errors surface to the web layer as a redirect to the
// provider's authorize URL.
package services
