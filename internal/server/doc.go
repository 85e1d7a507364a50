// Package server provides HTTP routing, middleware, and the mood playlist web application.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Web Application
//
// [App] wires the full application: OAuth login against the catalog, cookie
// sessions backed by the session repository, mood resolution, track
// selection, playlist creation and track list export.
//
// Routes:
//
//	GET  /                        → mood picker (login page without a session)
//	GET  /login                   → OAuth initiation, sets the state cookie
//	GET  /callback                → OAuth completion, creates the session
//	GET|POST /generate_playlist   → resolve mood, select tracks, render results
//	POST /create_spotify_playlist → materialize the selection as a playlist (JSON)
//	POST /export                  → download the selection as CSV/Markdown/text
//	GET  /logout                  → delete the session
//	GET  /health                  → liveness probe
//
// The OAuth state parameter is validated against a short-lived cookie set at
// /login (CSRF protection). Sessions persist across restarts; tokens rotated
// by the refresh flow are written back to the session store after each
// catalog request.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
