// Package server provides HTTP routing, middleware, and the web surface for
// the Spotify explorer.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Browser Login Flow
//
// [AuthHandler] implements the authorization code flow for browser sessions.
// GET /login/spotify generates a random state, stores it in an HttpOnly
// cookie, and redirects to the provider's consent page. The callback verifies
// the echoed state against the cookie before exchanging the code, clears the
// cookie on every outcome, and redirects home on success.
//
// /auth/status reports whether a usable session exists, and
// /auth/refresh-token forces a refresh.
//
// # Library Endpoints
//
// [LibraryHandler] exposes the aggregated library: /playlists and /tracks
// each walk the provider's paginated endpoints to completion and return the
// whole collection in one response.
//
// # CLI Callback Handler
//
// [OAuthHandler] implements the one-shot callback used by the CLI login
// command. A temporary HTTP server starts on the configured address, handles
// a single callback, and shuts down after delivering the token through the
// result channel. It only processes one callback to prevent replay attacks.
package server
