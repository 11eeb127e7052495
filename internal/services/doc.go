// Package services defines the [Provider] interface for the Spotify Web API and implements it.
//
// # Provider Interface
//
// The backend consumes Spotify as an opaque capability: build an
// authorization URL, exchange a code, refresh a token, and fetch the profile
// and paged collections. The session and aggregation layers depend only on
// [Provider], which keeps them testable against fakes.
//
// # Token Handling
//
// [SpotifyService] never stores tokens. Authenticated calls read the current
// access token through the [TokenReader] wired with SetTokenReader; the auth
// package owns expiry tracking and refresh.
//
// # Paging
//
// Paged endpoints (/users/{id}/playlists, /me/tracks) return [Page] values
// carrying items plus the provider-reported total. The tasks package loops
// offsets of [PageSize] until the total is reached.
//
// # Error Handling
//
// Services use typed errors from the shared package:
//   - [shared.ErrNotAuthenticated] : no token reader or no usable token
//   - [shared.ErrAuthURLBuild] : client misconfiguration
//   - [shared.ErrAPIRequest] : HTTP request failed or non-2xx status
package services
