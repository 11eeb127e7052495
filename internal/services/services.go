// package services defines interface Provider for the Spotify Web API
package services

import (
	"context"

	"github.com/desertthunder/spx/internal/models"
	"golang.org/x/oauth2"
)

// PageSize is the page size used for every paged listing request.
const PageSize = 50

// Page is one page of a paged Spotify collection.
//
// Total is the provider-reported size of the whole collection and drives
// loop continuation in the aggregator; it is not persisted.
type Page[T any] struct {
	Items  []T `json:"items"`
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// User identifies the resource owner whose collections are fetched.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

// TokenReader supplies the current access token for authenticated API calls.
//
// The session store implements this; provider clients never hold tokens
// themselves.
type TokenReader interface {
	Access() (string, error)
}

// Provider is the capability surface the backend consumes from Spotify.
//
// AuthURL, Exchange and Refresh cover the OAuth2 authorization-code grant;
// the remaining methods are authenticated API calls that read the access
// token through the configured [TokenReader].
type Provider interface {
	// AuthURL builds the authorization endpoint URL with the given CSRF state embedded.
	AuthURL(state string) (string, error)

	// Exchange trades a single-use authorization code for a token pair.
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)

	// Refresh obtains a new access token from a refresh token.
	// The returned token may or may not carry a rotated refresh token.
	Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error)

	// CurrentUser fetches the authenticated user's profile.
	CurrentUser(ctx context.Context) (*User, error)

	// Playlists fetches one page of the user's playlists.
	Playlists(ctx context.Context, userID string, limit, offset int) (*Page[models.Playlist], error)

	// SavedTracks fetches one page of the user's saved tracks.
	SavedTracks(ctx context.Context, limit, offset int) (*Page[models.SavedTrack], error)

	// Name returns the provider name (e.g. "Spotify")
	Name() string
}
