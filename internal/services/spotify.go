// Spotify API implementation of [Provider]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/desertthunder/spx/internal/models"
	"github.com/desertthunder/spx/internal/shared"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	// requestTimeout bounds every provider call.
	requestTimeout = 30 * time.Second
)

type followers struct {
	Total int `json:"total"`
}

// spotifyUser represents a Spotify user profile.
type spotifyUser struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	Country     string    `json:"country"`
	Product     string    `json:"product"` // premium, free, etc.
	Followers   followers `json:"followers"`
}

type externalIDs struct {
	ISRC string `json:"isrc"`
}

// spotifyTrack represents a Spotify track.
type spotifyTrack struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Artists     []spotifyArtist `json:"artists"`
	Album       spotifyAlbum    `json:"album"`
	DurationMS  int             `json:"duration_ms"`
	Explicit    bool            `json:"explicit"`
	ExternalIDs externalIDs     `json:"external_ids"`
	URI         string          `json:"uri"`
}

type spotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

type spotifyAlbum struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ReleaseDate string `json:"release_date"`
	TotalTracks int    `json:"total_tracks"`
	URI         string `json:"uri"`
}

type owner struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type playlistTracks struct {
	Total int `json:"total"`
}

// spotifySimplePlaylist represents a simplified playlist object (used in lists).
type spotifySimplePlaylist struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Owner       owner          `json:"owner"`
	Public      bool           `json:"public"`
	Tracks      playlistTracks `json:"tracks"`
	URI         string         `json:"uri"`
}

// spotifySavedTrack represents a track saved in the user's library.
type spotifySavedTrack struct {
	AddedAt string       `json:"added_at"`
	Track   spotifyTrack `json:"track"`
}

// spotifyPage represents a paginated Spotify response envelope.
type spotifyPage[T any] struct {
	Items    []T     `json:"items"`
	Total    int     `json:"total"`
	Limit    int     `json:"limit"`
	Offset   int     `json:"offset"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
}

// SpotifyService implements the [Provider] interface for Spotify API interactions.
//
// Uses [oauth2] for the authorization-code grant and refresh grant; API calls
// carry the bearer token supplied by the configured [TokenReader].
type SpotifyService struct {
	config     *oauth2.Config
	httpClient *http.Client
	tokens     TokenReader
	baseURL    string
}

var _ Provider = (*SpotifyService)(nil)

// NewSpotifyService creates a new Spotify service with the given OAuth2 credentials.
func NewSpotifyService(credentials map[string]string) (*SpotifyService, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	redirectURI, ok := credentials["redirect_uri"]
	if !ok || redirectURI == "" {
		redirectURI = "http://localhost:3000/login/spotify/callback"
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes: []string{
			"user-read-private",
			"user-read-email",
			"playlist-read-private",
			"playlist-read-collaborative",
			"user-library-read",
		},
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	return &SpotifyService{
		config:     config,
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    spotifyBaseURL,
	}, nil
}

// SetTokenReader wires the session store the service reads access tokens from.
func (s *SpotifyService) SetTokenReader(tokens TokenReader) {
	s.tokens = tokens
}

// OAuthConfig exposes the underlying [oauth2.Config] for callback handlers.
func (s *SpotifyService) OAuthConfig() *oauth2.Config {
	return s.config
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// AuthURL builds the authorization endpoint URL with the CSRF state embedded.
//
// show_dialog forces the consent screen so a re-login always round-trips
// through Spotify.
func (s *SpotifyService) AuthURL(state string) (string, error) {
	if s.config.ClientID == "" || s.config.RedirectURL == "" {
		return "", fmt.Errorf("%w: client_id and redirect_uri are required", shared.ErrAuthURLBuild)
	}

	return s.config.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("show_dialog", "true"),
	), nil
}

// Exchange trades a single-use authorization code for a token pair.
func (s *SpotifyService) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange auth code: %w", err)
	}
	return token, nil
}

// Refresh obtains a new access token using the refresh grant.
//
// Spotify may omit a rotated refresh token, in which case the returned
// token's RefreshToken field is empty and the caller keeps the old one.
func (s *SpotifyService) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("%w: no refresh token", shared.ErrNotAuthenticated)
	}

	source := s.config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	token, err := source.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}
	return token, nil
}

// doRequest performs an authenticated GET against the Spotify API and decodes the JSON response.
func (s *SpotifyService) doRequest(ctx context.Context, endpoint string, result any) error {
	if s.tokens == nil {
		return fmt.Errorf("%w: no token reader configured", shared.ErrNotAuthenticated)
	}

	access, err := s.tokens.Access()
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+access)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: spotify API status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// CurrentUser retrieves the current authenticated user's profile.
func (s *SpotifyService) CurrentUser(ctx context.Context) (*User, error) {
	var user spotifyUser
	if err := s.doRequest(ctx, "/me", &user); err != nil {
		return nil, err
	}
	return &User{ID: user.ID, DisplayName: user.DisplayName, Email: user.Email}, nil
}

// Playlists retrieves one page of the user's playlists.
func (s *SpotifyService) Playlists(ctx context.Context, userID string, limit, offset int) (*Page[models.Playlist], error) {
	endpoint := fmt.Sprintf("/users/%s/playlists?limit=%d&offset=%d", userID, clampLimit(limit), offset)

	var response spotifyPage[spotifySimplePlaylist]
	if err := s.doRequest(ctx, endpoint, &response); err != nil {
		return nil, err
	}

	page := &Page[models.Playlist]{
		Items:  make([]models.Playlist, 0, len(response.Items)),
		Total:  response.Total,
		Limit:  response.Limit,
		Offset: response.Offset,
	}
	for _, sp := range response.Items {
		page.Items = append(page.Items, models.Playlist{
			ID:          sp.ID,
			Name:        sp.Name,
			Description: sp.Description,
			Owner:       sp.Owner.ID,
			TrackCount:  sp.Tracks.Total,
			Public:      sp.Public,
		})
	}

	return page, nil
}

// SavedTracks retrieves one page of the user's saved tracks.
func (s *SpotifyService) SavedTracks(ctx context.Context, limit, offset int) (*Page[models.SavedTrack], error) {
	endpoint := fmt.Sprintf("/me/tracks?limit=%d&offset=%d", clampLimit(limit), offset)

	var response spotifyPage[spotifySavedTrack]
	if err := s.doRequest(ctx, endpoint, &response); err != nil {
		return nil, err
	}

	page := &Page[models.SavedTrack]{
		Items:  make([]models.SavedTrack, 0, len(response.Items)),
		Total:  response.Total,
		Limit:  response.Limit,
		Offset: response.Offset,
	}
	for _, st := range response.Items {
		track := models.Track{
			ID:       st.Track.ID,
			Title:    st.Track.Name,
			Duration: st.Track.DurationMS / 1000,
			ISRC:     st.Track.ExternalIDs.ISRC,
			Album:    st.Track.Album.Name,
		}
		if len(st.Track.Artists) > 0 {
			track.Artist = st.Track.Artists[0].Name
		}
		page.Items = append(page.Items, models.SavedTrack{AddedAt: st.AddedAt, Track: track})
	}

	return page, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > PageSize {
		return PageSize
	}
	return limit
}
