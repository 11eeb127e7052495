package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/spx/internal/shared"
)

type staticTokens struct {
	access string
	err    error
}

func (s staticTokens) Access() (string, error) {
	return s.access, s.err
}

func newTestService(t *testing.T, handler http.HandlerFunc) (*SpotifyService, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	srv, err := NewSpotifyService(map[string]string{
		"client_id":     "test_client_id",
		"client_secret": "test_client_secret",
	})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	srv.baseURL = server.URL
	srv.SetTokenReader(staticTokens{access: "test_access"})
	return srv, server
}

func TestSpotifyService(t *testing.T) {
	t.Run("NewSpotifyService", func(t *testing.T) {
		t.Run("with valid credentials", func(t *testing.T) {
			srv, err := NewSpotifyService(map[string]string{
				"client_id":     "test_client_id",
				"client_secret": "test_client_secret",
				"redirect_uri":  "http://localhost:3000/login/spotify/callback",
			})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if srv.Name() != "Spotify" {
				t.Errorf("expected service name 'Spotify', got %s", srv.Name())
			}
		})

		t.Run("missing client_id", func(t *testing.T) {
			_, err := NewSpotifyService(map[string]string{
				"client_secret": "test_client_secret",
			})
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})

		t.Run("missing client_secret", func(t *testing.T) {
			_, err := NewSpotifyService(map[string]string{
				"client_id": "test_client_id",
			})
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})

		t.Run("defaults the redirect URI", func(t *testing.T) {
			srv, err := NewSpotifyService(map[string]string{
				"client_id":     "test_client_id",
				"client_secret": "test_client_secret",
			})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(srv.config.RedirectURL, "/login/spotify/callback") {
				t.Errorf("expected default redirect URI, got %s", srv.config.RedirectURL)
			}
		})
	})

	t.Run("AuthURL", func(t *testing.T) {
		srv, err := NewSpotifyService(map[string]string{
			"client_id":     "test_client_id",
			"client_secret": "test_client_secret",
		})
		if err != nil {
			t.Fatalf("failed to create service: %v", err)
		}

		authURL, err := srv.AuthURL("test_state")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		for _, want := range []string{
			"accounts.spotify.com",
			"state=test_state",
			"client_id=test_client_id",
			"show_dialog=true",
			"access_type=offline",
		} {
			if !strings.Contains(authURL, want) {
				t.Errorf("expected auth URL to contain %q, got %s", want, authURL)
			}
		}

		t.Run("fails without a client id", func(t *testing.T) {
			broken := &SpotifyService{config: srv.config}
			saved := broken.config.ClientID
			broken.config.ClientID = ""
			defer func() { broken.config.ClientID = saved }()

			if _, err := broken.AuthURL("test_state"); !errors.Is(err, shared.ErrAuthURLBuild) {
				t.Errorf("expected ErrAuthURLBuild, got %v", err)
			}
		})
	})

	t.Run("Refresh", func(t *testing.T) {
		t.Run("rejects an empty refresh token", func(t *testing.T) {
			srv, err := NewSpotifyService(map[string]string{
				"client_id":     "test_client_id",
				"client_secret": "test_client_secret",
			})
			if err != nil {
				t.Fatalf("failed to create service: %v", err)
			}

			if _, err := srv.Refresh(context.Background(), ""); !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Errorf("expected ErrNotAuthenticated, got %v", err)
			}
		})
	})

	t.Run("CurrentUser", func(t *testing.T) {
		t.Run("decodes the profile and sends the bearer token", func(t *testing.T) {
			var gotAuth, gotPath string
			srv, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
				gotAuth = r.Header.Get("Authorization")
				gotPath = r.URL.Path
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"id": "user_1", "display_name": "Test User", "email": "test@example.com"}`))
			})

			user, err := srv.CurrentUser(context.Background())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if gotAuth != "Bearer test_access" {
				t.Errorf("expected bearer token header, got %q", gotAuth)
			}
			if gotPath != "/me" {
				t.Errorf("expected /me, got %s", gotPath)
			}
			if user.ID != "user_1" || user.DisplayName != "Test User" {
				t.Errorf("unexpected user: %+v", user)
			}
		})

		t.Run("maps non-2xx responses to an API error", func(t *testing.T) {
			srv, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
			})

			_, err := srv.CurrentUser(context.Background())
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
		})

		t.Run("fails without a token reader", func(t *testing.T) {
			srv, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {})
			srv.tokens = nil

			_, err := srv.CurrentUser(context.Background())
			if !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Errorf("expected ErrNotAuthenticated, got %v", err)
			}
		})

		t.Run("propagates token reader failures", func(t *testing.T) {
			srv, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {})
			srv.SetTokenReader(staticTokens{err: shared.ErrNotAuthenticated})

			_, err := srv.CurrentUser(context.Background())
			if !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Errorf("expected ErrNotAuthenticated, got %v", err)
			}
		})

		t.Run("surfaces transport failures", func(t *testing.T) {
			srv, server := newTestService(t, func(w http.ResponseWriter, r *http.Request) {})
			server.Close()

			_, err := srv.CurrentUser(context.Background())
			if err == nil {
				t.Fatal("expected an error from an unreachable endpoint")
			}
			if !strings.Contains(err.Error(), "request failed") {
				t.Errorf("expected a request failure, got %v", err)
			}
		})
	})

	t.Run("Playlists", func(t *testing.T) {
		t.Run("maps the paged response", func(t *testing.T) {
			var gotQuery string
			srv, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
				gotQuery = r.URL.RawQuery
				if r.URL.Path != "/users/user_1/playlists" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{
					"items": [
						{"id": "pl_1", "name": "Morning Mix", "description": "wake up", "owner": {"id": "user_1"}, "public": true, "tracks": {"total": 12}},
						{"id": "pl_2", "name": "Focus", "owner": {"id": "user_1"}, "public": false, "tracks": {"total": 40}}
					],
					"total": 2, "limit": 50, "offset": 0
				}`))
			})

			page, err := srv.Playlists(context.Background(), "user_1", 50, 0)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if gotQuery != "limit=50&offset=0" {
				t.Errorf("expected limit=50&offset=0, got %s", gotQuery)
			}
			if len(page.Items) != 2 || page.Total != 2 {
				t.Fatalf("unexpected page: %+v", page)
			}

			first := page.Items[0]
			if first.ID != "pl_1" || first.Name != "Morning Mix" || first.Owner != "user_1" {
				t.Errorf("unexpected playlist: %+v", first)
			}
			if first.TrackCount != 12 || !first.Public {
				t.Errorf("unexpected playlist details: %+v", first)
			}
		})

		t.Run("clamps an oversized limit", func(t *testing.T) {
			var gotQuery string
			srv, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
				gotQuery = r.URL.RawQuery
				w.Write([]byte(`{"items": [], "total": 0, "limit": 50, "offset": 0}`))
			})

			if _, err := srv.Playlists(context.Background(), "user_1", 500, 0); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if gotQuery != "limit=50&offset=0" {
				t.Errorf("expected clamped limit, got %s", gotQuery)
			}
		})
	})

	t.Run("SavedTracks", func(t *testing.T) {
		srv, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/me/tracks" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"items": [
					{
						"added_at": "2024-11-02T09:30:00Z",
						"track": {
							"id": "tr_1",
							"name": "Song One",
							"duration_ms": 215000,
							"artists": [{"id": "ar_1", "name": "First Artist"}, {"id": "ar_2", "name": "Second Artist"}],
							"album": {"id": "al_1", "name": "Album One"},
							"external_ids": {"isrc": "USRC12345678"}
						}
					}
				],
				"total": 1, "limit": 50, "offset": 0
			}`))
		})

		page, err := srv.SavedTracks(context.Background(), 50, 0)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(page.Items) != 1 {
			t.Fatalf("expected 1 item, got %d", len(page.Items))
		}

		saved := page.Items[0]
		if saved.AddedAt != "2024-11-02T09:30:00Z" {
			t.Errorf("unexpected added_at: %s", saved.AddedAt)
		}

		track := saved.Track
		if track.ID != "tr_1" || track.Title != "Song One" {
			t.Errorf("unexpected track: %+v", track)
		}
		if track.Duration != 215 {
			t.Errorf("expected duration in seconds, got %d", track.Duration)
		}
		if track.Artist != "First Artist" {
			t.Errorf("expected the first artist, got %s", track.Artist)
		}
		if track.Album != "Album One" || track.ISRC != "USRC12345678" {
			t.Errorf("unexpected track details: %+v", track)
		}
	})
}

func TestClampLimit(t *testing.T) {
	cases := []struct {
		name  string
		limit int
		want  int
	}{
		{"zero defaults", 0, 20},
		{"negative defaults", -5, 20},
		{"within range", 30, 30},
		{"at the cap", PageSize, PageSize},
		{"over the cap", 100, PageSize},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := clampLimit(tc.limit); got != tc.want {
				t.Errorf("clampLimit(%d) = %d, want %d", tc.limit, got, tc.want)
			}
		})
	}
}
