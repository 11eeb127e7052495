package auth

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spx/internal/shared"
	tu "github.com/desertthunder/spx/internal/testing"
	"golang.org/x/oauth2"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestSession(t *testing.T) {
	t.Run("starts empty", func(t *testing.T) {
		session := NewSession()

		if session.Valid() {
			t.Error("expected empty session to be invalid")
		}
		if session.Snapshot() != nil {
			t.Error("expected nil snapshot for empty session")
		}
		if _, err := session.Access(); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("write then read", func(t *testing.T) {
		session := NewSession()
		session.Write(&oauth2.Token{
			AccessToken:  "access_1",
			RefreshToken: "refresh_1",
			Expiry:       time.Now().Add(time.Hour),
		})

		if !session.Valid() {
			t.Error("expected session to be valid")
		}

		access, err := session.Access()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if access != "access_1" {
			t.Errorf("expected access_1, got %s", access)
		}
		if session.RefreshToken() != "refresh_1" {
			t.Errorf("expected refresh_1, got %s", session.RefreshToken())
		}
	})

	t.Run("token without expiry never goes stale", func(t *testing.T) {
		session := NewSession()
		session.Write(&oauth2.Token{AccessToken: "access_1"})

		if !session.Valid() {
			t.Error("expected token with zero expiry to be valid")
		}
	})

	t.Run("expired token is invalid", func(t *testing.T) {
		now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		session := NewSessionWithClock(func() time.Time { return now })
		session.Write(&oauth2.Token{
			AccessToken: "access_1",
			Expiry:      now.Add(time.Hour),
		})

		if !session.Valid() {
			t.Fatal("expected token to be valid before expiry")
		}

		now = now.Add(2 * time.Hour)
		if session.Valid() {
			t.Error("expected token to be invalid after expiry")
		}
	})

	t.Run("carries refresh token forward when omitted", func(t *testing.T) {
		session := NewSession()
		session.Write(&oauth2.Token{AccessToken: "access_1", RefreshToken: "refresh_1"})
		session.Write(&oauth2.Token{AccessToken: "access_2"})

		if session.RefreshToken() != "refresh_1" {
			t.Errorf("expected refresh_1 to be carried forward, got %s", session.RefreshToken())
		}

		access, _ := session.Access()
		if access != "access_2" {
			t.Errorf("expected access_2, got %s", access)
		}
	})

	t.Run("rotated refresh token replaces the old one", func(t *testing.T) {
		session := NewSession()
		session.Write(&oauth2.Token{AccessToken: "access_1", RefreshToken: "refresh_1"})
		session.Write(&oauth2.Token{AccessToken: "access_2", RefreshToken: "refresh_2"})

		if session.RefreshToken() != "refresh_2" {
			t.Errorf("expected refresh_2, got %s", session.RefreshToken())
		}
	})

	t.Run("ignores nil writes", func(t *testing.T) {
		session := NewSession()
		session.Write(&oauth2.Token{AccessToken: "access_1"})
		session.Write(nil)

		if !session.Valid() {
			t.Error("expected nil write to leave session intact")
		}
	})

	t.Run("snapshot is a copy", func(t *testing.T) {
		session := NewSession()
		session.Write(&oauth2.Token{AccessToken: "access_1"})

		snapshot := session.Snapshot()
		snapshot.AccessToken = "mutated"

		access, _ := session.Access()
		if access != "access_1" {
			t.Error("expected snapshot mutation to not affect the session")
		}
	})
}

func TestManager(t *testing.T) {
	expiredToken := func() *oauth2.Token {
		return &oauth2.Token{
			AccessToken:  "stale",
			RefreshToken: "refresh_1",
			Expiry:       time.Now().Add(-time.Hour),
		}
	}

	t.Run("valid session skips the refresh grant", func(t *testing.T) {
		provider := &tu.MockProvider{}
		session := NewSession()
		session.Write(&oauth2.Token{AccessToken: "access_1", Expiry: time.Now().Add(time.Hour)})
		manager := NewManager(session, provider, testLogger())

		if err := manager.EnsureValid(context.Background()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if calls := provider.RefreshCalls.Load(); calls != 0 {
			t.Errorf("expected 0 refresh calls, got %d", calls)
		}
	})

	t.Run("fails without a refresh token before any network call", func(t *testing.T) {
		provider := &tu.MockProvider{}
		manager := NewManager(NewSession(), provider, testLogger())

		err := manager.EnsureValid(context.Background())
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Fatalf("expected ErrNotAuthenticated, got %v", err)
		}
		if calls := provider.RefreshCalls.Load(); calls != 0 {
			t.Errorf("expected 0 refresh calls, got %d", calls)
		}
	})

	t.Run("refreshes an expired session", func(t *testing.T) {
		provider := &tu.MockProvider{
			RefreshFunc: func(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
				if refreshToken != "refresh_1" {
					t.Errorf("expected refresh_1 to be sent, got %s", refreshToken)
				}
				return &oauth2.Token{AccessToken: "fresh", Expiry: time.Now().Add(time.Hour)}, nil
			},
		}
		session := NewSession()
		session.Write(expiredToken())
		manager := NewManager(session, provider, testLogger())

		if err := manager.EnsureValid(context.Background()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		access, _ := session.Access()
		if access != "fresh" {
			t.Errorf("expected fresh access token, got %s", access)
		}
		if session.RefreshToken() != "refresh_1" {
			t.Error("expected refresh token to be carried forward")
		}
	})

	t.Run("single attempt, session untouched on failure", func(t *testing.T) {
		provider := &tu.MockProvider{
			RefreshFunc: func(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
				return nil, errors.New("invalid_grant")
			},
		}
		session := NewSession()
		session.Write(expiredToken())
		manager := NewManager(session, provider, testLogger())

		err := manager.EnsureValid(context.Background())
		if !errors.Is(err, shared.ErrRefreshFailed) {
			t.Fatalf("expected ErrRefreshFailed, got %v", err)
		}
		if calls := provider.RefreshCalls.Load(); calls != 1 {
			t.Errorf("expected exactly 1 refresh attempt, got %d", calls)
		}
		if session.RefreshToken() != "refresh_1" {
			t.Error("expected failed refresh to leave the session untouched")
		}
	})

	t.Run("concurrent callers coalesce onto one refresh", func(t *testing.T) {
		provider := &tu.MockProvider{
			RefreshFunc: func(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
				time.Sleep(20 * time.Millisecond)
				return &oauth2.Token{AccessToken: "fresh", Expiry: time.Now().Add(time.Hour)}, nil
			},
		}
		session := NewSession()
		session.Write(expiredToken())
		manager := NewManager(session, provider, testLogger())

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := manager.EnsureValid(context.Background()); err != nil {
					t.Errorf("expected no error, got %v", err)
				}
			}()
		}
		wg.Wait()

		if calls := provider.RefreshCalls.Load(); calls != 1 {
			t.Errorf("expected 1 coalesced refresh, got %d", calls)
		}
	})

	t.Run("Refresh forces a round trip even when valid", func(t *testing.T) {
		provider := &tu.MockProvider{
			RefreshFunc: func(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
				return &oauth2.Token{AccessToken: "rotated", Expiry: time.Now().Add(time.Hour)}, nil
			},
		}
		session := NewSession()
		session.Write(&oauth2.Token{
			AccessToken:  "access_1",
			RefreshToken: "refresh_1",
			Expiry:       time.Now().Add(time.Hour),
		})
		manager := NewManager(session, provider, testLogger())

		if err := manager.Refresh(context.Background()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if calls := provider.RefreshCalls.Load(); calls != 1 {
			t.Errorf("expected 1 refresh call, got %d", calls)
		}

		access, _ := session.Access()
		if access != "rotated" {
			t.Errorf("expected rotated access token, got %s", access)
		}
	})

	t.Run("LoggedIn reflects validity without refreshing", func(t *testing.T) {
		provider := &tu.MockProvider{}
		session := NewSession()
		manager := NewManager(session, provider, testLogger())

		if manager.LoggedIn() {
			t.Error("expected empty session to report logged out")
		}

		session.Write(expiredToken())
		if manager.LoggedIn() {
			t.Error("expected expired session to report logged out")
		}
		if calls := provider.RefreshCalls.Load(); calls != 0 {
			t.Errorf("expected no refresh calls, got %d", calls)
		}
	})
}

func TestFlow(t *testing.T) {
	t.Run("BeginLogin", func(t *testing.T) {
		t.Run("embeds a fresh state in the authorization URL", func(t *testing.T) {
			flow := NewFlow(NewSession(), &tu.MockProvider{}, testLogger())

			authURL, state, err := flow.BeginLogin()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if state == "" {
				t.Fatal("expected a non-empty state")
			}
			if !strings.Contains(authURL, state) {
				t.Errorf("expected state %s in auth URL %s", state, authURL)
			}
		})

		t.Run("generates a distinct state per call", func(t *testing.T) {
			flow := NewFlow(NewSession(), &tu.MockProvider{}, testLogger())

			_, first, err := flow.BeginLogin()
			if err != nil {
				t.Fatal(err)
			}
			_, second, err := flow.BeginLogin()
			if err != nil {
				t.Fatal(err)
			}
			if first == second {
				t.Error("expected each login attempt to get its own state")
			}
		})
	})

	t.Run("CompleteLogin", func(t *testing.T) {
		t.Run("writes the session on success", func(t *testing.T) {
			provider := &tu.MockProvider{
				ExchangeFunc: func(ctx context.Context, code string) (*oauth2.Token, error) {
					if code != "auth_code" {
						t.Errorf("expected auth_code, got %s", code)
					}
					return &oauth2.Token{AccessToken: "access_1", RefreshToken: "refresh_1"}, nil
				},
			}
			session := NewSession()
			flow := NewFlow(session, provider, testLogger())

			err := flow.CompleteLogin(context.Background(), "auth_code", "state_1", "state_1")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !session.Valid() {
				t.Error("expected session to be valid after login")
			}
		})

		t.Run("rejects a mismatched state before exchanging", func(t *testing.T) {
			provider := &tu.MockProvider{}
			session := NewSession()
			flow := NewFlow(session, provider, testLogger())

			err := flow.CompleteLogin(context.Background(), "auth_code", "forged", "state_1")
			if !errors.Is(err, shared.ErrStateMismatch) {
				t.Fatalf("expected ErrStateMismatch, got %v", err)
			}
			if calls := provider.ExchangeCalls.Load(); calls != 0 {
				t.Errorf("expected 0 exchange calls, got %d", calls)
			}
			if session.Valid() {
				t.Error("expected session to stay empty")
			}
		})

		t.Run("rejects a missing stored state", func(t *testing.T) {
			flow := NewFlow(NewSession(), &tu.MockProvider{}, testLogger())

			err := flow.CompleteLogin(context.Background(), "auth_code", "state_1", "")
			if !errors.Is(err, shared.ErrStateMismatch) {
				t.Fatalf("expected ErrStateMismatch, got %v", err)
			}
		})

		t.Run("rejects a missing code", func(t *testing.T) {
			provider := &tu.MockProvider{}
			flow := NewFlow(NewSession(), provider, testLogger())

			err := flow.CompleteLogin(context.Background(), "", "state_1", "state_1")
			if !errors.Is(err, shared.ErrCodeExchange) {
				t.Fatalf("expected ErrCodeExchange, got %v", err)
			}
			if calls := provider.ExchangeCalls.Load(); calls != 0 {
				t.Errorf("expected 0 exchange calls, got %d", calls)
			}
		})

		t.Run("wraps exchange failures without writing the session", func(t *testing.T) {
			provider := &tu.MockProvider{
				ExchangeFunc: func(ctx context.Context, code string) (*oauth2.Token, error) {
					return nil, errors.New("invalid_grant")
				},
			}
			session := NewSession()
			flow := NewFlow(session, provider, testLogger())

			err := flow.CompleteLogin(context.Background(), "auth_code", "state_1", "state_1")
			if !errors.Is(err, shared.ErrCodeExchange) {
				t.Fatalf("expected ErrCodeExchange, got %v", err)
			}
			if session.Valid() {
				t.Error("expected session to stay empty after a failed exchange")
			}
		})
	})
}
