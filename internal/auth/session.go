// package auth implements the single-user token lifecycle: session storage,
// login flow, and guarded refresh.
package auth

import (
	"fmt"
	"sync"
	"time"

	"github.com/desertthunder/spx/internal/shared"
	"golang.org/x/oauth2"
)

// Session holds the token pair for the one logged-in user.
//
// It is process-wide mutable state shared by concurrent request handlers, so
// every read and write goes through the mutex. The session is created empty
// at startup, populated by [Flow.CompleteLogin], updated by [Manager] on
// refresh, and never destroyed (re-authorization overwrites it).
type Session struct {
	mu    sync.Mutex
	token *oauth2.Token
	now   func() time.Time
}

// NewSession creates an empty session using the wall clock.
func NewSession() *Session {
	return &Session{now: time.Now}
}

// NewSessionWithClock creates an empty session with an injected clock, used
// by tests to simulate token expiry.
func NewSessionWithClock(now func() time.Time) *Session {
	return &Session{now: now}
}

// Write stores a token pair, overwriting the previous one.
//
// Spotify may omit a rotated refresh token on refresh responses; in that case
// the previously stored refresh token is carried forward.
func (s *Session) Write(token *oauth2.Token) {
	if token == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := *token
	if next.RefreshToken == "" && s.token != nil {
		next.RefreshToken = s.token.RefreshToken
	}
	s.token = &next
}

// Valid reports whether the stored access token is usable right now.
//
// A token is valid when it is non-empty and its expiry (if known) is in the
// future. This is a pure read; it never triggers a refresh.
func (s *Session) Valid() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validLocked()
}

func (s *Session) validLocked() bool {
	if s.token == nil || s.token.AccessToken == "" {
		return false
	}
	if s.token.Expiry.IsZero() {
		return true
	}
	return s.now().Before(s.token.Expiry)
}

// Access returns the current access token, implementing [services.TokenReader].
func (s *Session) Access() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token == nil || s.token.AccessToken == "" {
		return "", fmt.Errorf("%w: no access token", shared.ErrNotAuthenticated)
	}
	return s.token.AccessToken, nil
}

// RefreshToken returns the stored refresh token, or "" if none.
func (s *Session) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token == nil {
		return ""
	}
	return s.token.RefreshToken
}

// Snapshot returns a copy of the stored token for status reporting, or nil
// if the session is empty.
func (s *Session) Snapshot() *oauth2.Token {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token == nil {
		return nil
	}
	copied := *s.token
	return &copied
}
