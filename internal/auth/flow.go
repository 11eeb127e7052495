package auth

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spx/internal/services"
	"github.com/desertthunder/spx/internal/shared"
)

// StateTTLSeconds is how long an unused authorization state (and its cookie)
// stays valid after login initiation.
const StateTTLSeconds = 600

// Flow runs the OAuth2 authorization-code round trip and populates the session.
type Flow struct {
	session  *Session
	provider services.Provider
	logger   *log.Logger
}

// NewFlow creates an authorization flow writing into the given session.
func NewFlow(session *Session, provider services.Provider, logger *log.Logger) *Flow {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Flow{session: session, provider: provider, logger: logger}
}

// BeginLogin generates a fresh CSRF state and builds the authorization URL.
//
// The caller is responsible for persisting the state (cookie with
// [StateTTLSeconds] max-age) so the callback can verify it.
func (f *Flow) BeginLogin() (authURL, state string, err error) {
	state, err = shared.GenerateState()
	if err != nil {
		return "", "", err
	}

	authURL, err = f.provider.AuthURL(state)
	if err != nil {
		return "", "", err
	}

	f.logger.Info("generated authorization URL", "provider", f.provider.Name(), "state", state)
	return authURL, state, nil
}

// CompleteLogin verifies the returned state and exchanges the code for tokens.
//
// A missing or mismatched state fails with [shared.ErrStateMismatch] before
// any token exchange. The authorization code is single-use, so exchange
// failures ([shared.ErrCodeExchange]) are not retried; the session is only
// written on success.
func (f *Flow) CompleteLogin(ctx context.Context, code, returnedState, storedState string) error {
	if storedState == "" || returnedState == "" || returnedState != storedState {
		return fmt.Errorf("%w: possible CSRF attack", shared.ErrStateMismatch)
	}

	if code == "" {
		return fmt.Errorf("%w: missing authorization code", shared.ErrCodeExchange)
	}

	token, err := f.provider.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrCodeExchange, err)
	}

	f.session.Write(token)
	f.logger.Info("authorization complete", "provider", f.provider.Name(), "expires_at", token.Expiry)
	return nil
}
