package auth

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spx/internal/services"
	"github.com/desertthunder/spx/internal/shared"
)

// Manager is the access guard every authenticated operation passes through.
//
// EnsureValid is the single entry point: it returns immediately when the
// session holds a live token and otherwise runs the refresh grant. Concurrent
// callers that observe an expired token are coalesced onto one in-flight
// refresh; the refresh mutex serializes them and late arrivals see the
// refreshed session and return without a second network call.
type Manager struct {
	session  *Session
	provider services.Provider
	logger   *log.Logger

	refreshing sync.Mutex
}

// NewManager creates an access guard over the given session and provider.
func NewManager(session *Session, provider services.Provider, logger *log.Logger) *Manager {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Manager{session: session, provider: provider, logger: logger}
}

// Session exposes the guarded session for status reads and token access.
func (m *Manager) Session() *Session {
	return m.session
}

// LoggedIn reports session validity without side effects.
//
// Distinct from EnsureValid, which refreshes; this is the predicate behind
// the /auth/status endpoint.
func (m *Manager) LoggedIn() bool {
	return m.session.Valid()
}

// EnsureValid guarantees a usable access token or returns a typed error.
//
// Fails with [shared.ErrNotAuthenticated] when no refresh token exists (no
// network call is made) and with [shared.ErrRefreshFailed] when the refresh
// grant fails, leaving the prior session state untouched.
func (m *Manager) EnsureValid(ctx context.Context) error {
	if m.session.Valid() {
		return nil
	}

	m.refreshing.Lock()
	defer m.refreshing.Unlock()

	// Another caller may have finished the refresh while we waited.
	if m.session.Valid() {
		return nil
	}

	return m.refresh(ctx)
}

// Refresh forces a refresh-grant round trip regardless of current validity,
// backing the /auth/refresh-token endpoint.
func (m *Manager) Refresh(ctx context.Context) error {
	m.refreshing.Lock()
	defer m.refreshing.Unlock()
	return m.refresh(ctx)
}

// refresh runs a single refresh attempt. Callers hold the refreshing mutex.
func (m *Manager) refresh(ctx context.Context) error {
	refreshToken := m.session.RefreshToken()
	if refreshToken == "" {
		return fmt.Errorf("%w: no refresh token available", shared.ErrNotAuthenticated)
	}

	m.logger.Info("refreshing access token", "provider", m.provider.Name())

	token, err := m.provider.Refresh(ctx, refreshToken)
	if err != nil {
		m.logger.Warn("token refresh failed", "error", err)
		return fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
	}

	m.session.Write(token)
	m.logger.Info("access token refreshed", "expires_at", token.Expiry)
	return nil
}
