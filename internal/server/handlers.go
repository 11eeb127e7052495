package server

import (
	_ "embed"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spx/internal/auth"
	"github.com/desertthunder/spx/internal/shared"
	"github.com/desertthunder/spx/internal/tasks"
)

//go:embed index.html
var indexPage []byte

// StateCookieName is the cookie carrying the CSRF state between the login
// redirect and the provider callback.
const StateCookieName = "auth_state"

// AuthHandler serves the browser-facing OAuth flow and session endpoints.
type AuthHandler struct {
	flow    *auth.Flow
	manager *auth.Manager
	logger  *log.Logger
}

func NewAuthHandler(flow *auth.Flow, manager *auth.Manager, logger *log.Logger) *AuthHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &AuthHandler{flow: flow, manager: manager, logger: logger}
}

func (h *AuthHandler) Routes() []string {
	return []string{
		"/login/spotify",
		"/login/spotify/callback",
		"/auth/status",
		"/auth/refresh-token",
	}
}

func (h *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/login/spotify":
		h.login(w, r)
	case "/login/spotify/callback":
		h.callback(w, r)
	case "/auth/status":
		h.status(w, r)
	case "/auth/refresh-token":
		h.refresh(w, r)
	default:
		http.NotFound(w, r)
	}
}

// login starts the authorization code flow. The generated state rides in an
// HttpOnly cookie so the callback can verify it against the provider's echo.
func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	authURL, state, err := h.flow.BeginLogin()
	if err != nil {
		h.logger.Error("failed to build authorization url", "error", err)
		writeError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     StateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   auth.StateTTLSeconds,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, authURL, http.StatusFound)
}

// callback completes the flow. The state cookie is cleared on every path,
// success or failure, so a stale state can never satisfy a later callback.
func (h *AuthHandler) callback(w http.ResponseWriter, r *http.Request) {
	storedState := ""
	if cookie, err := r.Cookie(StateCookieName); err == nil {
		storedState = cookie.Value
	}

	http.SetCookie(w, &http.Cookie{
		Name:     StateCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})

	code := r.URL.Query().Get("code")
	returnedState := r.URL.Query().Get("state")
	if err := h.flow.CompleteLogin(r.Context(), code, returnedState, storedState); err != nil {
		h.logger.Error("login failed", "error", err)
		writeError(w, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *AuthHandler) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"loggedIn": h.manager.LoggedIn()})
}

// refresh forces a token refresh regardless of expiry.
func (h *AuthHandler) refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.manager.Refresh(r.Context()); err != nil {
		h.logger.Error("refresh failed", "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "refreshed"})
}

// LibraryHandler serves aggregated library collections.
type LibraryHandler struct {
	engine tasks.Engine
	logger *log.Logger
}

func NewLibraryHandler(engine tasks.Engine, logger *log.Logger) *LibraryHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &LibraryHandler{engine: engine, logger: logger}
}

func (h *LibraryHandler) Routes() []string {
	return []string{"/playlists", "/tracks"}
}

func (h *LibraryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/playlists":
		h.playlists(w, r)
	case "/tracks":
		h.tracks(w, r)
	default:
		http.NotFound(w, r)
	}
}

// playlists returns the names of every playlist in the user's collection,
// aggregated across however many pages the service reports. The response
// carries names only; clients wanting full records use the CLI export path.
func (h *LibraryHandler) playlists(w http.ResponseWriter, r *http.Request) {
	result, err := h.engine.AllPlaylists(r.Context(), nil)
	if err != nil {
		h.logger.Error("playlist aggregation failed", "error", err)
		writeError(w, err)
		return
	}

	names := make([]string, 0, len(result.Playlists))
	for _, playlist := range result.Playlists {
		names = append(names, playlist.Name)
	}
	writeJSON(w, http.StatusOK, map[string]any{"playlists": names})
}

func (h *LibraryHandler) tracks(w http.ResponseWriter, r *http.Request) {
	result, err := h.engine.AllSavedTracks(r.Context(), nil)
	if err != nil {
		h.logger.Error("saved track aggregation failed", "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tracks": result.Tracks})
}

// IndexHandler serves the landing page.
type IndexHandler struct{}

func (h *IndexHandler) Routes() []string { return []string{"/"} }

func (h *IndexHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(indexPage)
}

// New assembles the full application router with logging and panic recovery.
// Each handler group logs under its own component tag.
func New(flow *auth.Flow, manager *auth.Manager, engine tasks.Engine, logger *log.Logger) *BasicRouter {
	router := NewBasicRouter()
	router.Use(RequestLogger(logger), Recoverer(logger))
	router.Handler(&IndexHandler{})
	router.Handler(NewAuthHandler(flow, manager, shared.WithLogger(logger, "component", "auth")))
	router.Handler(NewLibraryHandler(engine, shared.WithLogger(logger, "component", "library")))
	return router
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps domain errors onto HTTP statuses and writes a JSON error body.
//
// State mismatches are client errors, missing or unrefreshable sessions are
// authentication errors, and everything else is a server error.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, shared.ErrStateMismatch), errors.Is(err, shared.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, shared.ErrNotAuthenticated), errors.Is(err, shared.ErrRefreshFailed):
		status = http.StatusUnauthorized
	case errors.Is(err, shared.ErrServiceUnavailable):
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
