package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
}

// Operation phase enumeration
type Phase int

const (
	ValidateSession Phase = iota
	ResolveUser
	FetchPlaylists
	FetchTracks
)

func (p Phase) String() string {
	switch p {
	case ValidateSession:
		return "validate_session"
	case ResolveUser:
		return "resolve_user"
	case FetchPlaylists:
		return "fetch_playlists"
	case FetchTracks:
		return "fetch_tracks"
	default:
		return ""
	}
}

func validateSessionUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   ValidateSession,
		Step:    1,
		Total:   1,
		Message: "Checking Spotify session...",
	}
}

func resolveUserUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveUser,
		Step:    1,
		Total:   1,
		Message: "Resolving current user...",
	}
}

func fetchPlaylistsUpdate(fetched, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPlaylists,
		Step:    fetched,
		Total:   total,
		Message: fmt.Sprintf("Fetched %d of %d playlists...", fetched, total),
	}
}

func fetchTracksUpdate(fetched, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTracks,
		Step:    fetched,
		Total:   total,
		Message: fmt.Sprintf("Fetched %d of %d saved tracks...", fetched, total),
	}
}
