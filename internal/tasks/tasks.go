package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spx/internal/models"
	"github.com/desertthunder/spx/internal/services"
	"github.com/desertthunder/spx/internal/shared"
	"golang.org/x/time/rate"
)

// MaxPages bounds a single aggregation run. A server reporting an absurd or
// inconsistent total stops the loop instead of looping until the heat death
// of the process.
const MaxPages = 200

// DefaultRateLimit is the request pacing applied between page fetches,
// in requests per second.
const DefaultRateLimit = 5.0

// AccessGuard ensures a valid token exists before API calls are made.
// Satisfied by auth.Manager.
type AccessGuard interface {
	EnsureValid(ctx context.Context) error
}

// PlaylistFetchResult contains the fully aggregated playlist collection.
type PlaylistFetchResult struct {
	Playlists []models.Playlist // All playlists, in server order
	Total     int               // Total reported by the service
	Pages     int               // Number of page requests made
}

// TrackFetchResult contains the fully aggregated saved track collection.
type TrackFetchResult struct {
	Tracks []models.SavedTrack // All saved tracks, in server order
	Total  int                 // Total reported by the service
	Pages  int                 // Number of page requests made
}

// Engine defines the library aggregation operations.
type Engine interface {
	// AllPlaylists fetches every playlist owned by the current user by
	// walking the service's paginated listing endpoint.
	AllPlaylists(ctx context.Context, progress chan<- ProgressUpdate) (*PlaylistFetchResult, error)

	// AllSavedTracks fetches the user's entire saved track library page by page.
	AllSavedTracks(ctx context.Context, progress chan<- ProgressUpdate) (*TrackFetchResult, error)
}

// LibraryEngine implements Engine against a single music service.
//
// Each run validates the session once up front, resolves the current user
// once, then pages through the collection at the service's page size. Page
// requests are paced by a rate limiter.
type LibraryEngine struct {
	provider services.Provider
	guard    AccessGuard
	limiter  *rate.Limiter
	logger   *log.Logger
}

// NewLibraryEngine creates a LibraryEngine with the default rate limit.
func NewLibraryEngine(provider services.Provider, guard AccessGuard, logger *log.Logger) *LibraryEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &LibraryEngine{
		provider: provider,
		guard:    guard,
		limiter:  rate.NewLimiter(rate.Limit(DefaultRateLimit), 1),
		logger:   logger,
	}
}

// SetRateLimit replaces the page pacing limiter. Zero or negative disables pacing.
func (e *LibraryEngine) SetRateLimit(rps float64) {
	if rps <= 0 {
		e.limiter = rate.NewLimiter(rate.Inf, 1)
		return
	}
	e.limiter = rate.NewLimiter(rate.Limit(rps), 1)
}

func (e *LibraryEngine) AllPlaylists(ctx context.Context, progress chan<- ProgressUpdate) (*PlaylistFetchResult, error) {
	if e.provider == nil {
		return nil, fmt.Errorf("%w: service not initialized", shared.ErrServiceUnavailable)
	}
	if err := e.ensureAccess(ctx, progress); err != nil {
		return nil, err
	}

	e.sendProgress(progress, resolveUserUpdate())
	user, err := e.provider.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: resolving current user: %w", shared.ErrPageFetch, err)
	}

	result := &PlaylistFetchResult{}
	offset := 0
	for {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		page, err := e.provider.Playlists(ctx, user.ID, services.PageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("%w: playlists at offset %d: %w", shared.ErrPageFetch, offset, err)
		}
		result.Pages++
		result.Total = page.Total
		result.Playlists = append(result.Playlists, page.Items...)
		e.sendProgress(progress, fetchPlaylistsUpdate(len(result.Playlists), page.Total))

		offset += len(page.Items)
		if offset >= page.Total || len(page.Items) == 0 {
			break
		}
		if result.Pages >= MaxPages {
			e.logger.Warn("page cap reached, stopping aggregation", "pages", result.Pages, "total", page.Total)
			break
		}
	}

	e.logger.Debug("playlist fetch complete", "count", len(result.Playlists), "pages", result.Pages)
	return result, nil
}

func (e *LibraryEngine) AllSavedTracks(ctx context.Context, progress chan<- ProgressUpdate) (*TrackFetchResult, error) {
	if e.provider == nil {
		return nil, fmt.Errorf("%w: service not initialized", shared.ErrServiceUnavailable)
	}
	if err := e.ensureAccess(ctx, progress); err != nil {
		return nil, err
	}

	result := &TrackFetchResult{}
	offset := 0
	for {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		page, err := e.provider.SavedTracks(ctx, services.PageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("%w: saved tracks at offset %d: %w", shared.ErrPageFetch, offset, err)
		}
		result.Pages++
		result.Total = page.Total
		result.Tracks = append(result.Tracks, page.Items...)
		e.sendProgress(progress, fetchTracksUpdate(len(result.Tracks), page.Total))

		offset += len(page.Items)
		if offset >= page.Total || len(page.Items) == 0 {
			break
		}
		if result.Pages >= MaxPages {
			e.logger.Warn("page cap reached, stopping aggregation", "pages", result.Pages, "total", page.Total)
			break
		}
	}

	e.logger.Debug("saved track fetch complete", "count", len(result.Tracks), "pages", result.Pages)
	return result, nil
}

// ensureAccess validates the session once before a run starts. Pagination
// never re-checks mid-run, a token expiring during the loop surfaces as a
// page fetch error on the next request.
func (e *LibraryEngine) ensureAccess(ctx context.Context, progress chan<- ProgressUpdate) error {
	if e.guard == nil {
		return nil
	}
	e.sendProgress(progress, validateSessionUpdate())
	return e.guard.EnsureValid(ctx)
}

// sendProgress sends a progress update through the channel without blocking.
// If the channel is full or nil, the update is dropped.
func (e *LibraryEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
