// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"os"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/desertthunder/spx/internal/models"
	"github.com/desertthunder/spx/internal/services"
	"golang.org/x/oauth2"
)

// MockProvider is a test double for [services.Provider].
//
// Behavior is injected through function fields; call counters are atomic so
// concurrency tests can assert on them.
type MockProvider struct {
	AuthURLFunc     func(state string) (string, error)
	ExchangeFunc    func(ctx context.Context, code string) (*oauth2.Token, error)
	RefreshFunc     func(ctx context.Context, refreshToken string) (*oauth2.Token, error)
	CurrentUserFunc func(ctx context.Context) (*services.User, error)
	PlaylistsFunc   func(ctx context.Context, userID string, limit, offset int) (*services.Page[models.Playlist], error)
	SavedTracksFunc func(ctx context.Context, limit, offset int) (*services.Page[models.SavedTrack], error)

	ExchangeCalls    atomic.Int64
	RefreshCalls     atomic.Int64
	CurrentUserCalls atomic.Int64
	PlaylistCalls    atomic.Int64
	SavedTrackCalls  atomic.Int64
}

var _ services.Provider = (*MockProvider)(nil)

func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) AuthURL(state string) (string, error) {
	if m.AuthURLFunc != nil {
		return m.AuthURLFunc(state)
	}
	return "https://accounts.example.com/authorize?state=" + state, nil
}

func (m *MockProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	m.ExchangeCalls.Add(1)
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, code)
	}
	return nil, errors.New("exchange not configured")
}

func (m *MockProvider) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	m.RefreshCalls.Add(1)
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, refreshToken)
	}
	return nil, errors.New("refresh not configured")
}

func (m *MockProvider) CurrentUser(ctx context.Context) (*services.User, error) {
	m.CurrentUserCalls.Add(1)
	if m.CurrentUserFunc != nil {
		return m.CurrentUserFunc(ctx)
	}
	return &services.User{ID: "mock_user"}, nil
}

func (m *MockProvider) Playlists(ctx context.Context, userID string, limit, offset int) (*services.Page[models.Playlist], error) {
	m.PlaylistCalls.Add(1)
	if m.PlaylistsFunc != nil {
		return m.PlaylistsFunc(ctx, userID, limit, offset)
	}
	return &services.Page[models.Playlist]{}, nil
}

func (m *MockProvider) SavedTracks(ctx context.Context, limit, offset int) (*services.Page[models.SavedTrack], error) {
	m.SavedTrackCalls.Add(1)
	if m.SavedTracksFunc != nil {
		return m.SavedTracksFunc(ctx, limit, offset)
	}
	return &services.Page[models.SavedTrack]{}, nil
}

// PlaylistPages builds a deterministic paged playlist collection of the given
// total size, for fetcher tests.
func PlaylistPages(total int) func(ctx context.Context, userID string, limit, offset int) (*services.Page[models.Playlist], error) {
	return func(ctx context.Context, userID string, limit, offset int) (*services.Page[models.Playlist], error) {
		page := &services.Page[models.Playlist]{Total: total, Limit: limit, Offset: offset}
		for i := offset; i < total && i < offset+limit; i++ {
			page.Items = append(page.Items, models.Playlist{
				ID:   strconv.Itoa(i),
				Name: "Playlist " + strconv.Itoa(i),
			})
		}
		return page, nil
	}
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// AssertFileExists fails the test when path does not point at a file.
func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

// MustReadFile reads path, failing the test on any error.
func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
