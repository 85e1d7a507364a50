// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/desertthunder/moodfm/internal/models"
	"github.com/desertthunder/moodfm/internal/mood"
	"github.com/desertthunder/moodfm/internal/services"
)

// MockCatalog is a test double for [services.Catalog].
//
// Each operation delegates to the corresponding function field when set and
// returns empty results otherwise. Calls records every operation invoked, in
// order.
type MockCatalog struct {
	mu    sync.Mutex
	Calls []string

	CurrentUserFn     func(ctx context.Context) (*models.User, error)
	TopTracksFn       func(ctx context.Context, window services.TimeWindow, limit int) ([]models.Track, error)
	SearchTracksFn    func(ctx context.Context, query string, limit int) ([]models.Track, error)
	SearchPlaylistsFn func(ctx context.Context, query string, limit int) ([]models.PlaylistRef, error)
	PlaylistTracksFn  func(ctx context.Context, playlistID string, limit int) ([]models.Track, error)
	RecommendFn       func(ctx context.Context, seedTrackIDs []string, profile mood.Profile, limit int) ([]models.Track, error)
	GetTracksFn       func(ctx context.Context, trackIDs []string) ([]models.Track, error)
	CreatePlaylistFn  func(ctx context.Context, userID, name, description string, public bool) (*models.PlaylistRef, error)
	AddTracksFn       func(ctx context.Context, playlistID string, trackURIs []string) error
}

func (m *MockCatalog) record(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, op)
}

// Called reports how many times the named operation ran.
func (m *MockCatalog) Called(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, call := range m.Calls {
		if call == op {
			count++
		}
	}
	return count
}

func (m *MockCatalog) CurrentUser(ctx context.Context) (*models.User, error) {
	m.record("CurrentUser")
	if m.CurrentUserFn != nil {
		return m.CurrentUserFn(ctx)
	}
	return &models.User{ID: "mock-user", DisplayName: "Mock User"}, nil
}

func (m *MockCatalog) TopTracks(ctx context.Context, window services.TimeWindow, limit int) ([]models.Track, error) {
	m.record("TopTracks")
	if m.TopTracksFn != nil {
		return m.TopTracksFn(ctx, window, limit)
	}
	return nil, nil
}

func (m *MockCatalog) SearchTracks(ctx context.Context, query string, limit int) ([]models.Track, error) {
	m.record("SearchTracks")
	if m.SearchTracksFn != nil {
		return m.SearchTracksFn(ctx, query, limit)
	}
	return nil, nil
}

func (m *MockCatalog) SearchPlaylists(ctx context.Context, query string, limit int) ([]models.PlaylistRef, error) {
	m.record("SearchPlaylists")
	if m.SearchPlaylistsFn != nil {
		return m.SearchPlaylistsFn(ctx, query, limit)
	}
	return nil, nil
}

func (m *MockCatalog) PlaylistTracks(ctx context.Context, playlistID string, limit int) ([]models.Track, error) {
	m.record("PlaylistTracks")
	if m.PlaylistTracksFn != nil {
		return m.PlaylistTracksFn(ctx, playlistID, limit)
	}
	return nil, nil
}

func (m *MockCatalog) Recommend(ctx context.Context, seedTrackIDs []string, profile mood.Profile, limit int) ([]models.Track, error) {
	m.record("Recommend")
	if m.RecommendFn != nil {
		return m.RecommendFn(ctx, seedTrackIDs, profile, limit)
	}
	return nil, nil
}

func (m *MockCatalog) GetTracks(ctx context.Context, trackIDs []string) ([]models.Track, error) {
	m.record("GetTracks")
	if m.GetTracksFn != nil {
		return m.GetTracksFn(ctx, trackIDs)
	}
	return nil, nil
}

func (m *MockCatalog) CreatePlaylist(ctx context.Context, userID, name, description string, public bool) (*models.PlaylistRef, error) {
	m.record("CreatePlaylist")
	if m.CreatePlaylistFn != nil {
		return m.CreatePlaylistFn(ctx, userID, name, description, public)
	}
	return &models.PlaylistRef{ID: "mock-playlist", Name: name, URL: "https://open.spotify.com/playlist/mock-playlist"}, nil
}

func (m *MockCatalog) AddTracks(ctx context.Context, playlistID string, trackURIs []string) error {
	m.record("AddTracks")
	if m.AddTracksFn != nil {
		return m.AddTracksFn(ctx, playlistID, trackURIs)
	}
	return nil
}

func (m *MockCatalog) Name() string { return "mock" }

// MemoryRecency is an in-memory recency store bounded to Limit entries per
// (user, mood).
type MemoryRecency struct {
	mu      sync.Mutex
	Limit   int
	entries map[string][]string
}

func NewMemoryRecency(limit int) *MemoryRecency {
	return &MemoryRecency{Limit: limit, entries: make(map[string][]string)}
}

func (r *MemoryRecency) key(userID string, label mood.Label) string {
	return userID + "|" + string(label)
}

func (r *MemoryRecency) Recent(userID string, label mood.Label) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.entries[r.key(userID, label)]...), nil
}

func (r *MemoryRecency) Append(userID string, label mood.Label, trackIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := r.key(userID, label)
	entries := append(r.entries[key], trackIDs...)
	if r.Limit > 0 && len(entries) > r.Limit {
		entries = entries[len(entries)-r.Limit:]
	}
	r.entries[key] = entries
	return nil
}

// FailingRecency returns the given error from every operation.
type FailingRecency struct{ Err error }

func (r *FailingRecency) Recent(string, mood.Label) ([]string, error) { return nil, r.Err }
func (r *FailingRecency) Append(string, mood.Label, []string) error   { return r.Err }

// MockRoundTripper allows custom HTTP responses for testing.
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// ErrCatalogDown is a convenience error for simulating catalog outages.
var ErrCatalogDown = errors.New("catalog down")
