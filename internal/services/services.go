// package services defines interface Catalog for interacting with the remote music catalog over HTTP.
package services

import (
	"context"

	"github.com/desertthunder/moodfm/internal/models"
	"github.com/desertthunder/moodfm/internal/mood"
)

// TimeWindow selects the historical window for top-played track lookups.
type TimeWindow string

const (
	ShortTerm  TimeWindow = "short_term"  // ~4 weeks
	MediumTerm TimeWindow = "medium_term" // ~6 months
	LongTerm   TimeWindow = "long_term"   // several years
)

// TimeWindows returns every supported window, shortest first.
func TimeWindows() []TimeWindow {
	return []TimeWindow{ShortTerm, MediumTerm, LongTerm}
}

// Catalog defines the capability set moodfm consumes from the remote music catalog.
type Catalog interface {
	// CurrentUser retrieves the authenticated user's identity.
	CurrentUser(ctx context.Context) (*models.User, error)

	// TopTracks retrieves the user's most played tracks over the given window.
	TopTracks(ctx context.Context, window TimeWindow, limit int) ([]models.Track, error)

	// SearchTracks runs a free-text search over the track catalog.
	SearchTracks(ctx context.Context, query string, limit int) ([]models.Track, error)

	// SearchPlaylists runs a free-text search over catalog playlists.
	SearchPlaylists(ctx context.Context, query string, limit int) ([]models.PlaylistRef, error)

	// PlaylistTracks retrieves up to limit tracks from a catalog playlist.
	PlaylistTracks(ctx context.Context, playlistID string, limit int) ([]models.Track, error)

	// Recommend generates recommended tracks from seed tracks and the
	// profile's audio-feature constraints.
	Recommend(ctx context.Context, seedTrackIDs []string, profile mood.Profile, limit int) ([]models.Track, error)

	// GetTracks retrieves full track records for the given catalog IDs.
	GetTracks(ctx context.Context, trackIDs []string) ([]models.Track, error)

	// CreatePlaylist creates an empty playlist on the user's account.
	CreatePlaylist(ctx context.Context, userID, name, description string, public bool) (*models.PlaylistRef, error)

	// AddTracks inserts tracks, given in the catalog's URI form, into a playlist.
	AddTracks(ctx context.Context, playlistID string, trackURIs []string) error

	// Name returns the provider name (e.g. "Spotify").
	Name() string
}
