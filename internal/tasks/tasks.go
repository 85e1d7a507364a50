// package tasks implements playlist materialization on the user's catalog account.
//
// Materialization is a thin pass-through: validate input, create the playlist,
// insert the chosen tracks. Catalog failures surface as structured errors and
// are never retried.
package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/moodfm/internal/models"
	"github.com/desertthunder/moodfm/internal/mood"
	"github.com/desertthunder/moodfm/internal/services"
	"github.com/desertthunder/moodfm/internal/shared"
)

// trackURIPrefix converts catalog track IDs to the provider's URI form.
const trackURIPrefix = "spotify:track:"

// MaterializeResult describes a playlist created on the user's account.
type MaterializeResult struct {
	Playlist models.PlaylistRef
	Mood     mood.Label
	Added    int
}

// PlaylistName builds the generated playlist name embedding the mood and a
// timestamp.
func PlaylistName(profile mood.Profile, now time.Time) string {
	return fmt.Sprintf("%s Mix · %s", profile.DisplayName, now.Format("Jan 2, 2006 3:04 PM"))
}

// Materialize creates a playlist named for the mood on the user's account and
// inserts the given tracks, in order.
//
// Input is validated before any catalog call: an unknown mood or an empty
// track list returns [shared.ErrInvalidInput] (wrapped). Catalog failures are
// wrapped as [shared.ErrPlaylistCreate] and not retried.
func Materialize(ctx context.Context, catalog services.Catalog, label mood.Label, trackIDs []string) (*MaterializeResult, error) {
	profile, err := mood.ProfileFor(label)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	if len(trackIDs) == 0 {
		return nil, fmt.Errorf("%w: no tracks selected", shared.ErrInvalidInput)
	}

	user, err := catalog.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrPlaylistCreate, err)
	}

	name := PlaylistName(profile, time.Now())
	description := fmt.Sprintf("A %s playlist generated by moodfm", profile.Label)

	ref, err := catalog.CreatePlaylist(ctx, user.ID, name, description, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrPlaylistCreate, err)
	}

	uris := make([]string, len(trackIDs))
	for i, id := range trackIDs {
		uris[i] = trackURIPrefix + id
	}

	if err := catalog.AddTracks(ctx, ref.ID, uris); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrPlaylistCreate, err)
	}

	return &MaterializeResult{
		Playlist: *ref,
		Mood:     label,
		Added:    len(trackIDs),
	}, nil
}
