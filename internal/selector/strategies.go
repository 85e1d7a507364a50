package selector

import (
	"context"
	"fmt"

	"github.com/desertthunder/moodfm/internal/models"
	"github.com/desertthunder/moodfm/internal/mood"
	"github.com/desertthunder/moodfm/internal/services"
)

type strategy struct {
	name string
	run  func(ctx context.Context, catalog services.Catalog, profile mood.Profile, recent map[string]struct{}) ([]models.Track, error)
}

func (s *Selector) strategies() []strategy {
	return []strategy{
		{name: "personal_seed", run: s.personalSeed},
		{name: "keyword_search", run: s.keywordSearch},
		{name: "curated_playlists", run: s.curatedPlaylists},
	}
}

// floor returns the popularity floor in effect for the profile.
func (s *Selector) floor(profile mood.Profile) int {
	if profile.MinPopularity > 0 {
		return profile.MinPopularity
	}
	return s.opts.PopularityFloor
}

// personalSeed feeds the user's top-played tracks into the catalog's
// recommendation engine, constrained by the mood profile.
//
// Candidates come from every historical window; low-popularity tracks and
// tracks the user saw recently are not used as seeds.
func (s *Selector) personalSeed(ctx context.Context, catalog services.Catalog, profile mood.Profile, recent map[string]struct{}) ([]models.Track, error) {
	floor := s.floor(profile)

	var seeds []string
	for _, window := range services.TimeWindows() {
		if len(seeds) >= s.opts.SeedTrackCount {
			break
		}

		top, err := catalog.TopTracks(ctx, window, 20)
		if err != nil {
			s.logger.Debug("top tracks window failed", "window", window, "error", err)
			continue
		}

		for _, track := range top {
			if len(seeds) >= s.opts.SeedTrackCount {
				break
			}
			if track.Popularity < floor {
				continue
			}
			if _, seen := recent[track.ID]; seen {
				continue
			}
			if containsID(seeds, track.ID) {
				continue
			}
			seeds = append(seeds, track.ID)
		}
	}

	if len(seeds) == 0 {
		return nil, fmt.Errorf("no usable seed tracks")
	}

	return catalog.Recommend(ctx, seeds, profile, s.opts.ResultLimit)
}

// keywordSearch issues the profile's curated track search queries.
func (s *Selector) keywordSearch(ctx context.Context, catalog services.Catalog, profile mood.Profile, _ map[string]struct{}) ([]models.Track, error) {
	floor := s.floor(profile)

	var gathered []models.Track
	var lastErr error
	for _, query := range profile.SearchQueries {
		tracks, err := catalog.SearchTracks(ctx, query, s.opts.ResultLimit)
		if err != nil {
			s.logger.Debug("track search failed", "query", query, "error", err)
			lastErr = err
			continue
		}
		for _, track := range tracks {
			if track.Popularity >= floor {
				gathered = append(gathered, track)
			}
		}
	}

	if len(gathered) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return gathered, nil
}

// curatedPlaylists searches catalog playlists named for the mood and pulls a
// bounded number of tracks from each.
func (s *Selector) curatedPlaylists(ctx context.Context, catalog services.Catalog, profile mood.Profile, _ map[string]struct{}) ([]models.Track, error) {
	floor := s.floor(profile)

	var gathered []models.Track
	var lastErr error
	for _, query := range profile.PlaylistQueries {
		refs, err := catalog.SearchPlaylists(ctx, query, s.opts.PlaylistLimit)
		if err != nil {
			s.logger.Debug("playlist search failed", "query", query, "error", err)
			lastErr = err
			continue
		}

		for _, ref := range refs {
			tracks, err := catalog.PlaylistTracks(ctx, ref.ID, s.opts.PlaylistTrackLimit)
			if err != nil {
				s.logger.Debug("playlist pull failed", "playlist", ref.ID, "error", err)
				lastErr = err
				continue
			}
			for _, track := range tracks {
				if track.Popularity >= floor {
					gathered = append(gathered, track)
				}
			}
		}
	}

	if len(gathered) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return gathered, nil
}

func containsID(ids []string, id string) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}
