package selector

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/moodfm/internal/models"
	"github.com/desertthunder/moodfm/internal/mood"
	"github.com/desertthunder/moodfm/internal/services"
	"github.com/desertthunder/moodfm/internal/shared"
)

// RecencyStore remembers track IDs recently surfaced per (user, mood).
// Implementations bound the cache and evict oldest entries first.
type RecencyStore interface {
	Recent(userID string, label mood.Label) ([]string, error)
	Append(userID string, label mood.Label, trackIDs []string) error
}

// Options tunes a [Selector].
type Options struct {
	ResultLimit        int   // tracks returned per selection
	PopularityFloor    int   // fallback floor when a profile sets none
	Jitter             int   // ranking jitter amplitude
	Seed               int64 // fixed rng seed; 0 seeds from the clock per call
	SeedTrackCount     int   // personal seeds fed into recommendations
	PlaylistLimit      int   // playlists pulled per curated query
	PlaylistTrackLimit int   // tracks pulled per curated playlist
}

// DefaultOptions returns the production tuning.
func DefaultOptions() Options {
	return Options{
		ResultLimit:        20,
		PopularityFloor:    40,
		Jitter:             10,
		SeedTrackCount:     3,
		PlaylistLimit:      2,
		PlaylistTrackLimit: 10,
	}
}

// Selector orchestrates retrieval strategies and ranking for one mood.
type Selector struct {
	recency RecencyStore
	logger  *log.Logger
	opts    Options
}

// New creates a Selector. Zero-valued options are backfilled from
// [DefaultOptions].
func New(recency RecencyStore, logger *log.Logger, opts Options) *Selector {
	defaults := DefaultOptions()
	if opts.ResultLimit <= 0 {
		opts.ResultLimit = defaults.ResultLimit
	}
	if opts.PopularityFloor <= 0 {
		opts.PopularityFloor = defaults.PopularityFloor
	}
	if opts.Jitter <= 0 {
		opts.Jitter = defaults.Jitter
	}
	if opts.SeedTrackCount <= 0 {
		opts.SeedTrackCount = defaults.SeedTrackCount
	}
	if opts.PlaylistLimit <= 0 {
		opts.PlaylistLimit = defaults.PlaylistLimit
	}
	if opts.PlaylistTrackLimit <= 0 {
		opts.PlaylistTrackLimit = defaults.PlaylistTrackLimit
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Selector{recency: recency, logger: logger, opts: opts}
}

// Select produces a ranked, de-duplicated track list for the given user and mood.
//
// Returns [shared.ErrNoResults] (wrapped) when every strategy comes back
// empty; it never returns an empty success.
func (s *Selector) Select(ctx context.Context, catalog services.Catalog, userID string, label mood.Label) ([]models.Track, error) {
	profile, err := mood.ProfileFor(label)
	if err != nil {
		return nil, err
	}

	recent, err := s.recency.Recent(userID, label)
	if err != nil {
		s.logger.Warn("failed to load recency cache", "user", userID, "mood", label, "error", err)
		recent = nil
	}
	recentSet := make(map[string]struct{}, len(recent))
	for _, id := range recent {
		recentSet[id] = struct{}{}
	}

	var gathered []models.Track
	for _, strat := range s.strategies() {
		tracks, err := strat.run(ctx, catalog, profile, recentSet)
		if err != nil {
			s.logger.Warn("strategy failed, continuing", "strategy", strat.name, "mood", label, "error", err)
			continue
		}
		s.logger.Debug("strategy gathered tracks", "strategy", strat.name, "count", len(tracks))
		gathered = append(gathered, tracks...)
	}

	merged := dedupe(gathered)

	fresh := merged[:0]
	for _, track := range merged {
		if _, seen := recentSet[track.ID]; !seen {
			fresh = append(fresh, track)
		}
	}

	s.rank(fresh)

	if len(fresh) > s.opts.ResultLimit {
		fresh = fresh[:s.opts.ResultLimit]
	}

	if len(fresh) == 0 {
		return nil, fmt.Errorf("%w: mood %s", shared.ErrNoResults, label)
	}

	ids := make([]string, len(fresh))
	for i, track := range fresh {
		ids[i] = track.ID
	}
	if err := s.recency.Append(userID, label, ids); err != nil {
		s.logger.Warn("failed to update recency cache", "user", userID, "mood", label, "error", err)
	}

	return fresh, nil
}

// rank sorts by popularity descending with bounded jitter added to each sort
// key, so identical inputs do not freeze into one ordering across calls.
func (s *Selector) rank(tracks []models.Track) {
	seed := s.opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	keys := make(map[string]int, len(tracks))
	for _, track := range tracks {
		keys[track.ID] = track.Popularity + rng.Intn(2*s.opts.Jitter+1) - s.opts.Jitter
	}

	sort.SliceStable(tracks, func(i, j int) bool {
		return keys[tracks[i].ID] > keys[tracks[j].ID]
	})
}

// dedupe removes duplicate catalog IDs, keeping the first occurrence.
func dedupe(tracks []models.Track) []models.Track {
	seen := make(map[string]struct{}, len(tracks))
	out := tracks[:0]
	for _, track := range tracks {
		if track.ID == "" {
			continue
		}
		if _, ok := seen[track.ID]; ok {
			continue
		}
		seen[track.ID] = struct{}{}
		out = append(out, track)
	}
	return out
}
