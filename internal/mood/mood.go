package mood

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/desertthunder/moodfm/internal/shared"
)

// Label identifies one of the five supported moods.
type Label string

const (
	Happy     Label = "happy"
	Energetic Label = "energetic"
	Chill     Label = "chill"
	Sad       Label = "sad"
	Calm      Label = "calm"
)

// Labels returns every supported label in enumeration order.
//
// The order is load-bearing: the resolver breaks score ties by taking the
// first maximal label in this order.
func Labels() []Label {
	return []Label{Happy, Energetic, Chill, Sad, Calm}
}

// Parse validates a raw string as a [Label].
func Parse(s string) (Label, error) {
	for _, label := range Labels() {
		if string(label) == s {
			return label, nil
		}
	}
	return "", fmt.Errorf("%w: %q", shared.ErrUnknownMood, s)
}

// Profile holds the audio-feature constraints and curated queries for one mood.
//
// Zero-valued float fields are treated as unset and omitted from catalog
// requests.
type Profile struct {
	Label       Label
	DisplayName string

	TargetValence      float64
	TargetEnergy       float64
	TargetDanceability float64
	TargetAcousticness float64
	MinValence         float64
	MaxValence         float64
	MinEnergy          float64
	MaxEnergy          float64
	MinTempo           float64
	MaxTempo           float64
	MinPopularity      int

	// SearchQueries are issued against the catalog's track search, phrased to
	// bias toward mainstream results.
	SearchQueries []string
	// PlaylistQueries are issued against the catalog's playlist search.
	PlaylistQueries []string
}

var profiles = map[Label]Profile{
	Happy: {
		Label:              Happy,
		DisplayName:        "Happy",
		TargetValence:      0.8,
		TargetEnergy:       0.7,
		TargetDanceability: 0.7,
		MinValence:         0.6,
		MinTempo:           100,
		MaxTempo:           140,
		MinPopularity:      50,
		SearchQueries:      []string{"happy hits", "feel good pop", "good vibes"},
		PlaylistQueries:    []string{"happy mix", "mood booster"},
	},
	Energetic: {
		Label:              Energetic,
		DisplayName:        "Energetic",
		TargetEnergy:       0.9,
		TargetDanceability: 0.8,
		MinEnergy:          0.7,
		MinTempo:           120,
		MaxTempo:           180,
		MinPopularity:      50,
		SearchQueries:      []string{"workout bangers", "high energy hits", "power hour"},
		PlaylistQueries:    []string{"workout mix", "beast mode"},
	},
	Chill: {
		Label:              Chill,
		DisplayName:        "Chill",
		TargetValence:      0.55,
		TargetEnergy:       0.35,
		TargetAcousticness: 0.5,
		MaxEnergy:          0.5,
		MaxTempo:           110,
		MinPopularity:      40,
		SearchQueries:      []string{"chill hits", "laid back grooves", "chill pop"},
		PlaylistQueries:    []string{"chill mix", "lazy sunday"},
	},
	Sad: {
		Label:              Sad,
		DisplayName:        "Sad",
		TargetValence:      0.25,
		TargetEnergy:       0.3,
		TargetAcousticness: 0.6,
		MaxValence:         0.4,
		MaxTempo:           100,
		MinPopularity:      40,
		SearchQueries:      []string{"sad songs", "heartbreak ballads", "sad hits"},
		PlaylistQueries:    []string{"sad mix", "life sucks"},
	},
	Calm: {
		Label:              Calm,
		DisplayName:        "Calm",
		TargetEnergy:       0.2,
		TargetAcousticness: 0.7,
		MaxEnergy:          0.4,
		MaxTempo:           90,
		MinPopularity:      40,
		SearchQueries:      []string{"calm acoustic", "peaceful piano", "quiet evening"},
		PlaylistQueries:    []string{"calm mix", "peaceful meditation"},
	},
}

// ProfileFor returns the immutable profile for the given label.
func ProfileFor(label Label) (Profile, error) {
	profile, ok := profiles[label]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", shared.ErrUnknownMood, label)
	}
	return profile, nil
}

// Query encodes the profile's feature constraints as catalog query parameters.
func (p Profile) Query() url.Values {
	values := url.Values{}

	set := func(key string, v float64) {
		if v > 0 {
			values.Set(key, strconv.FormatFloat(v, 'f', -1, 64))
		}
	}

	set("target_valence", p.TargetValence)
	set("target_energy", p.TargetEnergy)
	set("target_danceability", p.TargetDanceability)
	set("target_acousticness", p.TargetAcousticness)
	set("min_valence", p.MinValence)
	set("max_valence", p.MaxValence)
	set("min_energy", p.MinEnergy)
	set("max_energy", p.MaxEnergy)
	set("min_tempo", p.MinTempo)
	set("max_tempo", p.MaxTempo)

	if p.MinPopularity > 0 {
		values.Set("min_popularity", strconv.Itoa(p.MinPopularity))
	}

	return values
}
