package models

// Track represents a catalog track surfaced to the listener.
//
// The catalog owns the entity; moodfm only holds transient copies for the
// duration of one request.
type Track struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Artist      string `json:"artist"`
	Album       string `json:"album"`
	URL         string `json:"url"`          // external listen/open URL
	URI         string `json:"uri"`          // provider URI form (spotify:track:...)
	DurationMS  int    `json:"duration_ms"`
	Popularity  int    `json:"popularity"` // 0-100
	Explicit    bool   `json:"explicit"`
	ReleaseDate string `json:"release_date"`
	ArtworkURL  string `json:"artwork_url,omitempty"`
}

// PlaylistRef references a playlist on the catalog.
type PlaylistRef struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	URL        string `json:"url"`
	TrackCount int    `json:"track_count"`
}

// User is the authenticated catalog user.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}
