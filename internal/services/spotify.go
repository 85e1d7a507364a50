// Spotify API implementation of [Catalog]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/desertthunder/moodfm/internal/models"
	"github.com/desertthunder/moodfm/internal/mood"
	"github.com/desertthunder/moodfm/internal/shared"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	// Spotify allows ~180 requests per rolling 30s window; stay well under it.
	requestsPerSecond = 5
)

type spotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

type spotifyExternalURLs struct {
	Spotify string `json:"spotify"`
}

type spotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type spotifyAlbum struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	ReleaseDate string         `json:"release_date"`
	Images      []spotifyImage `json:"images"`
}

type spotifyTrack struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Artists      []spotifyArtist     `json:"artists"`
	Album        spotifyAlbum        `json:"album"`
	DurationMS   int                 `json:"duration_ms"`
	Explicit     bool                `json:"explicit"`
	Popularity   int                 `json:"popularity"`
	URI          string              `json:"uri"`
	ExternalURLs spotifyExternalURLs `json:"external_urls"`
}

type spotifyPlaylist struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	URI          string              `json:"uri"`
	ExternalURLs spotifyExternalURLs `json:"external_urls"`
	Tracks       struct {
		Total int `json:"total"`
	} `json:"tracks"`
}

type spotifyUser struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// SpotifyService implements the [Catalog] interface for Spotify API interactions.
// Uses [oauth2] for authentication and rate-limits outbound requests.
type SpotifyService struct {
	config      *oauth2.Config
	tokenSource oauth2.TokenSource
	httpClient  *http.Client
	limiter     *rate.Limiter
	market      string
	baseURL     string
}

// NewSpotifyService creates a new Spotify service with the given OAuth2 credentials.
//
// Recognized keys: client_id, client_secret, redirect_uri, market.
func NewSpotifyService(credentials map[string]string) (*SpotifyService, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	redirectURI, ok := credentials["redirect_uri"]
	if !ok || redirectURI == "" {
		redirectURI = "http://localhost:8080/callback"
	}

	market, ok := credentials["market"]
	if !ok || market == "" {
		market = "US"
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes: []string{
			"user-read-private",
			"user-read-email",
			"user-top-read",
			"playlist-modify-public",
			"playlist-modify-private",
		},
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	return &SpotifyService{
		config:     config,
		httpClient: http.DefaultClient,
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
		market:     market,
		baseURL:    spotifyBaseURL,
	}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// GetAuthURL returns the OAuth2 authorization URL for user login.
func (s *SpotifyService) GetAuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// GetOAuthConfig exposes the underlying OAuth2 config for callback handling.
func (s *SpotifyService) GetOAuthConfig() *oauth2.Config {
	return s.config
}

// Exchange swaps an authorization code for a token.
func (s *SpotifyService) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: code exchange: %v", shared.ErrAuthFailed, err)
	}
	return token, nil
}

// AuthenticateToken installs an existing token. The resulting client refreshes
// the token automatically when it expires.
func (s *SpotifyService) AuthenticateToken(ctx context.Context, token *oauth2.Token) error {
	if token == nil || token.AccessToken == "" {
		return fmt.Errorf("%w: empty token", shared.ErrNotAuthenticated)
	}
	s.tokenSource = s.config.TokenSource(ctx, token)
	s.httpClient = oauth2.NewClient(ctx, s.tokenSource)
	return nil
}

// CurrentToken returns the current (possibly refreshed) token, so callers can
// persist rotations.
func (s *SpotifyService) CurrentToken() (*oauth2.Token, error) {
	if s.tokenSource == nil {
		return nil, shared.ErrNotAuthenticated
	}
	token, err := s.tokenSource.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrTokenExpired, err)
	}
	return token, nil
}

// doRequest performs a rate-limited, authenticated HTTP request to the Spotify API.
func (s *SpotifyService) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	if s.tokenSource == nil {
		return fmt.Errorf("%w: call AuthenticateToken first", shared.ErrNotAuthenticated)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", shared.ErrNotAuthenticated, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: retry-after %s", shared.ErrRateLimited, resp.Header.Get("Retry-After"))
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", shared.ErrNotFound, endpoint)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: status %d", shared.ErrCatalogUnavailable, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// CurrentUser retrieves the authenticated user's identity.
func (s *SpotifyService) CurrentUser(ctx context.Context) (*models.User, error) {
	var user spotifyUser
	if err := s.doRequest(ctx, http.MethodGet, "/me", nil, &user); err != nil {
		return nil, err
	}
	return &models.User{ID: user.ID, DisplayName: user.DisplayName}, nil
}

// TopTracks retrieves the user's top played tracks for the given window.
func (s *SpotifyService) TopTracks(ctx context.Context, window TimeWindow, limit int) ([]models.Track, error) {
	limit = clampLimit(limit)
	endpoint := fmt.Sprintf("/me/top/tracks?time_range=%s&limit=%d", window, limit)

	var response struct {
		Items []spotifyTrack `json:"items"`
	}
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, err
	}

	return mapTracks(response.Items), nil
}

// SearchTracks runs a free-text search over the track catalog.
func (s *SpotifyService) SearchTracks(ctx context.Context, query string, limit int) ([]models.Track, error) {
	limit = clampLimit(limit)
	endpoint := fmt.Sprintf("/search?q=%s&type=track&limit=%d&market=%s",
		url.QueryEscape(query), limit, s.market)

	var response struct {
		Tracks struct {
			Items []spotifyTrack `json:"items"`
		} `json:"tracks"`
	}
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, err
	}

	return mapTracks(response.Tracks.Items), nil
}

// SearchPlaylists runs a free-text search over catalog playlists.
func (s *SpotifyService) SearchPlaylists(ctx context.Context, query string, limit int) ([]models.PlaylistRef, error) {
	limit = clampLimit(limit)
	endpoint := fmt.Sprintf("/search?q=%s&type=playlist&limit=%d", url.QueryEscape(query), limit)

	var response struct {
		Playlists struct {
			Items []spotifyPlaylist `json:"items"`
		} `json:"playlists"`
	}
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, err
	}

	refs := make([]models.PlaylistRef, 0, len(response.Playlists.Items))
	for _, pl := range response.Playlists.Items {
		// The search occasionally returns null placeholder items.
		if pl.ID == "" {
			continue
		}
		refs = append(refs, mapPlaylist(pl))
	}
	return refs, nil
}

// PlaylistTracks retrieves up to limit tracks from a playlist.
func (s *SpotifyService) PlaylistTracks(ctx context.Context, playlistID string, limit int) ([]models.Track, error) {
	limit = clampLimit(limit)
	endpoint := fmt.Sprintf("/playlists/%s/tracks?limit=%d&market=%s", playlistID, limit, s.market)

	var response struct {
		Items []struct {
			Track spotifyTrack `json:"track"`
		} `json:"items"`
	}
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, err
	}

	tracks := make([]models.Track, 0, len(response.Items))
	for _, item := range response.Items {
		if item.Track.ID == "" {
			continue
		}
		tracks = append(tracks, mapTrack(item.Track))
	}
	return tracks, nil
}

// Recommend generates recommendations from seed tracks and feature constraints.
func (s *SpotifyService) Recommend(ctx context.Context, seedTrackIDs []string, profile mood.Profile, limit int) ([]models.Track, error) {
	if len(seedTrackIDs) == 0 {
		return nil, fmt.Errorf("%w: no seed tracks provided", shared.ErrInvalidInput)
	}
	if len(seedTrackIDs) > 5 {
		seedTrackIDs = seedTrackIDs[:5]
	}

	params := profile.Query()
	params.Set("seed_tracks", strings.Join(seedTrackIDs, ","))
	params.Set("limit", fmt.Sprintf("%d", clampLimit(limit)))
	params.Set("market", s.market)

	var response struct {
		Tracks []spotifyTrack `json:"tracks"`
	}
	if err := s.doRequest(ctx, http.MethodGet, "/recommendations?"+params.Encode(), nil, &response); err != nil {
		return nil, err
	}

	return mapTracks(response.Tracks), nil
}

// GetTracks retrieves full track records for the given IDs (up to 50).
func (s *SpotifyService) GetTracks(ctx context.Context, trackIDs []string) ([]models.Track, error) {
	if len(trackIDs) == 0 {
		return nil, fmt.Errorf("%w: no track IDs provided", shared.ErrInvalidInput)
	}
	if len(trackIDs) > 50 {
		trackIDs = trackIDs[:50]
	}

	endpoint := fmt.Sprintf("/tracks?ids=%s&market=%s",
		url.QueryEscape(strings.Join(trackIDs, ",")), s.market)

	var response struct {
		Tracks []spotifyTrack `json:"tracks"`
	}
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, err
	}

	return mapTracks(response.Tracks), nil
}

// CreatePlaylist creates an empty playlist on the user's account.
func (s *SpotifyService) CreatePlaylist(ctx context.Context, userID, name, description string, public bool) (*models.PlaylistRef, error) {
	if userID == "" || name == "" {
		return nil, fmt.Errorf("%w: user ID and name are required", shared.ErrInvalidInput)
	}

	body := map[string]any{
		"name":        name,
		"description": description,
		"public":      public,
	}

	var created spotifyPlaylist
	endpoint := fmt.Sprintf("/users/%s/playlists", url.PathEscape(userID))
	if err := s.doRequest(ctx, http.MethodPost, endpoint, body, &created); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrPlaylistCreate, err)
	}

	ref := mapPlaylist(created)
	return &ref, nil
}

// AddTracks inserts tracks by URI into a playlist.
func (s *SpotifyService) AddTracks(ctx context.Context, playlistID string, trackURIs []string) error {
	if playlistID == "" || len(trackURIs) == 0 {
		return fmt.Errorf("%w: playlist ID and track URIs are required", shared.ErrInvalidInput)
	}

	body := map[string]any{"uris": trackURIs}
	endpoint := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))
	if err := s.doRequest(ctx, http.MethodPost, endpoint, body, nil); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrPlaylistCreate, err)
	}
	return nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > 50 {
		return 50
	}
	return limit
}

func mapTrack(t spotifyTrack) models.Track {
	track := models.Track{
		ID:          t.ID,
		Name:        t.Name,
		Album:       t.Album.Name,
		URL:         t.ExternalURLs.Spotify,
		URI:         t.URI,
		DurationMS:  t.DurationMS,
		Popularity:  t.Popularity,
		Explicit:    t.Explicit,
		ReleaseDate: t.Album.ReleaseDate,
	}
	if len(t.Artists) > 0 {
		track.Artist = t.Artists[0].Name
	}
	if len(t.Album.Images) > 0 {
		track.ArtworkURL = t.Album.Images[0].URL
	}
	return track
}

func mapTracks(items []spotifyTrack) []models.Track {
	tracks := make([]models.Track, 0, len(items))
	for _, item := range items {
		if item.ID == "" {
			continue
		}
		tracks = append(tracks, mapTrack(item))
	}
	return tracks
}

func mapPlaylist(p spotifyPlaylist) models.PlaylistRef {
	return models.PlaylistRef{
		ID:         p.ID,
		Name:       p.Name,
		URL:        p.ExternalURLs.Spotify,
		TrackCount: p.Tracks.Total,
	}
}
