package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"github.com/desertthunder/moodfm/internal/models"
	"github.com/desertthunder/moodfm/internal/repositories"
	"github.com/desertthunder/moodfm/internal/services"
	"github.com/desertthunder/moodfm/internal/shared"
	mocks "github.com/desertthunder/moodfm/internal/testing"
)

// stubAuth implements AuthProvider without touching the network.
type stubAuth struct {
	token *oauth2.Token
	err   error
}

func (s *stubAuth) GetAuthURL(state string) string {
	return "https://accounts.example.com/authorize?state=" + state
}

func (s *stubAuth) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.token, nil
}

func testToken() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(time.Hour),
	}
}

func testConfig() *shared.Config {
	config := shared.DefaultConfig()
	config.Credentials.Spotify.ClientID = "test-client"
	config.Credentials.Spotify.ClientSecret = "test-secret"
	return config
}

type testApp struct {
	app     *App
	db      *sql.DB
	catalog *mocks.MockCatalog
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	app, err := NewApp(testConfig(), shared.NewLogger(io.Discard), db)
	if err != nil {
		t.Fatalf("failed to build app: %v", err)
	}

	catalog := &mocks.MockCatalog{}
	app.SetCatalogFactory(func(ctx context.Context, token *oauth2.Token) (services.Catalog, TokenFunc, error) {
		return catalog, nil, nil
	})
	app.SetAuthProvider(&stubAuth{token: testToken()})

	return &testApp{app: app, db: db, catalog: catalog}
}

// login persists a session and returns its cookie.
func (ta *testApp) login(t *testing.T) *http.Cookie {
	t.Helper()

	session := models.NewSession("user123", "Test Listener", testToken())
	if err := repositories.NewSessionRepository(ta.db).Create(session); err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	return &http.Cookie{Name: sessionCookie, Value: session.ID()}
}

func (ta *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	ta.app.Router().ServeHTTP(recorder, req)
	return recorder
}

func catalogTracks(ids ...string) []models.Track {
	tracks := make([]models.Track, len(ids))
	for i, id := range ids {
		tracks[i] = models.Track{
			ID:         id,
			Name:       "Track " + id,
			Artist:     "Artist " + id,
			Album:      "Album " + id,
			URL:        "https://open.spotify.com/track/" + id,
			Popularity: 80,
		}
	}
	return tracks
}

func TestIndex(t *testing.T) {
	t.Run("renders login page without a session", func(t *testing.T) {
		ta := newTestApp(t)

		resp := ta.do(httptest.NewRequest(http.MethodGet, "/", nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.Code)
		}
		if !strings.Contains(resp.Body.String(), "Connect Spotify") {
			t.Error("expected login page with connect link")
		}
	})

	t.Run("renders mood picker with a session", func(t *testing.T) {
		ta := newTestApp(t)
		cookie := ta.login(t)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(cookie)
		resp := ta.do(req)

		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.Code)
		}
		body := resp.Body.String()
		if !strings.Contains(body, "Test Listener") {
			t.Error("expected display name in page")
		}
		for _, name := range []string{"Happy", "Energetic", "Chill", "Sad", "Calm"} {
			if !strings.Contains(body, name) {
				t.Errorf("expected mood option %q in page", name)
			}
		}
	})

	t.Run("renders login page again when the cookie is stale", func(t *testing.T) {
		ta := newTestApp(t)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "gone"})
		resp := ta.do(req)

		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.Code)
		}
		if !strings.Contains(resp.Body.String(), "Connect Spotify") {
			t.Error("expected login page for stale session")
		}
	})
}

func TestLogin(t *testing.T) {
	ta := newTestApp(t)

	resp := ta.do(httptest.NewRequest(http.MethodGet, "/login", nil))
	if resp.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", resp.Code)
	}

	location := resp.Header().Get("Location")
	if !strings.HasPrefix(location, "https://accounts.example.com/authorize") {
		t.Errorf("expected redirect to consent page, got %q", location)
	}

	var state string
	for _, cookie := range resp.Result().Cookies() {
		if cookie.Name == stateCookie {
			state = cookie.Value
		}
	}
	if state == "" {
		t.Fatal("expected state cookie to be set")
	}
	if !strings.Contains(location, "state="+state) {
		t.Error("expected redirect URL to carry the cookie state")
	}
}

func TestCallback(t *testing.T) {
	t.Run("creates a session and redirects home", func(t *testing.T) {
		ta := newTestApp(t)
		ta.catalog.CurrentUserFn = func(context.Context) (*models.User, error) {
			return &models.User{ID: "user123", DisplayName: "Test Listener"}, nil
		}

		req := httptest.NewRequest(http.MethodGet, "/callback?state=abc&code=authcode", nil)
		req.AddCookie(&http.Cookie{Name: stateCookie, Value: "abc"})
		resp := ta.do(req)

		if resp.Code != http.StatusFound {
			t.Fatalf("expected 302, got %d: %s", resp.Code, resp.Body.String())
		}

		var sessionID string
		for _, cookie := range resp.Result().Cookies() {
			if cookie.Name == sessionCookie {
				sessionID = cookie.Value
			}
		}
		if sessionID == "" {
			t.Fatal("expected session cookie to be set")
		}

		session, err := repositories.NewSessionRepository(ta.db).Get(sessionID)
		if err != nil {
			t.Fatalf("expected persisted session: %v", err)
		}
		if session.UserID() != "user123" {
			t.Errorf("expected session for user123, got %q", session.UserID())
		}
		if session.Token().AccessToken != "access-token" {
			t.Error("expected exchanged token on session")
		}
	})

	t.Run("rejects state mismatch", func(t *testing.T) {
		ta := newTestApp(t)

		req := httptest.NewRequest(http.MethodGet, "/callback?state=evil&code=authcode", nil)
		req.AddCookie(&http.Cookie{Name: stateCookie, Value: "abc"})
		resp := ta.do(req)

		if resp.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", resp.Code)
		}
	})

	t.Run("rejects missing state cookie", func(t *testing.T) {
		ta := newTestApp(t)

		resp := ta.do(httptest.NewRequest(http.MethodGet, "/callback?state=abc&code=authcode", nil))
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", resp.Code)
		}
	})

	t.Run("surfaces provider denial", func(t *testing.T) {
		ta := newTestApp(t)

		resp := ta.do(httptest.NewRequest(http.MethodGet, "/callback?error=access_denied", nil))
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", resp.Code)
		}
	})

	t.Run("rejects missing code", func(t *testing.T) {
		ta := newTestApp(t)

		req := httptest.NewRequest(http.MethodGet, "/callback?state=abc", nil)
		req.AddCookie(&http.Cookie{Name: stateCookie, Value: "abc"})
		resp := ta.do(req)

		if resp.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", resp.Code)
		}
	})
}

func TestGeneratePlaylist(t *testing.T) {
	t.Run("renders tracks for an explicit mood", func(t *testing.T) {
		ta := newTestApp(t)
		cookie := ta.login(t)
		ta.catalog.SearchTracksFn = func(_ context.Context, query string, limit int) ([]models.Track, error) {
			return catalogTracks("t1", "t2", "t3"), nil
		}

		req := httptest.NewRequest(http.MethodGet, "/generate_playlist?mood=happy", nil)
		req.AddCookie(cookie)
		resp := ta.do(req)

		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
		}
		body := resp.Body.String()
		if !strings.Contains(body, "Happy Mix") {
			t.Error("expected mood name heading")
		}
		if !strings.Contains(body, "Track t1") {
			t.Error("expected selected tracks in page")
		}
	})

	t.Run("accepts form posts with free text", func(t *testing.T) {
		ta := newTestApp(t)
		cookie := ta.login(t)
		ta.catalog.SearchTracksFn = func(_ context.Context, query string, limit int) ([]models.Track, error) {
			return catalogTracks("t1"), nil
		}

		form := strings.NewReader("mood_text=feeling+good+today")
		req := httptest.NewRequest(http.MethodPost, "/generate_playlist", form)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.AddCookie(cookie)
		resp := ta.do(req)

		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
		}
		if !strings.Contains(resp.Body.String(), "Happy Mix") {
			t.Error("expected free text to resolve to happy")
		}
	})

	t.Run("rejects requests with no mood input", func(t *testing.T) {
		ta := newTestApp(t)
		cookie := ta.login(t)

		req := httptest.NewRequest(http.MethodGet, "/generate_playlist", nil)
		req.AddCookie(cookie)
		resp := ta.do(req)

		if resp.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", resp.Code)
		}
		if ta.catalog.Called("SearchTracks") != 0 {
			t.Error("expected no catalog calls for invalid input")
		}
	})

	t.Run("returns 500 when no tracks can be found", func(t *testing.T) {
		ta := newTestApp(t)
		cookie := ta.login(t)

		req := httptest.NewRequest(http.MethodGet, "/generate_playlist?mood=chill", nil)
		req.AddCookie(cookie)
		resp := ta.do(req)

		if resp.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", resp.Code)
		}
	})

	t.Run("redirects to login without a session", func(t *testing.T) {
		ta := newTestApp(t)

		resp := ta.do(httptest.NewRequest(http.MethodGet, "/generate_playlist?mood=happy", nil))
		if resp.Code != http.StatusFound {
			t.Fatalf("expected 302, got %d", resp.Code)
		}
		if resp.Header().Get("Location") != "/" {
			t.Errorf("expected redirect to /, got %q", resp.Header().Get("Location"))
		}
	})
}

func TestCreateSpotifyPlaylist(t *testing.T) {
	t.Run("creates a playlist and returns its URL", func(t *testing.T) {
		ta := newTestApp(t)
		cookie := ta.login(t)

		payload := `{"mood":"happy","track_ids":["t1","t2"]}`
		req := httptest.NewRequest(http.MethodPost, "/create_spotify_playlist", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		req.AddCookie(cookie)
		resp := ta.do(req)

		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
		}

		var body map[string]any
		if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if body["success"] != true {
			t.Errorf("expected success, got %v", body)
		}
		if body["playlist_url"] != "https://open.spotify.com/playlist/mock-playlist" {
			t.Errorf("unexpected playlist URL %v", body["playlist_url"])
		}
		if ta.catalog.Called("AddTracks") != 1 {
			t.Error("expected tracks to be added")
		}
	})

	t.Run("rejects empty track list", func(t *testing.T) {
		ta := newTestApp(t)
		cookie := ta.login(t)

		payload := `{"mood":"happy","track_ids":[]}`
		req := httptest.NewRequest(http.MethodPost, "/create_spotify_playlist", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		req.AddCookie(cookie)
		resp := ta.do(req)

		if resp.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", resp.Code)
		}
		if ta.catalog.Called("CreatePlaylist") != 0 {
			t.Error("expected no playlist creation for empty selection")
		}
	})

	t.Run("requires authentication", func(t *testing.T) {
		ta := newTestApp(t)

		payload := `{"mood":"happy","track_ids":["t1"]}`
		req := httptest.NewRequest(http.MethodPost, "/create_spotify_playlist", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		resp := ta.do(req)

		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", resp.Code)
		}
	})

	t.Run("maps catalog failure to bad gateway", func(t *testing.T) {
		ta := newTestApp(t)
		cookie := ta.login(t)
		ta.catalog.CreatePlaylistFn = func(context.Context, string, string, string, bool) (*models.PlaylistRef, error) {
			return nil, mocks.ErrCatalogDown
		}

		payload := `{"mood":"happy","track_ids":["t1"]}`
		req := httptest.NewRequest(http.MethodPost, "/create_spotify_playlist", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		req.AddCookie(cookie)
		resp := ta.do(req)

		if resp.Code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", resp.Code)
		}
	})
}

func TestExport(t *testing.T) {
	t.Run("downloads a CSV of the selection", func(t *testing.T) {
		ta := newTestApp(t)
		cookie := ta.login(t)
		ta.catalog.GetTracksFn = func(_ context.Context, trackIDs []string) ([]models.Track, error) {
			return catalogTracks(trackIDs...), nil
		}

		form := strings.NewReader("format=csv&mood=happy&track_ids=t1,t2")
		req := httptest.NewRequest(http.MethodPost, "/export", form)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.AddCookie(cookie)
		resp := ta.do(req)

		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
		}
		if got := resp.Header().Get("Content-Type"); got != "text/csv; charset=utf-8" {
			t.Errorf("unexpected content type %q", got)
		}
		if !strings.Contains(resp.Header().Get("Content-Disposition"), ".csv") {
			t.Errorf("expected csv attachment, got %q", resp.Header().Get("Content-Disposition"))
		}
		if !strings.Contains(resp.Body.String(), "Track t1") {
			t.Error("expected track rows in export")
		}
	})

	t.Run("rejects unknown format", func(t *testing.T) {
		ta := newTestApp(t)
		cookie := ta.login(t)

		form := strings.NewReader("format=xlsx&mood=happy&track_ids=t1")
		req := httptest.NewRequest(http.MethodPost, "/export", form)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.AddCookie(cookie)
		resp := ta.do(req)

		if resp.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", resp.Code)
		}
	})
}

func TestLogout(t *testing.T) {
	ta := newTestApp(t)
	cookie := ta.login(t)

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(cookie)
	resp := ta.do(req)

	if resp.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", resp.Code)
	}

	_, err := repositories.NewSessionRepository(ta.db).Get(cookie.Value)
	if err == nil {
		t.Error("expected session to be deleted")
	}

	var cleared bool
	for _, c := range resp.Result().Cookies() {
		if c.Name == sessionCookie && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("expected session cookie to be cleared")
	}
}

func TestHealth(t *testing.T) {
	ta := newTestApp(t)

	resp := ta.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"status":"ok"`) {
		t.Errorf("unexpected health body %q", resp.Body.String())
	}
}

func TestRouterMethodFiltering(t *testing.T) {
	ta := newTestApp(t)

	resp := ta.do(httptest.NewRequest(http.MethodDelete, "/health", nil))
	if resp.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.Code)
	}
}
