package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/desertthunder/moodfm/internal/formatter"
	"github.com/desertthunder/moodfm/internal/models"
	"github.com/desertthunder/moodfm/internal/mood"
	"github.com/desertthunder/moodfm/internal/shared"
	"github.com/desertthunder/moodfm/internal/tasks"
)

// moodOption feeds the mood picker in templates.
type moodOption struct {
	Value       string
	DisplayName string
}

func moodOptions() []moodOption {
	labels := mood.Labels()
	options := make([]moodOption, 0, len(labels))
	for _, label := range labels {
		profile, err := mood.ProfileFor(label)
		if err != nil {
			continue
		}
		options = append(options, moodOption{Value: string(label), DisplayName: profile.DisplayName})
	}
	return options
}

// handleIndex renders the mood picker, or the login page when no session
// exists.
func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	session := a.currentSession(r)
	if session == nil {
		a.render(w, http.StatusOK, "login.html", nil)
		return
	}

	a.render(w, http.StatusOK, "index.html", map[string]any{
		"DisplayName": session.DisplayName(),
		"Moods":       moodOptions(),
	})
}

// handleLogin starts the OAuth flow: generates a state token, stores it in a
// short-lived cookie and redirects to the provider's consent page.
func (a *App) handleLogin(w http.ResponseWriter, r *http.Request) {
	state, err := shared.GenerateState()
	if err != nil {
		a.logger.Error("failed to generate state token", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   stateCookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, a.auth.GetAuthURL(state), http.StatusFound)
}

// handleCallback completes the OAuth flow.
//
// Validates the state parameter against the cookie set by /login, exchanges
// the authorization code, resolves the catalog identity and persists a
// session.
func (a *App) handleCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if errParam := query.Get("error"); errParam != "" {
		a.logger.Warn("authorization denied", "error", errParam, "description", query.Get("error_description"))
		a.renderError(w, http.StatusBadRequest, "Authorization was denied. Try connecting again.")
		return
	}

	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != query.Get("state") {
		a.logger.Warn("state mismatch on callback", "error", shared.ErrInvalidState)
		a.renderError(w, http.StatusBadRequest, "Invalid state parameter. Try connecting again.")
		return
	}
	clearCookie(w, stateCookie)

	code := query.Get("code")
	if code == "" {
		a.renderError(w, http.StatusBadRequest, "Missing authorization code.")
		return
	}

	token, err := a.auth.Exchange(r.Context(), code)
	if err != nil {
		a.logger.Error("token exchange failed", "error", err)
		a.renderError(w, http.StatusBadGateway, "Token exchange failed. Try connecting again.")
		return
	}

	catalog, _, err := a.factory(r.Context(), token)
	if err != nil {
		a.logger.Error("failed to build catalog client", "error", err)
		a.renderError(w, http.StatusBadGateway, "Could not reach the catalog.")
		return
	}

	user, err := catalog.CurrentUser(r.Context())
	if err != nil {
		a.logger.Error("failed to resolve catalog identity", "error", err)
		a.renderError(w, http.StatusBadGateway, "Could not resolve your account.")
		return
	}

	session := models.NewSession(user.ID, user.DisplayName, token)
	if err := a.sessions.Create(session); err != nil {
		a.logger.Error("failed to persist session", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    session.ID(),
		Path:     "/",
		MaxAge:   sessionCookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	a.logger.Info("session created", "user", user.ID)
	http.Redirect(w, r, "/", http.StatusFound)
}

// handleGenerate resolves the requested mood and renders a generated track
// list.
//
// Accepts GET (query parameters) and POST (form values) with fields "mood"
// and "mood_text".
func (a *App) handleGenerate(w http.ResponseWriter, r *http.Request) {
	session := a.currentSession(r)
	if session == nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	selection, freeText := moodInput(r)
	label, err := mood.Resolve(selection, freeText)
	if err != nil {
		a.renderError(w, http.StatusBadRequest, "Pick a mood or describe how you feel.")
		return
	}

	catalog, tokenFn, err := a.factory(r.Context(), session.Token())
	if err != nil {
		a.logger.Error("failed to build catalog client", "error", err)
		a.renderError(w, http.StatusBadGateway, "Could not reach the catalog.")
		return
	}

	tracks, err := a.selector.Select(r.Context(), catalog, session.UserID(), label)
	a.persistRotatedToken(session, tokenFn)
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrNotAuthenticated):
			a.expireSession(w, session)
			http.Redirect(w, r, "/", http.StatusFound)
		case errors.Is(err, shared.ErrNoResults):
			a.renderError(w, http.StatusInternalServerError, "Couldn't find tracks for that mood right now. Try again in a bit.")
		default:
			a.logger.Error("selection failed", "mood", label, "error", err)
			a.renderError(w, http.StatusInternalServerError, "Something went wrong generating your playlist.")
		}
		return
	}

	profile, _ := mood.ProfileFor(label)
	trackIDs := make([]string, len(tracks))
	for i, track := range tracks {
		trackIDs[i] = track.ID
	}

	a.render(w, http.StatusOK, "results.html", map[string]any{
		"DisplayName": session.DisplayName(),
		"Mood":        string(label),
		"MoodName":    profile.DisplayName,
		"Tracks":      tracks,
		"TrackIDs":    strings.Join(trackIDs, ","),
	})
}

// createPlaylistRequest is the JSON body for POST /create_spotify_playlist.
type createPlaylistRequest struct {
	Mood     string   `json:"mood"`
	TrackIDs []string `json:"track_ids"`
}

// handleCreatePlaylist materializes a generated track list as a playlist on
// the user's account.
func (a *App) handleCreatePlaylist(w http.ResponseWriter, r *http.Request) {
	session := a.currentSession(r)
	if session == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "error": "not authenticated"})
		return
	}

	var req createPlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "invalid request body"})
		return
	}

	catalog, tokenFn, err := a.factory(r.Context(), session.Token())
	if err != nil {
		a.logger.Error("failed to build catalog client", "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]any{"success": false, "error": "catalog unavailable"})
		return
	}

	result, err := tasks.Materialize(r.Context(), catalog, mood.Label(req.Mood), req.TrackIDs)
	a.persistRotatedToken(session, tokenFn)
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrInvalidInput):
			writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": err.Error()})
		case errors.Is(err, shared.ErrNotAuthenticated):
			writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "error": "not authenticated"})
		default:
			a.logger.Error("playlist creation failed", "mood", req.Mood, "error", err)
			writeJSON(w, http.StatusBadGateway, map[string]any{"success": false, "error": "playlist creation failed"})
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"playlist_url":  result.Playlist.URL,
		"playlist_name": result.Playlist.Name,
	})
}

// handleExport downloads a generated track list in the requested format.
//
// Form fields: "format" (csv, markdown, text), "mood" and "track_ids"
// (comma-separated).
func (a *App) handleExport(w http.ResponseWriter, r *http.Request) {
	session := a.currentSession(r)
	if session == nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	format, err := formatter.ParseFormat(r.FormValue("format"))
	if err != nil {
		a.renderError(w, http.StatusBadRequest, "Unsupported export format.")
		return
	}

	label, err := mood.Parse(r.FormValue("mood"))
	if err != nil {
		a.renderError(w, http.StatusBadRequest, "Unknown mood.")
		return
	}

	trackIDs := splitIDs(r.FormValue("track_ids"))
	if len(trackIDs) == 0 {
		a.renderError(w, http.StatusBadRequest, "No tracks to export.")
		return
	}

	catalog, tokenFn, err := a.factory(r.Context(), session.Token())
	if err != nil {
		a.logger.Error("failed to build catalog client", "error", err)
		a.renderError(w, http.StatusBadGateway, "Could not reach the catalog.")
		return
	}

	trackList, err := catalog.GetTracks(r.Context(), trackIDs)
	a.persistRotatedToken(session, tokenFn)
	if err != nil {
		a.logger.Error("track lookup failed for export", "error", err)
		a.renderError(w, http.StatusBadGateway, "Could not load tracks from the catalog.")
		return
	}

	profile, _ := mood.ProfileFor(label)
	export := &formatter.Export{
		Mood:   label,
		Title:  profile.DisplayName + " Mix",
		Tracks: trackList,
	}

	data, err := export.Render(format)
	if err != nil {
		a.renderError(w, http.StatusBadRequest, "Unsupported export format.")
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(format)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// handleLogout deletes the session and clears the cookie.
func (a *App) handleLogout(w http.ResponseWriter, r *http.Request) {
	if session := a.currentSession(r); session != nil {
		a.expireSession(w, session)
	} else {
		clearCookie(w, sessionCookie)
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

// currentSession loads the session referenced by the request cookie, or nil.
func (a *App) currentSession(r *http.Request) *models.Session {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil || cookie.Value == "" {
		return nil
	}

	session, err := a.sessions.Get(cookie.Value)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			a.logger.Warn("session lookup failed", "error", err)
		}
		return nil
	}
	return session
}

// persistRotatedToken stores the catalog client's token when the refresh flow
// rotated it mid-request.
func (a *App) persistRotatedToken(session *models.Session, tokenFn TokenFunc) {
	if tokenFn == nil {
		return
	}
	token, err := tokenFn()
	if err != nil || token == nil {
		return
	}
	if token.AccessToken == session.Token().AccessToken {
		return
	}
	session.SetToken(token)
	if err := a.sessions.Update(session); err != nil {
		a.logger.Warn("failed to persist rotated token", "user", session.UserID(), "error", err)
	}
}

// expireSession removes the session record and clears the cookie.
func (a *App) expireSession(w http.ResponseWriter, session *models.Session) {
	if err := a.sessions.Delete(session.ID()); err != nil {
		a.logger.Warn("failed to delete session", "error", err)
	}
	clearCookie(w, sessionCookie)
}

func (a *App) render(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := a.templates.ExecuteTemplate(w, name, data); err != nil {
		a.logger.Error("template execution failed", "template", name, "error", err)
	}
}

func (a *App) renderError(w http.ResponseWriter, status int, message string) {
	a.render(w, status, "error.html", map[string]any{"Message": message})
}

func clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// moodInput pulls the mood selection and free text from query or form values.
func moodInput(r *http.Request) (selection, freeText string) {
	if r.Method == http.MethodPost {
		r.ParseForm()
	}
	return strings.TrimSpace(r.FormValue("mood")), strings.TrimSpace(r.FormValue("mood_text"))
}

func splitIDs(raw string) []string {
	parts := strings.Split(raw, ",")
	ids := parts[:0]
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}
	return ids
}
