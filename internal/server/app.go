package server

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"

	"github.com/desertthunder/moodfm/internal/repositories"
	"github.com/desertthunder/moodfm/internal/selector"
	"github.com/desertthunder/moodfm/internal/services"
	"github.com/desertthunder/moodfm/internal/shared"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	sessionCookie = "moodfm_session"
	stateCookie   = "moodfm_state"

	stateCookieMaxAge   = 600
	sessionCookieMaxAge = 30 * 24 * 60 * 60
)

// AuthProvider covers the OAuth entry points of the catalog.
//
// [services.SpotifyService] satisfies it.
type AuthProvider interface {
	GetAuthURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
}

// TokenFunc reports the catalog client's current token, refreshed if the
// underlying source rotated it.
type TokenFunc func() (*oauth2.Token, error)

// CatalogFactory builds an authenticated catalog client from a stored token.
// The returned TokenFunc may be nil when the catalog does not rotate tokens.
type CatalogFactory func(ctx context.Context, token *oauth2.Token) (services.Catalog, TokenFunc, error)

// App is the mood playlist web application.
type App struct {
	config    *shared.Config
	logger    *log.Logger
	sessions  *repositories.SessionRepository
	selector  *selector.Selector
	auth      AuthProvider
	factory   CatalogFactory
	router    *BasicRouter
	templates *template.Template
}

// NewApp wires the web application against the given database.
//
// The default catalog factory builds a Spotify client from the configured
// credentials per request; tests swap it via [App.SetCatalogFactory].
func NewApp(config *shared.Config, logger *log.Logger, db *sql.DB) (*App, error) {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	auth, err := services.NewSpotifyService(config.SpotifyCredentials())
	if err != nil {
		return nil, err
	}

	recency := repositories.NewRecencyRepository(db, config.App.RecencyLimit)
	sel := selector.New(recency, logger, selector.Options{
		ResultLimit:     config.App.ResultLimit,
		PopularityFloor: config.App.PopularityFloor,
		Jitter:          config.App.Jitter,
	})

	app := &App{
		config:   config,
		logger:   logger,
		sessions: repositories.NewSessionRepository(db),
		selector: sel,
		auth:     auth,
	}
	app.factory = app.spotifyFactory

	funcs := template.FuncMap{"inc": func(i int) int { return i + 1 }}
	templates, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	app.templates = templates

	app.router = NewBasicRouter()
	app.router.Use(RequestIDMiddleware(), LoggingMiddleware(logger), RecoverMiddleware(logger))
	app.routes(app.router)

	return app, nil
}

// SetCatalogFactory replaces the per-request catalog constructor.
func (a *App) SetCatalogFactory(factory CatalogFactory) { a.factory = factory }

// SetAuthProvider replaces the OAuth entry points.
func (a *App) SetAuthProvider(auth AuthProvider) { a.auth = auth }

// spotifyFactory builds an authenticated Spotify client for one request.
func (a *App) spotifyFactory(ctx context.Context, token *oauth2.Token) (services.Catalog, TokenFunc, error) {
	svc, err := services.NewSpotifyService(a.config.SpotifyCredentials())
	if err != nil {
		return nil, nil, err
	}
	if err := svc.AuthenticateToken(ctx, token); err != nil {
		return nil, nil, err
	}
	return svc, svc.CurrentToken, nil
}

func (a *App) routes(router *BasicRouter) {
	router.Handle(http.MethodGet, "/{$}", http.HandlerFunc(a.handleIndex))
	router.Handle(http.MethodGet, "/login", http.HandlerFunc(a.handleLogin))
	router.Handle(http.MethodGet, "/callback", http.HandlerFunc(a.handleCallback))
	router.Handle("GET,POST", "/generate_playlist", http.HandlerFunc(a.handleGenerate))
	router.Handle(http.MethodPost, "/create_spotify_playlist", http.HandlerFunc(a.handleCreatePlaylist))
	router.Handle(http.MethodPost, "/export", http.HandlerFunc(a.handleExport))
	router.Handle(http.MethodGet, "/logout", http.HandlerFunc(a.handleLogout))
	router.Handle(http.MethodGet, "/health", http.HandlerFunc(a.handleHealth))
}

// Router exposes the configured router, primarily for tests.
func (a *App) Router() http.Handler { return a.router }

// Addr returns the listen address from configuration.
func (a *App) Addr() string {
	return fmt.Sprintf("%s:%d", a.config.Server.Host, a.config.Server.Port)
}

// Start runs the HTTP server until the context is cancelled, then shuts it
// down gracefully.
func (a *App) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.Addr(),
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		a.logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
