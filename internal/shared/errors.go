package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrTokenExpired     = fmt.Errorf("access token expired")
	ErrInvalidState     = fmt.Errorf("invalid state parameter")
	ErrTimeout          = fmt.Errorf("operation timed out")

	// Catalog and service errors
	ErrCatalogUnavailable = fmt.Errorf("catalog unavailable")
	ErrRateLimited        = fmt.Errorf("rate limited by catalog")
	ErrPlaylistCreate     = fmt.Errorf("playlist creation failed")
	ErrPlaylistNotFound   = fmt.Errorf("playlist not found")

	// Selection errors
	ErrNoResults = fmt.Errorf("no tracks could be selected")

	// Input validation errors
	ErrInvalidInput = fmt.Errorf("invalid input")
	ErrNoMoodInput  = fmt.Errorf("no mood input provided")
	ErrUnknownMood  = fmt.Errorf("unknown mood")
	ErrNotFound     = fmt.Errorf("not found")
)
