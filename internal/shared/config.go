package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Database    DatabaseConfig    `toml:"database"`
	Server      ServerConfig      `toml:"server"`
	App         AppConfig         `toml:"app"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains Spotify API credentials.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// AppConfig contains selection tuning knobs.
type AppConfig struct {
	ResultLimit     int    `toml:"result_limit"`     // tracks returned per selection
	RecencyLimit    int    `toml:"recency_limit"`    // remembered track IDs per (user, mood)
	PopularityFloor int    `toml:"popularity_floor"` // minimum catalog popularity for candidates
	Jitter          int    `toml:"jitter"`           // ranking jitter amplitude
	Market          string `toml:"market"`           // ISO 3166-1 alpha-2 market code
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.applyDefaults()
	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SpotifyCredentials flattens the Spotify credentials into the map form the
// catalog client constructor expects.
func (c *Config) SpotifyCredentials() map[string]string {
	return map[string]string{
		"client_id":     c.Credentials.Spotify.ClientID,
		"client_secret": c.Credentials.Spotify.ClientSecret,
		"redirect_uri":  c.Credentials.Spotify.RedirectURI,
		"market":        c.App.Market,
	}
}

// applyDefaults backfills zero-valued tuning knobs so a partial config file stays usable.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.App.ResultLimit <= 0 {
		c.App.ResultLimit = defaults.App.ResultLimit
	}
	if c.App.RecencyLimit <= 0 {
		c.App.RecencyLimit = defaults.App.RecencyLimit
	}
	if c.App.PopularityFloor <= 0 {
		c.App.PopularityFloor = defaults.App.PopularityFloor
	}
	if c.App.Jitter <= 0 {
		c.App.Jitter = defaults.App.Jitter
	}
	if c.App.Market == "" {
		c.App.Market = defaults.App.Market
	}
}
