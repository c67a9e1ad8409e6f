package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/orpheus-player/orpheus/internal/constants"
)

// Config holds all application configuration
type Config struct {
	Port         string
	DBPath       string
	DownloadsDir string
	Provider     string // musicbrainz, spotify, mock
	Mirrors      []string
	LyricsURL    string
	LogLevel     string
	LogFormat    string

	// Spotify client-credentials pair; required only when Provider is spotify.
	SpotifyClientID     string
	SpotifyClientSecret string
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	home, _ := os.UserHomeDir()
	defaultDownload := filepath.Join(home, "Music/orpheus")

	return &Config{
		Port:                getEnv("PORT", constants.DefaultPort),
		DBPath:              getEnv("DB_PATH", constants.DefaultDBPath),
		DownloadsDir:        getEnv("DOWNLOADS_DIR", defaultDownload),
		Provider:            getEnv("METADATA_PROVIDER", constants.DefaultProvider),
		Mirrors:             getEnvList("AUDIO_MIRRORS", constants.DefaultMirrors),
		LyricsURL:           getEnv("LYRICS_URL", constants.DefaultLyricsURL),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LogFormat:           getEnv("LOG_FORMAT", "text"),
		SpotifyClientID:     getEnv("SPOTIFY_CLIENT_ID", ""),
		SpotifyClientSecret: getEnv("SPOTIFY_CLIENT_SECRET", ""),
	}
}

// Validate validates the configuration and returns detailed errors
func (c *Config) Validate() error {
	var errors []string

	if c.Port == "" {
		errors = append(errors, "PORT cannot be empty")
	} else {
		port, err := strconv.Atoi(c.Port)
		if err != nil {
			errors = append(errors, fmt.Sprintf("PORT must be a valid number, got: %s", c.Port))
		} else if port < 1 || port > 65535 {
			errors = append(errors, fmt.Sprintf("PORT must be between 1 and 65535, got: %d", port))
		}
	}

	if c.DBPath == "" {
		errors = append(errors, "DB_PATH cannot be empty")
	}

	if c.DownloadsDir == "" {
		errors = append(errors, "DOWNLOADS_DIR cannot be empty")
	}

	validProviders := map[string]bool{
		"musicbrainz": true,
		"spotify":     true,
		"mock":        true,
	}
	if !validProviders[c.Provider] {
		errors = append(errors, fmt.Sprintf("METADATA_PROVIDER must be one of: musicbrainz, spotify, mock, got: %s", c.Provider))
	}

	if c.Provider == "spotify" {
		if c.SpotifyClientID == "" {
			errors = append(errors, "SPOTIFY_CLIENT_ID cannot be empty when METADATA_PROVIDER is spotify")
		}
		if c.SpotifyClientSecret == "" {
			errors = append(errors, "SPOTIFY_CLIENT_SECRET cannot be empty when METADATA_PROVIDER is spotify")
		}
	}

	if len(c.Mirrors) == 0 {
		errors = append(errors, "AUDIO_MIRRORS cannot be empty")
	}
	for _, m := range c.Mirrors {
		u, err := url.Parse(m)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errors = append(errors, fmt.Sprintf("AUDIO_MIRRORS entry is not a valid URL: %s", m))
		}
	}

	if c.LyricsURL == "" {
		errors = append(errors, "LYRICS_URL cannot be empty")
	} else {
		if _, err := url.Parse(c.LyricsURL); err != nil {
			errors = append(errors, fmt.Sprintf("LYRICS_URL is not a valid URL: %s", c.LyricsURL))
		}
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of: debug, info, warn, error, got: %s", c.LogLevel))
	}

	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[c.LogFormat] {
		errors = append(errors, fmt.Sprintf("LOG_FORMAT must be one of: text, json, got: %s", c.LogFormat))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// getEnvList retrieves a comma-separated environment variable with a fallback.
// Entries are trimmed of whitespace and trailing slashes.
func getEnvList(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimRight(strings.TrimSpace(part), "/")
		if part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
