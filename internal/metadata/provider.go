// Package metadata implements free-text search against an external music
// catalog. Providers normalize their catalog's shapes into the domain model
// so the rest of the application never sees catalog-specific types.
package metadata

import (
	"context"
	"fmt"

	"github.com/orpheus-player/orpheus/internal/config"
	"github.com/orpheus-player/orpheus/internal/constants"
	"github.com/orpheus-player/orpheus/internal/domain"
	"github.com/orpheus-player/orpheus/internal/logger"
)

type Provider interface {
	Search(ctx context.Context, query string) (*domain.SearchResults, error)
	GetTrack(ctx context.Context, id string) (*domain.Track, error)
	GetAlbum(ctx context.Context, id string) (*domain.Album, error)
}

// New builds the provider named by the configuration.
func New(cfg *config.Config, log *logger.Logger) (Provider, error) {
	switch cfg.Provider {
	case "musicbrainz":
		return NewMusicBrainz(constants.MusicBrainzURL, log), nil
	case "spotify":
		return NewSpotify(SpotifyConfig{
			ClientID:     cfg.SpotifyClientID,
			ClientSecret: cfg.SpotifyClientSecret,
		}, log), nil
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown metadata provider: %s", cfg.Provider)
	}
}
