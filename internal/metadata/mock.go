package metadata

import (
	"context"

	"github.com/orpheus-player/orpheus/internal/domain"
)

type MockProvider struct{}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (p *MockProvider) Search(ctx context.Context, query string) (*domain.SearchResults, error) {
	return &domain.SearchResults{
		Tracks: []domain.Track{
			{
				ID:          "mock-track-1",
				Name:        "Mock Track",
				DurationMs:  180000,
				ExternalURI: "https://example.com/track/1",
				Album:       &domain.Album{ID: "mock-album-1", Name: "Mock Album", AlbumType: domain.AlbumTypeAlbum},
				Artists:     []domain.Artist{{ID: "mock-artist-1", Name: "Mock Artist", Source: domain.ArtistSourceCatalog}},
			},
		},
		Albums:  []domain.Album{{ID: "mock-album-1", Name: "Mock Album", AlbumType: domain.AlbumTypeAlbum}},
		Artists: []domain.Artist{{ID: "mock-artist-1", Name: "Mock Artist", Source: domain.ArtistSourceCatalog}},
	}, nil
}

func (p *MockProvider) GetTrack(ctx context.Context, id string) (*domain.Track, error) {
	return &domain.Track{
		ID:          id,
		Name:        "Mock Track",
		DurationMs:  180000,
		ExternalURI: "https://example.com/track/" + id,
		Artists:     []domain.Artist{{ID: "mock-artist-1", Name: "Mock Artist", Source: domain.ArtistSourceCatalog}},
	}, nil
}

func (p *MockProvider) GetAlbum(ctx context.Context, id string) (*domain.Album, error) {
	return &domain.Album{
		ID:        id,
		Name:      "Mock Album",
		AlbumType: domain.AlbumTypeAlbum,
		Artists:   []domain.Artist{{ID: "mock-artist-1", Name: "Mock Artist", Source: domain.ArtistSourceCatalog}},
	}, nil
}
