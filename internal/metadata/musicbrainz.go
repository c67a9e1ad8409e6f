package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/orpheus-player/orpheus/internal/constants"
	"github.com/orpheus-player/orpheus/internal/domain"
	"github.com/orpheus-player/orpheus/internal/httpclient"
	"github.com/orpheus-player/orpheus/internal/logger"
)

// MusicBrainz searches the public MusicBrainz catalog. It needs no
// credentials but the service requires a minimum interval between requests
// and a descriptive User-Agent; violating either gets the client blocked,
// so the rate limit is enforced here rather than left to the caller.
type MusicBrainz struct {
	baseURL string
	client  *httpclient.Client
	log     *logger.Logger
}

func NewMusicBrainz(baseURL string, log *logger.Logger) *MusicBrainz {
	if log == nil {
		log = logger.Default()
	}
	return &MusicBrainz{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  httpclient.NewClient(nil, constants.MusicBrainzInterval),
		log:     log.WithComponent("musicbrainz"),
	}
}

type mbArtistCredit struct {
	Name   string `json:"name"`
	Artist struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"artist"`
}

type mbRelease struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	Date         string           `json:"date"`
	ArtistCredit []mbArtistCredit `json:"artist-credit"`
	ReleaseGroup struct {
		PrimaryType string `json:"primary-type"`
	} `json:"release-group"`
}

type mbRecording struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	Length       int              `json:"length"`
	ArtistCredit []mbArtistCredit `json:"artist-credit"`
	Releases     []mbRelease      `json:"releases"`
}

type mbSearchResponse struct {
	Recordings []mbRecording `json:"recordings"`
}

// Search runs a recording search. An empty or whitespace-only query
// short-circuits to empty results without touching the network. Upstream
// failures also yield empty results rather than an error: a flaky public
// catalog must never break the search screen.
func (m *MusicBrainz) Search(ctx context.Context, query string) (*domain.SearchResults, error) {
	if strings.TrimSpace(query) == "" {
		return &domain.SearchResults{Tracks: []domain.Track{}}, nil
	}

	u := fmt.Sprintf("%s/recording?query=%s&inc=artists+releases&fmt=json&limit=%d",
		m.baseURL, url.QueryEscape(query), constants.SearchLimit)

	var result mbSearchResponse
	if err := m.get(ctx, u, &result); err != nil {
		m.log.Warn("search failed, returning empty results", "query", query, "error", err)
		return &domain.SearchResults{Tracks: []domain.Track{}}, nil
	}

	tracks := make([]domain.Track, 0, len(result.Recordings))
	for _, rec := range result.Recordings {
		tracks = append(tracks, mapRecording(rec))
	}
	return &domain.SearchResults{Tracks: filterTracks(tracks)}, nil
}

// GetTrack looks up a single recording by MBID. Unlike Search, a direct
// lookup failure is an error the caller must see.
func (m *MusicBrainz) GetTrack(ctx context.Context, id string) (*domain.Track, error) {
	u := fmt.Sprintf("%s/recording/%s?inc=artists+releases&fmt=json", m.baseURL, url.PathEscape(id))

	var rec mbRecording
	if err := m.get(ctx, u, &rec); err != nil {
		return nil, fmt.Errorf("get recording %s: %w", id, err)
	}

	track := mapRecording(rec)
	return &track, nil
}

func (m *MusicBrainz) GetAlbum(ctx context.Context, id string) (*domain.Album, error) {
	u := fmt.Sprintf("%s/release/%s?inc=artist-credits+recordings&fmt=json", m.baseURL, url.PathEscape(id))

	var rel mbRelease
	if err := m.get(ctx, u, &rel); err != nil {
		return nil, fmt.Errorf("get release %s: %w", id, err)
	}

	album := mapRelease(rel)
	return &album, nil
}

func (m *MusicBrainz) get(ctx context.Context, u string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", constants.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := m.client.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("musicbrainz returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// mapRecording converts a MusicBrainz recording to the domain model. The
// catalog carries no artwork, so image lists stay empty.
func mapRecording(rec mbRecording) domain.Track {
	track := domain.Track{
		ID:          rec.ID,
		Name:        rec.Title,
		DurationMs:  rec.Length,
		ExternalURI: "https://musicbrainz.org/recording/" + rec.ID,
	}

	for _, ac := range rec.ArtistCredit {
		track.Artists = append(track.Artists, domain.Artist{
			ID:          ac.Artist.ID,
			Name:        ac.Artist.Name,
			ExternalURI: "https://musicbrainz.org/artist/" + ac.Artist.ID,
			Source:      domain.ArtistSourceCatalog,
		})
	}

	if len(rec.Releases) > 0 {
		album := mapRelease(rec.Releases[0])
		track.Album = &album
	}

	return track
}

func mapRelease(rel mbRelease) domain.Album {
	album := domain.Album{
		ID:          rel.ID,
		Name:        rel.Title,
		AlbumType:   mapAlbumType(rel.ReleaseGroup.PrimaryType),
		ReleaseDate: rel.Date,
		Images:      domain.ImageList{},
	}
	for _, ac := range rel.ArtistCredit {
		album.Artists = append(album.Artists, domain.Artist{
			ID:          ac.Artist.ID,
			Name:        ac.Artist.Name,
			ExternalURI: "https://musicbrainz.org/artist/" + ac.Artist.ID,
			Source:      domain.ArtistSourceCatalog,
		})
	}
	return album
}

func mapAlbumType(primaryType string) domain.AlbumType {
	switch strings.ToLower(primaryType) {
	case "single", "ep":
		return domain.AlbumTypeSingle
	case "compilation":
		return domain.AlbumTypeCompilation
	default:
		return domain.AlbumTypeAlbum
	}
}
