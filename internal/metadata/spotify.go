package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/orpheus-player/orpheus/internal/constants"
	"github.com/orpheus-player/orpheus/internal/domain"
	"github.com/orpheus-player/orpheus/internal/logger"
)

// SpotifyConfig carries the client-credentials pair.
type SpotifyConfig struct {
	ClientID     string
	ClientSecret string

	// APIURL and TokenURL override the production endpoints in tests.
	APIURL   string
	TokenURL string
}

// Spotify searches the Spotify catalog using the client-credentials flow.
// The bearer token is cached until shortly before expiry. Two goroutines
// hitting an expired token may both exchange credentials; the loser's token
// simply overwrites the winner's. Both tokens are valid, so the redundant
// exchange is accepted instead of serializing every request behind a lock.
type Spotify struct {
	cfg    SpotifyConfig
	client *http.Client
	log    *logger.Logger

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

func NewSpotify(cfg SpotifyConfig, log *logger.Logger) *Spotify {
	if cfg.APIURL == "" {
		cfg.APIURL = constants.SpotifyAPIURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = constants.SpotifyTokenURL
	}
	if log == nil {
		log = logger.Default()
	}
	return &Spotify{
		cfg:    cfg,
		client: &http.Client{Timeout: constants.DefaultHTTPTimeout},
		log:    log.WithComponent("spotify"),
	}
}

type spotifyImage struct {
	URL string `json:"url"`
}

type spotifyArtist struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Images       []spotifyImage `json:"images"`
	ExternalURLs struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
}

type spotifyAlbum struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	AlbumType    string          `json:"album_type"`
	Images       []spotifyImage  `json:"images"`
	ReleaseDate  string          `json:"release_date"`
	TotalTracks  int             `json:"total_tracks"`
	Artists      []spotifyArtist `json:"artists"`
	ExternalURLs struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
}

type spotifyTrack struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	DurationMs   int             `json:"duration_ms"`
	Explicit     bool            `json:"explicit"`
	Album        *spotifyAlbum   `json:"album"`
	Artists      []spotifyArtist `json:"artists"`
	ExternalURLs struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
}

type spotifySearchResponse struct {
	Tracks struct {
		Items []spotifyTrack `json:"items"`
	} `json:"tracks"`
	Albums struct {
		Items []spotifyAlbum `json:"items"`
	} `json:"albums"`
	Artists struct {
		Items []spotifyArtist `json:"items"`
	} `json:"artists"`
}

// Search queries tracks, albums and artists in one request. Unlike the
// anonymous catalogs, an auth failure here propagates: without credentials
// there is no degraded mode worth pretending to have.
func (s *Spotify) Search(ctx context.Context, query string) (*domain.SearchResults, error) {
	if strings.TrimSpace(query) == "" {
		return &domain.SearchResults{Tracks: []domain.Track{}}, nil
	}

	u := fmt.Sprintf("%s/search?q=%s&type=track,album,artist&limit=%d",
		s.cfg.APIURL, url.QueryEscape(query), constants.SearchPageSize)

	var result spotifySearchResponse
	if err := s.get(ctx, u, &result); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	out := &domain.SearchResults{Tracks: []domain.Track{}}
	for _, item := range result.Tracks.Items {
		out.Tracks = append(out.Tracks, mapSpotifyTrack(item))
	}
	out.Tracks = filterTracks(out.Tracks)
	for _, item := range result.Albums.Items {
		out.Albums = append(out.Albums, mapSpotifyAlbum(item))
	}
	for _, item := range result.Artists.Items {
		out.Artists = append(out.Artists, mapSpotifyArtist(item))
	}
	return out, nil
}

func (s *Spotify) GetTrack(ctx context.Context, id string) (*domain.Track, error) {
	var item spotifyTrack
	if err := s.get(ctx, fmt.Sprintf("%s/tracks/%s", s.cfg.APIURL, url.PathEscape(id)), &item); err != nil {
		return nil, fmt.Errorf("get track %s: %w", id, err)
	}
	track := mapSpotifyTrack(item)
	return &track, nil
}

func (s *Spotify) GetAlbum(ctx context.Context, id string) (*domain.Album, error) {
	var item spotifyAlbum
	if err := s.get(ctx, fmt.Sprintf("%s/albums/%s", s.cfg.APIURL, url.PathEscape(id)), &item); err != nil {
		return nil, fmt.Errorf("get album %s: %w", id, err)
	}
	album := mapSpotifyAlbum(item)
	return &album, nil
}

func (s *Spotify) get(ctx context.Context, u string, out interface{}) error {
	token, err := s.ensureToken(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("spotify returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// ensureToken returns the cached bearer token, exchanging credentials only
// when no unexpired token is held.
func (s *Spotify) ensureToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.accessToken != "" && time.Now().Before(s.tokenExpiry) {
		token := s.accessToken
		s.mu.Unlock()
		return token, nil
	}
	s.mu.Unlock()

	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, "POST", s.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.SetBasicAuth(s.cfg.ClientID, s.cfg.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("token exchange failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token exchange returned status %d", resp.StatusCode)
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("token exchange returned an empty token")
	}

	expiry := time.Now().Add(time.Duration(tokenResp.ExpiresIn)*time.Second - constants.TokenExpirySlack)

	s.mu.Lock()
	s.accessToken = tokenResp.AccessToken
	s.tokenExpiry = expiry
	s.mu.Unlock()

	s.log.Debug("exchanged client credentials for a new token")
	return tokenResp.AccessToken, nil
}

func mapSpotifyTrack(item spotifyTrack) domain.Track {
	track := domain.Track{
		ID:          item.ID,
		Name:        item.Name,
		DurationMs:  item.DurationMs,
		Explicit:    item.Explicit,
		ExternalURI: item.ExternalURLs.Spotify,
	}
	for _, a := range item.Artists {
		track.Artists = append(track.Artists, mapSpotifyArtist(a))
	}
	if item.Album != nil {
		album := mapSpotifyAlbum(*item.Album)
		track.Album = &album
	}
	return track
}

func mapSpotifyAlbum(item spotifyAlbum) domain.Album {
	album := domain.Album{
		ID:          item.ID,
		Name:        item.Name,
		AlbumType:   mapAlbumType(item.AlbumType),
		ReleaseDate: item.ReleaseDate,
		TotalTracks: item.TotalTracks,
		Images:      mapSpotifyImages(item.Images),
	}
	for _, a := range item.Artists {
		album.Artists = append(album.Artists, mapSpotifyArtist(a))
	}
	return album
}

func mapSpotifyArtist(item spotifyArtist) domain.Artist {
	return domain.Artist{
		ID:          item.ID,
		Name:        item.Name,
		ExternalURI: item.ExternalURLs.Spotify,
		Images:      mapSpotifyImages(item.Images),
		Source:      domain.ArtistSourceCatalog,
	}
}

func mapSpotifyImages(images []spotifyImage) domain.ImageList {
	out := make(domain.ImageList, 0, len(images))
	for _, img := range images {
		out = append(out, domain.Image{URI: img.URL})
	}
	return out
}
