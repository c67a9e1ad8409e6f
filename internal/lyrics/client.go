// Package lyrics looks up song lyrics with a write-through cache on the
// persisted track row.
package lyrics

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/orpheus-player/orpheus/internal/constants"
	"github.com/orpheus-player/orpheus/internal/domain"
	"github.com/orpheus-player/orpheus/internal/logger"
)

// cache is the slice of the library store this client needs.
type cache interface {
	GetLyrics(trackID string) (string, error)
	SetLyrics(trackID, lyrics string) error
}

type Client struct {
	baseURL string
	client  *http.Client
	cache   cache
	log     *logger.Logger
}

func NewClient(baseURL string, store cache, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Default()
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: constants.DefaultHTTPTimeout},
		cache:   store,
		log:     log.WithComponent("lyrics"),
	}
}

// GetLyrics returns the lyrics for a track, consulting the persisted row
// first and fetching from the public endpoint on a miss. Missing lyrics is
// an ordinary empty result, not an error.
func (c *Client) GetLyrics(ctx context.Context, track *domain.Track) (string, error) {
	if track == nil {
		return "", fmt.Errorf("lyrics: nil track")
	}

	if track.Lyrics != "" {
		return track.Lyrics, nil
	}
	if cached, err := c.cache.GetLyrics(track.ID); err == nil && cached != "" {
		return cached, nil
	}

	artist := track.PrimaryArtist()
	if artist == "" || track.Name == "" {
		return "", nil
	}

	u := fmt.Sprintf("%s/v1/%s/%s", c.baseURL, url.PathEscape(artist), url.PathEscape(track.Name))
	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("lyrics lookup failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("lyrics endpoint returned status %d", resp.StatusCode)
	}

	var body struct {
		Lyrics string `json:"lyrics"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode lyrics response: %w", err)
	}

	if body.Lyrics != "" {
		// Write-through; a persist failure only costs the next call a
		// refetch.
		if err := c.cache.SetLyrics(track.ID, body.Lyrics); err != nil {
			c.log.Warn("failed to cache lyrics", "track_id", track.ID, "error", err)
		}
	}
	return body.Lyrics, nil
}
