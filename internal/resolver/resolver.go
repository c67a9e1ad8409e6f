// Package resolver locates a playable audio URL for a track. Tracks carry
// only catalog metadata; the actual audio comes from community-run mirror
// services with no uptime guarantee, so the whole pipeline is built around
// sequential fallback and a recoverable not-found outcome.
package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/orpheus-player/orpheus/internal/constants"
	"github.com/orpheus-player/orpheus/internal/domain"
	"github.com/orpheus-player/orpheus/internal/logger"
	"github.com/orpheus-player/orpheus/internal/mirror"
)

// NotFound is the sentinel result for ordinary resolution failure. Callers
// render it as a recoverable "audio not found" state; it is never an error.
const NotFound = "NOT FOUND"

// ErrNilTrack is a contract violation, not a resolution failure.
var ErrNilTrack = errors.New("resolver: nil track")

type Resolver struct {
	pool *mirror.Pool
	log  *logger.Logger
}

func New(pool *mirror.Pool, log *logger.Logger) *Resolver {
	if log == nil {
		log = logger.Default()
	}
	return &Resolver{
		pool: pool,
		log:  log.WithComponent("resolver"),
	}
}

type searchCandidate struct {
	VideoID       string `json:"videoId"`
	Title         string `json:"title"`
	LengthSeconds int    `json:"lengthSeconds"`
}

type videoResponse struct {
	AdaptiveFormats []mediaFormat `json:"adaptiveFormats"`
	FormatStreams   []mediaFormat `json:"formatStreams"`
}

// streamSource couples a chosen encoding with the mirror that served it, so
// relative URLs and the local proxy can be anchored to the right origin.
type streamSource struct {
	endpoint string
	videoID  string
	format   mediaFormat
}

// GetAudioURL resolves a track to a playable stream URL, or NotFound when
// every mirror or stage fails. It returns an error only for contract
// violations such as a nil track.
func (r *Resolver) GetAudioURL(ctx context.Context, track *domain.Track) (string, error) {
	if track == nil {
		return "", ErrNilTrack
	}

	query := buildQuery(track)
	if len(query) < constants.MinQueryLength {
		r.log.Warn("query too short to disambiguate, skipping resolution", "track", track.Name, "query", query)
		return NotFound, nil
	}

	log := r.log.WithTrack(track.ID, track.Name)
	log.Info("resolving audio", "query", query)

	candidates, err := r.search(ctx, query)
	if err != nil {
		log.Warn("search exhausted all mirrors", "error", err)
		return NotFound, nil
	}

	chosen := pickCandidate(candidates, track.DurationSeconds())
	log.Debug("candidate selected", "video_id", chosen.VideoID, "length_seconds", chosen.LengthSeconds)

	source, err := r.extractStream(ctx, chosen.VideoID)
	if err != nil {
		log.Warn("stream extraction exhausted all mirrors", "video_id", chosen.VideoID, "error", err)
		return NotFound, nil
	}

	streamURL := normalizeURL(source)
	log.Info("audio resolved", "video_id", chosen.VideoID, "itag", source.format.Itag)
	return streamURL, nil
}

// search queries each mirror in order for video candidates. A mirror
// response only counts as a success when it contains at least one candidate
// with a non-empty id.
func (r *Resolver) search(ctx context.Context, query string) ([]searchCandidate, error) {
	return mirror.Try(ctx, r.pool, "search", func(ctx context.Context, endpoint string) ([]searchCandidate, error) {
		u := fmt.Sprintf("%s/api/v1/search?q=%s&type=video", endpoint, url.QueryEscape(query))

		var raw []searchCandidate
		if err := r.getJSON(ctx, u, &raw); err != nil {
			return nil, err
		}

		valid := make([]searchCandidate, 0, len(raw))
		for _, c := range raw {
			if c.VideoID != "" {
				valid = append(valid, c)
			}
		}
		if len(valid) == 0 {
			return nil, fmt.Errorf("no valid candidates for query %q", query)
		}
		return valid, nil
	})
}

// extractStream fetches the available encodings for a video from each
// mirror in order and applies the selection policy. Audio-only adaptive
// formats are preferred; combined streams are the fallback when a mirror
// offers no audio-only encodings.
func (r *Resolver) extractStream(ctx context.Context, videoID string) (streamSource, error) {
	return mirror.Try(ctx, r.pool, "streams", func(ctx context.Context, endpoint string) (streamSource, error) {
		u := fmt.Sprintf("%s/api/v1/videos/%s", endpoint, url.PathEscape(videoID))

		var video videoResponse
		if err := r.getJSON(ctx, u, &video); err != nil {
			return streamSource{}, err
		}

		audio := make([]mediaFormat, 0, len(video.AdaptiveFormats))
		for _, f := range video.AdaptiveFormats {
			if strings.Contains(f.Type, "audio") {
				audio = append(audio, f)
			}
		}

		format, ok := selectEncoding(audio)
		if !ok {
			format, ok = selectEncoding(video.FormatStreams)
		}
		if !ok || format.URL == "" {
			return streamSource{}, fmt.Errorf("no playable streams for video %s", videoID)
		}

		return streamSource{endpoint: endpoint, videoID: videoID, format: format}, nil
	})
}

func (r *Resolver) getJSON(ctx context.Context, u string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.pool.Client().Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("mirror returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// pickCandidate returns the first candidate within the duration tolerance
// of the target, falling back to the first candidate when nothing is close
// enough. Duration similarity beats title similarity across catalogs.
func pickCandidate(candidates []searchCandidate, targetSeconds int) searchCandidate {
	for _, c := range candidates {
		diff := c.LengthSeconds - targetSeconds
		if diff < 0 {
			diff = -diff
		}
		if diff <= constants.DurationToleranceSec {
			return c
		}
	}
	return candidates[0]
}

// normalizeURL turns the chosen encoding's URL into something directly
// fetchable. Raw googlevideo URLs are bound to the mirror's IP and expire
// quickly, so when the itag is known the mirror's own re-streaming proxy is
// used instead.
func normalizeURL(source streamSource) string {
	raw := source.format.URL

	if strings.Contains(raw, "googlevideo.com") && source.format.Itag != "" {
		return fmt.Sprintf("%s/latest_version?id=%s&itag=%s&local=true",
			source.endpoint, url.QueryEscape(source.videoID), url.QueryEscape(source.format.Itag))
	}

	switch {
	case strings.HasPrefix(raw, "http://"), strings.HasPrefix(raw, "https://"):
		return raw
	case strings.HasPrefix(raw, "/"):
		return source.endpoint + raw
	default:
		return "https://" + raw
	}
}
