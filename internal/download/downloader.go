// Package download fetches a resolved stream into the offline cache and
// records it in the library so playback can prefer the local copy.
package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2/v2"

	"github.com/orpheus-player/orpheus/internal/constants"
	"github.com/orpheus-player/orpheus/internal/domain"
	"github.com/orpheus-player/orpheus/internal/logger"
)

// downloadIndex is the slice of the library store this package needs.
type downloadIndex interface {
	SaveTrack(track *domain.Track) (string, error)
	CreateDownload(trackID, filePath string) error
}

type Downloader struct {
	dir    string
	client *http.Client
	store  downloadIndex
	log    *logger.Logger
}

func NewDownloader(dir string, store downloadIndex, log *logger.Logger) *Downloader {
	if log == nil {
		log = logger.Default()
	}
	return &Downloader{
		dir:    dir,
		client: &http.Client{Timeout: 0}, // audio payloads can take minutes
		store:  store,
		log:    log.WithComponent("download"),
	}
}

// Download fetches streamURL into the downloads directory, tags mp3
// payloads, persists the track row and records the offline mapping. It
// returns the final file path.
func (d *Downloader) Download(ctx context.Context, track *domain.Track, streamURL string) (string, error) {
	if track == nil || track.ID == "" {
		return "", fmt.Errorf("download: track with id required")
	}
	if streamURL == "" {
		return "", fmt.Errorf("download: empty stream url")
	}

	if err := os.MkdirAll(d.dir, constants.DirPermissions); err != nil {
		return "", fmt.Errorf("failed to create downloads dir: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", streamURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch stream: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("stream returned status %d", resp.StatusCode)
	}

	filePath := filepath.Join(d.dir, FileName(track, resp.Header.Get("Content-Type")))
	if err := writeFile(filePath, resp.Body); err != nil {
		return "", err
	}

	if strings.HasSuffix(filePath, ".mp3") {
		if err := tagMP3(filePath, track); err != nil {
			// A failed tag write is cosmetic; the audio is intact.
			d.log.Warn("failed to tag download", "path", filePath, "error", err)
		}
	}

	if _, err := d.store.SaveTrack(track); err != nil {
		return "", fmt.Errorf("failed to persist track: %w", err)
	}
	if err := d.store.CreateDownload(track.ID, filePath); err != nil {
		return "", fmt.Errorf("failed to record download: %w", err)
	}

	d.log.Info("downloaded", "track_id", track.ID, "path", filePath)
	return filePath, nil
}

// writeFile streams body to a temp file and renames it into place so a
// torn download never looks like a finished one.
func writeFile(filePath string, body io.Reader) error {
	tmp, err := os.CreateTemp(filepath.Dir(filePath), "*.part")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, body); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write stream: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, filePath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to move download into place: %w", err)
	}
	return nil
}

// FileName builds "Artist - Title.ext" with filesystem-hostile characters
// removed.
func FileName(track *domain.Track, contentType string) string {
	name := track.Name
	if artist := track.PrimaryArtist(); artist != "" {
		name = artist + " - " + name
	}
	return Sanitize(name) + extension(contentType)
}

// Sanitize strips the characters no common filesystem accepts and trims
// trailing dots and spaces.
func Sanitize(s string) string {
	mapped := strings.Map(func(r rune) rune {
		if strings.ContainsRune(constants.InvalidPathChars, r) {
			return -1
		}
		return r
	}, s)
	return strings.TrimRight(mapped, ". ")
}

func extension(contentType string) string {
	switch {
	case strings.Contains(contentType, "mpeg"):
		return ".mp3"
	case strings.Contains(contentType, "mp4"):
		return ".m4a"
	case strings.Contains(contentType, "webm"), strings.Contains(contentType, "opus"):
		return ".webm"
	default:
		return ".m4a"
	}
}

// tagMP3 writes the basic ID3v2 frames so offline files stay identifiable
// in other players.
func tagMP3(filePath string, track *domain.Track) error {
	tag, err := id3v2.Open(filePath, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("failed to open MP3 file: %w", err)
	}
	defer func() {
		_ = tag.Close()
	}()

	tag.SetVersion(4)

	if track.Name != "" {
		tag.SetTitle(track.Name)
	}
	if artist := track.PrimaryArtist(); artist != "" {
		tag.SetArtist(artist)
	}
	if track.Album != nil && track.Album.Name != "" {
		tag.SetAlbum(track.Album.Name)
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("failed to save tags: %w", err)
	}
	return nil
}
