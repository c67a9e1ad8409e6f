package download

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/orpheus-player/orpheus/internal/domain"
)

type fakeIndex struct {
	savedTracks []string
	downloads   map[string]string
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{downloads: map[string]string{}}
}

func (f *fakeIndex) SaveTrack(track *domain.Track) (string, error) {
	f.savedTracks = append(f.savedTracks, track.ID)
	return track.ID, nil
}

func (f *fakeIndex) CreateDownload(trackID, filePath string) error {
	f.downloads[trackID] = filePath
	return nil
}

func TestDownload_FetchesAndRecords(t *testing.T) {
	payload := []byte("fake audio bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/mp4")
		_, _ = w.Write(payload)
	}))
	defer server.Close()

	dir := t.TempDir()
	index := newFakeIndex()
	d := NewDownloader(dir, index, nil)

	track := &domain.Track{ID: "t1", Name: "Yesterday", Artists: []domain.Artist{{Name: "The Beatles"}}}
	path, err := d.Download(context.Background(), track, server.URL)
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}

	if filepath.Base(path) != "The Beatles - Yesterday.m4a" {
		t.Errorf("Unexpected file name: %s", filepath.Base(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read download: %v", err)
	}
	if string(data) != string(payload) {
		t.Error("Payload mismatch")
	}
	if index.downloads["t1"] != path {
		t.Errorf("Download not recorded: %v", index.downloads)
	}
	if len(index.savedTracks) != 1 || index.savedTracks[0] != "t1" {
		t.Errorf("Track not persisted: %v", index.savedTracks)
	}

	// No stray partial files left behind.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected only the finished file, found %d entries", len(entries))
	}
}

func TestDownload_UpstreamErrorLeavesNothing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	dir := t.TempDir()
	index := newFakeIndex()
	d := NewDownloader(dir, index, nil)

	track := &domain.Track{ID: "t1", Name: "Yesterday"}
	if _, err := d.Download(context.Background(), track, server.URL); err == nil {
		t.Fatal("Expected an error")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected no files after failure, found %d", len(entries))
	}
	if len(index.downloads) != 0 {
		t.Errorf("Expected no download recorded, got %v", index.downloads)
	}
}

func TestDownload_RejectsBadInput(t *testing.T) {
	d := NewDownloader(t.TempDir(), newFakeIndex(), nil)

	if _, err := d.Download(context.Background(), nil, "http://example.com"); err == nil {
		t.Error("Expected error for nil track")
	}
	if _, err := d.Download(context.Background(), &domain.Track{ID: "t1"}, ""); err == nil {
		t.Error("Expected error for empty url")
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"clean name untouched", "The Beatles - Yesterday", "The Beatles - Yesterday"},
		{"invalid chars removed", `AC/DC: "Back\In|Black?"`, "ACDC BackInBlack"},
		{"trailing dots trimmed", "What Is Love...", "What Is Love"},
		{"trailing spaces trimmed", "Song  ", "Song"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.input); got != tt.expected {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFileName_ContentTypes(t *testing.T) {
	track := &domain.Track{Name: "Yesterday", Artists: []domain.Artist{{Name: "The Beatles"}}}

	tests := []struct {
		contentType string
		expected    string
	}{
		{"audio/mpeg", "The Beatles - Yesterday.mp3"},
		{"audio/mp4", "The Beatles - Yesterday.m4a"},
		{"audio/webm; codecs=opus", "The Beatles - Yesterday.webm"},
		{"", "The Beatles - Yesterday.m4a"},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			if got := FileName(track, tt.contentType); got != tt.expected {
				t.Errorf("FileName(%q) = %q, want %q", tt.contentType, got, tt.expected)
			}
		})
	}
}
