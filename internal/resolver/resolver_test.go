package resolver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/orpheus-player/orpheus/internal/domain"
	"github.com/orpheus-player/orpheus/internal/mirror"
)

func yesterdayTrack() *domain.Track {
	return &domain.Track{
		ID:         "track-1",
		Name:       "Yesterday",
		DurationMs: 125000,
		Artists:    []domain.Artist{{Name: "Beatles"}},
	}
}

// newMirror serves the two endpoints a resolution pass hits.
func newMirror(t *testing.T, searchBody, videoBody string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/api/v1/search":
			_, _ = w.Write([]byte(searchBody))
		case strings.HasPrefix(r.URL.Path, "/api/v1/videos/"):
			_, _ = w.Write([]byte(videoBody))
		default:
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
	}))
}

func TestGetAudioURL_DurationDisambiguation(t *testing.T) {
	// 125000ms rounds to 125s; candidate "a" (90s) is out of tolerance,
	// candidate "b" (127s) is within ±10s and must win.
	search := `[
		{"videoId": "a", "title": "Yesterday cover", "lengthSeconds": 90},
		{"videoId": "b", "title": "Yesterday", "lengthSeconds": 127}
	]`
	video := `{"adaptiveFormats": [{"itag": "140", "bitrate": "128000", "type": "audio/mp4", "url": "https://cdn.example.com/audio/b"}]}`

	var requestedVideo string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/api/v1/search":
			_, _ = w.Write([]byte(search))
		case strings.HasPrefix(r.URL.Path, "/api/v1/videos/"):
			requestedVideo = strings.TrimPrefix(r.URL.Path, "/api/v1/videos/")
			_, _ = w.Write([]byte(video))
		}
	}))
	defer server.Close()

	r := New(mirror.NewPool([]string{server.URL}, nil, nil), nil)
	got, err := r.GetAudioURL(context.Background(), yesterdayTrack())
	if err != nil {
		t.Fatalf("GetAudioURL failed: %v", err)
	}
	if requestedVideo != "b" {
		t.Errorf("Expected candidate b selected, streams requested for %q", requestedVideo)
	}
	if got != "https://cdn.example.com/audio/b" {
		t.Errorf("Unexpected URL: %s", got)
	}
}

func TestGetAudioURL_FallsBackToFirstCandidate(t *testing.T) {
	search := `[
		{"videoId": "x", "title": "Something else", "lengthSeconds": 400},
		{"videoId": "y", "title": "Way off", "lengthSeconds": 500}
	]`
	video := `{"adaptiveFormats": [{"itag": "140", "bitrate": "128000", "type": "audio/mp4", "url": "https://cdn.example.com/audio"}]}`

	var requestedVideo string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/api/v1/search":
			_, _ = w.Write([]byte(search))
		case strings.HasPrefix(r.URL.Path, "/api/v1/videos/"):
			requestedVideo = strings.TrimPrefix(r.URL.Path, "/api/v1/videos/")
			_, _ = w.Write([]byte(video))
		}
	}))
	defer server.Close()

	r := New(mirror.NewPool([]string{server.URL}, nil, nil), nil)
	if _, err := r.GetAudioURL(context.Background(), yesterdayTrack()); err != nil {
		t.Fatalf("GetAudioURL failed: %v", err)
	}
	if requestedVideo != "x" {
		t.Errorf("Expected fallback to index 0, streams requested for %q", requestedVideo)
	}
}

func TestGetAudioURL_QueryTooShort(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Short queries must not reach the network")
	}))
	defer server.Close()

	r := New(mirror.NewPool([]string{server.URL}, nil, nil), nil)
	track := &domain.Track{ID: "t", Name: "!!", DurationMs: 1000}

	got, err := r.GetAudioURL(context.Background(), track)
	if err != nil {
		t.Fatalf("GetAudioURL failed: %v", err)
	}
	if got != NotFound {
		t.Errorf("Expected sentinel, got %q", got)
	}
}

func TestGetAudioURL_NilTrack(t *testing.T) {
	r := New(mirror.NewPool(nil, nil, nil), nil)
	if _, err := r.GetAudioURL(context.Background(), nil); !errors.Is(err, ErrNilTrack) {
		t.Errorf("Expected ErrNilTrack, got: %v", err)
	}
}

func TestGetAudioURL_AllMirrorsFailReturnsSentinel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	r := New(mirror.NewPool([]string{server.URL, server.URL}, nil, nil), nil)
	got, err := r.GetAudioURL(context.Background(), yesterdayTrack())
	if err != nil {
		t.Fatalf("Expected sentinel rather than error, got: %v", err)
	}
	if got != NotFound {
		t.Errorf("Expected sentinel, got %q", got)
	}
}

func TestGetAudioURL_SearchFallsThroughMirrors(t *testing.T) {
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer dead.Close()

	alive := newMirror(t,
		`[{"videoId": "v1", "title": "Yesterday", "lengthSeconds": 125}]`,
		`{"adaptiveFormats": [{"itag": "140", "bitrate": "128000", "type": "audio/mp4", "url": "https://cdn.example.com/v1"}]}`,
	)
	defer alive.Close()

	r := New(mirror.NewPool([]string{dead.URL, alive.URL}, nil, nil), nil)
	got, err := r.GetAudioURL(context.Background(), yesterdayTrack())
	if err != nil {
		t.Fatalf("GetAudioURL failed: %v", err)
	}
	if got != "https://cdn.example.com/v1" {
		t.Errorf("Expected result from the second mirror, got %q", got)
	}
}

func TestGetAudioURL_EmptyCandidateIDsSkipped(t *testing.T) {
	search := `[
		{"videoId": "", "title": "Phantom", "lengthSeconds": 125},
		{"videoId": "real", "title": "Yesterday", "lengthSeconds": 125}
	]`
	video := `{"adaptiveFormats": [{"itag": "140", "bitrate": "128000", "type": "audio/mp4", "url": "https://cdn.example.com/real"}]}`

	var requestedVideo string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/api/v1/search":
			_, _ = w.Write([]byte(search))
		case strings.HasPrefix(r.URL.Path, "/api/v1/videos/"):
			requestedVideo = strings.TrimPrefix(r.URL.Path, "/api/v1/videos/")
			_, _ = w.Write([]byte(video))
		}
	}))
	defer server.Close()

	r := New(mirror.NewPool([]string{server.URL}, nil, nil), nil)
	if _, err := r.GetAudioURL(context.Background(), yesterdayTrack()); err != nil {
		t.Fatalf("GetAudioURL failed: %v", err)
	}
	if requestedVideo != "real" {
		t.Errorf("Expected the empty-id candidate skipped, streams requested for %q", requestedVideo)
	}
}

func TestGetAudioURL_CombinedStreamFallback(t *testing.T) {
	server := newMirror(t,
		`[{"videoId": "v1", "title": "Yesterday", "lengthSeconds": 125}]`,
		`{
			"adaptiveFormats": [{"itag": "137", "bitrate": "4000000", "type": "video/mp4", "url": "https://cdn.example.com/videoonly"}],
			"formatStreams": [{"itag": "18", "bitrate": "96000", "type": "video/mp4", "url": "https://cdn.example.com/combined"}]
		}`,
	)
	defer server.Close()

	r := New(mirror.NewPool([]string{server.URL}, nil, nil), nil)
	got, err := r.GetAudioURL(context.Background(), yesterdayTrack())
	if err != nil {
		t.Fatalf("GetAudioURL failed: %v", err)
	}
	if got != "https://cdn.example.com/combined" {
		t.Errorf("Expected combined stream fallback, got %q", got)
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name     string
		source   streamSource
		expected string
	}{
		{
			"absolute url used as-is",
			streamSource{endpoint: "https://inv.example.com", videoID: "v1", format: mediaFormat{Itag: "140", URL: "https://cdn.example.com/a"}},
			"https://cdn.example.com/a",
		},
		{
			"root-relative prefixed with mirror origin",
			streamSource{endpoint: "https://inv.example.com", videoID: "v1", format: mediaFormat{Itag: "140", URL: "/videoplayback?x=1"}},
			"https://inv.example.com/videoplayback?x=1",
		},
		{
			"bare host gets https",
			streamSource{endpoint: "https://inv.example.com", videoID: "v1", format: mediaFormat{Itag: "140", URL: "cdn.example.com/a"}},
			"https://cdn.example.com/a",
		},
		{
			"googlevideo rewritten to local proxy",
			streamSource{endpoint: "https://inv.example.com", videoID: "v1", format: mediaFormat{Itag: "251", URL: "https://rr3---sn-abc.googlevideo.com/videoplayback?expire=123"}},
			"https://inv.example.com/latest_version?id=v1&itag=251&local=true",
		},
		{
			"googlevideo without itag left alone",
			streamSource{endpoint: "https://inv.example.com", videoID: "v1", format: mediaFormat{URL: "https://rr3---sn-abc.googlevideo.com/videoplayback"}},
			"https://rr3---sn-abc.googlevideo.com/videoplayback",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeURL(tt.source); got != tt.expected {
				t.Errorf("normalizeURL() = %q, want %q", got, tt.expected)
			}
		})
	}
}
