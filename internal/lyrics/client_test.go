package lyrics

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/orpheus-player/orpheus/internal/domain"
)

type fakeCache struct {
	lyrics map[string]string
	setErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{lyrics: map[string]string{}}
}

func (f *fakeCache) GetLyrics(trackID string) (string, error) {
	return f.lyrics[trackID], nil
}

func (f *fakeCache) SetLyrics(trackID, lyrics string) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.lyrics[trackID] = lyrics
	return nil
}

func testTrack() *domain.Track {
	return &domain.Track{
		ID:      "t1",
		Name:    "Yesterday",
		Artists: []domain.Artist{{Name: "The Beatles"}},
	}
}

func TestGetLyrics_FetchAndWriteThrough(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.URL.Path != "/v1/The Beatles/Yesterday" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"lyrics": "Yesterday, all my troubles seemed so far away"}`))
	}))
	defer server.Close()

	store := newFakeCache()
	c := NewClient(server.URL, store, nil)

	got, err := c.GetLyrics(context.Background(), testTrack())
	if err != nil {
		t.Fatalf("GetLyrics failed: %v", err)
	}
	if got == "" {
		t.Fatal("Expected lyrics")
	}
	if store.lyrics["t1"] != got {
		t.Error("Expected lyrics persisted write-through")
	}

	// Second call hits the cache, not the network.
	if _, err := c.GetLyrics(context.Background(), testTrack()); err != nil {
		t.Fatalf("Cached GetLyrics failed: %v", err)
	}
	if requests != 1 {
		t.Errorf("Expected 1 network request, got %d", requests)
	}
}

func TestGetLyrics_TrackFieldShortCircuits(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Cached lyrics on the DTO must not hit the network")
	}))
	defer server.Close()

	c := NewClient(server.URL, newFakeCache(), nil)
	track := testTrack()
	track.Lyrics = "already here"

	got, err := c.GetLyrics(context.Background(), track)
	if err != nil {
		t.Fatalf("GetLyrics failed: %v", err)
	}
	if got != "already here" {
		t.Errorf("Expected DTO lyrics, got %q", got)
	}
}

func TestGetLyrics_MissingIsEmptyNotError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := NewClient(server.URL, newFakeCache(), nil)
	got, err := c.GetLyrics(context.Background(), testTrack())
	if err != nil {
		t.Fatalf("Expected empty result, got error: %v", err)
	}
	if got != "" {
		t.Errorf("Expected empty lyrics, got %q", got)
	}
}

func TestGetLyrics_PersistFailureStillReturnsLyrics(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"lyrics": "some words"}`))
	}))
	defer server.Close()

	store := newFakeCache()
	store.setErr = fmt.Errorf("disk full")
	c := NewClient(server.URL, store, nil)

	got, err := c.GetLyrics(context.Background(), testTrack())
	if err != nil {
		t.Fatalf("GetLyrics failed: %v", err)
	}
	if got != "some words" {
		t.Errorf("Expected lyrics despite persist failure, got %q", got)
	}
}

func TestGetLyrics_NoArtistNoNetwork(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Tracks without an artist must not hit the network")
	}))
	defer server.Close()

	c := NewClient(server.URL, newFakeCache(), nil)
	got, err := c.GetLyrics(context.Background(), &domain.Track{ID: "t1", Name: "Yesterday"})
	if err != nil {
		t.Fatalf("GetLyrics failed: %v", err)
	}
	if got != "" {
		t.Errorf("Expected empty lyrics, got %q", got)
	}
}
