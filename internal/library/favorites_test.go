package library

import (
	"testing"
	"time"

	"github.com/orpheus-player/orpheus/internal/constants"
	"github.com/orpheus-player/orpheus/internal/domain"
)

func sampleTrack(id, name string) *domain.Track {
	return &domain.Track{
		ID:          id,
		Name:        name,
		DurationMs:  125000,
		ExternalURI: "https://catalog.example/track/" + id,
		Album:       &domain.Album{ID: "album-" + id, Name: name + " Album"},
		Artists:     []domain.Artist{{ID: "artist-1", Name: "The Beatles", Source: domain.ArtistSourceCatalog}},
	}
}

func TestToggleFavorite_Involution(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	track := sampleTrack("t1", "Yesterday")

	on, err := store.ToggleFavorite(track)
	if err != nil {
		t.Fatalf("First toggle failed: %v", err)
	}
	if !on {
		t.Error("First toggle should favorite")
	}

	off, err := store.ToggleFavorite(track)
	if err != nil {
		t.Fatalf("Second toggle failed: %v", err)
	}
	if off {
		t.Error("Second toggle should un-favorite")
	}

	var links int
	if err := store.db.Get(&links, `SELECT COUNT(*) FROM playlist_tracks`); err != nil {
		t.Fatal(err)
	}
	if links != 0 {
		t.Errorf("Expected zero links after involution, got %d", links)
	}
}

func TestToggleFavorite_AtMostOneLink(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	track := sampleTrack("t1", "Yesterday")
	for i := 0; i < 5; i++ {
		if _, err := store.ToggleFavorite(track); err != nil {
			t.Fatalf("Toggle %d failed: %v", i+1, err)
		}
	}

	var links int
	if err := store.db.Get(&links, `SELECT COUNT(*) FROM playlist_tracks`); err != nil {
		t.Fatal(err)
	}
	if links > 1 {
		t.Errorf("Expected at most one link, got %d", links)
	}
}

func TestToggleFavorite_PlaylistAndUserCreatedOnce(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	for i := 0; i < 4; i++ {
		if _, err := store.ToggleFavorite(sampleTrack("t1", "Yesterday")); err != nil {
			t.Fatalf("Toggle %d failed: %v", i+1, err)
		}
	}
	if _, err := store.ToggleFavorite(sampleTrack("t2", "Blackbird")); err != nil {
		t.Fatalf("Toggle for second track failed: %v", err)
	}

	var playlists, users int
	if err := store.db.Get(&playlists, `SELECT COUNT(*) FROM playlists WHERE name = ?`, constants.FavoritesPlaylistName); err != nil {
		t.Fatal(err)
	}
	if err := store.db.Get(&users, `SELECT COUNT(*) FROM users`); err != nil {
		t.Fatal(err)
	}
	if playlists != 1 {
		t.Errorf("Expected one Favorites playlist, got %d", playlists)
	}
	if users != 1 {
		t.Errorf("Expected one local user, got %d", users)
	}
}

func TestToggleFavorite_ResolvesByExternalURI(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	track := sampleTrack("t1", "Yesterday")
	if _, err := store.ToggleFavorite(track); err != nil {
		t.Fatalf("First toggle failed: %v", err)
	}

	// The same recording seen again under a different catalog id but the
	// same external URI must resolve to the existing row.
	seenAgain := sampleTrack("t1-other", "Yesterday")
	seenAgain.ExternalURI = track.ExternalURI

	on, err := store.ToggleFavorite(seenAgain)
	if err != nil {
		t.Fatalf("Second toggle failed: %v", err)
	}
	if on {
		t.Error("Expected the second toggle to un-favorite the same row")
	}

	var trackCount int
	if err := store.db.Get(&trackCount, `SELECT COUNT(*) FROM tracks`); err != nil {
		t.Fatal(err)
	}
	if trackCount != 1 {
		t.Errorf("Expected one track row, got %d", trackCount)
	}
}

func TestToggleFavorite_NoArtistsGetsSyntheticCredit(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	track := &domain.Track{ID: "t1", Name: "Mystery Song"}
	if _, err := store.ToggleFavorite(track); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}

	got, err := store.GetTrack("t1")
	if err != nil {
		t.Fatalf("GetTrack failed: %v", err)
	}
	if len(got.Artists) != 1 {
		t.Fatalf("Expected one synthetic credit, got %d", len(got.Artists))
	}
	if got.Artists[0].ID != constants.FallbackArtistID {
		t.Errorf("Expected fallback artist, got %s", got.Artists[0].ID)
	}
	if got.Artists[0].Source != domain.ArtistSourceSynthetic {
		t.Errorf("Expected synthetic source, got %s", got.Artists[0].Source)
	}
	if got.Album == nil || got.Album.ID != constants.FallbackAlbumID {
		t.Errorf("Expected fallback album anchor, got %+v", got.Album)
	}
}

func TestIsFavorite(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	track := sampleTrack("t1", "Yesterday")

	// No playlist, no track yet: degrade to false, never error.
	if store.IsFavorite(track) {
		t.Error("Expected false before anything exists")
	}
	if store.IsFavorite(nil) {
		t.Error("Expected false for nil track")
	}

	if _, err := store.ToggleFavorite(track); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	if !store.IsFavorite(track) {
		t.Error("Expected true after favoriting")
	}

	if _, err := store.ToggleFavorite(track); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	if store.IsFavorite(track) {
		t.Error("Expected false after un-favoriting")
	}
}

func TestListFavorites_RecentFirst(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	if _, err := store.ToggleFavorite(sampleTrack("t1", "Yesterday")); err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, err := store.ToggleFavorite(sampleTrack("t2", "Blackbird")); err != nil {
		t.Fatal(err)
	}

	favorites, err := store.ListFavorites()
	if err != nil {
		t.Fatalf("ListFavorites failed: %v", err)
	}
	if len(favorites) != 2 {
		t.Fatalf("Expected 2 favorites, got %d", len(favorites))
	}
	if favorites[0].ID != "t2" || favorites[1].ID != "t1" {
		t.Errorf("Expected most recently favorited first, got %s then %s", favorites[0].ID, favorites[1].ID)
	}
	if favorites[0].PrimaryArtist() != "The Beatles" {
		t.Errorf("Expected artists assembled, got %+v", favorites[0].Artists)
	}
}

func TestListFavorites_EmptyWithoutPlaylist(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	favorites, err := store.ListFavorites()
	if err != nil {
		t.Fatalf("ListFavorites failed: %v", err)
	}
	if len(favorites) != 0 {
		t.Errorf("Expected no favorites, got %d", len(favorites))
	}
}
