package library

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/orpheus-player/orpheus/internal/constants"
	"github.com/orpheus-player/orpheus/internal/domain"
)

// ErrNilTrack rejects favorite operations on a nil DTO.
var ErrNilTrack = errors.New("library: nil track")

// ToggleFavorite flips a track's membership in the Favorites playlist and
// returns the new state. The playlist and its implicit local owner are
// created lazily on first use; the track row and its album/artist cascade
// are created if the track was never persisted before. The whole sequence
// runs in one transaction, and every step re-checks current state, so a
// previously interrupted toggle self-heals on the next attempt.
func (s *Store) ToggleFavorite(track *domain.Track) (bool, error) {
	if track == nil {
		return false, ErrNilTrack
	}

	var favorited bool
	err := s.withTx(func(tx *sqlx.Tx) error {
		playlistID, err := s.ensureFavoritesPlaylist(tx)
		if err != nil {
			return err
		}

		trackID, err := s.findOrCreateTrack(tx, track)
		if err != nil {
			return err
		}

		var count int
		err = tx.Get(&count,
			`SELECT COUNT(*) FROM playlist_tracks WHERE playlist_id = ? AND track_id = ?`,
			playlistID, trackID)
		if err != nil {
			return fmt.Errorf("failed to check favorite link: %w", err)
		}

		if count > 0 {
			_, err = tx.Exec(
				`DELETE FROM playlist_tracks WHERE playlist_id = ? AND track_id = ?`,
				playlistID, trackID)
			if err != nil {
				return fmt.Errorf("failed to remove favorite link: %w", err)
			}
			favorited = false
			return nil
		}

		_, err = tx.Exec(
			`INSERT INTO playlist_tracks (playlist_id, track_id, created_at) VALUES (?, ?, ?)`,
			playlistID, trackID, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("failed to create favorite link: %w", err)
		}
		favorited = true
		return nil
	})
	if err != nil {
		return false, err
	}

	s.log.Info("favorite toggled", "track_id", track.ID, "favorited", favorited)
	return favorited, nil
}

// IsFavorite reports whether the track is in the Favorites playlist. Any
// resolution failure, including the playlist not existing yet, degrades to
// false rather than an error.
func (s *Store) IsFavorite(track *domain.Track) bool {
	if track == nil {
		return false
	}

	playlistID, ok := s.favoritesPlaylistID(s.db)
	if !ok {
		return false
	}
	trackID, ok := s.resolveTrackID(s.db, track)
	if !ok {
		return false
	}

	var count int
	err := s.db.Get(&count,
		`SELECT COUNT(*) FROM playlist_tracks WHERE playlist_id = ? AND track_id = ?`,
		playlistID, trackID)
	if err != nil {
		s.log.Warn("favorite status lookup failed", "track_id", trackID, "error", err)
		return false
	}
	return count > 0
}

// ListFavorites returns the favorited tracks, most recently favorited
// first.
func (s *Store) ListFavorites() ([]domain.Track, error) {
	playlistID, ok := s.favoritesPlaylistID(s.db)
	if !ok {
		return []domain.Track{}, nil
	}

	var rows []trackRow
	err := s.db.Select(&rows,
		`SELECT t.id, t.name, t.duration_ms, t.external_uri, t.explicit, t.album_id, t.lyrics
		 FROM tracks t JOIN playlist_tracks pt ON pt.track_id = t.id
		 WHERE pt.playlist_id = ?
		 ORDER BY pt.created_at DESC`, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}

	tracks := make([]domain.Track, 0, len(rows))
	for _, row := range rows {
		track, err := s.assembleTrack(row)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, *track)
	}
	return tracks, nil
}

// ensureFavoritesPlaylist locates the Favorites playlist by name, creating
// it (and the implicit local user that owns it) on first use.
func (s *Store) ensureFavoritesPlaylist(ext sqlx.Ext) (string, error) {
	if id, ok := s.favoritesPlaylistID(ext); ok {
		return id, nil
	}

	ownerID, err := s.ensureLocalUser(ext)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	_, err = ext.Exec(
		`INSERT INTO playlists (id, name, description, owner_id) VALUES (?, ?, ?, ?)`,
		id, constants.FavoritesPlaylistName, "Tracks you favorited", ownerID)
	if err != nil {
		return "", fmt.Errorf("failed to create favorites playlist: %w", err)
	}
	s.log.Info("created favorites playlist", "playlist_id", id)
	return id, nil
}

func (s *Store) favoritesPlaylistID(ext sqlx.Ext) (string, bool) {
	var id string
	err := sqlx.Get(ext, &id, `SELECT id FROM playlists WHERE name = ?`, constants.FavoritesPlaylistName)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.log.Warn("favorites playlist lookup failed", "error", err)
		}
		return "", false
	}
	return id, true
}

// ensureLocalUser returns the implicit local user, creating it on first
// use. There is exactly one; it exists only to own locally created
// playlists.
func (s *Store) ensureLocalUser(ext sqlx.Ext) (string, error) {
	var id string
	err := sqlx.Get(ext, &id, `SELECT id FROM users WHERE username = ?`, constants.DefaultUsername)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("failed to look up local user: %w", err)
	}

	id = uuid.NewString()
	_, err = ext.Exec(
		`INSERT INTO users (id, username, display_name) VALUES (?, ?, ?)`,
		id, constants.DefaultUsername, constants.DefaultDisplayName)
	if err != nil {
		return "", fmt.Errorf("failed to create local user: %w", err)
	}
	return id, nil
}
