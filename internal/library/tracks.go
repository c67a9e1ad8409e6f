package library

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/orpheus-player/orpheus/internal/constants"
	"github.com/orpheus-player/orpheus/internal/domain"
)

// ErrTrackWithoutID rejects DTOs that cannot be reconciled.
var ErrTrackWithoutID = errors.New("library: track has no id")

// findOrCreateTrack resolves a DTO to a persisted row id, looking up by
// external URI first, then by primary id, creating the row only when both
// lookups miss. The album and artist cascade runs here so a track row is
// never orphaned from its credits.
func (s *Store) findOrCreateTrack(ext sqlx.Ext, track *domain.Track) (string, error) {
	if id, ok := s.resolveTrackID(ext, track); ok {
		return id, nil
	}
	if track.ID == "" {
		return "", ErrTrackWithoutID
	}

	albumID, err := s.findOrCreateAlbum(ext, track.Album)
	if err != nil {
		return "", err
	}

	row := trackToRow(track, albumID)
	_, err = ext.Exec(
		`INSERT INTO tracks (id, name, duration_ms, external_uri, explicit, album_id) VALUES (?, ?, ?, ?, ?, ?)`,
		row.ID, row.Name, row.DurationMs, row.ExternalURI, row.Explicit, row.AlbumID)
	if err != nil {
		return "", fmt.Errorf("failed to create track %s: %w", track.ID, err)
	}

	artists := track.Artists
	if len(artists) == 0 {
		// No credits at all: anchor the track to the synthetic unknown
		// artist so relational queries keep working.
		artists = []domain.Artist{{
			ID:     constants.FallbackArtistID,
			Name:   constants.FallbackArtistName,
			Source: domain.ArtistSourceSynthetic,
		}}
	}
	if err := s.upsertArtists(ext, artists, track.ID, albumID); err != nil {
		return "", err
	}

	return track.ID, nil
}

// resolveTrackID locates an existing row for a DTO: external URI first,
// then primary id. Lookup failures degrade to "absent".
func (s *Store) resolveTrackID(ext sqlx.Ext, track *domain.Track) (string, bool) {
	if track == nil {
		return "", false
	}

	var id string
	if track.ExternalURI != "" {
		err := sqlx.Get(ext, &id, `SELECT id FROM tracks WHERE external_uri = ?`, track.ExternalURI)
		if err == nil {
			return id, true
		}
		if !errors.Is(err, sql.ErrNoRows) {
			s.log.Warn("track lookup by external uri failed", "uri", track.ExternalURI, "error", err)
		}
	}

	if track.ID != "" {
		err := sqlx.Get(ext, &id, `SELECT id FROM tracks WHERE id = ?`, track.ID)
		if err == nil {
			return id, true
		}
		if !errors.Is(err, sql.ErrNoRows) {
			s.log.Warn("track lookup by id failed", "id", track.ID, "error", err)
		}
	}

	return "", false
}

// GetTrack returns a persisted track assembled with its album and artist
// credits.
func (s *Store) GetTrack(id string) (*domain.Track, error) {
	var row trackRow
	err := s.db.Get(&row,
		`SELECT id, name, duration_ms, external_uri, explicit, album_id, lyrics FROM tracks WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get track %s: %w", id, err)
	}
	return s.assembleTrack(row)
}

func (s *Store) assembleTrack(row trackRow) (*domain.Track, error) {
	track := row.toDomain()

	if row.AlbumID.Valid && row.AlbumID.String != "" {
		album, err := s.GetAlbum(row.AlbumID.String)
		if err == nil {
			track.Album = album
		} else {
			s.log.Warn("failed to load album for track", "track_id", row.ID, "album_id", row.AlbumID.String, "error", err)
		}
	}

	var artistRows []artistRow
	err := s.db.Select(&artistRows,
		`SELECT a.id, a.name, a.external_uri, a.images, a.source
		 FROM artists a JOIN artist_tracks at ON at.artist_id = a.id
		 WHERE at.track_id = ?`, row.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load artists for track %s: %w", row.ID, err)
	}
	for _, ar := range artistRows {
		track.Artists = append(track.Artists, ar.toDomain())
	}

	return &track, nil
}

// GetLyrics reads the cached lyrics column; empty means not cached.
func (s *Store) GetLyrics(trackID string) (string, error) {
	var lyrics sql.NullString
	err := s.db.Get(&lyrics, `SELECT lyrics FROM tracks WHERE id = ?`, trackID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read lyrics for %s: %w", trackID, err)
	}
	return lyrics.String, nil
}

// SetLyrics writes lyrics through to the track row.
func (s *Store) SetLyrics(trackID, lyrics string) error {
	result, err := s.db.Exec(
		`UPDATE tracks SET lyrics = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, lyrics, trackID)
	if err != nil {
		return fmt.Errorf("failed to set lyrics for %s: %w", trackID, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("track %s not found", trackID)
	}
	return nil
}

// SaveTrack persists a DTO outside the favorites flow (e.g. before
// recording a download).
func (s *Store) SaveTrack(track *domain.Track) (string, error) {
	if track == nil {
		return "", ErrTrackWithoutID
	}
	var id string
	err := s.withTx(func(tx *sqlx.Tx) error {
		var txErr error
		id, txErr = s.findOrCreateTrack(tx, track)
		return txErr
	})
	return id, err
}
