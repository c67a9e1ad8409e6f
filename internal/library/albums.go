package library

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/orpheus-player/orpheus/internal/constants"
	"github.com/orpheus-player/orpheus/internal/domain"
)

// FindOrCreateAlbum reconciles catalog album metadata into a persisted
// row and returns the row id. Tracks with no known album are anchored to
// the fallback album so the favorites flow never needs a nullable join.
func (s *Store) FindOrCreateAlbum(album *domain.Album) (string, error) {
	var id string
	err := s.withTx(func(tx *sqlx.Tx) error {
		var txErr error
		id, txErr = s.findOrCreateAlbum(tx, album)
		return txErr
	})
	return id, err
}

func (s *Store) findOrCreateAlbum(ext sqlx.Ext, album *domain.Album) (string, error) {
	if album == nil || album.ID == "" {
		if err := s.ensureFallbackAlbum(ext); err != nil {
			return "", err
		}
		return constants.FallbackAlbumID, nil
	}

	var existing albumRow
	err := sqlx.Get(ext, &existing,
		`SELECT id, name, album_type, images, release_date, total_tracks FROM albums WHERE id = ?`, album.ID)
	if errors.Is(err, sql.ErrNoRows) {
		row := albumToRow(album)
		_, err = ext.Exec(
			`INSERT INTO albums (id, name, album_type, images, release_date, total_tracks) VALUES (?, ?, ?, ?, ?, ?)`,
			row.ID, row.Name, row.AlbumType, row.Images, row.ReleaseDate, row.TotalTracks)
		if err != nil {
			return "", fmt.Errorf("failed to create album %s: %w", album.ID, err)
		}
		return album.ID, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up album %s: %w", album.ID, err)
	}

	merged := mergeAlbum(existing, album)
	_, err = ext.Exec(
		`UPDATE albums SET name = ?, album_type = ?, images = ?, release_date = ?, total_tracks = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		merged.Name, merged.AlbumType, merged.Images, merged.ReleaseDate, merged.TotalTracks, merged.ID)
	if err != nil {
		return "", fmt.Errorf("failed to update album %s: %w", album.ID, err)
	}
	return album.ID, nil
}

// mergeAlbum folds newly known fields into the existing row without
// discarding previously known fields the new data omits.
func mergeAlbum(existing albumRow, incoming *domain.Album) albumRow {
	if incoming.Name != "" {
		existing.Name = incoming.Name
	}
	if incoming.AlbumType != "" {
		existing.AlbumType = string(incoming.AlbumType)
	}
	if len(incoming.Images) > 0 {
		existing.Images = incoming.Images
	}
	if incoming.ReleaseDate != "" {
		existing.ReleaseDate = nullString(incoming.ReleaseDate)
	}
	if incoming.TotalTracks > 0 {
		existing.TotalTracks = incoming.TotalTracks
	}
	return existing
}

func (s *Store) ensureFallbackAlbum(ext sqlx.Ext) error {
	_, err := ext.Exec(
		`INSERT OR IGNORE INTO albums (id, name, album_type) VALUES (?, ?, ?)`,
		constants.FallbackAlbumID, "Favorites", string(domain.AlbumTypeCompilation))
	if err != nil {
		return fmt.Errorf("failed to ensure fallback album: %w", err)
	}
	return nil
}

// GetAlbum returns a persisted album with its credited artists.
func (s *Store) GetAlbum(id string) (*domain.Album, error) {
	var row albumRow
	err := s.db.Get(&row,
		`SELECT id, name, album_type, images, release_date, total_tracks FROM albums WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get album %s: %w", id, err)
	}

	album := row.toDomain()

	var artistRows []artistRow
	err = s.db.Select(&artistRows,
		`SELECT a.id, a.name, a.external_uri, a.images, a.source
		 FROM artists a JOIN album_artists aa ON aa.artist_id = a.id
		 WHERE aa.album_id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get album artists for %s: %w", id, err)
	}
	for _, ar := range artistRows {
		album.Artists = append(album.Artists, ar.toDomain())
	}
	return &album, nil
}
