package library

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/orpheus-player/orpheus/internal/constants"
	"github.com/orpheus-player/orpheus/internal/domain"
)

// UpsertArtists reconciles artist credits into persisted rows and ensures
// the album↔artist and artist↔track links exist. The album link is skipped
// for the fallback album, which anchors ad-hoc favorites and carries no
// real credits.
func (s *Store) UpsertArtists(artists []domain.Artist, trackID, albumID string) error {
	return s.withTx(func(tx *sqlx.Tx) error {
		return s.upsertArtists(tx, artists, trackID, albumID)
	})
}

func (s *Store) upsertArtists(ext sqlx.Ext, artists []domain.Artist, trackID, albumID string) error {
	for _, artist := range artists {
		if artist.ID == "" {
			continue
		}
		if err := s.findOrCreateArtist(ext, artist); err != nil {
			return err
		}

		if albumID != "" && albumID != constants.FallbackAlbumID {
			if err := ensureLink(ext,
				`SELECT COUNT(*) FROM album_artists WHERE album_id = ? AND artist_id = ?`,
				`INSERT INTO album_artists (album_id, artist_id) VALUES (?, ?)`,
				albumID, artist.ID); err != nil {
				return fmt.Errorf("failed to link album %s to artist %s: %w", albumID, artist.ID, err)
			}
		}

		if trackID != "" {
			if err := ensureLink(ext,
				`SELECT COUNT(*) FROM artist_tracks WHERE artist_id = ? AND track_id = ?`,
				`INSERT INTO artist_tracks (artist_id, track_id) VALUES (?, ?)`,
				artist.ID, trackID); err != nil {
				return fmt.Errorf("failed to link artist %s to track %s: %w", artist.ID, trackID, err)
			}
		}
	}
	return nil
}

func (s *Store) findOrCreateArtist(ext sqlx.Ext, artist domain.Artist) error {
	var existing artistRow
	err := sqlx.Get(ext, &existing,
		`SELECT id, name, external_uri, images, source FROM artists WHERE id = ?`, artist.ID)
	if errors.Is(err, sql.ErrNoRows) {
		row := artistToRow(artist)
		_, err = ext.Exec(
			`INSERT INTO artists (id, name, external_uri, images, source) VALUES (?, ?, ?, ?, ?)`,
			row.ID, row.Name, row.ExternalURI, row.Images, row.Source)
		if err != nil {
			return fmt.Errorf("failed to create artist %s: %w", artist.ID, err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up artist %s: %w", artist.ID, err)
	}

	// A synthetic credit carries no catalog data worth keeping; it must
	// never overwrite fields of an artist the catalog has already named.
	if artist.Source == domain.ArtistSourceSynthetic {
		return nil
	}

	merged := mergeArtist(existing, artist)
	_, err = ext.Exec(
		`UPDATE artists SET name = ?, external_uri = ?, images = ?, source = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		merged.Name, merged.ExternalURI, merged.Images, merged.Source, merged.ID)
	if err != nil {
		return fmt.Errorf("failed to update artist %s: %w", artist.ID, err)
	}
	return nil
}

func mergeArtist(existing artistRow, incoming domain.Artist) artistRow {
	if incoming.Name != "" {
		existing.Name = incoming.Name
	}
	if incoming.ExternalURI != "" {
		existing.ExternalURI = nullString(incoming.ExternalURI)
	}
	if len(incoming.Images) > 0 {
		existing.Images = incoming.Images
	}
	// A catalog sighting upgrades a previously synthetic row for good.
	existing.Source = string(domain.ArtistSourceCatalog)
	return existing
}

// ensureLink is the idempotent check-then-create for join rows; the unique
// index backstops it against races.
func ensureLink(ext sqlx.Ext, checkQuery, insertQuery string, a, b string) error {
	var count int
	if err := sqlx.Get(ext, &count, checkQuery, a, b); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	_, err := ext.Exec(insertQuery, a, b)
	return err
}

// GetArtist returns one persisted artist row.
func (s *Store) GetArtist(id string) (*domain.Artist, error) {
	var row artistRow
	err := s.db.Get(&row,
		`SELECT id, name, external_uri, images, source FROM artists WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get artist %s: %w", id, err)
	}
	artist := row.toDomain()
	return &artist, nil
}
