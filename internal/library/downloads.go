package library

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/orpheus-player/orpheus/internal/domain"
)

// CreateDownload records a completed offline download for a track. The
// mapping is one-to-one; recording a new path for the same track replaces
// the old entry.
func (s *Store) CreateDownload(trackID, filePath string) error {
	if trackID == "" || filePath == "" {
		return errors.New("library: download needs a track id and file path")
	}

	_, err := s.db.Exec(
		`INSERT INTO downloads (track_id, file_path, completed_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(track_id) DO UPDATE SET file_path = excluded.file_path, completed_at = CURRENT_TIMESTAMP`,
		trackID, filePath)
	if err != nil {
		return fmt.Errorf("failed to record download for %s: %w", trackID, err)
	}
	return nil
}

// GetDownload returns the offline cache entry for a track, or nil when the
// track was never downloaded.
func (s *Store) GetDownload(trackID string) (*domain.Download, error) {
	var row downloadRow
	err := s.db.Get(&row, `SELECT track_id, file_path FROM downloads WHERE track_id = ?`, trackID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get download for %s: %w", trackID, err)
	}
	return &domain.Download{TrackID: row.TrackID, FilePath: row.FilePath}, nil
}

// DeleteDownload removes the offline cache entry for a track.
func (s *Store) DeleteDownload(trackID string) error {
	_, err := s.db.Exec(`DELETE FROM downloads WHERE track_id = ?`, trackID)
	if err != nil {
		return fmt.Errorf("failed to delete download for %s: %w", trackID, err)
	}
	return nil
}
