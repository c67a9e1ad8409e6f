package library

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/orpheus-player/orpheus/internal/constants"
	"github.com/orpheus-player/orpheus/internal/domain"
)

// SavePlaybackState persists the device playback state. Callers write it
// on pause or exit, not continuously.
func (s *Store) SavePlaybackState(state *domain.PlaybackState) error {
	if state == nil {
		return errors.New("library: nil playback state")
	}

	repeatMode := string(state.RepeatMode)
	if repeatMode == "" {
		repeatMode = string(domain.RepeatModeOff)
	}

	_, err := s.db.Exec(
		`INSERT INTO playback_state (id, current_track_id, queue, shuffle, repeat_mode, progress_ms, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(id) DO UPDATE SET
			current_track_id = excluded.current_track_id,
			queue = excluded.queue,
			shuffle = excluded.shuffle,
			repeat_mode = excluded.repeat_mode,
			progress_ms = excluded.progress_ms,
			updated_at = CURRENT_TIMESTAMP`,
		constants.PlaybackStateID,
		nullString(state.CurrentTrackID),
		state.Queue,
		state.Shuffle,
		repeatMode,
		state.ProgressMs)
	if err != nil {
		return fmt.Errorf("failed to save playback state: %w", err)
	}
	return nil
}

// LoadPlaybackState returns the persisted device state, or nil when none
// was ever saved.
func (s *Store) LoadPlaybackState() (*domain.PlaybackState, error) {
	var row playbackStateRow
	err := s.db.Get(&row,
		`SELECT id, current_track_id, queue, shuffle, repeat_mode, progress_ms FROM playback_state WHERE id = ?`,
		constants.PlaybackStateID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load playback state: %w", err)
	}

	return &domain.PlaybackState{
		CurrentTrackID: row.CurrentTrackID.String,
		Queue:          row.Queue,
		Shuffle:        row.Shuffle,
		RepeatMode:     domain.RepeatMode(row.RepeatMode),
		ProgressMs:     row.ProgressMs,
	}, nil
}
