package player

import (
	"context"
	"fmt"
	"sync"

	"github.com/orpheus-player/orpheus/internal/domain"
	"github.com/orpheus-player/orpheus/internal/logger"
	"github.com/orpheus-player/orpheus/internal/resolver"
)

// audioResolver is the slice of the resolution engine the session needs.
type audioResolver interface {
	GetAudioURL(ctx context.Context, track *domain.Track) (string, error)
}

// stateStore persists playback state and answers offline-cache lookups.
type stateStore interface {
	GetDownload(trackID string) (*domain.Download, error)
	SavePlaybackState(state *domain.PlaybackState) error
}

// Session coordinates one device's playback: resolve a stream for the
// selected track, guard against stale resolutions, drive the engine, and
// persist playback state on pause and stop.
type Session struct {
	resolver audioResolver
	store    stateStore
	engine   Engine
	log      *logger.Logger

	mu sync.Mutex
	// desiredTrackID is the track the user most recently asked for.
	// A resolution that finishes after the user moved on is discarded.
	desiredTrackID string
	queue          domain.StringSlice
	repeatMode     domain.RepeatMode
	audioNotFound  bool
}

func NewSession(res audioResolver, store stateStore, engine Engine, log *logger.Logger) *Session {
	if log == nil {
		log = logger.Default()
	}
	return &Session{
		resolver: res,
		store:    store,
		engine:   engine,
		log:      log.WithComponent("player"),
	}
}

// Play resolves and starts the given track. A downloaded copy wins over
// network resolution. When no audio can be found the session records a
// transient not-found state and returns nil; the next successful play
// clears it.
func (s *Session) Play(ctx context.Context, track *domain.Track) error {
	if track == nil {
		return fmt.Errorf("player: nil track")
	}

	s.mu.Lock()
	s.desiredTrackID = track.ID
	s.mu.Unlock()

	url, err := s.locateAudio(ctx, track)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.desiredTrackID != track.ID {
		s.mu.Unlock()
		s.log.Info("discarding stale resolution", "track_id", track.ID)
		return nil
	}
	if url == resolver.NotFound {
		s.audioNotFound = true
		s.mu.Unlock()
		s.log.Warn("audio not found", "track_id", track.ID, "track", track.Name)
		return nil
	}
	s.audioNotFound = false
	s.mu.Unlock()

	if err := s.engine.Reset(); err != nil {
		return fmt.Errorf("engine reset: %w", err)
	}
	if err := s.engine.Add(Descriptor{
		TrackID: track.ID,
		Title:   track.Name,
		Artist:  track.PrimaryArtist(),
		URL:     url,
	}); err != nil {
		return fmt.Errorf("engine add: %w", err)
	}
	if err := s.engine.Play(); err != nil {
		return fmt.Errorf("engine play: %w", err)
	}

	s.log.Info("playing", "track_id", track.ID, "track", track.Name)
	return nil
}

func (s *Session) locateAudio(ctx context.Context, track *domain.Track) (string, error) {
	if download, err := s.store.GetDownload(track.ID); err == nil && download != nil {
		s.log.Debug("using downloaded copy", "track_id", track.ID, "path", download.FilePath)
		return download.FilePath, nil
	}
	return s.resolver.GetAudioURL(ctx, track)
}

// Pause pauses the engine and persists the playback state.
func (s *Session) Pause() error {
	if err := s.engine.Pause(); err != nil {
		return fmt.Errorf("engine pause: %w", err)
	}
	s.persistState()
	return nil
}

// Stop stops the engine and persists the playback state.
func (s *Session) Stop() error {
	if err := s.engine.Stop(); err != nil {
		return fmt.Errorf("engine stop: %w", err)
	}
	s.persistState()
	return nil
}

func (s *Session) SeekTo(ms int) error          { return s.engine.SeekTo(ms) }
func (s *Session) SkipToNext() error            { return s.engine.SkipToNext() }
func (s *Session) SkipToPrevious() error        { return s.engine.SkipToPrevious() }

func (s *Session) SetRepeatMode(mode domain.RepeatMode) error {
	if err := s.engine.SetRepeatMode(mode); err != nil {
		return err
	}
	s.mu.Lock()
	s.repeatMode = mode
	s.mu.Unlock()
	return nil
}

// SetQueue records the ids the UI queued, for state persistence.
func (s *Session) SetQueue(trackIDs []string) {
	s.mu.Lock()
	s.queue = append(domain.StringSlice(nil), trackIDs...)
	s.mu.Unlock()
}

// AudioNotFound reports the transient not-found state from the last play
// attempt.
func (s *Session) AudioNotFound() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.audioNotFound
}

// State snapshots the current playback state.
func (s *Session) State() *domain.PlaybackState {
	s.mu.Lock()
	queue := append(domain.StringSlice(nil), s.queue...)
	repeat := s.repeatMode
	s.mu.Unlock()

	if repeat == "" {
		repeat = domain.RepeatModeOff
	}
	state := &domain.PlaybackState{
		Queue:      queue,
		ProgressMs: s.engine.ProgressMs(),
		RepeatMode: repeat,
	}
	if active, ok := s.engine.ActiveTrack(); ok {
		state.CurrentTrackID = active.TrackID
	}
	return state
}

// persistState is best-effort: losing one snapshot only costs resume
// position, never playback itself.
func (s *Session) persistState() {
	if err := s.store.SavePlaybackState(s.State()); err != nil {
		s.log.Warn("failed to persist playback state", "error", err)
	}
}
