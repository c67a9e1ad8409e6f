// Package player adapts the device media pipeline behind a small consumed
// contract and coordinates play actions with resolution and persistence.
package player

import "github.com/orpheus-player/orpheus/internal/domain"

// Status is the engine's coarse playback state.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusPlaying Status = "playing"
	StatusPaused  Status = "paused"
	StatusStopped Status = "stopped"
)

// Descriptor is what the engine needs to play one item; the engine never
// sees domain rows.
type Descriptor struct {
	TrackID string
	Title   string
	Artist  string
	URL     string
}

// Engine is the consumed playback contract. Implementations wrap whatever
// media pipeline the host platform provides; this package never looks
// inside.
type Engine interface {
	Reset() error
	Add(item Descriptor) error
	Play() error
	Pause() error
	Stop() error
	SeekTo(ms int) error
	SkipToNext() error
	SkipToPrevious() error
	SetRepeatMode(mode domain.RepeatMode) error

	Status() Status
	ProgressMs() int
	ActiveTrack() (Descriptor, bool)
}

// MockEngine is an in-memory Engine for tests and headless runs.
type MockEngine struct {
	queue    []Descriptor
	active   int
	status   Status
	progress int
	repeat   domain.RepeatMode

	Calls []string
}

func NewMockEngine() *MockEngine {
	return &MockEngine{status: StatusIdle, active: -1, repeat: domain.RepeatModeOff}
}

func (e *MockEngine) record(call string) {
	e.Calls = append(e.Calls, call)
}

func (e *MockEngine) Reset() error {
	e.record("reset")
	e.queue = nil
	e.active = -1
	e.status = StatusIdle
	e.progress = 0
	return nil
}

func (e *MockEngine) Add(item Descriptor) error {
	e.record("add")
	e.queue = append(e.queue, item)
	if e.active < 0 {
		e.active = 0
	}
	return nil
}

func (e *MockEngine) Play() error {
	e.record("play")
	e.status = StatusPlaying
	return nil
}

func (e *MockEngine) Pause() error {
	e.record("pause")
	e.status = StatusPaused
	return nil
}

func (e *MockEngine) Stop() error {
	e.record("stop")
	e.status = StatusStopped
	e.progress = 0
	return nil
}

func (e *MockEngine) SeekTo(ms int) error {
	e.record("seek")
	e.progress = ms
	return nil
}

func (e *MockEngine) SkipToNext() error {
	e.record("next")
	if e.active >= 0 && e.active < len(e.queue)-1 {
		e.active++
		e.progress = 0
	}
	return nil
}

func (e *MockEngine) SkipToPrevious() error {
	e.record("previous")
	if e.active > 0 {
		e.active--
		e.progress = 0
	}
	return nil
}

func (e *MockEngine) SetRepeatMode(mode domain.RepeatMode) error {
	e.record("repeat")
	e.repeat = mode
	return nil
}

func (e *MockEngine) Status() Status   { return e.status }
func (e *MockEngine) ProgressMs() int  { return e.progress }

func (e *MockEngine) ActiveTrack() (Descriptor, bool) {
	if e.active < 0 || e.active >= len(e.queue) {
		return Descriptor{}, false
	}
	return e.queue[e.active], true
}
