package logger

import (
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name   string
		level  string
		format string
	}{
		{"debug text", "debug", "text"},
		{"info json", "info", "json"},
		{"warn text", "warn", "text"},
		{"error json", "error", "json"},
		{"unknown level defaults", "verbose", "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(Config{Level: tt.level, Format: tt.format})
			if l == nil || l.Logger == nil {
				t.Fatal("New returned a nil logger")
			}
		})
	}
}

func TestWithComponent(t *testing.T) {
	l := Default().WithComponent("resolver")
	if l == nil || l.Logger == nil {
		t.Fatal("WithComponent returned a nil logger")
	}
}

func TestWithMirror(t *testing.T) {
	l := Default().WithMirror("https://inv.example.com", "search")
	if l == nil || l.Logger == nil {
		t.Fatal("WithMirror returned a nil logger")
	}
}

func TestWithTrack(t *testing.T) {
	l := Default().WithTrack("track-1", "Yesterday")
	if l == nil || l.Logger == nil {
		t.Fatal("WithTrack returned a nil logger")
	}
}
