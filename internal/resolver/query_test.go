package resolver

import (
	"testing"

	"github.com/orpheus-player/orpheus/internal/domain"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain text untouched", "Yesterday", "Yesterday"},
		{"em-dash normalized", "Blackbird – Remix", "Blackbird - Remix"},
		{"horizontal bar normalized", "Blackbird — Remix", "Blackbird - Remix"},
		{"parenthetical stripped", "Yesterday (Remastered 2011)", "Yesterday"},
		{"bracketed stripped", "Yesterday [Live at the BBC]", "Yesterday"},
		{"special characters stripped", "Don't Stop Me Now!", "Dont Stop Me Now"},
		{"whitespace collapsed", "Hey   Jude", "Hey Jude"},
		{"trimmed", "  Help!  ", "Help"},
		{"everything at once", "Help! (Mono Mix) [2009 Remaster] – Deluxe", "Help - Deluxe"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanText(tt.input); got != tt.expected {
				t.Errorf("cleanText(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name     string
		track    domain.Track
		expected string
	}{
		{
			"name and artist",
			domain.Track{Name: "Yesterday", Artists: []domain.Artist{{Name: "Beatles"}}},
			"Yesterday Beatles",
		},
		{
			"no artist",
			domain.Track{Name: "Yesterday"},
			"Yesterday",
		},
		{
			"noise stripped from both",
			domain.Track{Name: "Yesterday (Remastered)", Artists: []domain.Artist{{Name: "The Beatles (Official)"}}},
			"Yesterday The Beatles",
		},
		{
			"only first artist used",
			domain.Track{Name: "Get Back", Artists: []domain.Artist{{Name: "The Beatles"}, {Name: "Billy Preston"}}},
			"Get Back The Beatles",
		},
		{
			"symbols only collapse to empty",
			domain.Track{Name: "!!!", Artists: []domain.Artist{{Name: "??"}}},
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildQuery(&tt.track); got != tt.expected {
				t.Errorf("buildQuery() = %q, want %q", got, tt.expected)
			}
		})
	}
}
