package resolver

import (
	"regexp"
	"strings"

	"github.com/orpheus-player/orpheus/internal/domain"
)

// Mirror search engines match loosely on free text, so the query has to be
// stripped of catalog noise first: "(Remastered 2011)" or "[Live]" suffixes
// bias the results toward the wrong recording.
var (
	emDashes      = strings.NewReplacer("–", "-", "—", "-")
	parenthetical = regexp.MustCompile(`\(.*?\)`)
	bracketed     = regexp.MustCompile(`\[.*?\]`)
	nonWord       = regexp.MustCompile(`[^\w\s-]`)
	whitespace    = regexp.MustCompile(`\s+`)
)

// cleanText normalizes one query fragment: em-dash variants become plain
// hyphens, parenthetical and bracketed segments are dropped, remaining
// characters outside word/space/hyphen are dropped, and whitespace is
// collapsed.
func cleanText(s string) string {
	s = emDashes.Replace(s)
	s = parenthetical.ReplaceAllString(s, "")
	s = bracketed.ReplaceAllString(s, "")
	s = nonWord.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// buildQuery assembles the mirror search query from the track name and the
// first credited artist.
func buildQuery(track *domain.Track) string {
	name := cleanText(track.Name)
	artist := cleanText(track.PrimaryArtist())
	return strings.TrimSpace(name + " " + artist)
}
