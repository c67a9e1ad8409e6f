package metadata

import (
	"strings"

	"github.com/orpheus-player/orpheus/internal/domain"
)

// Public catalogs index every registered recording, including karaoke
// versions, covers and tribute compilations. Those drown out the canonical
// recording in search results, so tracks matching any of these markers are
// dropped before results reach the caller.
var (
	titleDenylist = []string{
		"cover",
		"karaoke",
		"mashup",
		"vs.",
		"tribute",
		"not featuring",
		"instrumental",
	}
	artistDenylist = []string{
		"various",
		"tribute",
	}
)

// filterTracks removes tracks whose title or primary artist matches the
// denylists, case-insensitively. The input slice is not modified.
func filterTracks(tracks []domain.Track) []domain.Track {
	out := make([]domain.Track, 0, len(tracks))
	for _, track := range tracks {
		if denied(track.Name, titleDenylist) {
			continue
		}
		if denied(track.PrimaryArtist(), artistDenylist) {
			continue
		}
		out = append(out, track)
	}
	return out
}

func denied(value string, denylist []string) bool {
	lower := strings.ToLower(value)
	for _, term := range denylist {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}
