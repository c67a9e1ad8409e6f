// Package constants contains application-wide constants to avoid magic numbers and strings.
package constants

import "time"

// Application defaults
const (
	DefaultPort         = "8090"
	DefaultDBPath       = "orpheus.db"
	DefaultDownloadsDir = "downloads"
	DefaultLyricsURL    = "https://api.lyrics.ovh"
	DefaultProvider     = "musicbrainz"
	DefaultUsername     = "orpheus"
	DefaultDisplayName  = "Orpheus"
)

// Metadata catalog etiquette
const (
	MusicBrainzURL      = "https://musicbrainz.org/ws/2"
	MusicBrainzInterval = 1050 * time.Millisecond
	SpotifyAPIURL       = "https://api.spotify.com/v1"
	SpotifyTokenURL     = "https://accounts.spotify.com/api/token"
	// TokenExpirySlack is subtracted from the advertised token lifetime so a
	// token is refreshed before it can expire mid-request.
	TokenExpirySlack = time.Minute
	UserAgent        = "orpheus/1.0 (https://github.com/orpheus-player/orpheus)"
	SearchLimit      = 50
	SearchPageSize   = 25
)

// Mirror pool
const (
	MirrorTimeout = 15 * time.Second
)

// DefaultMirrors are community-run Invidious-compatible endpoints. Any of
// them may be offline or rate-limiting at any time; the pool tries them
// strictly in order.
var DefaultMirrors = []string{
	"https://inv.perditum.com",
	"https://invidious.nerdvpn.de",
	"https://inv.nadeko.net",
	"https://invidious.f5.si",
}

// Audio resolution heuristics
const (
	// MinQueryLength is the shortest cleaned search query worth submitting;
	// anything shorter cannot reliably disambiguate.
	MinQueryLength = 3
	// DurationToleranceSec is the window, in seconds, within which a
	// candidate's duration counts as a match for the target track.
	DurationToleranceSec = 10
)

// Library store
const (
	FavoritesPlaylistName = "Favorites"
	FallbackAlbumID       = "__favorites__"
	FallbackArtistID      = "__unknown_artist__"
	FallbackArtistName    = "Unknown Artist"
	PlaybackStateID       = "device"
)

// HTTP client defaults
const (
	DefaultHTTPTimeout = 30 * time.Second
	DefaultRetryCount  = 3
	DefaultRetryBase   = 1 * time.Second
)

// File permissions
const (
	DirPermissions  = 0755
	FilePermissions = 0644
)

// Characters to sanitize from filesystem paths
const InvalidPathChars = "<>:\"/\\|?*"
