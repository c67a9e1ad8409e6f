package domain

import "time"

type AlbumType string

const (
	AlbumTypeAlbum       AlbumType = "album"
	AlbumTypeSingle      AlbumType = "single"
	AlbumTypeCompilation AlbumType = "compilation"
)

type RepeatMode string

const (
	RepeatModeOff     RepeatMode = "off"
	RepeatModeTrack   RepeatMode = "track"
	RepeatModeContext RepeatMode = "context"
)

// ArtistSource distinguishes catalog-sourced artist rows from rows the
// library fabricated when no catalog metadata was available.
type ArtistSource string

const (
	ArtistSourceCatalog   ArtistSource = "catalog"
	ArtistSourceSynthetic ArtistSource = "synthetic"
)

// Artist is a normalized artist record, independent of which catalog
// supplied it.
type Artist struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	ExternalURI string       `json:"external_uri"`
	Images      ImageList    `json:"images,omitempty"`
	Source      ArtistSource `json:"source,omitempty"`
}

type Album struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	AlbumType   AlbumType `json:"album_type"`
	Images      ImageList `json:"images,omitempty"`
	ReleaseDate string    `json:"release_date,omitempty"`
	TotalTracks int       `json:"total_tracks,omitempty"`
	Artists     []Artist  `json:"artists,omitempty"`
}

// Track is the transient DTO passed between the providers, the resolver
// and the UI. The library store owns the persisted copy; a DTO must be
// reconciled by external identifier before any relational link is created.
type Track struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	DurationMs  int      `json:"duration_ms"`
	ExternalURI string   `json:"external_uri"`
	Explicit    bool     `json:"explicit"`
	Lyrics      string   `json:"lyrics,omitempty"`
	Album       *Album   `json:"album,omitempty"`
	Artists     []Artist `json:"artists,omitempty"`
}

// DurationSeconds converts the track duration to whole seconds, rounding
// to the nearest second. Mirror candidates report seconds, so all duration
// comparisons happen in seconds.
func (t *Track) DurationSeconds() int {
	return (t.DurationMs + 500) / 1000
}

// PrimaryArtist returns the first credited artist name, or "" when the
// track carries no artist credits.
func (t *Track) PrimaryArtist() string {
	if len(t.Artists) == 0 {
		return ""
	}
	return t.Artists[0].Name
}

type User struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	DisplayName    string `json:"display_name"`
	Email          string `json:"email,omitempty"`
	AvatarURL      string `json:"avatar_url,omitempty"`
	FollowersCount int    `json:"followers_count,omitempty"`
	FollowingCount int    `json:"following_count,omitempty"`
	Country        string `json:"country,omitempty"`
}

type Playlist struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Images        ImageList `json:"images,omitempty"`
	Public        bool      `json:"public"`
	Collaborative bool      `json:"collaborative"`
	OwnerID       string    `json:"owner_id"`
	Tracks        []Track   `json:"tracks,omitempty"`
}

// PlaylistTrack is the playlist↔track join row. CreatedAt is the sort key
// for "recently favorited" ordering.
type PlaylistTrack struct {
	PlaylistID string    `json:"playlist_id"`
	TrackID    string    `json:"track_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// PlaybackState is the persisted device state, written on pause or exit
// rather than continuously.
type PlaybackState struct {
	CurrentTrackID string      `json:"current_track_id"`
	Queue          StringSlice `json:"queue"`
	Shuffle        bool        `json:"shuffle"`
	RepeatMode     RepeatMode  `json:"repeat_mode"`
	ProgressMs     int         `json:"progress_ms"`
}

// Download maps a track id to its offline cache file, one-to-one.
type Download struct {
	TrackID     string    `json:"track_id"`
	FilePath    string    `json:"file_path"`
	CompletedAt time.Time `json:"completed_at"`
}

// SearchResults is the normalized shape every metadata provider returns.
type SearchResults struct {
	Tracks    []Track    `json:"tracks"`
	Albums    []Album    `json:"albums,omitempty"`
	Artists   []Artist   `json:"artists,omitempty"`
	Playlists []Playlist `json:"playlists,omitempty"`
}
