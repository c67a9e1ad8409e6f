package library

import (
	"database/sql"

	"github.com/orpheus-player/orpheus/internal/domain"
)

// Row structs mirror the table shapes exactly. DTOs from the catalog are
// mapped through explicit functions with exhaustive field lists so a
// missing or renamed field fails at compile time rather than silently.

type userRow struct {
	ID             string         `db:"id"`
	Username       string         `db:"username"`
	DisplayName    sql.NullString `db:"display_name"`
	Email          sql.NullString `db:"email"`
	AvatarURL      sql.NullString `db:"avatar_url"`
	FollowersCount int            `db:"followers_count"`
	FollowingCount int            `db:"following_count"`
	Country        sql.NullString `db:"country"`
}

type artistRow struct {
	ID          string           `db:"id"`
	Name        string           `db:"name"`
	ExternalURI sql.NullString   `db:"external_uri"`
	Images      domain.ImageList `db:"images"`
	Source      string           `db:"source"`
}

func artistToRow(a domain.Artist) artistRow {
	source := string(a.Source)
	if source == "" {
		source = string(domain.ArtistSourceCatalog)
	}
	return artistRow{
		ID:          a.ID,
		Name:        a.Name,
		ExternalURI: nullString(a.ExternalURI),
		Images:      a.Images,
		Source:      source,
	}
}

func (r artistRow) toDomain() domain.Artist {
	return domain.Artist{
		ID:          r.ID,
		Name:        r.Name,
		ExternalURI: r.ExternalURI.String,
		Images:      r.Images,
		Source:      domain.ArtistSource(r.Source),
	}
}

type albumRow struct {
	ID          string           `db:"id"`
	Name        string           `db:"name"`
	AlbumType   string           `db:"album_type"`
	Images      domain.ImageList `db:"images"`
	ReleaseDate sql.NullString   `db:"release_date"`
	TotalTracks int              `db:"total_tracks"`
}

func albumToRow(a *domain.Album) albumRow {
	albumType := string(a.AlbumType)
	if albumType == "" {
		albumType = string(domain.AlbumTypeAlbum)
	}
	return albumRow{
		ID:          a.ID,
		Name:        a.Name,
		AlbumType:   albumType,
		Images:      a.Images,
		ReleaseDate: nullString(a.ReleaseDate),
		TotalTracks: a.TotalTracks,
	}
}

func (r albumRow) toDomain() domain.Album {
	return domain.Album{
		ID:          r.ID,
		Name:        r.Name,
		AlbumType:   domain.AlbumType(r.AlbumType),
		Images:      r.Images,
		ReleaseDate: r.ReleaseDate.String,
		TotalTracks: r.TotalTracks,
	}
}

type trackRow struct {
	ID          string         `db:"id"`
	Name        string         `db:"name"`
	DurationMs  int            `db:"duration_ms"`
	ExternalURI sql.NullString `db:"external_uri"`
	Explicit    bool           `db:"explicit"`
	AlbumID     sql.NullString `db:"album_id"`
	Lyrics      sql.NullString `db:"lyrics"`
}

func trackToRow(t *domain.Track, albumID string) trackRow {
	return trackRow{
		ID:          t.ID,
		Name:        t.Name,
		DurationMs:  t.DurationMs,
		ExternalURI: nullString(t.ExternalURI),
		Explicit:    t.Explicit,
		AlbumID:     nullString(albumID),
		Lyrics:      nullString(t.Lyrics),
	}
}

func (r trackRow) toDomain() domain.Track {
	return domain.Track{
		ID:          r.ID,
		Name:        r.Name,
		DurationMs:  r.DurationMs,
		ExternalURI: r.ExternalURI.String,
		Explicit:    r.Explicit,
		Lyrics:      r.Lyrics.String,
	}
}

type playlistRow struct {
	ID            string           `db:"id"`
	Name          string           `db:"name"`
	Description   sql.NullString   `db:"description"`
	Images        domain.ImageList `db:"images"`
	Public        bool             `db:"public"`
	Collaborative bool             `db:"collaborative"`
	OwnerID       string           `db:"owner_id"`
}

type playbackStateRow struct {
	ID             string             `db:"id"`
	CurrentTrackID sql.NullString     `db:"current_track_id"`
	Queue          domain.StringSlice `db:"queue"`
	Shuffle        bool               `db:"shuffle"`
	RepeatMode     string             `db:"repeat_mode"`
	ProgressMs     int                `db:"progress_ms"`
}

type downloadRow struct {
	TrackID  string `db:"track_id"`
	FilePath string `db:"file_path"`
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
