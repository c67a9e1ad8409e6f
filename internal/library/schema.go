package library

// Schema is the v1 base schema. Later shape changes live in migrations.go
// and are strictly additive so old library files stay valid.
const Schema = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	username TEXT UNIQUE NOT NULL,
	display_name TEXT,
	email TEXT,
	avatar_url TEXT,
	followers_count INTEGER DEFAULT 0,
	following_count INTEGER DEFAULT 0,
	country TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS artists (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	external_uri TEXT,
	images TEXT DEFAULT '[]',
	source TEXT NOT NULL DEFAULT 'catalog',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS albums (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	album_type TEXT NOT NULL DEFAULT 'album',
	images TEXT DEFAULT '[]',
	release_date TEXT,
	total_tracks INTEGER DEFAULT 0,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS album_artists (
	album_id TEXT NOT NULL REFERENCES albums(id),
	artist_id TEXT NOT NULL REFERENCES artists(id),
	PRIMARY KEY (album_id, artist_id)
);

CREATE TABLE IF NOT EXISTS tracks (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	duration_ms INTEGER DEFAULT 0,
	external_uri TEXT,
	explicit INTEGER DEFAULT 0,
	album_id TEXT REFERENCES albums(id),
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_tracks_external_uri ON tracks(external_uri);

CREATE TABLE IF NOT EXISTS artist_tracks (
	artist_id TEXT NOT NULL REFERENCES artists(id),
	track_id TEXT NOT NULL REFERENCES tracks(id),
	PRIMARY KEY (artist_id, track_id)
);

CREATE TABLE IF NOT EXISTS playlists (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT,
	images TEXT DEFAULT '[]',
	public INTEGER DEFAULT 0,
	collaborative INTEGER DEFAULT 0,
	owner_id TEXT NOT NULL REFERENCES users(id),
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_playlists_name ON playlists(name);

CREATE TABLE IF NOT EXISTS playlist_tracks (
	playlist_id TEXT NOT NULL REFERENCES playlists(id),
	track_id TEXT NOT NULL REFERENCES tracks(id)
);

-- At most one link per (playlist, track) pair
CREATE UNIQUE INDEX IF NOT EXISTS idx_playlist_tracks_unique ON playlist_tracks(playlist_id, track_id);

CREATE TABLE IF NOT EXISTS playback_state (
	id TEXT PRIMARY KEY,
	current_track_id TEXT,
	queue TEXT DEFAULT '[]',
	shuffle INTEGER DEFAULT 0,
	repeat_mode TEXT NOT NULL DEFAULT 'off',
	progress_ms INTEGER DEFAULT 0,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS downloads (
	track_id TEXT PRIMARY KEY REFERENCES tracks(id),
	file_path TEXT NOT NULL,
	completed_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY,
	description TEXT NOT NULL,
	applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`
