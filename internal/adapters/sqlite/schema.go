package sqlite

const schemaVersion = "1"

const pragmas = `
	PRAGMA foreign_keys = ON;
	PRAGMA synchronous = NORMAL;
	PRAGMA cache_size = -16000;
	PRAGMA temp_store = MEMORY;
	PRAGMA busy_timeout = 5000;
`

// Counters on object_node are maintained by the graph code, not by triggers.
// The foreign-key cascades only clean up rows that share a node's lifetime.
const schema = `
	CREATE TABLE IF NOT EXISTS object_node (
		object_id INTEGER PRIMARY KEY,
		type INTEGER NOT NULL,
		title TEXT,
		child_count INTEGER NOT NULL DEFAULT 0,
		reference_count INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_object_node_group ON object_node(type, title);

	CREATE TABLE IF NOT EXISTS adjacent_objects (
		parent_id INTEGER NOT NULL REFERENCES object_node(object_id) ON DELETE CASCADE,
		child_id INTEGER NOT NULL REFERENCES object_node(object_id) ON DELETE CASCADE,
		PRIMARY KEY (parent_id, child_id)
	);
	CREATE INDEX IF NOT EXISTS idx_adjacent_objects_child ON adjacent_objects(child_id);

	CREATE TABLE IF NOT EXISTS sources (
		object_id INTEGER PRIMARY KEY REFERENCES object_node(object_id) ON DELETE CASCADE,
		path TEXT NOT NULL UNIQUE CHECK (LENGTH(path) > 0),
		size INTEGER NOT NULL DEFAULT 0,
		date_created INTEGER,
		date_modified INTEGER
	);

	CREATE TABLE IF NOT EXISTS music (
		object_id INTEGER PRIMARY KEY REFERENCES object_node(object_id) ON DELETE CASCADE,
		file_format INTEGER,
		audio_codec INTEGER,
		audio_bitrate INTEGER,
		duration INTEGER,
		genre_id INTEGER REFERENCES object_node(object_id) ON DELETE SET NULL,
		-- track_id holds the album artist grouping
		track_id INTEGER REFERENCES object_node(object_id) ON DELETE SET NULL,
		artist_id INTEGER REFERENCES object_node(object_id) ON DELETE SET NULL,
		album_id INTEGER REFERENCES object_node(object_id) ON DELETE SET NULL,
		artist TEXT,
		album TEXT,
		track_number INTEGER
	);

	CREATE TABLE IF NOT EXISTS photos (
		object_id INTEGER PRIMARY KEY REFERENCES object_node(object_id) ON DELETE CASCADE,
		date_created INTEGER,
		file_format INTEGER,
		photo_codec INTEGER,
		width INTEGER,
		height INTEGER
	);

	CREATE TABLE IF NOT EXISTS videos (
		object_id INTEGER PRIMARY KEY REFERENCES object_node(object_id) ON DELETE CASCADE,
		file_format INTEGER,
		parental_level INTEGER,
		explanation TEXT,
		copyright TEXT,
		width INTEGER,
		height INTEGER,
		video_codec INTEGER,
		video_bitrate INTEGER,
		audio_codec INTEGER,
		audio_bitrate INTEGER,
		duration INTEGER
	);

	CREATE TABLE IF NOT EXISTS savedata (
		object_id INTEGER PRIMARY KEY REFERENCES object_node(object_id) ON DELETE CASCADE,
		detail TEXT,
		dir_name TEXT,
		title TEXT,
		date_updated INTEGER
	);

	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
`
