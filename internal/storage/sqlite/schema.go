package sqlite

// schema is applied on every open; every statement is idempotent.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	username      TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	elo           INTEGER NOT NULL,
	wins          INTEGER NOT NULL DEFAULT 0,
	losses        INTEGER NOT NULL DEFAULT 0,
	draws         INTEGER NOT NULL DEFAULT 0,
	created_at    INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS sessions (
	token      TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL REFERENCES users(id),
	created_at INTEGER NOT NULL,
	expires_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS matches (
	id         TEXT PRIMARY KEY,
	player1    TEXT NOT NULL,
	player2    TEXT NOT NULL,
	status     TEXT NOT NULL,
	winner     TEXT NOT NULL DEFAULT '',
	reason     TEXT NOT NULL DEFAULT '',
	move_count INTEGER NOT NULL DEFAULT 0,
	created_at INTEGER NOT NULL,
	ended_at   INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_matches_player1 ON matches(player1);
CREATE INDEX IF NOT EXISTS idx_matches_player2 ON matches(player2);

CREATE TABLE IF NOT EXISTS placements (
	match_id TEXT NOT NULL,
	user_id  TEXT NOT NULL,
	ships    TEXT NOT NULL,
	PRIMARY KEY (match_id, user_id)
);

CREATE TABLE IF NOT EXISTS moves (
	match_id  TEXT NOT NULL,
	turn      INTEGER NOT NULL,
	shooter   TEXT NOT NULL,
	row       INTEGER NOT NULL,
	col       INTEGER NOT NULL,
	result    INTEGER NOT NULL,
	played_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_moves_match ON moves(match_id);
`
