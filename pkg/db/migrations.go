package db

const migrationsSQL = `
CREATE TABLE IF NOT EXISTS translations (
	source     TEXT NOT NULL,
	text       TEXT NOT NULL,
	result     TEXT NOT NULL DEFAULT '',
	present    INTEGER NOT NULL DEFAULT 0,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (source, text)
);

CREATE TABLE IF NOT EXISTS runs (
	id           TEXT PRIMARY KEY,
	input        TEXT NOT NULL,
	output       TEXT NOT NULL,
	method       TEXT NOT NULL,
	status       TEXT NOT NULL DEFAULT 'running',
	lemmas       INTEGER NOT NULL DEFAULT 0,
	excluded     INTEGER NOT NULL DEFAULT 0,
	translated   INTEGER NOT NULL DEFAULT 0,
	untranslated INTEGER NOT NULL DEFAULT 0,
	error        TEXT NOT NULL DEFAULT '',
	started_at   TIMESTAMP NOT NULL,
	finished_at  TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs (started_at);
`
