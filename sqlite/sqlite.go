// Package sqlite provides a SQLite-backed implementation of
// pagetab.TableWriter for querying flattened records with SQL.
package sqlite

import (
	"context"
	"database/sql"

	"github.com/pagetab/pagetab"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// DB represents a SQLite database connection.
type DB struct {
	db   *sql.DB
	path string
}

// NewDB creates a new DB instance with the given path.
// Use ":memory:" for an in-memory database.
func NewDB(path string) *DB {
	return &DB{path: path}
}

// Open opens the database connection and creates the schema if needed.
func (db *DB) Open() error {
	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return pagetab.Errorf(pagetab.EINTERNAL, "failed to open database: %v", err)
	}

	// SQLite only supports one writer at a time, so limit to one connection.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return pagetab.Errorf(pagetab.EINTERNAL, "failed to connect to database: %v", err)
	}

	// Set busy timeout to wait 5 seconds before failing on lock contention.
	if _, err := conn.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		conn.Close()
		return pagetab.Errorf(pagetab.EINTERNAL, "failed to set busy timeout: %v", err)
	}

	// WAL mode improves write performance for file-based databases; it is
	// not supported for in-memory databases.
	if db.path != ":memory:" {
		if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
			conn.Close()
			return pagetab.Errorf(pagetab.EINTERNAL, "failed to enable WAL mode: %v", err)
		}
	}

	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return pagetab.Errorf(pagetab.EINTERNAL, "failed to enable foreign keys: %v", err)
	}

	db.db = conn

	if err := db.createSchema(); err != nil {
		conn.Close()
		return pagetab.Errorf(pagetab.EINTERNAL, "failed to create schema: %v", err)
	}

	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.db == nil {
		return nil
	}
	return db.db.Close()
}

func (db *DB) createSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	id            TEXT PRIMARY KEY,
	url           TEXT NOT NULL,
	final_url     TEXT NOT NULL,
	fetched_at    TEXT NOT NULL,
	content_hash  TEXT NOT NULL,
	element_count INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS records (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	snapshot_id   TEXT NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
	sheet         TEXT NOT NULL,
	position      INTEGER NOT NULL,
	tag           TEXT NOT NULL,
	attributes    TEXT NOT NULL,
	special_attrs TEXT NOT NULL,
	text          TEXT NOT NULL,
	html          TEXT NOT NULL,
	parent_tag    TEXT NOT NULL,
	level         INTEGER NOT NULL,
	xpath         TEXT NOT NULL,
	css_path      TEXT NOT NULL,
	child_count   INTEGER NOT NULL,
	has_class     INTEGER NOT NULL,
	has_id        INTEGER NOT NULL,
	class         TEXT NOT NULL,
	id_attr       TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_records_snapshot ON records(snapshot_id, sheet, position);
CREATE INDEX IF NOT EXISTS idx_records_tag ON records(tag);
`
	_, err := db.db.Exec(schema)
	return err
}

// BeginTx starts a transaction.
func (db *DB) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return db.db.BeginTx(ctx, nil)
}
