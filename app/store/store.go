// Package store is the durable SQL-backed entry index: a SQLite database
// (modernc.org/sqlite, the teacher's own storage driver) holding entries
// plus side-tables for their feed attributions, tags, and recorded command
// results. Schema and query shape follow spec §4.7/§6 bit-for-bit; the
// teacher's app/database package (Postgres via lib/pq, a UUID-keyed
// feed_items table) doesn't share a schema with this one — see DESIGN.md
// for why it was superseded rather than adapted.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS entries (
	id INTEGER PRIMARY KEY,
	timestamp INTEGER NOT NULL,
	entry TEXT NOT NULL,
	title TEXT NOT NULL,
	content TEXT NOT NULL,
	author TEXT NOT NULL,
	source_id TEXT NULL
) STRICT;

CREATE TABLE IF NOT EXISTS sources (
	id INTEGER PRIMARY KEY,
	entry_id INTEGER NOT NULL REFERENCES entries(id),
	source TEXT NOT NULL,
	UNIQUE(entry_id, source)
) STRICT;

CREATE TABLE IF NOT EXISTS tags (
	id INTEGER PRIMARY KEY,
	entry_id INTEGER NOT NULL REFERENCES entries(id),
	tag TEXT NOT NULL,
	UNIQUE(entry_id, tag)
) STRICT;

CREATE TABLE IF NOT EXISTS commands (
	id INTEGER PRIMARY KEY,
	entry_id INTEGER NOT NULL REFERENCES entries(id),
	timestamp INTEGER NOT NULL,
	name TEXT NOT NULL,
	result TEXT NOT NULL,
	success INTEGER NOT NULL
) STRICT;

CREATE INDEX IF NOT EXISTS idx_entries_timestamp ON entries(timestamp);
CREATE INDEX IF NOT EXISTS idx_entries_title ON entries(title);
CREATE INDEX IF NOT EXISTS idx_entries_author ON entries(author);
CREATE INDEX IF NOT EXISTS idx_entries_source_id ON entries(source_id);
CREATE INDEX IF NOT EXISTS idx_sources_entry_id ON sources(entry_id);
CREATE INDEX IF NOT EXISTS idx_sources_source ON sources(source);
CREATE INDEX IF NOT EXISTS idx_tags_entry_id ON tags(entry_id);
CREATE INDEX IF NOT EXISTS idx_tags_tag ON tags(tag);
CREATE INDEX IF NOT EXISTS idx_commands_entry_id ON commands(entry_id);
CREATE INDEX IF NOT EXISTS idx_commands_name ON commands(name);
`

// Store is a thread-safe handle onto the SQLite index, pooled to at most 4
// open and at most 2 idle connections (no minimum is held open);
// database/sql's own pool already serializes
// access per connection, so no additional locking is needed here.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the SQLite database at path,
// creating parent directories as needed, and runs Init. path may be
// ":memory:" for tests.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("store: creating directory %s: %w", dir, err)
			}
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: opening %s: %w", path, err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)

	s := &Store{db: db}
	if err := s.Init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Init idempotently creates the schema: CREATE TABLE/INDEX IF NOT EXISTS,
// safe to call on every startup against an existing database.
func (s *Store) Init() error {
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("store: initializing schema: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}
