package store

import (
	"database/sql"
	"fmt"

	"github.com/lysyi3m/feedcomb/app/model"
)

// Insert upserts-or-merges entry into the index per spec §4.7: an existing
// row is reused (never rewritten) if found by, in order, an exact
// serialized match, a (title, author) match, or an (author, source_id)
// match; otherwise a new row is inserted. Every feed attribution and tag is
// then upserted into its side table regardless of which branch ran. Returns
// the row's id, or 0 if the insert failed (the caller logs and the cycle
// continues per spec §7's StoreError policy).
func (s *Store) Insert(entry *model.Entry) (int64, error) {
	serialized, err := serializeEntry(entry)
	if err != nil {
		return 0, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("store: insert: beginning transaction: %w", err)
	}
	defer tx.Rollback()

	id, err := resolveExistingID(tx, entry, serialized)
	if err != nil {
		return 0, fmt.Errorf("store: insert: resolving existing id: %w", err)
	}

	if id == 0 {
		var sourceID sql.NullString
		if entry.SourceID() != nil {
			sourceID = sql.NullString{String: *entry.SourceID(), Valid: true}
		}
		res, err := tx.Exec(
			`INSERT INTO entries (timestamp, entry, title, content, author, source_id)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			entry.Date().Unix(), serialized, entry.Title(), entry.Content(), entry.Author(), sourceID,
		)
		if err != nil {
			return 0, fmt.Errorf("store: insert: inserting entry row: %w", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("store: insert: reading inserted id: %w", err)
		}
	}

	for _, ref := range entry.Feeds() {
		if _, err := tx.Exec(
			`INSERT INTO sources (entry_id, source) VALUES (?, ?)
			 ON CONFLICT(entry_id, source) DO NOTHING`,
			id, ref.Name,
		); err != nil {
			return 0, fmt.Errorf("store: insert: upserting source %q: %w", ref.Name, err)
		}
	}
	for _, tag := range entry.Tags() {
		if _, err := tx.Exec(
			`INSERT INTO tags (entry_id, tag) VALUES (?, ?)
			 ON CONFLICT(entry_id, tag) DO NOTHING`,
			id, tag.String(),
		); err != nil {
			return 0, fmt.Errorf("store: insert: upserting tag %q: %w", tag, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("store: insert: committing: %w", err)
	}
	return id, nil
}

func resolveExistingID(tx *sql.Tx, entry *model.Entry, serialized string) (int64, error) {
	var id int64

	err := tx.QueryRow(`SELECT id FROM entries WHERE entry = ? LIMIT 1`, serialized).Scan(&id)
	switch {
	case err == nil:
		return id, nil
	case err != sql.ErrNoRows:
		return 0, err
	}

	if entry.Title() != "" && entry.Author() != "" {
		err := tx.QueryRow(
			`SELECT id FROM entries WHERE title = ? AND author = ? LIMIT 1`,
			entry.Title(), entry.Author(),
		).Scan(&id)
		switch {
		case err == nil:
			return id, nil
		case err != sql.ErrNoRows:
			return 0, err
		}
	}

	if entry.Author() != "" && entry.SourceID() != nil {
		err := tx.QueryRow(
			`SELECT id FROM entries WHERE author = ? AND source_id = ? LIMIT 1`,
			entry.Author(), *entry.SourceID(),
		).Scan(&id)
		switch {
		case err == nil:
			return id, nil
		case err != sql.ErrNoRows:
			return 0, err
		}
	}

	return 0, nil
}
