package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/lysyi3m/feedcomb/app/model"
)

// UpdateTags replaces the full tag set for entry id: delete all its tags
// rows, then insert each of the new tags.
func (s *Store) UpdateTags(id int64, tags []model.Tag) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("store: update_tags: beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM tags WHERE entry_id = ?`, id); err != nil {
		return fmt.Errorf("store: update_tags: clearing tags for %d: %w", id, err)
	}
	for _, tag := range tags {
		if tag == "" {
			continue
		}
		if _, err := tx.Exec(
			`INSERT INTO tags (entry_id, tag) VALUES (?, ?) ON CONFLICT(entry_id, tag) DO NOTHING`,
			id, tag.String(),
		); err != nil {
			return fmt.Errorf("store: update_tags: inserting tag %q for %d: %w", tag, id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: update_tags: committing: %w", err)
	}
	return nil
}

// UpdateContent replaces an entry's stored content (both the denormalized
// `content` column and the `entry` JSON envelope) without touching its id
// or timestamp. Used by best-effort content extraction (spec §4.9): a slow
// background fetch may finish well after the cycle that inserted the row.
func (s *Store) UpdateContent(id int64, content string) error {
	var raw string
	if err := s.db.QueryRow(`SELECT entry FROM entries WHERE id = ?`, id).Scan(&raw); err != nil {
		return fmt.Errorf("store: update_content: loading entry %d: %w", id, err)
	}
	var env entryEnvelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return fmt.Errorf("store: update_content: decoding entry %d: %w", id, err)
	}
	env.V1.Content = content
	updated, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("store: update_content: encoding entry %d: %w", id, err)
	}
	if _, err := s.db.Exec(
		`UPDATE entries SET content = ?, entry = ? WHERE id = ?`,
		content, string(updated), id,
	); err != nil {
		return fmt.Errorf("store: update_content: updating entry %d: %w", id, err)
	}
	return nil
}

// StoreCommandResult appends a row to the commands table for entry id.
func (s *Store) StoreCommandResult(id int64, name, result string, success bool) error {
	successInt := 0
	if success {
		successInt = 1
	}
	if _, err := s.db.Exec(
		`INSERT INTO commands (entry_id, timestamp, name, result, success) VALUES (?, ?, ?, ?, ?)`,
		id, time.Now().UTC().Unix(), name, result, successInt,
	); err != nil {
		return fmt.Errorf("store: store_command_result: inserting for %d: %w", id, err)
	}
	return nil
}
