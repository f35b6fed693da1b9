package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lysyi3m/feedcomb/app/model"
)

// CriteriaKind discriminates the query predicates spec §4.7 names.
type CriteriaKind int

const (
	CriteriaLatest CriteriaKind = iota
	CriteriaLive
	CriteriaSearch
	CriteriaTag
	CriteriaFeed
	CriteriaCommand
	CriteriaRaw
)

// Criteria is one AND-combined predicate for GetEntries.
type Criteria struct {
	Kind CriteriaKind
	Arg  string
}

func Latest() Criteria          { return Criteria{Kind: CriteriaLatest} }
func Live() Criteria            { return Criteria{Kind: CriteriaLive} }
func Search(s string) Criteria  { return Criteria{Kind: CriteriaSearch, Arg: s} }
func ByTag(t string) Criteria   { return Criteria{Kind: CriteriaTag, Arg: t} }
func ByFeed(f string) Criteria  { return Criteria{Kind: CriteriaFeed, Arg: f} }
func ByCommand(c string) Criteria { return Criteria{Kind: CriteriaCommand, Arg: c} }

// Raw injects clause into the WHERE list verbatim. Explicitly unchecked,
// per spec §4.7, for power users; callers are responsible for its safety.
func Raw(clause string) Criteria { return Criteria{Kind: CriteriaRaw, Arg: clause} }

// CursorKind discriminates the pagination anchor.
type CursorKind int

const (
	CursorOpen CursorKind = iota
	CursorBefore
	CursorAfter
)

// Cursor restricts results to strictly before/after a timestamp, or is
// open (no restriction).
type Cursor struct {
	Kind CursorKind
	At   time.Time
}

func OpenCursor() Cursor        { return Cursor{Kind: CursorOpen} }
func CursorBeforeAt(t time.Time) Cursor { return Cursor{Kind: CursorBefore, At: t} }
func CursorAfterAt(t time.Time) Cursor  { return Cursor{Kind: CursorAfter, At: t} }

// Record pairs a store-assigned, stable id with the reconstructed Entry it
// names. The id is the handle external callers (EntryUpdate, CommandUpdate)
// use; it never changes once assigned, per spec §3 invariant 5.
type Record struct {
	ID    int64
	Entry *model.Entry
}

// GetEntries runs one LEFT JOIN query across sources/tags/commands,
// grouped by entry id, applying criteria and cursor, ordered and limited
// per spec §4.7.
func (s *Store) GetEntries(criteria Criteria, max int, cursor Cursor) ([]Record, error) {
	var where []string
	var args []interface{}

	switch criteria.Kind {
	case CriteriaLatest, CriteriaLive:
		// no additional predicate
	case CriteriaSearch:
		like := "%" + strings.ToLower(criteria.Arg) + "%"
		where = append(where, "(LOWER(e.title) LIKE ? OR LOWER(e.author) LIKE ? OR LOWER(e.content) LIKE ?)")
		args = append(args, like, like, like)
	case CriteriaTag:
		where = append(where, "t.tag LIKE ?")
		args = append(args, "%"+criteria.Arg+"%")
	case CriteriaFeed:
		where = append(where, "src.source LIKE ?")
		args = append(args, "%"+criteria.Arg+"%")
	case CriteriaCommand:
		where = append(where, "c.name LIKE ?")
		args = append(args, "%"+criteria.Arg+"%")
	case CriteriaRaw:
		if criteria.Arg != "" {
			where = append(where, criteria.Arg)
		}
	default:
		return nil, fmt.Errorf("store: unknown criteria kind %d", criteria.Kind)
	}

	switch cursor.Kind {
	case CursorBefore:
		where = append(where, "e.timestamp < ?")
		args = append(args, cursor.At.Unix())
	case CursorAfter:
		where = append(where, "e.timestamp > ?")
		args = append(args, cursor.At.Unix())
	}

	whereSQL := ""
	if len(where) > 0 {
		whereSQL = "WHERE " + strings.Join(where, " AND ")
	}

	orderSQL := "ORDER BY e.timestamp DESC, e.id DESC"
	if criteria.Kind == CriteriaLive {
		orderSQL = "ORDER BY e.id DESC"
	}

	limitSQL := ""
	if max > 0 {
		limitSQL = fmt.Sprintf("LIMIT %d", max)
	}

	query := fmt.Sprintf(`
		SELECT e.id, e.entry, e.source_id,
		       GROUP_CONCAT(DISTINCT src.source) AS sources,
		       GROUP_CONCAT(DISTINCT t.tag) AS tags,
		       GROUP_CONCAT(DISTINCT c.name) AS commands
		FROM entries e
		LEFT JOIN sources src ON src.entry_id = e.id
		LEFT JOIN tags t ON t.entry_id = e.id
		LEFT JOIN commands c ON c.entry_id = e.id
		%s
		GROUP BY e.id
		%s
		%s`, whereSQL, orderSQL, limitSQL)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: get_entries: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			id             int64
			raw            string
			sourceID       sql.NullString
			sources, tags  sql.NullString
			commandsJoined sql.NullString
		)
		if err := rows.Scan(&id, &raw, &sourceID, &sources, &tags, &commandsJoined); err != nil {
			return nil, fmt.Errorf("store: get_entries: scanning row: %w", err)
		}

		var sourceIDPtr *string
		if sourceID.Valid {
			v := sourceID.String
			sourceIDPtr = &v
		}
		entry, err := deserializeEntry(raw, sourceIDPtr)
		if err != nil {
			return nil, err
		}
		for i, name := range splitGroupConcat(sources.String) {
			// Synthetic, per-row-unique ids: the schema only persists feed
			// display names (spec §6), and AddFeed dedups by FeedId, so
			// reusing FeedId(0) for every reconstructed ref here would
			// collapse distinct attributions into one.
			entry.AddFeed(model.FeedRef{ID: model.FeedId(i + 1), Name: name})
		}
		for _, tag := range splitGroupConcat(tags.String) {
			entry.AddTag(model.NewTag(tag))
		}
		out = append(out, Record{ID: id, Entry: entry})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: get_entries: iterating rows: %w", err)
	}
	return out, nil
}

func splitGroupConcat(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
