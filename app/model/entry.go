package model

import (
	"time"

	"github.com/lysyi3m/feedcomb/app/chrono"
)

// dateKind distinguishes a wire-provided publication date from one the
// updater assigned because the source had none.
type dateKind int

const (
	dateParsed dateKind = iota
	datePublished
)

type entryDate struct {
	kind dateKind
	time time.Time
}

// Entry is one normalized item from a feed source.
type Entry struct {
	title      string
	date       entryDate
	author     string
	content    string
	source     Link
	comments   Link
	otherLinks []Link
	sourceID   *string
	feeds      []FeedRef
	tags       []Tag
}

func (e *Entry) Title() string     { return e.title }
func (e *Entry) Author() string    { return e.author }
func (e *Entry) Content() string   { return e.content }
func (e *Entry) Source() Link      { return e.source }
func (e *Entry) Comments() Link    { return e.comments }
func (e *Entry) OtherLinks() []Link {
	return append([]Link(nil), e.otherLinks...)
}

// Date returns the entry's effective timestamp, whichever kind it is.
func (e *Entry) Date() time.Time { return e.date.time }

// SourceID returns the upstream-provided identifier, if any.
func (e *Entry) SourceID() *string { return e.sourceID }

// Feeds returns the feeds this entry has been attributed to, ordered by
// name.
func (e *Entry) Feeds() []FeedRef {
	return append([]FeedRef(nil), e.feeds...)
}

// AddFeed records that entry came from (or was claimed by) feed.
func (e *Entry) AddFeed(ref FeedRef) {
	e.feeds = sortedUniqueFeedRefs(append(e.feeds, ref))
}

// IsFromFeed reports whether id is among this entry's feeds.
func (e *Entry) IsFromFeed(id FeedId) bool {
	for _, ref := range e.feeds {
		if ref.ID == id {
			return true
		}
	}
	return false
}

// Tags returns the entry's tags, lowercase and ordered.
func (e *Entry) Tags() []Tag {
	return append([]Tag(nil), e.tags...)
}

// AddTag attaches tag, deduplicating case-insensitively.
func (e *Entry) AddTag(tag Tag) {
	e.tags = sortedUniqueTags(append(e.tags, tag))
}

// RemoveTag drops tag if present.
func (e *Entry) RemoveTag(tag Tag) {
	out := e.tags[:0:0]
	for _, t := range e.tags {
		if t != tag {
			out = append(out, t)
		}
	}
	e.tags = out
}

// ReplaceTags replaces the full tag set, used by the updater handle's
// EntryUpdate request.
func (e *Entry) ReplaceTags(tags []Tag) {
	e.tags = sortedUniqueTags(tags)
}

func (e *Entry) HasTag(tag Tag) bool {
	for _, t := range e.tags {
		if t == tag {
			return true
		}
	}
	return false
}

func (e *Entry) HasTagFuzzy(query string) bool {
	for _, t := range e.tags {
		if t.MatchesFuzzy(query) {
			return true
		}
	}
	return false
}

// Equal implements the identity rule from the data model: if both entries
// carry a source id, that alone decides equality; otherwise every visible
// field must match, and two Parsed dates must match exactly while a
// Parsed/Published or Published/Published pair does not compare dates at
// all (only the wire fields do).
func (e *Entry) Equal(other *Entry) bool {
	if e.sourceID != nil && other.sourceID != nil {
		return *e.sourceID == *other.sourceID
	}
	if e.title != other.title ||
		e.author != other.author ||
		e.content != other.content ||
		!e.source.Equal(other.source) ||
		!e.comments.Equal(other.comments) ||
		!linksEqual(e.otherLinks, other.otherLinks) {
		return false
	}
	if e.date.kind == dateParsed && other.date.kind == dateParsed {
		return e.date.time.Equal(other.date.time)
	}
	return true
}

// Before orders entries newest-first: e sorts before other iff e's date is
// strictly after other's.
func (e *Entry) Before(other *Entry) bool {
	return e.date.time.After(other.date.time)
}

// HashKey returns a value stable across tag edits, suitable as a map key.
// It covers title, author, content, and the source URL only, matching the
// original's hash implementation.
func (e *Entry) HashKey() string {
	return e.title + "\x00" + e.author + "\x00" + e.content + "\x00" + e.source.URL
}

// EntryBuilder collects Entry fields with the defaults the spec calls for
// (empty strings, Parsed(now)) before producing an immutable Entry.
type EntryBuilder struct {
	title      string
	date       *entryDate
	author     string
	content    string
	source     *Link
	comments   *Link
	otherLinks []Link
	sourceID   *string
}

func NewEntryBuilder() *EntryBuilder {
	return &EntryBuilder{}
}

func (b *EntryBuilder) Title(title string) *EntryBuilder {
	b.title = title
	return b
}

// Date sets a wire-provided (Published) date.
func (b *EntryBuilder) Date(t time.Time) *EntryBuilder {
	b.date = &entryDate{kind: datePublished, time: t}
	return b
}

func (b *EntryBuilder) Author(author string) *EntryBuilder {
	b.author = author
	return b
}

func (b *EntryBuilder) Content(content string) *EntryBuilder {
	b.content = content
	return b
}

func (b *EntryBuilder) Source(url string) *EntryBuilder {
	b.source = &Link{URL: url, Title: "Source"}
	return b
}

func (b *EntryBuilder) Comments(url string) *EntryBuilder {
	b.comments = &Link{URL: url, Title: "Comments"}
	return b
}

func (b *EntryBuilder) OtherLink(link Link) *EntryBuilder {
	b.otherLinks = append(b.otherLinks, link)
	return b
}

func (b *EntryBuilder) SourceID(id string) *EntryBuilder {
	b.sourceID = &id
	return b
}

// Build produces an immutable Entry with empty feeds/tags; the updater
// fills those in during tagging.
func (b *EntryBuilder) Build() *Entry {
	date := entryDate{kind: dateParsed, time: chrono.Now()}
	if b.date != nil {
		date = *b.date
	}
	source := Link{Title: "Source"}
	if b.source != nil {
		source = *b.source
	}
	comments := Link{Title: "Comments"}
	if b.comments != nil {
		comments = *b.comments
	}
	return &Entry{
		title:      b.title,
		date:       date,
		author:     b.author,
		content:    b.content,
		source:     source,
		comments:   comments,
		otherLinks: append([]Link(nil), b.otherLinks...),
		sourceID:   b.sourceID,
	}
}
