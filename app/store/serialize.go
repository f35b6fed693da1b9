package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/lysyi3m/feedcomb/app/model"
)

// jsonLink mirrors spec §6's Link: {url, title, mime_type?}.
type jsonLink struct {
	URL      string  `json:"url"`
	Title    string  `json:"title"`
	MimeType *string `json:"mime_type,omitempty"`
}

func toJSONLink(l model.Link) jsonLink {
	return jsonLink{URL: l.URL, Title: l.Title, MimeType: l.MimeType}
}

func (l jsonLink) toModel() model.Link {
	return model.Link{URL: l.URL, Title: l.Title, MimeType: l.MimeType}
}

// entryV1 is the versioned envelope body: {"V1": {...}}.
type entryV1 struct {
	Title      string     `json:"title"`
	Date       time.Time  `json:"date"`
	Author     string     `json:"author"`
	Content    string     `json:"content"`
	Source     jsonLink   `json:"source"`
	Comments   jsonLink   `json:"comments"`
	OtherLinks []jsonLink `json:"other_links"`
}

type entryEnvelope struct {
	V1 entryV1 `json:"V1"`
}

// serializeEntry encodes entry into the spec §6 JSON V1 envelope.
func serializeEntry(entry *model.Entry) (string, error) {
	others := make([]jsonLink, len(entry.OtherLinks()))
	for i, l := range entry.OtherLinks() {
		others[i] = toJSONLink(l)
	}
	env := entryEnvelope{V1: entryV1{
		Title:      entry.Title(),
		Date:       entry.Date(),
		Author:     entry.Author(),
		Content:    entry.Content(),
		Source:     toJSONLink(entry.Source()),
		Comments:   toJSONLink(entry.Comments()),
		OtherLinks: others,
	}}
	b, err := json.Marshal(env)
	if err != nil {
		return "", fmt.Errorf("store: serializing entry: %w", err)
	}
	return string(b), nil
}

// deserializeEntry rebuilds an Entry from its stored JSON V1 envelope. The
// rebuilt entry carries no feeds/tags of its own; callers attach those from
// the joined sources/tags rows.
func deserializeEntry(raw string, sourceID *string) (*model.Entry, error) {
	var env entryEnvelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return nil, fmt.Errorf("store: deserializing entry: %w", err)
	}
	v1 := env.V1
	b := model.NewEntryBuilder().
		Title(v1.Title).
		Date(v1.Date).
		Author(v1.Author).
		Content(v1.Content)
	if v1.Source.URL != "" {
		b.Source(v1.Source.URL)
	}
	if v1.Comments.URL != "" {
		b.Comments(v1.Comments.URL)
	}
	for _, l := range v1.OtherLinks {
		b.OtherLink(l.toModel())
	}
	if sourceID != nil {
		b.SourceID(*sourceID)
	}
	return b.Build(), nil
}
