package model

import (
	"testing"
	"time"
)

func TestEntrySetMergesByIdentity(t *testing.T) {
	set := NewEntrySet(10)
	base := NewEntryBuilder().Title("Hello").SourceID("1").Build()
	set.Add(base)

	dup := NewEntryBuilder().Title("Hello").SourceID("1").Build()
	dup.AddFeed(FeedRef{ID: 2, Name: "other"})
	dup.AddTag(NewTag("go"))
	set.Add(dup)

	if set.Len() != 1 {
		t.Fatalf("expected merge into a single entry, got %d", set.Len())
	}
	merged := set.Slice()[0]
	if !merged.IsFromFeed(2) || !merged.HasTag(NewTag("go")) {
		t.Fatal("expected feed and tag to be merged onto the existing entry")
	}
}

func TestEntrySetSortTruncates(t *testing.T) {
	set := NewEntrySet(2)
	for i := 0; i < 5; i++ {
		set.Add(NewEntryBuilder().
			Title("x").
			SourceID(string(rune('a' + i))).
			Date(time.Date(2020, 1, i+1, 0, 0, 0, 0, time.UTC)).
			Build())
	}
	set.Sort()
	if set.Len() != 2 {
		t.Fatalf("expected truncation to 2, got %d", set.Len())
	}
	entries := set.Slice()
	if !entries[0].Date().After(entries[1].Date()) {
		t.Fatal("expected newest-first ordering after sort")
	}
}

func TestEntrySetFromFeedAndWithTag(t *testing.T) {
	set := NewEntrySet(10)
	e1 := NewEntryBuilder().Title("a").SourceID("1").Build()
	e1.AddFeed(FeedRef{ID: 1, Name: "feed-a"})
	e1.AddTag(NewTag("news"))
	e2 := NewEntryBuilder().Title("b").SourceID("2").Build()
	e2.AddFeed(FeedRef{ID: 2, Name: "feed-b"})
	set.Add(e1)
	set.Add(e2)

	if got := set.FromFeed(1); len(got) != 1 || got[0] != e1 {
		t.Fatalf("expected FromFeed(1) to return e1, got %v", got)
	}
	if got := set.WithTag("NEWS"); len(got) != 1 || got[0] != e1 {
		t.Fatalf("expected WithTag to fuzzy-match case-insensitively, got %v", got)
	}
}

func TestEntrySetClone(t *testing.T) {
	set := NewEntrySet(10)
	set.Add(NewEntryBuilder().Title("a").SourceID("1").Build())
	clone := set.Clone()
	clone.Add(NewEntryBuilder().Title("b").SourceID("2").Build())
	if set.Len() != 1 || clone.Len() != 2 {
		t.Fatalf("expected clone to be independent: orig=%d clone=%d", set.Len(), clone.Len())
	}
}
