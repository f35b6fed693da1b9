package model

import (
	"testing"
	"time"
)

func TestEntryIdentityBySourceID(t *testing.T) {
	a := NewEntryBuilder().Title("A").SourceID("42").Build()
	b := NewEntryBuilder().Title("B").SourceID("42").Build()
	if !a.Equal(b) {
		t.Fatal("entries sharing a source id should be equal regardless of other fields")
	}

	c := NewEntryBuilder().Title("A").SourceID("43").Build()
	if a.Equal(c) {
		t.Fatal("entries with differing source ids should not be equal")
	}
}

func TestEntryIdentityWithoutSourceID(t *testing.T) {
	a := NewEntryBuilder().Title("Hello").Author("bob").Content("c").Source("u").Build()
	b := NewEntryBuilder().Title("Hello").Author("bob").Content("c").Source("u").Build()
	if !a.Equal(b) {
		t.Fatal("entries matching on all fields should be equal")
	}

	c := NewEntryBuilder().Title("Different").Author("bob").Content("c").Source("u").Build()
	if a.Equal(c) {
		t.Fatal("entries with differing titles should not be equal")
	}
}

func TestEntryIdentityParsedDatesMustMatch(t *testing.T) {
	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	// The builder only sets Published dates, so the Parsed dates are set
	// directly on the built entries.
	a := NewEntryBuilder().Title("Hello").Build()
	b := NewEntryBuilder().Title("Hello").Build()
	a.date = entryDate{kind: dateParsed, time: t1}
	b.date = entryDate{kind: dateParsed, time: t2}
	if a.Equal(b) {
		t.Fatal("differing Parsed dates should distinguish otherwise equal entries")
	}
	b.date = entryDate{kind: dateParsed, time: t1}
	if !a.Equal(b) {
		t.Fatal("matching Parsed dates should leave otherwise equal entries equal")
	}

	// A Published/Parsed pair never compares dates, so these must match.
	pub := NewEntryBuilder().Title("Hello").Date(t1).Build()
	parsed := NewEntryBuilder().Title("Hello").Build()
	if !pub.Equal(parsed) {
		t.Fatal("a Published/Parsed pair should not be distinguished by date")
	}
}

func TestEntryOrderingNewestFirst(t *testing.T) {
	older := NewEntryBuilder().Date(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)).Build()
	newer := NewEntryBuilder().Date(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)).Build()
	if !newer.Before(older) {
		t.Fatal("a newer entry should sort before an older one")
	}
	if older.Before(newer) {
		t.Fatal("an older entry should not sort before a newer one")
	}
}

func TestEntryTagsLowercaseAndDeduped(t *testing.T) {
	e := NewEntryBuilder().Build()
	e.AddTag(NewTag("Go"))
	e.AddTag(NewTag("GO"))
	e.AddTag(NewTag("rust"))
	tags := e.Tags()
	if len(tags) != 2 {
		t.Fatalf("expected 2 unique tags, got %v", tags)
	}
	if !e.HasTag(NewTag("go")) || !e.HasTag(NewTag("rust")) {
		t.Fatalf("expected lowercase tags, got %v", tags)
	}
}

func TestEntryFeedsSortedByName(t *testing.T) {
	e := NewEntryBuilder().Build()
	e.AddFeed(FeedRef{ID: 2, Name: "zeta"})
	e.AddFeed(FeedRef{ID: 1, Name: "alpha"})
	refs := e.Feeds()
	if len(refs) != 2 || refs[0].Name != "alpha" || refs[1].Name != "zeta" {
		t.Fatalf("expected feeds sorted by name, got %v", refs)
	}
}
