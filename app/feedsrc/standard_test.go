package feedsrc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lysyi3m/feedcomb/app/model"
)

// Mirrors the spec's concrete scenario 1: an RSS 2.0 channel with one item,
// a feed-level tag, producing a single normalized entry.
func TestStandardFeedRSSIngestAndTag(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(`<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Demo</title>
    <item>
      <title>Hello</title>
      <link>https://example.com/hello</link>
      <pubDate>Wed, 02 Oct 2002 15:00:00 +0200</pubDate>
    </item>
  </channel>
</rss>`))
	}))
	defer srv.Close()

	feed := NewStandardFeed("demo", srv.URL, "")
	attr := model.NewFeedAttributes("demo")
	attr.Tags = []model.Tag{model.NewTag("news")}
	// Age cutoff wide enough to admit the fixture's 2002 date.
	attr.Timeout = 50 * 365 * 24 * time.Hour

	results := make(chan model.EntryResult, 10)
	uctx := &model.UpdaterContext{ParseTime: time.Now().UTC(), FeedID: 1, Results: results}

	feed.Update(context.Background(), uctx, attr)
	close(results)

	var got []model.EntryResult
	for r := range results {
		got = append(got, r)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got))
	}
	entry := got[0].Entry
	if entry.Title() != "Hello" {
		t.Errorf("expected title Hello, got %q", entry.Title())
	}
	want := time.Date(2002, 10, 2, 13, 0, 0, 0, time.UTC)
	if !entry.Date().Equal(want) {
		t.Errorf("expected date %v, got %v", want, entry.Date())
	}

	// The updater attributes the entry to its feed before running Tag.
	entry.AddFeed(got[0].Feed)
	feed.Tag(entry, got[0].Feed.ID, attr)
	if !entry.HasTag(model.NewTag("news")) {
		t.Errorf("expected feed tag news, got %v", entry.Tags())
	}
}

func TestStandardFeedRSSPopulatesComments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Demo</title>
    <item>
      <title>Hello</title>
      <link>https://example.com/hello</link>
      <comments>https://example.com/hello/comments</comments>
      <pubDate>Wed, 02 Oct 2002 15:00:00 +0200</pubDate>
    </item>
  </channel>
</rss>`))
	}))
	defer srv.Close()

	feed := NewStandardFeed("demo", srv.URL, "")
	attr := model.NewFeedAttributes("demo")
	// Age cutoff wide enough to admit the fixture's 2002 date.
	attr.Timeout = 50 * 365 * 24 * time.Hour
	results := make(chan model.EntryResult, 10)
	uctx := &model.UpdaterContext{ParseTime: time.Now().UTC(), FeedID: 1, Results: results}

	feed.Update(context.Background(), uctx, attr)
	close(results)

	var got []model.EntryResult
	for r := range results {
		got = append(got, r)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got))
	}
	if comments := got[0].Entry.Comments(); comments.URL != "https://example.com/hello/comments" {
		t.Errorf("expected comments link, got %+v", comments)
	}
}

func TestStandardFeedAtomOtherLinksFromRemainingLinks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/atom+xml")
		w.Write([]byte(`<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Demo</title>
  <id>urn:demo</id>
  <updated>2024-01-01T00:00:00Z</updated>
  <entry>
    <title>Hello</title>
    <id>urn:demo:1</id>
    <updated>2024-01-01T00:00:00Z</updated>
    <link href="https://example.com/hello" rel="alternate"/>
    <link href="https://example.com/hello/related" rel="related"/>
  </entry>
</feed>`))
	}))
	defer srv.Close()

	feed := NewStandardFeed("demo", srv.URL, "")
	attr := model.NewFeedAttributes("demo")
	// Age cutoff wide enough to admit the fixture's 2024 date.
	attr.Timeout = 50 * 365 * 24 * time.Hour
	results := make(chan model.EntryResult, 10)
	uctx := &model.UpdaterContext{ParseTime: time.Now().UTC(), FeedID: 1, Results: results}

	feed.Update(context.Background(), uctx, attr)
	close(results)

	var got []model.EntryResult
	for r := range results {
		got = append(got, r)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got))
	}
	entry := got[0].Entry
	if entry.Source().URL != "https://example.com/hello" {
		t.Errorf("expected first link as source, got %q", entry.Source().URL)
	}
	other := entry.OtherLinks()
	if len(other) != 1 || other[0].URL != "https://example.com/hello/related" {
		t.Errorf("expected remaining link as other_link, got %+v", other)
	}
}

func TestStandardFeedNotModified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("If-Modified-Since") != "" {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Write([]byte(`<rss version="2.0"><channel><item><title>X</title></item></channel></rss>`))
	}))
	defer srv.Close()

	feed := NewStandardFeed("demo", srv.URL, "")
	attr := model.NewFeedAttributes("demo")
	results := make(chan model.EntryResult, 10)
	last := time.Now().UTC()
	uctx := &model.UpdaterContext{ParseTime: time.Now().UTC(), FeedID: 1, Results: results, LastUpdate: &last}

	feed.Update(context.Background(), uctx, attr)
	close(results)

	count := 0
	for range results {
		count++
	}
	if count != 0 {
		t.Fatalf("expected a 304 response to yield no entries, got %d", count)
	}
}

func TestStandardFeedDropsEntriesOlderThanTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<rss version="2.0"><channel><item>
			<title>Old</title>
			<pubDate>Mon, 01 Jan 2001 00:00:00 GMT</pubDate>
		</item></channel></rss>`))
	}))
	defer srv.Close()

	feed := NewStandardFeed("demo", srv.URL, "")
	attr := model.NewFeedAttributes("demo")
	attr.Timeout = time.Hour
	results := make(chan model.EntryResult, 10)
	uctx := &model.UpdaterContext{ParseTime: time.Now().UTC(), FeedID: 1, Results: results}

	feed.Update(context.Background(), uctx, attr)
	close(results)

	for range results {
		t.Fatal("expected an entry far outside the timeout window to be dropped")
	}
}
