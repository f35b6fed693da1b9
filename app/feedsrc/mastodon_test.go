package feedsrc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lysyi3m/feedcomb/app/model"
)

func TestMastodonFeedPublicTimeline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/timelines/public") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`[{
			"id": "1",
			"created_at": "2024-01-01T00:00:00Z",
			"account": {"id": "a1", "username": "bob", "display_name": "Bob"},
			"url": "https://instance.example/@bob/1",
			"content": "<p>Hello world this is a long enough status to truncate at forty chars</p>",
			"media_attachments": [],
			"card": null,
			"tags": [{"name": "go"}]
		}]`))
	}))
	defer srv.Close()

	feed := NewMastodonFeed("masto", srv.URL, PublicTimeline, "", "")
	attr := model.NewFeedAttributes("masto")
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
	if entry.Author() != "bob" {
		t.Errorf("expected author bob, got %q", entry.Author())
	}
	if !strings.Contains(entry.Title(), "Bob") || !strings.Contains(entry.Title(), "(1)") {
		t.Errorf("expected title to include display name and id, got %q", entry.Title())
	}
	if !entry.HasTag(model.NewTag("go")) {
		t.Errorf("expected status tag to be copied onto the entry")
	}
}

func TestMastodonFeedUserStatusesResolvesAccount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "/accounts/search"):
			w.Write([]byte(`[{"id": "42", "username": "bob", "display_name": "Bob"}]`))
		case strings.Contains(r.URL.Path, "/accounts/42/statuses"):
			w.Write([]byte(`[]`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	feed := NewMastodonFeed("masto", srv.URL, UserStatuses, "bob", "")
	attr := model.NewFeedAttributes("masto")
	results := make(chan model.EntryResult, 10)
	uctx := &model.UpdaterContext{ParseTime: time.Now().UTC(), FeedID: 1, Results: results}

	feed.Update(context.Background(), uctx, attr)
	close(results)
	if feed.resolvedID != "42" {
		t.Errorf("expected resolved account id to be cached, got %q", feed.resolvedID)
	}
}

func TestMastodonFeedHomeTimelineSendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	feed := NewMastodonFeed("masto", srv.URL, HomeTimeline, "", "secret-token")
	attr := model.NewFeedAttributes("masto")
	results := make(chan model.EntryResult, 10)
	uctx := &model.UpdaterContext{ParseTime: time.Now().UTC(), FeedID: 1, Results: results}

	feed.Update(context.Background(), uctx, attr)
	close(results)

	if gotAuth != "Bearer secret-token" {
		t.Errorf("expected bearer token header, got %q", gotAuth)
	}
}
