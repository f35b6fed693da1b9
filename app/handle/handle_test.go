package handle

import (
	"context"
	"testing"
	"time"

	"github.com/lysyi3m/feedcomb/app/filter"
	"github.com/lysyi3m/feedcomb/app/model"
	"github.com/lysyi3m/feedcomb/app/store"
	"github.com/lysyi3m/feedcomb/app/updater"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestClientEntriesSearchAndEntryUpdate(t *testing.T) {
	s := newTestStore(t)
	entry := model.NewEntryBuilder().Title("Hello").Author("bob").Build()
	id, err := s.Insert(entry)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	upd := updater.New(time.Hour, 4, 100)
	server, client := NewServer(s, upd, nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	go server.Run(ctx)

	records, err := client.EntriesSearch(ctx, store.Latest(), store.OpenCursor(), 10)
	if err != nil {
		t.Fatalf("entries search: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	if err := client.EntryUpdate(ctx, id, []model.Tag{model.NewTag("updated")}); err != nil {
		t.Fatalf("entry update: %v", err)
	}

	records, err = client.EntriesSearch(ctx, store.ByTag("updated"), store.OpenCursor(), 10)
	if err != nil {
		t.Fatalf("entries search by tag: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record tagged \"updated\", got %d", len(records))
	}
}

func TestClientFeedFetchAppliesGlobalAndAllFilters(t *testing.T) {
	s := newTestStore(t)
	for _, title := range []string{"Rust news", "Spam alert", "Go news"} {
		if _, err := s.Insert(model.NewEntryBuilder().Title(title).Build()); err != nil {
			t.Fatalf("insert %q: %v", title, err)
		}
	}

	upd := updater.New(time.Hour, 4, 100)
	globalFilters := []model.Filter{filter.ExcludeTitleWords([]string{"spam"})}
	allFilters := []model.Filter{filter.MustIncludeSubstrings([]string{"rust"})}
	server, client := NewServer(s, upd, globalFilters, allFilters)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	go server.Run(ctx)

	records, err := client.FeedFetch(ctx, FetchOptions{Scope: FetchAll})
	if err != nil {
		t.Fatalf("feed fetch: %v", err)
	}
	if len(records) != 1 || records[0].Entry.Title() != "Rust news" {
		t.Fatalf("expected only \"Rust news\" to survive the global and all-feed filters, got %v", records)
	}
}

func TestClientFeedNameResolvesRegisteredFeed(t *testing.T) {
	s := newTestStore(t)
	upd := updater.New(time.Hour, 4, 100)
	id := upd.AddFeed(noopFeed{}, model.NewFeedAttributes("My Feed"))

	server, client := NewServer(s, upd, nil, nil)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	go server.Run(ctx)

	name, ok, err := client.FeedName(ctx, id)
	if err != nil {
		t.Fatalf("feed name: %v", err)
	}
	if !ok || name != "My Feed" {
		t.Fatalf("expected (\"My Feed\", true), got (%q, %v)", name, ok)
	}
}

type noopFeed struct{}

func (noopFeed) Name() string { return "noop" }
func (noopFeed) Update(ctx context.Context, uctx *model.UpdaterContext, attr model.FeedAttributes) {
}
func (noopFeed) Tag(entry *model.Entry, id model.FeedId, attr model.FeedAttributes) {}
