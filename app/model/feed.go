package model

import (
	"context"
	"time"
)

// FeedId is an opaque, monotonically assigned feed identifier.
type FeedId uint64

// FeedRef records which feed an Entry came from: an id plus a display name
// stable enough to sort and present.
type FeedRef struct {
	ID   FeedId
	Name string
}

func sortedUniqueFeedRefs(refs []FeedRef) []FeedRef {
	seen := make(map[FeedId]struct{}, len(refs))
	out := make([]FeedRef, 0, len(refs))
	for _, r := range refs {
		if _, ok := seen[r.ID]; ok {
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].Name > out[j].Name; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

// Feed is the minimal identity a filter needs about the feed an entry is
// being evaluated for. Concrete feed variants (feedsrc package) satisfy
// this alongside their update/tag behavior.
type Feed interface {
	Name() string
}

// Filter is a predicate over a (feed, entry) pair. It fails (returns
// false) when the entry should be excluded.
type Filter func(feed Feed, entry *Entry) bool

// EntryResult pairs a freshly built entry with the feed that produced it,
// the unit sent over the updater's shared channel.
type EntryResult struct {
	Entry *Entry
	Feed  FeedRef
}

// UpdaterContext is what a feed variant's Update needs from the scheduler:
// when it last succeeded (for If-Modified-Since), the instant this cycle
// started (used as a Parsed-date fallback and for age cutoffs), its own id,
// and the channel to publish results on.
type UpdaterContext struct {
	LastUpdate *time.Time
	ParseTime  time.Time
	FeedID     FeedId
	Results    chan<- EntryResult
}

// TooOld reports whether date is older than the cycle's age cutoff for a
// feed with the given timeout.
func (c *UpdaterContext) TooOld(date time.Time, timeout time.Duration) bool {
	return date.Before(c.ParseTime.Add(-timeout))
}

// FeedVariant is the polymorphic capability set every feed kind
// (StandardFeed, MastodonFeed, AggregateFeed, NoopFeed) implements:
// Update fetches and publishes new entries (a no-op for some variants);
// Tag runs once per entry per registered feed and is how Aggregate feeds
// claim ownership of entries belonging to their children.
type FeedVariant interface {
	Feed
	Update(ctx context.Context, uctx *UpdaterContext, attr FeedAttributes)
	Tag(entry *Entry, id FeedId, attr FeedAttributes)
}

// DefaultTag implements the capability set's default tag behavior: a feed
// only tags entries it directly produced, attaching its configured tags.
func DefaultTag(entry *Entry, id FeedId, attr FeedAttributes) {
	if entry.IsFromFeed(id) {
		for _, tag := range attr.Tags {
			entry.AddTag(tag)
		}
	}
}

// FeedAttributes holds the per-feed configuration the updater and feed
// variants consult: display name, age cutoff, poll cadence, tags to apply,
// and the feed's own filter chain.
type FeedAttributes struct {
	DisplayName string
	// Timeout is the maximum age of an entry worth ingesting, and doubles
	// as this feed's per-poll timeout budget.
	Timeout time.Duration
	// Freq, if set, rate-limits how often this feed is actually polled.
	Freq *time.Duration
	Tags []Tag
	// Filters is this feed's own chain, applied at ingress.
	Filters []Filter
	// KeepEmpty, if false, drops entries with an empty title.
	KeepEmpty bool
	// ApplyTags controls whether a source's own categories become tags.
	ApplyTags bool
}

// NewFeedAttributes returns attributes with the spec's defaults: a 15s
// timeout, tags applied, empty entries dropped.
func NewFeedAttributes(displayName string) FeedAttributes {
	return FeedAttributes{
		DisplayName: displayName,
		Timeout:     15 * time.Second,
		ApplyTags:   true,
	}
}

// PassesFilters reports whether entry passes every filter in this feed's
// chain. An empty chain always passes.
func (a FeedAttributes) PassesFilters(feed Feed, entry *Entry) bool {
	for _, f := range a.Filters {
		if !f(feed, entry) {
			return false
		}
	}
	return true
}
