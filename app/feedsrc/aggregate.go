package feedsrc

import (
	"context"

	"github.com/lysyi3m/feedcomb/app/aggregate"
	"github.com/lysyi3m/feedcomb/app/model"
)

// AggregateFeed is a logical feed: the union of other named feeds,
// resolved through a shared aggregate.World. It never fetches anything
// itself; its Tag hook is where it claims ownership of entries belonging
// to it (directly or transitively), applying its own filters and tags.
type AggregateFeed struct {
	name  string
	world *aggregate.World
}

var _ model.FeedVariant = (*AggregateFeed)(nil)

// NewAggregateFeed returns an Aggregate feed named name, resolved against
// world.
func NewAggregateFeed(name string, world *aggregate.World) *AggregateFeed {
	return &AggregateFeed{name: name, world: world}
}

func (f *AggregateFeed) Name() string { return f.name }

// Update is a no-op: Aggregate feeds contribute no entries of their own.
func (f *AggregateFeed) Update(ctx context.Context, uctx *model.UpdaterContext, attr model.FeedAttributes) {
}

// Tag claims ownership of entry if this feed (directly or through any
// child it aggregates) owns it, then applies this feed's filters and tags
// and appends its FeedRef.
func (f *AggregateFeed) Tag(entry *model.Entry, id model.FeedId, attr model.FeedAttributes) {
	if !f.world.FeedOwnsEntry(id, entry) {
		return
	}
	if !attr.PassesFilters(f, entry) {
		return
	}
	for _, tag := range attr.Tags {
		entry.AddTag(tag)
	}
	entry.AddFeed(model.FeedRef{ID: id, Name: f.name})
}
