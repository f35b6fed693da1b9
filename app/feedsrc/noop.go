package feedsrc

import (
	"context"

	"github.com/lysyi3m/feedcomb/app/model"
)

// NoopFeed has no behavior. It stands in for a feed argument when global or
// all-feed filters need to be evaluated outside any real feed's context.
type NoopFeed struct{}

var _ model.FeedVariant = NoopFeed{}

func (NoopFeed) Name() string { return "noop" }

func (NoopFeed) Update(ctx context.Context, uctx *model.UpdaterContext, attr model.FeedAttributes) {
}

func (NoopFeed) Tag(entry *model.Entry, id model.FeedId, attr model.FeedAttributes) {}
