package feedsrc

import (
	"testing"

	"github.com/lysyi3m/feedcomb/app/aggregate"
	"github.com/lysyi3m/feedcomb/app/model"
)

func TestAggregateFeedClaimsOwnershipAndTags(t *testing.T) {
	world := aggregate.NewWorld()
	world.Insert("A", 1, nil)
	world.Insert("B", 2, []string{"A"})

	entry := model.NewEntryBuilder().Title("x").Build()
	entry.AddFeed(model.FeedRef{ID: 1, Name: "A"})

	b := NewAggregateFeed("B", world)
	attr := model.NewFeedAttributes("B")
	attr.Tags = []model.Tag{model.NewTag("aggregated")}

	b.Tag(entry, 2, attr)

	if !entry.HasTag(model.NewTag("aggregated")) {
		t.Fatal("expected aggregate tag to be applied")
	}
	if !entry.IsFromFeed(2) {
		t.Fatal("expected aggregate feed ref to be appended")
	}
}

func TestAggregateFeedSkipsUnownedEntry(t *testing.T) {
	world := aggregate.NewWorld()
	world.Insert("A", 1, nil)
	world.Insert("B", 2, []string{"A"})

	entry := model.NewEntryBuilder().Title("x").Build()
	entry.AddFeed(model.FeedRef{ID: 99, Name: "other"})

	b := NewAggregateFeed("B", world)
	attr := model.NewFeedAttributes("B")

	b.Tag(entry, 2, attr)

	if entry.IsFromFeed(2) {
		t.Fatal("expected aggregate feed not to claim an entry it doesn't own")
	}
}
