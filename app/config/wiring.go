package config

import (
	"fmt"
	"time"

	"github.com/lysyi3m/feedcomb/app/aggregate"
	"github.com/lysyi3m/feedcomb/app/feedsrc"
	"github.com/lysyi3m/feedcomb/app/filter"
	"github.com/lysyi3m/feedcomb/app/model"
	"github.com/lysyi3m/feedcomb/app/updater"
)

const defaultTimeout = 15 * time.Second

// BuildFilters turns a Filter list into the model.Filter chain filter.Chain
// expects, one constructor call per populated field. Exported so callers
// can build the global/all-feed filter lists from config.Config without
// going through a feed registration.
func BuildFilters(defs []Filter) []model.Filter {
	out := make([]model.Filter, 0, len(defs))
	for _, d := range defs {
		if len(d.ExcludeTitleWords) > 0 {
			out = append(out, filter.ExcludeTitleWords(d.ExcludeTitleWords))
		}
		if len(d.ExcludeContentWords) > 0 {
			out = append(out, filter.ExcludeContentWords(d.ExcludeContentWords))
		}
		if len(d.ExcludeSubstrings) > 0 {
			out = append(out, filter.ExcludeSubstrings(d.ExcludeSubstrings))
		}
		if len(d.MustIncludeSubstrings) > 0 {
			out = append(out, filter.MustIncludeSubstrings(d.MustIncludeSubstrings))
		}
		if len(d.MustIncludeAllSubstrings) > 0 {
			out = append(out, filter.MustIncludeAllSubstrings(d.MustIncludeAllSubstrings))
		}
		if len(d.ExcludeTags) > 0 {
			out = append(out, filter.ExcludeTags(d.ExcludeTags))
		}
		if len(d.IncludeTags) > 0 {
			out = append(out, filter.IncludeTags(d.IncludeTags))
		}
	}
	return out
}

func buildAttr(name string, def FeedDefinition) model.FeedAttributes {
	attr := model.NewFeedAttributes(name)
	attr.Timeout = defaultTimeout
	if def.Options.Oldest != nil {
		attr.Timeout = def.Options.Oldest.AsDuration()
	}
	if def.Options.Freq != nil {
		d := def.Options.Freq.AsDuration()
		attr.Freq = &d
	}
	attr.KeepEmpty = def.Options.KeepEmpty
	attr.ApplyTags = def.Options.ApplyTags
	tags := make([]model.Tag, 0, len(def.Tags))
	for _, t := range def.Tags {
		tags = append(tags, model.NewTag(t))
	}
	attr.Tags = tags
	attr.Filters = BuildFilters(def.Filters)
	return attr
}

// mastodonFeedType maps the config schema's string discriminator to
// feedsrc's enum, defaulting to PublicTimeline for an empty/unknown value
// (validated beforehand by Validate).
func mastodonFeedType(s string) feedsrc.MastodonFeedType {
	switch s {
	case "home":
		return feedsrc.HomeTimeline
	case "user":
		return feedsrc.UserStatuses
	default:
		return feedsrc.PublicTimeline
	}
}

// Register builds one feed variant per cfg.Feeds entry and adds it to upd,
// resolving aggregate children against world. It registers non-aggregate
// feeds first, then aggregates in map order; world.Insert records child
// names only and resolves them to ids at query time, so an aggregate may
// name another aggregate registered after it.
//
// Returns the registered name -> id mapping, useful for the updater
// handle's FeedName lookups and for tests asserting on feed identity.
func Register(cfg *Config, upd *updater.Updater, world *aggregate.World) (map[string]model.FeedId, error) {
	ids := make(map[string]model.FeedId, len(cfg.Feeds))

	var aggregateNames []string
	for name, def := range cfg.Feeds {
		if len(def.Feeds) > 0 {
			aggregateNames = append(aggregateNames, name)
			continue
		}
		var variant model.FeedVariant
		switch {
		case def.URL != "":
			variant = feedsrc.NewStandardFeed(name, def.URL, def.UserAgent)
		case def.Mastodon != "":
			variant = feedsrc.NewMastodonFeed(name, def.Mastodon, mastodonFeedType(def.FeedType), def.User, def.Token)
		default:
			return nil, fmt.Errorf("config: feed %q has no recognized variant", name)
		}
		id := upd.AddFeed(variant, buildAttr(name, def))
		ids[name] = id
		world.Insert(name, id, nil)
	}

	for _, name := range aggregateNames {
		def := cfg.Feeds[name]
		variant := feedsrc.NewAggregateFeed(name, world)
		id := upd.AddFeed(variant, buildAttr(name, def))
		ids[name] = id
		world.Insert(name, id, def.Feeds)
	}

	return ids, nil
}
