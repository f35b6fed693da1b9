package config

import "fmt"

// Validate checks that every feed definition names exactly one variant
// discriminator and that a Mastodon definition's feed_type is recognized,
// mirroring the teacher's feed_config.ValidateConfig required-field checks
// generalized to this schema's polymorphic feed definitions.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	for name, def := range cfg.Feeds {
		discriminators := 0
		if def.URL != "" {
			discriminators++
		}
		if len(def.Feeds) > 0 {
			discriminators++
		}
		if def.Mastodon != "" {
			discriminators++
		}
		if discriminators != 1 {
			return fmt.Errorf("feed %q: exactly one of url, feeds, mastodon must be set, found %d", name, discriminators)
		}
		if def.Mastodon != "" {
			switch def.FeedType {
			case "public", "home", "user":
			default:
				return fmt.Errorf("feed %q: feed_type must be one of public, home, user (got %q)", name, def.FeedType)
			}
			if def.FeedType == "user" && def.User == "" {
				return fmt.Errorf("feed %q: feed_type \"user\" requires a user", name)
			}
			if def.FeedType == "home" && def.Token == "" {
				return fmt.Errorf("feed %q: feed_type \"home\" requires a token", name)
			}
		}
		if len(def.Feeds) > 0 {
			for _, child := range def.Feeds {
				if _, ok := cfg.Feeds[child]; !ok {
					return fmt.Errorf("feed %q: aggregates unknown feed %q", name, child)
				}
			}
		}
	}
	return nil
}
