// Package config holds the plain value types a configuration loader
// populates: the TOML schema from spec §6, expressed as Go structs with
// yaml tags so the bundled test/demo loader (config.YAMLLoader) can exercise
// them without pulling in a TOML library — CLI flag parsing and TOML file
// discovery remain a non-goal, external collaborator's job. Grounded on
// the teacher's app/feed_config/types.go field-per-setting shape.
package config

import "time"

// Config is the top-level document: global polling defaults plus one
// FeedDefinition per configured feed, keyed by its display name.
type Config struct {
	Freq     *Duration                 `yaml:"freq,omitempty"`
	Workers  int                       `yaml:"workers,omitempty"`
	Storage  string                    `yaml:"storage,omitempty"`
	Database string                    `yaml:"database,omitempty"`
	Feeds    map[string]FeedDefinition `yaml:"feeds"`

	// GlobalFilters apply to every query answered through the updater
	// handle. AllFilters apply only to the combined/all-feeds view.
	GlobalFilters []Filter `yaml:"global_filters,omitempty"`
	AllFilters    []Filter `yaml:"all_filters,omitempty"`
}

// FeedDefinition describes one configured feed. Exactly one of URL,
// Feeds (aggregate children), or Mastodon should be set; which one is set
// is the variant discriminator spec §6 calls for.
type FeedDefinition struct {
	// Standard syndication discriminator.
	URL       string `yaml:"url,omitempty"`
	UserAgent string `yaml:"user_agent,omitempty"`

	// Aggregate discriminator: names of other configured feeds this one
	// unions, directly or transitively.
	Feeds []string `yaml:"feeds,omitempty"`

	// Mastodon discriminator.
	Mastodon string `yaml:"mastodon,omitempty"`
	FeedType string `yaml:"feed_type,omitempty"` // "public", "home", or "user"
	User     string `yaml:"user,omitempty"`
	Token    string `yaml:"token,omitempty"`

	Tags    []string `yaml:"tags,omitempty"`
	Filters []Filter `yaml:"filters,omitempty"`
	Options FeedOptions `yaml:"options,omitempty"`
}

// FeedOptions carries the per-feed tuning knobs from spec §6's
// `options` map.
type FeedOptions struct {
	Max       int       `yaml:"max,omitempty"`
	Freq      *Duration `yaml:"freq,omitempty"`
	Oldest    *Duration `yaml:"oldest,omitempty"`
	KeepEmpty bool      `yaml:"keep_empty,omitempty"`
	ApplyTags bool      `yaml:"apply_tags,omitempty"`
}

// Filter mirrors one entry of the filter library in spec §4.3. Exactly one
// field is expected to be set per list entry; zero-value fields are no-ops.
type Filter struct {
	ExcludeTitleWords        []string `yaml:"exclude_title_words,omitempty"`
	ExcludeContentWords      []string `yaml:"exclude_content_words,omitempty"`
	ExcludeSubstrings        []string `yaml:"exclude_substrings,omitempty"`
	MustIncludeSubstrings    []string `yaml:"must_include_substrings,omitempty"`
	MustIncludeAllSubstrings []string `yaml:"must_include_all_substrings,omitempty"`
	ExcludeTags              []string `yaml:"exclude_tags,omitempty"`
	IncludeTags              []string `yaml:"include_tags,omitempty"`
}

// Duration marshals as a Go duration string ("30s", "15m") rather than a
// bare integer, unlike the teacher's seconds-as-int FeedSettings fields —
// the richer spec schema needs sub-second and multi-unit values (e.g. feed
// "freq" measured in hours) that an int-seconds field can't express
// without a unit convention of its own.
type Duration time.Duration

func (d Duration) AsDuration() time.Duration { return time.Duration(d) }

func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}
