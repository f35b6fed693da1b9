// Package filter builds model.Filter predicates. Each constructor mirrors a
// filter named in the feed configuration schema; a chain passes an entry iff
// every filter in it returns true. Field lookups follow the teacher's
// getFieldValue/matchesFilter split (app/feed/filterer.go) generalized to
// the richer set of built-ins the entry model exposes.
package filter

import (
	"strings"

	"github.com/lysyi3m/feedcomb/app/model"
)

func lower(s string) string {
	return strings.ToLower(s)
}

// titleTokens splits a lowercased title on whitespace, matching the
// "whitespace-split token" rule for word filters.
func titleTokens(title string) []string {
	return strings.Fields(lower(title))
}

// ExcludeTitleWords fails an entry when any whitespace-split token of its
// (lowercased) title equals one of words.
func ExcludeTitleWords(words []string) model.Filter {
	excluded := make(map[string]struct{}, len(words))
	for _, w := range words {
		excluded[lower(w)] = struct{}{}
	}
	return func(_ model.Feed, entry *model.Entry) bool {
		for _, tok := range titleTokens(entry.Title()) {
			if _, ok := excluded[tok]; ok {
				return false
			}
		}
		return true
	}
}

// ExcludeContentWords fails an entry when any whitespace-split token of its
// (lowercased) content equals one of words.
func ExcludeContentWords(words []string) model.Filter {
	excluded := make(map[string]struct{}, len(words))
	for _, w := range words {
		excluded[lower(w)] = struct{}{}
	}
	return func(_ model.Feed, entry *model.Entry) bool {
		for _, tok := range strings.Fields(lower(entry.Content())) {
			if _, ok := excluded[tok]; ok {
				return false
			}
		}
		return true
	}
}

// ExcludeSubstrings fails an entry when title or content (lowercased)
// contains any of subs.
func ExcludeSubstrings(subs []string) model.Filter {
	return func(_ model.Feed, entry *model.Entry) bool {
		title, content := lower(entry.Title()), lower(entry.Content())
		for _, sub := range subs {
			s := lower(sub)
			if strings.Contains(title, s) || strings.Contains(content, s) {
				return false
			}
		}
		return true
	}
}

// MustIncludeSubstrings passes an entry if any of subs appears in title or
// content (logical OR across the list).
func MustIncludeSubstrings(subs []string) model.Filter {
	return func(_ model.Feed, entry *model.Entry) bool {
		if len(subs) == 0 {
			return true
		}
		title, content := lower(entry.Title()), lower(entry.Content())
		for _, sub := range subs {
			s := lower(sub)
			if strings.Contains(title, s) || strings.Contains(content, s) {
				return true
			}
		}
		return false
	}
}

// MustIncludeAllSubstrings passes an entry only if every substring in subs
// appears in title or content.
func MustIncludeAllSubstrings(subs []string) model.Filter {
	return func(_ model.Feed, entry *model.Entry) bool {
		title, content := lower(entry.Title()), lower(entry.Content())
		for _, sub := range subs {
			s := lower(sub)
			if !strings.Contains(title, s) && !strings.Contains(content, s) {
				return false
			}
		}
		return true
	}
}

// ExcludeTags fails an entry carrying any of the listed tags.
func ExcludeTags(tags []string) model.Filter {
	excluded := make([]model.Tag, len(tags))
	for i, t := range tags {
		excluded[i] = model.NewTag(t)
	}
	return func(_ model.Feed, entry *model.Entry) bool {
		for _, t := range excluded {
			if entry.HasTag(t) {
				return false
			}
		}
		return true
	}
}

// IncludeTags passes an entry carrying any of the listed tags.
func IncludeTags(tags []string) model.Filter {
	included := make([]model.Tag, len(tags))
	for i, t := range tags {
		included[i] = model.NewTag(t)
	}
	return func(_ model.Feed, entry *model.Entry) bool {
		if len(included) == 0 {
			return true
		}
		for _, t := range included {
			if entry.HasTag(t) {
				return true
			}
		}
		return false
	}
}

// Chain combines filters with AND; an empty chain always passes. It is a
// convenience equivalent to model.FeedAttributes.PassesFilters for callers
// (e.g. the Noop sentinel and global/all-feed filter lists) that don't carry
// a FeedAttributes of their own.
func Chain(filters ...model.Filter) model.Filter {
	return func(feed model.Feed, entry *model.Entry) bool {
		for _, f := range filters {
			if !f(feed, entry) {
				return false
			}
		}
		return true
	}
}
