package model

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// tagCaser performs locale-independent case folding for tags. Using
// x/text/cases instead of strings.ToLower keeps tag interning consistent
// for the non-ASCII titles/categories real feeds emit.
var tagCaser = cases.Lower(language.Und)

// Tag is an interned, always-lowercase identifier attached to an Entry.
type Tag string

// NewTag interns s as a lowercase Tag.
func NewTag(s string) Tag {
	return Tag(tagCaser.String(strings.TrimSpace(s)))
}

func (t Tag) String() string {
	return string(t)
}

// MatchesFuzzy reports whether query appears as a case-insensitive
// substring of t.
func (t Tag) MatchesFuzzy(query string) bool {
	return strings.Contains(string(t), tagCaser.String(query))
}

// sortedUniqueTags returns tags deduplicated and ordered lexically,
// dropping any empty tag (invariant: tags never contains "").
func sortedUniqueTags(tags []Tag) []Tag {
	seen := make(map[Tag]struct{}, len(tags))
	out := make([]Tag, 0, len(tags))
	for _, t := range tags {
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
