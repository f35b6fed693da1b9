package feedsrc

import (
	"bytes"
	"context"
	"encoding/xml"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/lysyi3m/feedcomb/app/chrono"
	"github.com/lysyi3m/feedcomb/app/logger"
	"github.com/lysyi3m/feedcomb/app/model"
)

// StandardFeed is an Atom/RSS source, grounded on gofeed's unified parser
// (the same dependency the teacher's app/feed/parser.go drives) and on the
// original StandardSyndication's update semantics.
type StandardFeed struct {
	name      string
	url       string
	userAgent string
	parser    *gofeed.Parser
}

var _ model.FeedVariant = (*StandardFeed)(nil)

// NewStandardFeed returns a Standard syndication feed for url, displayed as
// name.
func NewStandardFeed(name, url, userAgent string) *StandardFeed {
	return &StandardFeed{
		name:      name,
		url:       url,
		userAgent: userAgent,
		parser:    gofeed.NewParser(),
	}
}

func (f *StandardFeed) Name() string { return f.name }

// Tag applies the default capability: this feed only tags entries it
// directly produced.
func (f *StandardFeed) Tag(entry *model.Entry, id model.FeedId, attr model.FeedAttributes) {
	model.DefaultTag(entry, id, attr)
}

// Update fetches and parses f.url, emitting one model.EntryResult per item
// that survives the age cutoff and this feed's filter chain.
func (f *StandardFeed) Update(ctx context.Context, uctx *model.UpdaterContext, attr model.FeedAttributes) {
	client := httpClient(attr.Timeout)
	body, ok, err := fetch(ctx, client, f.url, f.userAgent, uctx.LastUpdate)
	if err != nil {
		logger.FeedError(f.name, "fetch", err)
		return
	}
	if !ok {
		logger.FeedSkipped(f.name, "not modified or unavailable")
		return
	}

	parsed, err := f.parser.Parse(bytes.NewReader(body))
	if err != nil {
		logger.FeedError(f.name, "parse", err)
		return
	}

	isAtom := parsed.FeedType == "atom"
	var rssComments map[string]string
	if !isAtom {
		rssComments = extractRSSComments(body)
	}

	emitted := 0
	for _, item := range parsed.Items {
		entry := f.buildEntry(item, isAtom, uctx, attr, rssComments)
		if entry == nil {
			continue
		}
		if uctx.TooOld(entry.Date(), attr.Timeout) {
			continue
		}
		if !attr.PassesFilters(f, entry) {
			continue
		}
		select {
		case uctx.Results <- model.EntryResult{Entry: entry, Feed: model.FeedRef{ID: uctx.FeedID, Name: f.name}}:
			emitted++
		case <-ctx.Done():
			return
		}
	}
	logger.FeedProcessed(f.name, emitted)
}

func (f *StandardFeed) buildEntry(item *gofeed.Item, isAtom bool, uctx *model.UpdaterContext, attr model.FeedAttributes, rssComments map[string]string) *model.Entry {
	b := model.NewEntryBuilder().Title(item.Title)
	b.Author(joinAuthors(item))

	// Both Atom (summary else content) and RSS (description else content)
	// prefer the shorter, always-present field over the richer optional one;
	// gofeed maps Atom's summary/content and RSS's description/content:encoded
	// onto Description/Content respectively, so one rule covers both.
	content := item.Description
	if content == "" {
		content = item.Content
	}
	b.Content(toMarkdown(content))

	if isAtom {
		// Atom requires <updated>; the original only ever reads that field,
		// never <published>, for the entry's date.
		if item.UpdatedParsed != nil {
			b.Date(item.UpdatedParsed.UTC())
		}
		for i, link := range item.Links {
			if i == 0 {
				b.Source(link)
			} else {
				b.OtherLink(model.NewLink(link, "Link"))
			}
		}
	} else {
		switch dcDate := dublinCoreDate(item); {
		case item.PublishedParsed != nil:
			b.Date(item.PublishedParsed.UTC())
		case dcDate != nil:
			b.Date(*dcDate)
		default:
			// Parsed(now) default from the builder covers this case.
		}
		if item.Link != "" {
			b.Source(item.Link)
		}
		if comments := rssComments[commentsKey(item)]; comments != "" {
			b.Comments(comments)
		}
	}

	entry := b.Build()

	if !attr.KeepEmpty && entry.Title() == "" {
		return nil
	}

	if attr.ApplyTags {
		for _, cat := range item.Categories {
			entry.AddTag(model.NewTag(cat))
		}
		for _, subj := range dublinCoreSubjects(item) {
			entry.AddTag(model.NewTag(subj))
		}
	}

	return entry
}

func commentsKey(item *gofeed.Item) string {
	if item.GUID != "" {
		return item.GUID
	}
	return item.Link
}

// rssCommentsDoc is a narrow, independent decode of the raw RSS body used
// only to recover <comments>, an element gofeed's unified Item drops during
// translation. Keyed by guid (falling back to link) to rejoin with the
// gofeed-parsed items.
type rssCommentsDoc struct {
	Channel struct {
		Items []struct {
			GUID     string `xml:"guid"`
			Link     string `xml:"link"`
			Comments string `xml:"comments"`
		} `xml:"item"`
	} `xml:"channel"`
}

func extractRSSComments(body []byte) map[string]string {
	var doc rssCommentsDoc
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil
	}
	out := make(map[string]string, len(doc.Channel.Items))
	for _, item := range doc.Channel.Items {
		if item.Comments == "" {
			continue
		}
		key := item.GUID
		if key == "" {
			key = item.Link
		}
		out[key] = item.Comments
	}
	return out
}

func joinAuthors(item *gofeed.Item) string {
	if len(item.Authors) > 0 {
		names := make([]string, 0, len(item.Authors))
		for _, a := range item.Authors {
			if a != nil && a.Name != "" {
				names = append(names, a.Name)
			}
		}
		return strings.Join(names, " ")
	}
	if item.Author != nil {
		return item.Author.Name
	}
	return ""
}

func dublinCoreDate(item *gofeed.Item) *time.Time {
	if item.DublinCoreExt == nil || len(item.DublinCoreExt.Date) == 0 {
		return nil
	}
	t, err := chrono.Parse(item.DublinCoreExt.Date[0])
	if err != nil {
		return nil
	}
	return &t
}

func dublinCoreSubjects(item *gofeed.Item) []string {
	if item.DublinCoreExt == nil {
		return nil
	}
	return item.DublinCoreExt.Subject
}
