package feedparse

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"skim/backend/internal/hashutil"
	"skim/backend/pkg/sanitizer"
)

// Media is the structured tuple captured from a media:content element.
type Media struct {
	URL    string
	Type   string
	Medium string
}

// ParsedItem is the canonical in-memory form of one feed entry, independent
// of the source markup dialect.
type ParsedItem struct {
	Title       string
	Link        string
	Content     string
	Author      string
	Categories  []string
	GUID        string
	Media       *Media
	PublishedAt *time.Time
}

// ParsedFeed is the canonical form of a whole feed. A feed with no entries
// parses to an empty Items slice; rejecting it is the caller's business
// rule, not the parser's.
type ParsedFeed struct {
	Title       string
	Description string
	Link        string
	Items       []ParsedItem
}

type Parser struct {
	inner *gofeed.Parser
}

// New returns a parser handling RSS 2.0, Atom and RDF. gofeed detects the
// dialect; ambiguous documents are treated as RSS 2.0.
func New() *Parser {
	return &Parser{inner: gofeed.NewParser()}
}

// Parse converts raw XML into the canonical feed shape.
func (p *Parser) Parse(raw []byte) (*ParsedFeed, error) {
	parsed, err := p.inner.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	feed := &ParsedFeed{
		Title:       strings.TrimSpace(parsed.Title),
		Description: strings.TrimSpace(parsed.Description),
		Link:        strings.TrimSpace(parsed.Link),
		Items:       make([]ParsedItem, 0, len(parsed.Items)),
	}

	for _, item := range parsed.Items {
		if item == nil {
			continue
		}
		feed.Items = append(feed.Items, canonicalItem(item))
	}

	return feed, nil
}

func canonicalItem(item *gofeed.Item) ParsedItem {
	title := strings.TrimSpace(item.Title)
	link := strings.TrimSpace(item.Link)

	// content:encoded (gofeed maps it to Content) wins over the plain
	// description.
	content := strings.TrimSpace(item.Content)
	if content == "" {
		content = strings.TrimSpace(item.Description)
	}

	guid := strings.TrimSpace(item.GUID)
	if guid == "" {
		guid = hashutil.ItemGUID(link, title)
	}

	out := ParsedItem{
		Title:       title,
		Link:        link,
		Content:     content,
		Author:      itemAuthor(item),
		Categories:  itemCategories(item),
		GUID:        guid,
		Media:       itemMedia(item),
		PublishedAt: itemPublished(item),
	}
	return out
}

// itemAuthor resolves the byline, preferring dc:creator over the feed's own
// author element.
func itemAuthor(item *gofeed.Item) string {
	if item.DublinCoreExt != nil {
		for _, creator := range item.DublinCoreExt.Creator {
			if cleaned := sanitizer.SanitizeAuthor(creator); cleaned != "" {
				return cleaned
			}
		}
	}
	for _, author := range item.Authors {
		if author == nil {
			continue
		}
		if cleaned := sanitizer.SanitizeAuthor(author.Name); cleaned != "" {
			return cleaned
		}
	}
	if item.Author != nil {
		return sanitizer.SanitizeAuthor(item.Author.Name)
	}
	return ""
}

func itemCategories(item *gofeed.Item) []string {
	if len(item.Categories) == 0 {
		return nil
	}
	categories := make([]string, 0, len(item.Categories))
	for _, category := range item.Categories {
		if trimmed := strings.TrimSpace(category); trimmed != "" {
			categories = append(categories, trimmed)
		}
	}
	if len(categories) == 0 {
		return nil
	}
	return categories
}

// itemMedia captures the first media:content element, when present.
func itemMedia(item *gofeed.Item) *Media {
	mediaExt, ok := item.Extensions["media"]
	if !ok {
		return nil
	}
	contents, ok := mediaExt["content"]
	if !ok || len(contents) == 0 {
		return nil
	}
	attrs := contents[0].Attrs
	media := &Media{
		URL:    strings.TrimSpace(attrs["url"]),
		Type:   strings.TrimSpace(attrs["type"]),
		Medium: strings.TrimSpace(attrs["medium"]),
	}
	if media.URL == "" && media.Type == "" && media.Medium == "" {
		return nil
	}
	return media
}

// itemPublished normalizes the publish date, falling back to the updated
// time for Atom entries that carry only that. Absent or unparseable dates
// stay nil.
func itemPublished(item *gofeed.Item) *time.Time {
	if item.PublishedParsed != nil {
		t := item.PublishedParsed.UTC()
		return &t
	}
	if item.UpdatedParsed != nil {
		t := item.UpdatedParsed.UTC()
		return &t
	}
	return nil
}
