// Package reconcile merges freshly parsed feed items into the stored item
// set without duplicating entries or regressing read state. Feeds republish
// their full window of items on every fetch; this merge is what keeps the
// database from growing without bound.
package reconcile

import (
	"skim/backend/internal/feedparse"
	"skim/backend/internal/model"
	"skim/backend/internal/urlutil"
)

// Result partitions a parsed batch into items to persist and items already
// present (or unidentifiable) that were skipped.
type Result struct {
	ToInsert []model.Item
	Skipped  []feedparse.ParsedItem
}

// Merge dedups parsed items against existing ones by (feed, link). An
// existing item is never touched: its status survives every re-fetch. New
// items start unread. Merging the same batch twice inserts nothing the
// second time.
func Merge(feedID int64, parsed []feedparse.ParsedItem, existing []model.Item) Result {
	seen := make(map[string]struct{}, len(existing))
	for _, item := range existing {
		seen[itemKey(item.Link)] = struct{}{}
	}

	result := Result{}
	for _, item := range parsed {
		key := itemKey(item.Link)
		if key == "" {
			// No link means no identity; it can never be deduplicated.
			result.Skipped = append(result.Skipped, item)
			continue
		}
		if _, ok := seen[key]; ok {
			result.Skipped = append(result.Skipped, item)
			continue
		}
		seen[key] = struct{}{}
		result.ToInsert = append(result.ToInsert, newItem(feedID, item))
	}

	return result
}

// itemKey normalizes a link for identity comparison. Fragments never change
// the document served, so they don't change identity either.
func itemKey(link string) string {
	return urlutil.StripFragment(link)
}

func newItem(feedID int64, item feedparse.ParsedItem) model.Item {
	out := model.Item{
		FeedID:      feedID,
		GUID:        item.GUID,
		Title:       item.Title,
		Link:        item.Link,
		PublishedAt: item.PublishedAt,
		Status:      model.StatusUnread,
	}
	if item.Content != "" {
		content := item.Content
		out.Description = &content
	}
	if item.Author != "" {
		author := item.Author
		out.Author = &author
	}
	return out
}
