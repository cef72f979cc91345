package reconcile_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"skim/backend/internal/feedparse"
	"skim/backend/internal/model"
	"skim/backend/internal/reconcile"
)

func parsedItem(title, link string) feedparse.ParsedItem {
	return feedparse.ParsedItem{Title: title, Link: link, Content: "body of " + title, GUID: link}
}

func TestMerge_NewItemsInsertedUnread(t *testing.T) {
	published := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	parsed := []feedparse.ParsedItem{
		{Title: "A", Link: "https://example.com/a", Content: "body", Author: "Jane", PublishedAt: &published, GUID: "guid-a"},
	}

	result := reconcile.Merge(7, parsed, nil)
	require.Len(t, result.ToInsert, 1)
	require.Empty(t, result.Skipped)

	item := result.ToInsert[0]
	require.Equal(t, int64(7), item.FeedID)
	require.Equal(t, model.StatusUnread, item.Status)
	require.Equal(t, "A", item.Title)
	require.Equal(t, "https://example.com/a", item.Link)
	require.Equal(t, "guid-a", item.GUID)
	require.NotNil(t, item.Description)
	require.Equal(t, "body", *item.Description)
	require.NotNil(t, item.Author)
	require.Equal(t, "Jane", *item.Author)
	require.Equal(t, published, item.PublishedAt.UTC())
}

func TestMerge_SkipsExistingLinks(t *testing.T) {
	existing := []model.Item{
		{ID: 1, FeedID: 7, Link: "https://example.com/a", Status: model.StatusRead},
	}
	parsed := []feedparse.ParsedItem{
		parsedItem("A updated", "https://example.com/a"),
		parsedItem("B", "https://example.com/b"),
	}

	result := reconcile.Merge(7, parsed, existing)
	require.Len(t, result.ToInsert, 1)
	require.Equal(t, "B", result.ToInsert[0].Title)
	require.Len(t, result.Skipped, 1)
	require.Equal(t, "A updated", result.Skipped[0].Title)

	// The existing item is untouched; in particular its status survives.
	require.Equal(t, model.StatusRead, existing[0].Status)
}

func TestMerge_Idempotent(t *testing.T) {
	parsed := []feedparse.ParsedItem{
		parsedItem("A", "https://example.com/a"),
		parsedItem("B", "https://example.com/b"),
		parsedItem("C", "https://example.com/c"),
	}

	first := reconcile.Merge(7, parsed, nil)
	require.Len(t, first.ToInsert, 3)

	second := reconcile.Merge(7, parsed, first.ToInsert)
	require.Empty(t, second.ToInsert)
	require.Len(t, second.Skipped, 3)
}

func TestMerge_LinkFragmentsShareIdentity(t *testing.T) {
	existing := []model.Item{
		{ID: 1, FeedID: 7, Link: "https://example.com/a", Status: model.StatusUnread},
	}
	parsed := []feedparse.ParsedItem{
		parsedItem("A", "https://example.com/a#comments"),
	}

	result := reconcile.Merge(7, parsed, existing)
	require.Empty(t, result.ToInsert)
	require.Len(t, result.Skipped, 1)
}

func TestMerge_DuplicateLinksWithinBatch(t *testing.T) {
	parsed := []feedparse.ParsedItem{
		parsedItem("A", "https://example.com/a"),
		parsedItem("A again", "https://example.com/a"),
	}

	result := reconcile.Merge(7, parsed, nil)
	require.Len(t, result.ToInsert, 1)
	require.Len(t, result.Skipped, 1)
}

func TestMerge_EmptyLinkSkipped(t *testing.T) {
	parsed := []feedparse.ParsedItem{
		{Title: "no identity", Link: ""},
	}

	result := reconcile.Merge(7, parsed, nil)
	require.Empty(t, result.ToInsert)
	require.Len(t, result.Skipped, 1)
}
