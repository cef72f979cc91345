package service_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"skim/backend/internal/model"
	"skim/backend/internal/repository"
	"skim/backend/internal/repository/testutil"
	"skim/backend/internal/service"

	"github.com/stretchr/testify/require"
)

func newItemService(t *testing.T) (service.ItemService, *sql.DB, int64, int64) {
	t.Helper()
	db := testutil.NewTestDB(t)
	userID := testutil.SeedUser(t, db, "alice", "alice@example.com")
	feedID := testutil.SeedFeed(t, db, model.Feed{UserID: userID, Title: "Feed", URL: "https://example.com/feed"})
	return service.NewItemService(repository.NewItemRepository(db)), db, userID, feedID
}

func TestItemService_List_Pagination(t *testing.T) {
	svc, db, userID, feedID := newItemService(t)
	ctx := context.Background()

	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 45; i++ {
		published := base.Add(time.Duration(i) * time.Minute)
		testutil.SeedItem(t, db, model.Item{
			FeedID:      feedID,
			Title:       fmt.Sprintf("Item %d", i),
			Link:        fmt.Sprintf("https://example.com/%d", i),
			PublishedAt: &published,
		})
	}

	page1, err := svc.List(ctx, userID, model.StatusUnread, 1)
	require.NoError(t, err)
	require.Len(t, page1.Items, 20)
	require.Equal(t, 45, page1.Total)
	require.Equal(t, 1, page1.Page)
	require.Equal(t, 3, page1.TotalPages)

	page3, err := svc.List(ctx, userID, model.StatusUnread, 3)
	require.NoError(t, err)
	require.Len(t, page3.Items, 5)
	require.Equal(t, 3, page3.Page)

	// Newest first across the whole window.
	require.Equal(t, "Item 44", page1.Items[0].Title)
	require.Equal(t, "Item 0", page3.Items[4].Title)
}

func TestItemService_List_EmptyAndDefaults(t *testing.T) {
	svc, _, userID, _ := newItemService(t)
	ctx := context.Background()

	page, err := svc.List(ctx, userID, model.StatusUnread, 0)
	require.NoError(t, err)
	require.Empty(t, page.Items)
	require.Equal(t, 0, page.Total)
	require.Equal(t, 1, page.Page)
	require.Equal(t, 1, page.TotalPages)
}

func TestItemService_List_InvalidStatus(t *testing.T) {
	svc, _, userID, _ := newItemService(t)

	_, err := svc.List(context.Background(), userID, model.ItemStatus("bogus"), 1)
	require.ErrorIs(t, err, service.ErrInvalid)
}

func TestItemService_UpdateStatus(t *testing.T) {
	svc, db, userID, feedID := newItemService(t)
	ctx := context.Background()

	itemID := testutil.SeedItem(t, db, model.Item{FeedID: feedID, Title: "Item", Link: "https://example.com/1"})

	updated, err := svc.UpdateStatus(ctx, itemID, userID, model.StatusRead)
	require.NoError(t, err)
	require.Equal(t, model.StatusRead, updated.Status)

	_, err = svc.UpdateStatus(ctx, itemID, userID, model.ItemStatus("bogus"))
	require.ErrorIs(t, err, service.ErrInvalid)

	_, err = svc.UpdateStatus(ctx, 99999, userID, model.StatusRead)
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestItemService_Next(t *testing.T) {
	svc, db, userID, feedID := newItemService(t)
	ctx := context.Background()

	newer := time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC)
	older := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	newerID := testutil.SeedItem(t, db, model.Item{FeedID: feedID, Title: "Newer", Link: "https://example.com/newer", PublishedAt: &newer})
	olderID := testutil.SeedItem(t, db, model.Item{FeedID: feedID, Title: "Older", Link: "https://example.com/older", PublishedAt: &older})

	next, err := svc.Next(ctx, newerID, userID, model.StatusUnread)
	require.NoError(t, err)
	require.NotNil(t, next)
	require.Equal(t, olderID, next.ID)

	last, err := svc.Next(ctx, olderID, userID, model.StatusUnread)
	require.NoError(t, err)
	require.Nil(t, last)

	_, err = svc.Next(ctx, 99999, userID, model.StatusUnread)
	require.ErrorIs(t, err, service.ErrNotFound)
}
