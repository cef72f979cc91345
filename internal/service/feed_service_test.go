package service_test

import (
	"context"
	"database/sql"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"

	"skim/backend/internal/fetch"
	"skim/backend/internal/model"
	"skim/backend/internal/repository"
	"skim/backend/internal/repository/testutil"
	"skim/backend/internal/service"

	"github.com/stretchr/testify/require"
)

func newFeedService(t *testing.T, rt roundTripperFunc) (service.FeedService, *sql.DB, int64) {
	t.Helper()
	db := testutil.NewTestDB(t)
	userID := testutil.SeedUser(t, db, "alice", "alice@example.com")
	client := fetch.NewClient(&http.Client{Transport: rt})
	svc := service.NewFeedService(repository.NewFeedRepository(db), repository.NewItemRepository(db), client)
	return svc, db, userID
}

func rssResponder(body string) roundTripperFunc {
	return func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(body)),
			Header:     make(http.Header),
			Request:    req,
		}, nil
	}
}

func TestFeedService_Add_Success(t *testing.T) {
	svc, db, userID := newFeedService(t, rssResponder(sampleRSS))
	ctx := context.Background()

	feed, err := svc.Add(ctx, userID, "https://example.com/rss", "")
	require.NoError(t, err)
	require.NotZero(t, feed.ID)
	require.Equal(t, "Test Feed", feed.Title)
	require.NotNil(t, feed.SiteURL)
	require.Equal(t, "https://example.com", *feed.SiteURL)
	require.NotNil(t, feed.LastFetchedAt)

	// Initial items land unread.
	items := repository.NewItemRepository(db)
	stored, total, err := items.ListByUser(ctx, userID, model.StatusUnread, 0, 10)
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Len(t, stored, 2)
}

func TestFeedService_Add_TitleOverride(t *testing.T) {
	svc, _, userID := newFeedService(t, rssResponder(sampleRSS))

	feed, err := svc.Add(context.Background(), userID, "https://example.com/rss", "My Title")
	require.NoError(t, err)
	require.Equal(t, "My Title", feed.Title)
}

func TestFeedService_Add_InvalidURL(t *testing.T) {
	svc, _, userID := newFeedService(t, rssResponder(sampleRSS))

	_, err := svc.Add(context.Background(), userID, "not a url", "")
	require.ErrorIs(t, err, service.ErrInvalid)

	_, err = svc.Add(context.Background(), userID, "ftp://example.com/feed", "")
	require.ErrorIs(t, err, service.ErrInvalid)
}

func TestFeedService_Add_DuplicateURL(t *testing.T) {
	svc, _, userID := newFeedService(t, rssResponder(sampleRSS))
	ctx := context.Background()

	_, err := svc.Add(ctx, userID, "https://example.com/rss", "")
	require.NoError(t, err)

	_, err = svc.Add(ctx, userID, "https://example.com/rss", "")
	require.ErrorIs(t, err, service.ErrConflict)
}

func TestFeedService_Add_EmptyFeed(t *testing.T) {
	svc, _, userID := newFeedService(t, rssResponder(emptyRSS))

	_, err := svc.Add(context.Background(), userID, "https://example.com/rss", "")
	require.ErrorIs(t, err, service.ErrEmptyFeed)
}

func TestFeedService_Add_FetchError(t *testing.T) {
	svc, _, userID := newFeedService(t, func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusInternalServerError,
			Body:       io.NopCloser(strings.NewReader("boom")),
			Header:     make(http.Header),
			Request:    req,
		}, nil
	})

	_, err := svc.Add(context.Background(), userID, "https://example.com/rss", "")
	require.ErrorIs(t, err, service.ErrFeedFetch)
}

func TestFeedService_Add_ParseError(t *testing.T) {
	svc, _, userID := newFeedService(t, rssResponder("this is not xml"))

	_, err := svc.Add(context.Background(), userID, "https://example.com/rss", "")
	require.ErrorIs(t, err, service.ErrFeedParse)
}

func TestFeedService_Delete(t *testing.T) {
	svc, db, userID := newFeedService(t, rssResponder(sampleRSS))
	ctx := context.Background()

	feed, err := svc.Add(ctx, userID, "https://example.com/rss", "")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, feed.ID, userID))

	_, err = svc.Get(ctx, feed.ID, userID)
	require.ErrorIs(t, err, service.ErrNotFound)

	// Items went with the feed.
	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM items WHERE feed_id = ?`, feed.ID).Scan(&count))
	require.Zero(t, count)
}

func TestFeedService_Delete_NotFound(t *testing.T) {
	svc, _, userID := newFeedService(t, rssResponder(sampleRSS))

	err := svc.Delete(context.Background(), 12345, userID)
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestFeedService_Preview_CachesResult(t *testing.T) {
	var calls atomic.Int32
	svc, _, _ := newFeedService(t, func(req *http.Request) (*http.Response, error) {
		calls.Add(1)
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(sampleRSS)),
			Header:     make(http.Header),
			Request:    req,
		}, nil
	})
	ctx := context.Background()

	preview, err := svc.Preview(ctx, "https://example.com/rss")
	require.NoError(t, err)
	require.Equal(t, "Test Feed", preview.Title)
	require.Equal(t, 2, preview.ItemCount)
	require.Len(t, preview.Items, 2)
	require.Equal(t, "First Post", preview.Items[0].Title)
	require.Equal(t, "https://example.com/first", preview.Items[0].Link)
	require.NotNil(t, preview.Items[0].PublishedAt)

	_, err = svc.Preview(ctx, "https://example.com/rss")
	require.NoError(t, err)
	require.Equal(t, int32(1), calls.Load())
}
