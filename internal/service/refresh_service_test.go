package service_test

import (
	"context"
	"database/sql"
	"io"
	"net/http"
	"strings"
	"testing"

	"skim/backend/internal/fetch"
	"skim/backend/internal/model"
	"skim/backend/internal/repository"
	"skim/backend/internal/repository/testutil"
	"skim/backend/internal/service"

	"github.com/stretchr/testify/require"
)

func newRefreshService(t *testing.T, rt roundTripperFunc) (service.RefreshService, *sql.DB, int64) {
	t.Helper()
	db := testutil.NewTestDB(t)
	userID := testutil.SeedUser(t, db, "alice", "alice@example.com")
	client := fetch.NewClient(&http.Client{Transport: rt})
	svc := service.NewRefreshService(repository.NewFeedRepository(db), repository.NewItemRepository(db), client)
	return svc, db, userID
}

func TestRefreshService_RefreshFeed_InsertsOnlyNew(t *testing.T) {
	svc, db, userID := newRefreshService(t, rssResponder(sampleRSS))
	ctx := context.Background()

	feedID := testutil.SeedFeed(t, db, model.Feed{UserID: userID, Title: "Feed", URL: "https://example.com/rss"})
	// One entry from the sample feed is already stored and read.
	testutil.SeedItem(t, db, model.Item{FeedID: feedID, Title: "First Post", Link: "https://example.com/first", Status: model.StatusRead})

	result, err := svc.RefreshFeed(ctx, feedID, userID)
	require.NoError(t, err)
	require.Equal(t, 1, result.NewItems)

	// The pre-existing item kept its read status.
	items := repository.NewItemRepository(db)
	stored, err := items.ListByFeed(ctx, feedID)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	for _, item := range stored {
		if item.Link == "https://example.com/first" {
			require.Equal(t, model.StatusRead, item.Status)
		} else {
			require.Equal(t, model.StatusUnread, item.Status)
		}
	}

	// Refreshing again inserts nothing.
	result, err = svc.RefreshFeed(ctx, feedID, userID)
	require.NoError(t, err)
	require.Zero(t, result.NewItems)
}

func TestRefreshService_RefreshFeed_TouchesLastFetched(t *testing.T) {
	svc, db, userID := newRefreshService(t, rssResponder(sampleRSS))
	ctx := context.Background()

	feedID := testutil.SeedFeed(t, db, model.Feed{UserID: userID, Title: "Feed", URL: "https://example.com/rss"})

	_, err := svc.RefreshFeed(ctx, feedID, userID)
	require.NoError(t, err)

	feed, err := repository.NewFeedRepository(db).GetByID(ctx, feedID, userID)
	require.NoError(t, err)
	require.NotNil(t, feed.LastFetchedAt)
}

func TestRefreshService_RefreshFeed_NotFound(t *testing.T) {
	svc, _, userID := newRefreshService(t, rssResponder(sampleRSS))

	_, err := svc.RefreshFeed(context.Background(), 99999, userID)
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestRefreshService_RefreshFeed_FetchError(t *testing.T) {
	svc, db, userID := newRefreshService(t, func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusBadGateway,
			Body:       io.NopCloser(strings.NewReader("down")),
			Header:     make(http.Header),
			Request:    req,
		}, nil
	})

	feedID := testutil.SeedFeed(t, db, model.Feed{UserID: userID, Title: "Feed", URL: "https://example.com/rss"})

	_, err := svc.RefreshFeed(context.Background(), feedID, userID)
	require.ErrorIs(t, err, service.ErrFeedFetch)
}

func TestRefreshService_RefreshAll_ContinuesPastFailures(t *testing.T) {
	svc, db, userID := newRefreshService(t, func(req *http.Request) (*http.Response, error) {
		if strings.Contains(req.URL.String(), "broken") {
			return &http.Response{
				StatusCode: http.StatusInternalServerError,
				Body:       io.NopCloser(strings.NewReader("boom")),
				Header:     make(http.Header),
				Request:    req,
			}, nil
		}
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(sampleRSS)),
			Header:     make(http.Header),
			Request:    req,
		}, nil
	})
	ctx := context.Background()

	testutil.SeedFeed(t, db, model.Feed{UserID: userID, Title: "Good", URL: "https://example.com/rss"})
	testutil.SeedFeed(t, db, model.Feed{UserID: userID, Title: "Broken", URL: "https://example.com/broken"})

	results, err := svc.RefreshAll(ctx, userID)
	require.NoError(t, err)
	require.Len(t, results, 2)

	byTitle := make(map[string]service.RefreshResult, len(results))
	for _, result := range results {
		byTitle[result.Title] = result
	}
	require.Equal(t, 2, byTitle["Good"].NewItems)
	require.Empty(t, byTitle["Good"].Error)
	require.NotEmpty(t, byTitle["Broken"].Error)
}

func TestRefreshService_RefreshAll_NoFeeds(t *testing.T) {
	svc, _, userID := newRefreshService(t, rssResponder(sampleRSS))

	results, err := svc.RefreshAll(context.Background(), userID)
	require.NoError(t, err)
	require.Empty(t, results)
}
