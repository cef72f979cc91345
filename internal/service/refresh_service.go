//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"skim/backend/internal/feedparse"
	"skim/backend/internal/fetch"
	"skim/backend/internal/model"
	"skim/backend/internal/reconcile"
	"skim/backend/internal/repository"
	"skim/backend/pkg/logger"
)

// maxConcurrentRefresh limits parallel feed refreshes so one refresh-all
// cannot flood the network or the remote hosts.
const maxConcurrentRefresh = 3

// refreshRate spaces outbound fetches during a refresh-all run.
var refreshRate = rate.Limit(5)

// RefreshResult reports the outcome of refreshing a single feed.
type RefreshResult struct {
	FeedID   int64  `json:"feedId"`
	Title    string `json:"title"`
	NewItems int    `json:"newItems"`
	Error    string `json:"error,omitempty"`
}

type RefreshService interface {
	RefreshFeed(ctx context.Context, feedID, userID int64) (RefreshResult, error)
	RefreshAll(ctx context.Context, userID int64) ([]RefreshResult, error)
}

type refreshService struct {
	feeds   repository.FeedRepository
	items   repository.ItemRepository
	client  *fetch.Client
	parser  *feedparse.Parser
	limiter *rate.Limiter
}

func NewRefreshService(feeds repository.FeedRepository, items repository.ItemRepository, client *fetch.Client) RefreshService {
	if client == nil {
		client = fetch.NewClient(nil)
	}
	return &refreshService{
		feeds:   feeds,
		items:   items,
		client:  client,
		parser:  feedparse.New(),
		limiter: rate.NewLimiter(refreshRate, maxConcurrentRefresh),
	}
}

// RefreshFeed re-fetches one feed and merges its entries. Existing items are
// never touched; only genuinely new entries are inserted, unread.
func (s *refreshService) RefreshFeed(ctx context.Context, feedID, userID int64) (RefreshResult, error) {
	feed, err := s.feeds.GetByID(ctx, feedID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RefreshResult{}, ErrNotFound
		}
		return RefreshResult{}, fmt.Errorf("get feed: %w", err)
	}
	return s.refresh(ctx, feed)
}

// RefreshAll refreshes every feed the user has, a few at a time. One broken
// feed never stops the rest; its failure is reported in its result entry.
func (s *refreshService) RefreshAll(ctx context.Context, userID int64) ([]RefreshResult, error) {
	feeds, err := s.feeds.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list feeds: %w", err)
	}

	results := make([]RefreshResult, len(feeds))
	sem := semaphore.NewWeighted(maxConcurrentRefresh)
	var wg sync.WaitGroup

	for i, feed := range feeds {
		if err := sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		wg.Add(1)
		go func(i int, feed model.Feed) {
			defer wg.Done()
			defer sem.Release(1)

			result, err := s.refresh(ctx, feed)
			if err != nil {
				result = RefreshResult{FeedID: feed.ID, Title: feed.Title, Error: err.Error()}
			}
			results[i] = result
		}(i, feed)
	}

	wg.Wait()
	return results, nil
}

func (s *refreshService) refresh(ctx context.Context, feed model.Feed) (RefreshResult, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return RefreshResult{}, err
	}

	payload, err := s.client.Fetch(ctx, feed.URL)
	if err != nil {
		logger.Warn("feed refresh failed",
			"module", "refresh",
			"action", "fetch",
			"resource", feed.URL,
			"result", "error",
			"feed_id", feed.ID,
			"error", err,
		)
		return RefreshResult{}, fmt.Errorf("%w: %v", ErrFeedFetch, err)
	}

	parsed, err := s.parser.Parse(payload.Body)
	if err != nil {
		return RefreshResult{}, fmt.Errorf("%w: %v", ErrFeedParse, err)
	}

	existing, err := s.items.ListByFeed(ctx, feed.ID)
	if err != nil {
		return RefreshResult{}, fmt.Errorf("list existing items: %w", err)
	}

	merged := reconcile.Merge(feed.ID, parsed.Items, existing)
	inserted, err := s.items.CreateBatch(ctx, merged.ToInsert)
	if err != nil {
		return RefreshResult{}, fmt.Errorf("store items: %w", err)
	}

	if err := s.feeds.TouchLastFetched(ctx, feed.ID, time.Now().UTC()); err != nil {
		return RefreshResult{}, fmt.Errorf("touch last fetched: %w", err)
	}

	if inserted > 0 {
		logger.Info("feed refreshed",
			"module", "refresh",
			"action", "refresh",
			"resource", feed.URL,
			"result", "ok",
			"feed_id", feed.ID,
			"new", inserted,
		)
	}

	return RefreshResult{FeedID: feed.ID, Title: feed.Title, NewItems: inserted}, nil
}
