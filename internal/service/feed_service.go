//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"skim/backend/internal/cache"
	"skim/backend/internal/feedparse"
	"skim/backend/internal/fetch"
	"skim/backend/internal/model"
	"skim/backend/internal/reconcile"
	"skim/backend/internal/repository"
	"skim/backend/internal/urlutil"
	"skim/backend/pkg/logger"
)

// previewTTL keeps preview responses fresh enough while sparing remote hosts
// a fetch on every keystroke of the subscribe dialog.
const previewTTL = 5 * time.Minute

type FeedService interface {
	Add(ctx context.Context, userID int64, feedURL, titleOverride string) (model.Feed, error)
	List(ctx context.Context, userID int64) ([]model.Feed, error)
	Get(ctx context.Context, id, userID int64) (model.Feed, error)
	Delete(ctx context.Context, id, userID int64) error
	Preview(ctx context.Context, feedURL string) (FeedPreview, error)
}

type FeedPreview struct {
	URL         string        `json:"url"`
	Title       string        `json:"title"`
	Description *string       `json:"description"`
	SiteURL     *string       `json:"siteUrl"`
	ItemCount   int           `json:"itemCount"`
	Items       []PreviewItem `json:"items"`
}

// PreviewItem is one entry of a previewed feed, readable without
// subscribing.
type PreviewItem struct {
	Title       string  `json:"title"`
	Link        string  `json:"link"`
	Author      string  `json:"author,omitempty"`
	Content     string  `json:"content,omitempty"`
	PublishedAt *string `json:"publishedAt,omitempty"`
}

type feedService struct {
	feeds    repository.FeedRepository
	items    repository.ItemRepository
	client   *fetch.Client
	parser   *feedparse.Parser
	previews *cache.Cache[FeedPreview]
}

func NewFeedService(feeds repository.FeedRepository, items repository.ItemRepository, client *fetch.Client) FeedService {
	if client == nil {
		client = fetch.NewClient(nil)
	}
	return &feedService{
		feeds:    feeds,
		items:    items,
		client:   client,
		parser:   feedparse.New(),
		previews: cache.New[FeedPreview](previewTTL),
	}
}

// Add subscribes the user to feedURL. The feed is fetched and parsed before
// anything is stored, so a dead or empty feed never leaves a half-created
// subscription behind. Initial items land unread.
func (s *feedService) Add(ctx context.Context, userID int64, feedURL, titleOverride string) (model.Feed, error) {
	trimmedURL := strings.TrimSpace(feedURL)
	if !urlutil.IsValidHTTPURL(trimmedURL) {
		return model.Feed{}, ErrInvalid
	}

	if existing, err := s.feeds.FindByURL(ctx, userID, trimmedURL); err != nil {
		return model.Feed{}, fmt.Errorf("check feed url: %w", err)
	} else if existing != nil {
		return model.Feed{}, ErrConflict
	}

	parsed, err := s.fetchAndParse(ctx, trimmedURL)
	if err != nil {
		return model.Feed{}, err
	}
	if len(parsed.Items) == 0 {
		return model.Feed{}, ErrEmptyFeed
	}

	finalTitle := strings.TrimSpace(titleOverride)
	if finalTitle == "" {
		finalTitle = parsed.Title
	}
	if finalTitle == "" {
		finalTitle = trimmedURL
	}

	feed := model.Feed{
		UserID:      userID,
		Title:       finalTitle,
		URL:         trimmedURL,
		SiteURL:     optionalString(parsed.Link),
		Description: optionalString(parsed.Description),
	}

	created, err := s.feeds.Create(ctx, feed)
	if err != nil {
		return model.Feed{}, fmt.Errorf("create feed: %w", err)
	}

	merged := reconcile.Merge(created.ID, parsed.Items, nil)
	inserted, err := s.items.CreateBatch(ctx, merged.ToInsert)
	if err != nil {
		return model.Feed{}, fmt.Errorf("store initial items: %w", err)
	}

	now := time.Now().UTC()
	if err := s.feeds.TouchLastFetched(ctx, created.ID, now); err != nil {
		return model.Feed{}, fmt.Errorf("touch last fetched: %w", err)
	}
	created.LastFetchedAt = &now

	logger.Info("feed added",
		"module", "feed",
		"action", "add",
		"resource", trimmedURL,
		"result", "success",
		"items", inserted,
	)

	return created, nil
}

func (s *feedService) List(ctx context.Context, userID int64) ([]model.Feed, error) {
	return s.feeds.ListByUser(ctx, userID)
}

func (s *feedService) Get(ctx context.Context, id, userID int64) (model.Feed, error) {
	feed, err := s.feeds.GetByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Feed{}, ErrNotFound
		}
		return model.Feed{}, fmt.Errorf("get feed: %w", err)
	}
	return feed, nil
}

func (s *feedService) Delete(ctx context.Context, id, userID int64) error {
	if err := s.feeds.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("delete feed: %w", err)
	}
	return nil
}

// Preview fetches and summarizes a feed without subscribing to it. Results
// are cached briefly per URL; the cache is shared across users because a
// preview carries no per-user state.
func (s *feedService) Preview(ctx context.Context, feedURL string) (FeedPreview, error) {
	trimmedURL := strings.TrimSpace(feedURL)
	if !urlutil.IsValidHTTPURL(trimmedURL) {
		return FeedPreview{}, ErrInvalid
	}

	if cached, ok := s.previews.Get(trimmedURL); ok {
		return cached, nil
	}

	parsed, err := s.fetchAndParse(ctx, trimmedURL)
	if err != nil {
		return FeedPreview{}, err
	}

	title := parsed.Title
	if title == "" {
		title = trimmedURL
	}
	items := make([]PreviewItem, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		preview := PreviewItem{
			Title:   item.Title,
			Link:    item.Link,
			Author:  item.Author,
			Content: item.Content,
		}
		if item.PublishedAt != nil {
			published := item.PublishedAt.UTC().Format(time.RFC3339)
			preview.PublishedAt = &published
		}
		items = append(items, preview)
	}

	preview := FeedPreview{
		URL:         trimmedURL,
		Title:       title,
		Description: optionalString(parsed.Description),
		SiteURL:     optionalString(parsed.Link),
		ItemCount:   len(parsed.Items),
		Items:       items,
	}

	s.previews.Put(trimmedURL, preview)
	return preview, nil
}

// fetchAndParse keeps transport failures and malformed documents as distinct
// errors so handlers can map them to different statuses.
func (s *feedService) fetchAndParse(ctx context.Context, feedURL string) (*feedparse.ParsedFeed, error) {
	payload, err := s.client.Fetch(ctx, feedURL)
	if err != nil {
		var fetchErr *fetch.Error
		if errors.As(err, &fetchErr) && fetchErr.Kind == fetch.KindInvalidURL {
			return nil, ErrInvalid
		}
		return nil, fmt.Errorf("%w: %v", ErrFeedFetch, err)
	}

	parsed, err := s.parser.Parse(payload.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFeedParse, err)
	}
	return parsed, nil
}

func optionalString(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
