//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"skim/backend/internal/cache"
	"skim/backend/internal/extract"
	"skim/backend/internal/fetch"
	"skim/backend/internal/urlutil"
	"skim/backend/pkg/logger"
)

// articleTTL is how long an extracted article stays cached. Published pages
// rarely change, so a day of staleness is a fine trade for not re-fetching
// on every open.
const articleTTL = 24 * time.Hour

type ArticleService interface {
	Extract(ctx context.Context, pageURL string) (*extract.Article, error)
}

type articleService struct {
	client   *fetch.Client
	articles *cache.Cache[*extract.Article]
}

func NewArticleService(client *fetch.Client) ArticleService {
	if client == nil {
		client = fetch.NewClient(nil)
	}
	return &articleService{
		client:   client,
		articles: cache.New[*extract.Article](articleTTL),
	}
}

// Extract fetches pageURL and runs readability over it. A page that cannot
// be fetched and a page with no main content are different failures and come
// back as different errors.
func (s *articleService) Extract(ctx context.Context, pageURL string) (*extract.Article, error) {
	trimmedURL := strings.TrimSpace(pageURL)
	if !urlutil.IsValidHTTPURL(trimmedURL) {
		return nil, ErrInvalid
	}

	key := urlutil.StripFragment(trimmedURL)
	if cached, ok := s.articles.Get(key); ok {
		return cached, nil
	}

	payload, err := s.client.Fetch(ctx, trimmedURL)
	if err != nil {
		logger.Warn("article fetch failed",
			"module", "article",
			"action", "extract",
			"resource", trimmedURL,
			"result", "fetch_error",
			"error", err,
		)
		return nil, fmt.Errorf("%w: %v", ErrFeedFetch, err)
	}

	article, err := extract.Extract(payload.Body, trimmedURL)
	if err != nil {
		if errors.Is(err, extract.ErrNoArticle) {
			return nil, fmt.Errorf("%w: %v", ErrNotExtractable, err)
		}
		return nil, fmt.Errorf("extract article: %w", err)
	}

	s.articles.Put(key, article)
	return article, nil
}
