//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock
package repository

import (
	"context"
	"database/sql"
	"time"

	"skim/backend/internal/model"
	"skim/backend/pkg/snowflake"
)

// FeedRepository stores feeds. Every read and write is scoped by the owning
// user; a feed id alone never grants access.
type FeedRepository interface {
	Create(ctx context.Context, feed model.Feed) (model.Feed, error)
	GetByID(ctx context.Context, id, userID int64) (model.Feed, error)
	FindByURL(ctx context.Context, userID int64, url string) (*model.Feed, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Feed, error)
	Delete(ctx context.Context, id, userID int64) error
	TouchLastFetched(ctx context.Context, id int64, at time.Time) error
}

type feedRepository struct {
	db *sql.DB
}

func NewFeedRepository(db *sql.DB) FeedRepository {
	return &feedRepository{db: db}
}

const feedColumns = `id, user_id, title, url, site_url, description, last_fetched_at, created_at, updated_at`

func (r *feedRepository) Create(ctx context.Context, feed model.Feed) (model.Feed, error) {
	feed.ID = snowflake.NextID()
	now := time.Now().UTC()
	feed.CreatedAt = now
	feed.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO feeds (id, user_id, title, url, site_url, description, last_fetched_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, feed.ID, feed.UserID, feed.Title, feed.URL, nullableString(feed.SiteURL), nullableString(feed.Description),
		nullableTime(feed.LastFetchedAt), formatTime(now), formatTime(now))
	if err != nil {
		return model.Feed{}, err
	}
	return feed, nil
}

func (r *feedRepository) GetByID(ctx context.Context, id, userID int64) (model.Feed, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+feedColumns+` FROM feeds WHERE id = ? AND user_id = ?
	`, id, userID)
	return scanFeed(row)
}

func (r *feedRepository) FindByURL(ctx context.Context, userID int64, url string) (*model.Feed, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+feedColumns+` FROM feeds WHERE user_id = ? AND url = ?
	`, userID, url)
	feed, err := scanFeed(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &feed, nil
}

func (r *feedRepository) ListByUser(ctx context.Context, userID int64) ([]model.Feed, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+feedColumns+` FROM feeds WHERE user_id = ? ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var feeds []model.Feed
	for rows.Next() {
		feed, err := scanFeedRows(rows)
		if err != nil {
			return nil, err
		}
		feeds = append(feeds, feed)
	}
	return feeds, rows.Err()
}

// Delete removes the feed; its items and their notes go with it via the
// schema's cascading foreign keys.
func (r *feedRepository) Delete(ctx context.Context, id, userID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM feeds WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *feedRepository) TouchLastFetched(ctx context.Context, id int64, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE feeds SET last_fetched_at = ?, updated_at = ? WHERE id = ?
	`, formatTime(at), formatTime(time.Now().UTC()), id)
	return err
}

func scanFeed(row *sql.Row) (model.Feed, error) {
	var feed model.Feed
	var siteURL, description, lastFetchedAt sql.NullString
	var createdAt, updatedAt string
	if err := row.Scan(&feed.ID, &feed.UserID, &feed.Title, &feed.URL, &siteURL, &description, &lastFetchedAt, &createdAt, &updatedAt); err != nil {
		return model.Feed{}, err
	}
	applyFeedFields(&feed, siteURL, description, lastFetchedAt, createdAt, updatedAt)
	return feed, nil
}

func scanFeedRows(rows *sql.Rows) (model.Feed, error) {
	var feed model.Feed
	var siteURL, description, lastFetchedAt sql.NullString
	var createdAt, updatedAt string
	if err := rows.Scan(&feed.ID, &feed.UserID, &feed.Title, &feed.URL, &siteURL, &description, &lastFetchedAt, &createdAt, &updatedAt); err != nil {
		return model.Feed{}, err
	}
	applyFeedFields(&feed, siteURL, description, lastFetchedAt, createdAt, updatedAt)
	return feed, nil
}

func applyFeedFields(feed *model.Feed, siteURL, description, lastFetchedAt sql.NullString, createdAt, updatedAt string) {
	feed.SiteURL = nullStringPtr(siteURL)
	feed.Description = nullStringPtr(description)
	feed.LastFetchedAt = parseNullTime(lastFetchedAt)
	feed.CreatedAt, _ = parseTime(createdAt)
	feed.UpdatedAt, _ = parseTime(updatedAt)
}
