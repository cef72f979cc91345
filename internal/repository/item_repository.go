//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock
package repository

import (
	"context"
	"database/sql"
	"time"

	"skim/backend/internal/model"
	"skim/backend/pkg/snowflake"
)

// Display order everywhere items are listed: newest published first, items
// without a publish date after all dated ones, ties broken by created_at
// then id so the order is total.
const itemOrder = `ORDER BY items.published_at IS NULL ASC, items.published_at DESC, items.created_at DESC, items.id DESC`

// ItemRepository stores feed items. Reads join through feeds so an item is
// only visible to the user owning its feed.
type ItemRepository interface {
	CreateBatch(ctx context.Context, items []model.Item) (int, error)
	ListByFeed(ctx context.Context, feedID int64) ([]model.Item, error)
	ListByUser(ctx context.Context, userID int64, status model.ItemStatus, offset, limit int) ([]model.Item, int, error)
	GetByID(ctx context.Context, id, userID int64) (model.Item, error)
	UpdateStatus(ctx context.Context, id, userID int64, status model.ItemStatus) error
	NextAfter(ctx context.Context, userID int64, current model.Item, status model.ItemStatus) (*model.Item, error)
}

type itemRepository struct {
	db *sql.DB
}

func NewItemRepository(db *sql.DB) ItemRepository {
	return &itemRepository{db: db}
}

const itemColumns = `items.id, items.feed_id, items.guid, items.title, items.link, items.description, items.author, items.published_at, items.status, items.created_at, items.updated_at`

// CreateBatch inserts items, assigning IDs and timestamps. The unique
// (feed_id, link) index backstops the reconciler: a conflicting row is
// ignored, not overwritten. Returns the number actually inserted.
func (r *itemRepository) CreateBatch(ctx context.Context, items []model.Item) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	inserted := 0
	now := formatTime(time.Now().UTC())
	for _, item := range items {
		if item.ID == 0 {
			item.ID = snowflake.NextID()
		}
		if item.Status == "" {
			item.Status = model.StatusUnread
		}
		result, err := r.db.ExecContext(ctx, `
			INSERT INTO items (id, feed_id, guid, title, link, description, author, published_at, status, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(feed_id, link) DO NOTHING
		`, item.ID, item.FeedID, item.GUID, item.Title, item.Link, nullableString(item.Description),
			nullableString(item.Author), nullableTime(item.PublishedAt), string(item.Status), now, now)
		if err != nil {
			return inserted, err
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return inserted, err
		}
		inserted += int(rows)
	}
	return inserted, nil
}

func (r *itemRepository) ListByFeed(ctx context.Context, feedID int64) ([]model.Item, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+itemColumns+` FROM items WHERE feed_id = ? `+itemOrder, feedID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectItems(rows)
}

// ListByUser returns one page of the user's items in display order plus the
// total match count for pagination.
func (r *itemRepository) ListByUser(ctx context.Context, userID int64, status model.ItemStatus, offset, limit int) ([]model.Item, int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM items
		JOIN feeds ON feeds.id = items.feed_id
		WHERE feeds.user_id = ? AND items.status = ?
	`, userID, string(status)).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+itemColumns+` FROM items
		JOIN feeds ON feeds.id = items.feed_id
		WHERE feeds.user_id = ? AND items.status = ?
		`+itemOrder+`
		LIMIT ? OFFSET ?
	`, userID, string(status), limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items, err := collectItems(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *itemRepository) GetByID(ctx context.Context, id, userID int64) (model.Item, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+itemColumns+` FROM items
		JOIN feeds ON feeds.id = items.feed_id
		WHERE items.id = ? AND feeds.user_id = ?
	`, id, userID)
	return scanItemRow(row)
}

func (r *itemRepository) UpdateStatus(ctx context.Context, id, userID int64, status model.ItemStatus) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE items SET status = ?, updated_at = ?
		WHERE id = ? AND feed_id IN (SELECT id FROM feeds WHERE user_id = ?)
	`, string(status), formatTime(time.Now().UTC()), id, userID)
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

// NextAfter returns the first item strictly after current in display order,
// or nil when current is the last one.
func (r *itemRepository) NextAfter(ctx context.Context, userID int64, current model.Item, status model.ItemStatus) (*model.Item, error) {
	base := `
		SELECT ` + itemColumns + ` FROM items
		JOIN feeds ON feeds.id = items.feed_id
		WHERE feeds.user_id = ? AND items.status = ? AND items.id != ?`

	var row *sql.Row
	if current.PublishedAt != nil {
		published := formatTime(*current.PublishedAt)
		created := formatTime(current.CreatedAt)
		row = r.db.QueryRowContext(ctx, base+`
			AND (
				items.published_at IS NULL
				OR items.published_at < ?
				OR (items.published_at = ? AND (items.created_at < ? OR (items.created_at = ? AND items.id < ?)))
			)
			`+itemOrder+` LIMIT 1
		`, userID, string(status), current.ID, published, published, created, created, current.ID)
	} else {
		created := formatTime(current.CreatedAt)
		row = r.db.QueryRowContext(ctx, base+`
			AND items.published_at IS NULL
			AND (items.created_at < ? OR (items.created_at = ? AND items.id < ?))
			`+itemOrder+` LIMIT 1
		`, userID, string(status), current.ID, created, created, current.ID)
	}

	item, err := scanItemRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func collectItems(rows *sql.Rows) ([]model.Item, error) {
	var items []model.Item
	for rows.Next() {
		var item model.Item
		var description, author, publishedAt sql.NullString
		var status, createdAt, updatedAt string
		if err := rows.Scan(&item.ID, &item.FeedID, &item.GUID, &item.Title, &item.Link, &description, &author, &publishedAt, &status, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		applyItemFields(&item, description, author, publishedAt, status, createdAt, updatedAt)
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanItemRow(row *sql.Row) (model.Item, error) {
	var item model.Item
	var description, author, publishedAt sql.NullString
	var status, createdAt, updatedAt string
	if err := row.Scan(&item.ID, &item.FeedID, &item.GUID, &item.Title, &item.Link, &description, &author, &publishedAt, &status, &createdAt, &updatedAt); err != nil {
		return model.Item{}, err
	}
	applyItemFields(&item, description, author, publishedAt, status, createdAt, updatedAt)
	return item, nil
}

func applyItemFields(item *model.Item, description, author, publishedAt sql.NullString, status, createdAt, updatedAt string) {
	item.Description = nullStringPtr(description)
	item.Author = nullStringPtr(author)
	item.PublishedAt = parseNullTime(publishedAt)
	item.Status = model.ItemStatus(status)
	item.CreatedAt, _ = parseTime(createdAt)
	item.UpdatedAt, _ = parseTime(updatedAt)
}
