package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	"skim/backend/internal/db"
	"skim/backend/internal/hashutil"
	"skim/backend/internal/model"
	"skim/backend/pkg/snowflake"

	_ "modernc.org/sqlite"
)

// snowflakeOnce makes sure snowflake is initialized exactly once across
// parallel tests.
var snowflakeOnce sync.Once

// NewTestDB opens an in-memory SQLite database and runs all migrations.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	snowflakeOnce.Do(func() {
		if err := snowflake.Init(0); err != nil {
			// t.Fatalf is not usable inside sync.Once, panic instead
			panic("failed to initialize snowflake: " + err.Error())
		}
	})

	// Shared cache mode so concurrent connections see the same in-memory
	// database; the test name plus a nanosecond timestamp keeps databases
	// from colliding across tests.
	dbName := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", t.Name(), time.Now().UnixNano())
	database, err := sql.Open("sqlite", dbName)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Migrate(database); err != nil {
		database.Close()
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		database.Close()
	})

	return database
}

// ptrVal converts a pointer into interface{}; nil pointers become SQL NULL.
func ptrVal[T any](p *T) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

// timeVal converts a time pointer into an RFC3339 string, nil stays NULL.
func timeVal(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

// SeedUser inserts a test user and returns its ID.
func SeedUser(t *testing.T, db *sql.DB, username, email string) int64 {
	t.Helper()

	id := snowflake.NextID()
	now := time.Now().UTC().Format(time.RFC3339)

	_, err := db.ExecContext(
		context.Background(),
		`INSERT INTO users (id, username, email, password_hash, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, username, email, "test-hash", now, now,
	)
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	return id
}

// SeedFeed inserts a test feed and returns its ID.
func SeedFeed(t *testing.T, db *sql.DB, feed model.Feed) int64 {
	t.Helper()

	if feed.ID == 0 {
		feed.ID = snowflake.NextID()
	}

	now := time.Now().UTC().Format(time.RFC3339)

	_, err := db.ExecContext(
		context.Background(),
		`INSERT INTO feeds (id, user_id, title, url, site_url, description, last_fetched_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		feed.ID, feed.UserID, feed.Title, feed.URL, ptrVal(feed.SiteURL), ptrVal(feed.Description),
		timeVal(feed.LastFetchedAt), now, now,
	)
	if err != nil {
		t.Fatalf("failed to seed feed: %v", err)
	}

	return feed.ID
}

// SeedItem inserts a test item and returns its ID. Missing fields get
// sensible defaults so tests only spell out what they assert on.
func SeedItem(t *testing.T, db *sql.DB, item model.Item) int64 {
	t.Helper()

	if item.ID == 0 {
		item.ID = snowflake.NextID()
	}
	if item.Status == "" {
		item.Status = model.StatusUnread
	}
	if item.GUID == "" {
		item.GUID = hashutil.ItemGUID(item.Link, item.Title)
	}

	now := time.Now().UTC()
	createdAt := item.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	_, err := db.ExecContext(
		context.Background(),
		`INSERT INTO items (id, feed_id, guid, title, link, description, author, published_at, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.FeedID, item.GUID, item.Title, item.Link, ptrVal(item.Description), ptrVal(item.Author),
		timeVal(item.PublishedAt), string(item.Status), createdAt.UTC().Format(time.RFC3339), now.Format(time.RFC3339),
	)
	if err != nil {
		t.Fatalf("failed to seed item: %v", err)
	}

	return item.ID
}

// SeedNote inserts a test note and returns its ID.
func SeedNote(t *testing.T, db *sql.DB, note model.Note) int64 {
	t.Helper()

	if note.ID == 0 {
		note.ID = snowflake.NextID()
	}

	createdAt := note.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := db.ExecContext(
		context.Background(),
		`INSERT INTO notes (id, item_id, user_id, content, selected_text, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		note.ID, note.ItemID, note.UserID, note.Content, ptrVal(note.SelectedText), createdAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		t.Fatalf("failed to seed note: %v", err)
	}

	return note.ID
}
