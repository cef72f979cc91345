package db

import (
	"database/sql"
	"fmt"
)

// Base schema - uses Snowflake IDs (no AUTOINCREMENT). Items are unique per
// (feed_id, link) so a re-fetch can never duplicate them, and deletions
// cascade user -> feeds -> items -> notes.
const baseSchema = `
CREATE TABLE IF NOT EXISTS users (
  id INTEGER PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS feeds (
  id INTEGER PRIMARY KEY,
  user_id INTEGER NOT NULL,
  title TEXT NOT NULL,
  url TEXT NOT NULL,
  site_url TEXT,
  description TEXT,
  last_fetched_at TEXT,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL,
  FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_feeds_user_id ON feeds(user_id);
CREATE UNIQUE INDEX IF NOT EXISTS idx_feeds_user_url ON feeds(user_id, url);

CREATE TABLE IF NOT EXISTS items (
  id INTEGER PRIMARY KEY,
  feed_id INTEGER NOT NULL,
  guid TEXT NOT NULL DEFAULT '',
  title TEXT NOT NULL DEFAULT '',
  link TEXT NOT NULL,
  description TEXT,
  author TEXT,
  published_at TEXT,
  status TEXT NOT NULL DEFAULT 'unread',
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL,
  FOREIGN KEY (feed_id) REFERENCES feeds(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_items_feed_id ON items(feed_id);
CREATE UNIQUE INDEX IF NOT EXISTS idx_items_feed_link ON items(feed_id, link);
CREATE INDEX IF NOT EXISTS idx_items_status ON items(status);

CREATE TABLE IF NOT EXISTS notes (
  id INTEGER PRIMARY KEY,
  item_id INTEGER NOT NULL,
  user_id INTEGER NOT NULL,
  content TEXT NOT NULL,
  selected_text TEXT,
  created_at TEXT NOT NULL,
  FOREIGN KEY (item_id) REFERENCES items(id) ON DELETE CASCADE,
  FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_notes_item_id ON notes(item_id);
`

func Migrate(db *sql.DB) error {
	if _, err := db.Exec(baseSchema); err != nil {
		return fmt.Errorf("migrate base schema: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

func runMigrations(db *sql.DB) error {
	// Migration 1: ordering index for the item list and next-item queries.
	// SQLite sorts NULLs first on DESC, so queries order by
	// "published_at IS NULL" before the timestamp; the index matches that.
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_items_published ON items(status, published_at DESC, created_at DESC, id DESC)`); err != nil {
		return fmt.Errorf("create idx_items_published: %w", err)
	}

	// Migration 2: add guid column for databases created before guid landed
	var count int
	err := db.QueryRow(`
		SELECT COUNT(*) FROM pragma_table_info('items') WHERE name = 'guid'
	`).Scan(&count)
	if err != nil {
		return fmt.Errorf("check guid column: %w", err)
	}

	if count == 0 {
		if _, err := db.Exec(`ALTER TABLE items ADD COLUMN guid TEXT NOT NULL DEFAULT ''`); err != nil {
			return fmt.Errorf("add guid column: %w", err)
		}
	}

	return nil
}
