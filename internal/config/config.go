package config

import (
	"os"
	"path/filepath"
)

// DefaultUserAgent identifies the reader on every outbound request.
const DefaultUserAgent = "Skim/1.0"

// FeedAccept lists the payload types we prefer when fetching feeds.
const FeedAccept = "application/rss+xml, application/xml, application/atom+xml, text/xml;q=0.9, */*;q=0.8"

type Config struct {
	Addr      string
	DataDir   string
	DBPath    string
	StaticDir string
	LogLevel  string
	JWTSecret string
}

func Load() Config {
	addr := os.Getenv("SKIM_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	dataDir := os.Getenv("SKIM_DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}
	dbPath := os.Getenv("SKIM_DB_PATH")
	if dbPath == "" {
		dbPath = filepath.Join(dataDir, "skim.db")
	}
	logLevel := os.Getenv("SKIM_LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	return Config{
		Addr:      addr,
		DataDir:   filepath.Clean(dataDir),
		DBPath:    filepath.Clean(dbPath),
		StaticDir: os.Getenv("SKIM_STATIC_DIR"),
		LogLevel:  logLevel,
		JWTSecret: os.Getenv("SKIM_JWT_SECRET"),
	}
}
