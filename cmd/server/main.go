package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "modernc.org/sqlite"

	"skim/backend/internal/config"
	"skim/backend/internal/db"
	"skim/backend/internal/fetch"
	"skim/backend/internal/handler"
	skimhttp "skim/backend/internal/http"
	"skim/backend/internal/repository"
	"skim/backend/internal/service"
	"skim/backend/pkg/logger"
	"skim/backend/pkg/snowflake"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		logger.Error("server exited", "module", "main", "action", "run", "result", "error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	logger.Init(logger.ParseLevel(cfg.LogLevel))

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	database, err := openDatabase(cfg.DBPath)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	if err := snowflake.Init(0); err != nil {
		return fmt.Errorf("init snowflake: %w", err)
	}

	secret := cfg.JWTSecret
	if secret == "" {
		// Tokens stop working on restart with a random secret; fine for a
		// personal instance, set SKIM_JWT_SECRET for anything longer lived.
		secret = randomSecret()
		logger.Warn("no JWT secret configured, using an ephemeral one",
			"module", "main", "action", "configure", "resource", "jwt", "result", "generated")
	}

	users := repository.NewUserRepository(database)
	feeds := repository.NewFeedRepository(database)
	items := repository.NewItemRepository(database)
	notes := repository.NewNoteRepository(database)

	client := fetch.NewClient(nil)
	authService := service.NewAuthService(users, secret)
	feedService := service.NewFeedService(feeds, items, client)
	itemService := service.NewItemService(items)
	noteService := service.NewNoteService(notes, items)
	articleService := service.NewArticleService(client)
	refreshService := service.NewRefreshService(feeds, items, client)

	e := skimhttp.NewRouter(
		handler.NewAuthHandler(authService),
		handler.NewFeedHandler(feedService, refreshService),
		handler.NewItemHandler(itemService),
		handler.NewNoteHandler(noteService),
		handler.NewArticleHandler(articleService),
		authService,
		cfg.StaticDir,
	)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "module", "main", "action", "listen", "resource", cfg.Addr, "result", "ok")
		if err := e.Start(cfg.Addr); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down", "module", "main", "action", "shutdown", "resource", sig.String(), "result", "ok")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func openDatabase(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	database, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := database.Ping(); err != nil {
		database.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return database, nil
}

func randomSecret() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic("read random secret: " + err.Error())
	}
	return hex.EncodeToString(buf)
}
