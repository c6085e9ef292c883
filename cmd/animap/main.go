// Copyright (c) 2025-2026 Animap Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/animap/animap-go/internal/cache"
	"github.com/animap/animap-go/internal/config"
	"github.com/animap/animap-go/internal/glossary"
	"github.com/animap/animap-go/internal/handler/api"
	"github.com/animap/animap-go/internal/logging"
	"github.com/animap/animap-go/internal/model"
	"github.com/animap/animap-go/internal/service"
	"github.com/animap/animap-go/internal/store"
	"github.com/animap/animap-go/internal/translator"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Animap - anime pilgrimage content platform\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ANIMAP_DB_PATH           SQLite database path (default: ./data/animap.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ANIMAP_SERVER_PORT       Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ANIMAP_ENV               Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ANIMAP_REDIS_URL         Redis URL for distributed caching (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ANIMAP_OPENAI_API_KEY    OpenAI API key for the translation provider\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ANIMAP_GLOSSARY_PATH     YAML glossary of protected terms (optional)\n")
	}

	flag.Parse()

	if *showVersion {
		_, _ = fmt.Printf("animap %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Ensure data directory exists
	dbDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Upgrade logger to also write WARN and ERROR logs to the event log
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	// Cache backend
	pageCache, err := cache.NewCache(cache.Config{
		RedisURL:        cfg.RedisURL,
		Prefix:          cfg.CachePrefix,
		DefaultTTL:      time.Duration(cfg.CacheTTL) * time.Second,
		CleanupInterval: time.Minute,
	})
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	defer func() {
		if err := pageCache.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()
	if cfg.UseRedisCache() {
		slog.Info("cache initialized", "backend", "redis", "url", cfg.RedisURL)
	} else {
		slog.Info("cache initialized", "backend", "memory")
	}
	invalidator := cache.NewPathInvalidator(pageCache, logger, model.TargetLanguages)

	// Glossary of protected terms
	var protector *glossary.Protector
	if cfg.GlossaryPath != "" {
		terms, err := glossary.LoadFile(cfg.GlossaryPath)
		if err != nil {
			return fmt.Errorf("loading glossary: %w", err)
		}
		protector = glossary.NewProtector(terms)
		slog.Info("glossary loaded", "path", cfg.GlossaryPath, "terms", len(terms))
	}

	// Translation provider
	var tr translator.Translator
	if cfg.TranslationEnabled() {
		tr, err = translator.NewOpenAITranslator(translator.OpenAIOptions{
			APIKey:            cfg.OpenAIAPIKey,
			Model:             cfg.TranslateModel,
			RequestsPerSecond: cfg.TranslateRPS,
		})
		if err != nil {
			return fmt.Errorf("initializing translator: %w", err)
		}
		slog.Info("translation provider initialized", "model", cfg.TranslateModel)
	} else {
		tr = translator.Func(func(context.Context, string, string) (string, error) {
			return "", fmt.Errorf("translation provider not configured")
		})
		slog.Warn("translation provider not configured, task execution will fail",
			"category", model.EventCategorySystem)
	}

	svc := service.NewTranslationService(db, tr, protector, invalidator, logger)
	apiHandler := api.NewHandler(db, svc, logger)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(120 * time.Second))

	r.Get("/healthz", apiHandler.Healthz)
	r.Mount("/api", apiHandler.Routes())

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      5 * time.Minute, // batch execution calls the provider inline
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
