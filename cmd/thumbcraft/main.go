// Package main is the entry point for the thumbcraft server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"thumbcraft/internal/ai"
	"thumbcraft/internal/cache"
	"thumbcraft/internal/config"
	"thumbcraft/internal/database"
	"thumbcraft/internal/generator"
	"thumbcraft/internal/handlers"
	"thumbcraft/internal/middleware"
	"thumbcraft/internal/models"
	"thumbcraft/internal/presets"
	"thumbcraft/internal/router"
	"thumbcraft/internal/storage"
	"thumbcraft/internal/store"
)

func main() {
	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: text in development, JSON elsewhere.
	var handler slog.Handler
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(handler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"store", cfg.StoreBackend,
	)

	catalogue, err := presets.Load()
	if err != nil {
		slog.Error("failed to load style presets", "error", err)
		os.Exit(1)
	}

	// Thumbnail and preset repositories.
	var (
		thumbRepo  store.ThumbnailRepository
		presetRepo store.StylePresetRepository
	)
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		db, err := openDatabase(cfg.DSN(), catalogue)
		if err != nil {
			slog.Error("failed to prepare database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		thumbRepo = store.NewPostgresThumbnailStore(db)
		presetRepo = store.NewPostgresStylePresetStore(db)
	default:
		thumbRepo = store.NewMemoryThumbnailStore()
		presetRepo = store.NewMemoryStylePresetStore(catalogue)
	}

	// Download blob stores. S3 wins when both are configured; the Valkey
	// cache still serves tokens it handed out.
	var (
		blobs     generator.BlobStore
		downloads *handlers.Downloads
	)
	if cfg.ValkeyHost != "" {
		valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			slog.Warn("valkey unavailable, downloads will use provider URLs", "error", err)
		} else {
			defer valkeyClient.Close()
			blobCache := cache.NewBlobCache(valkeyClient, cfg.DownloadTTL, "/api/downloads")
			blobs = blobCache
			downloads = handlers.NewDownloads(blobCache)
		}
	}

	s3Client, err := storage.New(storage.Config{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Bucket:    cfg.S3Bucket,
		URLExpiry: cfg.DownloadTTL,
	})
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	if s3Client != nil {
		blobs = s3Client
		slog.Info("s3 storage configured", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	}
	if blobs == nil {
		slog.Warn("no blob store configured, downloads will use provider URLs")
	}

	// Initialize the image provider registry with all configured providers.
	aiRegistry := ai.NewRegistry(cfg.AIProvider, map[string]ai.ProviderConfig{
		"freepik": {APIKey: cfg.FreepikAPIKey, Model: cfg.FreepikModel, BaseURL: cfg.FreepikBaseURL},
		"openai":  {APIKey: cfg.OpenAIAPIKey, Model: cfg.OpenAIModel, BaseURL: cfg.OpenAIBaseURL},
	})
	if aiRegistry.Configured() {
		slog.Info("image providers initialized",
			"active", aiRegistry.ActiveName(),
			"available", aiRegistry.Available(),
		)
	} else if aiRegistry.Misconfigured() {
		slog.Warn("AI_PROVIDER has no API key, serving placeholders only",
			"active", aiRegistry.ActiveName(),
			"available", aiRegistry.Available(),
		)
	} else {
		slog.Warn("no image provider key configured, serving placeholders only")
	}

	svc := generator.New(generator.Options{
		Images:             aiRegistry,
		Thumbnails:         thumbRepo,
		Presets:            presetRepo,
		Blobs:              blobs,
		PlaceholderBaseURL: cfg.PlaceholderBaseURL,
		FetchTimeout:       cfg.FetchTimeout,
	})

	limiter := middleware.NewRateLimiter(cfg.GenerateRateLimit, time.Minute)
	limiter.TrustProxies(cfg.TrustedProxies)
	defer limiter.Stop()

	r := router.New(
		handlers.NewThumbnails(svc, thumbRepo),
		handlers.NewCatalog(presetRepo),
		downloads,
		limiter,
	)

	// WriteTimeout must cover a provider call plus the placeholder fallback.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

// openDatabase connects, migrates and seeds the style presets.
func openDatabase(dsn string, catalogue []models.StylePreset) (*sql.DB, error) {
	db, err := database.Connect(dsn)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := database.Seed(ctx, db, catalogue); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
