// ABOUTME: Main entry point for the cachectl maintenance tool
// ABOUTME: Wires configuration, logger, cache, services, and warmer together

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"digests-app-cache/core/cache"
	"digests-app-cache/core/interfaces"
	"digests-app-cache/core/services"
	"digests-app-cache/core/warmer"
	"digests-app-cache/infrastructure/http/retryable"
	logruslogger "digests-app-cache/infrastructure/logger/logrus"
	"digests-app-cache/pkg/config"
)

func main() {
	var (
		configPath  = flag.String("config", "", "path to a YAML config file")
		warmURL     = flag.String("warm", "", "feed URL to warm thumbnails for")
		clearAll    = flag.Bool("clear", false, "delete all cached data")
		clearImages = flag.Bool("clear-images", false, "delete cached images, keep recent metadata")
		showStats   = flag.Bool("stats", false, "print cache statistics")
	)
	flag.Parse()

	// .env is optional; a missing file is fine.
	_ = godotenv.Load()

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFromFile(*configPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := logruslogger.NewLogger(cfg.LogLevel)
	logger.Info("Starting cachectl", map[string]interface{}{
		"cache_dir":      cfg.Cache.Dir,
		"image_store_mb": cfg.Cache.MaxImageStoreMB,
		"retention_days": cfg.Cache.RetentionDays,
	})

	diskCache, err := cache.NewDiskCache(cfg.Cache.Dir, cache.Options{
		MaxImageStoreBytes: cfg.Cache.MaxImageStoreMB << 20,
		MetadataRetention:  time.Duration(cfg.Cache.RetentionDays) * 24 * time.Hour,
		CheckQueueSize:     cfg.Cache.CheckQueueSize,
	}, logger)
	if err != nil {
		log.Fatalf("Failed to open cache: %v", err)
	}
	defer diskCache.Close()

	httpClient := retryable.NewClient(time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second)

	deps := interfaces.Dependencies{
		Cache:      diskCache,
		HTTPClient: httpClient,
		Logger:     logger,
	}

	ctx := context.Background()

	switch {
	case *warmURL != "":
		thumbnails := services.NewThumbnailService(deps)
		colors := services.NewThumbnailColorService(deps)
		w := warmer.New(deps, thumbnails, colors, warmer.Config{
			RequestsPerSecond: cfg.Warmer.RequestsPerSecond,
			MaxImageBytes:     cfg.Warmer.MaxImageMB << 20,
		})
		stats, err := w.WarmFeed(ctx, *warmURL)
		if err != nil {
			log.Fatalf("Warm failed: %v", err)
		}
		fmt.Printf("articles=%d fetched=%d not_modified=%d skipped=%d failed=%d\n",
			stats.Articles, stats.Fetched, stats.NotModified, stats.Skipped, stats.Failed)

	case *clearAll:
		if err := diskCache.Clear(ctx); err != nil {
			log.Fatalf("Clear failed: %v", err)
		}
		fmt.Println("cache cleared")

	case *clearImages:
		if err := diskCache.ClearImages(ctx); err != nil {
			log.Fatalf("Clear images failed: %v", err)
		}
		fmt.Println("images cleared")

	case *showStats:
		stats := diskCache.CacheStats()
		fmt.Printf("images=%d image_bytes=%d metadata=%d\n",
			stats.ImageCount, stats.ImageBytes, stats.MetadataCount)

	default:
		flag.Usage()
	}
}
