// ABOUTME: Feed warmer pre-fetches article thumbnails into the cache using conditional requests
// ABOUTME: Revalidates with stored ETag and Last-Modified so an unchanged image costs one 304

package warmer

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/mmcdole/gofeed"
	"golang.org/x/time/rate"

	coreerrors "digests-app-cache/core/errors"
	"digests-app-cache/core/interfaces"
	"digests-app-cache/core/services"
)

// Config holds warmer tuning knobs.
type Config struct {
	// RequestsPerSecond caps thumbnail downloads.
	RequestsPerSecond float64

	// MaxImageBytes rejects thumbnails larger than this.
	MaxImageBytes int64
}

// DefaultConfig returns the default warmer configuration
func DefaultConfig() Config {
	return Config{
		RequestsPerSecond: 4,
		MaxImageBytes:     10 << 20,
	}
}

// Stats summarizes one warm run.
type Stats struct {
	Articles    int // feed items seen
	Fetched     int // thumbnails downloaded and cached
	NotModified int // revalidated via 304, only touched
	Skipped     int // items with no discoverable thumbnail
	Failed      int // items whose thumbnail fetch failed
}

// Warmer walks a feed and fills the article cache with thumbnails.
// It is the fetch-side collaborator of the cache: conditional-request
// handling lives here, the cache only stores and returns validators.
type Warmer struct {
	deps       interfaces.Dependencies
	thumbnails *services.ThumbnailService
	colors     *services.ThumbnailColorService
	parser     *gofeed.Parser
	limiter    *rate.Limiter
	maxBytes   int64
}

// New creates a warmer with the given services and configuration
func New(deps interfaces.Dependencies, thumbnails *services.ThumbnailService, colors *services.ThumbnailColorService, cfg Config) *Warmer {
	defaults := DefaultConfig()
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = defaults.RequestsPerSecond
	}
	if cfg.MaxImageBytes <= 0 {
		cfg.MaxImageBytes = defaults.MaxImageBytes
	}

	return &Warmer{
		deps:       deps,
		thumbnails: thumbnails,
		colors:     colors,
		parser:     gofeed.NewParser(),
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		maxBytes:   cfg.MaxImageBytes,
	}
}

// WarmFeed fetches the feed at feedURL and caches a thumbnail for each
// item that declares or embeds one. Per-item failures are logged and
// counted, never fatal; only an unusable feed aborts the run.
func (w *Warmer) WarmFeed(ctx context.Context, feedURL string) (Stats, error) {
	var stats Stats

	resp, err := w.deps.HTTPClient.Get(ctx, feedURL)
	if err != nil {
		return stats, coreerrors.WrapError(err, "failed to fetch feed")
	}
	body := resp.Body()
	defer body.Close()

	if resp.StatusCode() != http.StatusOK {
		return stats, fmt.Errorf("feed fetch returned status %d", resp.StatusCode())
	}

	feed, err := w.parser.Parse(body)
	if err != nil {
		return stats, coreerrors.WrapError(err, "failed to parse feed")
	}

	for _, item := range feed.Items {
		if ctx.Err() != nil {
			return stats, ctx.Err()
		}
		stats.Articles++

		thumbnail := w.thumbnails.FindThumbnail(ctx, item)
		if thumbnail == "" {
			stats.Skipped++
			continue
		}

		if err := w.warmThumbnail(ctx, thumbnail, &stats); err != nil {
			stats.Failed++
			w.deps.Logger.Warn("Failed to warm thumbnail", map[string]interface{}{
				"article":   item.Link,
				"thumbnail": thumbnail,
				"error":     err.Error(),
			})
		}
	}

	w.deps.Logger.Info("Feed warm complete", map[string]interface{}{
		"feed":         feedURL,
		"articles":     stats.Articles,
		"fetched":      stats.Fetched,
		"not_modified": stats.NotModified,
		"skipped":      stats.Skipped,
		"failed":       stats.Failed,
	})

	return stats, nil
}

// warmThumbnail revalidates or downloads one thumbnail into the cache.
func (w *Warmer) warmThumbnail(ctx context.Context, imageURL string, stats *Stats) error {
	if err := w.limiter.Wait(ctx); err != nil {
		return err
	}

	etag, lastModified := w.deps.Cache.Validators(ctx, imageURL)

	resp, err := w.deps.HTTPClient.ConditionalGet(ctx, imageURL, etag, lastModified)
	if err != nil {
		return err
	}
	body := resp.Body()
	defer body.Close()

	switch resp.StatusCode() {
	case http.StatusNotModified:
		stats.NotModified++
		return w.deps.Cache.Touch(ctx, imageURL)
	case http.StatusOK:
	default:
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode())
	}

	data, err := io.ReadAll(io.LimitReader(body, w.maxBytes+1))
	if err != nil {
		return err
	}
	if int64(len(data)) > w.maxBytes {
		return fmt.Errorf("image exceeds %d bytes", w.maxBytes)
	}

	err = w.deps.Cache.WriteCache(ctx, imageURL, data,
		resp.Header("ETag"), resp.Header("Last-Modified"), resp.Header("Content-Type"))
	if err != nil {
		return err
	}
	stats.Fetched++

	if w.colors != nil {
		if color, colorErr := w.colors.ExtractColor(data); colorErr == nil {
			_ = w.deps.Cache.SetColor(ctx, imageURL, color)
		}
	}

	return nil
}
