// Package interfaces defines the core interfaces used throughout the application.
// These interfaces allow for dependency injection and make the code testable.
package interfaces

import (
	"context"

	"digests-app-cache/core/domain"
)

// ArticleCache defines the interface for the disk-backed article cache.
// It persists downloaded thumbnail bytes and per-article bookkeeping
// (HTTP cache validators, last access time, viewed state) and answers
// viewed-state queries without blocking the caller on disk I/O.
//
// Example usage:
//
//	cache := someCache // implements ArticleCache
//
//	// After a successful download
//	err := cache.WriteCache(ctx, url, data, etag, lastModified, "image/png")
//
//	// From the UI thread (never blocks on disk)
//	if cache.IsViewed(articleURL) {
//		// render the viewed badge
//	}
type ArticleCache interface {
	// CachedPath returns the on-disk path of the cached image for url,
	// or an empty string if no image is cached.
	CachedPath(url string) string

	// WriteCache stores image bytes and cache validators for url.
	// An unknown or empty contentType skips the image write; the
	// metadata record is still updated. Returns an error only for
	// unexpected I/O failures, never for routine misses.
	WriteCache(ctx context.Context, url string, data []byte, etag, lastModified, contentType string) error

	// Touch updates the last-access time of an existing metadata
	// record. It is a no-op when no record exists.
	Touch(ctx context.Context, url string) error

	// Validators returns the stored ETag and Last-Modified values for
	// url. Both are empty strings when no record exists.
	Validators(ctx context.Context, url string) (etag string, lastModified string)

	// MarkViewed durably records that the article at url has been
	// viewed. The on-disk record is written before the in-memory flag
	// becomes visible. Idempotent.
	MarkViewed(ctx context.Context, url string) error

	// IsViewed reports whether the article at url is known to have been
	// viewed. It never touches the disk on the calling goroutine: an
	// unknown url enqueues a background check and returns false until
	// the check completes (optimistic-false, eventually consistent).
	IsViewed(url string) bool

	// SetColor stores the prominent thumbnail color on the metadata
	// record for url, preserving all other fields.
	SetColor(ctx context.Context, url string, color *domain.RGBColor) error

	// ThumbnailColor returns the stored prominent color for url, or nil
	// if none has been recorded.
	ThumbnailColor(ctx context.Context, url string) *domain.RGBColor

	// Clear deletes all cached images, metadata, and in-memory state.
	Clear(ctx context.Context) error

	// ClearImages deletes all cached image files and prunes metadata
	// records older than the retention window. Recent viewed markers
	// survive.
	ClearImages(ctx context.Context) error
}
