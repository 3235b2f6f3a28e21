// ABOUTME: Disk-backed article cache facade composing the metadata, image, and viewed-state stores
// ABOUTME: Construction preloads viewed state synchronously and starts the background check worker

package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"digests-app-cache/core/domain"
	coreerrors "digests-app-cache/core/errors"
	"digests-app-cache/core/interfaces"
)

const (
	metadataDirName = "metadata"
	imagesDirName   = "images"
)

// Options configures a DiskCache.
type Options struct {
	// MaxImageStoreBytes is the image directory size that triggers an
	// eviction sweep after a write.
	MaxImageStoreBytes int64

	// MetadataRetention is how long metadata records survive an image
	// eviction sweep.
	MetadataRetention time.Duration

	// CheckQueueSize bounds the background viewed-check queue.
	CheckQueueSize int
}

// DefaultOptions returns the default cache options
func DefaultOptions() Options {
	return Options{
		MaxImageStoreBytes: 200 << 20,
		MetadataRetention:  90 * 24 * time.Hour,
		CheckQueueSize:     256,
	}
}

// DiskCache implements interfaces.ArticleCache against a local cache
// root holding sibling metadata/ and images/ directories. One instance
// is constructed per process and shared by reference.
type DiskCache struct {
	meta   *metaStore
	images *imageStore
	logger interfaces.Logger
	opts   Options

	// mu guards confirmed and pending. All access to either set,
	// read or write, goes through it.
	mu        sync.Mutex
	confirmed map[string]struct{}
	pending   map[string]struct{}

	checks chan string
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewDiskCache creates the cache rooted at root, synchronously preloads
// the viewed-state set from disk, and starts the background check
// worker. It fails only when the cache directories cannot be created;
// every later error degrades to a miss instead.
func NewDiskCache(root string, opts Options, logger interfaces.Logger) (*DiskCache, error) {
	if root == "" {
		return nil, &coreerrors.ValidationError{Field: "root", Message: "cache root cannot be empty"}
	}

	defaults := DefaultOptions()
	if opts.MaxImageStoreBytes <= 0 {
		opts.MaxImageStoreBytes = defaults.MaxImageStoreBytes
	}
	if opts.MetadataRetention <= 0 {
		opts.MetadataRetention = defaults.MetadataRetention
	}
	if opts.CheckQueueSize <= 0 {
		opts.CheckQueueSize = defaults.CheckQueueSize
	}

	metaDir := filepath.Join(root, metadataDirName)
	imageDir := filepath.Join(root, imagesDirName)
	for _, dir := range []string{metaDir, imageDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, coreerrors.WrapError(err, "failed to create cache directory")
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &DiskCache{
		meta:      &metaStore{dir: metaDir, logger: logger},
		images:    &imageStore{dir: imageDir, logger: logger},
		logger:    logger,
		opts:      opts,
		confirmed: make(map[string]struct{}),
		pending:   make(map[string]struct{}),
		checks:    make(chan string, opts.CheckQueueSize),
		ctx:       ctx,
		cancel:    cancel,
	}

	c.preloadViewed()

	c.wg.Add(1)
	go c.runChecker()

	return c, nil
}

// Close stops the background worker. Queued-but-unprocessed checks are
// dropped, which is safe: IsViewed already answered false for them.
func (c *DiskCache) Close() error {
	c.cancel()
	c.wg.Wait()
	return nil
}

// metaPath returns the metadata file path that identifies url in the
// in-memory viewed-state sets.
func (c *DiskCache) metaPath(url string) string {
	return c.meta.path(DeriveKey(url))
}

// CachedPath returns the on-disk path of the cached image for url, or
// an empty string if no image is cached.
func (c *DiskCache) CachedPath(url string) string {
	return c.images.existingPath(DeriveKey(url))
}

// WriteCache stores image bytes and cache validators for url. The image
// is written before the metadata record, so a metadata record never
// promises an image that was not durably stored first. Prior viewed
// state and color survive the rewrite.
func (c *DiskCache) WriteCache(ctx context.Context, url string, data []byte, etag, lastModified, contentType string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	key := DeriveKey(url)

	if err := c.images.write(key, data, contentType); err != nil {
		c.logger.Error("Failed to write cached image", map[string]interface{}{
			"url":   url,
			"error": err.Error(),
		})
		return err
	}

	prior, err := c.meta.read(key)
	if err != nil && coreerrors.IsStoreIO(err) {
		c.logger.Warn("Could not read prior metadata record", map[string]interface{}{
			"url":   url,
			"error": err.Error(),
		})
	}

	entry := &MetaEntry{
		ETag:         etag,
		LastModified: lastModified,
		LastAccess:   time.Now().Unix(),
		Size:         int64(len(data)),
	}
	if prior != nil {
		entry.Viewed = prior.Viewed
		entry.ViewedAt = prior.ViewedAt
		entry.Color = prior.Color
	}

	if err := c.meta.write(key, entry); err != nil {
		c.logger.Error("Failed to write metadata record", map[string]interface{}{
			"url":   url,
			"error": err.Error(),
		})
		return err
	}

	c.maybeEvict(ctx)
	return nil
}

// Touch updates only the last-access time of an existing metadata
// record. It is a no-op when no record exists.
func (c *DiskCache) Touch(ctx context.Context, url string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	key := DeriveKey(url)
	entry, err := c.meta.read(key)
	if err != nil && coreerrors.IsStoreIO(err) {
		c.logger.Warn("Could not read metadata record for touch", map[string]interface{}{
			"url":   url,
			"error": err.Error(),
		})
	}
	if entry == nil {
		return nil
	}

	entry.LastAccess = time.Now().Unix()
	if err := c.meta.write(key, entry); err != nil {
		c.logger.Warn("Failed to update last access time", map[string]interface{}{
			"url":   url,
			"error": err.Error(),
		})
		return err
	}
	return nil
}

// Validators returns the stored ETag and Last-Modified values for url.
// Both are empty strings when no record exists.
func (c *DiskCache) Validators(ctx context.Context, url string) (string, string) {
	select {
	case <-ctx.Done():
		return "", ""
	default:
	}

	entry, _ := c.meta.read(DeriveKey(url))
	if entry == nil {
		return "", ""
	}
	return entry.ETag, entry.LastModified
}

// SetColor stores the prominent thumbnail color on the metadata record
// for url, creating the record if needed and preserving other fields.
func (c *DiskCache) SetColor(ctx context.Context, url string, color *domain.RGBColor) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	key := DeriveKey(url)
	entry, err := c.meta.read(key)
	if err != nil && coreerrors.IsStoreIO(err) {
		c.logger.Warn("Could not read metadata record for color update", map[string]interface{}{
			"url":   url,
			"error": err.Error(),
		})
	}
	if entry == nil {
		entry = &MetaEntry{LastAccess: time.Now().Unix()}
	}

	entry.Color = color
	if err := c.meta.write(key, entry); err != nil {
		c.logger.Warn("Failed to store thumbnail color", map[string]interface{}{
			"url":   url,
			"error": err.Error(),
		})
		return err
	}
	return nil
}

// ThumbnailColor returns the stored prominent color for url, or nil if
// none has been recorded.
func (c *DiskCache) ThumbnailColor(ctx context.Context, url string) *domain.RGBColor {
	select {
	case <-ctx.Done():
		return nil
	default:
	}

	entry, _ := c.meta.read(DeriveKey(url))
	if entry == nil {
		return nil
	}
	return entry.Color
}

// Clear deletes all cached images, all metadata records, and resets the
// in-memory viewed-state sets.
func (c *DiskCache) Clear(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	c.images.removeAll()

	entries, err := os.ReadDir(c.meta.dir)
	if err != nil {
		c.logger.Error("Failed to list metadata directory", map[string]interface{}{
			"dir":   c.meta.dir,
			"error": err.Error(),
		})
	} else {
		for _, dirEntry := range entries {
			if dirEntry.IsDir() || !strings.HasSuffix(dirEntry.Name(), metaSuffix) {
				continue
			}
			p := filepath.Join(c.meta.dir, dirEntry.Name())
			if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
				c.logger.Warn("Failed to delete metadata record", map[string]interface{}{
					"path":  p,
					"error": err.Error(),
				})
			}
		}
	}

	c.mu.Lock()
	c.confirmed = make(map[string]struct{})
	c.pending = make(map[string]struct{})
	c.mu.Unlock()

	return nil
}

// Stats describes the current on-disk footprint of the cache.
type Stats struct {
	// ImageBytes is the total size of the image store, or -1 when the
	// directory could not be enumerated.
	ImageBytes int64

	// ImageCount is the number of cached image files.
	ImageCount int

	// MetadataCount is the number of metadata records.
	MetadataCount int
}

// CacheStats reports the cache's on-disk footprint.
func (c *DiskCache) CacheStats() Stats {
	stats := Stats{ImageBytes: -1}

	if size, err := c.images.sizeBytes(); err == nil {
		stats.ImageBytes = size
	}

	if entries, err := os.ReadDir(c.images.dir); err == nil {
		for _, entry := range entries {
			if entry.Type().IsRegular() {
				stats.ImageCount++
			}
		}
	}

	if entries, err := os.ReadDir(c.meta.dir); err == nil {
		for _, entry := range entries {
			if !entry.IsDir() && strings.HasSuffix(entry.Name(), metaSuffix) {
				stats.MetadataCount++
			}
		}
	}

	return stats
}
