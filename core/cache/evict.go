// ABOUTME: Eviction policy bounding image-store disk usage and metadata age
// ABOUTME: Size-triggered sweeps clear images only; viewed history survives until the retention window

package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// maybeEvict runs after every successful write. An unknown store size
// (enumeration failure) never triggers eviction.
func (c *DiskCache) maybeEvict(ctx context.Context) {
	size, err := c.images.sizeBytes()
	if err != nil {
		c.logger.Warn("Skipping eviction, image store size unknown", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if size <= c.opts.MaxImageStoreBytes {
		return
	}

	c.logger.Info("Image store over limit, clearing images", map[string]interface{}{
		"size":  size,
		"limit": c.opts.MaxImageStoreBytes,
	})

	if err := c.ClearImages(ctx); err != nil {
		c.logger.Error("Eviction sweep failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// ClearImages deletes every cached image file, then prunes metadata
// records older than the retention window. Metadata younger than the
// window survives, so read history is not lost merely because images
// grew too large.
func (c *DiskCache) ClearImages(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	c.images.removeAll()
	c.pruneOldMetadata()
	return nil
}

// pruneOldMetadata deletes metadata files whose modification time is
// older than the retention window, dropping them from the confirmed
// set. Best effort per file.
func (c *DiskCache) pruneOldMetadata() {
	entries, err := os.ReadDir(c.meta.dir)
	if err != nil {
		c.logger.Error("Failed to list metadata directory", map[string]interface{}{
			"dir":   c.meta.dir,
			"error": err.Error(),
		})
		return
	}

	cutoff := time.Now().Add(-c.opts.MetadataRetention)

	for _, dirEntry := range entries {
		if dirEntry.IsDir() || !strings.HasSuffix(dirEntry.Name(), metaSuffix) {
			continue
		}
		info, err := dirEntry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}

		p := filepath.Join(c.meta.dir, dirEntry.Name())
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			c.logger.Warn("Failed to delete expired metadata record", map[string]interface{}{
				"path":  p,
				"error": err.Error(),
			})
			continue
		}

		c.mu.Lock()
		delete(c.confirmed, p)
		c.mu.Unlock()
	}
}
