// ABOUTME: Viewed-state tracker with confirmed and pending sets plus a background check worker
// ABOUTME: UI-facing reads never block on disk; unknown URLs converge via a single goroutine

package cache

import (
	"context"
	"os"
	"strings"
	"time"

	coreerrors "digests-app-cache/core/errors"
)

// IsViewed reports whether the article at url is known viewed. The fast
// path is a set lookup under the mutex; an unknown url is enqueued for
// a background check at most once and answered with a conservative
// false until the check (or the startup preload) confirms it. Callers
// polling right after startup may briefly see false for an article
// viewed in a prior session; they converge within one check.
func (c *DiskCache) IsViewed(url string) bool {
	path := c.metaPath(url)

	c.mu.Lock()
	if _, ok := c.confirmed[path]; ok {
		c.mu.Unlock()
		return true
	}
	if _, ok := c.pending[path]; ok {
		c.mu.Unlock()
		return false
	}
	c.pending[path] = struct{}{}
	c.mu.Unlock()

	select {
	case c.checks <- url:
	default:
		// Queue full. Forget the pending mark so a later call retries.
		c.mu.Lock()
		delete(c.pending, path)
		c.mu.Unlock()
	}

	return false
}

// MarkViewed durably records the viewed flag for url. The metadata
// write happens before the in-memory publish, so a concurrent IsViewed
// can never observe a viewed flag that has no record behind it.
// Idempotent: a url already in the confirmed set is a no-op.
func (c *DiskCache) MarkViewed(ctx context.Context, url string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	key := DeriveKey(url)
	path := c.meta.path(key)

	c.mu.Lock()
	_, done := c.confirmed[path]
	c.mu.Unlock()
	if done {
		return nil
	}

	entry, err := c.meta.read(key)
	if err != nil && coreerrors.IsStoreIO(err) {
		c.logger.Warn("Could not read metadata record before marking viewed", map[string]interface{}{
			"url":   url,
			"error": err.Error(),
		})
	}
	if entry == nil {
		entry = &MetaEntry{LastAccess: time.Now().Unix()}
	}

	entry.Viewed = true
	if entry.ViewedAt == 0 {
		entry.ViewedAt = time.Now().Unix()
	}

	if err := c.meta.write(key, entry); err != nil {
		c.logger.Error("Failed to persist viewed flag", map[string]interface{}{
			"url":   url,
			"error": err.Error(),
		})
		return err
	}

	c.mu.Lock()
	c.confirmed[path] = struct{}{}
	c.mu.Unlock()

	return nil
}

// runChecker is the single long-lived worker draining the viewed-check
// queue in FIFO order. It is the only goroutine that performs blocking
// metadata reads on behalf of IsViewed callers.
func (c *DiskCache) runChecker() {
	defer c.wg.Done()

	for {
		select {
		case url, ok := <-c.checks:
			if !ok {
				return
			}
			c.checkViewed(url)
		case <-c.ctx.Done():
			return
		}
	}
}

// checkViewed reads the metadata record for url off the caller's path
// and publishes the result. A race with MarkViewed for the same url is
// benign: both sides add to the confirmed set, never remove.
func (c *DiskCache) checkViewed(url string) {
	key := DeriveKey(url)

	entry, err := c.meta.read(key)
	if err != nil && coreerrors.IsStoreIO(err) {
		c.logger.Warn("Background viewed check failed", map[string]interface{}{
			"url":   url,
			"error": err.Error(),
		})
	}

	path := c.meta.path(key)
	c.mu.Lock()
	if entry != nil && entry.Viewed {
		c.confirmed[path] = struct{}{}
	}
	delete(c.pending, path)
	c.mu.Unlock()
}

// preloadViewed seeds the confirmed set from every readable metadata
// record before the cache is handed to callers. Without the synchronous
// scan a freshly launched UI would render unviewed badges for articles
// read in a prior session until the worker caught up. Corrupt records
// self-heal here the same as on any read. Runs before the worker
// starts, so the sets are still private to the constructor.
func (c *DiskCache) preloadViewed() {
	entries, err := os.ReadDir(c.meta.dir)
	if err != nil {
		c.logger.Error("Failed to scan metadata directory", map[string]interface{}{
			"dir":   c.meta.dir,
			"error": err.Error(),
		})
		return
	}

	loaded := 0
	for _, dirEntry := range entries {
		if dirEntry.IsDir() || !strings.HasSuffix(dirEntry.Name(), metaSuffix) {
			continue
		}
		key := strings.TrimSuffix(dirEntry.Name(), metaSuffix)
		entry, err := c.meta.read(key)
		if err != nil || entry == nil {
			continue
		}
		if entry.Viewed {
			c.confirmed[c.meta.path(key)] = struct{}{}
			loaded++
		}
	}

	c.logger.Debug("Preloaded viewed state", map[string]interface{}{
		"records": len(entries),
		"viewed":  loaded,
	})
}
