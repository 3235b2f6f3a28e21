// ABOUTME: Image store persists raw thumbnail bytes keyed by cache key plus extension
// ABOUTME: Atomic temp-file writes guarantee readers never see a truncated image

package cache

import (
	"os"
	"path/filepath"
	"strings"

	coreerrors "digests-app-cache/core/errors"
	"digests-app-cache/core/interfaces"
)

// knownExtensions maps content types to file extensions. The order is
// fixed: existingPath probes extensions in this order because the
// extension is not recoverable from the URL alone.
var knownExtensions = []struct {
	contentType string
	ext         string
}{
	{"image/jpeg", ".jpg"},
	{"image/png", ".png"},
	{"image/webp", ".webp"},
	{"image/gif", ".gif"},
	{"image/svg+xml", ".svg"},
	{"image/bmp", ".bmp"},
	{"image/tiff", ".tiff"},
	{"image/avif", ".avif"},
}

// extensionForContentType resolves a Content-Type header value to a
// file extension, ignoring any ";charset=..." suffix. Returns an empty
// string for unknown or empty content types.
func extensionForContentType(contentType string) string {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}

	for _, known := range knownExtensions {
		if known.contentType == ct {
			return known.ext
		}
	}
	return ""
}

// imageStore persists raw image bytes as one file per cache key.
type imageStore struct {
	dir    string
	logger interfaces.Logger
}

// existingPath returns the path of the cached image for key, probing
// each known extension in order, or an empty string if none exists.
func (s *imageStore) existingPath(key string) string {
	for _, known := range knownExtensions {
		p := filepath.Join(s.dir, key+known.ext)
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			return p
		}
	}
	return ""
}

// write stores data for key. An unresolvable content type skips the
// image write entirely; the caller may still record metadata. The bytes
// go to a temp file that is renamed into place, so a crash mid-write
// never leaves a half-written file a later reader would trust.
func (s *imageStore) write(key string, data []byte, contentType string) error {
	ext := extensionForContentType(contentType)
	if ext == "" {
		s.logger.Debug("Skipping image write for unknown content type", map[string]interface{}{
			"key":          key,
			"content_type": contentType,
		})
		return nil
	}

	p := filepath.Join(s.dir, key+ext)

	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return &coreerrors.StoreIOError{Op: "create", Path: p, Err: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &coreerrors.StoreIOError{Op: "write", Path: p, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &coreerrors.StoreIOError{Op: "close", Path: p, Err: err}
	}

	if err := os.Rename(tmpName, p); err != nil {
		os.Remove(tmpName)
		return &coreerrors.StoreIOError{Op: "rename", Path: p, Err: err}
	}

	return nil
}

// sizeBytes sums regular-file sizes under the image directory. Any
// enumeration error aborts the computation so eviction never acts on an
// incomplete size.
func (s *imageStore) sizeBytes() (int64, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, &coreerrors.StoreIOError{Op: "list", Path: s.dir, Err: err}
	}

	var total int64
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			if os.IsNotExist(err) {
				// Deleted between list and stat; it no longer counts.
				continue
			}
			return 0, &coreerrors.StoreIOError{Op: "stat", Path: filepath.Join(s.dir, entry.Name()), Err: err}
		}
		total += info.Size()
	}

	return total, nil
}

// removeAll deletes every regular file in the image directory. Best
// effort: one failure does not stop the sweep.
func (s *imageStore) removeAll() {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		s.logger.Error("Failed to list image directory", map[string]interface{}{
			"dir":   s.dir,
			"error": err.Error(),
		})
		return
	}

	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		p := filepath.Join(s.dir, entry.Name())
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("Failed to delete cached image", map[string]interface{}{
				"path":  p,
				"error": err.Error(),
			})
		}
	}
}
