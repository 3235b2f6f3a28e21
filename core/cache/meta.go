// ABOUTME: Metadata store reads and writes per-article cache records as JSON files
// ABOUTME: Self-heals oversized or unparsable records by deleting them

package cache

import (
	"encoding/json"
	"os"
	"path/filepath"

	"digests-app-cache/core/domain"
	coreerrors "digests-app-cache/core/errors"
	"digests-app-cache/core/interfaces"
)

// maxMetaFileSize bounds a metadata record on disk. A legitimate record
// is always small, so anything larger is treated as corruption.
const maxMetaFileSize = 1 << 20

const metaSuffix = ".meta"

// MetaEntry is the per-article record stored alongside the image cache.
// A MetaEntry may exist without a cached image (unknown content type,
// or a pure viewed marker), never the reverse.
type MetaEntry struct {
	// ETag is the HTTP ETag validator from the last fetch
	ETag string `json:"etag,omitempty"`

	// LastModified is the HTTP Last-Modified validator from the last fetch
	LastModified string `json:"last_modified,omitempty"`

	// LastAccess is the unix time the entry was last written or touched
	LastAccess int64 `json:"last_access"`

	// Size is the byte length of the cached image
	Size int64 `json:"size"`

	// Viewed records whether the article has been opened
	Viewed bool `json:"viewed,omitempty"`

	// ViewedAt is the unix time Viewed was first set
	ViewedAt int64 `json:"viewed_at,omitempty"`

	// Color is the prominent thumbnail color, when extracted
	Color *domain.RGBColor `json:"color,omitempty"`
}

// metaStore persists MetaEntry records as one JSON file per cache key.
type metaStore struct {
	dir    string
	logger interfaces.Logger
}

// path returns the metadata file path for a cache key.
func (s *metaStore) path(key string) string {
	return filepath.Join(s.dir, key+metaSuffix)
}

// read returns the record for key, or nil when no valid record exists.
// Oversized or unparsable files are deleted on sight so a corrupt
// record can never fail every future read. The returned error is a
// typed diagnosis of why the record is absent; callers treat any error
// the same as a miss.
func (s *metaStore) read(key string) (*MetaEntry, error) {
	p := s.path(key)

	info, err := os.Stat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &coreerrors.StoreIOError{Op: "stat", Path: p, Err: err}
	}

	if info.Size() > maxMetaFileSize {
		s.logger.Warn("Deleting oversized metadata record", map[string]interface{}{
			"path": p,
			"size": info.Size(),
		})
		_ = os.Remove(p)
		return nil, &coreerrors.CorruptEntryError{Path: p, Reason: "file exceeds 1 MiB"}
	}

	data, err := os.ReadFile(p)
	if err != nil {
		// The file can vanish between stat and read when an eviction
		// sweep races a reader. That is a normal miss.
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &coreerrors.StoreIOError{Op: "read", Path: p, Err: err}
	}

	var entry MetaEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		s.logger.Warn("Deleting unparsable metadata record", map[string]interface{}{
			"path":  p,
			"error": err.Error(),
		})
		_ = os.Remove(p)
		return nil, &coreerrors.CorruptEntryError{Path: p, Reason: err.Error()}
	}

	return &entry, nil
}

// write overwrites the record for key.
func (s *metaStore) write(key string, entry *MetaEntry) error {
	p := s.path(key)

	data, err := json.Marshal(entry)
	if err != nil {
		return &coreerrors.StoreIOError{Op: "encode", Path: p, Err: err}
	}

	if err := os.WriteFile(p, data, 0o644); err != nil {
		return &coreerrors.StoreIOError{Op: "write", Path: p, Err: err}
	}

	return nil
}
