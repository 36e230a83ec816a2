// Package cache stores per-file analysis findings on disk so repeat runs
// only re-evaluate files whose content or options changed.
package cache

import (
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/zeebo/blake3"
)

// Cache is a directory of JSON entries keyed by file path. Entries are
// validated against a caller-supplied hash, so a stale entry is treated as
// a miss rather than an error.
type Cache struct {
	dir     string
	ttl     time.Duration
	enabled bool
}

// Entry is the on-disk representation of one cached result.
type Entry struct {
	Hash      string    `json:"hash"`
	Timestamp time.Time `json:"timestamp"`
	Data      []byte    `json:"data"`
}

// New creates a cache rooted at dir. A disabled cache accepts all calls
// and misses on every lookup, which keeps call sites branch-free.
func New(dir string, ttlHours int, enabled bool) (*Cache, error) {
	if !enabled {
		return &Cache{enabled: false}, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	return &Cache{
		dir:     dir,
		ttl:     time.Duration(ttlHours) * time.Hour,
		enabled: true,
	}, nil
}

// HashBytes computes a BLAKE3 hash of data and returns it as a hex string.
func HashBytes(data []byte) string {
	hash := blake3.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// GetWithHash retrieves the entry for key if its stored hash matches and
// it has not expired. Expired entries are removed on sight.
func (c *Cache) GetWithHash(key, hash string) ([]byte, bool) {
	if !c.enabled {
		return nil, false
	}

	path := c.keyPath(key)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false
	}

	if entry.Hash != hash {
		return nil, false
	}

	if time.Since(entry.Timestamp) > c.ttl {
		os.Remove(path)
		return nil, false
	}

	return entry.Data, true
}

// SetWithHash stores data for key together with its validation hash.
func (c *Cache) SetWithHash(key, hash string, data []byte) error {
	if !c.enabled {
		return nil
	}

	entry := Entry{
		Hash:      hash,
		Timestamp: time.Now(),
		Data:      data,
	}

	entryData, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	return os.WriteFile(c.keyPath(key), entryData, 0600)
}

// Clear removes the entire cache directory.
func (c *Cache) Clear() error {
	if !c.enabled {
		return nil
	}
	return os.RemoveAll(c.dir)
}

// keyPath converts a key to a filesystem path. Keys are hashed so that
// arbitrary file paths produce safe filenames.
func (c *Cache) keyPath(key string) string {
	hash := blake3.Sum256([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(hash[:])+".json")
}

// Stats describes the cache contents.
type Stats struct {
	Entries   int           `json:"entries" toon:"entries"`
	TotalSize int64         `json:"total_size" toon:"total_size"`
	OldestAge time.Duration `json:"oldest_age" toon:"oldest_age"`
	NewestAge time.Duration `json:"newest_age" toon:"newest_age"`
}

// GetStats walks the cache directory and summarizes it.
func (c *Cache) GetStats() (*Stats, error) {
	if !c.enabled {
		return &Stats{}, nil
	}

	stats := &Stats{}
	var oldest, newest time.Time

	err := filepath.Walk(c.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}

		stats.Entries++
		stats.TotalSize += info.Size()

		modTime := info.ModTime()
		if oldest.IsZero() || modTime.Before(oldest) {
			oldest = modTime
		}
		if newest.IsZero() || modTime.After(newest) {
			newest = modTime
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if !oldest.IsZero() {
		stats.OldestAge = time.Since(oldest)
	}
	if !newest.IsZero() {
		stats.NewestAge = time.Since(newest)
	}

	return stats, nil
}
