// Package cache is a disk-backed LRU for synthesized PCM clips.
// Upstream synthesis is billed per character, so repeated phrases
// ("Timer finished") are served from disk instead of the cloud
// provider.
package cache

import (
	"crypto/sha256"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const fileExt = ".pcm"

// Cache stores PCM clips in a directory with a total size cap.
type Cache struct {
	mu         sync.Mutex
	dir        string
	maxBytes   int64
	totalBytes int64
	log        *slog.Logger
	entries    map[string]*entry
}

type entry struct {
	size       int64
	accessedAt time.Time
	path       string
}

// New creates a Cache rooted at dir with a size cap of maxBytes,
// creating dir if needed and indexing any clips left by a previous run.
func New(dir string, maxBytes int64, logger *slog.Logger) (*Cache, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache: create dir: %w", err)
	}
	c := &Cache{
		dir:      dir,
		maxBytes: maxBytes,
		log:      logger.With("component", "cache"),
		entries:  make(map[string]*entry),
	}
	c.indexExisting()
	return c, nil
}

// Key derives a deterministic cache key from the parameters that
// change the synthesized audio.
func Key(provider, voice, language, text string, sampleRate int) string {
	h := sha256.New()
	fmt.Fprintf(h, "provider=%s\nvoice=%s\nlang=%s\nrate=%d\ntext=%s\n",
		provider, voice, language, sampleRate, text)
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Get returns the cached clip for key and true on hit.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}

	data, err := os.ReadFile(e.path)
	if err != nil {
		c.log.Warn("cache file unreadable, dropping entry", "key", key, "error", err)
		c.drop(key)
		return nil, false
	}

	e.accessedAt = time.Now()
	return data, true
}

// Put stores a clip, evicting least-recently-used entries to stay
// under the size cap. Clips larger than the cap are skipped.
func (c *Cache) Put(key string, data []byte) error {
	size := int64(len(data))
	if size > c.maxBytes {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.entries[key]; ok {
		os.Remove(old.path)
		c.drop(key)
	}

	c.evictFor(size)

	path := filepath.Join(c.dir, key+fileExt)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("cache: write clip: %w", err)
	}

	c.entries[key] = &entry{size: size, accessedAt: time.Now(), path: path}
	c.totalBytes += size
	return nil
}

// drop removes an entry from the index. Must be called with mu held.
func (c *Cache) drop(key string) {
	if e, ok := c.entries[key]; ok {
		c.totalBytes -= e.size
		delete(c.entries, key)
	}
}

// evictFor removes LRU entries until needed bytes fit under the cap.
// Must be called with mu held.
func (c *Cache) evictFor(needed int64) {
	for c.totalBytes+needed > c.maxBytes {
		key := c.lruKey()
		if key == "" {
			return
		}
		e := c.entries[key]
		os.Remove(e.path)
		c.drop(key)
		c.log.Debug("evicted clip", "key", key, "size", e.size)
	}
}

// lruKey returns the key with the earliest access time. Must be called
// with mu held.
func (c *Cache) lruKey() string {
	var key string
	var oldest time.Time
	for k, e := range c.entries {
		if key == "" || e.accessedAt.Before(oldest) {
			key = k
			oldest = e.accessedAt
		}
	}
	return key
}

// indexExisting rebuilds the index from clips on disk, using mod times
// as access times, then evicts in case the cap shrank between runs.
func (c *Cache) indexExisting() {
	matches, err := filepath.Glob(filepath.Join(c.dir, "*"+fileExt))
	if err != nil {
		c.log.Warn("cache scan failed", "error", err)
		return
	}
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		base := filepath.Base(path)
		key := base[:len(base)-len(fileExt)]
		c.entries[key] = &entry{size: info.Size(), accessedAt: info.ModTime(), path: path}
		c.totalBytes += info.Size()
	}
	if len(c.entries) > 0 {
		c.log.Info("indexed existing clips", "count", len(c.entries), "total_bytes", c.totalBytes)
		c.evictFor(0)
	}
}
