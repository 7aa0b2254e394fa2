package cache

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Entry is the on-disk representation of one cached value.
type Entry struct {
	Value      json.RawMessage `json:"value"`
	CreatedAt  time.Time       `json:"created_at"`
	TTLSeconds int             `json:"ttl_seconds"`
}

// Stats tracks cache performance counters together with the state of the
// cache directory.
type Stats struct {
	Hits           int64 `json:"hits"`
	Misses         int64 `json:"misses"`
	Sets           int64 `json:"sets"`
	TotalFiles     int   `json:"total_files"`
	ActiveEntries  int   `json:"active_entries"`
	ExpiredEntries int   `json:"expired_entries"`
	TotalSizeBytes int64 `json:"total_size_bytes"`
}

// FileCache stores cached values as one JSON file per key under a cache
// directory. Expiration is lazy: entries are checked on read, and expired
// or unreadable files count as misses.
type FileCache struct {
	dir    string
	ttl    time.Duration
	logger *logrus.Logger
	now    func() time.Time

	mu     sync.Mutex
	hits   int64
	misses int64
	sets   int64
}

// New creates a file cache rooted at dir, creating the directory if absent.
func New(dir string, ttl time.Duration, logger *logrus.Logger) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory %s: %w", dir, err)
	}
	return &FileCache{
		dir:    dir,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}, nil
}

// Key derives a deterministic cache key from a function identifier and its
// argument values.
func Key(fn string, args ...string) string {
	return fn + "(" + strings.Join(args, ",") + ")"
}

// path maps a cache key to its entry file. Keys are hashed so arbitrary
// key strings remain safe as filenames.
func (c *FileCache) path(key string) string {
	sum := md5.Sum([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:])+".cache")
}

// Get retrieves the raw cached value for key. The second return value is
// false on a miss: the entry is absent, unreadable, corrupt or expired.
// Expired entry files are removed on read.
func (c *FileCache) Get(key string) (json.RawMessage, bool) {
	path := c.path(key)

	data, err := os.ReadFile(path)
	if err != nil {
		c.recordMiss()
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		c.logger.WithFields(logrus.Fields{
			"key":   key,
			"error": err.Error(),
		}).Warn("Corrupt cache entry treated as miss")
		c.recordMiss()
		return nil, false
	}

	if !c.valid(entry) {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			c.logger.WithField("key", key).Warnf("Failed to remove expired cache entry: %v", err)
		}
		c.logger.WithField("key", key).Debug("Cache entry expired")
		c.recordMiss()
		return nil, false
	}

	c.recordHit()
	c.logger.WithField("key", key).Debug("Cache hit")
	return entry.Value, true
}

// Set stores a value for key with the cache's default TTL.
func (c *FileCache) Set(key string, value any) error {
	return c.SetTTL(key, value, c.ttl)
}

// SetTTL stores a value for key with an explicit TTL.
func (c *FileCache) SetTTL(key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to serialize cache value for key %s: %w", key, err)
	}

	entry := Entry{
		Value:      raw,
		CreatedAt:  c.now(),
		TTLSeconds: int(ttl.Seconds()),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to serialize cache entry for key %s: %w", key, err)
	}

	if err := os.WriteFile(c.path(key), data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache entry for key %s: %w", key, err)
	}

	c.mu.Lock()
	c.sets++
	c.mu.Unlock()

	c.logger.WithFields(logrus.Fields{
		"key": key,
		"ttl": ttl,
	}).Debug("Cached value")
	return nil
}

// GetOrCompute returns the cached value for key if a valid entry exists,
// without invoking compute. On a miss it invokes compute, stores the result
// with the default TTL and returns it. A compute failure propagates and
// nothing is cached for the key.
func (c *FileCache) GetOrCompute(key string, compute func() (any, error)) (json.RawMessage, error) {
	return c.GetOrComputeTTL(key, c.ttl, compute)
}

// GetOrComputeTTL is GetOrCompute with an explicit TTL for the stored entry.
func (c *FileCache) GetOrComputeTTL(key string, ttl time.Duration, compute func() (any, error)) (json.RawMessage, error) {
	if value, ok := c.Get(key); ok {
		return value, nil
	}

	value, err := compute()
	if err != nil {
		return nil, err
	}

	if err := c.SetTTL(key, value, ttl); err != nil {
		// The computed value is still good; a failed write only costs the
		// next caller a recompute.
		c.logger.WithField("key", key).Warnf("Failed to store computed value: %v", err)
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize computed value for key %s: %w", key, err)
	}
	return raw, nil
}

// Clear removes every cache entry file immediately, regardless of TTL.
func (c *FileCache) Clear() error {
	entries, err := filepath.Glob(filepath.Join(c.dir, "*.cache"))
	if err != nil {
		return fmt.Errorf("failed to list cache entries: %w", err)
	}
	for _, path := range entries {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove cache entry %s: %w", path, err)
		}
	}
	c.logger.WithField("entries", len(entries)).Debug("Cleared cache")
	return nil
}

// Stats returns performance counters plus a scan of the cache directory.
// Unreadable files count as expired.
func (c *FileCache) Stats() Stats {
	c.mu.Lock()
	stats := Stats{
		Hits:   c.hits,
		Misses: c.misses,
		Sets:   c.sets,
	}
	c.mu.Unlock()

	paths, err := filepath.Glob(filepath.Join(c.dir, "*.cache"))
	if err != nil {
		return stats
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		stats.TotalFiles++
		stats.TotalSizeBytes += info.Size()

		data, err := os.ReadFile(path)
		if err != nil {
			stats.ExpiredEntries++
			continue
		}
		var entry Entry
		if err := json.Unmarshal(data, &entry); err != nil {
			stats.ExpiredEntries++
			continue
		}
		if c.valid(entry) {
			stats.ActiveEntries++
		} else {
			stats.ExpiredEntries++
		}
	}
	return stats
}

// HealthCheck verifies that the cache directory is still accessible.
func (c *FileCache) HealthCheck() error {
	info, err := os.Stat(c.dir)
	if err != nil {
		return fmt.Errorf("cache directory inaccessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("cache path %s is not a directory", c.dir)
	}
	return nil
}

// valid reports whether entry is within its TTL window.
func (c *FileCache) valid(entry Entry) bool {
	age := c.now().Sub(entry.CreatedAt)
	return age < time.Duration(entry.TTLSeconds)*time.Second
}

func (c *FileCache) recordHit() {
	c.mu.Lock()
	c.hits++
	c.mu.Unlock()
}

func (c *FileCache) recordMiss() {
	c.mu.Lock()
	c.misses++
	c.mu.Unlock()
}
