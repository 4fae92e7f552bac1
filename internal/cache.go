package internal

import (
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	tt "github.com/gnolang/seqcheck/internal/types"
)

const (
	cacheFileName   = "seqcheck_cache.gob"
	defaultCacheTTL = 24 * time.Hour
)

// verdict is what the cache remembers about one case file: the issues
// found for its exact contents under one set of check settings.
type verdict struct {
	Digest     string
	Settings   string
	Issues     []tt.Issue
	VerifiedAt time.Time
}

// Cache remembers verification results across runs. A verdict is reused
// only while the file holds the same bytes and the engine runs with the
// same check settings; anything else is a miss and gets overwritten.
type Cache struct {
	dir      string
	mu       sync.Mutex
	verdicts map[string]verdict
	maxAge   time.Duration
}

// NewCache opens the cache stored in dir, creating the directory when
// needed. An unreadable cache file is discarded rather than reported.
func NewCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	c := &Cache{
		dir:      dir,
		verdicts: make(map[string]verdict),
		maxAge:   defaultCacheTTL,
	}
	if err := c.load(); err != nil {
		return nil, err
	}
	return c, nil
}

// Dir returns the directory holding the cache file.
func (c *Cache) Dir() string {
	return c.dir
}

func (c *Cache) path() string {
	return filepath.Join(c.dir, cacheFileName)
}

func (c *Cache) load() error {
	file, err := os.Open(c.path())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open cache file: %w", err)
	}
	defer file.Close()

	if err := gob.NewDecoder(file).Decode(&c.verdicts); err != nil {
		c.verdicts = make(map[string]verdict)
	}
	return nil
}

// save must be called with mu held.
func (c *Cache) save() error {
	file, err := os.Create(c.path())
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer file.Close()

	if err := gob.NewEncoder(file).Encode(c.verdicts); err != nil {
		return fmt.Errorf("failed to encode cache file: %w", err)
	}
	return nil
}

func digest(source []byte) string {
	sum := sha256.Sum256(source)
	return hex.EncodeToString(sum[:])
}

// Lookup returns the issues recorded for filename when source and
// settings match what was verified, and the verdict has not expired.
func (c *Cache) Lookup(filename string, source []byte, settings string) ([]tt.Issue, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.verdicts[filename]
	if !ok {
		return nil, false
	}
	if time.Since(v.VerifiedAt) > c.maxAge {
		delete(c.verdicts, filename)
		return nil, false
	}
	if v.Settings != settings || v.Digest != digest(source) {
		return nil, false
	}
	return v.Issues, true
}

// Store records the issues found for source under settings and writes
// the cache file.
func (c *Cache) Store(filename string, source []byte, settings string, issues []tt.Issue) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.verdicts[filename] = verdict{
		Digest:     digest(source),
		Settings:   settings,
		Issues:     issues,
		VerifiedAt: time.Now(),
	}
	return c.save()
}

// SetMaxAge sets how long a verdict stays valid.
func (c *Cache) SetMaxAge(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.maxAge = d
}

// InvalidateAll drops every verdict, on disk too.
func (c *Cache) InvalidateAll() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.verdicts = make(map[string]verdict)
	return c.save()
}
