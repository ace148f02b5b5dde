// Package cache stores extracted portfolio data on disk, one JSON file per source URL.
// An entry is valid while its file modification time is within the caller's window.
package cache

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jonathan/profile-agent/internal/types"
)

// FileCache is a directory of PortfolioData snapshots.
type FileCache struct {
	dir    string
	mu     sync.RWMutex
	logger *log.Logger
	now    func() time.Time
}

// NewFileCache creates the cache directory if needed.
func NewFileCache(dir string, logger *log.Logger) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &FileCache{dir: dir, logger: logger, now: time.Now}, nil
}

// Dir returns the cache directory.
func (c *FileCache) Dir() string {
	return c.dir
}

// Path returns the file that holds the entry for url.
func (c *FileCache) Path(url string) string {
	return filepath.Join(c.dir, Key(url)+".json")
}

// Get returns the cached data for url when the entry is younger than maxAge.
// A missing, expired or unreadable entry is reported as a miss, as is any
// entry when maxAge is not positive.
func (c *FileCache) Get(url string, maxAge time.Duration) (*types.PortfolioData, bool) {
	if maxAge <= 0 {
		return nil, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	path := c.Path(url)
	info, err := os.Stat(path)
	if err != nil {
		if !os.IsNotExist(err) {
			c.logger.Printf("[CACHE] stat %s: %v", path, err)
		}
		return nil, false
	}

	age := c.now().Sub(info.ModTime())
	if age >= maxAge {
		c.logger.Printf("[CACHE] entry for %s expired (age %s)", url, age.Round(time.Second))
		return nil, false
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		c.logger.Printf("[CACHE] read %s: %v", path, err)
		return nil, false
	}

	var data types.PortfolioData
	if err := json.Unmarshal(raw, &data); err != nil {
		c.logger.Printf("[CACHE] ignoring corrupt entry %s: %v", path, err)
		return nil, false
	}

	c.logger.Printf("[CACHE] hit for %s (age %s)", url, age.Round(time.Second))
	return &data, true
}

// Put writes data for url, replacing any previous entry.
func (c *FileCache) Put(url string, data *types.PortfolioData) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	path := c.Path(url)
	tmp, err := os.CreateTemp(c.dir, ".entry-*")
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace cache file: %w", err)
	}

	c.logger.Printf("[CACHE] stored %s", path)
	return nil
}

// Delete removes the entry for url. Deleting a missing entry is not an error.
func (c *FileCache) Delete(url string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.Remove(c.Path(url)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Key normalizes a URL into a file-name-safe slug: accents folded to ASCII,
// lowercased, scheme removed, runs of other characters collapsed to "_".
func Key(url string) string {
	// Chained transformers carry state, so each call gets its own.
	asciiFold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(asciiFold, url)
	if err != nil {
		folded = url
	}
	folded = strings.ToLower(strings.TrimSpace(folded))
	if i := strings.Index(folded, "://"); i >= 0 {
		folded = folded[i+3:]
	}

	var b strings.Builder
	underscore := false
	for _, r := range folded {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
			underscore = false
			continue
		}
		if !underscore && b.Len() > 0 {
			b.WriteByte('_')
			underscore = true
		}
	}

	key := strings.TrimRight(b.String(), "_")
	if key == "" {
		return "portfolio"
	}
	return key
}
