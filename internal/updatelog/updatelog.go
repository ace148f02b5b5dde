// Package updatelog keeps one JSON array of ChangeRecords per platform and serves
// the most recent entries back.
package updatelog

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/profile-agent/internal/types"
)

// DefaultLimit is the number of records returned when the caller gives no limit.
const DefaultLimit = 10

const fileSuffix = "_updates.json"

// Logger appends change records to per-platform files under a directory.
type Logger struct {
	dir    string
	mu     sync.Mutex
	logger *log.Logger
	now    func() time.Time
}

// New creates the log directory if needed.
func New(dir string, logger *log.Logger) (*Logger, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Logger{dir: dir, logger: logger, now: time.Now}, nil
}

// Dir returns the log directory.
func (l *Logger) Dir() string {
	return l.dir
}

// Path returns the file holding the records of platform.
func (l *Logger) Path(platform types.Platform) string {
	return filepath.Join(l.dir, string(platform)+fileSuffix)
}

// LogProfileUpdate appends record to the platform's file. The platform and
// profile URL are always set from the arguments; the id and timestamp are
// filled only when absent. A missing or corrupt file starts a new array.
func (l *Logger) LogProfileUpdate(platform types.Platform, profileURL string, record *types.ChangeRecord) error {
	if record == nil {
		return fmt.Errorf("change record is required")
	}
	if platform == "" {
		return fmt.Errorf("platform is required")
	}

	entry := *record
	entry.Platform = platform
	entry.ProfileURL = profileURL
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp == "" {
		entry.Timestamp = types.Timestamp(l.now())
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	path := l.Path(platform)
	records := l.load(path)
	records = append(records, entry)

	raw, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode update log: %w", err)
	}
	if err := writeFile(l.dir, path, raw); err != nil {
		return err
	}

	record.ID = entry.ID
	record.Timestamp = entry.Timestamp
	record.Platform = entry.Platform
	record.ProfileURL = entry.ProfileURL

	l.logger.Printf("[UPDATELOG] recorded %s update %s (%d entries)", platform, entry.ID, len(records))
	return nil
}

// GetRecentLogs returns at most limit records, newest first. An empty platform
// merges the files of every platform.
func (l *Logger) GetRecentLogs(platform types.Platform, limit int) ([]types.ChangeRecord, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	var paths []string
	if platform == "" {
		matches, err := filepath.Glob(filepath.Join(l.dir, "*"+fileSuffix))
		if err != nil {
			return nil, fmt.Errorf("failed to list update logs: %w", err)
		}
		sort.Strings(matches)
		paths = matches
	} else {
		paths = []string{l.Path(platform)}
	}

	l.mu.Lock()
	records := []types.ChangeRecord{}
	for _, p := range paths {
		records = append(records, l.load(p)...)
	}
	l.mu.Unlock()

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp > records[j].Timestamp
	})
	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// Platforms lists the platforms that have a log file.
func (l *Logger) Platforms() []types.Platform {
	matches, _ := filepath.Glob(filepath.Join(l.dir, "*"+fileSuffix))
	sort.Strings(matches)
	platforms := make([]types.Platform, 0, len(matches))
	for _, m := range matches {
		platforms = append(platforms, types.Platform(strings.TrimSuffix(filepath.Base(m), fileSuffix)))
	}
	return platforms
}

// load reads a platform file; read and decode failures yield an empty slice.
func (l *Logger) load(path string) []types.ChangeRecord {
	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			l.logger.Printf("[UPDATELOG] read %s: %v", path, err)
		}
		return nil
	}
	var records []types.ChangeRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		l.logger.Printf("[UPDATELOG] ignoring corrupt log %s: %v", path, err)
		return nil
	}
	return records
}

func writeFile(dir, path string, raw []byte) error {
	tmp, err := os.CreateTemp(dir, ".updates-*")
	if err != nil {
		return fmt.Errorf("failed to create update log: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write update log: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write update log: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace update log: %w", err)
	}
	return nil
}
