// Package filecache stores poster extraction results as JSON files on disk.
package filecache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/ewilliams-labs/lineup/internal/core/domain"
)

// Cache implements the festival cache port with one <key>.json file per entry.
type Cache struct {
	dir    string
	logger zerolog.Logger
}

// New creates the cache directory if needed.
func New(dir string, logger zerolog.Logger) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("filecache: create dir %s: %w", dir, err)
	}
	return &Cache{dir: dir, logger: logger}, nil
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, filepath.Base(key)+".json")
}

// Get returns the stored record. Missing or unreadable entries are a miss.
func (c *Cache) Get(key string) (domain.FestivalInfo, bool) {
	data, err := os.ReadFile(c.path(key))
	if err != nil {
		if !os.IsNotExist(err) {
			c.logger.Warn().Err(err).Str("cache_key", key).Msg("cache read failed")
		}
		return domain.FestivalInfo{}, false
	}

	info, err := domain.ParseFestivalInfo(data)
	if err != nil {
		c.logger.Warn().Err(err).Str("cache_key", key).Msg("ignoring corrupt cache entry")
		return domain.FestivalInfo{}, false
	}
	return info, true
}

// Put writes the record to a temp file and renames it into place so readers
// never see a partial entry.
func (c *Cache) Put(key string, info domain.FestivalInfo) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("filecache: encode %s: %w", key, err)
	}

	tmp, err := os.CreateTemp(c.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("filecache: create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("filecache: write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("filecache: close %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), c.path(key)); err != nil {
		return fmt.Errorf("filecache: rename %s: %w", key, err)
	}
	return nil
}
