package currency

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const cacheVersion = "1.0"

// Cache wraps the on-disk rate-cache file at Path. Readers see a whole file
// or nothing; writers replace it atomically via temp-file-then-rename so a
// crash mid-write never leaves a partial file for a reader to observe.
type Cache struct {
	Path string
}

func NewCache(path string) *Cache {
	return &Cache{Path: path}
}

// Load reads the cache file and reports whether it is still valid: present,
// parseable, and its date field equals today's local date.
func (c *Cache) Load(today time.Time) (valid bool, table *RateTable, err error) {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil, nil
		}
		return false, nil, err
	}

	var t RateTable
	if err := json.Unmarshal(data, &t); err != nil {
		return false, nil, nil
	}

	if t.Date != today.Format("2006-01-02") {
		return false, &t, nil
	}
	return true, &t, nil
}

// Store writes table to the cache file atomically.
func (c *Cache) Store(table *RateTable) error {
	data, err := json.MarshalIndent(table, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal rate table: %w", err)
	}

	dir := filepath.Dir(c.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "exchange_rates.*.tmp")
	if err != nil {
		return fmt.Errorf("create temp cache file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp cache file: %w", err)
	}

	if err := os.Rename(tmpName, c.Path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename temp cache file: %w", err)
	}
	return nil
}
