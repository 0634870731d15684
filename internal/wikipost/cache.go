// Package wikipost scrapes postal-code assignments from the Thai Wikipedia
// postal-code index: fetch (with an on-disk cache), then extract one raw
// tuple per district/postal-code pair from the per-province tables.
package wikipost

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultRetention is how long a fetched document stays valid on disk.
const DefaultRetention = 7 * 24 * time.Hour

const cacheDateLayout = "2006-01-02"

// Cache stores fetched documents under names that embed their expiry date:
// <prefix>-<YYYY-MM-DD>.html. A file is valid while its embedded date is
// today or later. Not safe for concurrent writers across processes; the
// compiler assumes single-run usage.
type Cache struct {
	dir       string
	retention time.Duration
	now       func() time.Time
}

// NewCache creates a cache rooted at dir. A non-positive retention falls
// back to DefaultRetention.
func NewCache(dir string, retention time.Duration) *Cache {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &Cache{dir: dir, retention: retention, now: time.Now}
}

// Get returns the cached document for prefix if a non-expired file exists.
// Expired files for the prefix are deleted on the way.
func (c *Cache) Get(prefix string) ([]byte, bool, error) {
	entries, err := os.ReadDir(c.dir)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read cache dir: %w", err)
	}

	today := c.today()
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix+"-") || !strings.HasSuffix(name, ".html") {
			continue
		}

		expiry, err := time.Parse(cacheDateLayout, strings.TrimSuffix(strings.TrimPrefix(name, prefix+"-"), ".html"))
		if err != nil {
			continue
		}

		path := filepath.Join(c.dir, name)
		if expiry.Before(today) {
			if err := os.Remove(path); err != nil {
				return nil, false, fmt.Errorf("delete expired cache file: %w", err)
			}
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, false, fmt.Errorf("read cache file: %w", err)
		}
		return data, true, nil
	}

	return nil, false, nil
}

// Put stores content for prefix under an expiry of now plus the retention
// window.
func (c *Cache) Put(prefix string, content []byte) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	expiry := c.now().Add(c.retention).Format(cacheDateLayout)
	path := filepath.Join(c.dir, fmt.Sprintf("%s-%s.html", prefix, expiry))
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("write cache file: %w", err)
	}
	return nil
}

func (c *Cache) today() time.Time {
	y, m, d := c.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
