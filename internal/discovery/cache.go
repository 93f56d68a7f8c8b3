// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"fmt"
	"io/fs"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of files kept by NewContentCache when the
// configured size is not positive.
const DefaultCacheSize = 4096

type (
	// ContentCache keeps recently read source contents keyed by path. An entry
	// is reused only while the file's size and modification time are unchanged.
	ContentCache struct {
		entries *lru.Cache[string, cachedContent]
	}

	cachedContent struct {
		size     int64
		modTime  time.Time
		contents string
	}
)

// NewContentCache creates a cache holding at most size files.
func NewContentCache(size int) (*ContentCache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	entries, err := lru.New[string, cachedContent](size)
	if err != nil {
		return nil, fmt.Errorf("create content cache: %w", err)
	}
	return &ContentCache{entries: entries}, nil
}

// Get returns cached contents for path if info still describes the cached copy.
func (c *ContentCache) Get(path string, info fs.FileInfo) (string, bool) {
	entry, ok := c.entries.Get(path)
	if !ok {
		return "", false
	}
	if entry.size != info.Size() || !entry.modTime.Equal(info.ModTime()) {
		c.entries.Remove(path)
		return "", false
	}
	return entry.contents, true
}

// Put records contents for path as of info.
func (c *ContentCache) Put(path string, info fs.FileInfo, contents string) {
	c.entries.Add(path, cachedContent{size: info.Size(), modTime: info.ModTime(), contents: contents})
}

// Len returns the number of cached files.
func (c *ContentCache) Len() int { return c.entries.Len() }
