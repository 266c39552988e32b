package meta

import (
	"path/filepath"
	"sync"
)

// Cache memoizes Read results per file. It is scoped to one session and
// keyed by cleaned path; callers invalidate entries when the cursor moves
// or a file changes on disk, so a stale read never outlives the file state
// it described.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*Data
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*Data)}
}

// Get returns the metadata for path, reading it on first use.
func (c *Cache) Get(path string) (*Data, error) {
	key := filepath.Clean(path)

	c.mu.Lock()
	if d, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return d, nil
	}
	c.mu.Unlock()

	// read outside the lock; concurrent readers of the same file race
	// harmlessly and the last one wins
	d, err := Read(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = d
	c.mu.Unlock()
	return d, nil
}

// Invalidate drops the cached entry for path.
func (c *Cache) Invalidate(path string) {
	c.mu.Lock()
	delete(c.entries, filepath.Clean(path))
	c.mu.Unlock()
}

// Clear drops every cached entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*Data)
	c.mu.Unlock()
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
