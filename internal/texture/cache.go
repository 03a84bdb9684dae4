package texture

import (
	"image"
	"sync"

	"inkpaint/internal/logging"
)

// Resolver resolves a texture name to a decoded image.
type Resolver interface {
	Resolve(name string) *image.NRGBA
}

// Cache is a concurrency-safe texture cache. Batch workers share one Cache;
// the images it returns must be treated as read-only.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*image.NRGBA // path → image, nil if decoding failed
	index *Index
}

// NewCache creates a cache backed by index.
func NewCache(index *Index) *Cache {
	return &Cache{
		items: make(map[string]*image.NRGBA),
		index: index,
	}
}

// Resolve loads and caches a texture by name. Returns nil if the name is not
// indexed or the file cannot be decoded; a failed decode is not retried.
func (c *Cache) Resolve(name string) *image.NRGBA {
	path, ok := c.index.ResolvePath(name)
	if !ok {
		return nil
	}

	c.mu.RLock()
	img, exists := c.items[path]
	c.mu.RUnlock()
	if exists {
		return img
	}

	img, err := Load(path)
	if err != nil {
		logging.Logger().Warn("texture: load failed", "name", name, "err", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, exists := c.items[path]; exists {
		return cached
	}
	c.items[path] = img
	return img
}

// Len returns the number of cached paths, including failed ones.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
