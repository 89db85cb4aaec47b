package bbox

import (
	"context"
	"sync"
	"time"

	"iso-asset-editor/internal/asset"
)

// Cache keeps successful extractions per sprite. Failures are not cached so a later
// call can pick up a texture that has finished loading.
type Cache struct {
	mu        sync.RWMutex
	items     map[string]Result
	provider  Provider
	direction asset.Direction
	schedule  []time.Duration
}

// NewCache scans facing d of each sprite, retrying on the given schedule.
func NewCache(p Provider, d asset.Direction, schedule []time.Duration) *Cache {
	return &Cache{
		items:     make(map[string]Result),
		provider:  p,
		direction: d,
		schedule:  schedule,
	}
}

// Direction is the facing the cache scans.
func (c *Cache) Direction() asset.Direction {
	return c.direction
}

// Get returns the cached result or extracts it.
func (c *Cache) Get(ctx context.Context, name string) Result {
	c.mu.RLock()
	if r, ok := c.items[name]; ok {
		c.mu.RUnlock()
		return r
	}
	c.mu.RUnlock()

	r := ExtractWithRetry(ctx, c.provider, name, c.direction, c.schedule)
	c.Put(r)
	return r
}

// Put stores a result, replacing whatever was there (last write wins).
func (c *Cache) Put(r Result) {
	if !r.OK() {
		return
	}
	c.mu.Lock()
	c.items[r.Sprite] = r
	c.mu.Unlock()
}

// Invalidate forgets a sprite, e.g. after its source image was replaced.
func (c *Cache) Invalidate(name string) {
	c.mu.Lock()
	delete(c.items, name)
	c.mu.Unlock()
}
