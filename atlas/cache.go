package atlas

import (
	"sync/atomic"

	"github.com/gogpu/gridfx"
	"github.com/gogpu/gridfx/internal/cache"
)

// DefaultCapacity is the number of atlases kept by a Cache.
const DefaultCapacity = 8

// Cache builds atlases on demand and keeps the most recent ones.
type Cache struct {
	font   *Font
	lru    *cache.Cache[Key, *Atlas]
	builds atomic.Int64
}

// NewCache returns a cache rasterizing with f. A non-positive capacity
// uses DefaultCapacity.
func NewCache(f *Font, capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{font: f, lru: cache.New[Key, *Atlas](capacity)}
}

// Font returns the font atlases are built with.
func (c *Cache) Font() *Font { return c.font }

// OnRelease registers fn to be called for every atlas that leaves the
// cache. GPU backends use it to destroy the matching texture.
func (c *Cache) OnRelease(fn func(*Atlas)) {
	c.lru.OnEvict(func(_ Key, a *Atlas) { fn(a) })
}

// Get returns the atlas for painting f, building it on a miss.
func (c *Cache) Get(f *gridfx.Frame) (*Atlas, error) {
	key := KeyFor(f)
	return c.lru.GetOrCreate(key, func() (*Atlas, error) {
		c.builds.Add(1)
		return Build(c.font, key, f.CellWidth, f.CellHeight, f.Charset, f.Matrix)
	})
}

// Builds returns how many atlases were rasterized.
func (c *Cache) Builds() int { return int(c.builds.Load()) }

// Len returns the number of cached atlases.
func (c *Cache) Len() int { return c.lru.Len() }

// Clear drops every cached atlas.
func (c *Cache) Clear() { c.lru.Clear() }
