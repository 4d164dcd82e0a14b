// Package cache implements the bounded, concurrent chunk cache
// described in spec §4.G: an LRU-with-TTL map keyed by chunk
// coordinate, with borrow-count pinning so an in-flight mesh job never
// has its chunk evicted out from under it.
package cache

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"

	"lillyengine.dev/voxelcore/chunk"
)

// DefaultTTL is the per-entry time-to-live spec §4.G names.
const DefaultTTL = 5 * time.Minute

// pinned is a chunk currently borrowed by at least one in-flight job.
// While pinned it lives only in this map, never in the underlying LRU,
// so it is structurally immune to eviction.
type pinned struct {
	chunk *chunk.Chunk
	count int
}

// Cache is safe for concurrent get/try_get/set/borrow/release.
type Cache struct {
	mu     sync.Mutex
	lru    *lru.LRU[chunk.Coordinate, *chunk.Chunk]
	pins   map[chunk.Coordinate]*pinned
	maxLen int
}

// New builds a Cache bounded at maxCachedChunks entries with the given
// TTL. A maxCachedChunks of 0 or less falls back to 1 (an always-bounded
// cache is cheaper to reason about than an unbounded one).
func New(maxCachedChunks int, ttl time.Duration) *Cache {
	if maxCachedChunks <= 0 {
		maxCachedChunks = 1
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		lru:    lru.NewLRU[chunk.Coordinate, *chunk.Chunk](maxCachedChunks, nil, ttl),
		pins:   make(map[chunk.Coordinate]*pinned),
		maxLen: maxCachedChunks,
	}
}

// Get returns the chunk for coord, touching its LRU recency (spec
// §4.G: "get touches the LRU key").
func (c *Cache) Get(coord chunk.Coordinate) (*chunk.Chunk, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.pins[coord]; ok {
		return p.chunk, true
	}
	return c.lru.Get(coord)
}

// TryGet returns the chunk for coord without affecting LRU recency
// (spec §4.G: "try_get does not touch the key").
func (c *Cache) TryGet(coord chunk.Coordinate) (*chunk.Chunk, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.pins[coord]; ok {
		return p.chunk, true
	}
	return c.lru.Peek(coord)
}

// Set inserts ch under coord, evicting the least-recently-used entry
// if the cache is at capacity (spec §4.G). Setting a pinned coordinate
// updates the pinned chunk reference in place rather than touching the
// LRU, since a pinned entry is not eligible for eviction regardless.
func (c *Cache) Set(coord chunk.Coordinate, ch *chunk.Chunk) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.pins[coord]; ok {
		p.chunk = ch
		return
	}
	c.lru.Add(coord, ch)
}

// Borrow pins coord so it cannot be evicted while a job holds it,
// incrementing a borrow count so nested/concurrent borrows compose.
// The chunk must already be present (via Set) before it can be
// borrowed; ok is false if it is not.
func (c *Cache) Borrow(coord chunk.Coordinate) (*chunk.Chunk, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if p, ok := c.pins[coord]; ok {
		p.count++
		return p.chunk, true
	}

	ch, ok := c.lru.Peek(coord)
	if !ok {
		return nil, false
	}
	c.lru.Remove(coord)
	c.pins[coord] = &pinned{chunk: ch, count: 1}
	return ch, true
}

// Release undoes one Borrow. Once the borrow count reaches zero the
// chunk returns to the LRU, eligible for eviction again.
func (c *Cache) Release(coord chunk.Coordinate) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.pins[coord]
	if !ok {
		return
	}
	p.count--
	if p.count > 0 {
		return
	}
	delete(c.pins, coord)
	c.lru.Add(coord, p.chunk)
}

// Len reports the number of entries currently resident, pinned or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len() + len(c.pins)
}
