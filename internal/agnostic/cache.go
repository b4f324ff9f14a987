package agnostic

import (
	"sync"

	"github.com/photonlab/refrakt/internal/field"
)

// DefaultCacheCapacity bounds an operator's instance cache unless overridden.
// Optical elements are typically driven by a small, stable set of contexts
// per simulation run, so the default is deliberately small.
const DefaultCacheCapacity = 11

// CacheKey identifies one resolution context after projection through an
// operator's signature. Grids compare by pointer identity.
type CacheKey struct {
	input      *field.Grid
	output     *field.Grid
	wavelength float64
}

// InstanceCache is a bounded, insertion-ordered store of per-context
// instance data. Eviction is FIFO by insertion, not access recency. A
// single exclusive lock guards the whole lookup/construct/insert/evict
// region, so a factory runs at most once per resident key and Clear
// serializes against in-flight construction.
type InstanceCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[CacheKey]any
	order    []CacheKey
}

// NewInstanceCache builds a cache holding at most capacity entries. A
// capacity of 0 degenerates to always-recompute; negative capacities are
// treated as 0.
func NewInstanceCache(capacity int) *InstanceCache {
	if capacity < 0 {
		capacity = 0
	}
	return &InstanceCache{
		capacity: capacity,
		entries:  make(map[CacheKey]any),
	}
}

// GetOrCreate returns the entry for key, constructing it via factory on a
// miss. A factory error is wrapped in ConstructionError and nothing is
// committed. On overflow the oldest-inserted entry is evicted.
func (c *InstanceCache) GetOrCreate(key CacheKey, factory func() (any, error)) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.entries[key]; ok {
		cacheHits.Inc()
		return v, nil
	}
	cacheMisses.Inc()

	v, err := factory()
	if err != nil {
		return nil, &ConstructionError{Err: err}
	}
	if c.capacity == 0 {
		return v, nil
	}
	c.entries[key] = v
	c.order = append(c.order, key)
	for len(c.order) > c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
		cacheEvictions.Inc()
	}
	return v, nil
}

// Clear empties the cache unconditionally.
func (c *InstanceCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[CacheKey]any)
	c.order = nil
}

// Invalidate removes the entry for key if present, otherwise does nothing.
func (c *InstanceCache) Invalidate(key CacheKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; !ok {
		return
	}
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Contains reports whether key is resident.
func (c *InstanceCache) Contains(key CacheKey) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

// Len returns the number of resident entries.
func (c *InstanceCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
