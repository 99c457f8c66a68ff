package lrucache

import (
	"container/list"
)

// Cache is a least-recently-used cache for values of type V, bounded by
// entry count and by the byte size of its values.
//
// After every operation, Len() <= max entries and the memory in use is
// <= max memory.
type Cache[K comparable, V any] struct {
	entries    map[K]*list.Element
	lru        *list.List // front is most recently used; elements hold *entry[K,V]
	maxEntries int
	maxMemory  uint64
	memory     uint64
	stats      Stats
}

type entry[K comparable, V any] struct {
	key   K
	value V
	size  uint64
}

// New creates an empty cache. Without options, the limits are
// DefaultMaxEntries and DefaultMaxMemory.
func New[K comparable, V any](opts ...Option) *Cache[K, V] {
	conf := config{
		maxEntries: DefaultMaxEntries,
		maxMemory:  DefaultMaxMemory,
	}
	for _, opt := range opts {
		opt(&conf)
	}
	return &Cache[K, V]{
		entries:    make(map[K]*list.Element),
		lru:        list.New(),
		maxEntries: conf.maxEntries,
		maxMemory:  conf.maxMemory,
	}
}

// Get looks up a key. On a hit, the entry becomes the most recently used one.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	elem, ok := c.entries[key]
	if !ok {
		c.stats.Misses++
		var zero V
		return zero, false
	}
	c.stats.Hits++
	c.lru.MoveToFront(elem)
	return elem.Value.(*entry[K, V]).value, true
}

// Contains reports whether a key is cached, without affecting recency or
// statistics.
func (c *Cache[K, V]) Contains(key K) bool {
	_, ok := c.entries[key]
	return ok
}

// Insert caches a value with a given byte size, evicting least recently used
// entries as necessary. An existing entry for key is replaced.
//
// If size exceeds the memory limit, the value is not cached and the cache
// remains unchanged. Insert reports whether the value has been cached.
func (c *Cache[K, V]) Insert(key K, value V, size uint64) bool {
	if size > c.maxMemory {
		tracer().Debugf("cache declines entry of %d bytes (limit %d)", size, c.maxMemory)
		return false
	}
	if elem, ok := c.entries[key]; ok {
		c.removeElement(elem)
	}
	for c.lru.Len() > 0 && (c.lru.Len()+1 > c.maxEntries || satAdd(c.memory, size) > c.maxMemory) {
		c.evictOldest()
	}
	elem := c.lru.PushFront(&entry[K, V]{key: key, value: value, size: size})
	c.entries[key] = elem
	c.memory += size
	return true
}

// Remove deletes an entry, reporting whether it has been present.
// Removals are not counted as evictions.
func (c *Cache[K, V]) Remove(key K) bool {
	elem, ok := c.entries[key]
	if ok {
		c.removeElement(elem)
	}
	return ok
}

// Clear removes all entries. Hit, miss and eviction counters are kept.
func (c *Cache[K, V]) Clear() {
	clear(c.entries)
	c.lru.Init()
	c.memory = 0
}

// Len returns the number of cached entries.
func (c *Cache[K, V]) Len() int {
	return c.lru.Len()
}

// Stats returns a snapshot of the cache counters.
func (c *Cache[K, V]) Stats() Stats {
	s := c.stats
	s.MemoryBytes = c.memory
	s.Entries = c.lru.Len()
	return s
}

// ResetStats sets the hit, miss and eviction counters to zero.
func (c *Cache[K, V]) ResetStats() {
	c.stats = Stats{}
}

// Limits returns the maximum number of entries and the memory budget in bytes.
func (c *Cache[K, V]) Limits() (int, uint64) {
	return c.maxEntries, c.maxMemory
}

func (c *Cache[K, V]) evictOldest() {
	if elem := c.lru.Back(); elem != nil {
		c.removeElement(elem)
		c.stats.Evictions++
	}
}

func (c *Cache[K, V]) removeElement(elem *list.Element) {
	e := c.lru.Remove(elem).(*entry[K, V])
	delete(c.entries, e.key)
	c.memory = satSub(c.memory, e.size)
}

func satAdd(a, b uint64) uint64 {
	if s := a + b; s >= a {
		return s
	}
	return ^uint64(0)
}

func satSub(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}
