package lrucache

import (
	"math/rand"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapacityEviction(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsys.cache")
	defer teardown()
	//
	c := New[string, int](WithMaxEntries(2))
	c.Insert("A", 1, 10)
	c.Insert("B", 2, 10)
	v, ok := c.Get("A")
	require.True(t, ok)
	assert.Equal(t, 1, v)
	c.Insert("C", 3, 10)
	assert.True(t, c.Contains("A"))
	assert.False(t, c.Contains("B"), "B is least recently used")
	assert.True(t, c.Contains("C"))
	assert.Equal(t, 2, c.Len())
	stats := c.Stats()
	assert.Equal(t, uint64(1), stats.Evictions)
	assert.Equal(t, uint64(20), stats.MemoryBytes)
	assert.Equal(t, 2, stats.Entries)
}

func TestMemoryCeiling(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsys.cache")
	defer teardown()
	//
	const limit = 1000
	c := New[int, []byte](WithMaxEntries(50), WithMaxMemory(limit))
	rnd := rand.New(rand.NewSource(7))
	for i := range 2000 {
		size := uint64(rnd.Intn(400))
		key := rnd.Intn(100)
		if i%5 == 0 {
			c.Get(key)
		}
		c.Insert(key, make([]byte, size), size)
		stats := c.Stats()
		require.LessOrEqual(t, stats.MemoryBytes, uint64(limit), "after insert #%d", i)
		require.LessOrEqual(t, stats.Entries, 50, "after insert #%d", i)
	}
	assert.True(t, c.Stats().Evictions > 0)
}

func TestMemoryEviction(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsys.cache")
	defer teardown()
	//
	c := New[string, string](WithMaxEntries(10), WithMaxMemory(100))
	c.Insert("a", "a", 40)
	c.Insert("b", "b", 40)
	c.Insert("c", "c", 40) // evicts a
	assert.False(t, c.Contains("a"))
	assert.Equal(t, uint64(80), c.Stats().MemoryBytes)
	c.Insert("d", "d", 100) // evicts b and c
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, uint64(3), c.Stats().Evictions)
}

func TestOversizedEntryIsRejected(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsys.cache")
	defer teardown()
	//
	c := New[string, string](WithMaxEntries(10), WithMaxMemory(100))
	c.Insert("a", "a", 60)
	c.Insert("b", "b", 30)
	before := c.Stats()
	assert.False(t, c.Insert("huge", "huge", 101))
	assert.False(t, c.Insert("a", "replaced", 500))
	assert.Equal(t, before, c.Stats())
	assert.False(t, c.Contains("huge"))
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "a", v, "existing entry is kept")
}

func TestReplaceExistingKey(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsys.cache")
	defer teardown()
	//
	c := New[string, int](WithMaxEntries(2), WithMaxMemory(100))
	c.Insert("a", 1, 60)
	c.Insert("b", 2, 30)
	c.Insert("a", 3, 70) // old size of a is released first
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, uint64(100), c.Stats().MemoryBytes)
	assert.Zero(t, c.Stats().Evictions)
	v, _ := c.Get("a")
	assert.Equal(t, 3, v)
}

func TestClearKeepsCounters(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsys.cache")
	defer teardown()
	//
	c := New[int, int]()
	c.Insert(1, 1, 8)
	c.Get(1)
	c.Get(2)
	c.Clear()
	stats := c.Stats()
	assert.Zero(t, stats.Entries)
	assert.Zero(t, stats.MemoryBytes)
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	_, ok := c.Get(1)
	assert.False(t, ok)
	c.ResetStats()
	assert.Equal(t, Stats{}, c.Stats())
}

func TestRemoveAndContains(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsys.cache")
	defer teardown()
	//
	c := New[int, int]()
	c.Insert(1, 1, 8)
	assert.True(t, c.Contains(1))
	assert.Equal(t, Stats{Entries: 1, MemoryBytes: 8}, c.Stats(), "Contains has no statistics effect")
	assert.True(t, c.Remove(1))
	assert.False(t, c.Remove(1))
	assert.Zero(t, c.Stats().Evictions)
	assert.Zero(t, c.Stats().MemoryBytes)
}

func TestHitRate(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsys.cache")
	defer teardown()
	//
	assert.Equal(t, 0.0, Stats{}.HitRate())
	c := New[int, int]()
	c.Insert(1, 1, 1)
	c.Get(1)
	c.Get(1)
	c.Get(1)
	c.Get(2)
	assert.InDelta(t, 0.75, c.Stats().HitRate(), 1e-9)
	entries, memory := New[int, int]().Limits()
	assert.Equal(t, DefaultMaxEntries, entries)
	assert.Equal(t, uint64(DefaultMaxMemory), memory)
}
