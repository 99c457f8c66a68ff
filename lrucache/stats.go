package lrucache

import "fmt"

// Stats is a snapshot of the counters of a cache.
//
// Hits, Misses and Evictions are cumulative: Clear does not reset them,
// ResetStats does.
type Stats struct {
	Hits        uint64
	Misses      uint64
	Evictions   uint64
	MemoryBytes uint64 // sum of the byte sizes of cached values
	Entries     int
}

// HitRate returns hits / (hits + misses), or 0 if the cache has never been queried.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

func (s Stats) String() string {
	return fmt.Sprintf("%d entries, %d bytes, %d hits, %d misses (%.1f%%), %d evictions",
		s.Entries, s.MemoryBytes, s.Hits, s.Misses, 100*s.HitRate(), s.Evictions)
}
