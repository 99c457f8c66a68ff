package lrucache

// Default limits for caches created without options.
const (
	DefaultMaxEntries = 1000
	DefaultMaxMemory  = 10 << 20
)

// Option configures a Cache.
type Option func(*config)

type config struct {
	maxEntries int
	maxMemory  uint64
}

// WithMaxEntries limits the number of cached entries. Values < 1 are
// treated as 1.
func WithMaxEntries(n int) Option {
	return func(c *config) {
		c.maxEntries = max(n, 1)
	}
}

// WithMaxMemory limits the sum of the byte sizes of cached values.
func WithMaxMemory(bytes uint64) Option {
	return func(c *config) {
		c.maxMemory = bytes
	}
}
