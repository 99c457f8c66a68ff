package fontsys

import (
	"github.com/npillmayer/fontsys/ot"
	"github.com/npillmayer/fontsys/registry"
)

// Cache limits used by New.
const (
	DefaultGlyphCacheEntries   = 10000
	DefaultGlyphCacheMemory    = 100 << 20
	DefaultShapingCacheEntries = 1000
	DefaultShapingCacheMemory  = 10 << 20
)

// Rasterizer renders glyph outlines to bitmaps. FontSystem.RenderGlyph calls
// it on glyph cache misses only.
type Rasterizer interface {
	Rasterize(face *registry.FontFace, gid ot.GlyphIndex, size float32, mode RenderMode) (*GlyphBitmap, error)
}

// Shaper converts text to positioned glyphs. FontSystem.ShapeText calls it
// on shaping cache misses only.
type Shaper interface {
	Shape(face *registry.FontFace, text string, size float32, opts ShapeOptions) (*ShapedText, error)
}

// DiscoverFunc yields font sources for FontSystem.LoadSystemFonts.
type DiscoverFunc = registry.DiscoverFunc

type config struct {
	glyphEntries   int
	glyphMemory    uint64
	shapingEntries int
	shapingMemory  uint64
	rasterizer     Rasterizer
	shaper         Shaper
	discover       DiscoverFunc
	registryOpts   []registry.Option
}

// Option configures a FontSystem.
type Option func(*config)

// WithGlyphCache sets the limits of the glyph bitmap cache.
func WithGlyphCache(entries int, memory uint64) Option {
	return func(c *config) {
		c.glyphEntries, c.glyphMemory = entries, memory
	}
}

// WithShapingCache sets the limits of the shaped text cache.
func WithShapingCache(entries int, memory uint64) Option {
	return func(c *config) {
		c.shapingEntries, c.shapingMemory = entries, memory
	}
}

// WithRasterizer sets the rasterizer used by RenderGlyph.
func WithRasterizer(r Rasterizer) Option {
	return func(c *config) {
		c.rasterizer = r
	}
}

// WithShaper sets the shaper used by ShapeText.
func WithShaper(s Shaper) Option {
	return func(c *config) {
		c.shaper = s
	}
}

// WithDiscovery sets the discovery function used by LoadSystemFonts.
func WithDiscovery(discover DiscoverFunc) Option {
	return func(c *config) {
		c.discover = discover
	}
}

// WithRegistryOptions passes options to the font registry.
func WithRegistryOptions(opts ...registry.Option) Option {
	return func(c *config) {
		c.registryOpts = append(c.registryOpts, opts...)
	}
}
