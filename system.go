package fontsys

import (
	"errors"
	"fmt"
	"math"

	"github.com/npillmayer/fontsys/lrucache"
	"github.com/npillmayer/fontsys/ot"
	"github.com/npillmayer/fontsys/otquery"
	"github.com/npillmayer/fontsys/registry"
)

// Errors of the render and shape operations.
var (
	ErrFontNotFound   = errors.New("font not found")
	ErrInvalidGlyph   = errors.New("glyph index out of range")
	ErrInvalidSize    = errors.New("font size must be positive")
	ErrInvalidMode    = errors.New("unknown render mode")
	ErrNoRasterizer   = errors.New("no rasterizer configured")
	ErrNoShaper       = errors.New("no shaper configured")
	ErrNoDiscovery    = errors.New("no font discovery configured")
	ErrNoMatchingFont = errors.New("no font matches descriptor")
)

// FontSystem combines a font registry with a rasterizer, a shaper and caches
// for their results.
type FontSystem struct {
	registry   *registry.Registry
	glyphs     *lrucache.Cache[GlyphKey, *GlyphBitmap]
	shaped     *lrucache.Cache[ShapingKey, *ShapedText]
	rasterizer Rasterizer
	shaper     Shaper
	discover   DiscoverFunc
}

// New creates a font system without any fonts loaded.
func New(opts ...Option) *FontSystem {
	conf := config{
		glyphEntries:   DefaultGlyphCacheEntries,
		glyphMemory:    DefaultGlyphCacheMemory,
		shapingEntries: DefaultShapingCacheEntries,
		shapingMemory:  DefaultShapingCacheMemory,
	}
	for _, opt := range opts {
		opt(&conf)
	}
	return &FontSystem{
		registry: registry.New(conf.registryOpts...),
		glyphs: lrucache.New[GlyphKey, *GlyphBitmap](
			lrucache.WithMaxEntries(conf.glyphEntries),
			lrucache.WithMaxMemory(conf.glyphMemory)),
		shaped: lrucache.New[ShapingKey, *ShapedText](
			lrucache.WithMaxEntries(conf.shapingEntries),
			lrucache.WithMaxMemory(conf.shapingMemory)),
		rasterizer: conf.rasterizer,
		shaper:     conf.shaper,
		discover:   conf.discover,
	}
}

// Registry returns the font registry of the system.
func (fsys *FontSystem) Registry() *registry.Registry {
	return fsys.registry
}

// LoadFontFile loads a font file. The file is read twice, once to describe the
// face and again on first use. See registry.Registry.LoadFontFile.
func (fsys *FontSystem) LoadFontFile(path string) (registry.FontID, error) {
	return fsys.registry.LoadFontFile(path)
}

// LoadFontData loads a font from memory. See registry.Registry.LoadFontData.
func (fsys *FontSystem) LoadFontData(data []byte) (registry.FontID, error) {
	return fsys.registry.LoadFontData(data)
}

// LoadSystemFonts loads all fonts yielded by the discovery function, skipping
// fonts which fail to load. It returns the number of loaded faces and the
// errors of skipped fonts.
func (fsys *FontSystem) LoadSystemFonts() (int, []error) {
	if fsys.discover == nil {
		return 0, []error{ErrNoDiscovery}
	}
	return fsys.registry.LoadFonts(fsys.discover)
}

// MatchFont selects the loaded face best matching a descriptor.
func (fsys *FontSystem) MatchFont(desc registry.FontDescriptor) (registry.FontID, bool) {
	return fsys.registry.MatchFont(desc)
}

// FontFace returns the face for an ID.
func (fsys *FontSystem) FontFace(id registry.FontID) (*registry.FontFace, bool) {
	return fsys.registry.FontFace(id)
}

// FontMetrics returns the metrics of a face scaled to a font size.
func (fsys *FontSystem) FontMetrics(id registry.FontID, size float32) (otquery.ScaledMetrics, bool) {
	return fsys.registry.FontMetrics(id, size)
}

// FontCount returns the number of loaded faces.
func (fsys *FontSystem) FontCount() int {
	return fsys.registry.FontCount()
}

// RenderGlyph returns the bitmap of a glyph, from the glyph cache if possible.
// The returned bitmap is shared with the cache and must not be modified.
func (fsys *FontSystem) RenderGlyph(id registry.FontID, gid ot.GlyphIndex, size float32,
	mode RenderMode) (*GlyphBitmap, error) {
	//
	face, ok := fsys.registry.FontFace(id)
	if !ok {
		return nil, fmt.Errorf("font #%d: %w", id, ErrFontNotFound)
	}
	if !face.HasGlyph(gid) {
		return nil, fmt.Errorf("glyph %d of %s: %w", gid, face, ErrInvalidGlyph)
	}
	if !(size > 0) {
		return nil, ErrInvalidSize
	}
	if mode > SubpixelVBGR {
		return nil, fmt.Errorf("mode %d: %w", mode, ErrInvalidMode)
	}
	key := GlyphKey{Font: id, Glyph: gid, SizeBits: math.Float32bits(size), Mode: mode}
	if bm, ok := fsys.glyphs.Get(key); ok {
		return bm, nil
	}
	if fsys.rasterizer == nil {
		return nil, ErrNoRasterizer
	}
	bm, err := fsys.rasterizer.Rasterize(face, gid, size, mode)
	if err != nil {
		tracer().Errorf("cannot render glyph %d of %s: %v", gid, face, err)
		return nil, err
	}
	if !fsys.glyphs.Insert(key, bm, bm.ByteSize()) {
		tracer().Debugf("glyph %d of %s too large for cache", gid, face)
	}
	return bm, nil
}

// ShapeText shapes a text with a face, returning cached results if possible.
// The returned value is shared with the cache and must not be modified.
func (fsys *FontSystem) ShapeText(id registry.FontID, text string, size float32,
	opts ShapeOptions) (*ShapedText, error) {
	//
	face, ok := fsys.registry.FontFace(id)
	if !ok {
		return nil, fmt.Errorf("font #%d: %w", id, ErrFontNotFound)
	}
	if !(size > 0) {
		return nil, ErrInvalidSize
	}
	key := ShapingKey{
		TextHash:    hashText(text),
		Font:        id,
		SizeBits:    math.Float32bits(size),
		OptionsHash: opts.Hash(),
	}
	if st, ok := fsys.shaped.Get(key); ok {
		return st, nil
	}
	if fsys.shaper == nil {
		return nil, ErrNoShaper
	}
	st, err := fsys.shaper.Shape(face, text, size, opts)
	if err != nil {
		tracer().Errorf("cannot shape text with %s: %v", face, err)
		return nil, err
	}
	fsys.shaped.Insert(key, st, st.ByteSize())
	return st, nil
}

// ShapeTextWithDescriptor matches a descriptor and shapes a text with the
// selected face, using the descriptor's size.
func (fsys *FontSystem) ShapeTextWithDescriptor(desc registry.FontDescriptor, text string,
	opts ShapeOptions) (*ShapedText, error) {
	//
	id, ok := fsys.registry.MatchFont(desc)
	if !ok {
		return nil, fmt.Errorf("%s: %w", desc, ErrNoMatchingFont)
	}
	return fsys.ShapeText(id, text, desc.Size, opts)
}

// ClearCaches empties the glyph cache and the shaping cache. Statistics are kept.
func (fsys *FontSystem) ClearCaches() {
	fsys.glyphs.Clear()
	fsys.shaped.Clear()
}

// CacheStats returns the statistics of the glyph cache and the shaping cache.
func (fsys *FontSystem) CacheStats() (glyphs, shaping lrucache.Stats) {
	return fsys.glyphs.Stats(), fsys.shaped.Stats()
}
