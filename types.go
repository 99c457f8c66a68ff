package fontsys

import (
	"encoding/binary"
	"hash/fnv"
	"math"
	"slices"

	"github.com/npillmayer/fontsys/ot"
	"github.com/npillmayer/fontsys/registry"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/bidi"
)

// RenderMode selects the pixel format of rendered glyphs.
type RenderMode uint8

const (
	Mono         RenderMode = iota // 1 bit per pixel, rows padded to bytes
	Gray                           // 8 bit coverage per pixel
	SubpixelRGB                    // 3 bytes per pixel, horizontal R-G-B stripes
	SubpixelBGR                    // 3 bytes per pixel, horizontal B-G-R stripes
	SubpixelVRGB                   // 3 bytes per pixel, vertical R-G-B stripes
	SubpixelVBGR                   // 3 bytes per pixel, vertical B-G-R stripes
)

func (m RenderMode) String() string {
	switch m {
	case Mono:
		return "mono"
	case Gray:
		return "gray"
	case SubpixelRGB:
		return "rgb"
	case SubpixelBGR:
		return "bgr"
	case SubpixelVRGB:
		return "vrgb"
	case SubpixelVBGR:
		return "vbgr"
	}
	return "unknown"
}

// ParseRenderMode converts the name of a render mode, as returned by
// RenderMode.String, to a RenderMode.
func ParseRenderMode(name string) (RenderMode, bool) {
	for m := Mono; m <= SubpixelVBGR; m++ {
		if m.String() == name {
			return m, true
		}
	}
	return Gray, false
}

// IsSubpixel reports whether m renders separate coverage values for the
// color channels of a pixel.
func (m RenderMode) IsSubpixel() bool {
	return m >= SubpixelRGB && m <= SubpixelVBGR
}

// GlyphBitmap is a rendered glyph.
type GlyphBitmap struct {
	Width, Height int        // in pixels
	Left, Top     int        // offset of the bitmap's top left corner from the glyph origin, y up
	Pitch         int        // bytes per row
	Data          []byte     // Height rows of Pitch bytes
	Mode          RenderMode // pixel format of Data
	Advance       float32    // horizontal advance in pixels
}

const bitmapOverhead = 64

// ByteSize returns the memory used by a bitmap, for cache accounting.
func (bm *GlyphBitmap) ByteSize() uint64 {
	if bm == nil {
		return 0
	}
	return uint64(cap(bm.Data)) + bitmapOverhead
}

// ShapedGlyph is a positioned glyph of shaped text. Positions are in pixels.
type ShapedGlyph struct {
	GID      ot.GlyphIndex
	Cluster  int // byte offset of the glyph's cluster in the text
	XAdvance float32
	YAdvance float32
	XOffset  float32
	YOffset  float32
}

// ShapedText is the result of shaping a text with a font face.
type ShapedText struct {
	Font    registry.FontID
	Size    float32
	Glyphs  []ShapedGlyph
	Advance float32 // sum of the advances of all glyphs
}

const (
	shapedTextOverhead = 64
	shapedGlyphSize    = 24
)

// ByteSize returns the memory used by shaped text, for cache accounting.
func (st *ShapedText) ByteSize() uint64 {
	if st == nil {
		return 0
	}
	return uint64(cap(st.Glyphs))*shapedGlyphSize + shapedTextOverhead
}

// ShapeOptions configures text shaping.
type ShapeOptions struct {
	Script        language.Script // zero value: detect from text
	Language      language.Tag
	Direction     bidi.Direction
	Features      map[string]uint32 // OpenType feature tag → value
	Kerning       bool
	Ligatures     bool
	LetterSpacing float32 // additional space after each glyph, in pixels
	WordSpacing   float32 // additional space after each space character, in pixels
}

// DefaultShapeOptions returns options for left-to-right text with kerning
// and ligatures enabled.
func DefaultShapeOptions() ShapeOptions {
	return ShapeOptions{
		Language:  language.English,
		Direction: bidi.LeftToRight,
		Kerning:   true,
		Ligatures: true,
	}
}

// Hash returns a FNV-1a hash of the options. Equal options have equal hashes,
// independent of the iteration order of Features.
func (opts ShapeOptions) Hash() uint64 {
	h := fnv.New64a()
	h.Write([]byte(opts.Script.String()))
	h.Write([]byte{0})
	h.Write([]byte(opts.Language.String()))
	h.Write([]byte{0, byte(opts.Direction), boolByte(opts.Kerning), boolByte(opts.Ligatures)})
	var buf [4]byte
	for _, f := range []float32{opts.LetterSpacing, opts.WordSpacing} {
		binary.BigEndian.PutUint32(buf[:], math.Float32bits(f))
		h.Write(buf[:])
	}
	tags := make([]string, 0, len(opts.Features))
	for tag := range opts.Features {
		tags = append(tags, tag)
	}
	slices.Sort(tags)
	for _, tag := range tags {
		h.Write([]byte(tag))
		binary.BigEndian.PutUint32(buf[:], opts.Features[tag])
		h.Write(buf[:])
	}
	return h.Sum64()
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// GlyphKey identifies a rendered glyph in the glyph cache.
type GlyphKey struct {
	Font     registry.FontID
	Glyph    ot.GlyphIndex
	SizeBits uint32 // math.Float32bits(size)
	Mode     RenderMode
}

// ShapingKey identifies shaped text in the shaping cache.
type ShapingKey struct {
	TextHash    uint64 // FNV-1a of the text
	Font        registry.FontID
	SizeBits    uint32 // math.Float32bits(size)
	OptionsHash uint64
}

func hashText(text string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(text))
	return h.Sum64()
}
