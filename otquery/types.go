package otquery

import "golang.org/x/image/font/sfnt"

// FontMetrics contains the metrics of a font face in font design units.
type FontMetrics struct {
	UnitsPerEm         sfnt.Units  // design units per em, 16…16384
	Ascent, Descent    sfnt.Units  // ascender and descender; descent is negative
	LineGap            sfnt.Units  // typographic line gap
	CapHeight          sfnt.Units  // height of capital letters
	XHeight            sfnt.Units  // height of lowercase 'x'
	UnderlinePosition  sfnt.Units  // top of the underline, negative below baseline
	UnderlineThickness sfnt.Units  // thickness of the underline
	MaxAdvance         sfnt.Units  // maximum advance width value in 'hmtx' table
	BBox               BoundingBox // union of all glyph bounding boxes
}

// ScaledMetrics contains the metrics of a font face, scaled to a font size.
// All values are in the unit of the size, usually pixels.
type ScaledMetrics struct {
	Size               float32
	Ascent, Descent    float32
	LineGap            float32
	CapHeight          float32
	XHeight            float32
	UnderlinePosition  float32
	UnderlineThickness float32
}

// LineHeight returns the distance between two consecutive baselines.
func (m ScaledMetrics) LineHeight() float32 {
	return m.Ascent - m.Descent + m.LineGap
}

// GlyphMetricsInfo contains metric information for a glyph.
type GlyphMetricsInfo struct {
	Advance  sfnt.Units  // advance width
	LSB, RSB sfnt.Units  // side bearings
	BBox     BoundingBox // bounding box
}

// BoundingBox describes the bounding box of a glyph.
type BoundingBox struct {
	MinX, MinY sfnt.Units
	MaxX, MaxY sfnt.Units
}

// IsEmpty reports whether this box has zero area.
func (bbox BoundingBox) IsEmpty() bool {
	return bbox.MaxX-bbox.MinX == 0 || bbox.MaxY-bbox.MinY == 0
}

// Dx returns the horizontal extent of this box.
func (bbox BoundingBox) Dx() sfnt.Units {
	return bbox.MaxX - bbox.MinX
}

// Dy returns the vertical extent of this box.
func (bbox BoundingBox) Dy() sfnt.Units {
	return bbox.MaxY - bbox.MinY
}
