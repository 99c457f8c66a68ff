package otquery

import (
	"math"

	"github.com/npillmayer/fontsys/ot"
	"golang.org/x/image/font/sfnt"
)

// Limits for head.unitsPerEm
const (
	MinUnitsPerEm = 16
	MaxUnitsPerEm = 16384
)

// Metric values used if a font does not define them, given for 1000 units per em.
const (
	fallbackCapHeight          = 700
	fallbackXHeight            = 500
	fallbackUnderlinePosition  = -150
	fallbackUnderlineThickness = 50
)

// Metrics retrieves the font-wide metrics of a font.
//
// Ascent, descent and line gap are taken from table 'hhea', unless OS/2 requests
// the use of typographic metrics (USE_TYPO_METRICS). Cap height and x-height are
// read from OS/2 version 2 or later, underline metrics from table 'post'.
// Missing values are replaced by fallbacks.
func Metrics(otf *ot.Font) (FontMetrics, error) {
	metrics := FontMetrics{}
	head, ok := HeadInfo(otf)
	if !ok {
		return metrics, missingOrShort(otf, "head")
	}
	if head.UnitsPerEm < MinUnitsPerEm || head.UnitsPerEm > MaxUnitsPerEm {
		return metrics, &ot.ParseError{
			Kind:   ot.CorruptedData,
			Table:  ot.T("head"),
			Offset: 18,
			Issue:  "units per em out of range 16…16384",
		}
	}
	metrics.UnitsPerEm = sfnt.Units(head.UnitsPerEm)
	metrics.BBox = BoundingBox{
		MinX: sfnt.Units(head.XMin),
		MinY: sfnt.Units(head.YMin),
		MaxX: sfnt.Units(head.XMax),
		MaxY: sfnt.Units(head.YMax),
	}
	hhea, ok := HHeaInfo(otf)
	if !ok {
		return metrics, missingOrShort(otf, "hhea")
	}
	metrics.Ascent = sfnt.Units(hhea.Ascender)
	metrics.Descent = sfnt.Units(hhea.Descender)
	metrics.LineGap = sfnt.Units(hhea.LineGap)
	metrics.MaxAdvance = sfnt.Units(hhea.AdvanceWidthMax)
	metrics.CapHeight = metrics.fallback(fallbackCapHeight)
	metrics.XHeight = metrics.fallback(fallbackXHeight)
	if os2, ok := OS2Info(otf); ok {
		if os2.FsSelection&FsSelectionUseTypoMetric != 0 ||
			(metrics.Ascent == 0 && metrics.Descent == 0) {
			tracer().Debugf("using OS/2 typo metrics: %d/%d", os2.TypoAscender, os2.TypoDescender)
			metrics.Ascent = sfnt.Units(os2.TypoAscender)
			metrics.Descent = sfnt.Units(os2.TypoDescender)
			metrics.LineGap = sfnt.Units(os2.TypoLineGap)
		}
		if os2.CapHeight > 0 {
			metrics.CapHeight = sfnt.Units(os2.CapHeight)
		}
		if os2.XHeight > 0 {
			metrics.XHeight = sfnt.Units(os2.XHeight)
		}
	}
	metrics.UnderlinePosition = metrics.fallback(fallbackUnderlinePosition)
	metrics.UnderlineThickness = metrics.fallback(fallbackUnderlineThickness)
	if post, ok := PostInfo(otf); ok && post.UnderlineThickness > 0 {
		metrics.UnderlinePosition = sfnt.Units(post.UnderlinePosition)
		metrics.UnderlineThickness = sfnt.Units(post.UnderlineThickness)
	}
	return metrics, nil
}

// fallback scales a value given for 1000 units per em to the font's units per em.
func (m FontMetrics) fallback(v int) sfnt.Units {
	return sfnt.Units(math.Round(float64(v) * float64(m.UnitsPerEm) / 1000))
}

func missingOrShort(otf *ot.Font, tag string) error {
	if !otf.HasTable(ot.T(tag)) {
		return ot.ErrMissingTable(ot.T(tag))
	}
	return &ot.ParseError{
		Kind:  ot.CorruptedData,
		Table: ot.T(tag),
		Issue: "table too short",
	}
}

// Scale returns the metrics scaled to a font size, i.e. every value
// multiplied by size / UnitsPerEm.
func (m FontMetrics) Scale(size float32) ScaledMetrics {
	s := ScaledMetrics{Size: size}
	if m.UnitsPerEm <= 0 {
		return s
	}
	f := size / float32(m.UnitsPerEm)
	s.Ascent = float32(m.Ascent) * f
	s.Descent = float32(m.Descent) * f
	s.LineGap = float32(m.LineGap) * f
	s.CapHeight = float32(m.CapHeight) * f
	s.XHeight = float32(m.XHeight) * f
	s.UnderlinePosition = float32(m.UnderlinePosition) * f
	s.UnderlineThickness = float32(m.UnderlineThickness) * f
	return s
}

// --- Glyph Routines --------------------------------------------------------

// GlyphMetrics retrieves metrics for a given glyph. The bounding box and the
// right side bearing are available for fonts with TrueType outlines only.
// If gid is not a valid glyph index, false is returned.
func GlyphMetrics(otf *ot.Font, gid ot.GlyphIndex) (GlyphMetricsInfo, bool) {
	metrics := GlyphMetricsInfo{}
	maxp, ok := MaxPInfo(otf)
	if !ok || uint16(gid) >= maxp.NumGlyphs {
		return metrics, false
	}
	hhea, ok := HHeaInfo(otf)
	if !ok || hhea.NumberOfHMetrics == 0 {
		return metrics, false
	}
	//
	// table hmtx: advance width and left side bearing
	hmtx := tableBytes(otf, "hmtx")
	n := int(hhea.NumberOfHMetrics)
	if int(gid) < n {
		if b := view(hmtx, 4*int(gid), 4); b != nil {
			metrics.Advance = sfnt.Units(u16(b))
			metrics.LSB = sfnt.Units(i16(b[2:]))
		}
	} else {
		// glyphs beyond numberOfHMetrics share the last advance width
		if b := view(hmtx, 4*(n-1), 2); b != nil {
			metrics.Advance = sfnt.Units(u16(b))
		}
		if b := view(hmtx, 4*n+2*(int(gid)-n), 2); b != nil {
			metrics.LSB = sfnt.Units(i16(b))
		}
	}
	//
	// table glyf: bounding box
	if loc, ok := glyphLocation(otf, gid); ok {
		if b := view(tableBytes(otf, "glyf"), int(loc), 10); b != nil {
			metrics.BBox = BoundingBox{
				MinX: sfnt.Units(i16(b[2:])),
				MinY: sfnt.Units(i16(b[4:])),
				MaxX: sfnt.Units(i16(b[6:])),
				MaxY: sfnt.Units(i16(b[8:])),
			}
		}
	}
	// RSB calculation: rsb = aw - (lsb + xMax - xMin)
	// From the spec:
	// If a glyph has no contours, xMax/xMin are not defined. The left side bearing indicated
	// in the 'hmtx' table for such glyphs should be zero.
	if !metrics.BBox.IsEmpty() { // leave RSB for empty bboxes
		metrics.RSB = metrics.Advance - (metrics.LSB + metrics.BBox.Dx())
	}
	return metrics, true
}

// glyphLocation returns the offset of a non-empty glyph in table 'glyf'.
func glyphLocation(otf *ot.Font, gid ot.GlyphIndex) (uint32, bool) {
	head, ok := HeadInfo(otf)
	if !ok {
		return 0, false
	}
	loca := tableBytes(otf, "loca")
	var start, end uint32
	if head.IndexToLocFormat == 0 {
		b := view(loca, 2*int(gid), 4)
		if b == nil {
			return 0, false
		}
		start, end = uint32(u16(b))*2, uint32(u16(b[2:]))*2
	} else {
		b := view(loca, 4*int(gid), 8)
		if b == nil {
			return 0, false
		}
		start, end = u32(b), u32(b[4:])
	}
	return start, end > start
}
