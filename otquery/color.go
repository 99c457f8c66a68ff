package otquery

import (
	"github.com/npillmayer/fontsys/ot"
)

// ColorFormat denotes a format of color glyph data.
type ColorFormat int

const (
	ColorNone ColorFormat = iota
	ColorCOLR             // layered vector glyphs, tables 'COLR' and 'CPAL'
	ColorSVG              // SVG documents, table 'SVG '
	ColorSbix             // Apple bitmap glyphs, table 'sbix'
	ColorCBDT             // Google bitmap glyphs, tables 'CBDT' and 'CBLC'
)

func (f ColorFormat) String() string {
	switch f {
	case ColorCOLR:
		return "COLR"
	case ColorSVG:
		return "SVG"
	case ColorSbix:
		return "sbix"
	case ColorCBDT:
		return "CBDT"
	}
	return "none"
}

// ColorInfo records which color glyph tables are present in a font.
// Color layers and bitmaps are not decoded.
type ColorInfo struct {
	HasCOLR, HasCPAL bool
	HasCBDT, HasCBLC bool
	HasSbix          bool
	HasSVG           bool
	COLRVersion      uint16 // 0 or 1, valid if HasCOLR
	PaletteCount     int    // number of CPAL palettes
}

// ColorTables inspects a font for color glyph tables.
func ColorTables(otf *ot.Font) ColorInfo {
	info := ColorInfo{
		HasCOLR: otf.HasTable(ot.T("COLR")),
		HasCPAL: otf.HasTable(ot.T("CPAL")),
		HasCBDT: otf.HasTable(ot.T("CBDT")),
		HasCBLC: otf.HasTable(ot.T("CBLC")),
		HasSbix: otf.HasTable(ot.T("sbix")),
		HasSVG:  otf.HasTable(ot.T("SVG ")),
	}
	if b := view(tableBytes(otf, "COLR"), 0, 2); b != nil {
		info.COLRVersion = u16(b)
	}
	if b := view(tableBytes(otf, "CPAL"), 0, 12); b != nil {
		info.PaletteCount = int(u16(b[4:]))
	}
	return info
}

// Formats lists the usable color formats of a font. COLR needs CPAL and
// CBDT needs CBLC to be usable.
func (c ColorInfo) Formats() []ColorFormat {
	var formats []ColorFormat
	if c.HasCOLR && c.HasCPAL {
		formats = append(formats, ColorCOLR)
	}
	if c.HasSVG {
		formats = append(formats, ColorSVG)
	}
	if c.HasSbix {
		formats = append(formats, ColorSbix)
	}
	if c.HasCBDT && c.HasCBLC {
		formats = append(formats, ColorCBDT)
	}
	return formats
}

// IsColor reports whether the font has at least one usable color format.
func (c ColorInfo) IsColor() bool {
	return len(c.Formats()) > 0
}

// PreferredFormat returns the color format a renderer should use, preferring
// vector formats over bitmaps. It returns ColorNone for fonts without color glyphs.
func (c ColorInfo) PreferredFormat() ColorFormat {
	if formats := c.Formats(); len(formats) > 0 {
		return formats[0]
	}
	return ColorNone
}
