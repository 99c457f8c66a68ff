package otquery

import (
	"github.com/npillmayer/fontsys/ot"
)

// HeadTableInfo is a typed query view over OpenType table 'head'.
// Values are decoded directly from the raw table bytes.
type HeadTableInfo struct {
	MajorVersion       uint16
	MinorVersion       uint16
	FontRevision       float64
	CheckSumAdjustment uint32
	MagicNumber        uint32
	Flags              uint16
	UnitsPerEm         uint16
	Created            int64
	Modified           int64
	XMin               int16
	YMin               int16
	XMax               int16
	YMax               int16
	MacStyle           uint16
	LowestRecPPEM      uint16
	FontDirectionHint  int16
	IndexToLocFormat   int16
	GlyphDataFormat    int16
}

// Bits of head.macStyle
const (
	MacStyleBold   = 0x0001
	MacStyleItalic = 0x0002
)

const headTableSize = 54

// HeadInfo decodes table 'head'.
// Returns (info, true) on success, or (zero, false) if table is missing/too short.
func HeadInfo(otf *ot.Font) (HeadTableInfo, bool) {
	var info HeadTableInfo
	b := view(tableBytes(otf, "head"), 0, headTableSize)
	if b == nil {
		return info, false
	}
	info.MajorVersion = u16(b[0:])
	info.MinorVersion = u16(b[2:])
	info.FontRevision = fixed(u32(b[4:]))
	info.CheckSumAdjustment = u32(b[8:])
	info.MagicNumber = u32(b[12:])
	info.Flags = u16(b[16:])
	info.UnitsPerEm = u16(b[18:])
	info.Created = int64(u32(b[20:]))<<32 | int64(u32(b[24:]))
	info.Modified = int64(u32(b[28:]))<<32 | int64(u32(b[32:]))
	info.XMin = i16(b[36:])
	info.YMin = i16(b[38:])
	info.XMax = i16(b[40:])
	info.YMax = i16(b[42:])
	info.MacStyle = u16(b[44:])
	info.LowestRecPPEM = u16(b[46:])
	info.FontDirectionHint = i16(b[48:])
	info.IndexToLocFormat = i16(b[50:])
	info.GlyphDataFormat = i16(b[52:])
	return info, true
}

// tableBytes returns the data of a table, or nil if the font does not contain it.
func tableBytes(otf *ot.Font, tag string) []byte {
	if t := otf.Table(ot.T(tag)); t != nil {
		return t.Binary()
	}
	return nil
}
