package otquery

import (
	"github.com/npillmayer/fontsys/ot"
)

// OS2TableInfo is a typed query view over OpenType table 'OS/2'.
// Fields not present in the table's version are zero.
type OS2TableInfo struct {
	Version       uint16
	AvgCharWidth  int16
	WeightClass   uint16
	WidthClass    uint16
	FsType        uint16
	FsSelection   uint16
	TypoAscender  int16
	TypoDescender int16
	TypoLineGap   int16
	WinAscent     uint16
	WinDescent    uint16
	XHeight       int16 // version 2 and later
	CapHeight     int16 // version 2 and later
}

// Bits of OS/2.fsSelection
const (
	FsSelectionItalic        = 0x0001
	FsSelectionBold          = 0x0020
	FsSelectionRegular       = 0x0040
	FsSelectionUseTypoMetric = 0x0080
	FsSelectionOblique       = 0x0200
)

const (
	os2V0Size = 78
	os2V2Size = 96
)

// OS2Info decodes table 'OS/2'.
// Returns (info, true) on success, or (zero, false) if table is missing/too short.
func OS2Info(otf *ot.Font) (OS2TableInfo, bool) {
	var info OS2TableInfo
	b := tableBytes(otf, "OS/2")
	if len(b) < os2V0Size {
		return info, false
	}
	info.Version = u16(b[0:])
	info.AvgCharWidth = i16(b[2:])
	info.WeightClass = u16(b[4:])
	info.WidthClass = u16(b[6:])
	info.FsType = u16(b[8:])
	info.FsSelection = u16(b[62:])
	info.TypoAscender = i16(b[68:])
	info.TypoDescender = i16(b[70:])
	info.TypoLineGap = i16(b[72:])
	info.WinAscent = u16(b[74:])
	info.WinDescent = u16(b[76:])
	if info.Version >= 2 && len(b) >= os2V2Size {
		info.XHeight = i16(b[86:])
		info.CapHeight = i16(b[88:])
	}
	return info, true
}

// HHeaTableInfo is a typed query view over OpenType table 'hhea'.
type HHeaTableInfo struct {
	Ascender           int16
	Descender          int16
	LineGap            int16
	AdvanceWidthMax    uint16
	MinLeftSideBearing int16
	CaretSlopeRise     int16
	CaretSlopeRun      int16
	NumberOfHMetrics   uint16
}

const hheaTableSize = 36

// HHeaInfo decodes table 'hhea'.
// Returns (info, true) on success, or (zero, false) if table is missing/too short.
func HHeaInfo(otf *ot.Font) (HHeaTableInfo, bool) {
	var info HHeaTableInfo
	b := view(tableBytes(otf, "hhea"), 0, hheaTableSize)
	if b == nil {
		return info, false
	}
	info.Ascender = i16(b[4:])
	info.Descender = i16(b[6:])
	info.LineGap = i16(b[8:])
	info.AdvanceWidthMax = u16(b[10:])
	info.MinLeftSideBearing = i16(b[12:])
	info.CaretSlopeRise = i16(b[18:])
	info.CaretSlopeRun = i16(b[20:])
	info.NumberOfHMetrics = u16(b[34:])
	return info, true
}

// PostTableInfo is a typed query view over the header of OpenType table 'post'.
type PostTableInfo struct {
	Version            uint32
	ItalicAngle        float64 // degrees counter-clockwise from the vertical
	UnderlinePosition  int16
	UnderlineThickness int16
	IsFixedPitch       bool
}

const postHeaderSize = 32

// PostInfo decodes the header of table 'post'.
// Returns (info, true) on success, or (zero, false) if table is missing/too short.
func PostInfo(otf *ot.Font) (PostTableInfo, bool) {
	var info PostTableInfo
	b := view(tableBytes(otf, "post"), 0, postHeaderSize)
	if b == nil {
		return info, false
	}
	info.Version = u32(b[0:])
	info.ItalicAngle = fixed(u32(b[4:]))
	info.UnderlinePosition = i16(b[8:])
	info.UnderlineThickness = i16(b[10:])
	info.IsFixedPitch = u32(b[12:]) != 0
	return info, true
}
