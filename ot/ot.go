package ot

import (
	"slices"
)

// Font represents the table directory of a decoded font.
// Regardless of the container the font has been delivered in (sfnt, WOFF, WOFF2),
// a Font always refers to a plain sfnt binary, synthesized if necessary.
//
// Font does not interpret any tables. Clients, e.g. package `otquery`,
// read the tables they need from the raw bytes.
type Font struct {
	Header    *FontHeader
	container Container
	binary    binarySegm    // sfnt data, synthesized for WOFF/WOFF2
	tables    map[Tag]Table // tables by tag
	metadata  string        // WOFF extended metadata, if any
	ec        errorCollector
}

// Container denotes the format a font has been delivered in.
type Container int

const (
	ContainerUnknown       Container = iota
	ContainerTrueType                // 0x00010000
	ContainerCFF                     // 'OTTO'
	ContainerAppleTrueType           // 'true'
	ContainerPostScript              // 'typ1'
	ContainerWOFF                    // 'wOFF'
	ContainerWOFF2                   // 'wOF2'
)

func (c Container) String() string {
	switch c {
	case ContainerTrueType:
		return "TrueType"
	case ContainerCFF:
		return "OpenType/CFF"
	case ContainerAppleTrueType:
		return "Apple TrueType"
	case ContainerPostScript:
		return "PostScript"
	case ContainerWOFF:
		return "WOFF"
	case ContainerWOFF2:
		return "WOFF2"
	}
	return "unknown"
}

// Font signatures, found in the first 4 bytes of a font file.
const (
	SignatureTrueType      uint32 = 0x00010000
	SignatureCFF           uint32 = 0x4f54544f // OTTO
	SignatureAppleTrueType uint32 = 0x74727565 // true
	SignaturePostScript    uint32 = 0x74797031 // typ1
	SignatureWOFF          uint32 = 0x774f4646 // wOFF
	SignatureWOFF2         uint32 = 0x774f4632 // wOF2
	SignatureCollection    uint32 = 0x74746366 // ttcf
)

// FontHeader is the offset table at the start of an sfnt binary.
//
// OpenType fonts that contain TrueType outlines should use the value of 0x00010000
// for the FontType. OpenType fonts containing CFF data (version 1 or 2) should
// use 0x4F54544F ('OTTO', when re-interpreted as a Tag).
// The Apple specification for TrueType fonts allows for 'true' and 'typ1',
// but these version tags should not be used for OpenType fonts.
type FontHeader struct {
	FontType   uint32
	TableCount uint16
}

// Container returns the format the font has been delivered in.
func (otf *Font) Container() Container {
	return otf.container
}

// Flavor returns the sfnt signature of the (possibly synthesized) font binary.
func (otf *Font) Flavor() uint32 {
	if otf.Header == nil {
		return 0
	}
	return otf.Header.FontType
}

// Binary returns the sfnt bytes of the font. For WOFF and WOFF2 this is the
// reconstructed font. It should be treated as read-only.
func (otf *Font) Binary() []byte {
	return otf.binary
}

// Metadata returns the extended XML metadata of a WOFF or WOFF2 font, if present.
func (otf *Font) Metadata() string {
	return otf.metadata
}

// Table returns the font table for a given tag. If a table for a tag cannot
// be found in the font, nil is returned.
//
// Table tag names are case-sensitive, following the names in the OpenType specification,
// i.e., one of:
//
// avar BASE CBDT CBLC CFF CFF2 cmap COLR CPAL cvar cvt DSIG EBDT EBLC EBSC fpgm fvar
// gasp GDEF glyf GPOS GSUB gvar hdmx head hhea hmtx HVAR JSTF kern loca LTSH MATH
// maxp MERG meta MVAR name OS/2 PCLT post prep sbix STAT SVG VDMX vhea vmtx VORG VVAR
func (otf *Font) Table(tag Tag) Table {
	if otf == nil {
		return nil
	}
	if t, ok := otf.tables[tag]; ok {
		return t
	}
	return nil
}

// HasTable reports whether the font contains a table with the given tag.
func (otf *Font) HasTable(tag Tag) bool {
	return otf.Table(tag) != nil
}

// TableTags returns a list of tags, one for each table contained in the font,
// in ascending order.
func (otf *Font) TableTags() []Tag {
	var tags = make([]Tag, 0, len(otf.tables))
	for tag := range otf.tables {
		tags = append(tags, tag)
	}
	slices.Sort(tags)
	return tags
}

// Errors returns all non-fatal errors encountered during font parsing.
// These errors represent issues that were found but did not prevent parsing from completing.
func (otf *Font) Errors() []FontError {
	if otf.ec.errors == nil {
		return []FontError{}
	}
	return otf.ec.errors
}

// Warnings returns all warnings encountered during font parsing.
// Warnings indicate potential issues that are generally safe to ignore.
func (otf *Font) Warnings() []FontWarning {
	if otf.ec.warnings == nil {
		return []FontWarning{}
	}
	return otf.ec.warnings
}

// GlyphIndex is a glyph index in a font.
type GlyphIndex uint16

// --- Tag -------------------------------------------------------------------

// Tag is defined by the spec as:
// Array of four uint8s (length = 32 bits) used to identify a table, design-variation axis,
// script, language system, feature, or baseline
type Tag uint32

// MakeTag creates a Tag from 4 bytes, e.g.,
// If b is shorter or longer, it will be silently extended or cut as appropriate
//
//	MakeTag([]byte("cmap"))
func MakeTag(b []byte) Tag {
	if b == nil {
		b = []byte{0, 0, 0, 0}
	} else if len(b) > 4 {
		b = b[:4]
	} else if len(b) < 4 {
		b = append([]byte{0, 0, 0, 0}[:4-len(b)], b...)
	}
	return Tag(u32(b))
}

// T returns a Tag from a (4-letter) string.
// If t is shorter or longer, it will be silently extended or cut as appropriate
func T(t string) Tag {
	t = (t + "    ")[:4]
	return Tag(u32([]byte(t)))
}

func (t Tag) String() string {
	bytes := []byte{
		byte(t >> 24 & 0xff),
		byte(t >> 16 & 0xff),
		byte(t >> 8 & 0xff),
		byte(t & 0xff),
	}
	return string(bytes)
}

// --- Table -----------------------------------------------------------------

// Table represents one of the various OpenType font tables.
//
// Required tables, according to the OpenType specification:
// 'cmap' (Character to glyph mapping), 'head' (Font header), 'hhea' (Horizontal header),
// 'hmtx' (Horizontal metrics), 'maxp' (Maximum profile), 'name' (Naming table),
// 'OS/2' (OS/2 and Windows specific metrics), 'post' (PostScript information).
type Table interface {
	Extent() (uint32, uint32) // offset and byte size within the font's binary data
	Binary() []byte           // the bytes of this table; should be treated as read-only by clients
	NameTag() Tag             // 4-letter name of the table
}

func newTable(tag Tag, b binarySegm, offset, size uint32) *genericTable {
	return &genericTable{tableBase{
		data:   b,
		name:   tag,
		offset: offset,
		length: size,
	}}
}

type genericTable struct {
	tableBase
}

// tableBase is a common parent for all kinds of OpenType tables.
type tableBase struct {
	data   binarySegm // a table is a slice of font data
	name   Tag        // 4-byte name as an integer
	offset uint32     // from offset
	length uint32     // to offset + length
}

// Extent returns offset and byte size of this table within the font binary.
func (tb *tableBase) Extent() (uint32, uint32) {
	return tb.offset, tb.length
}

// Binary returns the bytes of this table. Should be treated as read-only by
// clients, as it is a view into the font data.
func (tb *tableBase) Binary() []byte {
	return tb.data
}

// NameTag returns the 4-letter name of a table.
func (tb *tableBase) NameTag() Tag {
	return tb.name
}
