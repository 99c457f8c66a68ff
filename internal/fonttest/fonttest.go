/*
Package fonttest synthesizes small font binaries for tests.

Fonts are assembled from a Builder, which describes naming, style and metric
properties. Fonts may be delivered as plain sfnt, WOFF or WOFF2. Synthesized
fonts carry no outlines; they are suitable for everything but rasterization.
*/
package fonttest

import (
	"encoding/binary"
	"math"
	"slices"

	xunicode "golang.org/x/text/encoding/unicode"
)

// Signatures of sfnt flavours.
const (
	FlavorTrueType uint32 = 0x00010000
	FlavorCFF      uint32 = 0x4f54544f
)

// Axis describes a variation axis for table 'fvar'.
type Axis struct {
	Tag               string
	Min, Default, Max float64
	Name              string
	Hidden            bool
}

// Instance describes a named instance for table 'fvar'.
type Instance struct {
	Name   string
	Coords []float64
}

// Builder describes a synthetic font.
type Builder struct {
	Family, Subfamily   string
	TypoFamily          string // name ID 16, optional
	PostScriptName      string
	MacNames            bool   // add Macintosh Roman name records only
	UnitsPerEm          uint16 // defaults to 1000
	Ascender, Descender int16
	LineGap             int16
	Weight, Width       uint16 // OS/2 usWeightClass/usWidthClass
	FsSelection         uint16
	MacStyle            uint16
	XHeight, CapHeight  int16
	UnderlinePosition   int16
	UnderlineThickness  int16
	ItalicAngle         float64
	NumGlyphs           uint16
	CMap                map[rune]uint16
	CMapFormat          uint16 // 0 (Mac Roman), 4, 6 or 12
	Axes                []Axis
	Instances           []Instance
	AvarMaps            [][][2]float64 // per axis: pairs of normalized (from, to)
	NoOS2, NoPost       bool
	Omit                []string          // tables to drop
	Extra               map[string][]byte // additional raw tables
}

// Regular returns a builder for a plain upright font of the given family.
func Regular(family string) Builder {
	return Builder{
		Family:             family,
		Subfamily:          "Regular",
		PostScriptName:     family + "-Regular",
		UnitsPerEm:         1000,
		Ascender:           800,
		Descender:          -200,
		LineGap:            90,
		Weight:             400,
		Width:              5,
		XHeight:            480,
		CapHeight:          680,
		UnderlinePosition:  -100,
		UnderlineThickness: 60,
		NumGlyphs:          4,
		CMap:               map[rune]uint16{'A': 1, 'B': 2, 'a': 3},
		CMapFormat:         4,
	}
}

// Tables returns the raw tables of the font, keyed by tag.
func (b Builder) Tables() map[string][]byte {
	if b.UnitsPerEm == 0 {
		b.UnitsPerEm = 1000
	}
	if b.NumGlyphs == 0 {
		b.NumGlyphs = 1
	}
	t := map[string][]byte{
		"head": b.head(),
		"hhea": b.hhea(),
		"maxp": b.maxp(),
		"hmtx": b.hmtx(),
		"name": b.name(),
		"cmap": b.cmap(),
	}
	if !b.NoOS2 {
		t["OS/2"] = b.os2()
	}
	if !b.NoPost {
		t["post"] = b.post()
	}
	if len(b.Axes) > 0 {
		t["fvar"] = b.fvar()
	}
	if len(b.AvarMaps) > 0 {
		t["avar"] = b.avar()
	}
	for tag, data := range b.Extra {
		t[tag] = data
	}
	for _, tag := range b.Omit {
		delete(t, tag)
	}
	return t
}

// SFNT returns the font as a plain sfnt binary with CFF flavour.
func (b Builder) SFNT() []byte {
	return SFNT(FlavorCFF, b.Tables())
}

// WOFF returns the font as a WOFF binary.
func (b Builder) WOFF() []byte {
	return WOFF(FlavorCFF, b.Tables(), "")
}

// WOFF2 returns the font as a WOFF2 binary.
func (b Builder) WOFF2() []byte {
	return WOFF2(FlavorCFF, b.Tables(), "")
}

// --- Tables ----------------------------------------------------------------

func (b Builder) head() []byte {
	h := make([]byte, 54)
	put32(h[0:], 0x00010000)
	put32(h[4:], 0x00010000) // font revision
	put32(h[12:], 0x5F0F3CF5)
	put16(h[16:], 0x000b)
	put16(h[18:], b.UnitsPerEm)
	put16(h[36:], 0)
	put16(h[38:], uint16(b.Descender))
	put16(h[40:], b.UnitsPerEm)
	put16(h[42:], uint16(b.Ascender))
	put16(h[44:], b.MacStyle)
	put16(h[46:], 8) // lowest rec ppem
	put16(h[48:], 2) // font direction hint
	return h
}

func (b Builder) hhea() []byte {
	h := make([]byte, 36)
	put32(h[0:], 0x00010000)
	put16(h[4:], uint16(b.Ascender))
	put16(h[6:], uint16(b.Descender))
	put16(h[8:], uint16(b.LineGap))
	put16(h[10:], b.UnitsPerEm/2) // advance width max
	put16(h[18:], 1)              // caret slope rise
	put16(h[34:], 1)              // number of hmetrics
	return h
}

func (b Builder) maxp() []byte {
	m := make([]byte, 6)
	put32(m[0:], 0x00005000)
	put16(m[4:], b.NumGlyphs)
	return m
}

func (b Builder) hmtx() []byte {
	m := make([]byte, 4+2*(int(b.NumGlyphs)-1))
	put16(m[0:], b.UnitsPerEm/2)
	return m
}

func (b Builder) os2() []byte {
	o := make([]byte, 96)
	put16(o[0:], 4)
	put16(o[2:], b.UnitsPerEm/2)
	put16(o[4:], b.Weight)
	put16(o[6:], b.Width)
	put16(o[62:], b.FsSelection)
	put16(o[64:], 0x20)
	put16(o[66:], 0x7a)
	put16(o[68:], uint16(b.Ascender))
	put16(o[70:], uint16(b.Descender))
	put16(o[72:], uint16(b.LineGap))
	put16(o[74:], uint16(b.Ascender))
	put16(o[76:], uint16(-b.Descender))
	put16(o[86:], uint16(b.XHeight))
	put16(o[88:], uint16(b.CapHeight))
	return o
}

func (b Builder) post() []byte {
	p := make([]byte, 32)
	put32(p[0:], 0x00030000)
	put32(p[4:], uint32(fixed(b.ItalicAngle)))
	put16(p[8:], uint16(b.UnderlinePosition))
	put16(p[10:], uint16(b.UnderlineThickness))
	return p
}

// --- name ------------------------------------------------------------------

type nameRecord struct {
	id    uint16
	value string
}

func (b Builder) nameRecords() []nameRecord {
	recs := []nameRecord{
		{1, b.Family},
		{2, b.Subfamily},
		{4, b.Family + " " + b.Subfamily},
		{6, b.PostScriptName},
	}
	if b.TypoFamily != "" {
		recs = append(recs, nameRecord{16, b.TypoFamily})
	}
	for i, a := range b.Axes {
		recs = append(recs, nameRecord{uint16(256 + i), a.Name})
	}
	for i, inst := range b.Instances {
		recs = append(recs, nameRecord{uint16(256 + len(b.Axes) + i), inst.Name})
	}
	return recs
}

func (b Builder) name() []byte {
	recs := b.nameRecords()
	var storage []byte
	out := make([]byte, 6+12*len(recs))
	put16(out[2:], uint16(len(recs)))
	put16(out[4:], uint16(len(out)))
	enc := xunicode.UTF16(xunicode.BigEndian, xunicode.IgnoreBOM).NewEncoder()
	for i, r := range recs {
		var data []byte
		platform, encoding, language := uint16(3), uint16(1), uint16(0x409)
		if b.MacNames {
			platform, encoding, language = 1, 0, 0
			data = []byte(r.value) // ASCII only
		} else {
			s, _ := enc.String(r.value)
			data = []byte(s)
		}
		rec := out[6+12*i:]
		put16(rec[0:], platform)
		put16(rec[2:], encoding)
		put16(rec[4:], language)
		put16(rec[6:], r.id)
		put16(rec[8:], uint16(len(data)))
		put16(rec[10:], uint16(len(storage)))
		storage = append(storage, data...)
	}
	return append(out, storage...)
}

// --- cmap ------------------------------------------------------------------

func (b Builder) cmap() []byte {
	runes := make([]rune, 0, len(b.CMap))
	for r := range b.CMap {
		runes = append(runes, r)
	}
	slices.Sort(runes)
	var platform, encoding uint16 = 3, 1
	var sub []byte
	switch b.CMapFormat {
	case 0:
		platform, encoding = 1, 0
		sub = b.cmapFormat0()
	case 6:
		sub = b.cmapFormat6(runes)
	case 12:
		encoding = 10
		sub = b.cmapFormat12(runes)
	default:
		sub = b.cmapFormat4(runes)
	}
	out := make([]byte, 12)
	put16(out[2:], 1) // one subtable
	put16(out[4:], platform)
	put16(out[6:], encoding)
	put32(out[8:], 12)
	return append(out, sub...)
}

func (b Builder) cmapFormat0() []byte {
	sub := make([]byte, 6+256)
	put16(sub[0:], 0)
	put16(sub[2:], uint16(len(sub)))
	for r, g := range b.CMap {
		if r < 256 {
			sub[6+r] = byte(g)
		}
	}
	return sub
}

func (b Builder) cmapFormat4(runes []rune) []byte {
	var bmp []rune
	for _, r := range runes {
		if r < 0xffff {
			bmp = append(bmp, r)
		}
	}
	segCount := len(bmp) + 1
	sub := make([]byte, 16+8*segCount)
	put16(sub[0:], 4)
	put16(sub[2:], uint16(len(sub)))
	put16(sub[6:], uint16(2*segCount))
	ends := sub[14:]
	starts := sub[16+2*segCount:]
	deltas := sub[16+4*segCount:]
	for i, r := range bmp {
		put16(ends[2*i:], uint16(r))
		put16(starts[2*i:], uint16(r))
		put16(deltas[2*i:], uint16(int(b.CMap[r])-int(r)))
	}
	last := segCount - 1
	put16(ends[2*last:], 0xffff)
	put16(starts[2*last:], 0xffff)
	put16(deltas[2*last:], 1)
	return sub
}

func (b Builder) cmapFormat6(runes []rune) []byte {
	first, last := rune(0), rune(-1)
	if len(runes) > 0 {
		first, last = runes[0], runes[len(runes)-1]
	}
	count := int(last - first + 1)
	sub := make([]byte, 10+2*count)
	put16(sub[0:], 6)
	put16(sub[2:], uint16(len(sub)))
	put16(sub[6:], uint16(first))
	put16(sub[8:], uint16(count))
	for r, g := range b.CMap {
		put16(sub[10+2*int(r-first):], g)
	}
	return sub
}

func (b Builder) cmapFormat12(runes []rune) []byte {
	sub := make([]byte, 16+12*len(runes))
	put16(sub[0:], 12)
	put32(sub[4:], uint32(len(sub)))
	put32(sub[12:], uint32(len(runes)))
	for i, r := range runes {
		grp := sub[16+12*i:]
		put32(grp[0:], uint32(r))
		put32(grp[4:], uint32(r))
		put32(grp[8:], uint32(b.CMap[r]))
	}
	return sub
}

// --- Variations ------------------------------------------------------------

func (b Builder) fvar() []byte {
	const axisSize = 20
	instSize := 4 + 4*len(b.Axes)
	out := make([]byte, 16+axisSize*len(b.Axes)+instSize*len(b.Instances))
	put16(out[0:], 1)
	put16(out[4:], 16)
	put16(out[6:], 2)
	put16(out[8:], uint16(len(b.Axes)))
	put16(out[10:], axisSize)
	put16(out[12:], uint16(len(b.Instances)))
	put16(out[14:], uint16(instSize))
	for i, a := range b.Axes {
		rec := out[16+axisSize*i:]
		copy(rec[0:4], (a.Tag + "    ")[:4])
		put32(rec[4:], uint32(fixed(a.Min)))
		put32(rec[8:], uint32(fixed(a.Default)))
		put32(rec[12:], uint32(fixed(a.Max)))
		if a.Hidden {
			put16(rec[16:], 1)
		}
		put16(rec[18:], uint16(256+i))
	}
	base := 16 + axisSize*len(b.Axes)
	for i, inst := range b.Instances {
		rec := out[base+instSize*i:]
		put16(rec[0:], uint16(256+len(b.Axes)+i))
		for j := range b.Axes {
			if j < len(inst.Coords) {
				put32(rec[4+4*j:], uint32(fixed(inst.Coords[j])))
			}
		}
	}
	return out
}

func (b Builder) avar() []byte {
	out := make([]byte, 8)
	put16(out[0:], 1)
	put16(out[6:], uint16(len(b.AvarMaps)))
	for _, m := range b.AvarMaps {
		seg := make([]byte, 2+4*len(m))
		put16(seg[0:], uint16(len(m)))
		for i, p := range m {
			put16(seg[2+4*i:], uint16(f2dot14(p[0])))
			put16(seg[4+4*i:], uint16(f2dot14(p[1])))
		}
		out = append(out, seg...)
	}
	return out
}

// --- Helpers ---------------------------------------------------------------

func put16(b []byte, n uint16) {
	binary.BigEndian.PutUint16(b, n)
}

func put32(b []byte, n uint32) {
	binary.BigEndian.PutUint32(b, n)
}

func fixed(f float64) int32 {
	return int32(math.Round(f * 65536))
}

func f2dot14(f float64) int16 {
	return int16(math.Round(f * 16384))
}
