package fonttest

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"math/bits"
	"slices"

	"github.com/andybalholm/brotli"
)

// SFNT assembles raw tables into an sfnt binary.
func SFNT(flavor uint32, tables map[string][]byte) []byte {
	tags := sortedTags(tables)
	n := len(tags)
	entrySelector := bits.Len(uint(n)) - 1
	searchRange := (1 << entrySelector) * 16
	out := make([]byte, 12+16*n)
	put32(out[0:], flavor)
	put16(out[4:], uint16(n))
	put16(out[6:], uint16(searchRange))
	put16(out[8:], uint16(entrySelector))
	put16(out[10:], uint16(n*16-searchRange))
	for i, tag := range tags {
		data := tables[tag]
		rec := out[12+16*i:]
		copy(rec[0:4], tag)
		put32(rec[4:], Checksum(data))
		put32(rec[8:], uint32(len(out)))
		put32(rec[12:], uint32(len(data)))
		out = append(out, pad(data)...)
	}
	return out
}

// WOFF wraps raw tables into a WOFF binary. Tables are zlib-compressed
// where this saves space. metadata may be empty.
func WOFF(flavor uint32, tables map[string][]byte, metadata string) []byte {
	tags := sortedTags(tables)
	n := len(tags)
	out := make([]byte, 44+20*n)
	sfntSize := 12 + 16*n
	for i, tag := range tags {
		data := tables[tag]
		comp := deflate(data)
		if len(comp) >= len(data) {
			comp = data
		}
		e := out[44+20*i:]
		copy(e[0:4], tag)
		put32(e[4:], uint32(len(out)))
		put32(e[8:], uint32(len(comp)))
		put32(e[12:], uint32(len(data)))
		put32(e[16:], Checksum(data))
		out = append(out, pad(comp)...)
		sfntSize += len(pad(data))
	}
	if metadata != "" {
		comp := deflate([]byte(metadata))
		put32(out[24:], uint32(len(out)))
		put32(out[28:], uint32(len(comp)))
		put32(out[32:], uint32(len(metadata)))
		out = append(out, comp...)
	}
	put32(out[0:], 0x774f4646)
	put32(out[4:], flavor)
	put32(out[8:], uint32(len(out)))
	put16(out[12:], uint16(n))
	put32(out[16:], uint32(sfntSize))
	put16(out[20:], 1)
	return out
}

// woff2KnownTags mirrors the known-tag table of WOFF2 table directories.
var woff2KnownTags = []string{
	"cmap", "head", "hhea", "hmtx", "maxp", "name", "OS/2", "post",
	"cvt ", "fpgm", "glyf", "loca", "prep", "CFF ", "VORG", "EBDT",
	"EBLC", "gasp", "hdmx", "kern", "LTSH", "PCLT", "VDMX", "vhea",
	"vmtx", "BASE", "GDEF", "GPOS", "GSUB", "EBSC", "JSTF", "MATH",
	"CBDT", "CBLC", "COLR", "CPAL", "SVG ", "sbix", "acnt", "avar",
	"bdat", "bloc", "bsln", "cvar", "fdsc", "feat", "fmtx", "fvar",
	"gvar", "hsty", "just", "lcar", "mort", "morx", "opbd", "prop",
	"trak", "Zapf", "Silf", "Glat", "Gloc", "Feat", "Sill",
}

// WOFF2 wraps raw tables into a WOFF2 binary. No table transforms are applied,
// i.e. glyf and loca are stored with the null transform.
func WOFF2(flavor uint32, tables map[string][]byte, metadata string) []byte {
	tags := sortedTags(tables)
	var dir, stream []byte
	sfntSize := 12 + 16*len(tags)
	for _, tag := range tags {
		data := tables[tag]
		dir = append(dir, Woff2DirEntry(tag, uint32(len(data)))...)
		stream = append(stream, data...)
		sfntSize += len(pad(data))
	}
	return Woff2Container(flavor, len(tags), uint32(sfntSize), dir, Brotli(stream), metadata)
}

// Woff2DirEntry creates a WOFF2 table directory entry with the null transform.
func Woff2DirEntry(tag string, length uint32) []byte {
	var transform byte
	if tag == "glyf" || tag == "loca" {
		transform = 3 << 6
	}
	var e []byte
	if i := slices.Index(woff2KnownTags, tag); i >= 0 {
		e = append(e, byte(i)|transform)
	} else {
		e = append(e, 63|transform)
		e = append(e, tag...)
	}
	return AppendBase128(e, length)
}

// Woff2Container assembles a WOFF2 binary from a pre-built table directory
// and compressed font data.
func Woff2Container(flavor uint32, numTables int, sfntSize uint32, dir, comp []byte, metadata string) []byte {
	out := make([]byte, 48, 48+len(dir)+len(comp))
	out = append(out, dir...)
	out = append(out, comp...)
	if metadata != "" {
		out = pad(out)
		mcomp := Brotli([]byte(metadata))
		put32(out[28:], uint32(len(out)))
		put32(out[32:], uint32(len(mcomp)))
		put32(out[36:], uint32(len(metadata)))
		out = append(out, mcomp...)
	}
	put32(out[0:], 0x774f4632)
	put32(out[4:], flavor)
	put32(out[8:], uint32(len(out)))
	put16(out[12:], uint16(numTables))
	put32(out[16:], sfntSize)
	put32(out[20:], uint32(len(comp)))
	put16(out[24:], 1)
	return out
}

// AppendBase128 appends n in UIntBase128 encoding.
func AppendBase128(b []byte, n uint32) []byte {
	var tmp [5]byte
	i := len(tmp) - 1
	tmp[i] = byte(n & 0x7f)
	for n >>= 7; n > 0; n >>= 7 {
		i--
		tmp[i] = byte(n&0x7f) | 0x80
	}
	return append(b, tmp[i:]...)
}

// Brotli compresses data.
func Brotli(data []byte) []byte {
	var buf bytes.Buffer
	w := brotli.NewWriter(&buf)
	w.Write(data)
	w.Close()
	return buf.Bytes()
}

func deflate(data []byte) []byte {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	w.Write(data)
	w.Close()
	return buf.Bytes()
}

// Checksum calculates an sfnt table checksum.
func Checksum(data []byte) uint32 {
	var sum uint32
	for _, b := range slices.Collect(slices.Chunk(pad(data), 4)) {
		sum += binary.BigEndian.Uint32(b)
	}
	return sum
}

func pad(b []byte) []byte {
	for len(b)%4 != 0 {
		b = append(b, 0)
	}
	return b
}

func sortedTags(tables map[string][]byte) []string {
	tags := make([]string, 0, len(tables))
	for tag := range tables {
		tags = append(tags, tag)
	}
	slices.Sort(tags)
	return tags
}
