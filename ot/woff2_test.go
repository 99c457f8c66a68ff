package ot

import (
	"math"
	"testing"

	"github.com/npillmayer/fontsys/internal/fonttest"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWOFF2MatchesSFNT(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsys.ot")
	defer teardown()
	//
	b := webFontBuilder()
	sfnt, err := Parse(b.SFNT())
	require.NoError(t, err)
	woff2, err := Parse(b.WOFF2())
	require.NoError(t, err)
	assert.Equal(t, ContainerWOFF2, woff2.Container())
	assertSameTables(t, sfnt, woff2)
	assert.Empty(t, woff2.Warnings())
}

func TestWOFF2Metadata(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsys.ot")
	defer teardown()
	//
	meta := `<metadata version="1.0"><uniqueid id="fontsys.test"/></metadata>`
	otf, err := Parse(fonttest.WOFF2(fonttest.FlavorCFF, webFontBuilder().Tables(), meta))
	require.NoError(t, err)
	assert.Equal(t, meta, otf.Metadata())
	assert.Empty(t, otf.Errors())
}

func TestWOFF2BrokenMetadata(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsys.ot")
	defer teardown()
	//
	meta := `<metadata version="1.0"><uniqueid id="fontsys.test"/></metadata>`
	data := fonttest.WOFF2(fonttest.FlavorCFF, webFontBuilder().Tables(), meta)
	putU32(data[36:], uint32(len(meta)-1)) // metaOrigLength
	otf, err := Parse(data)
	require.NoError(t, err)
	assert.Empty(t, otf.Metadata())
	require.Len(t, otf.Errors(), 1)
	ferr := otf.Errors()[0]
	assert.Equal(t, SeverityMinor, ferr.Severity)
	assert.Equal(t, Tag(SignatureWOFF2), ferr.Table)
	assert.Equal(t, "Metadata", ferr.Section)
	// table data is unaffected
	sfnt, err := Parse(webFontBuilder().SFNT())
	require.NoError(t, err)
	assertSameTables(t, sfnt, otf)
}

func TestWOFF2TruncatedCompressedBlock(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsys.ot")
	defer teardown()
	//
	data := webFontBuilder().WOFF2()
	data = data[:len(data)-5]
	putU32(data[8:], uint32(len(data))) // keep header length consistent
	_, err := Parse(data)
	assert.ErrorIs(t, err, OffsetOutOfBounds)
}

func TestWOFF2DirectoryErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsys.ot")
	defer teardown()
	//
	cmapIndex := byte(0)
	tests := []struct {
		name string
		dir  []byte
		comp []byte
		kind ErrorKind
	}{
		{"leading zero in UIntBase128", []byte{cmapIndex, 0x80, 0x01}, nil, CorruptedData},
		{"directory exceeds data", []byte{cmapIndex}, nil, OffsetOutOfBounds},
		{"unknown transform", fonttest.AppendBase128([]byte{0x40 | cmapIndex}, 4), nil, UnsupportedCompression},
		{"size mismatch", fonttest.AppendBase128([]byte{cmapIndex}, 10), fonttest.Brotli([]byte{1, 2, 3, 4, 5}), CorruptedData},
		{"glyf without loca", fonttest.Woff2DirEntry("glyf", 4), fonttest.Brotli([]byte{1, 2, 3, 4}), CorruptedData},
		{"garbage brotli stream", fonttest.AppendBase128([]byte{cmapIndex}, 4), []byte{0xff, 0xff, 0xff, 0xff}, CorruptedData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := fonttest.Woff2Container(fonttest.FlavorCFF, 1, 0, tt.dir, tt.comp, "")
			_, err := Parse(data)
			assert.ErrorIs(t, err, tt.kind)
		})
	}
}

func TestWOFF2Collection(t *testing.T) {
	data := fonttest.Woff2Container(SignatureCollection, 1, 0,
		fonttest.AppendBase128([]byte{0}, 4), fonttest.Brotli([]byte{1, 2, 3, 4}), "")
	_, err := Parse(data)
	assert.ErrorIs(t, err, InvalidFormat)
}

// --- Transformed tables ----------------------------------------------------

// transformedGlyf returns a transformed glyf table with two glyphs: an empty
// glyph and a triangle (10,0) (110,0) (10,100). It returns the expected glyf
// and loca tables as well.
func transformedGlyf() (transformed, glyf, loca []byte) {
	nContour := []byte{0, 0, 0, 1}
	nPoints := []byte{3}
	flags := []byte{11, 11, 86}
	glyphs := []byte{10, 100, 99, 99, 0} // deltas and instruction length
	bboxBitmap := []byte{0, 0, 0, 0}
	header := make([]byte, glyfTransformHeaderSize)
	putU16(header[4:], 2) // numGlyphs
	putU16(header[6:], 0) // short loca
	for i, n := range []int{len(nContour), len(nPoints), len(flags), len(glyphs), 0, len(bboxBitmap), 0} {
		putU32(header[8+4*i:], uint32(n))
	}
	transformed = append(header, nContour...)
	transformed = append(transformed, nPoints...)
	transformed = append(transformed, flags...)
	transformed = append(transformed, glyphs...)
	transformed = append(transformed, bboxBitmap...)
	glyf = appendI16s(nil, 1, 10, 0, 110, 100) // nContours and bbox
	glyf = appendI16s(glyf, 2, 0)              // endPts, instruction length
	glyf = append(glyf, 1, 1, 1)               // on-curve flags
	glyf = appendI16s(glyf, 10, 100, -100)     // x deltas
	glyf = appendI16s(glyf, 0, 0, 100)         // y deltas
	glyf = append(glyf, 0, 0, 0)               // padding to 32 bytes
	loca = appendI16s(nil, 0, 0, 16)
	return
}

func TestReconstructGlyfLoca(t *testing.T) {
	transformed, expGlyf, expLoca := transformedGlyf()
	glyf, loca, err := reconstructGlyfLoca(transformed, 6)
	require.NoError(t, err)
	assert.Equal(t, expGlyf, glyf)
	assert.Equal(t, expLoca, loca)
	//
	_, _, err = reconstructGlyfLoca(transformed, 8)
	assert.ErrorIs(t, err, CorruptedData, "loca length must match glyph count")
	_, _, err = reconstructGlyfLoca(transformed[:len(transformed)-2], 6)
	assert.ErrorIs(t, err, OffsetOutOfBounds)
	_, _, err = reconstructGlyfLoca(transformed[:20], 6)
	assert.ErrorIs(t, err, OffsetOutOfBounds)
}

func TestReconstructGlyfExhaustedGlyphStream(t *testing.T) {
	transformed, _, _ := transformedGlyf()
	// claim 5 points for the triangle while only 3 flags exist
	pos := glyfTransformHeaderSize + 4
	transformed[pos] = 5
	_, _, err := reconstructGlyfLoca(transformed, 6)
	assert.ErrorIs(t, err, OffsetOutOfBounds)
}

func TestWOFF2TransformedTables(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsys.ot")
	defer teardown()
	//
	b := fonttest.Regular("Glyphs")
	b.NumGlyphs = 2
	tables := b.Tables()
	transformed, expGlyf, expLoca := transformedGlyf()
	hmtx := []byte{0x03, 0x01, 0xf4} // both lsb arrays omitted, advance 500
	//
	var dir, stream []byte
	add := func(tag string, data []byte) {
		dir = append(dir, fonttest.Woff2DirEntry(tag, uint32(len(data)))...)
		stream = append(stream, data...)
	}
	add("head", tables["head"])
	add("hhea", tables["hhea"])
	add("maxp", tables["maxp"])
	dir = append(dir, 0x40|3) // hmtx, transform version 1
	dir = fonttest.AppendBase128(dir, 6)
	dir = fonttest.AppendBase128(dir, uint32(len(hmtx)))
	stream = append(stream, hmtx...)
	dir = append(dir, 10) // glyf, transform version 0
	dir = fonttest.AppendBase128(dir, uint32(len(expGlyf)))
	dir = fonttest.AppendBase128(dir, uint32(len(transformed)))
	stream = append(stream, transformed...)
	dir = append(dir, 11) // loca, transform version 0
	dir = fonttest.AppendBase128(dir, uint32(len(expLoca)))
	dir = fonttest.AppendBase128(dir, 0)
	//
	data := fonttest.Woff2Container(fonttest.FlavorTrueType, 6, 0, dir, fonttest.Brotli(stream), "")
	otf, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, ContainerWOFF2, otf.Container())
	assert.Equal(t, expGlyf, otf.Table(T("glyf")).Binary())
	assert.Equal(t, expLoca, otf.Table(T("loca")).Binary())
	assert.Equal(t, []byte{0x01, 0xf4, 0, 0, 0, 10}, otf.Table(T("hmtx")).Binary())
	assert.Empty(t, otf.Warnings())
}

// --- Variable-length integers ----------------------------------------------

func TestUIntBase128(t *testing.T) {
	tests := []struct {
		in   []byte
		n    uint32
		fail bool
	}{
		{[]byte{0x3f}, 63, false},
		{[]byte{0x81, 0x00}, 128, false},
		{[]byte{0x8f, 0xff, 0xff, 0xff, 0x7f}, math.MaxUint32, false},
		{[]byte{0x80, 0x01}, 0, true},                   // leading zero
		{[]byte{0xff, 0xff, 0xff, 0xff, 0x7f}, 0, true}, // overflow
		{[]byte{0x81, 0x81, 0x81, 0x81, 0x81, 0x01}, 0, true},
		{[]byte{0x81}, 0, true}, // truncated
	}
	for _, tt := range tests {
		n, ok := newStream(tt.in).uintBase128()
		assert.Equal(t, !tt.fail, ok, "input % x", tt.in)
		assert.Equal(t, tt.n, n, "input % x", tt.in)
	}
	for _, n := range []uint32{0, 1, 127, 128, 16383, 16384, 1 << 21, math.MaxUint32} {
		got, ok := newStream(fonttest.AppendBase128(nil, n)).uintBase128()
		assert.True(t, ok)
		assert.Equal(t, n, got)
	}
}

func TestRead255UInt16(t *testing.T) {
	tests := []struct {
		in []byte
		n  uint16
	}{
		{[]byte{100}, 100},
		{[]byte{252}, 252},
		{[]byte{253, 0x01, 0x00}, 256},
		{[]byte{255, 5}, 258},
		{[]byte{254, 0}, 506},
		{[]byte{254, 10}, 516},
	}
	for _, tt := range tests {
		s := newStream(tt.in)
		assert.Equal(t, tt.n, s.u255(), "input % x", tt.in)
		assert.NoError(t, s.err)
	}
	s := newStream([]byte{253, 1})
	s.u255()
	assert.Error(t, s.err)
}
