package ot

import (
	"bytes"
	"testing"

	"github.com/npillmayer/fontsys/internal/fonttest"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func webFontBuilder() fonttest.Builder {
	b := fonttest.Regular("Webby")
	b.Extra = map[string][]byte{
		"zzzz": bytes.Repeat([]byte("compress me "), 100), // explicit tag in WOFF2
	}
	return b
}

func assertSameTables(t *testing.T, expected, actual *Font) {
	t.Helper()
	require.Equal(t, expected.TableTags(), actual.TableTags())
	for _, tag := range expected.TableTags() {
		want, got := expected.Table(tag).Binary(), actual.Table(tag).Binary()
		if tag == T("head") { // checkSumAdjustment differs
			want, got = want[12:], got[12:]
		}
		assert.Equal(t, want, got, "table %s differs", tag)
	}
}

func TestWOFFMatchesSFNT(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsys.ot")
	defer teardown()
	//
	b := webFontBuilder()
	sfnt, err := Parse(b.SFNT())
	require.NoError(t, err)
	woff, err := Parse(b.WOFF())
	require.NoError(t, err)
	assert.Equal(t, ContainerWOFF, woff.Container())
	assert.Equal(t, SignatureCFF, woff.Flavor())
	assertSameTables(t, sfnt, woff)
	assert.Empty(t, woff.Warnings())
}

func TestWOFFMetadata(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsys.ot")
	defer teardown()
	//
	meta := `<?xml version="1.0"?><metadata version="1.0"><vendor name="Test"/></metadata>`
	data := fonttest.WOFF(fonttest.FlavorCFF, webFontBuilder().Tables(), meta)
	otf, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, meta, otf.Metadata())
	assert.Empty(t, otf.Errors())
}

func TestWOFFBrokenMetadata(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsys.ot")
	defer teardown()
	//
	meta := `<metadata version="1.0"><vendor name="Test"/></metadata>`
	data := fonttest.WOFF(fonttest.FlavorCFF, webFontBuilder().Tables(), meta)
	putU32(data[32:], uint32(len(meta)+1)) // metaOrigLength
	otf, err := Parse(data)
	require.NoError(t, err)
	assert.Empty(t, otf.Metadata())
	require.Len(t, otf.Errors(), 1)
	ferr := otf.Errors()[0]
	assert.Equal(t, SeverityMinor, ferr.Severity)
	assert.Equal(t, "Metadata", ferr.Section)
	assert.Equal(t, Tag(SignatureWOFF), ferr.Table)
	assert.Contains(t, ferr.Error(), "[MINOR] wOFF/Metadata")
	//
	putU32(data[32:], MaxMetadata+1)
	otf, err = Parse(data)
	require.NoError(t, err)
	assert.Empty(t, otf.Metadata())
	require.Len(t, otf.Errors(), 1)
	assert.Contains(t, otf.Errors()[0].Issue, "exceeds limit")
}

// woffEntry returns the table directory entry for tag.
func woffEntry(t *testing.T, data []byte, tag string) []byte {
	n := int(u16(data[12:]))
	for i := 0; i < n; i++ {
		e := data[woffHeaderSize+i*woffEntrySize:]
		if string(e[:4]) == tag {
			return e[:woffEntrySize]
		}
	}
	t.Fatalf("no WOFF entry for %s", tag)
	return nil
}

func TestWOFFDecompressedLengthMismatch(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsys.ot")
	defer teardown()
	//
	for _, delta := range []int{-1, 1, 100} {
		data := webFontBuilder().WOFF()
		e := woffEntry(t, data, "zzzz")
		comp, orig := u32(e[8:]), u32(e[12:])
		require.Less(t, comp, orig, "expected table zzzz to be compressed")
		putU32(e[12:], uint32(int(orig)+delta))
		_, err := Parse(data)
		assert.ErrorIs(t, err, CorruptedData, "delta %d", delta)
	}
}

func TestWOFFInvalidHeaders(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsys.ot")
	defer teardown()
	//
	data := webFontBuilder().WOFF()
	putU32(data[8:], uint32(len(data)+4)) // length
	_, err := Parse(data)
	assert.ErrorIs(t, err, CorruptedData)
	//
	data = webFontBuilder().WOFF()
	putU16(data[14:], 1) // reserved
	_, err = Parse(data)
	assert.ErrorIs(t, err, CorruptedData)
	//
	data = webFontBuilder().WOFF()
	putU32(data[4:], SignatureCollection) // flavor
	_, err = Parse(data)
	assert.ErrorIs(t, err, InvalidFormat)
	//
	data = webFontBuilder().WOFF()
	e := woffEntry(t, data, "head")
	putU32(e[4:], uint32(len(data)-10)) // offset
	_, err = Parse(data)
	assert.ErrorIs(t, err, OffsetOutOfBounds)
	//
	data = webFontBuilder().WOFF()
	e = woffEntry(t, data, "head")
	putU32(e[12:], u32(e[8:])-1)
	_, err = Parse(data)
	assert.ErrorIs(t, err, CorruptedData)
}

func TestWOFFCorruptZlibStream(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsys.ot")
	defer teardown()
	//
	data := webFontBuilder().WOFF()
	e := woffEntry(t, data, "zzzz")
	off := u32(e[4:])
	data[off] ^= 0xff // break zlib header
	_, err := Parse(data)
	assert.ErrorIs(t, err, CorruptedData)
}
