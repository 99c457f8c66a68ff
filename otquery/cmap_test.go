package otquery

import (
	"testing"

	"github.com/npillmayer/fontsys/internal/fonttest"
	"github.com/npillmayer/fontsys/ot"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cmapPairs(cm *CMap) ([]rune, []ot.GlyphIndex) {
	var runes []rune
	var glyphs []ot.GlyphIndex
	for r, g := range cm.All() {
		runes = append(runes, r)
		glyphs = append(glyphs, g)
	}
	return runes, glyphs
}

func TestCMapFormats(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsys.otquery")
	defer teardown()
	//
	for _, format := range []uint16{0, 4, 6, 12} {
		b := fonttest.Regular("Formats")
		b.CMapFormat = format
		b.CMap = map[rune]uint16{'A': 1, 'B': 2, 'C': 3, 'a': 5}
		b.NumGlyphs = 6
		otf := parseFont(t, b.SFNT())
		cm, err := ReadCMap(otf, 6)
		require.NoError(t, err, "format %d", format)
		assert.Equal(t, 4, cm.Len(), "format %d", format)
		runes, glyphs := cmapPairs(cm)
		assert.Equal(t, []rune{'A', 'B', 'C', 'a'}, runes, "format %d", format)
		assert.Equal(t, []ot.GlyphIndex{1, 2, 3, 5}, glyphs, "format %d", format)
		assert.Equal(t, ot.GlyphIndex(2), cm.Lookup('B'), "format %d", format)
		assert.Equal(t, ot.GlyphIndex(0), cm.Lookup('D'), "format %d", format)
		assert.Equal(t, 'a', cm.ReverseLookup(5), "format %d", format)
		assert.Equal(t, rune(0), cm.ReverseLookup(4), "format %d", format)
	}
}

func TestCMapSupplementaryPlanes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsys.otquery")
	defer teardown()
	//
	b := fonttest.Regular("Emoji")
	b.CMapFormat = 12
	b.CMap = map[rune]uint16{'A': 1, 0x1F600: 2, 0x1F601: 3}
	cm, err := ReadCMap(parseFont(t, b.SFNT()), 4)
	require.NoError(t, err)
	assert.Equal(t, ot.GlyphIndex(2), cm.Lookup(0x1F600))
	assert.Equal(t, ot.GlyphIndex(3), cm.Lookup(0x1F601))
	assert.Equal(t, ot.GlyphIndex(0), cm.Lookup(0x1F602))
}

func TestCMapDropsInvalidGlyphs(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsys.otquery")
	defer teardown()
	//
	for _, format := range []uint16{4, 12} {
		b := fonttest.Regular("Dangling")
		b.CMapFormat = format
		b.CMap = map[rune]uint16{'A': 1, 'B': 9}
		cm, err := ReadCMap(parseFont(t, b.SFNT()), 4)
		require.NoError(t, err)
		assert.Equal(t, 1, cm.Len(), "format %d: glyph 9 is not in font", format)
		assert.Equal(t, ot.GlyphIndex(0), cm.Lookup('B'))
	}
}

func TestCMapMissing(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsys.otquery")
	defer teardown()
	//
	b := fonttest.Regular("Blank")
	b.Omit = []string{"cmap"}
	cm, err := ReadCMap(parseFont(t, b.SFNT()), 4)
	assert.Error(t, err)
	require.NotNil(t, cm)
	assert.Equal(t, 0, cm.Len())
	//
	b.Omit = nil
	b.Extra = map[string][]byte{"cmap": {0, 0, 0, 1, 0, 3, 0, 1, 0, 0, 0, 12, 0, 99}}
	cm, err = ReadCMap(parseFont(t, b.SFNT()), 4)
	assert.Error(t, err, "unsupported subtable format")
	assert.Equal(t, 0, cm.Len())
	//
	var none *CMap
	assert.Equal(t, ot.GlyphIndex(0), none.Lookup('A'))
	assert.Equal(t, 0, none.Len())
}

func TestCMapBuilderOverlaps(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsys.otquery")
	defer teardown()
	//
	b := &cmapBuilder{numGlyphs: 100}
	b.addRange('a', 'e', 10)
	b.addRange('c', 'g', 50)
	b.addRange('x', 'x', 0)
	cm := b.build()
	assert.Equal(t, 7, cm.Len())
	assert.Equal(t, ot.GlyphIndex(12), cm.Lookup('c'), "first run wins on overlap")
	assert.Equal(t, ot.GlyphIndex(53), cm.Lookup('f'))
	assert.Equal(t, ot.GlyphIndex(0), cm.Lookup('x'))
}
