package otquery

import (
	"testing"

	"github.com/npillmayer/fontsys/internal/fonttest"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestColorTables(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsys.otquery")
	defer teardown()
	//
	colr := []byte{0, 1, 0, 0, 0, 0, 0, 0}
	cpal := []byte{0, 0, 0, 4, 0, 2, 0, 8, 0, 0, 0, 0}
	tests := []struct {
		name      string
		tables    map[string][]byte
		formats   []ColorFormat
		preferred ColorFormat
	}{
		{"plain", nil, nil, ColorNone},
		{"COLR without CPAL", map[string][]byte{"COLR": colr}, nil, ColorNone},
		{"COLR", map[string][]byte{"COLR": colr, "CPAL": cpal}, []ColorFormat{ColorCOLR}, ColorCOLR},
		{"bitmaps", map[string][]byte{"CBDT": {0, 3, 0, 0}, "CBLC": {0, 3, 0, 0}, "sbix": {0, 1, 0, 0}},
			[]ColorFormat{ColorSbix, ColorCBDT}, ColorSbix},
		{"vector before bitmap", map[string][]byte{"SVG ": {0, 0, 0, 10}, "sbix": {0, 1, 0, 0}},
			[]ColorFormat{ColorSVG, ColorSbix}, ColorSVG},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := fonttest.Regular("Colorful")
			b.Extra = tc.tables
			info := ColorTables(parseFont(t, b.SFNT()))
			assert.Equal(t, tc.formats, info.Formats())
			assert.Equal(t, tc.preferred, info.PreferredFormat())
			assert.Equal(t, len(tc.formats) > 0, info.IsColor())
		})
	}
}

func TestColorTableDetails(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsys.otquery")
	defer teardown()
	//
	b := fonttest.Regular("Palette")
	b.Extra = map[string][]byte{
		"COLR": {0, 1, 0, 0, 0, 0, 0, 0},
		"CPAL": {0, 0, 0, 4, 0, 3, 0, 12, 0, 0, 0, 0},
	}
	info := ColorTables(parseFont(t, b.SFNT()))
	assert.True(t, info.HasCOLR)
	assert.True(t, info.HasCPAL)
	assert.Equal(t, uint16(1), info.COLRVersion)
	assert.Equal(t, 3, info.PaletteCount)
	assert.Equal(t, "COLR", info.PreferredFormat().String())
	assert.Equal(t, "none", ColorNone.String())
}
