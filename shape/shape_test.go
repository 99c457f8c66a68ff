package shape

import (
	"testing"

	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/font/opentype"
	"github.com/go-text/typesetting/language"
	"github.com/npillmayer/fontsys"
	"github.com/npillmayer/fontsys/internal/fontload"
	"github.com/npillmayer/fontsys/internal/fonttest"
	"github.com/npillmayer/fontsys/registry"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xlanguage "golang.org/x/text/language"
)

func TestByteOffsets(t *testing.T) {
	assert.Equal(t, []int{0, 1, 3, 4, 5}, byteOffsets("aé b"))
	assert.Equal(t, []int{0}, byteOffsets(""))
}

func TestScriptSelection(t *testing.T) {
	assert.Equal(t, language.Latin, script(xlanguage.Script{}, []rune(" abc")))
	assert.Equal(t, language.Arabic, script(xlanguage.Script{}, []rune("سلام")))
	assert.Equal(t, language.Latin, script(xlanguage.Script{}, nil))
	assert.Equal(t, language.Greek, script(xlanguage.MustParseScript("Grek"), []rune("abc")))
}

func TestFeatureList(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsys.shape")
	defer teardown()
	//
	opts := fontsys.DefaultShapeOptions()
	assert.Empty(t, features(opts))
	opts.Kerning, opts.Ligatures = false, false
	opts.Features = map[string]uint32{"smcp": 1, "liga": 1, "toolong": 1}
	ff := features(opts)
	require.Len(t, ff, 4)
	// sorted by tag: clig, kern, liga, smcp
	assert.Equal(t, opentype.MustNewTag("clig"), ff[0].Tag)
	assert.Equal(t, uint32(0), ff[1].Value)
	assert.Equal(t, opentype.MustNewTag("liga"), ff[2].Tag)
	assert.Equal(t, uint32(1), ff[2].Value, "explicit features win")
	assert.Equal(t, opentype.MustNewTag("smcp"), ff[3].Tag)
}

func loadSystemFace(t *testing.T) *registry.FontFace {
	t.Helper()
	path := fontload.FindTestFont()
	if path == "" {
		t.Skip("no TrueType font installed")
	}
	reg := registry.New()
	id, err := reg.LoadFontFile(path)
	require.NoError(t, err)
	face, _ := reg.FontFace(id)
	return face
}

func TestShapeLatin(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsys.shape")
	defer teardown()
	//
	face := loadSystemFace(t)
	s := New()
	opts := fontsys.DefaultShapeOptions()
	opts.Ligatures = false
	st, err := s.Shape(face, "Hé o", 20, opts)
	require.NoError(t, err)
	require.Len(t, st.Glyphs, 4)
	assert.Equal(t, face.ID(), st.Font)
	assert.Equal(t, face.CMap().Lookup('H'), st.Glyphs[0].GID)
	clusters := []int{}
	var sum float32
	for _, g := range st.Glyphs {
		clusters = append(clusters, g.Cluster)
		sum += g.XAdvance
	}
	assert.Equal(t, []int{0, 1, 3, 4}, clusters)
	assert.InDelta(t, sum, st.Advance, 1e-3)
	assert.True(t, st.Advance > 0)
	//
	opts.LetterSpacing = 2
	opts.WordSpacing = 5
	spaced, err := s.Shape(face, "Hé o", 20, opts)
	require.NoError(t, err)
	assert.InDelta(t, st.Advance+4*2+5, spaced.Advance, 1e-3)
}

func TestShapeEmptyText(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsys.shape")
	defer teardown()
	//
	face := loadSystemFace(t)
	st, err := New().Shape(face, "", 12, fontsys.DefaultShapeOptions())
	require.NoError(t, err)
	assert.Empty(t, st.Glyphs)
	assert.Equal(t, float32(0), st.Advance)
}

func TestForgetDropsParsedFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsys.shape")
	defer teardown()
	//
	reg := registry.New()
	a, err := reg.LoadFontData(fonttest.Regular("Kept").SFNT())
	require.NoError(t, err)
	b, err := reg.LoadFontData(fonttest.Regular("Dropped").SFNT())
	require.NoError(t, err)
	kept, _ := reg.FontFace(a)
	dropped, _ := reg.FontFace(b)
	s := New()
	s.fonts[kept] = &font.Font{}
	s.fonts[dropped] = &font.Font{}
	s.Forget(dropped)
	assert.Len(t, s.fonts, 1)
	assert.Contains(t, s.fonts, kept)
	s.Forget(dropped) // no-op
	assert.Len(t, s.fonts, 1)
}
