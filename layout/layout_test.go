package layout

import (
	"math"
	"testing"

	"github.com/npillmayer/fontsys"
	"github.com/npillmayer/fontsys/internal/fonttest"
	"github.com/npillmayer/fontsys/otquery"
	"github.com/npillmayer/fontsys/registry"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// metrics has a line height of 10 pixels.
var metrics = otquery.ScaledMetrics{Size: 10, Ascent: 8, Descent: -2}

// monospaced shapes every rune of text to a glyph of advance adv.
func monospaced(text string, adv float32) *fontsys.ShapedText {
	st := &fontsys.ShapedText{Size: 10}
	for i := range text {
		st.Glyphs = append(st.Glyphs, fontsys.ShapedGlyph{GID: 1, Cluster: i, XAdvance: adv})
		st.Advance += adv
	}
	return st
}

func options(inlineSize float32, align Alignment) Options {
	return Options{InlineSize: inlineSize, Align: align, LineSpacing: 1}
}

func lineTexts(text string, par *Paragraph) []string {
	var out []string
	for _, l := range par.Lines {
		out = append(out, text[l.Start:l.End])
	}
	return out
}

func advances(l Line) (sum float32) {
	for _, g := range l.Glyphs {
		sum += g.XAdvance
	}
	return
}

func TestBreaks(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsys.layout")
	defer teardown()
	//
	assert.Equal(t, []Break{{Offset: 6}}, Breaks("Hello world"))
	assert.Equal(t, []Break{{Offset: 4, Mandatory: true}, {Offset: 8}}, Breaks("one\ntwo three"))
	assert.Equal(t, []Break{{Offset: 5}}, Breaks("well-known"))
	assert.Equal(t, []Break{{Offset: 8}}, Breaks("Grüße welt"), "offsets are in bytes")
	assert.Equal(t, []Break{{Offset: 14}}, Breaks("non\u00a0breaking space"))
	assert.Equal(t, []Break{{Offset: 3}, {Offset: 6}, {Offset: 9}, {Offset: 12}}, Breaks("一二三四五"))
	assert.Empty(t, Breaks("word"))
	assert.Empty(t, Breaks("trailing\n"), "end of text is not reported")
	assert.Nil(t, Breaks(""))
}

func TestWrapAtInlineSize(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsys.layout")
	defer teardown()
	//
	text := "aaa bbb ccc"
	par, err := Layout(text, monospaced(text, 10), metrics, options(75, AlignStart))
	require.NoError(t, err)
	require.Equal(t, []string{"aaa bbb ", "ccc"}, lineTexts(text, par))
	assert.Len(t, par.Lines[0].Glyphs, 8)
	assert.Equal(t, float32(70), par.Lines[0].Length, "trailing space hangs")
	assert.Equal(t, float32(70), advances(par.Lines[0]))
	assert.Equal(t, float32(30), par.Lines[1].Length)
	assert.Equal(t, float32(8), par.Lines[0].Y)
	assert.Equal(t, float32(18), par.Lines[1].Y)
	assert.Equal(t, float32(70), par.Width)
	assert.Equal(t, float32(20), par.Height)
	assert.False(t, par.Overflow)
	//
	par, err = Layout(text, monospaced(text, 10), metrics, options(70, AlignStart))
	require.NoError(t, err)
	assert.Len(t, par.Lines, 2, "a line may be filled exactly")
	par, err = Layout(text, monospaced(text, 10), metrics, options(69, AlignStart))
	require.NoError(t, err)
	assert.Equal(t, []string{"aaa ", "bbb ", "ccc"}, lineTexts(text, par))
	par, err = Layout(text, monospaced(text, 10), metrics, options(1000, AlignStart))
	require.NoError(t, err)
	assert.Equal(t, []string{text}, lineTexts(text, par))
}

func TestWrapHardBreaks(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsys.layout")
	defer teardown()
	//
	text := "ab\n\ncd"
	par, err := Layout(text, monospaced(text, 10), metrics, options(1000, AlignStart))
	require.NoError(t, err)
	require.Equal(t, []string{"ab\n", "\n", "cd"}, lineTexts(text, par))
	assert.True(t, par.Lines[0].HardBreak)
	assert.True(t, par.Lines[1].HardBreak)
	assert.False(t, par.Lines[2].HardBreak)
	assert.Equal(t, float32(20), par.Lines[0].Length)
	assert.Zero(t, par.Lines[1].Length, "empty line")
	assert.Equal(t, float32(30), par.Height)
}

func TestWrapOverlongWord(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsys.layout")
	defer teardown()
	//
	text := "x abcdefgh ij"
	par, err := Layout(text, monospaced(text, 10), metrics, options(35, AlignStart))
	require.NoError(t, err)
	assert.Equal(t, []string{"x ", "abc", "def", "gh ", "ij"}, lineTexts(text, par))
	for _, l := range par.Lines {
		assert.LessOrEqual(t, l.Length, float32(35))
	}
	// a single cluster wider than a line gets a line of its own
	par, err = Layout("ab", monospaced("ab", 50), metrics, options(35, AlignStart))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, lineTexts("ab", par))
	assert.Equal(t, float32(50), par.Width)
}

func TestAlignment(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsys.layout")
	defer teardown()
	//
	text := "aaa bbb ccc"
	tests := []struct {
		align     Alignment
		x0, x1, w float32
	}{
		{AlignStart, 0, 0, 70},
		{AlignEnd, 5, 45, 75},
		{AlignCenter, 2.5, 22.5, 72.5},
	}
	for _, tc := range tests {
		par, err := Layout(text, monospaced(text, 10), metrics, options(75, tc.align))
		require.NoError(t, err)
		require.Len(t, par.Lines, 2)
		assert.Equal(t, tc.x0, par.Lines[0].X, tc.align.String())
		assert.Equal(t, tc.x1, par.Lines[1].X, tc.align.String())
		assert.Equal(t, tc.w, par.Width, tc.align.String())
	}
	// lines longer than the inline size start at 0
	par, err := Layout("ab", monospaced("ab", 50), metrics, options(35, AlignEnd))
	require.NoError(t, err)
	assert.Zero(t, par.Lines[0].X)
}

func TestJustify(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsys.layout")
	defer teardown()
	//
	text := "aa bb cc dd ee"
	st := monospaced(text, 10)
	par, err := Layout(text, st, metrics, options(95, AlignJustify))
	require.NoError(t, err)
	require.Equal(t, []string{"aa bb cc ", "dd ee"}, lineTexts(text, par))
	first := par.Lines[0]
	assert.Equal(t, float32(95), first.Length)
	assert.Equal(t, float32(95), advances(first))
	assert.Equal(t, float32(17.5), first.Glyphs[2].XAdvance, "15 pixels over 2 gaps")
	assert.Equal(t, float32(17.5), first.Glyphs[5].XAdvance)
	assert.Zero(t, first.Glyphs[8].XAdvance, "trailing space hangs")
	assert.Zero(t, first.X)
	last := par.Lines[1]
	assert.Equal(t, float32(50), last.Length, "last line is not justified")
	assert.Zero(t, last.X)
	assert.Equal(t, float32(10), st.Glyphs[2].XAdvance, "shaped text is unchanged")
	//
	text = "aa bb\ncc dd"
	par, err = Layout(text, monospaced(text, 10), metrics, options(100, AlignJustify))
	require.NoError(t, err)
	require.Len(t, par.Lines, 2)
	assert.Equal(t, float32(50), par.Lines[0].Length, "hard breaks end a paragraph")
	//
	text = "abcdef gh"
	par, err = Layout(text, monospaced(text, 10), metrics, options(65, AlignJustify))
	require.NoError(t, err)
	require.Len(t, par.Lines, 2)
	assert.Equal(t, float32(60), par.Lines[0].Length, "no gaps to widen")
}

func TestRightToLeftGlyphOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsys.layout")
	defer teardown()
	//
	text := "ab cd"
	st := &fontsys.ShapedText{Size: 10}
	for i := len(text) - 1; i >= 0; i-- {
		st.Glyphs = append(st.Glyphs, fontsys.ShapedGlyph{GID: 1, Cluster: i, XAdvance: 10})
	}
	par, err := Layout(text, st, metrics, options(25, AlignEnd))
	require.NoError(t, err)
	require.Equal(t, []string{"ab ", "cd"}, lineTexts(text, par))
	var clusters []int
	for _, g := range par.Lines[0].Glyphs {
		clusters = append(clusters, g.Cluster)
	}
	assert.Equal(t, []int{2, 1, 0}, clusters, "visual order is kept")
	assert.Zero(t, par.Lines[0].Glyphs[0].XAdvance)
	assert.Equal(t, float32(5), par.Lines[0].X)
}

func TestVerticalColumns(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsys.layout")
	defer teardown()
	//
	text := "一二三四五"
	st := &fontsys.ShapedText{Size: 10}
	for i := range text {
		st.Glyphs = append(st.Glyphs, fontsys.ShapedGlyph{GID: 1, Cluster: i, YAdvance: 10})
	}
	opts := options(25, AlignStart)
	opts.Vertical = true
	par, err := Layout(text, st, metrics, opts)
	require.NoError(t, err)
	require.Equal(t, []string{"一二", "三四", "五"}, lineTexts(text, par))
	assert.Equal(t, []float32{25, 15, 5},
		[]float32{par.Lines[0].X, par.Lines[1].X, par.Lines[2].X}, "right to left")
	assert.Equal(t, float32(30), par.Width)
	assert.Equal(t, float32(20), par.Height)
	//
	opts.Align = AlignEnd
	par, err = Layout(text, st, metrics, opts)
	require.NoError(t, err)
	assert.Equal(t, float32(5), par.Lines[0].Y)
	assert.Equal(t, float32(15), par.Lines[2].Y)
	// horizontally shaped glyphs are set in em boxes
	par, err = Layout(text, monospaced(text, 7), metrics, opts)
	require.NoError(t, err)
	assert.Len(t, par.Lines, 3)
	assert.Equal(t, float32(20), par.Lines[0].Length)
}

func TestOverflow(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsys.layout")
	defer teardown()
	//
	text := "aaa bbb"
	opts := options(35, AlignStart)
	opts.BlockSize = 15
	par, err := Layout(text, monospaced(text, 10), metrics, opts)
	require.NoError(t, err)
	assert.Len(t, par.Lines, 2, "overflowing lines are kept")
	assert.True(t, par.Overflow)
	opts.BlockSize = 20
	par, err = Layout(text, monospaced(text, 10), metrics, opts)
	require.NoError(t, err)
	assert.False(t, par.Overflow)
	//
	opts.LineSpacing = 1.5
	par, err = Layout(text, monospaced(text, 10), metrics, opts)
	require.NoError(t, err)
	assert.Equal(t, float32(23), par.Lines[1].Y)
	assert.True(t, par.Overflow)
}

func TestLayoutErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsys.layout")
	defer teardown()
	//
	st := monospaced("ab", 10)
	nan := float32(math.NaN())
	for _, opts := range []Options{
		{InlineSize: 0, LineSpacing: 1},
		{InlineSize: nan, LineSpacing: 1},
		{InlineSize: 10, LineSpacing: 0},
		{InlineSize: 10, LineSpacing: 1, BlockSize: -1},
		{InlineSize: 10, LineSpacing: 1, Align: AlignJustify + 1},
	} {
		_, err := Layout("ab", st, metrics, opts)
		assert.ErrorIs(t, err, ErrInvalidOptions, "%+v", opts)
	}
	_, err := Layout("ab", nil, metrics, DefaultOptions(10))
	assert.Error(t, err)
	par, err := Layout("", &fontsys.ShapedText{}, metrics, DefaultOptions(10))
	require.NoError(t, err)
	assert.Empty(t, par.Lines)
}

func TestParseAlignment(t *testing.T) {
	for a := AlignStart; a <= AlignJustify; a++ {
		parsed, ok := ParseAlignment(a.String())
		assert.True(t, ok)
		assert.Equal(t, a, parsed)
	}
	a, ok := ParseAlignment("Center")
	assert.True(t, ok)
	assert.Equal(t, AlignCenter, a)
	_, ok = ParseAlignment("left")
	assert.False(t, ok)
}

// byteShaper maps every byte of the text to glyph 1 of width size/2.
type byteShaper struct{}

func (byteShaper) Shape(face *registry.FontFace, text string, size float32,
	opts fontsys.ShapeOptions) (*fontsys.ShapedText, error) {
	//
	st := &fontsys.ShapedText{Font: face.ID(), Size: size}
	for i := range len(text) {
		st.Glyphs = append(st.Glyphs, fontsys.ShapedGlyph{GID: 1, Cluster: i, XAdvance: size / 2})
		st.Advance += size / 2
	}
	return st, nil
}

func TestTextThroughFontSystem(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsys.layout")
	defer teardown()
	//
	fsys := fontsys.New(fontsys.WithShaper(byteShaper{}))
	id, err := fsys.LoadFontData(fonttest.Regular("Wrap").SFNT())
	require.NoError(t, err)
	par, err := Text(fsys, id, "aaa bbb", 20, fontsys.DefaultShapeOptions(), DefaultOptions(35))
	require.NoError(t, err)
	assert.Equal(t, []string{"aaa ", "bbb"}, lineTexts("aaa bbb", par))
	metrics, _ := fsys.FontMetrics(id, 20)
	assert.InDelta(t, metrics.Ascent, par.Lines[0].Y, 1e-4)
	assert.InDelta(t, metrics.Ascent+1.2*metrics.LineHeight(), par.Lines[1].Y, 1e-4)
	//
	_, err = Text(fsys, id+1, "aaa", 20, fontsys.DefaultShapeOptions(), DefaultOptions(35))
	assert.ErrorIs(t, err, fontsys.ErrFontNotFound)
}
