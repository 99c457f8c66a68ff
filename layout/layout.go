package layout

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/npillmayer/fontsys"
	"github.com/npillmayer/fontsys/otquery"
	"github.com/npillmayer/fontsys/registry"
)

// ErrInvalidOptions is returned for layout options which cannot be satisfied.
var ErrInvalidOptions = errors.New("invalid layout options")

// Alignment positions lines along the inline axis.
type Alignment uint8

const (
	AlignStart Alignment = iota // left, or top for vertical text
	AlignEnd                    // right, or bottom for vertical text
	AlignCenter
	AlignJustify // widen spaces; last lines of paragraphs are start aligned
)

var alignmentNames = [...]string{"start", "end", "center", "justify"}

func (a Alignment) String() string {
	if int(a) < len(alignmentNames) {
		return alignmentNames[a]
	}
	return fmt.Sprintf("Alignment(%d)", a)
}

// ParseAlignment converts the name of an alignment, as returned by
// Alignment.String, to an Alignment.
func ParseAlignment(name string) (Alignment, bool) {
	for i, n := range alignmentNames {
		if strings.EqualFold(name, n) {
			return Alignment(i), true
		}
	}
	return AlignStart, false
}

// Options configures paragraph layout. Sizes are in pixels.
type Options struct {
	InlineSize  float32 // maximum line length, must be positive
	BlockSize   float32 // paragraph extent across lines, 0 for no limit
	Align       Alignment
	LineSpacing float32 // multiple of the font's line height
	Vertical    bool    // columns top to bottom, progressing right to left
}

// DefaultOptions returns options for start aligned lines of a given length.
func DefaultOptions(inlineSize float32) Options {
	return Options{InlineSize: inlineSize, LineSpacing: 1.2}
}

func (opts Options) validate() error {
	switch {
	case !(opts.InlineSize > 0) || math.IsInf(float64(opts.InlineSize), 1):
		return fmt.Errorf("inline size %g: %w", opts.InlineSize, ErrInvalidOptions)
	case !(opts.BlockSize >= 0):
		return fmt.Errorf("block size %g: %w", opts.BlockSize, ErrInvalidOptions)
	case !(opts.LineSpacing > 0) || math.IsInf(float64(opts.LineSpacing), 1):
		return fmt.Errorf("line spacing %g: %w", opts.LineSpacing, ErrInvalidOptions)
	case opts.Align > AlignJustify:
		return fmt.Errorf("%v: %w", opts.Align, ErrInvalidOptions)
	}
	return nil
}

// Line is a line of a paragraph, or a column of vertical text.
//
// Glyphs are copies of the shaped glyphs, in the order of the shaped text.
// Trailing whitespace hangs: its advance is set to zero. For justified lines
// the advances of the spaces between words are widened.
type Line struct {
	Glyphs     []fontsys.ShapedGlyph
	Start, End int     // byte range of the text
	Length     float32 // extent along the inline axis, without hanging whitespace
	// Pen origin of the first glyph. For horizontal text, X is the alignment
	// offset and Y the baseline, measured from the top of the paragraph. For
	// vertical text, X is the center of the column and Y the alignment offset.
	X, Y      float32
	HardBreak bool // line ends at a mandatory break
}

// Paragraph is the result of a layout.
type Paragraph struct {
	Lines         []Line
	Width, Height float32
	Overflow      bool // extent across lines exceeds Options.BlockSize
}

// Text shapes a text with a face of a font system and lays it out.
func Text(fsys *fontsys.FontSystem, id registry.FontID, text string, size float32,
	shapeOpts fontsys.ShapeOptions, opts Options) (*Paragraph, error) {
	//
	metrics, ok := fsys.FontMetrics(id, size)
	if !ok {
		return nil, fmt.Errorf("font #%d: %w", id, fontsys.ErrFontNotFound)
	}
	st, err := fsys.ShapeText(id, text, size, shapeOpts)
	if err != nil {
		return nil, err
	}
	return Layout(text, st, metrics, opts)
}

// Layout breaks shaped text into lines and positions them. st has to be the
// result of shaping text; it is not modified. metrics provide the distance
// of baselines and are expected to be scaled to the size of st.
func Layout(text string, st *fontsys.ShapedText, metrics otquery.ScaledMetrics,
	opts Options) (*Paragraph, error) {
	//
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if st == nil {
		return nil, errors.New("layout: missing shaped text")
	}
	par := &Paragraph{}
	if text == "" || len(st.Glyphs) == 0 {
		return par, nil
	}
	em := metrics.Ascent - metrics.Descent
	if !(em > 0) {
		em = st.Size
	}
	b := newBuilder(text, st.Glyphs, opts.Vertical, em)
	spans := b.wrap(b.segments(Breaks(text)), opts.InlineSize)
	par.Lines = b.lines(spans, opts)
	tracer().Debugf("laid out %d glyphs in %d lines", len(st.Glyphs), len(par.Lines))

	advance := metrics.LineHeight() * opts.LineSpacing
	if !(advance > 0) {
		advance = em * opts.LineSpacing
	}
	n := float32(len(par.Lines))
	for i := range par.Lines {
		l := &par.Lines[i]
		offset := inlineOffset(l.Length, opts)
		if opts.Vertical {
			l.X = (n - float32(i) - 0.5) * advance
			l.Y = offset
			par.Height = max(par.Height, offset+l.Length)
		} else {
			l.X = offset
			l.Y = metrics.Ascent + float32(i)*advance
			par.Width = max(par.Width, offset+l.Length)
		}
	}
	block := n * advance
	if opts.Vertical {
		par.Width = block
	} else {
		par.Height = block
	}
	par.Overflow = opts.BlockSize > 0 && block > opts.BlockSize
	return par, nil
}

func inlineOffset(length float32, opts Options) float32 {
	free := max(opts.InlineSize-length, 0)
	switch opts.Align {
	case AlignEnd:
		return free
	case AlignCenter:
		return free / 2
	}
	return 0
}

// --- Line breaking ---------------------------------------------------------

// cluster is a group of glyphs sharing a cluster offset.
type cluster struct {
	start   int
	extent  float32
	space   bool // whitespace, hangs at the end of a line
	stretch bool // space separator, widened by justification
}

// span is a range of clusters: a segment between break opportunities, a
// piece of an overlong segment, or a line.
type span struct {
	start, end int // byte range
	c0, c1     int // cluster range
	length     float32
	trailing   float32 // extent of trailing whitespace
	hard       bool
}

type builder struct {
	text     string
	glyphs   []fontsys.ShapedGlyph
	vertical bool
	em       float32
	clusters []cluster
	index    map[int]int // cluster offset → index into clusters
}

func newBuilder(text string, glyphs []fontsys.ShapedGlyph, vertical bool, em float32) *builder {
	b := &builder{text: text, glyphs: glyphs, vertical: vertical, em: em}
	extents := make(map[int]float32)
	for _, g := range glyphs {
		extents[b.clusterOf(g)] += b.extent(g)
	}
	b.index = make(map[int]int, len(extents))
	for _, start := range slices.Sorted(maps.Keys(extents)) {
		r, _ := utf8.DecodeRuneInString(text[start:])
		b.index[start] = len(b.clusters)
		b.clusters = append(b.clusters, cluster{
			start:   start,
			extent:  extents[start],
			space:   unicode.IsSpace(r) && r != '\u00a0',
			stretch: unicode.Is(unicode.Zs, r),
		})
	}
	return b
}

func (b *builder) clusterOf(g fontsys.ShapedGlyph) int {
	return min(max(g.Cluster, 0), len(b.text)-1)
}

// extent is the advance of a glyph along the inline axis. Vertical text
// shaped horizontally is set in em boxes.
func (b *builder) extent(g fontsys.ShapedGlyph) float32 {
	if !b.vertical {
		return g.XAdvance
	}
	if g.YAdvance != 0 {
		return float32(math.Abs(float64(g.YAdvance)))
	}
	return b.em
}

// segments splits the clusters at break opportunities.
func (b *builder) segments(breaks []Break) []span {
	segs := make([]span, 0, len(breaks)+1)
	start, ci := 0, 0
	for _, br := range append(slices.Clip(breaks), Break{Offset: len(b.text)}) {
		s := span{start: start, end: br.Offset, c0: ci, hard: br.Mandatory}
		for ci < len(b.clusters) && b.clusters[ci].start < br.Offset {
			ci++
		}
		s.c1 = ci
		b.measure(&s)
		segs = append(segs, s)
		start = br.Offset
	}
	return segs
}

func (b *builder) measure(s *span) {
	s.length, s.trailing = 0, 0
	for _, c := range b.clusters[s.c0:s.c1] {
		if c.space {
			s.trailing += c.extent
		} else {
			s.length += s.trailing + c.extent
			s.trailing = 0
		}
	}
}

// pieces splits a segment between its clusters.
func (b *builder) pieces(s span) []span {
	out := make([]span, 0, s.c1-s.c0)
	for i := s.c0; i < s.c1; i++ {
		p := span{start: b.clusters[i].start, end: s.end, c0: i, c1: i + 1}
		if i == s.c0 {
			p.start = s.start
		}
		if i+1 < s.c1 {
			p.end = b.clusters[i+1].start
		} else {
			p.hard = s.hard
		}
		b.measure(&p)
		out = append(out, p)
	}
	return out
}

// wrap fills lines greedily. Trailing whitespace does not count against the
// limit. A segment which does not fit on a line of its own starts a new line
// and is broken between clusters.
func (b *builder) wrap(segs []span, limit float32) []span {
	var lines []span
	var cur span
	open := false
	flush := func() {
		if open {
			lines = append(lines, cur)
			open = false
		}
	}
	var add func(s span)
	add = func(s span) {
		if s.length > limit && s.c1-s.c0 > 1 {
			flush()
			for _, p := range b.pieces(s) {
				add(p)
			}
			return
		}
		if open && s.length > 0 && cur.length+cur.trailing+s.length > limit {
			flush()
		}
		if !open {
			cur, open = s, true
		} else {
			if s.length > 0 {
				cur.length += cur.trailing + s.length
				cur.trailing = s.trailing
			} else {
				cur.trailing += s.trailing
			}
			cur.end, cur.c1, cur.hard = s.end, s.c1, s.hard
		}
		if s.hard {
			flush()
		}
	}
	for _, s := range segs {
		add(s)
	}
	flush()
	return lines
}

// lines distributes the glyphs to the line spans and applies justification.
func (b *builder) lines(spans []span, opts Options) []Line {
	lines := make([]Line, len(spans))
	for i, s := range spans {
		lines[i] = Line{Start: s.start, End: s.end, HardBreak: s.hard}
	}
	for _, g := range b.glyphs {
		c := b.clusterOf(g)
		i := sort.Search(len(spans), func(i int) bool { return spans[i].end > c })
		i = min(i, len(spans)-1)
		lines[i].Glyphs = append(lines[i].Glyphs, g)
	}
	for i, s := range spans {
		hang := s.c1 // first cluster of trailing whitespace
		for hang > s.c0 && b.clusters[hang-1].space {
			hang--
		}
		var extra float32
		if opts.Align == AlignJustify && !opts.Vertical && !s.hard && i < len(spans)-1 {
			gaps := 0
			for _, c := range b.clusters[s.c0:hang] {
				if c.stretch {
					gaps++
				}
			}
			if free := opts.InlineSize - s.length; gaps > 0 && free > 0 {
				extra = free / float32(gaps)
			}
		}
		b.adjust(&lines[i], hang, extra)
	}
	return lines
}

// adjust zeroes the advances of hanging whitespace, widens stretchable
// spaces by extra and sums up the line length.
func (b *builder) adjust(l *Line, hang int, extra float32) {
	widened := make(map[int]bool)
	l.Length = 0
	for j := range l.Glyphs {
		g := &l.Glyphs[j]
		k := b.index[b.clusterOf(*g)]
		if k >= hang {
			g.XAdvance, g.YAdvance = 0, 0
			continue
		}
		if extra > 0 && b.clusters[k].stretch && !widened[k] {
			g.XAdvance += extra
			widened[k] = true
		}
		l.Length += b.extent(*g)
	}
}
