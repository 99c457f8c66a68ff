package shape

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"unicode/utf8"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/font/opentype"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"github.com/npillmayer/fontsys"
	"github.com/npillmayer/fontsys/ot"
	"github.com/npillmayer/fontsys/registry"
	"golang.org/x/image/math/fixed"
	xlanguage "golang.org/x/text/language"
	"golang.org/x/text/unicode/bidi"
)

// Shaper shapes text with registry faces. It keeps the parsed font of every
// face it has seen. A Shaper is not safe for concurrent use.
type Shaper struct {
	fonts map[*registry.FontFace]*font.Font
	hb    shaping.HarfbuzzShaper
}

// New creates a shaper.
func New() *Shaper {
	return &Shaper{fonts: make(map[*registry.FontFace]*font.Font)}
}

// Shape shapes text as a single run at a size in pixels per em.
// Clusters of the result are byte offsets into text.
func (s *Shaper) Shape(face *registry.FontFace, text string, size float32,
	opts fontsys.ShapeOptions) (*fontsys.ShapedText, error) {
	//
	st := &fontsys.ShapedText{Font: face.ID(), Size: size}
	if text == "" {
		return st, nil
	}
	f, err := s.font(face)
	if err != nil {
		return nil, err
	}
	runes := []rune(text)
	input := shaping.Input{
		Text:         runes,
		RunStart:     0,
		RunEnd:       len(runes),
		Direction:    direction(opts.Direction),
		Face:         font.NewFace(f),
		FontFeatures: features(opts),
		Size:         fixed.Int26_6(size*64 + 0.5),
		Script:       script(opts.Script, runes),
		Language:     language.NewLanguage(opts.Language.String()),
	}
	out := s.hb.Shape(input)
	tracer().Debugf("shaped %d runes into %d glyphs", len(runes), len(out.Glyphs))
	offsets := byteOffsets(text)
	vertical := input.Direction.IsVertical()
	st.Glyphs = make([]fontsys.ShapedGlyph, len(out.Glyphs))
	for i, g := range out.Glyphs {
		adv := float32(g.Advance) / 64
		if r := runes[g.ClusterIndex]; r == ' ' || r == '\u00a0' {
			adv += opts.WordSpacing
		}
		adv += opts.LetterSpacing
		sg := fontsys.ShapedGlyph{
			GID:     ot.GlyphIndex(g.GlyphID),
			Cluster: offsets[g.ClusterIndex],
			XOffset: float32(g.XOffset) / 64,
			YOffset: float32(g.YOffset) / 64,
		}
		if vertical {
			sg.YAdvance = adv
		} else {
			sg.XAdvance = adv
		}
		st.Glyphs[i] = sg
		st.Advance += adv
	}
	return st, nil
}

// Forget drops the parsed font kept for a face.
func (s *Shaper) Forget(face *registry.FontFace) {
	delete(s.fonts, face)
}

func (s *Shaper) font(face *registry.FontFace) (*font.Font, error) {
	if f, ok := s.fonts[face]; ok {
		return f, nil
	}
	bin, err := face.SFNT()
	if err != nil {
		return nil, err
	}
	parsed, err := font.ParseTTF(bytes.NewReader(bin))
	if err != nil {
		tracer().Errorf("cannot prepare %s for shaping: %v", face, err)
		return nil, fmt.Errorf("shaping %s: %w", face, err)
	}
	s.fonts[face] = parsed.Font
	return parsed.Font, nil
}

func direction(dir bidi.Direction) di.Direction {
	if dir == bidi.RightToLeft {
		return di.DirectionRTL
	}
	return di.DirectionLTR
}

// script converts a script to its go-text counterpart. The zero script
// selects the script of the first letter of the text.
func script(sc xlanguage.Script, runes []rune) language.Script {
	if sc != (xlanguage.Script{}) {
		if s, err := language.ParseScript(sc.String()); err == nil {
			return s
		}
	}
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

// features lists the OpenType features to switch on or off. Explicit
// features take precedence over the kerning and ligature flags.
func features(opts fontsys.ShapeOptions) []shaping.FontFeature {
	values := make(map[string]uint32, len(opts.Features)+3)
	if !opts.Kerning {
		values["kern"] = 0
	}
	if !opts.Ligatures {
		values["liga"] = 0
		values["clig"] = 0
	}
	for tag, v := range opts.Features {
		if len(tag) > 4 || tag == "" {
			tracer().Infof("ignoring invalid feature tag %q", tag)
			continue
		}
		values[tag] = v
	}
	var ff []shaping.FontFeature
	for _, tag := range slices.Sorted(maps.Keys(values)) {
		t := (tag + "    ")[:4]
		ff = append(ff, shaping.FontFeature{
			Tag:   opentype.NewTag(t[0], t[1], t[2], t[3]),
			Value: values[tag],
		})
	}
	return ff
}

// byteOffsets maps rune indices of text to byte offsets. The extra last
// entry is len(text).
func byteOffsets(text string) []int {
	offsets := make([]int, 0, utf8.RuneCountInString(text)+1)
	for i := range text {
		offsets = append(offsets, i)
	}
	return append(offsets, len(text))
}
