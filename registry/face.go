package registry

import (
	"sync"

	"github.com/npillmayer/fontsys/ot"
	"github.com/npillmayer/fontsys/otquery"
)

// FontID identifies a face within a registry. IDs are assigned in load order
// and never reused.
type FontID uint32

// FontFace is a font face loaded into a registry. Its properties are
// immutable; faces may be shared between goroutines.
type FontFace struct {
	id        FontID
	source    *FontSource
	info      otquery.FaceInfo
	container ot.Container
	familyKey string // case-folded family name
	once      sync.Once
	otf       *ot.Font
	err       error
}

func newFace(src *FontSource, otf *ot.Font, info otquery.FaceInfo) *FontFace {
	face := &FontFace{
		source:    src,
		info:      info,
		container: otf.Container(),
		familyKey: foldFamily(info.Family),
	}
	if src.Kind() == SourceEmbedded {
		face.once.Do(func() { face.otf = otf })
	}
	return face
}

// ID returns the registry ID of the face.
func (face *FontFace) ID() FontID { return face.id }

// Family returns the typographic family name, or the legacy family name.
func (face *FontFace) Family() string { return face.info.Family }

// Subfamily returns the subfamily name, e.g. "Bold Italic".
func (face *FontFace) Subfamily() string { return face.info.Subfamily }

// FullName returns the full font name.
func (face *FontFace) FullName() string { return face.info.FullName }

// PostScriptName returns the PostScript name of the face.
func (face *FontFace) PostScriptName() string { return face.info.PostScriptName }

// Weight returns the CSS weight of the face.
func (face *FontFace) Weight() otquery.Weight { return face.info.Weight }

// Style returns the CSS style of the face.
func (face *FontFace) Style() otquery.Style { return face.info.Style }

// Stretch returns the CSS stretch of the face.
func (face *FontFace) Stretch() otquery.Stretch { return face.info.Stretch }

// Metrics returns the font-wide metrics in design units.
func (face *FontFace) Metrics() otquery.FontMetrics { return face.info.Metrics }

// NumGlyphs returns the number of glyphs of the face. Valid glyph indices
// are 0…NumGlyphs-1.
func (face *FontFace) NumGlyphs() int { return face.info.NumGlyphs }

// HasGlyph reports whether gid is a valid glyph index of the face.
func (face *FontFace) HasGlyph(gid ot.GlyphIndex) bool {
	return int(gid) < face.info.NumGlyphs
}

// CMap returns the character map of the face.
func (face *FontFace) CMap() *otquery.CMap { return face.info.CMap }

// Variations returns the variation axes and named instances of the face.
func (face *FontFace) Variations() otquery.Variations { return face.info.Variations }

// Color returns the color glyph capabilities of the face.
func (face *FontFace) Color() otquery.ColorInfo { return face.info.Color }

// Info returns the complete description of the face.
func (face *FontFace) Info() otquery.FaceInfo { return face.info }

// Container returns the format the face has been delivered in.
func (face *FontFace) Container() ot.Container { return face.container }

// Source returns the source of the font data.
func (face *FontFace) Source() *FontSource { return face.source }

// Font returns the decoded font. For file-backed faces, the font file is read
// and decoded on the first call.
func (face *FontFace) Font() (*ot.Font, error) {
	face.once.Do(func() {
		var data []byte
		if data, face.err = face.source.Bytes(); face.err != nil {
			face.err = regError(IoFailure, face.source.Path(), face.err)
			return
		}
		if face.otf, face.err = ot.Parse(data); face.err != nil {
			face.err = regError(ParseFailure, face.source.Path(), face.err)
		}
	})
	return face.otf, face.err
}

// SFNT returns the font as a plain sfnt binary, decompressed if the face
// has been delivered as WOFF or WOFF2. Rasterizers and shapers consume it.
func (face *FontFace) SFNT() ([]byte, error) {
	otf, err := face.Font()
	if err != nil {
		return nil, err
	}
	return otf.Binary(), nil
}

func (face *FontFace) String() string {
	return face.info.FullName
}
