package raster

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/npillmayer/fontsys"
	"github.com/npillmayer/fontsys/ot"
	"github.com/npillmayer/fontsys/registry"
	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// DefaultMonoThreshold is the coverage from which a pixel is set in Mono mode.
const DefaultMonoThreshold = 128

// Rasterizer renders glyphs of registry faces. It keeps the parsed outline
// data of every face it has seen. A Rasterizer is not safe for concurrent use.
type Rasterizer struct {
	fonts     map[*registry.FontFace]*sfnt.Font
	buf       sfnt.Buffer
	threshold uint8
}

// Option configures a Rasterizer.
type Option func(*Rasterizer)

// WithMonoThreshold sets the coverage (1…255) from which a pixel is set in
// Mono mode.
func WithMonoThreshold(t uint8) Option {
	return func(r *Rasterizer) {
		r.threshold = max(t, 1)
	}
}

// New creates a rasterizer.
func New(opts ...Option) *Rasterizer {
	r := &Rasterizer{
		fonts:     make(map[*registry.FontFace]*sfnt.Font),
		threshold: DefaultMonoThreshold,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rasterize renders a glyph at a size in pixels per em. Glyphs without
// outline, e.g. spaces, yield an empty bitmap carrying the advance.
func (r *Rasterizer) Rasterize(face *registry.FontFace, gid ot.GlyphIndex, size float32,
	mode fontsys.RenderMode) (*fontsys.GlyphBitmap, error) {
	//
	sf, err := r.outlines(face)
	if err != nil {
		return nil, err
	}
	ppem := fixed.Int26_6(size*64 + 0.5)
	adv, err := sf.GlyphAdvance(&r.buf, sfnt.GlyphIndex(gid), ppem, font.HintingNone)
	if err != nil {
		return nil, fmt.Errorf("glyph %d of %s: %w", gid, face, err)
	}
	// segments are valid until the next call using r.buf
	segs, err := sf.LoadGlyph(&r.buf, sfnt.GlyphIndex(gid), ppem, nil)
	if err != nil {
		return nil, fmt.Errorf("glyph %d of %s: %w", gid, face, err)
	}
	bm := &fontsys.GlyphBitmap{Mode: mode, Advance: float32(adv) / 64}
	sx, sy := oversampling(mode)
	cov, bounds := coverage(segs, sx, sy)
	if cov == nil {
		tracer().Debugf("glyph %d of %s has no outline", gid, face)
		return bm, nil
	}
	bm.Width, bm.Height = bounds.Dx(), bounds.Dy()
	bm.Left, bm.Top = bounds.Min.X, -bounds.Min.Y
	bm.Data, bm.Pitch = pack(cov, bm.Width, bm.Height, mode, r.threshold)
	return bm, nil
}

// Forget drops the outline data kept for a face.
func (r *Rasterizer) Forget(face *registry.FontFace) {
	delete(r.fonts, face)
}

func (r *Rasterizer) outlines(face *registry.FontFace) (*sfnt.Font, error) {
	if sf, ok := r.fonts[face]; ok {
		return sf, nil
	}
	bin, err := face.SFNT()
	if err != nil {
		return nil, err
	}
	sf, err := sfnt.Parse(bin)
	if err != nil {
		tracer().Errorf("cannot read outlines of %s: %v", face, err)
		return nil, fmt.Errorf("outlines of %s: %w", face, err)
	}
	r.fonts[face] = sf
	return sf, nil
}

// oversampling returns the horizontal and vertical coverage samples per pixel.
func oversampling(mode fontsys.RenderMode) (int, int) {
	switch mode {
	case fontsys.SubpixelRGB, fontsys.SubpixelBGR:
		return 3, 1
	case fontsys.SubpixelVRGB, fontsys.SubpixelVBGR:
		return 1, 3
	}
	return 1, 1
}

// coverage scan-converts an outline. The returned bounds are the pixel
// bounds of the outline, y pointing down; the coverage image has sx×sy
// samples per pixel. An empty outline yields a nil image.
func coverage(segs sfnt.Segments, sx, sy int) (*image.Alpha, image.Rectangle) {
	if len(segs) == 0 {
		return nil, image.Rectangle{}
	}
	b := segs.Bounds()
	bounds := image.Rect(b.Min.X.Floor(), b.Min.Y.Floor(), b.Max.X.Ceil(), b.Max.Y.Ceil())
	if bounds.Empty() {
		return nil, image.Rectangle{}
	}
	w, h := bounds.Dx()*sx, bounds.Dy()*sy
	fx, fy := float32(sx), float32(sy)
	x0, y0 := float32(bounds.Min.X), float32(bounds.Min.Y)
	pt := func(p fixed.Point26_6) (float32, float32) {
		return (float32(p.X)/64 - x0) * fx, (float32(p.Y)/64 - y0) * fy
	}
	rast := vector.NewRasterizer(w, h)
	rast.DrawOp = draw.Src
	for _, seg := range segs {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			rast.MoveTo(pt(seg.Args[0]))
		case sfnt.SegmentOpLineTo:
			rast.LineTo(pt(seg.Args[0]))
		case sfnt.SegmentOpQuadTo:
			x1, y1 := pt(seg.Args[0])
			x2, y2 := pt(seg.Args[1])
			rast.QuadTo(x1, y1, x2, y2)
		case sfnt.SegmentOpCubeTo:
			x1, y1 := pt(seg.Args[0])
			x2, y2 := pt(seg.Args[1])
			x3, y3 := pt(seg.Args[2])
			rast.CubeTo(x1, y1, x2, y2, x3, y3)
		}
	}
	img := image.NewAlpha(image.Rect(0, 0, w, h))
	rast.Draw(img, img.Bounds(), image.Opaque, image.Point{})
	return img, bounds
}

// pack converts a coverage image of w×h pixels into the pixel format of
// a render mode. For subpixel modes, cov must hold 3 samples per pixel in
// the direction of the subpixel stripes.
func pack(cov *image.Alpha, w, h int, mode fontsys.RenderMode, threshold uint8) ([]byte, int) {
	at := func(x, y int) uint8 {
		return cov.Pix[y*cov.Stride+x]
	}
	switch mode {
	case fontsys.Mono:
		pitch := (w + 7) / 8
		data := make([]byte, pitch*h)
		for y := range h {
			for x := range w {
				if at(x, y) >= threshold {
					data[y*pitch+x/8] |= 0x80 >> (x % 8)
				}
			}
		}
		return data, pitch
	case fontsys.SubpixelRGB, fontsys.SubpixelBGR, fontsys.SubpixelVRGB, fontsys.SubpixelVBGR:
		pitch := 3 * w
		data := make([]byte, pitch*h)
		vertical := mode == fontsys.SubpixelVRGB || mode == fontsys.SubpixelVBGR
		reversed := mode == fontsys.SubpixelBGR || mode == fontsys.SubpixelVBGR
		for y := range h {
			for x := range w {
				for c := range 3 {
					var v uint8
					if vertical {
						v = at(x, 3*y+c)
					} else {
						v = at(3*x+c, y)
					}
					ch := c
					if reversed {
						ch = 2 - c
					}
					data[y*pitch+3*x+ch] = v
				}
			}
		}
		return data, pitch
	}
	data := make([]byte, w*h)
	for y := range h {
		copy(data[y*w:(y+1)*w], cov.Pix[y*cov.Stride:])
	}
	return data, w
}
