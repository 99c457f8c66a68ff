package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/npillmayer/fontsys"
	"github.com/npillmayer/fontsys/layout"
	"github.com/npillmayer/fontsys/registry"
	"github.com/thatisuday/commando"
)

func runRenderCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	fsys := newFontSystem()
	id := mustLoadFont(fsys, strings.TrimSpace(args["font"].Value))

	input, err := parseTextInput(args["text"], flags["codepoints"])
	if err != nil {
		fatalf("%v", err)
	}
	if input == "" {
		fatalf("input text is empty")
	}
	size := float32(mustFlagInt(flags["size"], "size"))
	if size <= 0 {
		fatalf("--size must be > 0")
	}
	mode, ok := fontsys.ParseRenderMode(mustFlagString(flags["mode"], "mode"))
	if !ok {
		fatalf("unsupported render mode (expected mono|gray|rgb|bgr|vrgb|vbgr)")
	}
	width := mustFlagInt(flags["width"], "width")
	align, ok := layout.ParseAlignment(mustFlagString(flags["align"], "align"))
	if !ok {
		fatalf("unsupported alignment (expected start|end|center|justify)")
	}
	outPath := mustFlagString(flags["output"], "output")
	if outPath == "" {
		fatalf("output path is empty")
	}

	lines, err := layoutLines(fsys, id, input, size, width, align)
	if err != nil {
		fatalf("layout failed: %v", err)
	}
	var run []placedGlyph
	count := 0
	for _, line := range lines {
		penX, penY := line.X, line.Y
		for _, g := range line.Glyphs {
			bm, err := fsys.RenderGlyph(id, g.GID, size, mode)
			if err != nil {
				fatalf("cannot render glyph %d: %v", g.GID, err)
			}
			run = append(run, placedGlyph{
				bitmap: bm,
				x:      int(math.Round(float64(penX + g.XOffset))),
				y:      int(math.Round(float64(penY - g.YOffset))),
			})
			penX += g.XAdvance
			penY -= g.YAdvance
		}
		count += len(line.Glyphs)
	}
	img, err := composeRun(run, 4)
	if err != nil {
		fatalf("render failed: %v", err)
	}
	if err := writePNG(img, outPath); err != nil {
		fatalf("%v", err)
	}
	glyphs, _ := fsys.CacheStats()
	fmt.Printf("wrote %s (glyphs=%d, lines=%d, %dx%d px)\n", outPath, count, len(lines),
		img.Bounds().Dx(), img.Bounds().Dy())
	if mustFlagBool(flags["verbose"], "verbose") {
		fmt.Printf("glyph cache: %s\n", glyphs)
	}
}

// layoutLines shapes the input as a single line, or wraps it into lines of
// a given width.
func layoutLines(fsys *fontsys.FontSystem, id registry.FontID, input string, size float32,
	width int, align layout.Alignment) ([]layout.Line, error) {
	//
	if width <= 0 {
		st, err := fsys.ShapeText(id, input, size, fontsys.DefaultShapeOptions())
		if err != nil {
			return nil, err
		}
		return []layout.Line{{Glyphs: st.Glyphs, End: len(input), Length: st.Advance}}, nil
	}
	opts := layout.DefaultOptions(float32(width))
	opts.Align = align
	par, err := layout.Text(fsys, id, input, size, fontsys.DefaultShapeOptions(), opts)
	if err != nil {
		return nil, err
	}
	return par.Lines, nil
}

// placedGlyph is a glyph bitmap with its pen position on the baseline.
// Y grows downward.
type placedGlyph struct {
	bitmap *fontsys.GlyphBitmap
	x, y   int
}

// composeRun draws a run of glyph bitmaps in black onto a white image,
// cropped to the union of the glyph boxes plus a margin.
func composeRun(run []placedGlyph, margin int) (*image.NRGBA, error) {
	var box image.Rectangle
	for _, p := range run {
		if r := p.rect(); !r.Empty() {
			box = box.Union(r)
		}
	}
	if box.Empty() {
		return nil, errors.New("no visible glyphs")
	}
	box = box.Inset(-margin)
	img := image.NewNRGBA(image.Rect(0, 0, box.Dx(), box.Dy()))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	for _, p := range run {
		bm := p.bitmap
		org := p.rect().Min.Sub(box.Min)
		for y := range bm.Height {
			for x := range bm.Width {
				r, g, b := coverage(bm, x, y)
				c := img.NRGBAAt(org.X+x, org.Y+y)
				img.SetNRGBA(org.X+x, org.Y+y, color.NRGBA{
					R: min(c.R, 255-r),
					G: min(c.G, 255-g),
					B: min(c.B, 255-b),
					A: 0xff,
				})
			}
		}
	}
	return img, nil
}

func (p placedGlyph) rect() image.Rectangle {
	bm := p.bitmap
	x0, y0 := p.x+bm.Left, p.y-bm.Top
	return image.Rect(x0, y0, x0+bm.Width, y0+bm.Height)
}

// coverage returns the per-channel coverage of a bitmap pixel.
func coverage(bm *fontsys.GlyphBitmap, x, y int) (r, g, b uint8) {
	row := bm.Data[y*bm.Pitch:]
	switch bm.Mode {
	case fontsys.Mono:
		if row[x/8]&(0x80>>(x%8)) != 0 {
			return 255, 255, 255
		}
		return 0, 0, 0
	case fontsys.SubpixelRGB, fontsys.SubpixelVRGB:
		return row[3*x], row[3*x+1], row[3*x+2]
	case fontsys.SubpixelBGR, fontsys.SubpixelVBGR:
		return row[3*x+2], row[3*x+1], row[3*x]
	}
	return row[x], row[x], row[x]
}

func writePNG(img image.Image, outPath string) error {
	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("cannot create output directory: %w", err)
		}
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("cannot create output file: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("cannot encode png: %w", err)
	}
	return nil
}
