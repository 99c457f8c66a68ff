package main

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/npillmayer/fontsys"
	"github.com/npillmayer/fontsys/ot"
	"github.com/pterm/pterm"
)

// render:<char or #gid>[:size[:mode]]
func renderOp(intp *Intp, op *Op) (error, bool) {
	face, err := intp.face()
	if err != nil {
		return err, false
	}
	gid, err := parseGlyph(op.arg(0), face.CMap().Lookup)
	if err != nil {
		return err, false
	}
	size, err := parseSize(op.arg(1), 24)
	if err != nil {
		return err, false
	}
	mode := fontsys.Gray
	if op.arg(2) != "" {
		var ok bool
		if mode, ok = fontsys.ParseRenderMode(op.arg(2)); !ok {
			return fmt.Errorf("invalid render mode %q", op.arg(2)), false
		}
	}
	bm, err := intp.fsys.RenderGlyph(intp.current, gid, size, mode)
	if err != nil {
		return err, false
	}
	pterm.Printf("glyph %d: %d×%d px, left=%d top=%d advance=%.2f\n",
		gid, bm.Width, bm.Height, bm.Left, bm.Top, bm.Advance)
	for _, line := range asciiArt(bm) {
		pterm.Println(line)
	}
	return nil, false
}

// shape:<text>[:size]
func shapeOp(intp *Intp, op *Op) (error, bool) {
	if _, err := intp.face(); err != nil {
		return err, false
	}
	size, err := parseSize(op.arg(1), 12)
	if err != nil {
		return err, false
	}
	st, err := intp.fsys.ShapeText(intp.current, op.arg(0), size, fontsys.DefaultShapeOptions())
	if err != nil {
		return err, false
	}
	data := [][]string{{"Glyph", "Cluster", "Advance", "Offset"}}
	for _, g := range st.Glyphs {
		data = append(data, []string{
			strconv.Itoa(int(g.GID)),
			strconv.Itoa(g.Cluster),
			fmt.Sprintf("%.2f", g.XAdvance),
			fmt.Sprintf("%.2f,%.2f", g.XOffset, g.YOffset),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	pterm.Printf("total advance = %.2f\n", st.Advance)
	return nil, false
}

// parseGlyph reads a glyph either as "#<index>" or as a character.
func parseGlyph(s string, lookup func(rune) ot.GlyphIndex) (ot.GlyphIndex, error) {
	if strings.HasPrefix(s, "#") && len(s) > 1 {
		n, err := strconv.ParseUint(s[1:], 10, 16)
		if err != nil {
			return 0, fmt.Errorf("invalid glyph index %q", s)
		}
		return ot.GlyphIndex(n), nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("expected a single character or #<glyph index>, got %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	gid := lookup(r)
	if gid == 0 {
		return 0, fmt.Errorf("font has no glyph for %q", r)
	}
	return gid, nil
}

func parseSize(s string, dflt float32) (float32, error) {
	if s == "" {
		return dflt, nil
	}
	f, err := strconv.ParseFloat(s, 32)
	if err != nil || f <= 0 || f > 1000 {
		return 0, fmt.Errorf("invalid size %q", s)
	}
	return float32(f), nil
}

var shades = []byte(" .:-=+*#%@")

// asciiArt draws a bitmap with one character per pixel. Subpixel bitmaps
// are drawn from the mean of their channels.
func asciiArt(bm *fontsys.GlyphBitmap) []string {
	lines := make([]string, 0, bm.Height)
	for y := range bm.Height {
		row := bm.Data[y*bm.Pitch:]
		var sb strings.Builder
		for x := range bm.Width {
			var v int
			switch {
			case bm.Mode == fontsys.Mono:
				if row[x/8]&(0x80>>(x%8)) != 0 {
					v = 255
				}
			case bm.Mode.IsSubpixel():
				v = (int(row[3*x]) + int(row[3*x+1]) + int(row[3*x+2])) / 3
			default:
				v = int(row[x])
			}
			sb.WriteByte(shades[v*(len(shades)-1)/255])
		}
		lines = append(lines, sb.String())
	}
	return lines
}
