/*
Command font-tools runs font diagnostics, matching, shaping and rendering
from the command line.

	font-tools inspect <font> [tables...] [--errors]
	font-tools match <dir> --family <families> [--weight w] [--style s] [--stretch s]
	font-tools shape <font> <text...> [--script Latn] [--lang en] [--direction ltr] [--features liga=0,+smcp]
	font-tools render <font> <text...> [--size 48] [--mode gray] [--width 600 --align justify] [--output out.png]

Use "font-tools <command> --help" for the flags of a command.
*/
package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/npillmayer/fontsys"
	"github.com/npillmayer/fontsys/raster"
	"github.com/npillmayer/fontsys/registry"
	"github.com/npillmayer/fontsys/shape"
	"github.com/thatisuday/commando"
)

func main() {
	commando.
		SetExecutableName("font-tools").
		SetVersion("v0.1.0").
		SetDescription("CLI for font diagnostics, font matching, shaping and glyph rendering.")

	commando.
		Register("inspect").
		SetDescription("Print face properties, tables and parse issues of a font file.").
		SetShortDescription("font diagnostics").
		AddArgument("font", "font file path (TTF, OTF, WOFF or WOFF2)", "").
		AddArgument("tables...", "optional list of table tags (e.g. GSUB,GPOS,head)", "").
		AddFlag("errors,e", "print parse errors and warnings", commando.Bool, nil).
		SetAction(runInspectCommand)

	commando.
		Register("match").
		SetDescription("Load all fonts of a directory and select the best match for a font descriptor.").
		SetShortDescription("font matching").
		AddArgument("dir", "directory to search for font files", "").
		AddFlag("family,f", "comma-separated list of font families", commando.String, "sans-serif").
		AddFlag("weight,w", "weight: 100…900 or a name (bold, light, …)", commando.String, "normal").
		AddFlag("style,s", "style: normal, italic or oblique [angle]", commando.String, "normal").
		AddFlag("stretch", "stretch: 50%…200% or a name (condensed, …)", commando.String, "normal").
		AddFlag("verbose,V", "list skipped font files", commando.Bool, nil).
		SetAction(runMatchCommand)

	commando.
		Register("shape").
		SetDescription("Shape text with a given font and print the glyph stream.").
		SetShortDescription("shape text").
		AddArgument("font", "font file path", "").
		AddArgument("text...", "text to shape (variadic argument parts joined by comma by commando)", "").
		AddFlag("script,s", "script (ISO 15924, e.g. Latn, Arab, Hebr)", commando.String, "Latn").
		AddFlag("lang,l", "language tag (BCP 47, e.g. en, ar, he)", commando.String, "en").
		AddFlag("direction,d", "direction: ltr|rtl", commando.String, "ltr").
		AddFlag("features,F", "feature list (e.g. liga=1,kern=0,+smcp,-calt)", commando.String, "-").
		AddFlag("codepoints,c", "codepoints instead of text (comma/space separated, e.g. U+0627,U+0644)", commando.String, "-").
		AddFlag("size,p", "font size in pixels", commando.Int, 16).
		SetAction(runShapeCommand)

	commando.
		Register("render").
		SetDescription("Shape text and render the glyphs to a PNG image.").
		SetShortDescription("render text").
		AddArgument("font", "font file path", "").
		AddArgument("text...", "text to render", "").
		AddFlag("codepoints,c", "codepoints instead of text (comma/space separated, e.g. U+0627,U+0644)", commando.String, "-").
		AddFlag("size,p", "font size in pixels", commando.Int, 48).
		AddFlag("mode,m", "render mode: mono|gray|rgb|bgr|vrgb|vbgr", commando.String, "gray").
		AddFlag("width,w", "wrap lines at a width in pixels (0: single line)", commando.Int, 0).
		AddFlag("align,a", "alignment of wrapped lines: start|end|center|justify", commando.String, "start").
		AddFlag("output,o", "output PNG file", commando.String, "font-tools-render.png").
		AddFlag("verbose,V", "print glyph cache statistics", commando.Bool, nil).
		SetAction(runRenderCommand)

	commando.Parse(nil)
}

// newFontSystem creates a font system with the default rasterizer and shaper.
func newFontSystem() *fontsys.FontSystem {
	return fontsys.New(
		fontsys.WithRasterizer(raster.New()),
		fontsys.WithShaper(shape.New()),
	)
}

func mustLoadFont(fsys *fontsys.FontSystem, path string) registry.FontID {
	if path == "" {
		fatalf("font path is required")
	}
	id, err := fsys.LoadFontFile(path)
	if err != nil {
		fatalf("cannot load font %s: %v", path, err)
	}
	return id
}

func parseTextInput(textArg commando.ArgValue, cpFlag commando.FlagValue) (string, error) {
	cp, err := cpFlag.GetString()
	if err != nil {
		return "", fmt.Errorf("invalid --codepoints flag: %w", err)
	}
	cp = strings.TrimSpace(cp)
	if cp == "-" {
		cp = ""
	}
	if cp != "" {
		runes, err := parseCodepoints(cp)
		if err != nil {
			return "", err
		}
		return string(runes), nil
	}
	return textArg.Value, nil
}

func parseCodepoints(spec string) ([]rune, error) {
	parts := splitCSVSpace(spec)
	out := make([]rune, 0, len(parts))
	for _, p := range parts {
		r, err := parseCodepointToken(p)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func parseCodepointToken(token string) (rune, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, errors.New("empty codepoint token")
	}
	hex := token
	switch {
	case strings.HasPrefix(hex, "U+"), strings.HasPrefix(hex, "u+"):
		hex = hex[2:]
	case strings.HasPrefix(hex, "0x"), strings.HasPrefix(hex, "0X"):
		hex = hex[2:]
	}
	u, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || u > 0x10ffff {
		return 0, fmt.Errorf("invalid codepoint %q", token)
	}
	return rune(u), nil
}

func splitCSVSpace(spec string) []string {
	return strings.FieldsFunc(spec, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}

func mustFlagInt(flag commando.FlagValue, name string) int {
	n, err := flag.GetInt()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	return n
}

func mustFlagBool(flag commando.FlagValue, name string) bool {
	b, err := flag.GetBool()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	return b
}

func mustFlagString(flag commando.FlagValue, name string) string {
	s, err := flag.GetString()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	return strings.TrimSpace(s)
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, "font-tools: "+format+"\n", args...)
	os.Exit(1)
}
