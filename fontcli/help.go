package main

import (
	"strings"

	"github.com/pterm/pterm"
)

func helpOp(intp *Intp, op *Op) (error, bool) {
	help(op.arg(0))
	return nil, false
}

func help(topic string) {
	tracer().Infof("help %v", topic)
	t := strings.ToLower(topic)
	switch t {
	case "match", "descriptor":
		pterm.Info.Println("match:<families>[:weight[:style[:stretch]]]")
		pterm.Println(`
	Families are a comma-separated fallback chain. The first family with at
	least one loaded face wins; within that family the face closest in
	weight, style and stretch is selected.

	weight   100…900 or a name: thin, light, regular, bold, black, …
	style    normal | italic | oblique [angle]
	stretch  50%…200% or a name: condensed, normal, expanded, …

	Example: match:Noto Sans,DejaVu Sans:bold:italic
	`)
	case "render", "mode", "modes":
		pterm.Info.Println("render:<char or #gid>[:size[:mode]]")
		pterm.Println(`
	Renders a glyph of the current font. Render modes are
	mono, gray, rgb, bgr, vrgb and vbgr. Rendered glyphs are cached;
	see 'cache'.
	`)
	default:
		pterm.Info.Println("Commands")
		pterm.Println(`
	load[:path]             load a font file, a directory, or the system fonts
	list[:family]           list loaded fonts
	use:<id>                select a font
	match:<families>[:…]    select the best matching font (help:match)
	info                    names, format and tables of the current font
	metrics[:size]          font metrics, in design units and scaled
	cmap[:text]             code-point to glyph mapping
	axes[:tag=value,…]      variation axes; normalize coordinates
	color                   color glyph formats
	render:<char>[:…]       render a glyph (help:render)
	shape:<text>[:size]     shape text with the current font
	cache[:clear]           cache statistics
	quit                    leave
	`)
	}
}
