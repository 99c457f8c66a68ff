/*
Package layout breaks shaped text into lines and positions them in a paragraph.

Line break opportunities follow the Unicode line breaking algorithm (UAX #14),
as implemented by github.com/go-text/typesetting/segmenter. Lines are filled
greedily up to an inline size; words longer than a line are broken between
glyph clusters. Lines may be aligned at the start or end, centered, or
justified by widening the spaces between words.

	st, _ := fsys.ShapeText(id, text, 16, fontsys.DefaultShapeOptions())
	metrics, _ := fsys.FontMetrics(id, 16)
	par, err := layout.Layout(text, st, metrics, layout.DefaultOptions(320))

Text is expected to be shaped as a single run, with clusters as byte offsets
into the text. Vertical text is set in columns from right to left.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package layout

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'fontsys.layout'
func tracer() tracing.Trace {
	return tracing.Select("fontsys.layout")
}
