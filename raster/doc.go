/*
Package raster renders glyph outlines to bitmaps.

The rasterizer reads glyph outlines with golang.org/x/image/font/sfnt and
scan-converts them with golang.org/x/image/vector. It implements
fontsys.Rasterizer:

	fsys := fontsys.New(fontsys.WithRasterizer(raster.New()))

Outlines are not hinted. Color glyphs (COLR, CBDT, sbix, SVG) are rendered from
their fallback outlines, if any.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package raster

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'fontsys.raster'
func tracer() tracing.Trace {
	return tracing.Select("fontsys.raster")
}
