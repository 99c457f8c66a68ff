/*
Package fontsys is for loading, matching and using fonts.

A FontSystem ties together:

▪︎ a registry of font faces (package registry), which decodes sfnt, WOFF and
WOFF2 fonts (packages ot and otquery) and matches CSS-style font descriptors,

▪︎ a glyph cache and a shaping cache (package lrucache), bounded by entry count
and by memory,

▪︎ a Rasterizer and a Shaper, supplied by clients. Packages raster and shape
contain implementations.

There is a certain confusion with the nomenclature of typesetting. We will
stick to the following definitions:

▪︎ A "family" is a group of faces designed together. An example is "Helvetica".

▪︎ A "face" is a variant of a family with a certain weight, style and stretch.
An example is "Helvetica Bold". Loaded faces are identified by a FontID.

▪︎ A face in a certain size is used for rendering glyphs and shaping text.

Usage:

	fsys := fontsys.New(
	    fontsys.WithRasterizer(raster.New()),
	    fontsys.WithShaper(shape.New()),
	    fontsys.WithDiscovery(discover.Dirs(discover.SystemDirs()...)),
	)
	fsys.LoadSystemFonts()
	id, ok := fsys.MatchFont(registry.Descriptor("Noto Sans", "DejaVu Sans"))
	…
	bitmap, err := fsys.RenderGlyph(id, gid, 16, fontsys.Gray)

A FontSystem is not safe for concurrent use. Clients serialize access.

# Status

Font collections (*.ttc) are not supported.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package fontsys

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'fontsys'
func tracer() tracing.Trace {
	return tracing.Select("fontsys")
}
