/*
Package ot decodes font containers into a directory of font tables.
Intended audience for this package are:

▪︎ the metadata extractor of this module (package `otquery`)

▪︎ glyph rasterizers and text shapers, which receive the decoded sfnt binary

▪︎ any application needing to have the tables of a font file available

Package `ot` accepts plain sfnt fonts (TrueType, OpenType/CFF and the legacy Apple
'true' and 'typ1' flavours), as well as the web font containers WOFF and WOFF2.
WOFF tables are decompressed one by one (zlib), WOFF2 fonts are decompressed as a
whole (Brotli) and transformed tables (glyf, loca, hmtx) are reconstructed.
Both web formats are converted into a synthesized sfnt binary, which is then
handled exactly like a font loaded from a TTF or OTF file.

Package `ot` will not interpret any table of a font, but rather
just expose the tables to the client. From this point of view, `ot` is a low-level package.

Font data is untrusted. Every offset, length and count read from a font is checked
against the available data before it is used. Fatal problems are reported as
*ParseError, classified by an ErrorKind:

	otf, err := ot.Parse(data)
	if errors.Is(err, ot.OffsetOutOfBounds) {
	    // skip this font
	}

Recoverable problems are collected and may be inspected after parsing.
Font.Errors() lists issues with a severity, e.g. a table checksum mismatch
(SeverityMajor) or undecodable WOFF metadata (SeverityMinor). Font.Warnings()
lists cosmetic issues like unsorted table records.

# Links

OpenType explained:
https://docs.microsoft.com/en-us/typography/opentype/

WOFF 1.0: https://www.w3.org/TR/WOFF/

WOFF 2.0: https://www.w3.org/TR/WOFF2/

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package ot

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'fontsys.ot'
func tracer() tracing.Trace {
	return tracing.Select("fontsys.ot")
}
