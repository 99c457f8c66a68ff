/*
Package otquery reads font information from the tables of a decoded font.

Package `ot` exposes a font as a directory of raw tables. Package otquery
interprets the tables needed to describe a font face:

▪︎ naming (table 'name'), style classification and metrics
(tables 'head', 'hhea', 'OS/2', 'post')

▪︎ the character to glyph mapping (table 'cmap')

▪︎ variation axes and named instances (tables 'fvar' and 'avar')

▪︎ presence of color glyph tables ('COLR', 'CPAL', 'CBDT', 'CBLC', 'sbix', 'SVG ')

Describe collects all of this into a FaceInfo:

	otf, err := ot.Parse(data)
	…
	info, err := otquery.Describe(otf)
	fmt.Println(info.Family, info.Weight, info.Style)

Tables 'head', 'hhea' and 'maxp' are required. Problems with optional tables
do not make Describe fail; they are reported as FaceInfo.Issues.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package otquery

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'fontsys.otquery'
func tracer() tracing.Trace {
	return tracing.Select("fontsys.otquery")
}
