/*
Package shape converts text to positioned glyphs.

The shaper is backed by the HarfBuzz port of github.com/go-text/typesetting.
It implements fontsys.Shaper:

	fsys := fontsys.New(fontsys.WithShaper(shape.New()))

Text is shaped as a single run. Clients split mixed-script or bidirectional
text into runs before shaping.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package shape

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'fontsys.shape'
func tracer() tracing.Trace {
	return tracing.Select("fontsys.shape")
}
