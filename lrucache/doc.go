/*
Package lrucache implements a least-recently-used cache bounded by the number
of entries and by the total byte size of the cached values.

Clients state the byte size of every value they insert. Values larger than the
memory budget are never cached; everything else is inserted after evicting the
least recently used entries until both limits hold:

	glyphs := lrucache.New[GlyphKey, *GlyphBitmap](
	    lrucache.WithMaxEntries(10000),
	    lrucache.WithMaxMemory(100<<20),
	)
	if bm, ok := glyphs.Get(key); ok {
	    return bm
	}
	bm := render(…)
	glyphs.Insert(key, bm, bm.ByteSize())

The cache never computes values itself and never fails. A Cache is not safe
for concurrent use; clients serialize access.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package lrucache

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'fontsys.cache'
func tracer() tracing.Trace {
	return tracing.Select("fontsys.cache")
}
