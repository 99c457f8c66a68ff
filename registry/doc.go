/*
Package registry holds a set of loaded font faces and selects faces for
font descriptors, following the CSS font matching rules.

There is a certain confusion with the nomenclature of typesetting. We will
stick to the following definitions:

▪︎ A "family" is a group of faces designed together. An example is "Helvetica".

▪︎ A "face" is a variant of a family with a certain weight, style and stretch.
An example is "Helvetica Bold Oblique". Every loaded face gets a FontID.

▪︎ A "descriptor" names what a client is looking for: a list of families in
order of preference, plus weight, style, stretch and size.

Matching uses absolute family precedence: the first family of a descriptor
with at least one loaded face decides the candidates. Among the candidates,
the face closest in weight, style and stretch wins. Generic family keywords
such as "sans-serif" are ordinary names here; mapping them to concrete
families is up to the client.

A Registry is an explicit value; there is no global registry. It is not safe
for concurrent use. Loaded faces are immutable and may be shared.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package registry

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'fontsys.registry'
func tracer() tracing.Trace {
	return tracing.Select("fontsys.registry")
}
