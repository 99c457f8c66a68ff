package otquery

import (
	"fmt"

	"github.com/npillmayer/fontsys/ot"
)

// FontType returns a description of the outline and container format of a font,
// e.g. "TrueType" or "WOFF2 (OpenType/CFF)".
func FontType(otf *ot.Font) string {
	if otf == nil {
		return "unknown"
	}
	c := otf.Container()
	if c != ot.ContainerWOFF && c != ot.ContainerWOFF2 {
		return c.String()
	}
	flavor := "TrueType"
	if otf.Flavor() == ot.SignatureCFF {
		flavor = "OpenType/CFF"
	}
	return fmt.Sprintf("%s (%s)", c, flavor)
}

// layoutTableTags are the OpenType tables for advanced layout.
var layoutTableTags = []string{
	"BASE", "GDEF", "GPOS", "GSUB", "JSTF", "MATH",
}

// LayoutTables returns the advanced layout tables present in a font.
func LayoutTables(otf *ot.Font) []string {
	var tables []string
	for _, tag := range layoutTableTags {
		if otf.HasTable(ot.T(tag)) {
			tables = append(tables, tag)
		}
	}
	return tables
}
