package registry

import (
	"fmt"
	"strings"

	"github.com/npillmayer/fontsys/otquery"
)

// DefaultSize is the font size of descriptors created by Descriptor.
const DefaultSize = 12

// FontDescriptor describes the font face a client is looking for.
// Families is a fallback chain in order of preference.
type FontDescriptor struct {
	Families []string
	Weight   otquery.Weight
	Style    otquery.Style
	Stretch  otquery.Stretch
	Size     float32
}

// Descriptor creates a descriptor for a regular, upright face of normal width.
func Descriptor(families ...string) FontDescriptor {
	return FontDescriptor{
		Families: families,
		Weight:   otquery.WeightRegular,
		Style:    otquery.NormalStyle,
		Stretch:  otquery.StretchNormal,
		Size:     DefaultSize,
	}
}

// WithWeight returns a copy of d with weight w.
func (d FontDescriptor) WithWeight(w otquery.Weight) FontDescriptor {
	d.Weight = w
	return d
}

// WithStyle returns a copy of d with style s.
func (d FontDescriptor) WithStyle(s otquery.Style) FontDescriptor {
	d.Style = s
	return d
}

// WithStretch returns a copy of d with stretch s.
func (d FontDescriptor) WithStretch(s otquery.Stretch) FontDescriptor {
	d.Stretch = s
	return d
}

// WithSize returns a copy of d with font size size.
func (d FontDescriptor) WithSize(size float32) FontDescriptor {
	d.Size = size
	return d
}

func (d FontDescriptor) String() string {
	return fmt.Sprintf("[%s] %d %s %d%% %gpt", strings.Join(d.Families, ", "),
		d.Weight, d.Style, d.Stretch, d.Size)
}
