package otquery

import (
	"fmt"
	"math"
	"slices"

	"github.com/npillmayer/fontsys/ot"
	"golang.org/x/image/font/sfnt"
)

// Axis is a variation axis of a variable font, as defined in table 'fvar'.
type Axis struct {
	Tag               ot.Tag
	Min, Default, Max float64
	NameID            sfnt.NameID
	Name              string // from table 'name', if present
	Hidden            bool   // HIDDEN_AXIS flag
}

// Instance is a named instance of a variable font, as defined in table 'fvar'.
type Instance struct {
	SubfamilyNameID  sfnt.NameID
	Name             string    // from table 'name', if present
	Coords           []float64 // user-space coordinates, one per axis
	PostScriptNameID sfnt.NameID
}

// avarPair maps a normalized coordinate to a modified normalized coordinate.
type avarPair struct {
	from, to float64
}

// Variations holds the variation axes, named instances and axis segment maps
// of a variable font. For non-variable fonts it is empty.
type Variations struct {
	Axes      []Axis
	Instances []Instance
	avar      [][]avarPair // per axis; nil if no table 'avar'
}

// IsVariable reports whether the font has at least one variation axis.
func (v Variations) IsVariable() bool {
	return len(v.Axes) > 0
}

// Axis returns the axis with a given tag.
func (v Variations) Axis(tag ot.Tag) (Axis, bool) {
	i := slices.IndexFunc(v.Axes, func(a Axis) bool { return a.Tag == tag })
	if i < 0 {
		return Axis{}, false
	}
	return v.Axes[i], true
}

// Normalize validates a user-space coordinate for an axis and returns its
// normalized coordinate in [-1, 1], with the axis segment map of table 'avar'
// applied.
//
// Values outside the axis range are rejected with an ot.AxisOutOfRange error
// naming the axis and the violated bound.
func (v Variations) Normalize(tag ot.Tag, value float64) (float64, error) {
	i := slices.IndexFunc(v.Axes, func(a Axis) bool { return a.Tag == tag })
	if i < 0 {
		return 0, &ot.ParseError{
			Kind:  ot.AxisOutOfRange,
			Table: ot.T("fvar"),
			Axis:  tag,
			Value: value,
			Issue: fmt.Sprintf("font has no axis '%s'", tag),
		}
	}
	axis := v.Axes[i]
	if math.IsNaN(value) {
		return 0, &ot.ParseError{
			Kind:  ot.AxisOutOfRange,
			Table: ot.T("fvar"),
			Axis:  tag,
			Value: value,
			Issue: fmt.Sprintf("axis '%s': value is not a number", tag),
		}
	}
	if value < axis.Min {
		return 0, ot.ErrAxisRange(tag, value, axis.Min)
	}
	if value > axis.Max {
		return 0, ot.ErrAxisRange(tag, value, axis.Max)
	}
	var n float64
	switch {
	case value < axis.Default:
		n = (value - axis.Default) / (axis.Default - axis.Min)
	case value > axis.Default:
		n = (value - axis.Default) / (axis.Max - axis.Default)
	}
	if i < len(v.avar) {
		n = mapSegments(v.avar[i], n)
	}
	return n, nil
}

// NormalizeAll normalizes a set of user-space coordinates. Axes not mentioned
// in coords are set to their default, i.e. 0. The first invalid coordinate
// (in axis order) is reported as an error.
func (v Variations) NormalizeAll(coords map[ot.Tag]float64) (map[ot.Tag]float64, error) {
	normalized := make(map[ot.Tag]float64, len(v.Axes))
	for _, axis := range v.Axes {
		value, ok := coords[axis.Tag]
		if !ok {
			value = axis.Default
		}
		n, err := v.Normalize(axis.Tag, value)
		if err != nil {
			return nil, err
		}
		normalized[axis.Tag] = n
	}
	for tag, value := range coords {
		if _, ok := normalized[tag]; !ok {
			return nil, &ot.ParseError{
				Kind:  ot.AxisOutOfRange,
				Table: ot.T("fvar"),
				Axis:  tag,
				Value: value,
				Issue: fmt.Sprintf("font has no axis '%s'", tag),
			}
		}
	}
	return normalized, nil
}

// mapSegments applies a piecewise-linear avar segment map. Coordinates outside
// the mapped range are clamped to the nearest segment end.
func mapSegments(m []avarPair, n float64) float64 {
	if len(m) == 0 {
		return n
	}
	if n <= m[0].from {
		return m[0].to
	}
	last := m[len(m)-1]
	if n >= last.from {
		return last.to
	}
	for k := 1; k < len(m); k++ {
		p, q := m[k-1], m[k]
		if n > q.from {
			continue
		}
		if q.from == p.from {
			return p.to
		}
		return p.to + (n-p.from)/(q.from-p.from)*(q.to-p.to)
	}
	return last.to
}

// --- Parsing ---------------------------------------------------------------

const (
	fvarHeaderSize = 16
	fvarAxisSize   = 20
)

// ReadVariations decodes tables 'fvar' and 'avar'. A font without table 'fvar'
// yields empty Variations. Malformed tables are reported as an error, together
// with whatever could be decoded: a malformed 'avar' table is ignored, a
// malformed 'fvar' table makes the font non-variable.
func ReadVariations(otf *ot.Font) (Variations, error) {
	var v Variations
	b := tableBytes(otf, "fvar")
	if b == nil {
		return v, nil
	}
	header := view(b, 0, fvarHeaderSize)
	if header == nil {
		return v, fmt.Errorf("fvar header too short")
	}
	if major := u16(header); major != 1 {
		return v, fmt.Errorf("unsupported fvar version %d", major)
	}
	axesOffset := int(u16(header[4:]))
	axisCount, axisSize := int(u16(header[8:])), int(u16(header[10:]))
	instCount, instSize := int(u16(header[12:])), int(u16(header[14:]))
	if axisSize < fvarAxisSize || instSize < 4+4*axisCount {
		return v, fmt.Errorf("fvar record sizes too small")
	}
	axes := view(b, axesOffset, axisCount*axisSize)
	instances := view(b, axesOffset+axisCount*axisSize, instCount*instSize)
	if axes == nil || instances == nil {
		return v, fmt.Errorf("fvar records exceed table size")
	}
	names := bestNames(otf, 0)
	for i := range axisCount {
		rec := axes[i*axisSize:]
		axis := Axis{
			Tag:     ot.MakeTag(rec[0:4]),
			Min:     fixed(u32(rec[4:])),
			Default: fixed(u32(rec[8:])),
			Max:     fixed(u32(rec[12:])),
			Hidden:  u16(rec[16:])&0x0001 != 0,
			NameID:  sfnt.NameID(u16(rec[18:])),
		}
		if axis.Min > axis.Default || axis.Default > axis.Max {
			return Variations{}, fmt.Errorf("fvar axis '%s' has inconsistent range %g…%g…%g",
				axis.Tag, axis.Min, axis.Default, axis.Max)
		}
		axis.Name = names[axis.NameID]
		v.Axes = append(v.Axes, axis)
	}
	for i := range instCount {
		rec := instances[i*instSize:]
		inst := Instance{
			SubfamilyNameID:  sfnt.NameID(u16(rec)),
			Coords:           make([]float64, axisCount),
			PostScriptNameID: 0xffff,
		}
		for j := range axisCount {
			inst.Coords[j] = fixed(u32(rec[4+4*j:]))
		}
		if instSize >= 6+4*axisCount {
			inst.PostScriptNameID = sfnt.NameID(u16(rec[4+4*axisCount:]))
		}
		inst.Name = names[inst.SubfamilyNameID]
		v.Instances = append(v.Instances, inst)
	}
	tracer().Debugf("font has %d variation axes and %d named instances", len(v.Axes), len(v.Instances))
	avar, err := readAvar(tableBytes(otf, "avar"), axisCount)
	if err != nil {
		return v, err
	}
	v.avar = avar
	return v, nil
}

// readAvar decodes the axis segment maps of table 'avar' (version 1).
func readAvar(b []byte, axisCount int) ([][]avarPair, error) {
	if b == nil {
		return nil, nil
	}
	header := view(b, 0, 8)
	if header == nil {
		return nil, fmt.Errorf("avar header too short")
	}
	if major := u16(header); major != 1 {
		return nil, fmt.Errorf("unsupported avar version %d", major)
	}
	if n := int(u16(header[6:])); n != axisCount {
		return nil, fmt.Errorf("avar axis count %d does not match fvar axis count %d", n, axisCount)
	}
	maps := make([][]avarPair, axisCount)
	pos := 8
	for i := range axisCount {
		cnt := view(b, pos, 2)
		if cnt == nil {
			return nil, fmt.Errorf("avar segment map %d exceeds table size", i)
		}
		n := int(u16(cnt))
		pairs := view(b, pos+2, 4*n)
		if pairs == nil {
			return nil, fmt.Errorf("avar segment map %d exceeds table size", i)
		}
		m := make([]avarPair, n)
		for k := range n {
			m[k] = avarPair{from: f2dot14(u16(pairs[4*k:])), to: f2dot14(u16(pairs[4*k+2:]))}
			if k > 0 && m[k].from < m[k-1].from {
				return nil, fmt.Errorf("avar segment map %d not in ascending order", i)
			}
		}
		maps[i] = m
		pos += 2 + 4*n
	}
	return maps, nil
}
