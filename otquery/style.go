package otquery

import (
	"fmt"
	"strconv"
	"strings"
)

// Weight is the CSS weight of a font face, from 100 (thin) to 900 (black).
type Weight uint16

const (
	WeightThin       Weight = 100
	WeightExtraLight Weight = 200
	WeightLight      Weight = 300
	WeightRegular    Weight = 400
	WeightMedium     Weight = 500
	WeightSemiBold   Weight = 600
	WeightBold       Weight = 700
	WeightExtraBold  Weight = 800
	WeightBlack      Weight = 900
)

// WeightFromClass converts an OS/2 usWeightClass value, clamping it to 100…900.
// A weight class of 0 is treated as regular.
func WeightFromClass(class uint16) Weight {
	switch {
	case class == 0:
		return WeightRegular
	case class < 100:
		return WeightThin
	case class > 900:
		return WeightBlack
	}
	return Weight(class)
}

func (w Weight) String() string {
	switch w {
	case WeightThin:
		return "Thin"
	case WeightExtraLight:
		return "ExtraLight"
	case WeightLight:
		return "Light"
	case WeightRegular:
		return "Regular"
	case WeightMedium:
		return "Medium"
	case WeightSemiBold:
		return "SemiBold"
	case WeightBold:
		return "Bold"
	case WeightExtraBold:
		return "ExtraBold"
	case WeightBlack:
		return "Black"
	}
	return fmt.Sprintf("Weight(%d)", uint16(w))
}

// Stretch is the CSS font-stretch of a font face as a percentage of the
// normal width, from 50 (ultra-condensed) to 200 (ultra-expanded).
type Stretch uint16

const (
	StretchUltraCondensed Stretch = 50
	StretchExtraCondensed Stretch = 62
	StretchCondensed      Stretch = 75
	StretchSemiCondensed  Stretch = 87
	StretchNormal         Stretch = 100
	StretchSemiExpanded   Stretch = 112
	StretchExpanded       Stretch = 125
	StretchExtraExpanded  Stretch = 150
	StretchUltraExpanded  Stretch = 200
)

var widthClasses = [...]Stretch{
	StretchUltraCondensed, StretchExtraCondensed, StretchCondensed,
	StretchSemiCondensed, StretchNormal, StretchSemiExpanded,
	StretchExpanded, StretchExtraExpanded, StretchUltraExpanded,
}

// StretchFromClass converts an OS/2 usWidthClass value (1…9). Values out of
// range are treated as normal width.
func StretchFromClass(class uint16) Stretch {
	if class < 1 || int(class) > len(widthClasses) {
		return StretchNormal
	}
	return widthClasses[class-1]
}

func (s Stretch) String() string {
	names := [...]string{
		"UltraCondensed", "ExtraCondensed", "Condensed", "SemiCondensed", "Normal",
		"SemiExpanded", "Expanded", "ExtraExpanded", "UltraExpanded",
	}
	for i, c := range widthClasses {
		if c == s {
			return names[i]
		}
	}
	return fmt.Sprintf("Stretch(%d%%)", uint16(s))
}

// StyleKind classifies the slant of a font face.
type StyleKind uint8

const (
	StyleNormal StyleKind = iota
	StyleItalic
	StyleOblique
)

// Style is the CSS font-style of a font face. Angle is the slant in degrees
// for oblique faces, positive values leaning to the right; it is 0 otherwise.
//
// Styles are comparable: two oblique styles with different angles are
// different styles.
type Style struct {
	Kind  StyleKind
	Angle float32
}

var (
	NormalStyle = Style{Kind: StyleNormal}
	ItalicStyle = Style{Kind: StyleItalic}
)

// ObliqueStyle returns an oblique style with a given slant angle in degrees.
func ObliqueStyle(angle float32) Style {
	return Style{Kind: StyleOblique, Angle: angle}
}

func (s Style) String() string {
	switch s.Kind {
	case StyleItalic:
		return "italic"
	case StyleOblique:
		return fmt.Sprintf("oblique %gdeg", s.Angle)
	}
	return "normal"
}

// ParseWeight converts a CSS weight, either numeric ("700") or by name
// ("bold", case-insensitive), to a Weight.
func ParseWeight(s string) (Weight, bool) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > 1000 {
			return WeightRegular, false
		}
		return WeightFromClass(uint16(n)), true
	}
	switch strings.ToLower(s) {
	case "normal":
		return WeightRegular, true
	case "bold":
		return WeightBold, true
	}
	for w := WeightThin; w <= WeightBlack; w += 100 {
		if strings.EqualFold(w.String(), s) {
			return w, true
		}
	}
	return WeightRegular, false
}

// ParseStretch converts a CSS stretch, either a percentage ("75%" or "75")
// or a keyword ("condensed", case-insensitive), to a Stretch.
func ParseStretch(s string) (Stretch, bool) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(strings.TrimSuffix(s, "%")); err == nil {
		if n < 50 || n > 200 {
			return StretchNormal, false
		}
		return Stretch(n), true
	}
	s = strings.ReplaceAll(s, "-", "")
	for _, st := range widthClasses {
		if strings.EqualFold(st.String(), s) {
			return st, true
		}
	}
	return StretchNormal, false
}

// ParseStyle converts a CSS style to a Style: "normal", "italic", "oblique"
// or "oblique <angle>", with an optional "deg" suffix. Plain "oblique" has an
// angle of 14 degrees.
func ParseStyle(s string) (Style, bool) {
	fields := strings.Fields(strings.ToLower(s))
	if len(fields) == 0 {
		return NormalStyle, false
	}
	switch fields[0] {
	case "normal":
		return NormalStyle, len(fields) == 1
	case "italic":
		return ItalicStyle, len(fields) == 1
	case "oblique":
		if len(fields) == 1 {
			return ObliqueStyle(14), true
		}
		a, err := strconv.ParseFloat(strings.TrimSuffix(fields[1], "deg"), 32)
		if err != nil || len(fields) > 2 || a < -90 || a > 90 {
			return NormalStyle, false
		}
		return ObliqueStyle(float32(a)), true
	}
	return NormalStyle, false
}
