package otquery

import (
	"github.com/npillmayer/fontsys/ot"
	"golang.org/x/image/font/sfnt"
)

// FaceInfo describes a font face: its names, style classification, metrics,
// character map, variations and color capabilities.
type FaceInfo struct {
	Family         string // typographic family, if present; otherwise legacy family
	Subfamily      string
	FullName       string
	PostScriptName string
	Weight         Weight
	Style          Style
	Stretch        Stretch
	Metrics        FontMetrics
	NumGlyphs      int
	CMap           *CMap
	Variations     Variations
	Color          ColorInfo
	Issues         []ot.FontWarning // problems with optional tables
}

// Describe extracts the description of a font face from a decoded font.
//
// Tables 'head', 'hhea' and 'maxp' are required; if one is missing, an
// ot.UnsupportedTable error is returned. Invalid required tables result in
// ot.CorruptedData. Problems with optional tables never fail; they are
// recorded in FaceInfo.Issues.
func Describe(otf *ot.Font) (FaceInfo, error) {
	info := FaceInfo{}
	if otf == nil {
		return info, ot.ErrMissingTable(ot.T("head"))
	}
	for _, tag := range []string{"head", "hhea", "maxp"} {
		if !otf.HasTable(ot.T(tag)) {
			return info, ot.ErrMissingTable(ot.T(tag))
		}
	}
	metrics, err := Metrics(otf)
	if err != nil {
		return info, err
	}
	info.Metrics = metrics
	maxp, ok := MaxPInfo(otf)
	if !ok {
		return info, missingOrShort(otf, "maxp")
	}
	info.NumGlyphs = int(maxp.NumGlyphs)
	//
	names := bestNames(otf, 0)
	info.Family = firstName(names, sfnt.NameIDTypographicFamily, sfnt.NameIDFamily)
	info.Subfamily = firstName(names, sfnt.NameIDTypographicSubfamily, sfnt.NameIDSubfamily)
	info.FullName = names[sfnt.NameIDFull]
	info.PostScriptName = names[sfnt.NameIDPostScript]
	if info.Family == "" {
		info.issue("name", "font has no family name")
		info.Family = info.PostScriptName
	}
	info.classify(otf)
	//
	cmap, err := ReadCMap(otf, info.NumGlyphs)
	if err != nil {
		info.issue("cmap", err.Error())
	}
	info.CMap = cmap
	if info.Variations, err = ReadVariations(otf); err != nil {
		info.issue("fvar", err.Error())
	}
	info.Color = ColorTables(otf)
	tracer().Debugf("font %q: weight=%d, style=%s, stretch=%d, %d glyphs, %d code-points",
		info.Family, info.Weight, info.Style, info.Stretch, info.NumGlyphs, info.CMap.Len())
	return info, nil
}

func firstName(names map[sfnt.NameID]string, ids ...sfnt.NameID) string {
	for _, id := range ids {
		if s := names[id]; s != "" {
			return s
		}
	}
	return ""
}

// classify derives weight, stretch and style from tables 'OS/2', 'head' and 'post'.
// Without table 'OS/2', the macStyle bits of 'head' are used.
func (info *FaceInfo) classify(otf *ot.Font) {
	head, _ := HeadInfo(otf) // checked by Metrics
	info.Weight, info.Stretch, info.Style = WeightRegular, StretchNormal, NormalStyle
	italic := head.MacStyle&MacStyleItalic != 0
	os2, ok := OS2Info(otf)
	if ok {
		info.Weight = WeightFromClass(os2.WeightClass)
		info.Stretch = StretchFromClass(os2.WidthClass)
		italic = italic || os2.FsSelection&FsSelectionItalic != 0
	} else {
		info.issue("OS/2", "table missing or too short")
		if head.MacStyle&MacStyleBold != 0 {
			info.Weight = WeightBold
		}
	}
	if ok && os2.Version >= 4 && os2.FsSelection&FsSelectionOblique != 0 {
		var angle float32
		if post, ok := PostInfo(otf); ok {
			angle = float32(-post.ItalicAngle)
		}
		info.Style = ObliqueStyle(angle)
	} else if italic {
		info.Style = ItalicStyle
	}
}

func (info *FaceInfo) issue(table string, msg string) {
	tracer().Infof("font %q: %s: %s", info.Family, table, msg)
	info.Issues = append(info.Issues, ot.FontWarning{
		Table: ot.T(table),
		Issue: msg,
	})
}
