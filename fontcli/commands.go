package main

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/npillmayer/fontsys/discover"
	"github.com/npillmayer/fontsys/ot"
	"github.com/npillmayer/fontsys/otquery"
	"github.com/npillmayer/fontsys/registry"
	"github.com/pterm/pterm"
)

// --- Font Loading -----------------------------------------------------

// load:<file or directory>, or load without argument for the system fonts
func loadOp(intp *Intp, op *Op) (error, bool) {
	path := op.arg(0)
	if path == "" {
		n, errs := intp.fsys.LoadSystemFonts()
		reportLoad(n, errs)
		return nil, false
	}
	info, err := os.Stat(path)
	if err != nil {
		return err, false
	}
	if info.IsDir() {
		n, errs := intp.fsys.Registry().LoadFonts(discover.Dirs(path))
		reportLoad(n, errs)
		return nil, false
	}
	id, err := intp.fsys.LoadFontFile(path)
	if err != nil {
		return err, false
	}
	intp.use(id)
	face, _ := intp.fsys.FontFace(id)
	pterm.Printf("loaded font #%d: %s\n", id, face)
	return nil, false
}

func reportLoad(n int, errs []error) {
	pterm.Printf("loaded %d fonts\n", n)
	if len(errs) > 0 {
		pterm.Info.Printf("skipped %d files\n", len(errs))
		for _, err := range errs {
			tracer().Infof("%v", err)
		}
	}
}

// list[:family substring]
func listOp(intp *Intp, op *Op) (error, bool) {
	filter := strings.ToLower(op.arg(0))
	data := [][]string{
		{"ID", "Family", "Subfamily", "Weight", "Style", "Stretch", "Format"},
	}
	for id, face := range intp.fsys.Registry().Faces() {
		if filter != "" && !strings.Contains(strings.ToLower(face.Family()), filter) {
			continue
		}
		data = append(data, []string{
			strconv.Itoa(int(id)),
			face.Family(),
			face.Subfamily(),
			strconv.Itoa(int(face.Weight())),
			face.Style().String(),
			face.Stretch().String(),
			face.Container().String(),
		})
	}
	if len(data) == 1 {
		pterm.Println("no fonts")
		return nil, false
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return nil, false
}

// use:<id>
func useOp(intp *Intp, op *Op) (error, bool) {
	n, err := strconv.Atoi(op.arg(0))
	if err != nil {
		return fmt.Errorf("font id not numeric: %q", op.arg(0)), false
	}
	id := registry.FontID(n)
	if _, ok := intp.fsys.FontFace(id); !ok || n < 0 {
		return fmt.Errorf("no font #%d", n), false
	}
	intp.use(id)
	return nil, false
}

// match:<families>[:weight[:style[:stretch]]]
func matchOp(intp *Intp, op *Op) (error, bool) {
	desc, err := parseDescriptor(op.args)
	if err != nil {
		return err, false
	}
	id, ok := intp.fsys.MatchFont(desc)
	if !ok {
		pterm.Printf("no font matches %s\n", desc)
		return nil, false
	}
	intp.use(id)
	face, _ := intp.fsys.FontFace(id)
	pterm.Printf("%s => #%d %s (%d, %s, %s)\n", desc, id, face,
		face.Weight(), face.Style(), face.Stretch())
	return nil, false
}

// parseDescriptor reads a font descriptor from command arguments:
// comma-separated families, then optional weight, style and stretch.
func parseDescriptor(args []string) (registry.FontDescriptor, error) {
	if len(args) == 0 || args[0] == "" {
		return registry.FontDescriptor{}, errors.New("no font family given")
	}
	var families []string
	for _, f := range strings.Split(args[0], ",") {
		if f = strings.TrimSpace(f); f != "" {
			families = append(families, f)
		}
	}
	desc := registry.Descriptor(families...)
	if len(args) > 1 && args[1] != "" {
		w, ok := otquery.ParseWeight(args[1])
		if !ok {
			return desc, fmt.Errorf("invalid weight %q", args[1])
		}
		desc = desc.WithWeight(w)
	}
	if len(args) > 2 && args[2] != "" {
		s, ok := otquery.ParseStyle(args[2])
		if !ok {
			return desc, fmt.Errorf("invalid style %q", args[2])
		}
		desc = desc.WithStyle(s)
	}
	if len(args) > 3 && args[3] != "" {
		s, ok := otquery.ParseStretch(args[3])
		if !ok {
			return desc, fmt.Errorf("invalid stretch %q", args[3])
		}
		desc = desc.WithStretch(s)
	}
	return desc, nil
}

// --- Font Properties --------------------------------------------------

func infoOp(intp *Intp, op *Op) (error, bool) {
	face, err := intp.face()
	if err != nil {
		return err, false
	}
	otf, err := face.Font()
	if err != nil {
		return err, false
	}
	data := [][]string{
		{"Property", "Value"},
		{"Family", face.Family()},
		{"Subfamily", face.Subfamily()},
		{"Full name", face.FullName()},
		{"PostScript name", face.PostScriptName()},
		{"Format", otquery.FontType(otf)},
		{"Source", face.Source().String()},
		{"Glyphs", strconv.Itoa(face.NumGlyphs())},
		{"Tables", formatTags(otf.TableTags())},
		{"Layout", strings.Join(otquery.LayoutTables(otf), " ")},
	}
	if head, ok := otquery.HeadInfo(otf); ok {
		data = append(data, []string{"Revision", fmt.Sprintf("%.3f", head.FontRevision)})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	for _, e := range otf.Errors() {
		pterm.Warning.Println(e.Error())
	}
	for _, w := range otf.Warnings() {
		pterm.Info.Println(w.String())
	}
	for _, issue := range face.Info().Issues {
		pterm.Info.Println(issue.String())
	}
	if meta := otf.Metadata(); meta != "" {
		pterm.Println(meta)
	}
	return nil, false
}

func formatTags(tags []ot.Tag) string {
	s := make([]string, len(tags))
	for i, t := range tags {
		s[i] = t.String()
	}
	return strings.Join(s, " ")
}

// metrics[:size]
func metricsOp(intp *Intp, op *Op) (error, bool) {
	face, err := intp.face()
	if err != nil {
		return err, false
	}
	size := float32(registry.DefaultSize)
	if op.arg(0) != "" {
		f, err := strconv.ParseFloat(op.arg(0), 32)
		if err != nil || f <= 0 {
			return fmt.Errorf("invalid size %q", op.arg(0)), false
		}
		size = float32(f)
	}
	m := face.Metrics()
	s, _ := intp.fsys.FontMetrics(intp.current, size)
	row := func(name string, units int, scaled float32) []string {
		return []string{name, strconv.Itoa(units), fmt.Sprintf("%.2f", scaled)}
	}
	data := [][]string{
		{"Metric", "Units", fmt.Sprintf("@%gpx", size)},
		row("Units per em", int(m.UnitsPerEm), size),
		row("Ascent", int(m.Ascent), s.Ascent),
		row("Descent", int(m.Descent), s.Descent),
		row("Line gap", int(m.LineGap), s.LineGap),
		row("Cap height", int(m.CapHeight), s.CapHeight),
		row("x-height", int(m.XHeight), s.XHeight),
		row("Underline position", int(m.UnderlinePosition), s.UnderlinePosition),
		row("Underline thickness", int(m.UnderlineThickness), s.UnderlineThickness),
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	pterm.Printf("line height = %.2f\n", s.LineHeight())
	return nil, false
}

// cmap[:text]
func cmapOp(intp *Intp, op *Op) (error, bool) {
	face, err := intp.face()
	if err != nil {
		return err, false
	}
	cmap := face.CMap()
	pterm.Printf("cmap maps %d code-points\n", cmap.Len())
	data := [][]string{{"Char", "Code-point", "Glyph"}}
	if text := op.arg(0); text != "" {
		for _, r := range text {
			data = append(data, []string{string(r), fmt.Sprintf("U+%04X", r),
				strconv.Itoa(int(cmap.Lookup(r)))})
		}
	} else {
		for r, gid := range cmap.All() {
			if len(data) > 20 {
				break
			}
			data = append(data, []string{string(r), fmt.Sprintf("U+%04X", r), strconv.Itoa(int(gid))})
		}
	}
	if len(data) > 1 {
		pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	}
	return nil, false
}

// axes[:tag=value,...]
func axesOp(intp *Intp, op *Op) (error, bool) {
	face, err := intp.face()
	if err != nil {
		return err, false
	}
	v := face.Variations()
	if !v.IsVariable() {
		pterm.Println("font is not variable")
		return nil, false
	}
	if op.arg(0) != "" {
		coords, err := parseCoords(op.arg(0))
		if err != nil {
			return err, false
		}
		normalized, err := v.NormalizeAll(coords)
		if err != nil {
			return err, false
		}
		for _, axis := range v.Axes {
			pterm.Printf("%s = %.4f\n", axis.Tag, normalized[axis.Tag])
		}
		return nil, false
	}
	data := [][]string{{"Axis", "Name", "Min", "Default", "Max", "Hidden"}}
	for _, a := range v.Axes {
		data = append(data, []string{a.Tag.String(), a.Name,
			fmtNum(a.Min), fmtNum(a.Default), fmtNum(a.Max), strconv.FormatBool(a.Hidden)})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	if len(v.Instances) > 0 {
		data = [][]string{{"Instance", "Coordinates"}}
		for _, inst := range v.Instances {
			c := make([]string, len(inst.Coords))
			for i, x := range inst.Coords {
				c[i] = fmtNum(x)
			}
			data = append(data, []string{inst.Name, strings.Join(c, " ")})
		}
		pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	}
	return nil, false
}

// parseCoords reads axis coordinates like "wght=700,wdth=85".
func parseCoords(s string) (map[ot.Tag]float64, error) {
	coords := make(map[ot.Tag]float64)
	for _, part := range strings.Split(s, ",") {
		tag, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok || len(tag) == 0 || len(tag) > 4 {
			return nil, fmt.Errorf("invalid axis coordinate %q", part)
		}
		x, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid axis coordinate %q", part)
		}
		coords[ot.T(tag)] = x
	}
	return coords, nil
}

func fmtNum(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}

func colorOp(intp *Intp, op *Op) (error, bool) {
	face, err := intp.face()
	if err != nil {
		return err, false
	}
	c := face.Color()
	if !c.IsColor() {
		pterm.Println("font has no color glyphs")
		return nil, false
	}
	var formats []string
	for _, f := range c.Formats() {
		formats = append(formats, f.String())
	}
	pterm.Printf("color formats: %s, preferred: %s\n", strings.Join(formats, ", "), c.PreferredFormat())
	if slices.Contains(c.Formats(), otquery.ColorCOLR) {
		pterm.Printf("COLR version %d, %d palettes\n", c.COLRVersion, c.PaletteCount)
	}
	return nil, false
}

// cache[:clear]
func cacheOp(intp *Intp, op *Op) (error, bool) {
	if op.arg(0) == "clear" {
		intp.fsys.ClearCaches()
	}
	glyphs, shaping := intp.fsys.CacheStats()
	pterm.Printf("glyph cache:   %s\n", glyphs)
	pterm.Printf("shaping cache: %s\n", shaping)
	return nil, false
}
