package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/npillmayer/fontsys/ot"
	"github.com/npillmayer/fontsys/otquery"
	"github.com/thatisuday/commando"
)

func runInspectCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	fontPath := strings.TrimSpace(args["font"].Value)
	fsys := newFontSystem()
	id := mustLoadFont(fsys, fontPath)
	face, _ := fsys.FontFace(id)
	otf, err := face.Font()
	if err != nil {
		fatalf("cannot re-read font %s: %v", fontPath, err)
	}

	fmt.Printf("Path: %s\n", fontPath)
	fmt.Printf("Type: %s (%s)\n", otquery.FontType(otf), face.Container())
	fmt.Printf("Family: %s\n", face.Family())
	if sub := face.Subfamily(); sub != "" {
		fmt.Printf("Subfamily: %s\n", sub)
	}
	if version := otquery.NameInfo(otf, 0)["version"]; version != "" {
		fmt.Printf("Version: %s\n", version)
	}
	fmt.Printf("Style: weight=%d style=%s stretch=%s\n", face.Weight(), face.Style(), face.Stretch())
	m := face.Metrics()
	fmt.Printf("Metrics: upem=%d ascent=%d descent=%d linegap=%d\n",
		m.UnitsPerEm, m.Ascent, m.Descent, m.LineGap)
	fmt.Printf("Glyphs: %d, mapped code-points: %d\n", face.NumGlyphs(), face.CMap().Len())
	if v := face.Variations(); v.IsVariable() {
		tags := make([]string, len(v.Axes))
		for i, a := range v.Axes {
			tags[i] = a.Tag.String()
		}
		fmt.Printf("Axes: %s (%d named instances)\n", strings.Join(tags, ","), len(v.Instances))
	}
	if c := face.Color(); c.IsColor() {
		fmt.Printf("Color: %s\n", c.PreferredFormat())
	}

	tags := otf.TableTags()
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	fmt.Printf("Tables (%d):", len(tags))
	for _, tag := range tags {
		fmt.Printf(" %s", tag.String())
	}
	fmt.Println()
	layoutTables := otquery.LayoutTables(otf)
	sort.Strings(layoutTables)
	fmt.Printf("Layout: %s\n", strings.Join(layoutTables, ","))

	errs := otf.Errors()
	warns := otf.Warnings()
	issues := face.Info().Issues
	fmt.Printf("Issues: errors=%d warnings=%d face=%d\n", len(errs), len(warns), len(issues))

	if len(args["tables"].Value) > 0 {
		printSelectedTables(otf, args["tables"].Value)
	}
	if mustFlagBool(flags["errors"], "errors") {
		for _, e := range errs {
			fmt.Printf("error: %s\n", e.Error())
		}
		for _, w := range warns {
			fmt.Printf("warning: %s\n", w.String())
		}
		for _, issue := range issues {
			fmt.Printf("issue: %s\n", issue.String())
		}
	}
}

func printSelectedTables(otf *ot.Font, raw string) {
	for _, t := range splitCSVSpace(raw) {
		tagName := strings.TrimSpace(t)
		if tagName == "" {
			continue
		}
		table := otf.Table(ot.T(tagName))
		if table == nil {
			fmt.Printf("table %s: missing\n", tagName)
			continue
		}
		off, size := table.Extent()
		fmt.Printf("table %s: offset=%d size=%d\n", tagName, off, size)
	}
}
