package main

import (
	"fmt"
	"strings"

	"github.com/npillmayer/fontsys"
	"github.com/npillmayer/fontsys/discover"
	"github.com/npillmayer/fontsys/otquery"
	"github.com/npillmayer/fontsys/registry"
	"github.com/thatisuday/commando"
)

func runMatchCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	dir := strings.TrimSpace(args["dir"].Value)
	if dir == "" {
		fatalf("font directory is required")
	}
	desc, err := matchDescriptor(
		mustFlagString(flags["family"], "family"),
		mustFlagString(flags["weight"], "weight"),
		mustFlagString(flags["style"], "style"),
		mustFlagString(flags["stretch"], "stretch"),
	)
	if err != nil {
		fatalf("%v", err)
	}
	fsys := fontsys.New(fontsys.WithDiscovery(discover.Dirs(dir)))
	n, errs := fsys.LoadSystemFonts()
	fmt.Printf("loaded %d fonts from %s (%d skipped)\n", n, dir, len(errs))
	if mustFlagBool(flags["verbose"], "verbose") {
		for _, err := range errs {
			fmt.Printf("skipped: %v\n", err)
		}
	}
	id, ok := fsys.MatchFont(desc)
	if !ok {
		fatalf("no font matches %s", desc)
	}
	face, _ := fsys.FontFace(id)
	fmt.Printf("%s => %s\n", desc, face)
	fmt.Printf("  source:  %s\n", face.Source())
	fmt.Printf("  weight:  %d\n", face.Weight())
	fmt.Printf("  style:   %s\n", face.Style())
	fmt.Printf("  stretch: %s\n", face.Stretch())
}

// matchDescriptor builds a font descriptor from flag values.
func matchDescriptor(families, weight, style, stretch string) (registry.FontDescriptor, error) {
	var names []string
	for _, f := range strings.Split(families, ",") {
		if f = strings.TrimSpace(f); f != "" {
			names = append(names, f)
		}
	}
	if len(names) == 0 {
		return registry.FontDescriptor{}, fmt.Errorf("no font family given")
	}
	desc := registry.Descriptor(names...)
	w, ok := otquery.ParseWeight(weight)
	if !ok {
		return desc, fmt.Errorf("invalid weight %q", weight)
	}
	s, ok := otquery.ParseStyle(style)
	if !ok {
		return desc, fmt.Errorf("invalid style %q", style)
	}
	st, ok := otquery.ParseStretch(stretch)
	if !ok {
		return desc, fmt.Errorf("invalid stretch %q", stretch)
	}
	return desc.WithWeight(w).WithStyle(s).WithStretch(st), nil
}
