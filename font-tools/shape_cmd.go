package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/npillmayer/fontsys"
	"github.com/thatisuday/commando"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/bidi"
)

func runShapeCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	fsys := newFontSystem()
	id := mustLoadFont(fsys, strings.TrimSpace(args["font"].Value))

	opts, err := parseShapeOptions(flags)
	if err != nil {
		fatalf("%v", err)
	}
	input, err := parseTextInput(args["text"], flags["codepoints"])
	if err != nil {
		fatalf("%v", err)
	}
	size := mustFlagInt(flags["size"], "size")
	if size <= 0 {
		fatalf("--size must be > 0")
	}
	st, err := fsys.ShapeText(id, input, float32(size), opts)
	if err != nil {
		fatalf("shape failed: %v", err)
	}
	fmt.Println(formatGlyphOutput(st.Glyphs))
	fmt.Printf("advance=%.2f\n", st.Advance)
}

func parseShapeOptions(flags map[string]commando.FlagValue) (fontsys.ShapeOptions, error) {
	opts := fontsys.DefaultShapeOptions()
	var err error
	if opts.Script, err = parseScript(mustFlagString(flags["script"], "script")); err != nil {
		return opts, err
	}
	if opts.Language, err = parseLanguage(mustFlagString(flags["lang"], "lang")); err != nil {
		return opts, err
	}
	if opts.Direction, err = parseDirection(mustFlagString(flags["direction"], "direction")); err != nil {
		return opts, err
	}
	if opts.Features, err = parseFeatureList(mustFlagString(flags["features"], "features")); err != nil {
		return opts, err
	}
	return opts, nil
}

func parseScript(s string) (language.Script, error) {
	if s == "" {
		s = "Latn"
	}
	scr, err := language.ParseScript(s)
	if err != nil {
		return language.Script{}, fmt.Errorf("invalid script %q: %w", s, err)
	}
	return scr, nil
}

func parseLanguage(s string) (language.Tag, error) {
	if s == "" {
		s = "en"
	}
	tag, err := language.Parse(s)
	if err != nil {
		return language.Und, fmt.Errorf("invalid language tag %q: %w", s, err)
	}
	return tag, nil
}

func parseDirection(s string) (bidi.Direction, error) {
	switch strings.ToLower(s) {
	case "", "ltr", "left-to-right":
		return bidi.LeftToRight, nil
	case "rtl", "right-to-left":
		return bidi.RightToLeft, nil
	default:
		return bidi.LeftToRight, fmt.Errorf("unsupported direction %q (expected ltr|rtl)", s)
	}
}

// parseFeatureList reads a list like "liga=1,kern=0,+smcp,-calt".
// "-" denotes an empty list.
func parseFeatureList(spec string) (map[string]uint32, error) {
	if spec == "-" || spec == "" {
		return nil, nil
	}
	features := make(map[string]uint32)
	for _, p := range splitCSVSpace(spec) {
		tag, value, err := parseFeatureItem(p)
		if err != nil {
			return nil, err
		}
		features[tag] = value
	}
	return features, nil
}

func parseFeatureItem(item string) (string, uint32, error) {
	item = strings.TrimSpace(item)
	if item == "" {
		return "", 0, errors.New("empty feature entry in --features")
	}
	var value uint32 = 1
	if strings.HasPrefix(item, "+") {
		item = item[1:]
	} else if strings.HasPrefix(item, "-") {
		item = item[1:]
		value = 0
	}
	tag := item
	if eq := strings.IndexByte(item, '='); eq >= 0 {
		tag = item[:eq]
		v := strings.TrimSpace(item[eq+1:])
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return "", 0, fmt.Errorf("invalid feature value in %q", item)
		}
		value = uint32(n)
	}
	tag = strings.TrimSpace(tag)
	if len(tag) != 4 {
		return "", 0, fmt.Errorf("feature tag %q is not 4 characters", tag)
	}
	return tag, value, nil
}

// formatGlyphOutput prints glyphs as "[gid=cluster+advance@xoff,yoff|…]".
func formatGlyphOutput(glyphs []fontsys.ShapedGlyph) string {
	var b strings.Builder
	b.WriteString("[")
	for i, g := range glyphs {
		if i > 0 {
			b.WriteString("|")
		}
		fmt.Fprintf(&b, "%d=%d+%s", g.GID, g.Cluster, fmtPx(g.XAdvance))
		if g.YAdvance != 0 {
			fmt.Fprintf(&b, ",%s", fmtPx(g.YAdvance))
		}
		if g.XOffset != 0 || g.YOffset != 0 {
			fmt.Fprintf(&b, "@%s,%s", fmtPx(g.XOffset), fmtPx(g.YOffset))
		}
	}
	b.WriteString("]")
	return b.String()
}

func fmtPx(x float32) string {
	return strconv.FormatFloat(float64(x), 'f', -1, 32)
}
