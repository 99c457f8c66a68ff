package fontload

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font/sfnt"
)

// EnvTestFont names an environment variable which may point to a TrueType
// font to use in tests.
const EnvTestFont = "FONTSYS_TESTFONT"

// wellKnown are fonts with TrueType outlines found on many systems.
var wellKnown = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/TTF/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
	"/usr/share/fonts/noto/NotoSans-Regular.ttf",
	"/System/Library/Fonts/Supplemental/Arial.ttf",
	"/Library/Fonts/Arial.ttf",
	`C:\Windows\Fonts\arial.ttf`,
}

// searchDirs are walked if none of the well-known fonts exists.
var searchDirs = []string{
	"/usr/share/fonts",
	"/usr/local/share/fonts",
	"/System/Library/Fonts",
}

// ScalableFont is a parsed scalable font with original bytes and SFNT view.
type ScalableFont struct {
	Fontname string
	Path     string
	Binary   []byte
	SFNT     *sfnt.Font
}

// FindTestFont returns the path of a TrueType font installed on the system,
// or "" if there is none. Tests call it and skip if no font is found.
func FindTestFont() string {
	if path := os.Getenv(EnvTestFont); path != "" {
		if isFile(path) {
			return path
		}
	}
	for _, path := range wellKnown {
		if isFile(path) {
			return path
		}
	}
	var found string
	for _, dir := range searchDirs {
		filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if found != "" {
				return fs.SkipAll
			} else if err != nil {
				return nil
			}
			if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".ttf") {
				found = path
				return fs.SkipAll
			}
			return nil
		})
		if found != "" {
			break
		}
	}
	return found
}

// LoadTestFont locates a system font with FindTestFont and loads it. It
// returns nil if no font is found or the font cannot be parsed.
func LoadTestFont() *ScalableFont {
	path := FindTestFont()
	if path == "" {
		return nil
	}
	f, err := LoadOpenTypeFont(path)
	if err != nil {
		return nil
	}
	return f
}

// LoadOpenTypeFont loads an OpenType font (TTF or OTF) from a file.
func LoadOpenTypeFont(fontfile string) (*ScalableFont, error) {
	bytez, err := os.ReadFile(fontfile)
	if err != nil {
		return nil, err
	}
	f, err := ParseOpenTypeFont(bytez)
	if err != nil {
		return nil, err
	}
	f.Path = fontfile
	return f, nil
}

// ParseOpenTypeFont loads an OpenType font (TTF or OTF) from memory.
func ParseOpenTypeFont(fbytes []byte) (f *ScalableFont, err error) {
	f = &ScalableFont{Binary: fbytes}
	f.SFNT, err = sfnt.Parse(f.Binary)
	if err != nil {
		return nil, err
	}
	f.Fontname, err = f.SFNT.Name(nil, sfnt.NameIDFull)
	return f, err
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
