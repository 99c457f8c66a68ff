/*
Package discover finds font files in directories.

Discovery is not part of the font registry: clients pass a discovery function
to registry.Registry.LoadFonts or to fontsys.WithDiscovery.

	fsys := fontsys.New(fontsys.WithDiscovery(discover.Dirs(discover.SystemDirs()...)))

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package discover

import (
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/npillmayer/fontsys/registry"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'fontsys.discover'
func tracer() tracing.Trace {
	return tracing.Select("fontsys.discover")
}

// Extensions are the file extensions of fonts yielded by Dirs.
var Extensions = []string{".ttf", ".otf", ".woff", ".woff2"}

// Dirs returns a discovery function which walks the given directories
// recursively and yields a file-backed source for every font file.
// Files are not opened. Missing or unreadable directories are skipped.
func Dirs(dirs ...string) registry.DiscoverFunc {
	return func() iter.Seq[*registry.FontSource] {
		return func(yield func(*registry.FontSource) bool) {
			seen := make(map[string]bool)
			for _, dir := range dirs {
				stop := false
				filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
					if err != nil {
						tracer().Debugf("skipping %s: %v", path, err)
						if d != nil && d.IsDir() {
							return fs.SkipDir
						}
						return nil
					}
					if d.IsDir() || !IsFontFile(path) || seen[path] {
						return nil
					}
					seen[path] = true
					if !yield(registry.FileBacked(path)) {
						stop = true
						return fs.SkipAll
					}
					return nil
				})
				if stop {
					return
				}
			}
		}
	}
}

// IsFontFile reports whether a file name carries one of the Extensions.
// Case is ignored.
func IsFontFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// SystemDirs returns the conventional font directories of the operating
// system, including the user's own font directories. Directories which do
// not exist are included; Dirs skips them.
func SystemDirs() []string {
	home, _ := os.UserHomeDir()
	var dirs []string
	switch runtime.GOOS {
	case "darwin":
		dirs = []string{"/System/Library/Fonts", "/Library/Fonts"}
		if home != "" {
			dirs = append(dirs, filepath.Join(home, "Library", "Fonts"))
		}
	case "windows":
		windir := os.Getenv("WINDIR")
		if windir == "" {
			windir = `C:\Windows`
		}
		dirs = []string{filepath.Join(windir, "Fonts")}
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			dirs = append(dirs, filepath.Join(local, "Microsoft", "Windows", "Fonts"))
		}
	default:
		dirs = []string{"/usr/share/fonts", "/usr/local/share/fonts"}
		if data := os.Getenv("XDG_DATA_HOME"); data != "" {
			dirs = append(dirs, filepath.Join(data, "fonts"))
		} else if home != "" {
			dirs = append(dirs, filepath.Join(home, ".local", "share", "fonts"))
		}
		if home != "" {
			dirs = append(dirs, filepath.Join(home, ".fonts"))
		}
	}
	return dirs
}
