package discover

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/fontsys/internal/fonttest"
	"github.com/npillmayer/fontsys/registry"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func TestDirsYieldsFontFiles(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsys.discover")
	defer teardown()
	//
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.ttf"), fonttest.Regular("A").SFNT())
	writeFile(t, filepath.Join(root, "sub", "b.WOFF2"), fonttest.Regular("B").WOFF2())
	writeFile(t, filepath.Join(root, "sub", "readme.txt"), []byte("no font"))
	writeFile(t, filepath.Join(root, "sub", "deeper", "broken.otf"), []byte("garbage!garbage!"))
	//
	var paths []string
	for src := range Dirs(root, filepath.Join(root, "missing"), root)() {
		assert.Equal(t, registry.SourceFileBacked, src.Kind())
		assert.False(t, src.Loaded())
		rel, err := filepath.Rel(root, src.Path())
		require.NoError(t, err)
		paths = append(paths, filepath.ToSlash(rel))
	}
	assert.Equal(t, []string{"a.ttf", "sub/b.WOFF2", "sub/deeper/broken.otf"}, paths)
	//
	reg := registry.New()
	n, errs := reg.LoadFonts(Dirs(root))
	assert.Equal(t, 2, n)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], registry.ParseFailure)
	assert.Equal(t, []string{"A", "B"}, reg.Families())
}

func TestDirsStopsEarly(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"1.ttf", "2.ttf", "3.ttf"} {
		writeFile(t, filepath.Join(root, name), []byte("x"))
	}
	n := 0
	for range Dirs(root)() {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

func TestIsFontFile(t *testing.T) {
	assert.True(t, IsFontFile("x/Font.TTF"))
	assert.True(t, IsFontFile("f.woff2"))
	assert.False(t, IsFontFile("f.ttc"))
	assert.False(t, IsFontFile("ttf"))
	assert.NotEmpty(t, SystemDirs())
}
