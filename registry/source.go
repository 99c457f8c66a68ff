package registry

import (
	"iter"
	"os"
	"sync"
	"sync/atomic"
)

// SourceKind tells where the bytes of a font face come from.
type SourceKind int

const (
	SourceEmbedded   SourceKind = iota // bytes held in memory
	SourceFileBacked                   // bytes read from a file on first use
)

func (k SourceKind) String() string {
	if k == SourceFileBacked {
		return "file"
	}
	return "embedded"
}

// FontSource delivers the bytes of a font, either from memory or from a file.
//
// A file-backed source reads its file once, on the first call of Bytes, and
// keeps the data for its lifetime. The file is assumed not to change while
// the source is in use; changes are not detected.
//
// FontSource is safe for concurrent use.
type FontSource struct {
	kind   SourceKind
	path   string
	once   sync.Once
	data   []byte
	err    error
	loaded atomic.Bool
}

// Embedded creates a source for font data in memory. The data must not be
// modified while the source is in use.
func Embedded(data []byte) *FontSource {
	src := &FontSource{kind: SourceEmbedded, data: data}
	src.once.Do(func() {})
	src.loaded.Store(true)
	return src
}

// FileBacked creates a source for a font file. The file is not accessed
// before the first call of Bytes.
func FileBacked(path string) *FontSource {
	return &FontSource{kind: SourceFileBacked, path: path}
}

// Kind returns the kind of source.
func (src *FontSource) Kind() SourceKind {
	return src.kind
}

// Path returns the font file of a file-backed source, or "".
func (src *FontSource) Path() string {
	return src.path
}

// Bytes returns the font data. For file-backed sources, the file is read on
// the first call; the result, including a read error, is kept.
func (src *FontSource) Bytes() ([]byte, error) {
	src.once.Do(func() {
		tracer().Debugf("reading font file %s", src.path)
		src.data, src.err = os.ReadFile(src.path)
		src.loaded.Store(src.err == nil)
	})
	return src.data, src.err
}

// Loaded reports whether the font data is in memory.
func (src *FontSource) Loaded() bool {
	return src.loaded.Load()
}

func (src *FontSource) String() string {
	if src.kind == SourceFileBacked {
		return src.path
	}
	return "<embedded font>"
}

// DiscoverFunc yields candidate font sources, e.g. the font files found in a
// set of directories. Registry.LoadFonts consumes them.
type DiscoverFunc func() iter.Seq[*FontSource]
