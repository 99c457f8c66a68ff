package registry

import (
	"errors"
	"io/fs"
	"iter"
	"os"

	"github.com/npillmayer/fontsys/ot"
	"github.com/npillmayer/fontsys/otquery"
)

// DefaultMaxFileSize is the default size limit for font files.
const DefaultMaxFileSize = 64 << 20

// Registry holds loaded font faces and matches font descriptors against them.
//
// Faces are never removed. A failing load operation leaves the registry
// unchanged. A Registry is not safe for concurrent use.
type Registry struct {
	faces       []*FontFace // indexed by FontID
	maxFileSize int64
	filter      func(*FontFace) bool
}

// Option configures a Registry.
type Option func(*Registry)

// WithMaxFileSize sets the size limit for font files loaded with LoadFontFile.
func WithMaxFileSize(size int64) Option {
	return func(r *Registry) {
		r.maxFileSize = size
	}
}

// WithFaceFilter restricts the faces LoadFonts accepts from a discovery
// function. Faces for which accept returns false are skipped silently.
func WithFaceFilter(accept func(*FontFace) bool) Option {
	return func(r *Registry) {
		r.filter = accept
	}
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{maxFileSize: DefaultMaxFileSize}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// LoadFontData decodes a font from memory and adds it to the registry.
// The data must not be modified afterwards.
//
// Empty data fails with an InvalidFont error, undecodable data with a
// ParseFailure error wrapping the decoder's *ot.ParseError.
func (r *Registry) LoadFontData(data []byte) (FontID, error) {
	face, err := prepareFace(Embedded(data), data)
	if err != nil {
		return 0, err
	}
	return r.add(face), nil
}

// LoadFontFile reads a font file and adds it to the registry. The file is
// read twice: here to describe the face, then by the first FontFace.Font,
// as a file-backed face keeps only its path and metadata.
func (r *Registry) LoadFontFile(path string) (FontID, error) {
	face, err := r.prepareFile(path)
	if err != nil {
		return 0, err
	}
	return r.add(face), nil
}

// LoadSource adds the font of a source to the registry.
func (r *Registry) LoadSource(src *FontSource) (FontID, error) {
	face, err := r.prepareSource(src)
	if err != nil {
		return 0, err
	}
	return r.add(face), nil
}

// LoadFonts loads every font yielded by a discovery function, skipping fonts
// which fail to load. It returns the number of faces added and the errors of
// the skipped fonts.
func (r *Registry) LoadFonts(discover DiscoverFunc) (int, []error) {
	if discover == nil {
		return 0, nil
	}
	var errs []error
	n := 0
	for src := range discover() {
		face, err := r.prepareSource(src)
		if err != nil {
			tracer().Infof("skipping font %s: %v", src, err)
			errs = append(errs, err)
			continue
		}
		if r.filter != nil && !r.filter(face) {
			tracer().Debugf("font %s rejected by filter", src)
			continue
		}
		r.add(face)
		n++
	}
	tracer().Infof("loaded %d fonts, %d failures", n, len(errs))
	return n, errs
}

func (r *Registry) prepareSource(src *FontSource) (*FontFace, error) {
	if src.Kind() == SourceFileBacked {
		return r.prepareFile(src.Path())
	}
	data, _ := src.Bytes()
	return prepareFace(src, data)
}

func (r *Registry) prepareFile(path string) (*FontFace, error) {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, regError(FileNotFound, path, err)
	case err != nil:
		return nil, regError(IoFailure, path, err)
	case info.IsDir():
		return nil, regError(IoFailure, path, errors.New("is a directory"))
	case info.Size() > r.maxFileSize:
		return nil, regError(FileTooLarge, path, nil)
	case info.Size() == 0:
		return nil, regError(InvalidFont, path, nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, regError(IoFailure, path, err)
	}
	return prepareFace(FileBacked(path), data)
}

// prepareFace decodes and describes a font. It does not touch the registry.
func prepareFace(src *FontSource, data []byte) (*FontFace, error) {
	if len(data) == 0 {
		return nil, regError(InvalidFont, src.Path(), nil)
	}
	otf, err := ot.Parse(data)
	if err != nil {
		tracer().Errorf("cannot decode font %s: %v", src, err)
		return nil, regError(ParseFailure, src.Path(), err)
	}
	info, err := otquery.Describe(otf)
	if err != nil {
		tracer().Errorf("cannot use font %s: %v", src, err)
		return nil, regError(ParseFailure, src.Path(), err)
	}
	return newFace(src, otf, info), nil
}

func (r *Registry) add(face *FontFace) FontID {
	face.id = FontID(len(r.faces))
	r.faces = append(r.faces, face)
	tracer().Debugf("font #%d: %s, %s, %s, %s", face.id, face.Family(),
		face.Weight(), face.Style(), face.Stretch())
	return face.id
}

// FontFace returns the face for an ID.
func (r *Registry) FontFace(id FontID) (*FontFace, bool) {
	if int64(id) >= int64(len(r.faces)) {
		return nil, false
	}
	return r.faces[id], true
}

// FontMetrics returns the metrics of a face scaled to a font size.
func (r *Registry) FontMetrics(id FontID, size float32) (otquery.ScaledMetrics, bool) {
	face, ok := r.FontFace(id)
	if !ok {
		return otquery.ScaledMetrics{}, false
	}
	return face.Metrics().Scale(size), true
}

// FontCount returns the number of loaded faces.
func (r *Registry) FontCount() int {
	return len(r.faces)
}

// Faces iterates over all faces in ID order.
func (r *Registry) Faces() iter.Seq2[FontID, *FontFace] {
	return func(yield func(FontID, *FontFace) bool) {
		for _, face := range r.faces {
			if !yield(face.id, face) {
				return
			}
		}
	}
}

// Families returns the distinct family names of the loaded faces, in load order.
func (r *Registry) Families() []string {
	seen := make(map[string]bool)
	var families []string
	for _, face := range r.faces {
		if !seen[face.familyKey] {
			seen[face.familyKey] = true
			families = append(families, face.Family())
		}
	}
	return families
}
