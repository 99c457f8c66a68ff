package otquery

import (
	"fmt"
	"iter"
	"slices"

	"github.com/npillmayer/fontsys/ot"
	"golang.org/x/text/encoding/charmap"
)

// CMap maps Unicode code-points to glyph indices, as defined by the best
// subtable of a font's table 'cmap'.
//
// The zero value is an empty mapping.
type CMap struct {
	runs  []cmapRun // sorted by first code-point, non-overlapping
	count int
}

// cmapRun maps code-points first…first+n-1 to glyphs gid…gid+n-1.
type cmapRun struct {
	first rune
	n     int32
	gid   ot.GlyphIndex
}

func (run cmapRun) last() rune {
	return run.first + rune(run.n) - 1
}

// Lookup returns the glyph index for a given code-point.
// If the code-point cannot be found, 0 is returned.
//
// From the OpenType specification: character codes that do not correspond to any glyph in
// the font should be mapped to glyph index 0. The glyph at this location must be a special
// glyph representing a missing character, commonly known as '.notdef'.
func (cm *CMap) Lookup(r rune) ot.GlyphIndex {
	if cm == nil {
		return 0
	}
	i, found := slices.BinarySearchFunc(cm.runs, r, func(run cmapRun, r rune) int {
		switch {
		case run.last() < r:
			return -1
		case run.first > r:
			return 1
		}
		return 0
	})
	if !found {
		return 0
	}
	run := cm.runs[i]
	return run.gid + ot.GlyphIndex(r-run.first)
}

// ReverseLookup returns the smallest code-point mapped to a given glyph.
//
// This is an inefficient operation: all code-points are checked sequentially.
// If the glyph index does not correspond to a code-point, 0 is returned.
func (cm *CMap) ReverseLookup(gid ot.GlyphIndex) rune {
	if gid == 0 {
		return 0
	}
	for r, g := range cm.All() {
		if g == gid {
			return r
		}
	}
	return 0
}

// Len returns the number of mapped code-points.
func (cm *CMap) Len() int {
	if cm == nil {
		return 0
	}
	return cm.count
}

// All iterates over all mapped code-points in ascending order.
func (cm *CMap) All() iter.Seq2[rune, ot.GlyphIndex] {
	return func(yield func(rune, ot.GlyphIndex) bool) {
		if cm == nil {
			return
		}
		for _, run := range cm.runs {
			for i := range run.n {
				if !yield(run.first+rune(i), run.gid+ot.GlyphIndex(i)) {
					return
				}
			}
		}
	}
}

// --- Parsing ---------------------------------------------------------------

// Platform IDs and Platform Specific IDs as per
// https://docs.microsoft.com/en-us/typography/opentype/spec/cmap#platform-ids
const (
	pidUnicode   = 0
	pidMacintosh = 1
	pidWindows   = 3

	psidUnicode2FullRepertoire = 4
	psidUnicodeFull            = 6
	psidMacintoshRoman         = 0
	psidWindowsUCS2            = 1
	psidWindowsUCS4            = 10
)

// This value is arbitrary, but defends against parsing malicious font
// files causing excessive memory allocations.
const maxCMapSegments = 40000

type encodingRecord struct {
	platformID uint16
	encodingID uint16
	offset     uint32
}

// rank orders encoding records: full Unicode repertoire first, then BMP,
// then Mac Roman. Records which cannot be used get a negative rank.
func (rec encodingRecord) rank() int {
	switch rec.platformID {
	case pidUnicode:
		if rec.encodingID == psidUnicode2FullRepertoire || rec.encodingID == psidUnicodeFull {
			return 0
		}
		return 1
	case pidWindows:
		switch rec.encodingID {
		case psidWindowsUCS4:
			return 0
		case psidWindowsUCS2:
			return 1
		}
	case pidMacintosh:
		if rec.encodingID == psidMacintoshRoman {
			return 2
		}
	}
	return -1
}

// ReadCMap parses the best subtable of table 'cmap'. Supported subtable formats
// are 0 (Mac Roman only), 4, 6 and 12. Glyph indices not below numGlyphs are
// dropped.
//
// If no usable subtable is found, an empty CMap is returned together with an
// error describing the problem.
func ReadCMap(otf *ot.Font, numGlyphs int) (*CMap, error) {
	b := tableBytes(otf, "cmap")
	if b == nil {
		return &CMap{}, fmt.Errorf("font has no cmap table")
	}
	if len(b) < 4 {
		return &CMap{}, fmt.Errorf("cmap table too short")
	}
	n := int(u16(b[2:]))
	recs := make([]encodingRecord, 0, n)
	for i := range n {
		r := view(b, 4+8*i, 8)
		if r == nil {
			return &CMap{}, fmt.Errorf("cmap encoding records exceed table size")
		}
		rec := encodingRecord{platformID: u16(r), encodingID: u16(r[2:]), offset: u32(r[4:])}
		if rec.rank() >= 0 {
			recs = append(recs, rec)
		}
	}
	slices.SortStableFunc(recs, func(a, b encodingRecord) int {
		return a.rank() - b.rank()
	})
	var errs []error
	for _, rec := range recs {
		cm, err := parseCMapSubtable(b, rec, numGlyphs)
		if err == nil {
			tracer().Debugf("using cmap subtable (%d,%d) with %d code-points",
				rec.platformID, rec.encodingID, cm.Len())
			return cm, nil
		}
		tracer().Debugf("skipping cmap subtable (%d,%d): %v", rec.platformID, rec.encodingID, err)
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return &CMap{}, fmt.Errorf("no usable cmap subtable: %w", errs[0])
	}
	return &CMap{}, fmt.Errorf("no Unicode cmap subtable")
}

func parseCMapSubtable(cmap []byte, rec encodingRecord, numGlyphs int) (*CMap, error) {
	if rec.offset > uint32(len(cmap)) {
		return nil, fmt.Errorf("subtable offset %d out of bounds", rec.offset)
	}
	sub := cmap[rec.offset:]
	if len(sub) < 2 {
		return nil, fmt.Errorf("subtable too short")
	}
	b := &cmapBuilder{numGlyphs: numGlyphs}
	var err error
	switch format := u16(sub); format {
	case 0:
		if rec.platformID != pidMacintosh {
			return nil, fmt.Errorf("format 0 is supported for Mac Roman only")
		}
		err = b.format0(sub)
	case 4:
		err = b.format4(sub)
	case 6:
		err = b.format6(sub)
	case 12:
		err = b.format12(sub)
	default:
		return nil, fmt.Errorf("unsupported cmap format %d", format)
	}
	if err != nil {
		return nil, err
	}
	return b.build(), nil
}

// cmapBuilder collects mappings into runs of consecutive code-points and glyphs.
type cmapBuilder struct {
	runs      []cmapRun
	numGlyphs int
}

func (b *cmapBuilder) add(r rune, gid uint32) {
	if gid == 0 || gid >= uint32(b.numGlyphs) || r < 0 || r > 0x10ffff {
		return
	}
	if k := len(b.runs) - 1; k >= 0 {
		run := &b.runs[k]
		if run.last()+1 == r && uint32(run.gid)+uint32(run.n) == gid {
			run.n++
			return
		}
	}
	b.runs = append(b.runs, cmapRun{first: r, n: 1, gid: ot.GlyphIndex(gid)})
}

// addRange maps first…last to consecutive glyphs starting at gid.
func (b *cmapBuilder) addRange(first, last rune, gid uint32) {
	if first > last || first < 0 {
		return
	}
	if gid == 0 { // code-point first maps to .notdef
		first, gid = first+1, 1
	}
	last = min(last, 0x10ffff)
	if avail := rune(int64(b.numGlyphs) - int64(gid)); last-first >= avail {
		last = first + avail - 1
	}
	if first > last {
		return
	}
	b.runs = append(b.runs, cmapRun{first: first, n: int32(last - first + 1), gid: ot.GlyphIndex(gid)})
}

// build sorts the runs and removes overlaps. A code-point mapped more than
// once keeps the mapping of the run starting first.
func (b *cmapBuilder) build() *CMap {
	slices.SortStableFunc(b.runs, func(x, y cmapRun) int {
		return int(x.first) - int(y.first)
	})
	cm := &CMap{runs: make([]cmapRun, 0, len(b.runs))}
	for _, run := range b.runs {
		if k := len(cm.runs) - 1; k >= 0 {
			prev := cm.runs[k]
			if prev.last() >= run.first {
				skip := prev.last() - run.first + 1
				if skip >= rune(run.n) {
					continue
				}
				run.first += skip
				run.gid += ot.GlyphIndex(skip)
				run.n -= int32(skip)
			}
		}
		cm.runs = append(cm.runs, run)
		cm.count += int(run.n)
	}
	return cm
}

func (b *cmapBuilder) format0(sub []byte) error {
	glyphs := view(sub, 6, 256)
	if glyphs == nil {
		return fmt.Errorf("format 0 subtable too short")
	}
	for code, gid := range glyphs {
		r := charmap.Macintosh.DecodeByte(byte(code))
		b.add(r, uint32(gid))
	}
	return nil
}

func (b *cmapBuilder) format4(sub []byte) error {
	const headerSize = 14
	header := view(sub, 0, headerSize)
	if header == nil {
		return fmt.Errorf("format 4 header too short")
	}
	segCountX2 := int(u16(header[6:]))
	if segCountX2&1 != 0 {
		return fmt.Errorf("format 4 odd segCountX2")
	}
	segCount := segCountX2 / 2
	if segCount > maxCMapSegments {
		return fmt.Errorf("more than %d cmap segments not supported", maxCMapSegments)
	}
	// endCode[segCount], reservedPad, startCode[segCount], idDelta[segCount], idRangeOffset[segCount]
	arrays := view(sub, headerSize, 8*segCount+2)
	if arrays == nil {
		return fmt.Errorf("format 4 segment arrays exceed table size")
	}
	ends := arrays[0:]
	starts := arrays[2*segCount+2:]
	deltas := arrays[4*segCount+2:]
	rangeOffsets := arrays[6*segCount+2:]
	rangeBase := headerSize + 6*segCount + 2 // position of idRangeOffset[0] in sub
	for i := range segCount {
		start, end := rune(u16(starts[2*i:])), rune(u16(ends[2*i:]))
		delta := u16(deltas[2*i:])
		rangeOffset := int(u16(rangeOffsets[2*i:]))
		if start > end || start == 0xffff {
			continue
		}
		if rangeOffset == 0 {
			// glyph = (c + delta) mod 65536, split at the wrap-around
			gid := uint32(uint16(start) + delta)
			wrap := start + 0x10000 - rune(gid) // first code-point mapping to glyph 0
			if wrap <= end {
				b.addRange(start, wrap-1, gid)
				b.addRange(wrap, end, 0)
				continue
			}
			b.addRange(start, end, gid)
			continue
		}
		for c := start; c <= end; c++ {
			pos := rangeBase + 2*i + rangeOffset + 2*int(c-start)
			g := view(sub, pos, 2)
			if g == nil {
				return fmt.Errorf("format 4 glyph index array exceeds table size")
			}
			if gid := u16(g); gid != 0 {
				b.add(c, uint32(gid+delta))
			}
		}
	}
	return nil
}

func (b *cmapBuilder) format6(sub []byte) error {
	header := view(sub, 0, 10)
	if header == nil {
		return fmt.Errorf("format 6 header too short")
	}
	first, count := rune(u16(header[6:])), int(u16(header[8:]))
	glyphs := view(sub, 10, 2*count)
	if glyphs == nil {
		return fmt.Errorf("format 6 glyph array exceeds table size")
	}
	for i := range count {
		b.add(first+rune(i), uint32(u16(glyphs[2*i:])))
	}
	return nil
}

func (b *cmapBuilder) format12(sub []byte) error {
	header := view(sub, 0, 16)
	if header == nil {
		return fmt.Errorf("format 12 header too short")
	}
	n := int(u32(header[12:]))
	if n > maxCMapSegments {
		return fmt.Errorf("more than %d cmap groups not supported", maxCMapSegments)
	}
	groups := view(sub, 16, 12*n)
	if groups == nil {
		return fmt.Errorf("format 12 groups exceed table size")
	}
	for i := range n {
		g := groups[12*i:]
		start, end, gid := u32(g), u32(g[4:]), u32(g[8:])
		if start > end || end > 0x10ffff {
			continue
		}
		b.addRange(rune(start), rune(end), gid)
	}
	return nil
}
