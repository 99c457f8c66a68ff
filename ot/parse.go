package ot

import (
	"fmt"
	"math"
)

// Code comment often will cite passage from the
// OpenType specification version 1.8.4;
// see https://docs.microsoft.com/en-us/typography/opentype/spec/.

// ---------------------------------------------------------------------------

// MinFontSize is the minimum number of bytes of a font binary, i.e. the size of the
// sfnt offset table. Shorter inputs are rejected before the signature is read.
const MinFontSize = 12

// Limits for untrusted counts.
const (
	MaxTableCount = 512     // table records in an sfnt or web font directory
	MaxGlyphCount = 65536   // maximum glyph index (uint16)
	MaxMetadata   = 1 << 20 // extended metadata of web fonts
)

const (
	sfntHeaderSize  = 12
	sfntRecordSize  = 16
	headTableLength = 54
)

// ---------------------------------------------------------------------------

// Checked arithmetic operations to prevent integer overflow

// checkedMulInt checks for overflow in multiplication of two integers
func checkedMulInt(a, b int) (int, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	if a > 0 && b > 0 && a > math.MaxInt/b {
		return 0, fmt.Errorf("integer overflow: %d * %d", a, b)
	}
	if a < 0 && b < 0 && a < math.MaxInt/b {
		return 0, fmt.Errorf("integer overflow: %d * %d", a, b)
	}
	if (a < 0 && b > 0 && a < math.MinInt/b) || (a > 0 && b < 0 && b < math.MinInt/a) {
		return 0, fmt.Errorf("integer overflow: %d * %d", a, b)
	}
	return a * b, nil
}

// checkedAddUint32 checks for overflow in addition of two uint32 values
func checkedAddUint32(a, b uint32) (uint32, error) {
	if a > math.MaxUint32-b {
		return 0, fmt.Errorf("integer overflow: %d + %d", a, b)
	}
	return a + b, nil
}

// ---------------------------------------------------------------------------

// Parse decodes a font from a byte slice. The container format is detected from
// the first 4 bytes of the data.
//
// For sfnt fonts an ot.Font needs ongoing access to the font's byte-data after the
// Parse function returns. Its elements are assumed immutable while the ot.Font
// remains in use. WOFF and WOFF2 fonts are decoded into a freshly allocated sfnt
// binary, available as Font.Binary().
//
// Any fatal problem is reported as a *ParseError.
func Parse(font []byte) (*Font, error) {
	if len(font) < MinFontSize {
		return nil, errorf(CorruptedData, 0, 0, "font data too short: %d bytes", len(font))
	}
	signature := u32(font)
	tracer().Debugf("font signature = %x|%s", signature, Tag(signature).String())
	switch signature {
	case SignatureTrueType, SignatureCFF, SignatureAppleTrueType, SignaturePostScript:
		return parseSFNT(font, containerOf(signature))
	case SignatureWOFF:
		var ec errorCollector
		sfnt, meta, err := decodeWOFF(font, &ec)
		if err != nil {
			return nil, err
		}
		return parseWebFont(sfnt, meta, ContainerWOFF, ec)
	case SignatureWOFF2:
		var ec errorCollector
		sfnt, meta, err := decodeWOFF2(font, &ec)
		if err != nil {
			return nil, err
		}
		return parseWebFont(sfnt, meta, ContainerWOFF2, ec)
	case SignatureCollection:
		return nil, errorf(InvalidFormat, 0, 0, "font collections are not supported")
	}
	return nil, errorf(InvalidFormat, 0, 0, "unknown font signature %08x", signature)
}

func containerOf(signature uint32) Container {
	switch signature {
	case SignatureTrueType:
		return ContainerTrueType
	case SignatureCFF:
		return ContainerCFF
	case SignatureAppleTrueType:
		return ContainerAppleTrueType
	case SignaturePostScript:
		return ContainerPostScript
	}
	return ContainerUnknown
}

// parseWebFont parses a decoded web font. Issues found in the container come
// first in the font's error and warning lists.
func parseWebFont(sfnt []byte, metadata string, container Container, ec errorCollector) (*Font, error) {
	otf, err := parseSFNT(sfnt, container)
	if err != nil {
		return nil, err
	}
	otf.metadata = metadata
	otf.ec.errors = append(ec.errors, otf.ec.errors...)
	otf.ec.warnings = append(ec.warnings, otf.ec.warnings...)
	return otf, nil
}

// parseSFNT reads the table directory of an sfnt binary.
func parseSFNT(font []byte, container Container) (*Font, error) {
	src := binarySegm(font)
	h := FontHeader{
		FontType:   u32(src[0:4]),
		TableCount: u16(src[4:6]),
	}
	tracer().Debugf("header = %v, tag = %x|%s", h, h.FontType, Tag(h.FontType).String())
	if h.TableCount == 0 {
		return nil, errorf(CorruptedData, 0, 4, "font contains no tables")
	}
	if h.TableCount > MaxTableCount {
		return nil, errorf(CorruptedData, 0, 4, "too many tables: %d", h.TableCount)
	}
	otf := &Font{
		Header:    &h,
		container: container,
		binary:    src,
		tables:    make(map[Tag]Table, h.TableCount),
	}
	ec := &otf.ec
	// "The Offset Table is followed immediately by the Table Record entries …
	// sorted in ascending order by tag", 16 bytes each.
	tableRecordsSize, err := checkedMulInt(sfntRecordSize, int(h.TableCount))
	if err != nil {
		return nil, errorf(CorruptedData, 0, sfntHeaderSize, "table count too large: %v", err)
	}
	buf, err := src.view(sfntHeaderSize, tableRecordsSize)
	if err != nil {
		return nil, errorf(OffsetOutOfBounds, 0, sfntHeaderSize,
			"%d table records exceed font size %d", h.TableCount, len(src))
	}
	for b, prevTag := buf, Tag(0); len(b) > 0; b = b[sfntRecordSize:] {
		tag := MakeTag(b)
		if _, dup := otf.tables[tag]; dup {
			return nil, errorf(CorruptedData, tag, 0, "duplicate table record")
		}
		if tag < prevTag {
			ec.addWarning(tag, "table records not sorted by tag", 0)
		}
		prevTag = tag
		checksum, off, size := u32(b[4:8]), u32(b[8:12]), u32(b[12:16])
		if off&3 != 0 { // "all tables must begin on four byte boundries"
			ec.addWarning(tag, "table offset not 4-byte aligned", off)
		}
		// Validate table bounds before slicing to prevent panic
		tableEnd, err := checkedAddUint32(off, size)
		if err != nil {
			return nil, errorf(OffsetOutOfBounds, tag, off, "size calculation overflow: %v", err)
		}
		if off > uint32(len(src)) || tableEnd > uint32(len(src)) {
			return nil, errorf(OffsetOutOfBounds, tag, off,
				"bounds [%d:%d] exceed font size %d", off, tableEnd, len(src))
		}
		data := src[off:tableEnd]
		if tag != T("head") && calcChecksum(data) != checksum {
			ec.addError(tag, "Directory", "table checksum mismatch", SeverityMajor, off)
		}
		otf.tables[tag] = newTable(tag, data, off, size)
	}
	tracer().Debugf("font contains %d tables", len(otf.tables))
	return otf, nil
}

// calcChecksum calculates the sfnt table checksum: the sum of all uint32 words
// of the table, padded with zeros to a multiple of 4 bytes.
func calcChecksum(b []byte) uint32 {
	var sum uint32
	n := len(b) &^ 3
	for i := 0; i < n; i += 4 {
		sum += u32(b[i:])
	}
	if rest := len(b) - n; rest > 0 {
		var last [4]byte
		copy(last[:], b[n:])
		sum += u32(last[:])
	}
	return sum
}
