package ot

import (
	"bytes"
	"fmt"
	"io"

	"github.com/andybalholm/brotli"
)

// WOFF 2.0, see https://www.w3.org/TR/WOFF2/

const woff2HeaderSize = 48

// woff2KnownTags are the tags which may be referenced by index in a WOFF2
// table directory. Index 63 denotes an explicit tag following the flags byte.
var woff2KnownTags = [63]string{
	"cmap", "head", "hhea", "hmtx", "maxp", "name", "OS/2", "post",
	"cvt ", "fpgm", "glyf", "loca", "prep", "CFF ", "VORG", "EBDT",
	"EBLC", "gasp", "hdmx", "kern", "LTSH", "PCLT", "VDMX", "vhea",
	"vmtx", "BASE", "GDEF", "GPOS", "GSUB", "EBSC", "JSTF", "MATH",
	"CBDT", "CBLC", "COLR", "CPAL", "SVG ", "sbix", "acnt", "avar",
	"bdat", "bloc", "bsln", "cvar", "fdsc", "feat", "fmtx", "fvar",
	"gvar", "hsty", "just", "lcar", "mort", "morx", "opbd", "prop",
	"trak", "Zapf", "Silf", "Glat", "Gloc", "Feat", "Sill",
}

var (
	tagGlyf = T("glyf")
	tagLoca = T("loca")
	tagHmtx = T("hmtx")
	tagHead = T("head")
	tagHhea = T("hhea")
	tagMaxp = T("maxp")
)

// woff2Entry is an entry of a WOFF2 table directory.
type woff2Entry struct {
	tag              Tag
	transformVersion uint8
	origLength       uint32
	transformLength  uint32
	transformed      bool
	data             []byte
}

// decodeWOFF2 decompresses a WOFF2 font into an sfnt binary. It returns the
// sfnt data and the extended metadata (if any). A metadata block which cannot
// be decoded is recorded in ec and skipped.
func decodeWOFF2(font []byte, ec *errorCollector) ([]byte, string, error) {
	src := binarySegm(font)
	if len(src) < woff2HeaderSize {
		return nil, "", errorf(CorruptedData, 0, 0, "WOFF2 header too short")
	}
	r := newStream(src)
	_ = r.u32() // signature
	flavor := r.u32()
	length := r.u32()
	numTables := r.u16()
	reserved := r.u16()
	_ = r.u32() // totalSfntSize
	totalCompressedSize := r.u32()
	// skip majorVersion and minorVersion
	r.bytes(4)
	metaOffset, metaLength, metaOrigLength := r.u32(), r.u32(), r.u32()
	r.bytes(8) // private data block is ignored

	if length != uint32(len(src)) {
		return nil, "", errorf(CorruptedData, 0, 8, "WOFF2 length %d does not match data size %d", length, len(src))
	}
	if flavor == SignatureCollection {
		return nil, "", errorf(InvalidFormat, 0, 4, "WOFF2 font collections are not supported")
	}
	if err := checkFlavor(flavor); err != nil {
		return nil, "", err
	}
	if numTables == 0 || numTables > MaxTableCount {
		return nil, "", errorf(CorruptedData, 0, 12, "invalid WOFF2 table count %d", numTables)
	}
	if reserved != 0 {
		return nil, "", errorf(CorruptedData, 0, 14, "WOFF2 reserved field must be zero")
	}
	entries, index, size, err := readWOFF2Directory(r, int(numTables))
	if err != nil {
		return nil, "", err
	}
	comp, err := src.view(r.pos, int(totalCompressedSize))
	if err != nil {
		return nil, "", errorf(OffsetOutOfBounds, 0, uint32(r.pos),
			"compressed data of %d bytes exceeds WOFF2 size %d", totalCompressedSize, len(src))
	}
	data, err := unbrotli(comp, size)
	if err != nil {
		return nil, "", errorf(CorruptedData, 0, uint32(r.pos), "%v", err)
	}
	tracer().Debugf("WOFF2 decompressed %d -> %d bytes", len(comp), len(data))
	if err := sliceWOFF2Tables(entries, data); err != nil {
		return nil, "", err
	}
	if err := reconstructWOFF2Tables(index); err != nil {
		return nil, "", err
	}
	tables := make([]sfntTable, 0, len(entries))
	for _, e := range entries {
		tables = append(tables, sfntTable{tag: e.tag, data: e.data})
	}
	var meta string
	if metaLength > 0 {
		mcomp, err := src.view(int(metaOffset), int(metaLength))
		if err != nil {
			return nil, "", errorf(OffsetOutOfBounds, 0, metaOffset, "WOFF2 metadata block exceeds data")
		}
		if metaOrigLength > MaxMetadata {
			ec.addError(Tag(SignatureWOFF2), "Metadata", fmt.Sprintf("metadata length %d exceeds limit", metaOrigLength),
				SeverityMinor, metaOffset)
		} else if xml, err := unbrotli(mcomp, uint64(metaOrigLength)); err == nil {
			meta = string(xml)
		} else {
			ec.addError(Tag(SignatureWOFF2), "Metadata", err.Error(), SeverityMinor, metaOffset)
		}
	}
	return assembleSFNT(flavor, tables), meta, nil
}

// readWOFF2Directory reads the table directory. It returns the entries, an index
// of tags to entries and the expected size of the decompressed data.
func readWOFF2Directory(r *stream, numTables int) ([]*woff2Entry, map[Tag]*woff2Entry, uint64, error) {
	entries := make([]*woff2Entry, 0, numTables)
	index := make(map[Tag]*woff2Entry, numTables)
	var size uint64
	for i := 0; i < numTables; i++ {
		flags := r.u8()
		e := &woff2Entry{transformVersion: flags >> 6}
		if tagIndex := flags & 0x3f; tagIndex == 63 {
			e.tag = Tag(r.u32())
		} else {
			e.tag = T(woff2KnownTags[tagIndex])
		}
		var ok bool
		if e.origLength, ok = r.uintBase128(); !ok {
			return nil, nil, 0, woff2DirectoryError(r, e.tag, "origLength")
		}
		switch {
		case (e.tag == tagGlyf || e.tag == tagLoca) && e.transformVersion == 0,
			e.tag == tagHmtx && e.transformVersion == 1:
			e.transformed = true
			if e.transformLength, ok = r.uintBase128(); !ok {
				return nil, nil, 0, woff2DirectoryError(r, e.tag, "transformLength")
			}
			if e.tag != tagLoca && e.transformLength == 0 {
				return nil, nil, 0, errorf(CorruptedData, e.tag, uint32(r.pos), "transformLength must be set")
			}
			if e.tag == tagLoca && e.transformLength != 0 {
				return nil, nil, 0, errorf(CorruptedData, e.tag, uint32(r.pos), "transformLength must be zero")
			}
			size += uint64(e.transformLength)
		case e.transformVersion == 0,
			e.transformVersion == 3 && (e.tag == tagGlyf || e.tag == tagLoca):
			size += uint64(e.origLength)
		default:
			return nil, nil, 0, errorf(UnsupportedCompression, e.tag, uint32(r.pos),
				"unsupported table transform version %d", e.transformVersion)
		}
		if size > MaxDecompressedSize {
			return nil, nil, 0, errorf(CorruptedData, e.tag, 0, "decompressed font size exceeds %d bytes", MaxDecompressedSize)
		}
		if _, dup := index[e.tag]; dup {
			return nil, nil, 0, errorf(CorruptedData, e.tag, 0, "duplicate WOFF2 table entry")
		}
		index[e.tag] = e
		entries = append(entries, e)
	}
	if r.err != nil {
		return nil, nil, 0, errorf(OffsetOutOfBounds, 0, woff2HeaderSize, "WOFF2 table directory exceeds data")
	}
	glyf, loca := index[tagGlyf], index[tagLoca]
	if (glyf == nil) != (loca == nil) {
		return nil, nil, 0, errorf(CorruptedData, tagGlyf, 0, "glyf and loca tables must both be present")
	}
	if glyf != nil && glyf.transformed != loca.transformed {
		return nil, nil, 0, errorf(CorruptedData, tagGlyf, 0, "glyf and loca tables must both be transformed or untransformed")
	}
	return entries, index, size, nil
}

func woff2DirectoryError(r *stream, tag Tag, field string) *ParseError {
	if r.err != nil {
		return errorf(OffsetOutOfBounds, tag, uint32(r.pos), "WOFF2 table directory exceeds data")
	}
	return errorf(CorruptedData, tag, uint32(r.pos), "invalid UIntBase128 value for %s", field)
}

// unbrotli decompresses Brotli data, which has to expand to exactly size bytes.
func unbrotli(comp []byte, size uint64) ([]byte, error) {
	br := brotli.NewReader(bytes.NewReader(comp))
	data, err := io.ReadAll(io.LimitReader(br, int64(size)+1))
	if err != nil {
		return nil, fmt.Errorf("brotli: %w", err)
	}
	if uint64(len(data)) != size {
		return nil, fmt.Errorf("decompressed size %d does not match sum of table lengths %d", len(data), size)
	}
	return data, nil
}

// sliceWOFF2Tables distributes the decompressed data to the table entries.
// Transformed loca tables carry no data; they will be reconstructed from glyf.
func sliceWOFF2Tables(entries []*woff2Entry, data binarySegm) error {
	offset := 0
	for _, e := range entries {
		if e.tag == tagLoca && e.transformed {
			continue
		}
		n := e.origLength
		if e.transformed {
			n = e.transformLength
		}
		b, err := data.view(offset, int(n))
		if err != nil {
			return errorf(OffsetOutOfBounds, e.tag, uint32(offset),
				"table data [%d:+%d] exceeds decompressed size %d", offset, n, len(data))
		}
		e.data = b
		offset += int(n)
	}
	return nil
}

// reconstructWOFF2Tables reverses the glyf/loca and hmtx transforms.
func reconstructWOFF2Tables(index map[Tag]*woff2Entry) error {
	glyf, loca := index[tagGlyf], index[tagLoca]
	if glyf != nil && glyf.transformed {
		g, l, err := reconstructGlyfLoca(glyf.data, loca.origLength)
		if err != nil {
			return err
		}
		glyf.data, loca.data = g, l
		tracer().Debugf("WOFF2 reconstructed glyf (%d bytes) and loca (%d bytes)", len(g), len(l))
	}
	hmtx := index[tagHmtx]
	if hmtx == nil || !hmtx.transformed {
		return nil
	}
	for _, tag := range []Tag{tagHead, tagHhea, tagMaxp, tagGlyf} {
		if index[tag] == nil {
			return errorf(CorruptedData, tagHmtx, 0, "table '%s' required to reconstruct hmtx", tag)
		}
	}
	h, err := reconstructHmtx(hmtx.data, index[tagHead].data, index[tagGlyf].data,
		index[tagLoca].data, index[tagMaxp].data, index[tagHhea].data)
	if err != nil {
		return err
	}
	hmtx.data = h
	return nil
}
