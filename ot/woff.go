package ot

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
)

// WOFF 1.0, see https://www.w3.org/TR/WOFF/

const (
	woffHeaderSize = 44
	woffEntrySize  = 20
	// MaxDecompressedSize limits the size of a decompressed web font.
	MaxDecompressedSize = 1 << 28
)

// decodeWOFF decompresses a WOFF font into an sfnt binary. It returns the
// sfnt data and the extended metadata (if any). A metadata block which cannot
// be decoded is recorded in ec and skipped.
func decodeWOFF(font []byte, ec *errorCollector) ([]byte, string, error) {
	src := binarySegm(font)
	if len(src) < woffHeaderSize {
		return nil, "", errorf(CorruptedData, 0, 0, "WOFF header too short")
	}
	r := newStream(src)
	_ = r.u32() // signature
	flavor := r.u32()
	length := r.u32()
	numTables := r.u16()
	reserved := r.u16()
	// skip totalSfntSize, majorVersion and minorVersion
	r.bytes(8)
	metaOffset, metaLength, metaOrigLength := r.u32(), r.u32(), r.u32()
	// private data block is ignored

	if length != uint32(len(src)) {
		return nil, "", errorf(CorruptedData, 0, 8, "WOFF length %d does not match data size %d", length, len(src))
	}
	if err := checkFlavor(flavor); err != nil {
		return nil, "", err
	}
	if numTables == 0 || numTables > MaxTableCount {
		return nil, "", errorf(CorruptedData, 0, 12, "invalid WOFF table count %d", numTables)
	}
	if reserved != 0 {
		return nil, "", errorf(CorruptedData, 0, 14, "WOFF reserved field must be zero")
	}
	dirSize, _ := checkedMulInt(woffEntrySize, int(numTables))
	dir, err := src.view(woffHeaderSize, dirSize)
	if err != nil {
		return nil, "", errorf(OffsetOutOfBounds, 0, woffHeaderSize, "WOFF table directory exceeds data")
	}
	tables := make([]sfntTable, 0, numTables)
	seen := make(map[Tag]bool, numTables)
	var total uint64
	for i := 0; i < int(numTables); i++ {
		e := dir[i*woffEntrySize:]
		tag := MakeTag(e[0:4])
		offset, compLength, origLength := u32(e[4:8]), u32(e[8:12]), u32(e[12:16])
		if seen[tag] {
			return nil, "", errorf(CorruptedData, tag, 0, "duplicate WOFF table entry")
		}
		seen[tag] = true
		if total += uint64(origLength); total > MaxDecompressedSize {
			return nil, "", errorf(CorruptedData, tag, 0, "decompressed font size exceeds %d bytes", MaxDecompressedSize)
		}
		comp, err := src.view(int(offset), int(compLength))
		if err != nil {
			return nil, "", errorf(OffsetOutOfBounds, tag, offset,
				"table data [%d:+%d] exceeds WOFF size %d", offset, compLength, len(src))
		}
		var data []byte
		switch {
		case compLength == origLength:
			data = comp
		case compLength < origLength:
			if data, err = inflate(comp, origLength); err != nil {
				return nil, "", errorf(CorruptedData, tag, offset, "%v", err)
			}
		default:
			return nil, "", errorf(CorruptedData, tag, offset,
				"compressed length %d exceeds original length %d", compLength, origLength)
		}
		tracer().Debugf("WOFF table %s: %d -> %d bytes", tag, compLength, origLength)
		tables = append(tables, sfntTable{tag: tag, data: data})
	}
	var meta string
	if metaLength > 0 {
		comp, err := src.view(int(metaOffset), int(metaLength))
		if err != nil {
			return nil, "", errorf(OffsetOutOfBounds, 0, metaOffset, "WOFF metadata block exceeds data")
		}
		if metaOrigLength > MaxMetadata {
			ec.addError(Tag(SignatureWOFF), "Metadata", fmt.Sprintf("metadata length %d exceeds limit", metaOrigLength),
				SeverityMinor, metaOffset)
		} else if xml, err := inflate(comp, metaOrigLength); err == nil {
			meta = string(xml)
		} else {
			ec.addError(Tag(SignatureWOFF), "Metadata", err.Error(), SeverityMinor, metaOffset)
		}
	}
	return assembleSFNT(flavor, tables), meta, nil
}

// inflate decompresses zlib data, which has to expand to exactly size bytes.
func inflate(comp []byte, size uint32) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(comp))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	data, err := io.ReadAll(io.LimitReader(zr, int64(size)+1))
	if err != nil {
		return nil, err
	}
	if len(data) != int(size) {
		return nil, fmt.Errorf("decompressed length %d does not match original length %d", len(data), size)
	}
	return data, nil
}

// checkFlavor checks the sfnt flavor of a web font.
func checkFlavor(flavor uint32) error {
	switch flavor {
	case SignatureWOFF, SignatureWOFF2, SignatureCollection:
		return errorf(InvalidFormat, 0, 4, "unsupported web font flavor %08x", flavor)
	}
	return nil
}
