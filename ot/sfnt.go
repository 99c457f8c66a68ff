package ot

import (
	"math/bits"
	"slices"
)

// sfntTable is a table to be placed into a synthesized sfnt binary.
type sfntTable struct {
	tag  Tag
	data []byte
}

// checkSumAdjustmentMagic is used to compute head.checkSumAdjustment.
const checkSumAdjustmentMagic = 0xB1B0AFBA

// assembleSFNT creates an sfnt binary from a list of tables. Tables are sorted by tag
// and padded to 4-byte boundaries, table checksums and head.checkSumAdjustment are
// recomputed.
func assembleSFNT(flavor uint32, tables []sfntTable) []byte {
	slices.SortFunc(tables, func(a, b sfntTable) int {
		switch {
		case a.tag < b.tag:
			return -1
		case a.tag > b.tag:
			return 1
		}
		return 0
	})
	numTables := len(tables)
	entrySelector := 0
	if numTables > 0 {
		entrySelector = bits.Len(uint(numTables)) - 1
	}
	searchRange := (1 << entrySelector) * sfntRecordSize
	rangeShift := numTables*sfntRecordSize - searchRange

	size := sfntHeaderSize + numTables*sfntRecordSize
	for _, t := range tables {
		size += padded(len(t.data))
	}
	out := make([]byte, size)
	putU32(out[0:], flavor)
	putU16(out[4:], uint16(numTables))
	putU16(out[6:], uint16(searchRange))
	putU16(out[8:], uint16(entrySelector))
	putU16(out[10:], uint16(rangeShift))

	headOffset := -1
	offset := sfntHeaderSize + numTables*sfntRecordSize
	for i, t := range tables {
		data := out[offset : offset+len(t.data)]
		copy(data, t.data)
		if t.tag == T("head") && len(data) >= 12 {
			putU32(data[8:], 0) // checkSumAdjustment
			headOffset = offset
		}
		rec := out[sfntHeaderSize+i*sfntRecordSize:]
		putU32(rec[0:], uint32(t.tag))
		putU32(rec[4:], calcChecksum(data))
		putU32(rec[8:], uint32(offset))
		putU32(rec[12:], uint32(len(t.data)))
		offset += padded(len(t.data))
	}
	if headOffset >= 0 {
		putU32(out[headOffset+8:], checkSumAdjustmentMagic-calcChecksum(out))
	}
	return out
}

func padded(n int) int {
	return (n + 3) &^ 3
}
