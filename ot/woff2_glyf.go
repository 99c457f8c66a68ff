package ot

import (
	"encoding/binary"
	"math"
)

// Reconstruction of transformed WOFF2 tables.
// See https://www.w3.org/TR/WOFF2/#glyf_table_format and
// https://www.w3.org/TR/WOFF2/#hmtx_table_format.

const glyfTransformHeaderSize = 36

// glyfStreams holds the sub-streams of a transformed glyf table.
type glyfStreams struct {
	nContour    *stream
	nPoints     *stream
	flags       *stream
	glyphs      *stream
	composite   *stream
	bboxBitmap  []byte
	bbox        *stream
	instruction *stream
	overlap     []byte // optional, one bit per glyph
}

// reconstructGlyfLoca rebuilds the glyf and loca tables from a transformed glyf table.
func reconstructGlyfLoca(b []byte, origLocaLength uint32) ([]byte, []byte, error) {
	r := newStream(b)
	_ = r.u16() // reserved
	optionFlags := r.u16()
	numGlyphs := r.u16()
	indexFormat := r.u16()
	var sizes [7]uint32
	for i := range sizes {
		sizes[i] = r.u32()
	}
	if r.err != nil {
		return nil, nil, errorf(OffsetOutOfBounds, tagGlyf, 0, "transformed glyf header exceeds table size %d", len(b))
	}
	if sizes[0] != 2*uint32(numGlyphs) {
		return nil, nil, errorf(CorruptedData, tagGlyf, 8, "nContour stream size %d does not match %d glyphs",
			sizes[0], numGlyphs)
	}
	bitmapSize := ((uint32(numGlyphs) + 31) >> 5) << 2
	if sizes[5] < bitmapSize {
		return nil, nil, errorf(CorruptedData, tagGlyf, 28, "bbox stream smaller than bbox bitmap")
	}
	s := glyfStreams{}
	s.nContour = newStream(r.bytes(int(sizes[0])))
	s.nPoints = newStream(r.bytes(int(sizes[1])))
	s.flags = newStream(r.bytes(int(sizes[2])))
	s.glyphs = newStream(r.bytes(int(sizes[3])))
	s.composite = newStream(r.bytes(int(sizes[4])))
	s.bboxBitmap = r.bytes(int(bitmapSize))
	s.bbox = newStream(r.bytes(int(sizes[5] - bitmapSize)))
	s.instruction = newStream(r.bytes(int(sizes[6])))
	if optionFlags&0x0001 != 0 {
		s.overlap = r.bytes(int(bitmapSize))
	}
	if r.err != nil {
		return nil, nil, errorf(OffsetOutOfBounds, tagGlyf, uint32(r.pos), "glyf sub-streams exceed table size %d", len(b))
	}
	locaLength := (uint32(numGlyphs) + 1) * 2
	if indexFormat != 0 {
		locaLength *= 2
	}
	if locaLength != origLocaLength {
		return nil, nil, errorf(CorruptedData, tagLoca, 0, "loca length %d does not match %d glyphs", origLocaLength, numGlyphs)
	}

	glyf := make([]byte, 0, len(b)*2)
	loca := make([]byte, 0, locaLength)
	writeLoca := func() error {
		if indexFormat == 0 {
			if len(glyf)>>1 > math.MaxUint16 {
				return errorf(CorruptedData, tagLoca, 0, "glyf too large for short loca format")
			}
			loca = binary.BigEndian.AppendUint16(loca, uint16(len(glyf)>>1))
		} else {
			loca = binary.BigEndian.AppendUint32(loca, uint32(len(glyf)))
		}
		return nil
	}
	var err error
	for gid := 0; gid < int(numGlyphs); gid++ {
		if err = writeLoca(); err != nil {
			return nil, nil, err
		}
		explicitBBox := bitSet(s.bboxBitmap, gid)
		nContours := s.nContour.i16()
		switch {
		case nContours == 0:
			if explicitBBox {
				return nil, nil, errorf(CorruptedData, tagGlyf, 0, "empty glyph %d has bbox", gid)
			}
			continue
		case nContours > 0:
			glyf, err = s.simpleGlyph(glyf, gid, nContours, explicitBBox)
		default:
			glyf, err = s.compositeGlyph(glyf, gid, nContours, explicitBBox)
		}
		if err != nil {
			return nil, nil, err
		}
		for len(glyf)%4 != 0 {
			glyf = append(glyf, 0)
		}
	}
	if err = writeLoca(); err != nil {
		return nil, nil, err
	}
	return glyf, loca, nil
}

func (s *glyfStreams) simpleGlyph(w []byte, gid int, nContours int16, explicitBBox bool) ([]byte, error) {
	var xMin, yMin, xMax, yMax int16
	if explicitBBox {
		xMin, yMin, xMax, yMax = s.bbox.i16(), s.bbox.i16(), s.bbox.i16(), s.bbox.i16()
		if s.bbox.err != nil {
			return nil, glyfStreamError("bbox", gid)
		}
	}
	var nPoints uint32
	endPts := make([]uint16, nContours)
	for i := range endPts {
		nPoints += uint32(s.nPoints.u255())
		if nPoints == 0 || nPoints > math.MaxUint16 {
			return nil, errorf(CorruptedData, tagGlyf, 0, "invalid point count for glyph %d", gid)
		}
		endPts[i] = uint16(nPoints - 1)
	}
	if s.nPoints.err != nil {
		return nil, glyfStreamError("nPoints", gid)
	}
	flags := make([]byte, nPoints)
	xs := make([]int16, nPoints)
	ys := make([]int16, nPoints)
	var x, y int32
	for i := range flags {
		flag := s.flags.u8()
		if flag&0x80 == 0 {
			flags[i] = 0x01 // ON_CURVE_POINT
		}
		dx, dy := s.triplet(flag & 0x7f)
		xs[i], ys[i] = dx, dy
		x += int32(dx)
		y += int32(dy)
		if x < math.MinInt16 || x > math.MaxInt16 || y < math.MinInt16 || y > math.MaxInt16 {
			return nil, errorf(CorruptedData, tagGlyf, 0, "coordinate overflow in glyph %d", gid)
		}
		if !explicitBBox {
			if i == 0 {
				xMin, xMax, yMin, yMax = int16(x), int16(x), int16(y), int16(y)
			} else {
				xMin, xMax = min(xMin, int16(x)), max(xMax, int16(x))
				yMin, yMax = min(yMin, int16(y)), max(yMax, int16(y))
			}
		}
	}
	if s.flags.err != nil || s.glyphs.err != nil {
		return nil, glyfStreamError("flag or glyph", gid)
	}
	if bitSet(s.overlap, gid) {
		flags[0] |= 0x40 // OVERLAP_SIMPLE
	}
	instrLen := s.glyphs.u255()
	instructions := s.instruction.bytes(int(instrLen))
	if s.glyphs.err != nil || s.instruction.err != nil {
		return nil, glyfStreamError("instruction", gid)
	}
	w = appendI16s(w, nContours, xMin, yMin, xMax, yMax)
	for _, e := range endPts {
		w = binary.BigEndian.AppendUint16(w, e)
	}
	w = binary.BigEndian.AppendUint16(w, instrLen)
	w = append(w, instructions...)
	w = append(w, flags...)
	w = appendI16s(w, xs...)
	w = appendI16s(w, ys...)
	return w, nil
}

// triplet decodes a point delta from the glyph stream.
func (s *glyfStreams) triplet(flag byte) (dx, dy int16) {
	g := s.glyphs
	switch {
	case flag < 10:
		b0 := int16(g.u8())
		dy = withSign(flag, 0, int16(flag&0x0e)<<7+b0)
	case flag < 20:
		b0 := int16(g.u8())
		dx = withSign(flag, 0, int16((flag-10)&0x0e)<<7+b0)
	case flag < 84:
		b0 := int16(g.u8())
		f := flag - 20
		dx = withSign(flag, 0, 1+int16(f&0x30)+b0>>4)
		dy = withSign(flag, 1, 1+int16(f&0x0c)<<2+b0&0x0f)
	case flag < 120:
		b0, b1 := int16(g.u8()), int16(g.u8())
		f := flag - 84
		dx = withSign(flag, 0, 1+int16(f/12)<<8+b0)
		dy = withSign(flag, 1, 1+int16((f%12)>>2)<<8+b1)
	case flag < 124:
		b0, b1, b2 := int16(g.u8()), int16(g.u8()), int16(g.u8())
		dx = withSign(flag, 0, b0<<4+b1>>4)
		dy = withSign(flag, 1, (b1&0x0f)<<8+b2)
	default:
		dx = withSign(flag, 0, g.i16())
		dy = withSign(flag, 1, g.i16())
	}
	return
}

func withSign(flag byte, bit uint, v int16) int16 {
	if flag&(1<<bit) != 0 {
		return v
	}
	return -v
}

func (s *glyfStreams) compositeGlyph(w []byte, gid int, nContours int16, explicitBBox bool) ([]byte, error) {
	if !explicitBBox {
		return nil, errorf(CorruptedData, tagGlyf, 0, "composite glyph %d has no bbox", gid)
	}
	bbox := s.bbox.bytes(8)
	if s.bbox.err != nil {
		return nil, glyfStreamError("bbox", gid)
	}
	w = appendI16s(w, nContours)
	w = append(w, bbox...)
	hasInstructions := false
	for more := true; more; {
		flags := s.composite.u16()
		n := 4 // glyph index and two byte-sized arguments
		if flags&0x0001 != 0 {
			n += 2 // ARG_1_AND_2_ARE_WORDS
		}
		switch {
		case flags&0x0008 != 0: // WE_HAVE_A_SCALE
			n += 2
		case flags&0x0040 != 0: // WE_HAVE_AN_X_AND_Y_SCALE
			n += 4
		case flags&0x0080 != 0: // WE_HAVE_A_TWO_BY_TWO
			n += 8
		}
		component := s.composite.bytes(n)
		if s.composite.err != nil {
			return nil, glyfStreamError("composite", gid)
		}
		w = binary.BigEndian.AppendUint16(w, flags)
		w = append(w, component...)
		hasInstructions = hasInstructions || flags&0x0100 != 0
		more = flags&0x0020 != 0 // MORE_COMPONENTS
	}
	if hasInstructions {
		instrLen := s.glyphs.u255()
		instructions := s.instruction.bytes(int(instrLen))
		if s.glyphs.err != nil || s.instruction.err != nil {
			return nil, glyfStreamError("instruction", gid)
		}
		w = binary.BigEndian.AppendUint16(w, instrLen)
		w = append(w, instructions...)
	}
	return w, nil
}

func glyfStreamError(stream string, gid int) *ParseError {
	return errorf(OffsetOutOfBounds, tagGlyf, 0, "%s stream exhausted at glyph %d", stream, gid)
}

func bitSet(bitmap []byte, i int) bool {
	if i>>3 >= len(bitmap) {
		return false
	}
	return bitmap[i>>3]&(0x80>>(i&7)) != 0
}

func appendI16s(w []byte, values ...int16) []byte {
	for _, v := range values {
		w = binary.BigEndian.AppendUint16(w, uint16(v))
	}
	return w
}

// reconstructHmtx rebuilds an hmtx table from its transformed version, taking
// omitted left side bearings from the glyph bounding boxes.
func reconstructHmtx(b, head, glyf, loca, maxp, hhea []byte) ([]byte, error) {
	if len(head) < headTableLength || len(maxp) < 6 || len(hhea) < 36 {
		return nil, errorf(CorruptedData, tagHmtx, 0, "head, maxp or hhea too short to reconstruct hmtx")
	}
	indexFormat := int16(u16(head[50:]))
	numGlyphs := int(u16(maxp[4:]))
	numHMetrics := int(u16(hhea[34:]))
	if numHMetrics < 1 || numHMetrics > numGlyphs {
		return nil, errorf(CorruptedData, tagHmtx, 0, "invalid number of hmetrics %d for %d glyphs", numHMetrics, numGlyphs)
	}
	locaEntry := 2
	if indexFormat != 0 {
		locaEntry = 4
	}
	if len(loca) != (numGlyphs+1)*locaEntry {
		return nil, errorf(CorruptedData, tagLoca, 0, "loca length %d does not match %d glyphs", len(loca), numGlyphs)
	}
	r := newStream(b)
	flags := r.u8()
	proportionalOmitted := flags&0x01 != 0
	monospacedOmitted := flags&0x02 != 0
	if flags&0xfc != 0 {
		return nil, errorf(CorruptedData, tagHmtx, 0, "reserved hmtx transform flags set")
	}
	if !proportionalOmitted && !monospacedOmitted {
		return nil, errorf(CorruptedData, tagHmtx, 0, "transformed hmtx omits no side bearings")
	}
	advances := make([]uint16, numHMetrics)
	lsbs := make([]int16, numGlyphs)
	for i := range advances {
		advances[i] = r.u16()
	}
	if !proportionalOmitted {
		for i := 0; i < numHMetrics; i++ {
			lsbs[i] = r.i16()
		}
	}
	if !monospacedOmitted {
		for i := numHMetrics; i < numGlyphs; i++ {
			lsbs[i] = r.i16()
		}
	}
	if r.err != nil {
		return nil, errorf(OffsetOutOfBounds, tagHmtx, uint32(r.pos), "transformed hmtx exceeds table size %d", len(b))
	}
	glyphOffset := func(gid int) uint32 {
		if indexFormat != 0 {
			return u32(loca[gid*4:])
		}
		return uint32(u16(loca[gid*2:])) << 1
	}
	from, to := 0, numGlyphs
	if !proportionalOmitted {
		from = numHMetrics
	} else if !monospacedOmitted {
		to = numHMetrics
	}
	for gid := from; gid < to; gid++ {
		start, end := glyphOffset(gid), glyphOffset(gid+1)
		if start == end {
			lsbs[gid] = 0
			continue
		}
		xMin, err := binarySegm(glyf).u16(int(start) + 2)
		if err != nil || start > end {
			return nil, errorf(OffsetOutOfBounds, tagGlyf, start, "glyph %d outside of glyf table", gid)
		}
		lsbs[gid] = int16(xMin)
	}
	w := make([]byte, 0, 4*numHMetrics+2*(numGlyphs-numHMetrics))
	for i, adv := range advances {
		w = binary.BigEndian.AppendUint16(w, adv)
		w = appendI16s(w, lsbs[i])
	}
	w = appendI16s(w, lsbs[numHMetrics:]...)
	return w, nil
}
