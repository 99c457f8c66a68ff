package ot

import (
	"errors"
)

// Reading bytes from a font's binary representation

var errBufferBounds = errors.New("internal inconsistency: buffer bounds error")

func u16(b []byte) uint16 {
	_ = b[1] // Bounds check hint to compiler
	return uint16(b[0])<<8 | uint16(b[1])<<0
}

func u32(b []byte) uint32 {
	_ = b[3] // Bounds check hint to compiler
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])<<0
}

func putU16(b []byte, n uint16) {
	_ = b[1]
	b[0], b[1] = byte(n>>8), byte(n)
}

func putU32(b []byte, n uint32) {
	_ = b[3]
	b[0], b[1], b[2], b[3] = byte(n>>24), byte(n>>16), byte(n>>8), byte(n)
}

// --- Byte segments ---------------------------------------------------------

// binarySegm is a segment of byte data.
// We use it throughout this package to navigate the font's binary data.
type binarySegm []byte

// view returns n bytes at the given offset.
// The byte segment returned is a sub-slice of b.
func (b binarySegm) view(offset, n int) (binarySegm, error) {
	if offset < 0 || n < 0 || offset > len(b) || n > len(b)-offset {
		return nil, errBufferBounds
	}
	return b[offset : offset+n], nil
}

// u16 returns the uint16 in b at the relative offset i.
func (b binarySegm) u16(i int) (uint16, error) {
	buf, err := b.view(i, 2)
	if err != nil {
		return 0, err
	}
	return u16(buf), nil
}

// u32 returns the uint32 in b at the relative offset i.
func (b binarySegm) u32(i int) (uint32, error) {
	buf, err := b.view(i, 4)
	if err != nil {
		return 0, err
	}
	return u32(buf), nil
}

// --- Sequential reading ----------------------------------------------------

// stream reads sequentially from a byte segment. The first bounds violation
// sticks: subsequent reads return zero values and err reports the violation.
type stream struct {
	data binarySegm
	pos  int
	err  error
}

func newStream(b []byte) *stream {
	return &stream{data: b}
}

func (s *stream) remaining() int {
	return len(s.data) - s.pos
}

func (s *stream) bytes(n int) []byte {
	if s.err != nil {
		return nil
	}
	buf, err := s.data.view(s.pos, n)
	if err != nil {
		s.err = err
		return nil
	}
	s.pos += n
	return buf
}

func (s *stream) u8() uint8 {
	if b := s.bytes(1); b != nil {
		return b[0]
	}
	return 0
}

func (s *stream) u16() uint16 {
	if b := s.bytes(2); b != nil {
		return u16(b)
	}
	return 0
}

func (s *stream) i16() int16 {
	return int16(s.u16())
}

func (s *stream) u32() uint32 {
	if b := s.bytes(4); b != nil {
		return u32(b)
	}
	return 0
}

// uintBase128 reads a variable-length unsigned integer as used in WOFF2 table
// directories: 7 bits per byte, high bit set on all but the last byte, at most
// 5 bytes, no leading zero bytes, no overflow of 32 bits.
func (s *stream) uintBase128() (uint32, bool) {
	var accum uint32
	for i := 0; i < 5; i++ {
		b := s.u8()
		if s.err != nil {
			return 0, false
		}
		if i == 0 && b == 0x80 {
			return 0, false // leading zeros
		}
		if accum&0xfe000000 != 0 {
			return 0, false // would overflow
		}
		accum = accum<<7 | uint32(b&0x7f)
		if b&0x80 == 0 {
			return accum, true
		}
	}
	return 0, false // more than 5 bytes
}

// u255 reads a 255UInt16 value as used in transformed WOFF2 glyf tables.
func (s *stream) u255() uint16 {
	const (
		oneMoreByteCode1 = 255
		oneMoreByteCode2 = 254
		wordCode         = 253
		lowestUCode      = 253
	)
	code := s.u8()
	switch code {
	case wordCode:
		return s.u16()
	case oneMoreByteCode1:
		return uint16(s.u8()) + lowestUCode
	case oneMoreByteCode2:
		return uint16(s.u8()) + lowestUCode*2
	}
	return uint16(code)
}
