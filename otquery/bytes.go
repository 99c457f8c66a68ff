package otquery

func u16(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])<<0
}

func i16(b []byte) int16 {
	return int16(b[0])<<8 | int16(b[1])<<0
}

func u32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])<<0
}

// view returns n bytes of b at offset, or nil if they are not all present.
func view(b []byte, offset, n int) []byte {
	if offset < 0 || n < 0 || offset > len(b) || n > len(b)-offset {
		return nil
	}
	return b[offset : offset+n]
}

// fixed converts a 16.16 fixed-point number.
func fixed(v uint32) float64 {
	return float64(int32(v)) / 65536
}

// f2dot14 converts a 2.14 fixed-point number.
func f2dot14(v uint16) float64 {
	return float64(int16(v)) / 16384
}
