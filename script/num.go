package script

// EncodeNum encodes n as a script number: little-endian magnitude with the
// sign carried in the high bit of the last byte. Zero is the empty slice.
func EncodeNum(n int64) []byte {
	if n == 0 {
		return []byte{}
	}

	neg := n < 0
	mag := uint64(n)
	if neg {
		mag = uint64(-n)
	}

	out := make([]byte, 0, 9)
	for mag > 0 {
		out = append(out, byte(mag))
		mag >>= 8
	}

	// The top bit is taken: add a byte to carry the sign.
	if out[len(out)-1]&0x80 != 0 {
		if neg {
			out = append(out, 0x80)
		} else {
			out = append(out, 0x00)
		}
	} else if neg {
		out[len(out)-1] |= 0x80
	}
	return out
}

// DecodeNum is the inverse of EncodeNum. Inputs longer than eight bytes
// are not meaningful; the interpreter bounds operand length before calling it.
func DecodeNum(b []byte) int64 {
	if len(b) == 0 {
		return 0
	}

	var mag uint64
	for i, c := range b {
		mag |= uint64(c) << (8 * uint(i))
	}

	last := len(b) - 1
	if b[last]&0x80 != 0 {
		mag &^= uint64(0x80) << (8 * uint(last))
		return -int64(mag)
	}
	return int64(mag)
}

// isTrue reports whether an element decodes to a non-zero number. Unlike
// DecodeNum it accepts elements of any length. Negative zero is false.
func isTrue(b []byte) bool {
	for i, c := range b {
		if c != 0 {
			return !(i == len(b)-1 && c == 0x80)
		}
	}
	return false
}
