package encoding

import "unicode/utf8"

func scanASCII(b []byte) int {
	if b[0] < utf8.RuneSelf {
		return 1
	}
	return Invalid
}

func scanSingleByte([]byte) int {
	return 1
}

func scanUTF8(b []byte) int {
	if b[0] < utf8.RuneSelf {
		return 1
	}
	if !utf8.FullRune(b) {
		// FullRune also reports false for some invalid prefixes; re-check
		// the bytes present so that a bad continuation byte is Invalid.
		if !validUTF8Prefix(b) {
			return Invalid
		}
		return Incomplete
	}
	r, n := utf8.DecodeRune(b)
	if r == utf8.RuneError && n == 1 {
		return Invalid
	}
	return n
}

// validUTF8Prefix reports whether b could be extended into a valid
// UTF-8 encoded rune.
func validUTF8Prefix(b []byte) bool {
	c := b[0]
	var need int
	lo, hi := byte(0x80), byte(0xBF)
	switch {
	case c >= 0xC2 && c <= 0xDF:
		need = 2
	case c == 0xE0:
		need, lo = 3, 0xA0
	case c == 0xED:
		need, hi = 3, 0x9F
	case c >= 0xE1 && c <= 0xEF:
		need = 3
	case c == 0xF0:
		need, lo = 4, 0x90
	case c == 0xF4:
		need, hi = 4, 0x8F
	case c >= 0xF1 && c <= 0xF3:
		need = 4
	default:
		return false
	}
	for i := 1; i < len(b) && i < need; i++ {
		if i == 1 {
			if b[i] < lo || b[i] > hi {
				return false
			}
			continue
		}
		if b[i] < 0x80 || b[i] > 0xBF {
			return false
		}
	}
	return true
}

func scanUTF16LE(b []byte) int {
	return scanUTF16(b, func(p []byte) uint16 { return uint16(p[0]) | uint16(p[1])<<8 })
}

func scanUTF16BE(b []byte) int {
	return scanUTF16(b, func(p []byte) uint16 { return uint16(p[1]) | uint16(p[0])<<8 })
}

func scanUTF16(b []byte, unit func([]byte) uint16) int {
	if len(b) < 2 {
		return Incomplete
	}
	u := unit(b)
	switch {
	case u < 0xD800 || u > 0xDFFF:
		return 2
	case u >= 0xDC00:
		// A low surrogate cannot start a character.
		return Invalid
	}
	if len(b) < 4 {
		return Incomplete
	}
	if lo := unit(b[2:]); lo < 0xDC00 || lo > 0xDFFF {
		return Invalid
	}
	return 4
}

func scanUTF32LE(b []byte) int {
	if len(b) < 4 {
		return Incomplete
	}
	return checkUTF32(uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24)
}

func scanUTF32BE(b []byte) int {
	if len(b) < 4 {
		return Incomplete
	}
	return checkUTF32(uint32(b[3]) | uint32(b[2])<<8 | uint32(b[1])<<16 | uint32(b[0])<<24)
}

func checkUTF32(v uint32) int {
	if v > utf8.MaxRune || (v >= 0xD800 && v <= 0xDFFF) {
		return Invalid
	}
	return 4
}
