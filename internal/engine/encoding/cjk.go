package encoding

func in(c, lo, hi byte) bool {
	return c >= lo && c <= hi
}

// trail checks the byte at b[i] with ok, returning Incomplete when b ends
// before it, Invalid when ok rejects it and 0 otherwise.
func trail(b []byte, i int, ok func(byte) bool) int {
	if i >= len(b) {
		return Incomplete
	}
	if !ok(b[i]) {
		return Invalid
	}
	return 0
}

func sjisTrail(c byte) bool { return in(c, 0x40, 0x7E) || in(c, 0x80, 0xFC) }

func scanShiftJIS(b []byte) int {
	c := b[0]
	switch {
	case c < 0x80, in(c, 0xA1, 0xDF):
		return 1
	case in(c, 0x81, 0x9F), in(c, 0xE0, 0xFC):
		if r := trail(b, 1, sjisTrail); r != 0 {
			return r
		}
		return 2
	}
	return Invalid
}

func eucTrail(c byte) bool { return in(c, 0xA1, 0xFE) }

func scanEUCJP(b []byte) int {
	c := b[0]
	switch {
	case c < 0x80:
		return 1
	case c == 0x8E:
		// half-width katakana
		if r := trail(b, 1, func(t byte) bool { return in(t, 0xA1, 0xDF) }); r != 0 {
			return r
		}
		return 2
	case c == 0x8F:
		// JIS X 0212
		for i := 1; i < 3; i++ {
			if r := trail(b, i, eucTrail); r != 0 {
				return r
			}
		}
		return 3
	case eucTrail(c):
		if r := trail(b, 1, eucTrail); r != 0 {
			return r
		}
		return 2
	}
	return Invalid
}

func scanEUCKR(b []byte) int {
	c := b[0]
	switch {
	case c < 0x80:
		return 1
	case eucTrail(c):
		if r := trail(b, 1, eucTrail); r != 0 {
			return r
		}
		return 2
	}
	return Invalid
}

func gbkTrail(c byte) bool { return in(c, 0x40, 0x7E) || in(c, 0x80, 0xFE) }

func scanGBK(b []byte) int {
	c := b[0]
	switch {
	case c < 0x80:
		return 1
	case in(c, 0x81, 0xFE):
		if r := trail(b, 1, gbkTrail); r != 0 {
			return r
		}
		return 2
	}
	return Invalid
}

func isDigit(c byte) bool { return in(c, 0x30, 0x39) }

func scanGB18030(b []byte) int {
	c := b[0]
	switch {
	case c < 0x80:
		return 1
	case !in(c, 0x81, 0xFE):
		return Invalid
	case len(b) < 2:
		return Incomplete
	case !isDigit(b[1]):
		if !gbkTrail(b[1]) {
			return Invalid
		}
		return 2
	}
	// four-byte form: lead, digit, lead, digit
	if r := trail(b, 2, func(t byte) bool { return in(t, 0x81, 0xFE) }); r != 0 {
		return r
	}
	if r := trail(b, 3, isDigit); r != 0 {
		return r
	}
	return 4
}

func scanBig5(b []byte) int {
	c := b[0]
	switch {
	case c < 0x80:
		return 1
	case in(c, 0x81, 0xFE):
		if r := trail(b, 1, func(t byte) bool { return in(t, 0x40, 0x7E) || in(t, 0xA1, 0xFE) }); r != 0 {
			return r
		}
		return 2
	}
	return Invalid
}
