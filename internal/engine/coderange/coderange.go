// Package coderange classifies byte runs by their validity under an encoding.
//
// A code range is one of ASCIIOnly, Valid or Broken. Unknown is the zero
// value and marks a classification that has not been computed yet.
package coderange

import (
	"unicode/utf8"

	"github.com/dshills/textrope/internal/engine/encoding"
)

// CodeRange classifies a byte run under its encoding.
type CodeRange uint8

const (
	// Unknown means the classification has not been computed.
	Unknown CodeRange = iota
	// ASCIIOnly means every byte is 7-bit under an ASCII compatible encoding.
	ASCIIOnly
	// Valid means the run is well formed and contains non-ASCII characters.
	Valid
	// Broken means the run contains a malformed or truncated sequence.
	Broken
)

// String returns the conventional upper-case name.
func (cr CodeRange) String() string {
	switch cr {
	case ASCIIOnly:
		return "ASCII_ONLY"
	case Valid:
		return "VALID"
	case Broken:
		return "BROKEN"
	default:
		return "UNKNOWN"
	}
}

// IsKnown reports whether cr is a terminal classification.
func (cr CodeRange) IsKnown() bool {
	return cr >= ASCIIOnly && cr <= Broken
}

// Parse returns the code range named s. It accepts the names produced by
// String and reports false otherwise.
func Parse(s string) (CodeRange, bool) {
	switch s {
	case "ASCII_ONLY":
		return ASCIIOnly, true
	case "VALID":
		return Valid, true
	case "BROKEN":
		return Broken, true
	case "UNKNOWN":
		return Unknown, true
	}
	return Unknown, false
}

// ASCIIPrefix returns the length of the leading run of 7-bit bytes.
func ASCIIPrefix(b []byte) int {
	i := 0
	// eight bytes at a time while the high bits stay clear
	for ; i+8 <= len(b); i += 8 {
		if (uint64(b[i])|uint64(b[i+1])<<8|uint64(b[i+2])<<16|uint64(b[i+3])<<24|
			uint64(b[i+4])<<32|uint64(b[i+5])<<40|uint64(b[i+6])<<48|uint64(b[i+7])<<56)&
			0x8080808080808080 != 0 {
			break
		}
	}
	for ; i < len(b); i++ {
		if b[i] >= utf8.RuneSelf {
			break
		}
	}
	return i
}

// Classify computes the code range and character length of b under enc.
// An empty run is ASCIIOnly with zero characters. Malformed or truncated
// sequences make the run Broken; recovery skips MinCharLen bytes and counts
// them as one character.
func Classify(b []byte, enc *encoding.Encoding) (CodeRange, int) {
	if len(b) == 0 {
		return ASCIIOnly, 0
	}
	p := 0
	if enc.IsASCIICompatible() {
		p = ASCIIPrefix(b)
		if p == len(b) {
			return ASCIIOnly, p
		}
	}
	chars := p
	cr := Valid
	ascii := enc.IsASCIICompatible()
	for p < len(b) {
		if ascii && b[p] < utf8.RuneSelf {
			p++
			chars++
			continue
		}
		n := enc.PreciseCharLen(b[p:])
		if n <= 0 {
			cr = Broken
			n = min(enc.MinCharLen(), len(b)-p)
		}
		p += n
		chars++
	}
	return cr, chars
}

// CharLen counts characters in b under enc using the same recovery rule as
// Classify.
func CharLen(b []byte, enc *encoding.Encoding) int {
	_, n := Classify(b, enc)
	return n
}

// Combine returns the code range of the concatenation of runs classified a
// and b under a common encoding.
func Combine(a, b CodeRange) CodeRange {
	switch {
	case a == Broken || b == Broken:
		return Broken
	case a == Unknown || b == Unknown:
		return Unknown
	case a == ASCIIOnly && b == ASCIIOnly:
		return ASCIIOnly
	}
	return Valid
}

// Negotiate picks the encoding for the concatenation of a run (el, crl)
// with a run (er, crr). It reports false when the encodings are
// incompatible; the caller then keeps el and treats the result as Broken.
// Empty operands must be handled by the caller.
func Negotiate(el *encoding.Encoding, crl CodeRange, er *encoding.Encoding, crr CodeRange) (*encoding.Encoding, bool) {
	if el == er {
		return el, true
	}
	if !el.IsASCIICompatible() || !er.IsASCIICompatible() {
		return el, false
	}
	switch {
	case crr == ASCIIOnly:
		return el, true
	case crl == ASCIIOnly:
		return er, true
	}
	return el, false
}

// CombineWith applies Negotiate and Combine together.
func CombineWith(el *encoding.Encoding, crl CodeRange, er *encoding.Encoding, crr CodeRange) (*encoding.Encoding, CodeRange) {
	enc, ok := Negotiate(el, crl, er, crr)
	if !ok {
		return enc, Broken
	}
	return enc, Combine(crl, crr)
}
