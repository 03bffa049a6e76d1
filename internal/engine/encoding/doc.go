// Package encoding describes the text encodings a rope can be tagged with.
//
// An Encoding is an immutable descriptor shared by every rope that uses it.
// It answers the questions the rope core needs without decoding whole
// strings: whether the encoding keeps ASCII bytes as single characters,
// how long the character starting at a given byte is, and whether a byte
// sequence is well formed at all.
//
// Encodings are created from a Definition and registered in a Registry,
// which resolves names and aliases case-insensitively:
//
//	enc, err := encoding.Lookup("utf-8")
//	n := enc.PreciseCharLen([]byte("é")) // 2
//
// The Default registry contains the built-in encodings (US-ASCII, BINARY,
// the Unicode transformation formats, the ISO-8859 and Windows code pages
// and the common CJK multi-byte encodings). Unknown names fall back to the
// IANA alias index before failing with ErrInvalidEncoding.
package encoding

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'textrope.encoding'
func tracer() tracing.Trace {
	return tracing.Select("textrope.encoding")
}
