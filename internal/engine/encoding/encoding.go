package encoding

import (
	"fmt"
	"strings"
	"unicode/utf8"

	textenc "golang.org/x/text/encoding"
)

// Results of a precise character length scan that are not a length.
const (
	// Invalid marks a malformed byte sequence at the scan position.
	Invalid = -1

	// Incomplete marks a well-formed prefix that ends before the character does.
	Incomplete = -2
)

// Scanner reports the byte length of the character starting at b[0].
// It is never called with an empty slice. A positive result is the length
// of a well-formed character; otherwise it returns Invalid or Incomplete.
type Scanner func(b []byte) int

// Definition describes an encoding to be registered.
type Definition struct {
	// Name is the canonical name, e.g. "UTF-8".
	Name string

	// Aliases are additional names the encoding can be looked up by.
	Aliases []string

	// ASCIICompatible reports whether bytes 0x00-0x7F always denote the
	// corresponding ASCII characters as single-byte characters.
	ASCIICompatible bool

	// MinCharLen and MaxCharLen bound the byte length of one character.
	MinCharLen int
	MaxCharLen int

	// Scan is the precise character length function.
	Scan Scanner

	// Codec converts content to UTF-8. It may be nil for encodings whose
	// bytes are already UTF-8.
	Codec textenc.Encoding
}

func (d Definition) validate() error {
	switch {
	case strings.TrimSpace(d.Name) == "":
		return fmt.Errorf("%w: empty name", ErrInvalidDefinition)
	case d.Scan == nil:
		return fmt.Errorf("%w: %s has no scanner", ErrInvalidDefinition, d.Name)
	case d.MinCharLen < 1 || d.MaxCharLen < d.MinCharLen:
		return fmt.Errorf("%w: %s has character length bounds %d..%d",
			ErrInvalidDefinition, d.Name, d.MinCharLen, d.MaxCharLen)
	}
	return nil
}

// Encoding is an immutable, shared encoding descriptor.
// Encodings are compared by identity.
type Encoding struct {
	index           int
	name            string
	aliases         []string
	asciiCompatible bool
	minLen          int
	maxLen          int
	scan            Scanner
	codec           textenc.Encoding
}

// Name returns the canonical name.
func (e *Encoding) Name() string {
	return e.name
}

// String implements fmt.Stringer.
func (e *Encoding) String() string {
	if e == nil {
		return "<nil encoding>"
	}
	return e.name
}

// Index returns the registration index within the owning registry.
func (e *Encoding) Index() int {
	return e.index
}

// Aliases returns a copy of the alternative names.
func (e *Encoding) Aliases() []string {
	out := make([]string, len(e.aliases))
	copy(out, e.aliases)
	return out
}

// IsASCIICompatible reports whether ASCII bytes are single ASCII characters.
func (e *Encoding) IsASCIICompatible() bool {
	return e.asciiCompatible
}

// IsSingleByte reports whether every character is exactly one byte.
func (e *Encoding) IsSingleByte() bool {
	return e.maxLen == 1
}

// MinCharLen returns the minimum byte length of a character.
func (e *Encoding) MinCharLen() int {
	return e.minLen
}

// MaxCharLen returns the maximum byte length of a character.
func (e *Encoding) MaxCharLen() int {
	return e.maxLen
}

// PreciseCharLen reports the byte length of the character at the start of b,
// or Invalid / Incomplete.
func (e *Encoding) PreciseCharLen(b []byte) int {
	if len(b) == 0 {
		return Incomplete
	}
	n := e.scan(b)
	if n > len(b) {
		return Incomplete
	}
	return n
}

// CharBoundaryAt returns the offset of the character following the one that
// starts at off. Malformed input advances by MinCharLen bytes, the same step
// the classifier uses for recovery. The result never exceeds len(b).
func (e *Encoding) CharBoundaryAt(b []byte, off int) int {
	if off >= len(b) {
		return len(b)
	}
	if off < 0 {
		off = 0
	}
	n := e.PreciseCharLen(b[off:])
	if n <= 0 {
		n = e.minLen
	}
	return min(off+n, len(b))
}

// IsValid reports whether b is a well-formed sequence in this encoding.
func (e *Encoding) IsValid(b []byte) bool {
	for p := 0; p < len(b); {
		if b[p] < utf8.RuneSelf && e.asciiCompatible {
			p++
			continue
		}
		n := e.PreciseCharLen(b[p:])
		if n <= 0 {
			return false
		}
		p += n
	}
	return true
}

// Decode converts b to a UTF-8 string. Malformed sequences become U+FFFD.
func (e *Encoding) Decode(b []byte) (string, error) {
	if e.codec == nil {
		return strings.ToValidUTF8(string(b), "�"), nil
	}
	out, err := e.codec.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", e.name, err)
	}
	return string(out), nil
}

// Encode converts a UTF-8 string into this encoding.
func (e *Encoding) Encode(s string) ([]byte, error) {
	if e.codec == nil {
		return []byte(s), nil
	}
	out, err := e.codec.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", e.name, err)
	}
	return out, nil
}
