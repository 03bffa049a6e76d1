package rope

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/textrope/internal/engine/coderange"
)

// Hash returns a 64-bit xxHash of the content of r, computed on first use.
// ASCII only content hashes equal under every ASCII compatible encoding;
// otherwise the encoding name is part of the hash.
func (r *Rope) Hash() uint64 {
	if h, ok := r.hash.load(); ok {
		return h
	}
	d := xxhash.New()
	it := r.Chunks()
	for it.Next() {
		_, _ = d.Write(it.Chunk())
	}
	if !(r.CodeRange() == coderange.ASCIIOnly && r.enc.IsASCIICompatible()) {
		_, _ = d.WriteString("\x00")
		_, _ = d.WriteString(r.enc.Name())
	}
	return r.hash.publish(d.Sum64())
}

// Decode returns the content of r converted to UTF-8.
func (r *Rope) Decode() (string, error) {
	if r.CodeRange() == coderange.ASCIIOnly && r.enc.IsASCIICompatible() {
		return r.String(), nil
	}
	return r.enc.Decode(r.Bytes())
}

// GraphemeLen returns the number of extended grapheme clusters in r.
// Broken content yields ErrEncoding.
func (r *Rope) GraphemeLen() (int, error) {
	switch r.CodeRange() {
	case coderange.ASCIIOnly:
		if r.enc.IsASCIICompatible() {
			return graphemesASCII(r), nil
		}
	case coderange.Broken:
		return 0, fmt.Errorf("%w: %s content is broken", ErrEncoding, r.enc)
	}
	s, err := r.Decode()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	return uniseg.GraphemeClusterCount(s), nil
}

// graphemesASCII counts clusters of 7-bit text, where only CR LF joins.
func graphemesASCII(r *Rope) int {
	n := r.size
	prevCR := false
	it := r.Chunks()
	for it.Next() {
		for _, c := range it.Chunk() {
			if prevCR && c == '\n' {
				n--
			}
			prevCR = c == '\r'
		}
	}
	return n
}
