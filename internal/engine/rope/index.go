package rope

import (
	"fmt"

	"github.com/dshills/textrope/internal/engine/coderange"
	"github.com/dshills/textrope/internal/engine/encoding"
)

// KnownCodeRange returns the code range if it has been resolved and
// coderange.Unknown otherwise. It never computes anything.
func (r *Rope) KnownCodeRange() coderange.CodeRange {
	return r.cr.get()
}

// CodeRange returns the code range of r, computing it on first use.
func (r *Rope) CodeRange() coderange.CodeRange {
	if cr := r.cr.get(); cr != coderange.Unknown {
		return cr
	}
	return r.cr.set(r.computeCodeRange())
}

func (r *Rope) computeCodeRange() coderange.CodeRange {
	switch r.kind {
	case KindConcat:
		_, cr := coderange.CombineWith(r.left.enc, r.left.CodeRange(), r.right.enc, r.right.CodeRange())
		return cr
	case KindRepeat:
		return r.left.CodeRange()
	case KindInt:
		return coderange.ASCIIOnly
	}
	// leaves and substrings are classified from their bytes
	cr, n := coderange.Classify(r.Bytes(), r.enc)
	r.chars.set(n)
	return cr
}

// IsSingleByteOptimizable reports whether byte and character offsets of r
// coincide.
func (r *Rope) IsSingleByteOptimizable() bool {
	return r.enc.IsSingleByte() || r.CodeRange() == coderange.ASCIIOnly
}

// CharLen returns the number of characters in r, computing it on first use.
// Broken content is counted with the recovery rule of coderange.Classify.
func (r *Rope) CharLen() int {
	if n, ok := r.chars.get(); ok {
		return n
	}
	return r.chars.set(r.computeCharLen())
}

func (r *Rope) computeCharLen() int {
	if r.IsSingleByteOptimizable() {
		return r.size
	}
	// classifying leaves and substrings also resolves their length
	if n, ok := r.chars.get(); ok {
		return n
	}
	switch r.kind {
	case KindConcat:
		return r.left.CharLen() + r.right.CharLen()
	case KindRepeat:
		return r.left.CharLen() * r.count
	}
	return coderange.CharLen(r.Bytes(), r.enc)
}

// CharIndex returns the number of characters that start before byte offset
// off. Offsets inside a character count that character. For broken
// multi-byte content, a malformed sequence before off is an ErrEncoding.
func (r *Rope) CharIndex(off int) (int, error) {
	if off < 0 || off > r.size {
		return 0, fmt.Errorf("%w: byte offset %d of %d", ErrIndexOutOfRange, off, r.size)
	}
	if r.IsSingleByteOptimizable() {
		return off, nil
	}
	if off == r.size && r.CodeRange() != coderange.Broken {
		return r.CharLen(), nil
	}
	if r.CodeRange() == coderange.Broken {
		return charsBefore(r.Bytes(), r.enc, off)
	}

	base := 0
	n := r
	for {
		switch n.kind {
		case KindConcat:
			if off < n.left.size {
				n = n.left
				continue
			}
			base += n.left.CharLen()
			off -= n.left.size
			n = n.right
			continue
		case KindRepeat:
			p := n.left.size
			base += (off / p) * n.left.CharLen()
			off %= p
			n = n.left
			continue
		}
		if off == 0 {
			return base, nil
		}
		if n.IsSingleByteOptimizable() {
			return base + off, nil
		}
		c, err := charsBefore(n.Bytes(), n.enc, off)
		return base + c, err
	}
}

// ByteIndex returns the byte offset at which character idx starts. The
// character length of r maps to the byte length. For broken multi-byte
// content, a malformed sequence before the target is an ErrEncoding.
func (r *Rope) ByteIndex(idx int) (int, error) {
	if idx < 0 || idx > r.CharLen() {
		return 0, fmt.Errorf("%w: character %d of %d", ErrIndexOutOfRange, idx, r.CharLen())
	}
	if r.IsSingleByteOptimizable() {
		return idx, nil
	}
	if r.CodeRange() == coderange.Broken {
		return byteOfChar(r.Bytes(), r.enc, idx)
	}
	if idx == r.CharLen() {
		return r.size, nil
	}

	base := 0
	n := r
	for {
		switch n.kind {
		case KindConcat:
			lc := n.left.CharLen()
			if idx < lc {
				n = n.left
				continue
			}
			idx -= lc
			base += n.left.size
			n = n.right
			continue
		case KindRepeat:
			pc := n.left.CharLen()
			base += (idx / pc) * n.left.size
			idx %= pc
			n = n.left
			continue
		}
		if n.IsSingleByteOptimizable() {
			return base + idx, nil
		}
		b, err := byteOfChar(n.Bytes(), n.enc, idx)
		return base + b, err
	}
}

// charsBefore counts the characters of b that start before off.
func charsBefore(b []byte, enc *encoding.Encoding, off int) (int, error) {
	chars := 0
	for p := 0; p < off; chars++ {
		n := enc.PreciseCharLen(b[p:])
		if n <= 0 {
			return chars, fmt.Errorf("%w: malformed %s sequence at byte %d", ErrEncoding, enc, p)
		}
		p += n
	}
	return chars, nil
}

// byteOfChar returns the byte offset of character idx of b.
func byteOfChar(b []byte, enc *encoding.Encoding, idx int) (int, error) {
	p := 0
	for i := 0; i < idx; i++ {
		if p >= len(b) {
			return p, fmt.Errorf("%w: character %d past the end", ErrIndexOutOfRange, idx)
		}
		n := enc.PreciseCharLen(b[p:])
		if n <= 0 {
			return p, fmt.Errorf("%w: malformed %s sequence at byte %d", ErrEncoding, enc, p)
		}
		p += n
	}
	return p, nil
}
