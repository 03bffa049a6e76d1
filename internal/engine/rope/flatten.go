package rope

import (
	"bytes"
	"fmt"
	"io"

	"github.com/dshills/textrope/internal/engine/coderange"
)

// cachedBytes returns the content of r if it is available without copying.
func (r *Rope) cachedBytes() ([]byte, bool) {
	if r.kind == KindLeaf {
		return r.bytes, true
	}
	return r.flat.load()
}

// Bytes returns the content of r as one contiguous buffer. The first call on
// an inner node materializes the content and caches it on the node; later
// calls return the cached buffer. The result must not be modified.
func (r *Rope) Bytes() []byte {
	if b, ok := r.cachedBytes(); ok {
		return b[:len(b):len(b)]
	}
	if r.kind == KindSubstring {
		// A window of a contiguous parent shares its bytes.
		if pb, ok := r.left.cachedBytes(); ok {
			end := r.offset + r.size
			return pb[r.offset:end:end]
		}
	}
	var buf []byte
	if r.kind == KindInt {
		buf = r.digits()
	} else {
		buf = make([]byte, r.size)
		r.copyRange(buf, 0)
	}
	return r.flat.publish(buf)
}

// String returns the raw content of r. It does not decode the bytes.
func (r *Rope) String() string {
	return string(r.Bytes())
}

// IsFlat reports whether the content of r is available as one buffer
// without further copying.
func (r *Rope) IsFlat() bool {
	_, ok := r.cachedBytes()
	return ok
}

// copyRange copies the bytes [off, off+len(dst)) of r into dst.
func (r *Rope) copyRange(dst []byte, off int) {
	for len(dst) > 0 {
		if b, ok := r.cachedBytes(); ok {
			copy(dst, b[off:])
			return
		}
		switch r.kind {
		case KindInt:
			copy(dst, r.Bytes()[off:])
			return
		case KindSubstring:
			off += r.offset
			r = r.left
		case KindConcat:
			ls := r.left.size
			if off < ls {
				n := min(len(dst), ls-off)
				r.left.copyRange(dst[:n], off)
				dst = dst[n:]
				off = 0
			} else {
				off -= ls
			}
			r = r.right
		case KindRepeat:
			pattern := r.left
			p := pattern.size
			off %= p
			done := 0
			if off != 0 {
				done = min(len(dst), p-off)
				pattern.copyRange(dst[:done], off)
				if done == len(dst) {
					return
				}
			}
			// one aligned period, then double the periodic run
			start := done
			done += min(len(dst)-done, p)
			pattern.copyRange(dst[start:done], 0)
			for done < len(dst) {
				done += copy(dst[done:], dst[start:done])
			}
			return
		}
	}
}

// ByteAt returns the byte at index i.
func (r *Rope) ByteAt(i int) (byte, error) {
	if i < 0 || i >= r.size {
		return 0, fmt.Errorf("%w: byte %d of %d", ErrIndexOutOfRange, i, r.size)
	}
	b, _ := r.locate(i)
	return b, nil
}

// locate finds the byte at i and reports the number of nodes visited.
func (r *Rope) locate(i int) (byte, int) {
	steps := 0
	for {
		steps++
		if b, ok := r.cachedBytes(); ok {
			return b[i], steps
		}
		switch r.kind {
		case KindInt:
			return r.Bytes()[i], steps
		case KindSubstring:
			i += r.offset
			r = r.left
		case KindConcat:
			if i < r.left.size {
				r = r.left
			} else {
				i -= r.left.size
				r = r.right
			}
		case KindRepeat:
			i %= r.left.size
			r = r.left
		}
	}
}

// WriteTo writes the content of r to w without flattening it.
func (r *Rope) WriteTo(w io.Writer) (int64, error) {
	var total int64
	it := r.Chunks()
	for it.Next() {
		n, err := w.Write(it.Chunk())
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Equal reports whether r and o hold the same bytes under the same encoding.
// ASCII only content is equal across ASCII compatible encodings.
func (r *Rope) Equal(o *Rope) bool {
	if r == o {
		return true
	}
	if r.size != o.size {
		return false
	}
	if r.enc != o.enc {
		if !r.enc.IsASCIICompatible() || !o.enc.IsASCIICompatible() {
			return false
		}
		if r.CodeRange() != coderange.ASCIIOnly || o.CodeRange() != coderange.ASCIIOnly {
			return false
		}
	}
	return r.ContentEqual(o)
}

// ContentEqual reports whether r and o hold the same bytes, ignoring
// encodings. The ropes are compared chunk by chunk.
func (r *Rope) ContentEqual(o *Rope) bool {
	if r.size != o.size {
		return false
	}
	if a, ok := r.cachedBytes(); ok {
		if b, ok := o.cachedBytes(); ok {
			return bytes.Equal(a, b)
		}
	}
	it1, it2 := r.Chunks(), o.Chunks()
	var a, b []byte
	for {
		if len(a) == 0 {
			if !it1.Next() {
				break
			}
			a = it1.Chunk()
		}
		if len(b) == 0 {
			if !it2.Next() {
				return false
			}
			b = it2.Chunk()
		}
		n := min(len(a), len(b))
		if !bytes.Equal(a[:n], b[:n]) {
			return false
		}
		a, b = a[n:], b[n:]
	}
	return len(b) == 0 && !it2.Next()
}
