package rope

import (
	"io"

	"github.com/dshills/textrope/internal/engine/encoding"
)

// BuilderLeafSize is the buffered byte count at which a Builder emits a leaf.
const BuilderLeafSize = 4096

// Builder provides efficient incremental construction of a rope.
// It buffers writes into leaves of about BuilderLeafSize bytes and joins
// them into a balanced tree when Build is called.
type Builder struct {
	f     *Factory
	enc   *encoding.Encoding
	parts []*Rope
	buf   []byte
	total int
}

// NewBuilder creates a builder producing ropes in enc.
func (f *Factory) NewBuilder(enc *encoding.Encoding) (*Builder, error) {
	if err := f.checkEncoding(enc); err != nil {
		return nil, err
	}
	return &Builder{f: f, enc: enc, parts: make([]*Rope, 0, 16)}, nil
}

// NewBuilder creates a builder with the default factory.
func NewBuilder(enc *encoding.Encoding) (*Builder, error) {
	return Default.NewBuilder(enc)
}

// WriteString appends the bytes of s.
func (b *Builder) WriteString(s string) (int, error) {
	b.buf = append(b.buf, s...)
	b.total += len(s)
	if len(b.buf) >= BuilderLeafSize {
		b.flushBuffer()
	}
	return len(s), nil
}

// Write implements io.Writer.
func (b *Builder) Write(p []byte) (int, error) {
	b.buf = append(b.buf, p...)
	b.total += len(p)
	if len(b.buf) >= BuilderLeafSize {
		b.flushBuffer()
	}
	return len(p), nil
}

// WriteByte appends a single byte.
func (b *Builder) WriteByte(c byte) error {
	b.buf = append(b.buf, c)
	b.total++
	return nil
}

// WriteRope appends an existing rope without copying it.
func (b *Builder) WriteRope(r *Rope) {
	if r.size == 0 {
		return
	}
	b.flush(true)
	b.parts = append(b.parts, r)
	b.total += r.size
}

// flushBuffer emits the buffered bytes up to the last complete character
// as a leaf. A trailing partial character stays buffered.
func (b *Builder) flushBuffer() {
	b.flush(false)
}

func (b *Builder) flush(all bool) {
	cut := len(b.buf)
	if !all {
		cut = b.boundary()
	}
	if cut == 0 {
		return
	}
	leaf := newClassifiedLeaf(b.buf[:cut:cut], b.enc)
	b.buf = append([]byte(nil), b.buf[cut:]...)
	b.parts = append(b.parts, leaf)
}

// boundary returns the offset of the incomplete character ending the
// buffer, or the buffer length.
func (b *Builder) boundary() int {
	p := 0
	for p < len(b.buf) {
		n := b.enc.PreciseCharLen(b.buf[p:])
		if n == encoding.Incomplete {
			return p
		}
		if n < 0 {
			n = b.enc.MinCharLen()
		}
		p += n
	}
	return min(p, len(b.buf))
}

// Len returns the total number of bytes written.
func (b *Builder) Len() int {
	return b.total
}

// Reset clears the builder for reuse.
func (b *Builder) Reset() {
	b.parts = b.parts[:0]
	b.buf = nil
	b.total = 0
}

// Build creates the rope from accumulated data.
// After calling Build, the builder is reset.
func (b *Builder) Build() *Rope {
	b.flush(true)
	if len(b.parts) == 0 {
		b.Reset()
		return b.f.Empty(b.enc)
	}
	r := b.f.Join(b.parts...)
	b.Reset()
	return r
}

// ReadFrom implements io.ReaderFrom.
func (b *Builder) ReadFrom(r io.Reader) (int64, error) {
	buf := make([]byte, 64*1024)
	var total int64

	for {
		n, err := r.Read(buf)
		if n > 0 {
			_, _ = b.Write(buf[:n])
			total += int64(n)
		}
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}

// FromReader reads all of r into a rope in enc.
func (f *Factory) FromReader(r io.Reader, enc *encoding.Encoding) (*Rope, error) {
	b, err := f.NewBuilder(enc)
	if err != nil {
		return nil, err
	}
	if _, err := b.ReadFrom(r); err != nil {
		return nil, err
	}
	return b.Build(), nil
}
