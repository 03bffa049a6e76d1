package rope

import (
	"fmt"
	"math"
	"sync"

	"github.com/dshills/textrope/internal/engine/coderange"
	"github.com/dshills/textrope/internal/engine/encoding"
)

// Factory constructs ropes. It is the only place new nodes are created and
// enforces the depth and flattening policy of its Config.
// A Factory is safe for concurrent use.
type Factory struct {
	cfg      Config
	registry *encoding.Registry
	empties  sync.Map // *encoding.Encoding -> *Rope
}

// NewFactory creates a factory. Encodings passed to it must be registered in
// registry; a nil registry means encoding.Default.
func NewFactory(cfg Config, registry *encoding.Registry) (*Factory, error) {
	if err := cfg.Check(); err != nil {
		return nil, err
	}
	if registry == nil {
		registry = encoding.Default
	}
	return &Factory{cfg: cfg, registry: registry}, nil
}

// Config returns the factory configuration.
func (f *Factory) Config() Config {
	return f.cfg
}

// Registry returns the registry encodings are checked against.
func (f *Factory) Registry() *encoding.Registry {
	return f.registry
}

func (f *Factory) checkEncoding(enc *encoding.Encoding) error {
	if enc == nil {
		return fmt.Errorf("%w: nil encoding", ErrInvalidEncoding)
	}
	if got, ok := f.registry.Get(enc.Index()); !ok || got != enc {
		return fmt.Errorf("%w: %s is not registered", ErrInvalidEncoding, enc)
	}
	return nil
}

// Empty returns the canonical empty rope of enc. enc must not be nil.
func (f *Factory) Empty(enc *encoding.Encoding) *Rope {
	if r, ok := f.empties.Load(enc); ok {
		return r.(*Rope)
	}
	r, _ := f.empties.LoadOrStore(enc, newLeafWithCodeRange([]byte{}, enc, coderange.ASCIIOnly))
	return r.(*Rope)
}

// FromBytes creates a leaf holding b and classifies it. The rope takes
// ownership of b; callers must not modify it afterwards. Malformed content is
// accepted and classified as broken.
func (f *Factory) FromBytes(b []byte, enc *encoding.Encoding) (*Rope, error) {
	if err := f.checkEncoding(enc); err != nil {
		return nil, err
	}
	if len(b) == 0 {
		return f.Empty(enc), nil
	}
	return newClassifiedLeaf(b, enc), nil
}

// FromBytesWithCodeRange creates a leaf whose code range the caller already
// knows. An Unknown code range makes it behave like FromBytes. In validation
// mode the bytes are classified and a mismatch is rejected with
// ErrCodeRangeMismatch.
func (f *Factory) FromBytesWithCodeRange(b []byte, enc *encoding.Encoding, cr coderange.CodeRange) (*Rope, error) {
	if err := f.checkEncoding(enc); err != nil {
		return nil, err
	}
	if !cr.IsKnown() {
		if cr != coderange.Unknown {
			return nil, fmt.Errorf("%w: code range %d", ErrInvalidArgument, cr)
		}
		return f.FromBytes(b, enc)
	}
	if len(b) == 0 {
		return f.Empty(enc), nil
	}
	if cr == coderange.ASCIIOnly && !enc.IsASCIICompatible() {
		return nil, fmt.Errorf("%w: %s cannot be %s", ErrCodeRangeMismatch, enc, cr)
	}
	if f.cfg.Validate {
		actual, n := coderange.Classify(b, enc)
		if actual != cr {
			return nil, fmt.Errorf("%w: %s content marked %s is %s", ErrCodeRangeMismatch, enc, cr, actual)
		}
		r := newLeafWithCodeRange(b, enc, cr)
		r.chars.set(n)
		return r, nil
	}
	return newLeafWithCodeRange(b, enc, cr), nil
}

// FromASCII creates a leaf from bytes the caller knows to be 7-bit.
func (f *Factory) FromASCII(b []byte, enc *encoding.Encoding) (*Rope, error) {
	return f.FromBytesWithCodeRange(b, enc, coderange.ASCIIOnly)
}

// FromString creates a UTF-8 leaf holding a copy of s.
func (f *Factory) FromString(s string) *Rope {
	if len(s) == 0 {
		return f.Empty(encoding.UTF8)
	}
	return newClassifiedLeaf([]byte(s), encoding.UTF8)
}

// FromInt creates a rope holding the decimal digits of v. The digits are
// formatted when first read. enc must be ASCII compatible.
func (f *Factory) FromInt(v int64, enc *encoding.Encoding) (*Rope, error) {
	if err := f.checkEncoding(enc); err != nil {
		return nil, err
	}
	if !enc.IsASCIICompatible() {
		return nil, fmt.Errorf("%w: digits need an ascii compatible encoding, got %s", ErrInvalidArgument, enc)
	}
	n := digitCount(v)
	r := &Rope{kind: KindInt, enc: enc, size: n, depth: 1, value: v}
	r.cr.set(coderange.ASCIIOnly)
	r.chars.set(n)
	return r, nil
}

// WithEncoding returns a rope with the content of r under enc. The content
// is shared, not copied.
func (f *Factory) WithEncoding(r *Rope, enc *encoding.Encoding) (*Rope, error) {
	if err := f.checkEncoding(enc); err != nil {
		return nil, err
	}
	if r.enc == enc {
		return r, nil
	}
	if r.size == 0 {
		return f.Empty(enc), nil
	}
	if r.KnownCodeRange() == coderange.ASCIIOnly && enc.IsASCIICompatible() {
		return newLeafWithCodeRange(r.Bytes(), enc, coderange.ASCIIOnly), nil
	}
	return newClassifiedLeaf(r.Bytes(), enc), nil
}

// Concat returns the concatenation of a and b. An empty operand yields the
// other operand unchanged. When the new node would exceed the maximum depth,
// both operands are flattened into one buffer.
//
// Concat panics if the combined byte length overflows int; Engine.ConcatRopes
// reports that case as ErrInvalidArgument.
func (f *Factory) Concat(a, b *Rope) *Rope {
	switch {
	case b.size == 0:
		return a
	case a.size == 0:
		return b
	}

	enc := a.enc
	cr := coderange.Unknown
	if a.enc == b.enc {
		cr = coderange.Combine(a.KnownCodeRange(), b.KnownCodeRange())
	} else {
		enc, cr = coderange.CombineWith(a.enc, a.CodeRange(), b.enc, b.CodeRange())
	}

	if ConcatOverflows(a, b) {
		panic("rope: concatenation length overflows int")
	}
	size := a.size + b.size
	depth := 1 + max(a.depth, b.depth)

	if depth > f.cfg.MaxDepth {
		tracer().Debugf("concat: depth %d exceeds %d, flattening %d bytes", depth, f.cfg.MaxDepth, size)
		if cr == coderange.Unknown {
			_, cr = coderange.CombineWith(a.enc, a.CodeRange(), b.enc, b.CodeRange())
		}
		chars := size
		if cr != coderange.ASCIIOnly {
			chars = a.CharLen() + b.CharLen()
		}
		buf := make([]byte, size)
		a.copyRange(buf[:a.size], 0)
		b.copyRange(buf[a.size:], 0)
		return flatNode(buf, enc, cr, chars)
	}

	r := &Rope{kind: KindConcat, enc: enc, size: size, depth: depth, left: a, right: b}
	r.cr.set(cr)
	if cr == coderange.ASCIIOnly {
		r.chars.set(size)
	} else if la, ok := a.chars.get(); ok {
		if lb, ok := b.chars.get(); ok {
			r.chars.set(la + lb)
		}
	}
	return r
}

// ConcatOverflows reports whether the byte length of a joined with b does
// not fit in an int.
func ConcatOverflows(a, b *Rope) bool {
	return math.MaxInt-a.size < b.size
}

// flatNode returns a node holding buf with the resolved metadata of the rope
// it replaces. ASCII only and valid content becomes a leaf. Broken content
// becomes a leaf only when buf classifies the same way; otherwise characters
// split across the replaced children rejoined, and buf is wrapped in a full
// window that keeps the broken code range and character count. The window
// has its buffer published, so reads never descend and it counts as depth 1.
func flatNode(buf []byte, enc *encoding.Encoding, cr coderange.CodeRange, chars int) *Rope {
	if cr != coderange.Broken {
		r := newLeafWithCodeRange(buf, enc, cr)
		r.chars.set(chars)
		return r
	}
	leaf := newClassifiedLeaf(buf, enc)
	if n, _ := leaf.chars.get(); leaf.cr.get() == cr && n == chars {
		return leaf
	}
	w := &Rope{kind: KindSubstring, enc: enc, size: len(buf), depth: 1, left: leaf}
	w.cr.set(cr)
	w.chars.set(chars)
	w.flat.publish(buf)
	return w
}

// Substring returns the window [off, off+n) of r. A zero length yields the
// empty rope of r's encoding and the full window yields r itself.
func (f *Factory) Substring(r *Rope, off, n int) (*Rope, error) {
	if off < 0 || n < 0 || off > r.size-n {
		return nil, fmt.Errorf("%w: window [%d, %d+%d) of %d bytes", ErrIndexOutOfRange, off, off, n, r.size)
	}
	if n == 0 {
		return f.Empty(r.enc), nil
	}
	if off == 0 && n == r.size {
		return r, nil
	}
	return f.substring(r, off, n), nil
}

func (f *Factory) substring(r *Rope, off, n int) *Rope {
	enc := r.enc
	parentCR := r.KnownCodeRange()

	// Collapse onto the smallest node that holds the whole window. Nodes with
	// a different encoding are not entered.
descend:
	for {
		switch r.kind {
		case KindSubstring:
			if r.left.enc != enc {
				break descend
			}
			off += r.offset
			r = r.left
		case KindConcat:
			switch {
			case off+n <= r.left.size && r.left.enc == enc:
				r = r.left
			case off >= r.left.size && r.right.enc == enc:
				off -= r.left.size
				r = r.right
			default:
				break descend
			}
		case KindRepeat:
			p := r.left.size
			start := off % p
			if start+n > p || r.left.enc != enc {
				break descend
			}
			off = start
			r = r.left
		default:
			break descend
		}
	}
	if off == 0 && n == r.size {
		return r
	}
	if cr := r.KnownCodeRange(); cr == coderange.ASCIIOnly {
		parentCR = cr
	}

	if r.kind == KindLeaf && r.size <= f.cfg.SubstringCopyThreshold {
		buf := make([]byte, n)
		copy(buf, r.bytes[off:off+n])
		return f.windowLeaf(buf, enc, parentCR)
	}
	if r.depth+1 > f.cfg.MaxDepth {
		tracer().Debugf("substring: depth %d exceeds %d, materializing %d bytes", r.depth+1, f.cfg.MaxDepth, n)
		buf := make([]byte, n)
		r.copyRange(buf, off)
		return f.windowLeaf(buf, enc, parentCR)
	}

	s := &Rope{kind: KindSubstring, enc: enc, size: n, depth: r.depth + 1, left: r, offset: off}
	if parentCR == coderange.ASCIIOnly {
		s.cr.set(coderange.ASCIIOnly)
		s.chars.set(n)
	}
	return s
}

// windowLeaf creates a leaf for a copied window. Windows of ASCII only
// parents are ASCII only; everything else is classified.
func (f *Factory) windowLeaf(buf []byte, enc *encoding.Encoding, parentCR coderange.CodeRange) *Rope {
	if parentCR == coderange.ASCIIOnly {
		return newLeafWithCodeRange(buf, enc, coderange.ASCIIOnly)
	}
	return newClassifiedLeaf(buf, enc)
}

// Repeat returns r repeated count times. A zero count yields the empty rope
// and a count of one yields r itself.
func (f *Factory) Repeat(r *Rope, count int) (*Rope, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: negative repeat count %d", ErrInvalidArgument, count)
	}
	if count == 0 || r.size == 0 {
		return f.Empty(r.enc), nil
	}
	if count == 1 {
		return r, nil
	}
	if r.size > math.MaxInt/count {
		return nil, fmt.Errorf("%w: %d bytes repeated %d times overflows", ErrInvalidArgument, r.size, count)
	}

	pattern := r
	if pattern.depth+1 > f.cfg.MaxDepth {
		tracer().Debugf("repeat: depth %d exceeds %d, flattening pattern", pattern.depth+1, f.cfg.MaxDepth)
		pattern = f.flatten(pattern)
	}

	rep := &Rope{kind: KindRepeat, enc: r.enc, size: r.size * count, depth: pattern.depth + 1, left: pattern, count: count}
	if cr := pattern.KnownCodeRange(); cr != coderange.Unknown {
		rep.cr.set(cr)
	}
	if n, ok := pattern.chars.get(); ok {
		rep.chars.set(n * count)
	}
	return rep, nil
}

// flatten returns a depth 1 node with the content, encoding, code range and
// character length of r.
func (f *Factory) flatten(r *Rope) *Rope {
	if r.depth == 1 {
		return r
	}
	return flatNode(r.Bytes(), r.enc, r.CodeRange(), r.CharLen())
}

// Flatten returns a rope of depth 1 with the content and metadata of r. The
// result is a leaf unless r is broken only because characters are split
// across its children.
func (f *Factory) Flatten(r *Rope) *Rope {
	return f.flatten(r)
}

// Join concatenates parts pairwise, keeping the result balanced.
func (f *Factory) Join(parts ...*Rope) *Rope {
	switch len(parts) {
	case 0:
		return f.Empty(encoding.UTF8)
	case 1:
		return parts[0]
	}
	level := append([]*Rope(nil), parts...)
	for len(level) > 1 {
		next := level[:0]
		for i := 0; i < len(level); i += 2 {
			if i+1 == len(level) {
				next = append(next, level[i])
				continue
			}
			next = append(next, f.Concat(level[i], level[i+1]))
		}
		level = next
	}
	return level[0]
}

// Default is the factory used by the package level functions.
var Default = mustFactory(DefaultConfig())

func mustFactory(cfg Config) *Factory {
	f, err := NewFactory(cfg, nil)
	if err != nil {
		panic(err)
	}
	return f
}

// FromBytes creates a leaf with the default factory.
func FromBytes(b []byte, enc *encoding.Encoding) (*Rope, error) {
	return Default.FromBytes(b, enc)
}

// FromBytesWithCodeRange creates a leaf with a known code range with the
// default factory.
func FromBytesWithCodeRange(b []byte, enc *encoding.Encoding, cr coderange.CodeRange) (*Rope, error) {
	return Default.FromBytesWithCodeRange(b, enc, cr)
}

// FromString creates a UTF-8 leaf with the default factory.
func FromString(s string) *Rope {
	return Default.FromString(s)
}

// Empty returns the canonical empty rope of enc.
func Empty(enc *encoding.Encoding) *Rope {
	return Default.Empty(enc)
}

// Concat concatenates two ropes with the default factory.
func Concat(a, b *Rope) *Rope {
	return Default.Concat(a, b)
}

// Substring slices a rope with the default factory.
func Substring(r *Rope, off, n int) (*Rope, error) {
	return Default.Substring(r, off, n)
}

// Repeat repeats a rope with the default factory.
func Repeat(r *Rope, count int) (*Rope, error) {
	return Default.Repeat(r, count)
}
