package engine

import (
	"fmt"
	"sync"

	"github.com/dshills/textrope/internal/engine/coderange"
	"github.com/dshills/textrope/internal/engine/encoding"
	"github.com/dshills/textrope/internal/engine/rope"
)

// Re-export commonly used types for convenience.
type (
	// Rope is an immutable encoded byte sequence.
	Rope = rope.Rope

	// CodeRange classifies the content of a rope.
	CodeRange = coderange.CodeRange

	// Encoding describes how bytes form characters.
	Encoding = encoding.Encoding
)

// Re-export constants.
const (
	CodeRangeUnknown   = coderange.Unknown
	CodeRangeASCIIOnly = coderange.ASCIIOnly
	CodeRangeValid     = coderange.Valid
	CodeRangeBroken    = coderange.Broken
)

// Engine is the runtime facing facade over the rope core.
// It owns a Factory configured by its options, resolves encodings by name
// and interns literal ropes.
//
// All operations are thread-safe and can be called from multiple goroutines.
type Engine struct {
	factory  *rope.Factory
	registry *encoding.Registry

	// literals maps encoding name + "\x00" + content to an interned *Rope.
	literals sync.Map

	// Configuration
	cfg rope.Config
}

// New creates a new Engine with the given options.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		cfg:      rope.DefaultConfig(),
		registry: encoding.Default,
	}

	// Apply options to get configuration
	for _, opt := range opts {
		opt(e)
	}

	f, err := rope.NewFactory(e.cfg, e.registry)
	if err != nil {
		return nil, err
	}
	e.factory = f
	tracer().Debugf("engine: max depth %d, substring copy threshold %d, validate %v",
		e.cfg.MaxDepth, e.cfg.SubstringCopyThreshold, e.cfg.Validate)
	return e, nil
}

// Factory returns the rope factory backing the engine.
func (e *Engine) Factory() *rope.Factory {
	return e.factory
}

// Config returns the rope configuration in effect.
func (e *Engine) Config() rope.Config {
	return e.cfg
}

// LookupEncoding resolves an encoding by name or alias.
func (e *Engine) LookupEncoding(name string) (*Encoding, error) {
	return e.registry.Lookup(name)
}

// MakeLeafRope creates a leaf holding a copy of b and classifies it.
func (e *Engine) MakeLeafRope(b []byte, enc *Encoding) (*Rope, error) {
	return e.factory.FromBytes(clone(b), enc)
}

// MakeLeafRopeWithCodeRange creates a leaf holding a copy of b whose code
// range the caller already knows. CodeRangeUnknown classifies the bytes.
func (e *Engine) MakeLeafRopeWithCodeRange(b []byte, enc *Encoding, cr CodeRange) (*Rope, error) {
	return e.factory.FromBytesWithCodeRange(clone(b), enc, cr)
}

// Literal returns the interned rope for b under enc. Equal literals in the
// same encoding share a single rope whose metadata is resolved up front.
func (e *Engine) Literal(b []byte, enc *Encoding) (*Rope, error) {
	if enc == nil {
		return nil, fmt.Errorf("%w: nil encoding", ErrInvalidEncoding)
	}
	key := enc.Name() + "\x00" + string(b)
	if r, ok := e.literals.Load(key); ok {
		return r.(*Rope), nil
	}
	r, err := e.MakeLeafRope(b, enc)
	if err != nil {
		return nil, err
	}
	r.CodeRange()
	r.CharLen()
	actual, loaded := e.literals.LoadOrStore(key, r)
	if !loaded {
		tracer().Debugf("engine: interned %s literal of %d bytes", enc, len(b))
	}
	return actual.(*Rope), nil
}

// ConcatRopes returns the concatenation of a and b. A combined length that
// does not fit in an int is ErrInvalidArgument.
func (e *Engine) ConcatRopes(a, b *Rope) (*Rope, error) {
	if a == nil || b == nil {
		return nil, fmt.Errorf("%w: nil rope", ErrInvalidArgument)
	}
	if rope.ConcatOverflows(a, b) {
		return nil, fmt.Errorf("%w: %d + %d bytes overflows", ErrInvalidArgument, a.ByteLen(), b.ByteLen())
	}
	return e.factory.Concat(a, b), nil
}

// SubstringRope returns the n bytes of r starting at byte off.
func (e *Engine) SubstringRope(r *Rope, off, n int) (*Rope, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: nil rope", ErrInvalidArgument)
	}
	return e.factory.Substring(r, off, n)
}

// RepeatRope returns r repeated count times.
func (e *Engine) RepeatRope(r *Rope, count int) (*Rope, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: nil rope", ErrInvalidArgument)
	}
	return e.factory.Repeat(r, count)
}

// ByteAt returns the byte at index i of r.
func (e *Engine) ByteAt(r *Rope, i int) (byte, error) {
	if r == nil {
		return 0, fmt.Errorf("%w: nil rope", ErrInvalidArgument)
	}
	return r.ByteAt(i)
}

// The accessors below have no error result and panic on a nil rope.

// ByteLength returns the number of bytes in r.
func (e *Engine) ByteLength(r *Rope) int {
	return r.ByteLen()
}

// CharacterLength returns the number of characters in r.
func (e *Engine) CharacterLength(r *Rope) int {
	return r.CharLen()
}

// CodeRange returns the code range of r.
func (e *Engine) CodeRange(r *Rope) CodeRange {
	return r.CodeRange()
}

// Encoding returns the encoding of r.
func (e *Engine) Encoding(r *Rope) *Encoding {
	return r.Encoding()
}

// ToByteBuffer returns the flattened content of r. The result is cached on
// the rope and must not be modified.
func (e *Engine) ToByteBuffer(r *Rope) []byte {
	return r.Bytes()
}

func clone(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
