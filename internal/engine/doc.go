// Package engine provides the runtime facade of textrope.
//
// The engine package combines encoding lookup, rope construction and rope
// queries into a single API that a language runtime can use as the backing
// store of its string values.
//
// # Architecture
//
// The engine is built on several sub-packages:
//
//   - encoding: encoding descriptors and the registry resolving them by name
//   - coderange: classification of byte content into code ranges
//   - rope: immutable Leaf, Concat, Substring and Repeat nodes and the Factory
//   - codec: a framed persistence format for flattened ropes
//
// # Thread Safety
//
// All Engine operations are thread-safe. Ropes are immutable; their lazily
// computed metadata is published atomically, so any number of goroutines may
// query the same rope at once.
//
// # Basic Usage
//
//	e, err := engine.New()
//	if err != nil {
//		return err
//	}
//
//	utf8, _ := e.LookupEncoding("UTF-8")
//	a, _ := e.MakeLeafRope([]byte("héllo"), utf8)
//	b, _ := e.MakeLeafRope([]byte(" world"), utf8)
//	r, _ := e.ConcatRopes(a, b)
//
//	e.ByteLength(r)      // 12
//	e.CharacterLength(r) // 11
//	e.CodeRange(r)       // VALID
//
//	w, _ := e.SubstringRope(r, 7, 5)
//	string(e.ToByteBuffer(w)) // "world"
//
// # Literals
//
// Literal returns interned ropes. Calling it twice with equal bytes in the
// same encoding yields the same *Rope:
//
//	l1, _ := e.Literal([]byte("nil"), utf8)
//	l2, _ := e.Literal([]byte("nil"), utf8)
//	// l1 == l2
package engine

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'textrope.engine'.
func tracer() tracing.Trace {
	return tracing.Select("textrope.engine")
}
