// Package rope provides an immutable, encoding-aware rope for textual values.
//
// A rope is a tree of byte-holding nodes. Leaves own a byte buffer; inner
// nodes describe the concatenation of two ropes, a byte window of a parent
// rope or a pattern repeated a number of times. Nodes are never modified after
// construction, so ropes may be shared freely between goroutines and between
// parent nodes.
//
// Every rope carries its encoding and lazily computed metadata: the code range
// (ASCII only, valid or broken), the character length, the flattened bytes and
// a content hash. Metadata is computed at most once per node in the common
// case; concurrent readers may compute a value twice, but all of them observe
// the same published result.
//
// Ropes are built by a Factory, which keeps tree depth bounded by flattening
// operands into a single leaf when a new node would exceed Config.MaxDepth.
//
// Basic usage:
//
//	a := rope.FromString("hello ")
//	b := rope.FromString("wörld")
//	r := rope.Concat(a, b)
//	r.CodeRange()              // VALID
//	r.CharLen()                // 11
//	s, _ := rope.Substring(r, 3, 4)
//	s.String()                 // "lo w"
package rope

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'textrope.rope'
func tracer() tracing.Trace {
	return tracing.Select("textrope.rope")
}
