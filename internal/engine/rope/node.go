package rope

import (
	"strconv"

	"github.com/dshills/textrope/internal/engine/coderange"
	"github.com/dshills/textrope/internal/engine/encoding"
)

// Kind identifies the variant of a rope node.
type Kind uint8

const (
	// KindLeaf owns its bytes.
	KindLeaf Kind = iota
	// KindConcat joins a left and a right rope.
	KindConcat
	// KindSubstring is a byte window of a parent rope.
	KindSubstring
	// KindRepeat repeats a pattern rope a number of times.
	KindRepeat
	// KindInt holds the decimal representation of an int64, formatted on
	// demand.
	KindInt
)

func (k Kind) String() string {
	switch k {
	case KindLeaf:
		return "leaf"
	case KindConcat:
		return "concat"
	case KindSubstring:
		return "substring"
	case KindRepeat:
		return "repeat"
	case KindInt:
		return "int"
	}
	return "unknown"
}

// Rope is an immutable node of a rope tree. Ropes are created by a Factory
// and must not be copied by value.
type Rope struct {
	kind  Kind
	enc   *encoding.Encoding
	size  int // byte length
	depth int

	bytes  []byte // leaf content
	left   *Rope  // concat left child; parent of a substring; repeat pattern
	right  *Rope  // concat right child
	offset int    // substring window start
	count  int    // repeat count
	value  int64  // int value

	cr    lazyRange
	chars lazyLen
	flat  memo[[]byte]
	hash  memo[uint64]
}

func newLeaf(b []byte, enc *encoding.Encoding) *Rope {
	return &Rope{kind: KindLeaf, enc: enc, size: len(b), depth: 1, bytes: b}
}

// newClassifiedLeaf creates a leaf and computes its metadata eagerly.
func newClassifiedLeaf(b []byte, enc *encoding.Encoding) *Rope {
	r := newLeaf(b, enc)
	cr, n := coderange.Classify(b, enc)
	r.cr.set(cr)
	r.chars.set(n)
	return r
}

// newLeafWithCodeRange creates a leaf with a code range known to be correct.
func newLeafWithCodeRange(b []byte, enc *encoding.Encoding, cr coderange.CodeRange) *Rope {
	r := newLeaf(b, enc)
	r.cr.set(cr)
	if cr == coderange.ASCIIOnly || enc.IsSingleByte() {
		r.chars.set(len(b))
	}
	return r
}

// Kind returns the node variant.
func (r *Rope) Kind() Kind {
	return r.kind
}

// Encoding returns the encoding of the rope.
func (r *Rope) Encoding() *encoding.Encoding {
	return r.enc
}

// ByteLen returns the length of the rope in bytes.
func (r *Rope) ByteLen() int {
	return r.size
}

// IsEmpty reports whether the rope has no bytes.
func (r *Rope) IsEmpty() bool {
	return r.size == 0
}

// Depth returns the height of the tree rooted at r. Leaves have depth 1.
func (r *Rope) Depth() int {
	return r.depth
}

// Left returns the left child of a concatenation, the parent of a substring
// or the pattern of a repetition. It is nil for other kinds.
func (r *Rope) Left() *Rope {
	return r.left
}

// Right returns the right child of a concatenation.
func (r *Rope) Right() *Rope {
	return r.right
}

// Offset returns the window start of a substring.
func (r *Rope) Offset() int {
	return r.offset
}

// Count returns the repeat count of a repetition.
func (r *Rope) Count() int {
	return r.count
}

// digitCount returns the length of the decimal representation of v.
func digitCount(v int64) int {
	n := 1
	if v < 0 {
		n++
		// -9223372036854775808 has no positive counterpart
		if v == -v {
			return 20
		}
		v = -v
	}
	for v >= 10 {
		v /= 10
		n++
	}
	return n
}

func (r *Rope) digits() []byte {
	return strconv.AppendInt(make([]byte, 0, r.size), r.value, 10)
}
