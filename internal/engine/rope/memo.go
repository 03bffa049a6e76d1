package rope

import (
	"sync/atomic"

	"github.com/dshills/textrope/internal/engine/coderange"
)

// The lazy fields of a node move from an unresolved state to a final value
// exactly once. Concurrent writers may compute the value independently; the
// first successful compare-and-swap wins and every caller returns the
// published value.

// lazyRange holds a code range; coderange.Unknown (0) is unresolved.
type lazyRange struct {
	v atomic.Uint32
}

func (l *lazyRange) get() coderange.CodeRange {
	return coderange.CodeRange(l.v.Load())
}

// set publishes cr unless a value is already present and returns the
// published value.
func (l *lazyRange) set(cr coderange.CodeRange) coderange.CodeRange {
	if cr == coderange.Unknown {
		return l.get()
	}
	if l.v.CompareAndSwap(uint32(coderange.Unknown), uint32(cr)) {
		return cr
	}
	return l.get()
}

// lazyLen holds a non-negative length stored as n+1; 0 is unresolved.
type lazyLen struct {
	v atomic.Int64
}

func (l *lazyLen) get() (int, bool) {
	v := l.v.Load()
	return int(v - 1), v != 0
}

func (l *lazyLen) set(n int) int {
	if l.v.CompareAndSwap(0, int64(n)+1) {
		return n
	}
	n, _ = l.get()
	return n
}

// memo holds an arbitrary value behind an atomic pointer.
type memo[T any] struct {
	p atomic.Pointer[T]
}

func (m *memo[T]) load() (T, bool) {
	if p := m.p.Load(); p != nil {
		return *p, true
	}
	var zero T
	return zero, false
}

func (m *memo[T]) publish(v T) T {
	if m.p.CompareAndSwap(nil, &v) {
		return v
	}
	return *m.p.Load()
}
