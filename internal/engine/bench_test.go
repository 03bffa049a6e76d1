package engine

import (
	"strings"
	"testing"

	"github.com/dshills/textrope/internal/engine/encoding"
)

// ============================================================================
// Setup Helpers
// ============================================================================

func setupBenchEngine(b *testing.B) *Engine {
	b.Helper()
	e, err := New()
	if err != nil {
		b.Fatal(err)
	}
	return e
}

func setupConcatRope(b *testing.B, e *Engine, pieces int) *Rope {
	b.Helper()
	piece := []byte(strings.Repeat("x", 79) + "é\n")
	r, _ := e.MakeLeafRope(nil, encoding.UTF8)
	for i := 0; i < pieces; i++ {
		leaf, err := e.MakeLeafRope(piece, encoding.UTF8)
		if err != nil {
			b.Fatal(err)
		}
		r, _ = e.ConcatRopes(r, leaf)
	}
	return r
}

// ============================================================================
// Construction Benchmarks
// ============================================================================

func BenchmarkMakeLeafRope(b *testing.B) {
	e := setupBenchEngine(b)
	data := []byte(strings.Repeat("hello world ", 100))
	b.SetBytes(int64(len(data)))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = e.MakeLeafRope(data, encoding.UTF8)
	}
}

func BenchmarkLiteral(b *testing.B) {
	e := setupBenchEngine(b)
	lit := []byte("a frequently used literal")
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = e.Literal(lit, encoding.UTF8)
	}
}

func BenchmarkConcatRopes(b *testing.B) {
	e := setupBenchEngine(b)
	leaf, _ := e.MakeLeafRope([]byte("chunk"), encoding.UTF8)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		r := leaf
		for j := 0; j < 64; j++ {
			r, _ = e.ConcatRopes(r, leaf)
		}
	}
}

// ============================================================================
// Query Benchmarks
// ============================================================================

func BenchmarkByteAt(b *testing.B) {
	e := setupBenchEngine(b)
	r := setupConcatRope(b, e, 1000)
	n := e.ByteLength(r)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = e.ByteAt(r, (i*7919)%n)
	}
}

func BenchmarkCharacterLength(b *testing.B) {
	e := setupBenchEngine(b)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		b.StopTimer()
		r := setupConcatRope(b, e, 100)
		b.StartTimer()
		_ = e.CharacterLength(r)
	}
}

func BenchmarkToByteBuffer(b *testing.B) {
	e := setupBenchEngine(b)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		b.StopTimer()
		r := setupConcatRope(b, e, 100)
		b.StartTimer()
		_ = e.ToByteBuffer(r)
	}
}
