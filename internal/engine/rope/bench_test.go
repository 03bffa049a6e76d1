package rope

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/dshills/textrope/internal/engine/encoding"
)

// generateText creates a string of the given size with realistic content.
// Roughly one word in five carries a non-ASCII character.
func generateText(size int) string {
	var sb strings.Builder
	sb.Grow(size + 8)

	words := []string{"the", "quick", "brown", "fox", "jumps", "över", "lazy", "dög", "héllo", "wörld"}
	for sb.Len() < size {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(words[rand.Intn(len(words))])
	}
	return sb.String()
}

func BenchmarkFromBytes(b *testing.B) {
	for _, size := range []int{100, 10000, 1000000} {
		text := []byte(generateText(size))
		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			b.SetBytes(int64(len(text)))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_, _ = FromBytes(text, encoding.UTF8)
			}
		})
	}
}

func BenchmarkConcatChain(b *testing.B) {
	for _, maxDepth := range []int{8, 32, 128} {
		f, _ := NewFactory(Config{MaxDepth: maxDepth, SubstringCopyThreshold: DefaultSubstringCopyThreshold}, nil)
		piece := f.FromString("héllo ")
		b.Run(fmt.Sprintf("depth=%d", maxDepth), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				r := piece
				for j := 0; j < 1000; j++ {
					r = f.Concat(r, piece)
				}
			}
		})
	}
}

func BenchmarkByteAt(b *testing.B) {
	for _, maxDepth := range []int{8, 32, 128} {
		f, _ := NewFactory(Config{MaxDepth: maxDepth, SubstringCopyThreshold: DefaultSubstringCopyThreshold}, nil)
		r := f.FromString("x")
		for j := 0; j < 1000; j++ {
			r = f.Concat(r, f.FromString("y"))
		}
		b.Run(fmt.Sprintf("depth=%d", maxDepth), func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_, _ = r.ByteAt(i % r.ByteLen())
			}
		})
	}
}

func BenchmarkSubstring(b *testing.B) {
	r := FromString(generateText(100000))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		off := i % 90000
		_, _ = Substring(r, off, 1000)
	}
}

func BenchmarkCharLen(b *testing.B) {
	text := generateText(100000)
	b.SetBytes(int64(len(text)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		// fresh node per iteration so the memoized length is not reused
		r := Concat(FromString(text[:50000]), FromString(text[50000:]))
		_ = r.CharLen()
	}
}

func BenchmarkCharIndex(b *testing.B) {
	f, _ := NewFactory(Config{MaxDepth: 64, SubstringCopyThreshold: 0}, nil)
	r := f.Join(func() []*Rope {
		parts := make([]*Rope, 256)
		for i := range parts {
			parts[i] = f.FromString(generateText(400))
		}
		return parts
	}()...)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = r.CharIndex((i * 7919) % r.ByteLen())
	}
}

func BenchmarkHash(b *testing.B) {
	text := generateText(100000)
	b.SetBytes(int64(len(text)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r := Concat(FromString(text[:50000]), FromString(text[50000:]))
		_ = r.Hash()
	}
}
