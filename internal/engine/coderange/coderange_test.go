package coderange

import (
	"strings"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/textrope/internal/engine/encoding"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		in    []byte
		enc   *encoding.Encoding
		cr    CodeRange
		chars int
	}{
		{"empty", nil, encoding.UTF8, ASCIIOnly, 0},
		{"empty utf16", nil, encoding.UTF16LE, ASCIIOnly, 0},
		{"ascii", []byte("hello"), encoding.UTF8, ASCIIOnly, 5},
		{"long ascii", []byte(strings.Repeat("abcdefgh", 9)), encoding.UTF8, ASCIIOnly, 72},
		{"valid", []byte("héllo"), encoding.UTF8, Valid, 5},
		{"cjk", []byte("hello 世界"), encoding.UTF8, Valid, 8},
		{"broken tail", []byte("ab\xe4\xb8"), encoding.UTF8, Broken, 4},
		{"broken middle", []byte("a\xffb"), encoding.UTF8, Broken, 3},
		{"ascii high byte", []byte{'a', 0x80}, encoding.ASCII, Broken, 2},
		{"binary high byte", []byte{'a', 0x80}, encoding.Binary, Valid, 2},
		{"latin1", []byte{'c', 'a', 'f', 0xE9}, encoding.ISO8859_1, Valid, 4},
		{"utf16 ascii text", []byte{'h', 0, 'i', 0}, encoding.UTF16LE, Valid, 2},
		{"utf16 odd", []byte{'h', 0, 'i'}, encoding.UTF16LE, Broken, 2},
		{"ebcdic", []byte{0xC8, 0x89}, encoding.IBM037, Valid, 2},
		{"sjis", []byte{'a', 0x82, 0xA0}, encoding.ShiftJIS, Valid, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cr, chars := Classify(tt.in, tt.enc)
			assert.Equal(t, tt.cr, cr)
			assert.Equal(t, tt.chars, chars)
		})
	}
}

func TestClassifyASCIIProperty(t *testing.T) {
	f := func(b []byte) bool {
		for i := range b {
			b[i] &= 0x7F
		}
		cr, n := Classify(b, encoding.UTF8)
		return cr == ASCIIOnly && n == len(b)
	}
	require.NoError(t, quick.Check(f, nil))
}

func TestClassifyCharLenBound(t *testing.T) {
	f := func(b []byte) bool {
		for _, enc := range []*encoding.Encoding{encoding.UTF8, encoding.UTF16BE, encoding.ShiftJIS, encoding.GB18030} {
			cr, n := Classify(b, enc)
			if !cr.IsKnown() || n < 0 || n > len(b) {
				return false
			}
		}
		return true
	}
	require.NoError(t, quick.Check(f, nil))
}

func TestCombine(t *testing.T) {
	tests := []struct {
		a, b, want CodeRange
	}{
		{ASCIIOnly, ASCIIOnly, ASCIIOnly},
		{ASCIIOnly, Valid, Valid},
		{Valid, ASCIIOnly, Valid},
		{Valid, Valid, Valid},
		{Broken, ASCIIOnly, Broken},
		{Valid, Broken, Broken},
		{Unknown, Broken, Broken},
		{Unknown, Valid, Unknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Combine(tt.a, tt.b), "Combine(%s, %s)", tt.a, tt.b)
	}
}

func TestNegotiate(t *testing.T) {
	enc, ok := Negotiate(encoding.UTF8, Valid, encoding.UTF8, Broken)
	assert.True(t, ok)
	assert.Same(t, encoding.UTF8, enc)

	enc, ok = Negotiate(encoding.ASCII, ASCIIOnly, encoding.UTF8, Valid)
	assert.True(t, ok)
	assert.Same(t, encoding.UTF8, enc, "ascii-only left side adopts the right encoding")

	enc, ok = Negotiate(encoding.ISO8859_1, Valid, encoding.UTF8, ASCIIOnly)
	assert.True(t, ok)
	assert.Same(t, encoding.ISO8859_1, enc)

	enc, ok = Negotiate(encoding.ISO8859_1, Valid, encoding.UTF8, Valid)
	assert.False(t, ok)
	assert.Same(t, encoding.ISO8859_1, enc)

	_, ok = Negotiate(encoding.UTF16LE, Valid, encoding.UTF8, ASCIIOnly)
	assert.False(t, ok, "utf-16 is not ascii compatible")

	enc, cr := CombineWith(encoding.ISO8859_1, Valid, encoding.UTF8, Valid)
	assert.Same(t, encoding.ISO8859_1, enc)
	assert.Equal(t, Broken, cr)
}

func TestStringAndParse(t *testing.T) {
	for _, cr := range []CodeRange{Unknown, ASCIIOnly, Valid, Broken} {
		got, ok := Parse(cr.String())
		require.True(t, ok)
		assert.Equal(t, cr, got)
	}
	_, ok := Parse("bogus")
	assert.False(t, ok)
	assert.False(t, Unknown.IsKnown())
}

func TestASCIIPrefix(t *testing.T) {
	assert.Equal(t, 0, ASCIIPrefix(nil))
	assert.Equal(t, 9, ASCIIPrefix([]byte("abcdefghi\xc3\xa9")))
	assert.Equal(t, 3, ASCIIPrefix([]byte("abc\x80defghijklmnop")))
}

func BenchmarkClassifyASCII(b *testing.B) {
	data := []byte(strings.Repeat("the quick brown fox ", 512))
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Classify(data, encoding.UTF8)
	}
}

func BenchmarkClassifyMultibyte(b *testing.B) {
	data := []byte(strings.Repeat("héllo wörld 世界 ", 512))
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Classify(data, encoding.UTF8)
	}
}
