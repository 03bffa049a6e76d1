package codec

import (
	"bytes"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/textrope/internal/engine/coderange"
	"github.com/dshills/textrope/internal/engine/encoding"
	"github.com/dshills/textrope/internal/engine/rope"
)

func testRopes(t *testing.T) map[string]*rope.Rope {
	t.Helper()
	f := rope.Default
	mk := func(b []byte, enc *encoding.Encoding) *rope.Rope {
		r, err := f.FromBytes(b, enc)
		require.NoError(t, err)
		return r
	}
	long := mk([]byte(strings.Repeat("the quick brown fox jumps over the lazy dog. ", 200)), encoding.UTF8)
	rep, err := f.Repeat(mk([]byte("ab"), encoding.ASCII), 1000)
	require.NoError(t, err)

	return map[string]*rope.Rope{
		"empty":  f.Empty(encoding.UTF8),
		"ascii":  mk([]byte("hello"), encoding.ASCII),
		"valid":  mk([]byte("héllo wörld"), encoding.UTF8),
		"broken": mk([]byte{'a', 0xff, 'b'}, encoding.UTF8),
		"utf16":  mk([]byte{'h', 0, 'i', 0}, encoding.UTF16LE),
		"sjis":   mk([]byte{0x82, 0xa0, 0x82, 0xa2}, encoding.ShiftJIS),
		"long":   long,
		"concat": f.Concat(long, mk([]byte("ünïcode"), encoding.UTF8)),
		"repeat": rep,
	}
}

func TestRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textrope.codec")
	defer teardown()

	for name, r := range testRopes(t) {
		for _, c := range Compressions() {
			t.Run(name+"/"+c.String(), func(t *testing.T) {
				frame, err := Encode(r, c)
				require.NoError(t, err)

				got, err := Decode(rope.Default, frame)
				require.NoError(t, err)
				assert.Equal(t, r.Bytes(), got.Bytes())
				assert.Same(t, r.Encoding(), got.Encoding())
				assert.Equal(t, r.CodeRange(), got.KnownCodeRange())
				assert.Equal(t, rope.KindLeaf, got.Kind())
			})
		}
	}
}

func TestEncodeTo(t *testing.T) {
	r, err := rope.FromBytes([]byte("streamed content"), encoding.UTF8)
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := EncodeTo(&buf, r, Zstd)
	require.NoError(t, err)
	assert.Equal(t, buf.Len(), n)

	got, err := DecodeFrom(rope.Default, &buf)
	require.NoError(t, err)
	assert.Equal(t, "streamed content", got.String())
}

func TestInspect(t *testing.T) {
	r, err := rope.FromBytes([]byte(strings.Repeat("é", 500)), encoding.UTF8)
	require.NoError(t, err)

	frame, err := Encode(r, S2)
	require.NoError(t, err)

	h, err := Inspect(frame)
	require.NoError(t, err)
	assert.Equal(t, S2, h.Compression)
	assert.Equal(t, coderange.Valid, h.CodeRange)
	assert.Equal(t, "UTF-8", h.Encoding)
	assert.Equal(t, 1000, h.RawLen)
	assert.Less(t, h.PayloadLen, h.RawLen)
	assert.Equal(t, []byte(Magic), frame[:4])
}

func TestBrokenConcatIsReclassified(t *testing.T) {
	// a two byte character split over two leaves
	a, err := rope.FromBytes([]byte{0xc3}, encoding.UTF8)
	require.NoError(t, err)
	b, err := rope.FromBytes([]byte{0xa9}, encoding.UTF8)
	require.NoError(t, err)
	r := rope.Concat(a, b)
	require.Equal(t, coderange.Broken, r.CodeRange())

	frame, err := Encode(r, None)
	require.NoError(t, err)
	h, err := Inspect(frame)
	require.NoError(t, err)
	assert.Equal(t, coderange.Valid, h.CodeRange)

	got, err := Decode(rope.Default, frame)
	require.NoError(t, err)
	assert.Equal(t, 1, got.CharLen())
}

func TestDecodeRejectsForgedCodeRange(t *testing.T) {
	r, err := rope.FromBytes([]byte("héllo"), encoding.UTF8)
	require.NoError(t, err)

	for _, c := range Compressions() {
		t.Run(c.String(), func(t *testing.T) {
			frame, err := Encode(r, c)
			require.NoError(t, err)
			frame[5] = byte(coderange.ASCIIOnly)

			_, err = Decode(rope.Default, frame)
			assert.ErrorIs(t, err, ErrCorrupt)
		})
	}

	frame, err := Encode(r, None)
	require.NoError(t, err)
	got, err := Decode(rope.Default, frame)
	require.NoError(t, err)
	assert.Equal(t, coderange.Valid, got.CodeRange())
	assert.Equal(t, 5, got.CharLen())
}

func TestLZ4IncompressibleFallsBack(t *testing.T) {
	r, err := rope.FromBytes([]byte("xyz"), encoding.ASCII)
	require.NoError(t, err)

	frame, err := Encode(r, LZ4)
	require.NoError(t, err)
	h, err := Inspect(frame)
	require.NoError(t, err)
	assert.Equal(t, None, h.Compression)
	assert.Equal(t, 3, h.PayloadLen)
}

func TestDecodeErrors(t *testing.T) {
	r, err := rope.FromBytes([]byte(strings.Repeat("payload ", 64)), encoding.UTF8)
	require.NoError(t, err)
	good, err := Encode(r, None)
	require.NoError(t, err)
	zstdFrame, err := Encode(r, Zstd)
	require.NoError(t, err)

	mutate := func(frame []byte, fn func([]byte) []byte) []byte {
		return fn(append([]byte(nil), frame...))
	}
	nameAt := len(Magic) + 3

	tests := []struct {
		name  string
		frame []byte
		want  error
	}{
		{"empty", nil, ErrCorrupt},
		{"bad magic", mutate(good, func(b []byte) []byte { b[0] = 'X'; return b }), ErrCorrupt},
		{"unknown compression", mutate(good, func(b []byte) []byte { b[4] = 9; return b }), ErrUnknownCompression},
		{"unknown code range", mutate(good, func(b []byte) []byte { b[5] = 0; return b }), ErrCorrupt},
		{"code range not matching content", mutate(good, func(b []byte) []byte { b[5] = byte(coderange.Valid); return b }), ErrCorrupt},
		{"declared length below zstd content", mutate(zstdFrame, func(b []byte) []byte { b[nameAt+5] = 0xff; b[nameAt+6] = 0x03; return b }), ErrCorrupt},
		{"truncated header", good[:nameAt+2], ErrCorrupt},
		{"truncated payload", good[:len(good)-1], ErrCorrupt},
		{"flipped payload", mutate(good, func(b []byte) []byte { b[len(b)-1] ^= 1; return b }), ErrChecksum},
		{"unknown encoding", mutate(good, func(b []byte) []byte { copy(b[nameAt:], "XTF-8"); return b }), encoding.ErrInvalidEncoding},
		{"garbage zstd", mutate(zstdFrame, func(b []byte) []byte { b[len(b)-3] ^= 0xff; return b }), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(rope.Default, tt.frame)
			require.Error(t, err)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestParseCompression(t *testing.T) {
	for _, c := range Compressions() {
		got, err := ParseCompression(strings.ToUpper(c.String()))
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	got, err := ParseCompression("")
	require.NoError(t, err)
	assert.Equal(t, None, got)

	_, err = ParseCompression("brotli")
	assert.ErrorIs(t, err, ErrUnknownCompression)

	_, err = Encode(rope.FromString("x"), Compression(42))
	assert.ErrorIs(t, err, ErrUnknownCompression)
	assert.Equal(t, "compression(42)", Compression(42).String())
}

func BenchmarkEncode(b *testing.B) {
	r, _ := rope.FromBytes([]byte(strings.Repeat("benchmark text ", 4096)), encoding.UTF8)
	for _, c := range Compressions() {
		b.Run(c.String(), func(b *testing.B) {
			b.SetBytes(int64(r.ByteLen()))
			for i := 0; i < b.N; i++ {
				_, _ = Encode(r, c)
			}
		})
	}
}

func BenchmarkDecode(b *testing.B) {
	r, _ := rope.FromBytes([]byte(strings.Repeat("benchmark text ", 4096)), encoding.UTF8)
	for _, c := range Compressions() {
		frame, _ := Encode(r, c)
		b.Run(c.String(), func(b *testing.B) {
			b.SetBytes(int64(r.ByteLen()))
			for i := 0; i < b.N; i++ {
				_, _ = Decode(rope.Default, frame)
			}
		})
	}
}
