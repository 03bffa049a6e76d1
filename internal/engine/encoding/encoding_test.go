package encoding

import (
	"errors"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestPreciseCharLen(t *testing.T) {
	tests := []struct {
		name string
		enc  *Encoding
		in   []byte
		want int
	}{
		{"utf8 ascii", UTF8, []byte("a"), 1},
		{"utf8 two", UTF8, []byte("é"), 2},
		{"utf8 three", UTF8, []byte("世"), 3},
		{"utf8 four", UTF8, []byte("🌍"), 4},
		{"utf8 truncated", UTF8, []byte{0xE4, 0xB8}, Incomplete},
		{"utf8 bad continuation", UTF8, []byte{0xE4, 0x41}, Invalid},
		{"utf8 lone continuation", UTF8, []byte{0x80}, Invalid},
		{"utf8 overlong", UTF8, []byte{0xC0, 0x80}, Invalid},
		{"utf8 surrogate", UTF8, []byte{0xED, 0xA0, 0x80}, Invalid},
		{"ascii high", ASCII, []byte{0xC3}, Invalid},
		{"latin1 high", ISO8859_1, []byte{0xE9}, 1},
		{"binary", Binary, []byte{0xFF}, 1},
		{"utf16le bmp", UTF16LE, []byte{'a', 0}, 2},
		{"utf16le pair", UTF16LE, []byte{0x3C, 0xD8, 0x0D, 0xDF}, 4},
		{"utf16le odd", UTF16LE, []byte{'a'}, Incomplete},
		{"utf16le lone low", UTF16LE, []byte{0x00, 0xDC}, Invalid},
		{"utf16le high then bmp", UTF16LE, []byte{0x3C, 0xD8, 'a', 0}, Invalid},
		{"utf16be bmp", UTF16BE, []byte{0, 'a'}, 2},
		{"utf32le", UTF32LE, []byte{'a', 0, 0, 0}, 4},
		{"utf32be too large", UTF32BE, []byte{0, 0x11, 0, 0}, Invalid},
		{"sjis kana", ShiftJIS, []byte{0xB1}, 1},
		{"sjis double", ShiftJIS, []byte{0x82, 0xA0}, 2},
		{"sjis short", ShiftJIS, []byte{0x82}, Incomplete},
		{"sjis bad trail", ShiftJIS, []byte{0x82, 0x20}, Invalid},
		{"eucjp double", EUCJP, []byte{0xA4, 0xA2}, 2},
		{"eucjp triple", EUCJP, []byte{0x8F, 0xB0, 0xA1}, 3},
		{"eucjp kana", EUCJP, []byte{0x8E, 0xB1}, 2},
		{"euckr", EUCKR, []byte{0xB0, 0xA1}, 2},
		{"gbk", GBK, []byte{0x81, 0x40}, 2},
		{"gb18030 four", GB18030, []byte{0x81, 0x30, 0x81, 0x30}, 4},
		{"gb18030 four short", GB18030, []byte{0x81, 0x30, 0x81}, Incomplete},
		{"big5", Big5, []byte{0xA4, 0x40}, 2},
		{"big5 bad trail", Big5, []byte{0xA4, 0x90}, Invalid},
		{"empty", UTF8, nil, Incomplete},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.enc.PreciseCharLen(tt.in); got != tt.want {
				t.Errorf("PreciseCharLen(% x) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestCharBoundaryAt(t *testing.T) {
	b := []byte("a\xe4\xb8\x96\xff")
	steps := []int{1, 4, 5, 5}
	off := 0
	for i, want := range steps {
		off = UTF8.CharBoundaryAt(b, off)
		if off != want {
			t.Fatalf("step %d: got %d, want %d", i, off, want)
		}
	}
	if got := UTF16LE.CharBoundaryAt([]byte{0x00, 0xDC, 'a'}, 0); got != 2 {
		t.Errorf("broken utf-16 should step by min char len, got %d", got)
	}
}

func TestIsValid(t *testing.T) {
	if !UTF8.IsValid([]byte("héllo 世界")) {
		t.Error("expected valid utf-8")
	}
	if UTF8.IsValid([]byte("h\xffi")) {
		t.Error("expected invalid utf-8")
	}
	if UTF16LE.IsValid([]byte{'a', 0, 'b'}) {
		t.Error("odd length utf-16 must be invalid")
	}
	if !IBM037.IsValid([]byte{0xC1, 0xC2}) {
		t.Error("single byte encodings accept any byte")
	}
}

func TestProperties(t *testing.T) {
	if !UTF8.IsASCIICompatible() || UTF8.IsSingleByte() {
		t.Error("UTF-8 should be ascii compatible and multi-byte")
	}
	if UTF16LE.IsASCIICompatible() {
		t.Error("UTF-16LE is not ascii compatible")
	}
	if IBM037.IsASCIICompatible() || !IBM037.IsSingleByte() {
		t.Error("IBM037 should be single byte and not ascii compatible")
	}
	if UTF32BE.MinCharLen() != 4 || UTF32BE.MaxCharLen() != 4 {
		t.Error("UTF-32 characters are 4 bytes")
	}
}

func TestDecode(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textrope.encoding")
	defer teardown()

	tests := []struct {
		enc  *Encoding
		in   []byte
		want string
	}{
		{UTF8, []byte("héllo"), "héllo"},
		{ISO8859_1, []byte{'c', 'a', 'f', 0xE9}, "café"},
		{UTF16LE, []byte{'h', 0, 'i', 0}, "hi"},
		{UTF16BE, []byte{0, 'h', 0, 'i'}, "hi"},
		{ShiftJIS, []byte{0x82, 0xA0}, "あ"},
		{EUCJP, []byte{0xA4, 0xA2}, "あ"},
		{IBM037, []byte{0xC8, 0x89}, "Hi"},
	}
	for _, tt := range tests {
		got, err := tt.enc.Decode(tt.in)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", tt.enc, err)
		}
		if got != tt.want {
			t.Errorf("%s: Decode = %q, want %q", tt.enc, got, tt.want)
		}
	}
	tracer().Debugf("decoded %d samples", len(tests))
}

func TestEncodeRoundTrip(t *testing.T) {
	for _, enc := range []*Encoding{UTF8, UTF16LE, UTF32BE, ShiftJIS, GB18030, Big5, EUCKR} {
		b, err := enc.Encode("abc")
		if err != nil {
			t.Fatalf("%s: %v", enc, err)
		}
		s, err := enc.Decode(b)
		if err != nil || s != "abc" {
			t.Errorf("%s: round trip gave %q, %v", enc, s, err)
		}
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name string
		want *Encoding
	}{
		{"UTF-8", UTF8},
		{"utf8", UTF8},
		{"  Shift_JIS ", ShiftJIS},
		{"sjis", ShiftJIS},
		{"binary", Binary},
		{"latin1", ISO8859_1},
		{"ebcdic", IBM037},
		{"csShiftJIS", ShiftJIS}, // resolved through the IANA index
	}
	for _, tt := range tests {
		got, err := Lookup(tt.name)
		if err != nil {
			t.Errorf("Lookup(%q): %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Lookup(%q) = %s, want %s", tt.name, got, tt.want)
		}
	}

	if _, err := Lookup("no-such-encoding"); !errors.Is(err, ErrInvalidEncoding) {
		t.Errorf("expected ErrInvalidEncoding, got %v", err)
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	enc, err := r.Register(Definition{
		Name:            "X-TEST",
		Aliases:         []string{"xt"},
		ASCIICompatible: true,
		MinCharLen:      1,
		MaxCharLen:      1,
		Scan:            scanSingleByte,
	})
	if err != nil {
		t.Fatal(err)
	}
	if enc.Index() != 0 || r.Len() != 1 {
		t.Errorf("unexpected index %d / len %d", enc.Index(), r.Len())
	}
	if got, _ := r.Lookup("XT"); got != enc {
		t.Error("alias lookup failed")
	}
	if got, ok := r.Get(0); !ok || got != enc {
		t.Error("Get(0) failed")
	}
	if _, err := r.Register(Definition{Name: "x-test", MinCharLen: 1, MaxCharLen: 1, Scan: scanSingleByte}); !errors.Is(err, ErrDuplicateEncoding) {
		t.Errorf("expected duplicate error, got %v", err)
	}
	if _, err := r.Register(Definition{Name: "bad", MinCharLen: 2, MaxCharLen: 1, Scan: scanSingleByte}); !errors.Is(err, ErrInvalidDefinition) {
		t.Errorf("expected definition error, got %v", err)
	}
	if _, err := r.Register(Definition{Name: "noscan", MinCharLen: 1, MaxCharLen: 1}); !errors.Is(err, ErrInvalidDefinition) {
		t.Errorf("expected definition error, got %v", err)
	}
}

func TestAllOrder(t *testing.T) {
	all := All()
	if len(all) < 16 {
		t.Fatalf("expected the built-in encodings, got %d", len(all))
	}
	for i, enc := range all {
		if enc.Index() != i {
			t.Errorf("%s has index %d at position %d", enc, enc.Index(), i)
		}
	}
	if all[0] != UTF8 {
		t.Errorf("first registered encoding should be UTF-8, got %s", all[0])
	}
}
