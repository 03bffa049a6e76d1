package codec

import (
	"fmt"
	"strings"
	"sync"

	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies the payload compression of a frame.
type Compression uint8

// Supported compressions. The values are part of the frame format.
const (
	None Compression = iota
	Zstd
	S2
	LZ4
)

var compressionNames = [...]string{
	None: "none",
	Zstd: "zstd",
	S2:   "s2",
	LZ4:  "lz4",
}

// String returns the lower case name of c.
func (c Compression) String() string {
	if int(c) < len(compressionNames) {
		return compressionNames[c]
	}
	return fmt.Sprintf("compression(%d)", uint8(c))
}

// Valid reports whether c is a known compression.
func (c Compression) Valid() bool {
	return int(c) < len(compressionNames)
}

// ParseCompression resolves a compression by name. The empty name is None.
func ParseCompression(name string) (Compression, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return None, nil
	}
	for i, s := range compressionNames {
		if s == n {
			return Compression(i), nil
		}
	}
	return None, fmt.Errorf("%w: %q", ErrUnknownCompression, name)
}

// Compressions returns all supported compressions in id order.
func Compressions() []Compression {
	return []Compression{None, Zstd, S2, LZ4}
}

// zstdDecoderPool pools zstd decoders; a warmed up decoder does not allocate.
// Decoders refuse to expand a payload past MaxRawSize.
var zstdDecoderPool = sync.Pool{
	New: func() any {
		dec, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderLowmem(false),
			zstd.WithDecoderMaxMemory(MaxRawSize),
		)
		if err != nil {
			panic(fmt.Sprintf("codec: create zstd decoder: %v", err))
		}
		return dec
	},
}

var zstdEncoderPool = sync.Pool{
	New: func() any {
		enc, err := zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.SpeedDefault),
			zstd.WithEncoderCRC(false),
		)
		if err != nil {
			panic(fmt.Sprintf("codec: create zstd encoder: %v", err))
		}
		return enc
	},
}

var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// compress appends the compressed form of src to dst and reports the
// compression actually used. LZ4 falls back to None for blocks that do not
// shrink.
func compress(c Compression, dst, src []byte) ([]byte, Compression, error) {
	switch c {
	case None:
		return append(dst, src...), None, nil
	case Zstd:
		enc := zstdEncoderPool.Get().(*zstd.Encoder)
		defer zstdEncoderPool.Put(enc)
		return enc.EncodeAll(src, dst), Zstd, nil
	case S2:
		if len(src) == 0 {
			return dst, S2, nil
		}
		return append(dst, s2.Encode(nil, src)...), S2, nil
	case LZ4:
		if len(src) == 0 {
			return dst, LZ4, nil
		}
		buf := make([]byte, lz4.CompressBlockBound(len(src)))
		lc := lz4CompressorPool.Get().(*lz4.Compressor)
		defer lz4CompressorPool.Put(lc)
		n, err := lc.CompressBlock(src, buf)
		if err != nil {
			return nil, LZ4, fmt.Errorf("lz4: %w", err)
		}
		if n == 0 || n >= len(src) {
			return append(dst, src...), None, nil
		}
		return append(dst, buf[:n]...), LZ4, nil
	}
	return nil, c, fmt.Errorf("%w: %s", ErrUnknownCompression, c)
}

// decompress expands src, which must yield exactly rawLen bytes.
func decompress(c Compression, src []byte, rawLen int) ([]byte, error) {
	var (
		out []byte
		err error
	)
	switch c {
	case None:
		out = append([]byte(nil), src...)
	case Zstd:
		if len(src) == 0 && rawLen == 0 {
			return nil, nil
		}
		dec := zstdDecoderPool.Get().(*zstd.Decoder)
		defer zstdDecoderPool.Put(dec)
		out, err = dec.DecodeAll(src, make([]byte, 0, rawLen))
	case S2:
		if len(src) == 0 && rawLen == 0 {
			return nil, nil
		}
		var n int
		if n, err = s2.DecodedLen(src); err == nil {
			if n != rawLen {
				return nil, fmt.Errorf("%w: s2 payload expands to %d bytes, want %d", ErrCorrupt, n, rawLen)
			}
			out, err = s2.Decode(make([]byte, rawLen), src)
		}
	case LZ4:
		if len(src) == 0 && rawLen == 0 {
			return nil, nil
		}
		buf := make([]byte, rawLen)
		var n int
		n, err = lz4.UncompressBlock(src, buf)
		out = buf[:max(n, 0)]
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCompression, c)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s payload: %v", ErrCorrupt, c, err)
	}
	if len(out) != rawLen {
		return nil, fmt.Errorf("%w: %s payload expands to %d bytes, want %d", ErrCorrupt, c, len(out), rawLen)
	}
	return out, nil
}
