package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"

	"github.com/dshills/textrope/internal/engine/coderange"
	"github.com/dshills/textrope/internal/engine/rope"
)

// Magic starts every frame.
const Magic = "TRP1"

// MaxRawSize bounds the content length a frame may declare.
const MaxRawSize = 1 << 30

// Errors returned while decoding frames.
var (
	// ErrCorrupt indicates a truncated or malformed frame.
	ErrCorrupt = errors.New("corrupt frame")

	// ErrChecksum indicates content that does not match the frame checksum.
	ErrChecksum = errors.New("frame checksum mismatch")

	// ErrUnknownCompression indicates an unsupported compression id or name.
	ErrUnknownCompression = errors.New("unknown compression")
)

// Header describes a frame without its payload.
type Header struct {
	Compression Compression
	CodeRange   coderange.CodeRange
	Encoding    string
	RawLen      int
	Checksum    uint64
	PayloadLen  int
}

// Encode returns the frame of r under compression c.
func Encode(r *rope.Rope, c Compression) ([]byte, error) {
	return appendFrame(nil, r, c)
}

// EncodeTo writes the frame of r under compression c to w.
func EncodeTo(w io.Writer, r *rope.Rope, c Compression) (int, error) {
	fb := getFrameBuffer(headerBound(r) + r.ByteLen())
	defer putFrameBuffer(fb)

	var err error
	if fb.buf, err = appendFrame(fb.buf, r, c); err != nil {
		return 0, err
	}
	return w.Write(fb.buf)
}

func headerBound(r *rope.Rope) int {
	return len(Magic) + 2 + 2*binary.MaxVarintLen64 + len(r.Encoding().Name()) + 8
}

func appendFrame(dst []byte, r *rope.Rope, c Compression) ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCompression, c)
	}
	raw := r.Bytes()
	payload, used, err := compress(c, nil, raw)
	if err != nil {
		return nil, err
	}
	name := r.Encoding().Name()
	cr := r.CodeRange()
	if cr == coderange.Broken {
		// characters split across children may rejoin once flattened
		cr, _ = coderange.Classify(raw, r.Encoding())
	}

	dst = append(dst, Magic...)
	dst = append(dst, byte(used), byte(cr))
	dst = binary.AppendUvarint(dst, uint64(len(name)))
	dst = append(dst, name...)
	dst = binary.AppendUvarint(dst, uint64(len(raw)))
	dst = binary.LittleEndian.AppendUint64(dst, xxhash.Sum64(raw))
	dst = append(dst, payload...)

	tracer().Debugf("codec: encoded %d %s bytes as %s, payload %d", len(raw), name, used, len(payload))
	return dst, nil
}

// Inspect parses the header of a frame. It does not touch the payload.
func Inspect(data []byte) (Header, error) {
	h, _, err := parseHeader(data)
	return h, err
}

func parseHeader(data []byte) (Header, []byte, error) {
	var h Header
	if len(data) < len(Magic)+2 || string(data[:len(Magic)]) != Magic {
		return h, nil, fmt.Errorf("%w: bad magic", ErrCorrupt)
	}
	p := data[len(Magic):]
	h.Compression = Compression(p[0])
	if !h.Compression.Valid() {
		return h, nil, fmt.Errorf("%w: id %d", ErrUnknownCompression, p[0])
	}
	h.CodeRange = coderange.CodeRange(p[1])
	if !h.CodeRange.IsKnown() {
		return h, nil, fmt.Errorf("%w: code range %d", ErrCorrupt, p[1])
	}
	p = p[2:]

	nameLen, n := binary.Uvarint(p)
	if n <= 0 || nameLen > uint64(len(p)-n) {
		return h, nil, fmt.Errorf("%w: encoding name", ErrCorrupt)
	}
	p = p[n:]
	h.Encoding = string(p[:nameLen])
	p = p[nameLen:]

	rawLen, n := binary.Uvarint(p)
	if n <= 0 || rawLen > MaxRawSize {
		return h, nil, fmt.Errorf("%w: content length", ErrCorrupt)
	}
	h.RawLen = int(rawLen)
	p = p[n:]

	if len(p) < 8 {
		return h, nil, fmt.Errorf("%w: checksum", ErrCorrupt)
	}
	h.Checksum = binary.LittleEndian.Uint64(p)
	p = p[8:]
	h.PayloadLen = len(p)
	return h, p, nil
}

// Decode restores the rope of a frame with factory f. The encoding is
// resolved in the factory's registry. The content is classified and must
// match the recorded code range, which the checksum does not cover.
func Decode(f *rope.Factory, data []byte) (*rope.Rope, error) {
	h, payload, err := parseHeader(data)
	if err != nil {
		return nil, err
	}
	enc, err := f.Registry().Lookup(h.Encoding)
	if err != nil {
		return nil, err
	}
	raw, err := decompress(h.Compression, payload, h.RawLen)
	if err != nil {
		return nil, err
	}
	if sum := xxhash.Sum64(raw); sum != h.Checksum {
		return nil, fmt.Errorf("%w: got %016x, want %016x", ErrChecksum, sum, h.Checksum)
	}
	if cr, _ := coderange.Classify(raw, enc); cr != h.CodeRange {
		return nil, fmt.Errorf("%w: %s content recorded as %s is %s", ErrCorrupt, enc, h.CodeRange, cr)
	}
	tracer().Debugf("codec: decoded %d %s bytes from %s", h.RawLen, h.Encoding, h.Compression)
	return f.FromBytesWithCodeRange(raw, enc, h.CodeRange)
}

// DecodeFrom reads a single frame from rd until EOF and decodes it.
func DecodeFrom(f *rope.Factory, rd io.Reader) (*rope.Rope, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(rd); err != nil {
		return nil, err
	}
	return Decode(f, buf.Bytes())
}
