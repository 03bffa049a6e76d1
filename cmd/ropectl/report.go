package main

import (
	"fmt"
	"io"
	"time"

	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/dshills/textrope/internal/engine"
	"github.com/dshills/textrope/internal/engine/codec"
)

// setAll applies path/value pairs to a JSON document in order.
func setAll(doc string, kv ...any) (string, error) {
	var err error
	for i := 0; i+1 < len(kv); i += 2 {
		path, ok := kv[i].(string)
		if !ok {
			return "", fmt.Errorf("report: path %v is not a string", kv[i])
		}
		if doc, err = sjson.Set(doc, path, kv[i+1]); err != nil {
			return "", fmt.Errorf("report: %s: %w", path, err)
		}
	}
	return doc, nil
}

func hexHash(h uint64) string {
	return fmt.Sprintf("%016x", h)
}

// ropeReport adds the metrics of r to doc.
func ropeReport(doc string, r *engine.Rope) (string, error) {
	doc, err := setAll(doc,
		"encoding", r.Encoding().Name(),
		"kind", r.Kind().String(),
		"depth", r.Depth(),
		"flat", r.IsFlat(),
		"bytes", r.ByteLen(),
		"chars", r.CharLen(),
		"code_range", r.CodeRange().String(),
		"single_byte_optimizable", r.IsSingleByteOptimizable(),
		"hash", hexHash(r.Hash()),
	)
	if err != nil {
		return "", err
	}
	if n, gerr := r.GraphemeLen(); gerr == nil {
		return sjson.Set(doc, "graphemes", n)
	}
	return doc, nil
}

// headerReport adds the fields of h under prefix to doc.
func headerReport(doc, prefix string, h codec.Header) (string, error) {
	return setAll(doc,
		prefix+"compression", h.Compression.String(),
		prefix+"code_range", h.CodeRange.String(),
		prefix+"encoding", h.Encoding,
		prefix+"raw_len", h.RawLen,
		prefix+"payload_len", h.PayloadLen,
		prefix+"checksum", hexHash(h.Checksum),
	)
}

func stressReport(r *engine.Rope, pieces, readers int, consistent bool, elapsed time.Duration) (string, error) {
	return setAll("{}",
		"pieces", pieces,
		"readers", readers,
		"depth", r.Depth(),
		"bytes", r.ByteLen(),
		"chars", r.CharLen(),
		"code_range", r.CodeRange().String(),
		"hash", hexHash(r.Hash()),
		"consistent", consistent,
		"elapsed_ms", elapsed.Milliseconds(),
	)
}

func encodingsReport(encs []*engine.Encoding) (string, error) {
	doc := "[]"
	for _, enc := range encs {
		aliases := enc.Aliases()
		if aliases == nil {
			aliases = []string{}
		}
		item, err := setAll("{}",
			"name", enc.Name(),
			"index", enc.Index(),
			"aliases", aliases,
			"ascii_compatible", enc.IsASCIICompatible(),
			"min_char_len", enc.MinCharLen(),
			"max_char_len", enc.MaxCharLen(),
		)
		if err != nil {
			return "", err
		}
		if doc, err = sjson.SetRaw(doc, "-1", item); err != nil {
			return "", err
		}
	}
	return doc, nil
}

// writeJSON writes doc followed by a newline, indented when asked.
func writeJSON(w io.Writer, doc string, indent bool) error {
	out := []byte(doc)
	if indent {
		out = pretty.Pretty(out)
	} else {
		out = append(out, '\n')
	}
	_, err := w.Write(out)
	return err
}
