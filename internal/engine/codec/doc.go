/*
Package codec persists ropes as self-describing frames.

A frame holds the flattened content of a rope together with the name of its
encoding and its code range, so that decoding restores an equivalent leaf
without classifying the content again.

# Frame layout

	offset  size      field
	0       4         magic "TRP1"
	4       1         compression id
	5       1         code range
	6       uvarint   length of the encoding name
	.       n         encoding name
	.       uvarint   length of the raw content
	.       8         xxHash64 of the raw content, little endian
	.       rest      payload, the content after compression

The compression ids are None (0), Zstd (1), S2 (2) and LZ4 (3). Zstd and S2
come from github.com/klauspost/compress, LZ4 from github.com/pierrec/lz4/v4.

Decoding verifies the checksum after decompression and rejects frames whose
payload does not expand to the recorded length.
*/
package codec

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'textrope.codec'
func tracer() tracing.Trace {
	return tracing.Select("textrope.codec")
}
