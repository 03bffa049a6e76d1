package engine

import "github.com/dshills/textrope/internal/engine/rope"

// Errors returned by engine operations.
var (
	// ErrInvalidArgument indicates a negative count or length, or a nil rope.
	ErrInvalidArgument = rope.ErrInvalidArgument

	// ErrIndexOutOfRange indicates an offset outside the rope.
	ErrIndexOutOfRange = rope.ErrIndexOutOfRange

	// ErrInvalidEncoding indicates an unknown or unregistered encoding.
	ErrInvalidEncoding = rope.ErrInvalidEncoding

	// ErrEncoding indicates character level access to malformed content.
	ErrEncoding = rope.ErrEncoding

	// ErrCodeRangeMismatch indicates a supplied code range that does not
	// describe the content.
	ErrCodeRangeMismatch = rope.ErrCodeRangeMismatch
)
