package rope

import (
	"errors"
	"fmt"

	"github.com/dshills/textrope/internal/engine/encoding"
)

// Errors returned by rope construction and character indexing.
var (
	// ErrInvalidArgument is returned for negative counts and lengths or
	// results whose byte length would overflow.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrIndexOutOfRange is returned when an offset or length lies outside
	// the rope.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrInvalidEncoding is returned for a nil or unregistered encoding.
	ErrInvalidEncoding = encoding.ErrInvalidEncoding

	// ErrEncoding is returned when character level indexing meets a
	// malformed sequence.
	ErrEncoding = errors.New("encoding error")

	// ErrCodeRangeMismatch is returned in validation mode when a caller
	// supplied code range differs from the computed one.
	ErrCodeRangeMismatch = fmt.Errorf("%w: code range mismatch", ErrInvalidArgument)
)
