package rope

import "fmt"

// Tuning defaults.
const (
	// DefaultMaxDepth bounds the depth of any rope built by a Factory.
	DefaultMaxDepth = 32

	// DefaultSubstringCopyThreshold is the leaf size up to which substrings
	// are copied into a new leaf instead of referencing the parent.
	DefaultSubstringCopyThreshold = 64
)

// Config controls the structural policy of a Factory.
type Config struct {
	// MaxDepth is the largest depth a new node may have. Operations that
	// would exceed it flatten their operands into a leaf first.
	MaxDepth int

	// SubstringCopyThreshold is the largest leaf that is copied when sliced.
	// Zero disables copying.
	SubstringCopyThreshold int

	// Validate re-classifies caller supplied code ranges and rejects
	// mismatches. It defaults to true in builds with the ropedebug tag.
	Validate bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		MaxDepth:               DefaultMaxDepth,
		SubstringCopyThreshold: DefaultSubstringCopyThreshold,
		Validate:               validateByDefault,
	}
}

// Check reports whether the configuration is usable.
func (c Config) Check() error {
	if c.MaxDepth < 2 {
		return fmt.Errorf("%w: max depth %d is below 2", ErrInvalidArgument, c.MaxDepth)
	}
	if c.SubstringCopyThreshold < 0 {
		return fmt.Errorf("%w: negative substring copy threshold %d", ErrInvalidArgument, c.SubstringCopyThreshold)
	}
	return nil
}
