package engine

import (
	"github.com/dshills/textrope/internal/engine/encoding"
	"github.com/dshills/textrope/internal/engine/rope"
)

// Default configuration values.
const (
	DefaultMaxDepth               = rope.DefaultMaxDepth
	DefaultSubstringCopyThreshold = rope.DefaultSubstringCopyThreshold
)

// Option configures an Engine during creation.
type Option func(*Engine)

// WithConfig replaces the whole rope configuration. It is checked by New.
func WithConfig(cfg rope.Config) Option {
	return func(e *Engine) {
		e.cfg = cfg
	}
}

// WithMaxDepth sets the depth at which operands are flattened.
func WithMaxDepth(depth int) Option {
	return func(e *Engine) {
		if depth > 0 {
			e.cfg.MaxDepth = depth
		}
	}
}

// WithSubstringCopyThreshold sets the largest leaf copied when sliced.
func WithSubstringCopyThreshold(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.cfg.SubstringCopyThreshold = n
		}
	}
}

// WithValidation enables or disables checking of caller supplied code ranges.
func WithValidation(on bool) Option {
	return func(e *Engine) {
		e.cfg.Validate = on
	}
}

// WithRegistry sets the registry encodings are resolved from.
func WithRegistry(r *encoding.Registry) Option {
	return func(e *Engine) {
		if r != nil {
			e.registry = r
		}
	}
}
