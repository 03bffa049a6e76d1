package config

import (
	"errors"

	"github.com/dshills/textrope/internal/config/loader"
)

// ErrInvalidConfig indicates a setting with an unusable value.
var ErrInvalidConfig = errors.New("invalid configuration")

// ParseError represents an error while parsing a configuration file.
type ParseError = loader.ParseError
