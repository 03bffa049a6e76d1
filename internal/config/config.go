package config

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/textrope/internal/config/loader"
	"github.com/dshills/textrope/internal/engine/codec"
	"github.com/dshills/textrope/internal/engine/rope"
)

// Config is the complete textrope configuration.
type Config struct {
	Rope    RopeConfig    `toml:"rope"`
	Logging LoggingConfig `toml:"logging"`
	Codec   CodecConfig   `toml:"codec"`
}

// RopeConfig holds the structural policy of rope factories.
type RopeConfig struct {
	// MaxDepth is the depth at which operands are flattened.
	MaxDepth int `toml:"max_depth"`
	// SubstringCopyThreshold is the largest leaf copied when sliced.
	SubstringCopyThreshold int `toml:"substring_copy_threshold"`
	// Validate re-classifies caller supplied code ranges.
	Validate bool `toml:"validate"`
}

// LoggingConfig holds tracing settings.
type LoggingConfig struct {
	// Level is one of "debug", "info" or "error".
	Level string `toml:"level"`
}

// CodecConfig holds persistence settings.
type CodecConfig struct {
	// Compression names the payload compression of written frames.
	Compression string `toml:"compression"`
}

// Default returns the built-in configuration.
func Default() *Config {
	rc := rope.DefaultConfig()
	return &Config{
		Rope: RopeConfig{
			MaxDepth:               rc.MaxDepth,
			SubstringCopyThreshold: rc.SubstringCopyThreshold,
			Validate:               rc.Validate,
		},
		Logging: LoggingConfig{Level: "info"},
		Codec:   CodecConfig{Compression: codec.None.String()},
	}
}

// Load builds the configuration from the defaults, the TOML file at path
// and the TEXTROPE_ environment. An empty or missing path is skipped.
func Load(path string) (*Config, error) {
	return LoadFrom(loader.NewTOMLLoader(path), loader.NewEnvLoader(loader.DefaultEnvPrefix))
}

// LoadFrom builds the configuration from the defaults and the given
// loaders. Later loaders override earlier ones.
func LoadFrom(loaders ...loader.Loader) (*Config, error) {
	base, err := Default().toMap()
	if err != nil {
		return nil, err
	}
	layers, err := loader.Chain(loaders...)
	if err != nil {
		return nil, err
	}
	merged := loader.DeepMerge(base, layers)

	cfg, err := fromMap(merged)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) toMap() (map[string]any, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding defaults: %w", err)
	}
	var m map[string]any
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding defaults: %w", err)
	}
	return m, nil
}

func fromMap(m map[string]any) (*Config, error) {
	data, err := toml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	cfg := &Config{}
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return cfg, nil
}

// Validate reports the first unusable setting.
func (c *Config) Validate() error {
	if err := c.RopeConfig().Check(); err != nil {
		return fmt.Errorf("%w: rope: %v", ErrInvalidConfig, err)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "error":
	default:
		return fmt.Errorf("%w: logging.level %q", ErrInvalidConfig, c.Logging.Level)
	}
	if _, err := codec.ParseCompression(c.Codec.Compression); err != nil {
		return fmt.Errorf("%w: codec.compression: %v", ErrInvalidConfig, err)
	}
	return nil
}

// RopeConfig converts the rope section into a factory configuration.
func (c *Config) RopeConfig() rope.Config {
	return rope.Config{
		MaxDepth:               c.Rope.MaxDepth,
		SubstringCopyThreshold: c.Rope.SubstringCopyThreshold,
		Validate:               c.Rope.Validate,
	}
}

// Compression returns the configured frame compression.
func (c *Config) Compression() codec.Compression {
	comp, _ := codec.ParseCompression(c.Codec.Compression)
	return comp
}
