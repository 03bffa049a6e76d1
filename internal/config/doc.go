// Package config provides the configuration of textrope tools.
//
// Configuration is organized in layers with higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← TEXTROPE_*, highest priority
//	├─────────────────────────────┤
//	│  2. Configuration File      │  ← textrope.toml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// # Configuration Files
//
//	[rope]
//	max_depth = 32
//	substring_copy_threshold = 64
//	validate = false
//
//	[logging]
//	level = "info"
//
//	[codec]
//	compression = "zstd"
//
// Every setting can be overridden from the environment, for example
// TEXTROPE_ROPE_MAX_DEPTH=16 or TEXTROPE_LOG_LEVEL=debug.
//
// # Basic Usage
//
//	cfg, err := config.Load("textrope.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	f, err := rope.NewFactory(cfg.RopeConfig(), nil)
package config
