// Package config loads simulator settings from a TOML file.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds settings that govern a single run of the simulator.
type Config struct {
	Execution struct {
		Trace           bool   `toml:"trace"`
		MemSize         uint32 `toml:"mem_size"`
		MaxInstructions uint64 `toml:"max_instructions"`
	} `toml:"execution"`

	IO struct {
		LineBuffered bool `toml:"line_buffered"`
	} `toml:"io"`
}

// DefaultConfig returns a Config with the simulator's built-in defaults.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Execution.Trace = false
	cfg.Execution.MemSize = 4 * 1024 * 1024
	cfg.Execution.MaxInstructions = 0
	cfg.IO.LineBuffered = true
	return cfg
}

// Load reads path and overlays it onto the default configuration. A
// missing file is not an error; it yields the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return cfg, nil
}
