// Package config handles objtool configuration loading and management.
package config

import "github.com/Faultbox/xpobj/pkg/encoding"

// Config holds all objtool settings.
type Config struct {
	Parse   ParseConfig   `yaml:"parse" toml:"parse"`
	Output  OutputConfig  `yaml:"output" toml:"output"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
}

// ParseConfig holds parser options.
type ParseConfig struct {
	Encoding string `yaml:"encoding" toml:"encoding"` // Input charset: utf-8, latin1, windows-1252
	Strict   bool   `yaml:"strict" toml:"strict"`     // Integrity mismatches become errors
	Workers  int    `yaml:"workers" toml:"workers"`   // Files parsed concurrently by check
}

// OutputConfig holds presentation settings.
type OutputConfig struct {
	Format        string `yaml:"format" toml:"format"` // yaml or json
	Color         bool   `yaml:"color" toml:"color"`
	ShowKeyFrames bool   `yaml:"show_keyframes" toml:"show_keyframes"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	LogFile string `yaml:"log_file" toml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Parse: ParseConfig{
			Encoding: encoding.Default,
			Strict:   false,
			Workers:  4,
		},
		Output: OutputConfig{
			Format:        "yaml",
			Color:         true,
			ShowKeyFrames: true,
		},
		Logging: LoggingConfig{
			Level:   "warn",
			LogFile: "",
		},
	}
}
