// SPDX-License-Identifier: MIT

// Package config loads code generation and factor assembly settings from YAML.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

var (
	// ErrConfigNotFound is returned by Load when the file does not exist.
	ErrConfigNotFound = errors.New("config: file is not found")

	// ErrConfigInvalid is returned by Verify for out-of-range settings.
	ErrConfigInvalid = errors.New("config: settings are invalid")
)

// DefaultEpsilon is ten times the float64 machine epsilon.
const DefaultEpsilon = 2.220446049250313e-15

// Config holds the generation settings.
type Config struct {
	// Epsilon is used by generated functions that declare no epsilon input.
	Epsilon float64 `yaml:"epsilon"`

	// CSE enables common subexpression elimination.
	CSE bool `yaml:"cse"`

	// Parallelism bounds the number of factors generated concurrently.
	Parallelism int `yaml:"parallelism"`

	// LogLevel is one of debug, info, warn or error.
	LogLevel string `yaml:"log_level"`

	// DefaultFactorName names residual blocks without a factor name.
	DefaultFactorName string `yaml:"default_factor_name"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Epsilon:           DefaultEpsilon,
		CSE:               true,
		Parallelism:       1,
		LogLevel:          "info",
		DefaultFactorName: "factor",
	}
}

// Verify checks every setting.
//
// # Return
//
// nil if it is valid. Otherwise, ErrConfigInvalid error.
func (c *Config) Verify() error {
	if !(c.Epsilon > 0) {
		return fmt.Errorf("%w: epsilon must be > 0: %g", ErrConfigInvalid, c.Epsilon)
	}
	if c.Parallelism < 1 {
		return fmt.Errorf("%w: parallelism must be >= 1: %d", ErrConfigInvalid, c.Parallelism)
	}
	if _, ok := levels[strings.ToLower(c.LogLevel)]; !ok {
		return fmt.Errorf("%w: unknown log_level: %s", ErrConfigInvalid, c.LogLevel)
	}
	if c.DefaultFactorName == "" {
		return fmt.Errorf("%w: default_factor_name is empty", ErrConfigInvalid)
	}
	return nil
}

var levels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// Level returns the slog level named by LogLevel, or Info if it is unknown.
func (c *Config) Level() slog.Level {
	if l, ok := levels[strings.ToLower(c.LogLevel)]; ok {
		return l
	}
	return slog.LevelInfo
}

// Load reads settings from a YAML file.
func Load(path string) (*Config, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", ErrConfigNotFound, path)
		}
		return nil, err
	}
	return Parse(buf)
}

// Parse reads settings from YAML in a byte array. Keys that are absent keep
// their default values. The result is verified.
func Parse(buf []byte) (*Config, error) {
	ret := Default()
	if err := yaml.Unmarshal(buf, ret); err != nil {
		return nil, err
	}
	if err := ret.Verify(); err != nil {
		return nil, err
	}
	return ret, nil
}
