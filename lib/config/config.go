// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/treebuf/lib/envelope"
	"github.com/bureau-foundation/treebuf/lib/treebuf"
)

// EnvironmentVariable names the config file when --config is absent.
const EnvironmentVariable = "TREEBUF_CONFIG"

// ColorMode controls terminal styling of command output.
type ColorMode string

const (
	// ColorAuto styles output only when stdout is a terminal.
	ColorAuto ColorMode = "auto"
	// ColorAlways styles output unconditionally.
	ColorAlways ColorMode = "always"
	// ColorNever disables styling.
	ColorNever ColorMode = "never"
)

// Config is the configuration for the treebuf tools.
type Config struct {
	// Decode bounds the resources one decode may use.
	Decode DecodeConfig `yaml:"decode"`

	// Output sets rendering defaults for decode and tree.
	Output OutputConfig `yaml:"output"`

	// Envelope configures checksummed envelopes.
	Envelope EnvelopeConfig `yaml:"envelope"`
}

// DecodeConfig mirrors treebuf.DecodeOptions.
type DecodeConfig struct {
	// MaxDepth is the deepest permitted branch nesting.
	// Default: 64
	MaxDepth int `yaml:"max_depth"`

	// MaxElements is the row budget for one document.
	// Default: 16777216
	MaxElements int `yaml:"max_elements"`
}

// OutputConfig sets rendering defaults. Command-line flags take
// precedence.
type OutputConfig struct {
	// Compact writes JSON on one line.
	Compact bool `yaml:"compact"`

	// Color is one of auto, always, never.
	// Default: auto
	Color ColorMode `yaml:"color"`
}

// EnvelopeConfig configures sealing.
type EnvelopeConfig struct {
	// Domain keys the envelope digest.
	// Default: treebuf.document
	Domain string `yaml:"domain"`

	// Seal makes encode wrap its output by default.
	Seal bool `yaml:"seal"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Decode: DecodeConfig{
			MaxDepth:    treebuf.DefaultMaxDepth,
			MaxElements: treebuf.DefaultMaxElements,
		},
		Output: OutputConfig{
			Color: ColorAuto,
		},
		Envelope: EnvelopeConfig{
			Domain: envelope.DefaultDomainName,
		},
	}
}

// Resolve loads the file named by flagPath, or by TREEBUF_CONFIG when
// flagPath is empty. With neither set it returns Default. The result
// is validated.
func Resolve(flagPath string) (*Config, error) {
	path := flagPath
	if path == "" {
		path = os.Getenv(EnvironmentVariable)
	}
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile loads and validates configuration from path. Values the
// file does not set keep their defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := cfg.parse(data, filepath.Ext(path)); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// parse merges data into c. JSON is a subset of YAML, so JSONC files go
// through the same YAML decoder once comments are stripped.
func (c *Config) parse(data []byte, extension string) error {
	switch strings.ToLower(extension) {
	case ".json", ".jsonc":
		data = jsonc.ToJSON(data)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Decode.MaxDepth <= 0 {
		errs = append(errs, fmt.Errorf("decode.max_depth must be positive, got %d", c.Decode.MaxDepth))
	}
	if c.Decode.MaxElements <= 0 {
		errs = append(errs, fmt.Errorf("decode.max_elements must be positive, got %d", c.Decode.MaxElements))
	}

	switch c.Output.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		errs = append(errs, fmt.Errorf("output.color must be one of: auto, always, never; got %q", c.Output.Color))
	}

	if _, err := envelope.NewDomain(c.Envelope.Domain); err != nil {
		errs = append(errs, fmt.Errorf("envelope.domain: %w", err))
	}

	return errors.Join(errs...)
}

// DecodeOptions returns the decode limits as treebuf options.
func (c *Config) DecodeOptions() []treebuf.DecodeOption {
	return []treebuf.DecodeOption{
		treebuf.WithMaxDepth(c.Decode.MaxDepth),
		treebuf.WithMaxElements(c.Decode.MaxElements),
	}
}

// Domain returns the envelope domain. The name was checked by
// Validate; an invalid name set after loading fails here.
func (c *Config) Domain() (envelope.Domain, error) {
	return envelope.NewDomain(c.Envelope.Domain)
}
