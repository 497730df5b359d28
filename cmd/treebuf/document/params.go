// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"os"

	"golang.org/x/term"

	"github.com/bureau-foundation/treebuf/cmd/treebuf/cli"
	"github.com/bureau-foundation/treebuf/lib/config"
)

// CommonParams holds the flags every document subcommand accepts.
type CommonParams struct {
	Config  string `flag:"config"    desc:"configuration file (default $TREEBUF_CONFIG)"`
	Verbose bool   `flag:"verbose,v" desc:"log debug details to stderr"`
	Hex     bool   `flag:"hex,x"     desc:"treat input as hex text"`
}

// loadConfig resolves the configuration for a command invocation.
// A broken config file is the caller's input error.
func loadConfig(flagPath string) (*config.Config, error) {
	cfg, err := config.Resolve(flagPath)
	if err != nil {
		return nil, cli.Validation("%w", err)
	}
	return cfg, nil
}

// useColor decides whether output is styled. A non-empty flag value
// overrides the configured mode; auto follows isTerminal.
func useColor(flagValue string, cfg *config.Config, isTerminal bool) (bool, error) {
	mode := cfg.Output.Color
	if flagValue != "" {
		mode = config.ColorMode(flagValue)
	}
	switch mode {
	case config.ColorAlways:
		return true, nil
	case config.ColorNever:
		return false, nil
	case config.ColorAuto:
		return isTerminal, nil
	default:
		return false, cli.Validation("--color must be one of: auto, always, never; got %q", flagValue)
	}
}

func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
