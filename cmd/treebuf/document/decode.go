// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/chroma/v2/quick"

	"github.com/bureau-foundation/treebuf/cmd/treebuf/cli"
	"github.com/bureau-foundation/treebuf/lib/codec"
	"github.com/bureau-foundation/treebuf/lib/config"
	"github.com/bureau-foundation/treebuf/lib/treebuf"
)

type decodeParams struct {
	CommonParams
	To      string `flag:"to,t"      desc:"output format: json, cbor or diag" default:"json"`
	Compact bool   `flag:"compact,c" desc:"compact JSON output (no indentation)"`
	Color   string `flag:"color"     desc:"highlight JSON output: auto, always or never (default from config)"`
}

func decodeCommand() *cli.Command {
	var params decodeParams

	return &cli.Command{
		Name:    "decode",
		Summary: "Decode a treebuf document to JSON or CBOR",
		Description: `Read a treebuf document and write its value as JSON (default), CBOR,
or CBOR diagnostic notation. No schema is needed: the document is
decoded from its own tags.

Sealed documents are verified before decoding. JSON output is
syntax-highlighted when stdout is a terminal; byte strings appear as
base64, and enum values as single-key objects naming the variant.`,
		Usage: "treebuf decode [--to json|cbor|diag] [-c] [-x] [file]",
		Examples: []cli.Example{
			{
				Description: "Pretty-print a document",
				Command:     "treebuf decode config.tb",
			},
			{
				Description: "Convert to CBOR",
				Command:     "treebuf decode --to cbor config.tb > config.cbor",
			},
			{
				Description: "Inspect hex bytes copied from a log",
				Command:     "echo '0c 01 61 04' | treebuf decode --hex -c",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			cfg, err := loadConfig(params.Config)
			if err != nil {
				return err
			}
			color, err := useColor(params.Color, cfg, stdoutIsTerminal())
			if err != nil {
				return err
			}
			data, err := readInput(args, params.Hex)
			if err != nil {
				return err
			}
			return decodeInput(data, params, cfg, color, os.Stdout, logger)
		},
	}
}

func decodeInput(data []byte, params decodeParams, cfg *config.Config, color bool, w io.Writer, logger *slog.Logger) error {
	switch params.To {
	case "json", "cbor", "diag":
	default:
		return cli.Validation("--to must be json, cbor or diag, got %q", params.To)
	}

	branch, payload, err := parseInput(data, cfg, logger)
	if err != nil {
		return err
	}
	value, err := treebuf.ToValue(branch, cfg.DecodeOptions()...)
	if err != nil {
		return cli.Validation("input is not a treebuf document: %w", err)
	}
	logger.Debug("decoded document", "to", params.To, "payload_bytes", len(payload))

	switch params.To {
	case "cbor":
		encoded, err := codec.EncodeCBOR(value)
		if err != nil {
			return cli.Internal("%w", err)
		}
		if _, err := w.Write(encoded); err != nil {
			return cli.Internal("write output: %w", err)
		}
		return nil
	case "diag":
		encoded, err := codec.EncodeCBOR(value)
		if err != nil {
			return cli.Internal("%w", err)
		}
		notation, err := codec.Diagnose(encoded)
		if err != nil {
			return cli.Internal("diagnose: %w", err)
		}
		_, err = fmt.Fprintln(w, notation)
		return err
	default:
		return writeJSON(w, value, params.Compact || cfg.Output.Compact, color)
	}
}

// writeJSON renders value as JSON followed by a newline. With color,
// the text goes through a terminal highlighter; a highlighter failure
// falls back to plain output.
func writeJSON(w io.Writer, value any, compact, color bool) error {
	data, err := codec.EncodeJSON(value, compact)
	if err != nil {
		return cli.Validation("%w", err).WithHint("JSON cannot hold NaN or infinite floats; use --to cbor.")
	}
	text := string(data) + "\n"

	if color {
		if err := quick.Highlight(w, text, "json", "terminal256", "monokai"); err == nil {
			return nil
		}
	}
	_, err = io.WriteString(w, text)
	return err
}
