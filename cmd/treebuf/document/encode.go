// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/bureau-foundation/treebuf/cmd/treebuf/cli"
	"github.com/bureau-foundation/treebuf/lib/codec"
	"github.com/bureau-foundation/treebuf/lib/config"
	"github.com/bureau-foundation/treebuf/lib/envelope"
	"github.com/bureau-foundation/treebuf/lib/treebuf"
)

type encodeParams struct {
	CommonParams
	From string `flag:"from,f" desc:"input format: json or cbor" default:"json"`
	Seal bool   `flag:"seal"   desc:"wrap the output in a checksummed envelope (also envelope.seal in config)"`
}

func encodeCommand() *cli.Command {
	var params encodeParams

	return &cli.Command{
		Name:    "encode",
		Summary: "Encode JSON or CBOR as a treebuf document",
		Description: `Read one JSON or CBOR value and write it as a treebuf document on
stdout.

JSON input may contain comments and trailing commas. Numbers without a
fraction or exponent become integers; other numbers become float64.
Arrays are stored column-wise, so their elements must share a kind:
integers and floats may mix, null elements are allowed, and objects
may have different keys.

With --seal, the document is wrapped in a checksummed envelope keyed
by the configured domain.`,
		Usage: "treebuf encode [--from json|cbor] [--seal] [-x] [file]",
		Examples: []cli.Example{
			{
				Description: "Encode a JSON file",
				Command:     "treebuf encode config.json > config.tb",
			},
			{
				Description: "Re-encode a CBOR message and seal it",
				Command:     "treebuf encode --from cbor --seal message.cbor > message.tb",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			cfg, err := loadConfig(params.Config)
			if err != nil {
				return err
			}
			data, err := readInput(args, params.Hex)
			if err != nil {
				return err
			}
			return encodeInput(data, params, cfg, os.Stdout, logger)
		},
	}
}

func encodeInput(data []byte, params encodeParams, cfg *config.Config, w io.Writer, logger *slog.Logger) error {
	encoded, err := encodeDocument(data, params.From)
	if err != nil {
		return err
	}
	logger.Debug("encoded document",
		"from", params.From,
		"input_bytes", len(data),
		"output_bytes", len(encoded),
	)

	if params.Seal || cfg.Envelope.Seal {
		domain, err := cfg.Domain()
		if err != nil {
			return cli.Validation("%w", err)
		}
		encoded = envelope.Seal(encoded, domain)
		logger.Debug("sealed document", "domain", domain.Name())
	}

	if _, err := w.Write(encoded); err != nil {
		return cli.Internal("write output: %w", err)
	}
	return nil
}

// encodeDocument converts one JSON or CBOR value to a treebuf document.
func encodeDocument(data []byte, from string) ([]byte, error) {
	var value any
	var err error
	switch from {
	case "json":
		value, err = codec.DecodeJSON(data)
	case "cbor":
		value, err = codec.DecodeCBOR(data)
	default:
		return nil, cli.Validation("--from must be json or cbor, got %q", from)
	}
	if err != nil {
		return nil, cli.Validation("%w", err)
	}

	encoded, err := treebuf.EncodeValue(value)
	if errors.Is(err, treebuf.ErrUnsupportedType) {
		return nil, cli.Validation("%w", err).WithHint(
			"Array elements must share a kind. Integers and floats may mix, and null is allowed anywhere.")
	}
	if err != nil {
		return nil, cli.Internal("encode: %w", err)
	}
	return encoded, nil
}
