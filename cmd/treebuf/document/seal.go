// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/bureau-foundation/treebuf/cmd/treebuf/cli"
	"github.com/bureau-foundation/treebuf/lib/config"
	"github.com/bureau-foundation/treebuf/lib/envelope"
	"github.com/bureau-foundation/treebuf/lib/treebuf"
)

type sealParams struct {
	CommonParams
}

func sealCommand() *cli.Command {
	var params sealParams

	return &cli.Command{
		Name:    "seal",
		Summary: "Wrap a treebuf document in a checksummed envelope",
		Description: `Read a bare treebuf document and write it wrapped in an envelope: a
version header and a BLAKE3 digest keyed by the configured domain.
Readers with the same domain detect any change to the payload.

The input must parse as a treebuf document; sealed input is rejected.`,
		Usage: "treebuf seal [-x] [file]",
		Examples: []cli.Example{
			{
				Description: "Seal a document under a custom domain",
				Command:     "TREEBUF_CONFIG=archive.yaml treebuf seal config.tb > config.sealed",
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
			return sealInput(data, cfg, os.Stdout, logger)
		},
	}
}

func sealInput(data []byte, cfg *config.Config, w io.Writer, logger *slog.Logger) error {
	if envelope.IsSealed(data) {
		return cli.Validation("input is already sealed").WithHint("Run 'treebuf unseal' to recover the document.")
	}
	if _, err := treebuf.Parse(data, cfg.DecodeOptions()...); err != nil {
		return cli.Validation("input is not a treebuf document: %w", err).
			WithHint("Run 'treebuf encode' to produce one from JSON or CBOR.")
	}

	domain, err := cfg.Domain()
	if err != nil {
		return cli.Validation("%w", err)
	}
	logger.Debug("sealing document", "domain", domain.Name(), "digest", domain.Sum(data).String())

	if _, err := w.Write(envelope.Seal(data, domain)); err != nil {
		return cli.Internal("write output: %w", err)
	}
	return nil
}

type unsealParams struct {
	CommonParams
}

func unsealCommand() *cli.Command {
	var params unsealParams

	return &cli.Command{
		Name:    "unseal",
		Summary: "Verify a sealed document and write the bare payload",
		Description: `Read a sealed treebuf document, verify its digest against the
configured domain, and write the payload. Fails without output when the
digest does not match.`,
		Usage: "treebuf unseal [-x] [file]",
		Examples: []cli.Example{
			{
				Description: "Recover the bare document",
				Command:     "treebuf unseal config.sealed > config.tb",
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
			return unsealInput(data, cfg, os.Stdout, logger)
		},
	}
}

func unsealInput(data []byte, cfg *config.Config, w io.Writer, logger *slog.Logger) error {
	if !envelope.IsSealed(data) {
		return cli.Validation("%w", envelope.ErrNotSealed)
	}
	payload, err := openPayload(data, cfg, logger)
	if err != nil {
		return err
	}
	if _, err := w.Write(payload); err != nil {
		return cli.Internal("write output: %w", err)
	}
	return nil
}
