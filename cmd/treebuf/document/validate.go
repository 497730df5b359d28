// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/bureau-foundation/treebuf/cmd/treebuf/cli"
	"github.com/bureau-foundation/treebuf/lib/config"
	"github.com/bureau-foundation/treebuf/lib/treebuf"
)

type validateParams struct {
	CommonParams
}

func validateCommand() *cli.Command {
	var params validateParams

	return &cli.Command{
		Name:    "validate",
		Summary: "Check that a treebuf document is well formed and canonical",
		Description: `Read a treebuf document and verify that it parses within the configured
limits and uses the canonical encoding. Exits 0 with "valid" if so,
exits 1 with the first differing byte if the document parses but is
not canonical, and exits 2 if it does not parse.

Canonical form is checked by writing the parsed branch tree back out
and comparing bytes. This catches non-minimal varints and lengths, an
explicit object arity where an inline tag fits, and repeated field
names. Sealed documents are verified first and the payload is checked.`,
		Usage: "treebuf validate [-x] [file]",
		Examples: []cli.Example{
			{
				Description: "Validate the output of encode",
				Command:     "echo '{\"count\":42}' | treebuf encode | treebuf validate",
			},
			{
				Description: "Validate hex bytes",
				Command:     "echo '0c 01 61 04' | treebuf validate --hex",
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
			return validateInput(data, cfg, os.Stdout, logger)
		},
	}
}

func validateInput(data []byte, cfg *config.Config, w io.Writer, logger *slog.Logger) error {
	branch, payload, err := parseInput(data, cfg, logger)
	if err != nil {
		return err
	}

	reencoded := treebuf.EncodeBranch(branch)
	if bytes.Equal(payload, reencoded) {
		fmt.Fprintln(w, "valid")
		return nil
	}

	fmt.Fprintln(w, describeMismatch(payload, reencoded))
	return &cli.ExitError{Code: 1}
}

func describeMismatch(original, reencoded []byte) string {
	offset := 0
	minLength := min(len(original), len(reencoded))
	for offset < minLength && original[offset] == reencoded[offset] {
		offset++
	}

	return fmt.Sprintf("not canonical: first difference at byte %d (original %d bytes, re-encoded %d bytes)",
		offset, len(original), len(reencoded))
}
