// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the complete treebuf CLI command tree.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bureau-foundation/treebuf/cmd/treebuf/cli"
	"github.com/bureau-foundation/treebuf/cmd/treebuf/document"
	"github.com/bureau-foundation/treebuf/lib/envelope"
	"github.com/bureau-foundation/treebuf/lib/version"
)

// Root builds and returns the complete treebuf CLI command tree.
func Root() *cli.Command {
	subcommands := document.Commands()
	subcommands = append(subcommands, &cli.Command{
		Name:    "version",
		Summary: "Print version information",
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			fmt.Printf("treebuf %s\n", version.Full(int(envelope.Version)))
			return nil
		},
	})

	return &cli.Command{
		Name: "treebuf",
		Description: `treebuf: a schema-flexible columnar binary format.

Convert JSON and CBOR to treebuf documents and back, inspect their
structure without the writer's types, check canonical encoding, and
protect documents with a checksummed envelope.`,
		Subcommands: subcommands,
		Examples: []cli.Example{
			{
				Description: "Encode JSON and look at the resulting layout",
				Command:     "treebuf encode data.json | treebuf tree",
			},
			{
				Description: "Decode a sealed document to compact JSON",
				Command:     "treebuf decode -c data.sealed",
			},
			{
				Description: "Check a document written by another encoder",
				Command:     "treebuf validate data.tb",
			},
		},
	}
}
