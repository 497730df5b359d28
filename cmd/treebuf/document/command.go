// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package document implements the treebuf subcommands that convert,
// inspect, check and seal documents.
//
// Every subcommand reads one input: the file named by its only
// positional argument, or stdin when there is none. With --hex the
// input is hex text (whitespace ignored) rather than raw bytes.
// Commands that consume a treebuf document accept both bare and sealed
// documents; a sealed document is verified against the configured
// envelope domain before it is parsed.
package document

import "github.com/bureau-foundation/treebuf/cmd/treebuf/cli"

// Commands returns the document subcommands in help order.
func Commands() []*cli.Command {
	return []*cli.Command{
		encodeCommand(),
		decodeCommand(),
		treeCommand(),
		validateCommand(),
		sealCommand(),
		unsealCommand(),
	}
}
