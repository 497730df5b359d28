// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"strings"
	"testing"

	"github.com/bureau-foundation/treebuf/cmd/treebuf/cli"
	"github.com/bureau-foundation/treebuf/cmd/treebuf/commands"
)

// TestCommandTreeDocumented walks the production command tree and
// checks that every command taking flags documents itself and binds
// its params cleanly. A params field with an unsupported type panics
// in FlagsFromParams, which this surfaces at test time instead of on
// the first invocation.
func TestCommandTreeDocumented(t *testing.T) {
	walkCommands(commands.Root(), nil, func(command *cli.Command, path []string) {
		name := strings.Join(path, " ")
		if command.Params == nil {
			return
		}
		if command.Usage == "" {
			t.Errorf("%s: command with flags has no Usage", name)
		}
		if len(command.Examples) == 0 {
			t.Errorf("%s: command with flags has no Examples", name)
		}
		flagSet := cli.FlagsFromParams(command.Name, command.Params())
		for _, common := range []string{"config", "verbose", "hex"} {
			if flagSet.Lookup(common) == nil {
				t.Errorf("%s: missing --%s", name, common)
			}
		}
	})
}

// walkCommands recursively visits every command in the tree,
// calling visit for each node with the accumulated command path.
func walkCommands(command *cli.Command, path []string, visit func(*cli.Command, []string)) {
	current := make([]string, len(path)+1)
	copy(current, path)
	current[len(path)] = command.Name
	visit(command, current)
	for _, sub := range command.Subcommands {
		walkCommands(sub, current, visit)
	}
}
