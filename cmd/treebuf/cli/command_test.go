// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestCommand_Execute_DispatchesToSubcommand(t *testing.T) {
	var called string

	root := &Command{
		Name: "treebuf",
		Subcommands: []*Command{
			{
				Name: "encode",
				Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
					called = "encode"
					return nil
				},
			},
			{
				Name: "decode",
				Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
					called = "decode"
					return nil
				},
			},
		},
	}

	if err := root.Execute(context.Background(), []string{"decode"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "decode" {
		t.Errorf("dispatched to %q, want %q", called, "decode")
	}
}

func TestCommand_Execute_NestedSubcommands(t *testing.T) {
	var receivedArgs []string
	var path string

	leaf := &Command{
		Name: "check",
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			receivedArgs = args
			return nil
		},
	}
	root := &Command{
		Name: "treebuf",
		Subcommands: []*Command{
			{Name: "envelope", Subcommands: []*Command{leaf}},
		},
	}

	if err := root.Execute(context.Background(), []string{"envelope", "check", "doc.tb"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if len(receivedArgs) != 1 || receivedArgs[0] != "doc.tb" {
		t.Errorf("args = %v, want [doc.tb]", receivedArgs)
	}
	path = leaf.commandPath()
	if path != "envelope/check" {
		t.Errorf("commandPath() = %q, want envelope/check", path)
	}
	if leaf.fullName() != "treebuf envelope check" {
		t.Errorf("fullName() = %q, want %q", leaf.fullName(), "treebuf envelope check")
	}
}

type executeParams struct {
	Output  string `flag:"output,o" desc:"output file"`
	Compact bool   `flag:"compact,c" desc:"one line"`
	Verbose bool   `flag:"verbose,v" desc:"debug logging"`
}

func TestCommand_Execute_FlagParsing(t *testing.T) {
	var params executeParams
	var receivedArgs []string

	command := &Command{
		Name:   "decode",
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			receivedArgs = args
			return nil
		},
	}

	if err := command.Execute(context.Background(), []string{"-c", "input.tb", "--output", "out.json"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !params.Compact || params.Output != "out.json" {
		t.Errorf("params = %+v, want compact and out.json", params)
	}
	if len(receivedArgs) != 1 || receivedArgs[0] != "input.tb" {
		t.Errorf("args = %v, want [input.tb]", receivedArgs)
	}
}

func TestCommand_Execute_VerboseEnablesDebug(t *testing.T) {
	var params executeParams
	var debugEnabled bool

	command := &Command{
		Name:   "decode",
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			debugEnabled = logger.Enabled(ctx, slog.LevelDebug)
			return nil
		},
	}

	if err := command.Execute(context.Background(), nil); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if debugEnabled {
		t.Error("debug logging enabled without --verbose")
	}

	if err := command.Execute(context.Background(), []string{"-v"}); err != nil {
		t.Fatalf("Execute(-v) error: %v", err)
	}
	if !debugEnabled {
		t.Error("debug logging disabled with --verbose")
	}
}

func TestCommand_Execute_UnknownCommand(t *testing.T) {
	root := &Command{
		Name: "treebuf",
		Subcommands: []*Command{
			{Name: "decode", Run: func(context.Context, []string, *slog.Logger) error { return nil }},
			{Name: "validate", Run: func(context.Context, []string, *slog.Logger) error { return nil }},
		},
	}

	err := root.Execute(context.Background(), []string{"decoed"})
	if err == nil {
		t.Fatal("expected error for unknown command")
	}
	if !strings.Contains(err.Error(), `did you mean "decode"`) {
		t.Errorf("error = %q, want suggestion for decode", err)
	}

	var toolErr *ToolError
	if !errors.As(err, &toolErr) || toolErr.Category != CategoryValidation {
		t.Errorf("error %v is not a validation ToolError", err)
	}

	err = root.Execute(context.Background(), []string{"frobnicate"})
	if err == nil || strings.Contains(err.Error(), "did you mean") {
		t.Errorf("error = %v, want unknown command without suggestion", err)
	}
}

func TestCommand_Execute_UnknownFlag(t *testing.T) {
	var params executeParams
	command := &Command{
		Name:   "decode",
		Params: func() any { return &params },
		Run:    func(context.Context, []string, *slog.Logger) error { return nil },
	}

	err := command.Execute(context.Background(), []string{"--compcat"})
	if err == nil {
		t.Fatal("expected error for unknown flag")
	}
	if !strings.Contains(err.Error(), "did you mean --compact?") {
		t.Errorf("error = %q, want suggestion for --compact", err)
	}
}

func TestCommand_Execute_SubcommandRequired(t *testing.T) {
	root := &Command{
		Name: "treebuf",
		Subcommands: []*Command{
			{Name: "decode", Run: func(context.Context, []string, *slog.Logger) error { return nil }},
		},
	}

	err := root.Execute(context.Background(), nil)
	var toolErr *ToolError
	if !errors.As(err, &toolErr) || toolErr.Category != CategoryValidation {
		t.Fatalf("Execute() = %v, want validation error", err)
	}
	if !strings.Contains(err.Error(), "subcommand required") {
		t.Errorf("error = %q", err)
	}
}

func TestCommand_Execute_RunWithSubcommands(t *testing.T) {
	var receivedArgs []string
	root := &Command{
		Name: "tool",
		Subcommands: []*Command{
			{Name: "sub", Run: func(context.Context, []string, *slog.Logger) error { return nil }},
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			receivedArgs = args
			return nil
		},
	}

	if err := root.Execute(context.Background(), []string{"input.tb"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if len(receivedArgs) != 1 || receivedArgs[0] != "input.tb" {
		t.Errorf("args = %v, want [input.tb]", receivedArgs)
	}
}

func TestCommand_Execute_HelpReturnsNil(t *testing.T) {
	var params executeParams
	called := false
	command := &Command{
		Name:   "decode",
		Params: func() any { return &params },
		Run: func(context.Context, []string, *slog.Logger) error {
			called = true
			return nil
		},
	}

	for _, args := range [][]string{{"--help"}, {"-h"}, {"input.tb", "--help"}} {
		if err := command.Execute(context.Background(), args); err != nil {
			t.Errorf("Execute(%v) error: %v", args, err)
		}
	}
	if called {
		t.Error("Run called for a help request")
	}
}

func TestCommand_PrintHelp(t *testing.T) {
	var params executeParams
	root := &Command{Name: "treebuf"}
	command := &Command{
		Name:        "decode",
		Summary:     "Decode a document",
		Description: "Decode a treebuf document to JSON.",
		Usage:       "treebuf decode [flags] [file]",
		Params:      func() any { return &params },
		Examples: []Example{
			{Description: "Decode a file", Command: "treebuf decode doc.tb"},
		},
		parent: root,
	}

	var buffer bytes.Buffer
	command.PrintHelp(&buffer)
	output := buffer.String()

	for _, want := range []string{
		"Decode a treebuf document to JSON.",
		"Usage:\n  treebuf decode [flags] [file]",
		"-c, --compact",
		"--output string",
		"# Decode a file",
		"treebuf decode doc.tb",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("help output missing %q:\n%s", want, output)
		}
	}
}

func TestCommand_PrintHelp_ListsSubcommands(t *testing.T) {
	root := &Command{
		Name: "treebuf",
		Subcommands: []*Command{
			{Name: "encode", Summary: "Encode JSON or CBOR"},
			{Name: "decode", Summary: "Decode to JSON"},
		},
	}

	var buffer bytes.Buffer
	root.PrintHelp(&buffer)
	output := buffer.String()

	for _, want := range []string{"Commands:", "encode", "Encode JSON or CBOR", "treebuf <command> [flags]"} {
		if !strings.Contains(output, want) {
			t.Errorf("help output missing %q:\n%s", want, output)
		}
	}
}
