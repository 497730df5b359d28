// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/bureau-foundation/treebuf/cmd/treebuf/cli"
	"github.com/bureau-foundation/treebuf/lib/config"
	"github.com/bureau-foundation/treebuf/lib/treebuf"
)

type treeParams struct {
	CommonParams
	Color string `flag:"color" desc:"style the tree: auto, always or never (default from config)"`
}

func treeCommand() *cli.Command {
	var params treeParams

	return &cli.Command{
		Name:    "tree",
		Summary: "Show the branch tree of a treebuf document",
		Description: `Print the structure of a treebuf document: one line per branch with
its field or variant name, its tag, and either its scalar value or the
size of its column payload.

This is the view a reader without the writer's types sees, and the
quickest way to find why a typed decode reports a schema mismatch.`,
		Usage: "treebuf tree [-x] [file]",
		Examples: []cli.Example{
			{
				Description: "Show the layout of a document",
				Command:     "treebuf tree config.tb",
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
			return treeInput(data, cfg, color, os.Stdout, logger)
		},
	}
}

func treeInput(data []byte, cfg *config.Config, color bool, w io.Writer, logger *slog.Logger) error {
	branch, _, err := parseInput(data, cfg, logger)
	if err != nil {
		return err
	}

	var style treebuf.Style = treebuf.PlainStyle{}
	if color {
		style = newTreeStyle(w)
	}
	_, err = io.WriteString(w, treebuf.DescribeWith(branch, style))
	return err
}

// treeStyle colors tags, names and values with lipgloss.
type treeStyle struct {
	tag   lipgloss.Style
	name  lipgloss.Style
	value lipgloss.Style
}

// newTreeStyle forces the ANSI256 profile: the caller has already
// decided to color, and lipgloss would otherwise re-detect from the
// environment and drop the styling when w is not a terminal.
func newTreeStyle(w io.Writer) treeStyle {
	renderer := lipgloss.NewRenderer(w, termenv.WithProfile(termenv.ANSI256))
	renderer.SetColorProfile(termenv.ANSI256)

	return treeStyle{
		tag:   renderer.NewStyle().Foreground(lipgloss.Color("75")).Bold(true),
		name:  renderer.NewStyle().Foreground(lipgloss.Color("222")),
		value: renderer.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

func (s treeStyle) Tag(text string) string   { return s.tag.Render(text) }
func (s treeStyle) Name(text string) string  { return s.name.Render(text) }
func (s treeStyle) Value(text string) string { return s.value.Render(text) }
