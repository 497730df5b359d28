// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestToolError_Categories(t *testing.T) {
	tests := []struct {
		err      *ToolError
		category ErrorCategory
		exitCode int
	}{
		{Validation("bad input %d", 1), CategoryValidation, 2},
		{NotFound("no file %q", "x"), CategoryNotFound, 1},
		{Internal("write failed"), CategoryInternal, 1},
	}
	for _, test := range tests {
		t.Run(string(test.category), func(t *testing.T) {
			if test.err.Category != test.category {
				t.Errorf("Category = %q, want %q", test.err.Category, test.category)
			}
			if got := test.err.ExitCode(); got != test.exitCode {
				t.Errorf("ExitCode() = %d, want %d", got, test.exitCode)
			}
		})
	}
}

func TestToolError_WithHint(t *testing.T) {
	err := Validation("input is not a treebuf document")
	if same := err.WithHint("Pass --hex for hex input."); same != err {
		t.Error("WithHint returned a different pointer")
	}
	want := "input is not a treebuf document\n\nPass --hex for hex input."
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestToolError_Unwrap(t *testing.T) {
	err := NotFound("reading %s: %w", "doc.tb", fs.ErrNotExist)
	wrapped := fmt.Errorf("decode: %w", err)

	if !errors.Is(wrapped, fs.ErrNotExist) {
		t.Error("errors.Is does not reach the wrapped cause")
	}
	var toolErr *ToolError
	if !errors.As(wrapped, &toolErr) || toolErr.Category != CategoryNotFound {
		t.Errorf("errors.As = %v, want not_found ToolError", toolErr)
	}
}

func TestExitError(t *testing.T) {
	var err error = &ExitError{Code: 3}
	var coder interface{ ExitCode() int }
	if !errors.As(err, &coder) || coder.ExitCode() != 3 {
		t.Errorf("ExitCode via interface = %v, want 3", coder)
	}
	if err.Error() != "exit code 3" {
		t.Errorf("Error() = %q", err.Error())
	}
}
