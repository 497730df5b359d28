// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bureau-foundation/treebuf/cmd/treebuf/cli"
	"github.com/bureau-foundation/treebuf/lib/testutil"
	"github.com/bureau-foundation/treebuf/lib/treebuf"
)

func replaceStdin(t *testing.T, data string) {
	t.Helper()
	previous := stdin
	stdin = strings.NewReader(data)
	t.Cleanup(func() { stdin = previous })
}

func TestReadInput(t *testing.T) {
	path := testutil.WriteFile(t, "doc.tb", []byte{0x0c, 0x01, 'a', 0x04})

	t.Run("file", func(t *testing.T) {
		data, err := readInput([]string{path}, false)
		if err != nil {
			t.Fatalf("readInput: %v", err)
		}
		if !bytes.Equal(data, []byte{0x0c, 0x01, 'a', 0x04}) {
			t.Errorf("data = %x", data)
		}
	})

	t.Run("stdin", func(t *testing.T) {
		replaceStdin(t, "from stdin")
		data, err := readInput(nil, false)
		if err != nil {
			t.Fatalf("readInput: %v", err)
		}
		if string(data) != "from stdin" {
			t.Errorf("data = %q", data)
		}
	})

	t.Run("hex stdin", func(t *testing.T) {
		replaceStdin(t, "0c 01\n61 04\n")
		data, err := readInput(nil, true)
		if err != nil {
			t.Fatalf("readInput: %v", err)
		}
		if !bytes.Equal(data, []byte{0x0c, 0x01, 'a', 0x04}) {
			t.Errorf("data = %x", data)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := readInput([]string{path + ".missing"}, false)
		requireCategory(t, err, cli.CategoryNotFound)
	})

	t.Run("too many arguments", func(t *testing.T) {
		_, err := readInput([]string{path, path}, false)
		requireCategory(t, err, cli.CategoryValidation)
	})

	t.Run("bad hex", func(t *testing.T) {
		replaceStdin(t, "0g")
		_, err := readInput(nil, true)
		requireCategory(t, err, cli.CategoryValidation)
	})
}

func TestDecodeHexInput(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []byte
		wantErr string
	}{
		{"plain", "0c016104", []byte{0x0c, 0x01, 0x61, 0x04}, ""},
		{"spaced", " 0c 01\t61\r\n04 ", []byte{0x0c, 0x01, 0x61, 0x04}, ""},
		{"upper case", "FF", []byte{0xff}, ""},
		{"only whitespace", " \n ", nil, "empty input"},
		{"odd length", "abc", nil, "decode hex"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := decodeHexInput([]byte(test.input))
			if test.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), test.wantErr) {
					t.Fatalf("decodeHexInput(%q) error = %v, want %q", test.input, err, test.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("decodeHexInput(%q): %v", test.input, err)
			}
			if !bytes.Equal(got, test.want) {
				t.Errorf("decodeHexInput(%q) = %x, want %x", test.input, got, test.want)
			}
		})
	}
}

// TestHexExamplesParse checks that every help example piping hex into a
// command carries a well-formed document.
func TestHexExamplesParse(t *testing.T) {
	checked := 0
	for _, command := range Commands() {
		for _, example := range command.Examples {
			rest, found := strings.CutPrefix(example.Command, "echo '")
			if !found || !strings.Contains(example.Command, "--hex") {
				continue
			}
			text, _, _ := strings.Cut(rest, "'")
			data, err := decodeHexInput([]byte(text))
			if err != nil {
				t.Errorf("%s example %q: %v", command.Name, example.Command, err)
				continue
			}
			if _, err := treebuf.Parse(data); err != nil {
				t.Errorf("%s example %q: %v", command.Name, example.Command, err)
			}
			checked++
		}
	}
	if checked == 0 {
		t.Fatal("no hex examples found")
	}
}
