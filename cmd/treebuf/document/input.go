// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"unicode"

	"github.com/bureau-foundation/treebuf/cmd/treebuf/cli"
	"github.com/bureau-foundation/treebuf/lib/config"
	"github.com/bureau-foundation/treebuf/lib/envelope"
	"github.com/bureau-foundation/treebuf/lib/treebuf"
)

// stdin is read when no input file is named. Tests replace it.
var stdin io.Reader = os.Stdin

// readInput resolves input data from either the file named by the only
// element of args or stdin when args is empty.
//
// When hexMode is true, the raw bytes are treated as hex text:
// whitespace is stripped and the hex is decoded to binary.
func readInput(args []string, hexMode bool) ([]byte, error) {
	var data []byte
	var err error

	switch len(args) {
	case 0:
		data, err = io.ReadAll(stdin)
		if err != nil {
			return nil, cli.Internal("read stdin: %w", err)
		}
	case 1:
		data, err = os.ReadFile(args[0])
		if errors.Is(err, fs.ErrNotExist) {
			return nil, cli.NotFound("input file %s does not exist", args[0])
		}
		if err != nil {
			return nil, cli.Internal("read %s: %w", args[0], err)
		}
	default:
		return nil, cli.Validation("expected at most one input file, got %d arguments", len(args))
	}

	if hexMode {
		decoded, err := decodeHexInput(data)
		if err != nil {
			return nil, cli.Validation("%w", err)
		}
		data = decoded
	}

	return data, nil
}

// decodeHexInput strips whitespace from hex-encoded input and decodes
// it to binary bytes. Whitespace between hex digit pairs is allowed
// (e.g., "0c 01 61 04" or "0c016104").
func decodeHexInput(data []byte) ([]byte, error) {
	cleaned := bytes.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, data)

	if len(cleaned) == 0 {
		return nil, fmt.Errorf("empty input after stripping whitespace from hex")
	}

	decoded := make([]byte, hex.DecodedLen(len(cleaned)))
	count, err := hex.Decode(decoded, cleaned)
	if err != nil {
		return nil, fmt.Errorf("decode hex: %w", err)
	}
	return decoded[:count], nil
}

// openPayload strips and verifies the envelope of a sealed document.
// Bare documents are returned unchanged.
func openPayload(data []byte, cfg *config.Config, logger *slog.Logger) ([]byte, error) {
	if !envelope.IsSealed(data) {
		return data, nil
	}
	domain, err := cfg.Domain()
	if err != nil {
		return nil, cli.Validation("%w", err)
	}
	payload, err := envelope.Open(data, domain)
	if err != nil {
		return nil, cli.Validation("opening envelope: %w", err)
	}
	logger.Debug("envelope verified", "domain", domain.Name(), "payload_bytes", len(payload))
	return payload, nil
}

// parseInput opens data when sealed and parses the treebuf document
// inside under the configured decode limits.
func parseInput(data []byte, cfg *config.Config, logger *slog.Logger) (treebuf.RootBranch, []byte, error) {
	payload, err := openPayload(data, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	branch, err := treebuf.Parse(payload, cfg.DecodeOptions()...)
	if err != nil {
		return nil, nil, cli.Validation("input is not a treebuf document: %w", err)
	}
	return branch, payload, nil
}
