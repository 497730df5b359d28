// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package treebuf

import (
	"errors"
	"fmt"
)

var (
	// ErrSchemaMismatch is returned when the decoded shape of a value
	// does not fit the requested type. It aborts the whole decode.
	ErrSchemaMismatch = errors.New("treebuf: schema mismatch")

	// ErrMalformed is returned for input that is not a well-formed
	// document: truncated sections, unknown tags, lengths that run
	// past the end of their section, trailing bytes.
	ErrMalformed = errors.New("treebuf: malformed input")

	// ErrDepthExceeded is returned when nesting exceeds
	// DecodeOptions.MaxDepth. It also matches ErrMalformed.
	ErrDepthExceeded = fmt.Errorf("%w: nesting depth exceeded", ErrMalformed)

	// ErrElementLimit is returned when a document declares more rows
	// than DecodeOptions.MaxElements or MaxRowsPerByte allows. It also
	// matches ErrMalformed.
	ErrElementLimit = fmt.Errorf("%w: element limit exceeded", ErrMalformed)

	// ErrUnsupportedType is returned by the reflection binding and by
	// EncodeValue for Go values they cannot represent.
	ErrUnsupportedType = errors.New("treebuf: unsupported type")
)

func mismatch(want string, got any) error {
	return fmt.Errorf("%w: want %s, got %s", ErrSchemaMismatch, want, branchKind(got))
}

func mismatchf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrSchemaMismatch, fmt.Sprintf(format, args...))
}

func malformedf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformed, fmt.Sprintf(format, args...))
}
