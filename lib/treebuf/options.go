// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package treebuf

const (
	// DefaultMaxDepth bounds branch nesting during decode.
	DefaultMaxDepth = 64

	// DefaultMaxElements bounds the total number of rows one decode
	// call may materialize from declared counts.
	DefaultMaxElements = 1 << 24

	// DefaultMaxRowsPerByte bounds the rows a document may declare
	// relative to its size, so a few bytes cannot announce millions of
	// empty rows.
	DefaultMaxRowsPerByte = 256
)

// DecodeOptions carries the limits for one decode call. A value is
// created per call by Decode; it also tracks how much of the element
// budget has been spent, so it must not be shared between concurrent
// decodes.
type DecodeOptions struct {
	// MaxDepth is the deepest permitted branch nesting. The root
	// value is depth 1.
	MaxDepth int

	// MaxElements is the total number of rows that array counts and
	// nested-array lengths may declare across the whole document.
	MaxElements int

	// MaxRowsPerByte caps the rows declared by array counts and
	// nested-array lengths at this many per input byte. A negative
	// value removes the cap, leaving only MaxElements.
	MaxRowsPerByte int

	spent int
}

// DecodeOption customizes a decode call.
type DecodeOption func(*DecodeOptions)

// WithMaxDepth overrides DefaultMaxDepth.
func WithMaxDepth(depth int) DecodeOption {
	return func(options *DecodeOptions) {
		options.MaxDepth = depth
	}
}

// WithMaxElements overrides DefaultMaxElements.
func WithMaxElements(count int) DecodeOption {
	return func(options *DecodeOptions) {
		options.MaxElements = count
	}
}

// WithMaxRowsPerByte overrides DefaultMaxRowsPerByte.
func WithMaxRowsPerByte(rows int) DecodeOption {
	return func(options *DecodeOptions) {
		options.MaxRowsPerByte = rows
	}
}

// NewDecodeOptions returns a fresh DecodeOptions with defaults and the
// given overrides applied.
func NewDecodeOptions(options ...DecodeOption) *DecodeOptions {
	result := &DecodeOptions{
		MaxDepth:       DefaultMaxDepth,
		MaxElements:    DefaultMaxElements,
		MaxRowsPerByte: DefaultMaxRowsPerByte,
	}
	for _, option := range options {
		option(result)
	}
	return result
}

func (o *DecodeOptions) maxDepth() int {
	if o == nil || o.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return o.MaxDepth
}

func (o *DecodeOptions) maxElements() int {
	if o == nil || o.MaxElements <= 0 {
		return DefaultMaxElements
	}
	return o.MaxElements
}

// rowLimit is the number of rows a document of size bytes may declare.
func (o *DecodeOptions) rowLimit(size int) uint64 {
	limit := uint64(o.maxElements())
	perByte := DefaultMaxRowsPerByte
	if o != nil && o.MaxRowsPerByte != 0 {
		perByte = o.MaxRowsPerByte
	}
	if perByte < 0 || uint64(size) > limit/uint64(perByte) {
		return limit
	}
	return uint64(perByte) * uint64(size)
}

// charge spends count rows of the element budget. A nil receiver only
// checks count against the default limit.
func (o *DecodeOptions) charge(count uint64) error {
	limit := uint64(o.maxElements())
	if o == nil {
		if count > limit {
			return ErrElementLimit
		}
		return nil
	}
	if count > limit-uint64(o.spent) {
		return ErrElementLimit
	}
	o.spent += int(count)
	return nil
}
