// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package primitive

import (
	"errors"
	"fmt"
	"math/bits"
)

var (
	// ErrTruncated is returned when the input ends before a value is
	// complete.
	ErrTruncated = errors.New("truncated input")

	// ErrNonMinimal is returned when a varint uses more bytes than its
	// value requires.
	ErrNonMinimal = errors.New("non-minimal varint")
)

// MaxPrefixVarintLen is the longest possible prefix varint encoding.
const MaxPrefixVarintLen = 9

// PrefixVarintLen returns the number of bytes AppendPrefixVarint uses
// for value.
func PrefixVarintLen(value uint64) int {
	significant := bits.Len64(value)
	if significant > 56 {
		return MaxPrefixVarintLen
	}
	// Each byte contributes 7 value bits until the 8-byte form.
	if significant == 0 {
		return 1
	}
	return (significant + 6) / 7
}

// AppendPrefixVarint appends the minimal prefix varint encoding of
// value to buffer.
func AppendPrefixVarint(buffer []byte, value uint64) []byte {
	length := PrefixVarintLen(value)
	if length == MaxPrefixVarintLen {
		buffer = append(buffer, 0xFF)
		for shift := 56; shift >= 0; shift -= 8 {
			buffer = append(buffer, byte(value>>uint(shift)))
		}
		return buffer
	}

	extra := length - 1
	// Header: extra one bits, a zero bit, then the top value bits.
	marker := byte(0xFF << uint(8-extra))
	header := marker | byte(value>>uint(8*extra))
	buffer = append(buffer, header)
	for shift := 8 * (extra - 1); shift >= 0; shift -= 8 {
		buffer = append(buffer, byte(value>>uint(shift)))
	}
	return buffer
}

// DecodePrefixVarint decodes one prefix varint from the start of data
// and returns the value and the number of bytes consumed.
func DecodePrefixVarint(data []byte) (uint64, int, error) {
	if len(data) == 0 {
		return 0, 0, ErrTruncated
	}
	header := data[0]
	extra := bits.LeadingZeros8(^header)
	length := extra + 1
	if len(data) < length {
		return 0, 0, fmt.Errorf("%w: varint needs %d bytes, have %d", ErrTruncated, length, len(data))
	}

	var value uint64
	if extra < 8 {
		value = uint64(header & (0xFF >> uint(extra+1)))
	}
	for _, b := range data[1:length] {
		value = value<<8 | uint64(b)
	}

	if PrefixVarintLen(value) != length {
		return 0, 0, fmt.Errorf("%w: %d encoded in %d bytes", ErrNonMinimal, value, length)
	}
	return value, length, nil
}

// AppendPrefixVarints appends each value as a prefix varint.
func AppendPrefixVarints(buffer []byte, values []uint64) []byte {
	for _, value := range values {
		buffer = AppendPrefixVarint(buffer, value)
	}
	return buffer
}

// DecodePrefixVarints decodes a sequence of prefix varints that exactly
// fills data. limit bounds the number of values decoded; exceeding it
// is an error so that callers can cap memory on hostile input.
func DecodePrefixVarints(data []byte, limit int) ([]uint64, error) {
	// Every varint is at least one byte.
	values := make([]uint64, 0, min(len(data), limit))
	for offset := 0; offset < len(data); {
		if len(values) == limit {
			return nil, fmt.Errorf("varint sequence exceeds %d values", limit)
		}
		value, consumed, err := DecodePrefixVarint(data[offset:])
		if err != nil {
			return nil, fmt.Errorf("varint %d at byte %d: %w", len(values), offset, err)
		}
		values = append(values, value)
		offset += consumed
	}
	return values, nil
}

// ZigzagEncode maps signed integers onto unsigned ones so that values
// of small magnitude stay small: 0, -1, 1, -2 become 0, 1, 2, 3.
func ZigzagEncode(value int64) uint64 {
	return uint64(value<<1) ^ uint64(value>>63)
}

// ZigzagDecode is the inverse of ZigzagEncode.
func ZigzagDecode(value uint64) int64 {
	return int64(value>>1) ^ -int64(value&1)
}
