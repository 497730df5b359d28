// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package primitive

import (
	"encoding/binary"
	"fmt"
	"math"
)

// PackedBoolLen returns the number of bytes needed to pack count
// booleans.
func PackedBoolLen(count int) int {
	return (count + 7) / 8
}

// AppendPackedBool appends values packed eight per byte, least
// significant bit first. Unused high bits of the last byte are zero.
func AppendPackedBool(buffer []byte, values []bool) []byte {
	var current byte
	for index, value := range values {
		if value {
			current |= 1 << uint(index%8)
		}
		if index%8 == 7 {
			buffer = append(buffer, current)
			current = 0
		}
	}
	if len(values)%8 != 0 {
		buffer = append(buffer, current)
	}
	return buffer
}

// DecodePackedBool extracts exactly count booleans from data. Padding
// bits past count are ignored. data must hold at least
// PackedBoolLen(count) bytes.
func DecodePackedBool(data []byte, count int) ([]bool, error) {
	if count < 0 {
		return nil, fmt.Errorf("negative boolean count %d", count)
	}
	if need := PackedBoolLen(count); len(data) < need {
		return nil, fmt.Errorf("%w: %d booleans need %d bytes, have %d", ErrTruncated, count, need, len(data))
	}
	values := make([]bool, count)
	for index := range values {
		values[index] = data[index/8]&(1<<uint(index%8)) != 0
	}
	return values, nil
}

// AppendFloat64s appends each value as 8 little-endian IEEE 754 bytes.
func AppendFloat64s(buffer []byte, values []float64) []byte {
	for _, value := range values {
		buffer = binary.LittleEndian.AppendUint64(buffer, math.Float64bits(value))
	}
	return buffer
}

// DecodeFloat64s decodes a sequence of little-endian float64 values
// that exactly fills data.
func DecodeFloat64s(data []byte) ([]float64, error) {
	if len(data)%8 != 0 {
		return nil, fmt.Errorf("%w: float64 column of %d bytes is not a multiple of 8", ErrTruncated, len(data))
	}
	values := make([]float64, len(data)/8)
	for index := range values {
		values[index] = math.Float64frombits(binary.LittleEndian.Uint64(data[index*8:]))
	}
	return values, nil
}

// AppendFloat32s appends each value as 4 little-endian IEEE 754 bytes.
func AppendFloat32s(buffer []byte, values []float32) []byte {
	for _, value := range values {
		buffer = binary.LittleEndian.AppendUint32(buffer, math.Float32bits(value))
	}
	return buffer
}

// DecodeFloat32s decodes a sequence of little-endian float32 values
// that exactly fills data.
func DecodeFloat32s(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("%w: float32 column of %d bytes is not a multiple of 4", ErrTruncated, len(data))
	}
	values := make([]float32, len(data)/4)
	for index := range values {
		values[index] = math.Float32frombits(binary.LittleEndian.Uint32(data[index*4:]))
	}
	return values, nil
}
