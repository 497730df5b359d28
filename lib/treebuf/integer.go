// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package treebuf

import (
	"math"

	"github.com/bureau-foundation/treebuf/lib/treebuf/primitive"
)

// Integers is the set of Go integer types treebuf encodes natively.
type Integers interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Integer returns the codec for an integer type. All integer types
// share one wire representation, so a value written as int32 can be
// read as int64 or as uint8 when it fits. A value that does not fit
// the target type is a schema mismatch.
func Integer[T Integers]() Codec[T] { return integerCodec[T]{} }

// Int64 returns the codec for int64.
func Int64() Codec[int64] { return integerCodec[int64]{} }

// Uint64 returns the codec for uint64.
func Uint64() Codec[uint64] { return integerCodec[uint64]{} }

// Int returns the codec for int.
func Int() Codec[int] { return integerCodec[int]{} }

type integerCodec[T Integers] struct{}

func (integerCodec[T]) WriteRoot(value T, stream *Stream) RootTypeID {
	if value < 0 {
		// ^v is -(v+1), which is non-negative for negative v.
		stream.AppendVarint(uint64(^int64(value)))
		return RootTypeNegInt
	}
	return writeUint(uint64(value), stream)
}

func writeUint(value uint64, stream *Stream) RootTypeID {
	switch value {
	case 0:
		return RootTypeZero
	case 1:
		return RootTypeOne
	}
	stream.AppendVarint(value)
	return RootTypeUint
}

func (integerCodec[T]) Read(branch RootBranch, _ *DecodeOptions) (T, error) {
	switch branch := branch.(type) {
	case RootUint:
		if value, ok := fromUint[T](branch.Value); ok {
			return value, nil
		}
		return 0, mismatchf("integer %d overflows %T", branch.Value, T(0))
	case RootNegInt:
		if value, ok := fromInt[T](branch.Value); ok {
			return value, nil
		}
		return 0, mismatchf("integer %d overflows %T", branch.Value, T(0))
	default:
		return 0, mismatch("integer", branch)
	}
}

// fromUint converts value to T if T can hold it exactly.
func fromUint[T Integers](value uint64) (T, bool) {
	converted := T(value)
	return converted, converted >= 0 && uint64(converted) == value
}

// fromInt converts value to T if T can hold it exactly.
func fromInt[T Integers](value int64) (T, bool) {
	converted := T(value)
	return converted, int64(converted) == value && (converted < 0) == (value < 0)
}

func (integerCodec[T]) NewWriterArray() WriterArray[T] {
	return &sliceWriter[T]{flush: flushIntegers[T]}
}

func flushIntegers[T Integers](values []T, stream *Stream) ArrayTypeID {
	negative := false
	for _, value := range values {
		if value < 0 {
			negative = true
			break
		}
	}
	if !negative {
		unsigned := make([]uint64, len(values))
		for index, value := range values {
			unsigned[index] = uint64(value)
		}
		return flushUnsigned(unsigned, stream)
	}
	signed := make([]int64, len(values))
	for index, value := range values {
		signed[index] = int64(value)
	}
	return flushSigned(signed, stream)
}

// flushUnsigned writes the smallest of the fixed-byte, varint and
// delta encodings. Ties go to the simpler encoding.
func flushUnsigned(values []uint64, stream *Stream) ArrayTypeID {
	var maximum uint64
	varintSize := 0
	deltaSize := 0
	var previous uint64
	for _, value := range values {
		maximum = max(maximum, value)
		varintSize += primitive.PrefixVarintLen(value)
		deltaSize += primitive.PrefixVarintLen(primitive.ZigzagEncode(int64(value - previous)))
		previous = value
	}

	switch {
	case maximum <= math.MaxUint8 && len(values) <= min(varintSize, deltaSize):
		stream.WriteWithLen(func(stream *Stream) {
			for _, value := range values {
				stream.buffer = append(stream.buffer, byte(value))
			}
		})
		return ArrayTypeUintFixed8
	case varintSize <= deltaSize:
		stream.WriteWithLen(func(stream *Stream) {
			stream.buffer = primitive.AppendPrefixVarints(stream.buffer, values)
		})
		return ArrayTypeUintVarint
	default:
		stream.WriteWithLen(func(stream *Stream) {
			previous := uint64(0)
			for _, value := range values {
				stream.AppendVarint(primitive.ZigzagEncode(int64(value - previous)))
				previous = value
			}
		})
		return ArrayTypeUintDelta
	}
}

// flushSigned handles columns with at least one negative value.
func flushSigned(values []int64, stream *Stream) ArrayTypeID {
	zigzagSize := 0
	deltaSize := 0
	var previous int64
	for _, value := range values {
		zigzagSize += primitive.PrefixVarintLen(primitive.ZigzagEncode(value))
		deltaSize += primitive.PrefixVarintLen(primitive.ZigzagEncode(value - previous))
		previous = value
	}

	if zigzagSize <= deltaSize {
		stream.WriteWithLen(func(stream *Stream) {
			for _, value := range values {
				stream.AppendVarint(primitive.ZigzagEncode(value))
			}
		})
		return ArrayTypeIntZigzag
	}
	stream.WriteWithLen(func(stream *Stream) {
		previous := int64(0)
		for _, value := range values {
			stream.AppendVarint(primitive.ZigzagEncode(value - previous))
			previous = value
		}
	})
	return ArrayTypeIntDelta
}

func (integerCodec[T]) NewReaderArray(branch ArrayBranch, options *DecodeOptions) (ReaderArray[T], error) {
	column, err := unpackIntegers(branch, options)
	if err != nil {
		return nil, err
	}
	values := make([]T, len(column.bits))
	for index, bits := range column.bits {
		var ok bool
		if column.signed {
			values[index], ok = fromInt[T](int64(bits))
		} else {
			values[index], ok = fromUint[T](bits)
		}
		if !ok {
			return nil, mismatchf("integer column row %d overflows %T", index, T(0))
		}
	}
	return &sliceReader[T]{values: values}, nil
}

// integerColumn is an unpacked integer column. bits holds uint64
// values, or int64 values reinterpreted as uint64 when signed is set.
type integerColumn struct {
	bits   []uint64
	signed bool
}

func unpackIntegers(branch ArrayBranch, options *DecodeOptions) (integerColumn, error) {
	var column ArrayInteger
	switch branch := branch.(type) {
	case ArrayVoid:
		return integerColumn{}, nil
	case ArrayInteger:
		column = branch
	default:
		return integerColumn{}, mismatch("integer column", branch)
	}

	if column.Encoding == ArrayTypeUintFixed8 {
		bits := make([]uint64, len(column.Data))
		for index, b := range column.Data {
			bits[index] = uint64(b)
		}
		return integerColumn{bits: bits}, nil
	}

	bits, err := primitive.DecodePrefixVarints(column.Data, options.maxElements())
	if err != nil {
		return integerColumn{}, malformedf("%s column: %v", column.Encoding, err)
	}

	switch column.Encoding {
	case ArrayTypeUintVarint:
		return integerColumn{bits: bits}, nil
	case ArrayTypeUintDelta:
		var previous uint64
		for index, delta := range bits {
			previous += uint64(primitive.ZigzagDecode(delta))
			bits[index] = previous
		}
		return integerColumn{bits: bits}, nil
	case ArrayTypeIntZigzag:
		for index, encoded := range bits {
			bits[index] = uint64(primitive.ZigzagDecode(encoded))
		}
		return integerColumn{bits: bits, signed: true}, nil
	case ArrayTypeIntDelta:
		var previous int64
		for index, delta := range bits {
			previous += primitive.ZigzagDecode(delta)
			bits[index] = uint64(previous)
		}
		return integerColumn{bits: bits, signed: true}, nil
	default:
		return integerColumn{}, malformedf("unknown integer encoding %s", column.Encoding)
	}
}

// unpackLengths reads a lengths or discriminants column as uint64
// values.
func unpackLengths(branch ArrayBranch, options *DecodeOptions) ([]uint64, error) {
	column, err := unpackIntegers(branch, options)
	if err != nil {
		return nil, err
	}
	if column.signed {
		for index, bits := range column.bits {
			if int64(bits) < 0 {
				return nil, malformedf("negative count %d in row %d", int64(bits), index)
			}
		}
	}
	return column.bits, nil
}
