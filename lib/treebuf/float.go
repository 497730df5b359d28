// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package treebuf

import (
	"encoding/binary"
	"math"

	"github.com/bureau-foundation/treebuf/lib/treebuf/primitive"
)

// Float64 returns the codec for float64. It also reads values written
// as float32, which widen without loss.
func Float64() Codec[float64] { return float64Codec{} }

// Float32 returns the codec for float32. Reading a float64 into it is a
// schema mismatch rather than a silent narrowing.
func Float32() Codec[float32] { return float32Codec{} }

type float64Codec struct{}

func (float64Codec) WriteRoot(value float64, stream *Stream) RootTypeID {
	stream.buffer = binary.LittleEndian.AppendUint64(stream.buffer, math.Float64bits(value))
	return RootTypeF64
}

func (float64Codec) Read(branch RootBranch, _ *DecodeOptions) (float64, error) {
	switch branch := branch.(type) {
	case RootFloat64:
		return branch.Value, nil
	case RootFloat32:
		return float64(branch.Value), nil
	default:
		return 0, mismatch("float64", branch)
	}
}

func (float64Codec) NewWriterArray() WriterArray[float64] {
	return &sliceWriter[float64]{flush: func(values []float64, stream *Stream) ArrayTypeID {
		stream.WriteWithLen(func(stream *Stream) {
			stream.buffer = primitive.AppendFloat64s(stream.buffer, values)
		})
		return ArrayTypeF64
	}}
}

func (float64Codec) NewReaderArray(branch ArrayBranch, _ *DecodeOptions) (ReaderArray[float64], error) {
	values, err := unpackFloat64s(branch)
	if err != nil {
		return nil, err
	}
	return &sliceReader[float64]{values: values}, nil
}

func unpackFloat64s(branch ArrayBranch) ([]float64, error) {
	switch branch := branch.(type) {
	case ArrayVoid:
		return nil, nil
	case ArrayFloat64:
		values, err := primitive.DecodeFloat64s(branch.Data)
		if err != nil {
			return nil, malformedf("%v", err)
		}
		return values, nil
	case ArrayFloat32:
		narrow, err := unpackFloat32s(branch)
		if err != nil {
			return nil, err
		}
		values := make([]float64, len(narrow))
		for index, value := range narrow {
			values[index] = float64(value)
		}
		return values, nil
	default:
		return nil, mismatch("float64 column", branch)
	}
}

type float32Codec struct{}

func (float32Codec) WriteRoot(value float32, stream *Stream) RootTypeID {
	stream.buffer = binary.LittleEndian.AppendUint32(stream.buffer, math.Float32bits(value))
	return RootTypeF32
}

func (float32Codec) Read(branch RootBranch, _ *DecodeOptions) (float32, error) {
	if float, ok := branch.(RootFloat32); ok {
		return float.Value, nil
	}
	return 0, mismatch("float32", branch)
}

func (float32Codec) NewWriterArray() WriterArray[float32] {
	return &sliceWriter[float32]{flush: func(values []float32, stream *Stream) ArrayTypeID {
		stream.WriteWithLen(func(stream *Stream) {
			stream.buffer = primitive.AppendFloat32s(stream.buffer, values)
		})
		return ArrayTypeF32
	}}
}

func (float32Codec) NewReaderArray(branch ArrayBranch, _ *DecodeOptions) (ReaderArray[float32], error) {
	values, err := unpackFloat32s(branch)
	if err != nil {
		return nil, err
	}
	return &sliceReader[float32]{values: values}, nil
}

func unpackFloat32s(branch ArrayBranch) ([]float32, error) {
	switch branch := branch.(type) {
	case ArrayVoid:
		return nil, nil
	case ArrayFloat32:
		values, err := primitive.DecodeFloat32s(branch.Data)
		if err != nil {
			return nil, malformedf("%v", err)
		}
		return values, nil
	default:
		return nil, mismatch("float32 column", branch)
	}
}
