// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package treebuf

import "github.com/bureau-foundation/treebuf/lib/treebuf/primitive"

// Bool returns the codec for bool. A single value is only a tag (True
// or False); a column is bit-packed.
func Bool() Codec[bool] { return boolCodec{} }

type boolCodec struct{}

func (boolCodec) WriteRoot(value bool, _ *Stream) RootTypeID {
	if value {
		return RootTypeTrue
	}
	return RootTypeFalse
}

func (boolCodec) Read(branch RootBranch, _ *DecodeOptions) (bool, error) {
	if boolean, ok := branch.(RootBoolean); ok {
		return boolean.Value, nil
	}
	return false, mismatch("boolean", branch)
}

func (boolCodec) NewWriterArray() WriterArray[bool] {
	return &sliceWriter[bool]{flush: flushBools}
}

func flushBools(values []bool, stream *Stream) ArrayTypeID {
	stream.WriteWithLen(func(stream *Stream) {
		stream.buffer = primitive.AppendPackedBool(stream.buffer, values)
	})
	return ArrayTypeBool
}

func (boolCodec) NewReaderArray(branch ArrayBranch, _ *DecodeOptions) (ReaderArray[bool], error) {
	values, err := unpackBools(branch)
	if err != nil {
		return nil, err
	}
	return &sliceReader[bool]{values: values}, nil
}

// unpackBools returns every bit of a boolean column, padding included.
// Callers read only as many rows as the enclosing framing declares.
func unpackBools(branch ArrayBranch) ([]bool, error) {
	switch branch := branch.(type) {
	case ArrayVoid:
		return nil, nil
	case ArrayBoolean:
		values, err := primitive.DecodePackedBool(branch.Packed, len(branch.Packed)*8)
		if err != nil {
			return nil, malformedf("boolean column: %v", err)
		}
		return values, nil
	default:
		return nil, mismatch("boolean column", branch)
	}
}
