// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package treebuf

// Slice returns the codec for []T. A slice is written as a count and a
// single column holding every element, so a slice of structs is stored
// field by field rather than element by element. Empty and nil slices
// encode identically and decode as nil.
func Slice[T any](element Codec[T]) Codec[[]T] {
	return sliceCodec[T]{element: element}
}

type sliceCodec[T any] struct {
	element Codec[T]
}

func (c sliceCodec[T]) WriteRoot(value []T, stream *Stream) RootTypeID {
	if len(value) == 0 {
		return RootTypeArray0
	}
	stream.AppendVarint(uint64(len(value)))
	stream.WriteArrayWithID(func(stream *Stream) ArrayTypeID {
		writer := c.element.NewWriterArray()
		for _, element := range value {
			writer.Buffer(element)
		}
		return writer.Flush(stream)
	})
	return RootTypeArrayN
}

func (c sliceCodec[T]) Read(branch RootBranch, options *DecodeOptions) ([]T, error) {
	array, ok := branch.(RootArray)
	if !ok {
		return nil, mismatch("array", branch)
	}
	if array.Len == 0 {
		return nil, nil
	}
	if err := options.charge(uint64(array.Len)); err != nil {
		return nil, err
	}
	reader, err := c.element.NewReaderArray(array.Values, options)
	if err != nil {
		return nil, err
	}
	values := make([]T, array.Len)
	for index := range values {
		values[index] = reader.ReadNext()
	}
	return values, nil
}

// The element writer is created on the first non-empty row. A codec
// for a recursive type therefore does not build writers for levels the
// data never reaches.
func (c sliceCodec[T]) NewWriterArray() WriterArray[[]T] {
	return &nestedWriter[T]{element: c.element}
}

type nestedWriter[T any] struct {
	element Codec[T]
	lengths []uint64
	values  WriterArray[T]
}

func (w *nestedWriter[T]) Buffer(value []T) {
	w.lengths = append(w.lengths, uint64(len(value)))
	if len(value) == 0 {
		return
	}
	if w.values == nil {
		w.values = w.element.NewWriterArray()
	}
	for _, element := range value {
		w.values.Buffer(element)
	}
}

func (w *nestedWriter[T]) Flush(stream *Stream) ArrayTypeID {
	stream.WriteArrayWithID(func(stream *Stream) ArrayTypeID {
		return flushUnsigned(w.lengths, stream)
	})
	stream.WriteArrayWithID(flushOptional(w.values))
	return ArrayTypeNested
}

// flushOptional flushes writer, or writes an empty column if no writer
// was ever needed.
func flushOptional[T any](writer WriterArray[T]) func(*Stream) ArrayTypeID {
	return func(stream *Stream) ArrayTypeID {
		if writer == nil {
			return ArrayTypeVoid
		}
		return writer.Flush(stream)
	}
}

func (c sliceCodec[T]) NewReaderArray(branch ArrayBranch, options *DecodeOptions) (ReaderArray[[]T], error) {
	switch branch := branch.(type) {
	case ArrayVoid:
		return &sliceReader[[]T]{}, nil
	case ArrayNested:
		lengths, err := unpackLengths(branch.Lengths, options)
		if err != nil {
			return nil, err
		}
		for _, length := range lengths {
			if err := options.charge(length); err != nil {
				return nil, err
			}
		}
		values, err := c.element.NewReaderArray(branch.Values, options)
		if err != nil {
			return nil, err
		}
		return &nestedReader[T]{lengths: lengths, values: values}, nil
	default:
		return nil, mismatch("nested array column", branch)
	}
}

type nestedReader[T any] struct {
	lengths []uint64
	next    int
	values  ReaderArray[T]
}

func (r *nestedReader[T]) rowCount() int { return len(r.lengths) }

func (r *nestedReader[T]) ReadNext() []T {
	if r.next >= len(r.lengths) {
		return nil
	}
	length := r.lengths[r.next]
	r.next++
	if length == 0 {
		return nil
	}
	row := make([]T, length)
	for index := range row {
		row[index] = r.values.ReadNext()
	}
	return row
}
