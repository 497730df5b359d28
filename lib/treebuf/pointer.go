// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package treebuf

// Pointer returns the codec for *T, the format's optional value. A nil
// pointer is written as Void; any other pointer is written as its
// pointee, so a field can change between T and *T without breaking
// documents written with the other form.
func Pointer[T any](element Codec[T]) Codec[*T] {
	return pointerCodec[T]{element: element}
}

type pointerCodec[T any] struct {
	element Codec[T]
}

func (c pointerCodec[T]) WriteRoot(value *T, stream *Stream) RootTypeID {
	if value == nil {
		return RootTypeVoid
	}
	return c.element.WriteRoot(*value, stream)
}

func (c pointerCodec[T]) Read(branch RootBranch, options *DecodeOptions) (*T, error) {
	if _, ok := branch.(RootVoid); ok {
		return nil, nil
	}
	value, err := c.element.Read(branch, options)
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func (c pointerCodec[T]) NewWriterArray() WriterArray[*T] {
	return &nullableWriter[T]{element: c.element}
}

type nullableWriter[T any] struct {
	element Codec[T]
	present []bool
	values  WriterArray[T]
}

func (w *nullableWriter[T]) Buffer(value *T) {
	w.present = append(w.present, value != nil)
	if value == nil {
		return
	}
	if w.values == nil {
		w.values = w.element.NewWriterArray()
	}
	w.values.Buffer(*value)
}

func (w *nullableWriter[T]) Flush(stream *Stream) ArrayTypeID {
	stream.WriteArrayWithID(func(stream *Stream) ArrayTypeID {
		return flushBools(w.present, stream)
	})
	stream.WriteArrayWithID(flushOptional(w.values))
	return ArrayTypeNullable
}

func (c pointerCodec[T]) NewReaderArray(branch ArrayBranch, options *DecodeOptions) (ReaderArray[*T], error) {
	switch branch := branch.(type) {
	case ArrayVoid:
		return &sliceReader[*T]{}, nil
	case ArrayNullable:
		present, err := unpackBools(branch.Present)
		if err != nil {
			return nil, err
		}
		values, err := c.element.NewReaderArray(branch.Values, options)
		if err != nil {
			return nil, err
		}
		return &nullableReader[T]{present: present, values: values}, nil
	default:
		// A column written without the nullable wrapper has every row
		// present.
		values, err := c.element.NewReaderArray(branch, options)
		if err != nil {
			return nil, err
		}
		rows := -1
		if counter, ok := values.(rowCounter); ok {
			rows = counter.rowCount()
		}
		return &nullableReader[T]{values: values, allPresent: true, rows: rows}, nil
	}
}

// nullableReader reads a nullable column, or a plain column as if
// every row were present. For a plain column, rows is the number of
// values it holds, or -1 when the inner reader cannot tell.
type nullableReader[T any] struct {
	present    []bool
	next       int
	values     ReaderArray[T]
	allPresent bool
	rows       int
}

func (r *nullableReader[T]) ReadNext() *T {
	if r.allPresent {
		if r.rows >= 0 && r.next >= r.rows {
			return nil
		}
	} else if r.next >= len(r.present) || !r.present[r.next] {
		r.next++
		return nil
	}
	r.next++
	value := r.values.ReadNext()
	return &value
}
