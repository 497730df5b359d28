// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package treebuf

import "sync"

// Codec is everything the format needs to know about a type T: how to
// write and read one value, and how to write and read a column of
// values. Built-in codecs cover scalars, strings, byte slices, slices
// and pointers; Struct and Enum build codecs for user types by hand,
// and For builds them by reflection. Any implementation that honors
// the wire protocol is interchangeable with these.
//
// Codecs are immutable and safe for concurrent use. The WriterArray and
// ReaderArray values they create are owned by one call.
type Codec[T any] interface {
	// WriteRoot writes the payload of value and returns the tag that
	// must precede it. The caller places the tag, normally through
	// Stream.WriteRootWithID.
	WriteRoot(value T, stream *Stream) RootTypeID

	// Read converts a parsed branch into a value, or returns
	// ErrSchemaMismatch if the branch has an incompatible shape.
	Read(branch RootBranch, options *DecodeOptions) (T, error)

	// NewWriterArray returns an empty column accumulator.
	NewWriterArray() WriterArray[T]

	// NewReaderArray unpacks a parsed column. ArrayVoid must be
	// accepted and behave as a column with no rows.
	NewReaderArray(branch ArrayBranch, options *DecodeOptions) (ReaderArray[T], error)
}

// WriterArray accumulates one column. Buffer only records values;
// nothing is written until Flush, which chooses one encoding for the
// whole column. A WriterArray must not be used after Flush.
type WriterArray[T any] interface {
	Buffer(value T)
	Flush(stream *Stream) ArrayTypeID
}

// ReaderArray yields the rows of an unpacked column in order. Once
// the column is exhausted ReadNext returns the zero value of T, which
// lets a column written by an older schema be read against a newer one.
type ReaderArray[T any] interface {
	ReadNext() T
}

// Encode writes value as a complete document: its tag followed by its
// payload. Encoding cannot fail.
func Encode[T any](codec Codec[T], value T) []byte {
	var stream Stream
	stream.WriteRootWithID(func(stream *Stream) RootTypeID {
		return codec.WriteRoot(value, stream)
	})
	return stream.Bytes()
}

// Decode parses data and reads it as a T. It returns ErrMalformed (or
// an error wrapping it) for structurally invalid input and
// ErrSchemaMismatch when the document's shape does not fit T. No
// partial value is returned on error.
func Decode[T any](codec Codec[T], data []byte, options ...DecodeOption) (T, error) {
	var zero T
	decodeOptions := NewDecodeOptions(options...)
	branch, err := parseDocument(data, decodeOptions)
	if err != nil {
		return zero, err
	}
	value, err := codec.Read(branch, decodeOptions)
	if err != nil {
		return zero, err
	}
	return value, nil
}

// Lazy defers building a codec until first use. It lets recursive
// types refer to their own codec:
//
//	var treeCodec treebuf.Codec[Tree]
//	treeCodec = treebuf.Struct(
//	    treebuf.Field("children", treebuf.Slice(treebuf.Lazy(func() treebuf.Codec[Tree] { return treeCodec })),
//	        func(t *Tree) *[]Tree { return &t.Children }),
//	)
func Lazy[T any](build func() Codec[T]) Codec[T] {
	return &lazyCodec[T]{build: sync.OnceValue(build)}
}

type lazyCodec[T any] struct {
	build func() Codec[T]
}

func (c *lazyCodec[T]) WriteRoot(value T, stream *Stream) RootTypeID {
	return c.build().WriteRoot(value, stream)
}

func (c *lazyCodec[T]) Read(branch RootBranch, options *DecodeOptions) (T, error) {
	return c.build().Read(branch, options)
}

func (c *lazyCodec[T]) NewWriterArray() WriterArray[T] {
	return c.build().NewWriterArray()
}

func (c *lazyCodec[T]) NewReaderArray(branch ArrayBranch, options *DecodeOptions) (ReaderArray[T], error) {
	return c.build().NewReaderArray(branch, options)
}

// rowCounter is implemented by readers that know how many rows their
// column holds.
type rowCounter interface {
	rowCount() int
}

// sliceReader is the ReaderArray for any column that unpacks to a
// slice of values.
type sliceReader[T any] struct {
	values []T
	next   int
}

func (r *sliceReader[T]) rowCount() int { return len(r.values) }

func (r *sliceReader[T]) ReadNext() T {
	if r.next >= len(r.values) {
		var zero T
		return zero
	}
	value := r.values[r.next]
	r.next++
	return value
}

// sliceWriter buffers a column as a slice and hands it to flush.
type sliceWriter[T any] struct {
	values []T
	flush  func(values []T, stream *Stream) ArrayTypeID
}

func (w *sliceWriter[T]) Buffer(value T) {
	w.values = append(w.values, value)
}

func (w *sliceWriter[T]) Flush(stream *Stream) ArrayTypeID {
	return w.flush(w.values, stream)
}
