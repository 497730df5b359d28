// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package treebuf

import "fmt"

// StructField describes one field of a struct type S. Build it with
// Field.
type StructField[S any] struct {
	name      string
	writeRoot func(value *S, stream *Stream) RootTypeID
	read      func(branch RootBranch, options *DecodeOptions, into *S) error
	newWriter func() fieldWriter[S]
	newReader func(branch ArrayBranch, options *DecodeOptions) (func(into *S), error)
}

type fieldWriter[S any] struct {
	buffer func(value *S)
	flush  func(stream *Stream) ArrayTypeID
}

// Name returns the canonical name the field is written under.
func (f StructField[S]) Name() string { return f.name }

// Field binds a field of S to a codec. The name is converted with
// CanonicalName, so "user_id", "UserID" and "userId" all address the
// same field on the wire. access returns a pointer to the field inside
// the struct; it is used both to read the field when encoding and to
// fill it when decoding.
func Field[S, F any](name string, codec Codec[F], access func(*S) *F) StructField[S] {
	return StructField[S]{
		name: CanonicalName(name),
		writeRoot: func(value *S, stream *Stream) RootTypeID {
			return codec.WriteRoot(*access(value), stream)
		},
		read: func(branch RootBranch, options *DecodeOptions, into *S) error {
			value, err := codec.Read(branch, options)
			if err != nil {
				return err
			}
			*access(into) = value
			return nil
		},
		newWriter: func() fieldWriter[S] {
			writer := codec.NewWriterArray()
			return fieldWriter[S]{
				buffer: func(value *S) { writer.Buffer(*access(value)) },
				flush:  writer.Flush,
			}
		},
		newReader: func(branch ArrayBranch, options *DecodeOptions) (func(into *S), error) {
			reader, err := codec.NewReaderArray(branch, options)
			if err != nil {
				return nil, err
			}
			return func(into *S) { *access(into) = reader.ReadNext() }, nil
		},
	}
}

// Struct returns the codec for a struct type built from its fields.
// Fields are written in the order given. On read, fields are matched
// by name: fields missing from the input keep their zero value and
// fields the codec does not know are ignored, so adding or removing a
// field is compatible in both directions.
//
// A single value is written as an object tag carrying the arity,
// followed by each field's name and tagged value. A column of structs
// is written as one column per field.
func Struct[S any](fields ...StructField[S]) Codec[S] {
	return newStructCodec(func() S {
		var zero S
		return zero
	}, fields)
}

func newStructCodec[S any](newValue func() S, fields []StructField[S]) *structCodec[S] {
	return &structCodec[S]{newValue: newValue, fields: fields}
}

type structCodec[S any] struct {
	newValue func() S
	fields   []StructField[S]
}

func (c *structCodec[S]) WriteRoot(value S, stream *Stream) RootTypeID {
	id, explicit := rootObjectID(len(c.fields))
	if explicit {
		stream.AppendVarint(uint64(len(c.fields) - inlineArity - 1))
	}
	for _, field := range c.fields {
		stream.AppendIdent(field.name)
		stream.WriteRootWithID(func(stream *Stream) RootTypeID {
			return field.writeRoot(&value, stream)
		})
	}
	return id
}

func (c *structCodec[S]) Read(branch RootBranch, options *DecodeOptions) (S, error) {
	object, ok := branch.(RootObject)
	if !ok {
		var zero S
		return zero, mismatch("object", branch)
	}
	result := c.newValue()
	for _, field := range c.fields {
		value, present := object.Fields[field.name]
		if !present {
			continue
		}
		if err := field.read(value, options, &result); err != nil {
			var zero S
			return zero, fmt.Errorf("field %q: %w", field.name, err)
		}
	}
	return result, nil
}

func (c *structCodec[S]) NewWriterArray() WriterArray[S] {
	writers := make([]fieldWriter[S], len(c.fields))
	for index, field := range c.fields {
		writers[index] = field.newWriter()
	}
	return &structWriter[S]{codec: c, writers: writers}
}

type structWriter[S any] struct {
	codec   *structCodec[S]
	writers []fieldWriter[S]
}

func (w *structWriter[S]) Buffer(value S) {
	for _, writer := range w.writers {
		writer.buffer(&value)
	}
}

func (w *structWriter[S]) Flush(stream *Stream) ArrayTypeID {
	id, explicit := arrayObjectID(len(w.writers))
	if explicit {
		stream.AppendVarint(uint64(len(w.writers) - inlineArity - 1))
	}
	for index, writer := range w.writers {
		stream.AppendIdent(w.codec.fields[index].name)
		stream.WriteArrayWithID(writer.flush)
	}
	return id
}

func (c *structCodec[S]) NewReaderArray(branch ArrayBranch, options *DecodeOptions) (ReaderArray[S], error) {
	var columns map[string]ArrayBranch
	switch branch := branch.(type) {
	case ArrayVoid:
	case ArrayObject:
		columns = branch.Fields
	default:
		return nil, mismatch("object column", branch)
	}

	readers := make([]func(into *S), 0, len(c.fields))
	for _, field := range c.fields {
		column, present := columns[field.name]
		if !present {
			column = ArrayVoid{}
		}
		reader, err := field.newReader(column, options)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", field.name, err)
		}
		readers = append(readers, reader)
	}
	return &structReader[S]{newValue: c.newValue, readers: readers}, nil
}

type structReader[S any] struct {
	newValue func() S
	readers  []func(into *S)
}

func (r *structReader[S]) ReadNext() S {
	value := r.newValue()
	for _, read := range r.readers {
		read(&value)
	}
	return value
}
