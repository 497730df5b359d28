// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package treebuf

import "fmt"

// EnumVariant describes one case of a sum type E. Build it with Variant.
type EnumVariant[E any] struct {
	name      string
	accepts   func(value E) bool
	writeRoot func(value E, stream *Stream) RootTypeID
	read      func(branch RootBranch, options *DecodeOptions) (E, error)
	newWriter func() variantWriter[E]
	newReader func(branch ArrayBranch, options *DecodeOptions) (func() E, error)
}

type variantWriter[E any] struct {
	buffer func(value E)
	flush  func(stream *Stream) ArrayTypeID
}

// Name returns the canonical name the variant is written under.
func (v EnumVariant[E]) Name() string { return v.name }

// Variant binds one case of E to the codec of its payload. unwrap
// reports whether a value of E is this case and, if so, returns its
// payload; wrap builds an E from a decoded payload. A variant without
// data uses a payload codec for an empty struct.
func Variant[E, P any](name string, payload Codec[P], wrap func(P) E, unwrap func(E) (P, bool)) EnumVariant[E] {
	return EnumVariant[E]{
		name: CanonicalName(name),
		accepts: func(value E) bool {
			_, ok := unwrap(value)
			return ok
		},
		writeRoot: func(value E, stream *Stream) RootTypeID {
			inner, _ := unwrap(value)
			return payload.WriteRoot(inner, stream)
		},
		read: func(branch RootBranch, options *DecodeOptions) (E, error) {
			inner, err := payload.Read(branch, options)
			if err != nil {
				var zero E
				return zero, err
			}
			return wrap(inner), nil
		},
		newWriter: func() variantWriter[E] {
			writer := payload.NewWriterArray()
			return variantWriter[E]{
				buffer: func(value E) {
					inner, _ := unwrap(value)
					writer.Buffer(inner)
				},
				flush: writer.Flush,
			}
		},
		newReader: func(branch ArrayBranch, options *DecodeOptions) (func() E, error) {
			reader, err := payload.NewReaderArray(branch, options)
			if err != nil {
				return nil, err
			}
			return func() E { return wrap(reader.ReadNext()) }, nil
		},
	}
}

// Enum returns the codec for a sum type built from its variants. A
// value is written as the name of the first variant whose unwrap
// accepts it, followed by that variant's payload. Encoding a value no
// variant accepts is a programming error and panics.
//
// A column of enum values is written as a column of variant indexes
// followed by one column per declared variant, including variants no
// row uses. Readers match variants by name, so variants may be added
// or reordered; a document that uses a variant the reader does not
// declare fails with ErrSchemaMismatch.
func Enum[E any](variants ...EnumVariant[E]) Codec[E] {
	byName := make(map[string]int, len(variants))
	for index, variant := range variants {
		if _, exists := byName[variant.name]; !exists {
			byName[variant.name] = index
		}
	}
	return &enumCodec[E]{variants: variants, byName: byName}
}

type enumCodec[E any] struct {
	variants []EnumVariant[E]
	byName   map[string]int
}

// match returns the index of the first variant accepting value.
func (c *enumCodec[E]) match(value E) int {
	for index, variant := range c.variants {
		if variant.accepts(value) {
			return index
		}
	}
	panic(fmt.Sprintf("treebuf: %T value %v matches no enum variant", value, value))
}

func (c *enumCodec[E]) WriteRoot(value E, stream *Stream) RootTypeID {
	variant := c.variants[c.match(value)]
	stream.AppendIdent(variant.name)
	stream.WriteRootWithID(func(stream *Stream) RootTypeID {
		return variant.writeRoot(value, stream)
	})
	return RootTypeEnum
}

func (c *enumCodec[E]) Read(branch RootBranch, options *DecodeOptions) (E, error) {
	var zero E
	enum, ok := branch.(RootEnum)
	if !ok {
		return zero, mismatch("enum", branch)
	}
	index, known := c.byName[enum.Discriminant]
	if !known {
		return zero, mismatchf("unknown enum variant %q", enum.Discriminant)
	}
	value, err := c.variants[index].read(enum.Value, options)
	if err != nil {
		return zero, fmt.Errorf("variant %q: %w", enum.Discriminant, err)
	}
	return value, nil
}

func (c *enumCodec[E]) NewWriterArray() WriterArray[E] {
	return &enumWriter[E]{codec: c, writers: make([]*variantWriter[E], len(c.variants))}
}

// Variant writers are created on first use, which keeps recursive enum
// types from building writers without end.
type enumWriter[E any] struct {
	codec         *enumCodec[E]
	discriminants []uint64
	writers       []*variantWriter[E]
}

func (w *enumWriter[E]) Buffer(value E) {
	index := w.codec.match(value)
	if w.writers[index] == nil {
		writer := w.codec.variants[index].newWriter()
		w.writers[index] = &writer
	}
	w.writers[index].buffer(value)
	w.discriminants = append(w.discriminants, uint64(index))
}

func (w *enumWriter[E]) Flush(stream *Stream) ArrayTypeID {
	stream.AppendVarint(uint64(len(w.codec.variants)))
	stream.WriteArrayWithID(func(stream *Stream) ArrayTypeID {
		return flushUnsigned(w.discriminants, stream)
	})
	for index, variant := range w.codec.variants {
		stream.AppendIdent(variant.name)
		stream.WriteArrayWithID(func(stream *Stream) ArrayTypeID {
			if w.writers[index] == nil {
				return ArrayTypeVoid
			}
			return w.writers[index].flush(stream)
		})
	}
	return ArrayTypeEnum
}

func (c *enumCodec[E]) NewReaderArray(branch ArrayBranch, options *DecodeOptions) (ReaderArray[E], error) {
	var column ArrayEnum
	switch branch := branch.(type) {
	case ArrayVoid:
		return &sliceReader[E]{}, nil
	case ArrayEnum:
		column = branch
	default:
		return nil, mismatch("enum column", branch)
	}

	discriminants, err := unpackLengths(column.Discriminants, options)
	if err != nil {
		return nil, err
	}
	used := make([]bool, len(column.Order))
	for row, discriminant := range discriminants {
		if discriminant >= uint64(len(column.Order)) {
			return nil, malformedf("enum discriminant %d in row %d out of range for %d variants", discriminant, row, len(column.Order))
		}
		used[discriminant] = true
	}

	readers := make([]func() E, len(column.Order))
	for position, name := range column.Order {
		if !used[position] {
			continue
		}
		index, known := c.byName[name]
		if !known {
			return nil, mismatchf("unknown enum variant %q", name)
		}
		readers[position], err = c.variants[index].newReader(column.Variants[name], options)
		if err != nil {
			return nil, fmt.Errorf("variant %q: %w", name, err)
		}
	}
	return &enumReader[E]{discriminants: discriminants, readers: readers}, nil
}

type enumReader[E any] struct {
	discriminants []uint64
	next          int
	readers       []func() E
}

func (r *enumReader[E]) rowCount() int { return len(r.discriminants) }

func (r *enumReader[E]) ReadNext() E {
	if r.next >= len(r.discriminants) {
		var zero E
		return zero
	}
	discriminant := r.discriminants[r.next]
	r.next++
	return r.readers[discriminant]()
}
