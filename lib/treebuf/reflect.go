// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package treebuf

import (
	"fmt"
	"reflect"
	"strings"
)

// For builds a codec for T by reflection. Supported types are bool,
// every integer kind, float32, float64, string, []byte, slices,
// pointers and structs of supported types. Struct fields are the
// exported fields, named by CanonicalName of the Go field name; a
// `treebuf:"name"` tag overrides the name and `treebuf:"-"` skips the
// field. Recursive types are supported through slices and pointers.
//
// The result is equivalent to a codec assembled by hand from Struct,
// Field, Slice and Pointer, and is interchangeable with one on the
// wire. Nothing is cached between calls.
func For[T any]() (Codec[T], error) {
	inner, err := newReflectBuilder().build(reflect.TypeFor[T]())
	if err != nil {
		return nil, err
	}
	return reflectCodec[T]{inner: inner}, nil
}

// Marshal encodes v using a codec derived from its dynamic type. The
// only error is ErrUnsupportedType.
func Marshal(v any) ([]byte, error) {
	if v == nil {
		return nil, fmt.Errorf("%w: nil", ErrUnsupportedType)
	}
	value := reflect.ValueOf(v)
	inner, err := newReflectBuilder().build(value.Type())
	if err != nil {
		return nil, err
	}
	return Encode(inner, value), nil
}

// Unmarshal decodes data into the value v points to.
func Unmarshal(data []byte, v any, options ...DecodeOption) error {
	target := reflect.ValueOf(v)
	if target.Kind() != reflect.Pointer || target.IsNil() {
		return fmt.Errorf("%w: Unmarshal needs a non-nil pointer, got %T", ErrUnsupportedType, v)
	}
	inner, err := newReflectBuilder().build(target.Type().Elem())
	if err != nil {
		return err
	}
	value, err := Decode(inner, data, options...)
	if err != nil {
		return err
	}
	target.Elem().Set(value)
	return nil
}

type reflectCodec[T any] struct {
	inner Codec[reflect.Value]
}

func (c reflectCodec[T]) WriteRoot(value T, stream *Stream) RootTypeID {
	return c.inner.WriteRoot(reflect.ValueOf(&value).Elem(), stream)
}

func (c reflectCodec[T]) Read(branch RootBranch, options *DecodeOptions) (T, error) {
	value, err := c.inner.Read(branch, options)
	if err != nil {
		var zero T
		return zero, err
	}
	return value.Interface().(T), nil
}

func (c reflectCodec[T]) NewWriterArray() WriterArray[T] {
	return reflectWriter[T]{inner: c.inner.NewWriterArray()}
}

func (c reflectCodec[T]) NewReaderArray(branch ArrayBranch, options *DecodeOptions) (ReaderArray[T], error) {
	inner, err := c.inner.NewReaderArray(branch, options)
	if err != nil {
		return nil, err
	}
	return reflectReader[T]{inner: inner}, nil
}

type reflectWriter[T any] struct {
	inner WriterArray[reflect.Value]
}

func (w reflectWriter[T]) Buffer(value T) {
	w.inner.Buffer(reflect.ValueOf(&value).Elem())
}

func (w reflectWriter[T]) Flush(stream *Stream) ArrayTypeID {
	return w.inner.Flush(stream)
}

type reflectReader[T any] struct {
	inner ReaderArray[reflect.Value]
}

func (r reflectReader[T]) ReadNext() T {
	return r.inner.ReadNext().Interface().(T)
}

// reflectBuilder builds codecs over reflect.Value. The cache is local to
// one build and exists so recursive types terminate.
type reflectBuilder struct {
	cache map[reflect.Type]Codec[reflect.Value]
}

func newReflectBuilder() *reflectBuilder {
	return &reflectBuilder{cache: make(map[reflect.Type]Codec[reflect.Value])}
}

func (b *reflectBuilder) build(t reflect.Type) (Codec[reflect.Value], error) {
	if codec, ok := b.cache[t]; ok {
		return codec, nil
	}

	switch t.Kind() {
	case reflect.Bool:
		return adapt(t, Bool(), reflect.Value.Bool, reflect.Value.SetBool), nil
	case reflect.Int:
		return signed[int](t), nil
	case reflect.Int8:
		return signed[int8](t), nil
	case reflect.Int16:
		return signed[int16](t), nil
	case reflect.Int32:
		return signed[int32](t), nil
	case reflect.Int64:
		return signed[int64](t), nil
	case reflect.Uint:
		return unsigned[uint](t), nil
	case reflect.Uint8:
		return unsigned[uint8](t), nil
	case reflect.Uint16:
		return unsigned[uint16](t), nil
	case reflect.Uint32:
		return unsigned[uint32](t), nil
	case reflect.Uint64:
		return unsigned[uint64](t), nil
	case reflect.Float32:
		return adapt(t, Float32(),
			func(v reflect.Value) float32 { return float32(v.Float()) },
			func(v reflect.Value, f float32) { v.SetFloat(float64(f)) }), nil
	case reflect.Float64:
		return adapt(t, Float64(), reflect.Value.Float, reflect.Value.SetFloat), nil
	case reflect.String:
		return adapt(t, String(), reflect.Value.String, reflect.Value.SetString), nil
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return adapt(t, Bytes(), reflect.Value.Bytes, reflect.Value.SetBytes), nil
		}
		return b.slice(t)
	case reflect.Pointer:
		return b.pointer(t)
	case reflect.Struct:
		return b.structure(t)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}
}

// deferred registers a placeholder for t before its codec is built, so
// that references back to t from inside it resolve to the finished
// codec. The placeholder is only dereferenced when encoding or decoding,
// after the build has completed.
func (b *reflectBuilder) deferred(t reflect.Type, build func() (Codec[reflect.Value], error)) (Codec[reflect.Value], error) {
	var built Codec[reflect.Value]
	b.cache[t] = Lazy(func() Codec[reflect.Value] { return built })
	codec, err := build()
	if err != nil {
		delete(b.cache, t)
		return nil, err
	}
	built = codec
	b.cache[t] = codec
	return codec, nil
}

func (b *reflectBuilder) slice(t reflect.Type) (Codec[reflect.Value], error) {
	return b.deferred(t, func() (Codec[reflect.Value], error) {
		element, err := b.build(t.Elem())
		if err != nil {
			return nil, err
		}
		return adapt(t, Slice(element),
			func(v reflect.Value) []reflect.Value {
				if v.Len() == 0 {
					return nil
				}
				elements := make([]reflect.Value, v.Len())
				for index := range elements {
					elements[index] = v.Index(index)
				}
				return elements
			},
			func(v reflect.Value, elements []reflect.Value) {
				if elements == nil {
					return
				}
				slice := reflect.MakeSlice(t, len(elements), len(elements))
				for index, element := range elements {
					slice.Index(index).Set(element)
				}
				v.Set(slice)
			}), nil
	})
}

func (b *reflectBuilder) pointer(t reflect.Type) (Codec[reflect.Value], error) {
	return b.deferred(t, func() (Codec[reflect.Value], error) {
		element, err := b.build(t.Elem())
		if err != nil {
			return nil, err
		}
		return adapt(t, Pointer(element),
			func(v reflect.Value) *reflect.Value {
				if v.IsNil() {
					return nil
				}
				pointee := v.Elem()
				return &pointee
			},
			func(v reflect.Value, pointee *reflect.Value) {
				if pointee == nil {
					return
				}
				pointer := reflect.New(t.Elem())
				pointer.Elem().Set(*pointee)
				v.Set(pointer)
			}), nil
	})
}

func (b *reflectBuilder) structure(t reflect.Type) (Codec[reflect.Value], error) {
	return b.deferred(t, func() (Codec[reflect.Value], error) {
		var fields []StructField[reflect.Value]
		for index := range t.NumField() {
			field := t.Field(index)
			if !field.IsExported() {
				continue
			}
			name := field.Name
			if tag, ok := field.Tag.Lookup("treebuf"); ok {
				tagName, _, _ := strings.Cut(tag, ",")
				if tagName == "-" {
					continue
				}
				if tagName != "" {
					name = tagName
				}
			}
			codec, err := b.build(field.Type)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", t, field.Name, err)
			}
			fields = append(fields, reflectField(name, index, codec))
		}
		return newStructCodec(func() reflect.Value { return reflect.New(t).Elem() }, fields), nil
	})
}

// reflectField is Field for a struct held in an addressable
// reflect.Value.
func reflectField(name string, index int, codec Codec[reflect.Value]) StructField[reflect.Value] {
	return StructField[reflect.Value]{
		name: CanonicalName(name),
		writeRoot: func(value *reflect.Value, stream *Stream) RootTypeID {
			return codec.WriteRoot(value.Field(index), stream)
		},
		read: func(branch RootBranch, options *DecodeOptions, into *reflect.Value) error {
			value, err := codec.Read(branch, options)
			if err != nil {
				return err
			}
			into.Field(index).Set(value)
			return nil
		},
		newWriter: func() fieldWriter[reflect.Value] {
			writer := codec.NewWriterArray()
			return fieldWriter[reflect.Value]{
				buffer: func(value *reflect.Value) { writer.Buffer(value.Field(index)) },
				flush:  writer.Flush,
			}
		},
		newReader: func(branch ArrayBranch, options *DecodeOptions) (func(into *reflect.Value), error) {
			reader, err := codec.NewReaderArray(branch, options)
			if err != nil {
				return nil, err
			}
			return func(into *reflect.Value) { into.Field(index).Set(reader.ReadNext()) }, nil
		},
	}
}

func signed[I int | int8 | int16 | int32 | int64](t reflect.Type) Codec[reflect.Value] {
	return adapt(t, Integer[I](),
		func(v reflect.Value) I { return I(v.Int()) },
		func(v reflect.Value, i I) { v.SetInt(int64(i)) })
}

func unsigned[U uint | uint8 | uint16 | uint32 | uint64](t reflect.Type) Codec[reflect.Value] {
	return adapt(t, Integer[U](),
		func(v reflect.Value) U { return U(v.Uint()) },
		func(v reflect.Value, u U) { v.SetUint(uint64(u)) })
}

// adapt lifts a Codec[P] to a codec over reflect.Value of type t. get
// extracts a P from a value of type t; set stores a P into an
// addressable value of type t.
func adapt[P any](t reflect.Type, codec Codec[P], get func(reflect.Value) P, set func(reflect.Value, P)) Codec[reflect.Value] {
	return &adapter[P]{t: t, codec: codec, get: get, set: set}
}

type adapter[P any] struct {
	t     reflect.Type
	codec Codec[P]
	get   func(reflect.Value) P
	set   func(reflect.Value, P)
}

func (a *adapter[P]) make(value P) reflect.Value {
	result := reflect.New(a.t).Elem()
	a.set(result, value)
	return result
}

func (a *adapter[P]) WriteRoot(value reflect.Value, stream *Stream) RootTypeID {
	return a.codec.WriteRoot(a.get(value), stream)
}

func (a *adapter[P]) Read(branch RootBranch, options *DecodeOptions) (reflect.Value, error) {
	value, err := a.codec.Read(branch, options)
	if err != nil {
		return reflect.Value{}, err
	}
	return a.make(value), nil
}

func (a *adapter[P]) NewWriterArray() WriterArray[reflect.Value] {
	return &adapterWriter[P]{adapter: a, inner: a.codec.NewWriterArray()}
}

func (a *adapter[P]) NewReaderArray(branch ArrayBranch, options *DecodeOptions) (ReaderArray[reflect.Value], error) {
	inner, err := a.codec.NewReaderArray(branch, options)
	if err != nil {
		return nil, err
	}
	return &adapterReader[P]{adapter: a, inner: inner}, nil
}

type adapterWriter[P any] struct {
	adapter *adapter[P]
	inner   WriterArray[P]
}

func (w *adapterWriter[P]) Buffer(value reflect.Value) { w.inner.Buffer(w.adapter.get(value)) }

func (w *adapterWriter[P]) Flush(stream *Stream) ArrayTypeID { return w.inner.Flush(stream) }

type adapterReader[P any] struct {
	adapter *adapter[P]
	inner   ReaderArray[P]
}

func (r *adapterReader[P]) ReadNext() reflect.Value { return r.adapter.make(r.inner.ReadNext()) }
