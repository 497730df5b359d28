// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package treebuf

import (
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
)

// EncodeValue encodes a dynamically typed value of the shape produced
// by JSON and CBOR decoders: nil, bool, any integer type, float32,
// float64, json.Number, string, []byte, map[string]any and []any.
// Object keys are written in sorted order.
//
// Arrays are stored as one column, so their elements must share a
// kind: integers and floats mix (the column becomes float64), and null
// elements make the column nullable. An array of objects is stored as
// an object column over the union of keys, where a key missing from a
// row reads back as null. Arrays mixing other kinds fail with
// ErrUnsupportedType.
func EncodeValue(value any) ([]byte, error) {
	var stream Stream
	var err error
	stream.WriteRootWithID(func(stream *Stream) RootTypeID {
		var id RootTypeID
		id, err = writeDynamic(value, stream)
		return id
	})
	if err != nil {
		return nil, err
	}
	return stream.Bytes(), nil
}

func writeDynamic(value any, stream *Stream) (RootTypeID, error) {
	value, err := normalizeDynamic(value)
	if err != nil {
		return 0, err
	}

	switch value := value.(type) {
	case nil:
		return RootTypeVoid, nil
	case bool:
		return Bool().WriteRoot(value, stream), nil
	case int64:
		return Int64().WriteRoot(value, stream), nil
	case uint64:
		return Uint64().WriteRoot(value, stream), nil
	case float32:
		return Float32().WriteRoot(value, stream), nil
	case float64:
		return Float64().WriteRoot(value, stream), nil
	case string:
		return String().WriteRoot(value, stream), nil
	case []byte:
		return Bytes().WriteRoot(value, stream), nil
	case map[string]any:
		keys := slices.Sorted(maps.Keys(value))
		id, explicit := rootObjectID(len(keys))
		if explicit {
			stream.AppendVarint(uint64(len(keys) - inlineArity - 1))
		}
		for _, key := range keys {
			stream.AppendIdent(key)
			var fieldErr error
			stream.WriteRootWithID(func(stream *Stream) RootTypeID {
				var id RootTypeID
				id, fieldErr = writeDynamic(value[key], stream)
				return id
			})
			if fieldErr != nil {
				return 0, fmt.Errorf("key %q: %w", key, fieldErr)
			}
		}
		return id, nil
	case []any:
		if len(value) == 0 {
			return RootTypeArray0, nil
		}
		stream.AppendVarint(uint64(len(value)))
		var columnErr error
		stream.WriteArrayWithID(func(stream *Stream) ArrayTypeID {
			var id ArrayTypeID
			id, columnErr = writeDynamicColumn(value, stream)
			return id
		})
		if columnErr != nil {
			return 0, columnErr
		}
		return RootTypeArrayN, nil
	default:
		return 0, fmt.Errorf("%w: %T", ErrUnsupportedType, value)
	}
}

// normalizeDynamic folds every integer type into int64 or uint64 and
// resolves json.Number.
func normalizeDynamic(value any) (any, error) {
	switch value := value.(type) {
	case int:
		return int64(value), nil
	case int8:
		return int64(value), nil
	case int16:
		return int64(value), nil
	case int32:
		return int64(value), nil
	case uint:
		return uint64(value), nil
	case uint8:
		return uint64(value), nil
	case uint16:
		return uint64(value), nil
	case uint32:
		return uint64(value), nil
	case json.Number:
		if integer, err := strconv.ParseInt(string(value), 10, 64); err == nil {
			return integer, nil
		}
		if integer, err := strconv.ParseUint(string(value), 10, 64); err == nil {
			return integer, nil
		}
		float, err := strconv.ParseFloat(string(value), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: number %q", ErrUnsupportedType, value)
		}
		return float, nil
	default:
		return value, nil
	}
}

type dynamicKind int

const (
	kindNull dynamicKind = iota
	kindBool
	kindInteger
	kindFloat
	kindString
	kindBytes
	kindObject
	kindArray
	kindOther
)

var dynamicKindNames = [...]string{
	kindNull:    "null",
	kindBool:    "bool",
	kindInteger: "integer",
	kindFloat:   "float",
	kindString:  "string",
	kindBytes:   "bytes",
	kindObject:  "object",
	kindArray:   "array",
	kindOther:   "unsupported",
}

func kindOf(value any) dynamicKind {
	switch value.(type) {
	case nil:
		return kindNull
	case bool:
		return kindBool
	case int64, uint64:
		return kindInteger
	case float32, float64:
		return kindFloat
	case string:
		return kindString
	case []byte:
		return kindBytes
	case map[string]any:
		return kindObject
	case []any:
		return kindArray
	default:
		return kindOther
	}
}

func writeDynamicColumn(values []any, stream *Stream) (ArrayTypeID, error) {
	normalized := make([]any, len(values))
	kind := kindNull
	nulls := false
	for index, value := range values {
		value, err := normalizeDynamic(value)
		if err != nil {
			return 0, err
		}
		normalized[index] = value

		valueKind := kindOf(value)
		switch {
		case valueKind == kindOther:
			return 0, fmt.Errorf("%w: %T in array", ErrUnsupportedType, value)
		case valueKind == kindNull:
			nulls = true
		case kind == kindNull || kind == valueKind:
			kind = valueKind
		case kind == kindInteger && valueKind == kindFloat,
			kind == kindFloat && valueKind == kindInteger:
			kind = kindFloat
		default:
			return 0, fmt.Errorf("%w: array mixes %s and %s elements",
				ErrUnsupportedType, dynamicKindNames[kind], dynamicKindNames[valueKind])
		}
	}

	switch {
	case kind == kindNull:
		return ArrayTypeVoid, nil
	case nulls:
		return writeNullableColumn(normalized, stream)
	}

	switch kind {
	case kindBool:
		bools := make([]bool, len(normalized))
		for index, value := range normalized {
			bools[index] = value.(bool)
		}
		return flushBools(bools, stream), nil
	case kindInteger:
		return writeIntegerColumn(normalized, stream)
	case kindFloat:
		writer := Float64().NewWriterArray()
		for _, value := range normalized {
			writer.Buffer(toFloat64(value))
		}
		return writer.Flush(stream), nil
	case kindString:
		strs := make([]string, len(normalized))
		for index, value := range normalized {
			strs[index] = value.(string)
		}
		return flushStrings(strs, stream), nil
	case kindBytes:
		writer := Bytes().NewWriterArray()
		for _, value := range normalized {
			writer.Buffer(value.([]byte))
		}
		return writer.Flush(stream), nil
	case kindObject:
		return writeObjectColumn(normalized, stream)
	default:
		return writeNestedColumn(normalized, stream)
	}
}

func toFloat64(value any) float64 {
	switch value := value.(type) {
	case int64:
		return float64(value)
	case uint64:
		return float64(value)
	case float32:
		return float64(value)
	default:
		return value.(float64)
	}
}

func writeIntegerColumn(values []any, stream *Stream) (ArrayTypeID, error) {
	negative := false
	large := false
	for _, value := range values {
		switch value := value.(type) {
		case int64:
			negative = negative || value < 0
		case uint64:
			large = large || value > math.MaxInt64
		}
	}
	if negative && large {
		return 0, fmt.Errorf("%w: integer array spans more than 64 bits", ErrUnsupportedType)
	}
	if negative {
		signed := make([]int64, len(values))
		for index, value := range values {
			switch value := value.(type) {
			case int64:
				signed[index] = value
			case uint64:
				signed[index] = int64(value)
			}
		}
		return flushSigned(signed, stream), nil
	}
	unsigned := make([]uint64, len(values))
	for index, value := range values {
		switch value := value.(type) {
		case int64:
			unsigned[index] = uint64(value)
		case uint64:
			unsigned[index] = value
		}
	}
	return flushUnsigned(unsigned, stream), nil
}

func writeNullableColumn(values []any, stream *Stream) (ArrayTypeID, error) {
	present := make([]bool, len(values))
	var nonNull []any
	for index, value := range values {
		if value != nil {
			present[index] = true
			nonNull = append(nonNull, value)
		}
	}
	stream.WriteArrayWithID(func(stream *Stream) ArrayTypeID {
		return flushBools(present, stream)
	})
	var err error
	stream.WriteArrayWithID(func(stream *Stream) ArrayTypeID {
		var id ArrayTypeID
		id, err = writeDynamicColumn(nonNull, stream)
		return id
	})
	if err != nil {
		return 0, err
	}
	return ArrayTypeNullable, nil
}

func writeObjectColumn(values []any, stream *Stream) (ArrayTypeID, error) {
	keySet := make(map[string]struct{})
	for _, value := range values {
		for key := range value.(map[string]any) {
			keySet[key] = struct{}{}
		}
	}
	keys := slices.Sorted(maps.Keys(keySet))

	id, explicit := arrayObjectID(len(keys))
	if explicit {
		stream.AppendVarint(uint64(len(keys) - inlineArity - 1))
	}
	column := make([]any, len(values))
	for _, key := range keys {
		for row, value := range values {
			column[row] = value.(map[string]any)[key]
		}
		stream.AppendIdent(key)
		var err error
		stream.WriteArrayWithID(func(stream *Stream) ArrayTypeID {
			var id ArrayTypeID
			id, err = writeNullableColumn(column, stream)
			return id
		})
		if err != nil {
			return 0, fmt.Errorf("key %q: %w", key, err)
		}
	}
	return id, nil
}

func writeNestedColumn(values []any, stream *Stream) (ArrayTypeID, error) {
	lengths := make([]uint64, len(values))
	var flattened []any
	for index, value := range values {
		row := value.([]any)
		lengths[index] = uint64(len(row))
		flattened = append(flattened, row...)
	}
	stream.WriteArrayWithID(func(stream *Stream) ArrayTypeID {
		return flushUnsigned(lengths, stream)
	})
	var err error
	stream.WriteArrayWithID(func(stream *Stream) ArrayTypeID {
		var id ArrayTypeID
		id, err = writeDynamicColumn(flattened, stream)
		return id
	})
	if err != nil {
		return 0, err
	}
	return ArrayTypeNested, nil
}

// ToValue converts a branch tree into plain Go values: nil, bool,
// uint64, int64, float32, float64, string, []byte, map[string]any and
// []any. An enum value becomes a single-key map from the variant name
// to its payload. Every array element produced counts against the
// element budget of the options.
func ToValue(branch RootBranch, options ...DecodeOption) (any, error) {
	return rootValue(branch, NewDecodeOptions(options...))
}

func rootValue(branch RootBranch, options *DecodeOptions) (any, error) {
	switch branch := branch.(type) {
	case RootVoid:
		return nil, nil
	case RootBoolean:
		return branch.Value, nil
	case RootUint:
		return branch.Value, nil
	case RootNegInt:
		return branch.Value, nil
	case RootFloat64:
		return branch.Value, nil
	case RootFloat32:
		return branch.Value, nil
	case RootString:
		return branch.Value, nil
	case RootBytes:
		return append([]byte{}, branch.Value...), nil
	case RootObject:
		object := make(map[string]any, len(branch.Fields))
		for name, field := range branch.Fields {
			value, err := rootValue(field, options)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", name, err)
			}
			object[name] = value
		}
		return object, nil
	case RootArray:
		return columnValues(branch.Values, branch.Len, options)
	case RootEnum:
		value, err := rootValue(branch.Value, options)
		if err != nil {
			return nil, err
		}
		return map[string]any{branch.Discriminant: value}, nil
	default:
		return nil, mismatch("value", branch)
	}
}

// columnValues materializes rows values of a column. Rows the column
// does not hold are nil.
func columnValues(branch ArrayBranch, rows int, options *DecodeOptions) ([]any, error) {
	if err := options.charge(uint64(rows)); err != nil {
		return nil, err
	}
	values := make([]any, rows)
	fill := func(count int, at func(int) any) {
		for row := range min(rows, count) {
			values[row] = at(row)
		}
	}

	switch branch := branch.(type) {
	case ArrayVoid:
	case ArrayBoolean:
		bools, err := unpackBools(branch)
		if err != nil {
			return nil, err
		}
		fill(len(bools), func(row int) any { return bools[row] })
	case ArrayInteger:
		column, err := unpackIntegers(branch, options)
		if err != nil {
			return nil, err
		}
		fill(len(column.bits), func(row int) any {
			if column.signed {
				return int64(column.bits[row])
			}
			return column.bits[row]
		})
	case ArrayFloat64:
		floats, err := unpackFloat64s(branch)
		if err != nil {
			return nil, err
		}
		fill(len(floats), func(row int) any { return floats[row] })
	case ArrayFloat32:
		floats, err := unpackFloat32s(branch)
		if err != nil {
			return nil, err
		}
		fill(len(floats), func(row int) any { return floats[row] })
	case ArrayString, ArrayStringDict:
		strs, err := unpackStrings(branch, options)
		if err != nil {
			return nil, err
		}
		fill(len(strs), func(row int) any { return strs[row] })
	case ArrayBytes:
		sections, err := unpackBytes(branch)
		if err != nil {
			return nil, err
		}
		fill(len(sections), func(row int) any {
			if sections[row] == nil {
				return []byte{}
			}
			return sections[row]
		})
	case ArrayObject:
		objects := make([]map[string]any, rows)
		for row := range objects {
			objects[row] = make(map[string]any, len(branch.Fields))
		}
		for name, column := range branch.Fields {
			fields, err := columnValues(column, rows, options)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", name, err)
			}
			for row, field := range fields {
				objects[row][name] = field
			}
		}
		for row, object := range objects {
			values[row] = object
		}
	case ArrayNested:
		lengths, err := unpackLengths(branch.Lengths, options)
		if err != nil {
			return nil, err
		}
		total := 0
		for _, length := range lengths[:min(rows, len(lengths))] {
			if err := options.charge(length); err != nil {
				return nil, err
			}
			total += int(length)
		}
		flattened, err := columnValues(branch.Values, total, options)
		if err != nil {
			return nil, err
		}
		offset := 0
		fill(len(lengths), func(row int) any {
			end := offset + int(lengths[row])
			element := flattened[offset:end:end]
			offset = end
			return element
		})
	case ArrayNullable:
		present, err := unpackBools(branch.Present)
		if err != nil {
			return nil, err
		}
		present = present[:min(rows, len(present))]
		count := 0
		for _, bit := range present {
			if bit {
				count++
			}
		}
		inner, err := columnValues(branch.Values, count, options)
		if err != nil {
			return nil, err
		}
		next := 0
		for row, bit := range present {
			if bit {
				values[row] = inner[next]
				next++
			}
		}
	case ArrayEnum:
		discriminants, err := unpackLengths(branch.Discriminants, options)
		if err != nil {
			return nil, err
		}
		discriminants = discriminants[:min(rows, len(discriminants))]
		counts := make([]int, len(branch.Order))
		for row, discriminant := range discriminants {
			if discriminant >= uint64(len(branch.Order)) {
				return nil, malformedf("enum discriminant %d in row %d out of range for %d variants", discriminant, row, len(branch.Order))
			}
			counts[discriminant]++
		}
		variants := make([][]any, len(branch.Order))
		for position, name := range branch.Order {
			if counts[position] == 0 {
				continue
			}
			variants[position], err = columnValues(branch.Variants[name], counts[position], options)
			if err != nil {
				return nil, fmt.Errorf("variant %q: %w", name, err)
			}
		}
		next := make([]int, len(branch.Order))
		for row, discriminant := range discriminants {
			name := branch.Order[discriminant]
			values[row] = map[string]any{name: variants[discriminant][next[discriminant]]}
			next[discriminant]++
		}
	default:
		return nil, mismatch("column", branch)
	}
	return values, nil
}
