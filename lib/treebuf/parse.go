// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package treebuf

import (
	"encoding/binary"
	"math"

	"github.com/bureau-foundation/treebuf/lib/treebuf/primitive"
)

// Parse decodes data into a branch tree without reference to any Go
// type. The whole input must be exactly one root value.
func Parse(data []byte, options ...DecodeOption) (RootBranch, error) {
	return parseDocument(data, NewDecodeOptions(options...))
}

// ParseArray decodes data holding exactly one tagged column.
func ParseArray(data []byte, options ...DecodeOption) (ArrayBranch, error) {
	p := newParser(data, NewDecodeOptions(options...))
	branch, err := p.array()
	if err != nil {
		return nil, err
	}
	if p.offset != len(p.data) {
		return nil, malformedf("%d trailing bytes after column", len(p.data)-p.offset)
	}
	return branch, nil
}

func parseDocument(data []byte, options *DecodeOptions) (RootBranch, error) {
	if len(data) == 0 {
		return nil, malformedf("empty input")
	}
	p := newParser(data, options)
	branch, err := p.root()
	if err != nil {
		return nil, err
	}
	if p.offset != len(p.data) {
		return nil, malformedf("%d trailing bytes after root value", len(p.data)-p.offset)
	}
	return branch, nil
}

// parser walks the input once. Every read checks the remaining length
// first; offsets in errors are byte positions in the input.
type parser struct {
	data    []byte
	offset  int
	depth   int
	options *DecodeOptions

	// declared counts rows announced so far by array counts and
	// nested lengths; it may not pass rowLimit.
	declared uint64
	rowLimit uint64
}

func newParser(data []byte, options *DecodeOptions) *parser {
	return &parser{data: data, options: options, rowLimit: options.rowLimit(len(data))}
}

// declare records count rows announced by the document.
func (p *parser) declare(count uint64) error {
	if count > p.rowLimit-p.declared {
		return ErrElementLimit
	}
	p.declared += count
	return nil
}

// declareLengths records the rows of a nested column's inner values.
// Lengths columns of other kinds are left for the reader to reject.
func (p *parser) declareLengths(lengths ArrayBranch) error {
	column, ok := lengths.(ArrayInteger)
	if !ok {
		return nil
	}
	counts, err := unpackIntegers(column, p.options)
	if err != nil {
		return err
	}
	for _, bits := range counts.bits {
		if counts.signed && int64(bits) < 0 {
			continue
		}
		if err := p.declare(bits); err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) remaining() int { return len(p.data) - p.offset }

func (p *parser) enter() error {
	p.depth++
	if p.depth > p.options.maxDepth() {
		return ErrDepthExceeded
	}
	return nil
}

func (p *parser) leave() { p.depth-- }

func (p *parser) next() (byte, error) {
	if p.remaining() < 1 {
		return 0, malformedf("unexpected end of input at byte %d", p.offset)
	}
	b := p.data[p.offset]
	p.offset++
	return b, nil
}

func (p *parser) take(count int) ([]byte, error) {
	if count < 0 || count > p.remaining() {
		return nil, malformedf("section of %d bytes at byte %d runs past end of input", count, p.offset)
	}
	section := p.data[p.offset : p.offset+count : p.offset+count]
	p.offset += count
	return section, nil
}

func (p *parser) varint() (uint64, error) {
	value, consumed, err := primitive.DecodePrefixVarint(p.data[p.offset:])
	if err != nil {
		return 0, malformedf("varint at byte %d: %v", p.offset, err)
	}
	p.offset += consumed
	return value, nil
}

// length reads a varint that counts bytes of the remaining input.
func (p *parser) length() (int, error) {
	at := p.offset
	value, err := p.varint()
	if err != nil {
		return 0, err
	}
	if value > uint64(p.remaining()) {
		return 0, malformedf("length %d at byte %d exceeds remaining %d bytes", value, at, p.remaining())
	}
	return int(value), nil
}

func (p *parser) lengthPrefixed() ([]byte, error) {
	length, err := p.length()
	if err != nil {
		return nil, err
	}
	return p.take(length)
}

func (p *parser) ident() (string, error) {
	name, err := p.lengthPrefixed()
	if err != nil {
		return "", err
	}
	return string(name), nil
}

// arity reads the field count of an ObjN tag. Each field needs at
// least two bytes (an empty name and a tag), which bounds the count by
// the remaining input.
func (p *parser) arity() (int, error) {
	at := p.offset
	extra, err := p.varint()
	if err != nil {
		return 0, err
	}
	if extra > uint64(p.remaining()/2) {
		return 0, malformedf("object arity at byte %d exceeds remaining input", at)
	}
	return int(extra) + inlineArity + 1, nil
}

func (p *parser) root() (RootBranch, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	at := p.offset
	tag, err := p.next()
	if err != nil {
		return nil, err
	}
	id := RootTypeID(tag)

	switch {
	case id >= RootTypeObj0 && id <= RootTypeObj8:
		return p.rootObject(int(id - RootTypeObj0))
	case id == RootTypeObjN:
		arity, err := p.arity()
		if err != nil {
			return nil, err
		}
		return p.rootObject(arity)
	}

	switch id {
	case RootTypeVoid:
		return RootVoid{}, nil
	case RootTypeTrue:
		return RootBoolean{Value: true}, nil
	case RootTypeFalse:
		return RootBoolean{Value: false}, nil
	case RootTypeZero:
		return RootUint{Value: 0}, nil
	case RootTypeOne:
		return RootUint{Value: 1}, nil
	case RootTypeUint:
		value, err := p.varint()
		if err != nil {
			return nil, err
		}
		return RootUint{Value: value}, nil
	case RootTypeNegInt:
		value, err := p.varint()
		if err != nil {
			return nil, err
		}
		if value > math.MaxInt64 {
			return nil, malformedf("negative integer at byte %d out of range", at)
		}
		return RootNegInt{Value: -int64(value) - 1}, nil
	case RootTypeF64:
		data, err := p.take(8)
		if err != nil {
			return nil, err
		}
		return RootFloat64{Value: math.Float64frombits(binary.LittleEndian.Uint64(data))}, nil
	case RootTypeF32:
		data, err := p.take(4)
		if err != nil {
			return nil, err
		}
		return RootFloat32{Value: math.Float32frombits(binary.LittleEndian.Uint32(data))}, nil
	case RootTypeStr:
		data, err := p.lengthPrefixed()
		if err != nil {
			return nil, err
		}
		return RootString{Value: string(data)}, nil
	case RootTypeBytes:
		data, err := p.lengthPrefixed()
		if err != nil {
			return nil, err
		}
		return RootBytes{Value: data}, nil
	case RootTypeArray0:
		return RootArray{Len: 0, Values: ArrayVoid{}}, nil
	case RootTypeArrayN:
		count, err := p.varint()
		if err != nil {
			return nil, err
		}
		if err := p.declare(count); err != nil {
			return nil, err
		}
		values, err := p.array()
		if err != nil {
			return nil, err
		}
		return RootArray{Len: int(count), Values: values}, nil
	case RootTypeEnum:
		name, err := p.ident()
		if err != nil {
			return nil, err
		}
		value, err := p.root()
		if err != nil {
			return nil, err
		}
		return RootEnum{Discriminant: name, Value: value}, nil
	default:
		return nil, malformedf("unknown root tag %d at byte %d", tag, at)
	}
}

func (p *parser) rootObject(arity int) (RootBranch, error) {
	object := RootObject{Fields: make(map[string]RootBranch, arity)}
	for range arity {
		name, err := p.ident()
		if err != nil {
			return nil, err
		}
		value, err := p.root()
		if err != nil {
			return nil, err
		}
		if _, seen := object.Fields[name]; !seen {
			object.Order = append(object.Order, name)
		}
		object.Fields[name] = value
	}
	return object, nil
}

func (p *parser) array() (ArrayBranch, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	at := p.offset
	tag, err := p.next()
	if err != nil {
		return nil, err
	}
	id := ArrayTypeID(tag)

	switch {
	case id >= ArrayTypeObj0 && id <= ArrayTypeObj8:
		return p.arrayObject(int(id - ArrayTypeObj0))
	case id == ArrayTypeObjN:
		arity, err := p.arity()
		if err != nil {
			return nil, err
		}
		return p.arrayObject(arity)
	}

	switch id {
	case ArrayTypeVoid:
		return ArrayVoid{}, nil
	case ArrayTypeBool:
		data, err := p.lengthPrefixed()
		if err != nil {
			return nil, err
		}
		return ArrayBoolean{Packed: data}, nil
	case ArrayTypeUintFixed8, ArrayTypeUintVarint, ArrayTypeUintDelta, ArrayTypeIntZigzag, ArrayTypeIntDelta:
		data, err := p.lengthPrefixed()
		if err != nil {
			return nil, err
		}
		return ArrayInteger{Encoding: id, Data: data}, nil
	case ArrayTypeF64:
		data, err := p.lengthPrefixed()
		if err != nil {
			return nil, err
		}
		return ArrayFloat64{Data: data}, nil
	case ArrayTypeF32:
		data, err := p.lengthPrefixed()
		if err != nil {
			return nil, err
		}
		return ArrayFloat32{Data: data}, nil
	case ArrayTypeStr:
		data, err := p.lengthPrefixed()
		if err != nil {
			return nil, err
		}
		return ArrayString{Data: data}, nil
	case ArrayTypeBytes:
		data, err := p.lengthPrefixed()
		if err != nil {
			return nil, err
		}
		return ArrayBytes{Data: data}, nil
	case ArrayTypeStrDict:
		return p.stringDict()
	case ArrayTypeNested:
		lengths, err := p.array()
		if err != nil {
			return nil, err
		}
		if err := p.declareLengths(lengths); err != nil {
			return nil, err
		}
		values, err := p.array()
		if err != nil {
			return nil, err
		}
		return ArrayNested{Lengths: lengths, Values: values}, nil
	case ArrayTypeNullable:
		present, err := p.array()
		if err != nil {
			return nil, err
		}
		values, err := p.array()
		if err != nil {
			return nil, err
		}
		return ArrayNullable{Present: present, Values: values}, nil
	case ArrayTypeEnum:
		return p.arrayEnum()
	default:
		return nil, malformedf("unknown array tag %d at byte %d", tag, at)
	}
}

func (p *parser) arrayObject(arity int) (ArrayBranch, error) {
	object := ArrayObject{Fields: make(map[string]ArrayBranch, arity)}
	for range arity {
		name, err := p.ident()
		if err != nil {
			return nil, err
		}
		column, err := p.array()
		if err != nil {
			return nil, err
		}
		if _, seen := object.Fields[name]; !seen {
			object.Order = append(object.Order, name)
		}
		object.Fields[name] = column
	}
	return object, nil
}

func (p *parser) stringDict() (ArrayBranch, error) {
	at := p.offset
	count, err := p.varint()
	if err != nil {
		return nil, err
	}
	// Every dictionary entry is at least its one-byte length.
	if count > uint64(p.remaining()) {
		return nil, malformedf("dictionary size %d at byte %d exceeds remaining input", count, at)
	}
	values := make([]string, count)
	for index := range values {
		if values[index], err = p.ident(); err != nil {
			return nil, err
		}
	}
	indices, err := p.array()
	if err != nil {
		return nil, err
	}
	return ArrayStringDict{Values: values, Indices: indices}, nil
}

func (p *parser) arrayEnum() (ArrayBranch, error) {
	at := p.offset
	count, err := p.varint()
	if err != nil {
		return nil, err
	}
	if count > uint64(p.remaining()/2) {
		return nil, malformedf("enum variant count %d at byte %d exceeds remaining input", count, at)
	}
	discriminants, err := p.array()
	if err != nil {
		return nil, err
	}
	enum := ArrayEnum{
		Discriminants: discriminants,
		Variants:      make(map[string]ArrayBranch, count),
		Order:         make([]string, count),
	}
	for index := range enum.Order {
		name, err := p.ident()
		if err != nil {
			return nil, err
		}
		column, err := p.array()
		if err != nil {
			return nil, err
		}
		enum.Order[index] = name
		enum.Variants[name] = column
	}
	return enum, nil
}
