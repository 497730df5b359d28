// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package treebuf

// EncodeBranch writes a branch tree back out as a document. Column
// payloads are copied as they were parsed; tags, counts and lengths
// are regenerated in their minimal form. For a document produced by
// this package, EncodeBranch(Parse(data)) reproduces data exactly, so
// a difference means the document was written by a non-canonical
// encoder or repeats a field name.
func EncodeBranch(branch RootBranch) []byte {
	var stream Stream
	stream.WriteRootWithID(func(stream *Stream) RootTypeID {
		return emitRoot(branch, stream)
	})
	return stream.Bytes()
}

func emitRoot(branch RootBranch, stream *Stream) RootTypeID {
	switch branch := branch.(type) {
	case RootBoolean:
		return Bool().WriteRoot(branch.Value, stream)
	case RootUint:
		return Uint64().WriteRoot(branch.Value, stream)
	case RootNegInt:
		return Int64().WriteRoot(branch.Value, stream)
	case RootFloat64:
		return Float64().WriteRoot(branch.Value, stream)
	case RootFloat32:
		return Float32().WriteRoot(branch.Value, stream)
	case RootString:
		return String().WriteRoot(branch.Value, stream)
	case RootBytes:
		stream.AppendWithLen(branch.Value)
		return RootTypeBytes
	case RootObject:
		id, explicit := rootObjectID(len(branch.Order))
		if explicit {
			stream.AppendVarint(uint64(len(branch.Order) - inlineArity - 1))
		}
		for _, name := range branch.Order {
			stream.AppendIdent(name)
			field := branch.Fields[name]
			stream.WriteRootWithID(func(stream *Stream) RootTypeID {
				return emitRoot(field, stream)
			})
		}
		return id
	case RootArray:
		if branch.Len == 0 {
			return RootTypeArray0
		}
		stream.AppendVarint(uint64(branch.Len))
		stream.WriteArrayWithID(func(stream *Stream) ArrayTypeID {
			return emitArray(branch.Values, stream)
		})
		return RootTypeArrayN
	case RootEnum:
		stream.AppendIdent(branch.Discriminant)
		stream.WriteRootWithID(func(stream *Stream) RootTypeID {
			return emitRoot(branch.Value, stream)
		})
		return RootTypeEnum
	default:
		return RootTypeVoid
	}
}

func emitArray(branch ArrayBranch, stream *Stream) ArrayTypeID {
	switch branch := branch.(type) {
	case ArrayBoolean:
		stream.AppendWithLen(branch.Packed)
		return ArrayTypeBool
	case ArrayInteger:
		stream.AppendWithLen(branch.Data)
		return branch.Encoding
	case ArrayFloat64:
		stream.AppendWithLen(branch.Data)
		return ArrayTypeF64
	case ArrayFloat32:
		stream.AppendWithLen(branch.Data)
		return ArrayTypeF32
	case ArrayString:
		stream.AppendWithLen(branch.Data)
		return ArrayTypeStr
	case ArrayBytes:
		stream.AppendWithLen(branch.Data)
		return ArrayTypeBytes
	case ArrayStringDict:
		stream.AppendVarint(uint64(len(branch.Values)))
		for _, value := range branch.Values {
			stream.AppendIdent(value)
		}
		emitColumn(branch.Indices, stream)
		return ArrayTypeStrDict
	case ArrayObject:
		id, explicit := arrayObjectID(len(branch.Order))
		if explicit {
			stream.AppendVarint(uint64(len(branch.Order) - inlineArity - 1))
		}
		for _, name := range branch.Order {
			stream.AppendIdent(name)
			emitColumn(branch.Fields[name], stream)
		}
		return id
	case ArrayNested:
		emitColumn(branch.Lengths, stream)
		emitColumn(branch.Values, stream)
		return ArrayTypeNested
	case ArrayNullable:
		emitColumn(branch.Present, stream)
		emitColumn(branch.Values, stream)
		return ArrayTypeNullable
	case ArrayEnum:
		stream.AppendVarint(uint64(len(branch.Order)))
		emitColumn(branch.Discriminants, stream)
		for _, name := range branch.Order {
			stream.AppendIdent(name)
			emitColumn(branch.Variants[name], stream)
		}
		return ArrayTypeEnum
	default:
		return ArrayTypeVoid
	}
}

func emitColumn(branch ArrayBranch, stream *Stream) {
	stream.WriteArrayWithID(func(stream *Stream) ArrayTypeID {
		return emitArray(branch, stream)
	})
}
