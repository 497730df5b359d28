// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package treebuf

import "fmt"

// RootTypeID is the one-byte tag in front of a standalone value. The
// byte values are protocol constants; changing them breaks every
// existing document.
type RootTypeID uint8

const (
	RootTypeVoid   RootTypeID = 0
	RootTypeTrue   RootTypeID = 1
	RootTypeFalse  RootTypeID = 2
	RootTypeZero   RootTypeID = 3
	RootTypeOne    RootTypeID = 4
	RootTypeUint   RootTypeID = 5  // prefix varint
	RootTypeNegInt RootTypeID = 6  // prefix varint of -(v+1)
	RootTypeF64    RootTypeID = 7  // 8 bytes little-endian
	RootTypeF32    RootTypeID = 8  // 4 bytes little-endian
	RootTypeStr    RootTypeID = 9  // varint length, bytes
	RootTypeBytes  RootTypeID = 10 // varint length, bytes
	RootTypeObj0   RootTypeID = 11 // RootTypeObj0+n for arity n in 0..8
	RootTypeObj8   RootTypeID = 19
	RootTypeObjN   RootTypeID = 20 // varint(arity-9) follows
	RootTypeArray0 RootTypeID = 21
	RootTypeArrayN RootTypeID = 22 // varint count, then one column
	RootTypeEnum   RootTypeID = 23 // variant name, then one root value

	rootTypeCount = 24
)

// ArrayTypeID is the one-byte tag in front of a column. Unlike
// RootTypeID there are no payload-free shortcuts for values: a column
// must represent any number of rows.
type ArrayTypeID uint8

const (
	ArrayTypeVoid       ArrayTypeID = 0  // no payload; every row is the zero value
	ArrayTypeBool       ArrayTypeID = 1  // length-prefixed packed bits
	ArrayTypeUintFixed8 ArrayTypeID = 2  // length-prefixed, one byte per row
	ArrayTypeUintVarint ArrayTypeID = 3  // length-prefixed prefix varints
	ArrayTypeUintDelta  ArrayTypeID = 4  // length-prefixed zigzag varint deltas
	ArrayTypeIntZigzag  ArrayTypeID = 5  // length-prefixed zigzag varints
	ArrayTypeIntDelta   ArrayTypeID = 6  // length-prefixed zigzag varint deltas
	ArrayTypeF64        ArrayTypeID = 7  // length-prefixed little-endian
	ArrayTypeF32        ArrayTypeID = 8  // length-prefixed little-endian
	ArrayTypeStr        ArrayTypeID = 9  // length-prefixed (varint length, bytes)*
	ArrayTypeStrDict    ArrayTypeID = 10
	ArrayTypeBytes      ArrayTypeID = 11
	ArrayTypeObj0       ArrayTypeID = 12 // ArrayTypeObj0+n for arity n in 0..8
	ArrayTypeObj8       ArrayTypeID = 20
	ArrayTypeObjN       ArrayTypeID = 21
	ArrayTypeNested     ArrayTypeID = 22 // lengths column, values column
	ArrayTypeNullable   ArrayTypeID = 23 // presence column, values column
	ArrayTypeEnum       ArrayTypeID = 24

	arrayTypeCount = 25
)

// inlineArity is the largest object arity encoded inside the tag.
const inlineArity = 8

var rootTypeNames = [rootTypeCount]string{
	RootTypeVoid:   "Void",
	RootTypeTrue:   "True",
	RootTypeFalse:  "False",
	RootTypeZero:   "Zero",
	RootTypeOne:    "One",
	RootTypeUint:   "Uint",
	RootTypeNegInt: "NegInt",
	RootTypeF64:    "F64",
	RootTypeF32:    "F32",
	RootTypeStr:    "Str",
	RootTypeBytes:  "Bytes",
	RootTypeObjN:   "ObjN",
	RootTypeArray0: "Array0",
	RootTypeArrayN: "ArrayN",
	RootTypeEnum:   "Enum",
}

var arrayTypeNames = [arrayTypeCount]string{
	ArrayTypeVoid:       "Void",
	ArrayTypeBool:       "Boolean",
	ArrayTypeUintFixed8: "UintFixed8",
	ArrayTypeUintVarint: "UintVarint",
	ArrayTypeUintDelta:  "UintDelta",
	ArrayTypeIntZigzag:  "IntZigzag",
	ArrayTypeIntDelta:   "IntDelta",
	ArrayTypeF64:        "F64",
	ArrayTypeF32:        "F32",
	ArrayTypeStr:        "Str",
	ArrayTypeStrDict:    "StrDict",
	ArrayTypeBytes:      "Bytes",
	ArrayTypeObjN:       "ObjN",
	ArrayTypeNested:     "Nested",
	ArrayTypeNullable:   "Nullable",
	ArrayTypeEnum:       "Enum",
}

// Valid reports whether id is a defined tag.
func (id RootTypeID) Valid() bool { return id < rootTypeCount }

// Valid reports whether id is a defined tag.
func (id ArrayTypeID) Valid() bool { return id < arrayTypeCount }

func (id RootTypeID) String() string {
	switch {
	case id >= RootTypeObj0 && id <= RootTypeObj8:
		return fmt.Sprintf("Obj%d", id-RootTypeObj0)
	case id.Valid():
		return rootTypeNames[id]
	default:
		return fmt.Sprintf("RootTypeID(%d)", uint8(id))
	}
}

func (id ArrayTypeID) String() string {
	switch {
	case id >= ArrayTypeObj0 && id <= ArrayTypeObj8:
		return fmt.Sprintf("Obj%d", id-ArrayTypeObj0)
	case id.Valid():
		return arrayTypeNames[id]
	default:
		return fmt.Sprintf("ArrayTypeID(%d)", uint8(id))
	}
}

// rootObjectID returns the tag for an object of the given arity and
// whether an explicit arity must follow it.
func rootObjectID(arity int) (RootTypeID, bool) {
	if arity <= inlineArity {
		return RootTypeObj0 + RootTypeID(arity), false
	}
	return RootTypeObjN, true
}

func arrayObjectID(arity int) (ArrayTypeID, bool) {
	if arity <= inlineArity {
		return ArrayTypeObj0 + ArrayTypeID(arity), false
	}
	return ArrayTypeObjN, true
}
