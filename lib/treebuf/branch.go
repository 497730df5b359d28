// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package treebuf

// RootBranch is a standalone value decoded without knowledge of the
// type it will become. It is a closed sum: the concrete types below are
// the only implementations, and consumers inspect them with a type
// switch.
type RootBranch interface {
	isRootBranch()
}

// ArrayBranch is a decoded column, the columnar counterpart of
// RootBranch.
type ArrayBranch interface {
	isArrayBranch()
}

// RootVoid is an absent value (a nil pointer).
type RootVoid struct{}

// RootBoolean is a True or False tag.
type RootBoolean struct{ Value bool }

// RootUint is a non-negative integer (Zero, One or Uint tags).
type RootUint struct{ Value uint64 }

// RootNegInt is a negative integer.
type RootNegInt struct{ Value int64 }

// RootFloat64 is an F64 value.
type RootFloat64 struct{ Value float64 }

// RootFloat32 is an F32 value.
type RootFloat32 struct{ Value float32 }

// RootString is a Str value. The bytes are not validated as UTF-8.
type RootString struct{ Value string }

// RootBytes is a Bytes value. Value aliases the decoded input.
type RootBytes struct{ Value []byte }

// RootObject is a struct value. Fields maps canonical names to values;
// Order lists each name once, in first-written order. When a name is
// written twice the later value wins.
type RootObject struct {
	Fields map[string]RootBranch
	Order  []string
}

// RootArray is a slice value: Len rows stored in one column.
type RootArray struct {
	Len    int
	Values ArrayBranch
}

// RootEnum is one enum value: the variant name and its payload.
type RootEnum struct {
	Discriminant string
	Value        RootBranch
}

func (RootVoid) isRootBranch()    {}
func (RootBoolean) isRootBranch() {}
func (RootUint) isRootBranch()    {}
func (RootNegInt) isRootBranch()  {}
func (RootFloat64) isRootBranch() {}
func (RootFloat32) isRootBranch() {}
func (RootString) isRootBranch()  {}
func (RootBytes) isRootBranch()   {}
func (RootObject) isRootBranch()  {}
func (RootArray) isRootBranch()   {}
func (RootEnum) isRootBranch()    {}

// ArrayVoid is a column with no stored rows. Every reader accepts it
// and yields zero values, which is how a field missing from the input
// is read.
type ArrayVoid struct{}

// ArrayBoolean holds packed booleans. The packing carries no length,
// so trailing padding bits read as false.
type ArrayBoolean struct{ Packed []byte }

// ArrayInteger holds an integer column in one of the integer
// encodings (ArrayTypeUintFixed8 through ArrayTypeIntDelta).
type ArrayInteger struct {
	Encoding ArrayTypeID
	Data     []byte
}

// ArrayFloat64 holds little-endian float64 rows.
type ArrayFloat64 struct{ Data []byte }

// ArrayFloat32 holds little-endian float32 rows.
type ArrayFloat32 struct{ Data []byte }

// ArrayString holds length-prefixed strings back to back.
type ArrayString struct{ Data []byte }

// ArrayStringDict holds a dictionary and an integer column of indexes
// into it.
type ArrayStringDict struct {
	Values  []string
	Indices ArrayBranch
}

// ArrayBytes holds length-prefixed byte strings back to back.
type ArrayBytes struct{ Data []byte }

// ArrayObject holds one column per struct field.
type ArrayObject struct {
	Fields map[string]ArrayBranch
	Order  []string
}

// ArrayNested holds a column of slices as a lengths column and the
// concatenation of every row's elements.
type ArrayNested struct {
	Lengths ArrayBranch
	Values  ArrayBranch
}

// ArrayNullable holds a column of optional values as a presence column
// and a column of only the present values.
type ArrayNullable struct {
	Present ArrayBranch
	Values  ArrayBranch
}

// ArrayEnum holds a column of enum values. Discriminants indexes
// Order, which lists the writer's variants in declaration order.
type ArrayEnum struct {
	Discriminants ArrayBranch
	Variants      map[string]ArrayBranch
	Order         []string
}

func (ArrayVoid) isArrayBranch()       {}
func (ArrayBoolean) isArrayBranch()    {}
func (ArrayInteger) isArrayBranch()    {}
func (ArrayFloat64) isArrayBranch()    {}
func (ArrayFloat32) isArrayBranch()    {}
func (ArrayString) isArrayBranch()     {}
func (ArrayStringDict) isArrayBranch() {}
func (ArrayBytes) isArrayBranch()      {}
func (ArrayObject) isArrayBranch()     {}
func (ArrayNested) isArrayBranch()     {}
func (ArrayNullable) isArrayBranch()   {}
func (ArrayEnum) isArrayBranch()       {}

// branchKind names a branch for error messages.
func branchKind(branch any) string {
	switch branch := branch.(type) {
	case RootVoid:
		return "void"
	case RootBoolean:
		return "boolean"
	case RootUint:
		return "unsigned integer"
	case RootNegInt:
		return "negative integer"
	case RootFloat64:
		return "float64"
	case RootFloat32:
		return "float32"
	case RootString:
		return "string"
	case RootBytes:
		return "bytes"
	case RootObject:
		return "object"
	case RootArray:
		return "array"
	case RootEnum:
		return "enum"
	case ArrayVoid:
		return "void column"
	case ArrayBoolean:
		return "boolean column"
	case ArrayInteger:
		return branch.Encoding.String() + " integer column"
	case ArrayFloat64:
		return "float64 column"
	case ArrayFloat32:
		return "float32 column"
	case ArrayString:
		return "string column"
	case ArrayStringDict:
		return "dictionary string column"
	case ArrayBytes:
		return "bytes column"
	case ArrayObject:
		return "object column"
	case ArrayNested:
		return "nested array column"
	case ArrayNullable:
		return "nullable column"
	case ArrayEnum:
		return "enum column"
	case nil:
		return "nothing"
	default:
		return "unknown branch"
	}
}
