// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package treebuf implements a self-describing, schema-flexible binary
// format with a columnar layout.
//
// A document is one tagged root value. Scalars are written directly
// after their tag. Slices are written as a count followed by a single
// column holding every element, and a column of structs is split into
// one column per field, so values of the same field across many rows
// sit next to each other and share one encoding: packed bits for
// booleans, the smallest of fixed-width, varint and delta coding for
// integers, and dictionary coding for repetitive strings.
//
// Types are described by a [Codec]. Codecs for the built-in types come
// from [Bool], [Integer], [Float64], [String], [Bytes], [Slice] and
// [Pointer]; codecs for user types are assembled with [Struct] and
// [Field] or [Enum] and [Variant], or derived by reflection with [For].
// [Encode] and [Decode] run a codec over a whole document:
//
//	type Point struct{ X, Y int64 }
//
//	pointCodec := treebuf.Struct(
//	    treebuf.Field("x", treebuf.Int64(), func(p *Point) *int64 { return &p.X }),
//	    treebuf.Field("y", treebuf.Int64(), func(p *Point) *int64 { return &p.Y }),
//	)
//	data := treebuf.Encode(treebuf.Slice(pointCodec), points)
//	points, err := treebuf.Decode(treebuf.Slice(pointCodec), data)
//
// Decoding happens in two passes. [Parse] turns bytes into a tree of
// [RootBranch] and [ArrayBranch] values without knowing the target
// type, validating every tag, length and count against the input and
// the limits in [DecodeOptions]. The codec then walks the tree. Fields
// are matched by name: a field missing from the document reads as its
// zero value, and fields the reader does not know are skipped, so
// adding and removing fields is compatible in both directions. A field
// whose shape changed fails the whole decode with [ErrSchemaMismatch].
//
// Malformed input never panics; it fails with an error matching
// [ErrMalformed].
package treebuf
