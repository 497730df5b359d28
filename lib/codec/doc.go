// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec converts between the interchange formats the treebuf
// tools accept and the dynamic Go values that [treebuf.EncodeValue]
// consumes and [treebuf.ToValue] produces.
//
// Two formats are supported:
//
//   - JSON, read leniently: comments and trailing commas are stripped
//     before parsing, and numbers are kept as [encoding/json.Number] so
//     that integers survive without passing through float64.
//   - CBOR, written with Core Deterministic Encoding (RFC 8949 §4.2):
//     sorted map keys, smallest integer encoding, no indefinite-length
//     items. The same value always produces identical bytes.
//
// Decoders return values built from nil, bool, integers, floats,
// string, []byte, map[string]any and []any:
//
//	value, err := codec.DecodeJSON(input)
//	document, err := treebuf.EncodeValue(value)
//
// and the encoders accept the same shapes back:
//
//	value, err := treebuf.ToValue(branch)
//	output, err := codec.EncodeCBOR(value)
package codec
