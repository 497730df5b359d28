// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// maxNesting bounds CBOR input nesting. It matches the default decode
// depth of treebuf documents.
const maxNesting = 64

// encMode writes Core Deterministic Encoding: sorted map keys,
// smallest integer encoding, no indefinite-length items.
var encMode cbor.EncMode

// decMode decodes into dynamic values. Maps become map[string]any so
// the result has the same shape as decoded JSON; a map with a
// non-string key is an error.
var decMode cbor.DecMode

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		DefaultMapType:  reflect.TypeOf(map[string]any(nil)),
		MaxNestedLevels: maxNesting,
		// A document has one value per key; duplicates are rejected
		// rather than resolved silently.
		DupMapKey: cbor.DupMapKeyEnforcedAPF,
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// EncodeCBOR encodes a dynamic value to deterministic CBOR. Integers
// keep their signedness, []byte becomes a byte string and float32
// values are written at single precision or smaller.
func EncodeCBOR(value any) ([]byte, error) {
	data, err := encMode.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encoding CBOR: %w", err)
	}
	return data, nil
}

// DecodeCBOR decodes exactly one CBOR data item. Unsigned integers
// decode as uint64 and negative integers as int64; floats of any width
// decode as float64. Trailing bytes after the item are an error.
func DecodeCBOR(data []byte) (any, error) {
	var value any
	if err := decMode.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("decoding CBOR: %w", err)
	}
	return value, nil
}

// Diagnose returns the CBOR diagnostic notation (RFC 8949 §8) for the
// entire contents of data.
func Diagnose(data []byte) (string, error) {
	return cbor.Diagnose(data)
}
