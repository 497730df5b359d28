// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package primitive implements the scalar packings that treebuf columns
// are built from.
//
// Prefix varints encode a uint64 in 1 to 9 bytes. The number of leading
// one bits in the first byte is the number of bytes that follow it:
//
//	0xxxxxxx                      values < 2^7
//	10xxxxxx x                    values < 2^14
//	110xxxxx x x                  values < 2^21
//	...
//	11111110 x x x x x x x        values < 2^56
//	11111111 x x x x x x x x      full 64 bits
//
// Value bits are big-endian: the free bits of the first byte are the
// most significant. Encoders always pick the shortest form and decoders
// reject longer-than-necessary forms, so every value has exactly one
// encoding.
//
// Packed booleans store element i in byte i/8 at bit i%8, least
// significant bit first. The packed bytes carry no length; callers
// supply the element count from the surrounding framing.
//
// Every decoder in this package validates lengths before slicing and
// returns [ErrTruncated] or [ErrNonMinimal] instead of panicking.
package primitive
