// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package treebuf

import "github.com/bureau-foundation/treebuf/lib/treebuf/primitive"

// Stream is the append-only output of an encode. Sections nest through
// WriteRootWithID, WriteArrayWithID and WriteWithLen, so a value's
// encoder never needs to know where in the document it is writing.
type Stream struct {
	buffer []byte
}

// Bytes returns the encoded bytes. The slice aliases the stream's
// storage until the next write.
func (s *Stream) Bytes() []byte { return s.buffer }

// Len returns the number of bytes written so far.
func (s *Stream) Len() int { return len(s.buffer) }

// Append writes raw bytes.
func (s *Stream) Append(data []byte) {
	s.buffer = append(s.buffer, data...)
}

// AppendByte writes one raw byte.
func (s *Stream) AppendByte(b byte) {
	s.buffer = append(s.buffer, b)
}

// AppendVarint writes value as a prefix varint.
func (s *Stream) AppendVarint(value uint64) {
	s.buffer = primitive.AppendPrefixVarint(s.buffer, value)
}

// AppendIdent writes a length-tagged string: a prefix varint byte count
// followed by the bytes. Field and variant names use this form.
func (s *Stream) AppendIdent(name string) {
	s.buffer = primitive.AppendPrefixVarint(s.buffer, uint64(len(name)))
	s.buffer = append(s.buffer, name...)
}

// AppendWithLen writes data preceded by its length.
func (s *Stream) AppendWithLen(data []byte) {
	s.buffer = primitive.AppendPrefixVarint(s.buffer, uint64(len(data)))
	s.buffer = append(s.buffer, data...)
}

// WriteRootWithID reserves a tag byte, runs write, and stores the
// returned tag in front of the payload write produced.
func (s *Stream) WriteRootWithID(write func(*Stream) RootTypeID) {
	position := len(s.buffer)
	s.buffer = append(s.buffer, 0)
	id := write(s)
	s.buffer[position] = byte(id)
}

// WriteArrayWithID is WriteRootWithID for columns.
func (s *Stream) WriteArrayWithID(write func(*Stream) ArrayTypeID) {
	position := len(s.buffer)
	s.buffer = append(s.buffer, 0)
	id := write(s)
	s.buffer[position] = byte(id)
}

// WriteWithLen runs write and then inserts the byte length of what it
// wrote in front of it.
func (s *Stream) WriteWithLen(write func(*Stream)) {
	start := len(s.buffer)
	write(s)
	length := len(s.buffer) - start

	var scratch [primitive.MaxPrefixVarintLen]byte
	header := primitive.AppendPrefixVarint(scratch[:0], uint64(length))
	s.buffer = append(s.buffer, header...)
	copy(s.buffer[start+len(header):], s.buffer[start:start+length])
	copy(s.buffer[start:], header)
}
