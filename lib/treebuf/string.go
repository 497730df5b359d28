// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package treebuf

import "github.com/bureau-foundation/treebuf/lib/treebuf/primitive"

// String returns the codec for string. Strings are written as raw
// bytes and are not validated as UTF-8 in either direction. A column
// with repeated values is dictionary-coded when that is smaller.
func String() Codec[string] { return stringCodec{} }

// Bytes returns the codec for []byte. Decoded slices never alias the
// input, and an empty byte string decodes as nil.
func Bytes() Codec[[]byte] { return bytesCodec{} }

type stringCodec struct{}

func (stringCodec) WriteRoot(value string, stream *Stream) RootTypeID {
	stream.AppendIdent(value)
	return RootTypeStr
}

func (stringCodec) Read(branch RootBranch, _ *DecodeOptions) (string, error) {
	if str, ok := branch.(RootString); ok {
		return str.Value, nil
	}
	return "", mismatch("string", branch)
}

func (stringCodec) NewWriterArray() WriterArray[string] {
	return &sliceWriter[string]{flush: flushStrings}
}

func flushStrings(values []string, stream *Stream) ArrayTypeID {
	plain := func(stream *Stream) {
		stream.WriteWithLen(func(stream *Stream) {
			for _, value := range values {
				stream.AppendIdent(value)
			}
		})
	}

	index := make(map[string]uint64, len(values))
	var dictionary []string
	indices := make([]uint64, len(values))
	for row, value := range values {
		position, seen := index[value]
		if !seen {
			position = uint64(len(dictionary))
			index[value] = position
			dictionary = append(dictionary, value)
		}
		indices[row] = position
	}
	if len(dictionary) == len(values) {
		plain(stream)
		return ArrayTypeStr
	}

	var plainSize, dictionarySize Stream
	plain(&plainSize)
	dictionarySize.AppendVarint(uint64(len(dictionary)))
	for _, value := range dictionary {
		dictionarySize.AppendIdent(value)
	}
	dictionarySize.WriteArrayWithID(func(stream *Stream) ArrayTypeID {
		return flushUnsigned(indices, stream)
	})

	if plainSize.Len() <= dictionarySize.Len() {
		stream.Append(plainSize.Bytes())
		return ArrayTypeStr
	}
	stream.Append(dictionarySize.Bytes())
	return ArrayTypeStrDict
}

func (stringCodec) NewReaderArray(branch ArrayBranch, options *DecodeOptions) (ReaderArray[string], error) {
	values, err := unpackStrings(branch, options)
	if err != nil {
		return nil, err
	}
	return &sliceReader[string]{values: values}, nil
}

func unpackStrings(branch ArrayBranch, options *DecodeOptions) ([]string, error) {
	switch branch := branch.(type) {
	case ArrayVoid:
		return nil, nil
	case ArrayString:
		sections, err := splitIdents(branch.Data)
		if err != nil {
			return nil, err
		}
		values := make([]string, len(sections))
		for row, section := range sections {
			values[row] = string(section)
		}
		return values, nil
	case ArrayStringDict:
		indices, err := unpackLengths(branch.Indices, options)
		if err != nil {
			return nil, err
		}
		values := make([]string, len(indices))
		for row, position := range indices {
			if position >= uint64(len(branch.Values)) {
				return nil, malformedf("dictionary index %d in row %d out of range for %d entries", position, row, len(branch.Values))
			}
			values[row] = branch.Values[position]
		}
		return values, nil
	default:
		return nil, mismatch("string column", branch)
	}
}

// splitIdents splits a block of varint-length-prefixed sections. The
// returned slices alias data.
func splitIdents(data []byte) ([][]byte, error) {
	var sections [][]byte
	for offset := 0; offset < len(data); {
		length, consumed, err := primitive.DecodePrefixVarint(data[offset:])
		if err != nil {
			return nil, malformedf("string column at byte %d: %v", offset, err)
		}
		offset += consumed
		if length > uint64(len(data)-offset) {
			return nil, malformedf("string of %d bytes at byte %d runs past end of column", length, offset)
		}
		end := offset + int(length)
		sections = append(sections, data[offset:end:end])
		offset = end
	}
	return sections, nil
}

type bytesCodec struct{}

func (bytesCodec) WriteRoot(value []byte, stream *Stream) RootTypeID {
	stream.AppendWithLen(value)
	return RootTypeBytes
}

func (bytesCodec) Read(branch RootBranch, _ *DecodeOptions) ([]byte, error) {
	if bytes, ok := branch.(RootBytes); ok {
		return cloneBytes(bytes.Value), nil
	}
	return nil, mismatch("bytes", branch)
}

func (bytesCodec) NewWriterArray() WriterArray[[]byte] {
	return &sliceWriter[[]byte]{flush: func(values [][]byte, stream *Stream) ArrayTypeID {
		stream.WriteWithLen(func(stream *Stream) {
			for _, value := range values {
				stream.AppendWithLen(value)
			}
		})
		return ArrayTypeBytes
	}}
}

func (bytesCodec) NewReaderArray(branch ArrayBranch, _ *DecodeOptions) (ReaderArray[[]byte], error) {
	values, err := unpackBytes(branch)
	if err != nil {
		return nil, err
	}
	return &sliceReader[[]byte]{values: values}, nil
}

func unpackBytes(branch ArrayBranch) ([][]byte, error) {
	switch branch := branch.(type) {
	case ArrayVoid:
		return nil, nil
	case ArrayBytes:
		sections, err := splitIdents(branch.Data)
		if err != nil {
			return nil, err
		}
		for row, section := range sections {
			sections[row] = cloneBytes(section)
		}
		return sections, nil
	default:
		return nil, mismatch("bytes column", branch)
	}
}

// cloneBytes copies a decoded section so the result does not alias the
// caller's input buffer. Empty sections decode as nil.
func cloneBytes(data []byte) []byte {
	if len(data) == 0 {
		return nil
	}
	return append([]byte(nil), data...)
}
