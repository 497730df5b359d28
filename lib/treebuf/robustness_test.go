// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package treebuf

import (
	"bytes"
	"errors"
	"testing"

	"github.com/bureau-foundation/treebuf/lib/testutil"
)

// sampleDocuments covers every column kind the codecs produce.
func sampleDocuments() map[string][]byte {
	shapes := Enum(circleVariant(), squareVariant(), triangleVariant())
	note := "n"
	return map[string][]byte{
		"records": Encode(Slice(recordV2Codec), []recordV2{
			{Name: "alpha", Count: 1, Tags: []string{"x", "y"}},
			{Name: "alpha", Count: -300, Tags: nil},
			{Name: "beta", Count: 70000, Tags: []string{"x"}},
		}),
		"shapes":   Encode(Slice(shapes), []shape{circle{1.5}, square{2}, triangle{3, 4}, square{5}}),
		"tree":     Encode(treeCodec, tree{Label: "r", Children: []tree{{Label: "a"}, {Label: "b", Children: []tree{{Label: "c"}}}}}),
		"pointers": Encode(Slice(Pointer(String())), []*string{&note, nil, &note}),
		"wide":     Encode(Slice(wideCodec()), []wide{{F0: 1, F9: 9}, {F5: -5}}),
		"nested":   Encode(Slice(Slice(Float32())), [][]float32{{1, 2}, nil, {3}}),
	}
}

// checkDecodeError requires err to be nil or one of the decode failure
// classes.
func checkDecodeError(t *testing.T, step string, input []byte, err error) {
	t.Helper()
	if err == nil || errors.Is(err, ErrMalformed) || errors.Is(err, ErrSchemaMismatch) {
		return
	}
	t.Errorf("%s(%x): unexpected error class: %v", step, input, err)
}

// exercise runs every decode path over input, failing the test if any
// of them panics.
func exercise(t *testing.T, input []byte) {
	t.Helper()
	defer func() {
		if recovered := recover(); recovered != nil {
			t.Fatalf("panic decoding %x: %v", input, recovered)
		}
	}()

	_, err := Decode(Slice(recordV2Codec), input)
	checkDecodeError(t, "Decode records", input, err)
	_, err = Decode(treeCodec, input)
	checkDecodeError(t, "Decode tree", input, err)
	_, err = Decode(Slice(Enum(circleVariant(), squareVariant(), triangleVariant())), input)
	checkDecodeError(t, "Decode shapes", input, err)
	_, err = Decode(Slice(Pointer(String())), input)
	checkDecodeError(t, "Decode pointers", input, err)
	_, err = Decode(Slice(Slice(Float32())), input)
	checkDecodeError(t, "Decode nested", input, err)

	branch, err := Parse(input)
	checkDecodeError(t, "Parse", input, err)
	if err != nil {
		return
	}
	_ = Describe(branch)
	_ = EncodeBranch(branch)
	_, err = ToValue(branch)
	checkDecodeError(t, "ToValue", input, err)
}

func TestTruncatedDocuments(t *testing.T) {
	for name, data := range sampleDocuments() {
		t.Run(name, func(t *testing.T) {
			for _, prefix := range testutil.Truncations(data) {
				exercise(t, prefix)
				if _, err := Parse(prefix); err == nil {
					t.Errorf("Parse(%x) accepted a proper prefix of %x", prefix, data)
				}
			}
		})
	}
}

func TestMutatedDocuments(t *testing.T) {
	for name, data := range sampleDocuments() {
		t.Run(name, func(t *testing.T) {
			for _, mutated := range testutil.Mutations(data) {
				exercise(t, mutated)
			}
		})
	}
}

func TestRandomInputs(t *testing.T) {
	for _, input := range testutil.RandomInputs(1, 2000, 48) {
		exercise(t, input)
	}
}

func TestDepthLimit(t *testing.T) {
	var input []byte
	for range 100 {
		input = append(input, byte(RootTypeEnum), 0x00)
	}
	input = append(input, byte(RootTypeVoid))

	if _, err := Parse(input); !errors.Is(err, ErrDepthExceeded) {
		t.Errorf("default depth: got %v, want ErrDepthExceeded", err)
	}
	if !errors.Is(ErrDepthExceeded, ErrMalformed) {
		t.Error("ErrDepthExceeded does not match ErrMalformed")
	}
	if _, err := Parse(input, WithMaxDepth(1000)); err != nil {
		t.Errorf("raised depth: %v", err)
	}
}

func TestElementLimit(t *testing.T) {
	t.Run("array count", func(t *testing.T) {
		var stream Stream
		stream.AppendByte(byte(RootTypeArrayN))
		stream.AppendVarint(1 << 40)
		stream.AppendByte(byte(ArrayTypeVoid))

		if _, err := Parse(stream.Bytes()); !errors.Is(err, ErrElementLimit) {
			t.Errorf("got %v, want ErrElementLimit", err)
		}
		if _, err := Decode(Slice(Bool()), stream.Bytes()); !errors.Is(err, ErrElementLimit) {
			t.Errorf("Decode: got %v, want ErrElementLimit", err)
		}
	})

	t.Run("nested lengths", func(t *testing.T) {
		var lengths Stream
		lengths.AppendVarint(1 << 40)

		var stream Stream
		stream.AppendByte(byte(RootTypeArrayN))
		stream.AppendVarint(1)
		stream.AppendByte(byte(ArrayTypeNested))
		stream.AppendByte(byte(ArrayTypeUintVarint))
		stream.AppendWithLen(lengths.Bytes())
		stream.AppendByte(byte(ArrayTypeVoid))
		input := stream.Bytes()

		if _, err := Decode(Slice(Slice(Bool())), input); !errors.Is(err, ErrElementLimit) {
			t.Errorf("Decode: got %v, want ErrElementLimit", err)
		}
		if _, err := Parse(input); !errors.Is(err, ErrElementLimit) {
			t.Errorf("Parse: got %v, want ErrElementLimit", err)
		}

		branch := RootArray{Len: 1, Values: ArrayNested{
			Lengths: ArrayInteger{Encoding: ArrayTypeUintVarint, Data: lengths.Bytes()},
			Values:  ArrayVoid{},
		}}
		if _, err := ToValue(branch); !errors.Is(err, ErrElementLimit) {
			t.Errorf("ToValue: got %v, want ErrElementLimit", err)
		}
	})

	t.Run("rows not backed by input", func(t *testing.T) {
		var stream Stream
		stream.AppendByte(byte(RootTypeArrayN))
		stream.AppendVarint(DefaultMaxElements - 1)
		stream.AppendByte(byte(ArrayTypeObj0))
		input := stream.Bytes()
		if len(input) != 6 {
			t.Fatalf("input is %d bytes (%x), want 6", len(input), input)
		}

		if _, err := Parse(input); !errors.Is(err, ErrElementLimit) {
			t.Errorf("Parse: got %v, want ErrElementLimit", err)
		}
		if _, err := Decode(Slice(Struct[struct{}]()), input); !errors.Is(err, ErrElementLimit) {
			t.Errorf("Decode: got %v, want ErrElementLimit", err)
		}
		if _, err := Parse(input, WithMaxRowsPerByte(-1)); err != nil {
			t.Errorf("uncapped Parse: %v", err)
		}
	})

	t.Run("empty rows within the per-byte allowance", func(t *testing.T) {
		var stream Stream
		stream.AppendByte(byte(RootTypeArrayN))
		stream.AppendVarint(1000)
		stream.AppendByte(byte(ArrayTypeVoid))
		input := stream.Bytes()

		if _, err := Parse(input); err != nil {
			t.Errorf("default: %v", err)
		}
		if _, err := Parse(input, WithMaxRowsPerByte(100)); !errors.Is(err, ErrElementLimit) {
			t.Errorf("tight allowance: got %v, want ErrElementLimit", err)
		}
	})

	t.Run("budget is shared across columns", func(t *testing.T) {
		data := Encode(Slice(Slice(Int64())), [][]int64{{1, 2, 3}, {4, 5, 6}})
		if _, err := Decode(Slice(Slice(Int64())), data, WithMaxElements(7)); !errors.Is(err, ErrElementLimit) {
			t.Errorf("tight budget: got %v, want ErrElementLimit", err)
		}
		if _, err := Decode(Slice(Slice(Int64())), data, WithMaxElements(8)); err != nil {
			t.Errorf("exact budget: %v", err)
		}
	})
}

func TestDocumentsSurviveParse(t *testing.T) {
	for name, data := range sampleDocuments() {
		branch, err := Parse(data)
		if err != nil {
			t.Errorf("%s: Parse: %v", name, err)
			continue
		}
		if got := EncodeBranch(branch); !bytes.Equal(got, data) {
			t.Errorf("%s: EncodeBranch = %x, want %x", name, got, data)
		}
	}
}
