// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package treebuf

import (
	"bytes"
	"errors"
	"math"
	"reflect"
	"testing"
)

func roundTrip[T any](t *testing.T, codec Codec[T], value T) T {
	t.Helper()
	data := Encode(codec, value)
	decoded, err := Decode(codec, data)
	if err != nil {
		t.Fatalf("Decode(%x): %v", data, err)
	}
	return decoded
}

func TestEncodeTrueIsSingleTag(t *testing.T) {
	got := Encode(Bool(), true)
	want := []byte{byte(RootTypeTrue)}
	if !bytes.Equal(got, want) {
		t.Errorf("Encode(Bool(), true) = %x, want %x", got, want)
	}
}

func TestEncodeBoolSlicePacksBits(t *testing.T) {
	got := Encode(Slice(Bool()), []bool{true, false, true})
	want := []byte{byte(RootTypeArrayN), 0x03, byte(ArrayTypeBool), 0x01, 0x05}
	if !bytes.Equal(got, want) {
		t.Errorf("encoding = %x, want %x", got, want)
	}
	if !bytes.HasSuffix(got, []byte{byte(ArrayTypeBool), 0x01, 0x05}) {
		t.Errorf("encoding %x does not end with the packed column", got)
	}
}

func TestScalarRoundTrip(t *testing.T) {
	for _, value := range []bool{true, false} {
		if got := roundTrip(t, Bool(), value); got != value {
			t.Errorf("bool: got %v, want %v", got, value)
		}
	}
	for _, value := range []int64{0, 1, -1, 2, 127, 128, -129, math.MaxInt64, math.MinInt64} {
		if got := roundTrip(t, Int64(), value); got != value {
			t.Errorf("int64: got %d, want %d", got, value)
		}
	}
	for _, value := range []uint64{0, 1, 1 << 7, 1 << 56, math.MaxUint64} {
		if got := roundTrip(t, Uint64(), value); got != value {
			t.Errorf("uint64: got %d, want %d", got, value)
		}
	}
	for _, value := range []float64{0, -0.5, math.Pi, math.Inf(1), math.SmallestNonzeroFloat64} {
		if got := roundTrip(t, Float64(), value); got != value {
			t.Errorf("float64: got %v, want %v", got, value)
		}
	}
	if got := roundTrip(t, Float64(), math.NaN()); !math.IsNaN(got) {
		t.Errorf("float64 NaN: got %v", got)
	}
	for _, value := range []float32{0, 1.25, -3e38} {
		if got := roundTrip(t, Float32(), value); got != value {
			t.Errorf("float32: got %v, want %v", got, value)
		}
	}
	for _, value := range []string{"", "hello", "\xff\xfe not utf-8", "日本語"} {
		if got := roundTrip(t, String(), value); got != value {
			t.Errorf("string: got %q, want %q", got, value)
		}
	}
	if got := roundTrip(t, Bytes(), []byte{0, 1, 2, 0xff}); !bytes.Equal(got, []byte{0, 1, 2, 0xff}) {
		t.Errorf("bytes: got %x", got)
	}
	if got := roundTrip(t, Bytes(), nil); got != nil {
		t.Errorf("empty bytes: got %x, want nil", got)
	}
}

func TestRootIntegerEncoding(t *testing.T) {
	tests := []struct {
		value int64
		want  []byte
	}{
		{0, []byte{byte(RootTypeZero)}},
		{1, []byte{byte(RootTypeOne)}},
		{2, []byte{byte(RootTypeUint), 0x02}},
		{300, []byte{byte(RootTypeUint), 0x81, 0x2c}},
		{-1, []byte{byte(RootTypeNegInt), 0x00}},
		{-2, []byte{byte(RootTypeNegInt), 0x01}},
	}
	for _, test := range tests {
		got := Encode(Int64(), test.value)
		if !bytes.Equal(got, test.want) {
			t.Errorf("Encode(%d) = %x, want %x", test.value, got, test.want)
		}
	}
}

func TestIntegerWidthsShareRepresentation(t *testing.T) {
	data := Encode(Integer[int8](), -100)
	wide, err := Decode(Int64(), data)
	if err != nil {
		t.Fatalf("Decode as int64: %v", err)
	}
	if wide != -100 {
		t.Errorf("got %d, want -100", wide)
	}

	data = Encode(Integer[uint16](), 200)
	narrow, err := Decode(Integer[uint8](), data)
	if err != nil {
		t.Fatalf("Decode as uint8: %v", err)
	}
	if narrow != 200 {
		t.Errorf("got %d, want 200", narrow)
	}
}

func TestIntegerOverflowIsSchemaMismatch(t *testing.T) {
	tests := []struct {
		name string
		run  func() error
	}{
		{"300 into uint8", func() error {
			_, err := Decode(Integer[uint8](), Encode(Int64(), 300))
			return err
		}},
		{"-1 into uint64", func() error {
			_, err := Decode(Uint64(), Encode(Int64(), -1))
			return err
		}},
		{"MaxUint64 into int64", func() error {
			_, err := Decode(Int64(), Encode(Uint64(), math.MaxUint64))
			return err
		}},
		{"-129 into int8", func() error {
			_, err := Decode(Integer[int8](), Encode(Int64(), -129))
			return err
		}},
		{"column 256 into uint8", func() error {
			_, err := Decode(Slice(Integer[uint8]()), Encode(Slice(Int64()), []int64{1, 256}))
			return err
		}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if err := test.run(); !errors.Is(err, ErrSchemaMismatch) {
				t.Errorf("got %v, want ErrSchemaMismatch", err)
			}
		})
	}
}

func TestIntegerColumnEncodingChoice(t *testing.T) {
	tests := []struct {
		name   string
		values []int64
		want   ArrayTypeID
	}{
		{"small", []int64{1, 2, 3}, ArrayTypeUintFixed8},
		{"wide", []int64{100000, 5, 999999, 7}, ArrayTypeUintVarint},
		{"ascending", []int64{1000, 1001, 1002, 1003}, ArrayTypeUintDelta},
		{"negative", []int64{-1, 5}, ArrayTypeIntZigzag},
		{"negative ascending", []int64{-100000, -99999, -99998, -99997}, ArrayTypeIntDelta},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			data := Encode(Slice(Int64()), test.values)
			branch, err := Parse(data)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			column := branch.(RootArray).Values.(ArrayInteger)
			if column.Encoding != test.want {
				t.Errorf("encoding = %s, want %s", column.Encoding, test.want)
			}
			got, err := Decode(Slice(Int64()), data)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if !reflect.DeepEqual(got, test.values) {
				t.Errorf("got %v, want %v", got, test.values)
			}
		})
	}
}

func TestUnsignedDeltaWraps(t *testing.T) {
	values := []uint64{math.MaxUint64, 0, math.MaxUint64 - 1, math.MaxUint64, 1}
	got := roundTrip(t, Slice(Uint64()), values)
	if !reflect.DeepEqual(got, values) {
		t.Errorf("got %v, want %v", got, values)
	}
}

func TestFloatWidening(t *testing.T) {
	wide, err := Decode(Float64(), Encode(Float32(), 1.5))
	if err != nil {
		t.Fatalf("Decode F32 as float64: %v", err)
	}
	if wide != 1.5 {
		t.Errorf("got %v, want 1.5", wide)
	}

	column, err := Decode(Slice(Float64()), Encode(Slice(Float32()), []float32{0.5, -2}))
	if err != nil {
		t.Fatalf("Decode F32 column as float64: %v", err)
	}
	if !reflect.DeepEqual(column, []float64{0.5, -2}) {
		t.Errorf("got %v", column)
	}

	if _, err := Decode(Float32(), Encode(Float64(), 1.5)); !errors.Is(err, ErrSchemaMismatch) {
		t.Errorf("F64 into float32: got %v, want ErrSchemaMismatch", err)
	}
}

func TestStringColumnDictionary(t *testing.T) {
	repeated := []string{"status-ok", "status-ok", "status-ok", "status-ok",
		"status-failed", "status-ok", "status-ok", "status-ok"}
	unique := []string{"alpha", "beta", "gamma"}

	tests := []struct {
		name   string
		values []string
		want   string
	}{
		{"repetitive", repeated, "dictionary string column"},
		{"unique", unique, "string column"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			data := Encode(Slice(String()), test.values)
			branch, err := Parse(data)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if kind := branchKind(branch.(RootArray).Values); kind != test.want {
				t.Errorf("column kind = %s, want %s", kind, test.want)
			}
			got, err := Decode(Slice(String()), data)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if !reflect.DeepEqual(got, test.values) {
				t.Errorf("got %q, want %q", got, test.values)
			}
		})
	}
}

func TestSliceRoundTrip(t *testing.T) {
	if got := roundTrip(t, Slice(Int64()), nil); got != nil {
		t.Errorf("nil slice: got %v, want nil", got)
	}
	if got := roundTrip(t, Slice(Int64()), []int64{}); got != nil {
		t.Errorf("empty slice: got %v, want nil", got)
	}
	if data := Encode(Slice(Int64()), nil); !bytes.Equal(data, []byte{byte(RootTypeArray0)}) {
		t.Errorf("nil slice encoding = %x, want Array0", data)
	}

	nested := [][]string{{"a", "b"}, nil, {"c"}, {"", "d", "a"}}
	got := roundTrip(t, Slice(Slice(String())), nested)
	if !reflect.DeepEqual(got, nested) {
		t.Errorf("nested: got %q, want %q", got, nested)
	}

	blobs := [][]byte{{1, 2}, nil, {3}}
	gotBlobs := roundTrip(t, Slice(Bytes()), blobs)
	if !reflect.DeepEqual(gotBlobs, blobs) {
		t.Errorf("bytes column: got %x, want %x", gotBlobs, blobs)
	}
}

func TestPointerRoundTrip(t *testing.T) {
	if got := roundTrip(t, Pointer(Int64()), nil); got != nil {
		t.Errorf("nil pointer: got %v", *got)
	}
	if data := Encode(Pointer(Int64()), nil); !bytes.Equal(data, []byte{byte(RootTypeVoid)}) {
		t.Errorf("nil pointer encoding = %x, want Void", data)
	}
	seven := int64(7)
	if got := roundTrip(t, Pointer(Int64()), &seven); got == nil || *got != 7 {
		t.Errorf("pointer: got %v, want 7", got)
	}

	first, third := "first", "third"
	values := []*string{&first, nil, &third, nil}
	got := roundTrip(t, Slice(Pointer(String())), values)
	if len(got) != len(values) {
		t.Fatalf("got %d rows, want %d", len(got), len(values))
	}
	for row := range values {
		switch {
		case values[row] == nil && got[row] != nil:
			t.Errorf("row %d: got %q, want nil", row, *got[row])
		case values[row] != nil && (got[row] == nil || *got[row] != *values[row]):
			t.Errorf("row %d: got %v, want %q", row, got[row], *values[row])
		}
	}

	allNil := roundTrip(t, Slice(Pointer(Int64())), []*int64{nil, nil})
	if len(allNil) != 2 || allNil[0] != nil || allNil[1] != nil {
		t.Errorf("all-nil column: got %v", allNil)
	}
}

func TestPointerReadsPlainValue(t *testing.T) {
	got, err := Decode(Pointer(Int64()), Encode(Int64(), 42))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got == nil || *got != 42 {
		t.Errorf("got %v, want 42", got)
	}

	column, err := Decode(Slice(Pointer(Int64())), Encode(Slice(Int64()), []int64{1, 2}))
	if err != nil {
		t.Fatalf("Decode column: %v", err)
	}
	if len(column) != 2 || *column[0] != 1 || *column[1] != 2 {
		t.Errorf("got %v", column)
	}
}

func TestPointerPastPlainColumnEnd(t *testing.T) {
	var stream Stream
	stream.AppendByte(byte(RootTypeArrayN))
	stream.AppendVarint(3)
	stream.AppendByte(byte(ArrayTypeUintFixed8))
	stream.AppendWithLen([]byte{7, 8})

	got, err := Decode(Slice(Pointer(Uint64())), stream.Bytes())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d rows, want 3", len(got))
	}
	if got[0] == nil || *got[0] != 7 || got[1] == nil || *got[1] != 8 {
		t.Errorf("present rows: got %v, %v", got[0], got[1])
	}
	if got[2] != nil {
		t.Errorf("row past the column: got %d, want nil", *got[2])
	}
}

func TestShapeMismatch(t *testing.T) {
	if _, err := Decode(String(), Encode(Int64(), 5)); !errors.Is(err, ErrSchemaMismatch) {
		t.Errorf("int as string: got %v, want ErrSchemaMismatch", err)
	}
	if _, err := Decode(Slice(Int64()), Encode(String(), "x")); !errors.Is(err, ErrSchemaMismatch) {
		t.Errorf("string as slice: got %v, want ErrSchemaMismatch", err)
	}
	if _, err := Decode(Slice(Bool()), Encode(Slice(String()), []string{"x"})); !errors.Is(err, ErrSchemaMismatch) {
		t.Errorf("string column as bool column: got %v, want ErrSchemaMismatch", err)
	}
}

func TestDecodeRejectsTrailingAndEmptyInput(t *testing.T) {
	if _, err := Decode(Bool(), []byte{byte(RootTypeTrue), 0x00}); !errors.Is(err, ErrMalformed) {
		t.Errorf("trailing byte: got %v, want ErrMalformed", err)
	}
	if _, err := Decode(Bool(), nil); !errors.Is(err, ErrMalformed) {
		t.Errorf("empty input: got %v, want ErrMalformed", err)
	}
}

func TestTagNames(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{RootTypeVoid.String(), "Void"},
		{RootTypeNegInt.String(), "NegInt"},
		{(RootTypeObj0 + 3).String(), "Obj3"},
		{RootTypeObjN.String(), "ObjN"},
		{RootTypeID(200).String(), "RootTypeID(200)"},
		{ArrayTypeBool.String(), "Boolean"},
		{ArrayTypeObj8.String(), "Obj8"},
		{ArrayTypeEnum.String(), "Enum"},
		{ArrayTypeID(25).String(), "ArrayTypeID(25)"},
	}
	for _, test := range tests {
		if test.got != test.want {
			t.Errorf("got %q, want %q", test.got, test.want)
		}
	}
	if RootTypeID(24).Valid() || !RootTypeEnum.Valid() {
		t.Error("RootTypeID.Valid boundary wrong")
	}
	if ArrayTypeID(25).Valid() || !ArrayTypeEnum.Valid() {
		t.Error("ArrayTypeID.Valid boundary wrong")
	}
}

func TestWriteWithLenLongPayload(t *testing.T) {
	// 200 bytes needs a two-byte length header, so the payload must
	// shift right after it is written.
	payload := bytes.Repeat([]byte{0xab}, 200)
	var stream Stream
	stream.AppendByte(0x01)
	stream.WriteWithLen(func(stream *Stream) { stream.Append(payload) })

	got := stream.Bytes()
	if len(got) != 1+2+200 {
		t.Fatalf("length = %d, want 203", len(got))
	}
	if got[0] != 0x01 || got[1] != 0x80 || got[2] != 200 {
		t.Errorf("header = %x, want 01 80 c8", got[:3])
	}
	if !bytes.Equal(got[3:], payload) {
		t.Error("payload corrupted by header insertion")
	}
}

func BenchmarkEncodeIntegerColumn(b *testing.B) {
	values := make([]int64, 4096)
	for index := range values {
		values[index] = int64(index * 3)
	}
	codec := Slice(Int64())
	for b.Loop() {
		Encode(codec, values)
	}
}

func BenchmarkDecodeIntegerColumn(b *testing.B) {
	values := make([]int64, 4096)
	for index := range values {
		values[index] = int64(index * 3)
	}
	codec := Slice(Int64())
	data := Encode(codec, values)
	for b.Loop() {
		if _, err := Decode(codec, data); err != nil {
			b.Fatal(err)
		}
	}
}
