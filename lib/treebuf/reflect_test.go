// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package treebuf

import (
	"bytes"
	"errors"
	"reflect"
	"testing"
)

type level int8

type reading struct {
	Sensor   string   `treebuf:"sensor_name"`
	Level    level    // named integer type
	Values   []float64
	Raw      []byte
	Note     *string
	Internal string `treebuf:"-"`
	hidden   int
	Location *location
	Samples  []location
}

type location struct {
	Lat, Lon float32
}

func TestForRoundTrip(t *testing.T) {
	codec, err := For[reading]()
	if err != nil {
		t.Fatalf("For: %v", err)
	}

	note := "calibrated"
	original := reading{
		Sensor:   "north-7",
		Level:    -3,
		Values:   []float64{1.5, 2.25},
		Raw:      []byte{0xde, 0xad},
		Note:     &note,
		Internal: "dropped",
		hidden:   9,
		Location: &location{Lat: 1, Lon: 2},
		Samples:  []location{{3, 4}, {5, 6}},
	}
	got := roundTrip(t, codec, original)

	want := original
	want.Internal = ""
	want.hidden = 0
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}

	branch, err := Parse(Encode(codec, original))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	order := branch.(RootObject).Order
	wantOrder := []string{"sensorName", "level", "values", "raw", "note", "location", "samples"}
	if !reflect.DeepEqual(order, wantOrder) {
		t.Errorf("field order = %q, want %q", order, wantOrder)
	}
}

func TestForMatchesHandBuiltCodec(t *testing.T) {
	reflected, err := For[point]()
	if err != nil {
		t.Fatalf("For: %v", err)
	}
	value := []point{{1, 2}, {-3, 4}}
	byHand := Encode(Slice(pointCodec), value)
	byReflection := Encode(Slice(reflected), value)
	if !bytes.Equal(byHand, byReflection) {
		t.Errorf("reflection encoding %x differs from hand-built %x", byReflection, byHand)
	}
}

type linkedNode struct {
	Value string
	Next  *linkedNode
}

func TestForRecursiveType(t *testing.T) {
	codec, err := For[linkedNode]()
	if err != nil {
		t.Fatalf("For: %v", err)
	}
	list := linkedNode{Value: "a", Next: &linkedNode{Value: "b", Next: &linkedNode{Value: "c"}}}
	if got := roundTrip(t, codec, list); !reflect.DeepEqual(got, list) {
		t.Errorf("got %+v, want %+v", got, list)
	}

	forest := []linkedNode{list, {Value: "solo"}}
	if got := roundTrip(t, Slice(codec), forest); !reflect.DeepEqual(got, forest) {
		t.Errorf("got %+v, want %+v", got, forest)
	}

	reflectedTree, err := For[tree]()
	if err != nil {
		t.Fatalf("For[tree]: %v", err)
	}
	value := tree{Label: "r", Children: []tree{{Label: "x"}, {Label: "y", Children: []tree{{Label: "z"}}}}}
	if got := roundTrip(t, reflectedTree, value); !reflect.DeepEqual(got, value) {
		t.Errorf("got %+v, want %+v", got, value)
	}
}

func TestForUnsupportedTypes(t *testing.T) {
	if _, err := For[map[string]int](); !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("map: got %v, want ErrUnsupportedType", err)
	}
	type withChannel struct{ Events chan int }
	if _, err := For[withChannel](); !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("struct with channel: got %v, want ErrUnsupportedType", err)
	}
	if _, err := For[any](); !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("interface: got %v, want ErrUnsupportedType", err)
	}
}

func TestMarshalUnmarshal(t *testing.T) {
	original := recordV2{Name: "gauge", Count: -12, Tags: []string{"a", "b"}}
	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !bytes.Equal(data, Encode(recordV2Codec, original)) {
		t.Errorf("Marshal output %x differs from the hand-built codec", data)
	}

	var decoded recordV2
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !reflect.DeepEqual(decoded, original) {
		t.Errorf("got %+v, want %+v", decoded, original)
	}

	if _, err := Marshal(nil); !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("Marshal(nil): got %v, want ErrUnsupportedType", err)
	}
	if err := Unmarshal(data, decoded); !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("Unmarshal into non-pointer: got %v, want ErrUnsupportedType", err)
	}
	var wrongShape int
	if err := Unmarshal(data, &wrongShape); !errors.Is(err, ErrSchemaMismatch) {
		t.Errorf("Unmarshal into int: got %v, want ErrSchemaMismatch", err)
	}
}
