// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package treebuf

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// Style decorates the parts of a Describe rendering. Tag receives a tag
// name ("Obj2", "UintDelta"), Name a field or variant name, and Value a
// scalar rendering or size summary.
type Style interface {
	Tag(text string) string
	Name(text string) string
	Value(text string) string
}

// PlainStyle renders without decoration.
type PlainStyle struct{}

func (PlainStyle) Tag(text string) string   { return text }
func (PlainStyle) Name(text string) string  { return text }
func (PlainStyle) Value(text string) string { return text }

// Describe renders a branch tree as indented text, one branch per line.
// It needs no knowledge of the type that wrote the document.
func Describe(branch RootBranch) string {
	return DescribeWith(branch, PlainStyle{})
}

// DescribeWith is Describe with a caller-supplied Style.
func DescribeWith(branch RootBranch, style Style) string {
	d := &describer{style: style}
	d.root(branch, 0, "")
	return d.builder.String()
}

// bytesShown caps the bytes of a Bytes value printed in hex.
const bytesShown = 16

type describer struct {
	builder strings.Builder
	style   Style
}

func (d *describer) line(depth int, label, tag, value string) {
	d.builder.WriteString(strings.Repeat("  ", depth))
	if label != "" {
		d.builder.WriteString(d.style.Name(label))
		d.builder.WriteString(": ")
	}
	d.builder.WriteString(d.style.Tag(tag))
	if value != "" {
		d.builder.WriteByte(' ')
		d.builder.WriteString(d.style.Value(value))
	}
	d.builder.WriteByte('\n')
}

func (d *describer) root(branch RootBranch, depth int, label string) {
	switch branch := branch.(type) {
	case RootVoid:
		d.line(depth, label, "Void", "")
	case RootBoolean:
		d.line(depth, label, "Bool", strconv.FormatBool(branch.Value))
	case RootUint:
		d.line(depth, label, "Uint", strconv.FormatUint(branch.Value, 10))
	case RootNegInt:
		d.line(depth, label, "NegInt", strconv.FormatInt(branch.Value, 10))
	case RootFloat64:
		d.line(depth, label, "F64", strconv.FormatFloat(branch.Value, 'g', -1, 64))
	case RootFloat32:
		d.line(depth, label, "F32", strconv.FormatFloat(float64(branch.Value), 'g', -1, 32))
	case RootString:
		d.line(depth, label, "Str", strconv.Quote(branch.Value))
	case RootBytes:
		d.line(depth, label, "Bytes", describeBytes(branch.Value))
	case RootObject:
		d.line(depth, label, objectTag(len(branch.Order)), "")
		for _, name := range branch.Order {
			d.root(branch.Fields[name], depth+1, name)
		}
	case RootArray:
		if branch.Len == 0 {
			d.line(depth, label, "Array0", "")
			return
		}
		d.line(depth, label, "ArrayN", fmt.Sprintf("len=%d", branch.Len))
		d.array(branch.Values, depth+1, "")
	case RootEnum:
		d.line(depth, label, "Enum", "")
		d.root(branch.Value, depth+1, branch.Discriminant)
	}
}

func (d *describer) array(branch ArrayBranch, depth int, label string) {
	switch branch := branch.(type) {
	case ArrayVoid:
		d.line(depth, label, "Void", "")
	case ArrayBoolean:
		d.line(depth, label, "Boolean", byteCount(len(branch.Packed)))
	case ArrayInteger:
		d.line(depth, label, branch.Encoding.String(), byteCount(len(branch.Data)))
	case ArrayFloat64:
		d.line(depth, label, "F64", fmt.Sprintf("rows=%d", len(branch.Data)/8))
	case ArrayFloat32:
		d.line(depth, label, "F32", fmt.Sprintf("rows=%d", len(branch.Data)/4))
	case ArrayString:
		d.line(depth, label, "Str", byteCount(len(branch.Data)))
	case ArrayStringDict:
		d.line(depth, label, "StrDict", fmt.Sprintf("entries=%d", len(branch.Values)))
		for index, value := range branch.Values {
			d.line(depth+1, strconv.Itoa(index), "Str", strconv.Quote(value))
		}
		d.array(branch.Indices, depth+1, "indices")
	case ArrayBytes:
		d.line(depth, label, "Bytes", byteCount(len(branch.Data)))
	case ArrayObject:
		d.line(depth, label, objectTag(len(branch.Order)), "")
		for _, name := range branch.Order {
			d.array(branch.Fields[name], depth+1, name)
		}
	case ArrayNested:
		d.line(depth, label, "Nested", "")
		d.array(branch.Lengths, depth+1, "lengths")
		d.array(branch.Values, depth+1, "values")
	case ArrayNullable:
		d.line(depth, label, "Nullable", "")
		d.array(branch.Present, depth+1, "present")
		d.array(branch.Values, depth+1, "values")
	case ArrayEnum:
		d.line(depth, label, "Enum", fmt.Sprintf("variants=%d", len(branch.Order)))
		d.array(branch.Discriminants, depth+1, "discriminants")
		for _, name := range branch.Order {
			d.array(branch.Variants[name], depth+1, name)
		}
	}
}

func objectTag(arity int) string {
	if arity <= inlineArity {
		return fmt.Sprintf("Obj%d", arity)
	}
	return fmt.Sprintf("ObjN arity=%d", arity)
}

func byteCount(count int) string {
	if count == 1 {
		return "1 byte"
	}
	return fmt.Sprintf("%d bytes", count)
}

func describeBytes(data []byte) string {
	if len(data) <= bytesShown {
		return fmt.Sprintf("%s %s", byteCount(len(data)), hex.EncodeToString(data))
	}
	return fmt.Sprintf("%s %s...", byteCount(len(data)), hex.EncodeToString(data[:bytesShown]))
}
