// Package fixture builds concrete typedesc.TypeDescriptor values. spec.md
// deliberately leaves the type system itself out of scope — a
// TypeDescriptor is something the embedding host provides — so neither the
// gc nor mapping packages can be exercised (by tests, or by cmd/gcshell)
// without some real implementation of that contract to hand them. This
// package is that implementation: a small, in-memory type universe with
// scalar, struct, and array descriptors, in the same spirit as
// internal/gocore/type.go's Type stands in for a type the DWARF info
// describes, except here the "DWARF info" is just Go values the caller
// builds directly.
package fixture

import (
	"fmt"
	"strings"

	"github.com/emberlang/runtime/cast"
	"github.com/emberlang/runtime/typedesc"
)

// Scalar is a TypeDescriptor for one of cast's built-in primitive kinds. It
// never traces any handles and is always stack-allocated.
type Scalar struct {
	kind cast.PrimitiveKind
}

// NewScalar returns the Scalar descriptor for a built-in primitive kind.
func NewScalar(kind cast.PrimitiveKind) *Scalar {
	return &Scalar{kind: kind}
}

func (s *Scalar) Name() string {
	switch s.kind {
	case cast.Bool:
		return "bool"
	case cast.I8:
		return "i8"
	case cast.I16:
		return "i16"
	case cast.I32:
		return "i32"
	case cast.I64:
		return "i64"
	case cast.U8:
		return "u8"
	case cast.U16:
		return "u16"
	case cast.U32:
		return "u32"
	case cast.U64:
		return "u64"
	case cast.F32:
		return "f32"
	case cast.F64:
		return "f64"
	default:
		return fmt.Sprintf("scalar(%d)", s.kind)
	}
}

func (s *Scalar) Layout() typedesc.Layout {
	size := scalarSize(s.kind)
	return typedesc.Layout{Size: size, Align: size}
}

func (s *Scalar) Guid() typedesc.Guid                  { return s.kind.Guid() }
func (s *Scalar) Kind() typedesc.Kind                  { return typedesc.KindScalar }
func (s *Scalar) StructKind() typedesc.StructKind      { return typedesc.StructValue }
func (s *Scalar) IsStackAllocated() bool               { return true }
func (s *Scalar) Trace([]byte, func(typedesc.HandleRef) bool) {}
func (s *Scalar) AsArray() (typedesc.ArrayType, bool)  { return nil, false }
func (s *Scalar) AsStruct() (typedesc.StructDescriptor, bool) { return nil, false }

func scalarSize(k cast.PrimitiveKind) uint64 {
	switch k {
	case cast.Bool, cast.I8, cast.U8:
		return 1
	case cast.I16, cast.U16:
		return 2
	case cast.I32, cast.U32, cast.F32:
		return 4
	default:
		return 8
	}
}

// Field is one field of a Struct, given in declaration order. Offset is
// computed by Struct's constructor, not supplied by the caller — the same
// division of responsibility StructDescriptor.Fields documents for the
// general contract.
type Field struct {
	Name string
	Type typedesc.TypeDescriptor
}

// Struct is a TypeDescriptor for a named, ordered collection of fields,
// with a StructValue or StructGC sub-kind.
type Struct struct {
	name   string
	kind   typedesc.StructKind
	fields []typedesc.FieldDescriptor
	layout typedesc.Layout
}

// NewStruct lays fields out sequentially, each at its own natural
// alignment, and rounds the total size up to the struct's own alignment
// (the widest field alignment) — the same scheme RepeatLayout uses for
// array elements, applied here field by field instead of element by
// element.
func NewStruct(name string, kind typedesc.StructKind, fields []Field) (*Struct, error) {
	s := &Struct{name: name, kind: kind}
	var offset, align uint64 = 0, 1
	for _, f := range fields {
		fsize, falign := fieldSlot(f.Type)
		if falign > align {
			align = falign
		}
		offset = roundUp(offset, falign)
		s.fields = append(s.fields, typedesc.FieldDescriptor{
			Name:   f.Name,
			Offset: offset,
			Type:   f.Type,
		})
		offset += fsize
	}
	s.layout = typedesc.Layout{Size: roundUp(offset, align), Align: align}
	return s, nil
}

// fieldSlot is the (size, align) a field of type t occupies within its
// owning struct: t's own layout when stack-allocated, or one handle slot
// otherwise. It mirrors gc.fieldSlotSize's reasoning on the construction
// side — a struct's own layout must agree with how the mapper reads and
// writes its fields.
func fieldSlot(t typedesc.TypeDescriptor) (size, align uint64) {
	if t.IsStackAllocated() {
		l := t.Layout()
		return l.Size, l.Align
	}
	return handleSize, handleSize
}

func roundUp(size, align uint64) uint64 {
	return (size + align - 1) &^ (align - 1)
}

func (s *Struct) Name() string             { return s.name }
func (s *Struct) Layout() typedesc.Layout   { return s.layout }
func (s *Struct) Kind() typedesc.Kind       { return typedesc.KindStruct }
func (s *Struct) StructKind() typedesc.StructKind { return s.kind }
func (s *Struct) IsStackAllocated() bool    { return s.kind == typedesc.StructValue }
func (s *Struct) AsArray() (typedesc.ArrayType, bool) { return nil, false }
func (s *Struct) AsStruct() (typedesc.StructDescriptor, bool) { return s, true }

// Guid derives the struct's identity from its canonical form: its kind,
// its name, and the name+Guid of each field in order (spec.md section 3:
// "two structurally compatible but independently declared types share a
// Guid iff their canonical forms match").
func (s *Struct) Guid() typedesc.Guid {
	var b strings.Builder
	b.WriteString(s.kind.String())
	b.WriteString(" struct ")
	b.WriteString(s.name)
	b.WriteString(" {")
	for _, f := range s.fields {
		fmt.Fprintf(&b, "%s:%s;", f.Name, f.Type.Guid())
	}
	b.WriteString("}")
	return typedesc.NewGuid(b.String())
}

func (s *Struct) Fields() []typedesc.FieldDescriptor { return s.fields }

// Trace yields the handle held by every field that is not stack-allocated,
// decoding it from payload at that field's offset.
func (s *Struct) Trace(payload []byte, yield func(typedesc.HandleRef) bool) {
	for _, f := range s.fields {
		if f.Type.IsStackAllocated() {
			continue
		}
		h := typedesc.HandleRef(getHandle(payload[f.Offset : f.Offset+handleSize]))
		if !yield(h) {
			return
		}
	}
}

// Array is a TypeDescriptor for a homogeneous sequence of Element, always
// heap-allocated as a whole (its instances are always created via
// GC.AllocArray, per spec.md section 4.1).
type Array struct {
	element typedesc.TypeDescriptor
}

// NewArray returns the array-of-element descriptor. The array's own Layout
// reports a single element's repeat-layout stride (capacity 1); callers
// that need an n-element array's full size should use
// typedesc.RepeatLayout directly, the same way gc.arrayValueLayout does.
func NewArray(element typedesc.TypeDescriptor) *Array {
	return &Array{element: element}
}

func (a *Array) Name() string { return "[]" + a.element.Name() }

func (a *Array) Layout() typedesc.Layout {
	size, align := fieldSlot(a.element)
	return typedesc.Layout{Size: size, Align: align}
}

func (a *Array) Guid() typedesc.Guid {
	return typedesc.NewGuid("array<" + a.element.Guid().String() + ">")
}

func (a *Array) Kind() typedesc.Kind             { return typedesc.KindArray }
func (a *Array) StructKind() typedesc.StructKind { return typedesc.StructValue }
func (a *Array) IsStackAllocated() bool          { return false }
func (a *Array) AsStruct() (typedesc.StructDescriptor, bool) { return nil, false }
func (a *Array) AsArray() (typedesc.ArrayType, bool) { return a, true }
func (a *Array) ElementType() typedesc.TypeDescriptor { return a.element }

// Trace yields one handle per element, when the element type is itself
// heap-allocated. For a stack-allocated element, an array never holds any
// handles directly (any handles are inside the elements' own payload
// bytes, which the array's Trace does not recurse into — spec.md section
// 4.1.2 traces one object's direct references at a time, relying on the
// worklist to reach the rest).
func (a *Array) Trace(payload []byte, yield func(typedesc.HandleRef) bool) {
	if a.element.IsStackAllocated() {
		return
	}
	for off := uint64(0); off+handleSize <= uint64(len(payload)); off += handleSize {
		h := typedesc.HandleRef(getHandle(payload[off : off+handleSize]))
		if !yield(h) {
			return
		}
	}
}
