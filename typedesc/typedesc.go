// Package typedesc describes the capability set that the embedding host
// must provide for any type that can live on the heap the gc package
// manages: its layout, its identity, its shape, and how to find the
// handles it directly references.
//
// Nothing in this package allocates or traces memory. It only describes
// what a type looks like, the same way internal/gocore's Type and Kind
// describe a Go runtime type without themselves walking the heap.
package typedesc

import "fmt"

// Kind classifies a TypeDescriptor at the top level.
type Kind uint8

const (
	KindScalar Kind = iota
	KindStruct
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindStruct:
		return "struct"
	case KindArray:
		return "array"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// StructKind further classifies a KindStruct type, per spec.md section 3's
// "struct (with sub-kind {value, gc})".
type StructKind uint8

const (
	// StructValue types are stack-allocated: embedding one in another
	// type copies its bytes in place.
	StructValue StructKind = iota
	// StructGC types are heap-allocated: embedding one in another type
	// stores a Handle, not the bytes themselves.
	StructGC
)

func (k StructKind) String() string {
	if k == StructGC {
		return "gc"
	}
	return "value"
}

// TypeDescriptor is the read-only contract spec.md section 3 requires of
// any type the host plugs into the GC. Two TypeDescriptors describing the
// same canonical type share a Guid even if they were declared separately
// (spec.md section 3).
type TypeDescriptor interface {
	// Name is the type's declared name. Used by the schema differ to
	// recognize "the same struct" across an old and a new universe
	// (spec.md section 4.4.1, "same struct name").
	Name() string

	// Layout reports the size and alignment of one instance of this
	// type, in bytes.
	Layout() Layout

	// Guid is this type's globally unique identity, derived from a
	// canonical textual form (see NewGuid).
	Guid() Guid

	// Kind reports whether this is a scalar, struct, or array type.
	Kind() Kind

	// StructKind reports the sub-kind for KindStruct types. Calling it
	// on a non-struct type is undefined.
	StructKind() StructKind

	// IsStackAllocated reports whether values of this type are embedded
	// inline (true for scalars and value-kind structs) or represented
	// as a Handle when embedded in another object (false for gc-kind
	// structs and arrays).
	IsStackAllocated() bool

	// Trace yields, one at a time, the handles directly reachable from
	// an object of this type, given that object's raw payload bytes.
	// The sequence is finite and not restartable. Implementations
	// decode handle-valued fields out of payload at the offsets their
	// own layout defines, the same way a FieldMapping's Cast action
	// decodes them during schema migration.
	Trace(payload []byte, yield func(h HandleRef) bool)

	// AsArray returns the array view of this type, if it is one.
	AsArray() (ArrayType, bool)

	// AsStruct returns the struct view of this type, if it is one. This
	// is the extension SPEC_FULL.md section 3 adds to the base contract
	// so the schema differ can line up fields by name.
	AsStruct() (StructDescriptor, bool)
}

// HandleRef is the type-descriptor-facing view of a gc.Handle. It is
// defined here, rather than imported from the gc package, so that
// typedesc has no dependency on gc — gc depends on typedesc, not the
// other way around.
type HandleRef uintptr

// ArrayType is the capability set for KindArray TypeDescriptors.
type ArrayType interface {
	ElementType() TypeDescriptor
}

// FieldDescriptor describes one field of a struct type: its name, its
// byte offset within the struct's layout, and its type.
type FieldDescriptor struct {
	Name   string
	Offset uint64
	Type   TypeDescriptor
}

// StructDescriptor is the capability set for KindStruct TypeDescriptors
// that lets the schema differ (package mapping) compare two struct shapes
// field by field.
type StructDescriptor interface {
	Fields() []FieldDescriptor
}
