// Package mapping implements the schema-migration plan spec.md sections
// 4.4 and 4.6 describe: Mapping, the three disjoint classes of old types
// (deleted / identical / converted), the per-field Action a conversion
// applies, and Diff, the structural comparator that builds a Mapping from
// two type universes.
package mapping

import "github.com/emberlang/runtime/typedesc"

// Mapping is a schema-migration plan: for every old type, it says whether
// that type was deleted, is layout-identical to some new type, or needs
// conversion.
type Mapping struct {
	// Deletions holds every old type that no longer exists in the new
	// universe.
	Deletions []typedesc.TypeDescriptor

	// Identical maps an old type's Guid to the new type replacing it,
	// for types whose layout did not change (pointer/record-type swap
	// only, spec.md section 4.4 Pass 1).
	Identical map[typedesc.Guid]typedesc.TypeDescriptor

	// Conversions maps an old type's Guid to the Conversion migrating
	// it, for types whose layout changed (spec.md section 4.4 Pass 2).
	Conversions map[typedesc.Guid]*Conversion
}

// Conversion describes how to migrate one old type to its replacement: the
// new type, and an ordered list of field-by-field instructions.
type Conversion struct {
	Old, New typedesc.TypeDescriptor

	// FieldMapping is applied in order against (old payload, new
	// payload), per spec.md section 4.4.2.
	FieldMapping []FieldMapping
}

// FieldMapping is one instruction for populating a field of the new
// payload during a conversion.
type FieldMapping struct {
	NewType   typedesc.TypeDescriptor
	NewOffset uint64
	Action    Action
}

// Action is one of Copy, Insert, or Cast (spec.md section 4.4.1).
type Action interface {
	isAction()
}

// Copy byte-copies the field's slot from old_payload+OldOffset to
// new_payload+NewOffset: NewType's layout size for a stack-allocated type,
// one handle slot otherwise. Used when the field did not structurally
// change.
type Copy struct {
	OldOffset uint64
}

func (Copy) isAction() {}

// Insert leaves a stack-allocated field at its zero value (the new
// payload starts zeroed) and, for a heap-allocated field, allocates and
// registers a fresh zeroed object and writes its handle into the slot.
type Insert struct{}

func (Insert) isAction() {}

// Cast migrates an existing field of OldType to the field's NewType,
// dispatching on the eight cases spec.md section 4.4.1 enumerates.
type Cast struct {
	OldOffset uint64
	OldType   typedesc.TypeDescriptor
}

func (Cast) isAction() {}
