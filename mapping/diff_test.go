package mapping_test

import (
	"testing"
	"time"

	"gotest.tools/v3/assert"

	"github.com/emberlang/runtime/cast"
	"github.com/emberlang/runtime/internal/fixture"
	"github.com/emberlang/runtime/mapping"
	"github.com/emberlang/runtime/typedesc"
)

// TestDiffStructSchemaMigration covers spec.md section 8 scenario S5: Foo{a,
// b int32} becomes Foo{b, c int32}; b is unchanged (Copy), c is new
// (Insert), a disappears entirely.
func TestDiffStructSchemaMigration(t *testing.T) {
	i32 := fixture.NewScalar(cast.I32)
	oldFoo, err := fixture.NewStruct("Foo", typedesc.StructValue, []fixture.Field{
		{Name: "a", Type: i32},
		{Name: "b", Type: i32},
	})
	assert.NilError(t, err)
	newFoo, err := fixture.NewStruct("Foo", typedesc.StructValue, []fixture.Field{
		{Name: "b", Type: i32},
		{Name: "c", Type: i32},
	})
	assert.NilError(t, err)

	m, err := mapping.Diff(
		[]typedesc.TypeDescriptor{oldFoo},
		[]typedesc.TypeDescriptor{newFoo},
	)
	assert.NilError(t, err)
	assert.Equal(t, len(m.Deletions), 0)
	assert.Equal(t, len(m.Identical), 0)

	conv, ok := m.Conversions[oldFoo.Guid()]
	assert.Assert(t, ok)
	assert.Equal(t, conv.New.Guid(), newFoo.Guid())
	assert.Equal(t, len(conv.FieldMapping), 2)

	// b: Copy(old_offset=4) at new_offset=0.
	assert.DeepEqual(t, conv.FieldMapping[0].Action, mapping.Copy{OldOffset: 4})
	assert.Equal(t, conv.FieldMapping[0].NewOffset, uint64(0))

	// c: Insert at new_offset=4.
	assert.DeepEqual(t, conv.FieldMapping[1].Action, mapping.Insert{})
	assert.Equal(t, conv.FieldMapping[1].NewOffset, uint64(4))
}

// TestDiffSelfReferentialStruct ensures a gc-kind struct named Node whose
// "next" field has a type also named Node does not send convertStruct into
// infinite recursion (spec.md section 9, "Cyclic references"). fixture
// builds a struct from already-built field types, so "next" is typed by an
// earlier, one-field Node with a different Guid; Diff recurses into it by
// name.
func TestDiffSelfReferentialStruct(t *testing.T) {
	i32 := fixture.NewScalar(cast.I32)

	oldNode, err := fixture.NewStruct("Node", typedesc.StructGC, []fixture.Field{
		{Name: "value", Type: i32},
	})
	assert.NilError(t, err)
	oldNode, err = fixture.NewStruct("Node", typedesc.StructGC, []fixture.Field{
		{Name: "value", Type: i32},
		{Name: "next", Type: oldNode},
	})
	assert.NilError(t, err)

	i64 := fixture.NewScalar(cast.I64)
	newNode, err := fixture.NewStruct("Node", typedesc.StructGC, []fixture.Field{
		{Name: "value", Type: i64},
	})
	assert.NilError(t, err)
	newNode, err = fixture.NewStruct("Node", typedesc.StructGC, []fixture.Field{
		{Name: "value", Type: i64},
		{Name: "next", Type: newNode},
	})
	assert.NilError(t, err)

	done := make(chan struct{})
	var m mapping.Mapping
	var derr error
	go func() {
		m, derr = mapping.Diff(
			[]typedesc.TypeDescriptor{oldNode},
			[]typedesc.TypeDescriptor{newNode},
		)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Diff did not terminate on a self-referential struct")
	}

	assert.NilError(t, derr)
	_, ok := m.Conversions[oldNode.Guid()]
	assert.Assert(t, ok)
}

// TestDiffIdenticalUniverseIsAllIdentical covers SPEC_FULL.md's testable
// property 9: diffing a universe against itself yields no deletions and no
// conversions, only identical mappings.
func TestDiffIdenticalUniverseIsAllIdentical(t *testing.T) {
	i32 := fixture.NewScalar(cast.I32)
	point, err := fixture.NewStruct("Point", typedesc.StructValue, []fixture.Field{
		{Name: "x", Type: i32},
		{Name: "y", Type: i32},
	})
	assert.NilError(t, err)

	universe := []typedesc.TypeDescriptor{i32, point}
	m, err := mapping.Diff(universe, universe)
	assert.NilError(t, err)
	assert.Equal(t, len(m.Deletions), 0)
	assert.Equal(t, len(m.Conversions), 0)
	assert.Equal(t, len(m.Identical), 2)
	assert.Equal(t, m.Identical[i32.Guid()].Guid(), i32.Guid())
	assert.Equal(t, m.Identical[point.Guid()].Guid(), point.Guid())
}
