package gc

import (
	"encoding/binary"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/emberlang/runtime/cast"
	"github.com/emberlang/runtime/internal/fixture"
	"github.com/emberlang/runtime/mapping"
	"github.com/emberlang/runtime/typedesc"
)

func fieldOffset(t *testing.T, st typedesc.StructDescriptor, name string) uint64 {
	t.Helper()
	for _, f := range st.Fields() {
		if f.Name == name {
			return f.Offset
		}
	}
	t.Fatalf("no field named %q", name)
	return 0
}

// TestMapMemoryStructSchemaMigration covers spec.md section 8 scenario S5.
func TestMapMemoryStructSchemaMigration(t *testing.T) {
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

	g := New(nil)
	h := g.Alloc(oldFoo)
	oldStruct, _ := oldFoo.AsStruct()
	payload := g.table[h].payload
	binary.LittleEndian.PutUint32(payload[fieldOffset(t, oldStruct, "a"):], 7)
	binary.LittleEndian.PutUint32(payload[fieldOffset(t, oldStruct, "b"):], 9)

	deleted := g.MapMemory(m)
	assert.Equal(t, len(deleted), 0)

	typ, ok := g.PtrType(h)
	assert.Assert(t, ok)
	assert.Equal(t, typ.Guid(), newFoo.Guid())

	newPayload := g.table[h].payload
	assert.Equal(t, binary.LittleEndian.Uint32(newPayload[0:]), uint32(9))
	assert.Equal(t, binary.LittleEndian.Uint32(newPayload[4:]), uint32(0))
}

// TestMapMemoryGcToValueDemotionAlreadyMapped covers scenario S6: Outer
// holds a gc handle to Inner; the mapping demotes Inner to a value embedded
// inline in Outer. Pass 2 visits records in the table's map iteration
// order, which is not fixed, so a run takes either the "already mapped"
// branch (Inner converted before Outer) or the "not yet mapped" branch
// (Outer first); both must leave Inner's value inline in Outer.
func TestMapMemoryGcToValueDemotionAlreadyMapped(t *testing.T) {
	i32 := fixture.NewScalar(cast.I32)
	oldInner, err := fixture.NewStruct("Inner", typedesc.StructGC, []fixture.Field{
		{Name: "v", Type: i32},
	})
	assert.NilError(t, err)
	oldOuter, err := fixture.NewStruct("Outer", typedesc.StructValue, []fixture.Field{
		{Name: "inner", Type: oldInner},
	})
	assert.NilError(t, err)

	newInner, err := fixture.NewStruct("Inner", typedesc.StructValue, []fixture.Field{
		{Name: "v", Type: i32},
	})
	assert.NilError(t, err)
	newOuter, err := fixture.NewStruct("Outer", typedesc.StructValue, []fixture.Field{
		{Name: "inner", Type: newInner},
	})
	assert.NilError(t, err)

	m, err := mapping.Diff(
		[]typedesc.TypeDescriptor{oldInner, oldOuter},
		[]typedesc.TypeDescriptor{newInner, newOuter},
	)
	assert.NilError(t, err)

	g := New(nil)
	inner := g.Alloc(oldInner)
	binary.LittleEndian.PutUint32(g.table[inner].payload, 42)

	outer := g.Alloc(oldOuter)
	fixture.PutHandleField(oldOuter, g.table[outer].payload, "inner", inner.asFieldRef())

	g.MapMemory(m)

	typ, ok := g.PtrType(outer)
	assert.Assert(t, ok)
	assert.Equal(t, typ.Guid(), newOuter.Guid())

	outerPayload := g.table[outer].payload
	assert.Equal(t, binary.LittleEndian.Uint32(outerPayload), uint32(42))
}

// TestMapMemoryIdenticalIsNoop covers property 8: a Mapping whose Identical
// lists every type and whose other sets are empty changes no payload byte,
// only the record's type pointer (to the same type, here, which is itself
// a no-op).
func TestMapMemoryIdenticalIsNoop(t *testing.T) {
	i32 := fixture.NewScalar(cast.I32)
	g := New(nil)
	h := g.Alloc(i32)
	binary.LittleEndian.PutUint32(g.table[h].payload, 123)

	before := append([]byte(nil), g.table[h].payload...)

	m := mapping.Mapping{
		Identical: map[typedesc.Guid]typedesc.TypeDescriptor{i32.Guid(): i32},
	}
	deleted := g.MapMemory(m)
	assert.Equal(t, len(deleted), 0)

	assert.DeepEqual(t, g.table[h].payload, before)
	typ, _ := g.PtrType(h)
	assert.Equal(t, typ.Guid(), i32.Guid())
}

// TestMapMemoryDeletionsReturned covers property 5: a handle whose type
// is deleted is reported, and its record is left alone (so the handle
// remains valid until the next Collect).
func TestMapMemoryDeletionsReturned(t *testing.T) {
	i32 := fixture.NewScalar(cast.I32)
	g := New(nil)
	h := g.Alloc(i32)

	m := mapping.Mapping{Deletions: []typedesc.TypeDescriptor{i32}}
	deleted := g.MapMemory(m)
	assert.DeepEqual(t, deleted, []Handle{h})

	typ, ok := g.PtrType(h)
	assert.Assert(t, ok)
	assert.Equal(t, typ.Guid(), i32.Guid())
}
