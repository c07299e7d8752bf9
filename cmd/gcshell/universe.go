package main

import (
	"sort"

	"github.com/emberlang/runtime/cast"
	"github.com/emberlang/runtime/internal/fixture"
	"github.com/emberlang/runtime/typedesc"
)

// universe is a named set of types gcshell can allocate. It stands in for
// the schema a real host would hand the GC, the same role
// internal/fixture's doc comment describes.
type universe map[string]typedesc.TypeDescriptor

// buildUniverseV1 is the schema gcshell starts up with: a couple of
// scalars, a value-kind Point, a gc-kind Node whose "next" field has a type
// also named Node, and an array of i32.
func buildUniverseV1() universe {
	i32 := fixture.NewScalar(cast.I32)
	i64 := fixture.NewScalar(cast.I64)
	f64 := fixture.NewScalar(cast.F64)
	boolT := fixture.NewScalar(cast.Bool)

	point, err := fixture.NewStruct("Point", typedesc.StructValue, []fixture.Field{
		{Name: "x", Type: i32},
		{Name: "y", Type: i32},
	})
	if err != nil {
		panic(err)
	}

	// Node's "next" field is typed by a first, one-field Node built just
	// before it: fixture.NewStruct takes already-built field types, so a
	// struct cannot name itself as a field type.
	node, err := fixture.NewStruct("Node", typedesc.StructGC, []fixture.Field{
		{Name: "value", Type: i32},
	})
	if err != nil {
		panic(err)
	}
	node, err = fixture.NewStruct("Node", typedesc.StructGC, []fixture.Field{
		{Name: "value", Type: i32},
		{Name: "next", Type: node},
	})
	if err != nil {
		panic(err)
	}

	intArray := fixture.NewArray(i32)

	return universe{
		"i32":      i32,
		"i64":      i64,
		"f64":      f64,
		"bool":     boolT,
		"Point":    point,
		"Node":     node,
		"IntArray": intArray,
	}
}

// buildUniverseV2 is the "hot reloaded" schema the map command migrates
// live allocations into: Point's fields widen from i32 to i64 and gain a
// z coordinate, and Node gains a tag field. Both changes exercise a
// different corner of mapping.Diff's output: Point's fields all need
// mapping.Cast or mapping.Insert, while Node's unchanged "next" field
// stays a mapping.Copy.
func buildUniverseV2() universe {
	i32 := fixture.NewScalar(cast.I32)
	i64 := fixture.NewScalar(cast.I64)
	f64 := fixture.NewScalar(cast.F64)
	boolT := fixture.NewScalar(cast.Bool)

	point, err := fixture.NewStruct("Point", typedesc.StructValue, []fixture.Field{
		{Name: "x", Type: i64},
		{Name: "y", Type: i64},
		{Name: "z", Type: i64},
	})
	if err != nil {
		panic(err)
	}

	node, err := fixture.NewStruct("Node", typedesc.StructGC, []fixture.Field{
		{Name: "value", Type: i32},
	})
	if err != nil {
		panic(err)
	}
	node, err = fixture.NewStruct("Node", typedesc.StructGC, []fixture.Field{
		{Name: "value", Type: i32},
		{Name: "next", Type: node},
		{Name: "tag", Type: i32},
	})
	if err != nil {
		panic(err)
	}

	intArray := fixture.NewArray(i32)

	return universe{
		"i32":      i32,
		"i64":      i64,
		"f64":      f64,
		"bool":     boolT,
		"Point":    point,
		"Node":     node,
		"IntArray": intArray,
	}
}

// types returns every TypeDescriptor in u, in a stable order, for feeding
// to mapping.Diff.
func (u universe) types() []typedesc.TypeDescriptor {
	names := make([]string, 0, len(u))
	for n := range u {
		names = append(names, n)
	}
	sort.Strings(names)
	out := make([]typedesc.TypeDescriptor, 0, len(u))
	for _, n := range names {
		out = append(out, u[n])
	}
	return out
}
