package gc

import "github.com/emberlang/runtime/typedesc"

// color is the mark-sweep tricolor state of a record (spec.md section 3).
type color uint8

const (
	colorWhite color = iota
	colorGray
	colorBlack
)

// record is the per-allocation metadata spec.md section 3 calls an
// ObjectRecord. Its address is never exposed directly (see handle.go);
// only the table that owns it may mutate it, and always under the GC's
// lock.
type record struct {
	// payload holds the raw bytes of the value(s) this record stores.
	// Handle-valued fields (gc-kind struct fields, and array elements
	// when the array's element type is not stack-allocated) are
	// encoded within it as little-endian uintptr-width integers. See
	// SPEC_FULL.md section 4.4 for why a byte slice, rather than a raw
	// pointer, stands in for the payload here.
	payload []byte

	length   uint64
	capacity uint64
	roots    uint32
	color    color
	typ      typedesc.TypeDescriptor
}

// valueLayout returns the layout a payload is built from — spec.md
// section 4.3. For a non-array type this is the type's own layout, which
// covers the whole payload; for an array it is the layout of one element
// (or of a handle slot, when the element is heap-allocated), which
// arrayValueLayout repeats over capacity, not length.
func valueLayout(typ typedesc.TypeDescriptor) (typedesc.Layout, error) {
	arr, ok := typ.AsArray()
	if !ok {
		return typ.Layout(), nil
	}
	elem := arr.ElementType()
	if elem.IsStackAllocated() {
		return elem.Layout(), nil
	}
	return handleLayout, nil
}

func arrayValueLayout(typ typedesc.TypeDescriptor, capacity uint64) (typedesc.Layout, error) {
	elemLayout, err := valueLayout(typ)
	if err != nil {
		return typedesc.Layout{}, err
	}
	return typedesc.RepeatLayout(elemLayout, capacity)
}
