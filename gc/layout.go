package gc

import (
	"unsafe"

	"github.com/emberlang/runtime/typedesc"
)

// handleSize and handleLayout describe how a Handle is stored when it is
// embedded in a payload: as a slot of its own native width, naturally
// aligned. This is the "array of n handles" layout spec.md section 4.1
// describes for arrays whose element type is not stack-allocated, and the
// slot width FieldMapping's Cast/Insert actions use when writing a
// gc-struct field's handle into a payload.
const handleSize = uint64(unsafe.Sizeof(Handle(0)))

var handleLayout = typedesc.Layout{Size: handleSize, Align: handleSize}
