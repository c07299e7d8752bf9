package gc

import "fmt"

// InvalidReferenceError is raised when a TypeDescriptor's Trace method
// yields a handle that is not present in the allocation table. spec.md
// section 7 classifies this as fatal and un-recovered: it indicates the
// host handed the GC a corrupt object graph, not a condition the
// collector can repair. The mark phase panics with this error rather
// than returning one, mirroring object.go's own
// panic("object count wrong") invariant check in the teacher tree.
type InvalidReferenceError struct {
	Handle Handle
}

func (e *InvalidReferenceError) Error() string {
	return fmt.Sprintf("gc: trace yielded handle %#x, which is not in the allocation table", uintptr(e.Handle))
}
