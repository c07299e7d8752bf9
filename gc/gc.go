// Package gc implements the tracing mark-sweep collector spec.md
// sections 4.1, 4.2, 4.3, and 4.4 describe: allocation, rooting, type
// query, and collection over a table of object records, plus the
// in-place schema-migration mapper that rewrites every live allocation's
// layout when the host reloads.
//
// It is grounded on internal/gocore's object table (object.go): a single
// lock-guarded table keyed by a stable identifier, walked breadth-first
// from a root set, is exactly the shape gocore's markObjects/ForEachObject
// already use to find live objects in a Go heap — this package generalizes
// that shape to an arbitrary host-described object graph instead of one
// parsed out of a core dump.
package gc

import (
	"fmt"
	"sync"

	"github.com/emberlang/runtime/typedesc"
)

// Stats is a snapshot of the GC's resource usage, per spec.md section 6.
type Stats struct {
	AllocatedBytes uint64
}

// GC is a mark-sweep collector over a table of object records. A single
// RWMutex guards the table, matching spec.md section 5's coarse-grained
// exclusion model: every mutator (Alloc, AllocArray, Root, Unroot,
// Collect, MapMemory) takes it exclusively, and the read-only queries
// (PtrType, Stats) take it for reading.
type GC struct {
	mu       sync.RWMutex
	table    map[Handle]*record
	nextID   uintptr
	observer Observer

	allocatedBytes uint64
}

// New creates a GC that reports events to observer. A nil observer is
// replaced with NopObserver, matching MarkSweep::default's behavior in the
// teacher's Rust original.
func New(observer Observer) *GC {
	if observer == nil {
		observer = NopObserver{}
	}
	return &GC{
		table:    make(map[Handle]*record),
		observer: observer,
		nextID:   1,
	}
}

// nextHandleLocked must be called with mu held for writing.
func (g *GC) nextHandleLocked() Handle {
	h := Handle(g.nextID)
	g.nextID++
	return h
}

// Alloc allocates one scalar (non-array) object of typ and returns its
// Handle (spec.md section 4.1). It panics if typ is an array type —
// callers that need an array must use AllocArray, per that same
// precondition.
func (g *GC) Alloc(typ typedesc.TypeDescriptor) Handle {
	if _, isArray := typ.AsArray(); isArray {
		panic(fmt.Sprintf("gc: Alloc called with array type %q; use AllocArray", typ.Name()))
	}
	layout := typ.Layout()

	g.mu.Lock()
	defer g.mu.Unlock()

	h := g.nextHandleLocked()
	g.table[h] = &record{
		payload:  make([]byte, layout.Size),
		length:   1,
		capacity: 1,
		color:    colorWhite,
		typ:      typ,
	}
	g.allocatedBytes += layout.Size
	g.observer.Event(Event{Kind: EventAllocation, Handle: h})
	return h
}

// AllocArray allocates an array object of typ holding n elements and
// returns its Handle (spec.md section 4.1). typ must be an array type.
// The payload's layout follows spec.md section 4.1.1's repeat-layout
// algorithm: a stack-allocated element type gets n naturally-padded
// copies of its own layout; a heap-allocated element type gets n Handle
// slots instead.
func (g *GC) AllocArray(typ typedesc.TypeDescriptor, n uint64) (Handle, error) {
	if _, isArray := typ.AsArray(); !isArray {
		panic(fmt.Sprintf("gc: AllocArray called with non-array type %q", typ.Name()))
	}
	layout, err := arrayValueLayout(typ, n)
	if err != nil {
		return 0, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	h := g.nextHandleLocked()
	g.table[h] = &record{
		payload:  make([]byte, layout.Size),
		length:   n,
		capacity: n,
		color:    colorWhite,
		typ:      typ,
	}
	g.allocatedBytes += layout.Size
	g.observer.Event(Event{Kind: EventAllocation, Handle: h})
	return h, nil
}

// Root increments h's root count, preventing its collection until a
// matching Unroot.
func (g *GC) Root(h Handle) {
	g.mu.Lock()
	defer g.mu.Unlock()
	r, ok := g.table[h]
	if !ok {
		panic(fmt.Sprintf("gc: Root called with unknown handle %#x", uintptr(h)))
	}
	r.roots++
}

// Unroot decrements h's root count. spec.md section 7 leaves unrooting
// below zero undefined in release builds; this implementation always
// guards against it and panics, per section 9's open-question guidance
// that the reference behavior (an unsigned wraparound) is "almost
// certainly a bug" the implementer should guard against rather than
// reproduce.
func (g *GC) Unroot(h Handle) {
	g.mu.Lock()
	defer g.mu.Unlock()
	r, ok := g.table[h]
	if !ok {
		panic(fmt.Sprintf("gc: Unroot called with unknown handle %#x", uintptr(h)))
	}
	if r.roots == 0 {
		panic(fmt.Sprintf("gc: Unroot called with no outstanding roots on handle %#x", uintptr(h)))
	}
	r.roots--
}

// PtrType returns the type currently associated with h, and whether h
// names a live record.
func (g *GC) PtrType(h Handle) (typedesc.TypeDescriptor, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	r, ok := g.table[h]
	if !ok {
		return nil, false
	}
	return r.typ, true
}

// Stats returns a snapshot of the GC's resource usage.
func (g *GC) Stats() Stats {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return Stats{AllocatedBytes: g.allocatedBytes}
}
