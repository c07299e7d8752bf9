package gc

import "github.com/emberlang/runtime/typedesc"

// Collect runs one full mark-sweep pass (spec.md section 4.1.2) and
// reports whether at least one object was reclaimed. It takes the table
// lock for its entire duration: collection is not re-entrant, and a
// TypeDescriptor's Trace method must not call back into the GC.
func (g *GC) Collect() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.observer.Event(Event{Kind: EventStart})

	// Mark-roots: every record with an outstanding root is seeded into
	// the worklist. Per spec.md section 4.1.2 this "marks them Gray
	// implicitly by enqueueing" — their color field is left untouched
	// until they are actually traced.
	var worklist []*record
	for _, r := range g.table {
		if r.roots > 0 {
			worklist = append(worklist, r)
		}
	}

	for len(worklist) > 0 {
		next := worklist[0]
		worklist = worklist[1:]

		next.typ.Trace(next.payload, func(ref typedesc.HandleRef) bool {
			h := handleFromFieldRef(ref)
			target, ok := g.table[h]
			if !ok {
				panic(&InvalidReferenceError{Handle: h})
			}
			if target.color == colorWhite {
				target.color = colorGray
				worklist = append(worklist, target)
			}
			return true
		})

		next.color = colorBlack
	}

	// Sweep: anything left White (or Gray, which cannot happen once
	// tracing has drained the worklist) was not reached from a root and
	// is freed.
	freed := false
	for h, r := range g.table {
		if r.color == colorBlack {
			r.color = colorWhite
			continue
		}
		delete(g.table, h)
		size, err := valueSize(r)
		if err == nil {
			g.allocatedBytes -= size
		}
		g.observer.Event(Event{Kind: EventDeallocation, Handle: h})
		freed = true
	}

	g.observer.Event(Event{Kind: EventEnd})
	return freed
}

// valueSize is the byte size of the layout valueLayout(r.typ) describes
// for an array's capacity, or the non-array type's own layout size.
func valueSize(r *record) (uint64, error) {
	if _, ok := r.typ.AsArray(); ok {
		layout, err := arrayValueLayout(r.typ, r.capacity)
		if err != nil {
			return 0, err
		}
		return layout.Size, nil
	}
	return r.typ.Layout().Size, nil
}
