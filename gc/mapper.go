package gc

import (
	"github.com/emberlang/runtime/cast"
	"github.com/emberlang/runtime/mapping"
	"github.com/emberlang/runtime/typedesc"
)

// pendingAlloc is a record created while mapping fields — by an Insert
// action or a cross-class Cast — that cannot be inserted into the table
// until the whole MapMemory pass finishes, because the table is being
// ranged over. spec.md section 4.4 calls this out explicitly: "New
// objects ... are accumulated into a deferred list and committed to the
// allocation table only after Pass 2 completes".
type pendingAlloc struct {
	handle Handle
	record *record
}

// fieldSlotSize is the number of bytes a field of type t occupies within
// its owning struct's payload: t's own layout when t is stack-allocated,
// or one Handle slot when it is not (spec.md section 3: gc-kind structs
// and arrays "are represented as handles when embedded in another
// object"). This, not TypeDescriptor.Layout's raw size, is what every
// field-level byte range in this file is measured against — a type's
// Layout describes its own standalone allocation, not its footprint as
// someone else's field.
func fieldSlotSize(t typedesc.TypeDescriptor) uint64 {
	if t.IsStackAllocated() {
		return t.Layout().Size
	}
	return handleSize
}

// MapMemory applies mapping plan m to every live allocation, migrating
// each from its old layout to its new one in place (spec.md section 4.4).
// It returns the handles whose types were deleted by m; their storage
// remains valid (so the handles themselves stay usable) until the next
// Collect sweeps them, per spec.md section 4.4's stated output contract.
func (g *GC) MapMemory(m mapping.Mapping) []Handle {
	g.mu.Lock()
	defer g.mu.Unlock()

	deletedGuids := make(map[typedesc.Guid]struct{}, len(m.Deletions))
	for _, t := range m.Deletions {
		deletedGuids[t.Guid()] = struct{}{}
	}

	var deleted []Handle
	for h, r := range g.table {
		if _, ok := deletedGuids[r.typ.Guid()]; ok {
			deleted = append(deleted, h)
		}
	}

	// Pass 1: identical types are a pure record-type swap.
	for _, r := range g.table {
		if newT, ok := m.Identical[r.typ.Guid()]; ok {
			r.typ = newT
		}
	}

	// Pass 2: converted types get a freshly allocated, field-mapped
	// payload.
	var pending []pendingAlloc
	for _, r := range g.table {
		conv, ok := m.Conversions[r.typ.Guid()]
		if !ok {
			continue
		}
		oldSize := r.typ.Layout().Size
		newPayload := make([]byte, conv.New.Layout().Size)
		g.mapFields(&pending, m.Conversions, conv.FieldMapping, r.payload, newPayload)
		r.payload = newPayload
		r.typ = conv.New
		g.allocatedBytes += conv.New.Layout().Size - oldSize
	}

	// Objects allocated while mapping fields (Insert, or a cross-class
	// Cast) are only now registered, since the loop above ranges over
	// g.table itself.
	for _, p := range pending {
		g.table[p.handle] = p.record
		g.allocatedBytes += p.record.typ.Layout().Size
		g.observer.Event(Event{Kind: EventAllocation, Handle: p.handle})
	}

	return deleted
}

// allocPendingLocked creates a zeroed, not-yet-registered record for typ
// and stages it in pending. Callers must hold g.mu for writing.
func (g *GC) allocPendingLocked(pending *[]pendingAlloc, typ typedesc.TypeDescriptor) Handle {
	h := g.nextHandleLocked()
	r := &record{
		payload:  make([]byte, typ.Layout().Size),
		length:   1,
		capacity: 1,
		color:    colorWhite,
		typ:      typ,
	}
	*pending = append(*pending, pendingAlloc{handle: h, record: r})
	return h
}

// mapFields applies an ordered FieldMapping list against (src, dst),
// dispatching each field's Action (spec.md section 4.4.1).
func (g *GC) mapFields(pending *[]pendingAlloc, conversions map[typedesc.Guid]*mapping.Conversion, fields []mapping.FieldMapping, src, dst []byte) {
	for _, fm := range fields {
		size := fieldSlotSize(fm.NewType)
		dstSlot := dst[fm.NewOffset : fm.NewOffset+size]

		switch a := fm.Action.(type) {
		case mapping.Copy:
			srcSlot := src[a.OldOffset : a.OldOffset+size]
			copy(dstSlot, srcSlot)

		case mapping.Insert:
			if fm.NewType.IsStackAllocated() {
				// dst was zero-initialized on allocation; nothing to do.
				continue
			}
			h := g.allocPendingLocked(pending, fm.NewType)
			putHandle(dstSlot, h)

		case mapping.Cast:
			g.castField(pending, conversions, fm.NewType, dstSlot, src, a)
		}
	}
}

// castField implements the eight struct-to-struct cases of spec.md
// section 4.4.1's Cast dispatch table, plus the primitive case.
func (g *GC) castField(pending *[]pendingAlloc, conversions map[typedesc.Guid]*mapping.Conversion, newType typedesc.TypeDescriptor, dstSlot, src []byte, a mapping.Cast) {
	oldType := a.OldType

	if oldType.Kind() != typedesc.KindStruct {
		srcSlot := src[a.OldOffset : a.OldOffset+fieldSlotSize(oldType)]
		if !cast.TryCast(oldType.Guid(), newType.Guid(), dstSlot, srcSlot) {
			// No conversion defined: dstSlot was already zeroed.
			return
		}
		return
	}

	sameName := oldType.Name() == newType.Name()
	var conv *mapping.Conversion
	if sameName {
		conv = conversions[oldType.Guid()]
	}

	oldStack := oldType.IsStackAllocated()
	newStack := newType.IsStackAllocated()
	srcSlot := src[a.OldOffset : a.OldOffset+fieldSlotSize(oldType)]

	switch {
	case oldStack && newStack:
		// value-struct -> value-struct.
		if sameName {
			g.mapFields(pending, conversions, conv.FieldMapping, srcSlot, dstSlot)
		}

	case oldStack && !newStack:
		// value-struct -> gc-struct.
		h := g.allocPendingLocked(pending, newType)
		newRecord := (*pending)[len(*pending)-1].record
		if sameName {
			g.mapFields(pending, conversions, conv.FieldMapping, srcSlot, newRecord.payload)
		}
		putHandle(dstSlot, h)

	case !oldStack && !newStack:
		// gc-struct -> gc-struct.
		oldHandle := getHandle(srcSlot)
		if sameName {
			// The referenced object is itself being (or will be)
			// converted in this same pass; only the handle moves.
			putHandle(dstSlot, oldHandle)
		} else {
			h := g.allocPendingLocked(pending, newType)
			putHandle(dstSlot, h)
		}

	case !oldStack && newStack:
		// gc-struct -> value-struct.
		if !sameName {
			return
		}
		oldHandle := getHandle(srcSlot)
		target, ok := g.table[oldHandle]
		if !ok {
			panic(&InvalidReferenceError{Handle: oldHandle})
		}
		if target.typ.Guid() == oldType.Guid() {
			// Not yet mapped: migrate its heap payload straight into
			// the new value slot.
			g.mapFields(pending, conversions, conv.FieldMapping, target.payload, dstSlot)
		} else {
			// Already mapped earlier in this same pass: its payload
			// is already in new-type shape, so a byte-copy suffices.
			copy(dstSlot, target.payload)
		}
	}
}
