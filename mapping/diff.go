package mapping

import "github.com/emberlang/runtime/typedesc"

// Diff compares an old and a new type universe and produces the Mapping
// that migrates live allocations from one to the other (spec.md sections
// 2 and 4.6). Types are matched first by Guid (identical layout), then —
// for structs only — by Name (a layout-changing conversion); anything
// left over in old is a deletion.
//
// Diff does not itself run against a compiler's AST or HIR; it compares
// already-resolved typedesc.TypeDescriptor values, same as gc.MapMemory's
// consumer of its output does. See SPEC_FULL.md section 2 for why this
// module, rather than an external collaborator, owns this comparison.
func Diff(old, new []typedesc.TypeDescriptor) (Mapping, error) {
	newByGuid := make(map[typedesc.Guid]typedesc.TypeDescriptor, len(new))
	newStructByName := make(map[string]typedesc.TypeDescriptor)
	oldStructByGuid := make(map[typedesc.Guid]typedesc.TypeDescriptor, len(old))
	for _, t := range new {
		newByGuid[t.Guid()] = t
		if t.Kind() == typedesc.KindStruct {
			newStructByName[t.Name()] = t
		}
	}
	for _, t := range old {
		if t.Kind() == typedesc.KindStruct {
			oldStructByGuid[t.Guid()] = t
		}
	}

	conversions := make(map[typedesc.Guid]*Conversion)

	var convertStruct func(oldT typedesc.TypeDescriptor) (*Conversion, error)
	convertStruct = func(oldT typedesc.TypeDescriptor) (*Conversion, error) {
		if conv, ok := conversions[oldT.Guid()]; ok {
			return conv, nil
		}
		newT, ok := newStructByName[oldT.Name()]
		if !ok {
			return nil, nil
		}
		oldStruct, ok := oldT.AsStruct()
		if !ok {
			return nil, &DiffError{Msg: "struct-kind type " + oldT.Name() + " has no struct view"}
		}
		newStruct, ok := newT.AsStruct()
		if !ok {
			return nil, &DiffError{Msg: "struct-kind type " + newT.Name() + " has no struct view"}
		}

		conv := &Conversion{Old: oldT, New: newT}
		// Register before recursing: two struct types that reference
		// each other by gc-handle must not recurse forever.
		conversions[oldT.Guid()] = conv

		oldFieldsByName := make(map[string]typedesc.FieldDescriptor, len(oldStruct.Fields()))
		for _, f := range oldStruct.Fields() {
			oldFieldsByName[f.Name] = f
		}

		for _, nf := range newStruct.Fields() {
			of, exists := oldFieldsByName[nf.Name]
			switch {
			case !exists:
				conv.FieldMapping = append(conv.FieldMapping, FieldMapping{
					NewType:   nf.Type,
					NewOffset: nf.Offset,
					Action:    Insert{},
				})
			case of.Type.Guid() == nf.Type.Guid():
				conv.FieldMapping = append(conv.FieldMapping, FieldMapping{
					NewType:   nf.Type,
					NewOffset: nf.Offset,
					Action:    Copy{OldOffset: of.Offset},
				})
			default:
				conv.FieldMapping = append(conv.FieldMapping, FieldMapping{
					NewType:   nf.Type,
					NewOffset: nf.Offset,
					Action:    Cast{OldOffset: of.Offset, OldType: of.Type},
				})
				if of.Type.Kind() == typedesc.KindStruct && nf.Type.Kind() == typedesc.KindStruct &&
					of.Type.Name() == nf.Type.Name() {
					if _, err := convertStruct(of.Type); err != nil {
						return nil, err
					}
				}
			}
		}
		return conv, nil
	}

	m := Mapping{
		Identical:   make(map[typedesc.Guid]typedesc.TypeDescriptor),
		Conversions: conversions,
	}

	for _, t := range old {
		if newT, ok := newByGuid[t.Guid()]; ok {
			m.Identical[t.Guid()] = newT
			continue
		}
		if t.Kind() == typedesc.KindStruct {
			conv, err := convertStruct(t)
			if err != nil {
				return Mapping{}, err
			}
			if conv != nil {
				continue
			}
		}
		m.Deletions = append(m.Deletions, t)
	}

	return m, nil
}

// DiffError reports a structural problem Diff encountered while comparing
// two type universes (e.g. a struct-kind type whose AsStruct view is
// missing).
type DiffError struct {
	Msg string
}

func (e *DiffError) Error() string { return "mapping: " + e.Msg }
