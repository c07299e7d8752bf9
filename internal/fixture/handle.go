package fixture

import (
	"encoding/binary"

	"github.com/emberlang/runtime/typedesc"
)

// handleSize must agree with gc's own handle width: both packages encode a
// Handle as a little-endian 8-byte integer, but fixture cannot import gc
// (gc imports typedesc, and fixture only ever produces typedesc values) so
// the encoding is duplicated rather than shared.
const handleSize = 8

func getHandle(buf []byte) uint64 {
	return binary.LittleEndian.Uint64(buf)
}

func putHandle(buf []byte, h uint64) {
	binary.LittleEndian.PutUint64(buf, h)
}

// PutHandleField writes h into s's payload at the named field's offset.
// Callers building fixture objects by hand (tests, cmd/gcshell) use this
// instead of computing offsets themselves.
func PutHandleField(s *Struct, payload []byte, fieldName string, h typedesc.HandleRef) {
	for _, f := range s.fields {
		if f.Name == fieldName {
			putHandle(payload[f.Offset:f.Offset+handleSize], uint64(h))
			return
		}
	}
	panic("fixture: no field named " + fieldName)
}

// GetHandleField reads the handle stored in the named field.
func GetHandleField(s *Struct, payload []byte, fieldName string) typedesc.HandleRef {
	for _, f := range s.fields {
		if f.Name == fieldName {
			return typedesc.HandleRef(getHandle(payload[f.Offset : f.Offset+handleSize]))
		}
	}
	panic("fixture: no field named " + fieldName)
}

// PutHandleElement writes h into the i'th element slot of a handle-element
// array's payload.
func PutHandleElement(payload []byte, i uint64, h typedesc.HandleRef) {
	off := i * handleSize
	putHandle(payload[off:off+handleSize], uint64(h))
}

// GetHandleElement reads the handle stored in the i'th element slot.
func GetHandleElement(payload []byte, i uint64) typedesc.HandleRef {
	off := i * handleSize
	return typedesc.HandleRef(getHandle(payload[off : off+handleSize]))
}
