package gc

import "encoding/binary"

func init() {
	if handleSize != 8 {
		panic("gc: Handle is not 8 bytes wide on this platform")
	}
}

// putHandle encodes h as a little-endian uintptr-width integer at the
// start of buf, per SPEC_FULL.md section 4.4's payload encoding.
func putHandle(buf []byte, h Handle) {
	binary.LittleEndian.PutUint64(buf, uint64(h))
}

// getHandle decodes a Handle previously written by putHandle.
func getHandle(buf []byte) Handle {
	return Handle(binary.LittleEndian.Uint64(buf))
}
