// Package cast implements spec.md section 4.5's primitive cast table: a
// static registry of value-preserving scalar conversions keyed by a pair
// of type Guids, used by the memory mapper when a field's primitive type
// changes across a schema migration.
package cast

import (
	"encoding/binary"
	"math"

	"github.com/emberlang/runtime/typedesc"
)

// PrimitiveKind enumerates the built-in scalar kinds this table knows how
// to convert between. Host type descriptors for scalar types are expected
// to derive their Guid from one of these canonical names via
// typedesc.NewGuid, so that values of these kinds can participate in
// primitive casts during schema migration.
type PrimitiveKind uint8

const (
	Bool PrimitiveKind = iota
	I8
	I16
	I32
	I64
	U8
	U16
	U32
	U64
	F32
	F64
)

// canonicalName is the textual form hashed into this kind's Guid. These
// intentionally look like fully-qualified core-language type names, the
// same shape spec.md section 3 expects a canonical form to take.
func (k PrimitiveKind) canonicalName() string {
	switch k {
	case Bool:
		return "core::bool"
	case I8:
		return "core::i8"
	case I16:
		return "core::i16"
	case I32:
		return "core::i32"
	case I64:
		return "core::i64"
	case U8:
		return "core::u8"
	case U16:
		return "core::u16"
	case U32:
		return "core::u32"
	case U64:
		return "core::u64"
	case F32:
		return "core::f32"
	case F64:
		return "core::f64"
	default:
		return ""
	}
}

// Guid returns the well-known Guid for a built-in primitive kind. Host
// type descriptors for these scalar types should return this value from
// TypeDescriptor.Guid so their fields can be cast by TryCast.
func (k PrimitiveKind) Guid() typedesc.Guid {
	return typedesc.NewGuid(k.canonicalName())
}

var allKinds = []PrimitiveKind{Bool, I8, I16, I32, I64, U8, U16, U32, U64, F32, F64}

type castFunc func(dst, src []byte)

type castKey struct {
	from, to typedesc.Guid
}

var table map[castKey]castFunc

func init() {
	table = make(map[castKey]castFunc, len(allKinds)*len(allKinds))
	for _, from := range allKinds {
		for _, to := range allKinds {
			if fn := buildCast(from, to); fn != nil {
				table[castKey{from: from.Guid(), to: to.Guid()}] = fn
			}
		}
	}
}

// TryCast performs a value-preserving scalar conversion from src to dst
// when one is defined for the (from, to) Guid pair, writing the result
// into dst. It reports whether a conversion exists; when it does not, dst
// is left untouched (the caller is expected to have pre-zeroed it, per
// spec.md section 4.5).
func TryCast(from, to typedesc.Guid, dst, src []byte) bool {
	fn, ok := table[castKey{from: from, to: to}]
	if !ok {
		return false
	}
	fn(dst, src)
	return true
}

func readInt(k PrimitiveKind, src []byte) (int64, bool) {
	switch k {
	case Bool:
		return boolToInt(src[0] != 0), true
	case I8:
		return int64(int8(src[0])), true
	case I16:
		return int64(int16(binary.LittleEndian.Uint16(src))), true
	case I32:
		return int64(int32(binary.LittleEndian.Uint32(src))), true
	case I64:
		return int64(binary.LittleEndian.Uint64(src)), true
	case U8:
		return int64(src[0]), true
	case U16:
		return int64(binary.LittleEndian.Uint16(src)), true
	case U32:
		return int64(binary.LittleEndian.Uint32(src)), true
	case U64:
		return int64(binary.LittleEndian.Uint64(src)), true
	default:
		return 0, false
	}
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func readFloat(k PrimitiveKind, src []byte) (float64, bool) {
	switch k {
	case F32:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(src))), true
	case F64:
		return math.Float64frombits(binary.LittleEndian.Uint64(src)), true
	default:
		return 0, false
	}
}

func writeInt(k PrimitiveKind, dst []byte, v int64) {
	switch k {
	case Bool:
		if v != 0 {
			dst[0] = 1
		} else {
			dst[0] = 0
		}
	case I8, U8:
		dst[0] = byte(v)
	case I16, U16:
		binary.LittleEndian.PutUint16(dst, uint16(v))
	case I32, U32:
		binary.LittleEndian.PutUint32(dst, uint32(v))
	case I64, U64:
		binary.LittleEndian.PutUint64(dst, uint64(v))
	}
}

func writeFloat(k PrimitiveKind, dst []byte, v float64) {
	switch k {
	case F32:
		binary.LittleEndian.PutUint32(dst, math.Float32bits(float32(v)))
	case F64:
		binary.LittleEndian.PutUint64(dst, math.Float64bits(v))
	}
}

func isFloatKind(k PrimitiveKind) bool { return k == F32 || k == F64 }

// buildCast returns the conversion function for (from, to), or nil if the
// pair is not value-preserving-convertible (spec.md section 4.5 allows the
// table to simply have no entry for unsupported pairs).
func buildCast(from, to PrimitiveKind) castFunc {
	fromFloat := isFloatKind(from)
	toFloat := isFloatKind(to)

	switch {
	case !fromFloat && !toFloat:
		return func(dst, src []byte) {
			v, _ := readInt(from, src)
			writeInt(to, dst, v)
		}
	case fromFloat && toFloat:
		return func(dst, src []byte) {
			v, _ := readFloat(from, src)
			writeFloat(to, dst, v)
		}
	case !fromFloat && toFloat:
		return func(dst, src []byte) {
			v, _ := readInt(from, src)
			writeFloat(to, dst, float64(v))
		}
	default: // fromFloat && !toFloat
		return func(dst, src []byte) {
			v, _ := readFloat(from, src)
			writeInt(to, dst, int64(v))
		}
	}
}
