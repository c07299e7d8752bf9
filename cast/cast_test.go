package cast

import (
	"encoding/binary"
	"math"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/emberlang/runtime/typedesc"
)

func TestTryCastIntWidening(t *testing.T) {
	src := make([]byte, 4)
	binary.LittleEndian.PutUint32(src, uint32(int32(-7)))
	dst := make([]byte, 8)

	ok := TryCast(I32.Guid(), I64.Guid(), dst, src)
	assert.Assert(t, ok)
	assert.Equal(t, int64(binary.LittleEndian.Uint64(dst)), int64(-7))
}

func TestTryCastIntToFloat(t *testing.T) {
	src := make([]byte, 4)
	binary.LittleEndian.PutUint32(src, uint32(int32(42)))
	dst := make([]byte, 8)

	ok := TryCast(I32.Guid(), F64.Guid(), dst, src)
	assert.Assert(t, ok)
	got := math.Float64frombits(binary.LittleEndian.Uint64(dst))
	assert.Equal(t, got, 42.0)
}

func TestTryCastFloatToInt(t *testing.T) {
	src := make([]byte, 4)
	binary.LittleEndian.PutUint32(src, math.Float32bits(3.9))
	dst := make([]byte, 4)

	ok := TryCast(F32.Guid(), I32.Guid(), dst, src)
	assert.Assert(t, ok)
	assert.Equal(t, int32(binary.LittleEndian.Uint32(dst)), int32(3))
}

func TestTryCastUnknownPair(t *testing.T) {
	dst := []byte{0xFF}
	unknown := typedesc.NewGuid("not-a-registered-primitive")
	ok := TryCast(unknown, I32.Guid(), dst, []byte{1})
	assert.Assert(t, !ok)
	// dst is left untouched by an unsupported pair.
	assert.Equal(t, dst[0], byte(0xFF))
}

var widthOf = map[PrimitiveKind]int{
	Bool: 1, I8: 1, U8: 1,
	I16: 2, U16: 2,
	I32: 4, U32: 4, F32: 4,
	I64: 8, U64: 8, F64: 8,
}

// TestIdenticalGuidIsByteCopy covers spec.md section 8 testable property 6:
// a Cast between identical primitive GUIDs is a byte-copy.
func TestIdenticalGuidIsByteCopy(t *testing.T) {
	for _, k := range allKinds {
		src := make([]byte, widthOf[k])
		for i := range src {
			src[i] = byte(i + 1)
		}
		dst := make([]byte, len(src))
		ok := TryCast(k.Guid(), k.Guid(), dst, src)
		assert.Assert(t, ok)
		assert.DeepEqual(t, dst, src)
	}
}
