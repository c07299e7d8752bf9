package typedesc

import "fmt"

// Layout describes the size and alignment, in bytes, of some memory
// region — either a single TypeDescriptor's instances (Layout itself) or
// the payload an object record owns (see the gc package's value layout).
type Layout struct {
	Size  uint64
	Align uint64
}

// LayoutErrorKind distinguishes the ways a Layout computation can fail,
// per spec.md section 7.
type LayoutErrorKind uint8

const (
	// OutOfBounds is returned when a repeat-layout multiplication would
	// overflow.
	OutOfBounds LayoutErrorKind = iota
	// Invalid is returned when the alignment/size combination itself is
	// not a valid layout (e.g. alignment not a power of two).
	Invalid
)

// LayoutError reports why a Layout could not be computed.
type LayoutError struct {
	Kind LayoutErrorKind
}

func (e *LayoutError) Error() string {
	switch e.Kind {
	case OutOfBounds:
		return "typedesc: layout size overflows"
	case Invalid:
		return "typedesc: invalid layout"
	default:
		return fmt.Sprintf("typedesc: layout error (%d)", e.Kind)
	}
}

func validAlign(align uint64) bool {
	return align != 0 && align&(align-1) == 0
}

// roundUp rounds size up to the next multiple of align. align must be a
// power of two.
func roundUp(size, align uint64) uint64 {
	return (size + align - 1) &^ (align - 1)
}

// RepeatLayout computes the layout of n contiguously repeated instances of
// elem, each padded out to elem's own alignment — spec.md section 4.1.1's
// repeat-layout algorithm, the same formula Rust's (at the time unstable)
// Layout::repeat used and that mark_sweep.rs inlines as repeat_layout.
func RepeatLayout(elem Layout, n uint64) (Layout, error) {
	if !validAlign(elem.Align) {
		return Layout{}, &LayoutError{Kind: Invalid}
	}
	stride := roundUp(elem.Size, elem.Align)
	if n != 0 && stride > (^uint64(0))/n {
		return Layout{}, &LayoutError{Kind: OutOfBounds}
	}
	total := stride * n
	return Layout{Size: total, Align: elem.Align}, nil
}
