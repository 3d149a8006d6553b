package quickset

import "fmt"

// Width is the bit width of the unsigned cells backing a buffer.
type Width uint8

const (
	W8  Width = 8
	W16 Width = 16
	W32 Width = 32
)

// SelectWidth returns the narrowest width whose range covers [0, bound].
func SelectWidth(bound uint64) (Width, error) {
	switch {
	case bound < 1<<8:
		return W8, nil
	case bound < 1<<16:
		return W16, nil
	case bound < 1<<32:
		return W32, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrWidthRange, bound)
	}
}

// Bits returns the number of bits in one cell.
func (w Width) Bits() int { return int(w) }

// Bytes returns the number of bytes in one cell.
func (w Width) Bytes() int { return int(w) / 8 }

// Max returns the largest value a cell of this width can hold.
func (w Width) Max() uint64 { return 1<<uint(w) - 1 }

func (w Width) String() string { return fmt.Sprintf("uint%d", int(w)) }

// vector is a fixed-length array of unsigned cells. Values cross the
// interface as uint32 so callers never depend on the concrete width.
type vector interface {
	at(i int) uint32
	put(i int, v uint32)
	len() int
	zero()
	// shift copies cells [lo, hi) to start at dst. Cells that would land
	// past the end are dropped.
	shift(dst, lo, hi int)
	// resized returns a new vector of the same width and length n holding
	// the overlapping prefix of the receiver.
	resized(n int) vector
}

type cells[T uint8 | uint16 | uint32] []T

func (c cells[T]) at(i int) uint32       { return uint32(c[i]) }
func (c cells[T]) put(i int, v uint32)   { c[i] = T(v) }
func (c cells[T]) len() int              { return len(c) }
func (c cells[T]) zero()                 { clear(c) }
func (c cells[T]) shift(dst, lo, hi int) { copy(c[dst:], c[lo:hi]) }

func (c cells[T]) resized(n int) vector {
	d := make(cells[T], n)
	copy(d, c)
	return d
}

func newVector(w Width, n int) vector {
	switch w {
	case W8:
		return make(cells[uint8], n)
	case W16:
		return make(cells[uint16], n)
	default:
		return make(cells[uint32], n)
	}
}
