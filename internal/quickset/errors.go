package quickset

import (
	"errors"
	"fmt"
)

var (
	// ErrSpanRange is returned by New when the key domain does not fit in
	// memory-addressable counters (span < 0 or span > MaxSpan).
	ErrSpanRange = errors.New("quickset: span out of range")

	// ErrHighRange is returned by New when the count ceiling exceeds the
	// widest counter or is zero (high < 1 or high > MaxHigh).
	ErrHighRange = errors.New("quickset: high out of range")

	// ErrSlotRange is returned by New, Resize and ClearSlots when the rank
	// window capacity is outside the supported range.
	ErrSlotRange = errors.New("quickset: slot out of range")

	// ErrWidthRange is returned by SelectWidth for bounds wider than 32 bits.
	ErrWidthRange = errors.New("quickset: bound exceeds 32-bit width")

	// ErrInvalidMode is returned by New for an unknown ranking discipline.
	ErrInvalidMode = errors.New("quickset: invalid mode")
)

func slotRangeError(slot, lo int) error {
	return fmt.Errorf("%w: must be in [%d, %d] but %d was requested",
		ErrSlotRange, lo, MaxSlots, slot)
}
