// Package window computes which items of a virtualized list must be materialized
// for a scrollable viewport, and where each of them is positioned.
//
// Everything in this package is a pure function of its inputs. Mutable scroll state
// and cached offset tables live in the viewport controller.
package window

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidItemHeight is returned when an item height is zero, negative, NaN or infinite
	ErrInvalidItemHeight = errors.New("item height must be a finite positive number")

	// ErrNilHeightFunc is returned when a variable height table is built without a height source
	ErrNilHeightFunc = fmt.Errorf("nil height function: %w", ErrInvalidItemHeight)

	// ErrInvalidViewport is returned when the scroll offset or viewport height is not finite
	ErrInvalidViewport = errors.New("scroll offset and viewport height must be finite")
)

// HeightError reports the item whose height broke the offset table
type HeightError struct {
	Index  int
	Height float64
}

func (e *HeightError) Error() string {
	return fmt.Sprintf("item %d: invalid height %v: %v", e.Index, e.Height, ErrInvalidItemHeight)
}

// Unwrap lets errors.Is match ErrInvalidItemHeight
func (e *HeightError) Unwrap() error {
	return ErrInvalidItemHeight
}

// Range is a half-open index range [Start, End) of items to materialize
type Range struct {
	Start int
	End   int
}

// Len returns the number of items in the range
func (r Range) Len() int {
	if r.End <= r.Start {
		return 0
	}
	return r.End - r.Start
}

// Empty reports whether the range materializes nothing
func (r Range) Empty() bool {
	return r.Len() == 0
}

// Contains reports whether index falls inside the range
func (r Range) Contains(index int) bool {
	return index >= r.Start && index < r.End
}

func (r Range) String() string {
	return fmt.Sprintf("[%d, %d)", r.Start, r.End)
}

func validHeight(h float64) bool {
	return h > 0 && !math.IsInf(h, 0) && !math.IsNaN(h)
}

func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}

// clampRange enforces 0 <= start <= end <= n
func clampRange(start, end, n int) Range {
	if n < 0 {
		n = 0
	}
	if start < 0 {
		start = 0
	}
	if start > n {
		start = n
	}
	if end > n {
		end = n
	}
	if end < start {
		end = start
	}
	return Range{Start: start, End: end}
}
