package window

import (
	"fmt"
	"math"
)

// ComputeFixedRange returns the items to render when every item shares itemHeight.
//
// Start is the first item whose bottom edge is past scrollOffset, minus overscan.
// End covers every item that starts before the trailing edge of the viewport, plus
// overscan. Both are clamped to [0, n].
func ComputeFixedRange(scrollOffset, viewportHeight, itemHeight float64, overscan, n int) (Range, error) {
	if !validHeight(itemHeight) {
		return Range{}, fmt.Errorf("fixed item height %v: %w", itemHeight, ErrInvalidItemHeight)
	}
	if !finite(scrollOffset) || !finite(viewportHeight) {
		return Range{}, ErrInvalidViewport
	}
	if n <= 0 {
		return Range{}, nil
	}
	if overscan < 0 {
		overscan = 0
	}
	if scrollOffset < 0 {
		scrollOffset = 0
	}
	if viewportHeight < 0 {
		viewportHeight = 0
	}

	first := math.Floor(scrollOffset / itemHeight)
	last := math.Ceil((scrollOffset + viewportHeight) / itemHeight)

	// Clamp in float space; absurd offsets would overflow int
	start := clampIndex(first-float64(overscan), n)
	end := clampIndex(last+float64(overscan), n)
	return clampRange(start, end, n), nil
}

// FixedTotalHeight returns the height of the whole scrollable surface
func FixedTotalHeight(n int, itemHeight float64) (float64, error) {
	if !validHeight(itemHeight) {
		return 0, fmt.Errorf("fixed item height %v: %w", itemHeight, ErrInvalidItemHeight)
	}
	if n <= 0 {
		return 0, nil
	}
	return float64(n) * itemHeight, nil
}

// FixedItemOffset returns the top offset of item index
func FixedItemOffset(index int, itemHeight float64) float64 {
	if index <= 0 {
		return 0
	}
	return float64(index) * itemHeight
}

func clampIndex(v float64, n int) int {
	if v <= 0 {
		return 0
	}
	if v >= float64(n) {
		return n
	}
	return int(v)
}
