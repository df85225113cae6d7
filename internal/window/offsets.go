package window

// HeightFunc returns the height of the item at index
type HeightFunc func(index int) float64

// OffsetTable holds cumulative item heights: offsets[i] is the sum of the heights of
// items 0..i, which is where item i+1 begins. The table is immutable once built.
type OffsetTable struct {
	offsets []float64
}

// BuildOffsetTable sums the heights of n items in a single pass.
// A non-positive or non-finite height aborts the build with a *HeightError, a nil
// heightFn with ErrNilHeightFunc.
func BuildOffsetTable(n int, heightFn HeightFunc) (OffsetTable, error) {
	if n <= 0 {
		return OffsetTable{}, nil
	}
	if heightFn == nil {
		return OffsetTable{}, ErrNilHeightFunc
	}

	offsets := make([]float64, n)
	total := 0.0
	for i := 0; i < n; i++ {
		h := heightFn(i)
		if !validHeight(h) {
			return OffsetTable{}, &HeightError{Index: i, Height: h}
		}
		total += h
		offsets[i] = total
	}
	return OffsetTable{offsets: offsets}, nil
}

// Len returns the number of items covered by the table
func (t OffsetTable) Len() int {
	return len(t.offsets)
}

// TotalHeight returns the height of all items together
func (t OffsetTable) TotalHeight() float64 {
	if len(t.offsets) == 0 {
		return 0
	}
	return t.offsets[len(t.offsets)-1]
}

// ItemOffset returns where item index begins
func (t OffsetTable) ItemOffset(index int) float64 {
	if index <= 0 || len(t.offsets) == 0 {
		return 0
	}
	if index > len(t.offsets) {
		index = len(t.offsets)
	}
	return t.offsets[index-1]
}

// ItemHeight returns the height of item index, or 0 outside the table
func (t OffsetTable) ItemHeight(index int) float64 {
	if index < 0 || index >= len(t.offsets) {
		return 0
	}
	return t.offsets[index] - t.ItemOffset(index)
}

// Offsets returns a copy of the cumulative offsets
func (t OffsetTable) Offsets() []float64 {
	return append([]float64(nil), t.offsets...)
}
