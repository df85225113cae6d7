package window

import "sort"

// ComputeVariableRange resolves the items to render from a prebuilt offset table.
//
// Start is the first item whose bottom edge is strictly past scrollOffset, minus
// overscan; when the offset is past the end of the content the range is empty at n.
// End covers every item that begins strictly before scrollOffset+viewportHeight, so an
// item starting exactly on the trailing edge is left out, plus overscan.
//
// Lookups are binary searches over the monotonic table.
func ComputeVariableRange(scrollOffset, viewportHeight float64, table OffsetTable, overscan int) Range {
	n := table.Len()
	if n == 0 {
		return Range{}
	}
	scrollOffset, edge, overscan := normalizeViewport(scrollOffset, viewportHeight, overscan)

	first := sort.Search(n, func(i int) bool { return table.offsets[i] > scrollOffset })
	// The item containing the edge starts before it, as does everything above it
	last := sort.Search(n, func(i int) bool { return table.offsets[i] >= edge })
	return variableRange(first, startedBefore(edge, last, n), overscan, n)
}

// ComputeVariableRangeLinear is ComputeVariableRange with a sequential scan. It gives
// identical results and is cheaper only for very small tables.
func ComputeVariableRangeLinear(scrollOffset, viewportHeight float64, table OffsetTable, overscan int) Range {
	n := table.Len()
	if n == 0 {
		return Range{}
	}
	scrollOffset, edge, overscan := normalizeViewport(scrollOffset, viewportHeight, overscan)

	first := n
	for i, off := range table.offsets {
		if off > scrollOffset {
			first = i
			break
		}
	}
	last := n
	for i, off := range table.offsets {
		if off >= edge {
			last = i
			break
		}
	}
	return variableRange(first, startedBefore(edge, last, n), overscan, n)
}

func normalizeViewport(scrollOffset, viewportHeight float64, overscan int) (float64, float64, int) {
	if !finite(scrollOffset) || scrollOffset < 0 {
		scrollOffset = 0
	}
	if !finite(viewportHeight) || viewportHeight < 0 {
		viewportHeight = 0
	}
	if overscan < 0 {
		overscan = 0
	}
	return scrollOffset, scrollOffset + viewportHeight, overscan
}

// startedBefore counts the items beginning strictly before edge, given the index of
// the first offset that reaches it
func startedBefore(edge float64, last, n int) int {
	if edge <= 0 {
		return 0
	}
	if last >= n {
		return n
	}
	return last + 1
}

func variableRange(first, visibleEnd, overscan, n int) Range {
	if first >= n {
		return Range{Start: n, End: n}
	}
	return clampRange(first-overscan, visibleEnd+overscan, n)
}
