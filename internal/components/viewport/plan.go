package viewport

import "github.com/HamStudy/vlist/internal/window"

// Position places one entry absolutely inside the scroll container
type Position struct {
	Top    float64
	Left   float64
	Height float64
	Width  Width
}

// Bottom returns where the entry ends
func (p Position) Bottom() float64 {
	return p.Top + p.Height
}

// Entry is one materialized item of a render plan
type Entry[T any] struct {
	Index    int
	Item     T
	Position Position
}

// Plan is the result of one recomputation. It is rebuilt from scratch on every
// scroll notification; nothing diffs it against the previous plan.
type Plan[T any] struct {
	Range          window.Range
	Entries        []Entry[T]
	TotalHeight    float64
	ScrollOffset   float64
	ViewportHeight float64
}

// Empty reports whether the plan materializes nothing
func (p Plan[T]) Empty() bool {
	return len(p.Entries) == 0
}

// Lookup returns the entry for index if it is part of the plan
func (p Plan[T]) Lookup(index int) (Entry[T], bool) {
	if !p.Range.Contains(index) {
		return Entry[T]{}, false
	}
	i := index - p.Range.Start
	if i < 0 || i >= len(p.Entries) {
		return Entry[T]{}, false
	}
	return p.Entries[i], true
}

// Node pairs a rendered item with its absolute position
type Node[N any] struct {
	Index    int
	Node     N
	Position Position
}

// RenderFunc turns one plan entry into a presentation node
type RenderFunc[T, N any] func(item T, index int, pos Position) N

// Render runs fn over every entry of the plan in index order
func Render[T, N any](plan Plan[T], fn RenderFunc[T, N]) []Node[N] {
	if fn == nil || len(plan.Entries) == 0 {
		return nil
	}
	nodes := make([]Node[N], 0, len(plan.Entries))
	for _, entry := range plan.Entries {
		nodes = append(nodes, Node[N]{
			Index:    entry.Index,
			Node:     fn(entry.Item, entry.Index, entry.Position),
			Position: entry.Position,
		})
	}
	return nodes
}
