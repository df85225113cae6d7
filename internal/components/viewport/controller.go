// Package viewport owns the mutable side of list virtualization: the scroll offset,
// the cached offset table and the render plan handed to the presentation layer.
package viewport

import (
	"errors"
	"fmt"
	"math"

	"github.com/HamStudy/vlist/internal/components/performance"
	"github.com/HamStudy/vlist/internal/window"
)

// DefaultOverscan is the number of extra items materialized on each side of the viewport
const DefaultOverscan = 5

var (
	// ErrInvalidScrollOffset is returned for NaN or infinite scroll notifications
	ErrInvalidScrollOffset = errors.New("scroll offset must be finite")

	// ErrIndexOutOfRange is returned when an item index is outside the collection
	ErrIndexOutOfRange = errors.New("item index out of range")
)

// Strategy selects how item heights are known
type Strategy int

const (
	// StrategyFixed gives every item the same height
	StrategyFixed Strategy = iota
	// StrategyVariable asks a height function for each item
	StrategyVariable
)

func (s Strategy) String() string {
	switch s {
	case StrategyFixed:
		return "fixed"
	case StrategyVariable:
		return "variable"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy maps a configuration value to a Strategy
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "fixed", "":
		return StrategyFixed, nil
	case "variable":
		return StrategyVariable, nil
	default:
		return StrategyFixed, fmt.Errorf("unknown list strategy %q", s)
	}
}

type settings struct {
	overscan int
	width    Width
	monitor  *performance.Monitor
}

// Option configures a Controller
type Option func(*settings)

// WithOverscan sets the number of extra items rendered above and below the viewport
func WithOverscan(n int) Option {
	return func(s *settings) {
		if n < 0 {
			n = 0
		}
		s.overscan = n
	}
}

// WithWidth sets the width attached to every plan entry
func WithWidth(w Width) Option {
	return func(s *settings) {
		s.width = w
	}
}

// WithMonitor records recompute and offset table timings
func WithMonitor(m *performance.Monitor) Option {
	return func(s *settings) {
		s.monitor = m
	}
}

// Controller holds the viewport state of one list and turns scroll notifications
// into render plans. A controller is owned by a single goroutine; use one per list.
type Controller[T any] struct {
	items    []T
	strategy Strategy

	itemHeight float64
	heightFn   window.HeightFunc

	scrollOffset   float64
	viewportHeight float64
	overscan       int
	width          Width
	monitor        *performance.Monitor

	// Offset table cache, keyed by collection identity and height source generation
	table      window.OffsetTable
	tableData  *T
	tableLen   int
	tableGen   uint64
	tableValid bool
	heightGen  uint64

	plan   Plan[T]
	onPlan func(Plan[T])
}

// NewFixed creates a controller for items sharing one height
func NewFixed[T any](items []T, itemHeight, viewportHeight float64, opts ...Option) *Controller[T] {
	c := newController(items, viewportHeight, opts)
	c.strategy = StrategyFixed
	c.itemHeight = itemHeight
	return c
}

// NewVariable creates a controller whose item heights come from heightFn
func NewVariable[T any](items []T, heightFn window.HeightFunc, viewportHeight float64, opts ...Option) *Controller[T] {
	c := newController(items, viewportHeight, opts)
	c.strategy = StrategyVariable
	c.heightFn = heightFn
	return c
}

func newController[T any](items []T, viewportHeight float64, opts []Option) *Controller[T] {
	s := settings{overscan: DefaultOverscan, width: DefaultWidth}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	if !isFinite(viewportHeight) || viewportHeight < 0 {
		viewportHeight = 0
	}
	return &Controller[T]{
		items:          items,
		viewportHeight: viewportHeight,
		overscan:       s.overscan,
		width:          s.width,
		monitor:        s.monitor,
	}
}

// SetOnPlan registers a callback invoked with every freshly computed plan
func (c *Controller[T]) SetOnPlan(fn func(Plan[T])) {
	c.onPlan = fn
}

// Mount computes the first plan for the current state
func (c *Controller[T]) Mount() (Plan[T], error) {
	return c.recompute()
}

// OnScroll records a scroll notification and recomputes the plan.
// Negative offsets are treated as zero.
func (c *Controller[T]) OnScroll(offset float64) (Plan[T], error) {
	if !isFinite(offset) {
		return c.plan, fmt.Errorf("%w: %v", ErrInvalidScrollOffset, offset)
	}
	if offset < 0 {
		offset = 0
	}
	c.scrollOffset = offset
	return c.recompute()
}

// ScrollBy moves the scroll offset by delta
func (c *Controller[T]) ScrollBy(delta float64) (Plan[T], error) {
	return c.OnScroll(c.scrollOffset + delta)
}

// ScrollToIndex scrolls so item index sits at the top of the viewport, as far as
// the content allows
func (c *Controller[T]) ScrollToIndex(index int) (Plan[T], error) {
	offset, err := c.OffsetForIndex(index)
	if err != nil {
		return c.plan, err
	}
	return c.OnScroll(offset)
}

// SetItems replaces the collection. A different backing array or length drops the
// cached offset table. Refilling the same backing array at the same length, e.g.
// with append(items[:0], ...), is not detected; call Invalidate after it.
func (c *Controller[T]) SetItems(items []T) (Plan[T], error) {
	c.items = items
	return c.recompute()
}

// SetHeightFunc switches to variable heights and always rebuilds the offset table
func (c *Controller[T]) SetHeightFunc(fn window.HeightFunc) (Plan[T], error) {
	c.strategy = StrategyVariable
	c.heightFn = fn
	c.heightGen++
	return c.recompute()
}

// SetItemHeight switches to fixed heights
func (c *Controller[T]) SetItemHeight(h float64) (Plan[T], error) {
	c.strategy = StrategyFixed
	c.itemHeight = h
	return c.recompute()
}

// SetViewportHeight updates the visible height
func (c *Controller[T]) SetViewportHeight(h float64) (Plan[T], error) {
	if !isFinite(h) {
		return c.plan, fmt.Errorf("viewport height %v: %w", h, window.ErrInvalidViewport)
	}
	if h < 0 {
		h = 0
	}
	c.viewportHeight = h
	return c.recompute()
}

// SetOverscan updates the overscan count
func (c *Controller[T]) SetOverscan(n int) (Plan[T], error) {
	if n < 0 {
		n = 0
	}
	c.overscan = n
	return c.recompute()
}

// SetWidth updates the width passed through to plan entries
func (c *Controller[T]) SetWidth(w Width) (Plan[T], error) {
	c.width = w
	return c.recompute()
}

// Invalidate drops the cached offset table, for callers that changed item heights
// in place, and recomputes the plan
func (c *Controller[T]) Invalidate() (Plan[T], error) {
	c.heightGen++
	c.tableValid = false
	return c.recompute()
}

// Plan returns the most recent plan
func (c *Controller[T]) Plan() Plan[T] {
	return c.plan
}

// Range returns the most recent visible range
func (c *Controller[T]) Range() window.Range {
	return c.plan.Range
}

// Items returns the current collection
func (c *Controller[T]) Items() []T {
	return c.items
}

// Len returns the collection length
func (c *Controller[T]) Len() int {
	return len(c.items)
}

// Strategy returns the active height strategy
func (c *Controller[T]) Strategy() Strategy {
	return c.strategy
}

// ScrollOffset returns the last reported scroll offset
func (c *Controller[T]) ScrollOffset() float64 {
	return c.scrollOffset
}

// ViewportHeight returns the visible height
func (c *Controller[T]) ViewportHeight() float64 {
	return c.viewportHeight
}

// Overscan returns the overscan count
func (c *Controller[T]) Overscan() int {
	return c.overscan
}

// Width returns the pass-through width
func (c *Controller[T]) Width() Width {
	return c.width
}

// TotalHeight returns the height of the scrollable content
func (c *Controller[T]) TotalHeight() (float64, error) {
	if c.strategy == StrategyFixed {
		return window.FixedTotalHeight(len(c.items), c.itemHeight)
	}
	table, err := c.offsetTable()
	if err != nil {
		return 0, err
	}
	return table.TotalHeight(), nil
}

// MaxScrollOffset returns the largest offset that still fills the viewport
func (c *Controller[T]) MaxScrollOffset() (float64, error) {
	total, err := c.TotalHeight()
	if err != nil {
		return 0, err
	}
	return math.Max(0, total-c.viewportHeight), nil
}

// ItemPosition returns where item index is placed inside the content
func (c *Controller[T]) ItemPosition(index int) (Position, error) {
	if index < 0 || index >= len(c.items) {
		return Position{}, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(c.items))
	}
	if c.strategy == StrategyFixed {
		if _, err := window.FixedTotalHeight(1, c.itemHeight); err != nil {
			return Position{}, err
		}
		return Position{
			Top:    window.FixedItemOffset(index, c.itemHeight),
			Height: c.itemHeight,
			Width:  c.width,
		}, nil
	}
	table, err := c.offsetTable()
	if err != nil {
		return Position{}, err
	}
	return Position{
		Top:    table.ItemOffset(index),
		Height: table.ItemHeight(index),
		Width:  c.width,
	}, nil
}

// OffsetForIndex returns the scroll offset that puts item index at the top of the
// viewport, clamped to the scrollable maximum
func (c *Controller[T]) OffsetForIndex(index int) (float64, error) {
	pos, err := c.ItemPosition(index)
	if err != nil {
		return 0, err
	}
	maxOffset, err := c.MaxScrollOffset()
	if err != nil {
		return 0, err
	}
	return math.Min(pos.Top, maxOffset), nil
}

func (c *Controller[T]) recompute() (Plan[T], error) {
	defer c.monitor.StartTimer(performance.MetricRecompute)()

	var (
		r        window.Range
		total    float64
		position func(i int) (top, height float64)
	)

	switch c.strategy {
	case StrategyFixed:
		var err error
		r, err = window.ComputeFixedRange(c.scrollOffset, c.viewportHeight, c.itemHeight, c.overscan, len(c.items))
		if err != nil {
			return c.plan, fmt.Errorf("failed to compute fixed range: %w", err)
		}
		total, _ = window.FixedTotalHeight(len(c.items), c.itemHeight)
		h := c.itemHeight
		position = func(i int) (float64, float64) {
			return window.FixedItemOffset(i, h), h
		}
	default:
		table, err := c.offsetTable()
		if err != nil {
			return c.plan, fmt.Errorf("failed to build offset table: %w", err)
		}
		r = window.ComputeVariableRange(c.scrollOffset, c.viewportHeight, table, c.overscan)
		total = table.TotalHeight()
		position = func(i int) (float64, float64) {
			return table.ItemOffset(i), table.ItemHeight(i)
		}
	}

	entries := make([]Entry[T], 0, r.Len())
	for i := r.Start; i < r.End; i++ {
		top, height := position(i)
		entries = append(entries, Entry[T]{
			Index: i,
			Item:  c.items[i],
			Position: Position{
				Top:    top,
				Height: height,
				Width:  c.width,
			},
		})
	}

	c.plan = Plan[T]{
		Range:          r,
		Entries:        entries,
		TotalHeight:    total,
		ScrollOffset:   c.scrollOffset,
		ViewportHeight: c.viewportHeight,
	}
	if c.onPlan != nil {
		c.onPlan(c.plan)
	}
	return c.plan, nil
}

// offsetTable returns the cached table, rebuilding it in full when the collection
// or the height source changed since the last build
func (c *Controller[T]) offsetTable() (window.OffsetTable, error) {
	data := firstElem(c.items)
	if c.tableValid && c.tableData == data && c.tableLen == len(c.items) && c.tableGen == c.heightGen {
		return c.table, nil
	}

	stop := c.monitor.StartTimer(performance.MetricOffsetTable)
	table, err := window.BuildOffsetTable(len(c.items), c.heightFn)
	stop()
	if err != nil {
		c.tableValid = false
		return window.OffsetTable{}, err
	}

	c.table = table
	c.tableData = data
	c.tableLen = len(c.items)
	c.tableGen = c.heightGen
	c.tableValid = true
	return table, nil
}

func firstElem[T any](items []T) *T {
	if len(items) == 0 {
		return nil
	}
	return &items[0]
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
