// Package vlist is a bubbletea list that only renders the entries inside the
// viewport. A viewport.Controller decides which entries those are; this package
// maps keys and the mouse wheel to scroll notifications and composes the plan's
// absolutely positioned entries into terminal rows.
package vlist

import (
	"log"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/HamStudy/vlist/internal/components/performance"
	"github.com/HamStudy/vlist/internal/components/viewport"
)

// wheelStep is the number of rows one mouse wheel notch scrolls
const wheelStep = 3

// Delegate renders the items of a list
type Delegate[T any] interface {
	// Height returns the rows item needs at the given width (variable strategy only)
	Height(item T, width int) int
	// Render returns the rows of item; rows past the item height are clipped
	Render(item T, index, width int, selected bool) []string
}

// Options configures a list. The zero value is a fixed list of one-row items
// without overscan.
type Options struct {
	Strategy   viewport.Strategy
	ItemHeight int
	Overscan   int
	Width      viewport.Width
	Monitor    *performance.Monitor
	Scrollbar  bool
}

// SelectionChangedMsg is sent when a key moves the selection
type SelectionChangedMsg struct {
	Index int
}

// Model is a virtualized list of T
type Model[T any] struct {
	ctrl     *viewport.Controller[T]
	delegate Delegate[T]
	monitor  *performance.Monitor
	keyMap   KeyMap

	width        int
	height       int
	contentWidth int
	selected     int

	scrollbar  bool
	thumbStyle lipgloss.Style
	trackStyle lipgloss.Style

	err error
}

// New creates a list over items
func New[T any](items []T, delegate Delegate[T], opts Options) *Model[T] {
	m := &Model[T]{
		delegate:   delegate,
		monitor:    opts.Monitor,
		keyMap:     DefaultKeyMap(),
		scrollbar:  opts.Scrollbar,
		thumbStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		trackStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	}

	vopts := []viewport.Option{
		viewport.WithOverscan(opts.Overscan),
		viewport.WithWidth(opts.Width),
		viewport.WithMonitor(opts.Monitor),
	}
	if opts.Strategy == viewport.StrategyVariable {
		m.ctrl = viewport.NewVariable(items, m.itemHeight, 0, vopts...)
	} else {
		m.ctrl = viewport.NewFixed(items, float64(max(opts.ItemHeight, 1)), 0, vopts...)
	}

	_, err := m.ctrl.Mount()
	m.setErr(err)
	return m
}

// itemHeight is the variable height source. It reads the current collection and
// content width, so both changes must drop the controller's cached table. A
// non-positive height is passed through and fails the table build.
func (m *Model[T]) itemHeight(index int) float64 {
	items := m.ctrl.Items()
	return float64(m.delegate.Height(items[index], m.contentWidth))
}

// SetSize sets the outer size of the list, scrollbar included
func (m *Model[T]) SetSize(width, height int) {
	m.width = max(width, 0)
	m.height = max(height, 0)

	available := m.width
	if m.scrollbar && available > 1 {
		available--
	}
	contentWidth, err := m.ctrl.Width().Resolve(available)
	if err != nil || contentWidth > available {
		contentWidth = available
	}

	widthChanged := contentWidth != m.contentWidth
	m.contentWidth = contentWidth

	_, err = m.ctrl.SetViewportHeight(float64(m.height))
	m.setErr(err)
	if widthChanged && m.ctrl.Strategy() == viewport.StrategyVariable {
		_, err = m.ctrl.Invalidate()
		m.setErr(err)
	}
	m.clampScroll()
	m.ensureVisible()
}

// SetItems replaces the collection, keeping the scroll offset where possible
func (m *Model[T]) SetItems(items []T) {
	_, err := m.ctrl.SetItems(items)
	m.setErr(err)
	m.selected = clampIndex(m.selected, len(items))
	m.clampScroll()
}

// SetStrategy switches between fixed and variable item heights
func (m *Model[T]) SetStrategy(strategy viewport.Strategy, itemHeight int) {
	var err error
	if strategy == viewport.StrategyVariable {
		_, err = m.ctrl.SetHeightFunc(m.itemHeight)
	} else {
		_, err = m.ctrl.SetItemHeight(float64(max(itemHeight, 1)))
	}
	m.setErr(err)
	m.clampScroll()
	m.ensureVisible()
}

// SetOverscan sets the number of extra entries materialized around the viewport
func (m *Model[T]) SetOverscan(n int) {
	_, err := m.ctrl.SetOverscan(n)
	m.setErr(err)
}

// SetWidth sets the content width relative to the list width
func (m *Model[T]) SetWidth(w viewport.Width) {
	_, err := m.ctrl.SetWidth(w)
	m.setErr(err)
	m.SetSize(m.width, m.height)
}

// SetScrollbarStyles sets the scrollbar thumb and track styles
func (m *Model[T]) SetScrollbarStyles(thumb, track lipgloss.Style) {
	m.thumbStyle = thumb
	m.trackStyle = track
}

// Refresh re-measures every item, for delegates whose output changed
func (m *Model[T]) Refresh() {
	if m.ctrl.Strategy() != viewport.StrategyVariable {
		return
	}
	_, err := m.ctrl.Invalidate()
	m.setErr(err)
	m.clampScroll()
}

// Select moves the selection to index and scrolls it into view
func (m *Model[T]) Select(index int) {
	m.selected = clampIndex(index, m.ctrl.Len())
	m.ensureVisible()
}

// Selected returns the selected item
func (m *Model[T]) Selected() (T, bool) {
	var zero T
	items := m.ctrl.Items()
	if m.selected < 0 || m.selected >= len(items) {
		return zero, false
	}
	return items[m.selected], true
}

// SelectedIndex returns the selected index
func (m *Model[T]) SelectedIndex() int {
	return m.selected
}

// Len returns the number of items
func (m *Model[T]) Len() int {
	return m.ctrl.Len()
}

// ContentWidth returns the width handed to the delegate
func (m *Model[T]) ContentWidth() int {
	return m.contentWidth
}

// Controller exposes the viewport controller
func (m *Model[T]) Controller() *viewport.Controller[T] {
	return m.ctrl
}

// Plan returns the current render plan
func (m *Model[T]) Plan() viewport.Plan[T] {
	return m.ctrl.Plan()
}

// Err returns the error of the last controller operation
func (m *Model[T]) Err() error {
	return m.err
}

// KeyMap returns the list key bindings
func (m *Model[T]) KeyMap() KeyMap {
	return m.keyMap
}

// Update handles key and mouse messages
func (m *Model[T]) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress {
			return nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.scrollTo(m.ctrl.ScrollOffset() - wheelStep)
		case tea.MouseButtonWheelDown:
			m.scrollTo(m.ctrl.ScrollOffset() + wheelStep)
		}
	}
	return nil
}

func (m *Model[T]) handleKey(msg tea.KeyMsg) tea.Cmd {
	n := m.ctrl.Len()
	if n == 0 {
		return nil
	}
	previous := m.selected
	viewportHeight := m.ctrl.ViewportHeight()

	switch {
	case key.Matches(msg, m.keyMap.Up):
		m.Select(m.selected - 1)
	case key.Matches(msg, m.keyMap.Down):
		m.Select(m.selected + 1)
	case key.Matches(msg, m.keyMap.PageUp):
		m.Select(m.stepTarget(-1, viewportHeight))
	case key.Matches(msg, m.keyMap.PageDown):
		m.Select(m.stepTarget(1, viewportHeight))
	case key.Matches(msg, m.keyMap.HalfPageUp):
		m.Select(m.stepTarget(-1, viewportHeight/2))
	case key.Matches(msg, m.keyMap.HalfPageDown):
		m.Select(m.stepTarget(1, viewportHeight/2))
	case key.Matches(msg, m.keyMap.Top):
		m.jumpTo(0)
	case key.Matches(msg, m.keyMap.Bottom):
		m.jumpTo(n - 1)
	default:
		return nil
	}

	if m.selected == previous {
		return nil
	}
	index := m.selected
	return func() tea.Msg {
		return SelectionChangedMsg{Index: index}
	}
}

// stepTarget returns the index reached by moving in dir over at most span rows,
// always moving at least one item
func (m *Model[T]) stepTarget(dir int, span float64) int {
	n := m.ctrl.Len()
	target := m.selected
	moved := 0.0
	for {
		next := target + dir
		if next < 0 || next >= n {
			break
		}
		pos, err := m.ctrl.ItemPosition(next)
		if err != nil {
			m.setErr(err)
			break
		}
		moved += pos.Height
		if moved > span && target != m.selected {
			break
		}
		target = next
	}
	return target
}

func (m *Model[T]) jumpTo(index int) {
	m.selected = clampIndex(index, m.ctrl.Len())
	_, err := m.ctrl.ScrollToIndex(m.selected)
	m.setErr(err)
}

// ensureVisible scrolls the minimum amount that shows the selected item. Items
// taller than the viewport are aligned to their top.
func (m *Model[T]) ensureVisible() {
	if m.ctrl.Len() == 0 {
		return
	}
	pos, err := m.ctrl.ItemPosition(m.selected)
	if err != nil {
		m.setErr(err)
		return
	}

	scroll := m.ctrl.ScrollOffset()
	viewportHeight := m.ctrl.ViewportHeight()
	switch {
	case pos.Top < scroll:
		m.scrollTo(pos.Top)
	case pos.Bottom() > scroll+viewportHeight:
		m.scrollTo(math.Min(pos.Top, pos.Bottom()-viewportHeight))
	}
}

// scrollTo reports a new scroll offset, clamped to the scrollable content
func (m *Model[T]) scrollTo(offset float64) {
	maxOffset, err := m.ctrl.MaxScrollOffset()
	if err != nil {
		m.setErr(err)
		return
	}
	offset = math.Max(0, math.Min(offset, maxOffset))
	_, err = m.ctrl.OnScroll(offset)
	m.setErr(err)
}

func (m *Model[T]) clampScroll() {
	maxOffset, err := m.ctrl.MaxScrollOffset()
	if err != nil {
		m.setErr(err)
		return
	}
	if m.ctrl.ScrollOffset() > maxOffset {
		m.scrollTo(maxOffset)
	}
}

func (m *Model[T]) setErr(err error) {
	if err != nil {
		log.Printf("vlist: %v", err)
	}
	m.err = err
}

// View renders the visible rows of the list
func (m *Model[T]) View() string {
	defer m.monitor.StartTimer(performance.MetricRender)()

	if m.height == 0 || m.width == 0 {
		return ""
	}

	plan := m.ctrl.Plan()
	scroll := math.Floor(plan.ScrollOffset)
	rows := make([]string, m.height)

	for _, entry := range plan.Entries {
		top := int(math.Floor(entry.Position.Top - scroll))
		height := int(math.Ceil(entry.Position.Height))
		// Overscan entries sit outside the rows; nothing to draw
		if top >= m.height || top+height <= 0 {
			continue
		}

		lines := m.delegate.Render(entry.Item, entry.Index, m.contentWidth, entry.Index == m.selected)
		for k := 0; k < height; k++ {
			row := top + k
			if row < 0 || row >= m.height {
				continue
			}
			if k < len(lines) {
				rows[row] = lines[k]
			}
		}
	}

	var bar []string
	if m.scrollbar && m.width > 1 {
		bar = m.scrollbarRows(plan)
	}

	gutter := m.width - m.contentWidth
	if bar != nil {
		gutter--
	}

	var b strings.Builder
	for i, row := range rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(fitLine(row, m.contentWidth))
		if gutter > 0 {
			b.WriteString(strings.Repeat(" ", gutter))
		}
		if bar != nil {
			b.WriteString(bar[i])
		}
	}
	return b.String()
}

func (m *Model[T]) scrollbarRows(plan viewport.Plan[T]) []string {
	rows := make([]string, m.height)
	start, size := scrollThumb(m.height, plan.TotalHeight, plan.ScrollOffset, plan.ViewportHeight)
	for i := range rows {
		switch {
		case size == 0:
			rows[i] = " "
		case i >= start && i < start+size:
			rows[i] = m.thumbStyle.Render("█")
		default:
			rows[i] = m.trackStyle.Render("│")
		}
	}
	return rows
}

// scrollThumb returns the first row and length of the scrollbar thumb; a zero
// length means the content fits and no bar is needed
func scrollThumb(rows int, total, offset, viewportHeight float64) (start, size int) {
	if rows <= 0 || total <= viewportHeight || total <= 0 {
		return 0, 0
	}
	size = int(math.Max(1, math.Round(float64(rows)*viewportHeight/total)))
	size = min(size, rows)

	maxOffset := total - viewportHeight
	start = int(math.Round(offset / maxOffset * float64(rows-size)))
	return max(0, min(start, rows-size)), size
}

// fitLine pads or cuts a possibly styled line to exactly width cells
func fitLine(line string, width int) string {
	w := lipgloss.Width(line)
	switch {
	case w > width:
		return truncate.String(line, uint(width))
	case w < width:
		return line + strings.Repeat(" ", width-w)
	}
	return line
}

func clampIndex(index, n int) int {
	if n == 0 || index < 0 {
		return 0
	}
	if index >= n {
		return n - 1
	}
	return index
}
