package table

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"
)

// Truncation modes for Column.TruncateAt
const (
	TruncateEnd    = "end"
	TruncateMiddle = "middle"
	TruncateStart  = "start"
)

const ellipsis = "…"

// Column represents a table column configuration
type Column struct {
	Title      string
	Width      int
	MinWidth   int
	MaxWidth   int
	Flex       bool // If true, column can expand to fill available space
	Align      lipgloss.Position
	TruncateAt string // Where to truncate: "end", "middle", "start"
}

// Layout lays out single-line rows as fixed columns separated by one space.
// Cell widths are measured in terminal cells, so wide runes keep columns aligned.
type Layout struct {
	columns []Column
	widths  []int
	width   int
}

// New creates a layout for the given columns
func New(columns []Column) *Layout {
	l := &Layout{columns: columns}
	l.calculateColumnWidths()
	return l
}

// SetWidth sets the total width available to a row
func (l *Layout) SetWidth(width int) {
	if width < 0 {
		width = 0
	}
	if width == l.width && l.widths != nil {
		return
	}
	l.width = width
	l.calculateColumnWidths()
}

// Width returns the total row width
func (l *Layout) Width() int {
	return l.width
}

// Columns returns the column configuration
func (l *Layout) Columns() []Column {
	return l.columns
}

// ColumnWidths returns the calculated width of every column
func (l *Layout) ColumnWidths() []int {
	out := make([]int, len(l.widths))
	copy(out, l.widths)
	return out
}

// Header renders the column titles
func (l *Layout) Header() string {
	titles := make([]string, len(l.columns))
	for i, col := range l.columns {
		titles[i] = col.Title
	}
	return l.Row(titles)
}

// Row renders one line of cell values. Missing values render as blanks and
// the result is exactly Width cells wide.
func (l *Layout) Row(values []string) string {
	if l.width == 0 || len(l.columns) == 0 {
		return ""
	}

	cells := make([]string, 0, len(l.columns))
	for i, col := range l.columns {
		width := l.widths[i]
		if width <= 0 {
			continue
		}
		text := ""
		if i < len(values) {
			text = values[i]
		}
		cells = append(cells, alignCell(truncateCell(text, width, col.TruncateAt), width, col.Align))
	}

	return fit(strings.Join(cells, " "), l.width)
}

// truncateCell shortens text to width cells, marking the cut with an ellipsis
func truncateCell(text string, width int, at string) string {
	if runewidth.StringWidth(text) <= width {
		return text
	}
	if width <= 1 {
		return runewidth.Truncate(ellipsis, width, "")
	}

	switch at {
	case TruncateMiddle:
		if width > 3 {
			head := (width - 1) / 2
			tail := width - 1 - head
			return runewidth.Truncate(text, head, "") + ellipsis + lastCells(text, tail)
		}
	case TruncateStart:
		return ellipsis + lastCells(text, width-1)
	}
	return truncate.StringWithTail(text, uint(width), ellipsis)
}

// lastCells returns the longest suffix of text that fits in width cells
func lastCells(text string, width int) string {
	runes := []rune(text)
	used := 0
	start := len(runes)
	for start > 0 {
		w := runewidth.RuneWidth(runes[start-1])
		if used+w > width {
			break
		}
		used += w
		start--
	}
	return string(runes[start:])
}

func alignCell(text string, width int, align lipgloss.Position) string {
	switch align {
	case lipgloss.Right:
		return runewidth.FillLeft(text, width)
	case lipgloss.Center:
		pad := width - runewidth.StringWidth(text)
		if pad <= 0 {
			return text
		}
		return strings.Repeat(" ", pad/2) + runewidth.FillRight(text, width-pad/2)
	default:
		return runewidth.FillRight(text, width)
	}
}

// fit pads or cuts a line to exactly width cells
func fit(line string, width int) string {
	if runewidth.StringWidth(line) > width {
		line = runewidth.Truncate(line, width, "")
	}
	return runewidth.FillRight(line, width)
}

func (l *Layout) calculateColumnWidths() {
	l.widths = make([]int, len(l.columns))
	if len(l.columns) == 0 {
		return
	}

	totalFixed := 0
	flexCount := 0

	// Fixed widths first, counting flex columns
	for i, col := range l.columns {
		switch {
		case col.Width > 0:
			width := col.Width
			if col.MaxWidth > 0 && width > col.MaxWidth {
				width = col.MaxWidth
			}
			if col.MinWidth > 0 && width < col.MinWidth {
				width = col.MinWidth
			}
			l.widths[i] = width
			totalFixed += width
		case col.Flex:
			flexCount++
			l.widths[i] = max(col.MinWidth, 1)
		default:
			width := col.MinWidth
			if width == 0 {
				width = 10 // Default minimum
			}
			l.widths[i] = width
			totalFixed += width
		}
	}

	if flexCount == 0 {
		return
	}

	separators := len(l.columns) - 1
	available := l.width - totalFixed - separators

	totalMin := 0
	for i, col := range l.columns {
		if col.Flex && col.Width == 0 {
			totalMin += l.widths[i]
		}
	}

	switch {
	case available > totalMin:
		// Hand out the extra space one round at a time so capped columns
		// pass their share on to the others
		remaining := available - totalMin
		open := flexCount
		for pass := 0; pass < flexCount && remaining > 0 && open > 0; pass++ {
			share := remaining / open
			extra := remaining % open
			for i, col := range l.columns {
				if !col.Flex || col.Width != 0 || remaining <= 0 {
					continue
				}
				if col.MaxWidth > 0 && l.widths[i] >= col.MaxWidth {
					continue
				}
				add := share
				if extra > 0 {
					add++
					extra--
				}
				next := l.widths[i] + add
				if col.MaxWidth > 0 && next >= col.MaxWidth {
					add = col.MaxWidth - l.widths[i]
					next = col.MaxWidth
					open--
				}
				l.widths[i] = next
				remaining -= add
			}
		}
	case available < totalMin:
		// Not enough room for the minimums: shrink proportionally
		for i, col := range l.columns {
			if !col.Flex || col.Width != 0 {
				continue
			}
			if available <= 0 {
				l.widths[i] = 1
				continue
			}
			l.widths[i] = max(1, available*l.widths[i]/totalMin)
		}
	}
}
