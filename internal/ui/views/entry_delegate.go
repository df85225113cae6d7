package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/HamStudy/vlist/internal/catalog"
	"github.com/HamStudy/vlist/internal/components/style"
	"github.com/HamStudy/vlist/internal/components/table"
	"github.com/HamStudy/vlist/internal/template"
)

const (
	// rows are indented by the selection marker
	markerWidth = 2
	// descriptions longer than this are cut with an ellipsis
	maxDescriptionLines = 4
)

// EntryDelegate renders catalog entries for the virtual list.
//
// In card mode an entry is a title line, a meta line, the word-wrapped
// description and a blank separator, so its height depends on the width. In
// compact mode an entry is one table row followed by as much of the description
// as the fixed item height leaves room for.
type EntryDelegate struct {
	engine  *template.Engine
	styles  *style.Manager
	layout  *table.Layout
	compact bool
	wrap    bool
}

// NewEntryDelegate creates a delegate rendering with the given templates and theme
func NewEntryDelegate(engine *template.Engine, styles *style.Manager) *EntryDelegate {
	return &EntryDelegate{
		engine: engine,
		styles: styles,
		layout: table.New(EntryColumns()),
		wrap:   true,
	}
}

// EntryColumns returns the compact mode columns
func EntryColumns() []table.Column {
	return []table.Column{
		{Title: "Name", Flex: true, MinWidth: 12},
		{Title: "Type", Width: 10},
		{Title: "Access", Width: 9},
		{Title: "Price", Width: 12, Align: lipgloss.Right},
		{Title: "Size", Width: 9, Align: lipgloss.Right},
		{Title: "Rating", Width: 6, Align: lipgloss.Right},
		{Title: "Updated", Width: 14, TruncateAt: table.TruncateStart},
	}
}

// SetCompact switches between table rows and cards
func (d *EntryDelegate) SetCompact(compact bool) {
	d.compact = compact
}

// Compact reports whether entries render as table rows
func (d *EntryDelegate) Compact() bool {
	return d.compact
}

// SetWrapDescriptions controls whether descriptions wrap or stay on one line
func (d *EntryDelegate) SetWrapDescriptions(wrap bool) {
	d.wrap = wrap
}

// WrapDescriptions reports whether descriptions wrap
func (d *EntryDelegate) WrapDescriptions() bool {
	return d.wrap
}

// Header returns the column header line for compact mode, empty for cards
func (d *EntryDelegate) Header(width int) string {
	if !d.compact {
		return ""
	}
	d.layout.SetWidth(width - markerWidth)
	return strings.Repeat(" ", markerWidth) + d.styles.Header().Padding(0).Render(d.layout.Header())
}

// Height returns the rows a card needs at width
func (d *EntryDelegate) Height(entry catalog.Entry, width int) int {
	return 2 + len(d.descriptionLines(entry, width)) + 1
}

// Render returns the rows of entry
func (d *EntryDelegate) Render(entry catalog.Entry, index, width int, selected bool) []string {
	marker := strings.Repeat(" ", markerWidth)
	if selected {
		marker = d.styles.Accent().Render("▌") + " "
	}
	indent := strings.Repeat(" ", markerWidth)
	muted := d.styles.Muted()

	var lines []string
	if d.compact {
		d.layout.SetWidth(width - markerWidth)
		row := d.layout.Row(EntryCells(entry))
		if selected {
			row = d.styles.SelectedRow().Render(row)
		} else {
			row = d.styles.Row().Render(row)
		}
		lines = append(lines, marker+row)
	} else {
		title, err := d.engine.ExecuteNamed(template.TitleTemplate, entry)
		if err != nil {
			title = entry.Name
		}
		meta, err := d.engine.ExecuteNamed(template.MetaTemplate, entry)
		if err != nil {
			meta = fmt.Sprintf("%s · %s", entry.ModelType, entry.AccessType)
		}
		lines = append(lines, marker+title, indent+muted.Render(meta))
	}

	for _, line := range d.descriptionLines(entry, width) {
		lines = append(lines, indent+muted.Render(line))
	}
	if !d.compact {
		lines = append(lines, "")
	}
	return lines
}

// EntryCells returns the compact mode cell values of entry
func EntryCells(entry catalog.Entry) []string {
	return []string{
		entry.Name,
		string(entry.ModelType),
		string(entry.AccessType),
		template.FormatWei(entry.PriceWei),
		humanize.IBytes(entry.SizeBytes),
		fmt.Sprintf("%.1f", entry.Rating),
		humanize.Time(entry.UpdatedAt),
	}
}

func (d *EntryDelegate) descriptionLines(entry catalog.Entry, width int) []string {
	desc := strings.Join(strings.Fields(entry.Description), " ")
	if desc == "" {
		return nil
	}
	w := max(width-markerWidth, 1)

	if !d.wrap {
		return []string{truncate.StringWithTail(desc, uint(w), "…")}
	}

	lines := strings.Split(wordwrap.String(desc, w), "\n")
	if len(lines) > maxDescriptionLines {
		lines = lines[:maxDescriptionLines]
		last := lines[maxDescriptionLines-1]
		lines[maxDescriptionLines-1] = truncate.String(last, uint(max(w-1, 0))) + "…"
	}
	return lines
}
