package views

import (
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/HamStudy/vlist/internal/catalog"
	"github.com/HamStudy/vlist/internal/template"
)

// DetailView shows the selected entry as rendered markdown in a scrollable pane
type DetailView struct {
	viewport viewport.Model
	engine   *template.Engine

	renderer      *glamour.TermRenderer
	rendererWidth int
	glamourStyle  string

	entry  *catalog.Entry
	width  int
	height int
}

// NewDetailView creates a detail pane rendering the detail template
func NewDetailView(engine *template.Engine) *DetailView {
	return &DetailView{
		viewport:     viewport.New(0, 0),
		engine:       engine,
		glamourStyle: "dark",
	}
}

// SetSize sets the pane dimensions
func (v *DetailView) SetSize(width, height int) {
	v.width = max(width, 0)
	v.height = max(height, 0)
	v.viewport.Width = v.width
	v.viewport.Height = v.height
	v.refresh()
}

// SetGlamourStyle selects a glamour standard style ("dark", "light", "notty")
func (v *DetailView) SetGlamourStyle(name string) {
	if name == v.glamourStyle {
		return
	}
	v.glamourStyle = name
	v.renderer = nil
	v.refresh()
}

// SetEntry shows entry; nil clears the pane
func (v *DetailView) SetEntry(entry *catalog.Entry) {
	if entry != nil && v.entry != nil && entry.ID == v.entry.ID {
		v.entry = entry
		return
	}
	v.entry = entry
	v.refresh()
	v.viewport.GotoTop()
}

// Refresh re-renders the current entry, e.g. after the templates changed
func (v *DetailView) Refresh() {
	v.refresh()
}

// Entry returns the entry on display
func (v *DetailView) Entry() *catalog.Entry {
	return v.entry
}

// Update scrolls the pane
func (v *DetailView) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return cmd
}

// View renders the pane
func (v *DetailView) View() string {
	if v.width == 0 || v.height == 0 {
		return ""
	}
	return v.viewport.View()
}

// Markdown returns the detail template output for the current entry
func (v *DetailView) Markdown() string {
	if v.entry == nil {
		return "*Nothing selected*"
	}
	md, err := v.engine.ExecuteNamed(template.DetailTemplate, *v.entry)
	if err != nil {
		log.Printf("detail template: %v", err)
		return "# " + v.entry.Name + "\n\n" + v.entry.Description
	}
	return md
}

func (v *DetailView) refresh() {
	if v.width == 0 {
		return
	}
	md := v.Markdown()

	content := md
	if r := v.termRenderer(); r != nil {
		if out, err := r.Render(md); err == nil {
			content = strings.Trim(out, "\n")
		} else {
			log.Printf("detail render: %v", err)
		}
	}
	v.viewport.SetContent(content)
}

// termRenderer returns a glamour renderer wrapping at the pane width
func (v *DetailView) termRenderer() *glamour.TermRenderer {
	if v.renderer != nil && v.rendererWidth == v.width {
		return v.renderer
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(v.glamourStyle),
		glamour.WithWordWrap(max(v.width-2, 10)),
	)
	if err != nil {
		log.Printf("detail renderer: %v", err)
		return nil
	}
	v.renderer = r
	v.rendererWidth = v.width
	return r
}
