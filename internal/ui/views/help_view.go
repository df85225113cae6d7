package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/HamStudy/vlist/internal/components/style"
)

// HelpSection is a titled group of key bindings
type HelpSection struct {
	Title    string
	Bindings []key.Binding
}

// HelpView displays help information
type HelpView struct {
	help     help.Model
	styles   *style.Manager
	sections []HelpSection
	width    int
	height   int
}

// NewHelpView creates a new help view
func NewHelpView(styles *style.Manager, sections []HelpSection) *HelpView {
	return &HelpView{
		help:     help.New(),
		styles:   styles,
		sections: sections,
	}
}

// SetSize sets the screen dimensions
func (v *HelpView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.help.Width = width
}

// View renders the help screen
func (v *HelpView) View() string {
	titleStyle := v.styles.Header().MarginBottom(1)
	sectionStyle := v.styles.Accent().Bold(true).MarginTop(1)

	var b strings.Builder
	b.WriteString(titleStyle.Render("vlist - Help"))
	b.WriteString("\n")

	for _, section := range v.sections {
		b.WriteString(sectionStyle.Render(section.Title))
		b.WriteString("\n")
		b.WriteString(v.help.FullHelpView([][]key.Binding{section.Bindings}))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Muted().Render("Press ? to close help"))

	return lipgloss.Place(
		v.width,
		v.height,
		lipgloss.Center,
		lipgloss.Center,
		b.String(),
	)
}
