package dropdown

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/HamStudy/vlist/internal/window"
)

// Option represents a dropdown option
type Option[V comparable] struct {
	Label string
	Value V
}

// Model represents the dropdown component
type Model[V comparable] struct {
	options []Option[V]

	// State
	selectedIndex int
	isOpen        bool
	width         int
	height        int

	// Styling
	selectedStyle   lipgloss.Style
	unselectedStyle lipgloss.Style
	borderStyle     lipgloss.Style
	titleStyle      lipgloss.Style
	hintStyle       lipgloss.Style

	title string

	keyMap KeyMap
}

// KeyMap defines the key bindings for the dropdown
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Escape key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// New creates a new dropdown model
func New[V comparable](options []Option[V]) Model[V] {
	return Model[V]{
		options:         options,
		width:           30,
		height:          10,
		selectedStyle:   lipgloss.NewStyle().Background(lipgloss.Color("57")).Foreground(lipgloss.Color("229")),
		unselectedStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		borderStyle:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")),
		titleStyle:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")),
		hintStyle:       lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		keyMap:          DefaultKeyMap(),
	}
}

// SetOptions updates the dropdown options
func (m *Model[V]) SetOptions(options []Option[V]) {
	m.options = options
	if m.selectedIndex >= len(options) {
		m.selectedIndex = 0
	}
}

// SetTitle sets the dropdown title
func (m *Model[V]) SetTitle(title string) {
	m.title = title
}

// SetSize sets the dropdown dimensions
func (m *Model[V]) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetStyles replaces the option and frame styles, typically from the active theme
func (m *Model[V]) SetStyles(selected, unselected, border, title lipgloss.Style) {
	m.selectedStyle = selected
	m.unselectedStyle = unselected
	m.borderStyle = border
	m.titleStyle = title
}

// Open opens the dropdown
func (m *Model[V]) Open() {
	m.isOpen = true
}

// Close closes the dropdown
func (m *Model[V]) Close() {
	m.isOpen = false
}

// IsOpen returns whether the dropdown is open
func (m Model[V]) IsOpen() bool {
	return m.isOpen
}

// SelectedOption returns the currently highlighted option
func (m Model[V]) SelectedOption() (Option[V], bool) {
	if m.selectedIndex >= 0 && m.selectedIndex < len(m.options) {
		return m.options[m.selectedIndex], true
	}
	return Option[V]{}, false
}

// SelectedIndex returns the currently highlighted index
func (m Model[V]) SelectedIndex() int {
	return m.selectedIndex
}

// SetSelectedIndex sets the highlighted index
func (m *Model[V]) SetSelectedIndex(index int) {
	if index >= 0 && index < len(m.options) {
		m.selectedIndex = index
	}
}

// SetSelectedValue highlights the option holding value
func (m *Model[V]) SetSelectedValue(value V) {
	for i, option := range m.options {
		if option.Value == value {
			m.selectedIndex = i
			return
		}
	}
}

// Init initializes the dropdown
func (m Model[V]) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model[V]) Update(msg tea.Msg) (Model[V], tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !m.isOpen {
		return m, nil
	}

	n := len(m.options)
	switch {
	case key.Matches(keyMsg, m.keyMap.Up) && n > 0:
		if m.selectedIndex > 0 {
			m.selectedIndex--
		} else {
			m.selectedIndex = n - 1
		}

	case key.Matches(keyMsg, m.keyMap.Down) && n > 0:
		if m.selectedIndex < n-1 {
			m.selectedIndex++
		} else {
			m.selectedIndex = 0
		}

	case key.Matches(keyMsg, m.keyMap.Enter) && n > 0:
		m.isOpen = false
		option, _ := m.SelectedOption()
		index := m.selectedIndex
		return m, func() tea.Msg {
			return SelectedMsg[V]{Option: option, Index: index}
		}

	case key.Matches(keyMsg, m.keyMap.Escape):
		m.isOpen = false
		return m, func() tea.Msg { return CancelledMsg{} }
	}

	return m, nil
}

// visibleRange returns the options shown in a list of maxVisible rows, keeping the
// highlighted option near the middle
func (m Model[V]) visibleRange(maxVisible int) window.Range {
	n := len(m.options)
	if maxVisible <= 0 {
		return window.Range{}
	}
	offset := m.selectedIndex - maxVisible/2
	if offset > n-maxVisible {
		offset = n - maxVisible
	}
	if offset < 0 {
		offset = 0
	}
	r, err := window.ComputeFixedRange(float64(offset), float64(maxVisible), 1, 0, n)
	if err != nil {
		return window.Range{}
	}
	return r
}

// View renders the dropdown
func (m Model[V]) View() string {
	if !m.isOpen {
		return ""
	}

	var content strings.Builder

	if m.title != "" {
		content.WriteString(m.titleStyle.Render(m.title))
		content.WriteString("\n")
	}

	maxVisible := m.height - 2 // Account for borders
	if m.title != "" {
		maxVisible--
	}

	r := m.visibleRange(maxVisible)
	maxWidth := m.width - 4 // Account for borders and padding
	if maxWidth < 1 {
		maxWidth = 1
	}

	for i := r.Start; i < r.End; i++ {
		line := truncate.StringWithTail(m.options[i].Label, uint(maxWidth), "…")

		if i == m.selectedIndex {
			line = m.selectedStyle.Width(maxWidth).Render(line)
		} else {
			line = m.unselectedStyle.Width(maxWidth).Render(line)
		}

		content.WriteString(line)
		if i < r.End-1 {
			content.WriteString("\n")
		}
	}

	if r.Len() < len(m.options) {
		scrollInfo := ""
		if r.Start > 0 {
			scrollInfo += "↑ "
		}
		if r.End < len(m.options) {
			scrollInfo += "↓"
		}
		if scrollInfo != "" {
			content.WriteString("\n")
			content.WriteString(m.hintStyle.Render(scrollInfo))
		}
	}

	return m.borderStyle.Width(m.width).Render(content.String())
}

// SelectedMsg is sent when an option is selected
type SelectedMsg[V comparable] struct {
	Option Option[V]
	Index  int
}

// CancelledMsg is sent when the dropdown is cancelled
type CancelledMsg struct{}
