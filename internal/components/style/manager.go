package style

import (
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Manager handles styling and theming for the application
type Manager struct {
	theme  *Theme
	themes map[string]*Theme
	cache  map[string]lipgloss.Style
	mu     sync.RWMutex
}

// Theme defines a named color scheme
type Theme struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Colors      *ColorScheme `yaml:"colors"`
}

// ColorScheme defines the color palette
type ColorScheme struct {
	Primary    lipgloss.Color `yaml:"primary"`
	Secondary  lipgloss.Color `yaml:"secondary"`
	Foreground lipgloss.Color `yaml:"foreground"`
	Muted      lipgloss.Color `yaml:"muted"`
	Border     lipgloss.Color `yaml:"border"`

	// Selection colors
	Selection     lipgloss.Color `yaml:"selection"`
	SelectionText lipgloss.Color `yaml:"selectionText"`

	// Status colors
	Success lipgloss.Color `yaml:"success"`
	Warning lipgloss.Color `yaml:"warning"`
	Error   lipgloss.Color `yaml:"error"`
}

// ColorOverrides replaces individual colors of a theme; empty fields keep the base color
type ColorOverrides struct {
	Primary    string
	Secondary  string
	Foreground string
	Muted      string
	Selection  string
	Border     string
	Success    string
	Warning    string
	Error      string
}

// NewManager creates a new style manager with the default theme
func NewManager() *Manager {
	themes := builtinThemes()
	return &Manager{
		theme:  themes["default"],
		themes: themes,
		cache:  make(map[string]lipgloss.Style),
	}
}

// SetTheme sets the current theme
func (m *Manager) SetTheme(theme *Theme) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.theme = theme
	m.cache = make(map[string]lipgloss.Style) // Clear cache
}

// UseTheme switches to a registered theme by name
func (m *Manager) UseTheme(name string) error {
	m.mu.RLock()
	theme, ok := m.themes[name]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("unknown theme %q", name)
	}
	m.SetTheme(theme)
	return nil
}

// Register adds or replaces a named theme. Overrides for an existing name are
// applied on top of it; a new name starts from the default theme.
func (m *Manager) Register(name string, overrides ColorOverrides) *Theme {
	m.mu.Lock()
	defer m.mu.Unlock()

	base, ok := m.themes[name]
	if !ok {
		base = m.themes["default"]
	}
	colors := *base.Colors
	overrides.apply(&colors)

	theme := &Theme{Name: name, Description: base.Description, Colors: &colors}
	m.themes[name] = theme
	if m.theme != nil && m.theme.Name == name {
		m.theme = theme
		m.cache = make(map[string]lipgloss.Style)
	}
	return theme
}

// ThemeNames lists the registered themes
func (m *Manager) ThemeNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.themes))
	for name := range m.themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetTheme returns the current theme
func (m *Manager) GetTheme() *Theme {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.theme
}

// Header styles the top bar
func (m *Manager) Header() lipgloss.Style {
	return m.cached("header", func(c *ColorScheme) lipgloss.Style {
		return lipgloss.NewStyle().Bold(true).Foreground(c.Primary).Padding(0, 1)
	})
}

// Footer styles the bottom status bar
func (m *Manager) Footer() lipgloss.Style {
	return m.cached("footer", func(c *ColorScheme) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c.Muted).Padding(0, 1)
	})
}

// Row styles an unselected list row
func (m *Manager) Row() lipgloss.Style {
	return m.cached("row", func(c *ColorScheme) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c.Foreground)
	})
}

// SelectedRow styles the selected list row
func (m *Manager) SelectedRow() lipgloss.Style {
	return m.cached("row_selected", func(c *ColorScheme) lipgloss.Style {
		return lipgloss.NewStyle().Background(c.Selection).Foreground(c.SelectionText)
	})
}

// Muted styles secondary text
func (m *Manager) Muted() lipgloss.Style {
	return m.cached("muted", func(c *ColorScheme) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c.Muted)
	})
}

// Accent styles highlighted values
func (m *Manager) Accent() lipgloss.Style {
	return m.cached("accent", func(c *ColorScheme) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c.Secondary)
	})
}

// Pane styles a bordered panel
func (m *Manager) Pane() lipgloss.Style {
	return m.cached("pane", func(c *ColorScheme) lipgloss.Style {
		return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(c.Border)
	})
}

// Error styles error messages
func (m *Manager) Error() lipgloss.Style {
	return m.cached("error", func(c *ColorScheme) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c.Error).Bold(true)
	})
}

// Warning styles warnings
func (m *Manager) Warning() lipgloss.Style {
	return m.cached("warning", func(c *ColorScheme) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c.Warning)
	})
}

// Success styles confirmations
func (m *Manager) Success() lipgloss.Style {
	return m.cached("success", func(c *ColorScheme) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c.Success)
	})
}

// ScrollThumb styles the visible part of the scrollbar
func (m *Manager) ScrollThumb() lipgloss.Style {
	return m.cached("scroll_thumb", func(c *ColorScheme) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c.Primary)
	})
}

// ScrollTrack styles the scrollbar background
func (m *Manager) ScrollTrack() lipgloss.Style {
	return m.cached("scroll_track", func(c *ColorScheme) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c.Border)
	})
}

func (m *Manager) cached(key string, build func(*ColorScheme) lipgloss.Style) lipgloss.Style {
	m.mu.RLock()
	if style, ok := m.cache[key]; ok {
		m.mu.RUnlock()
		return style
	}
	colors := m.theme.Colors
	m.mu.RUnlock()

	style := build(colors)

	m.mu.Lock()
	m.cache[key] = style
	m.mu.Unlock()
	return style
}

func (o ColorOverrides) apply(c *ColorScheme) {
	set := func(dst *lipgloss.Color, v string) {
		if v != "" {
			*dst = lipgloss.Color(v)
		}
	}
	set(&c.Primary, o.Primary)
	set(&c.Secondary, o.Secondary)
	set(&c.Foreground, o.Foreground)
	set(&c.Muted, o.Muted)
	set(&c.Selection, o.Selection)
	set(&c.Border, o.Border)
	set(&c.Success, o.Success)
	set(&c.Warning, o.Warning)
	set(&c.Error, o.Error)
}

func builtinThemes() map[string]*Theme {
	return map[string]*Theme{
		"default": {
			Name:        "default",
			Description: "Adaptive 256-color theme",
			Colors: &ColorScheme{
				Primary:       lipgloss.Color("39"),
				Secondary:     lipgloss.Color("213"),
				Foreground:    lipgloss.Color("252"),
				Muted:         lipgloss.Color("244"),
				Border:        lipgloss.Color("240"),
				Selection:     lipgloss.Color("57"),
				SelectionText: lipgloss.Color("230"),
				Success:       lipgloss.Color("42"),
				Warning:       lipgloss.Color("214"),
				Error:         lipgloss.Color("196"),
			},
		},
		"light": {
			Name:        "light",
			Description: "For light terminal backgrounds",
			Colors: &ColorScheme{
				Primary:       lipgloss.Color("25"),
				Secondary:     lipgloss.Color("127"),
				Foreground:    lipgloss.Color("235"),
				Muted:         lipgloss.Color("242"),
				Border:        lipgloss.Color("250"),
				Selection:     lipgloss.Color("153"),
				SelectionText: lipgloss.Color("16"),
				Success:       lipgloss.Color("28"),
				Warning:       lipgloss.Color("130"),
				Error:         lipgloss.Color("160"),
			},
		},
		"dracula": {
			Name:        "dracula",
			Description: "Dracula palette",
			Colors: &ColorScheme{
				Primary:       lipgloss.Color("#bd93f9"),
				Secondary:     lipgloss.Color("#ff79c6"),
				Foreground:    lipgloss.Color("#f8f8f2"),
				Muted:         lipgloss.Color("#6272a4"),
				Border:        lipgloss.Color("#44475a"),
				Selection:     lipgloss.Color("#44475a"),
				SelectionText: lipgloss.Color("#f8f8f2"),
				Success:       lipgloss.Color("#50fa7b"),
				Warning:       lipgloss.Color("#ffb86c"),
				Error:         lipgloss.Color("#ff5555"),
			},
		},
	}
}
