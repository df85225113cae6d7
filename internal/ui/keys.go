package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/HamStudy/vlist/internal/components/vlist"
	"github.com/HamStudy/vlist/internal/ui/views"
)

// KeyMap defines the application key bindings. List navigation lives in the
// vlist key map.
type KeyMap struct {
	Quit     key.Binding
	Help     key.Binding
	Filter   key.Binding
	Clear    key.Binding
	Sort     key.Binding
	Detail   key.Binding
	Focus    key.Binding
	Reload   key.Binding
	Theme    key.Binding
	Wrap     key.Binding
	Strategy key.Binding
	Metrics  key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Clear: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear filter"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort"),
		),
		Detail: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "toggle details"),
		),
		Focus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "focus details"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r", "ctrl+r"),
			key.WithHelp("r", "reload catalog"),
		),
		Theme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "next theme"),
		),
		Wrap: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "wrap descriptions"),
		),
		Strategy: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "fixed/variable rows"),
		),
		Metrics: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "metrics"),
		),
	}
}

// ShortHelp returns the bindings shown in the footer
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Filter, k.Sort, k.Detail, k.Help, k.Quit}
}

// FullHelp returns all bindings grouped for the help bubble
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Filter, k.Clear, k.Sort, k.Reload},
		{k.Detail, k.Focus, k.Strategy, k.Wrap},
		{k.Theme, k.Metrics, k.Help, k.Quit},
	}
}

// helpSections groups the application and list bindings for the help screen
func helpSections(app KeyMap, list vlist.KeyMap) []views.HelpSection {
	return []views.HelpSection{
		{Title: "Navigation", Bindings: []key.Binding{
			list.Up, list.Down, list.PageUp, list.PageDown,
			list.HalfPageUp, list.HalfPageDown, list.Top, list.Bottom,
		}},
		{Title: "Catalog", Bindings: []key.Binding{app.Filter, app.Clear, app.Sort, app.Reload}},
		{Title: "Display", Bindings: []key.Binding{
			app.Detail, app.Focus, app.Strategy, app.Wrap, app.Theme, app.Metrics,
		}},
		{Title: "General", Bindings: []key.Binding{app.Help, app.Quit}},
	}
}
