package style

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_DefaultTheme(t *testing.T) {
	m := NewManager()
	require.NotNil(t, m.GetTheme())
	assert.Equal(t, "default", m.GetTheme().Name)
	assert.Equal(t, []string{"default", "dracula", "light"}, m.ThemeNames())
}

func TestManager_UseTheme(t *testing.T) {
	m := NewManager()
	before := m.Header()

	require.NoError(t, m.UseTheme("dracula"))
	assert.Equal(t, "dracula", m.GetTheme().Name)
	assert.Equal(t, lipgloss.Color("#bd93f9"), m.Header().GetForeground())
	assert.NotEqual(t, before.GetForeground(), m.Header().GetForeground(), "cache is cleared on theme change")

	assert.Error(t, m.UseTheme("solarized"))
	assert.Equal(t, "dracula", m.GetTheme().Name)
}

func TestManager_RegisterOverrides(t *testing.T) {
	m := NewManager()

	theme := m.Register("ocean", ColorOverrides{Primary: "#0077be"})
	assert.Equal(t, lipgloss.Color("#0077be"), theme.Colors.Primary)
	assert.Equal(t, lipgloss.Color("196"), theme.Colors.Error, "unset colors come from default")

	// Overriding an existing theme starts from that theme
	dracula := m.Register("dracula", ColorOverrides{Error: "#ff0000"})
	assert.Equal(t, lipgloss.Color("#ff0000"), dracula.Colors.Error)
	assert.Equal(t, lipgloss.Color("#bd93f9"), dracula.Colors.Primary)

	// Overriding the active theme takes effect immediately
	_ = m.Header()
	m.Register("default", ColorOverrides{Primary: "11"})
	assert.Equal(t, lipgloss.Color("11"), m.Header().GetForeground())

	// Built-ins of other managers are untouched
	assert.Equal(t, lipgloss.Color("39"), NewManager().GetTheme().Colors.Primary)
}

func TestManager_Styles(t *testing.T) {
	m := NewManager()
	colors := m.GetTheme().Colors

	assert.Equal(t, colors.Selection, m.SelectedRow().GetBackground())
	assert.Equal(t, colors.SelectionText, m.SelectedRow().GetForeground())
	assert.Equal(t, colors.Foreground, m.Row().GetForeground())
	assert.Equal(t, colors.Muted, m.Muted().GetForeground())
	assert.Equal(t, colors.Muted, m.Footer().GetForeground())
	assert.Equal(t, colors.Secondary, m.Accent().GetForeground())
	assert.Equal(t, colors.Error, m.Error().GetForeground())
	assert.Equal(t, colors.Warning, m.Warning().GetForeground())
	assert.Equal(t, colors.Success, m.Success().GetForeground())
	assert.Equal(t, colors.Primary, m.ScrollThumb().GetForeground())
	assert.Equal(t, colors.Border, m.ScrollTrack().GetForeground())
	assert.Equal(t, colors.Border, m.Pane().GetBorderTopForeground())
}
