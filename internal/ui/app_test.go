package ui

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HamStudy/vlist/internal/catalog"
	"github.com/HamStudy/vlist/internal/components/dropdown"
	"github.com/HamStudy/vlist/internal/components/viewport"
	"github.com/HamStudy/vlist/internal/config"
	"github.com/HamStudy/vlist/internal/core"
)

const testEntries = 200

func newTestApp(t *testing.T) (*App, *config.Loader) {
	t.Helper()

	loader := config.NewLoader(t.TempDir())
	require.NoError(t, loader.Load())

	overrides := &core.Config{
		Overscan:      -1,
		CatalogSource: config.SourceGenerated,
		Generate:      testEntries,
		Seed:          7,
	}
	settings, err := core.ResolveSettings(loader.Get(), overrides)
	require.NoError(t, err)

	app := NewApp(context.Background(), core.NewState(overrides), loader, settings)
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	cmd := app.Init()
	require.NotNil(t, cmd)
	app.Update(app.loadCatalog()())
	return app, loader
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestLoadPopulatesList(t *testing.T) {
	app, _ := newTestApp(t)

	assert.Equal(t, testEntries, app.list.Len())
	assert.False(t, app.loading)
	assert.Contains(t, app.status, "Loaded 200 entries from generated")

	view := app.View()
	assert.Contains(t, view, "200 models")
	assert.Len(t, strings.Split(view, "\n"), 40)

	entry, ok := app.list.Selected()
	require.True(t, ok)
	require.NotNil(t, app.detail.Entry())
	assert.Equal(t, entry.ID, app.detail.Entry().ID)
	assert.Equal(t, entry.ID, app.state.SelectedID)
}

func TestNotReady(t *testing.T) {
	loader := config.NewLoader(t.TempDir())
	settings, err := core.ResolveSettings(loader.Get(), nil)
	require.NoError(t, err)
	app := NewApp(context.Background(), core.NewState(&core.Config{}), loader, settings)

	assert.Equal(t, "Initializing...", app.View())
}

func TestNavigationUpdatesDetail(t *testing.T) {
	app, _ := newTestApp(t)

	for i := 0; i < 3; i++ {
		_, cmd := app.Update(runes("j"))
		require.NotNil(t, cmd)
		app.Update(cmd())
	}

	assert.Equal(t, 3, app.list.SelectedIndex())
	entry, _ := app.list.Selected()
	assert.Equal(t, entry.ID, app.detail.Entry().ID)
}

func TestSelectionSurvivesSort(t *testing.T) {
	app, loader := newTestApp(t)

	for i := 0; i < 5; i++ {
		_, cmd := app.Update(runes("j"))
		app.Update(cmd())
	}
	before, _ := app.list.Selected()

	app.Update(runes("s"))
	assert.True(t, app.sortMenu.IsOpen())

	app.Update(dropdown.SelectedMsg[catalog.SortKey]{
		Option: dropdown.Option[catalog.SortKey]{Label: "Price", Value: catalog.SortByPrice},
		Index:  1,
	})

	assert.Equal(t, catalog.SortByPrice, app.state.SortKey)
	after, ok := app.list.Selected()
	require.True(t, ok)
	assert.Equal(t, before.ID, after.ID)
	assert.Equal(t, catalog.IndexOf(app.state.VisibleEntries(), before.ID), app.list.SelectedIndex())

	// The choice is persisted
	assert.Equal(t, "price", loader.Get().Catalog.SortBy)
	_, err := os.Stat(loader.ConfigPath())
	assert.NoError(t, err)
}

func TestSortMenuTakesKeys(t *testing.T) {
	app, _ := newTestApp(t)

	app.Update(runes("s"))
	require.True(t, app.sortMenu.IsOpen())
	assert.Contains(t, app.View(), "Sort by")

	app.Update(runes("j"))
	assert.Equal(t, 0, app.list.SelectedIndex(), "list does not move under the menu")

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, dropdown.CancelledMsg{}, cmd())
	assert.False(t, app.sortMenu.IsOpen())
}

func TestFilter(t *testing.T) {
	app, _ := newTestApp(t)
	query := strings.ToLower(strings.Fields(app.state.VisibleEntries()[10].Name)[0])

	app.Update(runes("/"))
	require.True(t, app.filtering)
	for _, r := range query {
		app.Update(runes(string(r)))
	}

	assert.Equal(t, query, app.state.FilterString)
	visible := app.state.VisibleEntries()
	require.NotEmpty(t, visible)
	assert.Less(t, len(visible), testEntries+1)
	assert.Equal(t, len(visible), app.list.Len())
	for _, e := range visible {
		assert.True(t, e.Matches(query), e.Name)
	}

	// q is text while filtering
	_, cmd := app.Update(runes("q"))
	if cmd != nil {
		assert.NotEqual(t, tea.QuitMsg{}, cmd())
	}
	app.Update(tea.KeyMsg{Type: tea.KeyBackspace})

	app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, app.filtering)
	assert.Equal(t, query, app.state.FilterString)
	assert.Contains(t, app.View(), "filter")

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, "", app.state.FilterString)
	assert.Equal(t, testEntries, app.list.Len())
}

func TestStrategyToggle(t *testing.T) {
	app, _ := newTestApp(t)
	require.Equal(t, viewport.StrategyVariable, app.list.Controller().Strategy())

	app.Update(runes("v"))
	assert.Equal(t, viewport.StrategyFixed, app.list.Controller().Strategy())
	assert.True(t, app.delegate.Compact())
	assert.Contains(t, app.View(), "Name")
	assert.Len(t, strings.Split(app.View(), "\n"), 40)

	total, err := app.list.Controller().TotalHeight()
	require.NoError(t, err)
	assert.Equal(t, float64(testEntries*app.settings.ItemHeight), total)

	app.Update(runes("v"))
	assert.Equal(t, viewport.StrategyVariable, app.list.Controller().Strategy())
	assert.False(t, app.delegate.Compact())
}

func TestWrapToggleChangesHeights(t *testing.T) {
	app, _ := newTestApp(t)
	app.Update(tea.KeyMsg{Type: tea.KeyEnter}) // full width list
	require.False(t, app.detailVisible())

	wrapped, err := app.list.Controller().TotalHeight()
	require.NoError(t, err)

	app.Update(runes("w"))
	assert.False(t, app.settings.WrapDescriptions)
	single, err := app.list.Controller().TotalHeight()
	require.NoError(t, err)
	assert.LessOrEqual(t, single, wrapped)
	assert.Equal(t, float64(testEntries*4), single, "title, meta, one description line, separator")
}

func TestHelpAndQuit(t *testing.T) {
	app, _ := newTestApp(t)

	app.Update(runes("?"))
	assert.True(t, app.state.ShowHelp)
	assert.Contains(t, app.View(), "Navigation")

	_, cmd := app.Update(runes("q"))
	assert.Nil(t, cmd, "q closes help first")
	assert.False(t, app.state.ShowHelp)

	_, cmd = app.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestThemeCycle(t *testing.T) {
	app, _ := newTestApp(t)
	first := app.styles.GetTheme().Name

	app.Update(runes("t"))
	assert.NotEqual(t, first, app.styles.GetTheme().Name)
	assert.Equal(t, app.styles.GetTheme().Name, app.settings.Theme)
}

func TestLoadFailureKeepsEntries(t *testing.T) {
	app, _ := newTestApp(t)

	_, cmd := app.Update(runes("r"))
	require.NotNil(t, cmd)
	assert.True(t, app.loading)

	app.Update(catalogLoadedMsg{err: errors.New("catalog unavailable")})
	assert.False(t, app.loading)
	assert.True(t, app.statusIsErr)
	assert.Contains(t, app.status, "catalog unavailable")
	assert.Equal(t, testEntries, app.list.Len())
}

func TestConfigChangeIsApplied(t *testing.T) {
	app, loader := newTestApp(t)

	require.NoError(t, os.WriteFile(loader.ConfigPath(), []byte("theme: dracula\nlist:\n  overscan: 1\n  wrapDescriptions: false\n"), 0644))
	cfg, err := loader.Reload()
	require.NoError(t, err)

	app.Update(configChangedMsg{cfg: cfg})
	assert.Equal(t, "dracula", app.styles.GetTheme().Name)
	assert.Equal(t, 1, app.list.Controller().Overscan())
	assert.False(t, app.settings.WrapDescriptions)
	assert.Equal(t, "Config reloaded", app.status)
	assert.Equal(t, testEntries, app.list.Len())
}

func TestMetricsLine(t *testing.T) {
	app, _ := newTestApp(t)
	require.True(t, app.settings.ShowMetrics)

	view := app.View()
	assert.Contains(t, view, "rendering 0-")

	app.Update(runes("m"))
	assert.NotContains(t, app.View(), "rendering 0-")
	assert.Len(t, strings.Split(app.View(), "\n"), 40)
}
