package ui

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/truncate"

	"github.com/HamStudy/vlist/internal/catalog"
	"github.com/HamStudy/vlist/internal/components/dropdown"
	"github.com/HamStudy/vlist/internal/components/performance"
	"github.com/HamStudy/vlist/internal/components/selection"
	"github.com/HamStudy/vlist/internal/components/style"
	"github.com/HamStudy/vlist/internal/components/viewport"
	"github.com/HamStudy/vlist/internal/components/vlist"
	"github.com/HamStudy/vlist/internal/config"
	"github.com/HamStudy/vlist/internal/core"
	"github.com/HamStudy/vlist/internal/template"
	"github.com/HamStudy/vlist/internal/ui/views"
)

// minDetailWidth is the narrowest terminal that still gets a side pane
const minDetailWidth = 80

// catalogLoadedMsg carries the result of a catalog load
type catalogLoadedMsg struct {
	result *core.CatalogResult
	err    error
}

// configChangedMsg is sent when the config file was edited
type configChangedMsg struct {
	cfg *config.Config
}

// configErrorMsg is sent when the edited config file could not be used
type configErrorMsg struct {
	err error
}

// App represents the main application model
type App struct {
	ctx      context.Context
	state    *core.State
	settings *core.Settings
	loader   *config.Loader
	watcher  *config.Watcher
	keys     KeyMap

	engine  *template.Engine
	styles  *style.Manager
	monitor *performance.Monitor
	tracker *selection.Tracker

	// Views
	list     *vlist.Model[catalog.Entry]
	delegate *views.EntryDelegate
	detail   *views.DetailView
	helpView *views.HelpView
	sortMenu dropdown.Model[catalog.SortKey]
	filter   textinput.Model
	help     help.Model

	// UI state
	width       int
	height      int
	ready       bool
	loading     bool
	filtering   bool
	detailFocus bool
	status      string
	statusIsErr bool
}

// NewApp creates the catalog browser
func NewApp(ctx context.Context, state *core.State, loader *config.Loader, settings *core.Settings) *App {
	a := &App{
		ctx:      ctx,
		state:    state,
		settings: settings,
		loader:   loader,
		keys:     DefaultKeyMap(),
		engine:   template.NewEngine(),
		styles:   style.NewManager(),
		monitor:  performance.NewMonitor(),
		tracker:  selection.New(),
		help:     help.New(),
	}

	a.delegate = views.NewEntryDelegate(a.engine, a.styles)
	a.list = vlist.New[catalog.Entry](nil, a.delegate, vlist.Options{
		Strategy:   settings.Strategy,
		ItemHeight: settings.ItemHeight,
		Overscan:   settings.Overscan,
		Width:      settings.Width,
		Monitor:    a.monitor,
		Scrollbar:  true,
	})
	a.detail = views.NewDetailView(a.engine)
	a.helpView = views.NewHelpView(a.styles, helpSections(a.keys, a.list.KeyMap()))

	options := make([]dropdown.Option[catalog.SortKey], 0, len(catalog.SortKeys()))
	for _, k := range catalog.SortKeys() {
		options = append(options, dropdown.Option[catalog.SortKey]{Label: k.Label(), Value: k})
	}
	a.sortMenu = dropdown.New(options)
	a.sortMenu.SetTitle("Sort by")

	a.filter = textinput.New()
	a.filter.Prompt = "/"
	a.filter.Placeholder = "filter by name, tag or type"

	a.applyConfig(loader.Get())
	return a
}

// SetWatcher subscribes the app to config file changes
func (a *App) SetWatcher(w *config.Watcher) {
	a.watcher = w
}

// Init starts the catalog load and the config watch
func (a *App) Init() tea.Cmd {
	a.loading = true
	return tea.Batch(
		a.loadCatalog(),
		a.waitForConfig(),
	)
}

// Update handles messages
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.layout()
		return a, nil

	case catalogLoadedMsg:
		a.loading = false
		if msg.err != nil {
			log.Printf("catalog load failed: %v", msg.err)
			a.setStatus(fmt.Sprintf("Load failed: %v", msg.err), true)
			return a, nil
		}
		a.state.SetEntries(msg.result.Entries, msg.result.Source, msg.result.FromCache)
		a.refreshList()
		status := fmt.Sprintf("Loaded %s entries from %s", humanize.Comma(int64(len(msg.result.Entries))), msg.result.Source)
		if msg.result.FromCache {
			status += " (cached snapshot)"
		}
		a.setStatus(status, false)
		return a, nil

	case configChangedMsg:
		a.applyConfig(msg.cfg)
		a.setStatus("Config reloaded", false)
		return a, a.waitForConfig()

	case configErrorMsg:
		log.Printf("config reload: %v", msg.err)
		a.setStatus(fmt.Sprintf("Config error: %v", msg.err), true)
		return a, a.waitForConfig()

	case vlist.SelectionChangedMsg:
		a.syncSelection()
		return a, nil

	case dropdown.SelectedMsg[catalog.SortKey]:
		a.setSort(msg.Option.Value)
		return a, nil

	case dropdown.CancelledMsg:
		return a, nil

	case tea.KeyMsg:
		return a, a.handleKey(msg)

	case tea.MouseMsg:
		if a.state.ShowHelp {
			return a, nil
		}
		if a.detailFocus {
			return a, a.detail.Update(msg)
		}
		return a, a.list.Update(msg)
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if a.sortMenu.IsOpen() {
		var cmd tea.Cmd
		a.sortMenu, cmd = a.sortMenu.Update(msg)
		return cmd
	}

	if a.filtering {
		return a.handleFilterKey(msg)
	}

	if a.state.ShowHelp {
		if key.Matches(msg, a.keys.Help, a.keys.Clear, a.keys.Quit) {
			a.state.ShowHelp = false
		}
		return nil
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		return tea.Quit

	case key.Matches(msg, a.keys.Help):
		a.state.ShowHelp = true
		return nil

	case key.Matches(msg, a.keys.Filter):
		a.filtering = true
		a.filter.SetValue(a.state.FilterString)
		a.filter.CursorEnd()
		a.layout()
		return a.filter.Focus()

	case key.Matches(msg, a.keys.Clear):
		if a.detailFocus {
			a.detailFocus = false
			return nil
		}
		if a.state.FilterString != "" {
			a.applyFilter("")
		}
		return nil

	case key.Matches(msg, a.keys.Sort):
		a.sortMenu.SetSelectedValue(a.state.SortKey)
		a.sortMenu.Open()
		return nil

	case key.Matches(msg, a.keys.Detail):
		a.state.ShowDetail = !a.state.ShowDetail
		if !a.state.ShowDetail {
			a.detailFocus = false
		}
		a.layout()
		return nil

	case key.Matches(msg, a.keys.Focus):
		if a.detailVisible() {
			a.detailFocus = !a.detailFocus
		}
		return nil

	case key.Matches(msg, a.keys.Reload):
		if a.loading {
			return nil
		}
		a.loading = true
		a.setStatus("Reloading catalog…", false)
		return a.loadCatalog()

	case key.Matches(msg, a.keys.Theme):
		a.nextTheme()
		return nil

	case key.Matches(msg, a.keys.Wrap):
		a.settings.WrapDescriptions = !a.settings.WrapDescriptions
		a.delegate.SetWrapDescriptions(a.settings.WrapDescriptions)
		a.list.Refresh()
		return nil

	case key.Matches(msg, a.keys.Strategy):
		if a.settings.Strategy == viewport.StrategyVariable {
			a.settings.Strategy = viewport.StrategyFixed
		} else {
			a.settings.Strategy = viewport.StrategyVariable
		}
		a.applyStrategy()
		return nil

	case key.Matches(msg, a.keys.Metrics):
		a.settings.ShowMetrics = !a.settings.ShowMetrics
		a.layout()
		return nil
	}

	if a.detailFocus {
		return a.detail.Update(msg)
	}
	return a.list.Update(msg)
}

func (a *App) handleFilterKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		a.filtering = false
		a.filter.Blur()
		a.applyFilter("")
		a.layout()
		return nil
	case tea.KeyEnter:
		a.filtering = false
		a.filter.Blur()
		a.layout()
		return nil
	}

	var cmd tea.Cmd
	a.filter, cmd = a.filter.Update(msg)
	if a.filter.Value() != a.state.FilterString {
		a.applyFilter(a.filter.Value())
	}
	return cmd
}

// View renders the application
func (a *App) View() string {
	if !a.ready {
		return "Initializing..."
	}
	if a.state.ShowHelp {
		return a.helpView.View()
	}

	var sections []string
	sections = append(sections, a.renderHeader())
	if header := a.delegate.Header(a.list.ContentWidth()); header != "" {
		sections = append(sections, header)
	}

	body := a.renderBody()
	if a.sortMenu.IsOpen() {
		body = lipgloss.Place(a.width, a.bodyHeight(), lipgloss.Center, lipgloss.Center, a.sortMenu.View())
	}
	sections = append(sections, body)

	if a.settings.ShowMetrics {
		sections = append(sections, a.renderMetrics())
	}
	sections = append(sections, a.renderFooter())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (a *App) renderHeader() string {
	visible, total := a.state.Counts()
	counts := humanize.Comma(int64(visible))
	if visible != total {
		counts += "/" + humanize.Comma(int64(total))
	}
	parts := []string{
		"vlist",
		counts + " models",
		"sorted by " + a.state.SortKey.Label(),
		a.settings.Strategy.String(),
	}
	if a.state.FilterString != "" {
		parts = append(parts, fmt.Sprintf("filter %q", a.state.FilterString))
	}
	if a.loading {
		parts = append(parts, "loading…")
	}
	line := strings.Join(parts, " · ")
	return a.styles.Header().Render(truncate.StringWithTail(line, uint(max(a.width-2, 0)), "…"))
}

func (a *App) renderBody() string {
	listView := a.list.View()
	if !a.detailVisible() {
		return listView
	}

	height := a.bodyHeight()
	sepStyle := a.styles.Muted()
	if a.detailFocus {
		sepStyle = a.styles.Accent()
	}
	sep := sepStyle.Render(strings.TrimSuffix(strings.Repeat("│\n", height), "\n"))
	return lipgloss.JoinHorizontal(lipgloss.Top, listView, sep, a.detail.View())
}

func (a *App) renderMetrics() string {
	parts := make([]string, 0, 4)
	for _, name := range []string{performance.MetricRecompute, performance.MetricOffsetTable, performance.MetricRender} {
		if metric := a.monitor.Metric(name); metric != nil {
			parts = append(parts, fmt.Sprintf("%s %v", name, metric.RecentAverageTime(10)))
		}
	}
	plan := a.list.Plan()
	parts = append(parts, fmt.Sprintf("rendering %d-%d of %s (%d nodes)",
		plan.Range.Start, plan.Range.End, humanize.Comma(int64(a.list.Len())), len(plan.Entries)))
	line := strings.Join(parts, " · ")
	return a.styles.Footer().Render(truncate.StringWithTail(line, uint(max(a.width-2, 0)), "…"))
}

func (a *App) renderFooter() string {
	if a.filtering {
		return a.filter.View()
	}
	if a.status != "" {
		s := a.styles.Footer()
		if a.statusIsErr {
			s = a.styles.Error().Padding(0, 1)
		}
		return s.Render(truncate.StringWithTail(a.status, uint(max(a.width-2, 0)), "…"))
	}
	return a.styles.Footer().Render(a.help.ShortHelpView(a.keys.ShortHelp()))
}

// bodyHeight returns the rows left for the list after the bars
func (a *App) bodyHeight() int {
	used := 2 // header and footer
	if a.settings.ShowMetrics {
		used++
	}
	if a.delegate.Compact() {
		used++
	}
	return max(a.height-used, 0)
}

func (a *App) detailVisible() bool {
	return a.state.ShowDetail && a.width >= minDetailWidth
}

// layout sizes the child views for the current terminal size
func (a *App) layout() {
	if !a.ready {
		return
	}
	height := a.bodyHeight()
	listWidth := a.width
	if a.detailVisible() {
		listWidth = a.width * 3 / 5
		a.detail.SetSize(a.width-listWidth-1, height)
	}
	a.list.SetSize(listWidth, height)
	a.helpView.SetSize(a.width, a.height)
	a.help.Width = a.width
	a.filter.Width = max(a.width-3, 1)
	a.sortMenu.SetSize(min(40, a.width), min(len(catalog.SortKeys())+3, max(height, 3)))
}

// refreshList pushes the visible entries into the list, keeping the selected
// entry selected when it is still present
func (a *App) refreshList() {
	entries := a.state.VisibleEntries()

	rows := make([]selection.Identity, len(entries))
	for i, e := range entries {
		rows[i] = selection.Identity{ID: e.ID, Name: e.Name}
	}
	a.tracker.SetRows(rows)
	row := a.tracker.RestoreSelection()

	a.list.SetItems(entries)
	a.list.Select(row)
	a.syncSelection()
}

// syncSelection records the list selection and updates the detail pane
func (a *App) syncSelection() {
	a.tracker.Select(a.list.SelectedIndex())
	entry, ok := a.list.Selected()
	if !ok {
		a.state.SetSelectedID("")
		a.detail.SetEntry(nil)
		return
	}
	a.state.SetSelectedID(entry.ID)
	a.detail.SetEntry(&entry)
}

func (a *App) applyFilter(filter string) {
	a.state.SetFilter(filter)
	a.refreshList()
}

func (a *App) setSort(key catalog.SortKey) {
	if key == a.state.SortKey {
		return
	}
	a.state.SetSortKey(key)
	a.settings.SortBy = key
	a.refreshList()
	if err := a.loader.SetSortBy(key); err != nil {
		log.Printf("failed to save sort order: %v", err)
	}
	a.setStatus("Sorted by "+key.Label(), false)
}

func (a *App) nextTheme() {
	names := a.styles.ThemeNames()
	if len(names) == 0 {
		return
	}
	current := a.styles.GetTheme().Name
	next := names[0]
	for i, name := range names {
		if name == current {
			next = names[(i+1)%len(names)]
			break
		}
	}
	a.settings.Theme = next
	a.applyTheme()
	a.setStatus("Theme "+next, false)
}

// applyConfig applies a (re)loaded config file on top of the runtime overrides
func (a *App) applyConfig(cfg *config.Config) {
	settings, err := core.ResolveSettings(cfg, a.state.Config())
	if err != nil {
		log.Printf("config rejected: %v", err)
		a.setStatus(fmt.Sprintf("Config error: %v", err), true)
		return
	}
	a.settings = settings

	overrides := make(map[string]string, len(cfg.Templates))
	for name, tmpl := range cfg.Templates {
		overrides[name] = tmpl.Template
	}
	if err := a.engine.LoadDefaults(overrides); err != nil {
		log.Printf("template error: %v", err)
		a.setStatus(fmt.Sprintf("Template error: %v", err), true)
	}
	a.engine.ClearCache()

	for name, theme := range cfg.Themes {
		a.styles.Register(name, style.ColorOverrides{
			Primary:    theme.Primary,
			Secondary:  theme.Secondary,
			Foreground: theme.Foreground,
			Muted:      theme.Muted,
			Selection:  theme.Selection,
			Border:     theme.Border,
			Success:    theme.Success,
			Warning:    theme.Warning,
			Error:      theme.Error,
		})
	}
	a.applyTheme()

	a.delegate.SetWrapDescriptions(settings.WrapDescriptions)
	a.list.SetOverscan(settings.Overscan)
	a.list.SetWidth(settings.Width)
	a.applyStrategy()
	a.detail.Refresh()
}

func (a *App) applyTheme() {
	if err := a.styles.UseTheme(a.settings.Theme); err != nil {
		log.Printf("theme: %v", err)
	}
	a.list.SetScrollbarStyles(a.styles.ScrollThumb(), a.styles.ScrollTrack())
	a.sortMenu.SetStyles(a.styles.SelectedRow(), a.styles.Row(), a.styles.Pane(), a.styles.Header())

	glamourStyle := "dark"
	if a.styles.GetTheme().Name == "light" {
		glamourStyle = "light"
	}
	a.detail.SetGlamourStyle(glamourStyle)
	a.list.Refresh()
}

// applyStrategy switches the list between cards and compact rows
func (a *App) applyStrategy() {
	a.delegate.SetCompact(a.settings.Strategy == viewport.StrategyFixed)
	a.list.SetStrategy(a.settings.Strategy, a.settings.ItemHeight)
	a.layout()
}

func (a *App) setStatus(status string, isErr bool) {
	a.status = status
	a.statusIsErr = isErr
}

// loadCatalog reads the catalog in the background
func (a *App) loadCatalog() tea.Cmd {
	ctx := a.ctx
	settings := *a.settings
	return func() tea.Msg {
		result, err := core.LoadCatalog(ctx, &settings)
		return catalogLoadedMsg{result: result, err: err}
	}
}

// waitForConfig waits for the next config change; re-armed after each message
func (a *App) waitForConfig() tea.Cmd {
	w := a.watcher
	if w == nil {
		return nil
	}
	ctx := a.ctx
	return func() tea.Msg {
		select {
		case cfg, ok := <-w.Changes():
			if !ok {
				return nil
			}
			return configChangedMsg{cfg: cfg}
		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			return configErrorMsg{err: err}
		case <-ctx.Done():
			return nil
		}
	}
}
