package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/HamStudy/vlist/internal/catalog"
	"github.com/HamStudy/vlist/internal/components/style"
	"github.com/HamStudy/vlist/internal/components/table"
	"github.com/HamStudy/vlist/internal/components/viewport"
	"github.com/HamStudy/vlist/internal/config"
	"github.com/HamStudy/vlist/internal/core"
	"github.com/HamStudy/vlist/internal/template"
	"github.com/HamStudy/vlist/internal/ui"
	"github.com/HamStudy/vlist/internal/ui/views"
)

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// CLIFlags holds all command-line flags
type CLIFlags struct {
	// Config flags
	configDir  string
	configFile string

	// Catalog flags
	catalog  string
	cache    string
	generate int
	seed     int64
	sortBy   string

	// List flags
	strategy   string
	itemHeight int
	overscan   int
	width      string
	theme      string

	// Headless plan dump
	dumpPlan   float64
	dumpWidth  int
	dumpHeight int

	// Other flags
	version bool
	logFile string
}

// newFlagSet binds every flag to flags
func newFlagSet(name string, flags *CLIFlags) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)

	fs.StringVar(&flags.configDir, "config-dir", "", "Directory holding config.yaml (default ~/.config/vlist, or VLIST_CONFIG_DIR)")
	fs.StringVar(&flags.configFile, "config", "", "Use this config file instead of the config directory (disables hot reload)")

	fs.StringVar(&flags.catalog, "catalog", "", "Catalog source: embedded, generated, or a .yaml/.json file (or VLIST_CATALOG)")
	fs.StringVar(&flags.cache, "cache", "", "SQLite snapshot used when the catalog source fails")
	fs.IntVar(&flags.generate, "generate", 0, "Generate a synthetic catalog of this many entries")
	fs.Int64Var(&flags.seed, "seed", 0, "Seed for the generated catalog")
	fs.StringVar(&flags.sortBy, "sort", "", "Sort order (name, price, rating, updated, size)")

	fs.StringVar(&flags.strategy, "strategy", "", "Row heights: fixed or variable")
	fs.IntVar(&flags.itemHeight, "item-height", 0, "Rows per entry for the fixed strategy")
	fs.IntVar(&flags.overscan, "overscan", -1, "Entries rendered beyond each edge of the viewport")
	fs.StringVar(&flags.width, "width", "", "List width as a percentage of the terminal, e.g. 80%")
	fs.StringVar(&flags.theme, "theme", "", "Color theme (default, light, dracula or one from the config)")

	fs.Float64Var(&flags.dumpPlan, "dump-plan", -1, "Print the render plan at this scroll offset and exit")
	fs.IntVar(&flags.dumpWidth, "dump-width", 80, "Terminal width assumed by --dump-plan")
	fs.IntVar(&flags.dumpHeight, "dump-height", 24, "Viewport height assumed by --dump-plan")

	fs.BoolVar(&flags.version, "version", false, "Print version information and quit")
	fs.StringVar(&flags.logFile, "log-file", "", "Write debug logs to this file")

	fs.Usage = func() {
		out := fs.Output()
		fmt.Fprintf(out, "vlist - browse large model catalogs in the terminal\n\n")
		fmt.Fprintf(out, "Usage:\n")
		fmt.Fprintf(out, "  vlist [flags]\n\n")
		fmt.Fprintf(out, "Examples:\n")
		fmt.Fprintf(out, "  # Browse the bundled catalog\n")
		fmt.Fprintf(out, "  vlist\n\n")
		fmt.Fprintf(out, "  # Scroll through 100k synthetic entries with compact rows\n")
		fmt.Fprintf(out, "  vlist --catalog generated --generate 100000 --strategy fixed --item-height 2\n\n")
		fmt.Fprintf(out, "  # Show which entries are rendered 500 rows down\n")
		fmt.Fprintf(out, "  vlist --catalog generated --generate 1000 --dump-plan 500\n\n")
		fmt.Fprintf(out, "Flags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(out, "\nKeyboard Shortcuts:\n")
		fmt.Fprintf(out, "  j/k        - Navigate up/down\n")
		fmt.Fprintf(out, "  g/G        - Go to top/bottom\n")
		fmt.Fprintf(out, "  /          - Filter entries\n")
		fmt.Fprintf(out, "  s          - Change sort order\n")
		fmt.Fprintf(out, "  enter      - Toggle the detail pane\n")
		fmt.Fprintf(out, "  v          - Switch fixed/variable rows\n")
		fmt.Fprintf(out, "  ?          - Show help\n")
		fmt.Fprintf(out, "  q/Ctrl+C   - Quit\n")
	}

	return fs
}

func parseFlags(args []string) (*CLIFlags, error) {
	flags := &CLIFlags{}
	fs := newFlagSet("vlist", flags)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return flags, nil
}

func main() {
	flags, err := parseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if flags.version {
		fmt.Printf("vlist version %s (commit: %s, built: %s)\n", Version, Commit, BuildTime)
		os.Exit(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, flags, os.Stdout); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run(ctx context.Context, flags *CLIFlags, stdout io.Writer) error {
	headless := flags.dumpPlan >= 0

	// The TUI owns the terminal; logs go to a file or nowhere
	if flags.logFile != "" {
		f, err := tea.LogToFile(flags.logFile, "vlist")
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
	} else if !headless {
		log.SetOutput(io.Discard)
	}

	cfg, err := loadConfigWithFlags(flags)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	loader := config.NewLoader(cfg.ConfigDir)
	if cfg.ConfigFile != "" {
		err = loader.UseFile(cfg.ConfigFile)
	} else {
		err = loader.Load()
	}
	if err != nil {
		return err
	}

	settings, err := core.ResolveSettings(loader.Get(), cfg)
	if err != nil {
		return err
	}

	if headless {
		return dumpPlan(ctx, stdout, settings, flags.dumpPlan, flags.dumpWidth, flags.dumpHeight)
	}

	state := core.NewState(cfg)
	state.SetSortKey(settings.SortBy)
	app := ui.NewApp(ctx, state, loader, settings)

	if cfg.ConfigFile == "" {
		watcher, err := loader.Watch()
		if err != nil {
			log.Printf("config hot reload disabled: %v", err)
		} else {
			defer watcher.Close()
			app.SetWatcher(watcher)
		}
	}

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("error running application: %w", err)
	}
	return nil
}

// loadConfigWithFlags loads configuration with CLI flag overrides
func loadConfigWithFlags(flags *CLIFlags) (*core.Config, error) {
	config, err := core.LoadConfig()
	if err != nil {
		return nil, err
	}

	if flags.configDir != "" {
		config.ConfigDir = flags.configDir
	}
	config.ConfigFile = flags.configFile

	if flags.catalog != "" {
		config.CatalogSource = flags.catalog
	}
	if flags.generate > 0 && config.CatalogSource == "" {
		config.CatalogSource = "generated"
	}
	config.CachePath = flags.cache
	config.Generate = flags.generate
	config.Seed = flags.seed
	config.SortBy = flags.sortBy

	config.Strategy = flags.strategy
	config.ItemHeight = flags.itemHeight
	config.Overscan = flags.overscan
	config.Width = flags.width
	config.Theme = flags.theme
	config.LogFile = flags.logFile

	return config, nil
}

// dumpPlan prints the render plan for one scroll offset without starting the TUI
func dumpPlan(ctx context.Context, w io.Writer, s *core.Settings, offset float64, width, height int) error {
	result, err := core.LoadCatalog(ctx, s)
	if err != nil {
		return err
	}
	entries := catalog.Sort(result.Entries, s.SortBy)

	contentWidth, err := s.Width.Resolve(width)
	if err != nil {
		return err
	}

	opts := []viewport.Option{viewport.WithOverscan(s.Overscan), viewport.WithWidth(s.Width)}
	var ctrl *viewport.Controller[catalog.Entry]
	if s.Strategy == viewport.StrategyVariable {
		engine := template.NewEngine()
		if err := engine.LoadDefaults(nil); err != nil {
			return err
		}
		delegate := views.NewEntryDelegate(engine, style.NewManager())
		delegate.SetWrapDescriptions(s.WrapDescriptions)
		ctrl = viewport.NewVariable(entries, func(i int) float64 {
			return float64(max(delegate.Height(entries[i], contentWidth), 1))
		}, float64(height), opts...)
	} else {
		ctrl = viewport.NewFixed(entries, float64(s.ItemHeight), float64(height), opts...)
	}

	plan, err := ctrl.OnScroll(offset)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s strategy, %s entries from %s, total height %s, offset %s, viewport %d, range %d-%d\n",
		s.Strategy, humanize.Comma(int64(len(entries))), result.Source,
		formatRows(plan.TotalHeight), formatRows(plan.ScrollOffset), height,
		plan.Range.Start, plan.Range.End)

	layout := table.New([]table.Column{
		{Title: "Index", Width: 8, Align: lipgloss.Right},
		{Title: "Top", Width: 10, Align: lipgloss.Right},
		{Title: "Height", Width: 7, Align: lipgloss.Right},
		{Title: "Name", Flex: true, MinWidth: 10},
	})
	layout.SetWidth(width)
	fmt.Fprintln(w, layout.Header())

	rows := viewport.Render(plan, func(e catalog.Entry, index int, pos viewport.Position) string {
		return layout.Row([]string{
			strconv.Itoa(index),
			formatRows(pos.Top),
			formatRows(pos.Height),
			e.Name,
		})
	})
	for _, row := range rows {
		fmt.Fprintln(w, row.Node)
	}
	return nil
}

func formatRows(v float64) string {
	return humanize.FtoaWithDigits(v, 2)
}
