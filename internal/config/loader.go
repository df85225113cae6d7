package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/HamStudy/vlist/configs/resources"
	"github.com/HamStudy/vlist/internal/catalog"
	"github.com/HamStudy/vlist/internal/components/viewport"
)

// Config represents the main configuration structure
type Config struct {
	Version   string                     `yaml:"version"`
	Theme     string                     `yaml:"theme"`
	List      *ListConfig                `yaml:"list"`
	Templates map[string]*TemplateConfig `yaml:"templates"`
	Catalog   *CatalogConfig             `yaml:"catalog"`
	Themes    map[string]*ThemeConfig    `yaml:"themes"`
}

// ListConfig controls the virtualized list
type ListConfig struct {
	Strategy         string `yaml:"strategy"`   // fixed or variable
	ItemHeight       int    `yaml:"itemHeight"` // rows per item in fixed mode
	Overscan         *int   `yaml:"overscan"`
	Width            string `yaml:"width"`
	ShowMetrics      bool   `yaml:"showMetrics"`
	WrapDescriptions bool   `yaml:"wrapDescriptions"`
}

// TemplateConfig defines a formatting template
type TemplateConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Template    string `yaml:"template"`
}

// CatalogConfig selects where entries come from
type CatalogConfig struct {
	Source   string `yaml:"source"`   // embedded, a file path, or generated
	Cache    string `yaml:"cache"`    // SQLite snapshot path, empty to disable
	Generate int    `yaml:"generate"` // entry count when source is generated
	Seed     int64  `yaml:"seed"`
	SortBy   string `yaml:"sortBy"`
}

// ThemeConfig overrides colors of a named theme
type ThemeConfig struct {
	Primary    string `yaml:"primary"`
	Secondary  string `yaml:"secondary"`
	Foreground string `yaml:"foreground"`
	Muted      string `yaml:"muted"`
	Selection  string `yaml:"selection"`
	Border     string `yaml:"border"`
	Success    string `yaml:"success"`
	Warning    string `yaml:"warning"`
	Error      string `yaml:"error"`
}

// Catalog sources that are not file paths
const (
	SourceEmbedded  = "embedded"
	SourceGenerated = "generated"
)

// Loader handles configuration loading and management
type Loader struct {
	configDir string
	defaults  *Config
	user      *Config
	merged    *Config
	mu        sync.RWMutex
}

// NewLoader creates a new configuration loader
func NewLoader(configDir string) *Loader {
	if configDir == "" {
		home, _ := os.UserHomeDir()
		configDir = filepath.Join(home, ".config", "vlist")
	}

	return &Loader{
		configDir: configDir,
		defaults:  getDefaultConfig(),
	}
}

// ConfigDir returns the directory holding config.yaml
func (l *Loader) ConfigDir() string {
	return l.configDir
}

// Load loads the configuration from disk
func (l *Loader) Load() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(l.configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath := filepath.Join(l.configDir, "config.yaml")
	if _, err := os.Stat(configPath); err == nil {
		userConfig, err := l.loadConfigFile(configPath)
		if err != nil {
			return fmt.Errorf("failed to load user config: %w", err)
		}
		l.user = userConfig
	}

	l.merged = l.mergeConfigs(l.defaults, l.user)

	return nil
}

// ConfigPath returns the path of the user config file
func (l *Loader) ConfigPath() string {
	return filepath.Join(l.configDir, "config.yaml")
}

// Reload re-reads the user config file and returns the merged result. A missing
// file drops the user layer; a broken one leaves the previous config in place.
func (l *Loader) Reload() (*Config, error) {
	var user *Config
	if _, err := os.Stat(l.ConfigPath()); err == nil {
		cfg, err := l.loadConfigFile(l.ConfigPath())
		if err != nil {
			return nil, fmt.Errorf("failed to reload config: %w", err)
		}
		user = cfg
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.user = user
	l.merged = l.mergeConfigs(l.defaults, l.user)
	return l.merged, nil
}

// LoadFile loads a specific configuration file
func (l *Loader) LoadFile(path string) (*Config, error) {
	return l.loadConfigFile(path)
}

func (l *Loader) loadConfigFile(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return l.parseConfig(file)
}

// LoadString loads configuration from a string
func (l *Loader) LoadString(content string) (*Config, error) {
	return l.parseConfig(strings.NewReader(content))
}

// UseFile replaces the user layer with the file at path
func (l *Loader) UseFile(path string) error {
	cfg, err := l.loadConfigFile(path)
	if err != nil {
		return fmt.Errorf("failed to load config %s: %w", path, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.user = cfg
	l.merged = l.mergeConfigs(l.defaults, l.user)
	return nil
}

func (l *Loader) parseConfig(r io.Reader) (*Config, error) {
	var config Config
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true) // Strict parsing

	if err := decoder.Decode(&config); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := l.validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// validateConfig validates a configuration, filling in defaults for blank fields
func (l *Loader) validateConfig(config *Config) error {
	if config.Version == "" {
		config.Version = "1.0.0"
	}

	if list := config.List; list != nil {
		if _, err := viewport.ParseStrategy(list.Strategy); err != nil {
			return err
		}
		if list.ItemHeight < 0 {
			return fmt.Errorf("list itemHeight must be positive, got %d", list.ItemHeight)
		}
		if list.Overscan != nil && *list.Overscan < 0 {
			return fmt.Errorf("list overscan must not be negative, got %d", *list.Overscan)
		}
		if list.Width != "" {
			if err := viewport.Width(list.Width).Validate(); err != nil {
				return fmt.Errorf("list width: %w", err)
			}
		}
	}

	for name, tmpl := range config.Templates {
		if tmpl == nil {
			return fmt.Errorf("template %s is empty", name)
		}
		if tmpl.Name == "" {
			tmpl.Name = name
		}
		if strings.TrimSpace(tmpl.Template) == "" {
			return fmt.Errorf("template %s has no body", name)
		}
	}

	if cat := config.Catalog; cat != nil {
		if cat.Generate < 0 {
			return fmt.Errorf("catalog generate must not be negative, got %d", cat.Generate)
		}
		if cat.Source == SourceGenerated && cat.Generate == 0 {
			return fmt.Errorf("catalog source %q needs a generate count", SourceGenerated)
		}
		if _, err := catalog.ParseSortKey(cat.SortBy); err != nil {
			return err
		}
	}

	for name, theme := range config.Themes {
		if theme == nil {
			return fmt.Errorf("theme %s is empty", name)
		}
	}

	return nil
}

// mergeConfigs merges user config over defaults
func (l *Loader) mergeConfigs(defaults, user *Config) *Config {
	if user == nil {
		return defaults
	}
	if defaults == nil {
		return user
	}

	merged := *defaults

	if user.Version != "" {
		merged.Version = user.Version
	}
	if user.Theme != "" {
		merged.Theme = user.Theme
	}

	if user.List != nil {
		list := *defaults.List
		if user.List.Strategy != "" {
			list.Strategy = user.List.Strategy
		}
		if user.List.ItemHeight > 0 {
			list.ItemHeight = user.List.ItemHeight
		}
		if user.List.Overscan != nil {
			list.Overscan = user.List.Overscan
		}
		if user.List.Width != "" {
			list.Width = user.List.Width
		}
		list.ShowMetrics = user.List.ShowMetrics
		list.WrapDescriptions = user.List.WrapDescriptions
		merged.List = &list
	}

	merged.Templates = make(map[string]*TemplateConfig, len(defaults.Templates)+len(user.Templates))
	for k, v := range defaults.Templates {
		merged.Templates[k] = v
	}
	for k, v := range user.Templates {
		merged.Templates[k] = v
	}

	if user.Catalog != nil {
		cat := *defaults.Catalog
		if user.Catalog.Source != "" {
			cat.Source = user.Catalog.Source
		}
		if user.Catalog.Cache != "" {
			cat.Cache = user.Catalog.Cache
		}
		if user.Catalog.Generate > 0 {
			cat.Generate = user.Catalog.Generate
		}
		if user.Catalog.Seed != 0 {
			cat.Seed = user.Catalog.Seed
		}
		if user.Catalog.SortBy != "" {
			cat.SortBy = user.Catalog.SortBy
		}
		merged.Catalog = &cat
	}

	merged.Themes = make(map[string]*ThemeConfig, len(defaults.Themes)+len(user.Themes))
	for k, v := range defaults.Themes {
		merged.Themes[k] = v
	}
	for k, v := range user.Themes {
		merged.Themes[k] = v
	}

	return &merged
}

// Get returns the current configuration
func (l *Loader) Get() *Config {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.merged != nil {
		return l.merged
	}
	return l.defaults
}

// GetTemplate returns a template by name
func (l *Loader) GetTemplate(name string) *TemplateConfig {
	config := l.Get()
	if config.Templates != nil {
		if tmpl, ok := config.Templates[name]; ok {
			return tmpl
		}
	}
	return nil
}

// Save saves the current configuration to disk
func (l *Loader) Save() error {
	l.mu.RLock()
	config := l.user
	if config == nil {
		config = l.merged
	}
	l.mu.RUnlock()

	if config == nil {
		return fmt.Errorf("no configuration to save")
	}

	if err := os.MkdirAll(l.configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	configPath := filepath.Join(l.configDir, "config.yaml")
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// SetSortBy records the chosen sort key in the user layer and saves it
func (l *Loader) SetSortBy(key catalog.SortKey) error {
	l.mu.Lock()
	if l.user == nil {
		l.user = &Config{Version: "1.0.0"}
	}
	if l.user.Catalog == nil {
		l.user.Catalog = &CatalogConfig{}
	}
	l.user.Catalog.SortBy = string(key)
	l.merged = l.mergeConfigs(l.defaults, l.user)
	l.mu.Unlock()

	return l.Save()
}

// getDefaultConfig returns the default configuration, parsed from the embedded
// config.yaml with a hard-coded fallback
func getDefaultConfig() *Config {
	data, err := resources.DefaultConfig()
	if err == nil {
		l := &Loader{}
		if cfg, err := l.LoadString(string(data)); err == nil && cfg.List != nil && cfg.Catalog != nil {
			return cfg
		}
	}

	overscan := viewport.DefaultOverscan
	return &Config{
		Version: "1.0.0",
		Theme:   "default",
		List: &ListConfig{
			Strategy:         "variable",
			ItemHeight:       3,
			Overscan:         &overscan,
			Width:            string(viewport.DefaultWidth),
			ShowMetrics:      true,
			WrapDescriptions: true,
		},
		Templates: map[string]*TemplateConfig{},
		Catalog: &CatalogConfig{
			Source: SourceEmbedded,
			SortBy: string(catalog.SortByName),
		},
		Themes: map[string]*ThemeConfig{},
	}
}

// OverscanOrDefault returns the configured overscan or the list default
func (c *ListConfig) OverscanOrDefault() int {
	if c == nil || c.Overscan == nil {
		return viewport.DefaultOverscan
	}
	return *c.Overscan
}
