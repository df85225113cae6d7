package core

import (
	"os"
	"path/filepath"
)

// Config holds the runtime settings resolved from environment and flags
type Config struct {
	ConfigDir     string
	ConfigFile    string // explicit config file, overrides ConfigDir/config.yaml
	CatalogSource string // embedded, generated, or a file path
	CachePath     string // SQLite snapshot, empty to disable
	Generate      int
	Seed          int64
	Strategy      string
	ItemHeight    int
	Overscan      int // -1 keeps the configured value
	Width         string
	Theme         string
	SortBy        string
	LogFile       string
}

// LoadConfig loads the runtime configuration from the environment
func LoadConfig() (*Config, error) {
	config := &Config{
		Overscan: -1,
	}

	configDir := os.Getenv("VLIST_CONFIG_DIR")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".config", "vlist")
	}
	config.ConfigDir = configDir

	// VLIST_CATALOG points at a catalog file or names a built-in source
	config.CatalogSource = os.Getenv("VLIST_CATALOG")

	return config, nil
}
