package resources

import (
	"embed"
	"io/fs"
)

// Paths inside the embedded filesystem
const (
	ConfigFile  = "config.yaml"
	CatalogFile = "catalog.yaml"
)

// EmbeddedFS contains the default configuration and the sample catalog
//
//go:embed all:embedded
var EmbeddedFS embed.FS

// GetFS returns the embedded filesystem rooted at "embedded"
func GetFS() (fs.FS, error) {
	return fs.Sub(EmbeddedFS, "embedded")
}

// DefaultConfig returns the bundled config.yaml
func DefaultConfig() ([]byte, error) {
	return EmbeddedFS.ReadFile("embedded/" + ConfigFile)
}
