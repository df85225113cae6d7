package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a catalog document
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// document is the on-disk shape of a catalog file
type document struct {
	Entries []Entry `yaml:"entries" json:"entries"`
}

// FormatForPath picks the decoder from a file extension
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported catalog format %q", filepath.Ext(path))
	}
}

// LoadFile reads a catalog from a YAML or JSON file
func LoadFile(path string) ([]Entry, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer file.Close()

	return Decode(file, format)
}

// LoadFS reads a catalog from a filesystem, typically the embedded sample
func LoadFS(fsys fs.FS, path string) ([]Entry, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}

	file, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer file.Close()

	return Decode(file, format)
}

// Decode parses a catalog document and fills in missing IDs
func Decode(r io.Reader, format Format) ([]Entry, error) {
	var doc document
	switch format {
	case FormatYAML:
		decoder := yaml.NewDecoder(r)
		decoder.KnownFields(true)
		if err := decoder.Decode(&doc); err != nil && err != io.EOF {
			return nil, fmt.Errorf("failed to parse catalog: %w", err)
		}
	case FormatJSON:
		decoder := json.NewDecoder(r)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&doc); err != nil && err != io.EOF {
			return nil, fmt.Errorf("failed to parse catalog: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", format)
	}

	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	seen := make(map[string]bool, len(doc.Entries))
	for i := range doc.Entries {
		entry := &doc.Entries[i]
		if err := entry.Validate(); err != nil {
			return nil, fmt.Errorf("invalid catalog entry %d: %w", i, err)
		}
		if entry.ID == "" {
			ts := entry.UpdatedAt
			if ts.Before(time.Unix(0, 0)) {
				ts = time.Now()
			}
			entry.ID = ulid.MustNew(ulid.Timestamp(ts), entropy).String()
		}
		if seen[entry.ID] {
			return nil, fmt.Errorf("duplicate catalog entry id %q", entry.ID)
		}
		seen[entry.ID] = true
	}

	return doc.Entries, nil
}

// Encode writes entries as a catalog document
func Encode(w io.Writer, format Format, entries []Entry) error {
	doc := document{Entries: entries}
	switch format {
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode catalog: %w", err)
		}
		return encoder.Close()
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode catalog: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported catalog format %q", format)
	}
}
