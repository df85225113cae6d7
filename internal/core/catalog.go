package core

import (
	"context"
	"fmt"
	"log"

	"github.com/HamStudy/vlist/configs/resources"
	"github.com/HamStudy/vlist/internal/catalog"
	"github.com/HamStudy/vlist/internal/config"
)

// CatalogResult is a loaded catalog and where it came from
type CatalogResult struct {
	Entries   []catalog.Entry
	Source    string
	FromCache bool
}

// LoadCatalog reads the configured catalog source. Successful loads are
// snapshotted to the SQLite cache; when the source fails the last snapshot is
// used instead.
func LoadCatalog(ctx context.Context, s *Settings) (*CatalogResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := readSource(s)
	if err == nil {
		if s.CachePath != "" {
			if cacheErr := saveSnapshot(s.CachePath, s.CatalogSource, entries); cacheErr != nil {
				log.Printf("catalog cache: %v", cacheErr)
			}
		}
		return &CatalogResult{Entries: entries, Source: s.CatalogSource}, nil
	}

	if s.CachePath == "" {
		return nil, err
	}

	log.Printf("catalog source %s failed, trying cache: %v", s.CatalogSource, err)
	cached, source, cacheErr := loadSnapshot(s.CachePath)
	if cacheErr != nil {
		return nil, fmt.Errorf("%w (cache: %v)", err, cacheErr)
	}
	return &CatalogResult{Entries: cached, Source: source, FromCache: true}, nil
}

func readSource(s *Settings) ([]catalog.Entry, error) {
	switch s.CatalogSource {
	case config.SourceEmbedded:
		fsys, err := resources.GetFS()
		if err != nil {
			return nil, fmt.Errorf("failed to open embedded resources: %w", err)
		}
		return catalog.LoadFS(fsys, resources.CatalogFile)
	case config.SourceGenerated:
		return catalog.Generate(s.Generate, s.Seed), nil
	default:
		return catalog.LoadFile(s.CatalogSource)
	}
}

func saveSnapshot(path, source string, entries []catalog.Entry) error {
	store, err := catalog.OpenStore(path)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Save(source, entries)
}

func loadSnapshot(path string) ([]catalog.Entry, string, error) {
	store, err := catalog.OpenStore(path)
	if err != nil {
		return nil, "", err
	}
	defer store.Close()

	info, ok, err := store.Info()
	if err != nil {
		return nil, "", err
	}
	if !ok {
		return nil, "", fmt.Errorf("no cached catalog in %s", path)
	}
	entries, err := store.Load()
	if err != nil {
		return nil, "", err
	}
	return entries, info.Source, nil
}
