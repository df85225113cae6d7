package core

import (
	"fmt"

	"github.com/HamStudy/vlist/internal/catalog"
	"github.com/HamStudy/vlist/internal/components/viewport"
	"github.com/HamStudy/vlist/internal/config"
)

// Settings is the effective configuration: the config file with runtime
// overrides from the environment and the command line applied on top
type Settings struct {
	Strategy         viewport.Strategy
	ItemHeight       int
	Overscan         int
	Width            viewport.Width
	ShowMetrics      bool
	WrapDescriptions bool
	Theme            string
	SortBy           catalog.SortKey
	CatalogSource    string
	CachePath        string
	Generate         int
	Seed             int64
}

// ResolveSettings merges the config file with the runtime overrides
func ResolveSettings(file *config.Config, overrides *Config) (*Settings, error) {
	list := file.List
	if list == nil {
		list = &config.ListConfig{}
	}
	cat := file.Catalog
	if cat == nil {
		cat = &config.CatalogConfig{}
	}

	s := &Settings{
		ItemHeight:       list.ItemHeight,
		Overscan:         list.OverscanOrDefault(),
		Width:            viewport.Width(list.Width),
		ShowMetrics:      list.ShowMetrics,
		WrapDescriptions: list.WrapDescriptions,
		Theme:            file.Theme,
		CatalogSource:    cat.Source,
		CachePath:        cat.Cache,
		Generate:         cat.Generate,
		Seed:             cat.Seed,
	}
	strategy := list.Strategy
	sortBy := cat.SortBy

	if overrides != nil {
		if overrides.Strategy != "" {
			strategy = overrides.Strategy
		}
		if overrides.ItemHeight > 0 {
			s.ItemHeight = overrides.ItemHeight
		}
		if overrides.Overscan >= 0 {
			s.Overscan = overrides.Overscan
		}
		if overrides.Width != "" {
			s.Width = viewport.Width(overrides.Width)
		}
		if overrides.Theme != "" {
			s.Theme = overrides.Theme
		}
		if overrides.SortBy != "" {
			sortBy = overrides.SortBy
		}
		if overrides.CatalogSource != "" {
			s.CatalogSource = overrides.CatalogSource
		}
		if overrides.CachePath != "" {
			s.CachePath = overrides.CachePath
		}
		if overrides.Generate > 0 {
			s.Generate = overrides.Generate
		}
		if overrides.Seed != 0 {
			s.Seed = overrides.Seed
		}
	}

	var err error
	if s.Strategy, err = viewport.ParseStrategy(strategy); err != nil {
		return nil, err
	}
	if s.SortBy, err = catalog.ParseSortKey(sortBy); err != nil {
		return nil, err
	}
	if err := s.Width.Validate(); err != nil {
		return nil, fmt.Errorf("list width: %w", err)
	}
	if s.ItemHeight <= 0 {
		s.ItemHeight = 1
	}
	if s.Width == "" {
		s.Width = viewport.DefaultWidth
	}
	if s.Theme == "" {
		s.Theme = "default"
	}
	if s.CatalogSource == "" {
		s.CatalogSource = config.SourceEmbedded
	}
	if s.CatalogSource == config.SourceGenerated && s.Generate <= 0 {
		return nil, fmt.Errorf("catalog source %q needs a generate count", config.SourceGenerated)
	}
	return s, nil
}
