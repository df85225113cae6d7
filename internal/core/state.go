package core

import (
	"sync"

	"github.com/HamStudy/vlist/internal/catalog"
)

// State holds the application state shared between the app and its commands
type State struct {
	mu sync.RWMutex

	// Loaded catalog before filtering
	All []catalog.Entry
	// Entries currently shown, after sort and filter
	Visible []catalog.Entry

	Source          string
	FilterString    string
	SortKey         catalog.SortKey
	SelectedID      string
	ShowHelp        bool
	ShowDetail      bool
	LoadedFromCache bool

	config *Config
}

// NewState creates a new application state
func NewState(config *Config) *State {
	sortKey, err := catalog.ParseSortKey(config.SortBy)
	if err != nil {
		sortKey = catalog.SortByName
	}
	return &State{
		Source:     config.CatalogSource,
		SortKey:    sortKey,
		ShowDetail: true,
		config:     config,
	}
}

// Config returns the runtime configuration the state was created with
func (s *State) Config() *Config {
	return s.config
}

// SetEntries replaces the catalog and recomputes the visible entries
func (s *State) SetEntries(entries []catalog.Entry, source string, fromCache bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.All = entries
	s.Source = source
	s.LoadedFromCache = fromCache
	s.refreshLocked()
}

// SetFilter updates the filter string and recomputes the visible entries
func (s *State) SetFilter(filter string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.FilterString = filter
	s.refreshLocked()
}

// SetSortKey changes the ordering and recomputes the visible entries
func (s *State) SetSortKey(key catalog.SortKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SortKey = key
	s.refreshLocked()
}

// SetSelectedID records the selected entry
func (s *State) SetSelectedID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SelectedID = id
}

// VisibleEntries returns the entries currently shown
func (s *State) VisibleEntries() []catalog.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Visible
}

// Counts returns the number of shown and loaded entries
func (s *State) Counts() (visible, total int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.Visible), len(s.All)
}

func (s *State) refreshLocked() {
	s.Visible = catalog.Filter(catalog.Sort(s.All, s.SortKey), s.FilterString)
}
