package selection

import (
	"sync"
)

// Identity identifies a list entry independently of its row
type Identity struct {
	ID   string // Stable entry ID, the primary match
	Name string // Fallback match when an entry is re-created under a new ID
}

// Tracker keeps the selected entry across collection replacement (reload, sort, filter)
type Tracker struct {
	selected    *Identity
	rows        []Identity
	byID        map[string]int
	selectedRow int
	mu          sync.RWMutex
}

// New creates a new selection tracker
func New() *Tracker {
	return &Tracker{
		byID: make(map[string]int),
	}
}

// SetRows replaces the row to identity mapping
func (t *Tracker) SetRows(rows []Identity) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.rows = append(t.rows[:0:0], rows...)
	t.byID = make(map[string]int, len(rows))
	for i, identity := range t.rows {
		if _, dup := t.byID[identity.ID]; !dup {
			t.byID[identity.ID] = i
		}
	}
}

// Select moves the selection to row, clamped to the rows present
func (t *Tracker) Select(row int) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.selectLocked(row)
}

// MoveSelection moves the selection by the given delta
func (t *Tracker) MoveSelection(delta int) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.selectLocked(t.selectedRow + delta)
}

// SelectedRow returns the currently selected row index
func (t *Tracker) SelectedRow() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.selectedRow
}

// Selected returns the identity of the selected entry
func (t *Tracker) Selected() (Identity, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.selected == nil {
		return Identity{}, false
	}
	return *t.selected, true
}

// HasSelection returns true if there is a current selection
func (t *Tracker) HasSelection() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.selected != nil
}

// RowCount returns the number of tracked rows
func (t *Tracker) RowCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

// RestoreSelection finds the previously selected entry in the current rows and
// returns its row. An entry that disappeared leaves the selection at the same
// row, or the last row when the list got shorter.
func (t *Tracker) RestoreSelection() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.rows) == 0 {
		t.selectedRow = 0
		t.selected = nil
		return 0
	}

	if t.selected != nil {
		if row, ok := t.byID[t.selected.ID]; ok {
			return t.selectLocked(row)
		}
		if t.selected.Name != "" {
			for row, identity := range t.rows {
				if identity.Name == t.selected.Name {
					return t.selectLocked(row)
				}
			}
		}
	}

	return t.selectLocked(t.selectedRow)
}

// Clear clears all selection data
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.selected = nil
	t.rows = nil
	t.byID = make(map[string]int)
	t.selectedRow = 0
}

func (t *Tracker) selectLocked(row int) int {
	if len(t.rows) == 0 {
		t.selectedRow = 0
		t.selected = nil
		return 0
	}
	if row < 0 {
		row = 0
	} else if row >= len(t.rows) {
		row = len(t.rows) - 1
	}

	t.selectedRow = row
	identity := t.rows[row]
	t.selected = &identity
	return row
}
