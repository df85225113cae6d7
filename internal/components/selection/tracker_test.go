package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func rows(ids ...string) []Identity {
	out := make([]Identity, len(ids))
	for i, id := range ids {
		out[i] = Identity{ID: id, Name: "name-" + id}
	}
	return out
}

func TestTracker_Empty(t *testing.T) {
	tr := New()
	assert.False(t, tr.HasSelection())
	assert.Equal(t, 0, tr.RestoreSelection())
	assert.Equal(t, 0, tr.MoveSelection(3))
	_, ok := tr.Selected()
	assert.False(t, ok)
}

func TestTracker_MoveAndClamp(t *testing.T) {
	tr := New()
	tr.SetRows(rows("a", "b", "c"))

	assert.Equal(t, 0, tr.Select(0))
	assert.Equal(t, 2, tr.MoveSelection(5))
	assert.Equal(t, 0, tr.MoveSelection(-10))
	assert.Equal(t, 1, tr.MoveSelection(1))

	selected, ok := tr.Selected()
	assert.True(t, ok)
	assert.Equal(t, "b", selected.ID)
	assert.Equal(t, 3, tr.RowCount())
}

func TestTracker_RestoreByID(t *testing.T) {
	tr := New()
	tr.SetRows(rows("a", "b", "c", "d"))
	tr.Select(2) // c

	// Re-sorted collection
	tr.SetRows(rows("d", "c", "b", "a"))
	assert.Equal(t, 1, tr.RestoreSelection())
	selected, _ := tr.Selected()
	assert.Equal(t, "c", selected.ID)
}

func TestTracker_RestoreByName(t *testing.T) {
	tr := New()
	tr.SetRows([]Identity{{ID: "1", Name: "alpha"}, {ID: "2", Name: "beta"}})
	tr.Select(1)

	tr.SetRows([]Identity{{ID: "9", Name: "beta"}, {ID: "8", Name: "alpha"}})
	assert.Equal(t, 0, tr.RestoreSelection())
	selected, _ := tr.Selected()
	assert.Equal(t, "9", selected.ID)
}

func TestTracker_RestoreMissingKeepsRow(t *testing.T) {
	tr := New()
	tr.SetRows(rows("a", "b", "c", "d"))
	tr.Select(1)

	// b was filtered out; the row stays put
	tr.SetRows(rows("a", "c", "d"))
	assert.Equal(t, 1, tr.RestoreSelection())
	selected, _ := tr.Selected()
	assert.Equal(t, "c", selected.ID)

	// shorter list clamps to the end
	tr.Select(2)
	tr.SetRows(rows("x"))
	assert.Equal(t, 0, tr.RestoreSelection())

	tr.SetRows(nil)
	assert.Equal(t, 0, tr.RestoreSelection())
	assert.False(t, tr.HasSelection())
}

func TestTracker_Clear(t *testing.T) {
	tr := New()
	tr.SetRows(rows("a", "b"))
	tr.Select(1)
	tr.Clear()

	assert.False(t, tr.HasSelection())
	assert.Equal(t, 0, tr.SelectedRow())
	assert.Equal(t, 0, tr.RowCount())
}
