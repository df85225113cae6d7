package catalog

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/HamStudy/vlist/configs/resources"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
entries:
  - name: Alpha
    description: first
    modelType: onnx
    accessType: paid
    priceWei: 300
    rating: 4.5
    sizeBytes: 10
    updatedAt: 2025-01-02T00:00:00Z
  - id: fixed-id
    name: beta
    description: second
    tags: [vision]
    priceWei: 100
    rating: 3
    sizeBytes: 30
    updatedAt: 2025-01-03T00:00:00Z
  - name: Gamma
    modelType: pytorch
    accessType: paid
    priceWei: 100
    rating: 4.5
    sizeBytes: 20
    updatedAt: 2025-01-01T00:00:00Z
`

func TestDecodeYAML(t *testing.T) {
	entries, err := Decode(strings.NewReader(sampleYAML), FormatYAML)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	_, err = ulid.Parse(entries[0].ID)
	assert.NoError(t, err, "missing IDs are filled with ULIDs")
	assert.Equal(t, "fixed-id", entries[1].ID)

	assert.Equal(t, ModelCustom, entries[1].ModelType)
	assert.Equal(t, AccessPublic, entries[1].AccessType)
	assert.Equal(t, "1.0.0", entries[1].Version)
	assert.Equal(t, []string{"vision"}, entries[1].Tags)
	assert.Equal(t, uint64(300), entries[0].PriceWei)
}

func TestDecodeRejectsBadEntries(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown field", "entries:\n  - name: a\n    colour: red\n"},
		{"missing name", "entries:\n  - description: nothing\n"},
		{"bad model type", "entries:\n  - name: a\n    modelType: keras\n"},
		{"bad rating", "entries:\n  - name: a\n    rating: 7\n"},
		{"duplicate id", "entries:\n  - {id: x, name: a}\n  - {id: x, name: b}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.doc), FormatYAML)
			assert.Error(t, err)
		})
	}
}

func TestEncodeDecodeJSON(t *testing.T) {
	original := Generate(5, 1)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, FormatJSON, original))

	decoded, err := Decode(&buf, FormatJSON)
	require.NoError(t, err)
	require.Len(t, decoded, 5)
	for i := range original {
		assert.Equal(t, original[i].ID, decoded[i].ID)
		assert.Equal(t, original[i].Description, decoded[i].Description)
		assert.True(t, original[i].UpdatedAt.Equal(decoded[i].UpdatedAt))
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "catalog.yml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(sampleYAML), 0644))
	entries, err := LoadFile(yamlPath)
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	_, err = LoadFile(filepath.Join(dir, "catalog.csv"))
	assert.Error(t, err)

	_, err = LoadFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestLoadEmbeddedSample(t *testing.T) {
	fsys, err := resources.GetFS()
	require.NoError(t, err)

	entries, err := LoadFS(fsys, resources.CatalogFile)
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
	for _, e := range entries {
		assert.NotEmpty(t, e.ID)
		assert.NotEmpty(t, e.Name)
	}
}

func TestGenerate(t *testing.T) {
	a := Generate(200, 42)
	b := Generate(200, 42)
	require.Len(t, a, 200)
	assert.Equal(t, a, b, "same seed, same catalog")

	assert.Nil(t, Generate(0, 42))

	ids := make(map[string]bool)
	lengths := make(map[int]bool)
	for _, e := range a {
		require.NoError(t, e.Validate())
		assert.False(t, ids[e.ID], "duplicate id %s", e.ID)
		ids[e.ID] = true
		lengths[len(e.Description)] = true
		if e.AccessType != AccessPaid {
			assert.Zero(t, e.PriceWei)
		}
	}
	assert.Greater(t, len(lengths), 3, "descriptions should vary in length")
}

func TestSort(t *testing.T) {
	entries, err := Decode(strings.NewReader(sampleYAML), FormatYAML)
	require.NoError(t, err)

	names := func(list []Entry) []string {
		out := make([]string, len(list))
		for i, e := range list {
			out[i] = e.Name
		}
		return out
	}

	assert.Equal(t, []string{"Alpha", "beta", "Gamma"}, names(Sort(entries, SortByName)))
	assert.Equal(t, []string{"beta", "Gamma", "Alpha"}, names(Sort(entries, SortByPrice)))
	assert.Equal(t, []string{"Alpha", "Gamma", "beta"}, names(Sort(entries, SortByRating)))
	assert.Equal(t, []string{"beta", "Alpha", "Gamma"}, names(Sort(entries, SortByUpdated)))
	assert.Equal(t, []string{"Alpha", "Gamma", "beta"}, names(Sort(entries, SortBySize)))

	// Sort copies
	assert.Equal(t, "Alpha", entries[0].Name)
}

func TestParseSortKey(t *testing.T) {
	key, err := ParseSortKey("")
	require.NoError(t, err)
	assert.Equal(t, SortByName, key)

	key, err = ParseSortKey("Rating")
	require.NoError(t, err)
	assert.Equal(t, SortByRating, key)

	_, err = ParseSortKey("popularity")
	assert.Error(t, err)

	for _, k := range SortKeys() {
		assert.NotEqual(t, string(k), k.Label())
	}
}

func TestFilter(t *testing.T) {
	entries, err := Decode(strings.NewReader(sampleYAML), FormatYAML)
	require.NoError(t, err)

	assert.Len(t, Filter(entries, ""), 3)
	assert.Len(t, Filter(entries, "  "), 3)

	vision := Filter(entries, "VISION")
	require.Len(t, vision, 1)
	assert.Equal(t, "beta", vision[0].Name)

	assert.Len(t, Filter(entries, "pytorch"), 1)
	assert.Len(t, Filter(entries, "second"), 1)
	assert.Empty(t, Filter(entries, "nothing matches"))

	assert.Equal(t, 1, IndexOf(entries, "fixed-id"))
	assert.Equal(t, -1, IndexOf(entries, "nope"))
}

func TestEntryIsFree(t *testing.T) {
	assert.True(t, Entry{AccessType: AccessPublic}.IsFree())
	assert.True(t, Entry{AccessType: AccessPaid}.IsFree())
	assert.False(t, Entry{AccessType: AccessPaid, PriceWei: 1}.IsFree())
}

func TestStoreRoundTrip(t *testing.T) {
	store, err := OpenStore(filepath.Join(t.TempDir(), "cache", "catalog.db"))
	require.NoError(t, err)
	defer store.Close()

	_, ok, err := store.Info()
	require.NoError(t, err)
	assert.False(t, ok)

	empty, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, empty)

	entries := Generate(50, 9)
	before := time.Now()
	require.NoError(t, store.Save("generated", entries))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Len(t, loaded, 50)
	for i := range entries {
		assert.Equal(t, entries[i].ID, loaded[i].ID)
		assert.Equal(t, entries[i].Name, loaded[i].Name)
		assert.Equal(t, entries[i].PriceWei, loaded[i].PriceWei)
		assert.Equal(t, entries[i].SizeBytes, loaded[i].SizeBytes)
		assert.Equal(t, entries[i].Rating, loaded[i].Rating)
		assert.Equal(t, len(entries[i].Tags), len(loaded[i].Tags))
		assert.True(t, entries[i].UpdatedAt.Equal(loaded[i].UpdatedAt))
	}

	info, ok, err := store.Info()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "generated", info.Source)
	assert.Equal(t, 50, info.Count)
	assert.False(t, info.SavedAt.Before(before.Add(-time.Second)))

	// Saving again replaces the snapshot
	require.NoError(t, store.Save("embedded", entries[:3]))
	loaded, err = store.Load()
	require.NoError(t, err)
	assert.Len(t, loaded, 3)
}

func TestStoreKeepsMissingUpdatedAt(t *testing.T) {
	store, err := OpenStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	stamped := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Save("test", []Entry{
		{ID: "a", Name: "A"},
		{ID: "b", Name: "B", UpdatedAt: stamped},
	}))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.True(t, loaded[0].UpdatedAt.IsZero(), "got %v", loaded[0].UpdatedAt)
	assert.True(t, stamped.Equal(loaded[1].UpdatedAt))
}

func TestStoreInMemory(t *testing.T) {
	store, err := OpenStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Save("test", Generate(3, 1)))
	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Len(t, loaded, 3)

	var nilStore *Store
	assert.NoError(t, nilStore.Close())
}
