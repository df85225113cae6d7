package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// SortKey names an ordering of the catalog
type SortKey string

const (
	SortByName    SortKey = "name"
	SortByPrice   SortKey = "price"
	SortByRating  SortKey = "rating"
	SortByUpdated SortKey = "updated"
	SortBySize    SortKey = "size"
)

// SortKeys lists every supported ordering in menu order
func SortKeys() []SortKey {
	return []SortKey{SortByName, SortByPrice, SortByRating, SortByUpdated, SortBySize}
}

// Label returns a display name for the key
func (k SortKey) Label() string {
	switch k {
	case SortByName:
		return "Name"
	case SortByPrice:
		return "Price"
	case SortByRating:
		return "Rating"
	case SortByUpdated:
		return "Recently updated"
	case SortBySize:
		return "Size"
	default:
		return string(k)
	}
}

// ParseSortKey validates a configured sort key
func ParseSortKey(s string) (SortKey, error) {
	if s == "" {
		return SortByName, nil
	}
	for _, k := range SortKeys() {
		if string(k) == strings.ToLower(s) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

// Sort returns a sorted copy of entries. Ties fall back to name then ID so the
// order is stable across reloads.
func Sort(entries []Entry, key SortKey) []Entry {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)

	less := func(a, b Entry) (bool, bool) {
		switch key {
		case SortByPrice:
			return a.PriceWei < b.PriceWei, a.PriceWei == b.PriceWei
		case SortByRating:
			return a.Rating > b.Rating, a.Rating == b.Rating
		case SortByUpdated:
			return a.UpdatedAt.After(b.UpdatedAt), a.UpdatedAt.Equal(b.UpdatedAt)
		case SortBySize:
			return a.SizeBytes < b.SizeBytes, a.SizeBytes == b.SizeBytes
		default:
			return false, true
		}
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if lt, eq := less(a, b); !eq {
			return lt
		}
		an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name)
		if an != bn {
			return an < bn
		}
		return a.ID < b.ID
	})

	return sorted
}

// Filter returns the entries matching query, preserving order
func Filter(entries []Entry, query string) []Entry {
	if strings.TrimSpace(query) == "" {
		return entries
	}
	filtered := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if entry.Matches(query) {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}

// IndexOf returns the position of the entry with id, or -1
func IndexOf(entries []Entry, id string) int {
	for i := range entries {
		if entries[i].ID == id {
			return i
		}
	}
	return -1
}
