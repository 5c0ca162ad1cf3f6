package content

import (
	"fmt"
	"sort"
	"strings"
)

// Table is a read-only lookup keyed by case- and whitespace-insensitive
// strings.
type Table[V any] struct {
	entries map[string]V
	names   map[string]string
}

// NewTable builds a table from parallel key and value slices. A key that
// appears twice, after normalization, is rejected with ErrDuplicateKey.
func NewTable[V any](keys []string, values []V) (*Table[V], error) {
	if len(keys) != len(values) {
		return nil, fmt.Errorf("content table: %d keys but %d values", len(keys), len(values))
	}
	t := &Table[V]{
		entries: make(map[string]V, len(keys)),
		names:   make(map[string]string, len(keys)),
	}
	for i, k := range keys {
		nk := normalizeKey(k)
		if nk == "" {
			return nil, fmt.Errorf("content table: empty key at index %d", i)
		}
		if prev, ok := t.names[nk]; ok {
			return nil, fmt.Errorf("%w: %q (first seen as %q)", ErrDuplicateKey, k, prev)
		}
		t.entries[nk] = values[i]
		t.names[nk] = k
	}
	return t, nil
}

// Get looks up key.
func (t *Table[V]) Get(key string) (V, bool) {
	v, ok := t.entries[normalizeKey(key)]
	return v, ok
}

// Len returns the number of entries.
func (t *Table[V]) Len() int {
	return len(t.entries)
}

// Keys returns the original spelling of every key, sorted.
func (t *Table[V]) Keys() []string {
	out := make([]string, 0, len(t.names))
	for _, name := range t.names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
