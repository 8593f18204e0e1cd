package snapshot

import (
	"maps"
	"slices"
)

// Entry is one key/value pair of a namespace.
type Entry struct {
	Key   string
	Value []byte
}

// Snapshot holds the contents of one namespace with entries sorted by key.
type Snapshot struct {
	Namespace string
	Entries   []Entry
}

// FromMap copies data into a Snapshot for namespace.
func FromMap(namespace string, data map[string][]byte) *Snapshot {
	keys := slices.Sorted(maps.Keys(data))
	entries := make([]Entry, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, Entry{Key: k, Value: clone(data[k])})
	}
	return &Snapshot{Namespace: namespace, Entries: entries}
}

// Map copies the snapshot entries into a fresh map.
func (s *Snapshot) Map() map[string][]byte {
	data := make(map[string][]byte, len(s.Entries))
	for _, e := range s.Entries {
		data[e.Key] = clone(e.Value)
	}
	return data
}

// Len returns the number of entries.
func (s *Snapshot) Len() int {
	return len(s.Entries)
}

// clone never returns nil so empty values survive a round trip.
func clone(v []byte) []byte {
	return append(make([]byte, 0, len(v)), v...)
}
