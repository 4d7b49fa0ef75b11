// Package slot provides the keyed table that owns per-field differencing state.
package slot

// Table maps slot keys to their state and counts slot lifecycles.
//
// Entries are created lazily and retired explicitly; a retired key that comes
// back gets a new entry. The table never reuses a retired entry.
type Table[K comparable, V any] struct {
	entries map[K]V
	created int
	retired int
}

// NewTable creates an empty table.
func NewTable[K comparable, V any]() *Table[K, V] {
	return &Table[K, V]{entries: make(map[K]V)}
}

// Get returns the entry of key.
func (t *Table[K, V]) Get(key K) (V, bool) {
	v, ok := t.entries[key]
	return v, ok
}

// GetOrCreate returns the entry of key, creating it with create if absent.
// The boolean result reports whether a new entry was created.
func (t *Table[K, V]) GetOrCreate(key K, create func() (V, error)) (V, bool, error) {
	if v, ok := t.entries[key]; ok {
		return v, false, nil
	}

	v, err := create()
	if err != nil {
		var zero V
		return zero, false, err
	}
	t.entries[key] = v
	t.created++

	return v, true, nil
}

// Retire removes key. It reports whether an entry existed.
func (t *Table[K, V]) Retire(key K) bool {
	if _, ok := t.entries[key]; !ok {
		return false
	}
	delete(t.entries, key)
	t.retired++

	return true
}

// RetireUnless removes every entry whose key fails keep and returns how many
// were removed.
func (t *Table[K, V]) RetireUnless(keep func(K) bool) int {
	n := 0
	for key := range t.entries {
		if !keep(key) {
			delete(t.entries, key)
			n++
		}
	}
	t.retired += n

	return n
}

// Len returns the number of live entries.
func (t *Table[K, V]) Len() int {
	return len(t.entries)
}

// Created returns how many entries have been created since the last Reset.
func (t *Table[K, V]) Created() int {
	return t.created
}

// Retired returns how many entries have been retired since the last Reset.
func (t *Table[K, V]) Retired() int {
	return t.retired
}

// Reset drops every entry and the counters, keeping the map's storage.
func (t *Table[K, V]) Reset() {
	clear(t.entries)
	t.created = 0
	t.retired = 0
}
