package commands

import (
	"sort"
	"sync"
)

// EntityLocks serializes lifecycle mutations per entity. Commands lock the
// order key first, then every involved product key in sorted order, so two
// concurrent operations touching the same product cannot interleave their
// stock check and stock write.
type EntityLocks struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// NewEntityLocks creates an empty lock table.
func NewEntityLocks() *EntityLocks {
	return &EntityLocks{entries: make(map[string]*lockEntry)}
}

// Acquire locks the given keys, deduplicated and in sorted order, and
// returns a release function that unlocks them in reverse.
func (l *EntityLocks) Acquire(keys ...string) func() {
	unique := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		unique[key] = struct{}{}
	}

	sorted := make([]string, 0, len(unique))
	for key := range unique {
		sorted = append(sorted, key)
	}
	sort.Strings(sorted)

	entries := make([]*lockEntry, 0, len(sorted))
	for _, key := range sorted {
		entries = append(entries, l.retain(key))
	}
	for _, entry := range entries {
		entry.mu.Lock()
	}

	return func() {
		for i := len(entries) - 1; i >= 0; i-- {
			entries[i].mu.Unlock()
		}
		for _, key := range sorted {
			l.release(key)
		}
	}
}

func (l *EntityLocks) retain(key string) *lockEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry, ok := l.entries[key]
	if !ok {
		entry = &lockEntry{}
		l.entries[key] = entry
	}
	entry.refs++
	return entry
}

func (l *EntityLocks) release(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry, ok := l.entries[key]
	if !ok {
		return
	}
	entry.refs--
	if entry.refs == 0 {
		delete(l.entries, key)
	}
}

func orderKey(id string) string   { return "order/" + id }
func productKey(id string) string { return "product/" + id }

func productKeys(items []string) []string {
	keys := make([]string, 0, len(items))
	for _, id := range items {
		keys = append(keys, productKey(id))
	}
	return keys
}
