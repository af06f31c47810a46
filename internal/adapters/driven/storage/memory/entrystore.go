package memory

import (
	"sync"

	"github.com/custodia-labs/biowatch/internal/core/domain"
	"github.com/custodia-labs/biowatch/internal/core/ports/driven"
)

// Ensure EntryStore implements the interface.
var _ driven.EntryStore = (*EntryStore)(nil)

// EntryStore is an in-memory implementation of driven.EntryStore.
type EntryStore struct {
	mu      sync.RWMutex
	entries map[domain.SourceIdentifier]domain.TrackedEntry
}

// NewEntryStore creates a new in-memory tracked entry store.
func NewEntryStore() *EntryStore {
	return &EntryStore{
		entries: make(map[domain.SourceIdentifier]domain.TrackedEntry),
	}
}

// Get retrieves the tracked entry for id.
func (s *EntryStore) Get(id domain.SourceIdentifier) (domain.TrackedEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[id]
	return entry, ok
}

// Put stores or updates a tracked entry.
func (s *EntryStore) Put(entry domain.TrackedEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.Identifier] = entry
}

// Delete removes the tracked entry for id.
func (s *EntryStore) Delete(id domain.SourceIdentifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
}

// BySource returns the identifiers owned by source, in no particular order.
func (s *EntryStore) BySource(source string) []domain.SourceIdentifier {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ids []domain.SourceIdentifier
	for id, entry := range s.entries {
		if entry.Source == source {
			ids = append(ids, id)
		}
	}
	return ids
}

// Len returns the number of tracked identifiers.
func (s *EntryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
