package memory

import (
	"slices"
	"sync"

	"github.com/custodia-labs/biowatch/internal/core/domain"
	"github.com/custodia-labs/biowatch/internal/core/ports/driven"
)

// Ensure ChunkStore implements the interface.
var _ driven.ChunkStore = (*ChunkStore)(nil)

// ChunkStore is an in-memory implementation of driven.ChunkStore.
// Natural order is the order in which identifiers were last replaced.
type ChunkStore struct {
	mu     sync.RWMutex
	chunks map[domain.SourceIdentifier][]domain.Chunk
	order  []domain.SourceIdentifier
}

// NewChunkStore creates a new in-memory chunk store.
func NewChunkStore() *ChunkStore {
	return &ChunkStore{
		chunks: make(map[domain.SourceIdentifier][]domain.Chunk),
	}
}

// Replace swaps the chunks of id and moves it to the end of natural order.
func (s *ChunkStore) Replace(id domain.SourceIdentifier, chunks []domain.Chunk) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeLocked(id)
	if len(chunks) == 0 {
		return
	}
	s.chunks[id] = slices.Clone(chunks)
	s.order = append(s.order, id)
}

// Retire removes every chunk of id.
func (s *ChunkStore) Retire(id domain.SourceIdentifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(id)
}

func (s *ChunkStore) removeLocked(id domain.SourceIdentifier) {
	if _, ok := s.chunks[id]; !ok {
		return
	}
	delete(s.chunks, id)
	if i := slices.Index(s.order, id); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
}

// Chunks returns a copy of the chunks stored for id.
func (s *ChunkStore) Chunks(id domain.SourceIdentifier) []domain.Chunk {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.chunks[id])
}

// Scan calls fn for every chunk in natural order until fn returns false.
// fn must not call back into the store.
func (s *ChunkStore) Scan(fn func(domain.Chunk) bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.order {
		for _, c := range s.chunks[id] {
			if !fn(c) {
				return
			}
		}
	}
}

// Counts returns the total chunk count and the count per category.
func (s *ChunkStore) Counts() (int, map[domain.Category]int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	byCategory := make(map[domain.Category]int)
	for _, chunks := range s.chunks {
		total += len(chunks)
		for _, c := range chunks {
			byCategory[c.Category]++
		}
	}
	return total, byCategory
}

// Len returns the number of identifiers holding chunks.
func (s *ChunkStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
