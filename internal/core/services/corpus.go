package services

import (
	"sync"
	"time"

	"github.com/custodia-labs/biowatch/internal/core/domain"
	"github.com/custodia-labs/biowatch/internal/core/ports/driven"
)

// Corpus couples the change detector with the chunk store behind a single
// read/write lock. Writers apply whole poll cycles; readers scan chunks and
// never observe an identifier's old and new chunks together.
type Corpus struct {
	mu       sync.RWMutex
	detector *Detector
	chunker  driven.Chunker
	store    driven.ChunkStore
	now      func() time.Time
}

// NewCorpus creates a corpus from its parts.
func NewCorpus(detector *Detector, chunker driven.Chunker, store driven.ChunkStore) *Corpus {
	return &Corpus{
		detector: detector,
		chunker:  chunker,
		store:    store,
		now:      time.Now,
	}
}

// Apply classifies every batch in order and brings the chunk store in line
// with the resulting events, all under the write lock.
func (c *Corpus) Apply(batches []domain.PollBatch) []domain.ChangeEvent {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	var events []domain.ChangeEvent
	for _, batch := range batches {
		for _, ev := range c.detector.Classify(batch, now) {
			switch ev.Kind {
			case domain.ChangeAdded, domain.ChangeModified:
				c.ingestLocked(ev.Identifier, ev.Content, ev.Category, now)
			case domain.ChangeDeleted:
				c.store.Retire(ev.Identifier)
			}
			events = append(events, ev)
		}
	}
	return events
}

// Ingest replaces every chunk of id with chunks cut from content.
func (c *Corpus) Ingest(id domain.SourceIdentifier, content string, category domain.Category) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ingestLocked(id, content, category, c.now())
}

func (c *Corpus) ingestLocked(id domain.SourceIdentifier, content string, category domain.Category, at time.Time) {
	c.store.Replace(id, c.chunker.Chunk(id, content, category, at))
}

// Retire removes every chunk of id.
func (c *Corpus) Retire(id domain.SourceIdentifier) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.Retire(id)
}

// Scan calls fn for every chunk in natural order while holding the read lock.
func (c *Corpus) Scan(fn func(domain.Chunk) bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	c.store.Scan(fn)
}

// Stats returns a snapshot of the corpus counters.
func (c *Corpus) Stats() domain.Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	total, byCategory := c.store.Counts()
	return domain.Stats{
		TrackedIdentifiers: c.detector.Len(),
		ChunkCount:         total,
		InternalCount:      byCategory[domain.CategoryInternal],
		ExternalCount:      byCategory[domain.CategoryExternal],
	}
}
