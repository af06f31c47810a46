package driven

import "github.com/custodia-labs/biowatch/internal/core/domain"

// ChunkStore holds the chunk collection keyed by identifier.
// Callers serialise writes; implementations must still be safe for
// concurrent readers.
type ChunkStore interface {
	// Replace swaps every chunk of id for chunks. An empty slice leaves id
	// with no chunks.
	Replace(id domain.SourceIdentifier, chunks []domain.Chunk)

	// Retire removes every chunk of id.
	Retire(id domain.SourceIdentifier)

	// Chunks returns the chunks of id in index order.
	Chunks(id domain.SourceIdentifier) []domain.Chunk

	// Scan calls fn for every chunk in natural (insertion) order until fn
	// returns false.
	Scan(fn func(domain.Chunk) bool)

	// Counts returns the total chunk count and the count per category.
	Counts() (total int, byCategory map[domain.Category]int)
}
