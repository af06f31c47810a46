package driven

import (
	"time"

	"github.com/custodia-labs/biowatch/internal/core/domain"
)

// Chunker splits document content into chunks.
type Chunker interface {
	// Chunk cuts content into contiguous chunks indexed from 0.
	// Blank content produces no chunks.
	Chunk(id domain.SourceIdentifier, content string, category domain.Category, at time.Time) []domain.Chunk
}
