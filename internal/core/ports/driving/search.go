package driving

import (
	"context"

	"github.com/custodia-labs/biowatch/internal/core/domain"
)

// RetrievalService answers relevance queries against the current corpus.
type RetrievalService interface {
	// Retrieve scores stored chunks against query and returns the top results.
	// It never mutates the corpus and is safe to call during a poll cycle.
	Retrieve(ctx context.Context, query string, opts domain.RetrieveOptions) ([]domain.ScoredChunk, error)
}
