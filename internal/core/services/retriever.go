package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/biowatch/internal/core/domain"
	"github.com/custodia-labs/biowatch/internal/core/ports/driving"
	"github.com/custodia-labs/biowatch/internal/logger"
)

// Ensure Retriever implements the interface.
var _ driving.RetrievalService = (*Retriever)(nil)

// MinTokenLength is the shortest query token that contributes to a score.
const MinTokenLength = 4

// Retriever ranks stored chunks by lexical overlap with a query.
type Retriever struct {
	corpus *Corpus
}

// NewRetriever creates a retriever reading from corpus.
func NewRetriever(corpus *Corpus) *Retriever {
	return &Retriever{corpus: corpus}
}

// Retrieve returns up to opts.TopK chunks ordered by descending score.
// A chunk's score is the number of case-insensitive occurrences of every
// query token in its text. Ties keep the store's natural order.
func (r *Retriever) Retrieve(
	ctx context.Context,
	query string,
	opts domain.RetrieveOptions,
) ([]domain.ScoredChunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.Category != nil && !opts.Category.IsValid() {
		return nil, fmt.Errorf("%w: unknown category %q", domain.ErrInvalidInput, *opts.Category)
	}

	results := []domain.ScoredChunk{}
	tokens := Tokenize(query)
	if opts.TopK <= 0 || len(tokens) == 0 {
		logger.Debug("Retrieve %q: nothing to score (top_k=%d, tokens=%d)", query, opts.TopK, len(tokens))
		return results, nil
	}

	r.corpus.Scan(func(c domain.Chunk) bool {
		if opts.Category != nil && c.Category != *opts.Category {
			return true
		}
		if score := Score(tokens, c.Text); score > 0 {
			results = append(results, domain.ScoredChunk{Chunk: c, Score: score})
		}
		return true
	})

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > opts.TopK {
		results = results[:opts.TopK]
	}

	logger.Debug("Retrieve %q: %d result(s)", query, len(results))
	return results, nil
}

// Tokenize splits query on whitespace, lower-cases each token and drops
// tokens shorter than MinTokenLength characters. Duplicates are kept.
func Tokenize(query string) []string {
	var tokens []string
	for _, tok := range strings.Fields(strings.ToLower(query)) {
		if utf8.RuneCountInString(tok) >= MinTokenLength {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// Score sums the non-overlapping occurrence count of every token in text.
// Tokens must already be lower-cased.
func Score(tokens []string, text string) int {
	lower := strings.ToLower(text)
	score := 0
	for _, tok := range tokens {
		score += strings.Count(lower, tok)
	}
	return score
}
